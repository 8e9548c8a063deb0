package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/rmx/internal/models"
	"github.com/desertthunder/rmx/internal/shared"
	"github.com/desertthunder/rmx/internal/tasks"
	"github.com/urfave/cli/v3"
)

// currentUser returns the logged-in email or [shared.ErrNotAuthenticated].
func (r *Runner) currentUser() (string, error) {
	email, active := r.identity.CurrentUser()
	if !active {
		return "", fmt.Errorf("%w: log in first (rmx auth login <email> <password>)", shared.ErrNotAuthenticated)
	}
	return email, nil
}

func parseKindAndID(cmd *cli.Command) (models.Kind, int, error) {
	kind, err := models.ParseKind(cmd.StringArg("kind"))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %v", shared.ErrInvalidArgument, err)
	}
	id, err := parseID(cmd.StringArg("id"))
	if err != nil {
		return 0, 0, err
	}
	return kind, id, nil
}

// FavoritesList resolves every favorite against the catalog and prints them.
//
// A kind whose lookup fails is reported and shown as empty; the others still print.
func (r *Runner) FavoritesList(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireServices(); err != nil {
		return err
	}
	user, err := r.currentUser()
	if err != nil {
		return err
	}

	progress := make(chan tasks.ProgressUpdate, len(models.Kinds)*2)
	collection := r.collector.Collect(ctx, r.favorites.AllIDs(ctx), progress)
	close(progress)
	for update := range progress {
		r.logger.Debug(update.Message, "phase", update.Phase.String(), "step", update.Step)
	}

	format := cmd.String("format")
	if format == "" || format == "txt" {
		r.writePlainHeader(fmt.Sprintf("Favorites of %s (%d)", user, collection.Len()))
	}
	if err := r.renderItems(ctx, format, "Favorites of "+user, collection.Items()); err != nil {
		return err
	}

	for _, f := range collection.Failures {
		r.writePlain("Could not load %s: %v\n", f.Kind, f.Error)
	}
	return nil
}

// FavoritesIDs prints the stored IDs per kind without contacting the catalog.
func (r *Runner) FavoritesIDs(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireServices(); err != nil {
		return err
	}
	if _, err := r.currentUser(); err != nil {
		return err
	}

	ids := r.favorites.AllIDs(ctx)
	if cmd.Bool("json") {
		return r.writeJSON(ids, false)
	}

	for _, kind := range models.Kinds {
		r.writePlain("%-10s %v\n", kind.String()+":", ids.Of(kind))
	}
	return nil
}

// FavoritesToggle adds or removes a favorite for the current user.
func (r *Runner) FavoritesToggle(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireServices(); err != nil {
		return err
	}
	kind, id, err := parseKindAndID(cmd)
	if err != nil {
		return err
	}
	if _, err := r.currentUser(); err != nil {
		return err
	}

	if err := r.favorites.Toggle(ctx, id, kind); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrStorage, err)
	}

	if r.favorites.IsFavorite(ctx, id, kind) {
		return r.writePlain("★ Added %s #%d to favorites\n", kind.Resource(), id)
	}
	return r.writePlain("Removed %s #%d from favorites\n", kind.Resource(), id)
}

// FavoritesCheck reports membership. Without a session nothing is a favorite.
func (r *Runner) FavoritesCheck(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireServices(); err != nil {
		return err
	}
	kind, id, err := parseKindAndID(cmd)
	if err != nil {
		return err
	}

	if r.favorites.IsFavorite(ctx, id, kind) {
		return r.writePlain("★ %s #%d is a favorite\n", kind.Resource(), id)
	}
	return r.writePlain("%s #%d is not a favorite\n", kind.Resource(), id)
}

// FavoritesExport writes the resolved favorites and a manifest into a directory.
func (r *Runner) FavoritesExport(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireServices(); err != nil {
		return err
	}
	user, err := r.currentUser()
	if err != nil {
		return err
	}

	opts := tasks.ExportOpts{
		Format:    cmd.String("format"),
		OutputDir: cmd.String("dir"),
		Title:     cmd.String("title"),
	}

	progress := make(chan tasks.ProgressUpdate, 16)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progress {
			r.logger.Info(update.Message, "phase", update.Phase.String())
		}
	}()

	result, err := r.collector.Export(ctx, user, r.favorites.AllIDs(ctx), opts, progress)
	close(progress)
	<-done
	if err != nil {
		return err
	}

	m := result.Manifest
	r.writePlainHeader("Export complete")
	r.writePlain("Characters: %d\nEpisodes:   %d\nLocations:  %d\n", m.Characters, m.Episodes, m.Locations)
	for _, f := range m.Failures {
		r.writePlain("Failed: %s\n", f)
	}
	r.writePlainln("Files:")
	for _, f := range m.Files {
		r.writePlain("  %s\n", f)
	}
	return r.writePlain("  %s\n", result.ManifestPath)
}
