package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/desertthunder/rmx/internal/formatter"
	"github.com/desertthunder/rmx/internal/models"
	"github.com/desertthunder/rmx/internal/services"
	"github.com/desertthunder/rmx/internal/shared"
	"github.com/urfave/cli/v3"
)

// pageView is the JSON shape of a listed page.
type pageView struct {
	Kind    string                `json:"kind"`
	Page    int                   `json:"page"`
	Info    models.Info           `json:"info"`
	Results []models.FavoriteItem `json:"results"`
}

// ListCharacters prints one page of characters.
func (r *Runner) ListCharacters(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireServices(); err != nil {
		return err
	}

	page := int(cmd.Int("page"))
	filter := services.CharacterFilter{
		Name:    cmd.String("name"),
		Status:  cmd.String("status"),
		Species: cmd.String("species"),
	}

	r.logger.Debug("listing characters", "page", page, "filter", filter.Values().Encode())
	result, err := r.catalog.Characters(ctx, page, filter)
	if err != nil {
		return r.catalogError(models.KindCharacter, err)
	}
	return r.renderPage(ctx, cmd.String("format"), models.KindCharacter, page, result.Info, models.CharacterItems(result.Results))
}

// ListEpisodes prints one page of episodes.
func (r *Runner) ListEpisodes(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireServices(); err != nil {
		return err
	}

	page := int(cmd.Int("page"))
	filter := services.EpisodeFilter{
		Name:    cmd.String("name"),
		Episode: cmd.String("episode"),
	}

	r.logger.Debug("listing episodes", "page", page, "filter", filter.Values().Encode())
	result, err := r.catalog.Episodes(ctx, page, filter)
	if err != nil {
		return r.catalogError(models.KindEpisode, err)
	}
	return r.renderPage(ctx, cmd.String("format"), models.KindEpisode, page, result.Info, models.EpisodeItems(result.Results))
}

// ListLocations prints one page of locations.
func (r *Runner) ListLocations(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireServices(); err != nil {
		return err
	}

	page := int(cmd.Int("page"))
	filter := services.LocationFilter{
		Name:      cmd.String("name"),
		Type:      cmd.String("type"),
		Dimension: cmd.String("dimension"),
	}

	r.logger.Debug("listing locations", "page", page, "filter", filter.Values().Encode())
	result, err := r.catalog.Locations(ctx, page, filter)
	if err != nil {
		return r.catalogError(models.KindLocation, err)
	}
	return r.renderPage(ctx, cmd.String("format"), models.KindLocation, page, result.Info, models.LocationItems(result.Results))
}

// GetCharacters prints the characters with the given IDs.
func (r *Runner) GetCharacters(ctx context.Context, cmd *cli.Command) error {
	return r.getByIDs(ctx, cmd, models.KindCharacter)
}

// GetEpisodes prints the episodes with the given IDs.
func (r *Runner) GetEpisodes(ctx context.Context, cmd *cli.Command) error {
	return r.getByIDs(ctx, cmd, models.KindEpisode)
}

// GetLocations prints the locations with the given IDs.
func (r *Runner) GetLocations(ctx context.Context, cmd *cli.Command) error {
	return r.getByIDs(ctx, cmd, models.KindLocation)
}

func (r *Runner) getByIDs(ctx context.Context, cmd *cli.Command, kind models.Kind) error {
	if err := r.requireServices(); err != nil {
		return err
	}

	ids, err := parseIDs(cmd.Args().Slice())
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return fmt.Errorf("%w: at least one id is required", shared.ErrMissingArgument)
	}

	var items []models.FavoriteItem
	switch kind {
	case models.KindCharacter:
		found, err := r.catalog.CharactersByIDs(ctx, ids)
		if err != nil {
			return r.catalogError(kind, err)
		}
		items = models.CharacterItems(found)
	case models.KindEpisode:
		found, err := r.catalog.EpisodesByIDs(ctx, ids)
		if err != nil {
			return r.catalogError(kind, err)
		}
		items = models.EpisodeItems(found)
	case models.KindLocation:
		found, err := r.catalog.LocationsByIDs(ctx, ids)
		if err != nil {
			return r.catalogError(kind, err)
		}
		items = models.LocationItems(found)
	}

	return r.renderItems(ctx, cmd.String("format"), titleFor(kind), items)
}

func (r *Runner) renderPage(ctx context.Context, format string, kind models.Kind, page int, info models.Info, items []models.FavoriteItem) error {
	if page < 1 {
		page = 1
	}

	switch format {
	case "json":
		return r.writeJSON(pageView{Kind: kind.String(), Page: page, Info: info, Results: items}, true)
	case "txt", "":
		r.writePlainHeader(fmt.Sprintf("%s • page %d of %d (%d total)", titleFor(kind), page, info.Pages, info.Count))
		if err := r.renderItems(ctx, "txt", "", items); err != nil {
			return err
		}
		var nav []string
		if info.Prev != nil {
			nav = append(nav, fmt.Sprintf("prev: --page %d", page-1))
		}
		if info.Next != nil {
			nav = append(nav, fmt.Sprintf("next: --page %d", page+1))
		}
		for _, n := range nav {
			r.writePlain("  %s\n", n)
		}
		return nil
	default:
		return r.renderItems(ctx, format, fmt.Sprintf("%s (page %d)", titleFor(kind), page), items)
	}
}

// renderItems writes items in format. Text output stars the current user's favorites.
func (r *Runner) renderItems(ctx context.Context, format, title string, items []models.FavoriteItem) error {
	if format == "" || format == "txt" {
		if len(items) == 0 {
			return r.writePlain("No results.\n")
		}
		data, err := formatter.ExportToText(items, func(it models.FavoriteItem) bool {
			return r.favorites != nil && r.favorites.IsFavorite(ctx, it.ID(), it.Kind)
		})
		if err != nil {
			return err
		}
		return r.writePlain("%s", data)
	}

	data, err := formatter.Render(format, title, items)
	if err != nil {
		return err
	}
	return r.writePlain("%s\n", data)
}

// catalogError prints the message shown to users and returns the wrapped failure.
func (r *Runner) catalogError(kind models.Kind, err error) error {
	r.writePlain("%s\n", services.DisplayMessage(err))
	return fmt.Errorf("failed to fetch %s: %w", kind, err)
}

func parseIDs(args []string) ([]int, error) {
	ids := make([]int, 0, len(args))
	for _, arg := range args {
		id, err := parseID(arg)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func parseID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("%w: id must be a positive integer, got %q", shared.ErrInvalidArgument, arg)
	}
	return id, nil
}

func titleFor(kind models.Kind) string {
	s := kind.String()
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
