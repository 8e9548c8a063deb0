package tasks

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/desertthunder/rmx/internal/formatter"
	"github.com/desertthunder/rmx/internal/models"
	"github.com/desertthunder/rmx/internal/shared"
)

// ExportOpts configures [Collector.Export].
type ExportOpts struct {
	Format    string // json, csv, markdown or txt (default: json)
	OutputDir string // default: favorites_export_{epoch}
	Title     string // Markdown heading (default: "Favorites")
}

// ExportManifest summarises an export and is written next to the exported files.
type ExportManifest struct {
	User       string    `json:"user"`
	Format     string    `json:"format"`
	CreatedAt  time.Time `json:"created_at"`
	Characters int       `json:"characters"`
	Episodes   int       `json:"episodes"`
	Locations  int       `json:"locations"`
	Files      []string  `json:"files"`
	Failures   []string  `json:"failures,omitempty"`
}

// ExportResult contains the collection and the files written for it.
type ExportResult struct {
	Collection   *Collection
	Manifest     ExportManifest
	ManifestPath string
}

// Export resolves ids and writes the records to disk in opts.Format.
//
// Lookup failures do not abort the export; they are listed in the manifest.
func (c *Collector) Export(ctx context.Context, user string, ids models.FavoriteIDs, opts ExportOpts, progress chan<- ProgressUpdate) (*ExportResult, error) {
	if opts.Format == "" {
		opts.Format = "json"
	}
	if !formatter.ValidFormat(opts.Format) {
		return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, opts.Format)
	}
	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("favorites_export_%d", time.Now().Unix())
	}
	if opts.Title == "" {
		opts.Title = "Favorites"
	}

	collection := c.Collect(ctx, ids, progress)

	sendProgress(progress, exportStartedUpdate(opts.Format, opts.OutputDir))
	written, err := formatter.WriteExport(collection.Items(), opts.Format, opts.Title, opts.OutputDir)
	if err != nil {
		return nil, err
	}

	manifest := ExportManifest{
		User:       user,
		Format:     opts.Format,
		CreatedAt:  time.Now().UTC(),
		Characters: len(collection.Characters),
		Episodes:   len(collection.Episodes),
		Locations:  len(collection.Locations),
		Files:      written.Files,
	}
	for _, f := range collection.Failures {
		manifest.Failures = append(manifest.Failures, fmt.Sprintf("%s: %v", f.Kind, f.Error))
	}

	manifestPath := filepath.Join(opts.OutputDir, "export_manifest.json")
	if err := formatter.WriteManifest(manifest, manifestPath); err != nil {
		return nil, fmt.Errorf("export completed but failed to write manifest: %w", err)
	}

	sendProgress(progress, exportCompletedUpdate(len(written.Files), opts.OutputDir))
	c.logger.Info("favorites exported", "dir", opts.OutputDir, "format", opts.Format, "files", len(written.Files))

	return &ExportResult{Collection: collection, Manifest: manifest, ManifestPath: manifestPath}, nil
}
