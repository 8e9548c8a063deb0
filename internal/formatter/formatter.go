// package formatter renders catalog records and favorite collections as CSV, Markdown, plain text or JSON
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/desertthunder/rmx/internal/models"
	"github.com/desertthunder/rmx/internal/shared"
)

// Formats lists the accepted export formats.
var Formats = []string{"json", "csv", "markdown", "txt"}

// ValidFormat reports whether format is one of [Formats].
func ValidFormat(format string) bool {
	for _, f := range Formats {
		if f == format {
			return true
		}
	}
	return false
}

// Headers returns the CSV/table columns for kind.
func Headers(kind models.Kind) []string {
	switch kind {
	case models.KindCharacter:
		return []string{"ID", "Name", "Status", "Species", "Gender", "Origin", "Location"}
	case models.KindEpisode:
		return []string{"ID", "Name", "Episode", "Air Date", "Characters"}
	case models.KindLocation:
		return []string{"ID", "Name", "Type", "Dimension", "Residents"}
	default:
		return nil
	}
}

// Record returns the column values for item in the order of [Headers].
func Record(item models.FavoriteItem) []string {
	switch {
	case item.Kind == models.KindCharacter && item.Character != nil:
		c := item.Character
		return []string{strconv.Itoa(c.ID), c.Name, c.Status, c.Species, c.Gender, c.Origin.Name, c.Location.Name}
	case item.Kind == models.KindEpisode && item.Episode != nil:
		e := item.Episode
		return []string{strconv.Itoa(e.ID), e.Name, e.Episode, e.AirDate, strconv.Itoa(len(e.Characters))}
	case item.Kind == models.KindLocation && item.Location != nil:
		l := item.Location
		return []string{strconv.Itoa(l.ID), l.Name, l.Type, l.Dimension, strconv.Itoa(len(l.Residents))}
	default:
		return nil
	}
}

// ofKind keeps the items tagged with kind.
func ofKind(items []models.FavoriteItem, kind models.Kind) []models.FavoriteItem {
	out := []models.FavoriteItem{}
	for _, item := range items {
		if item.Kind == kind {
			out = append(out, item)
		}
	}
	return out
}

// ExportToCSV renders the items of kind as CSV with a header row.
func ExportToCSV(kind models.Kind, items []models.FavoriteItem) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(Headers(kind)); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, item := range ofKind(items, kind) {
		if err := writer.Write(Record(item)); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown renders items as one Markdown table per kind under a top-level title.
//
// Kinds without items are skipped.
func ExportToMarkdown(title string, items []models.FavoriteItem) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", title))
	buf.WriteString(fmt.Sprintf("**Items**: %d\n", len(items)))

	for _, kind := range models.Kinds {
		group := ofKind(items, kind)
		if len(group) == 0 {
			continue
		}

		buf.WriteString(fmt.Sprintf("\n## %s (%d)\n\n", titleCase(kind.String()), len(group)))

		headers := Headers(kind)
		buf.WriteString("| " + strings.Join(headers, " | ") + " |\n")
		buf.WriteString("|" + strings.Repeat(" --- |", len(headers)) + "\n")
		for _, item := range group {
			cells := Record(item)
			for i, cell := range cells {
				cells[i] = strings.ReplaceAll(cell, "|", `\|`)
			}
			buf.WriteString("| " + strings.Join(cells, " | ") + " |\n")
		}
	}

	return buf.Bytes(), nil
}

// ExportToText renders items as a numbered plain-text list. Items for which marked returns true get a star.
func ExportToText(items []models.FavoriteItem, marked func(models.FavoriteItem) bool) ([]byte, error) {
	var buf bytes.Buffer

	for i, item := range items {
		star := " "
		if marked != nil && marked(item) {
			star = "★"
		}
		buf.WriteString(fmt.Sprintf("%s %3d. [%s #%d] %s", star, i+1, item.Kind.Resource(), item.ID(), item.Name()))
		if summary := item.Summary(); summary != "" {
			buf.WriteString(fmt.Sprintf(" (%s)", summary))
		}
		buf.WriteString("\n")
	}

	return buf.Bytes(), nil
}

// Render dispatches to the exporter for format. CSV output concatenates one block per kind present.
func Render(format, title string, items []models.FavoriteItem) ([]byte, error) {
	switch format {
	case "csv":
		var buf bytes.Buffer
		for _, kind := range models.Kinds {
			if len(ofKind(items, kind)) == 0 {
				continue
			}
			data, err := ExportToCSV(kind, items)
			if err != nil {
				return nil, err
			}
			if buf.Len() > 0 {
				buf.WriteString("\n")
			}
			buf.Write(data)
		}
		return buf.Bytes(), nil
	case "markdown":
		return ExportToMarkdown(title, items)
	case "txt":
		return ExportToText(items, nil)
	case "json":
		return shared.MarshalJSON(items, true)
	default:
		return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, format)
	}
}

// ExportResult lists the files written by [WriteExport].
type ExportResult struct {
	Directory string
	Files     []string
}

// WriteExport writes items into dir in the given format.
//
// CSV produces {kind}.csv per non-empty kind, Markdown produces README.md, text produces favorites.txt
// and JSON produces favorites.json.
func WriteExport(items []models.FavoriteItem, format, title, dir string) (*ExportResult, error) {
	if !ValidFormat(format) {
		return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, format)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	result := &ExportResult{Directory: dir, Files: []string{}}

	write := func(name string, data []byte) error {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", name, err)
		}
		result.Files = append(result.Files, path)
		return nil
	}

	switch format {
	case "csv":
		for _, kind := range models.Kinds {
			if len(ofKind(items, kind)) == 0 {
				continue
			}
			data, err := ExportToCSV(kind, items)
			if err != nil {
				return nil, fmt.Errorf("failed to generate CSV: %w", err)
			}
			if err := write(kind.String()+".csv", data); err != nil {
				return nil, err
			}
		}
	case "markdown":
		data, err := ExportToMarkdown(title, items)
		if err != nil {
			return nil, fmt.Errorf("failed to generate Markdown: %w", err)
		}
		if err := write("README.md", data); err != nil {
			return nil, err
		}
	case "txt":
		data, err := ExportToText(items, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to generate text: %w", err)
		}
		if err := write("favorites.txt", data); err != nil {
			return nil, err
		}
	case "json":
		data, err := shared.MarshalJSON(items, true)
		if err != nil {
			return nil, fmt.Errorf("JSON marshal failed: %w", err)
		}
		if err := write("favorites.json", data); err != nil {
			return nil, err
		}
	}

	return result, nil
}

// WriteManifest writes v as indented JSON to path.
func WriteManifest(v any, path string) error {
	data, err := shared.MarshalJSON(v, true)
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
