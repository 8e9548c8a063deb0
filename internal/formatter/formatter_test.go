package formatter

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/rmx/internal/models"
	"github.com/desertthunder/rmx/internal/shared"
	th "github.com/desertthunder/rmx/internal/testing"
)

func fixtureItems() []models.FavoriteItem {
	return []models.FavoriteItem{
		models.CharacterItem(models.Character{
			ID: 1, Name: "Rick Sanchez", Status: "Alive", Species: "Human", Gender: "Male",
			Origin:   models.NamedLink{Name: "Earth (C-137)"},
			Location: models.NamedLink{Name: "Citadel of Ricks"},
		}),
		models.EpisodeItem(models.Episode{
			ID: 28, Name: "The Ricklantis Mixup", Episode: "S03E07", AirDate: "September 10, 2017",
			Characters: []string{"a", "b"},
		}),
		models.LocationItem(models.Location{
			ID: 3, Name: "Citadel of Ricks", Type: "Space station", Dimension: "unknown",
			Residents: []string{"a", "b", "c"},
		}),
	}
}

func TestExporters(t *testing.T) {
	items := fixtureItems()

	t.Run("ExportToCSV", func(t *testing.T) {
		data, err := ExportToCSV(models.KindCharacter, items)
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}

		output := string(data)
		if !strings.Contains(output, "ID,Name,Status,Species,Gender,Origin,Location") {
			t.Errorf("CSV missing headers, got: %s", output)
		}
		if !strings.Contains(output, "1,Rick Sanchez,Alive,Human,Male,Earth (C-137),Citadel of Ricks") {
			t.Errorf("CSV missing character row, got: %s", output)
		}
		if strings.Contains(output, "Ricklantis") {
			t.Error("CSV for characters should not include episodes")
		}
	})

	t.Run("ExportToCSV counts related links", func(t *testing.T) {
		data, err := ExportToCSV(models.KindLocation, items)
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}
		if !strings.Contains(string(data), "3,Citadel of Ricks,Space station,unknown,3") {
			t.Errorf("unexpected location CSV: %s", data)
		}
	})

	t.Run("ExportToMarkdown", func(t *testing.T) {
		data, err := ExportToMarkdown("Favorites", items)
		if err != nil {
			t.Fatalf("ExportToMarkdown failed: %v", err)
		}

		output := string(data)
		for _, want := range []string{
			"# Favorites",
			"**Items**: 3",
			"## Characters (1)",
			"## Episodes (1)",
			"## Locations (1)",
			"| ID | Name | Episode | Air Date | Characters |",
			"| 28 | The Ricklantis Mixup | S03E07 | September 10, 2017 | 2 |",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("Markdown missing %q, got:\n%s", want, output)
			}
		}
	})

	t.Run("ExportToMarkdown skips empty kinds", func(t *testing.T) {
		data, _ := ExportToMarkdown("Only characters", items[:1])
		if strings.Contains(string(data), "## Episodes") {
			t.Error("expected empty kinds to be skipped")
		}
	})

	t.Run("ExportToText", func(t *testing.T) {
		data, err := ExportToText(items, func(i models.FavoriteItem) bool { return i.Kind == models.KindEpisode })
		if err != nil {
			t.Fatalf("ExportToText failed: %v", err)
		}

		lines := strings.Split(strings.TrimSpace(string(data)), "\n")
		if len(lines) != 3 {
			t.Fatalf("expected 3 lines, got %d", len(lines))
		}
		if !strings.Contains(lines[0], "[character #1] Rick Sanchez (Alive • Human)") {
			t.Errorf("unexpected first line %q", lines[0])
		}
		if !strings.HasPrefix(lines[1], "★") {
			t.Errorf("expected episode to be starred, got %q", lines[1])
		}
		if strings.HasPrefix(lines[0], "★") {
			t.Errorf("expected character to be unstarred, got %q", lines[0])
		}
	})
}

func TestRender(t *testing.T) {
	items := fixtureItems()

	t.Run("json", func(t *testing.T) {
		data, err := Render("json", "", items)
		if err != nil {
			t.Fatalf("Render failed: %v", err)
		}
		var decoded []map[string]any
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("expected valid JSON: %v", err)
		}
		if len(decoded) != 3 || decoded[2]["kind"] != "locations" {
			t.Errorf("unexpected JSON: %s", data)
		}
	})

	t.Run("csv includes a block per kind", func(t *testing.T) {
		data, err := Render("csv", "", items)
		if err != nil {
			t.Fatalf("Render failed: %v", err)
		}
		if strings.Count(string(data), "ID,Name,") != 3 {
			t.Errorf("expected three header rows, got:\n%s", data)
		}
	})

	t.Run("unknown format", func(t *testing.T) {
		_, err := Render("xml", "", items)
		if !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})
}

func TestWriteExport(t *testing.T) {
	items := fixtureItems()

	t.Run("csv writes one file per kind", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "export")
		result, err := WriteExport(items[:2], "csv", "Favorites", dir)
		if err != nil {
			t.Fatalf("WriteExport failed: %v", err)
		}
		if len(result.Files) != 2 {
			t.Fatalf("expected 2 files, got %v", result.Files)
		}

		th.AssertDirExists(t, dir)
		th.AssertFileExists(t, filepath.Join(dir, "characters.csv"))
		th.AssertFileExists(t, filepath.Join(dir, "episodes.csv"))

		content := th.MustReadFile(t, filepath.Join(dir, "episodes.csv"))
		if !strings.Contains(content, "S03E07") {
			t.Errorf("episodes.csv missing record, got %s", content)
		}
	})

	t.Run("markdown", func(t *testing.T) {
		dir := t.TempDir()
		result, err := WriteExport(items, "markdown", "My favorites", dir)
		if err != nil {
			t.Fatalf("WriteExport failed: %v", err)
		}
		if len(result.Files) != 1 {
			t.Fatalf("expected README.md only, got %v", result.Files)
		}
		if !strings.Contains(th.MustReadFile(t, result.Files[0]), "# My favorites") {
			t.Error("README.md missing title")
		}
	})

	t.Run("txt and json", func(t *testing.T) {
		for _, format := range []string{"txt", "json"} {
			dir := t.TempDir()
			result, err := WriteExport(items, format, "", dir)
			if err != nil {
				t.Fatalf("%s: WriteExport failed: %v", format, err)
			}
			th.AssertFileExists(t, result.Files[0])
		}
	})

	t.Run("rejects unknown format", func(t *testing.T) {
		if _, err := WriteExport(items, "pdf", "", t.TempDir()); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("WriteManifest", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "manifest.json")
		if err := WriteManifest(map[string]int{"total": 3}, path); err != nil {
			t.Fatalf("WriteManifest failed: %v", err)
		}
		if !strings.Contains(th.MustReadFile(t, path), `"total": 3`) {
			t.Error("manifest content mismatch")
		}
	})
}
