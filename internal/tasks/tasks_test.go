package tasks

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/desertthunder/rmx/internal/models"
	"github.com/desertthunder/rmx/internal/services"
	tu "github.com/desertthunder/rmx/internal/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drain(ch chan ProgressUpdate) []ProgressUpdate {
	close(ch)
	var out []ProgressUpdate
	for u := range ch {
		out = append(out, u)
	}
	return out
}

func TestCollector_Collect(t *testing.T) {
	ctx := context.Background()

	t.Run("empty snapshot issues no requests", func(t *testing.T) {
		catalog := tu.SampleCatalog()
		got := NewCollector(catalog, nil).Collect(ctx, models.EmptyFavoriteIDs(), nil)

		assert.Equal(t, 0, catalog.TotalCalls())
		assert.Equal(t, 0, got.Len())
		assert.NotNil(t, got.Characters)
		assert.NotNil(t, got.Episodes)
		assert.NotNil(t, got.Locations)
		assert.Empty(t, got.Items())
	})

	t.Run("only kinds with IDs are requested", func(t *testing.T) {
		catalog := tu.SampleCatalog()
		ids := models.FavoriteIDs{Characters: []int{1}, Episodes: []int{}, Locations: []int{}}

		got := NewCollector(catalog, nil).Collect(ctx, ids, nil)

		assert.Equal(t, 1, catalog.Calls("CharactersByIDs"))
		assert.Equal(t, 0, catalog.Calls("EpisodesByIDs"))
		assert.Equal(t, 0, catalog.Calls("LocationsByIDs"))
		require.Len(t, got.Characters, 1)
		assert.Equal(t, "Rick Sanchez", got.Characters[0].Name)
	})

	t.Run("items are ordered characters, episodes, locations", func(t *testing.T) {
		catalog := tu.SampleCatalog()
		ids := models.FavoriteIDs{Characters: []int{2, 1}, Episodes: []int{2}, Locations: []int{3}}

		items := NewCollector(catalog, nil).Collect(ctx, ids, nil).Items()

		require.Len(t, items, 4)
		assert.Equal(t, models.KindCharacter, items[0].Kind)
		assert.Equal(t, 2, items[0].ID())
		assert.Equal(t, models.KindCharacter, items[1].Kind)
		assert.Equal(t, models.KindEpisode, items[2].Kind)
		assert.Equal(t, models.KindLocation, items[3].Kind)
		assert.Equal(t, "Citadel of Ricks", items[3].Name())
	})

	t.Run("a failing kind is replaced by an empty list", func(t *testing.T) {
		catalog := tu.SampleCatalog()
		catalog.EpisodeErr = &services.UpstreamError{StatusCode: 500, Message: "boom"}
		ids := models.FavoriteIDs{Characters: []int{1}, Episodes: []int{1}, Locations: []int{1}}

		got := NewCollector(catalog, nil).Collect(ctx, ids, nil)

		assert.Len(t, got.Characters, 1)
		assert.NotNil(t, got.Episodes)
		assert.Empty(t, got.Episodes)
		assert.Len(t, got.Locations, 1)
		require.Len(t, got.Failures, 1)
		assert.Equal(t, models.KindEpisode, got.Failures[0].Kind)

		var upstream *services.UpstreamError
		assert.True(t, errors.As(got.Failures[0].Error, &upstream))
	})

	t.Run("all kinds failing still returns a collection", func(t *testing.T) {
		catalog := tu.SampleCatalog()
		catalog.CharacterErr = errors.New("down")
		catalog.EpisodeErr = errors.New("down")
		catalog.LocationErr = errors.New("down")
		ids := models.FavoriteIDs{Characters: []int{1}, Episodes: []int{1}, Locations: []int{1}}

		got := NewCollector(catalog, nil).Collect(ctx, ids, nil)

		assert.Equal(t, 0, got.Len())
		assert.Len(t, got.Failures, 3)
	})

	t.Run("progress updates are sent per kind", func(t *testing.T) {
		catalog := tu.SampleCatalog()
		progress := make(chan ProgressUpdate, 16)
		ids := models.FavoriteIDs{Characters: []int{1}, Locations: []int{1}}

		NewCollector(catalog, nil).Collect(ctx, ids, progress)
		updates := drain(progress)

		phases := map[Phase]int{}
		for _, u := range updates {
			phases[u.Phase]++
		}
		assert.Equal(t, 2, phases[FetchCharacters])
		assert.Equal(t, 2, phases[FetchLocations])
		assert.Zero(t, phases[FetchEpisodes])
	})

	t.Run("a full progress channel never blocks", func(t *testing.T) {
		catalog := tu.SampleCatalog()
		progress := make(chan ProgressUpdate)
		ids := models.FavoriteIDs{Characters: []int{1, 2, 3}, Episodes: []int{1}, Locations: []int{1}}

		got := NewCollector(catalog, nil).Collect(ctx, ids, progress)
		assert.Equal(t, 5, got.Len())
	})
}

func TestCollector_Export(t *testing.T) {
	ctx := context.Background()
	ids := models.FavoriteIDs{Characters: []int{1, 2}, Episodes: []int{1}, Locations: []int{}}

	t.Run("writes files and manifest", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "out")
		result, err := NewCollector(tu.SampleCatalog(), nil).Export(ctx, "rick@citadel.io", ids, ExportOpts{Format: "csv", OutputDir: dir}, nil)
		require.NoError(t, err)

		assert.Equal(t, 2, result.Manifest.Characters)
		assert.Equal(t, 1, result.Manifest.Episodes)
		assert.Len(t, result.Manifest.Files, 2)
		assert.Equal(t, "rick@citadel.io", result.Manifest.User)
		tu.AssertFileExists(t, result.ManifestPath)
		assert.Contains(t, tu.MustReadFile(t, result.ManifestPath), `"format": "csv"`)
	})

	t.Run("defaults to json", func(t *testing.T) {
		dir := t.TempDir()
		result, err := NewCollector(tu.SampleCatalog(), nil).Export(ctx, "", ids, ExportOpts{OutputDir: dir}, nil)
		require.NoError(t, err)
		assert.Equal(t, "json", result.Manifest.Format)
		tu.AssertFileExists(t, filepath.Join(dir, "favorites.json"))
	})

	t.Run("failures are listed in the manifest", func(t *testing.T) {
		catalog := tu.SampleCatalog()
		catalog.CharacterErr = errors.New("down")

		result, err := NewCollector(catalog, nil).Export(ctx, "", ids, ExportOpts{Format: "txt", OutputDir: t.TempDir()}, nil)
		require.NoError(t, err)
		require.Len(t, result.Manifest.Failures, 1)
		assert.Contains(t, result.Manifest.Failures[0], "characters")
	})

	t.Run("rejects unknown format before fetching", func(t *testing.T) {
		catalog := tu.SampleCatalog()
		_, err := NewCollector(catalog, nil).Export(ctx, "", ids, ExportOpts{Format: "pdf", OutputDir: t.TempDir()}, nil)
		assert.Error(t, err)
		assert.Zero(t, catalog.TotalCalls())
	})
}

func TestPhase(t *testing.T) {
	assert.Equal(t, "fetch_characters", FetchCharacters.String())
	assert.Equal(t, "export_favorites", ExportFavorites.String())
	assert.Equal(t, "", Phase(99).String())
	assert.Equal(t, FetchLocations, phaseFor(models.KindLocation))
}
