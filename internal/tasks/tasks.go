// package tasks resolves favorite ID sets into catalog records and exports them.
//
// Operations emit progress updates via channels for non-blocking status reporting to CLI/UI layers.
package tasks

import (
	"context"
	"io"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/rmx/internal/models"
	"github.com/desertthunder/rmx/internal/services"
	"golang.org/x/sync/errgroup"
)

// KindFailure records a kind whose lookup failed and was replaced by an empty list.
type KindFailure struct {
	Kind  models.Kind
	Error error
}

// Collection holds the resolved records of one favorites snapshot.
type Collection struct {
	Characters []models.Character
	Episodes   []models.Episode
	Locations  []models.Location
	Failures   []KindFailure
}

// Items returns the records as a tagged union ordered characters, episodes, locations.
func (c *Collection) Items() []models.FavoriteItem {
	items := make([]models.FavoriteItem, 0, c.Len())
	items = append(items, models.CharacterItems(c.Characters)...)
	items = append(items, models.EpisodeItems(c.Episodes)...)
	items = append(items, models.LocationItems(c.Locations)...)
	return items
}

// Len returns the number of resolved records.
func (c *Collection) Len() int {
	return len(c.Characters) + len(c.Episodes) + len(c.Locations)
}

// Collector fans favorite lookups out to the catalog.
type Collector struct {
	catalog services.Catalog
	logger  *log.Logger
}

// NewCollector creates a Collector reading from catalog.
func NewCollector(catalog services.Catalog, logger *log.Logger) *Collector {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Collector{catalog: catalog, logger: logger.With("component", "collector")}
}

// sendProgress sends a progress update through the channel without blocking.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// Collect resolves ids with up to three concurrent lookups, one per kind.
//
// A kind with no IDs issues no request. A failed lookup is logged, recorded in
// [Collection.Failures] and replaced by an empty list; it never aborts the others.
func (c *Collector) Collect(ctx context.Context, ids models.FavoriteIDs, progress chan<- ProgressUpdate) *Collection {
	result := &Collection{
		Characters: []models.Character{},
		Episodes:   []models.Episode{},
		Locations:  []models.Location{},
	}

	var mu sync.Mutex
	fail := func(kind models.Kind, err error) {
		c.logger.Error("favorite lookup failed", "kind", kind, "err", err)
		mu.Lock()
		result.Failures = append(result.Failures, KindFailure{Kind: kind, Error: err})
		mu.Unlock()
	}

	g, gctx := errgroup.WithContext(ctx)

	if set := ids.Characters; len(set) > 0 {
		g.Go(func() error {
			sendProgress(progress, fetchKindUpdate(models.KindCharacter, len(set)))
			chars, err := c.catalog.CharactersByIDs(gctx, set)
			if err != nil {
				fail(models.KindCharacter, err)
				return nil
			}
			if chars != nil {
				result.Characters = chars
			}
			sendProgress(progress, fetchedKindUpdate(models.KindCharacter, len(chars)))
			return nil
		})
	}

	if set := ids.Episodes; len(set) > 0 {
		g.Go(func() error {
			sendProgress(progress, fetchKindUpdate(models.KindEpisode, len(set)))
			eps, err := c.catalog.EpisodesByIDs(gctx, set)
			if err != nil {
				fail(models.KindEpisode, err)
				return nil
			}
			if eps != nil {
				result.Episodes = eps
			}
			sendProgress(progress, fetchedKindUpdate(models.KindEpisode, len(eps)))
			return nil
		})
	}

	if set := ids.Locations; len(set) > 0 {
		g.Go(func() error {
			sendProgress(progress, fetchKindUpdate(models.KindLocation, len(set)))
			locs, err := c.catalog.LocationsByIDs(gctx, set)
			if err != nil {
				fail(models.KindLocation, err)
				return nil
			}
			if locs != nil {
				result.Locations = locs
			}
			sendProgress(progress, fetchedKindUpdate(models.KindLocation, len(locs)))
			return nil
		})
	}

	// Lookups never return errors; failures were substituted above.
	_ = g.Wait()
	return result
}
