package services

import (
	"context"

	"github.com/desertthunder/rmx/internal/models"
)

// Catalog reads paginated, filtered pages and ID lookups for the three resource kinds.
type Catalog interface {
	// Characters returns one page of characters. Page numbers below 1 mean page 1.
	Characters(ctx context.Context, page int, filter CharacterFilter) (*models.Page[models.Character], error)

	// Episodes returns one page of episodes.
	Episodes(ctx context.Context, page int, filter EpisodeFilter) (*models.Page[models.Episode], error)

	// Locations returns one page of locations.
	Locations(ctx context.Context, page int, filter LocationFilter) (*models.Page[models.Location], error)

	// CharactersByIDs resolves ids to records. The result is always a slice, possibly empty.
	CharactersByIDs(ctx context.Context, ids []int) ([]models.Character, error)

	// EpisodesByIDs resolves ids to records.
	EpisodesByIDs(ctx context.Context, ids []int) ([]models.Episode, error)

	// LocationsByIDs resolves ids to records.
	LocationsByIDs(ctx context.Context, ids []int) ([]models.Location, error)

	// Name returns the name of the catalog (e.g., "Rick and Morty API")
	Name() string
}
