package tasks

import (
	"fmt"

	"github.com/desertthunder/rmx/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	FetchCharacters Phase = iota
	FetchEpisodes
	FetchLocations
	ExportFavorites
)

func (p Phase) String() string {
	switch p {
	case FetchCharacters:
		return "fetch_characters"
	case FetchEpisodes:
		return "fetch_episodes"
	case FetchLocations:
		return "fetch_locations"
	case ExportFavorites:
		return "export_favorites"
	default:
		return ""
	}
}

func phaseFor(kind models.Kind) Phase {
	switch kind {
	case models.KindEpisode:
		return FetchEpisodes
	case models.KindLocation:
		return FetchLocations
	default:
		return FetchCharacters
	}
}

func fetchKindUpdate(kind models.Kind, n int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   phaseFor(kind),
		Step:    0,
		Total:   n,
		Message: fmt.Sprintf("Fetching %d %s...", n, kind),
	}
}

func fetchedKindUpdate(kind models.Kind, n int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   phaseFor(kind),
		Step:    n,
		Total:   n,
		Message: fmt.Sprintf("Fetched %d %s", n, kind),
	}
}

func exportStartedUpdate(format, dir string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportFavorites,
		Step:    0,
		Total:   1,
		Message: fmt.Sprintf("Writing %s export to %s...", format, dir),
	}
}

func exportCompletedUpdate(filesCount int, dir string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportFavorites,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("✓ %d files written to %s", filesCount, dir),
	}
}
