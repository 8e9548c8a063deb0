// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"slices"
	"sync"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/rmx/internal/models"
	"github.com/desertthunder/rmx/internal/services"
)

// MockCatalog is an in-memory [services.Catalog].
//
// Lookups by ID return the matching records in request order and skip unknown IDs.
// Per-kind errors make that kind's calls fail. Calls are counted per method.
type MockCatalog struct {
	CharacterRecords []models.Character
	EpisodeRecords   []models.Episode
	LocationRecords  []models.Location

	CharacterErr error
	EpisodeErr   error
	LocationErr  error

	mu    sync.Mutex
	calls map[string]int
}

func (m *MockCatalog) record(method string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.calls == nil {
		m.calls = map[string]int{}
	}
	m.calls[method]++
}

// Calls returns how often method was invoked.
func (m *MockCatalog) Calls(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[method]
}

// TotalCalls returns the number of catalog calls made.
func (m *MockCatalog) TotalCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.calls {
		n += c
	}
	return n
}

func page[T any](all []T, page int) *models.Page[T] {
	const size = 20
	if page < 1 {
		page = 1
	}
	start := min((page-1)*size, len(all))
	end := min(start+size, len(all))
	pages := (len(all) + size - 1) / size

	p := &models.Page[T]{Info: models.Info{Count: len(all), Pages: pages}, Results: slices.Clone(all[start:end])}
	if p.Results == nil {
		p.Results = []T{}
	}
	if page < pages {
		next := "next"
		p.Info.Next = &next
	}
	if page > 1 {
		prev := "prev"
		p.Info.Prev = &prev
	}
	return p
}

func pick[T any](all []T, ids []int, id func(T) int) []T {
	out := []T{}
	for _, want := range ids {
		for _, item := range all {
			if id(item) == want {
				out = append(out, item)
				break
			}
		}
	}
	return out
}

func (m *MockCatalog) Characters(ctx context.Context, p int, filter services.CharacterFilter) (*models.Page[models.Character], error) {
	m.record("Characters")
	if m.CharacterErr != nil {
		return nil, m.CharacterErr
	}
	return page(m.CharacterRecords, p), nil
}

func (m *MockCatalog) Episodes(ctx context.Context, p int, filter services.EpisodeFilter) (*models.Page[models.Episode], error) {
	m.record("Episodes")
	if m.EpisodeErr != nil {
		return nil, m.EpisodeErr
	}
	return page(m.EpisodeRecords, p), nil
}

func (m *MockCatalog) Locations(ctx context.Context, p int, filter services.LocationFilter) (*models.Page[models.Location], error) {
	m.record("Locations")
	if m.LocationErr != nil {
		return nil, m.LocationErr
	}
	return page(m.LocationRecords, p), nil
}

func (m *MockCatalog) CharactersByIDs(ctx context.Context, ids []int) ([]models.Character, error) {
	m.record("CharactersByIDs")
	if m.CharacterErr != nil {
		return nil, m.CharacterErr
	}
	return pick(m.CharacterRecords, ids, func(c models.Character) int { return c.ID }), nil
}

func (m *MockCatalog) EpisodesByIDs(ctx context.Context, ids []int) ([]models.Episode, error) {
	m.record("EpisodesByIDs")
	if m.EpisodeErr != nil {
		return nil, m.EpisodeErr
	}
	return pick(m.EpisodeRecords, ids, func(e models.Episode) int { return e.ID }), nil
}

func (m *MockCatalog) LocationsByIDs(ctx context.Context, ids []int) ([]models.Location, error) {
	m.record("LocationsByIDs")
	if m.LocationErr != nil {
		return nil, m.LocationErr
	}
	return pick(m.LocationRecords, ids, func(l models.Location) int { return l.ID }), nil
}

func (m *MockCatalog) Name() string { return "mock" }

// SampleCatalog returns a [MockCatalog] seeded with a few well-known records.
func SampleCatalog() *MockCatalog {
	return &MockCatalog{
		CharacterRecords: []models.Character{
			{ID: 1, Name: "Rick Sanchez", Status: "Alive", Species: "Human"},
			{ID: 2, Name: "Morty Smith", Status: "Alive", Species: "Human"},
			{ID: 3, Name: "Summer Smith", Status: "Alive", Species: "Human"},
		},
		EpisodeRecords: []models.Episode{
			{ID: 1, Name: "Pilot", Episode: "S01E01", AirDate: "December 2, 2013"},
			{ID: 2, Name: "Lawnmower Dog", Episode: "S01E02", AirDate: "December 9, 2013"},
		},
		LocationRecords: []models.Location{
			{ID: 1, Name: "Earth (C-137)", Type: "Planet", Dimension: "Dimension C-137"},
			{ID: 3, Name: "Citadel of Ricks", Type: "Space station", Dimension: "unknown"},
		},
	}
}

// DiscardLogger returns a logger that drops every entry.
func DiscardLogger() *log.Logger {
	return log.New(io.Discard)
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
