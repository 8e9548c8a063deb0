package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/desertthunder/rmx/internal/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const characterPage = `{
  "info": {"count": 826, "pages": 42, "next": "https://rickandmortyapi.com/api/character?page=2", "prev": null},
  "results": [
    {"id": 1, "name": "Rick Sanchez", "status": "Alive", "species": "Human", "origin": {"name": "Earth (C-137)", "url": ""}},
    {"id": 2, "name": "Morty Smith", "status": "Alive", "species": "Human"}
  ]
}`

func newTestCatalog(t *testing.T, handler http.HandlerFunc) (*RickAndMortyService, *int32) {
	t.Helper()

	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		handler(w, r)
	}))
	t.Cleanup(server.Close)

	return NewRickAndMortyService(CatalogOpts{BaseURL: server.URL, RateLimit: -1}), &hits
}

func TestRickAndMortyService(t *testing.T) {
	ctx := context.Background()

	t.Run("Defaults", func(t *testing.T) {
		c := NewRickAndMortyService(CatalogOpts{})
		assert.Equal(t, "https://rickandmortyapi.com/api", c.BaseURL())
		assert.Equal(t, "Rick and Morty API", c.Name())
	})

	t.Run("Characters", func(t *testing.T) {
		t.Run("decodes page and info", func(t *testing.T) {
			c, _ := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/character", r.URL.Path)
				assert.Equal(t, "2", r.URL.Query().Get("page"))
				assert.Equal(t, "rick", r.URL.Query().Get("name"))
				assert.Equal(t, "alive", r.URL.Query().Get("status"))
				assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
				assert.Equal(t, "rmx", r.Header.Get("User-Agent"))
				w.Write([]byte(characterPage))
			})

			page, err := c.Characters(ctx, 2, CharacterFilter{Name: "rick", Status: "alive"})
			require.NoError(t, err)
			assert.Equal(t, 826, page.Info.Count)
			assert.True(t, page.HasNext())
			assert.False(t, page.HasPrev())
			require.Len(t, page.Results, 2)
			assert.Equal(t, "Rick Sanchez", page.Results[0].Name)
			assert.Equal(t, "Earth (C-137)", page.Results[0].Origin.Name)
		})

		t.Run("omits empty filters and defaults page", func(t *testing.T) {
			c, _ := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {
				q := r.URL.Query()
				assert.Equal(t, "1", q.Get("page"))
				assert.False(t, q.Has("name"))
				assert.False(t, q.Has("status"))
				assert.Equal(t, "Human", q.Get("species"))
				w.Write([]byte(`{"info": {"count": 0, "pages": 0}, "results": null}`))
			})

			page, err := c.Characters(ctx, 0, CharacterFilter{Name: "  ", Species: "Human"})
			require.NoError(t, err)
			assert.NotNil(t, page.Results)
			assert.Empty(t, page.Results)
		})

		t.Run("404 carries upstream message", func(t *testing.T) {
			c, _ := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
				w.Write([]byte(`{"error": "There is nothing here"}`))
			})

			_, err := c.Characters(ctx, 1, CharacterFilter{Name: "zzz"})
			require.Error(t, err)

			var upstream *UpstreamError
			require.True(t, errors.As(err, &upstream))
			assert.Equal(t, http.StatusNotFound, upstream.StatusCode)
			assert.Equal(t, "There is nothing here", upstream.Message)
			assert.True(t, upstream.IsNotFound())
			assert.Equal(t, "Error: There is nothing here", upstream.DisplayMessage())
			assert.ErrorIs(t, err, shared.ErrAPIRequest)
		})

		t.Run("error status without body falls back to status text", func(t *testing.T) {
			c, _ := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
			})

			_, err := c.Characters(ctx, 1, CharacterFilter{})
			var upstream *UpstreamError
			require.ErrorAs(t, err, &upstream)
			assert.Equal(t, "Bad Gateway", upstream.Message)
		})

		t.Run("malformed body", func(t *testing.T) {
			c, _ := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{not json`))
			})

			_, err := c.Characters(ctx, 1, CharacterFilter{})
			var upstream *UpstreamError
			require.ErrorAs(t, err, &upstream)
			assert.Contains(t, upstream.Message, "failed to decode response")
		})
	})

	t.Run("Episodes and Locations use their own paths and filters", func(t *testing.T) {
		c, _ := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/episode":
				assert.Equal(t, "S01", r.URL.Query().Get("episode"))
				w.Write([]byte(`{"info": {"count": 1, "pages": 1}, "results": [{"id": 1, "name": "Pilot", "episode": "S01E01", "air_date": "December 2, 2013"}]}`))
			case "/location":
				assert.Equal(t, "Planet", r.URL.Query().Get("type"))
				assert.Equal(t, "Dimension C-137", r.URL.Query().Get("dimension"))
				w.Write([]byte(`{"info": {"count": 1, "pages": 1}, "results": [{"id": 1, "name": "Earth (C-137)", "type": "Planet"}]}`))
			default:
				t.Errorf("unexpected path %s", r.URL.Path)
			}
		})

		episodes, err := c.Episodes(ctx, 1, EpisodeFilter{Episode: "S01"})
		require.NoError(t, err)
		require.Len(t, episodes.Results, 1)
		assert.Equal(t, "December 2, 2013", episodes.Results[0].AirDate)

		locations, err := c.Locations(ctx, 1, LocationFilter{Type: "Planet", Dimension: "Dimension C-137"})
		require.NoError(t, err)
		require.Len(t, locations.Results, 1)
		assert.Equal(t, "Earth (C-137)", locations.Results[0].Name)
	})

	t.Run("ByIDs", func(t *testing.T) {
		t.Run("single ID bare object becomes one element", func(t *testing.T) {
			c, _ := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/character/1", r.URL.Path)
				w.Write([]byte(`{"id": 1, "name": "Rick Sanchez"}`))
			})

			chars, err := c.CharactersByIDs(ctx, []int{1})
			require.NoError(t, err)
			require.Len(t, chars, 1)
			assert.Equal(t, 1, chars[0].ID)
		})

		t.Run("several IDs join with commas", func(t *testing.T) {
			c, _ := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/episode/1,2,28", r.URL.Path)
				w.Write([]byte(`[{"id": 1}, {"id": 2}, {"id": 28}]`))
			})

			eps, err := c.EpisodesByIDs(ctx, []int{1, 2, 28})
			require.NoError(t, err)
			assert.Len(t, eps, 3)
		})

		t.Run("empty IDs issue no request", func(t *testing.T) {
			c, hits := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`[]`))
			})

			locs, err := c.LocationsByIDs(ctx, nil)
			require.NoError(t, err)
			assert.NotNil(t, locs)
			assert.Empty(t, locs)
			assert.Equal(t, int32(0), atomic.LoadInt32(hits))
		})

		t.Run("upstream failure", func(t *testing.T) {
			c, _ := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte(`{"error": "boom"}`))
			})

			_, err := c.LocationsByIDs(ctx, []int{3})
			var upstream *UpstreamError
			require.ErrorAs(t, err, &upstream)
			assert.Equal(t, http.StatusInternalServerError, upstream.StatusCode)
			assert.Equal(t, "boom", upstream.Message)
		})
	})

	t.Run("transport failure has no status", func(t *testing.T) {
		client := &http.Client{Transport: roundTripFunc(func(*http.Request) (*http.Response, error) {
			return nil, errors.New("connection refused")
		})}
		c := NewRickAndMortyService(CatalogOpts{BaseURL: "http://catalog.invalid", HTTPClient: client, RateLimit: -1})

		_, err := c.CharactersByIDs(ctx, []int{1})
		var upstream *UpstreamError
		require.ErrorAs(t, err, &upstream)
		assert.Equal(t, 0, upstream.StatusCode)
		assert.Contains(t, upstream.Error(), "catalog request failed")
	})

	t.Run("canceled context stops before the request", func(t *testing.T) {
		c, hits := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {})

		cctx, cancel := context.WithCancel(ctx)
		cancel()

		_, err := c.Characters(cctx, 1, CharacterFilter{})
		require.Error(t, err)
		assert.Equal(t, int32(0), atomic.LoadInt32(hits))
	})
}

func TestDecodeMany(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
		err  bool
	}{
		{name: "array", body: `[{"id":1},{"id":2}]`, want: 2},
		{name: "object", body: ` {"id":1}`, want: 1},
		{name: "null", body: `null`, want: 0},
		{name: "empty", body: ``, want: 0},
		{name: "scalar", body: `42`, err: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeMany[struct{ ID int }]([]byte(tt.body))
			if tt.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, got, tt.want)
		})
	}
}

func TestUpstreamErrorDisplay(t *testing.T) {
	assert.Equal(t, "Error: Something went wrong", (&UpstreamError{StatusCode: 500}).DisplayMessage())
	assert.Equal(t, "catalog API error (status 500): x", (&UpstreamError{StatusCode: 500, Message: "x"}).Error())

	wrapped := fmt.Errorf("failed to fetch characters: %w", &UpstreamError{StatusCode: 404, Message: "There is nothing here"})
	assert.Equal(t, "Error: There is nothing here", DisplayMessage(wrapped))
	assert.Equal(t, "Error: Something went wrong", DisplayMessage(errors.New("dial tcp: refused")))
}

func TestFilters(t *testing.T) {
	q := pageQuery(-3, LocationFilter{Name: "Earth"}.Values())
	assert.Equal(t, "1", q.Get("page"))
	assert.Equal(t, "Earth", q.Get("name"))
	assert.Equal(t, "name=Earth&page=1", q.Encode())
	assert.Empty(t, EpisodeFilter{}.Values())
	assert.Equal(t, "4", joinIDs([]int{4}))
}
