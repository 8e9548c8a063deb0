// Rick and Morty API implementation of [Catalog]
//
// API reference: https://rickandmortyapi.com/documentation
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/rmx/internal/models"
	"github.com/desertthunder/rmx/internal/shared"
	"golang.org/x/time/rate"
)

const (
	defaultCatalogURL = "https://rickandmortyapi.com/api"
	defaultUserAgent  = "rmx"
	defaultRateLimit  = 5.0
)

// CatalogOpts configures a [RickAndMortyService]. Zero values select defaults.
type CatalogOpts struct {
	BaseURL    string
	HTTPClient *http.Client
	Timeout    time.Duration
	RateLimit  float64 // Requests per second; negative disables pacing
	UserAgent  string
	Logger     *log.Logger
}

// RickAndMortyService implements [Catalog] over the public REST API.
//
// Requests are paced by a token-bucket limiter and never retried.
type RickAndMortyService struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *log.Logger
}

// NewRickAndMortyService creates a catalog client.
func NewRickAndMortyService(opts CatalogOpts) *RickAndMortyService {
	if opts.BaseURL == "" {
		opts.BaseURL = defaultCatalogURL
	}
	if opts.UserAgent == "" {
		opts.UserAgent = defaultUserAgent
	}
	if opts.HTTPClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		opts.HTTPClient = &http.Client{Timeout: timeout}
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	switch {
	case opts.RateLimit == 0:
		limiter = rate.NewLimiter(rate.Limit(defaultRateLimit), 1)
	case opts.RateLimit > 0:
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	}

	return &RickAndMortyService{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		userAgent:  opts.UserAgent,
		httpClient: opts.HTTPClient,
		limiter:    limiter,
		logger:     opts.Logger.With("component", "catalog"),
	}
}

// Name returns the catalog name.
func (c *RickAndMortyService) Name() string {
	return "Rick and Morty API"
}

// BaseURL returns the API root requests are issued against.
func (c *RickAndMortyService) BaseURL() string {
	return c.baseURL
}

// doRequest issues a GET for endpoint and returns the body of a 2xx response.
//
// Every failure is an [*UpstreamError].
func (c *RickAndMortyService) doRequest(ctx context.Context, endpoint string, query url.Values) ([]byte, error) {
	apiURL := c.baseURL + endpoint
	if len(query) > 0 {
		apiURL += "?" + query.Encode()
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &UpstreamError{Message: err.Error()}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, &UpstreamError{Message: fmt.Sprintf("failed to create request: %v", err)}
	}

	requestID := shared.GenerateID()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", requestID)

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("catalog request failed", "url", apiURL, "request_id", requestID, "err", err)
		return nil, &UpstreamError{Message: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("failed to read response: %v", err)}
	}

	c.logger.Debug("catalog request", "url", apiURL, "status", resp.StatusCode, "request_id", requestID, "elapsed", time.Since(started))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp struct {
			Error string `json:"error"`
		}
		msg := http.StatusText(resp.StatusCode)
		if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
			msg = errResp.Error
		}
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Message: msg}
	}

	return body, nil
}

// listPage fetches one page of kind.
func listPage[T any](ctx context.Context, c *RickAndMortyService, kind models.Kind, page int, filter url.Values) (*models.Page[T], error) {
	body, err := c.doRequest(ctx, "/"+kind.Resource(), pageQuery(page, filter))
	if err != nil {
		return nil, err
	}

	var out models.Page[T]
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, &UpstreamError{StatusCode: http.StatusOK, Message: fmt.Sprintf("failed to decode response: %v", err)}
	}
	if out.Results == nil {
		out.Results = []T{}
	}
	return &out, nil
}

// byIDs resolves ids for kind. The API answers a bare object for one ID and an array for several;
// both are normalised to a slice. No IDs means no request.
func byIDs[T any](ctx context.Context, c *RickAndMortyService, kind models.Kind, ids []int) ([]T, error) {
	if len(ids) == 0 {
		return []T{}, nil
	}

	body, err := c.doRequest(ctx, "/"+kind.Resource()+"/"+joinIDs(ids), nil)
	if err != nil {
		return nil, err
	}

	items, err := decodeMany[T](body)
	if err != nil {
		return nil, &UpstreamError{StatusCode: http.StatusOK, Message: fmt.Sprintf("failed to decode response: %v", err)}
	}
	return items, nil
}

// decodeMany decodes a JSON array, a single object or null into a slice.
func decodeMany[T any](body []byte) ([]T, error) {
	trimmed := bytes.TrimSpace(body)
	switch {
	case len(trimmed) == 0, bytes.Equal(trimmed, []byte("null")):
		return []T{}, nil
	case trimmed[0] == '[':
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, err
		}
		if items == nil {
			items = []T{}
		}
		return items, nil
	case trimmed[0] == '{':
		var item T
		if err := json.Unmarshal(trimmed, &item); err != nil {
			return nil, err
		}
		return []T{item}, nil
	default:
		return nil, fmt.Errorf("unexpected payload starting with %q", trimmed[0])
	}
}

// Characters returns one page of characters.
func (c *RickAndMortyService) Characters(ctx context.Context, page int, filter CharacterFilter) (*models.Page[models.Character], error) {
	return listPage[models.Character](ctx, c, models.KindCharacter, page, filter.Values())
}

// Episodes returns one page of episodes.
func (c *RickAndMortyService) Episodes(ctx context.Context, page int, filter EpisodeFilter) (*models.Page[models.Episode], error) {
	return listPage[models.Episode](ctx, c, models.KindEpisode, page, filter.Values())
}

// Locations returns one page of locations.
func (c *RickAndMortyService) Locations(ctx context.Context, page int, filter LocationFilter) (*models.Page[models.Location], error) {
	return listPage[models.Location](ctx, c, models.KindLocation, page, filter.Values())
}

// CharactersByIDs resolves character IDs.
func (c *RickAndMortyService) CharactersByIDs(ctx context.Context, ids []int) ([]models.Character, error) {
	return byIDs[models.Character](ctx, c, models.KindCharacter, ids)
}

// EpisodesByIDs resolves episode IDs.
func (c *RickAndMortyService) EpisodesByIDs(ctx context.Context, ids []int) ([]models.Episode, error) {
	return byIDs[models.Episode](ctx, c, models.KindEpisode, ids)
}

// LocationsByIDs resolves location IDs.
func (c *RickAndMortyService) LocationsByIDs(ctx context.Context, ids []int) ([]models.Location, error) {
	return byIDs[models.Location](ctx, c, models.KindLocation, ids)
}
