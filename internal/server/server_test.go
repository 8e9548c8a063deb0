package server

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/desertthunder/rmx/internal/favorites"
	"github.com/desertthunder/rmx/internal/identity"
	"github.com/desertthunder/rmx/internal/models"
	"github.com/desertthunder/rmx/internal/repositories"
	"github.com/desertthunder/rmx/internal/services"
	"github.com/desertthunder/rmx/internal/tasks"
	tu "github.com/desertthunder/rmx/internal/testing"
)

type fixture struct {
	srv       *Server
	identity  *identity.Store
	favorites *favorites.Store
	catalog   *tu.MockCatalog
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	kv := repositories.NewMemoryStore()
	id := identity.New(ctx, kv, nil)
	favs := favorites.New(kv, id, nil)
	catalog := tu.SampleCatalog()

	return &fixture{
		srv: New(Options{
			Identity:  id,
			Favorites: favs,
			Catalog:   catalog,
			Collector: tasks.NewCollector(catalog, nil),
		}),
		identity:  id,
		favorites: favs,
		catalog:   catalog,
	}
}

func (f *fixture) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	f.srv.ServeHTTP(rec, req)
	return rec
}

func (f *fixture) login(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	if _, err := f.identity.Register(ctx, "rick@citadel.io", "wubbalubba"); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if res, err := f.identity.Login(ctx, "rick@citadel.io", "wubbalubba"); err != nil || !res.Success {
		t.Fatalf("login failed: %v %+v", err, res)
	}
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("failed to decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func TestAuthRoutes(t *testing.T) {
	t.Run("register then login redirects to favorites", func(t *testing.T) {
		f := newFixture(t)

		rec := f.do(t, http.MethodPost, "/register", `{"email":"morty@smith.com","password":"aw-jeez","confirm_password":"aw-jeez"}`)
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body)
		}
		if got := decode[authResponse](t, rec); got.Message != identity.MsgRegistered {
			t.Errorf("unexpected message %q", got.Message)
		}

		rec = f.do(t, http.MethodPost, "/login", `{"email":"morty@smith.com","password":"aw-jeez"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body)
		}
		got := decode[authResponse](t, rec)
		if got.Redirect != "/favorites" || got.Message != identity.MsgLoggedIn {
			t.Errorf("unexpected login response %+v", got)
		}

		rec = f.do(t, http.MethodGet, "/session", "")
		if s := decode[sessionResponse](t, rec); !s.Active || s.Email != "morty@smith.com" {
			t.Errorf("expected active session, got %+v", s)
		}
	})

	t.Run("form values are accepted", func(t *testing.T) {
		f := newFixture(t)
		form := url.Values{"email": {"summer@smith.com"}, "password": {"phones!"}, "confirm_password": {"phones!"}}
		req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := httptest.NewRecorder()
		f.srv.ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated {
			t.Errorf("expected 201, got %d: %s", rec.Code, rec.Body)
		}
	})

	t.Run("duplicate registration conflicts", func(t *testing.T) {
		f := newFixture(t)
		body := `{"email":"rick@citadel.io","password":"wubbalubba","confirm_password":"wubbalubba"}`
		f.do(t, http.MethodPost, "/register", body)

		rec := f.do(t, http.MethodPost, "/register", body)
		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
		if got := decode[authResponse](t, rec); got.Message != identity.MsgDuplicateUser {
			t.Errorf("unexpected message %q", got.Message)
		}
	})

	t.Run("register form validation", func(t *testing.T) {
		f := newFixture(t)
		tests := []struct {
			body string
			want string
		}{
			{`{"email":"rick@citadel.io","password":"short","confirm_password":"short"}`, identity.MsgPasswordTooShort},
			{`{"email":"rick@citadel.io","password":"wubbalubba","confirm_password":"nope"}`, identity.MsgPasswordMismatch},
			{`{"email":"not-an-email","password":"wubbalubba","confirm_password":"wubbalubba"}`, identity.MsgEmailInvalid},
		}
		for _, tt := range tests {
			rec := f.do(t, http.MethodPost, "/register", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", rec.Code)
			}
			if got := decode[authResponse](t, rec); got.Message != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got.Message)
			}
		}
	})

	t.Run("login failures", func(t *testing.T) {
		f := newFixture(t)
		f.login(t)

		rec := f.do(t, http.MethodPost, "/login", `{"email":"jerry@smith.com","password":"x"}`)
		if rec.Code != http.StatusUnauthorized || decode[authResponse](t, rec).Message != identity.MsgUserNotFound {
			t.Errorf("expected user not found, got %d %s", rec.Code, rec.Body)
		}

		rec = f.do(t, http.MethodPost, "/login", `{"email":"rick@citadel.io","password":"WUBBALUBBA"}`)
		if rec.Code != http.StatusUnauthorized || decode[authResponse](t, rec).Message != identity.MsgInvalidCredential {
			t.Errorf("expected incorrect password, got %d %s", rec.Code, rec.Body)
		}

		rec = f.do(t, http.MethodPost, "/login", `{not json`)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400 for malformed body, got %d", rec.Code)
		}
	})

	t.Run("logout clears the session", func(t *testing.T) {
		f := newFixture(t)
		f.login(t)

		rec := f.do(t, http.MethodPost, "/logout", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if f.identity.IsLoggedIn() {
			t.Error("expected session to be cleared")
		}
	})
}

func TestCatalogRoutes(t *testing.T) {
	t.Run("lists with favorite markers", func(t *testing.T) {
		f := newFixture(t)
		f.login(t)
		f.favorites.Toggle(context.Background(), 2, models.KindCharacter)

		rec := f.do(t, http.MethodGet, "/characters?page=1&name=smith", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}

		got := decode[listResponse](t, rec)
		if got.Kind != "characters" || len(got.Results) != 3 {
			t.Fatalf("unexpected listing %+v", got)
		}
		if got.Results[0].Favorite || !got.Results[1].Favorite {
			t.Errorf("expected only Morty to be marked, got %+v", got.Results)
		}
		if got.HasNext || got.HasPrev {
			t.Error("single page should have no navigation")
		}
	})

	t.Run("bad page numbers default to 1", func(t *testing.T) {
		f := newFixture(t)
		rec := f.do(t, http.MethodGet, "/episodes?page=abc", "")
		if got := decode[listResponse](t, rec); got.Page != 1 || len(got.Results) != 2 {
			t.Errorf("unexpected listing %+v", got)
		}
	})

	t.Run("upstream failure yields blank results and an error", func(t *testing.T) {
		f := newFixture(t)
		f.catalog.LocationErr = &services.UpstreamError{StatusCode: http.StatusNotFound, Message: "There is nothing here"}

		rec := f.do(t, http.MethodGet, "/locations?name=zzz", "")
		if rec.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", rec.Code)
		}
		got := decode[listResponse](t, rec)
		if len(got.Results) != 0 || got.Error != "Error: There is nothing here" {
			t.Errorf("unexpected failure body %+v", got)
		}
	})

	t.Run("transport failure uses the fallback message", func(t *testing.T) {
		f := newFixture(t)
		f.catalog.CharacterErr = errors.New("dial tcp: refused")

		rec := f.do(t, http.MethodGet, "/characters", "")
		if rec.Code != http.StatusBadGateway {
			t.Errorf("expected 502, got %d", rec.Code)
		}
		if got := decode[listResponse](t, rec); got.Error != "Error: Something went wrong" {
			t.Errorf("unexpected error %q", got.Error)
		}
	})

	t.Run("unknown paths redirect to characters", func(t *testing.T) {
		f := newFixture(t)
		for _, path := range []string{"/", "/nowhere"} {
			rec := f.do(t, http.MethodGet, path, "")
			if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/characters" {
				t.Errorf("%s: expected redirect to /characters, got %d %q", path, rec.Code, rec.Header().Get("Location"))
			}
		}
	})
}

func TestFavoritesRoutes(t *testing.T) {
	t.Run("listing requires a session", func(t *testing.T) {
		f := newFixture(t)

		rec := f.do(t, http.MethodGet, "/favorites", "")
		if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/login" {
			t.Errorf("expected 303 to /login, got %d %q", rec.Code, rec.Header().Get("Location"))
		}
		if f.catalog.TotalCalls() != 0 {
			t.Error("expected no catalog calls without a session")
		}
	})

	t.Run("toggle requires a session", func(t *testing.T) {
		f := newFixture(t)

		rec := f.do(t, http.MethodPost, "/favorites/characters/1", "")
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("toggle then list", func(t *testing.T) {
		f := newFixture(t)
		f.login(t)

		for _, path := range []string{"/favorites/character/1", "/favorites/episodes/2", "/favorites/locations/3"} {
			rec := f.do(t, http.MethodPost, path, "")
			if rec.Code != http.StatusOK || !decode[toggleResponse](t, rec).Favorite {
				t.Fatalf("%s: expected favorite, got %d %s", path, rec.Code, rec.Body)
			}
		}

		rec := f.do(t, http.MethodGet, "/favorites", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		got := decode[favoritesResponse](t, rec)
		if got.User != "rick@citadel.io" || got.Total != 3 {
			t.Errorf("unexpected favorites %+v", got)
		}
		if got.Items[0].Kind != "characters" || got.Items[2].Name != "Citadel of Ricks" {
			t.Errorf("unexpected order %+v", got.Items)
		}

		rec = f.do(t, http.MethodPost, "/favorites/characters/1", "")
		if decode[toggleResponse](t, rec).Favorite {
			t.Error("second toggle should remove the favorite")
		}

		ids := decode[models.FavoriteIDs](t, f.do(t, http.MethodGet, "/favorites/ids", ""))
		if len(ids.Characters) != 0 || len(ids.Episodes) != 1 {
			t.Errorf("unexpected ids %+v", ids)
		}
	})

	t.Run("invalid kind or id", func(t *testing.T) {
		f := newFixture(t)
		f.login(t)

		for _, path := range []string{"/favorites/planets/1", "/favorites/characters/abc", "/favorites/characters/0"} {
			if rec := f.do(t, http.MethodPost, path, ""); rec.Code != http.StatusBadRequest {
				t.Errorf("%s: expected 400, got %d", path, rec.Code)
			}
		}
	})

	t.Run("empty favorites issue no catalog requests", func(t *testing.T) {
		f := newFixture(t)
		f.login(t)

		rec := f.do(t, http.MethodGet, "/favorites", "")
		if got := decode[favoritesResponse](t, rec); got.Total != 0 || len(got.Items) != 0 {
			t.Errorf("expected empty favorites, got %+v", got)
		}
		if f.catalog.TotalCalls() != 0 {
			t.Errorf("expected no catalog calls, got %d", f.catalog.TotalCalls())
		}
	})
}

func TestRouter(t *testing.T) {
	t.Run("middleware order", func(t *testing.T) {
		var order []string
		mark := func(name string) Middleware {
			return func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					order = append(order, name)
					next.ServeHTTP(w, r)
				})
			}
		}

		r := NewBasicRouter()
		r.Use(mark("first"), mark("second"))
		r.Handle(http.MethodGet, "/ping", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			order = append(order, "handler")
		}))

		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ping", nil))
		if strings.Join(order, ",") != "first,second,handler" {
			t.Errorf("unexpected order %v", order)
		}
	})

	t.Run("method mismatch", func(t *testing.T) {
		r := NewBasicRouter()
		r.Handle("get", "/ping", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/ping", nil))
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected 405, got %d", rec.Code)
		}
	})

	t.Run("recover and request IDs", func(t *testing.T) {
		r := NewBasicRouter()
		logger := tu.DiscardLogger()
		r.Use(Recover(logger), Logging(logger))
		r.Handle(http.MethodGet, "/boom", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic("portal gun misfire")
		}))

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/boom", nil)
		req.Header.Set("X-Request-ID", "abc-123")
		r.ServeHTTP(rec, req)

		if rec.Code != http.StatusInternalServerError {
			t.Errorf("expected 500, got %d", rec.Code)
		}
		if rec.Header().Get("X-Request-ID") != "abc-123" {
			t.Errorf("expected request ID to be echoed, got %q", rec.Header().Get("X-Request-ID"))
		}
	})
}

func TestServe(t *testing.T) {
	f := newFixture(t)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- f.srv.Serve(ctx, ln) }()

	client := &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }}
	resp, err := client.Get("http://" + ln.Addr().String() + "/episodes")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("expected clean shutdown, got %v", err)
	}
}
