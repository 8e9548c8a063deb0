package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/rmx/internal/identity"
)

// SessionSource reports the current session.
type SessionSource interface {
	CurrentUser() (string, bool)
}

// Identity is the part of the identity store the HTTP layer drives.
type Identity interface {
	SessionSource
	Register(ctx context.Context, email, password string) (identity.Result, error)
	Login(ctx context.Context, email, password string) (identity.Result, error)
	Logout(ctx context.Context) error
}

// authResponse is the body of every auth endpoint.
type authResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	Email    string `json:"email,omitempty"`
	Redirect string `json:"redirect,omitempty"`
}

type sessionResponse struct {
	Active bool   `json:"active"`
	Email  string `json:"email,omitempty"`
}

// AuthHandler serves login, register, logout and session status.
type AuthHandler struct {
	identity Identity
	logger   *log.Logger
}

// NewAuthHandler creates an [AuthHandler].
func NewAuthHandler(id Identity, logger *log.Logger) *AuthHandler {
	return &AuthHandler{identity: id, logger: logger}
}

// Routes returns the HTTP routes this handler serves.
func (h *AuthHandler) Routes() []string {
	return []string{"POST /login", "POST /register", "POST /logout", "GET /login", "GET /session"}
}

func (h *AuthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.Method == http.MethodGet:
		h.session(w)
	case r.URL.Path == "/login":
		h.login(w, r)
	case r.URL.Path == "/register":
		h.register(w, r)
	case r.URL.Path == "/logout":
		h.logout(w, r)
	default:
		writeError(w, http.StatusNotFound, "not found")
	}
}

func (h *AuthHandler) session(w http.ResponseWriter) {
	email, active := h.identity.CurrentUser()
	writeJSON(w, http.StatusOK, sessionResponse{Active: active, Email: email})
}

// login answers 200 with a redirect to /favorites, 401 for unknown users and wrong passwords,
// and 400 when the form is incomplete.
func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	c, err := readCredentials(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := identity.CheckLoginForm(c.Email, c.Password); err != nil {
		h.formFailure(w, err)
		return
	}

	res, err := h.identity.Login(r.Context(), c.Email, c.Password)
	if err != nil {
		h.logger.Error("login failed", "err", err)
		writeError(w, http.StatusInternalServerError, "failed to read credentials")
		return
	}
	if !res.Success {
		writeJSON(w, http.StatusUnauthorized, authResponse{Message: res.Message})
		return
	}

	writeJSON(w, http.StatusOK, authResponse{Success: true, Message: res.Message, Email: c.Email, Redirect: "/favorites"})
}

// register answers 201 with a redirect to /login, 409 for a duplicate email and 400 for form errors.
func (h *AuthHandler) register(w http.ResponseWriter, r *http.Request) {
	c, err := readCredentials(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := identity.CheckRegisterForm(c.Email, c.Password, c.ConfirmPassword); err != nil {
		h.formFailure(w, err)
		return
	}

	res, err := h.identity.Register(r.Context(), c.Email, c.Password)
	if err != nil {
		h.logger.Error("register failed", "err", err)
		writeError(w, http.StatusInternalServerError, "failed to save credentials")
		return
	}
	if !res.Success {
		writeJSON(w, http.StatusConflict, authResponse{Message: res.Message})
		return
	}

	writeJSON(w, http.StatusCreated, authResponse{Success: true, Message: res.Message, Redirect: "/login"})
}

func (h *AuthHandler) logout(w http.ResponseWriter, r *http.Request) {
	if err := h.identity.Logout(r.Context()); err != nil {
		h.logger.Error("logout failed", "err", err)
		writeError(w, http.StatusInternalServerError, "failed to clear session")
		return
	}
	writeJSON(w, http.StatusOK, authResponse{Success: true, Message: "Logged out.", Redirect: "/login"})
}

func (h *AuthHandler) formFailure(w http.ResponseWriter, err error) {
	var fe *identity.FormError
	if errors.As(err, &fe) {
		writeJSON(w, http.StatusBadRequest, authResponse{Message: fe.Message})
		return
	}
	writeError(w, http.StatusBadRequest, err.Error())
}
