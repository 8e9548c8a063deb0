package server

import (
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"strconv"

	"github.com/desertthunder/rmx/internal/shared"
)

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

// credentials is the login/register payload, accepted as JSON or as form values.
type credentials struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

func readCredentials(r *http.Request) (credentials, error) {
	var c credentials

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
			return c, fmt.Errorf("%w: malformed JSON body: %v", shared.ErrInvalidInput, err)
		}
		return c, nil
	}

	if err := r.ParseForm(); err != nil {
		return c, fmt.Errorf("%w: malformed form: %v", shared.ErrInvalidInput, err)
	}
	c.Email = r.PostFormValue("email")
	c.Password = r.PostFormValue("password")
	c.ConfirmPassword = r.PostFormValue("confirm_password")
	return c, nil
}

// pageParam reads ?page=, treating a missing or non-numeric value as 1.
func pageParam(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}
