package identity

import (
	"fmt"
	"net/mail"
	"strings"

	"github.com/desertthunder/rmx/internal/shared"
)

// MinPasswordLength is enforced by the register forms, not by [Store.Register].
const MinPasswordLength = 6

// Form messages shown by the CLI and HTTP views.
const (
	MsgEmailRequired    = "Email is required."
	MsgEmailInvalid     = "Please enter a valid email."
	MsgPasswordRequired = "Password is required."
	MsgPasswordTooShort = "Password must be at least 6 characters."
	MsgPasswordMismatch = "Passwords do not match."
)

// CheckLoginForm validates login input before it reaches the store.
func CheckLoginForm(email, password string) error {
	if err := checkEmail(email); err != nil {
		return err
	}
	if password == "" {
		return formError(MsgPasswordRequired)
	}
	return nil
}

// CheckRegisterForm validates register input: a valid email, a password of at least
// [MinPasswordLength] characters and a matching confirmation.
func CheckRegisterForm(email, password, confirm string) error {
	if err := checkEmail(email); err != nil {
		return err
	}
	switch {
	case password == "":
		return formError(MsgPasswordRequired)
	case len([]rune(password)) < MinPasswordLength:
		return formError(MsgPasswordTooShort)
	case password != confirm:
		return formError(MsgPasswordMismatch)
	}
	return nil
}

func checkEmail(email string) error {
	if strings.TrimSpace(email) == "" {
		return formError(MsgEmailRequired)
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return formError(MsgEmailInvalid)
	}
	return nil
}

// FormError carries the message a form should display. It wraps [shared.ErrInvalidInput].
type FormError struct{ Message string }

func formError(msg string) error { return &FormError{Message: msg} }

func (e *FormError) Error() string { return fmt.Sprintf("%v: %s", shared.ErrInvalidInput, e.Message) }

func (e *FormError) Unwrap() error { return shared.ErrInvalidInput }
