package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/rmx/internal/identity"
	"github.com/desertthunder/rmx/internal/shared"
	"github.com/urfave/cli/v3"
)

// AuthRegister creates a local user after the register form checks pass.
//
// When --confirm is omitted the password is taken as its own confirmation.
func (r *Runner) AuthRegister(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireServices(); err != nil {
		return err
	}

	email := cmd.StringArg("email")
	password := cmd.StringArg("password")
	confirm := password
	if cmd.IsSet("confirm") {
		confirm = cmd.String("confirm")
	}

	if err := identity.CheckRegisterForm(email, password, confirm); err != nil {
		return err
	}

	result, err := r.identity.Register(ctx, email, password)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrStorage, err)
	}
	if !result.Success {
		return fmt.Errorf("%w: %s", result.Reason, result.Message)
	}

	r.logger.Info("user registered", "email", email)
	return r.writePlain("✓ %s\n", result.Message)
}

// AuthLogin starts a session for a registered user.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireServices(); err != nil {
		return err
	}

	email := cmd.StringArg("email")
	password := cmd.StringArg("password")

	if err := identity.CheckLoginForm(email, password); err != nil {
		return err
	}

	result, err := r.identity.Login(ctx, email, password)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrStorage, err)
	}
	if !result.Success {
		return fmt.Errorf("%w: %s", result.Reason, result.Message)
	}

	r.logger.Info("session started", "email", email)
	return r.writePlain("✓ %s\nLogged in as %s\n", result.Message, email)
}

// AuthLogout ends the current session. Logging out without a session is not an error.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireServices(); err != nil {
		return err
	}

	email, active := r.identity.CurrentUser()
	if err := r.identity.Logout(ctx); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrStorage, err)
	}

	if !active {
		return r.writePlain("No active session\n")
	}
	r.logger.Info("session ended", "email", email)
	return r.writePlain("✓ Logged out %s\n", email)
}

// AuthWhoami prints the current session.
func (r *Runner) AuthWhoami(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireServices(); err != nil {
		return err
	}

	email, active := r.identity.CurrentUser()
	if cmd.Bool("json") {
		return r.writeJSON(map[string]any{"active": active, "email": email}, false)
	}

	if !active {
		return r.writePlain("Not logged in\n")
	}
	return r.writePlain("%s\n", email)
}
