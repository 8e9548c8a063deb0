package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/rmx/internal/services"
	"github.com/desertthunder/rmx/internal/shared"
	"github.com/urfave/cli/v3"
)

// APIGet makes a direct GET request to the catalog API
func (r *Runner) APIGet(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	if path == "" {
		return fmt.Errorf("%w: path is required (e.g. /character/1)", shared.ErrMissingArgument)
	}

	if r.api == nil {
		r.api = services.NewAPIService(r.config.Catalog.BaseURL, r.httpClient)
	}

	r.logger.Info("GET request", "path", path)

	resp, err := r.api.Get(ctx, path)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if !resp.OK() {
		r.writePlain("%s\n", services.DisplayMessage(resp.Err()))
		return resp.Err()
	}

	if resp.IsJSON {
		return r.writeJSON(resp.JSONData, cmd.Bool("pretty"))
	}

	if _, err := r.output.Write(resp.Body); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return r.writePlain("\n")
}
