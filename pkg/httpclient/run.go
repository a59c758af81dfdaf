package httpclient

import (
	"context"

	// Packages
	client "github.com/mutablelogic/go-client"
	schema "github.com/mutablelogic/go-flow/pkg/schema"
	httpresponse "github.com/mutablelogic/go-server/pkg/httpresponse"
)

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// ListRuns returns recorded runs, newest first
func (c *Client) ListRuns(ctx context.Context, opts ...Opt) (*schema.RunListResponse, error) {
	req := client.NewRequest()

	// Apply options
	opt, err := applyOpts(opts...)
	if err != nil {
		return nil, err
	}

	// Perform request
	var response schema.RunListResponse
	if err := c.DoWithContext(ctx, req, &response, client.OptPath(schema.RunPath), client.OptQuery(opt.Values)); err != nil {
		return nil, err
	}

	// Return the response
	return &response, nil
}

// GetRun returns a recorded run by id
func (c *Client) GetRun(ctx context.Context, id string) (*schema.Run, error) {
	if id == "" {
		return nil, httpresponse.ErrBadRequest.With("run id is required")
	}

	var response schema.Run
	if err := c.DoWithContext(ctx, client.MethodGet, &response, client.OptPath(schema.RunPath, id)); err != nil {
		return nil, err
	}
	return &response, nil
}
