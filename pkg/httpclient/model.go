package httpclient

import (
	"context"

	// Packages
	client "github.com/mutablelogic/go-client"
	schema "github.com/mutablelogic/go-flow/pkg/schema"
)

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// ListModels returns the models of every plugin registered on the server
func (c *Client) ListModels(ctx context.Context) (*schema.ModelListResponse, error) {
	var response schema.ModelListResponse
	if err := c.DoWithContext(ctx, client.NewRequest(), &response, client.OptPath(schema.ModelPath)); err != nil {
		return nil, err
	}
	return &response, nil
}
