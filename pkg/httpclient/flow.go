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

// ListFlows returns the flows defined on the server
func (c *Client) ListFlows(ctx context.Context) (*schema.FlowListResponse, error) {
	var response schema.FlowListResponse
	if err := c.DoWithContext(ctx, client.NewRequest(), &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// GetFlow returns a flow descriptor by name
func (c *Client) GetFlow(ctx context.Context, name string) (*schema.Flow, error) {
	if name == "" {
		return nil, httpresponse.ErrBadRequest.With("flow name is required")
	}

	var response schema.Flow
	if err := c.DoWithContext(ctx, client.MethodGet, &response, client.OptPath(name)); err != nil {
		return nil, err
	}
	return &response, nil
}

// RunFlow invokes a flow with a string input and returns its string output
func (c *Client) RunFlow(ctx context.Context, name, input string) (string, error) {
	if name == "" {
		return "", httpresponse.ErrBadRequest.With("flow name is required")
	}

	// Make request
	req, err := client.NewJSONRequest(schema.FlowRequest{Data: &input})
	if err != nil {
		return "", err
	}

	// Perform request
	var response schema.FlowResponse
	if err := c.DoWithContext(ctx, req, &response, client.OptPath(name)); err != nil {
		return "", err
	}

	// Return the result
	return response.Result, nil
}
