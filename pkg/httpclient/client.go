package httpclient

import (
	// Packages
	client "github.com/mutablelogic/go-client"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Client is a flows server HTTP client that wraps the base HTTP client
// and provides typed methods for running flows and reading runs.
type Client struct {
	*client.Client
}

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// New creates a new flows server HTTP client with the given base URL and
// options. The url parameter should point to the flows API endpoint, e.g.
// "http://localhost:3400/api/flow".
func New(url string, opts ...client.ClientOpt) (*Client, error) {
	cl, err := client.New(append(opts, client.OptEndpoint(url))...)
	if err != nil {
		return nil, err
	}
	return &Client{cl}, nil
}
