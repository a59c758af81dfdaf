package main

import (
	"net"
	"net/url"
	"os"

	// Packages
	client "github.com/mutablelogic/go-client"
	httpclient "github.com/mutablelogic/go-flow/pkg/httpclient"
	types "github.com/mutablelogic/go-server/pkg/types"
)

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Client builds a flows server HTTP client from the global HTTP flags.
func (g *Globals) Client() (*httpclient.Client, error) {
	endpoint, err := clientEndpoint(g.HTTP.Addr, g.HTTP.Prefix)
	if err != nil {
		return nil, err
	}
	opts := []client.ClientOpt{}
	if g.Verbose {
		opts = append(opts, client.OptTrace(os.Stderr, false))
	}
	if g.HTTP.Timeout > 0 {
		opts = append(opts, client.OptTimeout(g.HTTP.Timeout))
	}
	return httpclient.New(endpoint, opts...)
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// clientEndpoint returns the plain-http URL of a server listening on addr,
// connecting to localhost when the listen host is empty
func clientEndpoint(addr, prefix string) (string, error) {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "", err
	} else if host == "" {
		host = "localhost"
	}
	endpoint := url.URL{
		Scheme: "http",
		Host:   net.JoinHostPort(host, port),
		Path:   types.NormalisePath(prefix),
	}
	return endpoint.String(), nil
}
