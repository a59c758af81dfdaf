package ollama

import (
	"slices"
	"strings"

	// Packages
	client "github.com/mutablelogic/go-client"
	flow "github.com/mutablelogic/go-flow"
	schema "github.com/mutablelogic/go-flow/pkg/schema"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Client is an Ollama API client which implements the flow.Plugin interface
type Client struct {
	*client.Client
	endpoint string
	models   []string
}

var _ flow.Plugin = (*Client)(nil)

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	pluginName = "ollama"
	latestTag  = ":latest"
)

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// New creates a new Ollama client for the given server address. When the
// endpoint is empty, the default local address is used. The models are the
// names which may be used for generation.
func New(endpoint string, models []string, opts ...client.ClientOpt) (*Client, error) {
	c := new(Client)
	if endpoint == "" {
		endpoint = schema.DefaultOllamaEndpoint
	} else if !strings.Contains(endpoint, "://") {
		// OLLAMA_HOST is commonly set as host:port
		endpoint = "http://" + endpoint
	}
	cl, err := client.New(append(opts, client.OptEndpoint(endpoint))...)
	if err != nil {
		return nil, err
	}
	c.Client = cl
	c.endpoint = endpoint

	// Declared models, in order and without duplicates
	for _, model := range models {
		if model = strings.TrimSpace(model); model == "" {
			continue
		} else if !slices.Contains(c.models, model) {
			c.models = append(c.models, model)
		}
	}

	return c, nil
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Name returns the provider name, which prefixes model identifiers
func (c *Client) Name() string {
	return pluginName
}

// Endpoint returns the server address
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Models returns the declared model names
func (c *Client) Models() []string {
	return slices.Clone(c.models)
}

// IsDeclared reports whether a model name matches a declared model,
// treating "name" and "name:latest" as the same model
func (c *Client) IsDeclared(name string) bool {
	name = strings.TrimSuffix(name, latestTag)
	for _, model := range c.models {
		if strings.TrimSuffix(model, latestTag) == name {
			return true
		}
	}
	return false
}
