package ollama

import (
	"context"
	"strings"
	"time"

	// Packages
	client "github.com/mutablelogic/go-client"
	schema "github.com/mutablelogic/go-flow/pkg/schema"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type listModelsResponse struct {
	Models []localModel `json:"models"`
}

type localModel struct {
	Name       string    `json:"name"`
	Model      string    `json:"model"`
	ModifiedAt time.Time `json:"modified_at"`
	Size       int64     `json:"size"`
	Digest     string    `json:"digest"`
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// ListModels returns the models available on the server, followed by any
// declared models which have not been pulled
func (c *Client) ListModels(ctx context.Context) ([]schema.Model, error) {
	var response listModelsResponse
	if err := c.DoWithContext(ctx, client.NewRequest(), &response, client.OptPath("api", "tags")); err != nil {
		return nil, err
	}

	result := make([]schema.Model, 0, len(response.Models)+len(c.models))
	found := make(map[string]bool, len(c.models))
	for _, model := range response.Models {
		declared := c.IsDeclared(model.Name)
		if declared {
			found[strings.TrimSuffix(model.Name, latestTag)] = true
		}
		result = append(result, schema.Model{
			Name:       schema.ModelName(pluginName, model.Name),
			Provider:   pluginName,
			Declared:   declared,
			Size:       model.Size,
			Digest:     model.Digest,
			ModifiedAt: model.ModifiedAt,
		})
	}

	// Append declared models which are not on the server
	for _, name := range c.models {
		if found[strings.TrimSuffix(name, latestTag)] {
			continue
		}
		result = append(result, schema.Model{
			Name:     schema.ModelName(pluginName, name),
			Provider: pluginName,
			Declared: true,
		})
	}

	return result, nil
}
