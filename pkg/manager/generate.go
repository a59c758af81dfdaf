package manager

import (
	"context"

	// Packages
	otel "github.com/mutablelogic/go-client/pkg/otel"
	schema "github.com/mutablelogic/go-flow/pkg/schema"
	httpresponse "github.com/mutablelogic/go-server/pkg/httpresponse"
	errgroup "golang.org/x/sync/errgroup"
)

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Generate resolves a "provider/name" model identifier to a plugin and
// declared model, and issues a single generation request. Errors from the
// plugin are returned unchanged.
func (manager *Manager) Generate(ctx context.Context, req schema.GenerateRequest) (*schema.GenerateResponse, error) {
	provider, name, err := schema.ParseModel(req.Model)
	if err != nil {
		return nil, err
	}
	plugin, err := manager.pluginForName(provider)
	if err != nil {
		return nil, err
	}
	if !plugin.IsDeclared(name) {
		return nil, httpresponse.ErrNotFound.Withf("model %q is not declared", req.Model)
	}

	// OTEL span
	var result error
	child, endFunc := otel.StartSpan(manager.tracer, ctx, spanManagerName("Generate"))
	defer func() { endFunc(result) }()

	// Run the plugin
	response, result := plugin.Generate(child, schema.GenerateRequest{
		Model:  name,
		Prompt: req.Prompt,
	})
	return response, result
}

// ListModels returns the models from all plugins, queried in parallel
func (manager *Manager) ListModels(ctx context.Context) (*schema.ModelListResponse, error) {
	// OTEL span
	var result error
	child, endFunc := otel.StartSpan(manager.tracer, ctx, spanManagerName("ListModels"))
	defer func() { endFunc(result) }()

	models := make([][]schema.Model, len(manager.plugins))
	g, gctx := errgroup.WithContext(child)
	for i, plugin := range manager.plugins {
		g.Go(func() error {
			list, err := plugin.ListModels(gctx)
			if err != nil {
				return err
			}
			models[i] = list
			return nil
		})
	}
	if result = g.Wait(); result != nil {
		return nil, result
	}

	// Merge in plugin order
	var response schema.ModelListResponse
	for _, list := range models {
		response.Body = append(response.Body, list...)
	}
	response.Count = len(response.Body)
	return &response, nil
}
