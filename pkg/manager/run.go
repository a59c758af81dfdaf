package manager

import (
	"context"

	// Packages
	otel "github.com/mutablelogic/go-client/pkg/otel"
	schema "github.com/mutablelogic/go-flow/pkg/schema"
	httpresponse "github.com/mutablelogic/go-server/pkg/httpresponse"
)

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// ListRuns returns recorded runs, newest first. Without a store the list is
// always empty.
func (manager *Manager) ListRuns(ctx context.Context, req schema.RunListRequest) (*schema.RunListResponse, error) {
	if manager.store == nil {
		return &schema.RunListResponse{}, nil
	}

	// OTEL span
	var result error
	child, endFunc := otel.StartSpan(manager.tracer, ctx, spanManagerName("ListRuns"))
	defer func() { endFunc(result) }()

	response, result := manager.store.ListRuns(child, req)
	return response, result
}

// GetRun returns a recorded run by id
func (manager *Manager) GetRun(ctx context.Context, id string) (*schema.Run, error) {
	if manager.store == nil {
		return nil, httpresponse.ErrNotFound.Withf("run %q not found", id)
	}

	// OTEL span
	var result error
	child, endFunc := otel.StartSpan(manager.tracer, ctx, spanManagerName("GetRun"))
	defer func() { endFunc(result) }()

	run, result := manager.store.GetRun(child, id)
	return run, result
}
