package httphandler

import (
	"errors"

	// Packages
	manager "github.com/mutablelogic/go-flow/pkg/manager"
	httprequest "github.com/mutablelogic/go-server/pkg/httprequest"
	jsonschema "github.com/mutablelogic/go-server/pkg/jsonschema"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Router is the interface required to register HTTP handlers. Paths are
// relative to the router prefix.
type Router interface {
	RegisterPath(path string, params *jsonschema.Schema, pathitem httprequest.PathItem) error
}

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	tagFlow  = "Flow"
	tagModel = "Model"
	tagRun   = "Run"
)

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// RegisterHandlers registers the flows server handlers on the provided router.
func RegisterHandlers(mgr *manager.Manager, router Router) error {
	var result error
	register := func(path string, item httprequest.PathItem) {
		result = errors.Join(result, router.RegisterPath(path, nil, item))
	}
	register(FlowListHandler(mgr))
	register(FlowHandler(mgr))
	register(ModelListHandler(mgr))
	register(RunListHandler(mgr))
	register(RunHandler(mgr))
	return result
}
