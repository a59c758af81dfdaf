package httphandler

import (
	"net/http"

	// Packages
	manager "github.com/mutablelogic/go-flow/pkg/manager"
	schema "github.com/mutablelogic/go-flow/pkg/schema"
	httprequest "github.com/mutablelogic/go-server/pkg/httprequest"
	httpresponse "github.com/mutablelogic/go-server/pkg/httpresponse"
	jsonschema "github.com/mutablelogic/go-server/pkg/jsonschema"
	openapi "github.com/mutablelogic/go-server/pkg/openapi"
)

///////////////////////////////////////////////////////////////////////////////
// HANDLER FUNCTIONS

// Path: /model
// GET returns the models of every registered plugin.
func ModelListHandler(mgr *manager.Manager) (string, httprequest.PathItem) {
	return schema.ModelPath, httprequest.NewPathItem("Models", "Models across all plugins", tagModel).
		Get(func(w http.ResponseWriter, r *http.Request) {
			_ = modelList(w, r, mgr)
		}, "List models across all plugins",
			openapi.WithJSONResponse(http.StatusOK, jsonschema.MustFor[schema.ModelListResponse]()),
		)
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func modelList(w http.ResponseWriter, r *http.Request, mgr *manager.Manager) error {
	response, err := mgr.ListModels(r.Context())
	if err != nil {
		return httpresponse.Error(w, err)
	}
	return httpresponse.JSON(w, http.StatusOK, httprequest.Indent(r), response)
}
