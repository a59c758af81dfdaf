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

// Path: /{$}
// GET returns the list of defined flows.
func FlowListHandler(mgr *manager.Manager) (string, httprequest.PathItem) {
	return "{$}", httprequest.NewPathItem("Flows", "Flows defined on the server", tagFlow).
		Get(func(w http.ResponseWriter, r *http.Request) {
			_ = flowList(w, r, mgr)
		}, "List all defined flows",
			openapi.WithJSONResponse(http.StatusOK, jsonschema.MustFor[schema.FlowListResponse]()),
		)
}

// Path: /{name}
// GET returns the flow descriptor. POST runs the flow with {"data": "..."}
// and returns {"result": "..."}.
func FlowHandler(mgr *manager.Manager) (string, httprequest.PathItem) {
	return "{name}", httprequest.NewPathItem("Flow", "Get or run a flow by name", tagFlow).
		Get(func(w http.ResponseWriter, r *http.Request) {
			_ = flowGet(w, r, mgr)
		}, "Get a flow descriptor",
			openapi.WithJSONResponse(http.StatusOK, jsonschema.MustFor[schema.Flow]()),
		).
		Post(func(w http.ResponseWriter, r *http.Request) {
			_ = flowRun(w, r, mgr)
		}, "Run a flow",
			openapi.WithDescription("Run a flow with a string input in the \"data\" field"),
			openapi.WithJSONRequest(jsonschema.MustFor[schema.FlowRequest]()),
			openapi.WithJSONResponse(http.StatusOK, jsonschema.MustFor[schema.FlowResponse]()),
		)
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func flowList(w http.ResponseWriter, r *http.Request, mgr *manager.Manager) error {
	flows := mgr.Flows()
	response := schema.FlowListResponse{
		Count: len(flows),
		Body:  flows,
	}
	return httpresponse.JSON(w, http.StatusOK, httprequest.Indent(r), response)
}

func flowGet(w http.ResponseWriter, r *http.Request, mgr *manager.Manager) error {
	flow, err := mgr.Flow(r.PathValue("name"))
	if err != nil {
		return httpresponse.Error(w, err)
	}
	return httpresponse.JSON(w, http.StatusOK, httprequest.Indent(r), flow)
}

func flowRun(w http.ResponseWriter, r *http.Request, mgr *manager.Manager) error {
	flow, err := mgr.Flow(r.PathValue("name"))
	if err != nil {
		return httpresponse.Error(w, err)
	}

	var request schema.FlowRequest
	if err := httprequest.Read(r, &request); err != nil {
		return httpresponse.Error(w, httpresponse.ErrBadRequest.With(err.Error()))
	} else if request.Data == nil {
		return httpresponse.Error(w, httpresponse.ErrBadRequest.With(`missing "data" field`))
	}

	// A failure inside the flow body is a server error, whatever status the
	// upstream model server responded with
	result, err := mgr.RunFlow(r.Context(), flow.Name, *request.Data)
	if err != nil {
		return httpresponse.Error(w, httpresponse.ErrInternalError.With(err.Error()))
	}

	return httpresponse.JSON(w, http.StatusOK, httprequest.Indent(r), schema.FlowResponse{
		Result: result,
	})
}
