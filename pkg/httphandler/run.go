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

// Path: /run
// GET lists recorded runs, newest first. Query parameters: flow, offset, limit.
func RunListHandler(mgr *manager.Manager) (string, httprequest.PathItem) {
	return schema.RunPath, httprequest.NewPathItem("Runs", "Recorded flow runs", tagRun).
		Get(func(w http.ResponseWriter, r *http.Request) {
			_ = runList(w, r, mgr)
		}, "List flow runs",
			openapi.WithDescription("List flow runs, optionally filtered by flow name"),
			openapi.WithQuery(jsonschema.MustFor[schema.RunListRequest]()),
			openapi.WithJSONResponse(http.StatusOK, jsonschema.MustFor[schema.RunListResponse]()),
		)
}

// Path: /run/{id}
// GET returns a single run.
func RunHandler(mgr *manager.Manager) (string, httprequest.PathItem) {
	return schema.RunPath + "/{id}", httprequest.NewPathItem("Run", "A recorded flow run", tagRun).
		Get(func(w http.ResponseWriter, r *http.Request) {
			_ = runGet(w, r, mgr)
		}, "Get a flow run by id",
			openapi.WithJSONResponse(http.StatusOK, jsonschema.MustFor[schema.Run]()),
		)
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func runList(w http.ResponseWriter, r *http.Request, mgr *manager.Manager) error {
	var request schema.RunListRequest
	if err := httprequest.Query(r.URL.Query(), &request); err != nil {
		return httpresponse.Error(w, httpresponse.ErrBadRequest.With(err.Error()))
	}
	response, err := mgr.ListRuns(r.Context(), request)
	if err != nil {
		return httpresponse.Error(w, err)
	}
	return httpresponse.JSON(w, http.StatusOK, httprequest.Indent(r), response)
}

func runGet(w http.ResponseWriter, r *http.Request, mgr *manager.Manager) error {
	run, err := mgr.GetRun(r.Context(), r.PathValue("id"))
	if err != nil {
		return httpresponse.Error(w, err)
	}
	return httpresponse.JSON(w, http.StatusOK, httprequest.Indent(r), run)
}
