package schema

import (
	"time"

	// Packages
	types "github.com/mutablelogic/go-server/pkg/types"
)

////////////////////////////////////////////////////////////////////////////////
// CONSTANTS

// MaxListLimit is the maximum number of runs returned in a single
// ListRuns call. Clients paginate with Offset for larger sets.
const MaxListLimit = 100

////////////////////////////////////////////////////////////////////////////////
// TYPES

// Run is the record of a single flow invocation
type Run struct {
	Id      string    `json:"id"`
	Flow    string    `json:"flow"`
	Model   string    `json:"model,omitempty"`
	Input   string    `json:"input"`
	Output  string    `json:"output,omitempty"`
	Error   string    `json:"error,omitempty"`
	TraceId string    `json:"trace_id,omitempty"`
	Start   time.Time `json:"start,omitzero"`
	End     time.Time `json:"end,omitzero"`
}

type RunListRequest struct {
	Flow   string `json:"flow,omitempty"`   // optional flow name filter
	Offset int    `json:"offset,omitempty"` // number of runs to skip
	Limit  int    `json:"limit,omitempty"`  // max runs to return; 0 means MaxListLimit
}

type RunListResponse struct {
	Count int   `json:"count"` // total number of matching runs, before offset/limit
	Body  []Run `json:"body,omitempty"`
}

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Duration returns the elapsed time of the run, or zero if it has not ended
func (r Run) Duration() time.Duration {
	if r.Start.IsZero() || r.End.IsZero() {
		return 0
	}
	return r.End.Sub(r.Start)
}

////////////////////////////////////////////////////////////////////////////////
// STRINGIFY

func (r Run) String() string {
	return types.Stringify(r)
}

func (r RunListRequest) String() string {
	return types.Stringify(r)
}

func (r RunListResponse) String() string {
	return types.Stringify(r)
}
