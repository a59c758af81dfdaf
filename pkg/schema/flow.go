package schema

import (
	// Packages
	types "github.com/mutablelogic/go-server/pkg/types"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// Flow describes a registered flow
type Flow struct {
	Name         string `json:"name"`
	InputSchema  string `json:"input_schema"`
	OutputSchema string `json:"output_schema"`
	Model        string `json:"model,omitempty"`
}

// FlowRequest is the request body when invoking a flow. Data is a pointer
// so a missing field can be told apart from an empty string.
type FlowRequest struct {
	Data *string `json:"data"`
}

// FlowResponse is the response body from a flow invocation
type FlowResponse struct {
	Result string `json:"result"`
}

type FlowListResponse struct {
	Count int    `json:"count"`
	Body  []Flow `json:"body,omitempty"`
}

////////////////////////////////////////////////////////////////////////////////
// STRINGIFY

func (f Flow) String() string {
	return types.Stringify(f)
}

func (r FlowRequest) String() string {
	return types.Stringify(r)
}

func (r FlowResponse) String() string {
	return types.Stringify(r)
}

func (r FlowListResponse) String() string {
	return types.Stringify(r)
}
