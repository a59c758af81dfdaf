package schema

import (
	"time"

	// Packages
	types "github.com/mutablelogic/go-server/pkg/types"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

type Model struct {
	Name       string    `json:"name"`
	Provider   string    `json:"provider"`
	Declared   bool      `json:"declared,omitempty"`
	Size       int64     `json:"size,omitempty"`
	Digest     string    `json:"digest,omitempty"`
	ModifiedAt time.Time `json:"modified_at,omitzero"`
}

type ModelListResponse struct {
	Count int     `json:"count"`
	Body  []Model `json:"body,omitempty"`
}

////////////////////////////////////////////////////////////////////////////////
// STRINGIFY

func (m Model) String() string {
	return types.Stringify(m)
}

func (r ModelListResponse) String() string {
	return types.Stringify(r)
}
