package flow

import (
	"context"
	"io"

	// Packages
	schema "github.com/mutablelogic/go-flow/pkg/schema"
)

////////////////////////////////////////////////////////////////////////////////
// INTERFACES

// Plugin is a model-serving backend which can be registered with the manager.
// Models are addressed as "<name>/<model>", for example "ollama/gemma2".
type Plugin interface {
	// Return the provider name, which prefixes model identifiers
	Name() string

	// Return the model names declared when the plugin was configured
	Models() []string

	// Report whether a bare model name refers to a declared model
	IsDeclared(string) bool

	// Generate text for a prompt. The model in the request is the bare
	// model name, without the provider prefix.
	Generate(context.Context, schema.GenerateRequest) (*schema.GenerateResponse, error)

	// Return the models known to the backend
	ListModels(context.Context) ([]schema.Model, error)
}

// Store persists a record of each flow run
type Store interface {
	io.Closer

	// Runs
	CreateRun(context.Context, schema.Run) (*schema.Run, error)
	GetRun(context.Context, string) (*schema.Run, error)
	ListRuns(context.Context, schema.RunListRequest) (*schema.RunListResponse, error)
}

// Logger is the subset of the server logger used by the manager
type Logger interface {
	Print(context.Context, ...any)
	Printf(context.Context, string, ...any)
	Debug(context.Context, ...any)
	Debugf(context.Context, string, ...any)
}
