package schema

////////////////////////////////////////////////////////////////////////////////
// TYPES

const (
	SchemaName = "flow"

	// DefaultFlow is the name of the flow defined at startup
	DefaultFlow = "mainFlow"

	// DefaultModel is the model identifier used by the default flow
	DefaultModel = "ollama/gemma2"

	// DefaultOllamaEndpoint is the address of a locally running Ollama server
	DefaultOllamaEndpoint = "http://127.0.0.1:11434"

	// TypeString is the schema type of flow input and output
	TypeString = "string"

	// Route names which cannot be used as flow names
	ModelPath = "model"
	RunPath   = "run"
)
