package schema

import (
	"strings"

	// Packages
	httpresponse "github.com/mutablelogic/go-server/pkg/httpresponse"
	types "github.com/mutablelogic/go-server/pkg/types"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

type GenerateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type GenerateResponse struct {
	Model            string `json:"model,omitempty"`
	Text             string `json:"text"`
	DoneReason       string `json:"done_reason,omitempty"`
	PromptTokens     int    `json:"prompt_tokens,omitempty"`
	CompletionTokens int    `json:"completion_tokens,omitempty"`
}

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// ParseModel splits a model identifier of the form "provider/name". The name
// may itself contain slashes, for example "ollama/library/gemma2".
func ParseModel(model string) (string, string, error) {
	provider, name, ok := strings.Cut(model, "/")
	if !ok || provider == "" || name == "" {
		return "", "", httpresponse.ErrBadRequest.Withf("invalid model %q, expected provider/name", model)
	}
	return provider, name, nil
}

// ModelName joins a provider and model name into an identifier
func ModelName(provider, name string) string {
	return provider + "/" + name
}

////////////////////////////////////////////////////////////////////////////////
// STRINGIFY

func (r GenerateRequest) String() string {
	return types.Stringify(r)
}

func (r GenerateResponse) String() string {
	return types.Stringify(r)
}
