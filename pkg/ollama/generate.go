package ollama

import (
	"context"

	// Packages
	client "github.com/mutablelogic/go-client"
	schema "github.com/mutablelogic/go-flow/pkg/schema"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Model           string `json:"model"`
	Response        string `json:"response"`
	Done            bool   `json:"done"`
	DoneReason      string `json:"done_reason,omitempty"`
	PromptEvalCount int    `json:"prompt_eval_count,omitempty"`
	EvalCount       int    `json:"eval_count,omitempty"`
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Generate sends a single non-streaming generate request and returns the
// response text verbatim. Errors from the server are returned unchanged.
func (c *Client) Generate(ctx context.Context, req schema.GenerateRequest) (*schema.GenerateResponse, error) {
	payload, err := client.NewJSONRequest(generateRequest{
		Model:  req.Model,
		Prompt: req.Prompt,
		Stream: false,
	})
	if err != nil {
		return nil, err
	}

	// Perform request
	var response generateResponse
	if err := c.DoWithContext(ctx, payload, &response, client.OptPath("api", "generate")); err != nil {
		return nil, err
	}

	// Return the response
	return &schema.GenerateResponse{
		Model:            response.Model,
		Text:             response.Response,
		DoneReason:       response.DoneReason,
		PromptTokens:     response.PromptEvalCount,
		CompletionTokens: response.EvalCount,
	}, nil
}
