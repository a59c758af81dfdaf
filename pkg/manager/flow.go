package manager

import (
	"context"
	"maps"
	"slices"
	"time"

	// Packages
	otel "github.com/mutablelogic/go-client/pkg/otel"
	schema "github.com/mutablelogic/go-flow/pkg/schema"
	httpresponse "github.com/mutablelogic/go-server/pkg/httpresponse"
	types "github.com/mutablelogic/go-server/pkg/types"
	attribute "go.opentelemetry.io/otel/attribute"
	metric "go.opentelemetry.io/otel/metric"
	trace "go.opentelemetry.io/otel/trace"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// FlowFunc is the body of a flow, which takes a string and returns a string
type FlowFunc func(context.Context, string) (string, error)

type entry struct {
	schema.Flow
	fn FlowFunc
}

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// DefineFlow registers a flow with string input and output. The model is
// informational and may be empty. Returns an error if the name is not an
// identifier, is reserved or is already in use.
func (manager *Manager) DefineFlow(name, model string, fn FlowFunc) (*schema.Flow, error) {
	if !types.IsIdentifier(name) {
		return nil, httpresponse.ErrBadRequest.Withf("flow name %q must be a valid identifier", name)
	} else if name == schema.ModelPath || name == schema.RunPath {
		return nil, httpresponse.ErrBadRequest.Withf("flow name %q is reserved", name)
	} else if fn == nil {
		return nil, httpresponse.ErrBadRequest.Withf("flow %q has no body", name)
	}
	if model != "" {
		if _, _, err := schema.ParseModel(model); err != nil {
			return nil, err
		}
	}

	manager.Lock()
	defer manager.Unlock()
	if _, exists := manager.flows[name]; exists {
		return nil, httpresponse.ErrConflict.Withf("flow %q already defined", name)
	}
	f := &entry{
		Flow: schema.Flow{
			Name:         name,
			InputSchema:  schema.TypeString,
			OutputSchema: schema.TypeString,
			Model:        model,
		},
		fn: fn,
	}
	manager.flows[name] = f

	// Return the descriptor
	return types.Ptr(f.Flow), nil
}

// GenerateFlow returns a flow body which issues a single generation request
// with the input as the prompt, and returns the generated text unchanged.
func (manager *Manager) GenerateFlow(model string) FlowFunc {
	return func(ctx context.Context, input string) (string, error) {
		response, err := manager.Generate(ctx, schema.GenerateRequest{
			Model:  model,
			Prompt: input,
		})
		if err != nil {
			return "", err
		}
		return response.Text, nil
	}
}

// Flows returns the registered flows, sorted by name
func (manager *Manager) Flows() []schema.Flow {
	manager.RLock()
	defer manager.RUnlock()

	result := make([]schema.Flow, 0, len(manager.flows))
	for _, name := range slices.Sorted(maps.Keys(manager.flows)) {
		result = append(result, manager.flows[name].Flow)
	}
	return result
}

// Flow returns a flow descriptor by name
func (manager *Manager) Flow(name string) (*schema.Flow, error) {
	f, err := manager.flowForName(name)
	if err != nil {
		return nil, err
	}
	return types.Ptr(f.Flow), nil
}

// RunFlow invokes a flow by name. Errors from the flow body are returned
// unchanged. When a store is set, a record of the run is kept whether or not
// the flow succeeds.
func (manager *Manager) RunFlow(ctx context.Context, name, input string) (string, error) {
	f, err := manager.flowForName(name)
	if err != nil {
		return "", err
	}

	// OTEL span
	var result error
	child, endFunc := otel.StartSpan(manager.tracer, ctx, spanManagerName("RunFlow"))
	defer func() { endFunc(result) }()

	// Run the flow
	run := schema.Run{
		Flow:  f.Name,
		Model: f.Model,
		Input: input,
		Start: time.Now(),
	}
	output, result := f.fn(child, input)
	run.End = time.Now()
	if result != nil {
		run.Error = result.Error()
		output = ""
	} else {
		run.Output = output
	}
	if span := trace.SpanContextFromContext(child); span.HasTraceID() {
		run.TraceId = span.TraceID().String()
	}

	// Record the run
	manager.record(child, run)

	// Return the output
	return output, result
}

////////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func (manager *Manager) flowForName(name string) (*entry, error) {
	manager.RLock()
	defer manager.RUnlock()
	if f, exists := manager.flows[name]; exists {
		return f, nil
	}
	return nil, httpresponse.ErrNotFound.Withf("no flow found for name %q", name)
}

// record updates the metrics and writes the run to the store. Store errors
// are logged and do not affect the result of the flow.
func (manager *Manager) record(ctx context.Context, run schema.Run) {
	status := "ok"
	if run.Error != "" {
		status = "error"
	}
	attrs := metric.WithAttributes(
		attribute.String("flow", run.Flow),
		attribute.String("status", status),
	)
	if manager.runs != nil {
		manager.runs.Add(ctx, 1, attrs)
	}
	if manager.duration != nil {
		manager.duration.Record(ctx, run.Duration().Seconds(), attrs)
	}

	manager.logger.Debugf(ctx, "flow %q %s in %v", run.Flow, status, run.Duration())

	// The run is recorded even when the request context was cancelled
	if manager.store != nil {
		if _, err := manager.store.CreateRun(context.WithoutCancel(ctx), run); err != nil {
			manager.logger.Printf(ctx, "flow %q: unable to record run: %v", run.Flow, err)
		}
	}
}
