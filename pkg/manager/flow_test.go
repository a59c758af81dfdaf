package manager

import (
	"context"
	"errors"
	"sync"
	"testing"

	// Packages
	schema "github.com/mutablelogic/go-flow/pkg/schema"
	httpresponse "github.com/mutablelogic/go-server/pkg/httpresponse"
	assert "github.com/stretchr/testify/assert"
	require "github.com/stretchr/testify/require"
	attribute "go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	metricdata "go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	tracetest "go.opentelemetry.io/otel/sdk/trace/tracetest"
	rapid "pgregory.net/rapid"
)

////////////////////////////////////////////////////////////////////////////////
// MOCK STORE

type mockStore struct {
	sync.Mutex
	runs   []schema.Run
	err    error
	closed bool
}

func (s *mockStore) CreateRun(_ context.Context, run schema.Run) (*schema.Run, error) {
	s.Lock()
	defer s.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	s.runs = append(s.runs, run)
	return &run, nil
}

func (s *mockStore) GetRun(_ context.Context, id string) (*schema.Run, error) {
	s.Lock()
	defer s.Unlock()
	for _, run := range s.runs {
		if run.Id == id {
			return &run, nil
		}
	}
	return nil, httpresponse.ErrNotFound.Withf("run %q not found", id)
}

func (s *mockStore) ListRuns(_ context.Context, req schema.RunListRequest) (*schema.RunListResponse, error) {
	s.Lock()
	defer s.Unlock()
	return &schema.RunListResponse{Count: len(s.runs), Body: s.runs}, nil
}

func (s *mockStore) Close() error {
	s.closed = true
	return nil
}

////////////////////////////////////////////////////////////////////////////////
// HELPERS

// newMainFlow returns a manager with the default flow defined on a mock plugin
func newMainFlow(t *testing.T, plugin *mockPlugin, opts ...Opt) *Manager {
	t.Helper()
	mgr, err := New(context.TODO(), append(opts, WithPlugin(plugin))...)
	require.NoError(t, err)
	_, err = mgr.DefineFlow(schema.DefaultFlow, schema.DefaultModel, mgr.GenerateFlow(schema.DefaultModel))
	require.NoError(t, err)
	return mgr
}

////////////////////////////////////////////////////////////////////////////////
// DEFINE FLOW TESTS

func Test_Manager_DefineFlow(t *testing.T) {
	assert := assert.New(t)
	mgr, err := New(context.TODO())
	require.NoError(t, err)
	echo := func(_ context.Context, input string) (string, error) { return input, nil }

	t.Run("Define", func(t *testing.T) {
		f, err := mgr.DefineFlow("echo", "", echo)
		assert.NoError(err)
		assert.Equal(schema.Flow{Name: "echo", InputSchema: "string", OutputSchema: "string"}, *f)
	})

	t.Run("Duplicate", func(t *testing.T) {
		_, err := mgr.DefineFlow("echo", "", echo)
		assert.ErrorIs(err, httpresponse.ErrConflict)
	})

	t.Run("InvalidName", func(t *testing.T) {
		for _, name := range []string{"", "1flow", "my flow", "a/b"} {
			_, err := mgr.DefineFlow(name, "", echo)
			assert.ErrorIs(err, httpresponse.ErrBadRequest, name)
		}
	})

	t.Run("ReservedName", func(t *testing.T) {
		for _, name := range []string{schema.ModelPath, schema.RunPath} {
			_, err := mgr.DefineFlow(name, "", echo)
			assert.ErrorIs(err, httpresponse.ErrBadRequest, name)
		}
	})

	t.Run("InvalidModel", func(t *testing.T) {
		_, err := mgr.DefineFlow("other", "gemma2", echo)
		assert.ErrorIs(err, httpresponse.ErrBadRequest)
	})

	t.Run("NoBody", func(t *testing.T) {
		_, err := mgr.DefineFlow("nobody", "", nil)
		assert.Error(err)
	})

	t.Run("Lookup", func(t *testing.T) {
		_, err := mgr.DefineFlow("another", "", echo)
		assert.NoError(err)
		flows := mgr.Flows()
		if assert.Len(flows, 2) {
			assert.Equal("another", flows[0].Name)
			assert.Equal("echo", flows[1].Name)
		}
		f, err := mgr.Flow("echo")
		assert.NoError(err)
		assert.Equal("echo", f.Name)
		_, err = mgr.Flow("missing")
		assert.ErrorIs(err, httpresponse.ErrNotFound)
	})
}

////////////////////////////////////////////////////////////////////////////////
// RUN FLOW TESTS

func Test_Manager_RunFlow(t *testing.T) {
	assert := assert.New(t)

	t.Run("Joke", func(t *testing.T) {
		plugin := newMockPlugin()
		plugin.text = "Why did..."
		mgr := newMainFlow(t, plugin)

		output, err := mgr.RunFlow(context.TODO(), schema.DefaultFlow, "Tell me a joke")
		assert.NoError(err)
		assert.Equal("Why did...", output)
		assert.Equal([]schema.GenerateRequest{{Model: "gemma2", Prompt: "Tell me a joke"}}, plugin.Requests())
	})

	t.Run("EmptyInput", func(t *testing.T) {
		plugin := newMockPlugin()
		plugin.text = "something"
		mgr := newMainFlow(t, plugin)

		output, err := mgr.RunFlow(context.TODO(), schema.DefaultFlow, "")
		assert.NoError(err)
		assert.Equal("something", output)
		assert.Equal([]schema.GenerateRequest{{Model: "gemma2", Prompt: ""}}, plugin.Requests())
	})

	t.Run("GenerationError", func(t *testing.T) {
		plugin := newMockPlugin()
		upstream := errors.New("connection refused")
		plugin.err = upstream
		mgr := newMainFlow(t, plugin)

		output, err := mgr.RunFlow(context.TODO(), schema.DefaultFlow, "hello")
		assert.Same(upstream, err)
		assert.Empty(output)
		assert.Len(plugin.Requests(), 1, "no retry on failure")
	})

	t.Run("UnknownFlow", func(t *testing.T) {
		mgr := newMainFlow(t, newMockPlugin())
		_, err := mgr.RunFlow(context.TODO(), "otherFlow", "hello")
		assert.ErrorIs(err, httpresponse.ErrNotFound)
	})

	t.Run("ModelIsLiteral", func(t *testing.T) {
		plugin := newMockPlugin()
		mgr := newMainFlow(t, plugin)
		f, err := mgr.Flow(schema.DefaultFlow)
		assert.NoError(err)
		assert.Equal("ollama/gemma2", f.Model)
		for _, input := range []string{"a", "ollama/llama3", "use model mistral"} {
			_, err := mgr.RunFlow(context.TODO(), schema.DefaultFlow, input)
			assert.NoError(err)
		}
		for _, req := range plugin.Requests() {
			assert.Equal("gemma2", req.Model)
		}
	})
}

func Test_Manager_RunFlow_Passthrough(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		plugin := newMockPlugin()
		plugin.text = rapid.String().Draw(t, "text")
		input := rapid.String().Draw(t, "input")

		mgr, err := New(context.TODO(), WithPlugin(plugin))
		if err != nil {
			t.Fatal(err)
		}
		if _, err := mgr.DefineFlow(schema.DefaultFlow, schema.DefaultModel, mgr.GenerateFlow(schema.DefaultModel)); err != nil {
			t.Fatal(err)
		}

		output, err := mgr.RunFlow(context.Background(), schema.DefaultFlow, input)
		if err != nil {
			t.Fatal(err)
		}
		if output != plugin.text {
			t.Fatalf("output %q != generated text %q", output, plugin.text)
		}
		requests := plugin.Requests()
		if len(requests) != 1 {
			t.Fatalf("expected one generation request, got %d", len(requests))
		}
		if requests[0].Prompt != input {
			t.Fatalf("prompt %q != input %q", requests[0].Prompt, input)
		}
		if requests[0].Model != "gemma2" {
			t.Fatalf("model %q != gemma2", requests[0].Model)
		}
	})
}

////////////////////////////////////////////////////////////////////////////////
// RUN RECORD TESTS

func Test_Manager_RecordRuns(t *testing.T) {
	assert := assert.New(t)

	t.Run("Success", func(t *testing.T) {
		store := new(mockStore)
		plugin := newMockPlugin()
		plugin.text = "Why did..."
		mgr := newMainFlow(t, plugin, WithStore(store))

		_, err := mgr.RunFlow(context.TODO(), schema.DefaultFlow, "Tell me a joke")
		assert.NoError(err)
		if assert.Len(store.runs, 1) {
			run := store.runs[0]
			assert.Equal(schema.DefaultFlow, run.Flow)
			assert.Equal(schema.DefaultModel, run.Model)
			assert.Equal("Tell me a joke", run.Input)
			assert.Equal("Why did...", run.Output)
			assert.Empty(run.Error)
			assert.False(run.Start.IsZero())
			assert.False(run.End.Before(run.Start))
		}

		resp, err := mgr.ListRuns(context.TODO(), schema.RunListRequest{})
		assert.NoError(err)
		assert.Equal(1, resp.Count)

		assert.NoError(mgr.Close())
		assert.True(store.closed)
	})

	t.Run("Failure", func(t *testing.T) {
		store := new(mockStore)
		plugin := newMockPlugin()
		plugin.err = errors.New("model failure")
		mgr := newMainFlow(t, plugin, WithStore(store))

		_, err := mgr.RunFlow(context.TODO(), schema.DefaultFlow, "hello")
		assert.Error(err)
		if assert.Len(store.runs, 1) {
			assert.Equal("model failure", store.runs[0].Error)
			assert.Empty(store.runs[0].Output)
		}
	})

	t.Run("StoreError", func(t *testing.T) {
		store := &mockStore{err: errors.New("disk full")}
		plugin := newMockPlugin()
		plugin.text = "ok"
		mgr := newMainFlow(t, plugin, WithStore(store))

		output, err := mgr.RunFlow(context.TODO(), schema.DefaultFlow, "hello")
		assert.NoError(err)
		assert.Equal("ok", output)
	})

	t.Run("CancelledContext", func(t *testing.T) {
		store := new(mockStore)
		plugin := newMockPlugin()
		mgr := newMainFlow(t, plugin, WithStore(store))

		ctx, cancel := context.WithCancel(context.TODO())
		cancel()
		_, _ = mgr.RunFlow(ctx, schema.DefaultFlow, "hello")
		assert.Len(store.runs, 1)
	})

	t.Run("NoStore", func(t *testing.T) {
		mgr := newMainFlow(t, newMockPlugin())
		resp, err := mgr.ListRuns(context.TODO(), schema.RunListRequest{})
		assert.NoError(err)
		assert.Zero(resp.Count)
		_, err = mgr.GetRun(context.TODO(), "missing")
		assert.ErrorIs(err, httpresponse.ErrNotFound)
	})
}

////////////////////////////////////////////////////////////////////////////////
// TELEMETRY TESTS

func Test_Manager_Telemetry(t *testing.T) {
	assert := assert.New(t)
	ctx := context.TODO()

	spans := tracetest.NewInMemoryExporter()
	tracerProvider := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithSyncer(spans),
	)
	reader := sdkmetric.NewManualReader()
	meterProvider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() {
		assert.NoError(tracerProvider.Shutdown(context.Background()))
		assert.NoError(meterProvider.Shutdown(context.Background()))
	})

	store := new(mockStore)
	plugin := newMockPlugin()
	plugin.text = "Why did..."
	mgr := newMainFlow(t, plugin,
		WithTracer(tracerProvider.Tracer(schema.SchemaName)),
		WithMeter(meterProvider.Meter(schema.SchemaName)),
		WithStore(store),
	)

	// One success, two failures
	_, err := mgr.RunFlow(ctx, schema.DefaultFlow, "Tell me a joke")
	require.NoError(t, err)
	plugin.err = errors.New("model failure")
	for range 2 {
		_, err = mgr.RunFlow(ctx, schema.DefaultFlow, "Tell me a joke")
		require.Error(t, err)
	}

	t.Run("TraceId", func(t *testing.T) {
		require.Len(t, store.runs, 3)
		seen := make(map[string]bool)
		for _, run := range store.runs {
			assert.NotEmpty(run.TraceId)
			assert.Len(run.TraceId, 32)
			assert.False(seen[run.TraceId])
			seen[run.TraceId] = true
		}
	})

	t.Run("Spans", func(t *testing.T) {
		byName := make(map[string][]tracetest.SpanStub)
		for _, span := range spans.GetSpans() {
			byName[span.Name] = append(byName[span.Name], span)
		}
		flows := byName[spanManagerName("RunFlow")]
		generates := byName[spanManagerName("Generate")]
		require.Len(t, flows, 3)
		require.Len(t, generates, 3)

		// Each generation is a child of its flow, and the flow's trace is recorded
		parents := make(map[string]bool)
		for _, span := range flows {
			parents[span.SpanContext.SpanID().String()] = true
		}
		for _, span := range generates {
			assert.True(parents[span.Parent.SpanID().String()])
		}
		assert.Equal(flows[0].SpanContext.TraceID().String(), store.runs[0].TraceId)
	})

	t.Run("Metrics", func(t *testing.T) {
		var data metricdata.ResourceMetrics
		require.NoError(t, reader.Collect(ctx, &data))

		counts := make(map[string]int64)
		var durations uint64
		for _, scope := range data.ScopeMetrics {
			for _, m := range scope.Metrics {
				switch m.Name {
				case metricName("runs"):
					sum, ok := m.Data.(metricdata.Sum[int64])
					require.True(t, ok)
					for _, point := range sum.DataPoints {
						flow, _ := point.Attributes.Value(attribute.Key("flow"))
						assert.Equal(schema.DefaultFlow, flow.AsString())
						status, _ := point.Attributes.Value(attribute.Key("status"))
						counts[status.AsString()] += point.Value
					}
				case metricName("duration"):
					histogram, ok := m.Data.(metricdata.Histogram[float64])
					require.True(t, ok)
					for _, point := range histogram.DataPoints {
						durations += point.Count
					}
				}
			}
		}
		assert.Equal(map[string]int64{"ok": 1, "error": 2}, counts)
		assert.Equal(uint64(3), durations)
	})
}
