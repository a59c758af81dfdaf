package httpclient_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	// Packages
	httpclient "github.com/mutablelogic/go-flow/pkg/httpclient"
	httphandler "github.com/mutablelogic/go-flow/pkg/httphandler"
	manager "github.com/mutablelogic/go-flow/pkg/manager"
	schema "github.com/mutablelogic/go-flow/pkg/schema"
	store "github.com/mutablelogic/go-flow/pkg/store"
	httprouter "github.com/mutablelogic/go-server/pkg/httprouter"
	assert "github.com/stretchr/testify/assert"
	require "github.com/stretchr/testify/require"
)

///////////////////////////////////////////////////////////////////////////////
// MOCKS

type stubPlugin struct {
	sync.Mutex
	text    string
	err     error
	prompts []string
}

func (p *stubPlugin) Name() string                { return "ollama" }
func (p *stubPlugin) Models() []string            { return []string{"gemma2"} }
func (p *stubPlugin) IsDeclared(name string) bool { return name == "gemma2" }

func (p *stubPlugin) Generate(_ context.Context, req schema.GenerateRequest) (*schema.GenerateResponse, error) {
	p.Lock()
	defer p.Unlock()
	p.prompts = append(p.prompts, req.Prompt)
	if p.err != nil {
		return nil, p.err
	}
	return &schema.GenerateResponse{Model: req.Model, Text: p.text}, nil
}

func (p *stubPlugin) ListModels(context.Context) ([]schema.Model, error) {
	return []schema.Model{{Name: schema.DefaultModel, Provider: "ollama", Declared: true}}, nil
}

func (p *stubPlugin) Prompts() []string {
	p.Lock()
	defer p.Unlock()
	return append([]string(nil), p.prompts...)
}

///////////////////////////////////////////////////////////////////////////////
// HELPERS

func newTestServer(t *testing.T, plugin *stubPlugin) *httpclient.Client {
	t.Helper()
	s, err := store.NewBlobStore(context.Background(), "mem://runs")
	require.NoError(t, err)
	mgr, err := manager.New(context.Background(), manager.WithPlugin(plugin), manager.WithStore(s))
	require.NoError(t, err)
	_, err = mgr.DefineFlow(schema.DefaultFlow, schema.DefaultModel, mgr.GenerateFlow(schema.DefaultModel))
	require.NoError(t, err)

	router, err := httprouter.NewRouter(context.Background(), http.NewServeMux(), "/", "", schema.SchemaName, "test")
	require.NoError(t, err)
	require.NoError(t, httphandler.RegisterHandlers(mgr, router))

	srv := httptest.NewServer(router)
	t.Cleanup(func() {
		srv.Close()
		mgr.Close()
	})
	c, err := httpclient.New(srv.URL)
	require.NoError(t, err)
	return c
}

///////////////////////////////////////////////////////////////////////////////
// TESTS

func Test_RunFlow(t *testing.T) {
	ctx := context.Background()

	t.Run("Joke", func(t *testing.T) {
		assert := assert.New(t)
		plugin := &stubPlugin{text: "Why did..."}
		c := newTestServer(t, plugin)

		result, err := c.RunFlow(ctx, schema.DefaultFlow, "Tell me a joke")
		require.NoError(t, err)
		assert.Equal("Why did...", result)
		assert.Equal([]string{"Tell me a joke"}, plugin.Prompts())
	})

	t.Run("EmptyInput", func(t *testing.T) {
		assert := assert.New(t)
		plugin := &stubPlugin{text: "Hello"}
		c := newTestServer(t, plugin)

		result, err := c.RunFlow(ctx, schema.DefaultFlow, "")
		require.NoError(t, err)
		assert.Equal("Hello", result)
		assert.Equal([]string{""}, plugin.Prompts())
	})

	t.Run("GenerationError", func(t *testing.T) {
		plugin := &stubPlugin{err: errors.New("model not loaded")}
		c := newTestServer(t, plugin)

		_, err := c.RunFlow(ctx, schema.DefaultFlow, "Tell me a joke")
		assert.Error(t, err)
		assert.Len(t, plugin.Prompts(), 1)
	})

	t.Run("UnknownFlow", func(t *testing.T) {
		plugin := &stubPlugin{text: "Why did..."}
		c := newTestServer(t, plugin)

		_, err := c.RunFlow(ctx, "otherFlow", "Tell me a joke")
		assert.Error(t, err)
		assert.Empty(t, plugin.Prompts())
	})

	t.Run("NoName", func(t *testing.T) {
		c := newTestServer(t, &stubPlugin{})
		_, err := c.RunFlow(ctx, "", "Tell me a joke")
		assert.Error(t, err)
	})
}

func Test_Flows(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	c := newTestServer(t, &stubPlugin{})

	list, err := c.ListFlows(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, list.Count)
	assert.Equal(schema.DefaultFlow, list.Body[0].Name)

	flow, err := c.GetFlow(ctx, schema.DefaultFlow)
	require.NoError(t, err)
	assert.Equal(schema.DefaultModel, flow.Model)
	assert.Equal(schema.TypeString, flow.InputSchema)

	_, err = c.GetFlow(ctx, "otherFlow")
	assert.Error(err)
}

func Test_ListModels(t *testing.T) {
	c := newTestServer(t, &stubPlugin{})

	models, err := c.ListModels(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, models.Count)
	assert.Equal(t, schema.DefaultModel, models.Body[0].Name)
}

func Test_Runs(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	c := newTestServer(t, &stubPlugin{text: "Why did..."})

	for _, input := range []string{"one", "two", "three"} {
		_, err := c.RunFlow(ctx, schema.DefaultFlow, input)
		require.NoError(t, err)
	}

	runs, err := c.ListRuns(ctx, httpclient.WithFlow(schema.DefaultFlow), httpclient.WithLimit(2))
	require.NoError(t, err)
	assert.Equal(3, runs.Count)
	require.Len(t, runs.Body, 2)

	run, err := c.GetRun(ctx, runs.Body[0].Id)
	require.NoError(t, err)
	assert.Equal(runs.Body[0].Id, run.Id)
	assert.Equal("Why did...", run.Output)

	none, err := c.ListRuns(ctx, httpclient.WithFlow("otherFlow"))
	require.NoError(t, err)
	assert.Equal(0, none.Count)

	_, err = c.GetRun(ctx, "")
	assert.Error(err)
}
