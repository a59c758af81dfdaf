package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	// Packages
	flow "github.com/mutablelogic/go-flow"
	httphandler "github.com/mutablelogic/go-flow/pkg/httphandler"
	manager "github.com/mutablelogic/go-flow/pkg/manager"
	ollama "github.com/mutablelogic/go-flow/pkg/ollama"
	schema "github.com/mutablelogic/go-flow/pkg/schema"
	store "github.com/mutablelogic/go-flow/pkg/store"
	version "github.com/mutablelogic/go-flow/pkg/version"
	httprouter "github.com/mutablelogic/go-server/pkg/httprouter"
	httpserver "github.com/mutablelogic/go-server/pkg/httpserver"
	middleware "github.com/mutablelogic/go-server/pkg/otel"
	otelhttp "go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	otel "go.opentelemetry.io/otel"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type ServerCommands struct {
	Server RunServerCommand `cmd:"" name:"server" help:"Run the flows server." group:"SERVER"`
}

type RunServerCommand struct {
	Ollama      string   `name:"ollama" env:"OLLAMA_HOST" default:"${OLLAMA_HOST}" help:"Ollama server address"`
	OllamaModel []string `name:"ollama-model" default:"gemma2" help:"Ollama model to declare. May be repeated."`
	Model       string   `name:"model" default:"${DEFAULT_MODEL}" help:"Model used by ${DEFAULT_FLOW}"`
	Tracing     bool     `name:"tracing" negatable:"" default:"true" help:"Enable tracing, metrics and the run store"`
	OTel        string   `name:"otel-endpoint" env:"OTEL_EXPORTER_OTLP_ENDPOINT" help:"OTLP/HTTP endpoint for exporting traces and metrics"`
	Store       string   `name:"store" default:"mem://runs" help:"Run store URL (e.g. mem://runs, file://runs/path, s3://bucket/prefix)"`
	S3Endpoint  string   `name:"s3-endpoint" env:"AWS_ENDPOINT_URL_S3" help:"Endpoint for an S3-compatible run store"`
}

///////////////////////////////////////////////////////////////////////////////
// COMMANDS

func (cmd *RunServerCommand) Run(ctx *Globals) error {
	// The ollama plugin, with trace context propagated to the ollama server
	plugin, err := ollama.New(cmd.Ollama, cmd.OllamaModel)
	if err != nil {
		return fmt.Errorf("failed to create ollama plugin: %w", err)
	}
	if cmd.Tracing {
		plugin.Client.Client.Transport = otelhttp.NewTransport(plugin.Client.Client.Transport)
	}
	opts := []manager.Opt{
		manager.WithLogger(ctx.logger),
		manager.WithPlugin(plugin),
	}

	// Tracing, metrics and the run store
	var runs flow.Store
	if cmd.Tracing {
		shutdown, err := startTelemetry(ctx.ctx, schema.SchemaName, cmd.OTel)
		if err != nil {
			return fmt.Errorf("failed to start telemetry: %w", err)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(shutdownCtx); err != nil {
				ctx.logger.Printf(shutdownCtx, "telemetry shutdown: %v", err)
			}
		}()
		opts = append(opts,
			manager.WithTracer(otel.Tracer(schema.SchemaName)),
			manager.WithMeter(otel.Meter(schema.SchemaName)),
		)

		storeOpts := []store.Opt{
			store.WithTracerProvider(otel.GetTracerProvider()),
		}
		if cmd.S3Endpoint != "" {
			storeOpts = append(storeOpts, store.WithEndpoint(cmd.S3Endpoint))
		}
		if runs, err = store.NewBlobStore(ctx.ctx, cmd.Store, storeOpts...); err != nil {
			return fmt.Errorf("failed to open run store: %w", err)
		}
	}

	// Create the manager, which closes the store
	mgr, err := newManager(ctx.ctx, runs, opts...)
	if err != nil {
		return fmt.Errorf("failed to create manager: %w", err)
	}
	defer mgr.Close()

	// Define the flow
	if _, err := mgr.DefineFlow(schema.DefaultFlow, cmd.Model, mgr.GenerateFlow(cmd.Model)); err != nil {
		return err
	}

	return serve(ctx, mgr)
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// newManager creates a manager which owns the store. The store is closed
// when the manager cannot be created.
func newManager(ctx context.Context, runs flow.Store, opts ...manager.Opt) (*manager.Manager, error) {
	if runs != nil {
		opts = append(opts, manager.WithStore(runs))
	}
	mgr, err := manager.New(ctx, opts...)
	if err != nil && runs != nil {
		return nil, errors.Join(err, runs.Close())
	}
	return mgr, err
}

// serve registers HTTP handlers and runs the server until context is done.
func serve(ctx *Globals, mgr *manager.Manager) error {
	var opts []httpserver.Opt
	if ctx.HTTP.Timeout > 0 {
		opts = append(opts,
			httpserver.WithReadTimeout(ctx.HTTP.Timeout),
			httpserver.WithWriteTimeout(ctx.HTTP.Timeout),
		)
	}

	// Bind the listener first, so the address is final
	srv, err := httpserver.New(ctx.HTTP.Addr, nil, opts...)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	} else if err := srv.Listen(); err != nil {
		return err
	}

	// Server spans and request logging, so flow spans become children
	wrap := []httprouter.HTTPMiddlewareFunc{
		middleware.HTTPHandlerFunc(srv.URL().Host, ctx.logger.Slog()),
	}

	// Create the router on the server mux
	router, err := httprouter.NewRouter(ctx.ctx, srv.Router(), ctx.HTTP.Prefix, ctx.HTTP.Origin, schema.SchemaName, version.Version(), wrap...)
	if err != nil {
		return fmt.Errorf("failed to create router: %w", err)
	}
	srv.SetHandler(router)

	// Register flows server handlers, and a JSON 404 for everything else
	if err := httphandler.RegisterHandlers(mgr, router); err != nil {
		return fmt.Errorf("failed to register handlers: %w", err)
	} else if err := router.RegisterCatchAll(ctx.HTTP.Prefix, false); err != nil {
		return fmt.Errorf("failed to register handlers: %w", err)
	}

	ctx.logger.Printf(ctx.ctx, "%s@%s started on %s with flows %v", schema.SchemaName, version.Version(), srv.URL(), mgr.Flows())
	if err := srv.Run(ctx.ctx); err != nil {
		return err
	}
	ctx.logger.Printf(context.Background(), "%s stopped", schema.SchemaName)
	return nil
}
