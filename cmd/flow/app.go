package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	// Packages
	kong "github.com/alecthomas/kong"
	logger "github.com/mutablelogic/go-server/pkg/logger"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type Globals struct {
	Debug   bool `name:"debug" negatable:"" default:"true" help:"Log at debug level, use --no-debug for info level"`
	Verbose bool `name:"verbose" help:"Log at trace level and trace client requests"`
	JSON    bool `name:"json-log" help:"Write log records as JSON lines"`
	HTTP    struct {
		Addr    string        `name:"addr" env:"FLOW_ADDR" default:"localhost:3400" help:"Server listen address, or the address the client connects to"`
		Prefix  string        `name:"prefix" default:"/" help:"Path prefix for the flows API"`
		Origin  string        `name:"origin" default:"" help:"Cross-origin protection (CSRF) origin. Empty string for same-origin only, '*' to allow all origins"`
		Timeout time.Duration `name:"timeout" default:"0" help:"Server read and write timeout, or client request timeout. Zero for the default"`
	} `embed:"" prefix:"http."`

	vars   kong.Vars `kong:"-"` // Variables for kong
	ctx    context.Context
	cancel context.CancelFunc
	logger *slogger
}

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

func NewApp(app Globals, vars kong.Vars) *Globals {
	// Set the vars
	app.vars = vars

	// Create the logger
	app.logger = newLogger(os.Stderr, logLevel(app.Debug, app.Verbose), app.JSON)

	// Create the context
	// This context is cancelled when the process receives a SIGINT or SIGTERM
	app.ctx, app.cancel = signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	// Return the app
	return &app
}

func (app *Globals) Close() error {
	app.cancel()
	return nil
}

///////////////////////////////////////////////////////////////////////////////
// METHODS

func (app *Globals) Context() context.Context {
	return app.ctx
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func logLevel(debug, verbose bool) *slog.LevelVar {
	level := new(slog.LevelVar)
	switch {
	case verbose:
		level.Set(logger.LevelTrace)
	case debug:
		level.Set(logger.LevelDebug)
	default:
		level.Set(logger.LevelInfo)
	}
	return level
}
