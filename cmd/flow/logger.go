package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	// Packages
	flow "github.com/mutablelogic/go-flow"
	logger "github.com/mutablelogic/go-server/pkg/logger"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// slogger adapts a structured logger to flow.Logger
type slogger struct {
	log *slog.Logger
}

var _ flow.Logger = (*slogger)(nil)

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// newLogger returns a logger which writes records at or above level, either
// as terminal text or as JSON lines
func newLogger(w io.Writer, level *slog.LevelVar, json bool) *slogger {
	var handler slog.Handler
	if json {
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: logger.LevelTrace})
	} else {
		handler = logger.NewTermHandler(w, level)
	}
	return &slogger{
		log: slog.New(logger.NewLevelHandler(handler, level)),
	}
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Slog returns the underlying structured logger
func (l *slogger) Slog() *slog.Logger {
	return l.log
}

func (l *slogger) Print(ctx context.Context, v ...any) {
	l.log.InfoContext(ctx, fmt.Sprint(v...))
}

func (l *slogger) Printf(ctx context.Context, format string, v ...any) {
	l.log.InfoContext(ctx, fmt.Sprintf(format, v...))
}

func (l *slogger) Debug(ctx context.Context, v ...any) {
	l.log.DebugContext(ctx, fmt.Sprint(v...))
}

func (l *slogger) Debugf(ctx context.Context, format string, v ...any) {
	l.log.DebugContext(ctx, fmt.Sprintf(format, v...))
}
