package manager

import (
	"context"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

type nopLogger struct{}

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

func (nopLogger) Print(context.Context, ...any)          {}
func (nopLogger) Printf(context.Context, string, ...any) {}
func (nopLogger) Debug(context.Context, ...any)          {}
func (nopLogger) Debugf(context.Context, string, ...any) {}
