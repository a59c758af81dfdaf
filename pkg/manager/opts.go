package manager

import (
	"errors"
	"fmt"

	// Packages
	flow "github.com/mutablelogic/go-flow"
	metric "go.opentelemetry.io/otel/metric"
	trace "go.opentelemetry.io/otel/trace"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// Opt is a functional option for manager configuration.
type Opt func(*opts) error

type opts struct {
	tracer  trace.Tracer
	meter   metric.Meter
	store   flow.Store
	logger  flow.Logger
	plugins []flow.Plugin
}

////////////////////////////////////////////////////////////////////////////////
// OPTIONS

// WithTracer sets the tracer used for tracing flow runs and generation.
func WithTracer(tracer trace.Tracer) Opt {
	return func(o *opts) error {
		o.tracer = tracer
		return nil
	}
}

// WithMeter sets the meter used to record flow run counts and durations.
func WithMeter(meter metric.Meter) Opt {
	return func(o *opts) error {
		o.meter = meter
		return nil
	}
}

// WithStore sets the store in which a record of each flow run is kept.
func WithStore(store flow.Store) Opt {
	return func(o *opts) error {
		o.store = store
		return nil
	}
}

// WithLogger sets the logger.
func WithLogger(logger flow.Logger) Opt {
	return func(o *opts) error {
		if logger != nil {
			o.logger = logger
		}
		return nil
	}
}

// WithPlugin registers a model-serving plugin. Returns an error if a plugin
// with the same name is already registered.
func WithPlugin(plugin flow.Plugin) Opt {
	return func(o *opts) error {
		if plugin == nil {
			return errors.New("plugin is nil")
		}
		for _, existing := range o.plugins {
			if existing.Name() == plugin.Name() {
				return fmt.Errorf("plugin with name %q already registered", plugin.Name())
			}
		}
		o.plugins = append(o.plugins, plugin)
		return nil
	}
}

////////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func applyOpts(opt []Opt) (opts, error) {
	// Set defaults
	o := opts{
		logger: nopLogger{},
	}

	// Apply options
	for _, fn := range opt {
		if err := fn(&o); err != nil {
			return opts{}, err
		}
	}

	// Return success
	return o, nil
}
