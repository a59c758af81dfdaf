package manager

import (
	"context"
	"errors"
	"sync"

	// Packages
	flow "github.com/mutablelogic/go-flow"
	schema "github.com/mutablelogic/go-flow/pkg/schema"
	httpresponse "github.com/mutablelogic/go-server/pkg/httpresponse"
	metric "go.opentelemetry.io/otel/metric"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// Manager holds the plugin configuration and the flow registry. The
// configuration is fixed when New returns; flows can be defined at any time.
type Manager struct {
	opts
	sync.RWMutex
	flows    map[string]*entry
	runs     metric.Int64Counter
	duration metric.Float64Histogram
}

////////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// New creates a new flow manager.
func New(ctx context.Context, opts ...Opt) (*Manager, error) {
	self := new(Manager)
	self.flows = make(map[string]*entry)

	// Apply options
	if opt, err := applyOpts(opts); err != nil {
		return nil, err
	} else {
		self.opts = opt
	}

	// Create the instruments
	if self.meter != nil {
		if counter, err := self.meter.Int64Counter(metricName("runs"),
			metric.WithDescription("Number of flow runs"),
		); err != nil {
			return nil, err
		} else {
			self.runs = counter
		}
		if histogram, err := self.meter.Float64Histogram(metricName("duration"),
			metric.WithDescription("Duration of flow runs"),
			metric.WithUnit("s"),
		); err != nil {
			return nil, err
		} else {
			self.duration = histogram
		}
	}

	// Return success
	return self, nil
}

// Close the store
func (manager *Manager) Close() error {
	var result error
	if manager.store != nil {
		result = errors.Join(result, manager.store.Close())
	}

	// Return any errors
	return result
}

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Plugins returns the list of plugin names
func (manager *Manager) Plugins() []string {
	result := make([]string, 0, len(manager.plugins))
	for _, plugin := range manager.plugins {
		result = append(result, plugin.Name())
	}
	return result
}

////////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func (manager *Manager) pluginForName(name string) (flow.Plugin, error) {
	for _, plugin := range manager.plugins {
		if plugin.Name() == name {
			return plugin, nil
		}
	}
	return nil, httpresponse.ErrNotFound.Withf("no plugin found for name %q", name)
}

func spanManagerName(op string) string {
	return schema.SchemaName + ".manager." + op
}

func metricName(name string) string {
	return schema.SchemaName + "." + name
}
