package loader

import (
	"context"
	"fmt"

	"rules-service/core/scheduler"

	"github.com/gofiber/fiber/v2"
)

// Feature is a self-contained module of the service.
type Feature interface {
	// Name identifies the feature in logs.
	Name() string
	// IsEnabled reports whether the feature should be loaded.
	IsEnabled() bool
	// Load registers the feature's routes.
	Load(app fiber.Router) error
}

// Initializer is implemented by features with startup work.
type Initializer interface {
	Init(ctx context.Context) error
}

// Scheduled is implemented by features with periodic jobs.
type Scheduled interface {
	Jobs() []scheduler.Job
}

// Manager holds the registered features.
type Manager struct {
	features []Feature
}

// NewManager creates an empty manager.
func NewManager() *Manager {
	return &Manager{}
}

// Register adds a feature.
func (m *Manager) Register(f Feature) {
	m.features = append(m.features, f)
}

// Enabled returns the enabled features in registration order.
func (m *Manager) Enabled() []Feature {
	var out []Feature
	for _, f := range m.features {
		if f.IsEnabled() {
			out = append(out, f)
		}
	}
	return out
}

// InitAll runs the startup work of every enabled feature.
func (m *Manager) InitAll(ctx context.Context) error {
	for _, f := range m.Enabled() {
		if i, ok := f.(Initializer); ok {
			if err := i.Init(ctx); err != nil {
				return fmt.Errorf("failed to initialize feature %s: %w", f.Name(), err)
			}
		}
	}
	return nil
}

// LoadAll registers the routes of every enabled feature.
func (m *Manager) LoadAll(app fiber.Router) error {
	for _, f := range m.Enabled() {
		if err := f.Load(app); err != nil {
			return fmt.Errorf("failed to load feature %s: %w", f.Name(), err)
		}
	}
	return nil
}

// Jobs collects the periodic jobs of every enabled feature.
func (m *Manager) Jobs() []scheduler.Job {
	var jobs []scheduler.Job
	for _, f := range m.Enabled() {
		if s, ok := f.(Scheduled); ok {
			jobs = append(jobs, s.Jobs()...)
		}
	}
	return jobs
}
