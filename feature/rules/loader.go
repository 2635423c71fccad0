package rules

import (
	"context"

	"rules-service/core/catalog"
	"rules-service/core/dataset"
	"rules-service/core/scheduler"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Options configures the rules feature.
type Options struct {
	// Fetch downloads the rules. Without it no sync job is scheduled.
	Fetch catalog.FetchFunc
	// Schedule is the sync job schedule.
	Schedule scheduler.JobConfig
	// AllowEmpty applies an empty download.
	AllowEmpty bool
	// TestGuard protects the test API. Nil disables it.
	TestGuard fiber.Handler
}

// Feature implements the loader.Feature interface.
type Feature struct {
	service *catalog.Service
	handler *Handler
	opts    Options
}

// NewFeature creates the rules feature.
func NewFeature(service *catalog.Service, opts Options, logger *zap.Logger) *Feature {
	return &Feature{
		service: service,
		handler: NewHandler(service, "/rules", logger),
		opts:    opts,
	}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "rules"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return true
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	if f.opts.TestGuard != nil {
		f.handler.RegisterTestRoutes(app, f.opts.TestGuard)
	}
	f.handler.RegisterRoutes(app)
	return nil
}

// Service returns the catalog service of the feature.
func (f *Feature) Service() *catalog.Service {
	return f.service
}

// Fetch returns the download function, nil when downloads are off.
func (f *Feature) Fetch() catalog.FetchFunc {
	return f.opts.Fetch
}

// Init builds the signed list at startup.
func (f *Feature) Init(ctx context.Context) error {
	return f.service.Init(ctx)
}

// Jobs returns the rules download job.
func (f *Feature) Jobs() []scheduler.Job {
	if f.opts.Fetch == nil {
		return nil
	}
	return []scheduler.Job{scheduler.FromConfig(
		"rules-download",
		dataset.KindRules.LockName(),
		f.opts.Schedule,
		f.service.SyncJob(f.opts.Fetch, catalog.SyncOptions{AllowEmpty: f.opts.AllowEmpty}),
	)}
}
