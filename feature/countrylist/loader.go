package countrylist

import (
	"context"

	"rules-service/core/dataset"
	"rules-service/core/scheduler"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Options configures the country list feature.
type Options struct {
	// Fetch downloads the country list. Without it no sync job is scheduled.
	Fetch FetchFunc
	// Schedule is the sync job schedule.
	Schedule scheduler.JobConfig
	// AllowEmpty applies an empty download.
	AllowEmpty bool
	// TestGuard protects the test API. Nil disables it.
	TestGuard fiber.Handler
}

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
	opts    Options
	logger  *zap.Logger
}

// NewFeature creates the country list feature.
func NewFeature(service *Service, opts Options, logger *zap.Logger) *Feature {
	return &Feature{service: service, handler: NewHandler(service, logger), opts: opts, logger: logger}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "countrylist"
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

// Service returns the country list service.
func (f *Feature) Service() *Service {
	return f.service
}

// Fetch returns the download function, nil when downloads are off.
func (f *Feature) Fetch() FetchFunc {
	return f.opts.Fetch
}

// AllowEmpty reports whether empty downloads are applied.
func (f *Feature) AllowEmpty() bool {
	return f.opts.AllowEmpty
}

// Init builds the signed list at startup.
func (f *Feature) Init(ctx context.Context) error {
	return f.service.Init(ctx)
}

// Jobs returns the country list download job.
func (f *Feature) Jobs() []scheduler.Job {
	if f.opts.Fetch == nil {
		return nil
	}
	return []scheduler.Job{scheduler.FromConfig(
		"countrylist-download",
		dataset.KindCountryList.LockName(),
		f.opts.Schedule,
		func(ctx context.Context, log *zap.Logger) error {
			return f.service.Sync(ctx, log, f.opts.Fetch, f.opts.AllowEmpty)
		},
	)}
}
