package domestic

import (
	"context"

	"rules-service/core/catalog"
	"rules-service/core/dataset"
	"rules-service/core/scheduler"
	"rules-service/feature/rules"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	enabled    bool
	service    *catalog.Service
	handler    *rules.Handler
	fetch      catalog.FetchFunc
	schedule   scheduler.JobConfig
	allowEmpty bool
}

// NewFeature creates the domestic rules feature. A nil fetch disables the
// download job.
func NewFeature(cfg Config, service *catalog.Service, fetch catalog.FetchFunc, schedule scheduler.JobConfig, allowEmpty bool, logger *zap.Logger) *Feature {
	return &Feature{
		enabled:    cfg.Enabled,
		service:    service,
		handler:    rules.NewHandler(service, "/bnrules", logger),
		fetch:      fetch,
		schedule:   schedule,
		allowEmpty: allowEmpty,
	}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "domestic"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return f.enabled
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}

// Service returns the catalog service of the feature.
func (f *Feature) Service() *catalog.Service {
	return f.service
}

// Fetch returns the download function, nil when downloads are off.
func (f *Feature) Fetch() catalog.FetchFunc {
	return f.fetch
}

// Init builds the signed list at startup.
func (f *Feature) Init(ctx context.Context) error {
	return f.service.Init(ctx)
}

// Jobs returns the domestic rules download job.
func (f *Feature) Jobs() []scheduler.Job {
	if f.fetch == nil {
		return nil
	}
	return []scheduler.Job{scheduler.FromConfig(
		"domesticrules-download",
		dataset.KindDomesticRules.LockName(),
		f.schedule,
		f.service.SyncJob(f.fetch, catalog.SyncOptions{AllowEmpty: f.allowEmpty}),
	)}
}
