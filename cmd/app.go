package cmd

import (
	"context"
	"fmt"

	"rules-service/core/catalog"
	"rules-service/core/config"
	"rules-service/core/database"
	"rules-service/core/dataset"
	"rules-service/core/loader"
	"rules-service/core/lock"
	"rules-service/core/middleware/auth"
	"rules-service/core/readcache"
	"rules-service/core/reconcile"
	redisclient "rules-service/core/redis"
	"rules-service/core/signing"
	"rules-service/core/snapshot"
	"rules-service/core/storage"
	"rules-service/feature/countrylist"
	"rules-service/feature/domestic"
	"rules-service/feature/gateway"
	"rules-service/feature/integrity"
	"rules-service/feature/integrity/checks"
	"rules-service/feature/publickey"
	"rules-service/feature/rules"
	"rules-service/feature/valuesets"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// App holds the wired components shared by the commands.
type App struct {
	Config    *config.Config
	Logger    *zap.Logger
	DB        *gorm.DB
	Storage   storage.Client
	Redis     *redis.Client
	Locker    lock.Locker
	Signer    signing.Signer
	Snapshots *snapshot.Cache
	Caches    *readcache.Registry
	Features  *loader.Manager
	Integrity *integrity.Service

	rules       *rules.Feature
	valueSets   *valuesets.Feature
	countryList *countrylist.Feature
	domestic    *domestic.Feature
}

// schemaTables lists every table the service owns with its model.
func schemaTables() []checks.Table {
	return []checks.Table{
		{Name: dataset.KindRules.TableName(), Model: dataset.ItemEntity{}},
		{Name: dataset.KindValueSets.TableName(), Model: dataset.ItemEntity{}},
		{Name: snapshot.SignedList{}.TableName(), Model: snapshot.SignedList{}},
		{Name: countrylist.Entity{}.TableName(), Model: countrylist.Entity{}},
		{Name: lock.ShedLock{}.TableName(), Model: lock.ShedLock{}},
	}
}

// buildApp connects the infrastructure and wires every feature.
func buildApp(ctx context.Context, cfg *config.Config, logg *zap.Logger) (*App, error) {
	a := &App{Config: cfg, Logger: logg}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	a.DB = db

	rulesStore := dataset.NewGormStore(db, dataset.KindRules)
	valueSetStore := dataset.NewGormStore(db, dataset.KindValueSets)
	countryRepo := countrylist.NewGormRepository(db)

	if cfg.Database.AutoMigrate {
		if err := rulesStore.Migrate(ctx); err != nil {
			return nil, fmt.Errorf("failed to migrate %s: %w", rulesStore.Table(), err)
		}
		if err := valueSetStore.Migrate(ctx); err != nil {
			return nil, fmt.Errorf("failed to migrate %s: %w", valueSetStore.Table(), err)
		}
		if err := database.Migrate(ctx, db, &snapshot.SignedList{}, &countrylist.Entity{}, &lock.ShedLock{}); err != nil {
			return nil, err
		}
	}

	if cfg.Storage.Enabled {
		client, err := storage.NewClient(cfg.Storage)
		if err != nil {
			return nil, err
		}
		if err := storage.EnsureBucket(ctx, client, cfg.Storage.Bucket, cfg.Storage.Region); err != nil {
			return nil, err
		}
		a.Storage = client
	}

	a.Redis, err = redisclient.New(ctx, cfg.Redis)
	if err != nil {
		return nil, err
	}

	switch cfg.Lock.Backend {
	case lock.BackendRedis:
		a.Locker = lock.NewRedisLocker(a.Redis, cfg.Lock.KeyPrefix)
	case lock.BackendDatabase:
		a.Locker = lock.NewDBLocker(db)
	default:
		a.Locker = lock.NewMemoryLocker()
	}
	logg.Info("Distributed lock ready", zap.String("backend", cfg.Lock.Backend))

	a.Signer, err = signing.New(cfg.Signing)
	if err != nil {
		return nil, fmt.Errorf("failed to create signer: %w", err)
	}
	if a.Signer == nil {
		logg.Warn("No signer configured, payloads and signed lists are served unsigned")
	}

	snapOpts := []snapshot.Option{snapshot.WithLogger(logg)}
	if a.Storage != nil && cfg.Storage.PublishPrefix != "" {
		snapOpts = append(snapOpts, snapshot.WithPublisher(
			snapshot.NewStoragePublisher(a.Storage, cfg.Storage.Bucket, cfg.Storage.PublishPrefix)))
	}
	a.Snapshots = snapshot.New(snapshot.NewGormRepository(db), a.Signer, snapOpts...)
	a.Caches = readcache.NewRegistry(cfg.Cache.TTL)
	rec := reconcile.New(a.Signer, a.Snapshots, logg)

	service := func(store dataset.Store) *catalog.Service {
		return catalog.NewService(store, rec, a.Snapshots, a.Caches.Named(store.Kind().CacheName()))
	}

	var testGuard fiber.Handler
	if cfg.Server.TestAPI {
		testGuard = auth.New(auth.Config{ApiKey: cfg.Server.ApiKey})
		logg.Warn("Test API enabled")
	}

	var (
		fetchRules     catalog.FetchFunc
		fetchValueSets catalog.FetchFunc
		fetchCountries countrylist.FetchFunc
	)
	if cfg.Gateway.Enabled {
		gw, err := gateway.NewClient(cfg.Gateway)
		if err != nil {
			return nil, err
		}
		fetchRules, fetchValueSets, fetchCountries = gw.FetchRules, gw.FetchValueSets, gw.FetchCountryList
	}

	schedules := cfg.Sync
	a.rules = rules.NewFeature(service(rulesStore), rules.Options{
		Fetch:      fetchRules,
		Schedule:   schedules.Rules,
		AllowEmpty: schedules.AllowEmpty,
		TestGuard:  testGuard,
	}, logg)
	a.valueSets = valuesets.NewFeature(service(valueSetStore), valuesets.Options{
		Fetch:      fetchValueSets,
		Schedule:   schedules.ValueSets,
		AllowEmpty: schedules.AllowEmpty,
		TestGuard:  testGuard,
	}, logg)
	a.countryList = countrylist.NewFeature(
		countrylist.NewService(countryRepo, a.Signer, a.Snapshots, a.Caches.Named(dataset.KindCountryList.CacheName()), logg),
		countrylist.Options{Fetch: fetchCountries, Schedule: schedules.CountryList, AllowEmpty: schedules.AllowEmpty, TestGuard: testGuard},
		logg,
	)

	var fetchDomestic catalog.FetchFunc
	if a.Storage != nil {
		fetchDomestic = domestic.NewFetcher(a.Storage, cfg.Storage.Bucket, cfg.Domestic).Fetch
	}
	a.domestic = domestic.NewFeature(cfg.Domestic, service(dataset.NewMemoryStore(dataset.KindDomesticRules)),
		fetchDomestic, schedules.DomesticRules, schedules.AllowEmpty, logg)

	var target *integrity.StorageTarget
	if a.Storage != nil {
		prefixes := []string{}
		if cfg.Domestic.Enabled {
			prefixes = append(prefixes, cfg.Domestic.Prefix)
		}
		if cfg.Storage.PublishPrefix != "" {
			prefixes = append(prefixes, cfg.Storage.PublishPrefix)
		}
		target = &integrity.StorageTarget{Client: a.Storage, Bucket: cfg.Storage.Bucket, Region: cfg.Storage.Region, Prefixes: prefixes}
	}
	a.Integrity = integrity.NewService(db, schemaTables(), target, logg)

	a.Features = loader.NewManager()
	a.Features.Register(a.rules)
	a.Features.Register(a.valueSets)
	a.Features.Register(a.countryList)
	a.Features.Register(a.domestic)
	a.Features.Register(publickey.NewFeature(a.Signer, logg))
	var operatorGuard fiber.Handler
	if cfg.Server.ApiKey != "" {
		operatorGuard = auth.New(auth.Config{ApiKey: cfg.Server.ApiKey})
	}
	a.Features.Register(integrity.NewFeature(a.Integrity, operatorGuard))

	return a, nil
}

// Close releases the connections.
func (a *App) Close() {
	if a.Redis != nil {
		_ = a.Redis.Close()
	}
	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}

// catalogFor returns the service and download function of a list-shaped
// dataset type.
func (a *App) catalogFor(kind dataset.Kind) (*catalog.Service, catalog.FetchFunc, error) {
	switch kind {
	case dataset.KindRules:
		return a.rules.Service(), a.rules.Fetch(), nil
	case dataset.KindValueSets:
		return a.valueSets.Service(), a.valueSets.Fetch(), nil
	case dataset.KindDomesticRules:
		if !a.domestic.IsEnabled() {
			return nil, nil, fmt.Errorf("domestic rules are disabled")
		}
		return a.domestic.Service(), a.domestic.Fetch(), nil
	default:
		return nil, nil, fmt.Errorf("%s is not a list dataset", kind)
	}
}
