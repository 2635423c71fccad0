package cmd

import (
	"context"
	"fmt"

	"rules-service/core/catalog"
	"rules-service/core/dataset"
	"rules-service/core/lock"
	"rules-service/core/logger"
	"rules-service/core/scheduler"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var dryRunSync bool

// syncCmd runs one download cycle.
var syncCmd = &cobra.Command{
	Use:   "sync <type>",
	Short: "Download and reconcile one dataset type",
	Long: `Runs one download cycle for Rules, ValueSets, CountryList or DomesticRules,
under the same distributed lock as the scheduled job.

Examples:
  # Download the business rules
  sync rules

  # Show what a value set download would change
  sync valuesets --dry-run`,
	Args: cobra.ExactArgs(1),
	RunE: runSync,
}

func init() {
	syncCmd.Flags().BoolVar(&dryRunSync, "dry-run", false, "Compute the changes without applying them")
	RootCmd.AddCommand(syncCmd)
}

// jobConfig returns the schedule of kind.
func jobConfig(cfg scheduler.Config, kind dataset.Kind) scheduler.JobConfig {
	switch kind {
	case dataset.KindRules:
		return cfg.Rules
	case dataset.KindValueSets:
		return cfg.ValueSets
	case dataset.KindCountryList:
		return cfg.CountryList
	default:
		return cfg.DomesticRules
	}
}

func runSync(cmd *cobra.Command, args []string) error {
	kind, err := dataset.ParseKind(args[0])
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := loadApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()
	defer a.Logger.Sync()

	if err := a.Features.InitAll(ctx); err != nil {
		return err
	}

	l := logger.WithCorrelationID(a.Logger)
	schedule := jobConfig(a.Config.Sync, kind)
	ran, err := lock.WithDistributedLock(ctx, a.Locker, kind.LockName(), schedule.LockMin, schedule.LockMax, func(ctx context.Context) error {
		return a.syncOnce(ctx, l, kind, dryRunSync)
	})
	if err != nil {
		return err
	}
	if !ran {
		l.Warn("Lock held by another instance, nothing done", zap.String("lock", kind.LockName()))
	}
	return nil
}

// syncOnce runs one download cycle of kind.
func (a *App) syncOnce(ctx context.Context, l *zap.Logger, kind dataset.Kind, dryRun bool) error {
	if kind == dataset.KindCountryList {
		fetch := a.countryList.Fetch()
		if fetch == nil {
			return fmt.Errorf("gateway downloads are disabled")
		}
		if dryRun {
			fresh, err := fetch(ctx, l)
			if err != nil {
				return err
			}
			current, err := a.countryList.Service().Get(ctx)
			if err != nil {
				return err
			}
			return printJSON(map[string]any{
				"current": current.RawData,
				"fresh":   fresh,
				"changed": current.RawData != fresh,
				"dry_run": true,
			})
		}
		return a.countryList.Service().Sync(ctx, l, fetch, a.countryList.AllowEmpty())
	}

	svc, fetch, err := a.catalogFor(kind)
	if err != nil {
		return err
	}
	if fetch == nil {
		return fmt.Errorf("no download source configured for %s", kind)
	}

	result, err := svc.Sync(ctx, l, fetch, catalog.SyncOptions{AllowEmpty: a.Config.Sync.AllowEmpty, DryRun: dryRun})
	if err != nil || result == nil {
		return err
	}
	return printJSON(result)
}
