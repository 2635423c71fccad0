package cmd

import (
	"context"
	"errors"
	"fmt"

	"rules-service/feature/integrity"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var fixFlag bool

// integrityCmd represents the integrity command
var integrityCmd = &cobra.Command{
	Use:   "integrity",
	Short: "Check the database schema and the storage layout",
	Long: `Compares the service's tables with its models and, with object storage
enabled, checks that the bucket and its prefixes exist.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		return runIntegrityChecks(ctx, fixFlag)
	},
}

func init() {
	integrityCmd.Flags().BoolVar(&fixFlag, "fix", false, "Create the missing bucket and folders")
	RootCmd.AddCommand(integrityCmd)
}

func runIntegrityChecks(ctx context.Context, fix bool) error {
	a, err := loadApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()
	l := a.Logger

	report := map[string]any{}
	failed := false

	schema, err := a.Integrity.CheckSchema()
	if err != nil {
		return fmt.Errorf("schema check failed: %w", err)
	}
	report["schema"] = schema
	if !schema.Matched {
		failed = true
		l.Warn("Schema drift detected", zap.Strings("errors", schema.Errors))
	}

	st, err := a.Integrity.CheckStorage(ctx)
	switch {
	case errors.Is(err, integrity.ErrStorageDisabled):
		report["storage"] = map[string]string{"status": "disabled"}
	case err != nil:
		return fmt.Errorf("storage check failed: %w", err)
	default:
		report["storage"] = st
		if !st.OK() {
			if fix {
				if err := a.Integrity.FixStorage(ctx, st); err != nil {
					return fmt.Errorf("failed to fix storage: %w", err)
				}
				l.Info("Storage layout fixed", zap.Strings("fixed", st.MissingPrefixes))
			} else {
				failed = true
			}
		}
	}

	if err := printJSON(report); err != nil {
		return err
	}
	if failed {
		return fmt.Errorf("integrity check failed")
	}
	return nil
}
