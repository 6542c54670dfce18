package cmd

import (
	"context"
	"fmt"

	"github.com/frahmantamala/leave-management/internal/core/database"
	"github.com/frahmantamala/leave-management/pkg/logger"
	"github.com/spf13/cobra"
)

var (
	migrateCmd = &cobra.Command{
		RunE:  runMigration,
		Use:   "migrate",
		Short: "to run the embedded db migrations for the configured driver",
	}
	migrateRollback bool
)

func init() {
	migrateCmd.Flags().BoolVarP(&migrateRollback, "rollback", "r", false, "to rollback the latest version of sql migration")
}

func runMigration(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig(configDir)
	if err != nil {
		return err
	}

	db, err := database.Open(cfg.Database)
	if err != nil {
		return err
	}
	defer database.Close(db)

	lg := logger.LoggerWrapper()
	migrator, err := database.NewMigrator(db, lg)
	if err != nil {
		return err
	}

	if migrateRollback {
		version, err := migrator.Down(ctx)
		if err != nil {
			return err
		}
		lg.Info("rollback complete", "version", version)
		return nil
	}

	applied, err := migrator.Up(ctx)
	if err != nil {
		return err
	}

	version, err := migrator.Version(ctx)
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	lg.Info("migrations complete", "applied", len(applied), "version", version, "driver", cfg.Database.Driver)
	return nil
}
