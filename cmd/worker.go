package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/leave-management/internal/reconcile"
	"github.com/spf13/cobra"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Start background workers",
	Long:  `Start background jobs that run next to the HTTP server.`,
}

var reconcileWorkerCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Check leave balances against approved requests",
	Long:  `Compare each ledger row with the sum of its approved requests and report drift. Runs on the configured cron schedule unless --once is given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return startReconcileWorker()
	},
}

var (
	reconcileOnce     bool
	reconcileSchedule string
)

func startReconcileWorker() error {
	cfg, err := loadConfig(configDir)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	app, err := newApplication(cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	if reconcileOnce {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		report, err := app.Reconciler.Run(ctx)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return err
		}
		if !report.Clean() {
			return fmt.Errorf("found %d drifted balances", len(report.Drifts))
		}
		return nil
	}

	schedule := getStringFlag(reconcileSchedule, cfg.Reconcile.Schedule)
	scheduler, err := reconcile.NewScheduler(app.Reconciler, schedule, app.Logger)
	if err != nil {
		return err
	}

	scheduler.Start()
	app.Logger.Info("reconcile worker is running. Press Ctrl+C to stop.", "schedule", schedule, "next_run", scheduler.Next())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigChan
	app.Logger.Info("received signal, shutting down reconcile worker", "signal", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := scheduler.Stop(ctx); err != nil {
		app.Logger.Warn("shutdown timeout reached, forcing exit", "error", err)
		return err
	}
	app.Logger.Info("reconcile worker shutdown complete")
	return nil
}

func getStringFlag(flagValue, configValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return configValue
}

func init() {
	reconcileWorkerCmd.Flags().BoolVar(&reconcileOnce, "once", false, "Run a single reconciliation and exit non-zero on drift")
	reconcileWorkerCmd.Flags().StringVar(&reconcileSchedule, "schedule", "", "Cron schedule with seconds (overrides config)")

	workerCmd.AddCommand(reconcileWorkerCmd)

	rootCmd.AddCommand(workerCmd)
}
