package cmd

import (
	"context"
	"fmt"

	"github.com/frahmantamala/leave-management/db"
	"github.com/frahmantamala/leave-management/internal/seed"
	"github.com/spf13/cobra"
)

var seedFile string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Create leave types, users with bcrypt-hashed passwords and their leave balances. Existing rows are kept.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		cfg, err := loadConfig(configDir)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		fixture, err := loadFixture(seedFile)
		if err != nil {
			return err
		}

		app, err := newApplication(cfg)
		if err != nil {
			return err
		}
		defer app.Close()

		seeder := seed.NewSeeder(app.Users, app.LeaveTypes, app.Ledger, app.Auth, app.Transactor, app.Logger)
		result, err := seeder.Run(ctx, fixture)
		if err != nil {
			return err
		}

		fmt.Printf("Seeded %d leave types, %d users, %d new balances\n", result.LeaveTypes, result.Users, result.Provisioned)
		return nil
	},
}

func loadFixture(path string) (*seed.Fixture, error) {
	if path == "" {
		return seed.Parse(db.Seed)
	}
	return seed.Load(path)
}

func init() {
	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "", "seed fixture yaml (defaults to the bundled demo data)")
}
