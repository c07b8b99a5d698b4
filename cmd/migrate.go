package cmd

import (
	"context"
	"fmt"

	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"
)

var (
	migrateCmd = &cobra.Command{
		RunE:  runMigration,
		Use:   "migrate",
		Short: "run db migration files under db/migrations directory",
	}
	migrateStatusCmd = &cobra.Command{
		RunE:  runMigrationStatus,
		Use:   "status",
		Short: "print the applied and pending migrations",
	}
	migrateRollback bool
	migrateDir      string
)

const migrationTable = "schema_migrations"

func init() {
	migrateCmd.Flags().BoolVarP(&migrateRollback, "rollback", "r", false, "rollback the latest version of sql migration")
	migrateCmd.PersistentFlags().StringVarP(&migrateDir, "dir", "d", "db/migrations", "sql migrations directory")
	migrateCmd.AddCommand(migrateStatusCmd)
}

func migrationCommand(rollback bool) string {
	if rollback {
		return "down"
	}
	return "up"
}

func runGoose(ctx context.Context, command string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	db, err := goose.OpenDBWithDriver("pgx", cfg.Database.Source)
	if err != nil {
		return fmt.Errorf("goose: failed to open DB: %w", err)
	}
	defer db.Close()

	goose.SetTableName(migrationTable)

	if err := goose.RunContext(ctx, command, db, migrateDir); err != nil {
		return fmt.Errorf("goose %s: %w", command, err)
	}
	return nil
}

func runMigration(cmd *cobra.Command, _ []string) error {
	return runGoose(cmd.Context(), migrationCommand(migrateRollback))
}

func runMigrationStatus(cmd *cobra.Command, _ []string) error {
	return runGoose(cmd.Context(), "status")
}
