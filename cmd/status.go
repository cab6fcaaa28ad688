package cmd

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pashagur/betapbbs/internal/config"
	"github.com/pashagur/betapbbs/internal/database"
)

// statusCmd reports schema readiness and row counts without mutating
// anything.
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show database structure and row counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		dbURL, err := cfg.GetDatabaseURL()
		if err != nil {
			return err
		}

		db, err := database.Open(cfg.Database.Provider, dbURL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer db.Close()

		ctx := context.Background()
		dialect := database.DialectFor(cfg.Database.Provider)

		showHeader("Beta BBS Database Status")

		missing, err := database.VerifyStructure(ctx, db, dialect)
		if err != nil {
			return err
		}

		missingSet := make(map[string]bool, len(missing))
		for _, table := range missing {
			missingSet[table] = true
		}

		for _, table := range database.RequiredTables {
			if missingSet[table] {
				color.Red("  %-10s missing", table)
				continue
			}

			query, args, err := dialect.Builder().
				Select("COUNT(*)").
				From(table).
				ToSql()
			if err != nil {
				return fmt.Errorf("failed to build count query for %s: %w", table, err)
			}

			var count int64
			if err := db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
				return fmt.Errorf("failed to count %s: %w", table, err)
			}
			color.Green("  %-10s %d rows", table, count)
		}

		if len(missing) > 0 {
			fmt.Println()
			fmt.Println("Run your migrations before seeding or cleanup.")
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
