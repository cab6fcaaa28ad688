package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pashagur/betapbbs/internal/cleaner"
	"github.com/pashagur/betapbbs/internal/config"
	"github.com/pashagur/betapbbs/internal/confirm"
	"github.com/pashagur/betapbbs/internal/database"
)

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Permanently delete all users and messages",
	Long: `Remove every row from the messages and users tables and reset the
message id sequence.

This is a destructive operation. It prompts for the exact confirmation
phrase unless --force is given, deletes messages before users to honor
the foreign key, and commits everything as one transaction: a failure
partway leaves the database untouched.`,
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

		showHeader("Beta BBS Database Cleanup Utility")

		missing, err := database.VerifyStructure(ctx, db, dialect)
		if err != nil {
			return err
		}
		if len(missing) > 0 {
			return fmt.Errorf("missing tables: %s (run your migrations first)", strings.Join(missing, ", "))
		}
		fmt.Println("Database structure verified - all required tables found")

		force, _ := cmd.Flags().GetBool("force")
		ok, err := confirm.New(force).Confirm()
		if err != nil {
			return err
		}
		if !ok {
			// Declined confirmation is a normal no-op exit.
			fmt.Println("Cleanup cancelled. No data was deleted.")
			return nil
		}

		fmt.Println()
		fmt.Println("Starting cleanup process...")

		c := cleaner.New(db, dialect)
		report, err := c.Run(ctx)
		if err != nil {
			return err
		}

		if report.AlreadyClean {
			return nil
		}

		fmt.Println()
		color.New(color.FgGreen, color.Bold).Println("Cleanup completed successfully!")
		fmt.Println("The database has been cleared of all user data and messages.")
		fmt.Println("You can now register new users and post new messages.")

		return nil
	},
}

func init() {
	rootCmd.AddCommand(cleanupCmd)
}
