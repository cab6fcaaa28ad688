package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pashagur/betapbbs/internal/config"
	"github.com/pashagur/betapbbs/internal/database"
	"github.com/pashagur/betapbbs/internal/seeder"
)

var seedRosterFile string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample users and messages",
	Long: `Idempotently populate the database with the sample roster.

Existing users (matched by username) are reused untouched; missing ones
are created with bcrypt-hashed passwords. Every seeded user then gets a
handful of sample messages and has post_count recomputed from the actual
message rows. Re-running seed never creates duplicates.

Seed passwords are echoed in plaintext for local testing. Never put real
credentials in a roster file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		roster := seeder.DefaultRoster()
		rosterPath := seedRosterFile
		if rosterPath == "" {
			rosterPath = cfg.RosterPath
		}
		if rosterPath != "" {
			roster, err = seeder.LoadRoster(rosterPath)
			if err != nil {
				return err
			}
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

		showHeader("Database Seeding Utility")

		missing, err := database.VerifyStructure(ctx, db, dialect)
		if err != nil {
			return err
		}
		if len(missing) > 0 {
			return fmt.Errorf("missing tables: %s (run your migrations first)", strings.Join(missing, ", "))
		}
		fmt.Println("Database structure verified - all required tables found")
		fmt.Println("Seeding database with sample data...")
		fmt.Println()

		s := seeder.New(db, dialect, roster)
		report, err := s.Run(ctx)
		if err != nil {
			return err
		}

		fmt.Println()
		color.New(color.FgGreen, color.Bold).Println("Database seeding completed!")
		fmt.Println("========================================")
		fmt.Println("Seeded users:")
		for _, u := range report.Users {
			badge := seeder.BadgeFor(u.PostCount)
			fmt.Printf("- %s (%s) - Password: %s - Role: %s - %s (%d posts)\n",
				u.Username, u.Email, u.Password, u.Role, badge.Title, u.PostCount)
		}
		fmt.Println()
		fmt.Println("You can now log in with any of these accounts!")

		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
	seedCmd.Flags().StringVar(&seedRosterFile, "roster", "", "Seed a custom roster from a yaml file")
}
