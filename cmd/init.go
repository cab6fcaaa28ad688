package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pashagur/betapbbs/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default betapbbs.config.json",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.InitializeProject(); err != nil {
			return err
		}

		color.Green("Created %s", config.ConfigFileName)
		fmt.Println("Set DATABASE_URL (or your configured url_env) and run 'betapbbs status'.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
