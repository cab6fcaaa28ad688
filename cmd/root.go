package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	Version = "1.2.0"
)

func showHeader(title string) {
	color.New(color.FgCyan, color.Bold).Println(title)
	fmt.Println("========================================")
}

var rootCmd = &cobra.Command{
	Use:   "betapbbs",
	Short: "Data lifecycle tooling for the Beta BBS database",
	Long: `
betapbbs manages the data lifecycle of the Beta BBS bulletin board
database (users and messages tables):

- seed     idempotently populate sample users and messages
- cleanup  permanently delete all rows (confirmation required)
- status   verify the schema and show row counts
- init     write a default betapbbs.config.json

The connection string is read from the environment variable named by
database.url_env in the config (DATABASE_URL by default).`,

	Run: func(cmd *cobra.Command, args []string) {
		showVersion, _ := cmd.Flags().GetBool("version")
		if showVersion {
			fmt.Printf("betapbbs version %s\n", Version)
			return
		}
		cmd.Help()
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./betapbbs.config.json)")
	rootCmd.PersistentFlags().BoolP("force", "f", false, "Skip confirmations")

	rootCmd.Flags().BoolP("version", "v", false, "Show CLI version")
}

func initConfig() {
	if err := godotenv.Load(); err != nil {
		godotenv.Load(".env")
		godotenv.Load(".env.local")
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("json")
		viper.SetConfigName("betapbbs.config")
	}

	viper.AutomaticEnv()

	// Missing config file is fine; defaults apply.
	viper.ReadInConfig()
}
