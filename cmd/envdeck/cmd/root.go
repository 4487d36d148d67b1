// Package cmd provides the CLI commands for envdeck.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	dataDir    string
	jsonOutput bool
	verbose    bool
)

// rootCmd represents the base command.
var rootCmd = &cobra.Command{
	Use:   "envdeck",
	Short: "envdeck - encrypted environment variable groups",
	Long: `envdeck manages groups of environment variables with secrets
encrypted at rest.

Get started:
  envdeck groups               List environment groups
  envdeck set database DATABASE_URL --secret
  envdeck get DATABASE_URL     Resolve a key
  envdeck env --format dotenv > .env

Examples:
  envdeck set ai-providers OPENAI_API_KEY --secret
  envdeck get OPENAI_API_KEY
  eval $(envdeck env --format shell)
  envdeck export > backup.json`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "data directory (default: user config dir)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	viper.BindPFlag("data.dir", rootCmd.PersistentFlags().Lookup("data-dir"))
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

func initConfig() {
	viper.SetEnvPrefix("ENVDECK")
	viper.AutomaticEnv()
}

// isVerbose returns whether verbose mode is enabled.
func isVerbose() bool {
	if verbose {
		return true
	}
	return viper.GetBool("verbose")
}
