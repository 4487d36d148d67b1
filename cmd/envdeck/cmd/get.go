package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var getCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Resolve a variable value",
	Long: `Resolve a key the way the application would: the live process
environment wins, then stored groups in order.

The value is printed to stdout. Messages go to stderr, making this
command pipe-friendly.

Examples:
  envdeck get DATABASE_URL
  envdeck get OPENAI_API_KEY --json
  DB_URL=$(envdeck get DATABASE_URL)`,
	Aliases: []string{"g"},
	Args:    cobra.ExactArgs(1),
	RunE:    runGet,
}

func init() {
	rootCmd.AddCommand(getCmd)
}

func runGet(_ *cobra.Command, args []string) error {
	v, err := openVault()
	if err != nil {
		return err
	}
	defer v.Close()

	key := args[0]
	value, err := v.Resolve(key)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", key, err)
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]string{
			"key":   key,
			"value": value,
		})
	}

	fmt.Print(value)
	return nil
}
