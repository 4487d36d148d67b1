package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var unsetCmd = &cobra.Command{
	Use:   "unset <group> <key>",
	Short: "Remove a variable from a group",
	Long: `Remove a variable from an environment group. The key is also
dropped from the runtime environment mirror.

Examples:
  envdeck unset database DATABASE_POOL_SIZE`,
	Aliases: []string{"rm"},
	Args:    cobra.ExactArgs(2),
	RunE:    runUnset,
}

func init() {
	rootCmd.AddCommand(unsetCmd)
}

func runUnset(_ *cobra.Command, args []string) error {
	v, err := openVault()
	if err != nil {
		return err
	}
	defer v.Close()

	groupID, key := args[0], args[1]
	if err := v.RemoveVariable(groupID, key); err != nil {
		return fmt.Errorf("failed to remove variable: %w", err)
	}

	Success("Removed %s from %s", key, groupID)
	return nil
}
