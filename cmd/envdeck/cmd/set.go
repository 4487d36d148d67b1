package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/envdeck/envdeck/internal/store"
)

var (
	setSecret      bool
	setDescription string
)

var setCmd = &cobra.Command{
	Use:   "set <group> <key> [value]",
	Short: "Set a variable in a group",
	Long: `Set a variable in an environment group. When the value is
omitted it is read from the terminal with echo disabled, which keeps
secrets out of shell history.

Examples:
  envdeck set database DATABASE_POOL_SIZE 10
  envdeck set database DATABASE_URL --secret
  envdeck set ai-providers OPENAI_API_KEY sk-... --secret`,
	Aliases: []string{"s"},
	Args:    cobra.RangeArgs(2, 3),
	RunE:    runSet,
}

func init() {
	rootCmd.AddCommand(setCmd)
	setCmd.Flags().BoolVar(&setSecret, "secret", false, "encrypt the value at rest")
	setCmd.Flags().StringVar(&setDescription, "description", "", "variable description")
}

func runSet(_ *cobra.Command, args []string) error {
	v, err := openVault()
	if err != nil {
		return err
	}
	defer v.Close()

	groupID, key := args[0], args[1]

	var value string
	if len(args) == 3 {
		value = args[2]
	} else {
		value, err = promptSecret(fmt.Sprintf("Value for %s: ", key))
		if err != nil {
			return fmt.Errorf("failed to read value: %w", err)
		}
	}

	err = v.SetVariable(groupID, store.EnvironmentVariable{
		Key:         key,
		Value:       value,
		Description: setDescription,
		IsSecret:    setSecret,
	})
	if err != nil {
		return fmt.Errorf("failed to set variable: %w", err)
	}

	if setSecret {
		Success("Set secret %s in %s", key, groupID)
	} else {
		Success("Set %s in %s", key, groupID)
	}
	return nil
}
