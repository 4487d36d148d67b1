package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var groupsCmd = &cobra.Command{
	Use:   "groups",
	Short: "List environment groups",
	Long: `List all environment groups with their variable counts.

Examples:
  envdeck groups
  envdeck groups --json`,
	Aliases: []string{"ls"},
	RunE:    runGroups,
}

var groupsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an environment group",
	Args:  cobra.ExactArgs(1),
	RunE:  runGroupsDelete,
}

func init() {
	rootCmd.AddCommand(groupsCmd)
	groupsCmd.AddCommand(groupsDeleteCmd)
}

func runGroups(_ *cobra.Command, _ []string) error {
	v, err := openVault()
	if err != nil {
		return err
	}
	defer v.Close()

	groups, err := v.LoadGroups()
	if err != nil {
		return fmt.Errorf("failed to load groups: %w", err)
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(groups)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", Bold("ID"), Bold("NAME"), Bold("VARIABLES"), Bold("SECRETS"))
	for _, g := range groups {
		secrets := 0
		for _, variable := range g.Variables {
			if variable.IsSecret {
				secrets++
			}
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\n", g.ID, g.Name, len(g.Variables), secrets)
	}
	return w.Flush()
}

func runGroupsDelete(_ *cobra.Command, args []string) error {
	v, err := openVault()
	if err != nil {
		return err
	}
	defer v.Close()

	id := args[0]
	if !PromptConfirm(fmt.Sprintf("Delete group %q and all its variables?", id)) {
		Info("Aborted")
		return nil
	}

	if err := v.DeleteGroup(id); err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
	}

	Success("Deleted group %s", id)
	return nil
}
