package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/envdeck/envdeck/internal/render"
)

var (
	envFormat string
	envGroups []string
)

var envCmd = &cobra.Command{
	Use:   "env",
	Short: "Render variables as environment files",
	Long: `Render stored variables in dotenv, shell, JSON, or YAML form
with secrets decrypted. Output goes to stdout.

Examples:
  eval $(envdeck env --format shell)
  envdeck env --format dotenv > .env
  envdeck env --group database --format yaml`,
	RunE: runEnv,
}

func init() {
	rootCmd.AddCommand(envCmd)
	envCmd.Flags().StringVarP(&envFormat, "format", "f", render.FormatShell, "output format: dotenv, shell, json, yaml")
	envCmd.Flags().StringSliceVarP(&envGroups, "group", "g", nil, "restrict to specific group ids")
}

func runEnv(_ *cobra.Command, _ []string) error {
	v, err := openVault()
	if err != nil {
		return err
	}
	defer v.Close()

	groups, err := v.LoadGroups()
	if err != nil {
		return fmt.Errorf("failed to load groups: %w", err)
	}

	requested := make(map[string]bool, len(envGroups))
	for _, id := range envGroups {
		requested[id] = true
	}

	vars := make(map[string]string)
	for _, g := range groups {
		if len(requested) > 0 && !requested[g.ID] {
			continue
		}
		for _, variable := range g.Variables {
			vars[variable.Key] = variable.Value
		}
	}

	out, err := render.Render(envFormat, vars)
	if err != nil {
		return err
	}
	fmt.Print(out)
	return nil
}
