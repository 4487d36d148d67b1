package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/envdeck/envdeck/internal/store"
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import groups from a JSON or YAML file",
	Long: `Import environment groups, replacing the stored collection.
Secret variables with empty values are re-populated from the stored
group with the same id, so an export round-trips without losing
secrets. Use - to read from stdin.

Examples:
  envdeck import backup.json
  envdeck import groups.yaml
  cat backup.json | envdeck import -`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func runImport(_ *cobra.Command, args []string) error {
	path := args[0]

	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return fmt.Errorf("failed to read import file: %w", err)
	}

	// YAML payloads are converted to the JSON form the vault accepts.
	if isYAMLPath(path) {
		var groups []*store.EnvironmentGroup
		if err := yaml.Unmarshal(data, &groups); err != nil {
			return fmt.Errorf("failed to parse YAML: %w", err)
		}
		data, err = json.Marshal(groups)
		if err != nil {
			return fmt.Errorf("failed to convert YAML: %w", err)
		}
	}

	v, err := openVault()
	if err != nil {
		return err
	}
	defer v.Close()

	if err := v.Import(data); err != nil {
		return fmt.Errorf("failed to import: %w", err)
	}

	Success("Imported groups from %s", path)
	return nil
}

func isYAMLPath(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}
