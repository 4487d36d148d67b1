package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var exportOutput string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export groups with secrets blanked",
	Long: `Export all environment groups as JSON. Secret values are
replaced with empty strings, so the result is safe to share or commit.
Re-importing it into the same store restores the secrets.

Examples:
  envdeck export > backup.json
  envdeck export -o backup.json`,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "write to file instead of stdout")
}

func runExport(_ *cobra.Command, _ []string) error {
	v, err := openVault()
	if err != nil {
		return err
	}
	defer v.Close()

	data, err := v.ExportJSON()
	if err != nil {
		return fmt.Errorf("failed to export: %w", err)
	}

	if exportOutput == "" {
		fmt.Println(string(data))
		return nil
	}

	if err := os.WriteFile(exportOutput, data, 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", exportOutput, err)
	}
	Success("Exported groups to %s", exportOutput)
	return nil
}
