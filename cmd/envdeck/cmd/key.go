package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var keyCmd = &cobra.Command{
	Use:   "key",
	Short: "Manage the encryption key",
}

var keyStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the active key fingerprint",
	RunE:  runKeyStatus,
}

var keyRotateCmd = &cobra.Command{
	Use:   "rotate",
	Short: "Rotate the encryption key",
	Long: `Generate a fresh key, re-encrypt every stored secret under it,
and persist it to the key file. Existing exports remain importable
since they carry no secret material.`,
	RunE: runKeyRotate,
}

func init() {
	rootCmd.AddCommand(keyCmd)
	keyCmd.AddCommand(keyStatusCmd)
	keyCmd.AddCommand(keyRotateCmd)
}

func runKeyStatus(_ *cobra.Command, _ []string) error {
	v, err := openVault()
	if err != nil {
		return err
	}
	defer v.Close()

	checksum := v.KeyChecksum()

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]string{"fingerprint": checksum})
	}

	PrintKeyValue("Key fingerprint", checksum)
	return nil
}

func runKeyRotate(_ *cobra.Command, _ []string) error {
	v, err := openVault()
	if err != nil {
		return err
	}
	defer v.Close()

	if !PromptConfirm("Rotate the encryption key and re-encrypt all secrets?") {
		Info("Aborted")
		return nil
	}

	if err := v.RotateKey(); err != nil {
		return fmt.Errorf("failed to rotate key: %w", err)
	}

	Success("Key rotated, fingerprint is now %s", v.KeyChecksum())
	return nil
}
