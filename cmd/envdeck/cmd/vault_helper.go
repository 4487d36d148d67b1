package cmd

import (
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/envdeck/envdeck/internal/config"
	"github.com/envdeck/envdeck/internal/runtime"
	"github.com/envdeck/envdeck/internal/store"
	"github.com/envdeck/envdeck/internal/vault"
)

// loadConfig reads the application config, applying the --data-dir flag
// on top.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if dataDir != "" {
		cfg.Vault.DataDir = dataDir
	}
	return cfg, nil
}

// openVault opens the settings store and vault described by the config.
// The runtime store is seeded from the process environment so key
// resolution sees live values first.
func openVault() (*vault.Vault, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	if isVerbose() {
		Info("Using data directory %s", cfg.Vault.DataDir)
	}

	if err := os.MkdirAll(cfg.Vault.DataDir, 0o700); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	s, err := store.NewBoltStore(cfg.StorePath())
	if err != nil {
		return nil, fmt.Errorf("open settings store: %w", err)
	}

	rt := runtime.NewStore()
	rt.SeedFromEnviron(os.Environ())

	v, err := vault.New(vault.Options{
		Store:      s,
		Runtime:    rt,
		Key:        cfg.Vault.Key,
		Passphrase: cfg.Vault.Passphrase,
		KeyFile:    cfg.Vault.KeyFile,
	})
	if err != nil {
		s.Close()
		return nil, err
	}
	return v, nil
}

// promptSecret reads a value from the terminal with echo disabled.
func promptSecret(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	value, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	return string(value), nil
}
