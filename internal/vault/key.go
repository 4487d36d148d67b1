package vault

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/envdeck/envdeck/internal/crypto"
)

// configKeyChecksum is the store config entry recording a fingerprint of the
// key used for the last save. A mismatch on load means the key was rotated
// or replaced out-of-band, the usual cause of secrets decrypting to empty.
const configKeyChecksum = "key_checksum"

// resolveKey implements the key resolution order:
//  1. explicit hex key from configuration
//  2. Argon2id derivation from a passphrase (salt persisted beside the key file)
//  3. a previously generated key read from the key file
//  4. a freshly generated key, persisted to the key file
func resolveKey(opts Options, logger *slog.Logger) ([]byte, error) {
	if opts.Key != "" {
		key, err := crypto.DecodeKey(opts.Key)
		if err != nil {
			return nil, fmt.Errorf("configured key: %w", err)
		}
		return key, nil
	}

	if opts.Passphrase != "" {
		if opts.KeyFile == "" {
			return nil, ErrNoKeySource
		}
		return deriveFromPassphrase(opts.Passphrase, saltPath(opts.KeyFile), logger)
	}

	if opts.KeyFile == "" {
		return nil, ErrNoKeySource
	}

	if data, err := os.ReadFile(opts.KeyFile); err == nil {
		key, decodeErr := crypto.DecodeKey(strings.TrimSpace(string(data)))
		if decodeErr != nil {
			return nil, fmt.Errorf("key file %s: %w", opts.KeyFile, decodeErr)
		}
		return key, nil
	}

	key, err := crypto.GenerateKey()
	if err != nil {
		return nil, err
	}
	if err := writeKeyFile(opts.KeyFile, key); err != nil {
		// The generated key still serves this process; only persistence
		// across restarts is lost.
		logger.Warn("failed to persist generated encryption key",
			"path", opts.KeyFile, "error", err)
	}
	return key, nil
}

// deriveFromPassphrase derives the key with Argon2id, creating and persisting
// the salt on first use.
func deriveFromPassphrase(passphrase, saltFile string, logger *slog.Logger) ([]byte, error) {
	var salt []byte
	if data, err := os.ReadFile(saltFile); err == nil {
		salt, err = hex.DecodeString(strings.TrimSpace(string(data)))
		if err != nil || len(salt) != crypto.SaltSize {
			return nil, fmt.Errorf("salt file %s is corrupt", saltFile)
		}
	} else {
		salt, err = crypto.GenerateSalt()
		if err != nil {
			return nil, err
		}
		if err := writeSecretFile(saltFile, hex.EncodeToString(salt)); err != nil {
			logger.Warn("failed to persist key derivation salt",
				"path", saltFile, "error", err)
		}
	}
	return crypto.DeriveKey([]byte(passphrase), salt)
}

// RotateKey re-encrypts every stored secret under a freshly generated key
// and persists the new key to the key file. The vault must have been
// constructed with a key file; explicitly configured keys are rotated by
// changing the configuration instead.
func (v *Vault) RotateKey() error {
	if v.keyFile == "" {
		return errors.New("key rotation requires a key file")
	}

	// Decrypt everything under the current key before touching it.
	groups, err := v.LoadGroups()
	if err != nil {
		return fmt.Errorf("load groups for rotation: %w", err)
	}

	newKey, err := crypto.GenerateKey()
	if err != nil {
		return err
	}

	// The key file write happens first: if it fails the old key stays in
	// effect and nothing has been re-encrypted.
	if err := writeKeyFile(v.keyFile, newKey); err != nil {
		return fmt.Errorf("persist rotated key: %w", err)
	}

	v.mu.Lock()
	crypto.ZeroBytes(v.key)
	v.key = newKey
	v.mu.Unlock()

	if err := v.SaveGroups(groups); err != nil {
		return fmt.Errorf("re-encrypt groups: %w", err)
	}

	v.logger.Info("encryption key rotated", "path", v.keyFile)
	return nil
}

// KeyChecksum returns the fingerprint of the active key, as recorded in the
// store config on every save.
func (v *Vault) KeyChecksum() string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return keyChecksum(v.key)
}

func keyChecksum(key []byte) string {
	sum := sha256.Sum256(key)
	return hex.EncodeToString(sum[:8])
}

// recordKeyChecksum stores the active key's fingerprint. Best-effort: a
// failure only degrades the rotated-key warning on later loads.
func (v *Vault) recordKeyChecksum() {
	if err := v.store.SetConfig(configKeyChecksum, keyChecksum(v.key)); err != nil {
		v.logger.Debug("failed to record key checksum", "error", err)
	}
}

// warnOnKeyChange logs when the stored checksum does not match the active
// key, so empty decrypt results can be traced to a key change.
func (v *Vault) warnOnKeyChange() {
	stored, err := v.store.GetConfig(configKeyChecksum)
	if err != nil || stored == "" {
		return
	}
	if stored != keyChecksum(v.key) {
		v.logger.Warn("encryption key differs from the one used for the last save; secret values may resolve to empty")
	}
}

func saltPath(keyFile string) string {
	return keyFile + ".salt"
}

func writeKeyFile(path string, key []byte) error {
	return writeSecretFile(path, crypto.EncodeKey(key))
}

// writeSecretFile writes hex-encoded key material with 0600 permissions,
// creating parent directories as needed.
func writeSecretFile(path, content string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return err
		}
	}
	return os.WriteFile(path, []byte(content+"\n"), 0o600)
}
