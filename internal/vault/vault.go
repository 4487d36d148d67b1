// Package vault implements the encrypted settings vault: named groups of
// environment variables whose secret values are sealed into AES-256-GCM
// envelopes before persistence and opened again on load.
package vault

import (
	"log/slog"
	"sync"

	"github.com/envdeck/envdeck/internal/runtime"
	"github.com/envdeck/envdeck/internal/store"
)

// Session record names for the distinguished database values.
const (
	SessionDatabaseURL = "database_url"
	SessionDirectURL   = "direct_url"
)

// The group and variable keys the session records are mirrored from.
const (
	DatabaseGroupID = "database"
	keyDatabaseURL  = "DATABASE_URL"
	keyDirectURL    = "DIRECT_URL"
)

// Options configures a vault. Everything the vault needs is passed in
// explicitly so independent instances (one per test, for example) never
// interfere through shared process state.
type Options struct {
	// Store is the persistence backend. Required.
	Store store.Store

	// Runtime is the in-memory store that receives plaintext values on
	// every save and is consulted first on lookups. Required.
	Runtime *runtime.Store

	// Key is an externally supplied encryption key, hex-encoded (64 hex
	// characters). Takes precedence over every other key source.
	Key string

	// Passphrase derives the key with Argon2id when no explicit Key is
	// given. The salt is persisted next to the key file.
	Passphrase string

	// KeyFile is the path used to read a previously generated key and to
	// persist a newly generated one. Required unless Key is set.
	KeyFile string

	// Logger defaults to slog.Default.
	Logger *slog.Logger
}

// Vault orchestrates crypto, persistence, and the runtime store.
type Vault struct {
	store   store.Store
	runtime *runtime.Store
	logger  *slog.Logger
	keyFile string

	mu  sync.RWMutex
	key []byte // resolved once in New, replaced only by RotateKey
}

// New creates a vault, resolving the encryption key immediately: explicit
// key, then passphrase derivation, then the key file, then a freshly
// generated key persisted to the key file. Failure to persist a generated
// key is logged and non-fatal.
func New(opts Options) (*Vault, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	key, err := resolveKey(opts, logger)
	if err != nil {
		return nil, err
	}

	return &Vault{
		store:   opts.Store,
		runtime: opts.Runtime,
		logger:  logger,
		keyFile: opts.KeyFile,
		key:     key,
	}, nil
}

// Runtime returns the runtime store the vault mirrors values into.
func (v *Vault) Runtime() *runtime.Store {
	return v.runtime
}

// Close closes the underlying store.
func (v *Vault) Close() error {
	return v.store.Close()
}
