// Package crypto implements the at-rest encryption used for secret
// variables. Values are sealed with AES-256-GCM into a hex-encoded
// {encrypted, iv, tag} envelope, and keys can be derived from a passphrase
// with Argon2id.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"golang.org/x/crypto/argon2"
)

const (
	// KeySize is the size of AES-256 keys in bytes.
	KeySize = 32

	// IVSize is the size of envelope initialization vectors in bytes.
	IVSize = 16

	// TagSize is the size of GCM authentication tags in bytes.
	TagSize = 16

	// SaltSize is the size of salts for key derivation in bytes.
	SaltSize = 16

	// Argon2Time is the time parameter for Argon2id.
	Argon2Time = 3

	// Argon2Memory is the memory parameter for Argon2id in KiB.
	Argon2Memory = 64 * 1024

	// Argon2Threads is the parallelism parameter for Argon2id.
	Argon2Threads = 4
)

var (
	// ErrInvalidKeySize is returned when a key has an incorrect size.
	ErrInvalidKeySize = errors.New("key must be 32 bytes")

	// ErrInvalidSaltSize is returned when a salt has an incorrect size.
	ErrInvalidSaltSize = errors.New("salt must be 16 bytes")

	// ErrDecryptFailed is returned when envelope decryption fails, whether
	// from malformed hex, a bad authentication tag, or the wrong key.
	ErrDecryptFailed = errors.New("decryption failed")

	// ErrNotEnvelope is returned when a value does not parse as an envelope.
	ErrNotEnvelope = errors.New("value is not an encrypted envelope")
)

// Envelope is the at-rest representation of one encrypted value.
// All fields are hex-encoded; the IV is 16 bytes and never reused, so two
// encryptions of the same plaintext produce distinct ciphertexts.
type Envelope struct {
	Encrypted string `json:"encrypted"`
	IV        string `json:"iv"`
	Tag       string `json:"tag"`
}

// Encrypt seals plaintext with AES-256-GCM under a fresh random 16-byte IV
// and returns the envelope.
func Encrypt(key []byte, plaintext string) (*Envelope, error) {
	if len(key) != KeySize {
		return nil, ErrInvalidKeySize
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}

	gcm, err := cipher.NewGCMWithNonceSize(block, IVSize)
	if err != nil {
		return nil, fmt.Errorf("create GCM: %w", err)
	}

	iv := make([]byte, IVSize)
	if _, err := rand.Read(iv); err != nil {
		return nil, fmt.Errorf("generate iv: %w", err)
	}

	// Seal appends the 16-byte tag to the ciphertext; the envelope stores
	// them as separate fields.
	sealed := gcm.Seal(nil, iv, []byte(plaintext), nil)
	split := len(sealed) - TagSize

	return &Envelope{
		Encrypted: hex.EncodeToString(sealed[:split]),
		IV:        hex.EncodeToString(iv),
		Tag:       hex.EncodeToString(sealed[split:]),
	}, nil
}

// Decrypt opens an envelope and returns the plaintext. Any failure — bad
// hex, wrong IV length, tampered ciphertext or tag, wrong key — is reported
// as ErrDecryptFailed; callers that need the tolerant load behavior map it
// to the empty string.
func Decrypt(key []byte, env *Envelope) (string, error) {
	if len(key) != KeySize {
		return "", ErrInvalidKeySize
	}

	ciphertext, err := hex.DecodeString(env.Encrypted)
	if err != nil {
		return "", ErrDecryptFailed
	}
	iv, err := hex.DecodeString(env.IV)
	if err != nil || len(iv) != IVSize {
		return "", ErrDecryptFailed
	}
	tag, err := hex.DecodeString(env.Tag)
	if err != nil || len(tag) != TagSize {
		return "", ErrDecryptFailed
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", fmt.Errorf("create cipher: %w", err)
	}

	gcm, err := cipher.NewGCMWithNonceSize(block, IVSize)
	if err != nil {
		return "", fmt.Errorf("create GCM: %w", err)
	}

	plaintext, err := gcm.Open(nil, iv, append(ciphertext, tag...), nil)
	if err != nil {
		return "", ErrDecryptFailed
	}

	return string(plaintext), nil
}

// ParseEnvelope decodes a JSON-serialized envelope. It returns ErrNotEnvelope
// for anything that is not a JSON object carrying the iv and tag fields, so
// stored plaintext values can be distinguished from ciphertext.
func ParseEnvelope(value string) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal([]byte(value), &env); err != nil {
		return nil, ErrNotEnvelope
	}
	if env.IV == "" || env.Tag == "" {
		return nil, ErrNotEnvelope
	}
	return &env, nil
}

// Marshal returns the JSON serialization stored as a secret variable's value.
func (e *Envelope) Marshal() (string, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return "", fmt.Errorf("marshal envelope: %w", err)
	}
	return string(data), nil
}

// GenerateKey generates a cryptographically secure random 32-byte key.
func GenerateKey() ([]byte, error) {
	key := make([]byte, KeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("generate key: %w", err)
	}
	return key, nil
}

// GenerateSalt generates a cryptographically secure random 16-byte salt.
func GenerateSalt() ([]byte, error) {
	salt := make([]byte, SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}
	return salt, nil
}

// DeriveKey derives a 32-byte key from a passphrase using Argon2id.
// The salt must be 16 bytes.
func DeriveKey(passphrase, salt []byte) ([]byte, error) {
	if len(salt) != SaltSize {
		return nil, ErrInvalidSaltSize
	}
	return argon2.IDKey(passphrase, salt, Argon2Time, Argon2Memory, Argon2Threads, KeySize), nil
}

// EncodeKey encodes a key to hex for storage in the key file.
func EncodeKey(key []byte) string {
	return hex.EncodeToString(key)
}

// DecodeKey decodes a hex-encoded 32-byte key (64 hex characters).
func DecodeKey(encoded string) ([]byte, error) {
	key, err := hex.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("decode key: %w", err)
	}
	if len(key) != KeySize {
		return nil, ErrInvalidKeySize
	}
	return key, nil
}

// ZeroBytes securely zeros a byte slice.
// Use this to clear sensitive data from memory when done.
func ZeroBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
