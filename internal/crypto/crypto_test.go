package crypto

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestGenerateKey(t *testing.T) {
	key, err := GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey() error = %v", err)
	}
	if len(key) != KeySize {
		t.Errorf("GenerateKey() returned key of length %d, want %d", len(key), KeySize)
	}

	// Verify keys are random (generate two and compare)
	key2, err := GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey() second call error = %v", err)
	}
	if bytes.Equal(key, key2) {
		t.Error("GenerateKey() returned identical keys")
	}
}

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	tests := []struct {
		name      string
		plaintext string
	}{
		{"empty", ""},
		{"short", "hunter2"},
		{"medium", "The quick brown fox jumps over the lazy dog"},
		{"long", strings.Repeat("x", 10000)},
		{"unicode", "pässwörd → 秘密"},
		{"null_bytes", "hello\x00world\x00"},
		{"json_like", `{"encrypted":"not really","iv":"nope"}`},
	}

	key, err := GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey() error = %v", err)
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env, err := Encrypt(key, tt.plaintext)
			if err != nil {
				t.Fatalf("Encrypt() error = %v", err)
			}

			if len(env.IV) != IVSize*2 {
				t.Errorf("iv hex length = %d, want %d", len(env.IV), IVSize*2)
			}
			if len(env.Tag) != TagSize*2 {
				t.Errorf("tag hex length = %d, want %d", len(env.Tag), TagSize*2)
			}

			got, err := Decrypt(key, env)
			if err != nil {
				t.Fatalf("Decrypt() error = %v", err)
			}
			if got != tt.plaintext {
				t.Errorf("Decrypt() = %q, want %q", got, tt.plaintext)
			}
		})
	}
}

func TestEncrypt_FreshIVPerCall(t *testing.T) {
	key, err := GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey() error = %v", err)
	}

	first, err := Encrypt(key, "hunter2")
	if err != nil {
		t.Fatalf("Encrypt() error = %v", err)
	}
	second, err := Encrypt(key, "hunter2")
	if err != nil {
		t.Fatalf("Encrypt() second call error = %v", err)
	}

	if first.IV == second.IV {
		t.Error("two encryptions of the same plaintext reused an IV")
	}
	if first.Encrypted == second.Encrypted {
		t.Error("two encryptions of the same plaintext produced identical ciphertext")
	}

	for _, env := range []*Envelope{first, second} {
		got, err := Decrypt(key, env)
		if err != nil {
			t.Fatalf("Decrypt() error = %v", err)
		}
		if got != "hunter2" {
			t.Errorf("Decrypt() = %q, want %q", got, "hunter2")
		}
	}
}

func TestDecrypt_Failures(t *testing.T) {
	key, err := GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey() error = %v", err)
	}
	env, err := Encrypt(key, "sensitive")
	if err != nil {
		t.Fatalf("Encrypt() error = %v", err)
	}

	tests := []struct {
		name   string
		mutate func(e *Envelope)
	}{
		{"tampered_tag", func(e *Envelope) { e.Tag = strings.Repeat("00", TagSize) }},
		{"tampered_ciphertext", func(e *Envelope) { e.Encrypted = flipFirstHexDigit(e.Encrypted) }},
		{"malformed_hex", func(e *Envelope) { e.Encrypted = "zz" + e.Encrypted[2:] }},
		{"short_iv", func(e *Envelope) { e.IV = "abcd" }},
		{"short_tag", func(e *Envelope) { e.Tag = "abcd" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bad := *env
			tt.mutate(&bad)
			if _, err := Decrypt(key, &bad); !errors.Is(err, ErrDecryptFailed) {
				t.Errorf("Decrypt() error = %v, want ErrDecryptFailed", err)
			}
		})
	}

	t.Run("wrong_key", func(t *testing.T) {
		other, err := GenerateKey()
		if err != nil {
			t.Fatalf("GenerateKey() error = %v", err)
		}
		if _, err := Decrypt(other, env); !errors.Is(err, ErrDecryptFailed) {
			t.Errorf("Decrypt() error = %v, want ErrDecryptFailed", err)
		}
	})
}

func flipFirstHexDigit(s string) string {
	if s == "" {
		return "0"
	}
	if s[0] == '0' {
		return "1" + s[1:]
	}
	return "0" + s[1:]
}

func TestParseEnvelope(t *testing.T) {
	key, err := GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey() error = %v", err)
	}
	env, err := Encrypt(key, "value")
	if err != nil {
		t.Fatalf("Encrypt() error = %v", err)
	}
	serialized, err := env.Marshal()
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	parsed, err := ParseEnvelope(serialized)
	if err != nil {
		t.Fatalf("ParseEnvelope() error = %v", err)
	}
	if parsed.IV != env.IV || parsed.Tag != env.Tag || parsed.Encrypted != env.Encrypted {
		t.Error("ParseEnvelope() did not round-trip the envelope")
	}

	invalid := []struct {
		name  string
		value string
	}{
		{"plaintext", "just-a-password"},
		{"not_json", "{broken"},
		{"json_array", `["encrypted"]`},
		{"missing_fields", `{"encrypted":"abcd"}`},
		{"empty", ""},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseEnvelope(tt.value); !errors.Is(err, ErrNotEnvelope) {
				t.Errorf("ParseEnvelope(%q) error = %v, want ErrNotEnvelope", tt.value, err)
			}
		})
	}
}

func TestDeriveKey(t *testing.T) {
	salt, err := GenerateSalt()
	if err != nil {
		t.Fatalf("GenerateSalt() error = %v", err)
	}

	key1, err := DeriveKey([]byte("correct horse battery staple"), salt)
	if err != nil {
		t.Fatalf("DeriveKey() error = %v", err)
	}
	if len(key1) != KeySize {
		t.Errorf("DeriveKey() key length = %d, want %d", len(key1), KeySize)
	}

	// Same passphrase and salt: deterministic.
	key2, err := DeriveKey([]byte("correct horse battery staple"), salt)
	if err != nil {
		t.Fatalf("DeriveKey() second call error = %v", err)
	}
	if !bytes.Equal(key1, key2) {
		t.Error("DeriveKey() is not deterministic for identical inputs")
	}

	// Different passphrase: different key.
	key3, err := DeriveKey([]byte("wrong passphrase"), salt)
	if err != nil {
		t.Fatalf("DeriveKey() error = %v", err)
	}
	if bytes.Equal(key1, key3) {
		t.Error("DeriveKey() produced identical keys for different passphrases")
	}

	if _, err := DeriveKey([]byte("pass"), []byte("short")); !errors.Is(err, ErrInvalidSaltSize) {
		t.Errorf("DeriveKey() with bad salt error = %v, want ErrInvalidSaltSize", err)
	}
}

func TestEncodeDecodeKey(t *testing.T) {
	key, err := GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey() error = %v", err)
	}

	encoded := EncodeKey(key)
	if len(encoded) != KeySize*2 {
		t.Errorf("EncodeKey() length = %d, want %d", len(encoded), KeySize*2)
	}

	decoded, err := DecodeKey(encoded)
	if err != nil {
		t.Fatalf("DecodeKey() error = %v", err)
	}
	if !bytes.Equal(key, decoded) {
		t.Error("DecodeKey(EncodeKey(key)) != key")
	}

	if _, err := DecodeKey("abcd"); !errors.Is(err, ErrInvalidKeySize) {
		t.Errorf("DecodeKey() short key error = %v, want ErrInvalidKeySize", err)
	}
	if _, err := DecodeKey("not-hex"); err == nil {
		t.Error("DecodeKey() accepted invalid hex")
	}
}
