package validation

import (
	"errors"
	"strings"
	"testing"
)

func TestGroupName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"valid", "Database", nil},
		{"valid_with_spaces", "AI Providers", nil},
		{"empty", "", ErrGroupNameEmpty},
		{"whitespace_only", "   ", ErrGroupNameEmpty},
		{"max_length", strings.Repeat("a", 100), nil},
		{"too_long", strings.Repeat("a", 101), ErrGroupNameTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := GroupName(tt.input); !errors.Is(err, tt.wantErr) {
				t.Errorf("GroupName(%q) = %v, want %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestVariableKey(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"valid", "DATABASE_URL", nil},
		{"valid_lowercase", "database_url", nil},
		{"valid_leading_underscore", "_PRIVATE", nil},
		{"valid_with_digits", "KEY2", nil},
		{"empty", "", ErrVariableKeyEmpty},
		{"leading_digit", "2KEY", ErrVariableKeyInvalidFormat},
		{"hyphen", "MY-KEY", ErrVariableKeyInvalidFormat},
		{"space", "MY KEY", ErrVariableKeyInvalidFormat},
		{"dot", "my.key", ErrVariableKeyInvalidFormat},
		{"max_length", strings.Repeat("A", 255), nil},
		{"too_long", strings.Repeat("A", 256), ErrVariableKeyTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := VariableKey(tt.input); !errors.Is(err, tt.wantErr) {
				t.Errorf("VariableKey(%q) = %v, want %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestVariableKeyUnique(t *testing.T) {
	existing := []string{"DATABASE_URL", "OpenAI_Key"}

	if err := VariableKeyUnique("NEW_KEY", existing); err != nil {
		t.Errorf("VariableKeyUnique() unexpected error: %v", err)
	}
	if err := VariableKeyUnique("DATABASE_URL", existing); !errors.Is(err, ErrVariableKeyDuplicate) {
		t.Errorf("VariableKeyUnique() exact match = %v, want ErrVariableKeyDuplicate", err)
	}
	// Case-insensitive collision.
	if err := VariableKeyUnique("openai_key", existing); !errors.Is(err, ErrVariableKeyDuplicate) {
		t.Errorf("VariableKeyUnique() case-insensitive match = %v, want ErrVariableKeyDuplicate", err)
	}
	if err := VariableKeyUnique("ANY", nil); err != nil {
		t.Errorf("VariableKeyUnique() with no existing keys: %v", err)
	}
}

func TestDescription(t *testing.T) {
	if err := Description(""); err != nil {
		t.Errorf("Description(\"\") = %v", err)
	}
	if err := Description(strings.Repeat("d", 500)); err != nil {
		t.Errorf("Description() at limit = %v", err)
	}
	if err := Description(strings.Repeat("d", 501)); !errors.Is(err, ErrDescriptionTooLong) {
		t.Errorf("Description() over limit = %v, want ErrDescriptionTooLong", err)
	}
}
