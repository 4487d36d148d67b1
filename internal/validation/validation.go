// Package validation provides input validation functions.
package validation

import (
	"errors"
	"regexp"
	"strings"
)

var (
	// ErrGroupNameEmpty is returned when a group name is empty.
	ErrGroupNameEmpty = errors.New("group name is required")
	// ErrGroupNameTooLong is returned when a group name exceeds 100 characters.
	ErrGroupNameTooLong = errors.New("group name must be at most 100 characters")

	// ErrVariableKeyEmpty is returned when a variable key is empty.
	ErrVariableKeyEmpty = errors.New("variable key is required")
	// ErrVariableKeyTooLong is returned when a variable key exceeds 255 characters.
	ErrVariableKeyTooLong = errors.New("variable key must be at most 255 characters")
	// ErrVariableKeyInvalidFormat is returned when a variable key is not a valid env var name.
	ErrVariableKeyInvalidFormat = errors.New("variable key must be a valid environment variable name (start with letter or underscore, contain only letters, numbers, and underscores)")
	// ErrVariableKeyDuplicate is returned when a key collides with an existing one, ignoring case.
	ErrVariableKeyDuplicate = errors.New("variable key already exists in group")

	// ErrDescriptionTooLong is returned when a description exceeds 500 characters.
	ErrDescriptionTooLong = errors.New("description must be at most 500 characters")
)

var variableKeyRegex = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// GroupName validates a group display name.
// Rules: 1-100 characters.
func GroupName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrGroupNameEmpty
	}
	if len(name) > 100 {
		return ErrGroupNameTooLong
	}
	return nil
}

// VariableKey validates a variable key.
// Rules: 1-255 characters, valid environment variable name format.
func VariableKey(key string) error {
	if key == "" {
		return ErrVariableKeyEmpty
	}
	if len(key) > 255 {
		return ErrVariableKeyTooLong
	}
	if !variableKeyRegex.MatchString(key) {
		return ErrVariableKeyInvalidFormat
	}
	return nil
}

// VariableKeyUnique checks key against existing keys case-insensitively.
// Keys are stored case-sensitively, but two keys differing only in case are
// still rejected, matching the column-name rule in the settings UI.
func VariableKeyUnique(key string, existing []string) error {
	lower := strings.ToLower(key)
	for _, k := range existing {
		if strings.ToLower(k) == lower {
			return ErrVariableKeyDuplicate
		}
	}
	return nil
}

// Description validates a variable or group description.
// Rules: 0-500 characters.
func Description(desc string) error {
	if len(desc) > 500 {
		return ErrDescriptionTooLong
	}
	return nil
}
