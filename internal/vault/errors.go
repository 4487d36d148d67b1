package vault

import "errors"

var (
	// ErrGroupNotFound is returned when a group cannot be found.
	ErrGroupNotFound = errors.New("group not found")

	// ErrVariableNotFound is returned when a variable cannot be found.
	ErrVariableNotFound = errors.New("variable not found")

	// ErrKeyNotResolved is returned by Resolve when a key is neither in the
	// runtime store nor in any stored group.
	ErrKeyNotResolved = errors.New("key not found")

	// ErrInvalidImport is returned when an import payload is not a
	// serialized group collection at all. Structural problems inside an
	// otherwise well-formed collection surface as ordinary import errors.
	ErrInvalidImport = errors.New("invalid import payload")

	// ErrNoKeySource is returned when a vault is constructed with no way to
	// obtain an encryption key.
	ErrNoKeySource = errors.New("no encryption key source configured")
)
