package store

// Store defines the persistence surface for the settings vault. Group saves
// and loads are whole-collection operations: the last writer wins, and no
// partial writes are possible.
type Store interface {
	// Groups
	SaveGroups(groups []*EnvironmentGroup) error
	LoadGroups() ([]*EnvironmentGroup, error)

	// Session holds distinguished encrypted values mirrored out of the
	// "database" group for downstream reuse.
	SetSession(name, value string) error
	GetSession(name string) (string, error)

	// Config
	GetConfig(key string) (string, error)
	SetConfig(key, value string) error

	// Lifecycle
	Close() error
}
