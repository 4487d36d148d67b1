package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

// Bucket names used in the bbolt database.
var (
	bucketGroups  = []byte("groups")
	bucketSession = []byte("session")
	bucketConfig  = []byte("_config")
)

// groupsKey is the single key holding the full group collection. Saves and
// loads always move the whole collection, mirroring a single-blob settings
// file: concurrent savers race and the later write wins.
const groupsKey = "all"

// Sentinel errors returned by store operations.
var (
	ErrNotFound       = errors.New("not found")
	ErrGroupsNotFound = fmt.Errorf("groups %w", ErrNotFound)
)

// BoltStore implements Store using bbolt.
type BoltStore struct {
	db *bolt.DB
}

// NewBoltStore opens (or creates) a bbolt database at the given path and
// ensures all required buckets exist. The file is created with 0600 permissions.
func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bolt db: %w", err)
	}

	if err = db.Update(func(tx *bolt.Tx) error {
		for _, b := range [][]byte{bucketGroups, bucketSession, bucketConfig} {
			if _, bErr := tx.CreateBucketIfNotExists(b); bErr != nil {
				return fmt.Errorf("create bucket %s: %w", b, bErr)
			}
		}
		return nil
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("init buckets: %w", err)
	}

	return &BoltStore{db: db}, nil
}

// Close closes the underlying bbolt database.
func (s *BoltStore) Close() error {
	return s.db.Close()
}

// SaveGroups replaces the stored collection with the given one in a single
// transaction. A failed write leaves the previous collection intact.
func (s *BoltStore) SaveGroups(groups []*EnvironmentGroup) error {
	data, err := json.Marshal(groups)
	if err != nil {
		return fmt.Errorf("marshal groups: %w", err)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketGroups).Put([]byte(groupsKey), data)
	})
}

// LoadGroups returns the stored collection, or ErrGroupsNotFound if no save
// has ever completed.
func (s *BoltStore) LoadGroups() ([]*EnvironmentGroup, error) {
	var groups []*EnvironmentGroup
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketGroups).Get([]byte(groupsKey))
		if v == nil {
			return ErrGroupsNotFound
		}
		return json.Unmarshal(v, &groups)
	})
	if err != nil {
		return nil, err
	}
	return groups, nil
}

// SetSession stores a distinguished session value.
func (s *BoltStore) SetSession(name, value string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketSession).Put([]byte(name), []byte(value))
	})
}

// GetSession returns a session value, or ErrNotFound.
func (s *BoltStore) GetSession(name string) (string, error) {
	var val string
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketSession).Get([]byte(name))
		if v == nil {
			return ErrNotFound
		}
		val = string(v)
		return nil
	})
	return val, err
}

// GetConfig returns the config value for the given key, or ErrNotFound.
func (s *BoltStore) GetConfig(key string) (string, error) {
	var val string
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketConfig).Get([]byte(key))
		if v == nil {
			return ErrNotFound
		}
		val = string(v)
		return nil
	})
	return val, err
}

// SetConfig stores a config key-value pair.
func (s *BoltStore) SetConfig(key, value string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketConfig).Put([]byte(key), []byte(value))
	})
}
