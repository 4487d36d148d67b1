package store

import (
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *BoltStore {
	t.Helper()
	s, err := NewBoltStore(filepath.Join(t.TempDir(), "settings.db"))
	if err != nil {
		t.Fatalf("NewBoltStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testGroups() []*EnvironmentGroup {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return []*EnvironmentGroup{
		{
			ID:        "database",
			Name:      "Database",
			Icon:      "database",
			CreatedAt: now,
			UpdatedAt: now,
			Variables: []EnvironmentVariable{
				{ID: "v1", Key: "DATABASE_URL", Value: "postgres://db", IsSecret: true},
				{ID: "v2", Key: "DATABASE_POOL_SIZE", Value: "10"},
			},
		},
		{
			ID:        "ai-providers",
			Name:      "AI Providers",
			Icon:      "sparkles",
			CreatedAt: now,
			UpdatedAt: now,
			Variables: []EnvironmentVariable{
				{ID: "v3", Key: "OPENAI_API_KEY", Value: "sk-test", IsSecret: true},
			},
		},
	}
}

func TestBoltStore_SaveLoadGroups(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.LoadGroups(); !errors.Is(err, ErrGroupsNotFound) {
		t.Fatalf("LoadGroups on empty store = %v, want ErrGroupsNotFound", err)
	}

	groups := testGroups()
	if err := s.SaveGroups(groups); err != nil {
		t.Fatalf("SaveGroups: %v", err)
	}

	loaded, err := s.LoadGroups()
	if err != nil {
		t.Fatalf("LoadGroups: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(loaded))
	}
	if loaded[0].ID != "database" || loaded[1].ID != "ai-providers" {
		t.Errorf("group order not preserved: %s, %s", loaded[0].ID, loaded[1].ID)
	}
	if got := loaded[0].Variable("DATABASE_POOL_SIZE"); got == nil || got.Value != "10" {
		t.Errorf("non-secret variable did not round-trip: %+v", got)
	}
	if !loaded[0].UpdatedAt.Equal(groups[0].UpdatedAt) {
		t.Errorf("UpdatedAt = %v, want %v", loaded[0].UpdatedAt, groups[0].UpdatedAt)
	}
}

func TestBoltStore_SaveGroups_LastWriterWins(t *testing.T) {
	s := newTestStore(t)

	groups := testGroups()
	if err := s.SaveGroups(groups); err != nil {
		t.Fatalf("SaveGroups: %v", err)
	}

	// A later save of a filtered collection fully replaces the earlier one.
	if err := s.SaveGroups(groups[:1]); err != nil {
		t.Fatalf("SaveGroups: %v", err)
	}

	loaded, err := s.LoadGroups()
	if err != nil {
		t.Fatalf("LoadGroups: %v", err)
	}
	if len(loaded) != 1 || loaded[0].ID != "database" {
		t.Fatalf("expected only the database group, got %d groups", len(loaded))
	}
}

func TestBoltStore_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.db")

	s, err := NewBoltStore(path)
	if err != nil {
		t.Fatalf("NewBoltStore: %v", err)
	}
	if err := s.SaveGroups(testGroups()); err != nil {
		t.Fatalf("SaveGroups: %v", err)
	}
	s.Close()

	s2, err := NewBoltStore(path)
	if err != nil {
		t.Fatalf("NewBoltStore (reopen): %v", err)
	}
	defer s2.Close()

	loaded, err := s2.LoadGroups()
	if err != nil {
		t.Fatalf("LoadGroups after reopen: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("expected 2 groups after reopen, got %d", len(loaded))
	}
}

func TestBoltStore_Session(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.GetSession("database_url"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("GetSession on empty store = %v, want ErrNotFound", err)
	}

	if err := s.SetSession("database_url", `{"encrypted":"ab","iv":"cd","tag":"ef"}`); err != nil {
		t.Fatalf("SetSession: %v", err)
	}
	v, err := s.GetSession("database_url")
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if v != `{"encrypted":"ab","iv":"cd","tag":"ef"}` {
		t.Errorf("GetSession = %q", v)
	}
}

func TestBoltStore_Config(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.GetConfig("key_checksum"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("GetConfig on empty store = %v, want ErrNotFound", err)
	}

	if err := s.SetConfig("key_checksum", "abc123"); err != nil {
		t.Fatalf("SetConfig: %v", err)
	}
	v, err := s.GetConfig("key_checksum")
	if err != nil {
		t.Fatalf("GetConfig: %v", err)
	}
	if v != "abc123" {
		t.Errorf("GetConfig = %q, want abc123", v)
	}
}

func TestGroupClone(t *testing.T) {
	g := testGroups()[0]
	c := g.Clone()
	c.Variables[0].Value = "mutated"
	if g.Variables[0].Value == "mutated" {
		t.Error("Clone() shares variable storage with the original")
	}
}
