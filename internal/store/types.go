package store

import "time"

// EnvironmentVariable is one named configuration value inside a group.
// When IsSecret is set, the persisted Value is a JSON-serialized encryption
// envelope; otherwise the Value round-trips byte-for-byte.
type EnvironmentVariable struct {
	ID          string `json:"id"`
	Key         string `json:"key"`
	Value       string `json:"value"`
	Description string `json:"description,omitempty"`
	IsSecret    bool   `json:"isSecret"`
}

// EnvironmentGroup is a named, ordered collection of variables. Variable
// order is preserved for display; it carries no other meaning.
type EnvironmentGroup struct {
	ID          string                `json:"id"`
	Name        string                `json:"name"`
	Description string                `json:"description,omitempty"`
	Icon        string                `json:"icon,omitempty"`
	Variables   []EnvironmentVariable `json:"variables"`
	CreatedAt   time.Time             `json:"createdAt"`
	UpdatedAt   time.Time             `json:"updatedAt"`
}

// Variable returns the variable with the given key, or nil.
func (g *EnvironmentGroup) Variable(key string) *EnvironmentVariable {
	for i := range g.Variables {
		if g.Variables[i].Key == key {
			return &g.Variables[i]
		}
	}
	return nil
}

// Clone returns a deep copy of the group.
func (g *EnvironmentGroup) Clone() *EnvironmentGroup {
	out := *g
	out.Variables = make([]EnvironmentVariable, len(g.Variables))
	copy(out.Variables, g.Variables)
	return &out
}

// CloneGroups deep-copies a group collection.
func CloneGroups(groups []*EnvironmentGroup) []*EnvironmentGroup {
	out := make([]*EnvironmentGroup, len(groups))
	for i, g := range groups {
		out[i] = g.Clone()
	}
	return out
}
