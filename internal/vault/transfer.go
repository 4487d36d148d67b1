package vault

import (
	"encoding/json"
	"fmt"

	"github.com/envdeck/envdeck/internal/store"
)

// Export returns the collection with every secret value replaced by the
// empty string, regardless of whether it decrypted, and non-secret values
// intact. The result is safe to share or commit.
func (v *Vault) Export() ([]*store.EnvironmentGroup, error) {
	groups, err := v.LoadGroups()
	if err != nil {
		return nil, err
	}

	exported := store.CloneGroups(groups)
	for _, g := range exported {
		for i := range g.Variables {
			if g.Variables[i].IsSecret {
				g.Variables[i].Value = ""
			}
		}
	}
	return exported, nil
}

// ExportJSON serializes the export as indented JSON.
func (v *Vault) ExportJSON() ([]byte, error) {
	groups, err := v.Export()
	if err != nil {
		return nil, err
	}
	data, err := json.MarshalIndent(groups, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal export: %w", err)
	}
	return data, nil
}

// Import replaces the stored collection with the given payload. A payload
// that is not a JSON array at all is rejected with ErrInvalidImport; a
// well-formed array whose contents do not decode as groups surfaces an
// ordinary import error. Secret variables with empty values are
// re-populated from the stored group with the same id, so a round-trip
// through Export does not lose secrets that are already saved.
func (v *Vault) Import(payload []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(payload, &raw); err != nil {
		return ErrInvalidImport
	}
	// "null" decodes into a nil slice without error. It is not a group
	// collection, and letting it through would wipe the stored groups.
	if raw == nil {
		return ErrInvalidImport
	}

	var imported []*store.EnvironmentGroup
	if err := json.Unmarshal(payload, &imported); err != nil {
		return fmt.Errorf("import groups: %w", err)
	}

	// Existing groups arrive decrypted, so secrets can be copied across.
	existing, err := v.LoadGroups()
	if err != nil {
		return err
	}
	byID := make(map[string]*store.EnvironmentGroup, len(existing))
	for _, g := range existing {
		byID[g.ID] = g
	}

	for _, g := range imported {
		prior, ok := byID[g.ID]
		if !ok {
			continue
		}
		for i := range g.Variables {
			variable := &g.Variables[i]
			if !variable.IsSecret || variable.Value != "" {
				continue
			}
			if pv := prior.Variable(variable.Key); pv != nil {
				variable.Value = pv.Value
			}
		}
	}

	return v.SaveGroups(imported)
}
