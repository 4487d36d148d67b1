package vault

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/envdeck/envdeck/internal/crypto"
	"github.com/envdeck/envdeck/internal/metrics"
	"github.com/envdeck/envdeck/internal/store"
	"github.com/envdeck/envdeck/internal/validation"
)

// SaveGroups persists the full collection, replacing whatever was stored
// before. Secret values are sealed into envelopes, plaintext values are
// mirrored into the runtime store, and the two well-known database values
// are re-encrypted into their session records. The input is not mutated.
func (v *Vault) SaveGroups(groups []*store.EnvironmentGroup) error {
	v.mu.RLock()
	defer v.mu.RUnlock()

	if err := validateGroups(groups); err != nil {
		return err
	}

	now := time.Now().UTC()
	persisted := store.CloneGroups(groups)

	for _, g := range persisted {
		g.UpdatedAt = now
		if g.CreatedAt.IsZero() {
			g.CreatedAt = now
		}
		for i := range g.Variables {
			variable := &g.Variables[i]
			if variable.ID == "" {
				variable.ID = uuid.New().String()
			}
			if !variable.IsSecret {
				continue
			}
			env, err := crypto.Encrypt(v.key, variable.Value)
			if err != nil {
				return fmt.Errorf("encrypt %s: %w", variable.Key, err)
			}
			metrics.EncryptionOperations.WithLabelValues("encrypt").Inc()
			serialized, err := env.Marshal()
			if err != nil {
				return err
			}
			variable.Value = serialized
		}
	}

	if err := v.store.SaveGroups(persisted); err != nil {
		metrics.GroupSaves.WithLabelValues("error").Inc()
		return fmt.Errorf("save groups: %w", err)
	}
	metrics.GroupSaves.WithLabelValues("ok").Inc()

	// Mirror plaintext values so the running application sees them
	// immediately, without re-reading storage.
	for _, g := range groups {
		for _, variable := range g.Variables {
			v.runtime.Set(variable.Key, variable.Value)
		}
	}

	if err := v.saveDatabaseSession(groups); err != nil {
		return err
	}

	v.recordKeyChecksum()
	return nil
}

// saveDatabaseSession mirrors the two well-known database values into
// distinguished session records, each sealed in its own envelope.
func (v *Vault) saveDatabaseSession(groups []*store.EnvironmentGroup) error {
	var database *store.EnvironmentGroup
	for _, g := range groups {
		if g.ID == DatabaseGroupID {
			database = g
			break
		}
	}
	if database == nil {
		return nil
	}

	for key, session := range map[string]string{
		keyDatabaseURL: SessionDatabaseURL,
		keyDirectURL:   SessionDirectURL,
	} {
		variable := database.Variable(key)
		if variable == nil {
			continue
		}
		env, err := crypto.Encrypt(v.key, variable.Value)
		if err != nil {
			return fmt.Errorf("encrypt session %s: %w", key, err)
		}
		serialized, err := env.Marshal()
		if err != nil {
			return err
		}
		if err := v.store.SetSession(session, serialized); err != nil {
			return fmt.Errorf("save session %s: %w", session, err)
		}
	}
	return nil
}

// LoadGroups returns the stored collection with secret values decrypted.
// A store that has never been written — or fails to read — yields the
// default groups instead of an error. A secret value that parses as an
// envelope but fails to decrypt resolves to the empty string; a value that
// does not parse as an envelope at all passes through untouched.
func (v *Vault) LoadGroups() ([]*store.EnvironmentGroup, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	groups, err := v.store.LoadGroups()
	if err != nil {
		if !errors.Is(err, store.ErrGroupsNotFound) {
			v.logger.Warn("failed to load groups, using defaults", "error", err)
		}
		metrics.GroupLoads.WithLabelValues("defaults").Inc()
		return v.defaultGroups(), nil
	}
	metrics.GroupLoads.WithLabelValues("store").Inc()

	v.warnOnKeyChange()

	for _, g := range groups {
		for i := range g.Variables {
			variable := &g.Variables[i]
			if !variable.IsSecret {
				continue
			}
			env, err := crypto.ParseEnvelope(variable.Value)
			if err != nil {
				// Already plaintext or corrupted beyond recognition.
				continue
			}
			plaintext, err := crypto.Decrypt(v.key, env)
			metrics.EncryptionOperations.WithLabelValues("decrypt").Inc()
			if err != nil {
				metrics.DecryptionFailures.Inc()
				v.logger.Warn("secret failed to decrypt, resolving to empty",
					"group", g.ID, "key", variable.Key)
				plaintext = ""
			}
			variable.Value = plaintext
		}
	}

	return groups, nil
}

// SessionEnvelope returns the serialized encrypted envelope for a
// session record, without decrypting it. Callers that hand the value to
// a client use this form so the plaintext never leaves the vault.
func (v *Vault) SessionEnvelope(name string) (string, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	serialized, err := v.store.GetSession(name)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", ErrVariableNotFound
		}
		return "", err
	}
	return serialized, nil
}

// SessionValue decrypts and returns one of the distinguished session
// records, or ErrVariableNotFound if it was never saved. Records that
// fail to parse or decrypt resolve to the empty string.
func (v *Vault) SessionValue(name string) (string, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	serialized, err := v.store.GetSession(name)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", ErrVariableNotFound
		}
		return "", err
	}
	env, err := crypto.ParseEnvelope(serialized)
	if err != nil {
		return "", nil
	}
	plaintext, err := crypto.Decrypt(v.key, env)
	if err != nil {
		metrics.DecryptionFailures.Inc()
		return "", nil
	}
	return plaintext, nil
}

// GetGroup returns one decrypted group by id.
func (v *Vault) GetGroup(id string) (*store.EnvironmentGroup, error) {
	groups, err := v.LoadGroups()
	if err != nil {
		return nil, err
	}
	for _, g := range groups {
		if g.ID == id {
			return g, nil
		}
	}
	return nil, ErrGroupNotFound
}

// UpsertGroup adds a group or replaces the group with the same id, then
// persists the collection.
func (v *Vault) UpsertGroup(group *store.EnvironmentGroup) error {
	if err := validation.GroupName(group.Name); err != nil {
		return err
	}
	if group.ID == "" {
		group.ID = uuid.New().String()
	}

	groups, err := v.LoadGroups()
	if err != nil {
		return err
	}

	replaced := false
	for i, g := range groups {
		if g.ID == group.ID {
			group.CreatedAt = g.CreatedAt
			groups[i] = group
			replaced = true
			break
		}
	}
	if !replaced {
		groups = append(groups, group)
	}

	return v.SaveGroups(groups)
}

// DeleteGroup removes a group by filtering it out of the collection and
// re-persisting the remainder.
func (v *Vault) DeleteGroup(id string) error {
	groups, err := v.LoadGroups()
	if err != nil {
		return err
	}

	remaining := groups[:0]
	found := false
	for _, g := range groups {
		if g.ID == id {
			found = true
			continue
		}
		remaining = append(remaining, g)
	}
	if !found {
		return ErrGroupNotFound
	}

	return v.SaveGroups(remaining)
}

// SetVariable adds or updates a variable in a group. New keys are checked
// against existing ones case-insensitively, matching the settings UI rule;
// stored keys keep their exact case.
func (v *Vault) SetVariable(groupID string, variable store.EnvironmentVariable) error {
	if err := validation.VariableKey(variable.Key); err != nil {
		return err
	}
	if err := validation.Description(variable.Description); err != nil {
		return err
	}

	groups, err := v.LoadGroups()
	if err != nil {
		return err
	}

	group := findGroup(groups, groupID)
	if group == nil {
		return ErrGroupNotFound
	}

	if existing := group.Variable(variable.Key); existing != nil {
		variable.ID = existing.ID
		*existing = variable
		return v.SaveGroups(groups)
	}

	existingKeys := make([]string, len(group.Variables))
	for i, ev := range group.Variables {
		existingKeys[i] = ev.Key
	}
	if err := validation.VariableKeyUnique(variable.Key, existingKeys); err != nil {
		return err
	}

	variable.ID = uuid.New().String()
	group.Variables = append(group.Variables, variable)
	return v.SaveGroups(groups)
}

// RemoveVariable removes a variable from a group by key.
func (v *Vault) RemoveVariable(groupID, key string) error {
	groups, err := v.LoadGroups()
	if err != nil {
		return err
	}

	group := findGroup(groups, groupID)
	if group == nil {
		return ErrGroupNotFound
	}

	for i := range group.Variables {
		if group.Variables[i].Key == key {
			group.Variables = append(group.Variables[:i], group.Variables[i+1:]...)
			v.runtime.Delete(key)
			return v.SaveGroups(groups)
		}
	}
	return ErrVariableNotFound
}

func findGroup(groups []*store.EnvironmentGroup, id string) *store.EnvironmentGroup {
	for _, g := range groups {
		if g.ID == id {
			return g
		}
	}
	return nil
}

// validateGroups rejects collections that could not have come from the
// settings surface: malformed variable keys or exact-duplicate keys in a
// group. Case-insensitive collisions are the editing layer's concern, not
// enforced here.
func validateGroups(groups []*store.EnvironmentGroup) error {
	for _, g := range groups {
		seen := make(map[string]struct{}, len(g.Variables))
		for _, variable := range g.Variables {
			if err := validation.VariableKey(variable.Key); err != nil {
				return fmt.Errorf("group %s: %w", g.ID, err)
			}
			if _, dup := seen[variable.Key]; dup {
				return fmt.Errorf("group %s: duplicate key %s", g.ID, variable.Key)
			}
			seen[variable.Key] = struct{}{}
		}
	}
	return nil
}
