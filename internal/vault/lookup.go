package vault

// Resolve returns the effective value for a single key: the runtime store
// is consulted first (it holds the live values from the current session),
// then the stored groups, decrypted. ErrKeyNotResolved distinguishes an
// absent key from a legitimately empty value.
func (v *Vault) Resolve(key string) (string, error) {
	if value, ok := v.runtime.Get(key); ok {
		return value, nil
	}

	groups, err := v.LoadGroups()
	if err != nil {
		return "", err
	}
	for _, g := range groups {
		if variable := g.Variable(key); variable != nil {
			return variable.Value, nil
		}
	}
	return "", ErrKeyNotResolved
}
