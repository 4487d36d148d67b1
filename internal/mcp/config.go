package mcp

import (
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"
)

// AccessPolicy controls what the MCP server can expose.
type AccessPolicy struct {
	AccessMode   string   `yaml:"access_mode"`
	GroupsAllow  []string `yaml:"groups_allow"`
	GroupsDeny   []string `yaml:"groups_deny"`
	KeysAllow    []string `yaml:"keys_allow"`
	KeysDeny     []string `yaml:"keys_deny"`
	RedactOutput bool     `yaml:"redact_output"`
}

// DefaultPolicy returns a permissive default policy.
func DefaultPolicy() *AccessPolicy {
	return &AccessPolicy{
		AccessMode:   "full",
		GroupsAllow:  []string{"*"},
		KeysAllow:    []string{"*"},
		RedactOutput: true,
	}
}

// LoadPolicy reads an access policy from a YAML file.
// Returns nil, nil if the file does not exist.
func LoadPolicy(path string) (*AccessPolicy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var policy AccessPolicy
	if err := yaml.Unmarshal(data, &policy); err != nil {
		return nil, err
	}
	return &policy, nil
}

// CanAccessGroup reports whether the policy allows access to the named
// group.
func (p *AccessPolicy) CanAccessGroup(id string) bool {
	if matchesAny(id, p.GroupsDeny) {
		return false
	}
	if len(p.GroupsAllow) == 0 {
		return true
	}
	return matchesAny(id, p.GroupsAllow)
}

// CanAccessKey reports whether the policy allows access to the named
// variable key.
func (p *AccessPolicy) CanAccessKey(key string) bool {
	if matchesAny(key, p.KeysDeny) {
		return false
	}
	if len(p.KeysAllow) == 0 {
		return true
	}
	return matchesAny(key, p.KeysAllow)
}

// CanWrite reports whether the policy allows write operations.
func (p *AccessPolicy) CanWrite() bool {
	return p.AccessMode == "read-write" || p.AccessMode == "full"
}

// matchesAny returns true if name matches any of the glob patterns.
func matchesAny(name string, patterns []string) bool {
	for _, pattern := range patterns {
		if matched, _ := filepath.Match(pattern, name); matched {
			return true
		}
	}
	return false
}
