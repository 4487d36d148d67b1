package mcp

import (
	"context"
	"errors"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/envdeck/envdeck/internal/store"
	"github.com/envdeck/envdeck/internal/vault"
)

type listGroupsInput struct{}

type groupSummary struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Variables []string `json:"variables"`
}

type listGroupsOutput struct {
	Groups []groupSummary `json:"groups"`
}

type getVariableInput struct {
	Group string `json:"group" jsonschema:"Group id, e.g. database or ai-providers."`
	Key   string `json:"key" jsonschema:"Variable key to read."`
}

type getVariableOutput struct {
	Key      string `json:"key"`
	Value    string `json:"value"`
	IsSecret bool   `json:"isSecret"`
}

type setVariableInput struct {
	Group    string `json:"group" jsonschema:"Group id to write into."`
	Key      string `json:"key" jsonschema:"Variable key."`
	Value    string `json:"value" jsonschema:"Variable value."`
	IsSecret bool   `json:"is_secret,omitempty" jsonschema:"Encrypt the value at rest."`
}

type setVariableOutput struct {
	Key   string `json:"key"`
	Group string `json:"group"`
}

type resolveInput struct {
	Key string `json:"key" jsonschema:"Variable key to resolve across the runtime environment and all groups."`
}

type resolveOutput struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

func (s *VaultMCPServer) registerGroupTools() {
	sdkmcp.AddTool(s.server, &sdkmcp.Tool{
		Name:        "envdeck_list_groups",
		Description: "List environment groups and their variable keys. Secret values are never included.",
	}, s.handleListGroups)

	sdkmcp.AddTool(s.server, &sdkmcp.Tool{
		Name: "envdeck_get_variable",
		Description: "Read a single variable from a group. Secret values are redacted when the " +
			"policy requires it; prefer envdeck_export_env for anything that needs real values.",
	}, s.handleGetVariable)

	sdkmcp.AddTool(s.server, &sdkmcp.Tool{
		Name:        "envdeck_set_variable",
		Description: "Create or update a variable in a group. Secret values are encrypted at rest.",
	}, s.handleSetVariable)

	sdkmcp.AddTool(s.server, &sdkmcp.Tool{
		Name:        "envdeck_resolve",
		Description: "Resolve a key the way the application would: runtime environment first, then stored groups.",
	}, s.handleResolve)
}

func (s *VaultMCPServer) handleListGroups(_ context.Context, _ *sdkmcp.CallToolRequest, _ listGroupsInput) (*sdkmcp.CallToolResult, listGroupsOutput, error) {
	groups, err := s.vault.LoadGroups()
	if err != nil {
		return nil, listGroupsOutput{}, fmt.Errorf("load groups: %w", err)
	}

	out := listGroupsOutput{}
	for _, g := range groups {
		if !s.policy.CanAccessGroup(g.ID) {
			continue
		}
		summary := groupSummary{ID: g.ID, Name: g.Name}
		for _, variable := range g.Variables {
			summary.Variables = append(summary.Variables, variable.Key)
		}
		out.Groups = append(out.Groups, summary)
	}
	return nil, out, nil
}

func (s *VaultMCPServer) handleGetVariable(_ context.Context, _ *sdkmcp.CallToolRequest, input getVariableInput) (*sdkmcp.CallToolResult, getVariableOutput, error) {
	if !s.policy.CanAccessGroup(input.Group) {
		return nil, getVariableOutput{}, fmt.Errorf("group %q is not allowed by policy", input.Group)
	}
	if !s.policy.CanAccessKey(input.Key) {
		return nil, getVariableOutput{}, fmt.Errorf("key %q is not allowed by policy", input.Key)
	}

	group, err := s.vault.GetGroup(input.Group)
	if err != nil {
		if errors.Is(err, vault.ErrGroupNotFound) {
			return nil, getVariableOutput{}, fmt.Errorf("group %q not found", input.Group)
		}
		return nil, getVariableOutput{}, fmt.Errorf("get group: %w", err)
	}

	variable := group.Variable(input.Key)
	if variable == nil {
		return nil, getVariableOutput{}, fmt.Errorf("variable %q not found in group %q", input.Key, input.Group)
	}

	value := variable.Value
	if variable.IsSecret && s.policy.RedactOutput {
		value = redactSecrets(value, map[string]string{variable.Key: variable.Value})
	}

	return nil, getVariableOutput{
		Key:      variable.Key,
		Value:    value,
		IsSecret: variable.IsSecret,
	}, nil
}

func (s *VaultMCPServer) handleSetVariable(_ context.Context, _ *sdkmcp.CallToolRequest, input setVariableInput) (*sdkmcp.CallToolResult, setVariableOutput, error) {
	if !s.policy.CanWrite() {
		return nil, setVariableOutput{}, fmt.Errorf("policy access mode %q does not allow writes", s.policy.AccessMode)
	}
	if !s.policy.CanAccessGroup(input.Group) {
		return nil, setVariableOutput{}, fmt.Errorf("group %q is not allowed by policy", input.Group)
	}
	if !s.policy.CanAccessKey(input.Key) {
		return nil, setVariableOutput{}, fmt.Errorf("key %q is not allowed by policy", input.Key)
	}

	err := s.vault.SetVariable(input.Group, store.EnvironmentVariable{
		Key:      input.Key,
		Value:    input.Value,
		IsSecret: input.IsSecret,
	})
	if err != nil {
		return nil, setVariableOutput{}, fmt.Errorf("set variable: %w", err)
	}

	return nil, setVariableOutput{Key: input.Key, Group: input.Group}, nil
}

func (s *VaultMCPServer) handleResolve(_ context.Context, _ *sdkmcp.CallToolRequest, input resolveInput) (*sdkmcp.CallToolResult, resolveOutput, error) {
	if !s.policy.CanAccessKey(input.Key) {
		return nil, resolveOutput{}, fmt.Errorf("key %q is not allowed by policy", input.Key)
	}

	value, err := s.vault.Resolve(input.Key)
	if err != nil {
		if errors.Is(err, vault.ErrKeyNotResolved) {
			return nil, resolveOutput{}, fmt.Errorf("key %q not found", input.Key)
		}
		return nil, resolveOutput{}, fmt.Errorf("resolve: %w", err)
	}

	if s.policy.RedactOutput {
		value = redactSecrets(value, map[string]string{input.Key: value})
	}

	return nil, resolveOutput{Key: input.Key, Value: value}, nil
}
