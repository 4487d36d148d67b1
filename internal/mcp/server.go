// Package mcp exposes the environment vault to AI agents over the
// Model Context Protocol.
package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/envdeck/envdeck/internal/vault"
)

// VaultMCPServer wraps a vault and exposes it as an MCP server.
type VaultMCPServer struct {
	server *sdkmcp.Server
	vault  *vault.Vault
	policy *AccessPolicy
}

// NewVaultMCPServer creates a new MCP server backed by the given vault
// and policy.
func NewVaultMCPServer(v *vault.Vault, policy *AccessPolicy) *VaultMCPServer {
	if policy == nil {
		policy = DefaultPolicy()
	}

	s := &VaultMCPServer{
		vault:  v,
		policy: policy,
	}

	s.server = sdkmcp.NewServer(
		&sdkmcp.Implementation{
			Name:    "envdeck",
			Version: "1.0.0",
		},
		&sdkmcp.ServerOptions{
			Instructions: "envdeck manages encrypted environment variable groups. " +
				"Prefer envdeck_export_env over envdeck_get_variable so secret values stay out of the conversation.",
		},
	)

	s.registerGroupTools()
	s.registerEnvTools()

	return s
}

// Run starts the MCP server on the stdio transport.
func (s *VaultMCPServer) Run(ctx context.Context) error {
	return s.server.Run(ctx, &sdkmcp.StdioTransport{})
}
