package cmd

import (
	"path/filepath"

	"github.com/spf13/cobra"

	edmcp "github.com/envdeck/envdeck/internal/mcp"
)

var mcpServerCmd = &cobra.Command{
	Use:   "mcp-server",
	Short: "Start envdeck as an MCP server (stdio)",
	Long: `Start envdeck as a Model Context Protocol server for AI agent
integration. Communicates over stdin/stdout using JSON-RPC.

Configure in .claude/settings.local.json:
  {
    "mcpServers": {
      "envdeck": {
        "command": "envdeck",
        "args": ["mcp-server"]
      }
    }
  }`,
	Hidden: true,
	RunE:   runMCPServer,
}

func init() {
	rootCmd.AddCommand(mcpServerCmd)
}

func runMCPServer(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	v, err := openVault()
	if err != nil {
		return err
	}
	defer v.Close()

	policyPath := filepath.Join(cfg.Vault.DataDir, "mcp-policy.yaml")
	policy, _ := edmcp.LoadPolicy(policyPath)
	if policy == nil {
		policy = edmcp.DefaultPolicy()
	}

	srv := edmcp.NewVaultMCPServer(v, policy)
	return srv.Run(cmd.Context())
}
