package mcp

import (
	"context"
	"fmt"
	"os"
	"sort"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/envdeck/envdeck/internal/render"
)

type exportEnvInput struct {
	Groups     []string `json:"groups,omitempty" jsonschema:"Group ids to export. If omitted exports all allowed groups."`
	Format     string   `json:"format,omitempty" jsonschema:"Output format: dotenv, shell, json, or yaml. Default: dotenv."`
	OutputPath string   `json:"output_path,omitempty" jsonschema:"File path to write to. Default: .env"`
}

type exportEnvOutput struct {
	Path  string   `json:"path"`
	Count int      `json:"count"`
	Keys  []string `json:"keys"`
}

func (s *VaultMCPServer) registerEnvTools() {
	sdkmcp.AddTool(s.server, &sdkmcp.Tool{
		Name: "envdeck_export_env",
		Description: "Write environment variables to a dotenv, shell, JSON, or YAML file. " +
			"The file is written directly to disk -- secret values are NOT returned to the AI conversation. " +
			"Only the file path and key names are returned.",
	}, s.handleExportEnv)
}

func (s *VaultMCPServer) handleExportEnv(_ context.Context, _ *sdkmcp.CallToolRequest, input exportEnvInput) (*sdkmcp.CallToolResult, exportEnvOutput, error) {
	groups, err := s.vault.LoadGroups()
	if err != nil {
		return nil, exportEnvOutput{}, fmt.Errorf("load groups: %w", err)
	}

	requested := make(map[string]bool, len(input.Groups))
	for _, id := range input.Groups {
		requested[id] = true
	}

	vars := make(map[string]string)
	for _, g := range groups {
		if len(requested) > 0 && !requested[g.ID] {
			continue
		}
		if !s.policy.CanAccessGroup(g.ID) {
			if requested[g.ID] {
				return nil, exportEnvOutput{}, fmt.Errorf("group %q is not allowed by policy", g.ID)
			}
			continue
		}
		for _, variable := range g.Variables {
			if s.policy.CanAccessKey(variable.Key) {
				vars[variable.Key] = variable.Value
			}
		}
	}

	format := input.Format
	if format == "" {
		format = render.FormatDotenv
	}

	outputPath := input.OutputPath
	if outputPath == "" {
		switch format {
		case render.FormatJSON:
			outputPath = ".env.json"
		case render.FormatYAML:
			outputPath = ".env.yaml"
		default:
			outputPath = ".env"
		}
	}

	content, err := render.Render(format, vars)
	if err != nil {
		return nil, exportEnvOutput{}, err
	}

	if err := os.WriteFile(outputPath, []byte(content), 0o600); err != nil {
		return nil, exportEnvOutput{}, fmt.Errorf("write file: %w", err)
	}

	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return nil, exportEnvOutput{
		Path:  outputPath,
		Count: len(vars),
		Keys:  keys,
	}, nil
}
