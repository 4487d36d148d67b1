// Package render serializes resolved environment variables into the
// formats consumed by other tooling.
package render

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"go.yaml.in/yaml/v3"
)

// Formats supported by Render.
const (
	FormatDotenv = "dotenv"
	FormatShell  = "shell"
	FormatJSON   = "json"
	FormatYAML   = "yaml"
)

// Render serializes the variables in the given format. Keys are emitted
// in sorted order so output is stable.
func Render(format string, vars map[string]string) (string, error) {
	switch format {
	case FormatDotenv:
		return dotenv(vars), nil
	case FormatShell:
		return shell(vars), nil
	case FormatJSON:
		data, err := json.MarshalIndent(vars, "", "  ")
		if err != nil {
			return "", fmt.Errorf("marshal json: %w", err)
		}
		return string(data) + "\n", nil
	case FormatYAML:
		data, err := yaml.Marshal(vars)
		if err != nil {
			return "", fmt.Errorf("marshal yaml: %w", err)
		}
		return string(data), nil
	default:
		return "", fmt.Errorf("unsupported format: %s (use dotenv, shell, json, or yaml)", format)
	}
}

func sortedKeys(vars map[string]string) []string {
	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func dotenv(vars map[string]string) string {
	var b strings.Builder
	for _, k := range sortedKeys(vars) {
		v := vars[k]
		if strings.ContainsAny(v, " \t\n\"'#") {
			v = fmt.Sprintf("%q", v)
		}
		fmt.Fprintf(&b, "%s=%s\n", k, v)
	}
	return b.String()
}

func shell(vars map[string]string) string {
	var b strings.Builder
	for _, k := range sortedKeys(vars) {
		fmt.Fprintf(&b, "export %s=%q\n", k, vars[k])
	}
	return b.String()
}
