package render

import (
	"encoding/json"
	"strings"
	"testing"
)

var testVars = map[string]string{
	"DATABASE_URL": "postgres://db/app",
	"APP_NAME":     "env deck",
	"PORT":         "8080",
}

func TestRender_Dotenv(t *testing.T) {
	out, err := Render(FormatDotenv, testVars)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out), "\n")
	want := []string{
		`APP_NAME="env deck"`,
		"DATABASE_URL=postgres://db/app",
		"PORT=8080",
	}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines: %q", len(lines), out)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestRender_Shell(t *testing.T) {
	out, err := Render(FormatShell, testVars)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(out, `export PORT="8080"`) {
		t.Errorf("shell output missing export: %q", out)
	}
	if !strings.HasPrefix(out, "export APP_NAME=") {
		t.Errorf("shell output not sorted: %q", out)
	}
}

func TestRender_JSON(t *testing.T) {
	out, err := Render(FormatJSON, testVars)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	var decoded map[string]string
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded["DATABASE_URL"] != "postgres://db/app" {
		t.Errorf("decoded = %+v", decoded)
	}
}

func TestRender_YAML(t *testing.T) {
	out, err := Render(FormatYAML, testVars)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(out, "PORT:") {
		t.Errorf("yaml output = %q", out)
	}
}

func TestRender_UnsupportedFormat(t *testing.T) {
	if _, err := Render("toml", testVars); err == nil {
		t.Fatal("Render accepted an unsupported format")
	}
}
