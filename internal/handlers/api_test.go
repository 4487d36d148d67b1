package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/envdeck/envdeck/internal/config"
	"github.com/envdeck/envdeck/internal/runtime"
	"github.com/envdeck/envdeck/internal/store"
	"github.com/envdeck/envdeck/internal/vault"
)

// newTestRouter builds the full router over a vault with a fresh store
// in a temp directory.
func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	dir := t.TempDir()

	s, err := store.NewBoltStore(filepath.Join(dir, "settings.db"))
	if err != nil {
		t.Fatalf("NewBoltStore: %v", err)
	}

	v, err := vault.New(vault.Options{
		Store:   s,
		Runtime: runtime.NewStore(),
		KeyFile: filepath.Join(dir, "vault.key"),
	})
	if err != nil {
		t.Fatalf("New vault: %v", err)
	}
	t.Cleanup(func() { v.Close() })

	cfg := &config.Config{}
	cfg.Server.RequestTimeout = 5 * time.Second

	return NewRouter(&Dependencies{
		Config: cfg,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		Vault:  v,
	})
}

func groupsPayload() []byte {
	payload, _ := json.Marshal([]*store.EnvironmentGroup{
		{
			ID:   "database",
			Name: "Database",
			Variables: []store.EnvironmentVariable{
				{Key: "DATABASE_URL", Value: "postgres://db/app", IsSecret: true},
				{Key: "DIRECT_URL", Value: "postgres://db-direct/app", IsSecret: true},
			},
		},
		{
			ID:   "ai-providers",
			Name: "AI Providers",
			Variables: []store.EnvironmentVariable{
				{Key: "OPENAI_API_KEY", Value: "sk-test", IsSecret: true},
				{Key: "OPENAI_BASE_URL", Value: "https://api.openai.com/v1"},
			},
		},
	})
	return payload
}

func decodeGroups(t *testing.T, body io.Reader) []*store.EnvironmentGroup {
	t.Helper()
	var resp struct {
		Data []*store.EnvironmentGroup `json:"data"`
	}
	if err := json.NewDecoder(body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp.Data
}

func TestAPI_SaveAndListGroups(t *testing.T) {
	router := newTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/api/groups", bytes.NewReader(groupsPayload())))
	if w.Code != http.StatusOK {
		t.Fatalf("PUT /api/groups status = %d: %s", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/groups", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("GET /api/groups status = %d", w.Code)
	}

	groups := decodeGroups(t, w.Body)
	if len(groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(groups))
	}
	if got := groups[0].Variable("DATABASE_URL"); got == nil || got.Value != "postgres://db/app" {
		t.Errorf("secret did not round-trip through the API: %+v", got)
	}
}

func TestAPI_SaveGroups_ResponseHasPersistedState(t *testing.T) {
	router := newTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/api/groups", bytes.NewReader(groupsPayload())))
	if w.Code != http.StatusOK {
		t.Fatalf("PUT /api/groups status = %d: %s", w.Code, w.Body.String())
	}

	// The payload carries no variable ids or timestamps; the response must
	// reflect what was persisted, not echo the request back.
	groups := decodeGroups(t, w.Body)
	for _, g := range groups {
		if g.UpdatedAt.IsZero() {
			t.Errorf("group %s has zero updatedAt in save response", g.ID)
		}
		for _, variable := range g.Variables {
			if variable.ID == "" {
				t.Errorf("variable %s has no generated id in save response", variable.Key)
			}
		}
	}
}

func TestAPI_SaveGroups_SetsSessionCookies(t *testing.T) {
	router := newTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/api/groups", bytes.NewReader(groupsPayload())))
	if w.Code != http.StatusOK {
		t.Fatalf("PUT /api/groups status = %d", w.Code)
	}

	cookies := w.Result().Cookies()
	byName := make(map[string]*http.Cookie, len(cookies))
	for _, c := range cookies {
		byName[c.Name] = c
	}

	for _, name := range []string{vault.SessionDatabaseURL, vault.SessionDirectURL} {
		c := byName[name]
		if c == nil {
			t.Fatalf("cookie %s not set", name)
		}
		if !c.HttpOnly {
			t.Errorf("cookie %s is not HttpOnly", name)
		}
		if c.SameSite != http.SameSiteStrictMode {
			t.Errorf("cookie %s SameSite = %v", name, c.SameSite)
		}
		if c.MaxAge != int((7 * 24 * time.Hour).Seconds()) {
			t.Errorf("cookie %s MaxAge = %d", name, c.MaxAge)
		}
		if bytes.Contains([]byte(c.Value), []byte("postgres://")) {
			t.Errorf("cookie %s carries plaintext", name)
		}
	}
}

func TestAPI_SaveGroups_Invalid(t *testing.T) {
	router := newTestRouter(t)

	cases := []struct {
		name     string
		payload  string
		wantCode string
	}{
		{"not json", `{{{`, "INVALID_INPUT"},
		{"empty variable key", `[{"id":"g","name":"G","variables":[{"key":"","value":"x"}]}]`, "INVALID_INPUT"},
		{"bad key format", `[{"id":"g","name":"G","variables":[{"key":"no-dashes","value":"x"}]}]`, "INVALID_INPUT"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/api/groups", bytes.NewReader([]byte(tc.payload))))
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", w.Code)
			}
			var resp apiError
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("decode error response: %v", err)
			}
			if resp.Error.Code != tc.wantCode {
				t.Errorf("error code = %s, want %s", resp.Error.Code, tc.wantCode)
			}
		})
	}
}

func TestAPI_DeleteGroup(t *testing.T) {
	router := newTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/api/groups", bytes.NewReader(groupsPayload())))
	if w.Code != http.StatusOK {
		t.Fatalf("seed status = %d", w.Code)
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/groups/ai-providers", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("DELETE status = %d", w.Code)
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/groups/ai-providers", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("second DELETE status = %d, want 404", w.Code)
	}
}

func TestAPI_ResolveKey(t *testing.T) {
	router := newTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/api/groups", bytes.NewReader(groupsPayload())))
	if w.Code != http.StatusOK {
		t.Fatalf("seed status = %d", w.Code)
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/resolve/OPENAI_API_KEY", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("resolve status = %d", w.Code)
	}
	var resp struct {
		Data map[string]string `json:"data"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Data["value"] != "sk-test" {
		t.Errorf("resolved value = %q", resp.Data["value"])
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/resolve/MISSING", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("resolve missing status = %d, want 404", w.Code)
	}
}

func TestAPI_ExportImportRoundTrip(t *testing.T) {
	router := newTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/api/groups", bytes.NewReader(groupsPayload())))
	if w.Code != http.StatusOK {
		t.Fatalf("seed status = %d", w.Code)
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/groups/export", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("export status = %d", w.Code)
	}
	exported := w.Body.Bytes()

	var groups []*store.EnvironmentGroup
	if err := json.Unmarshal(exported, &groups); err != nil {
		t.Fatalf("export is not valid JSON: %v", err)
	}
	for _, g := range groups {
		for _, variable := range g.Variables {
			if variable.IsSecret && variable.Value != "" {
				t.Errorf("export leaked secret %s", variable.Key)
			}
		}
	}

	// Importing the export back restores secrets from the store.
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/groups/import", bytes.NewReader(exported)))
	if w.Code != http.StatusOK {
		t.Fatalf("import status = %d: %s", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/groups", nil))
	groups = decodeGroups(t, w.Body)
	for _, g := range groups {
		if g.ID != "ai-providers" {
			continue
		}
		if got := g.Variable("OPENAI_API_KEY"); got.Value != "sk-test" {
			t.Errorf("secret after import round-trip = %q", got.Value)
		}
	}
}

func TestAPI_ImportInvalid(t *testing.T) {
	router := newTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/groups/import", bytes.NewReader([]byte(`{"not":"a collection"}`))))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("import status = %d, want 400", w.Code)
	}
	var resp apiError
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Error.Code != "INVALID_IMPORT" {
		t.Errorf("error code = %s, want INVALID_IMPORT", resp.Error.Code)
	}
}

func TestAPI_NotFoundRoute(t *testing.T) {
	router := newTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/nope", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	var resp apiError
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Error.Code != "NOT_FOUND" {
		t.Errorf("error code = %s", resp.Error.Code)
	}
}

func TestAPI_Health(t *testing.T) {
	router := newTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("health status = %d", w.Code)
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("ready status = %d", w.Code)
	}
}
