package vault

import (
	"time"

	"github.com/google/uuid"

	"github.com/envdeck/envdeck/internal/store"
)

// defaultVariable describes one variable of a default group.
type defaultVariable struct {
	key         string
	description string
	secret      bool
}

var defaultGroupDefs = []struct {
	id          string
	name        string
	description string
	icon        string
	variables   []defaultVariable
}{
	{
		id:          DatabaseGroupID,
		name:        "Database",
		description: "Connection settings for the application database",
		icon:        "database",
		variables: []defaultVariable{
			{key: keyDatabaseURL, description: "Pooled connection string", secret: true},
			{key: keyDirectURL, description: "Direct (non-pooled) connection string", secret: true},
		},
	},
	{
		id:          "ai-providers",
		name:        "AI Providers",
		description: "API keys for model providers",
		icon:        "sparkles",
		variables: []defaultVariable{
			{key: "OPENAI_API_KEY", description: "OpenAI API key", secret: true},
			{key: "ANTHROPIC_API_KEY", description: "Anthropic API key", secret: true},
			{key: "GEMINI_API_KEY", description: "Google Gemini API key", secret: true},
		},
	},
}

// defaultGroups builds the fallback collection returned when storage has
// never been written. Values are seeded from the runtime store — which the
// application root fills from the process environment at startup — and are
// empty otherwise.
func (v *Vault) defaultGroups() []*store.EnvironmentGroup {
	now := time.Now().UTC()
	groups := make([]*store.EnvironmentGroup, 0, len(defaultGroupDefs))
	for _, def := range defaultGroupDefs {
		g := &store.EnvironmentGroup{
			ID:          def.id,
			Name:        def.name,
			Description: def.description,
			Icon:        def.icon,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		for _, dv := range def.variables {
			value, _ := v.runtime.Get(dv.key)
			g.Variables = append(g.Variables, store.EnvironmentVariable{
				ID:          uuid.New().String(),
				Key:         dv.key,
				Value:       value,
				Description: dv.description,
				IsSecret:    dv.secret,
			})
		}
		groups = append(groups, g)
	}
	return groups
}
