package smoke

import (
	"strings"

	"github.com/Fershtater/rag-aqtra-mkdocs-sub001/internal/config"
)

// Env is the resolved smoke-test configuration, read once up front so every
// later step works off the same snapshot.
type Env struct {
	Root         string
	Port         string
	BaseURL      string
	UpdateAPIKey string
	RebuildCmd   []string
}

// LoadEnv requires root/.env to exist and builds the probe environment from
// it. Nothing network-adjacent happens before this succeeds.
func LoadEnv(root string) (Env, error) {
	if err := config.LoadEnvFile(root); err != nil {
		return Env{}, err
	}

	port := config.Port()
	env := Env{
		Root:         root,
		Port:         port,
		BaseURL:      "http://localhost:" + port,
		UpdateAPIKey: config.UpdateAPIKey(),
		RebuildCmd:   rebuildCommand(),
	}
	return env, nil
}

func rebuildCommand() []string {
	if raw := strings.TrimSpace(config.RebuildCommand()); raw != "" {
		return strings.Fields(raw)
	}
	return []string{"go", "run", "./cmd/ragops", "reindex"}
}
