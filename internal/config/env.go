package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// EnvFileName is the environment-configuration file required by the smoke test.
const EnvFileName = ".env"

// LoadEnvFile loads root/.env into the process environment. Variables that are
// already set in the environment win over file values. A missing file is a
// hard error so callers can refuse to run unconfigured.
func LoadEnvFile(root string) error {
	path := filepath.Join(root, EnvFileName)
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("environment file %s not found: %w", path, err)
	}

	values, err := godotenv.Read(path)
	if err != nil {
		return fmt.Errorf("could not parse %s: %w", path, err)
	}
	for key, value := range values {
		if _, exists := os.LookupEnv(key); exists {
			continue
		}
		if err := os.Setenv(key, value); err != nil {
			return err
		}
	}
	return nil
}

// Port returns the configured service port, defaulting to 8000.
func Port() string {
	if p := strings.TrimSpace(os.Getenv("PORT")); p != "" {
		return p
	}
	return DefaultPort
}

// UpdateAPIKey gates the /update_index endpoint. Empty means the rebuild
// endpoint cannot be authorized and the smoke test skips its last check.
func UpdateAPIKey() string {
	return os.Getenv("UPDATE_API_KEY")
}

func PromptLanguage() string {
	if lang := strings.TrimSpace(os.Getenv("PROMPT_LANGUAGE")); lang != "" {
		return lang
	}
	return DefaultPromptLanguage
}

func DocsDir() string {
	if dir := strings.TrimSpace(os.Getenv("DOCS_DIR")); dir != "" {
		return dir
	}
	return DefaultDocsDir
}

// RebuildCommand overrides the subprocess the smoke test uses to rebuild the
// index. Empty means the built-in default.
func RebuildCommand() string {
	return os.Getenv("SMOKE_REBUILD_CMD")
}

// LLMProvider selects the generation backend: "gemini" (default) or "openai".
func LLMProvider() string {
	provider := strings.ToLower(strings.TrimSpace(os.Getenv("LLM_PROVIDER")))
	if provider == "" {
		return "gemini"
	}
	return provider
}

func GoogleAPIKey() string {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		return key
	}
	return os.Getenv("GOOGLE_API_KEY")
}

func OpenAIAPIKey() string {
	return os.Getenv("OPENAI_API_KEY")
}
