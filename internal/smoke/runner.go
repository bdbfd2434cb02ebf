package smoke

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"regexp"

	"github.com/Fershtater/rag-aqtra-mkdocs-sub001/internal/config"
	"github.com/Fershtater/rag-aqtra-mkdocs-sub001/pkg/logger_i"
)

const defaultQuestion = "How do I create a new application in Aqtra?"

// field-presence patterns, intentionally shallow: this is a diagnostic,
// not a schema validator
var (
	statusFieldPattern   = regexp.MustCompile(`"status"\s*:`)
	languageFieldPattern = regexp.MustCompile(`"language"\s*:`)
	answerFieldPattern   = regexp.MustCompile(`"answer"\s*:`)
	answerPreviewPattern = regexp.MustCompile(`"answer"\s*:\s*"([^"]{1,100})`)
)

// Runner executes the deployment smoke test: one index rebuild subprocess
// followed by five sequential endpoint probes. The first failure aborts the
// whole run.
type Runner struct {
	env    Env
	client *http.Client
	logger *logger_i.Logger
	out    io.Writer

	// injection points for tests
	lookPath func(file string) (string, error)
	runCmd   func(ctx context.Context, dir string, argv []string) error
}

func NewRunner(env Env) *Runner {
	return &Runner{
		env: env,
		client: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        config.MaxIdleConns,
				MaxIdleConnsPerHost: config.MaxIdleConnsPerHost,
				IdleConnTimeout:     config.IdleConnTimeout,
			},
		},
		logger:   logger_i.NewLogger("SmokeTest"),
		out:      os.Stdout,
		lookPath: exec.LookPath,
		runCmd: func(ctx context.Context, dir string, argv []string) error {
			cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
			cmd.Dir = dir
			cmd.Stdout = os.Stdout
			cmd.Stderr = os.Stderr
			return cmd.Run()
		},
	}
}

// Run walks the check sequence in order. Every step is a hard gate.
func (r *Runner) Run(ctx context.Context) error {
	steps := []struct {
		name string
		fn   func(context.Context) error
	}{
		{"tooling", r.checkTooling},
		{"rebuild index", r.rebuildIndex},
		{"GET /health", r.checkHealth},
		{"GET /config/prompt", r.checkPromptConfig},
		{"GET /metrics", r.checkMetrics},
		{"POST /query", r.checkQuery},
		{"POST /update_index", r.checkUpdateIndex},
	}

	for _, step := range steps {
		if err := step.fn(ctx); err != nil {
			fmt.Fprintf(r.out, "FAIL  %s: %v\n", step.name, err)
			return fmt.Errorf("%s: %w", step.name, err)
		}
		fmt.Fprintf(r.out, "ok    %s\n", step.name)
	}

	fmt.Fprintln(r.out, "smoke test passed")
	return nil
}

func (r *Runner) checkTooling(ctx context.Context) error {
	if _, err := r.lookPath(r.env.RebuildCmd[0]); err != nil {
		return fmt.Errorf("rebuild tool %q not found in PATH: %w", r.env.RebuildCmd[0], err)
	}
	return nil
}

func (r *Runner) rebuildIndex(ctx context.Context) error {
	r.logger.Info("Rebuilding index", "cmd", r.env.RebuildCmd)
	if err := r.runCmd(ctx, r.env.Root, r.env.RebuildCmd); err != nil {
		return fmt.Errorf("rebuild subprocess failed: %w", err)
	}
	return nil
}

func (r *Runner) checkHealth(ctx context.Context) error {
	body, err := r.get(ctx, "/health")
	if err != nil {
		return err
	}
	if !statusFieldPattern.Match(body) {
		return fmt.Errorf("response has no status field: %s", trimForLog(body))
	}
	return nil
}

func (r *Runner) checkPromptConfig(ctx context.Context) error {
	body, err := r.get(ctx, "/config/prompt")
	if err != nil {
		return err
	}
	if !languageFieldPattern.Match(body) {
		return fmt.Errorf("response has no language field: %s", trimForLog(body))
	}
	return nil
}

func (r *Runner) checkMetrics(ctx context.Context) error {
	// any 2xx with a body counts, the exposition format is not parsed
	_, err := r.get(ctx, "/metrics")
	return err
}

func (r *Runner) checkQuery(ctx context.Context) error {
	payload := fmt.Sprintf(`{"question": %q}`, defaultQuestion)
	body, err := r.post(ctx, "/query", payload, nil)
	if err != nil {
		return err
	}
	if !answerFieldPattern.Match(body) {
		return fmt.Errorf("response has no answer field: %s", trimForLog(body))
	}
	if m := answerPreviewPattern.FindSubmatch(body); m != nil {
		fmt.Fprintf(r.out, "      answer preview: %s...\n", m[1])
	}
	return nil
}

func (r *Runner) checkUpdateIndex(ctx context.Context) error {
	if r.env.UpdateAPIKey == "" {
		fmt.Fprintln(r.out, "warn  UPDATE_API_KEY not set, skipping /update_index check")
		return nil
	}

	headers := map[string]string{config.UpdateAPIKeyHeader: r.env.UpdateAPIKey}
	body, err := r.post(ctx, "/update_index", "{}", headers)
	if err != nil {
		return err
	}
	if !statusFieldPattern.Match(body) {
		return fmt.Errorf("response has no status field: %s", trimForLog(body))
	}
	return nil
}

func (r *Runner) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.env.BaseURL+path, nil)
	if err != nil {
		return nil, err
	}
	return r.do(req)
}

func (r *Runner) post(ctx context.Context, path string, body string, headers map[string]string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.env.BaseURL+path, bytes.NewBufferString(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	return r.do(req)
}

func (r *Runner) do(req *http.Request) ([]byte, error) {
	resp, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, trimForLog(body))
	}
	return body, nil
}

func trimForLog(body []byte) string {
	const limit = 200
	if len(body) > limit {
		return string(body[:limit]) + "..."
	}
	return string(body)
}
