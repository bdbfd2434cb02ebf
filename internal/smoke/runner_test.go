package smoke

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
)

func testEnv(baseURL string, key string) Env {
	return Env{
		Root:         ".",
		Port:         "8000",
		BaseURL:      baseURL,
		UpdateAPIKey: key,
		RebuildCmd:   []string{"go", "run", "./cmd/ragops", "reindex"},
	}
}

// newTestRunner returns a runner whose subprocess hooks always succeed.
func newTestRunner(env Env) *Runner {
	r := NewRunner(env)
	r.out = &bytes.Buffer{}
	r.lookPath = func(file string) (string, error) { return "/usr/bin/" + file, nil }
	r.runCmd = func(ctx context.Context, dir string, argv []string) error { return nil }
	return r
}

func newBackend(t *testing.T, hits *int32, updateHits *int32) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": "ok", "service": "aqtra-docs-assistant"}`))
	})
	mux.HandleFunc("/config/prompt", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"language": "en", "provider": "gemini"}`))
	})
	mux.HandleFunc("/metrics", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("http_requests_total 12\n"))
	})
	mux.HandleFunc("/query", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"question": "q", "answer": "Use the dashboard to create an application."}`))
	})
	mux.HandleFunc("/update_index", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(updateHits, 1)
		if r.Header.Get("X-API-Key") == "" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.WriteHeader(http.StatusAccepted)
		w.Write([]byte(`{"status": "accepted", "job_id": "j1"}`))
	})

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)
		mux.ServeHTTP(w, r)
	}))
}

func TestLoadEnv_MissingFileFails(t *testing.T) {
	_, err := LoadEnv(t.TempDir())
	if err == nil {
		t.Fatal("Expected error for missing .env, got nil")
	}
}

func TestLoadEnv_Defaults(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, ".env"), []byte("UPDATE_API_KEY=sekrit\n"), 0644); err != nil {
		t.Fatal(err)
	}

	env, err := LoadEnv(root)
	if err != nil {
		t.Fatalf("LoadEnv failed: %v", err)
	}
	if env.Port != "8000" {
		t.Errorf("Port got %s, want default 8000", env.Port)
	}
	if env.BaseURL != "http://localhost:8000" {
		t.Errorf("BaseURL got %s", env.BaseURL)
	}
	if env.UpdateAPIKey != "sekrit" {
		t.Errorf("UpdateAPIKey got %s", env.UpdateAPIKey)
	}
	if len(env.RebuildCmd) == 0 || env.RebuildCmd[0] != "go" {
		t.Errorf("RebuildCmd got %v, want default go run command", env.RebuildCmd)
	}
}

func TestRun_AllChecksPassWithKey(t *testing.T) {
	var hits, updateHits int32
	backend := newBackend(t, &hits, &updateHits)
	defer backend.Close()

	r := newTestRunner(testEnv(backend.URL, "sekrit"))

	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if hits != 5 {
		t.Errorf("Expected 5 HTTP calls, got %d", hits)
	}
	if updateHits != 1 {
		t.Errorf("Expected /update_index to be probed once, got %d", updateHits)
	}
}

func TestRun_KeyUnsetSkipsUpdateIndex(t *testing.T) {
	var hits, updateHits int32
	backend := newBackend(t, &hits, &updateHits)
	defer backend.Close()

	out := &bytes.Buffer{}
	r := newTestRunner(testEnv(backend.URL, ""))
	r.out = out

	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if hits != 4 {
		t.Errorf("Expected 4 HTTP calls without a key, got %d", hits)
	}
	if updateHits != 0 {
		t.Errorf("/update_index must not be probed without a key, got %d", updateHits)
	}
	if !strings.Contains(out.String(), "skipping /update_index") {
		t.Errorf("Expected a skip warning, output: %s", out.String())
	}
}

func TestRun_RebuildFailureBlocksHTTP(t *testing.T) {
	var hits, updateHits int32
	backend := newBackend(t, &hits, &updateHits)
	defer backend.Close()

	r := newTestRunner(testEnv(backend.URL, "sekrit"))
	r.runCmd = func(ctx context.Context, dir string, argv []string) error {
		return errors.New("exit status 1")
	}

	if err := r.Run(context.Background()); err == nil {
		t.Fatal("Expected Run to fail on rebuild error")
	}
	if hits != 0 {
		t.Errorf("No HTTP calls expected after rebuild failure, got %d", hits)
	}
}

func TestRun_MissingToolBlocksEverything(t *testing.T) {
	var ran bool
	r := newTestRunner(testEnv("http://localhost:1", "sekrit"))
	r.lookPath = func(file string) (string, error) { return "", errors.New("not found") }
	r.runCmd = func(ctx context.Context, dir string, argv []string) error {
		ran = true
		return nil
	}

	if err := r.Run(context.Background()); err == nil {
		t.Fatal("Expected Run to fail on missing tooling")
	}
	if ran {
		t.Error("Rebuild subprocess must not run when tooling is missing")
	}
}

func TestRun_QueryWithoutAnswerAborts(t *testing.T) {
	var updateHits int32
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": "ok"}`))
	})
	mux.HandleFunc("/config/prompt", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"language": "en"}`))
	})
	mux.HandleFunc("/metrics", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("up 1\n"))
	})
	mux.HandleFunc("/query", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"question": "q", "error": "model unavailable"}`))
	})
	mux.HandleFunc("/update_index", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&updateHits, 1)
	})
	backend := httptest.NewServer(mux)
	defer backend.Close()

	r := newTestRunner(testEnv(backend.URL, "sekrit"))

	err := r.Run(context.Background())
	if err == nil {
		t.Fatal("Expected Run to fail on a missing answer field")
	}
	if !strings.Contains(err.Error(), "answer") {
		t.Errorf("Error should mention the answer field, got: %v", err)
	}
	if updateHits != 0 {
		t.Errorf("/update_index must not be probed after a query failure, got %d", updateHits)
	}
}

func TestRun_AnswerPreviewIsPrinted(t *testing.T) {
	var hits, updateHits int32
	backend := newBackend(t, &hits, &updateHits)
	defer backend.Close()

	out := &bytes.Buffer{}
	r := newTestRunner(testEnv(backend.URL, "sekrit"))
	r.out = out

	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !strings.Contains(out.String(), "answer preview: Use the dashboard") {
		t.Errorf("Expected an answer preview in the output, got: %s", out.String())
	}
}
