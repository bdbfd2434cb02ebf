package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Fershtater/rag-aqtra-mkdocs-sub001/internal/config"
)

func newRequest(remoteAddr string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/update_index", nil)
	req.RemoteAddr = remoteAddr
	return req
}

func TestWrap_InjectsTraceId(t *testing.T) {
	var gotTrace any
	handler := Wrap(func(w http.ResponseWriter, r *http.Request) {
		gotTrace = r.Context().Value(config.TRACE_ID_KEY)
		w.WriteHeader(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	handler(rec, newRequest("10.0.0.1:5000"))

	if rec.Code != http.StatusOK {
		t.Fatalf("Status got %d, want 200", rec.Code)
	}
	trace, ok := gotTrace.(string)
	if !ok || trace == "" {
		t.Error("Handler did not receive a trace id in its context")
	}
}

func TestWrap_KeepsCallerTraceId(t *testing.T) {
	var gotTrace any
	handler := Wrap(func(w http.ResponseWriter, r *http.Request) {
		gotTrace = r.Context().Value(config.TRACE_ID_KEY)
	})

	req := newRequest("10.0.0.2:5000")
	req.Header.Set("X-Trace-Id", "caller-trace")
	handler(httptest.NewRecorder(), req)

	if gotTrace != "caller-trace" {
		t.Errorf("Trace id got %v, want caller-trace", gotTrace)
	}
}

func TestWrapKeyed_Auth(t *testing.T) {
	tests := []struct {
		name           string
		configuredKey  string
		presentedKey   string
		expectedStatus int
	}{
		{"Valid key", "sekrit", "sekrit", http.StatusOK},
		{"Wrong key", "sekrit", "nope", http.StatusUnauthorized},
		{"Missing header", "sekrit", "", http.StatusUnauthorized},
		{"No key configured locks the endpoint", "", "anything", http.StatusUnauthorized},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("UPDATE_API_KEY", tt.configuredKey)

			called := false
			handler := WrapKeyed(func(w http.ResponseWriter, r *http.Request) {
				called = true
				w.WriteHeader(http.StatusOK)
			})

			req := newRequest(fmt.Sprintf("10.0.1.%d:5000", i+1))
			if tt.presentedKey != "" {
				req.Header.Set(config.UpdateAPIKeyHeader, tt.presentedKey)
			}

			rec := httptest.NewRecorder()
			handler(rec, req)

			if rec.Code != tt.expectedStatus {
				t.Errorf("Status got %d, want %d", rec.Code, tt.expectedStatus)
			}
			if called != (tt.expectedStatus == http.StatusOK) {
				t.Errorf("Handler called = %v for status %d", called, tt.expectedStatus)
			}
		})
	}
}

func TestWrap_RateLimitKicksIn(t *testing.T) {
	handler := Wrap(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	var limited bool
	for i := 0; i < config.BURST_RATE_LIMIT_PER_SECOND+2; i++ {
		rec := httptest.NewRecorder()
		handler(rec, newRequest("10.0.2.1:5000"))
		if rec.Code == http.StatusTooManyRequests {
			limited = true
		}
	}

	if !limited {
		t.Error("Expected at least one 429 after exhausting the burst")
	}
}
