package rag_test

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/Fershtater/rag-aqtra-mkdocs-sub001/internal/config"
	"github.com/Fershtater/rag-aqtra-mkdocs-sub001/internal/domain/commonModels"
	"github.com/Fershtater/rag-aqtra-mkdocs-sub001/internal/domain/jobModel"
	"github.com/Fershtater/rag-aqtra-mkdocs-sub001/internal/rag"
)

func TestAnswer_Scenarios(t *testing.T) {
	tests := []struct {
		name           string
		setupMocks     func(e *MockEmbedder, v *MockVectorDB, l *MockLLM)
		expectedAnswer string
		expectCached   bool
		expectSources  bool
		expectErr      bool
	}{
		{
			name: "Success_Full_Flow",
			setupMocks: func(e *MockEmbedder, v *MockVectorDB, l *MockLLM) {
				v.OnGetCachedAnswer = func(ctx context.Context, emb []float32) (string, bool, error) {
					return "", false, nil
				}
				l.OnGenerate = func(ctx context.Context, q string, m []string) (string, error) {
					return "final answer", nil
				}
			},
			expectedAnswer: "final answer",
			expectSources:  true,
		},
		{
			name: "Success_Semantic_Cache_Hit",
			setupMocks: func(e *MockEmbedder, v *MockVectorDB, l *MockLLM) {
				v.OnGetCachedAnswer = func(ctx context.Context, emb []float32) (string, bool, error) {
					return "cached answer", true, nil
				}
				l.OnGenerate = func(ctx context.Context, q string, m []string) (string, error) {
					t.Error("LLM must not be called on a cache hit")
					return "", nil
				}
			},
			expectedAnswer: "cached answer",
			expectCached:   true,
		},
		{
			name: "Failure_Embedding",
			setupMocks: func(e *MockEmbedder, v *MockVectorDB, l *MockLLM) {
				e.OnGetEmbedding = func(ctx context.Context, text string) ([]float32, error) {
					return nil, errors.New("api limit")
				}
			},
			expectErr: true,
		},
		{
			name: "Failure_Vector_Search",
			setupMocks: func(e *MockEmbedder, v *MockVectorDB, l *MockLLM) {
				v.OnSearch = func(ctx context.Context, vec []float32) ([]string, []string, error) {
					return nil, nil, errors.New("db timeout")
				}
			},
			expectErr: true,
		},
		{
			name: "Failure_LLM_Generation",
			setupMocks: func(e *MockEmbedder, v *MockVectorDB, l *MockLLM) {
				l.OnGenerate = func(ctx context.Context, q string, m []string) (string, error) {
					return "", errors.New("provider down")
				}
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mEmbed := &MockEmbedder{}
			mVec := &MockVectorDB{}
			mLLM := &MockLLM{}

			tt.setupMocks(mEmbed, mVec, mLLM)

			s := rag.NewService(mVec, mLLM, mEmbed)

			ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "test-trace")
			answer, err := s.Answer(ctx, "How do I deploy an application?")

			if tt.expectErr {
				if err == nil {
					t.Fatal("expected an error, got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if answer.Text != tt.expectedAnswer {
				t.Errorf("Answer got %q, want %q", answer.Text, tt.expectedAnswer)
			}
			if answer.Cached != tt.expectCached {
				t.Errorf("Cached got %v, want %v", answer.Cached, tt.expectCached)
			}
			if tt.expectSources && len(answer.Sources) == 0 {
				t.Error("expected sources on a fresh answer")
			}
		})
	}
}

func TestRebuildIndex_Scenarios(t *testing.T) {
	writeDocs := func(t *testing.T) string {
		t.Helper()
		dir := t.TempDir()
		content := "# Getting Started\n\nCreate an application from the dashboard.\n\n## Deployment\n\nUse the deploy button.\n"
		if err := os.WriteFile(filepath.Join(dir, "getting-started.md"), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
		return dir
	}

	tests := []struct {
		name           string
		docsDir        func(t *testing.T) string
		setupMocks     func(e *MockEmbedder, v *MockVectorDB)
		expectedStatus jobModel.JobStatus
	}{
		{
			name:           "Rebuild_Success",
			docsDir:        writeDocs,
			setupMocks:     func(e *MockEmbedder, v *MockVectorDB) {},
			expectedStatus: jobModel.JobStatusComplete,
		},
		{
			name:    "Failure_Collection_Recreate",
			docsDir: writeDocs,
			setupMocks: func(e *MockEmbedder, v *MockVectorDB) {
				v.OnRecreateCollection = func(ctx context.Context, name string) error {
					return errors.New("connection refused")
				}
			},
			expectedStatus: jobModel.JobStatusError,
		},
		{
			name:    "Failure_Batch_Upsert",
			docsDir: writeDocs,
			setupMocks: func(e *MockEmbedder, v *MockVectorDB) {
				v.OnUpsertBatch = func(ctx context.Context, coll string, chunks []commonModels.DocChunk, vectors [][]float32) error {
					return errors.New("disk full")
				}
			},
			expectedStatus: jobModel.JobStatusError,
		},
		{
			name:           "Failure_Empty_Corpus",
			docsDir:        func(t *testing.T) string { return t.TempDir() },
			setupMocks:     func(e *MockEmbedder, v *MockVectorDB) {},
			expectedStatus: jobModel.JobStatusError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mEmbed := &MockEmbedder{}
			mVec := &MockVectorDB{}

			tt.setupMocks(mEmbed, mVec)

			s := rag.NewService(mVec, &MockLLM{}, mEmbed)

			ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "rebuild-trace")
			job := jobModel.Job{
				Id: "rebuild-job-1",
				JobPayload: jobModel.JobPayload{
					DocsDir: tt.docsDir(t),
				},
			}

			result := s.RebuildIndex(ctx, job)

			if result.Status != tt.expectedStatus {
				t.Errorf("Status got %v, want %v", result.Status, tt.expectedStatus)
			}
			if tt.expectedStatus == jobModel.JobStatusComplete && result.JobPayload.ChunksIndexed == 0 {
				t.Error("expected a non-zero chunk count on success")
			}
			if tt.expectedStatus == jobModel.JobStatusError && result.Error.Code != http.StatusInternalServerError {
				t.Errorf("Error code got %d, want %d", result.Error.Code, http.StatusInternalServerError)
			}
		})
	}
}
