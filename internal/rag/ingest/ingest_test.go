package ingest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/Fershtater/rag-aqtra-mkdocs-sub001/internal/domain/commonModels"
)

// --- Mocks for BatchIngest ---

type mockEmbedder struct {
	batchFunc func(ctx context.Context, chunks []string, isHuge bool) ([][]float32, error)
}

func (m *mockEmbedder) GetEmbedding(ctx context.Context, query string) ([]float32, error) {
	return nil, nil
}
func (m *mockEmbedder) BatchEmbedding(ctx context.Context, chunks []string, isHuge bool) ([][]float32, error) {
	return m.batchFunc(ctx, chunks, isHuge)
}

type mockVectorDB struct {
	upsertFunc func(ctx context.Context, coll string, chunks []commonModels.DocChunk, vectors [][]float32) error
}

func (m *mockVectorDB) Search(ctx context.Context, v []float32) ([]string, []string, error) {
	return nil, nil, nil
}
func (m *mockVectorDB) GetCachedAnswer(ctx context.Context, v []float32) (string, bool, error) {
	return "", false, nil
}
func (m *mockVectorDB) SaveToCache(ctx context.Context, id string, v []float32, a string) error {
	return nil
}
func (m *mockVectorDB) RecreateCollection(ctx context.Context, name string) error { return nil }
func (m *mockVectorDB) UpsertBatch(ctx context.Context, coll string, chunks []commonModels.DocChunk, vectors [][]float32) error {
	return m.upsertFunc(ctx, coll, chunks, vectors)
}

// --- Unit Tests ---

func TestGetDocType(t *testing.T) {
	tests := []struct {
		path     string
		expected commonModels.DocType
	}{
		{"index.md", commonModels.MARKDOWN},
		{"GUIDE.MARKDOWN", commonModels.MARKDOWN},
		{"test.pdf", commonModels.PDF},
		{"DOC.DOCX", commonModels.DOCX},
		{"notes.txt", commonModels.DOCX},
		{"image.png", commonModels.ERR},
	}

	for _, tt := range tests {
		if got := getDocType(tt.path); got != tt.expected {
			t.Errorf("getDocType(%s) = %v; want %v", tt.path, got, tt.expected)
		}
	}
}

func TestSplitTextIntoChunks(t *testing.T) {
	text := "This is a long sentence. This is another sentence that will be split."
	limit := 30
	overlap := 5

	chunks := splitTextIntoChunks(text, limit, overlap)

	if len(chunks) < 2 {
		t.Errorf("Expected multiple chunks, got %d", len(chunks))
	}

	// Verify overlap (simple check if second chunk contains start of overlap)
	if len(chunks) > 1 {
		lastCharsOfFirst := chunks[0][len(chunks[0])-overlap:]
		if !strings.HasPrefix(chunks[1], lastCharsOfFirst) {
			t.Logf("Note: Basic overlap check failed, ensure logic matches: %s vs %s", lastCharsOfFirst, chunks[1])
		}
	}
}

func TestSplitTextIntoChunks_MultiByte(t *testing.T) {
	// Cyrillic text is 2 bytes per rune; byte-offset cuts must never land
	// inside a rune.
	text := strings.TrimSpace(strings.Repeat("документация платформы ", 20))

	chunks := splitTextIntoChunks(text, 50, 7)

	if len(chunks) < 2 {
		t.Fatalf("Expected multiple chunks, got %d", len(chunks))
	}
	for i, chunk := range chunks {
		if !utf8.ValidString(chunk) {
			t.Errorf("Chunk %d is not valid UTF-8: %q", i, chunk)
		}
	}
}

func TestCutOnRuneBoundary(t *testing.T) {
	text := "ёёёё" // 2 bytes per rune
	got := cutOnRuneBoundary(text, 5)
	if got != "ёё" {
		t.Errorf("cutOnRuneBoundary got %q, want %q", got, "ёё")
	}
	if !utf8.ValidString(got) {
		t.Errorf("Cut produced invalid UTF-8: %q", got)
	}
}

func TestBatchIngest(t *testing.T) {
	ctx := context.Background()
	chunks := make([]commonModels.DocChunk, 150) // Should trigger 2 batches (100 + 50)
	for i := range chunks {
		chunks[i] = commonModels.DocChunk{Chunk: "test content"}
	}

	callCount := 0
	vDB := &mockVectorDB{
		upsertFunc: func(ctx context.Context, coll string, c []commonModels.DocChunk, v [][]float32) error {
			callCount++
			return nil
		},
	}

	emb := &mockEmbedder{
		batchFunc: func(ctx context.Context, ch []string, huge bool) ([][]float32, error) {
			return make([][]float32, len(ch)), nil
		},
	}

	err := BatchIngest(ctx, chunks, vDB, emb)

	if err != nil {
		t.Fatalf("BatchIngest failed: %v", err)
	}

	if callCount != 2 {
		t.Errorf("Expected 2 batches to be upserted, got %d", callCount)
	}
}

func TestBatchIngest_SkipsTextlessChunks(t *testing.T) {
	// Image-only PDF pages yield chunks with no text; they must not reach the
	// embedder, and chunks and vectors must stay aligned in the upsert.
	chunks := []commonModels.DocChunk{
		{Chunk: "some text"},
		{Chunk: ""},
		{Chunk: "more text"},
	}

	var upserted int
	vDB := &mockVectorDB{
		upsertFunc: func(ctx context.Context, coll string, c []commonModels.DocChunk, v [][]float32) error {
			if len(c) != len(v) {
				t.Errorf("Upsert got %d chunks but %d vectors", len(c), len(v))
			}
			upserted += len(c)
			return nil
		},
	}
	emb := &mockEmbedder{
		batchFunc: func(ctx context.Context, ch []string, huge bool) ([][]float32, error) {
			for _, text := range ch {
				if text == "" {
					t.Error("Empty text sent to embedder")
				}
			}
			return make([][]float32, len(ch)), nil
		},
	}

	if err := BatchIngest(context.Background(), chunks, vDB, emb); err != nil {
		t.Fatalf("BatchIngest failed: %v", err)
	}
	if upserted != 2 {
		t.Errorf("Expected 2 chunks upserted, got %d", upserted)
	}
}

func TestBatchIngest_Error(t *testing.T) {
	vDB := &mockVectorDB{
		upsertFunc: func(ctx context.Context, coll string, c []commonModels.DocChunk, v [][]float32) error {
			return errors.New("upsert failed")
		},
	}
	emb := &mockEmbedder{
		batchFunc: func(ctx context.Context, ch []string, huge bool) ([][]float32, error) {
			return make([][]float32, len(ch)), nil
		},
	}

	err := BatchIngest(context.Background(), []commonModels.DocChunk{{Chunk: "hi"}}, vDB, emb)
	if err == nil {
		t.Error("Expected error from BatchIngest, got nil")
	}
}

func TestPrepareChunks(t *testing.T) {
	sections := []rawSection{
		{Number: 1, Content: "Section one content."},
		{Number: 2, Content: "Section two content."},
	}
	doc := commonModels.Document{Id: "doc-1"}

	chunks := PrepareChunks(sections, doc, "gemini-embedding-001")

	if len(chunks) != 2 {
		t.Errorf("Expected 2 chunks (one per section), got %d", len(chunks))
	}

	if chunks[0].Doc.Id != "doc-1" || chunks[0].SectionNum != 1 {
		t.Errorf("Metadata mismatch in chunk 0: %+v", chunks[0])
	}
}

func TestExtractMarkdown(t *testing.T) {
	content := `---
title: Getting Started
---
Intro paragraph before any heading.

## Creating an application

Click New Application on the dashboard.

## Deploying

Press deploy.
`
	path := filepath.Join(t.TempDir(), "getting-started.md")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	sections, err := extractMarkdown(path)
	if err != nil {
		t.Fatalf("extractMarkdown failed: %v", err)
	}

	if len(sections) != 3 {
		t.Fatalf("Expected 3 sections (intro + 2 headings), got %d", len(sections))
	}

	if strings.Contains(sections[0].Content, "title:") {
		t.Error("Front matter should be stripped from the first section")
	}
	if !strings.Contains(sections[1].Content, "Creating an application") {
		t.Errorf("Second section should carry its heading, got: %s", sections[1].Content)
	}
	for i, s := range sections {
		if s.Number != i+1 {
			t.Errorf("Section %d numbered %d, want %d", i, s.Number, i+1)
		}
	}
}

func TestRebuildCorpus_EmptyDir(t *testing.T) {
	mock := &mockVectorDB{upsertFunc: func(ctx context.Context, coll string, c []commonModels.DocChunk, v [][]float32) error {
		t.Error("UpsertBatch must not be called for an empty corpus")
		return nil
	}}
	emb := &mockEmbedder{batchFunc: func(ctx context.Context, ch []string, huge bool) ([][]float32, error) {
		return make([][]float32, len(ch)), nil
	}}

	_, err := RebuildCorpus(context.Background(), t.TempDir(), emb, mock)
	if err == nil {
		t.Error("Expected error for empty docs dir, got nil")
	}
}
