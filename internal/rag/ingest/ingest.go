package ingest

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/Fershtater/rag-aqtra-mkdocs-sub001/internal/config"
	"github.com/Fershtater/rag-aqtra-mkdocs-sub001/internal/domain/commonModels"
	"github.com/Fershtater/rag-aqtra-mkdocs-sub001/internal/rag/embedding"
	"github.com/Fershtater/rag-aqtra-mkdocs-sub001/internal/rag/vectorDB"
	"github.com/Fershtater/rag-aqtra-mkdocs-sub001/internal/adapter/utils"
	"github.com/Fershtater/rag-aqtra-mkdocs-sub001/pkg/logger_i"
)

type rawSection struct {
	Number  int    `json:"number"`
	Content string `json:"content"`
}

var logger = logger_i.NewLogger("Corpus Ingestion")

// RebuildCorpus walks the documentation tree, re-creates the docs collection
// and ingests every supported file. Returns the number of chunks indexed.
func RebuildCorpus(ctx context.Context, docsDir string, e embedding.Embedder, vectorDatabase vectorDB.DataProcessor) (int, error) {
	log := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "docsDir", docsDir)

	files, err := collectCorpusFiles(docsDir)
	if err != nil {
		return 0, fmt.Errorf("walking docs tree failed: %w", err)
	}
	if len(files) == 0 {
		return 0, fmt.Errorf("no supported documents under %s", docsDir)
	}
	log.Info("Collected corpus files", "count", len(files))

	var allChunks []commonModels.DocChunk
	for _, path := range files {
		docType := getDocType(path)

		relPath, relErr := filepath.Rel(docsDir, path)
		if relErr != nil {
			relPath = path
		}

		doc := commonModels.Document{
			Id:                  utils.GetNewUUID(),
			Name:                filepath.Base(path),
			RelPath:             filepath.ToSlash(relPath),
			LastIngestTimestamp: time.Now(),
			ContentType:         docType,
		}

		sections, err := extractText(path, docType)
		if err != nil {
			log.Error("Skipping document", "path", path, "error", err)
			continue
		}
		allChunks = append(allChunks, PrepareChunks(sections, doc, config.GoogleEmbeddingModel)...)
	}

	if len(allChunks) == 0 {
		return 0, fmt.Errorf("no ingestable content under %s", docsDir)
	}

	if err := vectorDatabase.RecreateCollection(ctx, config.DocsCollectionName); err != nil {
		return 0, fmt.Errorf("recreating collection failed: %w", err)
	}

	if err := BatchIngest(ctx, allChunks, vectorDatabase, e); err != nil {
		return 0, err
	}
	log.Info("Corpus rebuild complete", "chunks", len(allChunks))
	return len(allChunks), nil
}

func collectCorpusFiles(docsDir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(docsDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if getDocType(path) == commonModels.ERR {
			return nil
		}
		files = append(files, path)
		return nil
	})
	return files, err
}
