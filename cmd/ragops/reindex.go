package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Fershtater/rag-aqtra-mkdocs-sub001/internal/config"
	"github.com/Fershtater/rag-aqtra-mkdocs-sub001/internal/rag/embedding/googleEmbedding"
	"github.com/Fershtater/rag-aqtra-mkdocs-sub001/internal/rag/ingest"
	"github.com/Fershtater/rag-aqtra-mkdocs-sub001/internal/rag/vectorDB/qdrantDB"
)

var reindexOpts struct {
	docsDir string
}

var reindexCmd = &cobra.Command{
	Use:   "reindex",
	Short: "Rebuild the documentation vector index",
	Long: `Walks the docs corpus, chunks and embeds every document, and replaces
the vector collection in one pass. Runs in the foreground, unlike the
/update_index endpoint which queues the same rebuild asynchronously.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.LoadEnvFile(globalOpts.root); err != nil {
			cmd.PrintErrf("warning: %v, using ambient environment\n", err)
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), config.RebuildTimeout)
		defer cancel()

		embedder := googleEmbedding.GetGoogleEmbeddingClient(ctx, config.GoogleEmbeddingModel, config.GoogleAPIKey())
		vectorDB := qdrantDB.GetQdrantClient(ctx)
		if embedder == nil || vectorDB == nil {
			return errors.New("could not initialize embedding client or vector store")
		}

		docsDir := reindexOpts.docsDir
		if docsDir == "" {
			docsDir = config.DocsDir()
		}

		chunks, err := ingest.RebuildCorpus(ctx, docsDir, embedder, vectorDB)
		if err != nil {
			return fmt.Errorf("rebuild failed: %w", err)
		}

		fmt.Printf("indexed %d chunks from %s\n", chunks, docsDir)
		return nil
	},
}

func init() {
	reindexCmd.Flags().StringVar(&reindexOpts.docsDir, "docs-dir", "", "docs corpus directory (default from DOCS_DIR or ./docs)")
}
