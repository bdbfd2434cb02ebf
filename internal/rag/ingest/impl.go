package ingest

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/Fershtater/rag-aqtra-mkdocs-sub001/internal/adapter/utils"
	"github.com/Fershtater/rag-aqtra-mkdocs-sub001/internal/config"
	"github.com/Fershtater/rag-aqtra-mkdocs-sub001/internal/domain/commonModels"
	"github.com/Fershtater/rag-aqtra-mkdocs-sub001/internal/rag/embedding"
	"github.com/Fershtater/rag-aqtra-mkdocs-sub001/internal/rag/vectorDB"
)

//splitter

func splitTextIntoChunks(text string, limit int, overlap int) []string {
	var chunks []string

	if len(text) <= limit {
		return []string{text}
	}

	// Separators ordered from "best" to "worst" for semantic meaning
	separators := []string{"\n\n", "\n", ". ", " ", ""}

	var splitChar string
	found := false
	for _, s := range separators {
		if strings.Contains(text, s) {
			splitChar = s
			found = true
			break
		}
	}

	if !found {
		// Hard cut if no separator found (rare)
		return []string{cutOnRuneBoundary(text, limit)}
	}

	parts := strings.Split(text, splitChar)
	var currentChunk strings.Builder

	for _, part := range parts {
		if currentChunk.Len()+len(part)+len(splitChar) > limit {
			if currentChunk.Len() > 0 {
				chunks = append(chunks, currentChunk.String())
			}

			// Start the next chunk with the tail of the previous one
			overlapContent := ""
			if currentChunk.Len() > overlap {
				tail := currentChunk.String()
				cut := len(tail) - overlap
				for cut < len(tail) && !utf8.RuneStart(tail[cut]) {
					cut++
				}
				overlapContent = tail[cut:]
			}

			currentChunk.Reset()
			currentChunk.WriteString(overlapContent)
		}

		if currentChunk.Len() > 0 && splitChar != "" {
			currentChunk.WriteString(splitChar)
		}
		currentChunk.WriteString(part)
	}

	if currentChunk.Len() > 0 {
		chunks = append(chunks, currentChunk.String())
	}

	return chunks
}

// cutOnRuneBoundary truncates to at most limit bytes without splitting a rune.
func cutOnRuneBoundary(text string, limit int) string {
	cut := limit
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut]
}

func getDocType(docPath string) commonModels.DocType {
	ext := strings.ToLower(filepath.Ext(docPath))
	switch ext {
	case ".md", ".markdown":
		return commonModels.MARKDOWN
	case ".pdf":
		return commonModels.PDF
	case ".docx", ".txt", ".rtf":
		return commonModels.DOCX
	default:
		return commonModels.ERR
	}
}

func extractText(path string, contentType commonModels.DocType) ([]rawSection, error) {
	switch contentType {
	case commonModels.MARKDOWN:
		return extractMarkdown(path)
	case commonModels.PDF:
		return extractPDF(path)
	case commonModels.DOCX:
		return extractDocxTxtRtf(path)

	default:
		return nil, fmt.Errorf("unsupported content type: %s", contentType)
	}
}

func PrepareChunks(sections []rawSection, doc commonModels.Document, embeddingModel string) []commonModels.DocChunk {
	var allChunks []commonModels.DocChunk

	for _, section := range sections {
		stringChunks := splitTextIntoChunks(section.Content, config.ChunkSizeChars, config.ChunkOverlap)

		for i, text := range stringChunks {
			if strings.TrimSpace(text) == "" {
				continue
			}
			allChunks = append(allChunks, commonModels.DocChunk{
				Doc:            doc,
				ChunkId:        utils.GetNewUUID(),
				Chunk:          text,
				SectionNum:     section.Number,
				ChunkPageOrder: i,
				EmbeddingModel: embeddingModel,
			})
		}
	}

	return allChunks
}

func BatchIngest(ctx context.Context, chunks []commonModels.DocChunk, vectorDB vectorDB.DataProcessor, embedder embedding.Embedder) error {
	log := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	// Drop textless chunks (image-only PDF pages produce them) up front,
	// otherwise the embedder returns fewer vectors than the batch holds and
	// the upsert rejects the whole corpus.
	withText := make([]commonModels.DocChunk, 0, len(chunks))
	for _, c := range chunks {
		if c.Chunk != "" {
			withText = append(withText, c)
		}
	}
	chunks = withText

	batchSize := config.IngestBatchSize
	isHugeDataSet := false

	if len(chunks) > 1000000 { //only route truly enormous corpora through the offline batch API
		isHugeDataSet = true
		log.Debug("Is a huge dataset")
	}

	for i := 0; i < len(chunks); i += batchSize {
		end := i + batchSize
		if end > len(chunks) {
			end = len(chunks)
		}

		currentBatch := chunks[i:end]

		texts := make([]string, len(currentBatch))
		for j, c := range currentBatch {
			texts[j] = c.Chunk
		}

		log.Debug("Starting embedding call", "current batch length", len(currentBatch), "length of texts", len(texts))
		vectors, err := embedder.BatchEmbedding(ctx, texts, isHugeDataSet)
		if err != nil {
			return fmt.Errorf("embedding batch failed: %w", err)
		}

		err = vectorDB.UpsertBatch(ctx, config.DocsCollectionName, currentBatch, vectors)
		if err != nil {
			return fmt.Errorf("upserting to qdrant failed: %w", err)
		}
	}

	return nil
}
