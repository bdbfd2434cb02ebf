package rag

import (
	"context"
	"time"

	"github.com/Fershtater/rag-aqtra-mkdocs-sub001/internal/adapter/utils"
	"github.com/Fershtater/rag-aqtra-mkdocs-sub001/internal/config"
	"github.com/Fershtater/rag-aqtra-mkdocs-sub001/internal/domain/jobModel"
	"github.com/Fershtater/rag-aqtra-mkdocs-sub001/internal/metrics"
	"github.com/Fershtater/rag-aqtra-mkdocs-sub001/internal/rag/embedding"
	"github.com/Fershtater/rag-aqtra-mkdocs-sub001/internal/rag/ingest"
	"github.com/Fershtater/rag-aqtra-mkdocs-sub001/internal/rag/llm"
	"github.com/Fershtater/rag-aqtra-mkdocs-sub001/internal/rag/vectorDB"
	"github.com/Fershtater/rag-aqtra-mkdocs-sub001/pkg/logger_i"
)

// Answer is the final result of one documentation query.
type Answer struct {
	Text    string
	Sources []string
	Cached  bool
}

// Service is the only surface handlers and workers talk to; the vector store,
// embedder and LLM provider stay private to this package.
type Service interface {
	Answer(ctx context.Context, question string) (Answer, error)
	RebuildIndex(ctx context.Context, job jobModel.Job) jobModel.Job
}

type service struct {
	vectorDB    vectorDB.DataProcessor
	llmProvider llm.Provider
	embedder    embedding.Embedder
	logger      *logger_i.Logger
}

// NewService constructor
func NewService(vector vectorDB.DataProcessor, llm llm.Provider, em embedding.Embedder) Service {
	return &service{
		vectorDB:    vector,
		llmProvider: llm,
		embedder:    em,
		logger:      logger_i.NewLogger("RAG Service"),
	}
}

func (s *service) Answer(ctx context.Context, question string) (Answer, error) {
	inMethodLogger := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	processContext, cancel := context.WithTimeout(ctx, config.QueryTimeout)
	defer cancel()

	start := time.Now()
	status := "ok"
	defer func() { metrics.CaptureQueryMetrics(status, time.Since(start)) }()

	// Embedding
	queryVector, err := s.executeEmbeddingStep(processContext, question)
	if err != nil {
		status = "embedding_failure"
		inMethodLogger.Error("EMBEDDING_FAILURE", "error", err)
		return Answer{}, err
	}

	// Semantic cache check
	if cachedAnswer, found := s.executeCacheCheckStep(processContext, queryVector); found {
		inMethodLogger.Debug("Answer served from semantic cache")
		return Answer{Text: cachedAnswer, Cached: true}, nil
	}

	// Vector DB search
	matches, sources, err := s.executeVectorSearchStep(processContext, queryVector)
	if err != nil {
		status = "vector_db_failure"
		inMethodLogger.Error("VECTOR_DB_FAILURE", "error", err)
		return Answer{}, err
	}

	// LLM generation
	answerText, err := s.executeLLMStep(processContext, question, matches)
	if err != nil {
		status = "llm_failure"
		inMethodLogger.Error("LLM_GENERATION_FAILURE", "error", err)
		return Answer{}, err
	}

	// Background cache save
	go func() {
		saveCtx, saveCancel := context.WithTimeout(context.WithValue(context.Background(), config.TRACE_ID_KEY, ctx.Value(config.TRACE_ID_KEY)), 10*time.Second)
		defer saveCancel()
		if err := s.vectorDB.SaveToCache(saveCtx, utils.GetNewUUID(), queryVector, answerText); err != nil {
			s.logger.Error("Failed to save to semantic cache", "error", err)
		}
	}()

	return Answer{Text: answerText, Sources: sources}, nil
}

func (s *service) RebuildIndex(ctx context.Context, job jobModel.Job) jobModel.Job {
	start := time.Now()
	label := "ok"
	defer func() { metrics.CaptureRebuildMetrics(label, time.Since(start)) }()

	job.CurrentStep = jobModel.RebuildProcessing

	docsDir := job.JobPayload.DocsDir
	if docsDir == "" {
		docsDir = config.DocsDir()
	}

	chunks, err := ingest.RebuildCorpus(ctx, docsDir, s.embedder, s.vectorDB)
	if err != nil {
		label = "failure"
		return s.jobError(job, err, "REBUILD_FAILURE", true)
	}

	job.JobPayload.ChunksIndexed = chunks
	job.CurrentStep = jobModel.Complete
	job.Status = jobModel.JobStatusComplete
	return job
}
