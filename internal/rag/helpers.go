package rag

import (
	"context"
	"net/http"
	"time"

	"github.com/Fershtater/rag-aqtra-mkdocs-sub001/internal/domain/jobModel"
	"github.com/Fershtater/rag-aqtra-mkdocs-sub001/internal/metrics"
)

func (s *service) jobError(job jobModel.Job, err error, message string, canRetry bool) jobModel.Job {
	s.logger.Error(message, "error", err)

	job.Error = jobModel.JobError{
		Code:    http.StatusInternalServerError,
		Message: message,
		Retry:   canRetry,
	}
	job.Status = jobModel.JobStatusError
	job.CurrentStep = jobModel.Error
	return job
}

func (s *service) executeEmbeddingStep(ctx context.Context, question string) ([]float32, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("embedding", time.Since(start)) }()

	return s.embedder.GetEmbedding(ctx, question)
}

func (s *service) executeCacheCheckStep(ctx context.Context, queryVector []float32) (string, bool) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("cache_lookup", time.Since(start)) }()

	ans, found, _ := s.vectorDB.GetCachedAnswer(ctx, queryVector)
	return ans, found
}

func (s *service) executeVectorSearchStep(ctx context.Context, queryVector []float32) ([]string, []string, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("vector_search", time.Since(start)) }()

	return s.vectorDB.Search(ctx, queryVector)
}

func (s *service) executeLLMStep(ctx context.Context, question string, matches []string) (string, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("llm_generation", time.Since(start)) }()

	return s.llmProvider.Generate(ctx, question, matches)
}
