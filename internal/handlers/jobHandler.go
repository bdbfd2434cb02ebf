package handlers

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Fershtater/rag-aqtra-mkdocs-sub001/internal/config"
	"github.com/Fershtater/rag-aqtra-mkdocs-sub001/internal/domain/jobModel"
	"github.com/Fershtater/rag-aqtra-mkdocs-sub001/internal/job"
	"github.com/Fershtater/rag-aqtra-mkdocs-sub001/internal/metrics"
	"github.com/Fershtater/rag-aqtra-mkdocs-sub001/internal/rag"
	"github.com/Fershtater/rag-aqtra-mkdocs-sub001/pkg/logger_i"
)

var (
	handlerInstance *JobHandler //private singleton
	once            sync.Once
	logJH           *logger_i.Logger
)

type JobHandler struct {
	service    *job.Service
	ragService rag.Service
}

func InitHandlers(jobService *job.Service, ragService rag.Service) {
	once.Do(func() {
		handlerInstance = &JobHandler{service: jobService, ragService: ragService}

		logJH = logger_i.NewLogger("JobHandler")
		logJH.Info("Starting job handler")
	})
}

// CreateRebuildJob queues one index rebuild and returns its id.
func CreateRebuildJob(newJob newJobData) {
	log := logJH.With("traceId", newJob.traceId, "job id", newJob.id)
	log.Info("Queueing index rebuild job")
	handlerInstance.pushToJobChannel(newJob)
}

func GetJobStatus(id string, traceId string) (result jobModel.Job, isFound bool) {
	ctxC := context.WithValue(context.Background(), config.TRACE_ID_KEY, traceId)
	if handlerInstance != nil {
		return handlerInstance.service.JobStore.GetJob(ctxC, id)
	}
	return result, false
}

// AnswerQuestion resolves a query: exact-match cache first, then the full RAG
// pipeline, with a background write-back on fresh answers.
func AnswerQuestion(ctx context.Context, question string) (rag.Answer, error) {
	if handlerInstance == nil {
		return rag.Answer{}, ErrNotReady
	}

	if cache := handlerInstance.service.AnswerCache; cache != nil {
		if answer, sources, found := cache.GetAnswer(ctx, question); found {
			return rag.Answer{Text: answer, Sources: sources, Cached: true}, nil
		}
	}

	answer, err := handlerInstance.ragService.Answer(ctx, question)
	if err != nil {
		return rag.Answer{}, err
	}

	if cache := handlerInstance.service.AnswerCache; cache != nil && !answer.Cached {
		go func(traceId any) {
			saveCtx, cancel := context.WithTimeout(context.WithValue(context.Background(), config.TRACE_ID_KEY, traceId), 5*time.Second)
			defer cancel()
			if err := cache.SaveAnswer(saveCtx, question, answer.Text, answer.Sources); err != nil {
				logJH.Error("Failed to save exact-match answer", "err", err)
			}
		}(ctx.Value(config.TRACE_ID_KEY))
	}

	return answer, nil
}

// private methods
func (h *JobHandler) pushToJobChannel(newJob newJobData) {

	_job := jobModel.Job{}
	_job.Id = newJob.id
	_job.CreatedTime = time.Now()
	_job.TraceId = newJob.traceId
	_job.Status = jobModel.JobStatusQueued
	_job.CurrentStep = jobModel.RebuildInit
	_job.JobPayload.DocsDir = newJob.docsDir

	if err := h.service.JobStore.SaveJob(context.WithValue(context.Background(), config.TRACE_ID_KEY, newJob.traceId), _job); err != nil {
		logJH.Error("Failed to save queued job", "err", err)
	}

	h.service.JobChannel <- _job
	metrics.IncrementJobsInQueue()

	// Nudge the dispatcher when request pressure builds up
	if atomic.AddInt64(&h.service.RequestCount, 1)%config.RequestsPerNewWorkerCount == 0 {
		select {
		case h.service.DispatcherChannel <- true:
			metrics.StartDispatcherSignalCount()
		default:
		}
	}
}
