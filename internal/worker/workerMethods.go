package worker

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/Fershtater/rag-aqtra-mkdocs-sub001/internal/config"
	jobmodel "github.com/Fershtater/rag-aqtra-mkdocs-sub001/internal/domain/jobModel"
	"github.com/Fershtater/rag-aqtra-mkdocs-sub001/internal/metrics"
)

func executeJob(job jobmodel.Job) {
	ctxTrace := context.WithValue(context.Background(), config.TRACE_ID_KEY, job.TraceId)
	ctx, cancel := context.WithTimeout(ctxTrace, config.RebuildTimeout)
	defer cancel()
	logger.Debug("Processing rebuild job:", "job Id:", job.Id)

	saveJobState(ctx, job, jobmodel.JobStatusRunning)

	job.CurrentStep = jobmodel.RebuildProcessing
	job = _ragService.RebuildIndex(ctx, job)

	job.EndTime = time.Now()
	if job.Status != jobmodel.JobStatusError {
		job.Status = jobmodel.JobStatusComplete
	}
	if err := _jobService.JobStore.SaveJob(ctx, job); err != nil {
		logger.Error("Failed to update final job status", "err", err)
	}
}

func removeWorker(reason string) {
	workerWaitGroup.Done()
	atomic.AddInt64(&currentWorkerCount, -1)
	logger.Info("Removed worker ", "reason", reason, "workerCount", currentWorkerCount)
	metrics.DecrementActiveWorkerCount()
}

func saveJobState(ctx context.Context, job jobmodel.Job, jobStatus jobmodel.JobStatus) {
	job.Status = jobStatus
	if err := _jobService.JobStore.SaveJob(ctx, job); err != nil {
		logger.Error("Failed to update status in store", "err", err)
	}
}
