package handlers

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/Fershtater/rag-aqtra-mkdocs-sub001/internal/domain/jobModel"
	"github.com/Fershtater/rag-aqtra-mkdocs-sub001/internal/job"
)

type mockJobStore struct {
	saved []jobModel.Job
}

func (m *mockJobStore) GetJob(ctx context.Context, jobId string) (jobModel.Job, bool) {
	return jobModel.Job{}, false
}
func (m *mockJobStore) SaveJob(ctx context.Context, j jobModel.Job) error {
	m.saved = append(m.saved, j)
	return nil
}
func (m *mockJobStore) DeleteJob(ctx context.Context, jobID string) {}

func TestCreateRebuildJob_LogsTraceAndJobId(t *testing.T) {
	var logs bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&logs, nil)))
	defer slog.SetDefault(prev)

	store := &mockJobStore{}
	InitHandlers(&job.Service{
		JobChannel:        make(chan jobModel.Job, 1),
		DispatcherChannel: make(chan bool, 1),
		JobStore:          store,
	}, nil)

	CreateRebuildJob(newJobData{
		id:      "job-log-1",
		traceId: "trace-log-1",
		docsDir: "docs",
	})

	out := logs.String()
	if !strings.Contains(out, "trace-log-1") {
		t.Errorf("Queueing log is missing the trace id: %s", out)
	}
	if !strings.Contains(out, "job-log-1") {
		t.Errorf("Queueing log is missing the job id: %s", out)
	}

	if len(store.saved) != 1 || store.saved[0].Id != "job-log-1" {
		t.Errorf("Queued job not saved: %+v", store.saved)
	}
	select {
	case queued := <-handlerInstance.service.JobChannel:
		if queued.TraceId != "trace-log-1" {
			t.Errorf("Queued job trace id got %q, want trace-log-1", queued.TraceId)
		}
	default:
		t.Error("No job pushed to the channel")
	}
}
