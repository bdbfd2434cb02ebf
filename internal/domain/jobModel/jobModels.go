package jobModel

import (
	"context"
	"time"
)

type JobStatus string
type InternalStatus string

const (
	JobStatusQueued   JobStatus = "QUEUED"
	JobStatusRunning  JobStatus = "RUNNING"
	JobStatusComplete JobStatus = "COMPLETE"
	JobStatusError    JobStatus = "Error"

	RebuildInit       InternalStatus = "RebuildInit"
	RebuildProcessing InternalStatus = "RebuildProcessing"
	EmbeddingAPICall  InternalStatus = "EmbeddingAPI"
	VectorDBCall      InternalStatus = "VectorDB"
	Error             InternalStatus = "Error"

	Complete InternalStatus = "Complete"
)

// Job tracks one index rebuild request end to end.
type Job struct {
	Id          string         `json:"id"`
	TraceId     string         `json:"trace_id"`
	JobPayload  JobPayload     `json:"job_payload"`
	Error       JobError       `json:"error,omitempty"`
	CreatedTime time.Time      `json:"created_time"`
	EndTime     time.Time      `json:"end_time,omitempty"`
	Status      JobStatus      `json:"status"`
	CurrentStep InternalStatus `json:"current_step"`
}

type JobError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Retry   bool   `json:"retry"`
}

type JobPayload struct {
	DocsDir       string `json:"docs_dir,omitempty"`
	ChunksIndexed int    `json:"chunks_indexed,omitempty"`
}

type JobStore interface {
	GetJob(ctx context.Context, jobId string) (Job, bool)
	SaveJob(ctx context.Context, job Job) error
	DeleteJob(ctx context.Context, jobID string)
}

// AnswerCache memoizes full answers keyed by the exact question text.
type AnswerCache interface {
	GetAnswer(ctx context.Context, question string) (string, []string, bool)
	SaveAnswer(ctx context.Context, question string, answer string, sources []string) error
}
