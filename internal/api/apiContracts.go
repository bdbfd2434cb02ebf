package api

import "time"

type JobExternalStatus string

const (
	JobStatusError JobExternalStatus = "Error"
)

type HealthResponse struct {
	Status  string `json:"status" example:"ok"`
	Service string `json:"service" example:"aqtra-docs-assistant"`
}

type PromptConfigResponse struct {
	Language    string  `json:"language" example:"en"`
	Provider    string  `json:"provider" example:"gemini"`
	Model       string  `json:"model" example:"gemini-2.5-flash-lite-preview-09-2025"`
	Temperature float32 `json:"temperature" example:"0.3"`
	System      string  `json:"system_prompt"`
}

type QueryResponse struct {
	Question string   `json:"question"`
	Answer   string   `json:"answer"`
	Sources  []string `json:"sources,omitempty"`
}

type UpdateIndexResponse struct {
	Status    string `json:"status" example:"accepted"`
	JobId     string `json:"job_id"`
	StatusURL string `json:"status_url"`
}

type JobStatusResponse struct {
	Id        string            `json:"id" example:"job_cz109"`
	Result    Result            `json:"result"`
	Error     *JobOutgoingError `json:"error,omitempty"`
	StartTime time.Time         `json:"start_time"`
	EndTime   time.Time         `json:"end_time,omitempty"`
}

type JobOutgoingError struct {
	Code    int    `json:"code" example:"400"`
	Message string `json:"message" example:"Job not found"`
	Retry   bool   `json:"can_retry" example:"false"`
}

type Result struct {
	Status        string `json:"status"`
	ChunksIndexed int    `json:"chunks_indexed,omitempty"`
}

// requests---------------------

type QueryRequest struct {
	Question string `json:"question" validate:"required"`
}

type UpdateIndexRequest struct {
	DocsDir string `json:"docs_dir,omitempty"`
}
