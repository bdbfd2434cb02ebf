package adapter

import (
	"fmt"
	"time"

	"github.com/Fershtater/rag-aqtra-mkdocs-sub001/internal/api"
	"github.com/Fershtater/rag-aqtra-mkdocs-sub001/internal/domain/jobModel"
)

func ToUpdateIndexResponse(id string) api.UpdateIndexResponse {
	return api.UpdateIndexResponse{
		Status:    "accepted",
		JobId:     id,
		StatusURL: fmt.Sprintf("status/%s", id),
	}
}

func ToJobStatusResponse(job jobModel.Job) api.JobStatusResponse {

	var errorPtr *api.JobOutgoingError
	if job.Error.Message != "" || job.Error.Code != 0 {
		errorPtr = &api.JobOutgoingError{
			Code:    job.Error.Code,
			Message: job.Error.Message,
			Retry:   job.Error.Retry,
		}
	}

	result := api.Result{
		Status:        string(job.Status),
		ChunksIndexed: job.JobPayload.ChunksIndexed,
	}

	return api.JobStatusResponse{
		Id:        job.Id,
		StartTime: job.CreatedTime,
		EndTime:   job.EndTime,
		Error:     errorPtr,
		Result:    result,
	}
}

func BadRequest(id string, message string, code int) api.JobStatusResponse {
	return api.JobStatusResponse{
		Id:        id,
		StartTime: time.Time{},
		EndTime:   time.Time{},
		Result: api.Result{
			Status: string(api.JobStatusError),
		},
		Error: &api.JobOutgoingError{
			Code:    code,
			Message: message,
			Retry:   false,
		},
	}
}
