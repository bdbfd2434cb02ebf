package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/Fershtater/rag-aqtra-mkdocs-sub001/internal/adapter"
	"github.com/Fershtater/rag-aqtra-mkdocs-sub001/internal/adapter/utils"
	"github.com/Fershtater/rag-aqtra-mkdocs-sub001/internal/api"
	"github.com/Fershtater/rag-aqtra-mkdocs-sub001/internal/config"
)

const serviceName = "aqtra-docs-assistant"

// GetHealthHandler godoc
//
//	@Summary		Liveness probe
//	@Description	Returns ok when the process is up and serving traffic
//	@Tags			ops
//	@Produce		json
//	@Success		200	{object}	api.HealthResponse
//	@Router			/health [get]
func GetHealthHandler(writer http.ResponseWriter, request *http.Request) {
	writeJsonResponse(writer, http.StatusOK, api.HealthResponse{
		Status:  "ok",
		Service: serviceName,
	})
}

// GetPromptConfigHandler godoc
//
//	@Summary		Active prompt configuration
//	@Description	Returns the language, provider, model and system prompt in use
//	@Tags			ops
//	@Produce		json
//	@Success		200	{object}	api.PromptConfigResponse
//	@Router			/config/prompt [get]
func GetPromptConfigHandler(writer http.ResponseWriter, request *http.Request) {
	provider := config.LLMProvider()
	model := config.GeminiModelName
	if provider == "openai" {
		model = config.OpenAIModelName
	}

	writeJsonResponse(writer, http.StatusOK, api.PromptConfigResponse{
		Language:    config.PromptLanguage(),
		Provider:    provider,
		Model:       model,
		Temperature: config.ModelTemperature,
		System:      config.SystemPrompt,
	})
}

// PostQueryHandler godoc
//
//	@Summary		Answer a documentation question
//	@Description	Runs the full retrieval pipeline and returns a grounded answer
//	@Tags			query
//	@Accept			json
//	@Produce		json
//	@Param			request	body		api.QueryRequest	true	"Question to answer"
//	@Success		200		{object}	api.QueryResponse
//	@Failure		400		{object}	api.JobStatusResponse	"Missing or empty question"
//	@Failure		500		{object}	api.JobStatusResponse	"Pipeline failure"
//	@Router			/query [post]
func PostQueryHandler(writer http.ResponseWriter, request *http.Request) {
	traceId := request.Context().Value(config.TRACE_ID_KEY)
	inMethodLogger := logRH.With("traceId", traceId)

	var queryRequest api.QueryRequest
	if err := json.NewDecoder(request.Body).Decode(&queryRequest); err != nil {
		inMethodLogger.Warn("Malformed query body", "err", err)
		WriteErrorResponse(writer, http.StatusBadRequest, "invalid JSON body")
		return
	}

	question := strings.TrimSpace(queryRequest.Question)
	if question == "" {
		WriteErrorResponse(writer, http.StatusBadRequest, "question is required")
		return
	}

	answer, err := AnswerQuestion(request.Context(), question)
	if err != nil {
		inMethodLogger.Error("Query pipeline failed", "err", err)
		WriteErrorResponse(writer, http.StatusInternalServerError, "failed to answer question")
		return
	}

	writeJsonResponse(writer, http.StatusOK, api.QueryResponse{
		Question: question,
		Answer:   answer.Text,
		Sources:  answer.Sources,
	})
}

// PostUpdateIndexHandler godoc
//
//	@Summary		Rebuild the documentation index
//	@Description	Queues an asynchronous re-ingest of the docs corpus
//	@Tags			index
//	@Accept			json
//	@Produce		json
//	@Param			X-API-Key	header		string					true	"Rebuild key"
//	@Param			request		body		api.UpdateIndexRequest	false	"Optional override of the docs directory"
//	@Success		202			{object}	api.UpdateIndexResponse
//	@Failure		401			{object}	api.JobStatusResponse	"Invalid or missing key"
//	@Router			/update_index [post]
func PostUpdateIndexHandler(writer http.ResponseWriter, request *http.Request) {
	traceId, _ := request.Context().Value(config.TRACE_ID_KEY).(string)

	var updateRequest api.UpdateIndexRequest
	if request.Body != nil {
		// body is optional, a decode failure only drops the override
		_ = json.NewDecoder(request.Body).Decode(&updateRequest)
	}

	jobId := utils.GetNewUUID()
	CreateRebuildJob(newJobData{
		id:      jobId,
		traceId: traceId,
		docsDir: updateRequest.DocsDir,
	})

	writeJsonResponse(writer, http.StatusAccepted, adapter.ToUpdateIndexResponse(jobId))
}

// GetStatusHandler godoc
//
//	@Summary		Rebuild job status
//	@Tags			index
//	@Produce		json
//	@Param			id	path		string	true	"Job id"
//	@Success		200	{object}	api.JobStatusResponse
//	@Failure		404	{object}	api.JobStatusResponse
//	@Router			/status/{id} [get]
func GetStatusHandler(writer http.ResponseWriter, request *http.Request) {
	traceId, _ := request.Context().Value(config.TRACE_ID_KEY).(string)
	jobId := utils.GetChiURLParam(request, "id")

	job, found := GetJobStatus(jobId, traceId)
	if !found {
		writeJsonResponse(writer, http.StatusNotFound, adapter.BadRequest(jobId, "Job not found", http.StatusNotFound))
		return
	}

	writeJsonResponse(writer, http.StatusOK, adapter.ToJobStatusResponse(job))
}
