package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Fershtater/rag-aqtra-mkdocs-sub001/internal/adapter"
	"github.com/Fershtater/rag-aqtra-mkdocs-sub001/pkg/logger_i"
)

var (
	logRH       = logger_i.NewLogger("RequestHandler")
	ErrNotReady = errors.New("handlers not initialized")
)

type newJobData struct {
	id      string
	traceId string
	docsDir string
}

func writeJsonResponse(writer http.ResponseWriter, statusCode int, payload any) {
	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(statusCode)
	if err := json.NewEncoder(writer).Encode(payload); err != nil {
		logRH.Error("Failed to encode response", "err", err)
	}
}

func WriteErrorResponse(writer http.ResponseWriter, statusCode int, message string) {
	writeJsonResponse(writer, statusCode, adapter.BadRequest("", message, statusCode))
}
