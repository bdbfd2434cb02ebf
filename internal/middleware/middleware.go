package middleware

import (
	"net/http"
	"strconv"

	"github.com/Fershtater/rag-aqtra-mkdocs-sub001/internal/handlers"
	"github.com/Fershtater/rag-aqtra-mkdocs-sub001/internal/metrics"
	"github.com/Fershtater/rag-aqtra-mkdocs-sub001/pkg/logger_i"
)

type requestResponseStruct struct {
	writer     http.ResponseWriter
	req        *http.Request
	badRequest failureStruct
	logger     *logger_i.Logger
}

type failureStruct struct {
	isBadRequest bool
	httpCode     int
	errorMessage string
}

var (
	GetHealthHandler       = Wrap(handlers.GetHealthHandler)
	GetPromptConfigHandler = Wrap(handlers.GetPromptConfigHandler)
	PostQueryHandler       = Wrap(handlers.PostQueryHandler)
	GetStatusHandler       = Wrap(handlers.GetStatusHandler)

	// rebuild is the only write surface, it additionally requires the key header
	PostUpdateIndexHandler = WrapKeyed(handlers.PostUpdateIndexHandler)
)

// Wrap runs the shared middleware chain (trace id, rate limiting, metrics)
// in front of a handler.
func Wrap(next http.HandlerFunc) http.HandlerFunc {
	return wrap(next, false)
}

// WrapKeyed is Wrap plus X-API-Key authentication.
func WrapKeyed(next http.HandlerFunc) http.HandlerFunc {
	return wrap(next, true)
}

func wrap(next http.HandlerFunc, requireKey bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec := &metrics.HttpStatusRecorder{ResponseWriter: w, Status: 200} //metrics
		re := processRequest(requestResponseStruct{req: r, writer: rec}, requireKey)

		if !re.badRequest.isBadRequest {
			next(rec, re.req)
		}

		metrics.HttpRequestsTotal.WithLabelValues(r.URL.Path, strconv.Itoa(rec.Status)).Inc() //metrics
	}
}

func processRequest(re requestResponseStruct, requireKey bool) requestResponseStruct {
	re.logger = logger_i.NewLogger("middleware")
	re.logger.Debug("New request received")

	re = injectTrace(re)
	if re.badRequest.isBadRequest {
		handleBadRequest(re)
		return re
	}

	re = rateLimiter(re)
	if re.badRequest.isBadRequest {
		handleBadRequest(re)
		return re
	}

	if requireKey {
		re = authenticateAPIKey(re)
		if re.badRequest.isBadRequest {
			handleBadRequest(re)
			return re
		}
	}

	return re
}
