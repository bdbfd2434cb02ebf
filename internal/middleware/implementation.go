package middleware

import (
	"context"
	"crypto/subtle"
	"net"
	"net/http"

	"github.com/Fershtater/rag-aqtra-mkdocs-sub001/internal/adapter/utils"
	"github.com/Fershtater/rag-aqtra-mkdocs-sub001/internal/config"
	"github.com/Fershtater/rag-aqtra-mkdocs-sub001/internal/handlers"
	"github.com/Fershtater/rag-aqtra-mkdocs-sub001/pkg/logger_i"
)

func injectTrace(re requestResponseStruct) requestResponseStruct {
	req := re.req
	if req == nil {
		//this is a bad request
		re.badRequest.httpCode = http.StatusBadRequest
		re.badRequest.errorMessage = "request is empty"
		re.badRequest.isBadRequest = true
		return re
	}
	trace := req.Header.Get("X-Trace-Id")
	if trace == "" {
		trace = utils.GetNewUUID()
	}
	re.logger = re.logger.With("traceId", trace)
	ctx := context.WithValue(req.Context(), config.TRACE_ID_KEY, trace)
	req.Header.Set(`X-Trace-Id`, trace)
	re.req = req.WithContext(ctx)

	return re
}

func authenticateAPIKey(re requestResponseStruct) requestResponseStruct {
	re.logger.Debug("Authenticating rebuild request")

	if !IsValidUpdateKey(re.req.Header.Get(config.UpdateAPIKeyHeader), re.logger) {
		re.badRequest.isBadRequest = true
		re.badRequest.errorMessage = "invalid or missing " + config.UpdateAPIKeyHeader
		re.badRequest.httpCode = http.StatusUnauthorized
		return re
	}
	re.logger.Debug("Authorized")
	return re
}

// IsValidUpdateKey compares the presented key against UPDATE_API_KEY. When no
// key is configured the rebuild endpoint is locked, not open.
func IsValidUpdateKey(presented string, log *logger_i.Logger) bool {
	configured := config.UpdateAPIKey()
	if configured == "" {
		log.Error("UPDATE_API_KEY is not configured, rejecting rebuild request")
		return false
	}
	if presented == "" {
		log.Error("Empty " + config.UpdateAPIKeyHeader + " header")
		return false
	}
	if subtle.ConstantTimeCompare([]byte(presented), []byte(configured)) != 1 {
		log.Error("Invalid " + config.UpdateAPIKeyHeader + " header")
		return false
	}

	return true
}

func rateLimiter(re requestResponseStruct) requestResponseStruct {
	ip, _, err := net.SplitHostPort(re.req.RemoteAddr)
	if err != nil {
		ip = re.req.RemoteAddr
	}

	if !limiterInstance.GetLimiter(ip).Allow() {
		re.logger.Error("Too many requests", "Rate Limiter exceeded", ip)
		re.badRequest = failureStruct{
			isBadRequest: true,
			httpCode:     http.StatusTooManyRequests,
			errorMessage: "rate limit exceeded",
		}
		return re
	}
	return re
}

func handleBadRequest(re requestResponseStruct) {
	re.logger.Warn("Bad request", "httpCode", re.badRequest.httpCode, "errorMessage", re.badRequest.errorMessage, "IP", re.req.RemoteAddr)
	handlers.WriteErrorResponse(re.writer, re.badRequest.httpCode, re.badRequest.errorMessage)
}
