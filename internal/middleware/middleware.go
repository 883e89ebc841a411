// Package middleware holds the HTTP middleware shared by every route:
// request correlation, logging, limits, metrics and token checks.
package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/dukerupert/seshop/internal/domain"
	"github.com/dukerupert/seshop/internal/telemetry"
)

// StatusForCode maps a domain error code to its HTTP status.
// Unknown codes are 500.
func StatusForCode(code string) int {
	switch code {
	case domain.EINVALID:
		return http.StatusBadRequest
	case domain.EUNAUTHORIZED:
		return http.StatusUnauthorized
	case domain.EFORBIDDEN:
		return http.StatusForbidden
	case domain.ENOTFOUND, domain.EINVALIDREF:
		return http.StatusNotFound
	case domain.ECONFLICT:
		return http.StatusConflict
	case domain.ETOOLARGE:
		return http.StatusRequestEntityTooLarge
	case domain.ERATELIMIT:
		return http.StatusTooManyRequests
	case domain.ENOTIMPL:
		return http.StatusNotImplemented
	case domain.ETIMEOUT:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondWithError writes the standard {"error":{...}} envelope. The handler
// package has a richer version; this one avoids importing it.
func respondWithError(w http.ResponseWriter, r *http.Request, err error) {
	code := domain.ErrorCode(err)
	status := StatusForCode(code)

	logger := GetLogger(r.Context())
	if status >= http.StatusInternalServerError {
		logger.Error("middleware rejected request", "error", err, "code", code, "status", status)
		telemetry.CaptureErrorFromContext(r.Context(), err, map[string]any{"path": r.URL.Path, "code": code})
	} else {
		logger.Info("middleware rejected request", "error", err, "code", code, "status", status)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": domain.ErrorMessage(err),
		},
	})
}

// respondUnauthorized keeps cause for the log line only.
func respondUnauthorized(w http.ResponseWriter, r *http.Request, cause error) {
	respondWithError(w, r, &domain.Error{
		Code:    domain.EUNAUTHORIZED,
		Op:      "middleware.auth",
		Message: unauthorizedMessage,
		Err:     cause,
	})
}

func respondForbidden(w http.ResponseWriter, r *http.Request) {
	respondWithError(w, r, domain.Errorf(domain.EFORBIDDEN, "middleware.admin", forbiddenMessage))
}

func respondInternalError(w http.ResponseWriter, r *http.Request, err error) {
	respondWithError(w, r, domain.Internal(err, "", "An unexpected error occurred"))
}

func respondTooManyRequests(w http.ResponseWriter, r *http.Request) {
	respondWithError(w, r, domain.Errorf(domain.ERATELIMIT, "", "Too many requests"))
}

func respondTooLarge(w http.ResponseWriter, r *http.Request) {
	respondWithError(w, r, domain.Errorf(domain.ETOOLARGE, "", "Request body too large"))
}

func respondTimeout(w http.ResponseWriter, r *http.Request) {
	respondWithError(w, r, domain.Errorf(domain.ETIMEOUT, "", "Request timeout"))
}
