// Package handler holds the HTTP response, error and request decoding
// helpers shared by the API handlers.
package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/dukerupert/seshop/internal/domain"
	"github.com/dukerupert/seshop/internal/middleware"
	"github.com/dukerupert/seshop/internal/telemetry"
)

// errorBody is the JSON error envelope.
type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// ErrorResponse maps err to a status code, logs it and writes the response.
// Internal errors are logged with their cause and answered with a generic message.
func ErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	code := domain.ErrorCode(err)
	status := ErrorCodeToHTTPStatus(code)

	logError(r, err, code, status)
	writeError(w, r, status, errorDetail{
		Code:    code,
		Message: domain.ErrorMessage(err),
	})
}

// ValidationErrorResponse writes a 400 with per-field messages.
// Errors that are not a *domain.ValidationError fall back to ErrorResponse.
func ValidationErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	fields := domain.GetValidationFields(err)
	if fields == nil {
		ErrorResponse(w, r, err)
		return
	}

	logError(r, err, domain.EINVALID, http.StatusBadRequest)
	writeError(w, r, http.StatusBadRequest, errorDetail{
		Code:    domain.EINVALID,
		Message: domain.ErrorMessage(err),
		Fields:  fields,
	})
}

// NotFoundResponse writes a generic 404.
func NotFoundResponse(w http.ResponseWriter, r *http.Request) {
	ErrorResponse(w, r, domain.Errorf(domain.ENOTFOUND, "", "The requested resource was not found"))
}

// UnauthorizedResponse writes a generic 401.
func UnauthorizedResponse(w http.ResponseWriter, r *http.Request) {
	ErrorResponse(w, r, domain.Unauthorized("", "Unauthorized Access"))
}

// ForbiddenResponse writes a generic 403.
func ForbiddenResponse(w http.ResponseWriter, r *http.Request) {
	ErrorResponse(w, r, domain.Forbidden("", "Forbidden Access"))
}

// InternalErrorResponse wraps err as an internal error and writes a 500.
func InternalErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	ErrorResponse(w, r, domain.Internal(err, "", "An unexpected error occurred"))
}

// ErrorCodeToHTTPStatus maps domain error codes to HTTP status codes.
func ErrorCodeToHTTPStatus(code string) int {
	return middleware.StatusForCode(code)
}

func logError(r *http.Request, err error, code string, status int) {
	logger := middleware.GetLogger(r.Context())
	attrs := []any{
		"error", err,
		"code", code,
		"op", domain.ErrorOp(err),
		"status", status,
	}

	if status >= http.StatusInternalServerError {
		logger.Error("request failed", attrs...)
		telemetry.CaptureErrorFromContext(r.Context(), err, map[string]interface{}{
			"route": r.Pattern,
			"code":  code,
		})
		return
	}
	logger.Info("request failed", attrs...)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, detail errorDetail) {
	if !acceptsJSON(r) {
		http.Error(w, detail.Message, status)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorBody{Error: detail})
}

// acceptsJSON reports whether the error should be JSON. The API answers JSON
// unless the client asks for HTML without also accepting JSON.
func acceptsJSON(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	if strings.Contains(accept, "application/json") {
		return true
	}
	if strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		return true
	}
	return !strings.Contains(accept, "text/html")
}
