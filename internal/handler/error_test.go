package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dukerupert/seshop/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type errorEnvelope struct {
	Error struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Fields  map[string]string `json:"fields"`
	} `json:"error"`
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorEnvelope {
	t.Helper()
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var env errorEnvelope
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&env))
	return env
}

func TestErrorCodeToHTTPStatus(t *testing.T) {
	tests := map[string]int{
		domain.EINVALID:      http.StatusBadRequest,
		domain.EUNAUTHORIZED: http.StatusUnauthorized,
		domain.EFORBIDDEN:    http.StatusForbidden,
		domain.ENOTFOUND:     http.StatusNotFound,
		domain.EINVALIDREF:   http.StatusNotFound,
		domain.ECONFLICT:     http.StatusConflict,
		domain.ETOOLARGE:     http.StatusRequestEntityTooLarge,
		domain.ERATELIMIT:    http.StatusTooManyRequests,
		domain.EINTERNAL:     http.StatusInternalServerError,
		domain.ENOTIMPL:      http.StatusNotImplemented,
		domain.ETIMEOUT:      http.StatusServiceUnavailable,
		"unknown_code":       http.StatusInternalServerError,
	}

	for code, want := range tests {
		assert.Equal(t, want, ErrorCodeToHTTPStatus(code), code)
	}
}

func TestErrorResponse(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantCode    string
		wantMessage string
	}{
		{
			name:       "cart line not found",
			err:        domain.NotFound("cart.update", "cart item", "c1"),
			wantStatus: http.StatusNotFound,
			wantCode:   domain.ENOTFOUND,
		},
		{
			name:        "unknown product on add",
			err:         domain.InvalidReference("cart.add", "product", "doesnotexist"),
			wantStatus:  http.StatusNotFound,
			wantCode:    domain.EINVALIDREF,
			wantMessage: domain.ErrorMessage(domain.InvalidReference("", "product", "doesnotexist")),
		},
		{
			name:        "duplicate email",
			err:         domain.ErrEmailInUse,
			wantStatus:  http.StatusConflict,
			wantCode:    domain.ECONFLICT,
			wantMessage: domain.ErrorMessage(domain.ErrEmailInUse),
		},
		{
			name:       "missing product id",
			err:        domain.ErrMissingProductID,
			wantStatus: http.StatusBadRequest,
			wantCode:   domain.EINVALID,
		},
		{
			name:        "non-admin",
			err:         domain.Forbidden("product.delete", "Forbidden Access"),
			wantStatus:  http.StatusForbidden,
			wantCode:    domain.EFORBIDDEN,
			wantMessage: "Forbidden Access",
		},
		{
			name:        "store failure is sanitized",
			err:         domain.Internal(errors.New("dial tcp 10.0.0.5:27017: connection refused"), "cart.add", "insert failed"),
			wantStatus:  http.StatusInternalServerError,
			wantCode:    domain.EINTERNAL,
			wantMessage: "An internal error occurred. Please try again later.",
		},
		{
			name:        "plain error is internal",
			err:         errors.New("boom"),
			wantStatus:  http.StatusInternalServerError,
			wantCode:    domain.EINTERNAL,
			wantMessage: "An internal error occurred. Please try again later.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/carts", nil)
			rec := httptest.NewRecorder()

			ErrorResponse(rec, req, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			env := decodeError(t, rec)
			assert.Equal(t, tt.wantCode, env.Error.Code)
			if tt.wantMessage != "" {
				assert.Equal(t, tt.wantMessage, env.Error.Message)
			}
			assert.NotContains(t, env.Error.Message, "10.0.0.5")
		})
	}
}

func TestErrorResponse_HTMLClient(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/carts", nil)
	req.Header.Set("Accept", "text/html")
	rec := httptest.NewRecorder()

	ErrorResponse(rec, req, domain.NotFound("product.get", "product", "p1"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/plain")
	assert.NotEmpty(t, rec.Body.String())
}

func TestValidationErrorResponse(t *testing.T) {
	t.Run("field messages", func(t *testing.T) {
		err := domain.NewValidationError("user.create", "email", "email is required")
		err = domain.AddFieldError(err, "password", "password must be at least 8 characters")

		rec := httptest.NewRecorder()
		ValidationErrorResponse(rec, httptest.NewRequest(http.MethodPost, "/users", nil), err)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		env := decodeError(t, rec)
		assert.Equal(t, domain.EINVALID, env.Error.Code)
		assert.Equal(t, map[string]string{
			"email":    "email is required",
			"password": "password must be at least 8 characters",
		}, env.Error.Fields)
	})

	t.Run("other errors fall through", func(t *testing.T) {
		rec := httptest.NewRecorder()
		ValidationErrorResponse(rec, httptest.NewRequest(http.MethodPost, "/users", nil),
			domain.NotFound("user.get", "user", "u1"))

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Empty(t, decodeError(t, rec).Error.Fields)
	})
}

func TestConvenienceResponses(t *testing.T) {
	tests := []struct {
		name  string
		write func(w http.ResponseWriter, r *http.Request)
		want  int
	}{
		{"not found", NotFoundResponse, http.StatusNotFound},
		{"unauthorized", UnauthorizedResponse, http.StatusUnauthorized},
		{"forbidden", ForbiddenResponse, http.StatusForbidden},
		{"internal", func(w http.ResponseWriter, r *http.Request) { InternalErrorResponse(w, r, nil) }, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tt.write(rec, httptest.NewRequest(http.MethodGet, "/", nil))
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestAcceptsJSON(t *testing.T) {
	tests := []struct {
		name        string
		accept      string
		contentType string
		want        bool
	}{
		{"json accept", "application/json", "", true},
		{"json with charset", "application/json; charset=utf-8", "", true},
		{"json body from a browser", "text/html", "application/json", true},
		{"browser list including json", "text/html, application/json", "", true},
		{"html only", "text/html", "", false},
		{"no headers", "", "", true},
		{"wildcard", "*/*", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/products", nil)
			if tt.accept != "" {
				req.Header.Set("Accept", tt.accept)
			}
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			assert.Equal(t, tt.want, acceptsJSON(req))
		})
	}
}
