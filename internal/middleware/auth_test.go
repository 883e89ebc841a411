package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dukerupert/seshop/internal/auth"
	"github.com/dukerupert/seshop/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// MOCK USER LOOKUP
// =============================================================================

type mockUserLookup struct {
	getUserByEmailFunc func(ctx context.Context, email string) (*domain.User, error)
}

func (m *mockUserLookup) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.getUserByEmailFunc != nil {
		return m.getUserByEmailFunc(ctx, email)
	}
	return nil, domain.ErrUserNotFound
}

// =============================================================================
// HELPERS
// =============================================================================

func newIssuer(t *testing.T) *auth.TokenIssuer {
	t.Helper()
	issuer, err := auth.NewTokenIssuer("test-secret", time.Hour)
	require.NoError(t, err)
	return issuer
}

func issue(t *testing.T, issuer *auth.TokenIssuer, email string) string {
	t.Helper()
	token, err := issuer.Issue(email)
	require.NoError(t, err)
	return token
}

// identityHandler records the identity seen by the wrapped handler.
func identityHandler(seen **domain.Identity) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*seen = domain.IdentityFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) (code, message string) {
	t.Helper()
	var body struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body.Error.Code, body.Error.Message
}

// =============================================================================
// VerifyToken
// =============================================================================

func TestVerifyToken(t *testing.T) {
	issuer := newIssuer(t)
	other, err := auth.NewTokenIssuer("other-secret", time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantEmail  string
	}{
		{
			name:       "missing header",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "not a bearer header",
			header:     "Basic dXNlcjpwYXNz",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "garbage token",
			header:     "Bearer not-a-jwt",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "signed with another secret",
			header:     "Bearer " + issue(t, other, "a@x.com"),
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "valid token",
			header:     "Bearer " + issue(t, issuer, "a@x.com"),
			wantStatus: http.StatusOK,
			wantEmail:  "a@x.com",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen *domain.Identity
			handler := VerifyToken(issuer)(identityHandler(&seen))

			req := httptest.NewRequest(http.MethodGet, "/users/admin/a@x.com", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus != http.StatusOK {
				assert.Nil(t, seen)
				code, message := decodeError(t, rec)
				assert.Equal(t, domain.EUNAUTHORIZED, code)
				assert.Equal(t, "Unauthorized Access", message)
				return
			}
			require.NotNil(t, seen)
			assert.Equal(t, tt.wantEmail, seen.Email)
		})
	}
}

// =============================================================================
// WithIdentity
// =============================================================================

func TestWithIdentity(t *testing.T) {
	issuer := newIssuer(t)

	t.Run("anonymous request continues", func(t *testing.T) {
		var seen *domain.Identity
		handler := WithIdentity(issuer)(identityHandler(&seen))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/carts", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Nil(t, seen)
	})

	t.Run("invalid token continues anonymously", func(t *testing.T) {
		var seen *domain.Identity
		handler := WithIdentity(issuer)(identityHandler(&seen))

		req := httptest.NewRequest(http.MethodPost, "/carts", nil)
		req.Header.Set("Authorization", "Bearer broken")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Nil(t, seen)
	})

	t.Run("valid token sets identity", func(t *testing.T) {
		var seen *domain.Identity
		handler := WithIdentity(issuer)(identityHandler(&seen))

		req := httptest.NewRequest(http.MethodPost, "/carts", nil)
		req.Header.Set("Authorization", "Bearer "+issue(t, issuer, "b@x.com"))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		require.NotNil(t, seen)
		assert.Equal(t, "b@x.com", seen.Email)
	})
}

// =============================================================================
// RequireAdmin
// =============================================================================

func TestRequireAdmin(t *testing.T) {
	users := &mockUserLookup{
		getUserByEmailFunc: func(ctx context.Context, email string) (*domain.User, error) {
			switch email {
			case "admin@x.com":
				return &domain.User{ID: "1", Email: email, Role: domain.RoleAdmin}, nil
			case "user@x.com":
				return &domain.User{ID: "2", Email: email, Role: domain.RoleCustomer}, nil
			case "broken@x.com":
				return nil, domain.Internal(errors.New("connection reset"), "user.getByEmail", "store operation failed")
			default:
				return nil, domain.ErrUserNotFound
			}
		},
	}

	tests := []struct {
		name       string
		email      string
		wantStatus int
	}{
		{"admin passes", "admin@x.com", http.StatusOK},
		{"customer is forbidden", "user@x.com", http.StatusForbidden},
		{"unknown account is forbidden", "ghost@x.com", http.StatusForbidden},
		{"store failure", "broken@x.com", http.StatusInternalServerError},
		{"no identity", "", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var resolved *domain.User
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				resolved = domain.UserFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			})
			handler := RequireAdmin(users)(next)

			req := httptest.NewRequest(http.MethodGet, "/users", nil)
			if tt.email != "" {
				req = req.WithContext(domain.NewContextWithIdentity(req.Context(), &domain.Identity{Email: tt.email}))
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				require.NotNil(t, resolved)
				assert.Equal(t, tt.email, resolved.Email)
			} else {
				assert.Nil(t, resolved)
			}
		})
	}
}

func TestRequireAdmin_AfterVerifyToken(t *testing.T) {
	issuer := newIssuer(t)
	users := &mockUserLookup{
		getUserByEmailFunc: func(ctx context.Context, email string) (*domain.User, error) {
			return &domain.User{Email: email, Role: domain.RoleAdmin}, nil
		},
	}

	called := false
	handler := VerifyToken(issuer)(RequireAdmin(users)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})))

	req := httptest.NewRequest(http.MethodDelete, "/products/1", nil)
	req.Header.Set("Authorization", "Bearer "+issue(t, issuer, "admin@x.com"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.True(t, called)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
		ok     bool
	}{
		{"", "", false},
		{"Bearer abc", "abc", true},
		{"bearer abc", "abc", true},
		{"Bearer", "", false},
		{"Token abc", "", false},
		{"Bearer a b", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			got, ok := bearerToken(req)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
