package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/dukerupert/seshop/internal/auth"
	"github.com/dukerupert/seshop/internal/domain"
)

const (
	unauthorizedMessage = "Unauthorized Access"
	forbiddenMessage    = "Forbidden Access"
)

// TokenVerifier decodes a bearer token. *auth.TokenIssuer implements it.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// UserLookup resolves the account behind a verified identity.
type UserLookup interface {
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
}

// VerifyToken rejects requests without a valid bearer token with 401 and puts
// the decoded identity in the request context.
func VerifyToken(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				respondUnauthorized(w, r, nil)
				return
			}

			claims, err := verifier.Verify(token)
			if err != nil {
				respondUnauthorized(w, r, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(withIdentity(r.Context(), claims.Email)))
		})
	}
}

// WithIdentity adds the identity from a valid bearer token if present.
// Requests without a token, or with an invalid one, continue anonymously.
func WithIdentity(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := verifier.Verify(token)
			if err != nil {
				GetLogger(r.Context()).Debug("ignoring invalid bearer token", "error", err)
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(withIdentity(r.Context(), claims.Email)))
		})
	}
}

// RequireAdmin re-fetches the caller by the verified email and returns 403
// unless the account has the admin role. It must run after VerifyToken.
func RequireAdmin(users UserLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := domain.IdentityFromContext(r.Context())
			if identity == nil {
				respondUnauthorized(w, r, nil)
				return
			}

			user, err := users.GetUserByEmail(r.Context(), identity.Email)
			if err != nil {
				if domain.IsCode(err, domain.ENOTFOUND) {
					respondForbidden(w, r)
					return
				}
				respondInternalError(w, r, err)
				return
			}

			switch user.Role {
			case domain.RoleAdmin:
				ctx := domain.NewContextWithUser(r.Context(), user)
				next.ServeHTTP(w, r.WithContext(ctx))
			case domain.RoleCustomer:
				respondForbidden(w, r)
			default:
				respondForbidden(w, r)
			}
		})
	}
}

// bearerToken returns the second field of the Authorization header.
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

func withIdentity(ctx context.Context, email string) context.Context {
	ctx = domain.NewContextWithIdentity(ctx, &domain.Identity{Email: email})
	return withLoggerEmail(ctx, email)
}
