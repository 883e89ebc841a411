package api

import (
	"context"
	"net/http"

	"github.com/dukerupert/seshop/internal/domain"
	"github.com/dukerupert/seshop/internal/handler"
)

// TokenSigner issues bearer tokens. *auth.TokenIssuer implements it.
type TokenSigner interface {
	Issue(email string) (string, error)
}

// Authenticator checks credentials.
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)
}

// TokenHandler serves POST /jwt.
type TokenHandler struct {
	users  Authenticator
	signer TokenSigner
}

// NewTokenHandler creates a new token handler
func NewTokenHandler(users Authenticator, signer TokenSigner) *TokenHandler {
	return &TokenHandler{users: users, signer: signer}
}

type tokenResponse struct {
	Token string `json:"token"`
}

// Issue handles POST /jwt
func (h *TokenHandler) Issue(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if err := handler.DecodeJSON(r, "token.issue", &req); err != nil {
		handler.ValidationErrorResponse(w, r, err)
		return
	}

	user, err := h.users.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	token, err := h.signer.Issue(user.Email)
	if err != nil {
		handler.InternalErrorResponse(w, r, err)
		return
	}
	handler.JSON(w, r, http.StatusOK, tokenResponse{Token: token})
}
