package api

import (
	"net/http"
	"strings"

	"github.com/dukerupert/seshop/internal/domain"
	"github.com/dukerupert/seshop/internal/handler"
	"github.com/dukerupert/seshop/internal/middleware"
)

// UserHandler serves the /users routes.
type UserHandler struct {
	users domain.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(users domain.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// List handles GET /users
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.ListUsers(r.Context())
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.JSON(w, r, http.StatusOK, users)
}

// Get handles GET /users/{id}
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.GetUser(r.Context(), r.PathValue("id"))
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.JSON(w, r, http.StatusOK, user)
}

// Create handles POST /users. A taken email is a 409.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := handler.DecodeJSON(r, "user.create", &req); err != nil {
		handler.ValidationErrorResponse(w, r, err)
		return
	}

	user, err := h.users.CreateUser(r.Context(), domain.CreateUserParams{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Photo:    req.Photo,
	})
	if err != nil {
		handler.ValidationErrorResponse(w, r, err)
		return
	}

	middleware.GetLogger(r.Context()).Info("user created", "user_id", user.ID)
	handler.JSON(w, r, http.StatusCreated, user)
}

// Update handles PUT /users/{id}. Only the account owner or an admin may
// change an account.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	if !h.canModify(w, r, r.PathValue("id")) {
		return
	}

	var req updateUserRequest
	if err := handler.DecodeJSON(r, "user.update", &req); err != nil {
		handler.ValidationErrorResponse(w, r, err)
		return
	}

	user, err := h.users.UpdateUser(r.Context(), r.PathValue("id"), domain.UpdateUserParams{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Photo:    req.Photo,
	})
	if err != nil {
		handler.ValidationErrorResponse(w, r, err)
		return
	}
	handler.JSON(w, r, http.StatusOK, user)
}

// Delete handles DELETE /users/{id}
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.DeleteUser(r.Context(), r.PathValue("id"))
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.JSON(w, r, http.StatusOK, user)
}

// IsAdmin handles GET /users/admin/{email} and answers a bare JSON boolean.
func (h *UserHandler) IsAdmin(w http.ResponseWriter, r *http.Request) {
	isAdmin, err := h.users.IsAdmin(r.Context(), r.PathValue("email"))
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.JSON(w, r, http.StatusOK, isAdmin)
}

// ToggleRole handles PATCH /users/user/{id}/{role}. {role} is the user's
// current role; the account is switched to the other one.
func (h *UserHandler) ToggleRole(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.ToggleRole(r.Context(), r.PathValue("id"), r.PathValue("role"))
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	logger := middleware.GetLogger(r.Context())
	if admin := domain.UserFromContext(r.Context()); admin != nil {
		logger = logger.With("changed_by", admin.ID)
	}
	logger.Info("user role changed", "user_id", user.ID, "role", user.Role.String())

	handler.JSON(w, r, http.StatusOK, user)
}

// canModify reports whether the caller may change user id, writing the
// error response when it may not.
func (h *UserHandler) canModify(w http.ResponseWriter, r *http.Request, id string) bool {
	ctx := r.Context()
	if !domain.IsAuthenticated(ctx) {
		handler.UnauthorizedResponse(w, r)
		return false
	}
	caller := domain.MustIdentity(ctx)

	target, err := h.users.GetUser(ctx, id)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return false
	}
	if strings.EqualFold(target.Email, caller.Email) {
		return true
	}

	isAdmin, err := h.users.IsAdmin(ctx, caller.Email)
	if err != nil && !domain.IsCode(err, domain.ENOTFOUND) {
		handler.ErrorResponse(w, r, err)
		return false
	}
	if !isAdmin {
		middleware.GetLogger(ctx).Warn("user update denied", "user_id", id)
		handler.ForbiddenResponse(w, r)
		return false
	}
	return true
}
