package service

import (
	"context"
	"errors"
	"strings"

	"github.com/dukerupert/seshop/internal/auth"
	"github.com/dukerupert/seshop/internal/domain"
	"github.com/dukerupert/seshop/internal/repository"
	"github.com/dukerupert/seshop/internal/telemetry"
)

// PasswordHasher hashes and checks passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) error
}

type userService struct {
	repo    repository.UserRepository
	hasher  PasswordHasher
	metrics *telemetry.BusinessMetrics
}

// NewUserService creates a UserService. metrics may be nil.
func NewUserService(repo repository.UserRepository, hasher PasswordHasher, metrics *telemetry.BusinessMetrics) domain.UserService {
	return &userService{
		repo:    repo,
		hasher:  hasher,
		metrics: metrics,
	}
}

// ListUsers returns every account.
func (s *userService) ListUsers(ctx context.Context) ([]domain.User, error) {
	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, storeError(err, "user.list", nil, nil)
	}
	if users == nil {
		users = []domain.User{}
	}
	return users, nil
}

// GetUser retrieves a user by ID
func (s *userService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.repo.GetUser(ctx, id)
	if err != nil {
		return nil, storeError(err, "user.get", domain.ErrUserNotFound, nil)
	}
	return user, nil
}

// GetUserByEmail retrieves a user by email
func (s *userService) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, err := s.repo.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, storeError(err, "user.getByEmail", domain.ErrUserNotFound, nil)
	}
	return user, nil
}

// CreateUser registers a new customer account.
func (s *userService) CreateUser(ctx context.Context, params domain.CreateUserParams) (*domain.User, error) {
	const op = "user.create"

	email := normalizeEmail(params.Email)
	var verr error
	if len(email) < 3 {
		verr = domain.NewValidationError(op, "email", msgInvalidEmail)
	}
	if len(params.Password) < auth.MinPasswordLength {
		verr = domain.AddFieldError(verr, "password", msgPasswordTooShort)
	}
	if verr != nil {
		return nil, verr
	}

	// Check if user already exists
	if _, err := s.repo.GetUserByEmail(ctx, email); err == nil {
		return nil, domain.WithOp(domain.ErrEmailInUse, op)
	} else if !isNotFound(err) {
		return nil, storeError(err, op, nil, nil)
	}

	hash, err := s.hasher.Hash(params.Password)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to hash password")
	}

	photo := strings.TrimSpace(params.Photo)
	if photo == "" {
		photo = domain.DefaultUserPhoto
	}

	user, err := s.repo.CreateUser(ctx, repository.CreateUserParams{
		Name:         strings.TrimSpace(params.Name),
		Email:        email,
		PasswordHash: hash,
		Photo:        photo,
		Role:         domain.RoleCustomer,
	})
	if err != nil {
		return nil, storeError(err, op, nil, domain.ErrEmailInUse)
	}

	s.metrics.RecordSignup()
	return user, nil
}

// UpdateUser changes the non-empty fields of params.
func (s *userService) UpdateUser(ctx context.Context, id string, params domain.UpdateUserParams) (*domain.User, error) {
	const op = "user.update"

	current, err := s.repo.GetUser(ctx, id)
	if err != nil {
		return nil, storeError(err, op, domain.ErrUserNotFound, nil)
	}

	update := repository.UpdateUserParams{
		Name:         current.Name,
		Email:        current.Email,
		PasswordHash: current.PasswordHash,
		Photo:        current.Photo,
	}
	if name := strings.TrimSpace(params.Name); name != "" {
		update.Name = name
	}
	if photo := strings.TrimSpace(params.Photo); photo != "" {
		update.Photo = photo
	}
	if params.Email != "" {
		email := normalizeEmail(params.Email)
		if len(email) < 3 {
			return nil, domain.NewValidationError(op, "email", msgInvalidEmail)
		}
		update.Email = email
	}
	if params.Password != "" {
		hash, err := s.hasher.Hash(params.Password)
		if err != nil {
			if errors.Is(err, auth.ErrPasswordTooShort) {
				return nil, domain.NewValidationError(op, "password", msgPasswordTooShort)
			}
			return nil, domain.Internal(err, op, "failed to hash password")
		}
		update.PasswordHash = hash
	}

	user, err := s.repo.UpdateUser(ctx, id, update)
	if err != nil {
		return nil, storeError(err, op, domain.ErrUserNotFound, domain.ErrEmailInUse)
	}
	return user, nil
}

// DeleteUser removes an account and returns it.
func (s *userService) DeleteUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.repo.DeleteUser(ctx, id)
	if err != nil {
		return nil, storeError(err, "user.delete", domain.ErrUserNotFound, nil)
	}
	return user, nil
}

// IsAdmin reports whether the account with email has the admin role.
func (s *userService) IsAdmin(ctx context.Context, email string) (bool, error) {
	user, err := s.GetUserByEmail(ctx, email)
	if err != nil {
		return false, err
	}
	return user.Role.IsAdmin(), nil
}

// ToggleRole sets the role of user id to the opposite of current.
func (s *userService) ToggleRole(ctx context.Context, id string, current string) (*domain.User, error) {
	const op = "user.toggleRole"

	role, err := domain.ParseRole(current)
	if err != nil {
		return nil, domain.WithOp(err, op)
	}
	next, err := role.Toggled()
	if err != nil {
		return nil, domain.WithOp(err, op)
	}

	user, err := s.repo.SetUserRole(ctx, id, next)
	if err != nil {
		return nil, storeError(err, op, domain.ErrUserNotFound, nil)
	}

	s.metrics.RecordRoleChange(next.String())
	return user, nil
}

// Authenticate verifies email/password and returns the user if valid.
// Unknown email and wrong password return the same error.
func (s *userService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.authenticate(ctx, email, password)
	s.metrics.RecordLogin(err)
	return user, err
}

func (s *userService) authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	const op = "user.authenticate"

	user, err := s.repo.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if isNotFound(err) {
			return nil, domain.WithOp(domain.ErrInvalidCredential, op)
		}
		return nil, storeError(err, op, nil, nil)
	}

	if err := s.hasher.Verify(password, user.PasswordHash); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return nil, domain.WithOp(domain.ErrInvalidCredential, op)
		}
		return nil, domain.Internal(err, op, "failed to verify password")
	}
	return user, nil
}

func normalizeEmail(email string) string {
	return strings.TrimSpace(email)
}
