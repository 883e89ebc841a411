// Package bootstrap handles one-time initialization tasks for the application.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dukerupert/seshop/internal/domain"
	"github.com/dukerupert/seshop/internal/repository"
)

// MinAdminPasswordLength is stricter than the customer minimum.
const MinAdminPasswordLength = 12

// AdminConfig contains configuration for the initial admin user.
type AdminConfig struct {
	Email    string
	Password string
	Name     string
}

// Validate checks that the admin configuration is valid.
func (c *AdminConfig) Validate() error {
	if strings.TrimSpace(c.Email) == "" {
		return errors.New("admin email is required")
	}
	if c.Password == "" {
		return errors.New("admin password is required")
	}
	if len(c.Password) < MinAdminPasswordLength {
		return fmt.Errorf("admin password must be at least %d characters", MinAdminPasswordLength)
	}
	return nil
}

// Hasher hashes a plaintext password.
type Hasher interface {
	Hash(password string) (string, error)
}

// Users is the subset of the user repository the bootstrap needs.
type Users interface {
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	CreateUser(ctx context.Context, params repository.CreateUserParams) (*domain.User, error)
	SetUserRole(ctx context.Context, id string, role domain.Role) (*domain.User, error)
}

// EnsureAdmin makes sure an admin account exists for cfg.Email. It is
// idempotent and safe to call on every startup.
//
// An existing account with that email is promoted to admin; its password is
// left alone. Empty Email or Password skips the bootstrap with a warning.
func EnsureAdmin(ctx context.Context, users Users, hasher Hasher, cfg *AdminConfig, logger *slog.Logger) error {
	// If no config provided, skip admin creation (allows running without admin in dev)
	if cfg == nil || cfg.Email == "" || cfg.Password == "" {
		logger.Warn("bootstrap: skipping admin creation - ADMIN_EMAIL or ADMIN_PASSWORD not set",
			"hint", "Set these environment variables to create an admin user on first startup",
		)
		return nil
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid admin configuration: %w", err)
	}
	email := strings.TrimSpace(cfg.Email)

	existing, err := users.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		if existing.Role == domain.RoleAdmin {
			logger.Info("bootstrap: admin user already exists", "email", email)
			return nil
		}
		if _, err := users.SetUserRole(ctx, existing.ID, domain.RoleAdmin); err != nil {
			return fmt.Errorf("failed to promote existing user: %w", err)
		}
		logger.Info("bootstrap: existing user promoted to admin", "email", email, "user_id", existing.ID)
		return nil
	case !errors.Is(err, repository.ErrNotFound):
		return fmt.Errorf("failed to check for existing admin: %w", err)
	}

	passwordHash, err := hasher.Hash(cfg.Password)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	name := cfg.Name
	if name == "" {
		name = "Admin"
	}

	user, err := users.CreateUser(ctx, repository.CreateUserParams{
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Photo:        domain.DefaultUserPhoto,
		Role:         domain.RoleAdmin,
	})
	if errors.Is(err, repository.ErrDuplicate) {
		// Another instance created it concurrently.
		logger.Info("bootstrap: admin user already exists (concurrent creation)", "email", email)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	logger.Info("bootstrap: admin user created successfully",
		"email", email,
		"user_id", user.ID,
	)
	return nil
}
