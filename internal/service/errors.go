package service

import (
	"errors"

	"github.com/dukerupert/seshop/internal/domain"
	"github.com/dukerupert/seshop/internal/repository"
)

// Validation errors - use domain.EINVALID
var (
	ErrCartItemIDRequired = domain.Errorf(domain.EINVALID, "", "Cart item id is required")
)

// Field validation messages
const (
	msgProductNameRequired = "Product name is required"
	msgNegativePrice       = "Price cannot be negative"
	msgInvalidEmail        = "Email must be at least 3 characters"
	msgPasswordTooShort    = "Password must be at least 8 characters"
)

// storeError translates a repository error into a domain error for op.
// notFound is returned (with op attached) when the record is missing, and
// conflict when a unique index is violated. Either may be nil.
func storeError(err error, op string, notFound, conflict error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		if notFound == nil {
			return domain.Errorf(domain.ENOTFOUND, op, "Record not found")
		}
		return domain.WithOp(notFound, op)
	case errors.Is(err, repository.ErrDuplicate):
		if conflict == nil {
			return domain.Conflict(op, "Record already exists")
		}
		return domain.WithOp(conflict, op)
	}

	var derr *domain.Error
	if errors.As(err, &derr) {
		return err
	}
	return domain.Internal(err, op, "store operation failed")
}

func isNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound)
}
