// Package repository defines the storage ports shared by the document-store,
// relational and in-memory backends.
package repository

import (
	"context"
	"errors"

	"github.com/dukerupert/seshop/internal/domain"
)

var (
	// ErrNotFound is returned when a lookup or mutation targets a missing record.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate is returned when a write violates a unique index.
	ErrDuplicate = errors.New("duplicate record")
)

// CreateCartItemParams holds the fields of a new cart line.
type CreateCartItemParams struct {
	ProductID  string
	OwnerEmail string
	Name       string
	Price      float64
	Image      string
	Quantity   int
}

// CreateUserParams holds a new user record. PasswordHash is already hashed.
type CreateUserParams struct {
	Name         string
	Email        string
	PasswordHash string
	Photo        string
	Role         domain.Role
}

// UpdateUserParams replaces the writable fields of a user record.
type UpdateUserParams struct {
	Name         string
	Email        string
	PasswordHash string
	Photo        string
}

// ProductRepository persists the catalog.
type ProductRepository interface {
	ListProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error)
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	CreateProduct(ctx context.Context, params domain.ProductParams) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id string, params domain.ProductParams) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id string) error
}

// CartRepository persists cart line items.
type CartRepository interface {
	ListCartItems(ctx context.Context) ([]domain.CartItem, error)
	ListCartItemsByOwner(ctx context.Context, email string) ([]domain.CartItem, error)
	GetCartItem(ctx context.Context, id string) (*domain.CartItem, error)

	// FindCartItemByProduct returns the first line for productID. When
	// ownerEmail is empty the lookup ignores the owner.
	FindCartItemByProduct(ctx context.Context, productID, ownerEmail string) (*domain.CartItem, error)

	CreateCartItem(ctx context.Context, params CreateCartItemParams) (*domain.CartItem, error)
	UpdateCartItem(ctx context.Context, id string, params domain.UpdateItemParams) (*domain.CartItem, error)
	SetCartItemQuantity(ctx context.Context, id string, quantity int) (*domain.CartItem, error)
	DeleteCartItem(ctx context.Context, id string) (*domain.CartItem, error)
	DeleteCartItemsByOwner(ctx context.Context, email string) (int64, error)
}

// UserRepository persists accounts.
type UserRepository interface {
	ListUsers(ctx context.Context) ([]domain.User, error)
	GetUser(ctx context.Context, id string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	CreateUser(ctx context.Context, params CreateUserParams) (*domain.User, error)
	UpdateUser(ctx context.Context, id string, params UpdateUserParams) (*domain.User, error)
	SetUserRole(ctx context.Context, id string, role domain.Role) (*domain.User, error)
	DeleteUser(ctx context.Context, id string) (*domain.User, error)
}

// Store is a complete backend.
type Store interface {
	ProductRepository
	CartRepository
	UserRepository

	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// Options configure backend behavior shared by all stores.
type Options struct {
	// UniqueCartProduct enforces at most one cart line per product id.
	// Concurrent duplicate creates then fail with ErrDuplicate instead of
	// producing two lines.
	UniqueCartProduct bool
}
