package domain

import (
	"context"
	"time"
)

// Product is a catalog entry. ID is immutable once created.
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Price       float64   `json:"price"`
	Description string    `json:"description"`
	Image       string    `json:"image"`
	Category    string    `json:"category"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ProductParams holds the writable fields of a product.
type ProductParams struct {
	Name        string
	Price       float64
	Description string
	Image       string
	Category    string
}

// ProductFilter narrows ListProducts. Empty fields match everything.
type ProductFilter struct {
	Category string
}

var ErrProductNotFound = &Error{Code: ENOTFOUND, Message: "Product not found"}

// CatalogReader is the read-only view of the catalog used to validate cart references.
type CatalogReader interface {
	// GetProduct resolves a product id. Returns ErrProductNotFound when absent.
	GetProduct(ctx context.Context, id string) (*Product, error)
}

// ProductService provides catalog operations.
type ProductService interface {
	CatalogReader

	ListProducts(ctx context.Context, filter ProductFilter) ([]Product, error)
	CreateProduct(ctx context.Context, params ProductParams) (*Product, error)
	UpdateProduct(ctx context.Context, id string, params ProductParams) (*Product, error)
	DeleteProduct(ctx context.Context, id string) error
}
