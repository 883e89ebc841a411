package service

import (
	"context"
	"strings"

	"github.com/dukerupert/seshop/internal/domain"
	"github.com/dukerupert/seshop/internal/repository"
	"github.com/dukerupert/seshop/internal/telemetry"
)

type productService struct {
	repo    repository.ProductRepository
	metrics *telemetry.BusinessMetrics
}

// NewProductService creates a ProductService. metrics may be nil.
func NewProductService(repo repository.ProductRepository, metrics *telemetry.BusinessMetrics) domain.ProductService {
	return &productService{
		repo:    repo,
		metrics: metrics,
	}
}

// ListProducts returns the catalog in insertion order.
func (s *productService) ListProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	products, err := s.repo.ListProducts(ctx, filter)
	if err != nil {
		return nil, storeError(err, "product.list", nil, nil)
	}
	if products == nil {
		products = []domain.Product{}
	}
	return products, nil
}

// GetProduct resolves a product id for catalog lookup.
func (s *productService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	const op = "product.get"

	if id == "" {
		return nil, domain.WithOp(domain.ErrProductNotFound, op)
	}

	product, err := s.repo.GetProduct(ctx, id)
	if err != nil {
		return nil, storeError(err, op, domain.ErrProductNotFound, nil)
	}
	return product, nil
}

// CreateProduct adds a catalog entry.
func (s *productService) CreateProduct(ctx context.Context, params domain.ProductParams) (*domain.Product, error) {
	const op = "product.create"

	params, err := validateProduct(op, params)
	if err != nil {
		return nil, err
	}

	product, err := s.repo.CreateProduct(ctx, params)
	if err != nil {
		return nil, storeError(err, op, nil, nil)
	}

	s.metrics.RecordProductChange("create")
	return product, nil
}

// UpdateProduct replaces the writable fields of product id.
// Cart lines keep their snapshot of the old values.
func (s *productService) UpdateProduct(ctx context.Context, id string, params domain.ProductParams) (*domain.Product, error) {
	const op = "product.update"

	params, err := validateProduct(op, params)
	if err != nil {
		return nil, err
	}

	product, err := s.repo.UpdateProduct(ctx, id, params)
	if err != nil {
		return nil, storeError(err, op, domain.ErrProductNotFound, nil)
	}

	s.metrics.RecordProductChange("update")
	return product, nil
}

// DeleteProduct removes product id. Cart lines that reference it are left in place.
func (s *productService) DeleteProduct(ctx context.Context, id string) error {
	const op = "product.delete"

	if err := s.repo.DeleteProduct(ctx, id); err != nil {
		return storeError(err, op, domain.ErrProductNotFound, nil)
	}

	s.metrics.RecordProductChange("delete")
	return nil
}

func validateProduct(op string, params domain.ProductParams) (domain.ProductParams, error) {
	params.Name = strings.TrimSpace(params.Name)
	params.Category = strings.TrimSpace(params.Category)

	var verr error
	if params.Name == "" {
		verr = domain.NewValidationError(op, "name", msgProductNameRequired)
	}
	if params.Price < 0 {
		verr = domain.AddFieldError(verr, "price", msgNegativePrice)
	}
	if verr != nil {
		return params, verr
	}
	return params, nil
}
