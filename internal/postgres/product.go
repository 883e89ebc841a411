package postgres

import (
	"context"

	"github.com/dukerupert/seshop/internal/domain"
	"github.com/dukerupert/seshop/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const productColumns = `id, name, price, description, image, category, created_at, updated_at`

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var (
		p  domain.Product
		id uuid.UUID
	)
	if err := row.Scan(&id, &p.Name, &p.Price, &p.Description, &p.Image, &p.Category, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.ID = id.String()
	return &p, nil
}

func (s *Store) ListProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+productColumns+` FROM products
		 WHERE ($1::text = '' OR category = $1)
		 ORDER BY seq`, filter.Category)
	if err != nil {
		return nil, translate(err, "list products")
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, translate(err, "scan product")
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, translate(err, "list products")
	}
	return products, nil
}

func (s *Store) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	pid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	p, err := scanProduct(s.pool.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, pid))
	if err != nil {
		return nil, translate(err, "get product")
	}
	return p, nil
}

func (s *Store) CreateProduct(ctx context.Context, params domain.ProductParams) (*domain.Product, error) {
	p, err := scanProduct(s.pool.QueryRow(ctx,
		`INSERT INTO products (id, name, price, description, image, category)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+productColumns,
		uuid.New(), params.Name, params.Price, params.Description, params.Image, params.Category))
	if err != nil {
		return nil, translate(err, "insert product")
	}
	return p, nil
}

func (s *Store) UpdateProduct(ctx context.Context, id string, params domain.ProductParams) (*domain.Product, error) {
	pid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	p, err := scanProduct(s.pool.QueryRow(ctx,
		`UPDATE products
		 SET name = $2, price = $3, description = $4, image = $5, category = $6, updated_at = now()
		 WHERE id = $1
		 RETURNING `+productColumns,
		pid, params.Name, params.Price, params.Description, params.Image, params.Category))
	if err != nil {
		return nil, translate(err, "update product")
	}
	return p, nil
}

func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	pid, err := parseID(id)
	if err != nil {
		return err
	}
	tag, err := s.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, pid)
	if err != nil {
		return translate(err, "delete product")
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}
