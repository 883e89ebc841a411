package postgres

import (
	"context"

	"github.com/dukerupert/seshop/internal/domain"
	"github.com/dukerupert/seshop/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const cartColumns = `id, product_id, email, name, price, image, quantity, created_at, updated_at`

func scanCartItem(row pgx.Row) (*domain.CartItem, error) {
	var (
		item domain.CartItem
		id   uuid.UUID
	)
	err := row.Scan(&id, &item.ProductID, &item.OwnerEmail, &item.Name, &item.Price,
		&item.Image, &item.Quantity, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return nil, err
	}
	item.ID = id.String()
	return &item, nil
}

func (s *Store) ListCartItems(ctx context.Context) ([]domain.CartItem, error) {
	return s.queryCartItems(ctx, `SELECT `+cartColumns+` FROM cart_items ORDER BY seq`)
}

func (s *Store) ListCartItemsByOwner(ctx context.Context, email string) ([]domain.CartItem, error) {
	return s.queryCartItems(ctx, `SELECT `+cartColumns+` FROM cart_items WHERE email = $1 ORDER BY seq`, email)
}

func (s *Store) queryCartItems(ctx context.Context, query string, args ...any) ([]domain.CartItem, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, translate(err, "list cart items")
	}
	defer rows.Close()

	items := []domain.CartItem{}
	for rows.Next() {
		item, err := scanCartItem(rows)
		if err != nil {
			return nil, translate(err, "scan cart item")
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, translate(err, "list cart items")
	}
	return items, nil
}

func (s *Store) GetCartItem(ctx context.Context, id string) (*domain.CartItem, error) {
	cid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	item, err := scanCartItem(s.pool.QueryRow(ctx, `SELECT `+cartColumns+` FROM cart_items WHERE id = $1`, cid))
	if err != nil {
		return nil, translate(err, "get cart item")
	}
	return item, nil
}

func (s *Store) FindCartItemByProduct(ctx context.Context, productID, ownerEmail string) (*domain.CartItem, error) {
	item, err := scanCartItem(s.pool.QueryRow(ctx,
		`SELECT `+cartColumns+` FROM cart_items
		 WHERE product_id = $1 AND ($2::text = '' OR email = $2)
		 ORDER BY seq
		 LIMIT 1`, productID, ownerEmail))
	if err != nil {
		return nil, translate(err, "find cart item by product")
	}
	return item, nil
}

func (s *Store) CreateCartItem(ctx context.Context, params repository.CreateCartItemParams) (*domain.CartItem, error) {
	item, err := scanCartItem(s.pool.QueryRow(ctx,
		`INSERT INTO cart_items (id, product_id, email, name, price, image, quantity)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING `+cartColumns,
		uuid.New(), params.ProductID, params.OwnerEmail, params.Name, params.Price, params.Image, params.Quantity))
	if err != nil {
		return nil, translate(err, "insert cart item")
	}
	return item, nil
}

func (s *Store) UpdateCartItem(ctx context.Context, id string, params domain.UpdateItemParams) (*domain.CartItem, error) {
	cid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	item, err := scanCartItem(s.pool.QueryRow(ctx,
		`UPDATE cart_items
		 SET product_id = $2, email = $3, name = $4, price = $5, image = $6, quantity = $7, updated_at = now()
		 WHERE id = $1
		 RETURNING `+cartColumns,
		cid, params.ProductID, params.OwnerEmail, params.Name, params.Price, params.Image, params.Quantity))
	if err != nil {
		return nil, translate(err, "update cart item")
	}
	return item, nil
}

func (s *Store) SetCartItemQuantity(ctx context.Context, id string, quantity int) (*domain.CartItem, error) {
	cid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	item, err := scanCartItem(s.pool.QueryRow(ctx,
		`UPDATE cart_items SET quantity = $2, updated_at = now()
		 WHERE id = $1
		 RETURNING `+cartColumns, cid, quantity))
	if err != nil {
		return nil, translate(err, "set cart item quantity")
	}
	return item, nil
}

func (s *Store) DeleteCartItem(ctx context.Context, id string) (*domain.CartItem, error) {
	cid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	item, err := scanCartItem(s.pool.QueryRow(ctx,
		`DELETE FROM cart_items WHERE id = $1 RETURNING `+cartColumns, cid))
	if err != nil {
		return nil, translate(err, "delete cart item")
	}
	return item, nil
}

func (s *Store) DeleteCartItemsByOwner(ctx context.Context, email string) (int64, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM cart_items WHERE email = $1`, email)
	if err != nil {
		return 0, translate(err, "delete cart items by owner")
	}
	return tag.RowsAffected(), nil
}
