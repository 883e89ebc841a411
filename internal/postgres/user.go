package postgres

import (
	"context"

	"github.com/dukerupert/seshop/internal/domain"
	"github.com/dukerupert/seshop/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const userColumns = `id, name, email, password, photo, role, created_at, updated_at`

// scanUser reads a user row. An unknown stored role becomes the zero Role.
func scanUser(row pgx.Row) (*domain.User, error) {
	var (
		u    domain.User
		id   uuid.UUID
		role string
	)
	if err := row.Scan(&id, &u.Name, &u.Email, &u.PasswordHash, &u.Photo, &role, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	u.ID = id.String()
	u.Role, _ = domain.ParseRole(role)
	return &u, nil
}

func (s *Store) ListUsers(ctx context.Context) ([]domain.User, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY seq`)
	if err != nil {
		return nil, translate(err, "list users")
	}
	defer rows.Close()

	users := []domain.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, translate(err, "scan user")
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, translate(err, "list users")
	}
	return users, nil
}

func (s *Store) GetUser(ctx context.Context, id string) (*domain.User, error) {
	uid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	u, err := scanUser(s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, uid))
	if err != nil {
		return nil, translate(err, "get user")
	}
	return u, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	u, err := scanUser(s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
	if err != nil {
		return nil, translate(err, "get user by email")
	}
	return u, nil
}

func (s *Store) CreateUser(ctx context.Context, params repository.CreateUserParams) (*domain.User, error) {
	u, err := scanUser(s.pool.QueryRow(ctx,
		`INSERT INTO users (id, name, email, password, photo, role)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+userColumns,
		uuid.New(), params.Name, params.Email, params.PasswordHash, params.Photo, params.Role.String()))
	if err != nil {
		return nil, translate(err, "insert user")
	}
	return u, nil
}

func (s *Store) UpdateUser(ctx context.Context, id string, params repository.UpdateUserParams) (*domain.User, error) {
	uid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	u, err := scanUser(s.pool.QueryRow(ctx,
		`UPDATE users SET name = $2, email = $3, password = $4, photo = $5, updated_at = now()
		 WHERE id = $1
		 RETURNING `+userColumns,
		uid, params.Name, params.Email, params.PasswordHash, params.Photo))
	if err != nil {
		return nil, translate(err, "update user")
	}
	return u, nil
}

func (s *Store) SetUserRole(ctx context.Context, id string, role domain.Role) (*domain.User, error) {
	uid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	u, err := scanUser(s.pool.QueryRow(ctx,
		`UPDATE users SET role = $2, updated_at = now()
		 WHERE id = $1
		 RETURNING `+userColumns, uid, role.String()))
	if err != nil {
		return nil, translate(err, "set user role")
	}
	return u, nil
}

func (s *Store) DeleteUser(ctx context.Context, id string) (*domain.User, error) {
	uid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	u, err := scanUser(s.pool.QueryRow(ctx, `DELETE FROM users WHERE id = $1 RETURNING `+userColumns, uid))
	if err != nil {
		return nil, translate(err, "delete user")
	}
	return u, nil
}
