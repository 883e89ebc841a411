package api

import (
	"context"
	"errors"

	"github.com/dukerupert/seshop/internal/domain"
)

var errNotMocked = errors.New("not mocked")

type mockCartService struct {
	ListAllFunc      func(ctx context.Context) ([]domain.CartItem, error)
	ListForOwnerFunc func(ctx context.Context, email string) ([]domain.CartItem, error)
	GetItemFunc      func(ctx context.Context, id string) (*domain.CartItem, error)
	AddOrMergeFunc   func(ctx context.Context, params domain.AddItemParams) (*domain.AddResult, error)
	IncrementFunc    func(ctx context.Context, item domain.CartItem) (*domain.AddResult, error)
	DecrementFunc    func(ctx context.Context, item domain.CartItem) (*domain.CartItem, error)
	UpdateFunc       func(ctx context.Context, id string, params domain.UpdateItemParams) (*domain.CartItem, error)
	RemoveFunc       func(ctx context.Context, id string) (*domain.CartItem, error)
	ClearByOwnerFunc func(ctx context.Context, email string) (int64, error)
	SummaryFunc      func(ctx context.Context, email string) (*domain.CartSummary, error)
}

func (m *mockCartService) ListAll(ctx context.Context) ([]domain.CartItem, error) {
	if m.ListAllFunc != nil {
		return m.ListAllFunc(ctx)
	}
	return nil, errNotMocked
}

func (m *mockCartService) ListForOwner(ctx context.Context, email string) ([]domain.CartItem, error) {
	if m.ListForOwnerFunc != nil {
		return m.ListForOwnerFunc(ctx, email)
	}
	return nil, errNotMocked
}

func (m *mockCartService) GetItem(ctx context.Context, id string) (*domain.CartItem, error) {
	if m.GetItemFunc != nil {
		return m.GetItemFunc(ctx, id)
	}
	return nil, errNotMocked
}

func (m *mockCartService) AddOrMerge(ctx context.Context, params domain.AddItemParams) (*domain.AddResult, error) {
	if m.AddOrMergeFunc != nil {
		return m.AddOrMergeFunc(ctx, params)
	}
	return nil, errNotMocked
}

func (m *mockCartService) Increment(ctx context.Context, item domain.CartItem) (*domain.AddResult, error) {
	if m.IncrementFunc != nil {
		return m.IncrementFunc(ctx, item)
	}
	return nil, errNotMocked
}

func (m *mockCartService) Decrement(ctx context.Context, item domain.CartItem) (*domain.CartItem, error) {
	if m.DecrementFunc != nil {
		return m.DecrementFunc(ctx, item)
	}
	return nil, errNotMocked
}

func (m *mockCartService) Update(ctx context.Context, id string, params domain.UpdateItemParams) (*domain.CartItem, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, params)
	}
	return nil, errNotMocked
}

func (m *mockCartService) Remove(ctx context.Context, id string) (*domain.CartItem, error) {
	if m.RemoveFunc != nil {
		return m.RemoveFunc(ctx, id)
	}
	return nil, errNotMocked
}

func (m *mockCartService) ClearByOwner(ctx context.Context, email string) (int64, error) {
	if m.ClearByOwnerFunc != nil {
		return m.ClearByOwnerFunc(ctx, email)
	}
	return 0, errNotMocked
}

func (m *mockCartService) Summary(ctx context.Context, email string) (*domain.CartSummary, error) {
	if m.SummaryFunc != nil {
		return m.SummaryFunc(ctx, email)
	}
	return nil, errNotMocked
}

type mockProductService struct {
	GetProductFunc    func(ctx context.Context, id string) (*domain.Product, error)
	ListProductsFunc  func(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error)
	CreateProductFunc func(ctx context.Context, params domain.ProductParams) (*domain.Product, error)
	UpdateProductFunc func(ctx context.Context, id string, params domain.ProductParams) (*domain.Product, error)
	DeleteProductFunc func(ctx context.Context, id string) error
}

func (m *mockProductService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	if m.GetProductFunc != nil {
		return m.GetProductFunc(ctx, id)
	}
	return nil, errNotMocked
}

func (m *mockProductService) ListProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	if m.ListProductsFunc != nil {
		return m.ListProductsFunc(ctx, filter)
	}
	return nil, errNotMocked
}

func (m *mockProductService) CreateProduct(ctx context.Context, params domain.ProductParams) (*domain.Product, error) {
	if m.CreateProductFunc != nil {
		return m.CreateProductFunc(ctx, params)
	}
	return nil, errNotMocked
}

func (m *mockProductService) UpdateProduct(ctx context.Context, id string, params domain.ProductParams) (*domain.Product, error) {
	if m.UpdateProductFunc != nil {
		return m.UpdateProductFunc(ctx, id, params)
	}
	return nil, errNotMocked
}

func (m *mockProductService) DeleteProduct(ctx context.Context, id string) error {
	if m.DeleteProductFunc != nil {
		return m.DeleteProductFunc(ctx, id)
	}
	return errNotMocked
}

type mockUserService struct {
	ListUsersFunc      func(ctx context.Context) ([]domain.User, error)
	GetUserFunc        func(ctx context.Context, id string) (*domain.User, error)
	GetUserByEmailFunc func(ctx context.Context, email string) (*domain.User, error)
	CreateUserFunc     func(ctx context.Context, params domain.CreateUserParams) (*domain.User, error)
	UpdateUserFunc     func(ctx context.Context, id string, params domain.UpdateUserParams) (*domain.User, error)
	DeleteUserFunc     func(ctx context.Context, id string) (*domain.User, error)
	IsAdminFunc        func(ctx context.Context, email string) (bool, error)
	ToggleRoleFunc     func(ctx context.Context, id string, current string) (*domain.User, error)
	AuthenticateFunc   func(ctx context.Context, email, password string) (*domain.User, error)
}

func (m *mockUserService) ListUsers(ctx context.Context) ([]domain.User, error) {
	if m.ListUsersFunc != nil {
		return m.ListUsersFunc(ctx)
	}
	return nil, errNotMocked
}

func (m *mockUserService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	if m.GetUserFunc != nil {
		return m.GetUserFunc(ctx, id)
	}
	return nil, errNotMocked
}

func (m *mockUserService) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.GetUserByEmailFunc != nil {
		return m.GetUserByEmailFunc(ctx, email)
	}
	return nil, errNotMocked
}

func (m *mockUserService) CreateUser(ctx context.Context, params domain.CreateUserParams) (*domain.User, error) {
	if m.CreateUserFunc != nil {
		return m.CreateUserFunc(ctx, params)
	}
	return nil, errNotMocked
}

func (m *mockUserService) UpdateUser(ctx context.Context, id string, params domain.UpdateUserParams) (*domain.User, error) {
	if m.UpdateUserFunc != nil {
		return m.UpdateUserFunc(ctx, id, params)
	}
	return nil, errNotMocked
}

func (m *mockUserService) DeleteUser(ctx context.Context, id string) (*domain.User, error) {
	if m.DeleteUserFunc != nil {
		return m.DeleteUserFunc(ctx, id)
	}
	return nil, errNotMocked
}

func (m *mockUserService) IsAdmin(ctx context.Context, email string) (bool, error) {
	if m.IsAdminFunc != nil {
		return m.IsAdminFunc(ctx, email)
	}
	return false, errNotMocked
}

func (m *mockUserService) ToggleRole(ctx context.Context, id string, current string) (*domain.User, error) {
	if m.ToggleRoleFunc != nil {
		return m.ToggleRoleFunc(ctx, id, current)
	}
	return nil, errNotMocked
}

func (m *mockUserService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	if m.AuthenticateFunc != nil {
		return m.AuthenticateFunc(ctx, email, password)
	}
	return nil, errNotMocked
}

type mockSigner struct {
	IssueFunc func(email string) (string, error)
}

func (m *mockSigner) Issue(email string) (string, error) {
	if m.IssueFunc != nil {
		return m.IssueFunc(email)
	}
	return "", errNotMocked
}

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }
