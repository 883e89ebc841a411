package repository

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/dukerupert/seshop/internal/domain"
	"github.com/google/uuid"
)

// MemoryStore is an in-process Store for development and tests.
// Each method is atomic on its own; sequences of calls are not.
type MemoryStore struct {
	mu      sync.RWMutex
	opts    Options
	now     func() time.Time
	product map[string]domain.Product
	cart    map[string]domain.CartItem
	users   map[string]domain.User

	// insertion order
	productOrder []string
	cartOrder    []string
	userOrder    []string
}

// Compile-time check that MemoryStore implements Store.
var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore(opts Options) *MemoryStore {
	return &MemoryStore{
		opts:    opts,
		now:     time.Now,
		product: make(map[string]domain.Product),
		cart:    make(map[string]domain.CartItem),
		users:   make(map[string]domain.User),
	}
}

func (s *MemoryStore) Ping(ctx context.Context) error  { return ctx.Err() }
func (s *MemoryStore) Close(ctx context.Context) error { return nil }

// =============================================================================
// PRODUCTS
// =============================================================================

func (s *MemoryStore) ListProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Product, 0, len(s.productOrder))
	for _, id := range s.productOrder {
		p := s.product[id]
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (s *MemoryStore) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.product[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (s *MemoryStore) CreateProduct(ctx context.Context, params domain.ProductParams) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	p := domain.Product{
		ID:          uuid.NewString(),
		Name:        params.Name,
		Price:       params.Price,
		Description: params.Description,
		Image:       params.Image,
		Category:    params.Category,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.product[p.ID] = p
	s.productOrder = append(s.productOrder, p.ID)
	return &p, nil
}

func (s *MemoryStore) UpdateProduct(ctx context.Context, id string, params domain.ProductParams) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.product[id]
	if !ok {
		return nil, ErrNotFound
	}
	p.Name = params.Name
	p.Price = params.Price
	p.Description = params.Description
	p.Image = params.Image
	p.Category = params.Category
	p.UpdatedAt = s.now()
	s.product[id] = p
	return &p, nil
}

func (s *MemoryStore) DeleteProduct(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.product[id]; !ok {
		return ErrNotFound
	}
	delete(s.product, id)
	s.productOrder = removeID(s.productOrder, id)
	return nil
}

// =============================================================================
// CART ITEMS
// =============================================================================

func (s *MemoryStore) ListCartItems(ctx context.Context) ([]domain.CartItem, error) {
	return s.listCart(""), nil
}

func (s *MemoryStore) ListCartItemsByOwner(ctx context.Context, email string) ([]domain.CartItem, error) {
	return s.listCart(email), nil
}

func (s *MemoryStore) listCart(email string) []domain.CartItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.CartItem, 0)
	for _, id := range s.cartOrder {
		item := s.cart[id]
		if email != "" && item.OwnerEmail != email {
			continue
		}
		out = append(out, item)
	}
	return out
}

func (s *MemoryStore) GetCartItem(ctx context.Context, id string) (*domain.CartItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.cart[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &item, nil
}

func (s *MemoryStore) FindCartItemByProduct(ctx context.Context, productID, ownerEmail string) (*domain.CartItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, id := range s.cartOrder {
		item := s.cart[id]
		if item.ProductID != productID {
			continue
		}
		if ownerEmail != "" && item.OwnerEmail != ownerEmail {
			continue
		}
		return &item, nil
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) CreateCartItem(ctx context.Context, params CreateCartItemParams) (*domain.CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.opts.UniqueCartProduct {
		for _, item := range s.cart {
			if item.ProductID == params.ProductID {
				return nil, ErrDuplicate
			}
		}
	}

	now := s.now()
	item := domain.CartItem{
		ID:         uuid.NewString(),
		ProductID:  params.ProductID,
		OwnerEmail: params.OwnerEmail,
		Name:       params.Name,
		Price:      params.Price,
		Image:      params.Image,
		Quantity:   params.Quantity,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	s.cart[item.ID] = item
	s.cartOrder = append(s.cartOrder, item.ID)
	return &item, nil
}

func (s *MemoryStore) UpdateCartItem(ctx context.Context, id string, params domain.UpdateItemParams) (*domain.CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.cart[id]
	if !ok {
		return nil, ErrNotFound
	}
	if s.opts.UniqueCartProduct && params.ProductID != item.ProductID {
		for otherID, other := range s.cart {
			if otherID != id && other.ProductID == params.ProductID {
				return nil, ErrDuplicate
			}
		}
	}
	item.ProductID = params.ProductID
	item.OwnerEmail = params.OwnerEmail
	item.Name = params.Name
	item.Price = params.Price
	item.Image = params.Image
	item.Quantity = params.Quantity
	item.UpdatedAt = s.now()
	s.cart[id] = item
	return &item, nil
}

func (s *MemoryStore) SetCartItemQuantity(ctx context.Context, id string, quantity int) (*domain.CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.cart[id]
	if !ok {
		return nil, ErrNotFound
	}
	item.Quantity = quantity
	item.UpdatedAt = s.now()
	s.cart[id] = item
	return &item, nil
}

func (s *MemoryStore) DeleteCartItem(ctx context.Context, id string) (*domain.CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.cart[id]
	if !ok {
		return nil, ErrNotFound
	}
	delete(s.cart, id)
	s.cartOrder = removeID(s.cartOrder, id)
	return &item, nil
}

func (s *MemoryStore) DeleteCartItemsByOwner(ctx context.Context, email string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var deleted int64
	kept := s.cartOrder[:0]
	for _, id := range s.cartOrder {
		if s.cart[id].OwnerEmail == email {
			delete(s.cart, id)
			deleted++
			continue
		}
		kept = append(kept, id)
	}
	s.cartOrder = kept
	return deleted, nil
}

// =============================================================================
// USERS
// =============================================================================

func (s *MemoryStore) ListUsers(ctx context.Context) ([]domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.User, 0, len(s.userOrder))
	for _, id := range s.userOrder {
		out = append(out, s.users[id])
	}
	return out, nil
}

func (s *MemoryStore) GetUser(ctx context.Context, id string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (s *MemoryStore) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, id := range s.userOrder {
		if u := s.users[id]; u.Email == email {
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) CreateUser(ctx context.Context, params CreateUserParams) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == params.Email {
			return nil, ErrDuplicate
		}
	}

	now := s.now()
	u := domain.User{
		ID:           uuid.NewString(),
		Name:         params.Name,
		Email:        params.Email,
		PasswordHash: params.PasswordHash,
		Photo:        params.Photo,
		Role:         params.Role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	s.users[u.ID] = u
	s.userOrder = append(s.userOrder, u.ID)
	return &u, nil
}

func (s *MemoryStore) UpdateUser(ctx context.Context, id string, params UpdateUserParams) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	for otherID, other := range s.users {
		if otherID != id && other.Email == params.Email {
			return nil, ErrDuplicate
		}
	}
	u.Name = params.Name
	u.Email = params.Email
	u.PasswordHash = params.PasswordHash
	u.Photo = params.Photo
	u.UpdatedAt = s.now()
	s.users[id] = u
	return &u, nil
}

func (s *MemoryStore) SetUserRole(ctx context.Context, id string, role domain.Role) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	u.Role = role
	u.UpdatedAt = s.now()
	s.users[id] = u
	return &u, nil
}

func (s *MemoryStore) DeleteUser(ctx context.Context, id string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	delete(s.users, id)
	s.userOrder = removeID(s.userOrder, id)
	return &u, nil
}

func removeID(ids []string, id string) []string {
	if i := slices.Index(ids, id); i >= 0 {
		return slices.Delete(ids, i, i+1)
	}
	return ids
}
