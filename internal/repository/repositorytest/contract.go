// Package repositorytest holds a behavior suite every repository.Store
// backend must pass.
package repositorytest

import (
	"context"
	"testing"

	"github.com/dukerupert/seshop/internal/domain"
	"github.com/dukerupert/seshop/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// NewStoreFunc returns an empty store configured with opts.
type NewStoreFunc func(t *testing.T, opts repository.Options) repository.Store

// Run exercises the store contract.
func Run(t *testing.T, newStore NewStoreFunc) {
	t.Run("Products", func(t *testing.T) { testProducts(t, newStore(t, repository.Options{})) })
	t.Run("CartItems", func(t *testing.T) { testCartItems(t, newStore(t, repository.Options{})) })
	t.Run("UniqueCartProduct", func(t *testing.T) { testUniqueCartProduct(t, newStore(t, repository.Options{UniqueCartProduct: true})) })
	t.Run("Users", func(t *testing.T) { testUsers(t, newStore(t, repository.Options{})) })
	t.Run("Ping", func(t *testing.T) {
		assert.NoError(t, newStore(t, repository.Options{}).Ping(context.Background()))
	})
}

func testProducts(t *testing.T, s repository.Store) {
	ctx := context.Background()

	mug, err := s.CreateProduct(ctx, domain.ProductParams{Name: "Mug", Price: 12.5, Category: "kitchen"})
	require.NoError(t, err)
	require.NotEmpty(t, mug.ID)
	assert.False(t, mug.CreatedAt.IsZero())

	_, err = s.CreateProduct(ctx, domain.ProductParams{Name: "Sticker", Price: 1, Category: "promo"})
	require.NoError(t, err)

	all, err := s.ListProducts(ctx, domain.ProductFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, mug.ID, all[0].ID)

	kitchen, err := s.ListProducts(ctx, domain.ProductFilter{Category: "kitchen"})
	require.NoError(t, err)
	assert.Len(t, kitchen, 1)

	got, err := s.GetProduct(ctx, mug.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mug", got.Name)
	assert.Equal(t, 12.5, got.Price)

	updated, err := s.UpdateProduct(ctx, mug.ID, domain.ProductParams{Name: "Big Mug", Price: 15, Category: "kitchen"})
	require.NoError(t, err)
	assert.Equal(t, mug.ID, updated.ID)
	assert.Equal(t, "Big Mug", updated.Name)

	require.NoError(t, s.DeleteProduct(ctx, mug.ID))
	assert.ErrorIs(t, s.DeleteProduct(ctx, mug.ID), repository.ErrNotFound)

	_, err = s.GetProduct(ctx, mug.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = s.GetProduct(ctx, "not-an-id")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = s.UpdateProduct(ctx, "not-an-id", domain.ProductParams{Name: "x"})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func testCartItems(t *testing.T, s repository.Store) {
	ctx := context.Background()

	a1, err := s.CreateCartItem(ctx, repository.CreateCartItemParams{
		ProductID: "p1", OwnerEmail: "a@x.com", Name: "Widget", Price: 100, Quantity: 1,
	})
	require.NoError(t, err)
	a2, err := s.CreateCartItem(ctx, repository.CreateCartItemParams{
		ProductID: "p2", OwnerEmail: "a@x.com", Name: "Gadget", Price: 5, Quantity: 2,
	})
	require.NoError(t, err)
	b1, err := s.CreateCartItem(ctx, repository.CreateCartItemParams{
		ProductID: "p1", OwnerEmail: "b@x.com", Name: "Widget", Price: 100, Quantity: 4,
	})
	require.NoError(t, err)

	all, err := s.ListCartItems(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	mine, err := s.ListCartItemsByOwner(ctx, "a@x.com")
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, a1.ID, mine[0].ID)
	assert.Equal(t, a2.ID, mine[1].ID)

	none, err := s.ListCartItemsByOwner(ctx, "nobody@x.com")
	require.NoError(t, err)
	assert.Empty(t, none)

	t.Run("find by product", func(t *testing.T) {
		first, err := s.FindCartItemByProduct(ctx, "p1", "")
		require.NoError(t, err)
		assert.Equal(t, a1.ID, first.ID)

		owned, err := s.FindCartItemByProduct(ctx, "p1", "b@x.com")
		require.NoError(t, err)
		assert.Equal(t, b1.ID, owned.ID)

		_, err = s.FindCartItemByProduct(ctx, "p3", "")
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("set quantity", func(t *testing.T) {
		updated, err := s.SetCartItemQuantity(ctx, a1.ID, 7)
		require.NoError(t, err)
		assert.Equal(t, 7, updated.Quantity)
		assert.Equal(t, "Widget", updated.Name)

		_, err = s.SetCartItemQuantity(ctx, "not-an-id", 2)
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("full update", func(t *testing.T) {
		updated, err := s.UpdateCartItem(ctx, a2.ID, domain.UpdateItemParams{
			ProductID: "p2", OwnerEmail: "a@x.com", Name: "Gadget+", Price: 6, Image: "g.png", Quantity: 3,
		})
		require.NoError(t, err)
		assert.Equal(t, "Gadget+", updated.Name)
		assert.Equal(t, 3, updated.Quantity)

		got, err := s.GetCartItem(ctx, a2.ID)
		require.NoError(t, err)
		assert.Equal(t, "g.png", got.Image)
	})

	t.Run("delete one", func(t *testing.T) {
		removed, err := s.DeleteCartItem(ctx, b1.ID)
		require.NoError(t, err)
		assert.Equal(t, b1.ID, removed.ID)

		_, err = s.DeleteCartItem(ctx, b1.ID)
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("delete by owner", func(t *testing.T) {
		n, err := s.DeleteCartItemsByOwner(ctx, "a@x.com")
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)

		n, err = s.DeleteCartItemsByOwner(ctx, "a@x.com")
		require.NoError(t, err)
		assert.Zero(t, n)
	})
}

func testUniqueCartProduct(t *testing.T, s repository.Store) {
	ctx := context.Background()

	_, err := s.CreateCartItem(ctx, repository.CreateCartItemParams{ProductID: "p1", OwnerEmail: "a@x.com", Quantity: 1})
	require.NoError(t, err)

	_, err = s.CreateCartItem(ctx, repository.CreateCartItemParams{ProductID: "p1", OwnerEmail: "b@x.com", Quantity: 1})
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	all, err := s.ListCartItems(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func testUsers(t *testing.T, s repository.Store) {
	ctx := context.Background()

	ann, err := s.CreateUser(ctx, repository.CreateUserParams{
		Name: "Ann", Email: "ann@x.com", PasswordHash: "hash", Photo: "p.png", Role: domain.RoleCustomer,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleCustomer, ann.Role)

	_, err = s.CreateUser(ctx, repository.CreateUserParams{Email: "ann@x.com", PasswordHash: "hash", Role: domain.RoleCustomer})
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	bob, err := s.CreateUser(ctx, repository.CreateUserParams{Email: "bob@x.com", PasswordHash: "hash", Role: domain.RoleCustomer})
	require.NoError(t, err)

	byEmail, err := s.GetUserByEmail(ctx, "ann@x.com")
	require.NoError(t, err)
	assert.Equal(t, ann.ID, byEmail.ID)
	assert.Equal(t, "hash", byEmail.PasswordHash)

	_, err = s.GetUserByEmail(ctx, "nobody@x.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	promoted, err := s.SetUserRole(ctx, ann.ID, domain.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, promoted.Role)

	_, err = s.UpdateUser(ctx, bob.ID, repository.UpdateUserParams{Email: "ann@x.com", PasswordHash: "hash"})
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	renamed, err := s.UpdateUser(ctx, bob.ID, repository.UpdateUserParams{Name: "Bob", Email: "bob@x.com", PasswordHash: "hash2"})
	require.NoError(t, err)
	assert.Equal(t, "Bob", renamed.Name)
	assert.Equal(t, "hash2", renamed.PasswordHash)

	users, err := s.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 2)

	deleted, err := s.DeleteUser(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, bob.ID, deleted.ID)

	_, err = s.GetUser(ctx, bob.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = s.DeleteUser(ctx, "not-an-id")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
