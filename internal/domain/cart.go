package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// CART DOMAIN ERRORS
// =============================================================================

var (
	ErrCartItemNotFound   = &Error{Code: ENOTFOUND, Message: "Cart Not Found"}
	ErrOwnerCartEmpty     = &Error{Code: ENOTFOUND, Message: "Carts Not Found for the specified email"}
	ErrMissingProductID   = &Error{Code: EINVALID, Message: "Missing product_id in request body"}
	ErrMissingOwnerEmail  = &Error{Code: EINVALID, Message: "Missing email for cart owner"}
	ErrInvalidQuantity    = &Error{Code: EINVALID, Message: "Quantity must be at least 1"}
	ErrQuantityFloor      = &Error{Code: EINVALID, Message: "Quantity cannot go below 1; remove the item instead"}
	ErrDuplicateCartEntry = &Error{Code: ECONFLICT, Message: "A cart item for this product already exists"}
)

// =============================================================================
// CART TYPES
// =============================================================================

// CartItem is one product's quantity within one owner's cart. Name, Price and
// Image are a snapshot taken when the item was created or last fully updated.
type CartItem struct {
	ID         string    `json:"id"`
	ProductID  string    `json:"product_id"`
	OwnerEmail string    `json:"email"`
	Name       string    `json:"name"`
	Price      float64   `json:"price"`
	Image      string    `json:"image"`
	Quantity   int       `json:"quantity"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// AddItemParams is the input of CartService.AddOrMerge.
type AddItemParams struct {
	ProductID  string
	OwnerEmail string
	UnitPrice  float64
	Name       string
	Image      string
	Quantity   int
}

// UpdateItemParams replaces the mutable fields of a cart item.
type UpdateItemParams struct {
	ProductID  string
	OwnerEmail string
	Name       string
	Price      float64
	Image      string
	Quantity   int
}

// AddStatus tells whether AddOrMerge created a new line or merged into an existing one.
type AddStatus string

const (
	AddStatusCreated AddStatus = "created"
	AddStatusMerged  AddStatus = "merged"
)

// AddResult is returned by AddOrMerge.
type AddResult struct {
	Item   CartItem
	Status AddStatus
}

// MergeScope selects how AddOrMerge finds an existing line to merge into.
type MergeScope string

const (
	// MergeScopeGlobal looks up an existing line by product id alone,
	// regardless of owner.
	MergeScopeGlobal MergeScope = "global"

	// MergeScopeOwner looks up an existing line by (product id, owner email).
	MergeScopeOwner MergeScope = "owner"
)

// CartSummary aggregates an owner's cart with calculated totals.
type CartSummary struct {
	OwnerEmail string          `json:"email"`
	Items      []CartItem      `json:"items"`
	ItemCount  int             `json:"itemCount"`
	Subtotal   decimal.Decimal `json:"subtotal"`
}

// LineTotal returns price x quantity for the item.
func (i CartItem) LineTotal() decimal.Decimal {
	return decimal.NewFromFloat(i.Price).Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// =============================================================================
// SERVICE INTERFACE
// =============================================================================

// CartService owns the cart line item collection.
type CartService interface {
	// ListAll returns every cart item in insertion order.
	ListAll(ctx context.Context) ([]CartItem, error)

	// ListForOwner returns the owner's items in insertion order. An empty
	// cart is an empty slice, not an error.
	ListForOwner(ctx context.Context, email string) ([]CartItem, error)

	// GetItem returns one item or ErrCartItemNotFound.
	GetItem(ctx context.Context, id string) (*CartItem, error)

	// AddOrMerge validates the product, then either adds quantity to the
	// existing line for the product or creates a new line.
	AddOrMerge(ctx context.Context, params AddItemParams) (*AddResult, error)

	// Increment adds one unit through AddOrMerge. It is a no-op returning
	// (nil, nil) when item has no ID.
	Increment(ctx context.Context, item CartItem) (*AddResult, error)

	// Decrement lowers quantity by one. At quantity 1 it returns
	// ErrQuantityFloor and leaves the item unchanged.
	Decrement(ctx context.Context, item CartItem) (*CartItem, error)

	// Update replaces an item's fields by id.
	Update(ctx context.Context, id string, params UpdateItemParams) (*CartItem, error)

	// Remove deletes one item and returns it.
	Remove(ctx context.Context, id string) (*CartItem, error)

	// ClearByOwner deletes every item of the owner and returns the count.
	// Returns ErrOwnerCartEmpty when nothing was deleted.
	ClearByOwner(ctx context.Context, email string) (int64, error)

	// Summary returns the owner's items with item count and subtotal.
	Summary(ctx context.Context, email string) (*CartSummary, error)
}
