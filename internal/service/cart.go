package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/dukerupert/seshop/internal/domain"
	"github.com/dukerupert/seshop/internal/events"
	"github.com/dukerupert/seshop/internal/repository"
	"github.com/dukerupert/seshop/internal/telemetry"
	"github.com/shopspring/decimal"
)

// CartOptions configures the cart service.
type CartOptions struct {
	// MergeScope selects whether an existing line is found by product id
	// alone or by (product id, owner). Empty means MergeScopeGlobal.
	MergeScope domain.MergeScope

	Publisher events.Publisher
	Metrics   *telemetry.BusinessMetrics
	Logger    *slog.Logger
}

type cartService struct {
	repo      repository.CartRepository
	catalog   domain.CatalogReader
	scope     domain.MergeScope
	publisher events.Publisher
	metrics   *telemetry.BusinessMetrics
	logger    *slog.Logger
	now       func() time.Time
}

// NewCartService creates a CartService backed by repo. Product references are
// validated against catalog.
func NewCartService(repo repository.CartRepository, catalog domain.CatalogReader, opts CartOptions) domain.CartService {
	scope := opts.MergeScope
	if scope == "" {
		scope = domain.MergeScopeGlobal
	}
	publisher := opts.Publisher
	if publisher == nil {
		publisher = events.Noop{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &cartService{
		repo:      repo,
		catalog:   catalog,
		scope:     scope,
		publisher: publisher,
		metrics:   opts.Metrics,
		logger:    logger,
		now:       time.Now,
	}
}

// ListAll returns every cart item in insertion order.
func (s *cartService) ListAll(ctx context.Context) ([]domain.CartItem, error) {
	items, err := s.repo.ListCartItems(ctx)
	if err != nil {
		return nil, storeError(err, "cart.list", nil, nil)
	}
	return items, nil
}

// ListForOwner returns the owner's items. An owner without items gets an
// empty slice.
func (s *cartService) ListForOwner(ctx context.Context, email string) ([]domain.CartItem, error) {
	const op = "cart.listForOwner"

	if email == "" {
		return nil, domain.WithOp(domain.ErrMissingOwnerEmail, op)
	}

	items, err := s.repo.ListCartItemsByOwner(ctx, email)
	if err != nil {
		return nil, storeError(err, op, nil, nil)
	}
	if items == nil {
		items = []domain.CartItem{}
	}
	return items, nil
}

// GetItem returns one cart item by id.
func (s *cartService) GetItem(ctx context.Context, id string) (*domain.CartItem, error) {
	item, err := s.repo.GetCartItem(ctx, id)
	if err != nil {
		return nil, storeError(err, "cart.get", domain.ErrCartItemNotFound, nil)
	}
	return item, nil
}

// AddOrMerge validates the product, then either adds quantity to the
// existing line for the product or creates a new line.
//
// The lookup and the write are separate store calls. Two concurrent adds of
// a new product can both miss the lookup and create two lines unless the
// store enforces a unique product index, in which case the loser gets
// ErrDuplicateCartEntry.
func (s *cartService) AddOrMerge(ctx context.Context, params domain.AddItemParams) (*domain.AddResult, error) {
	result, err := s.addOrMerge(ctx, "cart.add", params)
	s.metrics.RecordCartOperation("add", err)
	return result, err
}

func (s *cartService) addOrMerge(ctx context.Context, op string, params domain.AddItemParams) (*domain.AddResult, error) {
	if params.ProductID == "" {
		return nil, domain.WithOp(domain.ErrMissingProductID, op)
	}
	if params.OwnerEmail == "" {
		return nil, domain.WithOp(domain.ErrMissingOwnerEmail, op)
	}
	quantity := params.Quantity
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 0 {
		return nil, domain.WithOp(domain.ErrInvalidQuantity, op)
	}

	product, err := s.catalog.GetProduct(ctx, params.ProductID)
	if err != nil {
		if domain.IsCode(err, domain.ENOTFOUND) {
			return nil, &domain.Error{
				Code:    domain.EINVALIDREF,
				Op:      op,
				Message: domain.ErrProductNotFound.Message,
				Err:     err,
			}
		}
		return nil, err
	}

	ownerFilter := ""
	if s.scope == domain.MergeScopeOwner {
		ownerFilter = params.OwnerEmail
	}

	existing, err := s.repo.FindCartItemByProduct(ctx, params.ProductID, ownerFilter)
	switch {
	case err == nil:
		updated, err := s.repo.SetCartItemQuantity(ctx, existing.ID, existing.Quantity+quantity)
		if err != nil {
			return nil, storeError(err, op, domain.ErrCartItemNotFound, nil)
		}
		s.metrics.RecordCartQuantity(string(domain.AddStatusMerged), updated.Quantity)
		s.publish(ctx, events.CartEvent{
			Type:       events.CartItemMerged,
			ItemID:     updated.ID,
			ProductID:  updated.ProductID,
			OwnerEmail: updated.OwnerEmail,
			Quantity:   updated.Quantity,
		})
		return &domain.AddResult{Item: *updated, Status: domain.AddStatusMerged}, nil

	case !isNotFound(err):
		return nil, storeError(err, op, nil, nil)
	}

	create := repository.CreateCartItemParams{
		ProductID:  params.ProductID,
		OwnerEmail: params.OwnerEmail,
		Name:       params.Name,
		Price:      params.UnitPrice,
		Image:      params.Image,
		Quantity:   quantity,
	}
	if create.Name == "" {
		create.Name = product.Name
	}
	if create.Price == 0 {
		create.Price = product.Price
	}
	if create.Image == "" {
		create.Image = product.Image
	}

	created, err := s.repo.CreateCartItem(ctx, create)
	if err != nil {
		return nil, storeError(err, op, nil, domain.ErrDuplicateCartEntry)
	}

	s.metrics.RecordCartQuantity(string(domain.AddStatusCreated), created.Quantity)
	s.publish(ctx, events.CartEvent{
		Type:       events.CartItemAdded,
		ItemID:     created.ID,
		ProductID:  created.ProductID,
		OwnerEmail: created.OwnerEmail,
		Quantity:   created.Quantity,
	})
	return &domain.AddResult{Item: *created, Status: domain.AddStatusCreated}, nil
}

// Increment adds one unit of item's product through the add-or-merge path.
func (s *cartService) Increment(ctx context.Context, item domain.CartItem) (*domain.AddResult, error) {
	if item.ID == "" {
		return nil, nil
	}

	result, err := s.addOrMerge(ctx, "cart.increment", domain.AddItemParams{
		ProductID:  item.ProductID,
		OwnerEmail: item.OwnerEmail,
		UnitPrice:  item.Price,
		Name:       item.Name,
		Image:      item.Image,
		Quantity:   1,
	})
	s.metrics.RecordCartOperation("increment", err)
	return result, err
}

// Decrement lowers item's quantity by one with a direct update by id.
// It refuses to go below one.
func (s *cartService) Decrement(ctx context.Context, item domain.CartItem) (*domain.CartItem, error) {
	updated, err := s.decrement(ctx, item)
	s.metrics.RecordCartOperation("decrement", err)
	return updated, err
}

func (s *cartService) decrement(ctx context.Context, item domain.CartItem) (*domain.CartItem, error) {
	const op = "cart.decrement"

	if item.ID == "" {
		return nil, domain.WithOp(ErrCartItemIDRequired, op)
	}
	if item.Quantity <= 1 {
		return nil, domain.WithOp(domain.ErrQuantityFloor, op)
	}

	updated, err := s.repo.SetCartItemQuantity(ctx, item.ID, item.Quantity-1)
	if err != nil {
		return nil, storeError(err, op, domain.ErrCartItemNotFound, nil)
	}

	s.publish(ctx, events.CartEvent{
		Type:       events.CartItemUpdated,
		ItemID:     updated.ID,
		ProductID:  updated.ProductID,
		OwnerEmail: updated.OwnerEmail,
		Quantity:   updated.Quantity,
	})
	return updated, nil
}

// Update replaces the fields of item id.
func (s *cartService) Update(ctx context.Context, id string, params domain.UpdateItemParams) (*domain.CartItem, error) {
	updated, err := s.update(ctx, id, params)
	s.metrics.RecordCartOperation("update", err)
	return updated, err
}

func (s *cartService) update(ctx context.Context, id string, params domain.UpdateItemParams) (*domain.CartItem, error) {
	const op = "cart.update"

	if params.ProductID == "" {
		return nil, domain.WithOp(domain.ErrMissingProductID, op)
	}
	if params.OwnerEmail == "" {
		return nil, domain.WithOp(domain.ErrMissingOwnerEmail, op)
	}
	if params.Quantity < 1 {
		return nil, domain.WithOp(domain.ErrInvalidQuantity, op)
	}

	updated, err := s.repo.UpdateCartItem(ctx, id, params)
	if err != nil {
		return nil, storeError(err, op, domain.ErrCartItemNotFound, domain.ErrDuplicateCartEntry)
	}

	s.publish(ctx, events.CartEvent{
		Type:       events.CartItemUpdated,
		ItemID:     updated.ID,
		ProductID:  updated.ProductID,
		OwnerEmail: updated.OwnerEmail,
		Quantity:   updated.Quantity,
	})
	return updated, nil
}

// Remove deletes one item and returns it.
func (s *cartService) Remove(ctx context.Context, id string) (*domain.CartItem, error) {
	removed, err := s.repo.DeleteCartItem(ctx, id)
	s.metrics.RecordCartOperation("remove", err)
	if err != nil {
		return nil, storeError(err, "cart.remove", domain.ErrCartItemNotFound, nil)
	}

	s.publish(ctx, events.CartEvent{
		Type:       events.CartItemRemoved,
		ItemID:     removed.ID,
		ProductID:  removed.ProductID,
		OwnerEmail: removed.OwnerEmail,
		Quantity:   removed.Quantity,
	})
	return removed, nil
}

// ClearByOwner deletes every item of email. Deleting nothing is ErrOwnerCartEmpty.
func (s *cartService) ClearByOwner(ctx context.Context, email string) (int64, error) {
	n, err := s.clearByOwner(ctx, email)
	s.metrics.RecordCartOperation("clear", err)
	return n, err
}

func (s *cartService) clearByOwner(ctx context.Context, email string) (int64, error) {
	const op = "cart.clear"

	if email == "" {
		return 0, domain.WithOp(domain.ErrMissingOwnerEmail, op)
	}

	n, err := s.repo.DeleteCartItemsByOwner(ctx, email)
	if err != nil {
		return 0, storeError(err, op, nil, nil)
	}
	if n == 0 {
		return 0, domain.WithOp(domain.ErrOwnerCartEmpty, op)
	}

	s.metrics.RecordCartCleared(n)
	s.publish(ctx, events.CartEvent{
		Type:       events.CartCleared,
		OwnerEmail: email,
		Deleted:    n,
	})
	return n, nil
}

// Summary returns the owner's items with item count and subtotal.
func (s *cartService) Summary(ctx context.Context, email string) (*domain.CartSummary, error) {
	items, err := s.ListForOwner(ctx, email)
	if err != nil {
		return nil, err
	}

	subtotal := decimal.Zero
	count := 0
	for _, item := range items {
		subtotal = subtotal.Add(item.LineTotal())
		count += item.Quantity
	}

	return &domain.CartSummary{
		OwnerEmail: email,
		Items:      items,
		ItemCount:  count,
		Subtotal:   subtotal,
	}, nil
}

// publish sends ev and logs a failure. The cart write has already succeeded,
// so a publish error never reaches the caller.
func (s *cartService) publish(ctx context.Context, ev events.CartEvent) {
	ev.OccurredAt = s.now().UTC()
	err := s.publisher.PublishCart(ctx, ev)
	s.metrics.RecordEventPublished(string(ev.Type), err)
	if err != nil {
		s.logger.WarnContext(ctx, "failed to publish cart event",
			"type", ev.Type,
			"item_id", ev.ItemID,
			"error", err,
		)
	}
}
