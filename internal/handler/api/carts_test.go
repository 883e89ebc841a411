package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dukerupert/seshop/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type errorEnvelope struct {
	Error struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Fields  map[string]string `json:"fields"`
	} `json:"error"`
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorEnvelope {
	t.Helper()
	var body errorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestCartHandler_Add(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		identity   string
		result     *domain.AddResult
		err        error
		wantStatus int
		wantParams domain.AddItemParams
		wantMsg    string
	}{
		{
			name:       "creates item with numeric string quantity",
			body:       `{"product_id":"p1","email":"ann@x.com","name":"Mug","price":9.5,"image":"m.png","quantity":"2"}`,
			result:     &domain.AddResult{Item: domain.CartItem{ID: "c1", ProductID: "p1", Quantity: 2}, Status: domain.AddStatusCreated},
			wantStatus: http.StatusCreated,
			wantParams: domain.AddItemParams{ProductID: "p1", OwnerEmail: "ann@x.com", UnitPrice: 9.5, Name: "Mug", Image: "m.png", Quantity: 2},
		},
		{
			name:       "merged item is also 201",
			body:       `{"product_id":"p1","email":"ann@x.com","quantity":1}`,
			result:     &domain.AddResult{Item: domain.CartItem{ID: "c1", ProductID: "p1", Quantity: 3}, Status: domain.AddStatusMerged},
			wantStatus: http.StatusCreated,
			wantParams: domain.AddItemParams{ProductID: "p1", OwnerEmail: "ann@x.com", Quantity: 1},
		},
		{
			name:       "token identity overrides body email",
			body:       `{"product_id":"p1","email":"someone@else.com"}`,
			identity:   "ann@x.com",
			result:     &domain.AddResult{Item: domain.CartItem{ID: "c1"}, Status: domain.AddStatusCreated},
			wantStatus: http.StatusCreated,
			wantParams: domain.AddItemParams{ProductID: "p1", OwnerEmail: "ann@x.com"},
		},
		{
			name:       "missing product id",
			body:       `{"email":"ann@x.com"}`,
			err:        domain.ErrMissingProductID,
			wantStatus: http.StatusBadRequest,
			wantParams: domain.AddItemParams{OwnerEmail: "ann@x.com"},
			wantMsg:    "Missing product_id in request body",
		},
		{
			name:       "unknown product",
			body:       `{"product_id":"nope","email":"ann@x.com"}`,
			err:        &domain.Error{Code: domain.EINVALIDREF, Message: "Product not found"},
			wantStatus: http.StatusNotFound,
			wantParams: domain.AddItemParams{ProductID: "nope", OwnerEmail: "ann@x.com"},
			wantMsg:    "Product not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got domain.AddItemParams
			h := NewCartHandler(&mockCartService{
				AddOrMergeFunc: func(ctx context.Context, params domain.AddItemParams) (*domain.AddResult, error) {
					got = params
					return tt.result, tt.err
				},
			})

			req := httptest.NewRequest(http.MethodPost, "/carts", strings.NewReader(tt.body))
			if tt.identity != "" {
				req = req.WithContext(domain.NewContextWithIdentity(req.Context(), &domain.Identity{Email: tt.identity}))
			}
			rec := httptest.NewRecorder()
			h.Add(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantParams, got)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, decodeError(t, rec).Error.Message)
			}
		})
	}
}

func TestCartHandler_Add_MalformedQuantity(t *testing.T) {
	h := NewCartHandler(&mockCartService{})

	req := httptest.NewRequest(http.MethodPost, "/carts", strings.NewReader(`{"product_id":"p1","quantity":"two"}`))
	rec := httptest.NewRecorder()
	h.Add(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCartHandler_ListForOwner(t *testing.T) {
	t.Run("returns items", func(t *testing.T) {
		h := NewCartHandler(&mockCartService{
			ListForOwnerFunc: func(ctx context.Context, email string) ([]domain.CartItem, error) {
				assert.Equal(t, "ann@x.com", email)
				return []domain.CartItem{{ID: "c1"}, {ID: "c2"}}, nil
			},
		})

		req := httptest.NewRequest(http.MethodGet, "/carts/ann@x.com", nil)
		req.SetPathValue("email", "ann@x.com")
		rec := httptest.NewRecorder()
		h.ListForOwner(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var items []domain.CartItem
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
		assert.Len(t, items, 2)
	})

	t.Run("empty cart is not found", func(t *testing.T) {
		h := NewCartHandler(&mockCartService{
			ListForOwnerFunc: func(ctx context.Context, email string) ([]domain.CartItem, error) {
				return []domain.CartItem{}, nil
			},
		})

		req := httptest.NewRequest(http.MethodGet, "/carts/nobody@x.com", nil)
		req.SetPathValue("email", "nobody@x.com")
		rec := httptest.NewRecorder()
		h.ListForOwner(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Cart Not Found", decodeError(t, rec).Error.Message)
	})
}

func TestCartHandler_Clear(t *testing.T) {
	t.Run("reports deleted count", func(t *testing.T) {
		h := NewCartHandler(&mockCartService{
			ClearByOwnerFunc: func(ctx context.Context, email string) (int64, error) {
				return 3, nil
			},
		})

		req := httptest.NewRequest(http.MethodDelete, "/carts/clear/ann@x.com", nil)
		req.SetPathValue("email", "ann@x.com")
		rec := httptest.NewRecorder()
		h.Clear(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"message":"Carts deleted successfully","deletedCount":3}`, rec.Body.String())
	})

	t.Run("nothing to delete", func(t *testing.T) {
		h := NewCartHandler(&mockCartService{
			ClearByOwnerFunc: func(ctx context.Context, email string) (int64, error) {
				return 0, domain.ErrOwnerCartEmpty
			},
		})

		req := httptest.NewRequest(http.MethodDelete, "/carts/clear/ann@x.com", nil)
		req.SetPathValue("email", "ann@x.com")
		rec := httptest.NewRecorder()
		h.Clear(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Carts Not Found for the specified email", decodeError(t, rec).Error.Message)
	})
}

func TestCartHandler_Increment(t *testing.T) {
	stored := domain.CartItem{ID: "c1", ProductID: "p1", OwnerEmail: "ann@x.com", Quantity: 2}

	h := NewCartHandler(&mockCartService{
		GetItemFunc: func(ctx context.Context, id string) (*domain.CartItem, error) {
			if id != "c1" {
				return nil, domain.ErrCartItemNotFound
			}
			item := stored
			return &item, nil
		},
		IncrementFunc: func(ctx context.Context, item domain.CartItem) (*domain.AddResult, error) {
			item.Quantity++
			return &domain.AddResult{Item: item, Status: domain.AddStatusMerged}, nil
		},
	})

	t.Run("adds one unit", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/carts/c1/increment", nil)
		req.SetPathValue("id", "c1")
		rec := httptest.NewRecorder()
		h.Increment(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var item domain.CartItem
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &item))
		assert.Equal(t, 3, item.Quantity)
	})

	t.Run("unknown item", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/carts/zz/increment", nil)
		req.SetPathValue("id", "zz")
		rec := httptest.NewRecorder()
		h.Increment(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("no-op result is not found", func(t *testing.T) {
		noop := NewCartHandler(&mockCartService{
			GetItemFunc: func(ctx context.Context, id string) (*domain.CartItem, error) {
				return &domain.CartItem{ProductID: "p1"}, nil
			},
			IncrementFunc: func(ctx context.Context, item domain.CartItem) (*domain.AddResult, error) {
				return nil, nil
			},
		})

		req := httptest.NewRequest(http.MethodPost, "/carts/c1/increment", nil)
		req.SetPathValue("id", "c1")
		rec := httptest.NewRecorder()
		require.NotPanics(t, func() { noop.Increment(rec, req) })

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, domain.ENOTFOUND, decodeError(t, rec).Error.Code)
	})
}

func TestCartHandler_Decrement(t *testing.T) {
	tests := []struct {
		name       string
		quantity   int
		wantStatus int
	}{
		{name: "lowers quantity", quantity: 3, wantStatus: http.StatusOK},
		{name: "floor at one", quantity: 1, wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewCartHandler(&mockCartService{
				GetItemFunc: func(ctx context.Context, id string) (*domain.CartItem, error) {
					return &domain.CartItem{ID: id, Quantity: tt.quantity}, nil
				},
				DecrementFunc: func(ctx context.Context, item domain.CartItem) (*domain.CartItem, error) {
					if item.Quantity <= 1 {
						return nil, domain.ErrQuantityFloor
					}
					item.Quantity--
					return &item, nil
				},
			})

			req := httptest.NewRequest(http.MethodPost, "/carts/c1/decrement", nil)
			req.SetPathValue("id", "c1")
			rec := httptest.NewRecorder()
			h.Decrement(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestCartHandler_Remove(t *testing.T) {
	h := NewCartHandler(&mockCartService{
		RemoveFunc: func(ctx context.Context, id string) (*domain.CartItem, error) {
			if id == "c1" {
				return &domain.CartItem{ID: "c1"}, nil
			}
			return nil, domain.ErrCartItemNotFound
		},
	})

	for id, want := range map[string]int{"c1": http.StatusOK, "c9": http.StatusNotFound} {
		req := httptest.NewRequest(http.MethodDelete, "/carts/"+id, nil)
		req.SetPathValue("id", id)
		rec := httptest.NewRecorder()
		h.Remove(rec, req)
		assert.Equal(t, want, rec.Code, id)
	}
}

func TestCartHandler_StoreFailureIsSanitized(t *testing.T) {
	h := NewCartHandler(&mockCartService{
		ListAllFunc: func(ctx context.Context) ([]domain.CartItem, error) {
			return nil, domain.Internal(assert.AnError, "cart.listAll", "connection refused on 10.0.0.5")
		},
	})

	rec := httptest.NewRecorder()
	h.ListAll(rec, httptest.NewRequest(http.MethodGet, "/carts", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "10.0.0.5")
}
