package api

import (
	"net/http"

	"github.com/dukerupert/seshop/internal/domain"
	"github.com/dukerupert/seshop/internal/handler"
	"github.com/dukerupert/seshop/internal/middleware"
)

// CartHandler serves the /carts routes.
type CartHandler struct {
	carts domain.CartService
}

// NewCartHandler creates a new cart handler
func NewCartHandler(carts domain.CartService) *CartHandler {
	return &CartHandler{carts: carts}
}

// ListAll handles GET /carts
func (h *CartHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	items, err := h.carts.ListAll(r.Context())
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.JSON(w, r, http.StatusOK, items)
}

// ListForOwner handles GET /carts/{email}.
// An empty cart is a 404, matching what storefront clients expect.
func (h *CartHandler) ListForOwner(w http.ResponseWriter, r *http.Request) {
	items, err := h.carts.ListForOwner(r.Context(), r.PathValue("email"))
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	if len(items) == 0 {
		handler.ErrorResponse(w, r, domain.WithOp(domain.ErrCartItemNotFound, "cart.listForOwner"))
		return
	}
	handler.JSON(w, r, http.StatusOK, items)
}

// Summary handles GET /carts/{email}/summary
func (h *CartHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.carts.Summary(r.Context(), r.PathValue("email"))
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.JSON(w, r, http.StatusOK, summary)
}

// Add handles POST /carts.
// A verified token's email takes precedence over the body email.
func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req cartItemRequest
	if err := handler.DecodeJSON(r, "cart.add", &req); err != nil {
		handler.ValidationErrorResponse(w, r, err)
		return
	}

	result, err := h.carts.AddOrMerge(r.Context(), req.addParams(ownerEmail(r, req.Email)))
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	middleware.GetLogger(r.Context()).Debug("cart item saved",
		"item_id", result.Item.ID,
		"status", result.Status,
		"quantity", result.Item.Quantity,
	)
	handler.JSON(w, r, http.StatusCreated, result.Item)
}

// Update handles PUT /carts/{id}
func (h *CartHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req cartItemRequest
	if err := handler.DecodeJSON(r, "cart.update", &req); err != nil {
		handler.ValidationErrorResponse(w, r, err)
		return
	}

	item, err := h.carts.Update(r.Context(), r.PathValue("id"), req.updateParams(ownerEmail(r, req.Email)))
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.JSON(w, r, http.StatusOK, item)
}

// Remove handles DELETE /carts/{id}
func (h *CartHandler) Remove(w http.ResponseWriter, r *http.Request) {
	item, err := h.carts.Remove(r.Context(), r.PathValue("id"))
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.JSON(w, r, http.StatusOK, item)
}

// Clear handles DELETE /carts/clear/{email}
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	n, err := h.carts.ClearByOwner(r.Context(), r.PathValue("email"))
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.JSON(w, r, http.StatusOK, clearResponse{
		Message:      "Carts deleted successfully",
		DeletedCount: n,
	})
}

type clearResponse struct {
	Message      string `json:"message"`
	DeletedCount int64  `json:"deletedCount"`
}

// Increment handles POST /carts/{id}/increment
func (h *CartHandler) Increment(w http.ResponseWriter, r *http.Request) {
	item, err := h.carts.GetItem(r.Context(), r.PathValue("id"))
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	result, err := h.carts.Increment(r.Context(), *item)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	if result == nil {
		handler.ErrorResponse(w, r, domain.ErrCartItemNotFound)
		return
	}
	handler.JSON(w, r, http.StatusOK, result.Item)
}

// Decrement handles POST /carts/{id}/decrement
func (h *CartHandler) Decrement(w http.ResponseWriter, r *http.Request) {
	item, err := h.carts.GetItem(r.Context(), r.PathValue("id"))
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	updated, err := h.carts.Decrement(r.Context(), *item)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	if updated == nil {
		handler.ErrorResponse(w, r, domain.ErrCartItemNotFound)
		return
	}
	handler.JSON(w, r, http.StatusOK, updated)
}

// ownerEmail returns the verified caller email, or fallback when anonymous.
func ownerEmail(r *http.Request, fallback string) string {
	if email := domain.CurrentOwnerEmail(r.Context()); email != "" {
		return email
	}
	return fallback
}
