package api

import (
	"net/http"

	"github.com/dukerupert/seshop/internal/domain"
	"github.com/dukerupert/seshop/internal/handler"
)

// ProductHandler serves the /products routes.
type ProductHandler struct {
	products domain.ProductService
}

// NewProductHandler creates a new product handler
func NewProductHandler(products domain.ProductService) *ProductHandler {
	return &ProductHandler{products: products}
}

// List handles GET /products, optionally filtered by ?category=
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := domain.ProductFilter{Category: r.URL.Query().Get("category")}

	products, err := h.products.ListProducts(r.Context(), filter)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.JSON(w, r, http.StatusOK, products)
}

// Get handles GET /products/{id}
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	product, err := h.products.GetProduct(r.Context(), r.PathValue("id"))
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.JSON(w, r, http.StatusOK, product)
}

// Create handles POST /products
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := handler.DecodeJSON(r, "product.create", &req); err != nil {
		handler.ValidationErrorResponse(w, r, err)
		return
	}

	product, err := h.products.CreateProduct(r.Context(), req.params())
	if err != nil {
		handler.ValidationErrorResponse(w, r, err)
		return
	}
	handler.JSON(w, r, http.StatusCreated, product)
}

// Update handles PUT /products/{id}
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := handler.DecodeJSON(r, "product.update", &req); err != nil {
		handler.ValidationErrorResponse(w, r, err)
		return
	}

	product, err := h.products.UpdateProduct(r.Context(), r.PathValue("id"), req.params())
	if err != nil {
		handler.ValidationErrorResponse(w, r, err)
		return
	}
	handler.JSON(w, r, http.StatusOK, product)
}

// Delete handles DELETE /products/{id}.
// Cart lines that reference the product are left in place.
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.products.DeleteProduct(r.Context(), r.PathValue("id")); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.Message(w, r, http.StatusOK, "Product deleted successfully")
}
