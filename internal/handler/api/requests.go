package api

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/dukerupert/seshop/internal/domain"
)

// flexInt accepts a JSON number or a numeric string; storefront clients
// send cart quantities either way.
type flexInt int

func (f *flexInt) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		if s == "" {
			*f = 0
			return nil
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return err
		}
		*f = flexInt(n)
		return nil
	}
	var n int
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexInt(n)
	return nil
}

// cartItemRequest is the body of POST /carts and PUT /carts/{id}.
// product_id is checked by the cart service so the client gets its message.
type cartItemRequest struct {
	ProductID string  `json:"product_id"`
	Email     string  `json:"email" validate:"omitempty,email"`
	Name      string  `json:"name"`
	Price     float64 `json:"price" validate:"gte=0"`
	Image     string  `json:"image"`
	Quantity  flexInt `json:"quantity"`
}

func (req cartItemRequest) addParams(owner string) domain.AddItemParams {
	return domain.AddItemParams{
		ProductID:  req.ProductID,
		OwnerEmail: owner,
		UnitPrice:  req.Price,
		Name:       req.Name,
		Image:      req.Image,
		Quantity:   int(req.Quantity),
	}
}

func (req cartItemRequest) updateParams(owner string) domain.UpdateItemParams {
	return domain.UpdateItemParams{
		ProductID:  req.ProductID,
		OwnerEmail: owner,
		Name:       req.Name,
		Price:      req.Price,
		Image:      req.Image,
		Quantity:   int(req.Quantity),
	}
}

// productRequest is the body of POST /products and PUT /products/{id}.
type productRequest struct {
	Name        string  `json:"name" validate:"required"`
	Price       float64 `json:"price" validate:"gte=0"`
	Description string  `json:"description"`
	Image       string  `json:"image"`
	Category    string  `json:"category"`
}

func (req productRequest) params() domain.ProductParams {
	return domain.ProductParams{
		Name:        req.Name,
		Price:       req.Price,
		Description: req.Description,
		Image:       req.Image,
		Category:    req.Category,
	}
}

// createUserRequest is the body of POST /users.
type createUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Photo    string `json:"photo" validate:"omitempty,url"`
}

// updateUserRequest is the body of PUT /users/{id}. Empty fields are kept.
type updateUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email" validate:"omitempty,email"`
	Password string `json:"password" validate:"omitempty,min=8"`
	Photo    string `json:"photo" validate:"omitempty,url"`
}

// tokenRequest is the body of POST /jwt.
type tokenRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}
