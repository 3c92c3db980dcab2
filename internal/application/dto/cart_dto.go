// internal/application/dto/cart_dto.go
package dto

import (
	"time"

	"storefront/internal/application/usecase"
	cartdom "storefront/internal/domain/cart"
	productdom "storefront/internal/domain/product"
)

// ============================================================
// Product
// ============================================================

type ProductDTO struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	ImageURL string  `json:"imageUrl"`
	Category string  `json:"category"`
	Stock    int     `json:"stock"`
}

func FromProduct(p productdom.Product) ProductDTO {
	return ProductDTO{
		ID:       p.ID,
		Name:     p.Name,
		Price:    p.Price,
		ImageURL: p.ImageURL,
		Category: p.Category,
		Stock:    p.Stock,
	}
}

func FromProducts(ps []productdom.Product) []ProductDTO {
	out := make([]ProductDTO, 0, len(ps))
	for _, p := range ps {
		out = append(out, FromProduct(p))
	}
	return out
}

// ============================================================
// Cart
// - user/items are always present ("items": [] for an empty cart)
// - id and timestamps are omitted until the cart is stored
// ============================================================

type CartDTO struct {
	ID        string        `json:"id,omitempty"`
	User      string        `json:"user"`
	Items     []CartItemDTO `json:"items"`
	CreatedAt *time.Time    `json:"createdAt,omitempty"`
	UpdatedAt *time.Time    `json:"updatedAt,omitempty"`
}

type CartItemDTO struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`

	// resolved on GET /api/cart only
	Product *ProductDTO `json:"product,omitempty"`
}

// FromCart renders a mutation result (no product resolution).
func FromCart(c *cartdom.Cart) CartDTO {
	return fromCart(c, nil)
}

// FromCartView renders GET /api/cart with product data inlined per line.
func FromCartView(v usecase.CartView) CartDTO {
	return fromCart(v.Cart, v.Products)
}

func fromCart(c *cartdom.Cart, products map[string]productdom.Product) CartDTO {
	if c == nil {
		return CartDTO{Items: []CartItemDTO{}}
	}

	out := CartDTO{
		ID:    c.ID,
		User:  c.UserID,
		Items: make([]CartItemDTO, 0, len(c.Items)),
	}
	if !c.CreatedAt.IsZero() {
		t := c.CreatedAt
		out.CreatedAt = &t
	}
	if !c.UpdatedAt.IsZero() {
		t := c.UpdatedAt
		out.UpdatedAt = &t
	}

	for _, it := range c.Items {
		row := CartItemDTO{ProductID: it.ProductID, Quantity: it.Quantity}
		if p, ok := products[it.ProductID]; ok {
			pd := FromProduct(p)
			row.Product = &pd
		}
		out.Items = append(out.Items, row)
	}
	return out
}
