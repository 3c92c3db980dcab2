// internal/domain/cart/entity.go
package cart

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrInvalidCart      = errors.New("cart: invalid")
	ErrInvalidProductID = errors.New("cart: invalid productId")
	ErrInvalidQuantity  = errors.New("cart: quantity must be >= 1")
	ErrItemNotFound     = errors.New("cart: product not in cart")

	// Repository errors.
	ErrNotFound = errors.New("cart: not found")
	ErrConflict = errors.New("cart: already exists for user")
)

// CartItem is one line item: a product reference and how many of it.
type CartItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// Cart is the per-user cart document.
//   - UserID is the owner; a user owns at most one cart.
//   - Items keeps insertion order; product ids are unique within it.
type Cart struct {
	// ID is the store document id (Firestore: = UserID, Mongo: ObjectID hex).
	ID     string     `json:"id"`
	UserID string     `json:"user"`
	Items  []CartItem `json:"items"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewCart creates a cart for userID.
// items can be nil (treated as empty); duplicate product ids are merged by summing quantities.
func NewCart(userID string, items []CartItem, now time.Time) (*Cart, error) {
	uid := strings.TrimSpace(userID)

	normalized, err := normalizeItems(items)
	if err != nil {
		return nil, err
	}

	c := &Cart{
		UserID:    uid,
		Items:     normalized,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Add increases the quantity of productID by qty, appending a new line if the
// product is not in the cart yet. qty must be >= 1.
func (c *Cart) Add(productID string, qty int, now time.Time) error {
	if c == nil {
		return ErrInvalidCart
	}

	pid := strings.TrimSpace(productID)
	if pid == "" {
		return ErrInvalidProductID
	}
	if qty < 1 {
		return ErrInvalidQuantity
	}

	if idx := c.indexOf(pid); idx >= 0 {
		c.Items[idx].Quantity += qty
	} else {
		c.Items = append(c.Items, CartItem{ProductID: pid, Quantity: qty})
	}

	c.touch(now)
	return c.validate()
}

// SetQty replaces the quantity of an existing line.
// Returns ErrItemNotFound when productID is not in the cart.
func (c *Cart) SetQty(productID string, qty int, now time.Time) error {
	if c == nil {
		return ErrInvalidCart
	}

	pid := strings.TrimSpace(productID)
	if pid == "" {
		return ErrInvalidProductID
	}
	if qty < 1 {
		return ErrInvalidQuantity
	}

	idx := c.indexOf(pid)
	if idx < 0 {
		return ErrItemNotFound
	}
	c.Items[idx].Quantity = qty

	c.touch(now)
	return c.validate()
}

// Remove deletes the line for productID if present and reports whether it did.
// Removing an absent product is not an error.
func (c *Cart) Remove(productID string, now time.Time) bool {
	if c == nil {
		return false
	}

	idx := c.indexOf(strings.TrimSpace(productID))
	if idx < 0 {
		return false
	}

	c.Items = append(c.Items[:idx:idx], c.Items[idx+1:]...)
	c.touch(now)
	return true
}

// Prune drops every line whose product is not live and returns the dropped product ids.
// The cart is only touched when something was dropped.
func (c *Cart) Prune(live func(productID string) bool, now time.Time) []string {
	if c == nil || live == nil || len(c.Items) == 0 {
		return nil
	}

	kept := make([]CartItem, 0, len(c.Items))
	var removed []string
	for _, it := range c.Items {
		if live(it.ProductID) {
			kept = append(kept, it)
			continue
		}
		removed = append(removed, it.ProductID)
	}

	if len(removed) == 0 {
		return nil
	}

	c.Items = kept
	c.touch(now)
	return removed
}

// ProductIDs returns the product ids referenced by the cart, in item order.
func (c *Cart) ProductIDs() []string {
	if c == nil {
		return nil
	}
	out := make([]string, 0, len(c.Items))
	for _, it := range c.Items {
		out = append(out, it.ProductID)
	}
	return out
}

// Item returns the line for productID.
func (c *Cart) Item(productID string) (CartItem, bool) {
	if c == nil {
		return CartItem{}, false
	}
	idx := c.indexOf(strings.TrimSpace(productID))
	if idx < 0 {
		return CartItem{}, false
	}
	return c.Items[idx], true
}

// Clone returns a deep copy so callers can mutate without sharing the items slice.
func (c *Cart) Clone() *Cart {
	if c == nil {
		return nil
	}
	cp := *c
	cp.Items = append([]CartItem(nil), c.Items...)
	if cp.Items == nil {
		cp.Items = []CartItem{}
	}
	return &cp
}

// touch keeps UpdatedAt >= CreatedAt even when the wall clock steps back.
func (c *Cart) touch(now time.Time) {
	if now.Before(c.CreatedAt) {
		now = c.CreatedAt
	}
	c.UpdatedAt = now
}

func (c *Cart) indexOf(productID string) int {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// Validate checks the cart invariants; stores call it before writing.
func (c *Cart) Validate() error {
	return c.validate()
}

func (c *Cart) validate() error {
	if c == nil {
		return ErrInvalidCart
	}
	if strings.TrimSpace(c.UserID) == "" {
		return ErrInvalidCart
	}
	if c.UpdatedAt.Before(c.CreatedAt) {
		return ErrInvalidCart
	}
	if c.Items == nil {
		c.Items = []CartItem{}
	}

	seen := make(map[string]struct{}, len(c.Items))
	for _, it := range c.Items {
		if strings.TrimSpace(it.ProductID) == "" {
			return ErrInvalidProductID
		}
		if it.Quantity < 1 {
			return ErrInvalidQuantity
		}
		if _, dup := seen[it.ProductID]; dup {
			return ErrInvalidCart
		}
		seen[it.ProductID] = struct{}{}
	}
	return nil
}

// normalizeItems trims ids and merges duplicate products, keeping first-seen order.
func normalizeItems(src []CartItem) ([]CartItem, error) {
	out := make([]CartItem, 0, len(src))
	index := make(map[string]int, len(src))

	for _, it := range src {
		pid := strings.TrimSpace(it.ProductID)
		if pid == "" {
			return nil, ErrInvalidProductID
		}
		if it.Quantity < 1 {
			return nil, ErrInvalidQuantity
		}

		if i, ok := index[pid]; ok {
			out[i].Quantity += it.Quantity
			continue
		}
		index[pid] = len(out)
		out = append(out, CartItem{ProductID: pid, Quantity: it.Quantity})
	}
	return out, nil
}
