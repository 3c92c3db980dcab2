// internal/domain/product/entity.go
package product

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrNotFound  = errors.New("product: not found")
	ErrInvalidID = errors.New("product: invalid id")
	ErrInvalid   = errors.New("product: invalid")
)

// Product is the catalog entry a cart line refers to.
// The cart never owns it; it is read for existence checks and display.
type Product struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	ImageURL string  `json:"imageUrl"`
	Category string  `json:"category"`
	Stock    int     `json:"stock"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Validate is used by writers (seeding) before persisting.
func (p Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrInvalid
	}
	if p.Price < 0 || p.Stock < 0 {
		return ErrInvalid
	}
	return nil
}

// Filter narrows catalog listing.
type Filter struct {
	Category string
}

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// Page is an offset page.
type Page struct {
	Limit  int
	Offset int
}

// Normalize clamps the page into [1, MaxPageLimit] with a non-negative offset.
func (p Page) Normalize() Page {
	if p.Limit <= 0 {
		p.Limit = DefaultPageLimit
	}
	if p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

// DedupIDs trims ids, drops blanks and duplicates, keeping order.
func DedupIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
