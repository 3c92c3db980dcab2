// internal/adapters/out/memory/cart_repository_mem.go
package memory

import (
	"context"
	"strings"
	"sync"

	cartdom "storefront/internal/domain/cart"
)

// CartRepositoryMem is an in-process cart store keyed by owner.
// Create is atomic under the mutex, so one owner never gets two carts.
type CartRepositoryMem struct {
	mu    sync.RWMutex
	carts map[string]*cartdom.Cart
}

func NewCartRepositoryMem() *CartRepositoryMem {
	return &CartRepositoryMem{carts: make(map[string]*cartdom.Cart)}
}

var _ cartdom.Repository = (*CartRepositoryMem)(nil)

func (r *CartRepositoryMem) GetByUserID(ctx context.Context, userID string) (*cartdom.Cart, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	uid := strings.TrimSpace(userID)
	if uid == "" {
		return nil, nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.carts[uid]
	if !ok {
		return nil, nil
	}
	return c.Clone(), nil
}

func (r *CartRepositoryMem) Create(ctx context.Context, c *cartdom.Cart) (*cartdom.Cart, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.carts[c.UserID]; exists {
		return nil, cartdom.ErrConflict
	}

	stored := c.Clone()
	if stored.ID == "" {
		stored.ID = stored.UserID
	}
	r.carts[stored.UserID] = stored
	return stored.Clone(), nil
}

func (r *CartRepositoryMem) Save(ctx context.Context, c *cartdom.Cart) (*cartdom.Cart, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	prev, exists := r.carts[c.UserID]
	if !exists {
		return nil, cartdom.ErrNotFound
	}

	stored := c.Clone()
	stored.ID = prev.ID
	r.carts[stored.UserID] = stored
	return stored.Clone(), nil
}

// Len reports how many carts are stored.
func (r *CartRepositoryMem) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.carts)
}
