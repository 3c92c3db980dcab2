// internal/adapters/out/memory/product_repository_mem.go
package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	productdom "storefront/internal/domain/product"
)

// ProductRepositoryMem is an in-process catalog. Listing order is insertion order.
type ProductRepositoryMem struct {
	mu    sync.RWMutex
	byID  map[string]productdom.Product
	order []string
}

func NewProductRepositoryMem(seed ...productdom.Product) *ProductRepositoryMem {
	r := &ProductRepositoryMem{byID: make(map[string]productdom.Product)}
	for _, p := range seed {
		r.put(p)
	}
	return r
}

var (
	_ productdom.Catalog = (*ProductRepositoryMem)(nil)
	_ productdom.Writer  = (*ProductRepositoryMem)(nil)
)

func (r *ProductRepositoryMem) Exists(ctx context.Context, id string) (bool, error) {
	_, ok, err := r.FindByID(ctx, id)
	return ok, err
}

func (r *ProductRepositoryMem) FindByID(ctx context.Context, id string) (productdom.Product, bool, error) {
	if err := ctx.Err(); err != nil {
		return productdom.Product{}, false, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.byID[strings.TrimSpace(id)]
	return p, ok, nil
}

func (r *ProductRepositoryMem) FindMany(ctx context.Context, ids []string) (map[string]productdom.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ids = productdom.DedupIDs(ids)

	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]productdom.Product, len(ids))
	for _, id := range ids {
		if p, ok := r.byID[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func (r *ProductRepositoryMem) List(ctx context.Context, f productdom.Filter, p productdom.Page) ([]productdom.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p = p.Normalize()

	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]productdom.Product, 0, p.Limit)
	skipped := 0
	for _, id := range r.order {
		it := r.byID[id]
		if f.Category != "" && it.Category != f.Category {
			continue
		}
		if skipped < p.Offset {
			skipped++
			continue
		}
		out = append(out, it)
		if len(out) == p.Limit {
			break
		}
	}
	return out, nil
}

// ReplaceAll drops the catalog and inserts items. Missing ids are generated.
func (r *ProductRepositoryMem) ReplaceAll(ctx context.Context, items []productdom.Product) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	for _, p := range items {
		if err := p.Validate(); err != nil {
			return 0, err
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID = make(map[string]productdom.Product, len(items))
	r.order = r.order[:0]
	now := time.Now().UTC()
	for _, p := range items {
		if p.CreatedAt.IsZero() {
			p.CreatedAt = now
		}
		if p.UpdatedAt.IsZero() {
			p.UpdatedAt = p.CreatedAt
		}
		r.putLocked(p)
	}
	return len(items), nil
}

// Delete removes a product. Carts referencing it keep their lines until the next read prunes them.
func (r *ProductRepositoryMem) Delete(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id = strings.TrimSpace(id)
	if _, ok := r.byID[id]; !ok {
		return
	}
	delete(r.byID, id)
	kept := r.order[:0]
	for _, o := range r.order {
		if o != id {
			kept = append(kept, o)
		}
	}
	r.order = kept
}

func (r *ProductRepositoryMem) put(p productdom.Product) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.putLocked(p)
}

func (r *ProductRepositoryMem) putLocked(p productdom.Product) {
	p.ID = strings.TrimSpace(p.ID)
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if _, exists := r.byID[p.ID]; !exists {
		r.order = append(r.order, p.ID)
	}
	r.byID[p.ID] = p
}
