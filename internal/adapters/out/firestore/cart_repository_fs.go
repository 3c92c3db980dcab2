// internal/adapters/out/firestore/cart_repository_fs.go
package firestore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	cartdom "storefront/internal/domain/cart"
)

// CartRepositoryFS implements cart.Repository using Firestore.
//
// Collection design:
// - collection: carts
// - docId: userId (one document per owner; the key enforces uniqueness)
// - fields: user, items(array of {productId, quantity}), createdAt, updatedAt
type CartRepositoryFS struct {
	Client *firestore.Client
}

func NewCartRepositoryFS(client *firestore.Client) *CartRepositoryFS {
	return &CartRepositoryFS{Client: client}
}

var _ cartdom.Repository = (*CartRepositoryFS)(nil)

func (r *CartRepositoryFS) col() *firestore.CollectionRef {
	return r.Client.Collection("carts")
}

// GetByUserID returns (nil, nil) if not found (nil policy).
func (r *CartRepositoryFS) GetByUserID(ctx context.Context, userID string) (*cartdom.Cart, error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("cart_repository_fs: firestore client is nil")
	}

	uid := strings.TrimSpace(userID)
	if uid == "" {
		return nil, errors.New("cart_repository_fs: userID is empty")
	}

	snap, err := r.col().Doc(uid).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, err
	}

	c, err := cartFromData(snap.Data())
	if err != nil {
		return nil, fmt.Errorf("cart_repository_fs: decode %s: %w", uid, err)
	}
	// docId is the source of truth
	c.ID = uid
	c.UserID = uid
	return c, nil
}

// Create writes a new cart document. A second Create for the same owner fails
// with AlreadyExists, reported as cart.ErrConflict.
func (r *CartRepositoryFS) Create(ctx context.Context, c *cartdom.Cart) (*cartdom.Cart, error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("cart_repository_fs: firestore client is nil")
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}

	uid := strings.TrimSpace(c.UserID)
	if _, err := r.col().Doc(uid).Create(ctx, cartToData(c)); err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return nil, cartdom.ErrConflict
		}
		return nil, err
	}

	out := c.Clone()
	out.ID = uid
	return out, nil
}

// Save overwrites every field of an existing cart document.
// Update (rather than Set) keeps a concurrently deleted cart from being resurrected.
func (r *CartRepositoryFS) Save(ctx context.Context, c *cartdom.Cart) (*cartdom.Cart, error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("cart_repository_fs: firestore client is nil")
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}

	uid := strings.TrimSpace(c.UserID)
	data := cartToData(c)
	updates := make([]firestore.Update, 0, len(data))
	for _, k := range []string{"user", "items", "createdAt", "updatedAt"} {
		updates = append(updates, firestore.Update{Path: k, Value: data[k]})
	}

	if _, err := r.col().Doc(uid).Update(ctx, updates); err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, cartdom.ErrNotFound
		}
		return nil, err
	}

	out := c.Clone()
	out.ID = uid
	return out, nil
}

// -----------------------------------------
// Firestore mapping
// -----------------------------------------

func cartToData(c *cartdom.Cart) map[string]any {
	items := make([]map[string]any, 0, len(c.Items))
	for _, it := range c.Items {
		items = append(items, map[string]any{
			"productId": it.ProductID,
			"quantity":  it.Quantity,
		})
	}
	return map[string]any{
		"user":      strings.TrimSpace(c.UserID),
		"items":     items,
		"createdAt": c.CreatedAt.UTC(),
		"updatedAt": c.UpdatedAt.UTC(),
	}
}

// cartFromData parses snapshot data. Lines with a blank id or a non-positive
// quantity are dropped; repeated ids are merged.
func cartFromData(raw map[string]any) (*cartdom.Cart, error) {
	c := &cartdom.Cart{Items: []cartdom.CartItem{}}
	if raw == nil {
		return c, nil
	}

	c.UserID = strings.TrimSpace(asString(raw["user"]))
	if t, ok := asTime(raw["createdAt"]); ok {
		c.CreatedAt = t
	}
	if t, ok := asTime(raw["updatedAt"]); ok {
		c.UpdatedAt = t
	}

	list, _ := raw["items"].([]any)
	index := make(map[string]int, len(list))
	for _, v := range list {
		m, ok := v.(map[string]any)
		if !ok {
			continue
		}
		pid := strings.TrimSpace(asString(m["productId"]))
		qty := asInt(m["quantity"])
		if pid == "" || qty < 1 {
			continue
		}
		if i, seen := index[pid]; seen {
			c.Items[i].Quantity += qty
			continue
		}
		index[pid] = len(c.Items)
		c.Items = append(c.Items, cartdom.CartItem{ProductID: pid, Quantity: qty})
	}

	if c.UpdatedAt.Before(c.CreatedAt) {
		c.UpdatedAt = c.CreatedAt
	}
	return c, nil
}

func asString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case nil:
		return ""
	default:
		return fmt.Sprint(x)
	}
}

func asInt(v any) int {
	switch x := v.(type) {
	case int:
		return x
	case int32:
		return int(x)
	case int64:
		return int(x)
	case float64:
		return int(x)
	case float32:
		return int(x)
	default:
		return 0
	}
}

func asFloat(v any) float64 {
	switch x := v.(type) {
	case float64:
		return x
	case float32:
		return float64(x)
	case int:
		return float64(x)
	case int64:
		return float64(x)
	default:
		return 0
	}
}

func asTime(v any) (time.Time, bool) {
	switch x := v.(type) {
	case time.Time:
		return x.UTC(), true
	case *time.Time:
		if x == nil {
			return time.Time{}, false
		}
		return x.UTC(), true
	case string:
		t, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(x))
		if err != nil {
			return time.Time{}, false
		}
		return t.UTC(), true
	default:
		return time.Time{}, false
	}
}
