// internal/adapters/out/firestore/product_repository_fs.go
package firestore

import (
	"context"
	"errors"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	productdom "storefront/internal/domain/product"
)

// firestore batches accept up to 500 writes; stay well below.
const batchSize = 400

// ProductRepositoryFS is a Firestore-based product catalog.
type ProductRepositoryFS struct {
	Client *firestore.Client
}

func NewProductRepositoryFS(client *firestore.Client) *ProductRepositoryFS {
	return &ProductRepositoryFS{Client: client}
}

var (
	_ productdom.Catalog = (*ProductRepositoryFS)(nil)
	_ productdom.Writer  = (*ProductRepositoryFS)(nil)
)

func (r *ProductRepositoryFS) col() *firestore.CollectionRef {
	return r.Client.Collection("products")
}

// ============================================================
// Lookup
// ============================================================

// Exists checks if a product with the given ID exists
func (r *ProductRepositoryFS) Exists(ctx context.Context, id string) (bool, error) {
	_, ok, err := r.FindByID(ctx, id)
	return ok, err
}

func (r *ProductRepositoryFS) FindByID(ctx context.Context, id string) (productdom.Product, bool, error) {
	if r.Client == nil {
		return productdom.Product{}, false, errors.New("firestore client is nil")
	}

	id = strings.TrimSpace(id)
	if !validDocID(id) {
		return productdom.Product{}, false, nil
	}

	snap, err := r.col().Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return productdom.Product{}, false, nil
		}
		return productdom.Product{}, false, err
	}
	return productFromData(snap.Ref.ID, snap.Data()), true, nil
}

// FindMany resolves ids with a single batched read. Missing documents are left out of the map.
func (r *ProductRepositoryFS) FindMany(ctx context.Context, ids []string) (map[string]productdom.Product, error) {
	if r.Client == nil {
		return nil, errors.New("firestore client is nil")
	}

	ids = productdom.DedupIDs(ids)
	out := make(map[string]productdom.Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	refs := make([]*firestore.DocumentRef, 0, len(ids))
	for _, id := range ids {
		if validDocID(id) {
			refs = append(refs, r.col().Doc(id))
		}
	}
	if len(refs) == 0 {
		return out, nil
	}

	snaps, err := r.Client.GetAll(ctx, refs)
	if err != nil {
		return nil, err
	}
	for _, snap := range snaps {
		if snap == nil || !snap.Exists() {
			continue
		}
		out[snap.Ref.ID] = productFromData(snap.Ref.ID, snap.Data())
	}
	return out, nil
}

// ============================================================
// Catalog
// ============================================================

func (r *ProductRepositoryFS) List(ctx context.Context, f productdom.Filter, p productdom.Page) ([]productdom.Product, error) {
	if r.Client == nil {
		return nil, errors.New("firestore client is nil")
	}
	p = p.Normalize()

	q := r.col().Query
	if c := strings.TrimSpace(f.Category); c != "" {
		q = q.Where("category", "==", c)
	}
	q = q.Offset(p.Offset).Limit(p.Limit)

	it := q.Documents(ctx)
	defer it.Stop()

	items := make([]productdom.Product, 0, p.Limit)
	for {
		doc, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, err
		}
		items = append(items, productFromData(doc.Ref.ID, doc.Data()))
	}
	return items, nil
}

// ============================================================
// Writer
// ============================================================

// ReplaceAll deletes every product document and writes items in batches.
// Items without an ID get a Firestore auto-ID.
func (r *ProductRepositoryFS) ReplaceAll(ctx context.Context, items []productdom.Product) (int, error) {
	if r.Client == nil {
		return 0, errors.New("firestore client is nil")
	}
	for _, p := range items {
		if err := p.Validate(); err != nil {
			return 0, err
		}
	}

	if err := r.deleteAll(ctx); err != nil {
		return 0, err
	}

	now := time.Now().UTC()
	batch := r.Client.Batch()
	pending := 0
	for _, p := range items {
		ref := r.col().NewDoc()
		if id := strings.TrimSpace(p.ID); id != "" {
			ref = r.col().Doc(id)
		}
		if p.CreatedAt.IsZero() {
			p.CreatedAt = now
		}
		if p.UpdatedAt.IsZero() {
			p.UpdatedAt = p.CreatedAt
		}
		batch.Set(ref, productToData(p))
		pending++
		if pending == batchSize {
			if _, err := batch.Commit(ctx); err != nil {
				return 0, err
			}
			batch = r.Client.Batch()
			pending = 0
		}
	}
	if pending > 0 {
		if _, err := batch.Commit(ctx); err != nil {
			return 0, err
		}
	}
	return len(items), nil
}

func (r *ProductRepositoryFS) deleteAll(ctx context.Context) error {
	it := r.col().Documents(ctx)
	defer it.Stop()

	batch := r.Client.Batch()
	count := 0
	for {
		doc, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return err
		}
		batch.Delete(doc.Ref)
		count++
		if count%batchSize == 0 {
			if _, err := batch.Commit(ctx); err != nil {
				return err
			}
			batch = r.Client.Batch()
		}
	}
	if count%batchSize != 0 {
		if _, err := batch.Commit(ctx); err != nil {
			return err
		}
	}
	return nil
}

// ============================================================
// mapping
// ============================================================

// validDocID reports whether id can name a document directly under a collection.
// Anything else cannot exist in the catalog and is treated as absent.
func validDocID(id string) bool {
	if id == "" || id == "." || id == ".." || len(id) > 1500 {
		return false
	}
	if strings.Contains(id, "/") {
		return false
	}
	return !(strings.HasPrefix(id, "__") && strings.HasSuffix(id, "__"))
}

func productToData(p productdom.Product) map[string]any {
	return map[string]any{
		"name":      strings.TrimSpace(p.Name),
		"price":     p.Price,
		"imageUrl":  strings.TrimSpace(p.ImageURL),
		"category":  strings.TrimSpace(p.Category),
		"stock":     p.Stock,
		"createdAt": p.CreatedAt.UTC(),
		"updatedAt": p.UpdatedAt.UTC(),
	}
}

func productFromData(id string, raw map[string]any) productdom.Product {
	p := productdom.Product{ID: id}
	if raw == nil {
		return p
	}
	p.Name = asString(raw["name"])
	p.Price = asFloat(raw["price"])
	p.ImageURL = asString(raw["imageUrl"])
	p.Category = asString(raw["category"])
	p.Stock = asInt(raw["stock"])
	if t, ok := asTime(raw["createdAt"]); ok {
		p.CreatedAt = t
	}
	if t, ok := asTime(raw["updatedAt"]); ok {
		p.UpdatedAt = t
	}
	return p
}
