// internal/adapters/out/mongo/product_repository_mongo.go
package mongo

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	productdom "storefront/internal/domain/product"
)

// ProductRepositoryMongo is a product catalog on a "products" collection.
// Product ids are ObjectID hex strings; an id that is not valid hex is simply absent.
type ProductRepositoryMongo struct {
	Coll *mongo.Collection
}

func NewProductRepositoryMongo(db *mongo.Database) *ProductRepositoryMongo {
	return &ProductRepositoryMongo{Coll: db.Collection("products")}
}

var (
	_ productdom.Catalog = (*ProductRepositoryMongo)(nil)
	_ productdom.Writer  = (*ProductRepositoryMongo)(nil)
)

func (r *ProductRepositoryMongo) Exists(ctx context.Context, id string) (bool, error) {
	if r == nil || r.Coll == nil {
		return false, errors.New("product_repository_mongo: collection is nil")
	}
	oid, ok := parseObjectID(id)
	if !ok {
		return false, nil
	}
	n, err := r.Coll.CountDocuments(ctx, bson.M{"_id": oid}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *ProductRepositoryMongo) FindByID(ctx context.Context, id string) (productdom.Product, bool, error) {
	if r == nil || r.Coll == nil {
		return productdom.Product{}, false, errors.New("product_repository_mongo: collection is nil")
	}
	oid, ok := parseObjectID(id)
	if !ok {
		return productdom.Product{}, false, nil
	}

	var doc productDoc
	if err := r.Coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return productdom.Product{}, false, nil
		}
		return productdom.Product{}, false, err
	}
	return doc.toDomain(), true, nil
}

func (r *ProductRepositoryMongo) FindMany(ctx context.Context, ids []string) (map[string]productdom.Product, error) {
	if r == nil || r.Coll == nil {
		return nil, errors.New("product_repository_mongo: collection is nil")
	}

	oids := objectIDs(ids)
	out := make(map[string]productdom.Product, len(oids))
	if len(oids) == 0 {
		return out, nil
	}

	cur, err := r.Coll.Find(ctx, bson.M{"_id": bson.M{"$in": oids}})
	if err != nil {
		return nil, err
	}
	var docs []productDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	for _, d := range docs {
		p := d.toDomain()
		out[p.ID] = p
	}
	return out, nil
}

func (r *ProductRepositoryMongo) List(ctx context.Context, f productdom.Filter, p productdom.Page) ([]productdom.Product, error) {
	if r == nil || r.Coll == nil {
		return nil, errors.New("product_repository_mongo: collection is nil")
	}
	p = p.Normalize()

	filter := bson.M{}
	if c := strings.TrimSpace(f.Category); c != "" {
		filter["category"] = c
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetSkip(int64(p.Offset)).
		SetLimit(int64(p.Limit))

	cur, err := r.Coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	var docs []productDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	items := make([]productdom.Product, 0, len(docs))
	for _, d := range docs {
		items = append(items, d.toDomain())
	}
	return items, nil
}

// ReplaceAll mirrors the catalog seeder: deleteMany({}) then insertMany(items).
func (r *ProductRepositoryMongo) ReplaceAll(ctx context.Context, items []productdom.Product) (int, error) {
	if r == nil || r.Coll == nil {
		return 0, errors.New("product_repository_mongo: collection is nil")
	}
	for _, p := range items {
		if err := p.Validate(); err != nil {
			return 0, err
		}
	}

	if _, err := r.Coll.DeleteMany(ctx, bson.M{}); err != nil {
		return 0, err
	}
	if len(items) == 0 {
		return 0, nil
	}

	now := time.Now().UTC()
	docs := make([]any, 0, len(items))
	for _, p := range items {
		if p.CreatedAt.IsZero() {
			p.CreatedAt = now
		}
		if p.UpdatedAt.IsZero() {
			p.UpdatedAt = p.CreatedAt
		}
		docs = append(docs, productDocFromDomain(p))
	}

	res, err := r.Coll.InsertMany(ctx, docs)
	if err != nil {
		return 0, err
	}
	return len(res.InsertedIDs), nil
}

// -----------------------------------------
// BSON mapping
// -----------------------------------------

type productDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Price     float64            `bson:"price"`
	ImageURL  string             `bson:"imageUrl"`
	Category  string             `bson:"category"`
	Stock     int                `bson:"stock"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

func productDocFromDomain(p productdom.Product) productDoc {
	oid, ok := parseObjectID(p.ID)
	if !ok {
		oid = primitive.NewObjectID()
	}
	return productDoc{
		ID:        oid,
		Name:      strings.TrimSpace(p.Name),
		Price:     p.Price,
		ImageURL:  strings.TrimSpace(p.ImageURL),
		Category:  strings.TrimSpace(p.Category),
		Stock:     p.Stock,
		CreatedAt: p.CreatedAt.UTC(),
		UpdatedAt: p.UpdatedAt.UTC(),
	}
}

func (d productDoc) toDomain() productdom.Product {
	return productdom.Product{
		ID:        d.ID.Hex(),
		Name:      d.Name,
		Price:     d.Price,
		ImageURL:  d.ImageURL,
		Category:  d.Category,
		Stock:     d.Stock,
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
	}
}

func parseObjectID(id string) (primitive.ObjectID, bool) {
	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return primitive.NilObjectID, false
	}
	return oid, true
}

// objectIDs converts ids, skipping malformed and duplicate ones.
func objectIDs(ids []string) []primitive.ObjectID {
	ids = productdom.DedupIDs(ids)
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, ok := parseObjectID(id); ok {
			out = append(out, oid)
		}
	}
	return out
}
