// internal/adapters/out/mongo/cart_repository_mongo.go
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

	cartdom "storefront/internal/domain/cart"
)

// CartRepositoryMongo implements cart.Repository on a "carts" collection.
// A unique index on "user" keeps one cart per owner; EnsureIndexes must run once at startup.
type CartRepositoryMongo struct {
	Coll *mongo.Collection
}

func NewCartRepositoryMongo(db *mongo.Database) *CartRepositoryMongo {
	return &CartRepositoryMongo{Coll: db.Collection("carts")}
}

var _ cartdom.Repository = (*CartRepositoryMongo)(nil)

func (r *CartRepositoryMongo) EnsureIndexes(ctx context.Context) error {
	if r == nil || r.Coll == nil {
		return errors.New("cart_repository_mongo: collection is nil")
	}
	_, err := r.Coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("carts_user_unique"),
	})
	return err
}

// GetByUserID returns (nil, nil) if not found (nil policy).
func (r *CartRepositoryMongo) GetByUserID(ctx context.Context, userID string) (*cartdom.Cart, error) {
	if r == nil || r.Coll == nil {
		return nil, errors.New("cart_repository_mongo: collection is nil")
	}

	uid := strings.TrimSpace(userID)
	if uid == "" {
		return nil, errors.New("cart_repository_mongo: userID is empty")
	}

	var doc cartDoc
	if err := r.Coll.FindOne(ctx, bson.M{"user": uid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *CartRepositoryMongo) Create(ctx context.Context, c *cartdom.Cart) (*cartdom.Cart, error) {
	if r == nil || r.Coll == nil {
		return nil, errors.New("cart_repository_mongo: collection is nil")
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}

	doc := cartDocFromDomain(c)
	doc.ID = primitive.NewObjectID()

	if _, err := r.Coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, cartdom.ErrConflict
		}
		return nil, err
	}
	return doc.toDomain(), nil
}

// Save replaces the whole document. The filter pins both _id and owner so a
// cart can never migrate between users.
func (r *CartRepositoryMongo) Save(ctx context.Context, c *cartdom.Cart) (*cartdom.Cart, error) {
	if r == nil || r.Coll == nil {
		return nil, errors.New("cart_repository_mongo: collection is nil")
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}

	doc := cartDocFromDomain(c)
	filter := bson.M{"user": doc.User}
	if oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(c.ID)); err == nil {
		doc.ID = oid
		filter["_id"] = oid
	} else {
		// no id on hand: resolve it so the replacement keeps the stored _id
		var cur cartDoc
		if err := r.Coll.FindOne(ctx, filter).Decode(&cur); err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return nil, cartdom.ErrNotFound
			}
			return nil, err
		}
		doc.ID = cur.ID
		filter["_id"] = cur.ID
	}

	res, err := r.Coll.ReplaceOne(ctx, filter, doc)
	if err != nil {
		return nil, err
	}
	if res.MatchedCount == 0 {
		return nil, cartdom.ErrNotFound
	}
	return doc.toDomain(), nil
}

// -----------------------------------------
// BSON mapping
// -----------------------------------------

type cartDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	User      string             `bson:"user"`
	Items     []cartItemDoc      `bson:"items"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

type cartItemDoc struct {
	Product  string `bson:"product"`
	Quantity int    `bson:"quantity"`
}

func cartDocFromDomain(c *cartdom.Cart) cartDoc {
	items := make([]cartItemDoc, 0, len(c.Items))
	for _, it := range c.Items {
		items = append(items, cartItemDoc{Product: it.ProductID, Quantity: it.Quantity})
	}
	return cartDoc{
		User:      strings.TrimSpace(c.UserID),
		Items:     items,
		CreatedAt: c.CreatedAt.UTC(),
		UpdatedAt: c.UpdatedAt.UTC(),
	}
}

func (d cartDoc) toDomain() *cartdom.Cart {
	c := &cartdom.Cart{
		UserID:    d.User,
		Items:     make([]cartdom.CartItem, 0, len(d.Items)),
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
	}
	if !d.ID.IsZero() {
		c.ID = d.ID.Hex()
	}
	// drop broken rows and merge repeated products so the cart can be saved again
	index := make(map[string]int, len(d.Items))
	for _, it := range d.Items {
		pid := strings.TrimSpace(it.Product)
		if pid == "" || it.Quantity < 1 {
			continue
		}
		if i, seen := index[pid]; seen {
			c.Items[i].Quantity += it.Quantity
			continue
		}
		index[pid] = len(c.Items)
		c.Items = append(c.Items, cartdom.CartItem{ProductID: pid, Quantity: it.Quantity})
	}
	if c.UpdatedAt.Before(c.CreatedAt) {
		c.UpdatedAt = c.CreatedAt
	}
	return c
}
