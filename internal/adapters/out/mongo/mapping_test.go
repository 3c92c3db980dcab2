package mongo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	cartdom "storefront/internal/domain/cart"
	productdom "storefront/internal/domain/product"
)

func TestCartDocBSON(t *testing.T) {
	now := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	c, err := cartdom.NewCart("u1", []cartdom.CartItem{{ProductID: "p1", Quantity: 2}, {ProductID: "p2", Quantity: 1}}, now)
	require.NoError(t, err)

	doc := cartDocFromDomain(c)
	doc.ID = primitive.NewObjectID()

	raw, err := bson.Marshal(doc)
	require.NoError(t, err)

	var decoded cartDoc
	require.NoError(t, bson.Unmarshal(raw, &decoded))

	got := decoded.toDomain()
	assert.Equal(t, doc.ID.Hex(), got.ID)
	assert.Equal(t, "u1", got.UserID)
	assert.Equal(t, c.Items, got.Items)
	assert.True(t, now.Equal(got.CreatedAt))

	// stored field names follow the document layout of the cart collection
	var m bson.M
	require.NoError(t, bson.Unmarshal(raw, &m))
	assert.Contains(t, m, "user")
	assert.Contains(t, m, "items")
}

func TestObjectIDsSkipsMalformed(t *testing.T) {
	good := primitive.NewObjectID().Hex()
	got := objectIDs([]string{good, "not-hex", "", good})
	require.Len(t, got, 1)
	assert.Equal(t, good, got[0].Hex())
}

func TestProductDocKeepsValidHexID(t *testing.T) {
	id := primitive.NewObjectID().Hex()
	doc := productDocFromDomain(productdom.Product{ID: id, Name: " Laptop "})
	assert.Equal(t, id, doc.ID.Hex())
	assert.Equal(t, "Laptop", doc.Name)

	generated := productDocFromDomain(productdom.Product{ID: "seed-1", Name: "Mouse"})
	assert.False(t, generated.ID.IsZero())
}

func TestCartDocToDomainRepairsBadRows(t *testing.T) {
	now := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	doc := cartDoc{
		ID:   primitive.NewObjectID(),
		User: "u1",
		Items: []cartItemDoc{
			{Product: "p1", Quantity: 2},
			{Product: "p2", Quantity: 0},
			{Product: " ", Quantity: 3},
			{Product: "p1 ", Quantity: 1},
			{Product: "p3", Quantity: -1},
		},
		CreatedAt: now,
		UpdatedAt: now.Add(-time.Second),
	}

	c := doc.toDomain()
	assert.Equal(t, []cartdom.CartItem{{ProductID: "p1", Quantity: 3}}, c.Items)
	assert.Equal(t, now, c.UpdatedAt)
	assert.NoError(t, c.Validate())
}
