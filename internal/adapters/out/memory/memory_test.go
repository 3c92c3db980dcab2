package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cartdom "storefront/internal/domain/cart"
	productdom "storefront/internal/domain/product"
)

func TestCartRepositoryCreateIsUniquePerOwner(t *testing.T) {
	ctx := context.Background()
	r := NewCartRepositoryMem()
	now := time.Now().UTC()

	c, err := cartdom.NewCart("u1", []cartdom.CartItem{{ProductID: "p1", Quantity: 1}}, now)
	require.NoError(t, err)

	created, err := r.Create(ctx, c)
	require.NoError(t, err)
	assert.Equal(t, "u1", created.ID)

	_, err = r.Create(ctx, c)
	assert.ErrorIs(t, err, cartdom.ErrConflict)
	assert.Equal(t, 1, r.Len())
}

func TestCartRepositoryReturnsCopies(t *testing.T) {
	ctx := context.Background()
	r := NewCartRepositoryMem()
	now := time.Now().UTC()

	c, err := cartdom.NewCart("u1", []cartdom.CartItem{{ProductID: "p1", Quantity: 1}}, now)
	require.NoError(t, err)
	_, err = r.Create(ctx, c)
	require.NoError(t, err)

	got, err := r.GetByUserID(ctx, "u1")
	require.NoError(t, err)
	got.Items[0].Quantity = 99

	again, err := r.GetByUserID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, again.Items[0].Quantity)
}

func TestCartRepositoryAbsentAndSave(t *testing.T) {
	ctx := context.Background()
	r := NewCartRepositoryMem()

	got, err := r.GetByUserID(ctx, "nobody")
	require.NoError(t, err)
	assert.Nil(t, got)

	c, err := cartdom.NewCart("nobody", nil, time.Now().UTC())
	require.NoError(t, err)
	_, err = r.Save(ctx, c)
	assert.ErrorIs(t, err, cartdom.ErrNotFound)
}

func TestProductRepositoryLookups(t *testing.T) {
	ctx := context.Background()
	r := NewProductRepositoryMem(
		productdom.Product{ID: "p1", Name: "Laptop", Category: "Electronics"},
		productdom.Product{ID: "p2", Name: "Mouse", Category: "Electronics"},
		productdom.Product{ID: "p3", Name: "Chair", Category: "Furniture"},
	)

	ok, err := r.Exists(ctx, "p1")
	require.NoError(t, err)
	assert.True(t, ok)

	found, err := r.FindMany(ctx, []string{"p1", "gone", "p3", "p1"})
	require.NoError(t, err)
	assert.Len(t, found, 2)
	assert.Contains(t, found, "p1")
	assert.Contains(t, found, "p3")

	r.Delete("p1")
	ok, err = r.Exists(ctx, "p1")
	require.NoError(t, err)
	assert.False(t, ok)

	list, err := r.List(ctx, productdom.Filter{Category: "Electronics"}, productdom.Page{Limit: 10})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "p2", list[0].ID)
}

func TestProductRepositoryListPaging(t *testing.T) {
	ctx := context.Background()
	r := NewProductRepositoryMem()
	n, err := r.ReplaceAll(ctx, []productdom.Product{
		{Name: "a"}, {Name: "b"}, {Name: "c"},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	page, err := r.List(ctx, productdom.Filter{}, productdom.Page{Limit: 2, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "b", page[0].Name)
	assert.Equal(t, "c", page[1].Name)
	assert.NotEmpty(t, page[0].ID)
	assert.False(t, page[0].CreatedAt.IsZero())
}

func TestProductRepositoryReplaceAllRejectsInvalid(t *testing.T) {
	r := NewProductRepositoryMem(productdom.Product{ID: "keep", Name: "keep"})
	_, err := r.ReplaceAll(context.Background(), []productdom.Product{{Name: ""}})
	assert.ErrorIs(t, err, productdom.ErrInvalid)

	ok, err := r.Exists(context.Background(), "keep")
	require.NoError(t, err)
	assert.True(t, ok, "failed replace must leave the catalog intact")
}
