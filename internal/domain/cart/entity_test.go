package cart

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

func TestNewCart(t *testing.T) {
	t.Run("empty items", func(t *testing.T) {
		c, err := NewCart("u1", nil, t0)
		require.NoError(t, err)
		assert.Equal(t, "u1", c.UserID)
		assert.Empty(t, c.Items)
		assert.NotNil(t, c.Items)
		assert.Equal(t, t0, c.CreatedAt)
		assert.Equal(t, t0, c.UpdatedAt)
	})

	t.Run("merges duplicates keeping first-seen order", func(t *testing.T) {
		c, err := NewCart("u1", []CartItem{
			{ProductID: "p2", Quantity: 1},
			{ProductID: " p1 ", Quantity: 2},
			{ProductID: "p2", Quantity: 4},
		}, t0)
		require.NoError(t, err)
		assert.Equal(t, []CartItem{{ProductID: "p2", Quantity: 5}, {ProductID: "p1", Quantity: 2}}, c.Items)
	})

	t.Run("blank owner", func(t *testing.T) {
		_, err := NewCart("  ", nil, t0)
		assert.ErrorIs(t, err, ErrInvalidCart)
	})

	t.Run("zero quantity", func(t *testing.T) {
		_, err := NewCart("u1", []CartItem{{ProductID: "p1", Quantity: 0}}, t0)
		assert.ErrorIs(t, err, ErrInvalidQuantity)
	})
}

func TestCartAddMerges(t *testing.T) {
	c, err := NewCart("u1", nil, t0)
	require.NoError(t, err)

	t1 := t0.Add(time.Minute)
	require.NoError(t, c.Add("p", 2, t0))
	require.NoError(t, c.Add("p", 3, t1))

	require.Len(t, c.Items, 1)
	assert.Equal(t, 5, c.Items[0].Quantity)
	assert.Equal(t, t1, c.UpdatedAt)
	assert.Equal(t, t0, c.CreatedAt)
}

func TestCartAddRejectsInvalidInput(t *testing.T) {
	c, err := NewCart("u1", nil, t0)
	require.NoError(t, err)

	assert.ErrorIs(t, c.Add("", 1, t0), ErrInvalidProductID)
	assert.ErrorIs(t, c.Add("p", 0, t0), ErrInvalidQuantity)
	assert.ErrorIs(t, c.Add("p", -3, t0), ErrInvalidQuantity)
	assert.Empty(t, c.Items)
}

func TestCartSetQtyReplaces(t *testing.T) {
	c, err := NewCart("u1", []CartItem{{ProductID: "p", Quantity: 2}}, t0)
	require.NoError(t, err)

	require.NoError(t, c.SetQty("p", 7, t0))
	it, ok := c.Item("p")
	require.True(t, ok)
	assert.Equal(t, 7, it.Quantity)

	assert.ErrorIs(t, c.SetQty("missing", 1, t0), ErrItemNotFound)
	assert.ErrorIs(t, c.SetQty("p", 0, t0), ErrInvalidQuantity)

	it, _ = c.Item("p")
	assert.Equal(t, 7, it.Quantity, "rejected update must not change the line")
}

func TestCartRemoveIsIdempotent(t *testing.T) {
	c, err := NewCart("u1", []CartItem{{ProductID: "a", Quantity: 1}, {ProductID: "b", Quantity: 2}, {ProductID: "c", Quantity: 3}}, t0)
	require.NoError(t, err)
	snapshot := c.Clone()

	t1 := t0.Add(time.Second)
	assert.True(t, c.Remove("b", t1))
	assert.Equal(t, []CartItem{{ProductID: "a", Quantity: 1}, {ProductID: "c", Quantity: 3}}, c.Items)
	assert.Equal(t, t1, c.UpdatedAt)

	assert.False(t, c.Remove("b", t1.Add(time.Second)))
	assert.Equal(t, t1, c.UpdatedAt, "no-op remove must not touch the cart")

	// the clone taken before removal is unaffected
	assert.Len(t, snapshot.Items, 3)
}

func TestCartPrune(t *testing.T) {
	c, err := NewCart("u1", []CartItem{{ProductID: "A", Quantity: 1}, {ProductID: "B", Quantity: 2}}, t0)
	require.NoError(t, err)

	live := map[string]bool{"A": true}
	t1 := t0.Add(time.Hour)

	removed := c.Prune(func(id string) bool { return live[id] }, t1)
	assert.Equal(t, []string{"B"}, removed)
	assert.Equal(t, []CartItem{{ProductID: "A", Quantity: 1}}, c.Items)
	assert.Equal(t, t1, c.UpdatedAt)

	// second prune is a no-op
	removed = c.Prune(func(id string) bool { return live[id] }, t1.Add(time.Hour))
	assert.Nil(t, removed)
	assert.Equal(t, t1, c.UpdatedAt)
}

func TestCartValidateDetectsDuplicates(t *testing.T) {
	c := &Cart{
		UserID:    "u1",
		Items:     []CartItem{{ProductID: "p", Quantity: 1}, {ProductID: "p", Quantity: 1}},
		CreatedAt: t0,
		UpdatedAt: t0,
	}
	assert.ErrorIs(t, c.Validate(), ErrInvalidCart)
}

func TestCartProductIDs(t *testing.T) {
	c, err := NewCart("u1", []CartItem{{ProductID: "x", Quantity: 1}, {ProductID: "y", Quantity: 1}}, t0)
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, c.ProductIDs())

	var nilCart *Cart
	assert.Nil(t, nilCart.ProductIDs())
}

func TestMutationsTolerateClockSteppingBack(t *testing.T) {
	c, err := NewCart("u1", []CartItem{{ProductID: "p1", Quantity: 1}}, t0)
	require.NoError(t, err)

	earlier := t0.Add(-5 * time.Millisecond)

	require.NoError(t, c.Add("p1", 1, earlier))
	require.NoError(t, c.SetQty("p1", 4, earlier))
	require.NoError(t, c.Add("p2", 1, earlier))
	assert.True(t, c.Remove("p2", earlier))
	assert.Equal(t, []string{"p1"}, c.ProductIDs())

	assert.Equal(t, t0, c.CreatedAt)
	assert.Equal(t, t0, c.UpdatedAt)
	assert.NoError(t, c.Validate())
}
