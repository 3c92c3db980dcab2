package product

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageNormalize(t *testing.T) {
	assert.Equal(t, Page{Limit: DefaultPageLimit}, Page{}.Normalize())
	assert.Equal(t, Page{Limit: MaxPageLimit, Offset: 0}, Page{Limit: 500, Offset: -4}.Normalize())
	assert.Equal(t, Page{Limit: 5, Offset: 10}, Page{Limit: 5, Offset: 10}.Normalize())
}

func TestDedupIDs(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, DedupIDs([]string{" a", "", "b", "a ", "  "}))
	assert.Empty(t, DedupIDs(nil))
}

func TestProductValidate(t *testing.T) {
	assert.NoError(t, Product{Name: "Wireless Mouse", Price: 22, Stock: 30}.Validate())
	assert.ErrorIs(t, Product{Name: " "}.Validate(), ErrInvalid)
	assert.ErrorIs(t, Product{Name: "x", Price: -1}.Validate(), ErrInvalid)
	assert.ErrorIs(t, Product{Name: "x", Stock: -1}.Validate(), ErrInvalid)
}

func TestSeedProductsAreValid(t *testing.T) {
	seed := SeedProducts()
	assert.Len(t, seed, 15)

	names := map[string]bool{}
	for _, p := range seed {
		assert.NoError(t, p.Validate(), p.Name)
		assert.Empty(t, p.ID)
		assert.False(t, names[p.Name], "duplicate %s", p.Name)
		names[p.Name] = true
	}
}
