package db

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	productdom "storefront/internal/domain/product"
)

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, IsUniqueViolation(&pq.Error{Code: "23505"}))
	assert.True(t, IsUniqueViolation(fmt.Errorf("insert: %w", &pq.Error{Code: "23505"})))
	assert.False(t, IsUniqueViolation(&pq.Error{Code: "23503"}))
	assert.False(t, IsUniqueViolation(errors.New("boom")))
}

func TestPrepareInsert(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	p := prepareInsert(productdom.Product{Name: " Laptop ", Category: " Electronics "}, now)
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, "Laptop", p.Name)
	assert.Equal(t, "Electronics", p.Category)
	assert.Equal(t, now, p.CreatedAt)
	assert.Equal(t, now, p.UpdatedAt)

	kept := prepareInsert(productdom.Product{ID: " sku-1 ", Name: "Mouse"}, now)
	assert.Equal(t, "sku-1", kept.ID)
}

type fakeRow struct{ vals []any }

func (f fakeRow) Scan(dest ...any) error {
	for i, d := range dest {
		switch p := d.(type) {
		case *string:
			*p = f.vals[i].(string)
		case *float64:
			*p = f.vals[i].(float64)
		case *int:
			*p = f.vals[i].(int)
		case *time.Time:
			*p = f.vals[i].(time.Time)
		}
	}
	return nil
}

func TestScanProduct(t *testing.T) {
	ts := time.Date(2026, 1, 1, 9, 0, 0, 0, time.FixedZone("JST", 9*3600))
	p, err := scanProduct(fakeRow{vals: []any{"p1", "Laptop", 1200.0, "https://img", "Electronics", 10, ts, ts}})
	assert.NoError(t, err)
	assert.Equal(t, "p1", p.ID)
	assert.Equal(t, 10, p.Stock)
	assert.Equal(t, time.UTC, p.CreatedAt.Location())
}
