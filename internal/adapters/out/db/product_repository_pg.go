// internal/adapters/out/db/product_repository_pg.go
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	productdom "storefront/internal/domain/product"
)

const productSchema = `
CREATE TABLE IF NOT EXISTS products (
  id         TEXT PRIMARY KEY,
  name       TEXT NOT NULL,
  price      DOUBLE PRECISION NOT NULL DEFAULT 0,
  image_url  TEXT NOT NULL DEFAULT '',
  category   TEXT NOT NULL DEFAULT '',
  stock      INTEGER NOT NULL DEFAULT 0,
  created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS products_category_idx ON products (category);`

const productColumns = `id, name, price, image_url, category, stock, created_at, updated_at`

// ProductRepositoryPG is a product catalog on a "products" table.
type ProductRepositoryPG struct {
	DB *sql.DB
}

func NewProductRepositoryPG(db *sql.DB) *ProductRepositoryPG {
	return &ProductRepositoryPG{DB: db}
}

var (
	_ productdom.Catalog = (*ProductRepositoryPG)(nil)
	_ productdom.Writer  = (*ProductRepositoryPG)(nil)
)

// EnsureSchema creates the products table if it does not exist.
func (r *ProductRepositoryPG) EnsureSchema(ctx context.Context) error {
	_, err := r.DB.ExecContext(ctx, productSchema)
	return err
}

// ========================
// Lookup
// ========================

func (r *ProductRepositoryPG) Exists(ctx context.Context, id string) (bool, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return false, nil
	}
	var ok bool
	err := r.DB.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM products WHERE id = $1)`, id).Scan(&ok)
	if err != nil {
		return false, err
	}
	return ok, nil
}

func (r *ProductRepositoryPG) FindByID(ctx context.Context, id string) (productdom.Product, bool, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return productdom.Product{}, false, nil
	}

	row := r.DB.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return productdom.Product{}, false, nil
		}
		return productdom.Product{}, false, err
	}
	return p, true, nil
}

func (r *ProductRepositoryPG) FindMany(ctx context.Context, ids []string) (map[string]productdom.Product, error) {
	ids = productdom.DedupIDs(ids)
	out := make(map[string]productdom.Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	rows, err := r.DB.QueryContext(ctx, `SELECT `+productColumns+` FROM products WHERE id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out[p.ID] = p
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ========================
// Catalog
// ========================

func (r *ProductRepositoryPG) List(ctx context.Context, f productdom.Filter, p productdom.Page) ([]productdom.Product, error) {
	p = p.Normalize()

	var (
		where []string
		args  []any
	)
	if c := strings.TrimSpace(f.Category); c != "" {
		args = append(args, c)
		where = append(where, fmt.Sprintf("category = $%d", len(args)))
	}
	whereSQL := ""
	if len(where) > 0 {
		whereSQL = "WHERE " + strings.Join(where, " AND ")
	}

	q := fmt.Sprintf(`
SELECT %s
FROM products
%s
ORDER BY created_at ASC, id ASC
LIMIT $%d OFFSET $%d
`, productColumns, whereSQL, len(args)+1, len(args)+2)
	args = append(args, p.Limit, p.Offset)

	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]productdom.Product, 0, p.Limit)
	for rows.Next() {
		it, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// ========================
// Writer
// ========================

// ReplaceAll truncates the table and inserts items in one transaction.
func (r *ProductRepositoryPG) ReplaceAll(ctx context.Context, items []productdom.Product) (n int, err error) {
	for _, p := range items {
		if err := p.Validate(); err != nil {
			return 0, err
		}
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM products`); err != nil {
		return 0, err
	}

	const ins = `
INSERT INTO products (` + productColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	now := time.Now().UTC()
	for _, p := range items {
		p = prepareInsert(p, now)
		if _, err = tx.ExecContext(ctx, ins,
			p.ID, p.Name, p.Price, p.ImageURL, p.Category, p.Stock, p.CreatedAt, p.UpdatedAt,
		); err != nil {
			if IsUniqueViolation(err) {
				err = fmt.Errorf("%w: duplicate id %q", productdom.ErrInvalidID, p.ID)
			}
			return 0, err
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return len(items), nil
}

// ========================
// helpers
// ========================

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(s rowScanner) (productdom.Product, error) {
	var p productdom.Product
	if err := s.Scan(&p.ID, &p.Name, &p.Price, &p.ImageURL, &p.Category, &p.Stock, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return productdom.Product{}, err
	}
	p.CreatedAt = p.CreatedAt.UTC()
	p.UpdatedAt = p.UpdatedAt.UTC()
	return p, nil
}

func prepareInsert(p productdom.Product, now time.Time) productdom.Product {
	p.ID = strings.TrimSpace(p.ID)
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	p.Name = strings.TrimSpace(p.Name)
	p.ImageURL = strings.TrimSpace(p.ImageURL)
	p.Category = strings.TrimSpace(p.Category)
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = p.CreatedAt
	}
	return p
}

// IsUniqueViolation reports a Postgres unique_violation (SQLSTATE 23505).
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}
