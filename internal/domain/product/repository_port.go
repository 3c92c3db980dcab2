// internal/domain/product/repository_port.go
package product

import "context"

// Lookup is the read capability the cart core consumes.
//
// Absence is explicit: FindByID reports found=false and FindMany simply omits
// ids that do not resolve. Errors are reserved for store failures, so callers
// can tell "deleted product" apart from "catalog unavailable".
type Lookup interface {
	Exists(ctx context.Context, id string) (bool, error)
	FindByID(ctx context.Context, id string) (Product, bool, error)
	FindMany(ctx context.Context, ids []string) (map[string]Product, error)
}

// Catalog adds listing for the product endpoints.
type Catalog interface {
	Lookup
	List(ctx context.Context, f Filter, p Page) ([]Product, error)
}

// Writer replaces the whole catalog (seeding).
type Writer interface {
	ReplaceAll(ctx context.Context, items []Product) (int, error)
}
