// internal/domain/cart/repository_port.go
package cart

import "context"

// Repository is the persistence port for Cart.
//
// Storage layouts:
//   - Firestore: collection carts, docId = userId
//   - MongoDB:   collection carts, unique index on user
//
// Owner uniqueness must be enforced by Create itself (not by a read before it),
// so two concurrent first adds for the same user never produce two documents.
type Repository interface {
	// GetByUserID returns the cart owned by userID, or (nil, nil) if the user has none.
	GetByUserID(ctx context.Context, userID string) (*Cart, error)

	// Create inserts a new cart. Returns ErrConflict when the user already owns one.
	Create(ctx context.Context, c *Cart) (*Cart, error)

	// Save overwrites the whole cart document (last write wins).
	// Returns ErrNotFound if the cart no longer exists.
	Save(ctx context.Context, c *Cart) (*Cart, error)
}
