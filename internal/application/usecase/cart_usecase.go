// internal/application/usecase/cart_usecase.go
package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	cartdom "storefront/internal/domain/cart"
	productdom "storefront/internal/domain/product"
)

var (
	ErrCartInvalidArgument = errors.New("cart_usecase: invalid argument")
	ErrCartNotFound        = errors.New("cart_usecase: cart not found")
	ErrCartItemNotFound    = errors.New("cart_usecase: product not in cart")
	ErrProductNotFound     = errors.New("usecase: product not found")
	ErrCartStore           = errors.New("cart_usecase: store failure")
)

// Clock provides current time (for testability).
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// CartView is a cart whose lines all reference live products, with the
// resolved product data for display. Cart is never nil.
type CartView struct {
	Cart     *cartdom.Cart
	Products map[string]productdom.Product
	// Exists is false when the user has no stored cart yet.
	Exists bool
}

// CartUsecase is the cart manager: every operation is scoped to one user's cart
// and is a bounded load-mutate-save cycle against the repository.
type CartUsecase struct {
	repo     cartdom.Repository
	products productdom.Lookup
	clock    Clock
}

func NewCartUsecase(repo cartdom.Repository, products productdom.Lookup) *CartUsecase {
	return &CartUsecase{
		repo:     repo,
		products: products,
		clock:    systemClock{},
	}
}

// NewCartUsecaseWithClock is useful for tests.
func NewCartUsecaseWithClock(repo cartdom.Repository, products productdom.Lookup, clock Clock) *CartUsecase {
	if clock == nil {
		clock = systemClock{}
	}
	return &CartUsecase{repo: repo, products: products, clock: clock}
}

// AddItem adds qty of productID to the user's cart, creating the cart on first use.
// Repeated adds of the same product accumulate.
func (uc *CartUsecase) AddItem(ctx context.Context, userID, productID string, qty int) (*cartdom.Cart, error) {
	uid := strings.TrimSpace(userID)
	pid := strings.TrimSpace(productID)
	if uid == "" || pid == "" || qty < 1 {
		return nil, ErrCartInvalidArgument
	}

	ok, err := uc.products.Exists(ctx, pid)
	if err != nil {
		return nil, storeErr("check product", err)
	}
	if !ok {
		return nil, ErrProductNotFound
	}

	c, err := uc.repo.GetByUserID(ctx, uid)
	if err != nil {
		return nil, storeErr("load cart", err)
	}

	if c == nil {
		created, err := uc.createWithItem(ctx, uid, pid, qty)
		if err == nil {
			return created, nil
		}
		if !errors.Is(err, cartdom.ErrConflict) {
			return nil, err
		}

		// Another request created the cart between our read and our create.
		// Collapse into the winner's document.
		zerolog.Ctx(ctx).Debug().
			Str("component", "cart_usecase").
			Str("user_id", uid).
			Msg("cart create lost race; merging into existing cart")

		c, err = uc.repo.GetByUserID(ctx, uid)
		if err != nil {
			return nil, storeErr("reload cart", err)
		}
		if c == nil {
			return nil, storeErr("reload cart", cartdom.ErrNotFound)
		}
	}

	if err := c.Add(pid, qty, uc.clock.Now()); err != nil {
		return nil, domainErr(err)
	}
	return uc.save(ctx, c)
}

// UpdateItem sets the quantity of a product already in the cart to exactly qty.
func (uc *CartUsecase) UpdateItem(ctx context.Context, userID, productID string, qty int) (*cartdom.Cart, error) {
	uid := strings.TrimSpace(userID)
	pid := strings.TrimSpace(productID)
	if uid == "" || pid == "" || qty < 1 {
		return nil, ErrCartInvalidArgument
	}

	c, err := uc.load(ctx, uid)
	if err != nil {
		return nil, err
	}

	if err := c.SetQty(pid, qty, uc.clock.Now()); err != nil {
		return nil, domainErr(err)
	}
	return uc.save(ctx, c)
}

// RemoveItem drops productID from the cart. Removing an absent product is not an error.
func (uc *CartUsecase) RemoveItem(ctx context.Context, userID, productID string) (*cartdom.Cart, error) {
	uid := strings.TrimSpace(userID)
	pid := strings.TrimSpace(productID)
	if uid == "" || pid == "" {
		return nil, ErrCartInvalidArgument
	}

	c, err := uc.load(ctx, uid)
	if err != nil {
		return nil, err
	}

	if !c.Remove(pid, uc.clock.Now()) {
		return c, nil
	}
	return uc.save(ctx, c)
}

// GetCart returns the user's cart with product data resolved.
//
// Lines whose product no longer exists are pruned, and the pruned cart is
// written back before returning. Pruning is idempotent: a second call finds
// nothing to drop and does not write.
func (uc *CartUsecase) GetCart(ctx context.Context, userID string) (CartView, error) {
	uid := strings.TrimSpace(userID)
	if uid == "" {
		return CartView{}, ErrCartInvalidArgument
	}

	c, err := uc.repo.GetByUserID(ctx, uid)
	if err != nil {
		return CartView{}, storeErr("load cart", err)
	}
	if c == nil {
		return CartView{
			Cart:     &cartdom.Cart{UserID: uid, Items: []cartdom.CartItem{}},
			Products: map[string]productdom.Product{},
		}, nil
	}

	live, err := uc.products.FindMany(ctx, c.ProductIDs())
	if err != nil {
		// never prune on a lookup failure
		return CartView{}, storeErr("resolve products", err)
	}
	if live == nil {
		live = map[string]productdom.Product{}
	}

	removed := c.Prune(func(id string) bool {
		_, ok := live[id]
		return ok
	}, uc.clock.Now())

	if len(removed) > 0 {
		zerolog.Ctx(ctx).Info().
			Str("component", "cart_usecase").
			Str("user_id", uid).
			Strs("pruned_product_ids", removed).
			Msg("pruning cart lines for deleted products")

		c, err = uc.save(ctx, c)
		if err != nil {
			return CartView{}, err
		}
	}

	return CartView{Cart: c, Products: live, Exists: true}, nil
}

// ------------------------------------------------------------
// helpers
// ------------------------------------------------------------

func (uc *CartUsecase) createWithItem(ctx context.Context, uid, pid string, qty int) (*cartdom.Cart, error) {
	c, err := cartdom.NewCart(uid, []cartdom.CartItem{{ProductID: pid, Quantity: qty}}, uc.clock.Now())
	if err != nil {
		return nil, domainErr(err)
	}

	created, err := uc.repo.Create(ctx, c)
	if err != nil {
		if errors.Is(err, cartdom.ErrConflict) {
			return nil, err
		}
		return nil, storeErr("create cart", err)
	}
	return created, nil
}

func (uc *CartUsecase) load(ctx context.Context, uid string) (*cartdom.Cart, error) {
	c, err := uc.repo.GetByUserID(ctx, uid)
	if err != nil {
		return nil, storeErr("load cart", err)
	}
	if c == nil {
		return nil, ErrCartNotFound
	}
	return c, nil
}

func (uc *CartUsecase) save(ctx context.Context, c *cartdom.Cart) (*cartdom.Cart, error) {
	saved, err := uc.repo.Save(ctx, c)
	if err != nil {
		if errors.Is(err, cartdom.ErrNotFound) {
			return nil, ErrCartNotFound
		}
		return nil, storeErr("save cart", err)
	}
	return saved, nil
}

func storeErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrCartStore, op, err)
}

// domainErr maps cart entity errors onto the usecase taxonomy.
func domainErr(err error) error {
	switch {
	case errors.Is(err, cartdom.ErrItemNotFound):
		return ErrCartItemNotFound
	case errors.Is(err, cartdom.ErrInvalidQuantity),
		errors.Is(err, cartdom.ErrInvalidProductID),
		errors.Is(err, cartdom.ErrInvalidCart):
		return fmt.Errorf("%w: %w", ErrCartInvalidArgument, err)
	default:
		return err
	}
}
