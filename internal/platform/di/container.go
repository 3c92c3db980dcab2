// internal/platform/di/container.go
package di

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	httpin "storefront/internal/adapters/in/http"
	"storefront/internal/adapters/in/http/middleware"
	dbout "storefront/internal/adapters/out/db"
	fsout "storefront/internal/adapters/out/firestore"
	gcsout "storefront/internal/adapters/out/gcs"
	"storefront/internal/adapters/out/memory"
	mongoout "storefront/internal/adapters/out/mongo"
	"storefront/internal/application/usecase"
	cartdom "storefront/internal/domain/cart"
	productdom "storefront/internal/domain/product"
	appcfg "storefront/internal/infra/config"
	shared "storefront/internal/platform/di/shared"
)

// CatalogStore is a catalog backend that can also be reseeded.
type CatalogStore interface {
	productdom.Catalog
	productdom.Writer
}

// Container is the API DI container.
// Pure DI: build deps only. Client lifetimes belong to Infra.
type Container struct {
	Infra *shared.Infra

	Carts   cartdom.Repository
	Catalog productdom.Catalog

	CartUC    *usecase.CartUsecase
	ProductUC *usecase.ProductUsecase

	// nil when Firebase Auth is unavailable; the cart routes then answer 503
	Verifier middleware.TokenVerifier
}

// NewContainer wires stores and usecases for the backends selected in infra.Config.
func NewContainer(ctx context.Context, infra *shared.Infra) (*Container, error) {
	if infra == nil || infra.Config == nil {
		return nil, errors.New("di.container: infra is nil")
	}
	cfg := infra.Config

	carts, err := NewCartStore(ctx, infra)
	if err != nil {
		return nil, err
	}

	store, err := NewCatalogStore(ctx, infra)
	if err != nil {
		return nil, err
	}
	if cfg.CatalogBackend == appcfg.BackendMemory {
		if _, err := store.ReplaceAll(ctx, productdom.SeedProducts()); err != nil {
			return nil, fmt.Errorf("di.container: seed memory catalog: %w", err)
		}
	}

	var catalog productdom.Catalog = store
	if cfg.ProductImageSigning {
		if infra.GCS == nil {
			return nil, errors.New("di.container: PRODUCT_IMAGE_SIGNING is on but the GCS client is nil")
		}
		catalog = gcsout.NewSignedImageCatalog(store, gcsout.StorageSigner(infra.GCS), cfg.ProductImageURLTTL)
	}

	c := &Container{
		Infra:     infra,
		Carts:     carts,
		Catalog:   catalog,
		CartUC:    usecase.NewCartUsecase(carts, catalog),
		ProductUC: usecase.NewProductUsecase(catalog),
	}
	if infra.FirebaseAuth != nil {
		c.Verifier = infra.FirebaseAuth
	}
	return c, nil
}

// Router builds the full API handler around the container's usecases.
func (c *Container) Router(logger zerolog.Logger) http.Handler {
	return httpin.NewRouter(httpin.RouterDeps{
		CartUC:         c.CartUC,
		ProductUC:      c.ProductUC,
		Verifier:       c.Verifier,
		AllowedOrigins: c.Infra.Config.CORSAllowedOrigins,
		Logger:         logger,
	})
}

// NewCartStore returns the cart repository for STORE_BACKEND.
func NewCartStore(ctx context.Context, infra *shared.Infra) (cartdom.Repository, error) {
	switch backend := infra.Config.StoreBackend; backend {
	case appcfg.BackendFirestore:
		if infra.Firestore == nil {
			return nil, errors.New("di.container: firestore client is nil")
		}
		return fsout.NewCartRepositoryFS(infra.Firestore), nil
	case appcfg.BackendMongo:
		if infra.MongoDB == nil {
			return nil, errors.New("di.container: mongo database is nil")
		}
		repo := mongoout.NewCartRepositoryMongo(infra.MongoDB)
		if err := repo.EnsureIndexes(ctx); err != nil {
			return nil, fmt.Errorf("di.container: cart indexes: %w", err)
		}
		return repo, nil
	case appcfg.BackendMemory:
		return memory.NewCartRepositoryMem(), nil
	default:
		return nil, fmt.Errorf("di.container: unsupported cart store %q", backend)
	}
}

// NewCatalogStore returns the product store for CATALOG_BACKEND.
// Also used by the seeder.
func NewCatalogStore(ctx context.Context, infra *shared.Infra) (CatalogStore, error) {
	switch backend := infra.Config.CatalogBackend; backend {
	case appcfg.BackendFirestore:
		if infra.Firestore == nil {
			return nil, errors.New("di.container: firestore client is nil")
		}
		return fsout.NewProductRepositoryFS(infra.Firestore), nil
	case appcfg.BackendMongo:
		if infra.MongoDB == nil {
			return nil, errors.New("di.container: mongo database is nil")
		}
		return mongoout.NewProductRepositoryMongo(infra.MongoDB), nil
	case appcfg.BackendPostgres:
		if infra.Postgres == nil {
			return nil, errors.New("di.container: postgres connection is nil")
		}
		repo := dbout.NewProductRepositoryPG(infra.Postgres.Client)
		if err := repo.EnsureSchema(ctx); err != nil {
			return nil, fmt.Errorf("di.container: products schema: %w", err)
		}
		return repo, nil
	case appcfg.BackendMemory:
		return memory.NewProductRepositoryMem(), nil
	default:
		return nil, fmt.Errorf("di.container: unsupported catalog %q", backend)
	}
}
