// cmd/seed_products/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	productdom "storefront/internal/domain/product"
	appcfg "storefront/internal/infra/config"
	"storefront/internal/infra/logging"
	"storefront/internal/platform/di"
	shared "storefront/internal/platform/di/shared"
)

// Replaces the CATALOG_BACKEND product catalog with the default seed set.
// Carts are untouched; lines pointing at old product ids are pruned on their next read.
func main() {
	cfg, err := appcfg.Load()
	if err != nil {
		logging.Setup("info", "console", os.Stderr)
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	logging.Setup(cfg.LogLevel, "console", os.Stderr)
	seedLog := logging.Component("seed_products")

	if cfg.CatalogBackend == appcfg.BackendMemory {
		seedLog.Fatal().Msg("CATALOG_BACKEND=memory has nothing to seed (the api seeds it at startup)")
	}

	if err := run(cfg); err != nil {
		seedLog.Fatal().Err(err).Msg("seeding failed")
	}
}

func run(cfg *appcfg.Config) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	// only the catalog's clients are needed
	cfg.StoreBackend = cfg.CatalogBackend
	if cfg.StoreBackend == appcfg.BackendPostgres {
		cfg.StoreBackend = appcfg.BackendMemory
	}
	cfg.ProductImageSigning = false

	infra, err := shared.NewInfra(ctx, cfg)
	if err != nil {
		return err
	}
	defer infra.Close()

	store, err := di.NewCatalogStore(ctx, infra)
	if err != nil {
		return err
	}

	n, err := store.ReplaceAll(ctx, productdom.SeedProducts())
	if err != nil {
		return fmt.Errorf("replace catalog: %w", err)
	}
	seedLog := logging.Component("seed_products")
	seedLog.Info().Int("count", n).Str("catalog", cfg.CatalogBackend).Msg("products seeded")
	return nil
}
