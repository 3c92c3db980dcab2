// internal/application/usecase/product_usecase.go
package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	productdom "storefront/internal/domain/product"
)

var (
	ErrProductInvalidArgument = errors.New("product_usecase: invalid argument")
	ErrProductStore           = errors.New("product_usecase: store failure")
)

// ProductUsecase serves the read-only catalog endpoints.
type ProductUsecase struct {
	catalog productdom.Catalog
}

func NewProductUsecase(catalog productdom.Catalog) *ProductUsecase {
	return &ProductUsecase{catalog: catalog}
}

// Queries

func (u *ProductUsecase) List(ctx context.Context, category string, limit, offset int) ([]productdom.Product, error) {
	page := productdom.Page{Limit: limit, Offset: offset}.Normalize()
	items, err := u.catalog.List(ctx, productdom.Filter{Category: strings.TrimSpace(category)}, page)
	if err != nil {
		return nil, fmt.Errorf("%w: list: %w", ErrProductStore, err)
	}
	if items == nil {
		items = []productdom.Product{}
	}
	return items, nil
}

func (u *ProductUsecase) Get(ctx context.Context, id string) (productdom.Product, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return productdom.Product{}, ErrProductInvalidArgument
	}

	p, ok, err := u.catalog.FindByID(ctx, id)
	if err != nil {
		return productdom.Product{}, fmt.Errorf("%w: get: %w", ErrProductStore, err)
	}
	if !ok {
		return productdom.Product{}, ErrProductNotFound
	}
	return p, nil
}
