// internal/adapters/in/http/handler/product_handler.go
package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"storefront/internal/application/dto"
	"storefront/internal/application/usecase"
	productdom "storefront/internal/domain/product"
)

// ProductHandler serves the public catalog under /api/products.
type ProductHandler struct {
	uc *usecase.ProductUsecase
}

func NewProductHandler(uc *usecase.ProductUsecase) *ProductHandler {
	return &ProductHandler{uc: uc}
}

func (h *ProductHandler) Routes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/{productId}", h.Get)
}

// GET /api/products?category=&limit=&offset=
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	items, err := h.uc.List(
		r.Context(),
		q.Get("category"),
		queryInt(r, "limit", productdom.DefaultPageLimit),
		queryInt(r, "offset", 0),
	)
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Str("component", "product_handler").Msg("list products failed")
		writeErr(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, dto.FromProducts(items))
}

// GET /api/products/{productId}
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.uc.Get(r.Context(), chi.URLParam(r, "productId"))
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, dto.FromProduct(p))
	case errors.Is(err, usecase.ErrProductInvalidArgument):
		writeErr(w, http.StatusBadRequest, "productId is required")
	case errors.Is(err, usecase.ErrProductNotFound):
		writeErr(w, http.StatusNotFound, "product not found")
	default:
		zerolog.Ctx(r.Context()).Error().Err(err).Str("component", "product_handler").Msg("get product failed")
		writeErr(w, http.StatusInternalServerError, "internal server error")
	}
}
