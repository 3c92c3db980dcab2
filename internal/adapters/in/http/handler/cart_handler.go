// internal/adapters/in/http/handler/cart_handler.go
package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"storefront/internal/adapters/in/http/middleware"
	"storefront/internal/application/dto"
	"storefront/internal/application/usecase"
)

// ------------------------------------------------------------
// request contracts
// pointer fields tell "missing" apart from a zero value
// ------------------------------------------------------------

type addItemRequest struct {
	ProductID *string `json:"productId"`
	Quantity  *int    `json:"quantity"`
}

func (req addItemRequest) validate() (string, int, string) {
	if req.ProductID == nil || strings.TrimSpace(*req.ProductID) == "" {
		return "", 0, "productId is required"
	}
	if req.Quantity == nil {
		return "", 0, "quantity is required"
	}
	if *req.Quantity < 1 {
		return "", 0, "quantity must be an integer >= 1"
	}
	return strings.TrimSpace(*req.ProductID), *req.Quantity, ""
}

type updateItemRequest struct {
	Quantity *int `json:"quantity"`
}

func (req updateItemRequest) validate() (int, string) {
	if req.Quantity == nil {
		return 0, "quantity is required"
	}
	if *req.Quantity < 1 {
		return 0, "quantity must be an integer >= 1"
	}
	return *req.Quantity, ""
}

// CartHandler serves /api/cart. Every route requires the user auth middleware.
type CartHandler struct {
	uc *usecase.CartUsecase
}

func NewCartHandler(uc *usecase.CartUsecase) *CartHandler {
	return &CartHandler{uc: uc}
}

// Routes mounts the cart endpoints on r.
func (h *CartHandler) Routes(r chi.Router) {
	r.Get("/", h.Get)
	r.Post("/add", h.Add)
	r.Put("/update/{productId}", h.Update)
	r.Delete("/remove/{productId}", h.Remove)
}

// POST /api/cart/add {productId, quantity}
func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	uid, ok := h.owner(w, r)
	if !ok {
		return
	}

	var req addItemRequest
	if err := readJSON(w, r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}
	productID, qty, msg := req.validate()
	if msg != "" {
		writeErr(w, http.StatusBadRequest, msg)
		return
	}

	c, err := h.uc.AddItem(r.Context(), uid, productID, qty)
	if err != nil {
		h.writeCartErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.FromCart(c))
}

// PUT /api/cart/update/{productId} {quantity}
func (h *CartHandler) Update(w http.ResponseWriter, r *http.Request) {
	uid, ok := h.owner(w, r)
	if !ok {
		return
	}

	productID := strings.TrimSpace(chi.URLParam(r, "productId"))
	if productID == "" {
		writeErr(w, http.StatusBadRequest, "productId is required")
		return
	}

	var req updateItemRequest
	if err := readJSON(w, r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}
	qty, msg := req.validate()
	if msg != "" {
		writeErr(w, http.StatusBadRequest, msg)
		return
	}

	c, err := h.uc.UpdateItem(r.Context(), uid, productID, qty)
	if err != nil {
		h.writeCartErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.FromCart(c))
}

// DELETE /api/cart/remove/{productId}
func (h *CartHandler) Remove(w http.ResponseWriter, r *http.Request) {
	uid, ok := h.owner(w, r)
	if !ok {
		return
	}

	productID := strings.TrimSpace(chi.URLParam(r, "productId"))
	if productID == "" {
		writeErr(w, http.StatusBadRequest, "productId is required")
		return
	}

	c, err := h.uc.RemoveItem(r.Context(), uid, productID)
	if err != nil {
		h.writeCartErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.FromCart(c))
}

// GET /api/cart
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	uid, ok := h.owner(w, r)
	if !ok {
		return
	}

	view, err := h.uc.GetCart(r.Context(), uid)
	if err != nil {
		h.writeCartErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.FromCartView(view))
}

// ------------------------------------------------------------
// helpers
// ------------------------------------------------------------

func (h *CartHandler) owner(w http.ResponseWriter, r *http.Request) (string, bool) {
	if h.uc == nil {
		writeErr(w, http.StatusInternalServerError, "cart handler is not configured")
		return "", false
	}
	uid, ok := middleware.CurrentUserUID(r)
	if !ok {
		writeErr(w, http.StatusUnauthorized, "unauthorized")
		return "", false
	}
	return uid, true
}

func (h *CartHandler) writeCartErr(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, usecase.ErrCartInvalidArgument):
		writeErr(w, http.StatusBadRequest, "invalid input")
	case errors.Is(err, usecase.ErrProductNotFound):
		writeErr(w, http.StatusNotFound, "product not found")
	case errors.Is(err, usecase.ErrCartNotFound):
		writeErr(w, http.StatusNotFound, "cart not found")
	case errors.Is(err, usecase.ErrCartItemNotFound):
		writeErr(w, http.StatusNotFound, "product not in cart")
	default:
		zerolog.Ctx(r.Context()).Error().Err(err).Str("component", "cart_handler").Msg("cart operation failed")
		writeErr(w, http.StatusInternalServerError, "internal server error")
	}
}
