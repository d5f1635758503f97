package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/UMDhodi/Obsidian/internal/cart"
	"github.com/UMDhodi/Obsidian/internal/catalog"
	"github.com/UMDhodi/Obsidian/internal/domain"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const maxRequestBodySize = 1 << 20 // 1MB

type CartHandler struct {
	catalog     *catalog.Catalog
	deliveryFee decimal.Decimal
	logger      *zap.Logger
}

func NewCartHandler(c *catalog.Catalog, deliveryFee decimal.Decimal, logger *zap.Logger) *CartHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CartHandler{
		catalog:     c,
		deliveryFee: deliveryFee,
		logger:      logger,
	}
}

type AddItemRequestDTO struct {
	ProductID string `json:"product_id"`
}

type UpdateQuantityRequestDTO struct {
	Delta *int `json:"delta"`
}

type CartResponse struct {
	Lines []domain.CartLine `json:"lines"`
	Count int               `json:"count"`
	Total decimal.Decimal   `json:"total"`
}

type WishlistResponse struct {
	ProductIDs []string         `json:"product_ids"`
	Products   []domain.Product `json:"products"`
	Count      int              `json:"count"`
}

func cartView(e *cart.Engine) CartResponse {
	return CartResponse{
		Lines: e.Lines(),
		Count: e.CartCount(),
		Total: e.CartTotal(),
	}
}

// GET /api/v1/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	h.withEngine(w, r, func(e *cart.Engine) (int, any, error) {
		return http.StatusOK, cartView(e), nil
	})
}

// POST /api/v1/cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequestDTO
	if !decodeJSON(w, r, &req) {
		return
	}
	p, ok := h.lookup(w, req.ProductID)
	if !ok {
		return
	}

	h.withEngine(w, r, func(e *cart.Engine) (int, any, error) {
		e.AddToCart(p)
		return http.StatusOK, cartView(e), nil
	})
}

// PATCH /api/v1/cart/items/{product_id}
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "product_id")

	var req UpdateQuantityRequestDTO
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Delta == nil {
		respondError(w, http.StatusBadRequest, "invalid_delta", "delta is required")
		return
	}

	h.withEngine(w, r, func(e *cart.Engine) (int, any, error) {
		e.UpdateQuantity(id, *req.Delta)
		return http.StatusOK, cartView(e), nil
	})
}

// DELETE /api/v1/cart/items/{product_id}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "product_id")
	h.withEngine(w, r, func(e *cart.Engine) (int, any, error) {
		e.RemoveFromCart(id)
		return http.StatusOK, cartView(e), nil
	})
}

// DELETE /api/v1/cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	h.withEngine(w, r, func(e *cart.Engine) (int, any, error) {
		e.Clear()
		return http.StatusOK, cartView(e), nil
	})
}

// GET /api/v1/cart/checkout
func (h *CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	h.withEngine(w, r, func(e *cart.Engine) (int, any, error) {
		return http.StatusOK, e.Checkout(h.deliveryFee), nil
	})
}

// POST /api/v1/cart/checkout/pay
func (h *CartHandler) Pay(w http.ResponseWriter, r *http.Request) {
	sess := getSession(r.Context())
	if sess == nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "missing session")
		return
	}

	var receipt *domain.Receipt
	err := sess.Do(func(e *cart.Engine) error {
		var err error
		receipt, err = e.Pay(h.deliveryFee)
		return err
	})
	if errors.Is(err, cart.ErrEmptyCart) {
		respondError(w, http.StatusConflict, "empty_cart", err.Error())
		return
	}
	if err != nil {
		h.logger.Error("payment stub failed", zap.Error(err), zap.String("request_id", getRequestID(r.Context())))
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}

	// the storefront starts over after a successful payment
	sess.Reset()
	respondJSON(w, http.StatusOK, receipt)
}

// GET /api/v1/wishlist
func (h *CartHandler) GetWishlist(w http.ResponseWriter, r *http.Request) {
	h.withEngine(w, r, func(e *cart.Engine) (int, any, error) {
		return http.StatusOK, h.wishlistView(e), nil
	})
}

// POST /api/v1/wishlist/{product_id}/toggle
func (h *CartHandler) ToggleWishlist(w http.ResponseWriter, r *http.Request) {
	p, ok := h.lookup(w, chi.URLParam(r, "product_id"))
	if !ok {
		return
	}

	h.withEngine(w, r, func(e *cart.Engine) (int, any, error) {
		e.ToggleWishlist(p.ID)
		return http.StatusOK, h.wishlistView(e), nil
	})
}

func (h *CartHandler) wishlistView(e *cart.Engine) WishlistResponse {
	ids := e.WishlistIDs(h.catalog.Products())
	products := make([]domain.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := h.catalog.Product(id); ok {
			products = append(products, p)
		}
	}
	return WishlistResponse{
		ProductIDs: ids,
		Products:   products,
		Count:      len(ids),
	}
}

// lookup resolves a product and rejects ids the storefront cannot sell
func (h *CartHandler) lookup(w http.ResponseWriter, id string) (domain.Product, bool) {
	id = strings.TrimSpace(id)
	if id == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required")
		return domain.Product{}, false
	}
	p, ok := h.catalog.Product(id)
	if !ok {
		respondError(w, http.StatusNotFound, "product_not_found", "product not found")
		return domain.Product{}, false
	}
	if !p.InStock {
		respondError(w, http.StatusConflict, "out_of_stock", "product is out of stock")
		return domain.Product{}, false
	}
	return p, true
}

// withEngine runs fn under the session lock and renders its result
func (h *CartHandler) withEngine(w http.ResponseWriter, r *http.Request, fn func(e *cart.Engine) (int, any, error)) {
	sess := getSession(r.Context())
	if sess == nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "missing session")
		return
	}

	var (
		status int
		body   any
	)
	err := sess.Do(func(e *cart.Engine) error {
		var err error
		status, body, err = fn(e)
		return err
	})
	if err != nil {
		h.logger.Error("cart operation failed", zap.Error(err), zap.String("request_id", getRequestID(r.Context())))
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}
	respondJSON(w, status, body)
}
