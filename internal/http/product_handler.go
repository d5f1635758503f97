package http

import (
	"net/http"

	"github.com/UMDhodi/Obsidian/internal/catalog"
	"github.com/UMDhodi/Obsidian/internal/domain"
	"github.com/go-chi/chi/v5"
)

type ProductHandler struct {
	catalog *catalog.Catalog
	quotes  []domain.Quote
}

func NewProductHandler(c *catalog.Catalog, quotes []domain.Quote) *ProductHandler {
	return &ProductHandler{
		catalog: c,
		quotes:  quotes,
	}
}

type ProductsResponse struct {
	Products []domain.Product `json:"products"`
	Category string           `json:"category"`
	Sort     string           `json:"sort"`
}

type QuotesResponse struct {
	Quotes []domain.Quote `json:"quotes"`
}

// GET /api/v1/products?category=&sort=
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := catalog.ParseFilter(r.URL.Query().Get("category"))
	if err != nil {
		respondErrorDetails(w, http.StatusBadRequest, "invalid_category", "category must be all, skin, hair or fragrance", err)
		return
	}
	key, err := catalog.ParseSortKey(r.URL.Query().Get("sort"))
	if err != nil {
		respondErrorDetails(w, http.StatusBadRequest, "invalid_sort", "sort must be default, price-asc, price-desc or name-asc", err)
		return
	}

	products := h.catalog.View(filter, key)
	if products == nil {
		products = []domain.Product{}
	}
	respondJSON(w, http.StatusOK, &ProductsResponse{
		Products: products,
		Category: filter.String(),
		Sort:     string(key),
	})
}

// GET /api/v1/products/{product_id}
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, ok := h.catalog.Product(chi.URLParam(r, "product_id"))
	if !ok {
		respondError(w, http.StatusNotFound, "product_not_found", "product not found")
		return
	}
	respondJSON(w, http.StatusOK, p)
}

// GET /api/v1/quotes
func (h *ProductHandler) Quotes(w http.ResponseWriter, r *http.Request) {
	quotes := h.quotes
	if quotes == nil {
		quotes = []domain.Quote{}
	}
	respondJSON(w, http.StatusOK, &QuotesResponse{Quotes: quotes})
}
