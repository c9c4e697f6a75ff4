package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/fjod/go_shop/internal/catalog"
	"github.com/fjod/go_shop/internal/domain"
	"github.com/go-chi/chi/v5"
)

type CatalogService interface {
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	ListProducts(ctx context.Context, filter catalog.Filter) ([]*domain.Product, error)
	ListCategories(ctx context.Context) ([]string, error)
}

type ProductHandler struct {
	catalog CatalogService
}

func NewProductHandler(catalog CatalogService) *ProductHandler {
	return &ProductHandler{catalog: catalog}
}

func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := catalog.Filter{
		Query:    r.URL.Query().Get("q"),
		Category: r.URL.Query().Get("category"),
	}

	products, err := h.catalog.ListProducts(r.Context(), filter)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "catalog_unavailable", "could not list products")
		return
	}
	if products == nil {
		products = []*domain.Product{}
	}

	respondJSON(w, http.StatusOK, products)
}

func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product id must be a positive integer")
		return
	}

	p, err := h.catalog.GetProduct(r.Context(), id)
	if errors.Is(err, catalog.ErrProductNotFound) {
		respondError(w, http.StatusNotFound, "product_not_found", "no such product")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "catalog_unavailable", "could not fetch product")
		return
	}

	respondJSON(w, http.StatusOK, p)
}

func (h *ProductHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalog.ListCategories(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "catalog_unavailable", "could not list categories")
		return
	}
	if categories == nil {
		categories = []string{}
	}

	respondJSON(w, http.StatusOK, categories)
}
