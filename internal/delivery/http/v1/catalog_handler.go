package v1

import (
	"context"
	"net/http"

	"showcase-backend/internal/domain"
)

// CatalogReader is the read side of the catalog use case.
type CatalogReader interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	GetProductWithDetails(ctx context.Context, id int64) (*domain.ProductWithDetails, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
	GetCategoryBySlug(ctx context.Context, slug string) (*domain.Category, error)
	ListProductsByCategory(ctx context.Context, slug string) ([]domain.Product, error)
}

type CatalogHandler struct {
	catalogUC CatalogReader
}

func NewCatalogHandler(uc CatalogReader) *CatalogHandler {
	return &CatalogHandler{catalogUC: uc}
}

func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalogUC.ListProducts(r.Context())
	if err != nil {
		writeUsecaseError(w, r, nil, err, clientMessage(err))
		return
	}
	writeData(w, http.StatusOK, products, "")
}

func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeFailure(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	product, err := h.catalogUC.GetProduct(r.Context(), id)
	if err != nil {
		writeUsecaseError(w, r, nil, err, clientMessage(err))
		return
	}
	if product == nil {
		writeFailure(w, http.StatusNotFound, "Product not found")
		return
	}
	writeData(w, http.StatusOK, product, "")
}

func (h *CatalogHandler) GetProductWithDetails(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeFailure(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	product, err := h.catalogUC.GetProductWithDetails(r.Context(), id)
	if err != nil {
		writeUsecaseError(w, r, nil, err, clientMessage(err))
		return
	}
	if product == nil {
		writeFailure(w, http.StatusNotFound, "Product not found")
		return
	}
	writeData(w, http.StatusOK, product, "")
}

func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.catalogUC.ListCategories(r.Context())
	if err != nil {
		writeUsecaseError(w, r, nil, err, clientMessage(err))
		return
	}
	writeData(w, http.StatusOK, cats, "")
}

func (h *CatalogHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	if slug == "" {
		writeFailure(w, http.StatusBadRequest, "Slug required")
		return
	}

	cat, err := h.catalogUC.GetCategoryBySlug(r.Context(), slug)
	if err != nil {
		writeUsecaseError(w, r, nil, err, clientMessage(err))
		return
	}
	if cat == nil {
		writeFailure(w, http.StatusNotFound, "Category not found")
		return
	}
	writeData(w, http.StatusOK, cat, "")
}

// ListProductsByCategory answers an unknown slug with an empty list.
func (h *CatalogHandler) ListProductsByCategory(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	if slug == "" {
		writeFailure(w, http.StatusBadRequest, "Slug required")
		return
	}

	products, err := h.catalogUC.ListProductsByCategory(r.Context(), slug)
	if err != nil {
		writeUsecaseError(w, r, nil, err, clientMessage(err))
		return
	}
	writeData(w, http.StatusOK, products, "")
}
