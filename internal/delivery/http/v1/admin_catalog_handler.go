package v1

import (
	"context"
	"net/http"

	"showcase-backend/internal/domain"
	"showcase-backend/internal/notify"
	"showcase-backend/pkg/utils"
)

// CatalogWriter is the mutation side of the catalog use case.
type CatalogWriter interface {
	CreateProduct(ctx context.Context, in domain.ProductInput) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id int64, patch domain.ProductPatch) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
	CreateCategory(ctx context.Context, name, slug string, description *string) (*domain.Category, error)
	AssignProductsToCategory(ctx context.Context, productIDs []int64, slug string) (*domain.AssignResult, error)
}

type AdminCatalogHandler struct {
	catalogUC CatalogWriter
}

func NewAdminCatalogHandler(uc CatalogWriter) *AdminCatalogHandler {
	return &AdminCatalogHandler{catalogUC: uc}
}

func (h *AdminCatalogHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var in domain.ProductInput
	if err := utils.DecodeJSON(r.Body, &in); err != nil {
		writeFailure(w, http.StatusBadRequest, "Invalid input")
		return
	}

	ctx, rec := notify.WithRecorder(r.Context())
	product, err := h.catalogUC.CreateProduct(ctx, in)
	if err != nil {
		writeUsecaseError(w, r, rec, err, "Failed to create product")
		return
	}
	writeData(w, http.StatusCreated, product, noticeMessage(rec, ""))
}

func (h *AdminCatalogHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeFailure(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	var patch domain.ProductPatch
	if err := utils.DecodeJSON(r.Body, &patch); err != nil {
		writeFailure(w, http.StatusBadRequest, "Invalid input")
		return
	}

	ctx, rec := notify.WithRecorder(r.Context())
	product, err := h.catalogUC.UpdateProduct(ctx, id, patch)
	if err != nil {
		writeUsecaseError(w, r, rec, err, "Failed to update product")
		return
	}
	writeData(w, http.StatusOK, product, noticeMessage(rec, ""))
}

func (h *AdminCatalogHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeFailure(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	ctx, rec := notify.WithRecorder(r.Context())
	if err := h.catalogUC.DeleteProduct(ctx, id); err != nil {
		writeUsecaseError(w, r, rec, err, "Failed to delete product")
		return
	}
	writeData(w, http.StatusOK, nil, noticeMessage(rec, ""))
}

type createCategoryReq struct {
	Name        string  `json:"name"`
	Slug        string  `json:"slug"`
	Description *string `json:"description"`
}

func (h *AdminCatalogHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req createCategoryReq
	if err := utils.DecodeJSON(r.Body, &req); err != nil {
		writeFailure(w, http.StatusBadRequest, "Invalid input")
		return
	}

	ctx, rec := notify.WithRecorder(r.Context())
	cat, err := h.catalogUC.CreateCategory(ctx, req.Name, req.Slug, req.Description)
	if err != nil {
		writeUsecaseError(w, r, rec, err, "Failed to create category")
		return
	}
	writeData(w, http.StatusCreated, cat, noticeMessage(rec, ""))
}

type assignProductsReq struct {
	ProductIDs []int64 `json:"product_ids"`
}

// AssignProducts links products to the category in the path. Partial failures
// still answer 200; the counts and the message tell what happened.
func (h *AdminCatalogHandler) AssignProducts(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	if slug == "" {
		writeFailure(w, http.StatusBadRequest, "Slug required")
		return
	}

	var req assignProductsReq
	if err := utils.DecodeJSON(r.Body, &req); err != nil {
		writeFailure(w, http.StatusBadRequest, "Invalid input")
		return
	}

	ctx, rec := notify.WithRecorder(r.Context())
	result, err := h.catalogUC.AssignProductsToCategory(ctx, req.ProductIDs, slug)
	if err != nil {
		writeUsecaseError(w, r, rec, err, "Failed to assign products")
		return
	}
	writeData(w, http.StatusOK, result, noticeMessage(rec, ""))
}
