package v1

import (
	"context"
	"net/http"

	"showcase-backend/internal/domain"
	"showcase-backend/internal/notify"
	"showcase-backend/pkg/utils"
)

type DetailsService interface {
	GetDetails(ctx context.Context, productID int64) (*domain.ProductDetails, error)
	SaveDetails(ctx context.Context, productID int64, in domain.DetailsInput) *domain.ProductDetails
	DeleteDetails(ctx context.Context, productID int64) error
}

type DetailsHandler struct {
	detailsUC DetailsService
}

func NewDetailsHandler(uc DetailsService) *DetailsHandler {
	return &DetailsHandler{detailsUC: uc}
}

// GetDetails answers a product without details with data null.
func (h *DetailsHandler) GetDetails(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeFailure(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	details, err := h.detailsUC.GetDetails(r.Context(), id)
	if err != nil {
		writeUsecaseError(w, r, nil, err, clientMessage(err))
		return
	}
	utils.WriteJSON(w, http.StatusOK, domain.Response{Success: true, Data: details})
}

func (h *DetailsHandler) SaveDetails(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeFailure(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	var in domain.DetailsInput
	if err := utils.DecodeJSON(r.Body, &in); err != nil {
		writeFailure(w, http.StatusBadRequest, "Invalid input")
		return
	}

	ctx, rec := notify.WithRecorder(r.Context())
	details := h.detailsUC.SaveDetails(ctx, id, in)
	if details == nil {
		writeFailure(w, http.StatusBadGateway, noticeMessage(rec, "Failed to save product details"))
		return
	}
	writeData(w, http.StatusOK, details, noticeMessage(rec, ""))
}

func (h *DetailsHandler) DeleteDetails(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeFailure(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	ctx, rec := notify.WithRecorder(r.Context())
	if err := h.detailsUC.DeleteDetails(ctx, id); err != nil {
		writeUsecaseError(w, r, rec, err, "Failed to delete product details")
		return
	}
	writeData(w, http.StatusOK, nil, noticeMessage(rec, ""))
}
