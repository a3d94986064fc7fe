package v1

import (
	"net/http"

	"showcase-backend/internal/usecase"
)

type ContentHandler struct {
	usecase usecase.ContentUsecase
}

func NewContentHandler(u usecase.ContentUsecase) *ContentHandler {
	return &ContentHandler{usecase: u}
}

func (h *ContentHandler) ListSocialIcons(w http.ResponseWriter, r *http.Request) {
	icons, err := h.usecase.ListSocialIcons(r.Context())
	if err != nil {
		writeUsecaseError(w, r, nil, err, clientMessage(err))
		return
	}
	writeData(w, http.StatusOK, icons, "")
}

func (h *ContentHandler) ListVideos(w http.ResponseWriter, r *http.Request) {
	videos, err := h.usecase.ListVideos(r.Context())
	if err != nil {
		writeUsecaseError(w, r, nil, err, clientMessage(err))
		return
	}
	writeData(w, http.StatusOK, videos, "")
}

func (h *ContentHandler) ListAbout(w http.ResponseWriter, r *http.Request) {
	entries, err := h.usecase.ListAboutEntries(r.Context())
	if err != nil {
		writeUsecaseError(w, r, nil, err, clientMessage(err))
		return
	}
	writeData(w, http.StatusOK, entries, "")
}
