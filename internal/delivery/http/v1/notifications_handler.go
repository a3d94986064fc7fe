package v1

import (
	"net/http"

	"showcase-backend/internal/notify"
	"showcase-backend/pkg/utils"
)

type NotificationsHandler struct {
	feed *notify.Feed
}

func NewNotificationsHandler(feed *notify.Feed) *NotificationsHandler {
	return &NotificationsHandler{feed: feed}
}

// List returns the recent mutation notices, newest first. ?limit caps the count.
func (h *NotificationsHandler) List(w http.ResponseWriter, r *http.Request) {
	notices := h.feed.Recent()
	if limit := utils.ParseInt(r.URL.Query().Get("limit"), 0); limit > 0 && limit < len(notices) {
		notices = notices[:limit]
	}
	writeData(w, http.StatusOK, notices, "")
}
