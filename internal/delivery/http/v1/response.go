package v1

import (
	"errors"
	"net/http"

	"showcase-backend/internal/domain"
	"showcase-backend/internal/notify"
	"showcase-backend/pkg/logger"
	"showcase-backend/pkg/utils"
)

func writeData(w http.ResponseWriter, status int, data interface{}, message string) {
	utils.WriteJSON(w, status, domain.Response{Success: true, Message: message, Data: data})
}

func writeFailure(w http.ResponseWriter, status int, message string) {
	utils.WriteJSON(w, status, domain.Response{Success: false, Message: message})
}

// statusFor maps use case errors onto HTTP status codes.
func statusFor(err error) int {
	var remote *domain.RemoteCallError
	var mutation *domain.MutationError
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrAlreadyExists):
		return http.StatusConflict
	case errors.As(err, &remote), errors.As(err, &mutation):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// writeUsecaseError answers with the notice the use case emitted, or fallback
// when it emitted none.
func writeUsecaseError(w http.ResponseWriter, r *http.Request, rec *notify.Recorder, err error, fallback string) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.WithContext(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("Request failed")
	}
	writeFailure(w, status, noticeMessage(rec, fallback))
}

func noticeMessage(rec *notify.Recorder, fallback string) string {
	if rec != nil {
		if n, ok := rec.Last(); ok {
			return n.Message
		}
	}
	return fallback
}

func pathID(r *http.Request) (int64, bool) {
	return utils.ParseID(r.PathValue("id"))
}

// clientMessage hides store internals from public reads.
func clientMessage(err error) string {
	switch statusFor(err) {
	case http.StatusBadGateway:
		return "Upstream store unavailable"
	case http.StatusNotFound:
		return "Not found"
	default:
		return "Internal server error"
	}
}
