package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"botflow/internal/domain"
	"botflow/internal/httputil"
)

// handleError maps domain errors to HTTP status codes. Anything outside the
// known sentinels is a 500 and gets logged with full detail; the client only
// sees a generic message.
func handleError(w http.ResponseWriter, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, "resource not found")
	case errors.Is(err, domain.ErrValidation):
		httputil.RespondError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, domain.ErrConflict):
		httputil.RespondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		httputil.RespondError(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, domain.ErrForbidden):
		httputil.RespondError(w, http.StatusForbidden, "forbidden")
	default:
		logger.Error("request failed", "error", err)
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}

// pathID parses the {id} path segment. The second return is false when the
// segment is not a valid id, in which case a 400 has already been written.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		httputil.RespondError(w, http.StatusBadRequest, "invalid chatbot id")
		return 0, false
	}
	return id, true
}
