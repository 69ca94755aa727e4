package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"botflow/internal/httputil"
	"botflow/internal/service"
)

// WidgetHandler serves the public widget API. Requests reach it only after
// the domain verification middleware has attached the owning user's id.
type WidgetHandler struct {
	widget *service.WidgetService
	logger *slog.Logger
}

// NewWidgetHandler creates a new widget handler.
func NewWidgetHandler(widget *service.WidgetService, logger *slog.Logger) *WidgetHandler {
	return &WidgetHandler{widget: widget, logger: logger}
}

// GetChatbot handles GET /api/v1/widget/chatbots/{id}.
func (h *WidgetHandler) GetChatbot(w http.ResponseWriter, r *http.Request) {
	ownerID := httputil.GetUserID(r)
	if ownerID == "" {
		httputil.RespondError(w, http.StatusForbidden, "forbidden")
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	detail, err := h.widget.GetChatbot(r.Context(), id, ownerID)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, toDetailResource(detail))
}

// Respond handles POST /api/v1/widget/chatbots/{id}/respond.
func (h *WidgetHandler) Respond(w http.ResponseWriter, r *http.Request) {
	ownerID := httputil.GetUserID(r)
	if ownerID == "" {
		httputil.RespondError(w, http.StatusForbidden, "forbidden")
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req TurnRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var currentID *int64
	if req.CurrentQuestionID != nil {
		parsed, err := strconv.ParseInt(*req.CurrentQuestionID, 10, 64)
		if err != nil {
			// An unparseable id resolves the same way as an id that was
			// deleted out from under the visitor: the safe fallback.
			parsed = -1
		}
		currentID = &parsed
	}

	reply, err := h.widget.Respond(r.Context(), id, ownerID, currentID, req.Message)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, toTurnResponse(reply))
}

// SubmitForm handles POST /api/v1/widget/chatbots/{id}/form-submissions.
func (h *WidgetHandler) SubmitForm(w http.ResponseWriter, r *http.Request) {
	ownerID := httputil.GetUserID(r)
	if ownerID == "" {
		httputil.RespondError(w, http.StatusForbidden, "forbidden")
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req service.FormSubmissionRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	submission, err := h.widget.SubmitForm(r.Context(), id, ownerID, &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusCreated, map[string]interface{}{
		"id":           formatID(submission.ID),
		"submitted_at": submission.SubmittedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	})
}
