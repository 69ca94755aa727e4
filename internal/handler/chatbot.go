package handler

import (
	"log/slog"
	"net/http"

	"botflow/internal/httputil"
	"botflow/internal/service"
)

// ChatbotHandler serves the authenticated chatbot management API.
type ChatbotHandler struct {
	chatbots *service.ChatbotService
	logger   *slog.Logger
}

// NewChatbotHandler creates a new chatbot handler.
func NewChatbotHandler(chatbots *service.ChatbotService, logger *slog.Logger) *ChatbotHandler {
	return &ChatbotHandler{chatbots: chatbots, logger: logger}
}

// List handles GET /api/v1/chatbots.
func (h *ChatbotHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := httputil.GetUserID(r)
	if userID == "" {
		httputil.RespondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	bots, err := h.chatbots.List(r.Context(), userID)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	resources := make([]ChatbotResource, 0, len(bots))
	for _, bot := range bots {
		resources = append(resources, toChatbotResource(bot))
	}
	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{"chatbots": resources})
}

// Create handles POST /api/v1/chatbots.
func (h *ChatbotHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := httputil.GetUserID(r)
	if userID == "" {
		httputil.RespondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req service.CreateChatbotRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	detail, err := h.chatbots.Create(r.Context(), userID, &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusCreated, toDetailResource(detail))
}

// Get handles GET /api/v1/chatbots/{id}.
func (h *ChatbotHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := httputil.GetUserID(r)
	if userID == "" {
		httputil.RespondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	detail, err := h.chatbots.Get(r.Context(), id, userID)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, toDetailResource(detail))
}

// Update handles PUT /api/v1/chatbots/{id}.
func (h *ChatbotHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := httputil.GetUserID(r)
	if userID == "" {
		httputil.RespondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req service.UpdateChatbotRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	detail, err := h.chatbots.Update(r.Context(), id, userID, &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, toDetailResource(detail))
}

// Delete handles DELETE /api/v1/chatbots/{id}.
func (h *ChatbotHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := httputil.GetUserID(r)
	if userID == "" {
		httputil.RespondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.chatbots.Delete(r.Context(), id, userID); err != nil {
		handleError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
