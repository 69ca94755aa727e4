package handler

import (
	"log/slog"
	"net/http"

	"botflow/internal/httputil"
	"botflow/internal/service"
)

// WhatsAppHandler serves the Meta webhook: GET for the one-time subscription
// handshake, POST for inbound message notifications.
type WhatsAppHandler struct {
	conversations *service.ConversationService
	verifyToken   string
	logger        *slog.Logger
}

// NewWhatsAppHandler creates a new WhatsApp webhook handler.
func NewWhatsAppHandler(conversations *service.ConversationService, verifyToken string, logger *slog.Logger) *WhatsAppHandler {
	return &WhatsAppHandler{conversations: conversations, verifyToken: verifyToken, logger: logger}
}

// Verify handles GET /api/v1/whatsapp/webhook, Meta's subscription
// handshake. The challenge must be echoed back as plain text.
func (h *WhatsAppHandler) Verify(w http.ResponseWriter, r *http.Request) {
	mode := r.URL.Query().Get("hub.mode")
	token := r.URL.Query().Get("hub.verify_token")
	challenge := r.URL.Query().Get("hub.challenge")

	if mode != "subscribe" || token == "" || token != h.verifyToken {
		httputil.RespondError(w, http.StatusForbidden, "webhook verification failed")
		return
	}

	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(challenge))
}

// webhookPayload is the subset of Meta's webhook notification we consume.
type webhookPayload struct {
	Entry []struct {
		Changes []struct {
			Value struct {
				Messages []struct {
					From string `json:"from"`
					Type string `json:"type"`
					Text struct {
						Body string `json:"body"`
					} `json:"text"`
					Interactive struct {
						ButtonReply struct {
							Title string `json:"title"`
						} `json:"button_reply"`
					} `json:"interactive"`
				} `json:"messages"`
			} `json:"value"`
		} `json:"changes"`
	} `json:"entry"`
}

// Receive handles POST /api/v1/whatsapp/webhook. Meta retries on non-2xx,
// so everything past payload parsing answers 200 regardless of outcome.
func (h *WhatsAppHandler) Receive(w http.ResponseWriter, r *http.Request) {
	var payload webhookPayload
	if err := httputil.ParseJSON(w, r, &payload); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid webhook payload")
		return
	}

	for _, entry := range payload.Entry {
		for _, change := range entry.Changes {
			for _, msg := range change.Value.Messages {
				text := msg.Text.Body
				if msg.Type == "interactive" {
					text = msg.Interactive.ButtonReply.Title
				}
				if msg.From == "" || text == "" {
					continue
				}
				h.dispatch(r, msg.From, text)
			}
		}
	}

	w.WriteHeader(http.StatusOK)
}

func (h *WhatsAppHandler) dispatch(r *http.Request, from, text string) {
	bot, err := h.conversations.RouteInbound(r.Context())
	if err != nil {
		h.logger.Warn("no whatsapp chatbot available", "error", err)
		return
	}
	if _, err := h.conversations.HandleInbound(r.Context(), bot.ID, from, text); err != nil {
		h.logger.Error("inbound message failed", "chatbot_id", bot.ID, "from", from, "error", err)
	}
}
