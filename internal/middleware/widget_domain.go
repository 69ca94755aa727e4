package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"botflow/internal/domain"
	"botflow/internal/domain/repositories"
	"botflow/internal/httputil"
)

// VerifyWidgetDomain gates the unauthenticated widget surface. The embedding
// page sends its origin in X-Widget-Domain; the request only proceeds when
// that domain is on the chatbot owner's active allow-list. On success the
// owner's user id and the verified domain ride the request context, so
// downstream handlers reuse the same owner-scoped reads as the
// authenticated path.
func VerifyWidgetDomain(
	chatbots repositories.ChatbotRepository,
	domains repositories.AllowedDomainRepository,
	logger *slog.Logger,
) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			widgetDomain := r.Header.Get("X-Widget-Domain")
			if widgetDomain == "" {
				httputil.RespondError(w, http.StatusBadRequest, "domain header is required")
				return
			}

			chatbotID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
			if err != nil {
				httputil.RespondError(w, http.StatusBadRequest, "invalid chatbot id")
				return
			}

			bot, err := chatbots.GetByIDAny(r.Context(), chatbotID)
			if err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					httputil.RespondError(w, http.StatusNotFound, "chatbot not found")
					return
				}
				logger.Error("widget domain check failed", "chatbot_id", chatbotID, "error", err)
				httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
				return
			}

			allowed, err := domains.IsAllowed(r.Context(), widgetDomain, bot.UserID)
			if err != nil {
				logger.Error("widget domain check failed", "chatbot_id", chatbotID, "error", err)
				httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
				return
			}
			if !allowed {
				httputil.RespondError(w, http.StatusForbidden, "domain not authorized for this chatbot")
				return
			}

			r = httputil.WithUserID(r, bot.UserID)
			r = httputil.WithVerifiedDomain(r, widgetDomain)
			next.ServeHTTP(w, r)
		})
	}
}
