package repositories

import (
	"context"

	"botflow/internal/domain/models"
)

// ConversationStore keeps per-contact conversation positions for channels
// that cannot hold state client-side (WhatsApp). Entries expire on their own;
// losing one simply restarts the contact at the welcome question.
type ConversationStore interface {
	// Get returns the conversation for a chatbot/contact pair, or nil when
	// none exists.
	Get(ctx context.Context, chatbotID int64, userPhone string) (*models.Conversation, error)
	Save(ctx context.Context, conv *models.Conversation) error
	Delete(ctx context.Context, chatbotID int64, userPhone string) error
}
