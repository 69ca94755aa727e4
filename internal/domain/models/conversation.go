package models

import "time"

// Conversation statuses.
const (
	ConversationStatusActive = "active"
	ConversationStatusClosed = "closed"
)

// Conversation tracks where one WhatsApp contact currently is in a chatbot's
// question tree. The website widget keeps this state client-side; the
// WhatsApp path cannot, so it is externalized to the conversation store.
type Conversation struct {
	ID                string    `json:"id"`
	ChatbotID         int64     `json:"chatbot_id"`
	UserPhone         string    `json:"user_phone"`
	CurrentQuestionID *int64    `json:"current_question_id,omitempty"`
	Status            string    `json:"status"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}
