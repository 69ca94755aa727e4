package models

import "time"

// Chatbot is the top-level record a user authors. Its question tree and
// lead-capture form live in their own tables and are replaced wholesale on
// every save.
type Chatbot struct {
	ID             int64     `json:"id"`
	UserID         string    `json:"user_id"`
	Name           string    `json:"name"`
	Description    *string   `json:"description,omitempty"`
	EnableWhatsApp bool      `json:"enable_whatsapp"`
	EnableWebsite  bool      `json:"enable_website"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// AllowedDomain is a website origin a user has cleared for embedding their
// widget. Checked by the widget middleware before any unauthenticated read.
type AllowedDomain struct {
	ID       int64  `json:"id"`
	UserID   string `json:"user_id"`
	Domain   string `json:"domain"`
	IsActive bool   `json:"is_active"`
}
