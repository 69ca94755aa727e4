package repositories

import (
	"context"

	"botflow/internal/domain/models"
)

// ChatbotRepository persists chatbot records. Methods taking a userID scope
// the row to its owner; a miss surfaces as domain.ErrNotFound.
type ChatbotRepository interface {
	Create(ctx context.Context, bot *models.Chatbot) error
	GetByID(ctx context.Context, id int64, userID string) (*models.Chatbot, error)
	// GetByIDAny looks a chatbot up without an ownership scope. Used by the
	// widget path, where the domain allow-list check replaces ownership.
	GetByIDAny(ctx context.Context, id int64) (*models.Chatbot, error)
	// FirstWhatsAppEnabled returns the oldest chatbot with the WhatsApp
	// channel enabled, or domain.ErrNotFound when none exists.
	FirstWhatsAppEnabled(ctx context.Context) (*models.Chatbot, error)
	ListByUser(ctx context.Context, userID string) ([]models.Chatbot, error)
	Update(ctx context.Context, bot *models.Chatbot) error
	Delete(ctx context.Context, id int64, userID string) error
}

// QuestionRepository persists question rows and their option lists. There is
// deliberately no single-question update surface: trees are replaced as a
// unit by DeleteByChatbot followed by Inserts inside one transaction.
type QuestionRepository interface {
	// Insert stores a question and fills in its generated stable id.
	Insert(ctx context.Context, q *models.Question) error
	InsertOption(ctx context.Context, questionID int64, text string, displayOrder int) error
	// SetParent patches a question's parent link after the fact. Needed by
	// the relink pass of the bulk save when a batch lists children before
	// their parents.
	SetParent(ctx context.Context, questionID, parentID int64) error
	DeleteByChatbot(ctx context.Context, chatbotID int64) error
	// ListByChatbot returns the full tree ordered by display order, with
	// each question's Options populated.
	ListByChatbot(ctx context.Context, chatbotID int64) ([]models.Question, error)
}

// FormRepository persists the optional lead-capture form. Same wholesale
// replace lifecycle as questions.
type FormRepository interface {
	Insert(ctx context.Context, form *models.Form) error
	InsertField(ctx context.Context, field *models.FormField) error
	DeleteByChatbot(ctx context.Context, chatbotID int64) error
	// GetByChatbot returns the chatbot's form with fields, or nil when the
	// chatbot has none.
	GetByChatbot(ctx context.Context, chatbotID int64) (*models.Form, error)
}

// AllowedDomainRepository answers the widget path's embed check.
type AllowedDomainRepository interface {
	IsAllowed(ctx context.Context, domain, userID string) (bool, error)
}

// SubmissionRepository records lead-capture form submissions.
type SubmissionRepository interface {
	Insert(ctx context.Context, submission *models.FormSubmission) error
	InsertValue(ctx context.Context, submissionID, fieldID int64, value string) error
}
