package models

import "time"

// Form positions relative to the conversation.
const (
	FormPositionStart = "start"
	FormPositionEnd   = "end"
	FormPositionNone  = "none"
)

// Form is the optional lead-capture form attached to a chatbot. At most one
// per chatbot; replaced wholesale on every save, like the question tree.
type Form struct {
	ID               int64   `json:"id"`
	ChatbotID        int64   `json:"chatbot_id"`
	Title            string  `json:"title"`
	Description      *string `json:"description,omitempty"`
	Position         string  `json:"position"`
	SubmitButtonText string  `json:"submit_button_text"`

	Fields []FormField `json:"fields"`
}

// FormField is one input of a lead-capture form, ordered by DisplayOrder.
type FormField struct {
	ID           int64   `json:"id"`
	FormID       int64   `json:"form_id"`
	Label        string  `json:"label"`
	FieldType    string  `json:"field_type"`
	Placeholder  *string `json:"placeholder,omitempty"`
	Required     bool    `json:"required"`
	DisplayOrder int     `json:"display_order"`
}

// FormSubmission is one visitor's filled-in form.
type FormSubmission struct {
	ID          int64     `json:"id"`
	ChatbotID   int64     `json:"chatbot_id"`
	UserPhone   *string   `json:"user_phone,omitempty"`
	SubmittedAt time.Time `json:"submitted_at"`

	Values []FormSubmissionValue `json:"values"`
}

// FormSubmissionValue holds the answer for one field of a submission.
type FormSubmissionValue struct {
	FieldID int64  `json:"field_id"`
	Value   string `json:"value"`
}
