package config

const (
	// MaxChatbotNameLength fits PostgreSQL VARCHAR(255); names should be
	// short and descriptive anyway.
	MaxChatbotNameLength = 255

	// MaxTriggerOptionLength matches the trigger_option column width. Option
	// texts double as transition labels, so the same bound applies to both.
	MaxTriggerOptionLength = 255

	// MaxFormTitleLength bounds lead-capture form titles.
	MaxFormTitleLength = 255

	// MaxFieldLabelLength bounds form field labels.
	MaxFieldLabelLength = 255
)
