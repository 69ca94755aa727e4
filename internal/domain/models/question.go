package models

// Question types. Conditional is accepted from authoring clients as a
// display-only variant of options; nothing downstream distinguishes the two.
const (
	QuestionTypeText        = "text"
	QuestionTypeOptions     = "options"
	QuestionTypeConditional = "conditional"
)

// Question is one node of a chatbot's question forest. Non-root nodes attach
// to their parent through (ParentQuestionID, TriggerOption): the trigger is
// the parent option text that selects this node as the follow-up.
type Question struct {
	ID               int64
	ChatbotID        int64
	ParentQuestionID *int64
	TriggerOption    *string
	Type             string
	Text             string
	Answer           *string
	DisplayOrder     int
	IsWelcome        bool

	// Options holds the node's option texts in display order. Populated on
	// load; only meaningful for options-typed nodes.
	Options []string
}

// IsRoot reports whether the question sits at the top level of the forest.
func (q *Question) IsRoot() bool { return q.ParentQuestionID == nil }

// IsOptions reports whether the node carries a selectable option list.
// Conditional nodes behave exactly like options nodes.
func (q *Question) IsOptions() bool {
	return q.Type == QuestionTypeOptions || q.Type == QuestionTypeConditional
}
