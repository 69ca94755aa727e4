package handler

import (
	"strconv"

	"botflow/internal/domain/models"
	"botflow/internal/flow"
	"botflow/internal/service"
)

// API resources render ids as strings so browser clients never lose
// precision on large serial ids.

// ChatbotResource is the API shape of a chatbot.
type ChatbotResource struct {
	ID             string             `json:"id"`
	Name           string             `json:"name"`
	Description    *string            `json:"description,omitempty"`
	EnableWhatsApp bool               `json:"enable_whatsapp"`
	EnableWebsite  bool               `json:"enable_website"`
	CreatedAt      string             `json:"created_at"`
	UpdatedAt      string             `json:"updated_at"`
	Questions      []QuestionResource `json:"questions,omitempty"`
	Form           *FormResource      `json:"form,omitempty"`
}

// QuestionResource is the API shape of one question node.
type QuestionResource struct {
	ID               string   `json:"id"`
	ParentQuestionID *string  `json:"parentQuestionId,omitempty"`
	TriggerOption    *string  `json:"triggerOption,omitempty"`
	Type             string   `json:"type"`
	Question         string   `json:"question"`
	Answer           *string  `json:"answer,omitempty"`
	IsWelcome        bool     `json:"isWelcome"`
	Options          []string `json:"options,omitempty"`
}

// FormResource is the API shape of a lead-capture form.
type FormResource struct {
	ID               string              `json:"id"`
	Title            string              `json:"title"`
	Description      *string             `json:"description,omitempty"`
	Position         string              `json:"position"`
	SubmitButtonText string              `json:"submitButtonText"`
	Fields           []FormFieldResource `json:"fields"`
}

// FormFieldResource is the API shape of one form field.
type FormFieldResource struct {
	ID          string  `json:"id"`
	Label       string  `json:"label"`
	Type        string  `json:"type"`
	Placeholder *string `json:"placeholder,omitempty"`
	Required    bool    `json:"required"`
	Order       int     `json:"order"`
}

// TurnRequest is one widget conversation turn. currentQuestionId is the
// stable id of the node the visitor is on, or absent on the first turn.
type TurnRequest struct {
	CurrentQuestionID *string `json:"currentQuestionId"`
	Message           string  `json:"message"`
}

// TurnResponse is the resolved reply for one turn.
type TurnResponse struct {
	Content        string   `json:"content"`
	NextQuestionID *string  `json:"nextQuestionId,omitempty"`
	Options        []string `json:"options,omitempty"`
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

func formatIDPtr(id *int64) *string {
	if id == nil {
		return nil
	}
	s := formatID(*id)
	return &s
}

func toChatbotResource(bot models.Chatbot) ChatbotResource {
	return ChatbotResource{
		ID:             formatID(bot.ID),
		Name:           bot.Name,
		Description:    bot.Description,
		EnableWhatsApp: bot.EnableWhatsApp,
		EnableWebsite:  bot.EnableWebsite,
		CreatedAt:      bot.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:      bot.UpdatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}

func toDetailResource(detail *service.ChatbotDetail) ChatbotResource {
	res := toChatbotResource(detail.Chatbot)
	res.Questions = make([]QuestionResource, 0, len(detail.Questions))
	for _, q := range detail.Questions {
		res.Questions = append(res.Questions, toQuestionResource(q))
	}
	if detail.Form != nil {
		form := toFormResource(*detail.Form)
		res.Form = &form
	}
	return res
}

func toQuestionResource(q models.Question) QuestionResource {
	return QuestionResource{
		ID:               formatID(q.ID),
		ParentQuestionID: formatIDPtr(q.ParentQuestionID),
		TriggerOption:    q.TriggerOption,
		Type:             q.Type,
		Question:         q.Text,
		Answer:           q.Answer,
		IsWelcome:        q.IsWelcome,
		Options:          q.Options,
	}
}

func toFormResource(form models.Form) FormResource {
	res := FormResource{
		ID:               formatID(form.ID),
		Title:            form.Title,
		Description:      form.Description,
		Position:         form.Position,
		SubmitButtonText: form.SubmitButtonText,
		Fields:           make([]FormFieldResource, 0, len(form.Fields)),
	}
	for _, f := range form.Fields {
		res.Fields = append(res.Fields, FormFieldResource{
			ID:          formatID(f.ID),
			Label:       f.Label,
			Type:        f.FieldType,
			Placeholder: f.Placeholder,
			Required:    f.Required,
			Order:       f.DisplayOrder,
		})
	}
	return res
}

func toTurnResponse(reply *flow.Reply) TurnResponse {
	return TurnResponse{
		Content:        reply.Content,
		NextQuestionID: formatIDPtr(reply.NextQuestionID),
		Options:        reply.Options,
	}
}
