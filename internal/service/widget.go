package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"botflow/internal/domain"
	"botflow/internal/domain/models"
	"botflow/internal/domain/repositories"
	"botflow/internal/flow"
)

// WidgetService serves the public website widget: fetching a chatbot's
// configuration, answering conversation turns and accepting lead-form
// submissions. Callers are unauthenticated; the verified owner id comes from
// the domain check performed upstream.
type WidgetService struct {
	chatbots    repositories.ChatbotRepository
	questions   repositories.QuestionRepository
	forms       repositories.FormRepository
	submissions repositories.SubmissionRepository
	txManager   repositories.TransactionManager
	msgs        flow.Messages
	logger      *slog.Logger
}

// NewWidgetService creates a new widget service.
func NewWidgetService(
	chatbots repositories.ChatbotRepository,
	questions repositories.QuestionRepository,
	forms repositories.FormRepository,
	submissions repositories.SubmissionRepository,
	txManager repositories.TransactionManager,
	msgs flow.Messages,
	logger *slog.Logger,
) *WidgetService {
	return &WidgetService{
		chatbots:    chatbots,
		questions:   questions,
		forms:       forms,
		submissions: submissions,
		txManager:   txManager,
		msgs:        msgs,
		logger:      logger,
	}
}

// GetChatbot returns the widget-facing view of a chatbot: the bot itself,
// its question tree and its form. ownerID must be the id established by the
// domain verification, which keeps a verified domain from reading another
// user's bots.
func (s *WidgetService) GetChatbot(ctx context.Context, chatbotID int64, ownerID string) (*ChatbotDetail, error) {
	bot, err := s.chatbots.GetByID(ctx, chatbotID, ownerID)
	if err != nil {
		return nil, err
	}
	if !bot.EnableWebsite {
		return nil, fmt.Errorf("website widget disabled: %w", domain.ErrForbidden)
	}

	questions, err := s.questions.ListByChatbot(ctx, bot.ID)
	if err != nil {
		return nil, err
	}
	form, err := s.forms.GetByChatbot(ctx, bot.ID)
	if err != nil {
		return nil, err
	}
	return &ChatbotDetail{Chatbot: *bot, Questions: questions, Form: form}, nil
}

// Respond resolves one conversation turn against the stored tree. The widget
// keeps the conversation position client-side, so every call carries the
// current question id (nil for the first turn).
func (s *WidgetService) Respond(ctx context.Context, chatbotID int64, ownerID string, currentQuestionID *int64, message string) (*flow.Reply, error) {
	bot, err := s.chatbots.GetByID(ctx, chatbotID, ownerID)
	if err != nil {
		return nil, err
	}
	if !bot.EnableWebsite {
		return nil, fmt.Errorf("website widget disabled: %w", domain.ErrForbidden)
	}

	questions, err := s.questions.ListByChatbot(ctx, bot.ID)
	if err != nil {
		return nil, err
	}

	reply := flow.Resolve(flow.NewTree(questions), currentQuestionID, message, s.msgs)
	return &reply, nil
}

// FormSubmissionRequest carries one lead-form submission from the widget.
// Field ids are the stable ids the widget received in the form config,
// rendered as strings.
type FormSubmissionRequest struct {
	UserPhone *string           `json:"user_phone"`
	Values    map[string]string `json:"values"`
}

func (r *FormSubmissionRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Values, validation.Required),
	)
}

// SubmitForm stores a lead-form submission. Values keyed by ids that do not
// belong to the chatbot's form are dropped; required fields must all be
// present and non-empty.
func (s *WidgetService) SubmitForm(ctx context.Context, chatbotID int64, ownerID string, req *FormSubmissionRequest) (*models.FormSubmission, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	if _, err := s.chatbots.GetByID(ctx, chatbotID, ownerID); err != nil {
		return nil, err
	}

	form, err := s.forms.GetByChatbot(ctx, chatbotID)
	if err != nil {
		return nil, err
	}
	if form == nil {
		return nil, fmt.Errorf("chatbot has no form: %w", domain.ErrNotFound)
	}

	fieldByID := make(map[int64]models.FormField, len(form.Fields))
	for _, f := range form.Fields {
		fieldByID[f.ID] = f
	}

	type entry struct {
		fieldID int64
		value   string
	}
	accepted := make([]entry, 0, len(req.Values))
	for rawID, value := range req.Values {
		fieldID, err := strconv.ParseInt(rawID, 10, 64)
		if err != nil {
			continue
		}
		if _, ok := fieldByID[fieldID]; !ok {
			continue
		}
		accepted = append(accepted, entry{fieldID: fieldID, value: value})
	}

	for _, f := range form.Fields {
		if !f.Required {
			continue
		}
		found := false
		for _, e := range accepted {
			if e.fieldID == f.ID && e.value != "" {
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("%w: field %q is required", domain.ErrValidation, f.Label)
		}
	}

	submission := &models.FormSubmission{
		ChatbotID: chatbotID,
		UserPhone: req.UserPhone,
	}
	err = s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		if err := s.submissions.Insert(ctx, submission); err != nil {
			return err
		}
		for _, e := range accepted {
			if err := s.submissions.InsertValue(ctx, submission.ID, e.fieldID, e.value); err != nil {
				return err
			}
			submission.Values = append(submission.Values, models.FormSubmissionValue{FieldID: e.fieldID, Value: e.value})
		}
		return nil
	})
	if err != nil {
		s.logger.Error("form submission failed", "chatbot_id", chatbotID, "error", err)
		return nil, err
	}

	return submission, nil
}
