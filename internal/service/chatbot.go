package service

import (
	"context"
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"botflow/internal/config"
	"botflow/internal/domain"
	"botflow/internal/domain/models"
	"botflow/internal/domain/repositories"
	"botflow/internal/flow"
	"botflow/internal/httputil"
)

// ChatbotService owns the chatbot lifecycle, most importantly the bulk save:
// a chatbot's question tree and form are always written as a whole, inside a
// single transaction, with client-local ids resolved to stable ids on the
// way in.
type ChatbotService struct {
	chatbots  repositories.ChatbotRepository
	questions repositories.QuestionRepository
	forms     repositories.FormRepository
	txManager repositories.TransactionManager
	logger    *slog.Logger
}

// NewChatbotService creates a new chatbot service.
func NewChatbotService(
	chatbots repositories.ChatbotRepository,
	questions repositories.QuestionRepository,
	forms repositories.FormRepository,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) *ChatbotService {
	return &ChatbotService{
		chatbots:  chatbots,
		questions: questions,
		forms:     forms,
		txManager: txManager,
		logger:    logger,
	}
}

// CreateChatbotRequest carries a full chatbot definition. Questions and
// FormConfig are pointers so that an absent field can be told apart from an
// explicitly empty one: absent means "leave alone" on update and "none" on
// create.
type CreateChatbotRequest struct {
	Name           string               `json:"name"`
	Description    *string              `json:"description"`
	EnableWhatsApp *bool                `json:"enable_whatsapp"`
	EnableWebsite  *bool                `json:"enable_website"`
	Questions      *[]flow.QuestionSpec `json:"questions"`
	FormConfig     *FormConfig          `json:"formConfig"`
}

func (r *CreateChatbotRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, config.MaxChatbotNameLength)),
		validation.Field(&r.FormConfig),
	)
}

// UpdateChatbotRequest mirrors the create request with patch semantics on the
// chatbot's own fields: only fields present in the payload are changed.
// Questions and FormConfig, when present, replace the existing tree/form
// wholesale - there is no partial tree update.
type UpdateChatbotRequest struct {
	Name           httputil.OptionalString `json:"name"`
	Description    httputil.OptionalString `json:"description"`
	EnableWhatsApp *bool                   `json:"enable_whatsapp"`
	EnableWebsite  *bool                   `json:"enable_website"`
	Questions      *[]flow.QuestionSpec    `json:"questions"`
	FormConfig     *FormConfig             `json:"formConfig"`
}

func (r *UpdateChatbotRequest) Validate() error {
	if r.Name.Present {
		if r.Name.Value == nil || *r.Name.Value == "" {
			return validation.Errors{"name": fmt.Errorf("cannot be blank")}
		}
		if len(*r.Name.Value) > config.MaxChatbotNameLength {
			return validation.Errors{"name": fmt.Errorf("the length must be no more than %d", config.MaxChatbotNameLength)}
		}
	}
	return validation.ValidateStruct(r,
		validation.Field(&r.FormConfig),
	)
}

// FormConfig is the submitted shape of a lead-capture form.
type FormConfig struct {
	Title            string          `json:"title"`
	Description      *string         `json:"description"`
	Position         string          `json:"position"`
	SubmitButtonText string          `json:"submitButtonText"`
	Fields           []FormFieldSpec `json:"fields"`
}

func (f FormConfig) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Title, validation.Length(0, config.MaxFormTitleLength)),
		validation.Field(&f.Position, validation.In("", models.FormPositionStart, models.FormPositionEnd, models.FormPositionNone)),
		validation.Field(&f.Fields),
	)
}

// FormFieldSpec is one submitted form field.
type FormFieldSpec struct {
	Label       string  `json:"label"`
	Type        string  `json:"type"`
	Placeholder *string `json:"placeholder"`
	Required    bool    `json:"required"`
	Order       int     `json:"order"`
}

func (f FormFieldSpec) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Label, validation.Required, validation.Length(1, config.MaxFieldLabelLength)),
		validation.Field(&f.Type, validation.Required),
	)
}

// ChatbotDetail is a chatbot with its persisted tree and form, all ids
// stable.
type ChatbotDetail struct {
	Chatbot   models.Chatbot
	Questions []models.Question
	Form      *models.Form
}

// Create persists a new chatbot together with its tree and form in one
// transaction. On any failure nothing is written.
func (s *ChatbotService) Create(ctx context.Context, userID string, req *CreateChatbotRequest) (*ChatbotDetail, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	if req.Questions != nil {
		if err := flow.ValidateBatch(*req.Questions); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
		}
	}

	bot := &models.Chatbot{
		UserID:         userID,
		Name:           req.Name,
		Description:    req.Description,
		EnableWhatsApp: boolOr(req.EnableWhatsApp, true),
		EnableWebsite:  boolOr(req.EnableWebsite, true),
	}

	err := s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		if err := s.chatbots.Create(ctx, bot); err != nil {
			return err
		}
		if req.Questions != nil {
			if err := s.saveQuestions(ctx, bot.ID, *req.Questions); err != nil {
				return err
			}
		}
		if req.FormConfig != nil {
			if err := s.saveForm(ctx, bot.ID, req.FormConfig); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Error("create chatbot failed", "user_id", userID, "error", err)
		return nil, err
	}

	return s.detail(ctx, bot)
}

// Update replaces a chatbot's configuration. The whole replacement runs in
// one transaction, so a failed save leaves the previous tree exactly as it
// was. Concurrent saves of the same chatbot do not merge: the last commit
// wins.
func (s *ChatbotService) Update(ctx context.Context, id int64, userID string, req *UpdateChatbotRequest) (*ChatbotDetail, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	if req.Questions != nil {
		if err := flow.ValidateBatch(*req.Questions); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
		}
	}

	bot, err := s.chatbots.GetByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if req.Name.Present {
		bot.Name = *req.Name.Value
	}
	if req.Description.Present {
		bot.Description = req.Description.Value
	}
	if req.EnableWhatsApp != nil {
		bot.EnableWhatsApp = *req.EnableWhatsApp
	}
	if req.EnableWebsite != nil {
		bot.EnableWebsite = *req.EnableWebsite
	}

	err = s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		if err := s.chatbots.Update(ctx, bot); err != nil {
			return err
		}
		if req.Questions != nil {
			if err := s.questions.DeleteByChatbot(ctx, bot.ID); err != nil {
				return err
			}
			if err := s.saveQuestions(ctx, bot.ID, *req.Questions); err != nil {
				return err
			}
		}
		if req.FormConfig != nil {
			if err := s.forms.DeleteByChatbot(ctx, bot.ID); err != nil {
				return err
			}
			if err := s.saveForm(ctx, bot.ID, req.FormConfig); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Error("update chatbot failed", "chatbot_id", id, "error", err)
		return nil, err
	}

	return s.detail(ctx, bot)
}

// Get returns a chatbot with its tree and form, scoped to its owner.
func (s *ChatbotService) Get(ctx context.Context, id int64, userID string) (*ChatbotDetail, error) {
	bot, err := s.chatbots.GetByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	return s.detail(ctx, bot)
}

// List returns a user's chatbots, newest first, without trees.
func (s *ChatbotService) List(ctx context.Context, userID string) ([]models.Chatbot, error) {
	return s.chatbots.ListByUser(ctx, userID)
}

// Delete removes a chatbot and, by cascade, its entire tree, form and
// submissions.
func (s *ChatbotService) Delete(ctx context.Context, id int64, userID string) error {
	return s.chatbots.Delete(ctx, id, userID)
}

// saveQuestions inserts a submitted batch, resolving client-local ids to the
// stable ids generated on insert.
//
// Pass 1 walks the batch in submitted order, keeping a scratch map from
// client id to stable id. A child whose parent appeared earlier links
// immediately; one whose parent comes later is inserted detached and
// remembered. Pass 2 re-resolves those against the now-complete map, so
// linking works regardless of submission order. A parent id that matches
// nothing in the batch leaves the node a root rather than dropping it.
func (s *ChatbotService) saveQuestions(ctx context.Context, chatbotID int64, specs []flow.QuestionSpec) error {
	idMap := make(map[string]int64, len(specs))

	type deferred struct {
		dbID           int64
		parentClientID string
	}
	var unresolved []deferred

	for order := range specs {
		spec := &specs[order]

		var parentID *int64
		if spec.ParentQuestionID != "" {
			if dbID, ok := idMap[spec.ParentQuestionID]; ok {
				parentID = &dbID
			}
		}

		q := &models.Question{
			ChatbotID:        chatbotID,
			ParentQuestionID: parentID,
			TriggerOption:    nilIfEmpty(spec.TriggerOption),
			Type:             spec.Type,
			Text:             spec.Question,
			Answer:           nilIfEmpty(spec.Answer),
			DisplayOrder:     order,
			IsWelcome:        spec.IsWelcome,
		}
		if err := s.questions.Insert(ctx, q); err != nil {
			return err
		}

		// Duplicate client ids overwrite: later entries win for any child
		// inserted after them.
		idMap[spec.ID] = q.ID

		if spec.IsOptions() {
			for optionOrder, text := range spec.Options {
				if err := s.questions.InsertOption(ctx, q.ID, text, optionOrder); err != nil {
					return err
				}
			}
		}

		if spec.ParentQuestionID != "" && parentID == nil {
			unresolved = append(unresolved, deferred{dbID: q.ID, parentClientID: spec.ParentQuestionID})
		}
	}

	for _, d := range unresolved {
		parentDBID, ok := idMap[d.parentClientID]
		if !ok || parentDBID == d.dbID {
			// Unknown parent, or a self-reference through a duplicate client
			// id: the node stays a root.
			continue
		}
		if err := s.questions.SetParent(ctx, d.dbID, parentDBID); err != nil {
			return err
		}
	}

	return nil
}

func (s *ChatbotService) saveForm(ctx context.Context, chatbotID int64, cfg *FormConfig) error {
	form := &models.Form{
		ChatbotID:        chatbotID,
		Title:            stringOr(cfg.Title, "Lead Capture Form"),
		Description:      cfg.Description,
		Position:         stringOr(cfg.Position, models.FormPositionNone),
		SubmitButtonText: stringOr(cfg.SubmitButtonText, "Submit"),
	}
	if err := s.forms.Insert(ctx, form); err != nil {
		return err
	}

	for _, spec := range cfg.Fields {
		field := &models.FormField{
			FormID:       form.ID,
			Label:        spec.Label,
			FieldType:    spec.Type,
			Placeholder:  spec.Placeholder,
			Required:     spec.Required,
			DisplayOrder: spec.Order,
		}
		if err := s.forms.InsertField(ctx, field); err != nil {
			return err
		}
	}

	return nil
}

func (s *ChatbotService) detail(ctx context.Context, bot *models.Chatbot) (*ChatbotDetail, error) {
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

func boolOr(v *bool, fallback bool) bool {
	if v != nil {
		return *v
	}
	return fallback
}

func stringOr(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}

func nilIfEmpty(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
