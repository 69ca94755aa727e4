package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"botflow/internal/domain"
	"botflow/internal/domain/models"
	"botflow/internal/domain/repositories"
	"botflow/internal/flow"
)

// MessageSender delivers an outbound message on a channel that pushes to the
// user, such as WhatsApp.
type MessageSender interface {
	SendMessage(ctx context.Context, to, text string, options []string) error
}

// LogSender is a MessageSender that only logs. It stands in when no WhatsApp
// credentials are configured, which keeps local development working end to
// end.
type LogSender struct {
	Logger *slog.Logger
}

func (s *LogSender) SendMessage(_ context.Context, to, text string, options []string) error {
	s.Logger.Info("outbound message", "to", to, "text", text, "options", options)
	return nil
}

// ConversationService drives WhatsApp conversations. Unlike the website
// widget, WhatsApp users carry no client-side state, so the current tree
// position lives server-side in the conversation store, keyed by chatbot
// and phone number.
type ConversationService struct {
	chatbots  repositories.ChatbotRepository
	questions repositories.QuestionRepository
	store     repositories.ConversationStore
	sender    MessageSender
	msgs      flow.Messages
	logger    *slog.Logger
}

// NewConversationService creates a new conversation service.
func NewConversationService(
	chatbots repositories.ChatbotRepository,
	questions repositories.QuestionRepository,
	store repositories.ConversationStore,
	sender MessageSender,
	msgs flow.Messages,
	logger *slog.Logger,
) *ConversationService {
	return &ConversationService{
		chatbots:  chatbots,
		questions: questions,
		store:     store,
		sender:    sender,
		msgs:      msgs,
		logger:    logger,
	}
}

// RouteInbound picks the chatbot that answers inbound WhatsApp traffic.
// There is a single WhatsApp number per deployment, so routing is simply the
// first chatbot with WhatsApp enabled.
func (s *ConversationService) RouteInbound(ctx context.Context) (*models.Chatbot, error) {
	return s.chatbots.FirstWhatsAppEnabled(ctx)
}

// HandleInbound processes one inbound WhatsApp message: load or start the
// conversation, resolve the turn, persist the new position and push the
// reply. A send failure is logged but does not fail the turn; the position
// is already saved, so the user's next message resumes correctly.
func (s *ConversationService) HandleInbound(ctx context.Context, chatbotID int64, userPhone, message string) (*flow.Reply, error) {
	bot, err := s.chatbots.GetByIDAny(ctx, chatbotID)
	if err != nil {
		return nil, err
	}
	if !bot.EnableWhatsApp {
		return nil, fmt.Errorf("whatsapp disabled for chatbot %d: %w", chatbotID, domain.ErrForbidden)
	}

	conv, err := s.store.Get(ctx, chatbotID, userPhone)
	if err != nil {
		return nil, err
	}
	if conv == nil {
		conv = &models.Conversation{
			ID:        uuid.NewString(),
			ChatbotID: chatbotID,
			UserPhone: userPhone,
			Status:    models.ConversationStatusActive,
		}
	}

	questions, err := s.questions.ListByChatbot(ctx, chatbotID)
	if err != nil {
		return nil, err
	}

	reply := flow.Resolve(flow.NewTree(questions), conv.CurrentQuestionID, message, s.msgs)

	if reply.NextQuestionID != nil {
		conv.CurrentQuestionID = reply.NextQuestionID
	}
	if err := s.store.Save(ctx, conv); err != nil {
		return nil, err
	}

	if err := s.sender.SendMessage(ctx, userPhone, reply.Content, reply.Options); err != nil {
		s.logger.Error("send reply failed", "chatbot_id", chatbotID, "to", userPhone, "error", err)
	}

	return &reply, nil
}

// Reset discards the stored conversation so the next inbound message starts
// from the welcome question.
func (s *ConversationService) Reset(ctx context.Context, chatbotID int64, userPhone string) error {
	return s.store.Delete(ctx, chatbotID, userPhone)
}
