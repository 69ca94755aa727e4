package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strconv"
	"testing"
	"time"

	"botflow/internal/domain"
	"botflow/internal/domain/models"
	"botflow/internal/flow"
)

type fakeSubmissionRepo struct {
	store       *memStore
	submissions []models.FormSubmission
	values      map[int64][]models.FormSubmissionValue
	failInsert  bool
}

func (r *fakeSubmissionRepo) Insert(_ context.Context, submission *models.FormSubmission) error {
	if r.failInsert {
		return errors.New("simulated insert failure")
	}
	submission.ID = r.store.genID()
	submission.SubmittedAt = time.Now()
	r.submissions = append(r.submissions, *submission)
	return nil
}

func (r *fakeSubmissionRepo) InsertValue(_ context.Context, submissionID, fieldID int64, value string) error {
	if r.values == nil {
		r.values = make(map[int64][]models.FormSubmissionValue)
	}
	r.values[submissionID] = append(r.values[submissionID], models.FormSubmissionValue{FieldID: fieldID, Value: value})
	return nil
}

func widgetFixture(t *testing.T) (*WidgetService, *memStore, *fakeSubmissionRepo, int64) {
	t.Helper()

	chatbotSvc, store := newTestService()
	ctx := context.Background()

	questions := []flow.QuestionSpec{
		{ID: "q1", Type: "options", Question: "How can I help?", Options: []string{"Pricing"}, IsWelcome: true},
	}
	created, err := chatbotSvc.Create(ctx, "owner-1", &CreateChatbotRequest{
		Name:      "bot",
		Questions: &questions,
		FormConfig: &FormConfig{
			Position: models.FormPositionStart,
			Fields: []FormFieldSpec{
				{Label: "Email", Type: "email", Required: true, Order: 0},
				{Label: "Company", Type: "text", Order: 1},
			},
		},
	})
	if err != nil {
		t.Fatalf("fixture create: %v", err)
	}

	submissions := &fakeSubmissionRepo{store: store}
	msgs := flow.Messages{
		NotConfigured:  "not configured",
		UnknownState:   "unknown",
		DefaultAnswer:  "default",
		SelectedFormat: "selected %q",
		NoMatch:        "no match",
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewWidgetService(
		&fakeChatbotRepo{store: store},
		&fakeQuestionRepo{store: store},
		&fakeFormRepo{store: store},
		submissions,
		&fakeTxManager{store: store},
		msgs,
		logger,
	)
	return svc, store, submissions, created.Chatbot.ID
}

func TestWidgetGetChatbot(t *testing.T) {
	svc, _, _, chatbotID := widgetFixture(t)
	ctx := context.Background()

	detail, err := svc.GetChatbot(ctx, chatbotID, "owner-1")
	if err != nil {
		t.Fatalf("GetChatbot() error = %v", err)
	}
	if len(detail.Questions) != 1 {
		t.Errorf("got %d questions, want 1", len(detail.Questions))
	}
	if detail.Form == nil {
		t.Error("form missing from widget view")
	}

	// The owner id comes from domain verification; a mismatched id must not
	// leak another user's bot.
	if _, err := svc.GetChatbot(ctx, chatbotID, "someone-else"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("GetChatbot() with wrong owner = %v, want ErrNotFound", err)
	}
}

func TestWidgetGetChatbot_WebsiteDisabled(t *testing.T) {
	svc, store, _, chatbotID := widgetFixture(t)
	ctx := context.Background()

	bot := store.chatbots[chatbotID]
	bot.EnableWebsite = false
	store.chatbots[chatbotID] = bot

	if _, err := svc.GetChatbot(ctx, chatbotID, "owner-1"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("GetChatbot() = %v, want ErrForbidden", err)
	}
	if _, err := svc.Respond(ctx, chatbotID, "owner-1", nil, "hi"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("Respond() = %v, want ErrForbidden", err)
	}
}

func TestWidgetRespond(t *testing.T) {
	svc, _, _, chatbotID := widgetFixture(t)
	ctx := context.Background()

	reply, err := svc.Respond(ctx, chatbotID, "owner-1", nil, "")
	if err != nil {
		t.Fatalf("Respond() error = %v", err)
	}
	if reply.Content != "How can I help?" {
		t.Errorf("Content = %q, want welcome text", reply.Content)
	}
	if reply.NextQuestionID == nil {
		t.Fatal("NextQuestionID not set on first turn")
	}
}

func TestSubmitForm(t *testing.T) {
	svc, _, submissions, chatbotID := widgetFixture(t)
	ctx := context.Background()

	detail, err := svc.GetChatbot(ctx, chatbotID, "owner-1")
	if err != nil {
		t.Fatalf("GetChatbot() error = %v", err)
	}
	emailFieldID := detail.Form.Fields[0].ID

	req := &FormSubmissionRequest{
		Values: map[string]string{
			strconv.FormatInt(emailFieldID, 10): "lead@example.com",
			"999999":                            "dropped, not a real field",
		},
	}
	submission, err := svc.SubmitForm(ctx, chatbotID, "owner-1", req)
	if err != nil {
		t.Fatalf("SubmitForm() error = %v", err)
	}

	if len(submission.Values) != 1 {
		t.Fatalf("got %d values, want 1 (unknown field dropped)", len(submission.Values))
	}
	if submission.Values[0].FieldID != emailFieldID || submission.Values[0].Value != "lead@example.com" {
		t.Errorf("stored value = %+v", submission.Values[0])
	}
	if len(submissions.submissions) != 1 {
		t.Errorf("got %d stored submissions, want 1", len(submissions.submissions))
	}
}

func TestSubmitForm_RequiredFieldMissing(t *testing.T) {
	svc, _, _, chatbotID := widgetFixture(t)
	ctx := context.Background()

	detail, err := svc.GetChatbot(ctx, chatbotID, "owner-1")
	if err != nil {
		t.Fatalf("GetChatbot() error = %v", err)
	}
	companyFieldID := detail.Form.Fields[1].ID

	// Only maps the optional field; Email is required.
	req := &FormSubmissionRequest{
		Values: map[string]string{
			strconv.FormatInt(companyFieldID, 10): "Acme",
		},
	}
	_, err = svc.SubmitForm(ctx, chatbotID, "owner-1", req)
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("SubmitForm() = %v, want ErrValidation", err)
	}
}

func TestSubmitForm_NoForm(t *testing.T) {
	svc, store, _, chatbotID := widgetFixture(t)
	ctx := context.Background()

	delete(store.forms, chatbotID)

	req := &FormSubmissionRequest{Values: map[string]string{"1": "x"}}
	_, err := svc.SubmitForm(ctx, chatbotID, "owner-1", req)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("SubmitForm() = %v, want ErrNotFound", err)
	}
}

func TestSubmitForm_EmptyValuesRejected(t *testing.T) {
	svc, _, _, chatbotID := widgetFixture(t)

	_, err := svc.SubmitForm(context.Background(), chatbotID, "owner-1", &FormSubmissionRequest{})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("SubmitForm() = %v, want ErrValidation", err)
	}
}
