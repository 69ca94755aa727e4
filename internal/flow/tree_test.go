package flow

import (
	"testing"

	"botflow/internal/domain/models"
)

func ptr[T any](v T) *T { return &v }

func sampleQuestions() []models.Question {
	return []models.Question{
		{ID: 1, ChatbotID: 10, Type: models.QuestionTypeOptions, Text: "How can I help?", IsWelcome: true, DisplayOrder: 0, Options: []string{"Pricing", "Support"}},
		{ID: 2, ChatbotID: 10, Type: models.QuestionTypeText, Text: "Pricing info", Answer: ptr("Plans start at $10."), ParentQuestionID: ptr(int64(1)), TriggerOption: ptr("Pricing"), DisplayOrder: 0},
		{ID: 3, ChatbotID: 10, Type: models.QuestionTypeOptions, Text: "What kind of support?", ParentQuestionID: ptr(int64(1)), TriggerOption: ptr("Support"), DisplayOrder: 1, Options: []string{"Billing", "Technical"}},
		{ID: 4, ChatbotID: 10, Type: models.QuestionTypeText, Text: "Billing support", Answer: ptr("Email billing@example.com"), ParentQuestionID: ptr(int64(3)), TriggerOption: ptr("Billing"), DisplayOrder: 0},
		{ID: 5, ChatbotID: 10, Type: models.QuestionTypeText, Text: "Standalone FAQ", DisplayOrder: 5},
	}
}

func TestNewTree_RootsAndChildrenOrdered(t *testing.T) {
	tree := NewTree(sampleQuestions())

	if tree.Len() != 5 {
		t.Fatalf("Len() = %d, want 5", tree.Len())
	}

	roots := tree.RootQuestions()
	if len(roots) != 2 {
		t.Fatalf("got %d roots, want 2", len(roots))
	}
	if roots[0].ID != 1 || roots[1].ID != 5 {
		t.Errorf("root order = [%d, %d], want [1, 5]", roots[0].ID, roots[1].ID)
	}

	children := tree.ChildrenOf(1)
	if len(children) != 2 {
		t.Fatalf("got %d children of 1, want 2", len(children))
	}
	if children[0].ID != 2 || children[1].ID != 3 {
		t.Errorf("children order = [%d, %d], want [2, 3]", children[0].ID, children[1].ID)
	}
}

func TestNewTree_SiblingOrderFollowsDisplayOrder(t *testing.T) {
	questions := []models.Question{
		{ID: 1, Type: models.QuestionTypeText, Text: "second", DisplayOrder: 2},
		{ID: 2, Type: models.QuestionTypeText, Text: "first", DisplayOrder: 1},
		{ID: 3, Type: models.QuestionTypeText, Text: "also second", DisplayOrder: 2},
	}
	tree := NewTree(questions)

	roots := tree.RootQuestions()
	want := []int64{2, 1, 3}
	for i, q := range roots {
		if q.ID != want[i] {
			t.Errorf("roots[%d].ID = %d, want %d", i, q.ID, want[i])
		}
	}
}

func TestWelcomeQuestion(t *testing.T) {
	tests := []struct {
		name      string
		questions []models.Question
		wantID    int64
		wantNil   bool
	}{
		{
			name:      "flagged question wins",
			questions: sampleQuestions(),
			wantID:    1,
		},
		{
			name: "no flag falls back to first root",
			questions: []models.Question{
				{ID: 7, Type: models.QuestionTypeText, Text: "a", DisplayOrder: 1},
				{ID: 8, Type: models.QuestionTypeText, Text: "b", DisplayOrder: 0},
			},
			wantID: 8,
		},
		{
			name: "first of several flags wins",
			questions: []models.Question{
				{ID: 1, Type: models.QuestionTypeText, Text: "a", IsWelcome: true},
				{ID: 2, Type: models.QuestionTypeText, Text: "b", IsWelcome: true},
			},
			wantID: 1,
		},
		{
			name: "flagged non-root still wins",
			questions: []models.Question{
				{ID: 1, Type: models.QuestionTypeOptions, Text: "root", Options: []string{"x"}},
				{ID: 2, Type: models.QuestionTypeText, Text: "child", ParentQuestionID: ptr(int64(1)), TriggerOption: ptr("x"), IsWelcome: true},
			},
			wantID: 2,
		},
		{
			name:    "empty tree",
			wantNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewTree(tt.questions).WelcomeQuestion()
			if tt.wantNil {
				if got != nil {
					t.Fatalf("WelcomeQuestion() = %v, want nil", got.ID)
				}
				return
			}
			if got == nil {
				t.Fatal("WelcomeQuestion() = nil")
			}
			if got.ID != tt.wantID {
				t.Errorf("WelcomeQuestion().ID = %d, want %d", got.ID, tt.wantID)
			}
		})
	}
}

func TestFollowUpFor(t *testing.T) {
	tree := NewTree(sampleQuestions())

	if got := tree.FollowUpFor(1, "Pricing"); got == nil || got.ID != 2 {
		t.Errorf("FollowUpFor(1, Pricing) = %v, want id 2", got)
	}
	// Trigger matching is exact and case-sensitive; the forgiving matching
	// happens one layer up when the user's text is mapped to an option.
	if got := tree.FollowUpFor(1, "pricing"); got != nil {
		t.Errorf("FollowUpFor(1, pricing) = id %d, want nil", got.ID)
	}
	if got := tree.FollowUpFor(1, "Refunds"); got != nil {
		t.Errorf("FollowUpFor(1, Refunds) = id %d, want nil", got.ID)
	}
}

func TestFollowUpFor_DuplicateTriggerFirstWins(t *testing.T) {
	questions := []models.Question{
		{ID: 1, Type: models.QuestionTypeOptions, Text: "pick", Options: []string{"A"}},
		{ID: 2, Type: models.QuestionTypeText, Text: "later", ParentQuestionID: ptr(int64(1)), TriggerOption: ptr("A"), DisplayOrder: 1},
		{ID: 3, Type: models.QuestionTypeText, Text: "earlier", ParentQuestionID: ptr(int64(1)), TriggerOption: ptr("A"), DisplayOrder: 0},
	}
	tree := NewTree(questions)

	if got := tree.FollowUpFor(1, "A"); got == nil || got.ID != 3 {
		t.Errorf("FollowUpFor(1, A) = %v, want id 3", got)
	}
}

func TestDescendants(t *testing.T) {
	tree := NewTree(sampleQuestions())

	got := tree.Descendants(1)
	ids := make(map[int64]bool, len(got))
	for _, q := range got {
		ids[q.ID] = true
	}
	for _, want := range []int64{2, 3, 4} {
		if !ids[want] {
			t.Errorf("Descendants(1) missing id %d", want)
		}
	}
	if len(got) != 3 {
		t.Errorf("Descendants(1) returned %d nodes, want 3", len(got))
	}

	if got := tree.Descendants(5); len(got) != 0 {
		t.Errorf("Descendants(5) returned %d nodes, want 0", len(got))
	}
}

func TestDescendants_CycleSafe(t *testing.T) {
	// Malformed data: 1 -> 2 -> 1. The walk must terminate.
	questions := []models.Question{
		{ID: 1, Type: models.QuestionTypeText, Text: "a", ParentQuestionID: ptr(int64(2))},
		{ID: 2, Type: models.QuestionTypeText, Text: "b", ParentQuestionID: ptr(int64(1))},
	}
	tree := NewTree(questions)

	got := tree.Descendants(1)
	if len(got) != 1 || got[0].ID != 2 {
		t.Errorf("Descendants(1) = %d nodes, want just node 2", len(got))
	}
}

func TestNewTree_CopiesInput(t *testing.T) {
	questions := sampleQuestions()
	tree := NewTree(questions)

	questions[0].Text = "mutated"

	q, ok := tree.FindByID(1)
	if !ok {
		t.Fatal("FindByID(1) not found")
	}
	if q.Text != "How can I help?" {
		t.Errorf("tree node text = %q, mutation leaked into tree", q.Text)
	}
}
