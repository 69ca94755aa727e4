package flow

import (
	"fmt"
	"reflect"
	"testing"

	"botflow/internal/domain/models"
)

func testMessages() Messages {
	return Messages{
		NotConfigured:  "not configured",
		UnknownState:   "unknown state",
		DefaultAnswer:  "default answer",
		SelectedFormat: "selected %q",
		NoMatch:        "no match",
	}
}

func TestResolve_EmptyTree(t *testing.T) {
	got := Resolve(NewTree(nil), nil, "hello", testMessages())
	if got.Content != "not configured" {
		t.Errorf("Content = %q, want not-configured fallback", got.Content)
	}
	if got.NextQuestionID != nil {
		t.Error("NextQuestionID set for empty tree")
	}

	got = Resolve(nil, nil, "hello", testMessages())
	if got.Content != "not configured" {
		t.Errorf("nil tree Content = %q, want not-configured fallback", got.Content)
	}
}

func TestResolve_FirstTurnPresentsWelcome(t *testing.T) {
	tree := NewTree(sampleQuestions())

	got := Resolve(tree, nil, "hi", testMessages())
	if got.Content != "How can I help?" {
		t.Errorf("Content = %q, want welcome text", got.Content)
	}
	if got.NextQuestionID == nil || *got.NextQuestionID != 1 {
		t.Errorf("NextQuestionID = %v, want 1", got.NextQuestionID)
	}
	if !reflect.DeepEqual(got.Options, []string{"Pricing", "Support"}) {
		t.Errorf("Options = %v, want welcome options", got.Options)
	}
}

func TestResolve_UnknownCurrentID(t *testing.T) {
	tree := NewTree(sampleQuestions())
	missing := int64(999)

	got := Resolve(tree, &missing, "hello", testMessages())
	if got.Content != "unknown state" {
		t.Errorf("Content = %q, want unknown-state fallback", got.Content)
	}
	if got.NextQuestionID != nil {
		t.Error("NextQuestionID set for unknown current id")
	}
}

func TestResolve_TextNode(t *testing.T) {
	tests := []struct {
		name      string
		currentID int64
		want      string
	}{
		{name: "answers with its text", currentID: 2, want: "Plans start at $10."},
		{name: "empty answer falls back", currentID: 5, want: "default answer"},
	}

	tree := NewTree(sampleQuestions())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(tree, &tt.currentID, "anything", testMessages())
			if got.Content != tt.want {
				t.Errorf("Content = %q, want %q", got.Content, tt.want)
			}
			// Text nodes hold position.
			if got.NextQuestionID != nil {
				t.Errorf("NextQuestionID = %v, want nil", got.NextQuestionID)
			}
		})
	}
}

func TestResolve_OptionAdvancesToFollowUp(t *testing.T) {
	tree := NewTree(sampleQuestions())
	current := int64(1)

	got := Resolve(tree, &current, "I need support", testMessages())
	if got.Content != "What kind of support?" {
		t.Errorf("Content = %q, want follow-up text", got.Content)
	}
	if got.NextQuestionID == nil || *got.NextQuestionID != 3 {
		t.Errorf("NextQuestionID = %v, want 3", got.NextQuestionID)
	}
	if !reflect.DeepEqual(got.Options, []string{"Billing", "Technical"}) {
		t.Errorf("Options = %v, want follow-up options", got.Options)
	}
}

func TestResolve_MatchedOptionWithoutFollowUp(t *testing.T) {
	questions := []models.Question{
		{ID: 1, Type: models.QuestionTypeOptions, Text: "Pick", Options: []string{"Refunds"}},
	}
	tree := NewTree(questions)
	current := int64(1)

	got := Resolve(tree, &current, "refunds", testMessages())
	want := fmt.Sprintf("selected %q", "Refunds")
	if got.Content != want {
		t.Errorf("Content = %q, want %q", got.Content, want)
	}
	if got.NextQuestionID != nil {
		t.Error("NextQuestionID set without a follow-up")
	}
}

func TestResolve_NoOptionMatches(t *testing.T) {
	tree := NewTree(sampleQuestions())
	current := int64(1)

	got := Resolve(tree, &current, "weather forecast", testMessages())
	if got.Content != "no match" {
		t.Errorf("Content = %q, want no-match fallback", got.Content)
	}
	if got.NextQuestionID != nil {
		t.Error("NextQuestionID set on no-match")
	}
}

func TestMatchOption(t *testing.T) {
	tests := []struct {
		name    string
		options []string
		message string
		want    string
		wantOK  bool
	}{
		{name: "message contains option", options: []string{"Pricing"}, message: "tell me about PRICING please", want: "Pricing", wantOK: true},
		{name: "option contains message", options: []string{"Technical Support"}, message: "support", want: "Technical Support", wantOK: true},
		{name: "case insensitive", options: []string{"YES"}, message: "yes", want: "YES", wantOK: true},
		{name: "first match wins", options: []string{"Sales", "Sales Support"}, message: "sales", want: "Sales", wantOK: true},
		{name: "no match", options: []string{"A", "B"}, message: "C", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := matchOption(tt.options, tt.message)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("matchOption(%v, %q) = (%q, %v), want (%q, %v)", tt.options, tt.message, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestResolve_Deterministic(t *testing.T) {
	tree := NewTree(sampleQuestions())
	current := int64(1)

	first := Resolve(tree, &current, "support", testMessages())
	for i := 0; i < 5; i++ {
		again := Resolve(tree, &current, "support", testMessages())
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("Resolve not deterministic: %+v vs %+v", first, again)
		}
	}
}

func TestResolve_AcknowledgeAndStayOnUnwiredOption(t *testing.T) {
	questions := []models.Question{
		{ID: 1, Type: models.QuestionTypeOptions, Text: "Pick one", Options: []string{"A", "B"}, IsWelcome: true},
		{ID: 2, Type: models.QuestionTypeText, Text: "Detail?", Answer: ptr("Thanks for A"), ParentQuestionID: ptr(int64(1)), TriggerOption: ptr("A")},
	}
	tree := NewTree(questions)
	msgs := testMessages()

	// Start: welcome node with its options.
	reply := Resolve(tree, nil, "", msgs)
	if reply.Content != "Pick one" || !reflect.DeepEqual(reply.Options, []string{"A", "B"}) {
		t.Fatalf("start reply = %+v", reply)
	}

	// "A" has a follow-up: advance to it.
	reply = Resolve(tree, reply.NextQuestionID, "A", msgs)
	if reply.Content != "Detail?" {
		t.Fatalf("A reply Content = %q", reply.Content)
	}
	if reply.NextQuestionID == nil || *reply.NextQuestionID != 2 {
		t.Fatalf("A reply NextQuestionID = %v, want 2", reply.NextQuestionID)
	}

	// "B" has no follow-up: acknowledge and stay at node 1.
	current := int64(1)
	reply = Resolve(tree, &current, "B", msgs)
	if reply.Content != fmt.Sprintf("selected %q", "B") {
		t.Fatalf("B reply Content = %q", reply.Content)
	}
	if reply.NextQuestionID != nil {
		t.Fatalf("B reply NextQuestionID = %v, want nil", reply.NextQuestionID)
	}
}

// Walks a whole conversation through the tree, the way a widget session
// does.
func TestResolve_FullConversation(t *testing.T) {
	tree := NewTree(sampleQuestions())
	msgs := testMessages()

	// Turn 1: open the conversation.
	reply := Resolve(tree, nil, "", msgs)
	if reply.NextQuestionID == nil || *reply.NextQuestionID != 1 {
		t.Fatalf("turn 1 NextQuestionID = %v, want 1", reply.NextQuestionID)
	}

	// Turn 2: pick Support, advance to the nested options node.
	reply = Resolve(tree, reply.NextQuestionID, "support", msgs)
	if reply.NextQuestionID == nil || *reply.NextQuestionID != 3 {
		t.Fatalf("turn 2 NextQuestionID = %v, want 3", reply.NextQuestionID)
	}

	// Turn 3: pick Billing, land on a text leaf.
	reply = Resolve(tree, reply.NextQuestionID, "billing", msgs)
	if reply.NextQuestionID == nil || *reply.NextQuestionID != 4 {
		t.Fatalf("turn 3 NextQuestionID = %v, want 4", reply.NextQuestionID)
	}
	if reply.Content != "Billing support" {
		t.Fatalf("turn 3 Content = %q", reply.Content)
	}

	// Turn 4: text leaf answers and holds position.
	reply = Resolve(tree, reply.NextQuestionID, "thanks", msgs)
	if reply.Content != "Email billing@example.com" {
		t.Fatalf("turn 4 Content = %q", reply.Content)
	}
	if reply.NextQuestionID != nil {
		t.Fatalf("turn 4 NextQuestionID = %v, want nil", reply.NextQuestionID)
	}
}
