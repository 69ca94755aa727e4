package flow

import (
	"fmt"
	"strings"

	"botflow/internal/domain/models"
)

// Reply is the resolver's answer to one conversation turn. NextQuestionID is
// set only when the conversation advances (start or follow-up); a nil value
// means the caller stays where it was. Options accompany the content whenever
// the node being presented is options-typed.
type Reply struct {
	Content        string
	NextQuestionID *int64
	Options        []string
}

// Messages are the canned texts the resolver emits when it cannot produce a
// node's own content. Loaded from the messages registry; zero values are
// invalid - use messages.Default() at minimum.
type Messages struct {
	NotConfigured  string `yaml:"not_configured"`
	UnknownState   string `yaml:"unknown_state"`
	DefaultAnswer  string `yaml:"default_answer"`
	SelectedFormat string `yaml:"selected_format"`
	NoMatch        string `yaml:"no_match"`
}

// Resolve computes the response for one turn: given the tree, the caller's
// current position (nil = conversation not started) and the user's message,
// it returns what to say next. It is a pure function of its inputs and never
// fails: every lookup miss degrades to one of the canned fallback texts.
func Resolve(t *Tree, currentID *int64, message string, msgs Messages) Reply {
	if t == nil || t.Len() == 0 {
		return Reply{Content: msgs.NotConfigured}
	}

	if currentID == nil {
		// WelcomeQuestion is non-nil here because the tree is non-empty.
		return presentQuestion(t.WelcomeQuestion())
	}

	current, ok := t.FindByID(*currentID)
	if !ok {
		return Reply{Content: msgs.UnknownState}
	}

	if current.Type == models.QuestionTypeText {
		// Text nodes are leaves: they answer and hold position. Advancing
		// only ever happens through the option/follow-up mechanism.
		content := msgs.DefaultAnswer
		if current.Answer != nil && *current.Answer != "" {
			content = *current.Answer
		}
		return Reply{Content: content}
	}

	if current.IsOptions() {
		selected, ok := matchOption(current.Options, message)
		if !ok {
			return Reply{Content: msgs.NoMatch}
		}
		if next := t.FollowUpFor(current.ID, selected); next != nil {
			return presentQuestion(next)
		}
		return Reply{Content: fmt.Sprintf(msgs.SelectedFormat, selected)}
	}

	return Reply{Content: msgs.NoMatch}
}

func presentQuestion(q *models.Question) Reply {
	r := Reply{Content: q.Text, NextQuestionID: &q.ID}
	if q.IsOptions() {
		r.Options = q.Options
	}
	return r
}

// matchOption picks the option the user meant. An option matches when, case
// folded, either string contains the other - so "yes" selects "Yes please"
// and vice versa. With overlapping option texts several options can match;
// the first in display order wins. This permissive rule and its tie-break are
// deliberate and load-bearing for existing trees - do not tighten them.
func matchOption(options []string, message string) (string, bool) {
	lowerMsg := strings.ToLower(message)
	for _, option := range options {
		lowerOpt := strings.ToLower(option)
		if strings.Contains(lowerOpt, lowerMsg) || strings.Contains(lowerMsg, lowerOpt) {
			return option, true
		}
	}
	return "", false
}
