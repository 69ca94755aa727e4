package flow

import (
	"errors"
	"fmt"

	"botflow/internal/domain/models"
)

// Validation error kinds. Each structural defect gets its own sentinel so
// callers can tell them apart with errors.Is.
var (
	ErrUnknownType    = errors.New("unrecognized question type")
	ErrNoOptions      = errors.New("options question needs at least one non-empty option")
	ErrMissingTrigger = errors.New("follow-up question is missing its trigger option")
	ErrCycle          = errors.New("question tree contains a cycle")
)

// QuestionSpec is one question as submitted by an authoring client. ID and
// ParentQuestionID are client-local: they reference other specs within the
// same batch and are discarded once the save transaction has resolved them to
// stable ids.
type QuestionSpec struct {
	ID               string   `json:"id"`
	Type             string   `json:"type"`
	Question         string   `json:"question"`
	Answer           string   `json:"answer,omitempty"`
	Options          []string `json:"options,omitempty"`
	ParentQuestionID string   `json:"parentQuestionId,omitempty"`
	TriggerOption    string   `json:"triggerOption,omitempty"`
	IsWelcome        bool     `json:"isWelcome,omitempty"`
}

// IsOptions mirrors models.Question.IsOptions for unsaved specs.
func (s *QuestionSpec) IsOptions() bool {
	return s.Type == models.QuestionTypeOptions || s.Type == models.QuestionTypeConditional
}

// BatchError ties a validation failure to the offending spec's client id.
type BatchError struct {
	ClientID string
	Err      error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("question %q: %v", e.ClientID, e.Err)
}

func (e *BatchError) Unwrap() error { return e.Err }

// ValidateBatch checks a submitted batch for structural soundness before any
// id resolution happens. It rejects unknown types, options nodes without a
// single non-empty option, non-root nodes without a trigger, and parent
// cycles. A parentQuestionId that references nothing in the batch is NOT an
// error: the save detaches such nodes into roots rather than losing them.
func ValidateBatch(specs []QuestionSpec) error {
	byClientID := make(map[string]*QuestionSpec, len(specs))
	for i := range specs {
		// Last occurrence wins on duplicate client ids, matching the id-map
		// semantics of the save pass.
		byClientID[specs[i].ID] = &specs[i]
	}

	for i := range specs {
		spec := &specs[i]

		switch spec.Type {
		case models.QuestionTypeText, models.QuestionTypeOptions, models.QuestionTypeConditional:
		default:
			return &BatchError{ClientID: spec.ID, Err: fmt.Errorf("%w: %q", ErrUnknownType, spec.Type)}
		}

		if spec.IsOptions() && len(nonEmptyOptions(spec.Options)) == 0 {
			return &BatchError{ClientID: spec.ID, Err: ErrNoOptions}
		}

		if spec.ParentQuestionID != "" && spec.TriggerOption == "" {
			return &BatchError{ClientID: spec.ID, Err: ErrMissingTrigger}
		}

		if err := checkAncestry(spec, byClientID, len(specs)); err != nil {
			return &BatchError{ClientID: spec.ID, Err: err}
		}
	}
	return nil
}

// checkAncestry walks a spec's parent chain. The walk is bounded by the batch
// size: any chain longer than that has necessarily revisited a node.
func checkAncestry(spec *QuestionSpec, byClientID map[string]*QuestionSpec, bound int) error {
	seen := map[string]bool{spec.ID: true}
	cur := spec
	for hops := 0; hops <= bound; hops++ {
		if cur.ParentQuestionID == "" {
			return nil
		}
		parent, ok := byClientID[cur.ParentQuestionID]
		if !ok {
			// Dangling parent reference; the save turns this node into a root.
			return nil
		}
		if seen[parent.ID] {
			return ErrCycle
		}
		seen[parent.ID] = true
		cur = parent
	}
	return ErrCycle
}

func nonEmptyOptions(options []string) []string {
	out := options[:0:0]
	for _, o := range options {
		if o != "" {
			out = append(out, o)
		}
	}
	return out
}
