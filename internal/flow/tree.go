// Package flow implements the conversation-flow engine: the in-memory
// question tree, the batch validator, and the turn resolver. Everything here
// is a pure view over already-loaded data; persistence lives elsewhere.
package flow

import (
	"sort"

	"botflow/internal/domain/models"
)

// Tree is a read-only index over one chatbot's question forest. Build it once
// per load with NewTree; traversal never touches storage.
type Tree struct {
	all      []*models.Question
	roots    []*models.Question
	byID     map[int64]*models.Question
	children map[int64][]*models.Question
}

// NewTree indexes a loaded question set. Questions are copied, so the input
// slice stays untouched. Ordering inside each sibling group follows
// DisplayOrder, with input order as the tie-break.
func NewTree(questions []models.Question) *Tree {
	t := &Tree{
		byID:     make(map[int64]*models.Question, len(questions)),
		children: make(map[int64][]*models.Question, len(questions)),
	}

	for i := range questions {
		q := questions[i]
		t.all = append(t.all, &q)
		t.byID[q.ID] = &q
	}
	for _, q := range t.all {
		if q.ParentQuestionID == nil {
			t.roots = append(t.roots, q)
		} else {
			pid := *q.ParentQuestionID
			t.children[pid] = append(t.children[pid], q)
		}
	}

	sortByDisplayOrder(t.roots)
	for _, siblings := range t.children {
		sortByDisplayOrder(siblings)
	}

	return t
}

func sortByDisplayOrder(qs []*models.Question) {
	sort.SliceStable(qs, func(i, j int) bool {
		return qs[i].DisplayOrder < qs[j].DisplayOrder
	})
}

// Len returns the number of questions in the tree.
func (t *Tree) Len() int { return len(t.all) }

// FindByID returns the question with the given stable id.
func (t *Tree) FindByID(id int64) (*models.Question, bool) {
	q, ok := t.byID[id]
	return q, ok
}

// RootQuestions returns the top-level questions in display order.
func (t *Tree) RootQuestions() []*models.Question { return t.roots }

// ChildrenOf returns the follow-up questions of a node in display order.
func (t *Tree) ChildrenOf(parentID int64) []*models.Question {
	return t.children[parentID]
}

// WelcomeQuestion returns the conversation entry point: the first question in
// stored order flagged as welcome, or the first root question when none is
// flagged. Multiple welcome flags are tolerated; the first one wins. Returns
// nil for an empty tree.
func (t *Tree) WelcomeQuestion() *models.Question {
	for _, q := range t.all {
		if q.IsWelcome {
			return q
		}
	}
	if len(t.roots) > 0 {
		return t.roots[0]
	}
	return nil
}

// FollowUpFor returns the child of a node whose trigger option exactly equals
// the given option text (case-sensitive), or nil when the option has no
// follow-up. With duplicate trigger options the first child in display order
// wins.
func (t *Tree) FollowUpFor(parentID int64, option string) *models.Question {
	for _, child := range t.children[parentID] {
		if child.TriggerOption != nil && *child.TriggerOption == option {
			return child
		}
	}
	return nil
}

// Descendants returns every question transitively reachable from a node via
// parent links, in breadth-first display order. The walk is bounded by a
// visited set, so a malformed tree with a cycle cannot loop it. Deleting a
// node must take this whole set with it.
func (t *Tree) Descendants(id int64) []*models.Question {
	var out []*models.Question
	seen := map[int64]bool{id: true}

	queue := append([]*models.Question(nil), t.children[id]...)
	for len(queue) > 0 {
		q := queue[0]
		queue = queue[1:]
		if seen[q.ID] {
			continue
		}
		seen[q.ID] = true
		out = append(out, q)
		queue = append(queue, t.children[q.ID]...)
	}
	return out
}
