// Package prompt provides the interactive single-choice capability the
// resolvers fall back to when the operator did not name a resource.
package prompt

import "errors"

// ErrCancelled is returned when the operator dismisses a selector.
var ErrCancelled = errors.New("selection cancelled")

// Candidate is one selectable entry.
type Candidate struct {
	Title       string
	Description string
}

// Selector asks the operator to choose one of candidates and returns its
// index. Implementations return ErrCancelled when the operator backs out.
type Selector interface {
	Select(title string, candidates []Candidate) (int, error)
}

// SelectorFunc adapts a function to Selector.
type SelectorFunc func(title string, candidates []Candidate) (int, error)

func (f SelectorFunc) Select(title string, candidates []Candidate) (int, error) {
	return f(title, candidates)
}
