package prompt

import (
	"fmt"
	"sync"
)

// Call records one prompt shown by a Scripted selector.
type Call struct {
	Title      string
	Candidates []Candidate
}

// Scripted answers prompts from a fixed script of candidate titles, in order.
// It stands in for the terminal selector in tests.
type Scripted struct {
	mu      sync.Mutex
	answers []string
	calls   []Call
}

// NewScripted returns a selector that picks the candidate titled answers[i]
// on the i-th prompt. An answer of "" cancels that prompt.
func NewScripted(answers ...string) *Scripted {
	return &Scripted{answers: answers}
}

func (s *Scripted) Select(title string, candidates []Candidate) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls = append(s.calls, Call{Title: title, Candidates: append([]Candidate(nil), candidates...)})
	if len(s.answers) == 0 {
		return -1, fmt.Errorf("unexpected %q prompt: script exhausted", title)
	}
	answer := s.answers[0]
	s.answers = s.answers[1:]

	if answer == "" {
		return -1, ErrCancelled
	}
	for i, candidate := range candidates {
		if candidate.Title == answer {
			return i, nil
		}
	}
	return -1, fmt.Errorf("no candidate titled %q in %q prompt", answer, title)
}

// Calls returns the prompts shown so far.
func (s *Scripted) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

// Titles returns the title of every prompt shown so far.
func (s *Scripted) Titles() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	titles := make([]string, 0, len(s.calls))
	for _, call := range s.calls {
		titles = append(titles, call.Title)
	}
	return titles
}
