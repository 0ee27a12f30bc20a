package prompt

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sampleCandidates = []Candidate{
	{Title: "prod", Description: "arn:aws:ecs:us-east-1:123456789012:cluster/prod"},
	{Title: "staging", Description: "arn:aws:ecs:us-east-1:123456789012:cluster/staging"},
	{Title: "dev", Description: "arn:aws:ecs:us-east-1:123456789012:cluster/dev"},
}

func TestScriptedPicksByTitle(t *testing.T) {
	s := NewScripted("staging", "dev")

	idx, err := s.Select("Cluster", sampleCandidates)
	require.NoError(t, err)
	assert.Equal(t, 1, idx)

	idx, err = s.Select("Cluster", sampleCandidates)
	require.NoError(t, err)
	assert.Equal(t, 2, idx)

	assert.Equal(t, []string{"Cluster", "Cluster"}, s.Titles())
	require.Len(t, s.Calls(), 2)
	assert.Equal(t, sampleCandidates, s.Calls()[0].Candidates)
}

func TestScriptedCancelAndExhaustion(t *testing.T) {
	s := NewScripted("")

	_, err := s.Select("Task", sampleCandidates)
	assert.True(t, errors.Is(err, ErrCancelled))

	_, err = s.Select("Task", sampleCandidates)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "script exhausted")
}

func TestScriptedUnknownAnswer(t *testing.T) {
	_, err := NewScripted("qa").Select("Cluster", sampleCandidates)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `no candidate titled "qa"`)
}

func TestSelectorFunc(t *testing.T) {
	var got string
	sel := SelectorFunc(func(title string, candidates []Candidate) (int, error) {
		got = title
		return len(candidates) - 1, nil
	})

	idx, err := sel.Select("Container", sampleCandidates)
	require.NoError(t, err)
	assert.Equal(t, 2, idx)
	assert.Equal(t, "Container", got)
}

func TestTerminalRequiresTTY(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "stdin"))
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })

	sel := &Terminal{In: f, Out: f}
	_, err = sel.Select("Cluster", sampleCandidates)
	assert.True(t, errors.Is(err, ErrNoTerminal))
}

func sizedModel(t *testing.T) *model {
	t.Helper()
	m := newModel("Cluster", sampleCandidates)
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 40})
	return m
}

func TestModelEnterChoosesHighlighted(t *testing.T) {
	m := sizedModel(t)

	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	require.NotNil(t, cmd)
	assert.Equal(t, 1, m.chosen)
}

func TestModelCancelKeys(t *testing.T) {
	for _, key := range []tea.KeyMsg{
		{Type: tea.KeyEsc},
		{Type: tea.KeyCtrlC},
		{Type: tea.KeyRunes, Runes: []rune{'q'}},
	} {
		key := key
		t.Run(key.String(), func(t *testing.T) {
			m := sizedModel(t)
			_, cmd := m.Update(key)
			require.NotNil(t, cmd)
			assert.Equal(t, -1, m.chosen)
		})
	}
}

func TestModelViewShowsTitle(t *testing.T) {
	m := sizedModel(t)
	assert.Contains(t, m.View(), "Cluster")
	assert.Nil(t, m.Init())
}
