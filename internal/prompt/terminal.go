package prompt

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// ErrNoTerminal is returned when a prompt is needed but stdin is not a terminal.
var ErrNoTerminal = errors.New("interactive selection requires a terminal; pass --cluster, --task and --container instead")

var docStyle = lipgloss.NewStyle().Margin(1, 2)

// Terminal renders candidates as a filterable bubbles list. Enter picks the
// highlighted entry; Esc, q or Ctrl+C cancel.
type Terminal struct {
	In  *os.File
	Out io.Writer
}

// NewTerminal draws on stderr so stdout stays free for command output.
func NewTerminal() *Terminal {
	return &Terminal{In: os.Stdin, Out: os.Stderr}
}

func (t *Terminal) Select(title string, candidates []Candidate) (int, error) {
	if !term.IsTerminal(int(t.In.Fd())) {
		return -1, ErrNoTerminal
	}

	m := newModel(title, candidates)
	program := tea.NewProgram(m, tea.WithInput(t.In), tea.WithOutput(t.Out), tea.WithAltScreen())
	final, err := program.Run()
	if err != nil {
		return -1, fmt.Errorf("run selector: %w", err)
	}

	result, ok := final.(*model)
	if !ok || result.chosen < 0 {
		return -1, ErrCancelled
	}
	return result.chosen, nil
}

type item struct {
	index     int
	candidate Candidate
}

func (i item) Title() string       { return i.candidate.Title }
func (i item) Description() string { return i.candidate.Description }
func (i item) FilterValue() string { return i.candidate.Title }

type model struct {
	list   list.Model
	chosen int
}

func newModel(title string, candidates []Candidate) *model {
	items := make([]list.Item, 0, len(candidates))
	for i, candidate := range candidates {
		items = append(items, item{index: i, candidate: candidate})
	}
	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = title
	return &model{list: l, chosen: -1}
}

func (m *model) Init() tea.Cmd {
	return nil
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.chosen = -1
			return m, tea.Quit
		}
		// Keys belong to the filter input while it is focused.
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "enter":
			if selected, ok := m.list.SelectedItem().(item); ok {
				m.chosen = selected.index
				return m, tea.Quit
			}
		case "esc":
			if m.list.FilterState() == list.FilterApplied {
				break
			}
			m.chosen = -1
			return m, tea.Quit
		case "q":
			m.chosen = -1
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		h, v := docStyle.GetFrameSize()
		m.list.SetSize(msg.Width-h, msg.Height-v)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *model) View() string {
	return docStyle.Render(m.list.View())
}
