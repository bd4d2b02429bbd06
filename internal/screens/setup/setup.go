package setup

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"levelcat/internal/api"
	"levelcat/internal/router"
	"levelcat/internal/screen"
	examscreen "levelcat/internal/screens/exam"
	"levelcat/internal/store"
	"levelcat/internal/ui/components"
	"levelcat/internal/ui/layout"
	"levelcat/internal/ui/theme"
)

// Focus order within the form.
const (
	focusLevel = iota
	focusFirst
	focusLast
	focusStart
	focusCount
)

// levels are the wire identifiers the scoring service accepts, with the
// labels shown alongside.
var (
	levelValues = []string{"easy", "middle", "hard"}
	levelLabels = []string{"Easy (A1-A2)", "Middle (B1-B2)", "Hard (C1-C2)"}
)

// SetupScreen collects the start level and participant name before a test.
type SetupScreen struct {
	client  *api.Client
	results store.ResultRepo

	levelCursor int
	first       components.TextInput
	last        components.TextInput
	focus       int
	errMsg      string
}

var _ screen.Screen = (*SetupScreen)(nil)
var _ screen.KeyHintProvider = (*SetupScreen)(nil)

// New creates a new SetupScreen.
func New(client *api.Client, results store.ResultRepo) *SetupScreen {
	first := components.NewTextInput("First name", false, 40)
	last := components.NewTextInput("Last name", false, 40)
	first.Model.Blur()
	last.Model.Blur()

	return &SetupScreen{
		client:  client,
		results: results,
		first:   first,
		last:    last,
	}
}

func (s *SetupScreen) Init() tea.Cmd {
	return nil
}

func (s *SetupScreen) Title() string {
	return "Test Setup"
}

func (s *SetupScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Tab", Description: "Next field"},
		{Key: "Enter", Description: "Confirm"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *SetupScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s.forwardToInput(msg)
	}

	switch kmsg.String() {
	case "esc":
		return s, func() tea.Msg { return router.PopScreenMsg{} }

	case "tab":
		return s, s.moveFocus(1)

	case "shift+tab":
		return s, s.moveFocus(-1)

	case "enter":
		if s.focus == focusStart {
			return s.start()
		}
		return s, s.moveFocus(1)

	case "up", "k":
		if s.focus == focusLevel {
			if s.levelCursor > 0 {
				s.levelCursor--
			}
			return s, nil
		}

	case "down", "j":
		if s.focus == focusLevel {
			if s.levelCursor < len(levelValues)-1 {
				s.levelCursor++
			}
			return s, nil
		}
	}

	return s.forwardToInput(msg)
}

// moveFocus shifts form focus by delta, managing text input focus state.
func (s *SetupScreen) moveFocus(delta int) tea.Cmd {
	s.focus = (s.focus + delta + focusCount) % focusCount
	s.first.Model.Blur()
	s.last.Model.Blur()

	switch s.focus {
	case focusFirst:
		return s.first.Model.Focus()
	case focusLast:
		return s.last.Model.Focus()
	}
	return nil
}

func (s *SetupScreen) forwardToInput(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	switch s.focus {
	case focusFirst:
		s.first, cmd = s.first.Update(msg)
	case focusLast:
		s.last, cmd = s.last.Update(msg)
	}
	return s, cmd
}

func (s *SetupScreen) start() (screen.Screen, tea.Cmd) {
	first := strings.TrimSpace(s.first.Value())
	last := strings.TrimSpace(s.last.Value())
	if first == "" || last == "" {
		s.errMsg = "Please enter your first and last name"
		return s, nil
	}

	params := examscreen.Params{
		StartLevel: levelValues[s.levelCursor],
		FirstName:  first,
		LastName:   last,
	}
	client := s.client
	results := s.results
	return s, func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: examscreen.New(client, results, params)}
	}
}

func (s *SetupScreen) View(width, height int) string {
	var b strings.Builder

	b.WriteString(theme.Title.Render("Before you begin"))
	b.WriteString("\n\n")

	// Level selector.
	b.WriteString(s.fieldLabel("Starting level", focusLevel))
	b.WriteString("\n")
	for i, label := range levelLabels {
		marker := "○"
		if i == s.levelCursor {
			marker = "●"
		}
		line := "  " + marker + " " + label
		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.levelCursor && s.focus == focusLevel {
			style = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
		} else if i == s.levelCursor {
			style = lipgloss.NewStyle().Foreground(theme.Primary)
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	// Name fields.
	b.WriteString(s.fieldLabel("First name", focusFirst))
	b.WriteString("\n  ")
	b.WriteString(s.first.View())
	b.WriteString("\n\n")
	b.WriteString(s.fieldLabel("Last name", focusLast))
	b.WriteString("\n  ")
	b.WriteString(s.last.View())
	b.WriteString("\n\n")

	// Start button.
	b.WriteString(components.NewButton("START TEST", s.focus == focusStart, nil).View())

	if s.errMsg != "" {
		b.WriteString("\n\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Error).Render(s.errMsg))
	}

	cw := components.ContentWidth(width)
	card := components.Card(b.String(), cw)
	return "\n" + lipgloss.PlaceHorizontal(width, lipgloss.Center, card)
}

func (s *SetupScreen) fieldLabel(label string, focus int) string {
	style := lipgloss.NewStyle().Foreground(theme.TextDim)
	if s.focus == focus {
		style = lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true)
	}
	return style.Render(label)
}
