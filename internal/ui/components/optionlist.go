package components

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"levelcat/internal/ui/theme"
)

// OptionList is a cursor over answer options. Selection state lives
// outside the component; View takes a predicate so the caller decides
// which options are marked.
type OptionList struct {
	Options []string
	Cursor  int
	Multi   bool
}

// NewOptionList creates an option list. multi enables checkbox-style
// markers for items that allow more than one selection.
func NewOptionList(options []string, multi bool) OptionList {
	return OptionList{
		Options: options,
		Multi:   multi,
	}
}

// Update handles cursor movement.
func (o OptionList) Update(msg tea.Msg) (OptionList, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return o, nil
	}

	switch kmsg.String() {
	case "up", "k":
		if o.Cursor > 0 {
			o.Cursor--
		}
	case "down", "j":
		if o.Cursor < len(o.Options)-1 {
			o.Cursor++
		}
	}

	return o, nil
}

// View renders the options. selected reports whether option i is
// currently chosen.
func (o OptionList) View(selected func(int) bool) string {
	var s string
	for i, opt := range o.Options {
		marker := "○"
		if o.Multi {
			marker = "[ ]"
		}
		if selected != nil && selected(i) {
			marker = "●"
			if o.Multi {
				marker = "[x]"
			}
		}

		prefix := "  "
		if i == o.Cursor {
			prefix = "▸ "
		}

		line := fmt.Sprintf("%s%s %c)  %s", prefix, marker, 'A'+i, opt)

		switch {
		case selected != nil && selected(i):
			s += lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(line) + "\n"
		case i == o.Cursor:
			s += lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(line) + "\n"
		default:
			s += lipgloss.NewStyle().Foreground(theme.Text).Render(line) + "\n"
		}
	}
	return s
}
