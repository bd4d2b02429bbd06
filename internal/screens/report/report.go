package report

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"levelcat/internal/api"
	"levelcat/internal/router"
	"levelcat/internal/screen"
	"levelcat/internal/ui/components"
	"levelcat/internal/ui/layout"
	"levelcat/internal/ui/theme"
)

// reportLoadedMsg is sent when the report request settles.
type reportLoadedMsg struct {
	Report *api.Report
	Err    error
}

// ReportScreen fetches and renders the final score report.
type ReportScreen struct {
	client *api.Client
	testID string
	report *api.Report
	errMsg string
	loaded bool
}

var _ screen.Screen = (*ReportScreen)(nil)
var _ screen.KeyHintProvider = (*ReportScreen)(nil)

// New creates a ReportScreen for the given completed test.
func New(client *api.Client, testID string) *ReportScreen {
	return &ReportScreen{
		client: client,
		testID: testID,
	}
}

func (s *ReportScreen) Init() tea.Cmd {
	return s.loadCmd()
}

func (s *ReportScreen) loadCmd() tea.Cmd {
	client := s.client
	testID := s.testID
	return func() tea.Msg {
		rep, err := client.Report(context.Background(), testID)
		return reportLoadedMsg{Report: rep, Err: err}
	}
}

func (s *ReportScreen) Title() string {
	return "Report"
}

func (s *ReportScreen) KeyHints() []layout.KeyHint {
	if s.errMsg != "" {
		return []layout.KeyHint{
			{Key: "R", Description: "Retry"},
			{Key: "Esc", Description: "Back"},
		}
	}
	return []layout.KeyHint{
		{Key: "Esc", Description: "Done"},
	}
}

func (s *ReportScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case reportLoadedMsg:
		if msg.Err != nil {
			s.errMsg = api.Message(msg.Err)
		} else {
			s.errMsg = ""
			s.report = msg.Report
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "enter":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "r", "R":
			if s.errMsg != "" {
				s.loaded = false
				s.errMsg = ""
				return s, s.loadCmd()
			}
		}
	}
	return s, nil
}

func (s *ReportScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render("\n\n" + s.errMsg + "\n\n" +
				lipgloss.NewStyle().Foreground(theme.TextDim).Render("Press R to retry"))
	}
	if !s.loaded || s.report == nil {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading report...")
	}

	rep := s.report
	cw := components.ContentWidth(width)

	var summary strings.Builder
	summary.WriteString(theme.Title.Render("Your Result"))
	summary.WriteString("\n\n")
	summary.WriteString(lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true).
		Render(fmt.Sprintf("CEFR  %s", rep.CEFR)))
	summary.WriteString("\n\n")
	summary.WriteString(theme.Body.Render(fmt.Sprintf("T-score  %.1f", rep.TScore)))
	summary.WriteString("\n")
	summary.WriteString(lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("θ = %.2f   SE = %.2f", rep.Theta, rep.SE)))

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		components.Card(summary.String(), cw)))
	b.WriteString("\n\n")

	// Per-section breakdown, in server order.
	barWidth := cw - 4
	var rows []string
	for _, d := range rep.Domains {
		label := fmt.Sprintf("%-16s %s", domainName(d.Domain),
			lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render(d.CEFR))
		bar := components.NewProgressBar("", d.AverageScore, true, barWidth)
		rows = append(rows, label+"\n"+bar.View())
	}
	if len(rows) > 0 {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			strings.Join(rows, "\n\n")))
	}

	return b.String()
}

func domainName(domain string) string {
	switch domain {
	case "vocabulary":
		return "Vocabulary"
	case "grammar":
		return "Grammar"
	case "listening":
		return "Listening"
	case "english_in_use":
		return "English in Use"
	}
	return domain
}
