package exam

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	ex "levelcat/internal/exam"
	"levelcat/internal/ui/components"
	"levelcat/internal/ui/theme"
)

func (s *ExamScreen) View(width, height int) string {
	if s.confirmQuit {
		return renderQuitConfirm(width, height)
	}

	switch s.ctrl.Phase() {
	case ex.PhaseIdle:
		return s.renderStartFailed(width)
	case ex.PhaseStarting:
		return renderCentered(width, "Contacting scoring service...")
	case ex.PhaseSectionPause:
		return s.renderPause(width, height)
	case ex.PhasePresentingItem, ex.PhaseSubmitting:
		return s.renderItem(width)
	case ex.PhaseFinishing:
		return s.renderFinishing(width)
	case ex.PhaseReviewing:
		return renderCentered(width, "Preparing report...")
	}
	return ""
}

func renderCentered(width int, text string) string {
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render("\n\n  " + text)
}

func (s *ExamScreen) renderStartFailed(width int) string {
	msg := s.status
	if msg == "" {
		msg = "Unable to start test"
	}
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Error).
		Render("\n\n" + msg + "\n\n" +
			lipgloss.NewStyle().Foreground(theme.TextDim).Render("Press Enter to retry, Esc to go back"))
}

func (s *ExamScreen) renderPause(width, height int) string {
	sess := s.ctrl.Session()
	if sess == nil {
		return renderCentered(width, "Loading...")
	}

	var b strings.Builder
	b.WriteString(theme.Title.Render(sectionName(sess.PauseDomain)))
	b.WriteString("\n\n")
	if sess.PauseQuestions > 0 {
		b.WriteString(theme.Body.Render(fmt.Sprintf("%d questions", sess.PauseQuestions)))
		b.WriteString("\n\n")
	}
	b.WriteString(theme.Hint.Render("Press Enter when you are ready"))

	if s.status != "" && s.statusErr {
		b.WriteString("\n\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Error).Render(s.status))
	}

	return components.CenteredPanel(b.String(), width, height)
}

func (s *ExamScreen) renderItem(width int) string {
	item := s.ctrl.Item()
	if item == nil {
		return renderCentered(width, "Loading next question...")
	}

	var b strings.Builder

	// Section info line.
	infoLeft := lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render("  Section: " + sectionName(item.Domain))

	var infoRight string
	if item.Difficulty != "" {
		infoRight = lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Render(item.Difficulty)
	}

	infoLine := infoLeft
	rightPad := width - lipgloss.Width(infoLeft) - lipgloss.Width(infoRight) - 4
	if rightPad > 0 {
		infoLine += strings.Repeat(" ", rightPad) + infoRight
	}

	b.WriteString(infoLine)
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(width-4, 0))))
	b.WriteString("\n\n")

	// Stem (centered).
	stemStyle := lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Bold(true)
	b.WriteString(stemStyle.Render(item.Stem))
	b.WriteString("\n\n")

	// Audio line with the replay counter.
	if item.HasAudio() {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.renderAudioLine()))
		b.WriteString("\n\n")
	}

	// Options.
	opts := s.options.View(s.ctrl.Selected)
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, opts))

	if item.Model == ex.PartialCreditScoring {
		b.WriteString("\n")
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			theme.Hint.Render("Select all that apply, in order")))
	}

	// Status line.
	b.WriteString("\n\n")
	if s.ctrl.Phase() == ex.PhaseSubmitting {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			lipgloss.NewStyle().Foreground(theme.TextDim).Render("Scoring...")))
	} else if s.status != "" {
		style := lipgloss.NewStyle().Foreground(theme.Success)
		if s.statusErr {
			style = lipgloss.NewStyle().Foreground(theme.Error)
		} else if s.status == "Incorrect" {
			style = lipgloss.NewStyle().Foreground(theme.Error)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(s.status)))
	}

	return b.String()
}

func (s *ExamScreen) renderAudioLine() string {
	g := s.ctrl.Guard()
	if g == nil {
		return ""
	}
	switch {
	case g.Blocked():
		return lipgloss.NewStyle().Foreground(theme.Error).Render("♪ Audio unavailable")
	case g.Pending():
		return lipgloss.NewStyle().Foreground(theme.TextDim).Render("♪ Requesting playback...")
	case g.Exhausted():
		return lipgloss.NewStyle().Foreground(theme.TextDim).
			Render(fmt.Sprintf("♪ No plays remaining (%d/%d)", g.Plays(), g.MaxPlays()))
	default:
		return lipgloss.NewStyle().Foreground(theme.Accent).
			Render(fmt.Sprintf("♪ Press P to play audio (%d/%d plays used)", g.Plays(), g.MaxPlays()))
	}
}

func (s *ExamScreen) renderFinishing(width int) string {
	if s.status != "" && s.statusErr {
		return lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Error).
			Render("\n\n" + s.status)
	}
	return renderCentered(width, "Computing final score...")
}

func renderQuitConfirm(width, height int) string {
	content := theme.Title.Render("End the test?") + "\n\n" +
		theme.Body.Render("Your progress will be discarded.") + "\n\n" +
		theme.Hint.Render("Y to end, N to keep going")
	return components.CenteredPanel(content, width, height)
}

// sectionName maps a wire domain identifier to its display name.
func sectionName(domain string) string {
	switch domain {
	case "vocabulary":
		return "Vocabulary"
	case "grammar":
		return "Grammar"
	case "listening":
		return "Listening"
	case "english_in_use":
		return "English in Use"
	case "":
		return "Next Section"
	}
	words := strings.Split(strings.ReplaceAll(domain, "_", " "), " ")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}
