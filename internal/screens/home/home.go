package home

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"levelcat/internal/api"
	"levelcat/internal/router"
	"levelcat/internal/screen"
	"levelcat/internal/screens/history"
	"levelcat/internal/screens/setup"
	"levelcat/internal/store"
	"levelcat/internal/ui/components"
	"levelcat/internal/ui/theme"
)

// HomeScreen is the main menu of the application.
type HomeScreen struct {
	menu    components.Menu
	client  *api.Client
	results store.ResultRepo
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(client *api.Client, results store.ResultRepo) *HomeScreen {
	items := []components.MenuItem{
		{Label: "START TEST", Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: setup.New(client, results)}
			}
		}},
		{Label: "HISTORY", Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: history.New(results)}
			}
		}, Disabled: results == nil},
		{Label: "EXIT", Action: func() tea.Cmd {
			return tea.Quit
		}},
	}

	return &HomeScreen{
		menu:    components.NewMenu(items),
		client:  client,
		results: results,
	}
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	var sections []string

	sections = append(sections, lipgloss.PlaceHorizontal(width, lipgloss.Center,
		RenderBanner(width)))

	sections = append(sections, lipgloss.PlaceHorizontal(width, lipgloss.Center,
		theme.Subtitle.Render("Adaptive English placement test")))

	cw := components.ContentWidth(width)
	sections = append(sections, lipgloss.PlaceHorizontal(width, lipgloss.Center,
		components.Card(h.menu.View(), cw)))

	content := strings.Join(sections, "\n\n")

	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}

func (h *HomeScreen) Title() string {
	return "Home"
}
