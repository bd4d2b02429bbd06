package home

import (
	"charm.land/lipgloss/v2"

	"levelcat/internal/ui/theme"
)

const bannerArt = `
██╗     ███████╗██╗   ██╗███████╗██╗      ██████╗ █████╗ ████████╗
██║     ██╔════╝██║   ██║██╔════╝██║     ██╔════╝██╔══██╗╚══██╔══╝
██║     █████╗  ██║   ██║█████╗  ██║     ██║     ███████║   ██║
██║     ██╔══╝  ╚██╗ ██╔╝██╔══╝  ██║     ██║     ██╔══██║   ██║
███████╗███████╗ ╚████╔╝ ███████╗███████╗╚██████╗██║  ██║   ██║
╚══════╝╚══════╝  ╚═══╝  ╚══════╝╚══════╝ ╚═════╝╚═╝  ╚═╝   ╚═╝   `

const bannerCompact = "L E V E L C A T"

// RenderBanner returns the LEVELCAT banner styled in the primary color.
// Uses a compact fallback for terminals narrower than 70 columns.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < 70 {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}
