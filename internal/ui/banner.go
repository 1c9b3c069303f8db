package ui

import "github.com/charmbracelet/lipgloss"

// ASCII art for the showdeck header as a single string to preserve exact
// formatting
const showdeckASCII = `      _                   _           _
  ___| |__   _____      _| | ___  ___| | __
 / __| '_ \ / _ \ \ /\ / / |/ _ \/ __| |/ /
 \__ \ | | | (_) \ V  V /| |  __/ (__|   <
 |___/_| |_|\___/ \_/\_/ |_|\___|\___|_|\_\`

// FormatBanner renders the showdeck header
func FormatBanner() string {
	headerStyle := lipgloss.NewStyle().
		Foreground(DeckTeal).
		Bold(true)

	return headerStyle.Render(showdeckASCII)
}

// FormatBannerWithSubtext renders the header with a muted subtitle
func FormatBannerWithSubtext(subtext string) string {
	subtitle := lipgloss.NewStyle().
		Foreground(DeckMuted).
		Render(subtext)

	return FormatBanner() + "\n\n" + subtitle
}
