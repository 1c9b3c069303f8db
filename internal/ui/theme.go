package ui

import "github.com/charmbracelet/lipgloss"

// Deck theme colors
var (
	// Primary colors
	DeckTeal       = lipgloss.Color("#2dd4bf") // Tide teal
	DeckDeepTeal   = lipgloss.Color("#0d9488") // Deep tide
	DeckBackground = lipgloss.Color("#1e293b") // Slate
	DeckForeground = lipgloss.Color("#f1f5f9") // Off white
	DeckMuted      = lipgloss.Color("#94a3b8") // Cool gray

	// Semantic colors
	ColorSuccess = lipgloss.Color("#2ecc71")
	ColorWarning = lipgloss.Color("#f39c12")
	ColorError   = lipgloss.Color("#ef4444")
	ColorInfo    = lipgloss.Color("#3498db")
)

// Styles for TUI components
var (
	// Header style
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(DeckBackground).
			Background(DeckTeal).
			Padding(0, 1).
			Width(80)

	// Footer style (keybindings)
	FooterStyle = lipgloss.NewStyle().
			Foreground(DeckMuted).
			Background(DeckBackground).
			Padding(0, 1).
			Width(80)

	// Title style (for sections)
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(DeckTeal).
			MarginTop(1).
			MarginBottom(1)

	// Content style
	ContentStyle = lipgloss.NewStyle().
			Foreground(DeckForeground)

	// Muted text style
	MutedStyle = lipgloss.NewStyle().
			Foreground(DeckMuted)

	// Highlight style (for selections)
	HighlightStyle = lipgloss.NewStyle().
			Foreground(DeckBackground).
			Background(DeckTeal).
			Bold(true)

	// Success style
	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess).
			Bold(true)

	// Error style
	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorError).
			Bold(true)

	// Warning style
	WarningStyle = lipgloss.NewStyle().
			Foreground(ColorWarning).
			Bold(true)

	// Info style
	InfoStyle = lipgloss.NewStyle().
			Foreground(ColorInfo)

	// Stat style (for numbers)
	StatStyle = lipgloss.NewStyle().
			Foreground(DeckTeal).
			Bold(true)

	// Modal border style
	ModalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(DeckTeal).
			Padding(1, 2)
)

// FormatKeybinding formats a keybinding for display in footer
func FormatKeybinding(key, description string) string {
	keyStyle := lipgloss.NewStyle().
		Foreground(DeckTeal).
		Bold(true)

	descStyle := lipgloss.NewStyle().
		Foreground(DeckMuted)

	return keyStyle.Render(key) + " " + descStyle.Render(description)
}

// FormatHeader formats a header with consistent styling
func FormatHeader(title string) string {
	return HeaderStyle.Render(title)
}

// FormatFooter formats footer with keybindings
func FormatFooter(keybindings ...string) string {
	footer := ""
	for i, kb := range keybindings {
		if i > 0 {
			footer += "  "
		}
		footer += kb
	}
	return FooterStyle.Render(footer)
}
