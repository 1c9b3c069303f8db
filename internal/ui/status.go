package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const statusVisibleFor = 4 * time.Second

type statusLevel int

const (
	statusInfo statusLevel = iota
	statusSuccess
	statusWarn
	statusError
)

// statusMsg is a transient notification shown in the shell view's status
// line. Modals emit one when they close with something to report.
type statusMsg struct {
	text  string
	level statusLevel
}

// clearStatusMsg clears the status line. The id guards against a stale
// clear tick wiping a newer notification.
type clearStatusMsg struct {
	id int
}

func notify(text string, level statusLevel) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{text: text, level: level}
	}
}

// statusLine is the shared transient-notification state embedded in the
// shell models (browse and detail).
type statusLine struct {
	text  string
	level statusLevel
	id    int
}

// show stores the notification and schedules its expiry.
func (s *statusLine) show(msg statusMsg) tea.Cmd {
	s.text = msg.text
	s.level = msg.level
	s.id++
	id := s.id
	return tea.Tick(statusVisibleFor, func(time.Time) tea.Msg {
		return clearStatusMsg{id: id}
	})
}

// clear wipes the line if msg belongs to the latest notification.
func (s *statusLine) clear(msg clearStatusMsg) {
	if msg.id == s.id {
		s.text = ""
	}
}

func (s *statusLine) render() string {
	if s.text == "" {
		return ""
	}

	var style lipgloss.Style
	switch s.level {
	case statusSuccess:
		style = SuccessStyle
	case statusWarn:
		style = WarningStyle
	case statusError:
		style = ErrorStyle
	default:
		style = InfoStyle
	}
	return style.Render(s.text)
}
