package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/showdeck/showdeck/internal/api"
	"github.com/showdeck/showdeck/internal/cache"
)

// muxState is the subtitle-mux workflow state machine.
type muxState int

const (
	muxIdle muxState = iota
	muxPreviewLoading
	muxPreviewReady
	muxProcessing
	muxDone
)

// muxStartMsg kicks the workflow out of Idle. Init cannot mutate the
// model, so the transition happens in Update.
type muxStartMsg struct{}

type muxPreviewMsg struct {
	items []api.MuxPreviewItem
	err   error
}

type muxItemDoneMsg struct {
	index int
	err   error
}

// MuxModel coordinates subtitle embedding for one show: it fetches an
// eligibility preview, then on confirmation muxes each eligible episode
// strictly one at a time. Per-item failures are collected and never stop
// the sequence; cancellation is blocked while items are being processed so
// no server-side mux is left without a client observing its outcome.
type MuxModel struct {
	env    Env
	parent tea.Model

	showID   int
	showName string

	state      muxState
	items      []api.MuxPreviewItem
	previewErr string

	eligible []api.MuxPreviewItem
	current  int // 1-based item being processed, set before each call
	total    int
	done     int
	errs     []string

	spin   spinner.Model
	width  int
	height int
}

// NewMuxModel creates the mux confirmation modal for one show.
func NewMuxModel(env Env, showID int, showName string, parent tea.Model) MuxModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(DeckTeal)

	return MuxModel{
		env:      env,
		parent:   parent,
		showID:   showID,
		showName: showName,
		state:    muxIdle,
		spin:     sp,
	}
}

// Init schedules the Idle -> PreviewLoading transition.
func (m MuxModel) Init() tea.Cmd {
	return func() tea.Msg {
		return muxStartMsg{}
	}
}

func (m *MuxModel) loadPreview() tea.Cmd {
	m.state = muxPreviewLoading
	env := m.env
	showID := m.showID
	fetch := func() tea.Msg {
		ctx, cancel := env.reqCtx()
		defer cancel()
		items, err := env.Backend.GetMuxPreview(ctx, showID)
		return muxPreviewMsg{items: items, err: err}
	}
	return tea.Batch(fetch, m.spin.Tick)
}

// Update handles messages
func (m MuxModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case muxStartMsg:
		if m.state != muxIdle {
			return m, nil
		}
		return m, m.loadPreview()

	case muxPreviewMsg:
		if m.state != muxPreviewLoading {
			return m, nil
		}
		m.state = muxPreviewReady
		if msg.err != nil {
			// Preview stays empty; the user can still cancel.
			m.previewErr = msg.err.Error()
			return m, nil
		}
		m.items = msg.items
		return m, nil

	case muxItemDoneMsg:
		if m.state != muxProcessing {
			return m, nil
		}
		m.done++
		if msg.err != nil {
			item := m.eligible[msg.index]
			m.errs = append(m.errs, fmt.Sprintf("S%02dE%02d: %v", item.SeasonNumber, item.EpisodeNumber, msg.err))
		}
		if m.done < m.total {
			return m, m.nextItemCmd()
		}
		return m.finish()

	case spinner.TickMsg:
		if m.state == muxPreviewLoading || m.state == muxProcessing {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m MuxModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc", "q":
		// Cancellation is blocked once processing starts: the sequence
		// runs to completion so every issued mux call is accounted for.
		if m.state == muxProcessing {
			return m, nil
		}
		if m.state == muxDone {
			return m.close(notify(m.summary(), m.summaryLevel()))
		}
		return m.close()

	case "enter":
		switch m.state {
		case muxPreviewReady:
			return m.confirm()
		case muxDone:
			return m.close(notify(m.summary(), m.summaryLevel()))
		}
	}

	return m, nil
}

// confirm transitions PreviewReady -> Processing. Only allowed once the
// preview data is present.
func (m MuxModel) confirm() (tea.Model, tea.Cmd) {
	if m.items == nil {
		return m, nil
	}

	m.eligible = m.eligible[:0]
	for _, item := range m.items {
		if item.CanMux {
			m.eligible = append(m.eligible, item)
		}
	}
	m.total = len(m.eligible)
	m.done = 0
	m.current = 0
	m.errs = nil

	if m.total == 0 {
		m.state = muxDone
		return m, nil
	}

	m.state = muxProcessing
	return m, tea.Batch(m.nextItemCmd(), m.spin.Tick)
}

// nextItemCmd issues the mux call for the next eligible episode. Progress
// is advanced before the call so the view reads "item N of total" while
// the request is in flight. The next call is only scheduled when this
// one's result message arrives, which keeps the sequence strictly serial.
func (m *MuxModel) nextItemCmd() tea.Cmd {
	index := m.done
	item := m.eligible[index]
	m.current = index + 1

	env := m.env
	showID := m.showID
	return func() tea.Msg {
		ctx, cancel := env.reqCtx()
		defer cancel()
		err := env.Backend.MuxEpisode(ctx, showID, item.EpisodeID)
		return muxItemDoneMsg{index: index, err: err}
	}
}

// finish transitions Processing -> Done and invalidates the episode list
// so downstream views re-read the muxed files.
func (m MuxModel) finish() (tea.Model, tea.Cmd) {
	m.state = muxDone
	m.env.Cache.Invalidate(cache.EpisodeListKey(m.showID))
	return m, nil
}

func (m MuxModel) close(cmds ...tea.Cmd) (tea.Model, tea.Cmd) {
	if m.parent == nil {
		return m, tea.Quit
	}
	return m.parent, tea.Batch(cmds...)
}

func (m MuxModel) summary() string {
	succeeded := m.total - len(m.errs)
	if len(m.errs) == 0 {
		return fmt.Sprintf("Muxed subtitles for %d of %d episodes", succeeded, m.total)
	}
	return fmt.Sprintf("Muxed subtitles for %d of %d episodes (%d errors)", succeeded, m.total, len(m.errs))
}

func (m MuxModel) summaryLevel() statusLevel {
	if len(m.errs) == 0 {
		return statusSuccess
	}
	return statusWarn
}

// Succeeded returns how many episodes muxed cleanly. Used by the CLI
// entrypoint when the modal runs standalone.
func (m MuxModel) Succeeded() (succeeded, total int, errs []string) {
	return m.total - len(m.errs), m.total, m.errs
}

// View renders the mux modal
func (m MuxModel) View() string {
	var sb strings.Builder

	sb.WriteString(TitleStyle.Render(fmt.Sprintf("MUX SUBTITLES — %s", m.showName)) + "\n\n")

	switch m.state {
	case muxIdle, muxPreviewLoading:
		sb.WriteString(m.spin.View() + MutedStyle.Render(" checking subtitle eligibility...") + "\n")

	case muxPreviewReady:
		if m.previewErr != "" {
			sb.WriteString(ErrorStyle.Render("Failed to load preview: "+m.previewErr) + "\n")
			break
		}
		eligible := 0
		for _, item := range m.items {
			if item.CanMux {
				eligible++
			}
		}
		sb.WriteString(InfoStyle.Render(fmt.Sprintf("%d of %d episodes have a muxable subtitle:", eligible, len(m.items))) + "\n\n")
		for _, item := range m.items {
			label := fmt.Sprintf("S%02dE%02d", item.SeasonNumber, item.EpisodeNumber)
			if item.CanMux {
				sb.WriteString("  " + SuccessStyle.Render("MUX:  ") + ContentStyle.Render(label) + "\n")
			} else {
				sb.WriteString("  " + MutedStyle.Render("SKIP: "+label) + "\n")
			}
		}

	case muxProcessing:
		sb.WriteString(renderProgressBar(float64(m.done)/float64(m.total)*100, 40) + "\n")
		sb.WriteString(fmt.Sprintf("  %s Processing episode %s of %s\n",
			m.spin.View(),
			StatStyle.Render(fmt.Sprintf("%d", m.current)),
			StatStyle.Render(fmt.Sprintf("%d", m.total))))
		if len(m.errs) > 0 {
			sb.WriteString("\n" + WarningStyle.Render(fmt.Sprintf("%d failures so far", len(m.errs))) + "\n")
		}

	case muxDone:
		sb.WriteString(renderProgressBar(100, 40) + "\n\n")
		succeeded := m.total - len(m.errs)
		sb.WriteString(SuccessStyle.Render(fmt.Sprintf("✓ Muxed %d of %d episodes", succeeded, m.total)) + "\n")
		for _, e := range m.errs {
			sb.WriteString("  " + ErrorStyle.Render(e) + "\n")
		}
	}

	var footer string
	switch m.state {
	case muxPreviewReady:
		footer = FormatFooter(
			FormatKeybinding("Enter", "Mux All"),
			FormatKeybinding("Esc", "Cancel"),
		)
	case muxProcessing:
		footer = FormatFooter(MutedStyle.Render("Processing... cancellation disabled"))
	default:
		footer = FormatFooter(FormatKeybinding("Esc", "Close"))
	}

	return ModalStyle.Render(sb.String()) + "\n" + footer
}

// renderProgressBar creates a text-based progress bar
func renderProgressBar(percent float64, width int) string {
	filled := int((percent / 100.0) * float64(width))
	if filled > width {
		filled = width
	}

	bar := "["
	for i := 0; i < width; i++ {
		if i < filled {
			bar += "█"
		} else {
			bar += " "
		}
	}
	bar += "]"

	return SuccessStyle.Render(bar)
}
