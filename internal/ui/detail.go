package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/showdeck/showdeck/internal/api"
	"github.com/showdeck/showdeck/internal/cache"
)

var titleCaser = cases.Title(language.English)

// detailMode is the input mode of the detail view.
type detailMode int

const (
	detailViewing detailMode = iota
	detailSearching
	detailPicking
)

type detailMsg struct {
	detail api.ShowDetail
	err    error
}

type episodesMsg struct {
	episodes []api.Episode
	err      error
}

type candidatesMsg struct {
	candidates []api.ScrapeCandidate
	err        error
}

type applyMsg struct {
	err error
}

type analyzeMsg struct {
	episodeID int
	info      api.MediaInfo
	err       error
}

// DetailModel shows one show's metadata and episode list. It is the launch
// point for the rename and mux workflows, and it hosts the metadata scrape
// flow: search, pick a candidate, apply. Applying metadata invalidates both
// the show detail and the library listing before reloading.
type DetailModel struct {
	env    Env
	parent tea.Model

	showID   int
	showName string

	detail   *api.ShowDetail
	episodes []api.Episode
	selected int
	loadErr  string

	mode          detailMode
	queryInput    textinput.Model
	searching     bool
	candidates    []api.ScrapeCandidate
	candidateIdx  int
	applyInFlight bool
	analyzing     bool

	status statusLine
	width  int
	height int
}

// NewDetailModel creates the detail view for one show.
func NewDetailModel(env Env, showID int, showName string, parent tea.Model) DetailModel {
	ti := textinput.New()
	ti.Placeholder = "search title..."
	ti.CharLimit = 120
	ti.Width = 40

	return DetailModel{
		env:        env,
		parent:     parent,
		showID:     showID,
		showName:   showName,
		queryInput: ti,
	}
}

// Init loads the show record and its episodes.
func (m DetailModel) Init() tea.Cmd {
	return tea.Batch(m.loadDetailCmd(), m.loadEpisodesCmd())
}

func (m DetailModel) loadDetailCmd() tea.Cmd {
	env := m.env
	showID := m.showID
	return func() tea.Msg {
		if v, ok := env.Cache.Get(cache.ShowDetailKey(showID)); ok {
			return detailMsg{detail: v.(api.ShowDetail)}
		}

		ctx, cancel := env.reqCtx()
		defer cancel()
		detail, err := env.Backend.GetShow(ctx, showID)
		if err != nil {
			return detailMsg{err: err}
		}
		env.Cache.Set(cache.ShowDetailKey(showID), detail, 0)
		return detailMsg{detail: detail}
	}
}

func (m DetailModel) loadEpisodesCmd() tea.Cmd {
	env := m.env
	showID := m.showID
	return func() tea.Msg {
		if v, ok := env.Cache.Get(cache.EpisodeListKey(showID)); ok {
			return episodesMsg{episodes: v.([]api.Episode)}
		}

		ctx, cancel := env.reqCtx()
		defer cancel()
		episodes, err := env.Backend.ListEpisodes(ctx, showID)
		if err != nil {
			return episodesMsg{err: err}
		}
		env.Cache.Set(cache.EpisodeListKey(showID), episodes, 0)
		return episodesMsg{episodes: episodes}
	}
}

func (m DetailModel) searchCmd(query string) tea.Cmd {
	env := m.env
	showID := m.showID
	return func() tea.Msg {
		ctx, cancel := env.reqCtx()
		defer cancel()
		candidates, err := env.Backend.SearchMetadata(ctx, showID, query)
		return candidatesMsg{candidates: candidates, err: err}
	}
}

func (m DetailModel) applyCmd(candidateID string) tea.Cmd {
	env := m.env
	showID := m.showID
	return func() tea.Msg {
		ctx, cancel := env.reqCtx()
		defer cancel()
		err := env.Backend.ApplyMetadata(ctx, showID, candidateID)
		return applyMsg{err: err}
	}
}

func (m DetailModel) analyzeCmd(episodeID int) tea.Cmd {
	env := m.env
	showID := m.showID
	return func() tea.Msg {
		ctx, cancel := env.reqCtx()
		defer cancel()
		info, err := env.Backend.AnalyzeEpisode(ctx, showID, episodeID)
		return analyzeMsg{episodeID: episodeID, info: info, err: err}
	}
}

// Update handles messages
func (m DetailModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case detailMsg:
		if msg.err != nil {
			m.loadErr = fmt.Sprintf("Failed to load show: %v", msg.err)
			return m, nil
		}
		m.loadErr = ""
		detail := msg.detail
		m.detail = &detail
		m.showName = detail.Name
		return m, nil

	case episodesMsg:
		if msg.err != nil {
			m.loadErr = fmt.Sprintf("Failed to load episodes: %v", msg.err)
			return m, nil
		}
		m.episodes = msg.episodes
		if m.selected >= len(m.episodes) {
			m.selected = 0
		}
		return m, nil

	case candidatesMsg:
		m.searching = false
		if msg.err != nil {
			return m, notify(fmt.Sprintf("Search failed: %v", msg.err), statusError)
		}
		if len(msg.candidates) == 0 {
			m.mode = detailViewing
			return m, notify("No metadata matches found", statusWarn)
		}
		m.candidates = msg.candidates
		m.candidateIdx = 0
		m.mode = detailPicking
		return m, nil

	case applyMsg:
		m.applyInFlight = false
		if msg.err != nil {
			return m, notify(fmt.Sprintf("Failed to apply metadata: %v", msg.err), statusError)
		}
		m.mode = detailViewing
		m.candidates = nil
		m.env.Cache.Invalidate(
			cache.ShowDetailKey(m.showID),
			cache.ShowListKey(),
		)
		return m, tea.Batch(
			notify("Metadata applied", statusSuccess),
			m.loadDetailCmd(),
		)

	case analyzeMsg:
		m.analyzing = false
		if msg.err != nil {
			return m, notify(fmt.Sprintf("Analysis failed: %v", msg.err), statusError)
		}
		info := msg.info
		return m, notify(fmt.Sprintf("%s / %s, %s, %dm, %d subtitle tracks",
			info.VideoCodec, info.AudioCodec, info.Resolution,
			info.DurationSeconds/60, info.SubtitleTracks), statusInfo)

	case statusMsg:
		// Modals report here on close; reload through the cache so any
		// invalidation they performed takes effect.
		return m, tea.Batch(m.status.show(msg), m.loadDetailCmd(), m.loadEpisodesCmd())

	case clearStatusMsg:
		m.status.clear(msg)
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m DetailModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case detailSearching:
		return m.handleSearchKey(msg)
	case detailPicking:
		return m.handlePickKey(msg)
	}

	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "esc", "q":
		if m.parent == nil {
			return m, tea.Quit
		}
		return m.parent, nil

	case "up", "k":
		if m.selected > 0 {
			m.selected--
		}
		return m, nil

	case "down", "j":
		if m.selected < len(m.episodes)-1 {
			m.selected++
		}
		return m, nil

	case "r":
		modal := NewRenameModel(m.env, m.showID, m.showName, m)
		return modal, modal.Init()

	case "m":
		modal := NewMuxModel(m.env, m.showID, m.showName, m)
		return modal, modal.Init()

	case "s":
		m.mode = detailSearching
		m.queryInput.SetValue(m.showName)
		m.queryInput.Focus()
		return m, textinput.Blink

	case "a":
		if m.analyzing || m.selected >= len(m.episodes) {
			return m, nil
		}
		m.analyzing = true
		return m, m.analyzeCmd(m.episodes[m.selected].ID)
	}

	return m, nil
}

func (m DetailModel) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "esc":
		m.mode = detailViewing
		m.queryInput.Blur()
		return m, nil

	case "enter":
		query := strings.TrimSpace(m.queryInput.Value())
		if query == "" || m.searching {
			return m, nil
		}
		m.searching = true
		m.queryInput.Blur()
		return m, m.searchCmd(query)
	}

	var cmd tea.Cmd
	m.queryInput, cmd = m.queryInput.Update(msg)
	return m, cmd
}

func (m DetailModel) handlePickKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "esc":
		m.mode = detailSearching
		m.candidates = nil
		m.queryInput.Focus()
		return m, textinput.Blink

	case "up", "k":
		if m.candidateIdx > 0 {
			m.candidateIdx--
		}
		return m, nil

	case "down", "j":
		if m.candidateIdx < len(m.candidates)-1 {
			m.candidateIdx++
		}
		return m, nil

	case "enter":
		if m.applyInFlight || m.candidateIdx >= len(m.candidates) {
			return m, nil
		}
		m.applyInFlight = true
		return m, m.applyCmd(m.candidates[m.candidateIdx].ID)
	}

	return m, nil
}

// View renders the detail view
func (m DetailModel) View() string {
	var sb strings.Builder

	sb.WriteString(FormatHeader(fmt.Sprintf("SHOW — %s", m.showName)) + "\n\n")

	if m.loadErr != "" {
		sb.WriteString(ErrorStyle.Render(m.loadErr) + "\n\n")
	}

	if m.detail != nil {
		d := m.detail
		meta := fmt.Sprintf("%d  •  %d episodes", d.Year, d.EpisodeCount)
		sb.WriteString(MutedStyle.Render(meta) + "\n")
		sb.WriteString(MutedStyle.Render(d.Path) + "\n")
		if d.Overview != "" {
			sb.WriteString("\n" + ContentStyle.Render(d.Overview) + "\n")
		}
		sb.WriteString("\n")
	}

	switch m.mode {
	case detailSearching:
		sb.WriteString(m.renderSearch())
	case detailPicking:
		sb.WriteString(m.renderCandidates())
	default:
		sb.WriteString(m.renderEpisodes())
	}

	if status := m.status.render(); status != "" {
		sb.WriteString("\n" + status + "\n")
	}

	sb.WriteString("\n" + m.renderFooter())
	return lipgloss.NewStyle().Padding(1, 2).Render(sb.String())
}

func (m DetailModel) renderEpisodes() string {
	if len(m.episodes) == 0 {
		return MutedStyle.Render("No episodes.") + "\n"
	}

	var sb strings.Builder
	sb.WriteString(TitleStyle.Render("EPISODES") + "\n")
	for i, ep := range m.episodes {
		label := fmt.Sprintf("S%02dE%02d  %s", ep.SeasonNumber, ep.EpisodeNumber, ep.Title)
		sub := "  "
		if ep.HasSubtitle {
			sub = SuccessStyle.Render("◆ ")
		}
		if i == m.selected {
			sb.WriteString("  " + sub + HighlightStyle.Render("> "+label) + "\n")
		} else {
			sb.WriteString("  " + sub + ContentStyle.Render("  "+label) + "\n")
		}
	}
	return sb.String()
}

func (m DetailModel) renderSearch() string {
	var sb strings.Builder
	sb.WriteString(TitleStyle.Render("SCRAPE METADATA") + "\n")
	sb.WriteString("  " + m.queryInput.View() + "\n")
	if m.searching {
		sb.WriteString("  " + MutedStyle.Render("searching...") + "\n")
	}
	return sb.String()
}

func (m DetailModel) renderCandidates() string {
	var sb strings.Builder
	sb.WriteString(TitleStyle.Render("SELECT MATCH") + "\n")
	for i, c := range m.candidates {
		label := titleCaser.String(c.Title)
		if c.Year > 0 {
			label = fmt.Sprintf("%s (%d)", label, c.Year)
		}
		line := fmt.Sprintf("%s  %s", label, MutedStyle.Render(c.Source))
		if i == m.candidateIdx {
			sb.WriteString("  " + HighlightStyle.Render("> "+line) + "\n")
			if c.Overview != "" {
				sb.WriteString("    " + MutedStyle.Render(truncate(c.Overview, 100)) + "\n")
			}
		} else {
			sb.WriteString("    " + ContentStyle.Render(line) + "\n")
		}
	}
	if m.applyInFlight {
		sb.WriteString("\n  " + MutedStyle.Render("applying...") + "\n")
	}
	return sb.String()
}

func (m DetailModel) renderFooter() string {
	switch m.mode {
	case detailSearching:
		return FormatFooter(
			FormatKeybinding("Enter", "Search"),
			FormatKeybinding("Esc", "Back"),
		)
	case detailPicking:
		return FormatFooter(
			FormatKeybinding("Enter", "Apply"),
			FormatKeybinding("Esc", "Back"),
		)
	}
	return FormatFooter(
		FormatKeybinding("R", "Rename"),
		FormatKeybinding("M", "Mux Subs"),
		FormatKeybinding("S", "Scrape"),
		FormatKeybinding("A", "Analyze"),
		FormatKeybinding("Esc", "Back"),
	)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
