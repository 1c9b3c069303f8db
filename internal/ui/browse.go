package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/showdeck/showdeck/internal/api"
	"github.com/showdeck/showdeck/internal/cache"
)

// showItem adapts a show for the list component
type showItem struct {
	show api.Show
}

func (i showItem) Title() string {
	if i.show.Year > 0 {
		return fmt.Sprintf("%s (%d)", i.show.Name, i.show.Year)
	}
	return i.show.Name
}

func (i showItem) Description() string {
	return fmt.Sprintf("%d episodes  %s", i.show.EpisodeCount, i.show.Path)
}

func (i showItem) FilterValue() string { return i.show.Name }

type showsMsg struct {
	shows []api.Show
	err   error
}

// BrowseModel is the library listing, the entry view of the TUI. Other
// views return here when they close; notifications from them land on its
// status line, and any cache invalidation they performed is picked up by
// the cache-first reload that follows each notification.
type BrowseModel struct {
	env    Env
	list   list.Model
	status statusLine
	errMsg string
	width  int
	height int
}

// NewBrowseModel creates the library view
func NewBrowseModel(env Env) BrowseModel {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = lipgloss.NewStyle().
		Foreground(DeckBackground).
		Background(DeckTeal).
		Bold(true)
	delegate.Styles.SelectedDesc = lipgloss.NewStyle().
		Foreground(DeckBackground).
		Background(DeckDeepTeal)
	delegate.Styles.NormalTitle = lipgloss.NewStyle().
		Foreground(DeckForeground)
	delegate.Styles.NormalDesc = lipgloss.NewStyle().
		Foreground(DeckMuted)

	l := list.New([]list.Item{}, delegate, 0, 0)
	l.Title = "SHOWDECK LIBRARY"
	l.Styles.Title = TitleStyle

	return BrowseModel{env: env, list: l}
}

// Init loads the show listing
func (m BrowseModel) Init() tea.Cmd {
	return m.loadShowsCmd()
}

func (m BrowseModel) loadShowsCmd() tea.Cmd {
	env := m.env
	return func() tea.Msg {
		if v, ok := env.Cache.Get(cache.ShowListKey()); ok {
			return showsMsg{shows: v.([]api.Show)}
		}

		ctx, cancel := env.reqCtx()
		defer cancel()
		shows, err := env.Backend.ListShows(ctx)
		if err != nil {
			return showsMsg{err: err}
		}
		env.Cache.Set(cache.ShowListKey(), shows, 0)
		return showsMsg{shows: shows}
	}
}

func (m BrowseModel) selectedShow() (api.Show, bool) {
	item, ok := m.list.SelectedItem().(showItem)
	if !ok {
		return api.Show{}, false
	}
	return item.show, true
}

// Update handles messages
func (m BrowseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case showsMsg:
		if msg.err != nil {
			m.errMsg = fmt.Sprintf("Failed to load shows: %v", msg.err)
			return m, nil
		}
		m.errMsg = ""
		items := make([]list.Item, len(msg.shows))
		for i, show := range msg.shows {
			items[i] = showItem{show: show}
		}
		return m, m.list.SetItems(items)

	case statusMsg:
		// A modal closed with something to report. Reload through the
		// cache: if the modal invalidated the listing this re-reads the
		// server, otherwise it is a cheap cache hit.
		return m, tea.Batch(m.status.show(msg), m.loadShowsCmd())

	case clearStatusMsg:
		m.status.clear(msg)
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		// Banner (5 lines) + spacing (2) + status/footer (3) + padding (2)
		listHeight := msg.Height - 12
		if listHeight < 8 {
			listHeight = 8
		}
		m.list.SetSize(msg.Width-4, listHeight)
		return m, nil

	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit

		case "enter":
			if show, ok := m.selectedShow(); ok {
				detail := NewDetailModel(m.env, show.ID, show.Name, m)
				return detail, detail.Init()
			}

		case "r":
			if show, ok := m.selectedShow(); ok {
				modal := NewRenameModel(m.env, show.ID, show.Name, m)
				return modal, modal.Init()
			}

		case "m":
			if show, ok := m.selectedShow(); ok {
				modal := NewMuxModel(m.env, show.ID, show.Name, m)
				return modal, modal.Init()
			}
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the library
func (m BrowseModel) View() string {
	var content strings.Builder

	content.WriteString(FormatBanner())
	content.WriteString("\n\n")
	content.WriteString(m.list.View())
	content.WriteString("\n")

	if m.errMsg != "" {
		content.WriteString(ErrorStyle.Render(m.errMsg) + "\n")
	}
	if status := m.status.render(); status != "" {
		content.WriteString(status + "\n")
	}

	content.WriteString(FormatFooter(
		FormatKeybinding("Enter", "Open"),
		FormatKeybinding("R", "Rename"),
		FormatKeybinding("M", "Mux Subs"),
		FormatKeybinding("Q", "Quit"),
	))

	return lipgloss.NewStyle().Padding(1, 2).Render(content.String())
}
