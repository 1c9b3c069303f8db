package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/showdeck/showdeck/internal/api"
	"github.com/showdeck/showdeck/internal/cache"
	"github.com/showdeck/showdeck/internal/naming"
)

// previewInput is the debounced tuple that drives preview fetches. The
// preview must consume settled values, never the raw per-keystroke state.
type previewInput struct {
	pattern     string
	replacement naming.Replacement
}

type presetsMsg struct {
	catalog api.PresetCatalog
	err     error
}

type previewResultMsg struct {
	seq     int
	preview api.RenamePreview
	err     error
}

type renameResultMsg struct {
	outcome api.RenameOutcome
	err     error
}

// RenameModel is the rename-preview modal for one show. The user picks a
// preset or types a custom template, tunes space replacement and season
// folders, watches the live preview, and confirms a bulk rename.
type RenameModel struct {
	env    Env
	parent tea.Model // nil quits the program on close

	showID   int
	showName string

	// template selection
	registry    map[string]string // preset key -> pattern
	presets     map[string]api.Preset
	presetKeys  []string
	presetIdx   int
	useCustom   bool
	customInput textinput.Model

	// options
	repl        naming.Replacement
	editingRepl bool
	replInput   textinput.Model
	organize    bool

	// preview
	deb            debouncer[previewInput]
	preview        *api.RenamePreview
	previewErr     string
	previewLoading bool
	spin           spinner.Model

	// bulk rename
	inFlight bool
	errMsg   string
	outcome  *api.RenameOutcome

	width  int
	height int
}

// NewRenameModel creates the rename modal. parent is the model control
// returns to when the modal closes; a nil parent quits the program instead.
func NewRenameModel(env Env, showID int, showName string, parent tea.Model) RenameModel {
	ti := textinput.New()
	ti.Placeholder = naming.DefaultPattern
	ti.CharLimit = 200
	ti.Width = 60

	ri := textinput.New()
	ri.Placeholder = "-"
	ri.CharLimit = naming.MaxReplacementLen
	ri.Width = 8

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(DeckTeal)

	return RenameModel{
		env:         env,
		parent:      parent,
		showID:      showID,
		showName:    showName,
		customInput: ti,
		replInput:   ri,
		repl:        naming.KeepSpaces(),
		deb:         debouncer[previewInput]{delay: env.Config.Debounce()},
		spin:        sp,
	}
}

// Init loads the preset catalog.
func (m RenameModel) Init() tea.Cmd {
	return m.loadPresetsCmd()
}

func (m RenameModel) loadPresetsCmd() tea.Cmd {
	env := m.env
	return func() tea.Msg {
		if v, ok := env.Cache.Get(cache.PresetCatalogKey()); ok {
			return presetsMsg{catalog: v.(api.PresetCatalog)}
		}

		ctx, cancel := env.reqCtx()
		defer cancel()
		catalog, err := env.Backend.GetRenamePresets(ctx)
		if err != nil {
			return presetsMsg{err: err}
		}
		env.Cache.Set(cache.PresetCatalogKey(), catalog, 0)
		return presetsMsg{catalog: catalog}
	}
}

// selection converts the current UI state into the tagged template choice.
func (m RenameModel) selection() naming.Selection {
	if m.useCustom {
		return naming.CustomSelection(strings.TrimSpace(m.customInput.Value()))
	}
	return naming.PresetSelection(m.presetKey())
}

func (m RenameModel) presetKey() string {
	if m.presetIdx < 0 || m.presetIdx >= len(m.presetKeys) {
		return ""
	}
	return m.presetKeys[m.presetIdx]
}

func (m RenameModel) currentInput() previewInput {
	return previewInput{
		pattern:     m.selection().Resolve(m.registry),
		replacement: m.repl,
	}
}

// Update handles messages
func (m RenameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case presetsMsg:
		if msg.err != nil {
			// The modal still works without the catalog: preset selection
			// resolves to the default template until a retry succeeds.
			m.previewErr = fmt.Sprintf("presets unavailable: %v", msg.err)
			return m, m.deb.input(m.currentInput())
		}
		m.presets = msg.catalog.Presets
		m.registry = make(map[string]string, len(msg.catalog.Presets))
		m.presetKeys = m.presetKeys[:0]
		for key, preset := range msg.catalog.Presets {
			m.registry[key] = preset.Pattern
			m.presetKeys = append(m.presetKeys, key)
		}
		sort.Strings(m.presetKeys)
		for i, key := range m.presetKeys {
			if key == "standard" {
				m.presetIdx = i
				break
			}
		}
		return m, m.deb.input(m.currentInput())

	case settledMsg[previewInput]:
		input, ok := m.deb.settle(msg)
		if !ok {
			// Superseded by a later edit.
			return m, nil
		}
		return m.fetchPreview(input)

	case previewResultMsg:
		if msg.seq != m.deb.seq {
			// A newer edit settled while this request was in flight.
			return m, nil
		}
		m.previewLoading = false
		if msg.err != nil {
			// Stale-while-error: the prior projection stays on screen.
			m.previewErr = msg.err.Error()
			return m, nil
		}
		preview := msg.preview
		m.preview = &preview
		m.previewErr = ""
		return m, nil

	case renameResultMsg:
		m.inFlight = false
		if msg.err != nil {
			// Server message verbatim; the user can edit inputs and retry.
			m.errMsg = msg.err.Error()
			return m, nil
		}
		outcome := msg.outcome
		m.outcome = &outcome
		m.env.Cache.Invalidate(
			cache.ShowListKey(),
			cache.ShowDetailKey(m.showID),
			cache.EpisodeListKey(m.showID),
		)
		// Closure is unconditional on completion; partial errors are part
		// of the reported summary, not a reason to stay open.
		return m.close(notify(renameSummary(outcome), renameLevel(outcome)))

	case spinner.TickMsg:
		if m.previewLoading || m.inFlight {
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

func (m RenameModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.editingRepl {
		switch msg.String() {
		case "esc":
			m.editingRepl = false
			m.replInput.Blur()
			return m, nil
		case "enter":
			repl, err := naming.NewReplacement(strings.TrimSpace(m.replInput.Value()))
			if err != nil {
				m.errMsg = err.Error()
				return m, nil
			}
			m.repl = repl
			m.editingRepl = false
			m.replInput.Blur()
			m.replInput.SetValue("")
			m.errMsg = ""
			return m, m.deb.input(m.currentInput())
		default:
			var cmd tea.Cmd
			m.replInput, cmd = m.replInput.Update(msg)
			return m, cmd
		}
	}

	switch msg.String() {
	case "ctrl+c", "esc":
		return m.close()

	case "enter":
		return m.confirm()

	case "tab":
		m.useCustom = !m.useCustom
		if m.useCustom {
			m.customInput.Focus()
			return m, tea.Batch(textinput.Blink, m.deb.input(m.currentInput()))
		}
		m.customInput.Blur()
		return m, m.deb.input(m.currentInput())

	case "ctrl+s":
		m.repl = nextCannedReplacement(m.repl)
		return m, m.deb.input(m.currentInput())

	case "ctrl+r":
		m.editingRepl = true
		m.replInput.Focus()
		return m, textinput.Blink

	case "ctrl+f":
		// Season folders only affect the bulk call, not the preview.
		m.organize = !m.organize
		return m, nil
	}

	if m.useCustom {
		before := m.customInput.Value()
		var cmd tea.Cmd
		m.customInput, cmd = m.customInput.Update(msg)
		if m.customInput.Value() != before {
			return m, tea.Batch(cmd, m.deb.input(m.currentInput()))
		}
		return m, cmd
	}

	switch msg.String() {
	case "up", "k":
		if m.presetIdx > 0 {
			m.presetIdx--
			return m, m.deb.input(m.currentInput())
		}
	case "down", "j":
		if m.presetIdx < len(m.presetKeys)-1 {
			m.presetIdx++
			return m, m.deb.input(m.currentInput())
		}
	case "s":
		m.repl = nextCannedReplacement(m.repl)
		return m, m.deb.input(m.currentInput())
	case "f":
		m.organize = !m.organize
	}

	return m, nil
}

// fetchPreview resolves a settled input tuple into either a cache hit or a
// preview request.
func (m RenameModel) fetchPreview(in previewInput) (tea.Model, tea.Cmd) {
	if m.showID <= 0 || strings.TrimSpace(in.pattern) == "" {
		return m, nil
	}

	key := cache.PreviewKey(m.showID, in.pattern, in.replacement.Param())
	if v, ok := m.env.Cache.Get(key); ok {
		preview := v.(api.RenamePreview)
		m.preview = &preview
		m.previewErr = ""
		m.previewLoading = false
		return m, nil
	}

	m.previewLoading = true
	seq := m.deb.seq
	env := m.env
	showID := m.showID
	fetch := func() tea.Msg {
		ctx, cancel := env.reqCtx()
		defer cancel()
		preview, err := env.Backend.PreviewRename(ctx, showID, in.pattern, in.replacement.Param())
		if err != nil {
			return previewResultMsg{seq: seq, err: err}
		}
		env.Cache.Set(key, preview, env.Config.PreviewFreshness())
		return previewResultMsg{seq: seq, preview: preview}
	}
	return m, tea.Batch(fetch, m.spin.Tick)
}

// confirm fires the bulk rename. At most one request per confirmation: the
// trigger is a no-op while a request is in flight.
func (m RenameModel) confirm() (tea.Model, tea.Cmd) {
	if m.inFlight {
		return m, nil
	}

	in := m.currentInput()
	if m.showID <= 0 || strings.TrimSpace(in.pattern) == "" {
		return m, nil
	}

	m.inFlight = true
	m.errMsg = ""

	env := m.env
	showID := m.showID
	organize := m.organize
	rename := func() tea.Msg {
		ctx, cancel := env.reqCtx()
		defer cancel()
		outcome, err := env.Backend.RenameAll(ctx, showID, in.pattern, organize, in.replacement.Param())
		return renameResultMsg{outcome: outcome, err: err}
	}
	return m, tea.Batch(rename, m.spin.Tick)
}

func (m RenameModel) close(cmds ...tea.Cmd) (tea.Model, tea.Cmd) {
	if m.parent == nil {
		return m, tea.Quit
	}
	return m.parent, tea.Batch(cmds...)
}

// Outcome returns the bulk rename result, if one completed. Used by the
// CLI entrypoint when the modal runs standalone.
func (m RenameModel) Outcome() *api.RenameOutcome {
	return m.outcome
}

func nextCannedReplacement(r naming.Replacement) naming.Replacement {
	p := r.Param()
	switch {
	case p == nil:
		return naming.Dots()
	case *p == ".":
		return naming.Underscores()
	default:
		return naming.KeepSpaces()
	}
}

func renameSummary(o api.RenameOutcome) string {
	if len(o.Errors) == 0 {
		return fmt.Sprintf("Renamed %d of %d episodes", o.Renamed, o.Total)
	}
	return fmt.Sprintf("Renamed %d of %d episodes (%d errors)", o.Renamed, o.Total, len(o.Errors))
}

func renameLevel(o api.RenameOutcome) statusLevel {
	if len(o.Errors) == 0 {
		return statusSuccess
	}
	return statusWarn
}

// View renders the rename modal
func (m RenameModel) View() string {
	var sb strings.Builder

	sb.WriteString(TitleStyle.Render(fmt.Sprintf("RENAME EPISODES — %s", m.showName)) + "\n\n")

	// Template selection
	if m.useCustom {
		sb.WriteString(MutedStyle.Render("Template (custom):") + "\n")
		sb.WriteString("  " + m.customInput.View() + "\n\n")
	} else {
		sb.WriteString(MutedStyle.Render("Template (preset):") + "\n")
		if len(m.presetKeys) == 0 {
			sb.WriteString("  " + MutedStyle.Render("loading presets...") + "\n")
		}
		for i, key := range m.presetKeys {
			preset := m.presets[key]
			line := fmt.Sprintf("%s — %s", preset.Name, preset.Description)
			if i == m.presetIdx {
				sb.WriteString("  " + HighlightStyle.Render("→ "+line) + "\n")
				sb.WriteString("    " + MutedStyle.Render(preset.Pattern) + "\n")
			} else {
				sb.WriteString("    " + ContentStyle.Render(line) + "\n")
			}
		}
		sb.WriteString("\n")
	}

	// Options
	sb.WriteString(MutedStyle.Render("Spaces: ") + ContentStyle.Render(m.repl.Label()))
	if m.editingRepl {
		sb.WriteString("  " + m.replInput.View())
	}
	sb.WriteString("   " + MutedStyle.Render("Season folders: "))
	if m.organize {
		sb.WriteString(SuccessStyle.Render("on"))
	} else {
		sb.WriteString(MutedStyle.Render("off"))
	}
	sb.WriteString("\n\n")

	// Preview
	sb.WriteString(TitleStyle.Render("PREVIEW") + "\n")
	if m.preview != nil {
		sb.WriteString(MutedStyle.Render("  Current: ") + ContentStyle.Render(m.preview.CurrentName) + "\n")
		sb.WriteString(MutedStyle.Render("  New:     ") + SuccessStyle.Render(m.preview.NewName) + "\n")
		if pi := m.preview.ParsedInfo; pi != nil {
			sb.WriteString(MutedStyle.Render(fmt.Sprintf("  Release: %s / %s / %s", pi.Quality, pi.Resolution, pi.ReleaseGroup)) + "\n")
		}
	} else {
		sb.WriteString(MutedStyle.Render("  No preview yet") + "\n")
	}
	if m.previewLoading {
		sb.WriteString("  " + m.spin.View() + MutedStyle.Render(" updating preview...") + "\n")
	}
	if m.previewErr != "" {
		sb.WriteString("  " + WarningStyle.Render(m.previewErr) + "\n")
	}
	sb.WriteString("\n")

	if m.inFlight {
		sb.WriteString(m.spin.View() + InfoStyle.Render(" Renaming...") + "\n")
	}
	if m.errMsg != "" {
		sb.WriteString(ErrorStyle.Render(m.errMsg) + "\n")
	}

	footer := FormatFooter(
		FormatKeybinding("↑↓", "Preset"),
		FormatKeybinding("Tab", "Custom"),
		FormatKeybinding("^S", "Spaces"),
		FormatKeybinding("^R", "Token"),
		FormatKeybinding("^F", "Folders"),
		FormatKeybinding("Enter", "Rename"),
		FormatKeybinding("Esc", "Cancel"),
	)

	return ModalStyle.Render(sb.String()) + "\n" + footer
}
