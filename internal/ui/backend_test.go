package ui

import (
	"context"
	"sync"
	"testing"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/showdeck/showdeck/internal/api"
	"github.com/showdeck/showdeck/internal/cache"
	"github.com/showdeck/showdeck/internal/config"
)

// fakeBackend counts calls and returns canned responses.
type fakeBackend struct {
	mu sync.Mutex

	presetCalls     int
	previewCalls    int
	renameCalls     int
	muxPreviewCalls int
	muxCalls        []int // episode IDs in call order
	showsCalls      int
	detailCalls     int
	episodesCalls   int
	searchCalls     int
	applyCalls      int
	analyzeCalls    int

	catalog       api.PresetCatalog
	preview       api.RenamePreview
	previewErr    error
	outcome       api.RenameOutcome
	renameErr     error
	muxItems      []api.MuxPreviewItem
	muxPreviewErr error
	muxErr        map[int]error
	shows         []api.Show
	detail        api.ShowDetail
	episodes      []api.Episode
	candidates    []api.ScrapeCandidate
	applyErr      error
	mediaInfo     api.MediaInfo

	lastPattern     string
	lastReplacement *string
	lastOrganize    bool
	lastQuery       string
	lastCandidateID string
}

func (f *fakeBackend) GetRenamePresets(ctx context.Context) (api.PresetCatalog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.presetCalls++
	return f.catalog, nil
}

func (f *fakeBackend) PreviewRename(ctx context.Context, showID int, pattern string, replacement *string) (api.RenamePreview, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.previewCalls++
	f.lastPattern = pattern
	f.lastReplacement = replacement
	if f.previewErr != nil {
		return api.RenamePreview{}, f.previewErr
	}
	return f.preview, nil
}

func (f *fakeBackend) RenameAll(ctx context.Context, showID int, pattern string, organizeInFolder bool, replacement *string) (api.RenameOutcome, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.renameCalls++
	f.lastPattern = pattern
	f.lastReplacement = replacement
	f.lastOrganize = organizeInFolder
	if f.renameErr != nil {
		return api.RenameOutcome{}, f.renameErr
	}
	return f.outcome, nil
}

func (f *fakeBackend) GetMuxPreview(ctx context.Context, showID int) ([]api.MuxPreviewItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.muxPreviewCalls++
	return f.muxItems, f.muxPreviewErr
}

func (f *fakeBackend) MuxEpisode(ctx context.Context, showID, episodeID int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.muxCalls = append(f.muxCalls, episodeID)
	return f.muxErr[episodeID]
}

func (f *fakeBackend) ListShows(ctx context.Context) ([]api.Show, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.showsCalls++
	return f.shows, nil
}

func (f *fakeBackend) GetShow(ctx context.Context, showID int) (api.ShowDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.detailCalls++
	return f.detail, nil
}

func (f *fakeBackend) ListEpisodes(ctx context.Context, showID int) ([]api.Episode, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.episodesCalls++
	return f.episodes, nil
}

func (f *fakeBackend) SearchMetadata(ctx context.Context, showID int, query string) ([]api.ScrapeCandidate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searchCalls++
	f.lastQuery = query
	return f.candidates, nil
}

func (f *fakeBackend) ApplyMetadata(ctx context.Context, showID int, candidateID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.applyCalls++
	f.lastCandidateID = candidateID
	return f.applyErr
}

func (f *fakeBackend) AnalyzeEpisode(ctx context.Context, showID, episodeID int) (api.MediaInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.analyzeCalls++
	return f.mediaInfo, nil
}

func newTestEnv(backend *fakeBackend) Env {
	cfg := config.DefaultConfig()
	cfg.UI.DebounceMillis = 1
	cfg.UI.PreviewFreshnessMillis = 1000
	return Env{
		Backend: backend,
		Cache:   cache.New(),
		Config:  cfg,
	}
}

// drain executes a command tree synchronously and flattens the results.
// Batches are expanded; nil commands and nil messages are dropped.
func drain(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	var msgs []tea.Msg
	switch msg := cmd().(type) {
	case tea.BatchMsg:
		for _, c := range msg {
			msgs = append(msgs, drain(c)...)
		}
	case nil:
	default:
		msgs = append(msgs, msg)
	}
	return msgs
}

// feed runs every drained message back through Update and returns the
// resulting model plus any messages produced by the follow-up commands.
// Spinner ticks are dropped: delivering one makes the spinner schedule the
// next frame forever, which would keep the message loop alive.
func feed(t *testing.T, model tea.Model, msgs []tea.Msg) (tea.Model, []tea.Msg) {
	t.Helper()
	var produced []tea.Msg
	for _, msg := range msgs {
		if _, ok := msg.(spinner.TickMsg); ok {
			continue
		}
		var cmd tea.Cmd
		model, cmd = model.Update(msg)
		produced = append(produced, drain(cmd)...)
	}
	return model, produced
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEscape}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}
