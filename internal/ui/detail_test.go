package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/showdeck/showdeck/internal/api"
	"github.com/showdeck/showdeck/internal/cache"
)

func detailFixture(t *testing.T, backend *fakeBackend) (tea.Model, Env) {
	t.Helper()
	env := newTestEnv(backend)
	var model tea.Model = NewDetailModel(env, 7, "Severance", stubParent{})
	model, _ = feed(t, model, drain(model.Init()))
	return model, env
}

func testDetail() api.ShowDetail {
	return api.ShowDetail{
		Show:     api.Show{ID: 7, Name: "Severance", Year: 2022, EpisodeCount: 2},
		Overview: "A mysterious company.",
	}
}

func testEpisodes() []api.Episode {
	return []api.Episode{
		{ID: 101, SeasonNumber: 1, EpisodeNumber: 1, Title: "Good News About Hell"},
		{ID: 102, SeasonNumber: 1, EpisodeNumber: 2, Title: "Half Loop", HasSubtitle: true},
	}
}

func TestDetailLoadsAndCaches(t *testing.T) {
	backend := &fakeBackend{detail: testDetail(), episodes: testEpisodes()}
	model, env := detailFixture(t, backend)

	dm := model.(DetailModel)
	if dm.detail == nil || dm.detail.Name != "Severance" {
		t.Fatal("show detail not loaded")
	}
	if len(dm.episodes) != 2 {
		t.Fatalf("episodes = %d, want 2", len(dm.episodes))
	}

	if _, ok := env.Cache.Get(cache.ShowDetailKey(7)); !ok {
		t.Error("show detail not cached")
	}
	if _, ok := env.Cache.Get(cache.EpisodeListKey(7)); !ok {
		t.Error("episode list not cached")
	}

	// A second load must be served from cache.
	feed(t, model, drain(dm.Init()))
	if backend.detailCalls != 1 || backend.episodesCalls != 1 {
		t.Errorf("backend calls = %d/%d, want 1/1 (cache hits expected)",
			backend.detailCalls, backend.episodesCalls)
	}
}

func TestDetailScrapeApplyInvalidates(t *testing.T) {
	backend := &fakeBackend{
		detail:   testDetail(),
		episodes: testEpisodes(),
		candidates: []api.ScrapeCandidate{
			{ID: "tvdb-1", Title: "severance", Year: 2022, Source: "tvdb"},
			{ID: "tmdb-9", Title: "severance package", Year: 2019, Source: "tmdb"},
		},
	}
	model, env := detailFixture(t, backend)

	model, _ = model.Update(keyMsg("s"))
	if model.(DetailModel).mode != detailSearching {
		t.Fatal("s did not enter search mode")
	}

	model, cmd := model.Update(keyMsg("enter"))
	model, _ = feed(t, model, drain(cmd))

	if backend.lastQuery != "Severance" {
		t.Errorf("search query = %q, want prefilled show name", backend.lastQuery)
	}
	dm := model.(DetailModel)
	if dm.mode != detailPicking || len(dm.candidates) != 2 {
		t.Fatalf("mode = %v with %d candidates, want picking with 2", dm.mode, len(dm.candidates))
	}

	// Pick the second candidate and apply.
	model, _ = model.Update(keyMsg("down"))
	model, cmd = model.Update(keyMsg("enter"))
	model, produced := feed(t, model, drain(cmd))

	if backend.lastCandidateID != "tmdb-9" {
		t.Errorf("applied candidate = %q, want tmdb-9", backend.lastCandidateID)
	}
	if _, ok := env.Cache.Get(cache.ShowDetailKey(7)); ok {
		t.Error("show detail not invalidated after apply")
	}
	if _, ok := env.Cache.Get(cache.ShowListKey()); ok {
		t.Error("show list not invalidated after apply")
	}

	dm = model.(DetailModel)
	if dm.mode != detailViewing {
		t.Errorf("mode after apply = %v, want viewing", dm.mode)
	}

	// The follow-up commands carried the notification and a fresh reload.
	var notified bool
	for _, msg := range produced {
		if sm, ok := msg.(statusMsg); ok && sm.text == "Metadata applied" {
			notified = true
		}
	}
	if !notified {
		t.Error("no notification after apply")
	}
	if backend.detailCalls != 2 {
		t.Errorf("detail calls = %d, want 2 (reload after invalidation)", backend.detailCalls)
	}
}

func TestDetailApplyAtMostOncePerConfirm(t *testing.T) {
	backend := &fakeBackend{
		detail:     testDetail(),
		episodes:   testEpisodes(),
		candidates: []api.ScrapeCandidate{{ID: "tvdb-1", Title: "Severance", Source: "tvdb"}},
	}
	model, _ := detailFixture(t, backend)

	model, _ = model.Update(keyMsg("s"))
	model, cmd := model.Update(keyMsg("enter"))
	model, _ = feed(t, model, drain(cmd))

	model, first := model.Update(keyMsg("enter"))
	model, second := model.Update(keyMsg("enter"))
	feed(t, model, append(drain(first), drain(second)...))

	if backend.applyCalls != 1 {
		t.Errorf("apply calls = %d, want 1 (in-flight guard)", backend.applyCalls)
	}
}

func TestDetailAnalyzeNotifies(t *testing.T) {
	backend := &fakeBackend{
		detail:   testDetail(),
		episodes: testEpisodes(),
		mediaInfo: api.MediaInfo{
			VideoCodec:      "hevc",
			AudioCodec:      "eac3",
			Resolution:      "1080p",
			DurationSeconds: 3360,
			SubtitleTracks:  2,
		},
	}
	model, _ := detailFixture(t, backend)

	model, _ = model.Update(keyMsg("down"))
	model, cmd := model.Update(keyMsg("a"))
	_, produced := feed(t, model, drain(cmd))

	if backend.analyzeCalls != 1 {
		t.Fatalf("analyze calls = %d, want 1", backend.analyzeCalls)
	}

	var status *statusMsg
	for _, msg := range produced {
		if sm, ok := msg.(statusMsg); ok {
			status = &sm
		}
	}
	if status == nil {
		t.Fatal("no notification after analysis")
	}
	if status.text != "hevc / eac3, 1080p, 56m, 2 subtitle tracks" {
		t.Errorf("notification = %q", status.text)
	}
}

func TestDetailEscReturnsToParent(t *testing.T) {
	backend := &fakeBackend{detail: testDetail(), episodes: testEpisodes()}
	model, _ := detailFixture(t, backend)

	model, _ = model.Update(keyMsg("esc"))
	if _, ok := model.(stubParent); !ok {
		t.Errorf("model after esc = %T, want stubParent", model)
	}
}
