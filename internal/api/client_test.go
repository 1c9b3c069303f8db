package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestClient(handler http.Handler) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	return New(srv.URL, "test-key", 5*time.Second), srv
}

func TestPreviewRenameCarriesLiteralPattern(t *testing.T) {
	const pattern = "{show} - S{season:02d}E{episode:02d} - {title}"

	var gotPattern string
	var gotReplacement string
	var hasReplacement bool

	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/shows/42/rename/preview" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("X-Api-Key") != "test-key" {
			t.Error("missing API key header")
		}
		gotPattern = r.URL.Query().Get("pattern")
		gotReplacement = r.URL.Query().Get("space_replacement")
		_, hasReplacement = r.URL.Query()["space_replacement"]

		json.NewEncoder(w).Encode(RenamePreview{
			CurrentName: "ep01.mkv",
			NewName:     "Show - S01E01 - Pilot.mkv",
			ParsedInfo:  &ParsedInfo{Quality: "WEB-DL", Resolution: "1080p", ReleaseGroup: "GRP"},
		})
	}))
	defer srv.Close()

	preview, err := client.PreviewRename(context.Background(), 42, pattern, nil)
	if err != nil {
		t.Fatalf("PreviewRename failed: %v", err)
	}

	if gotPattern != pattern {
		t.Errorf("pattern not transmitted verbatim: got %q", gotPattern)
	}
	if hasReplacement {
		t.Errorf("absent replacement must omit the parameter, got %q", gotReplacement)
	}
	if preview.CurrentName != "ep01.mkv" || preview.NewName != "Show - S01E01 - Pilot.mkv" {
		t.Errorf("unexpected preview %+v", preview)
	}
	if preview.ParsedInfo == nil || preview.ParsedInfo.Resolution != "1080p" {
		t.Errorf("parsed info not decoded: %+v", preview.ParsedInfo)
	}
}

func TestPreviewRenameSendsReplacement(t *testing.T) {
	var gotReplacement string
	var hasReplacement bool

	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotReplacement = r.URL.Query().Get("space_replacement")
		_, hasReplacement = r.URL.Query()["space_replacement"]
		json.NewEncoder(w).Encode(RenamePreview{})
	}))
	defer srv.Close()

	dot := "."
	if _, err := client.PreviewRename(context.Background(), 42, "{show}", &dot); err != nil {
		t.Fatalf("PreviewRename failed: %v", err)
	}
	if !hasReplacement || gotReplacement != "." {
		t.Errorf("expected space_replacement '.', got %q (present=%v)", gotReplacement, hasReplacement)
	}
}

func TestRenameAllRequestBody(t *testing.T) {
	var got renameAllRequest

	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if r.URL.Path != "/api/shows/42/rename" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("failed to decode body: %v", err)
		}
		json.NewEncoder(w).Encode(RenameOutcome{Renamed: 10, Total: 12, Errors: []string{"ep11 busy", "ep12 busy"}})
	}))
	defer srv.Close()

	under := "_"
	outcome, err := client.RenameAll(context.Background(), 42, "{show}.{title}", true, &under)
	if err != nil {
		t.Fatalf("RenameAll failed: %v", err)
	}

	if got.Pattern != "{show}.{title}" {
		t.Errorf("pattern not transmitted verbatim: %q", got.Pattern)
	}
	if !got.OrganizeInFolder {
		t.Error("organize_in_folder not set")
	}
	if got.SpaceReplacement == nil || *got.SpaceReplacement != "_" {
		t.Error("space_replacement not transmitted")
	}
	if outcome.Renamed != 10 || outcome.Total != 12 || len(outcome.Errors) != 2 {
		t.Errorf("unexpected outcome %+v", outcome)
	}
}

func TestServerErrorMessageVerbatim(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]string{"error": "pattern is missing an {episode} placeholder"})
	}))
	defer srv.Close()

	_, err := client.RenameAll(context.Background(), 42, "{show}", false, nil)
	if err == nil {
		t.Fatal("expected error")
	}

	apiErr, ok := err.(*APIError)
	if !ok {
		t.Fatalf("expected *APIError, got %T: %v", err, err)
	}
	if apiErr.Error() != "pattern is missing an {episode} placeholder" {
		t.Errorf("server message not verbatim: %q", apiErr.Error())
	}
	if apiErr.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("unexpected status %d", apiErr.StatusCode)
	}
}

func TestGetMuxPreview(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/shows/7/mux/preview" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"episodes": []MuxPreviewItem{
				{EpisodeID: 1, SeasonNumber: 1, EpisodeNumber: 1, CanMux: true},
				{EpisodeID: 2, SeasonNumber: 1, EpisodeNumber: 2, CanMux: false},
			},
		})
	}))
	defer srv.Close()

	items, err := client.GetMuxPreview(context.Background(), 7)
	if err != nil {
		t.Fatalf("GetMuxPreview failed: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if !items[0].CanMux || items[1].CanMux {
		t.Errorf("eligibility flags wrong: %+v", items)
	}
}

func TestMuxEpisodeSuccessAndFailure(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/shows/7/episodes/1/mux" {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]string{"error": "subtitle track already embedded"})
	}))
	defer srv.Close()

	if err := client.MuxEpisode(context.Background(), 7, 1); err != nil {
		t.Errorf("expected success for episode 1, got %v", err)
	}

	err := client.MuxEpisode(context.Background(), 7, 2)
	if err == nil {
		t.Fatal("expected failure for episode 2")
	}
	if err.Error() != "subtitle track already embedded" {
		t.Errorf("server message not verbatim: %q", err.Error())
	}
}

func TestRetryOnServerError(t *testing.T) {
	attempts := 0
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		json.NewEncoder(w).Encode([]Show{{ID: 1, Name: "Show"}})
	}))
	defer srv.Close()

	shows, err := client.ListShows(context.Background())
	if err != nil {
		t.Fatalf("expected retry to succeed: %v", err)
	}
	if attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", attempts)
	}
	if len(shows) != 1 {
		t.Errorf("expected 1 show, got %d", len(shows))
	}
}

func TestNoRetryOnClientError(t *testing.T) {
	attempts := 0
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"error": "show not found"})
	}))
	defer srv.Close()

	_, err := client.GetShow(context.Background(), 999)
	if err == nil {
		t.Fatal("expected error")
	}
	if attempts != 1 {
		t.Errorf("4xx must not be retried, got %d attempts", attempts)
	}
}

func TestGetRenamePresets(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/rename/presets" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(PresetCatalog{
			Presets: map[string]Preset{
				"standard": {Name: "Standard", Description: "Scene style", Pattern: "{show} - S{season:02d}E{episode:02d} - {title}"},
			},
			Placeholders: map[string]string{
				"{show}": "Show name",
			},
		})
	}))
	defer srv.Close()

	catalog, err := client.GetRenamePresets(context.Background())
	if err != nil {
		t.Fatalf("GetRenamePresets failed: %v", err)
	}
	preset, ok := catalog.Presets["standard"]
	if !ok {
		t.Fatal("standard preset missing")
	}
	if preset.Pattern != "{show} - S{season:02d}E{episode:02d} - {title}" {
		t.Errorf("unexpected pattern %q", preset.Pattern)
	}
	if catalog.Placeholders["{show}"] != "Show name" {
		t.Error("placeholder docs missing")
	}
}
