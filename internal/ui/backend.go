package ui

import (
	"context"

	"github.com/showdeck/showdeck/internal/api"
	"github.com/showdeck/showdeck/internal/cache"
	"github.com/showdeck/showdeck/internal/config"
)

// Backend is the slice of the server API the TUI consumes. *api.Client
// satisfies it; tests substitute a fake.
type Backend interface {
	GetRenamePresets(ctx context.Context) (api.PresetCatalog, error)
	PreviewRename(ctx context.Context, showID int, pattern string, replacement *string) (api.RenamePreview, error)
	RenameAll(ctx context.Context, showID int, pattern string, organizeInFolder bool, replacement *string) (api.RenameOutcome, error)
	GetMuxPreview(ctx context.Context, showID int) ([]api.MuxPreviewItem, error)
	MuxEpisode(ctx context.Context, showID, episodeID int) error
	ListShows(ctx context.Context) ([]api.Show, error)
	GetShow(ctx context.Context, showID int) (api.ShowDetail, error)
	ListEpisodes(ctx context.Context, showID int) ([]api.Episode, error)
	SearchMetadata(ctx context.Context, showID int, query string) ([]api.ScrapeCandidate, error)
	ApplyMetadata(ctx context.Context, showID int, candidateID string) error
	AnalyzeEpisode(ctx context.Context, showID, episodeID int) (api.MediaInfo, error)
}

// Env bundles the dependencies shared by all models. The cache is injected
// here rather than being package state so tests can assert invalidation.
type Env struct {
	Backend Backend
	Cache   *cache.Store
	Config  *config.Config
}

// reqCtx returns the context used for one backend call.
func (e Env) reqCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), e.Config.Timeout())
}
