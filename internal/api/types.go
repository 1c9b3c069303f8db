package api

// Preset is a server-defined naming template with a human-readable name.
type Preset struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Pattern     string `json:"pattern"`
}

// PresetCatalog is the full preset registry plus the placeholder token
// documentation the server exposes for help text.
type PresetCatalog struct {
	Presets      map[string]Preset `json:"presets"`
	Placeholders map[string]string `json:"placeholders"`
}

// ParsedInfo is release metadata the server extracted from the current
// filename while computing a preview.
type ParsedInfo struct {
	Quality      string `json:"quality"`
	Resolution   string `json:"resolution"`
	ReleaseGroup string `json:"release_group"`
}

// RenamePreview is a single "current name -> new name" projection. It is
// ephemeral: recomputed on every settled input change and never persisted.
type RenamePreview struct {
	CurrentName string      `json:"current_name"`
	NewName     string      `json:"new_name"`
	ParsedInfo  *ParsedInfo `json:"parsed_info,omitempty"`
}

// RenameOutcome is the aggregate result of one bulk rename call.
type RenameOutcome struct {
	Renamed int      `json:"renamed"`
	Total   int      `json:"total"`
	Errors  []string `json:"errors"`
}

// MuxPreviewItem is a read-only eligibility snapshot for one episode.
type MuxPreviewItem struct {
	EpisodeID     int  `json:"episode_id"`
	SeasonNumber  int  `json:"season_number"`
	EpisodeNumber int  `json:"episode_number"`
	CanMux        bool `json:"can_mux"`
}

// Show is a library listing entry.
type Show struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Year         int    `json:"year"`
	EpisodeCount int    `json:"episode_count"`
	Path         string `json:"path"`
}

// Episode is one episode within a show.
type Episode struct {
	ID            int    `json:"id"`
	SeasonNumber  int    `json:"season_number"`
	EpisodeNumber int    `json:"episode_number"`
	Title         string `json:"title"`
	Filename      string `json:"filename"`
	HasSubtitle   bool   `json:"has_subtitle"`
}

// ShowDetail is the full record for a single show.
type ShowDetail struct {
	Show
	Overview string    `json:"overview"`
	Episodes []Episode `json:"episodes"`
}

// ScrapeCandidate is one metadata match returned by a scrape search.
type ScrapeCandidate struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Year     int    `json:"year"`
	Overview string `json:"overview"`
	Source   string `json:"source"`
}

// MediaInfo is the result of a server-side media analysis run.
type MediaInfo struct {
	VideoCodec      string `json:"video_codec"`
	AudioCodec      string `json:"audio_codec"`
	Resolution      string `json:"resolution"`
	DurationSeconds int    `json:"duration_seconds"`
	SubtitleTracks  int    `json:"subtitle_tracks"`
}
