// Package api implements the typed HTTP client for the showdeck server.
// The client only orchestrates calls; pattern parsing, file renaming and
// subtitle muxing all happen server-side.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const maxRetries = 3

// APIError carries a server-provided error message. The message is
// surfaced to the user verbatim, so it must not be rewrapped with extra
// prose once constructed.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("server returned status %d", e.StatusCode)
}

// Client talks to the showdeck server's REST API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// New creates a client for the given server. The base URL's trailing slash
// is normalized away.
func New(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// GetRenamePresets fetches the preset registry and placeholder docs.
func (c *Client) GetRenamePresets(ctx context.Context) (PresetCatalog, error) {
	var catalog PresetCatalog
	err := c.get(ctx, "/api/rename/presets", &catalog)
	return catalog, err
}

// PreviewRename asks the server to project one episode's current filename
// through the given pattern. A nil replacement keeps spaces; any non-nil
// value (including "") is transmitted as the replacement token.
func (c *Client) PreviewRename(ctx context.Context, showID int, pattern string, replacement *string) (RenamePreview, error) {
	params := url.Values{}
	params.Set("pattern", pattern)
	if replacement != nil {
		params.Set("space_replacement", *replacement)
	}

	var preview RenamePreview
	endpoint := fmt.Sprintf("/api/shows/%d/rename/preview?%s", showID, params.Encode())
	err := c.get(ctx, endpoint, &preview)
	return preview, err
}

type renameAllRequest struct {
	Pattern          string  `json:"pattern"`
	OrganizeInFolder bool    `json:"organize_in_folder"`
	SpaceReplacement *string `json:"space_replacement,omitempty"`
}

// RenameAll performs the bulk rename in a single call. The server applies
// the pattern to every episode of the show and reports an aggregate
// outcome; the client never iterates episodes itself.
func (c *Client) RenameAll(ctx context.Context, showID int, pattern string, organizeInFolder bool, replacement *string) (RenameOutcome, error) {
	body := renameAllRequest{
		Pattern:          pattern,
		OrganizeInFolder: organizeInFolder,
		SpaceReplacement: replacement,
	}

	var outcome RenameOutcome
	endpoint := fmt.Sprintf("/api/shows/%d/rename", showID)
	err := c.post(ctx, endpoint, body, &outcome)
	return outcome, err
}

// GetMuxPreview fetches the subtitle-mux eligibility snapshot for a show.
func (c *Client) GetMuxPreview(ctx context.Context, showID int) ([]MuxPreviewItem, error) {
	var resp struct {
		Episodes []MuxPreviewItem `json:"episodes"`
	}
	endpoint := fmt.Sprintf("/api/shows/%d/mux/preview", showID)
	if err := c.get(ctx, endpoint, &resp); err != nil {
		return nil, err
	}
	return resp.Episodes, nil
}

// MuxEpisode embeds the external subtitle of one episode into its container.
func (c *Client) MuxEpisode(ctx context.Context, showID, episodeID int) error {
	endpoint := fmt.Sprintf("/api/shows/%d/episodes/%d/mux", showID, episodeID)
	return c.post(ctx, endpoint, nil, nil)
}

// ListShows fetches the library show listing.
func (c *Client) ListShows(ctx context.Context) ([]Show, error) {
	var shows []Show
	err := c.get(ctx, "/api/shows", &shows)
	return shows, err
}

// GetShow fetches one show's detail record.
func (c *Client) GetShow(ctx context.Context, showID int) (ShowDetail, error) {
	var detail ShowDetail
	err := c.get(ctx, fmt.Sprintf("/api/shows/%d", showID), &detail)
	return detail, err
}

// ListEpisodes fetches a show's episode listing.
func (c *Client) ListEpisodes(ctx context.Context, showID int) ([]Episode, error) {
	var episodes []Episode
	err := c.get(ctx, fmt.Sprintf("/api/shows/%d/episodes", showID), &episodes)
	return episodes, err
}

// SearchMetadata runs a scrape search for the show against the server's
// metadata providers.
func (c *Client) SearchMetadata(ctx context.Context, showID int, query string) ([]ScrapeCandidate, error) {
	params := url.Values{}
	params.Set("query", query)

	var candidates []ScrapeCandidate
	endpoint := fmt.Sprintf("/api/shows/%d/scrape/search?%s", showID, params.Encode())
	err := c.get(ctx, endpoint, &candidates)
	return candidates, err
}

type applyMetadataRequest struct {
	CandidateID string `json:"candidate_id"`
}

// ApplyMetadata applies a previously searched scrape candidate to the show.
func (c *Client) ApplyMetadata(ctx context.Context, showID int, candidateID string) error {
	endpoint := fmt.Sprintf("/api/shows/%d/scrape/apply", showID)
	return c.post(ctx, endpoint, applyMetadataRequest{CandidateID: candidateID}, nil)
}

// AnalyzeEpisode triggers a server-side media analysis of one episode file.
func (c *Client) AnalyzeEpisode(ctx context.Context, showID, episodeID int) (MediaInfo, error) {
	var info MediaInfo
	endpoint := fmt.Sprintf("/api/shows/%d/episodes/%d/analyze", showID, episodeID)
	err := c.post(ctx, endpoint, nil, &info)
	return info, err
}

func (c *Client) get(ctx context.Context, endpoint string, out any) error {
	return c.do(ctx, http.MethodGet, endpoint, nil, out)
}

func (c *Client) post(ctx context.Context, endpoint string, body, out any) error {
	return c.do(ctx, http.MethodPost, endpoint, body, out)
}

// do issues one request with bounded retries on transport errors and 5xx
// responses. 4xx responses are never retried; their server message is
// decoded into an APIError.
func (c *Client) do(ctx context.Context, method, endpoint string, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
	}

	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(attempt) * 500 * time.Millisecond):
			}
		}

		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}

		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
		if err != nil {
			return err
		}
		req.Header.Set("X-Api-Key", c.apiKey)
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode >= 500 {
			// Drain so the connection can be reused across retries.
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			lastErr = &APIError{StatusCode: resp.StatusCode}
			continue
		}

		return decodeResponse(resp, out)
	}

	return fmt.Errorf("server unavailable after %d attempts: %w", maxRetries, lastErr)
}

func decodeResponse(resp *http.Response, out any) error {
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var errBody struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&errBody); err == nil {
			apiErr.Message = errBody.Error
		}
		return apiErr
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
