// YouTube Data API v3 [Searcher] implementation
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"github.com/desertthunder/echoplay/internal/models"
	"github.com/desertthunder/echoplay/internal/shared"
)

const (
	defaultYTBaseURL  = "https://www.googleapis.com/youtube/v3"
	defaultMaxResults = 5
)

// YouTubeThumbnail is a single thumbnail size.
type YouTubeThumbnail struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// YouTubeThumbnails holds the sizes returned for a search result.
type YouTubeThumbnails struct {
	Default *YouTubeThumbnail `json:"default"`
	Medium  *YouTubeThumbnail `json:"medium"`
	High    *YouTubeThumbnail `json:"high"`
}

// Best returns the URL of the largest available thumbnail.
func (t YouTubeThumbnails) Best() string {
	for _, th := range []*YouTubeThumbnail{t.High, t.Medium, t.Default} {
		if th != nil && th.URL != "" {
			return th.URL
		}
	}
	return ""
}

// YouTubeSearchItem is one entry of a search.list response.
type YouTubeSearchItem struct {
	ID struct {
		Kind    string `json:"kind"`
		VideoID string `json:"videoId"`
	} `json:"id"`
	Snippet struct {
		Title        string            `json:"title"`
		ChannelTitle string            `json:"channelTitle"`
		Thumbnails   YouTubeThumbnails `json:"thumbnails"`
	} `json:"snippet"`
}

// Track normalizes the search result.
func (i YouTubeSearchItem) Track() models.Track {
	title, artist := ParseSongAndArtist(html.UnescapeString(i.Snippet.Title), html.UnescapeString(i.Snippet.ChannelTitle))
	return models.Track{
		VideoID:  i.ID.VideoID,
		Title:    title,
		Artist:   artist,
		ImageURL: i.Snippet.Thumbnails.Best(),
	}
}

type youtubeSearchResponse struct {
	Items []YouTubeSearchItem `json:"items"`
}

type youtubeVideosResponse struct {
	Items []struct {
		ID             string `json:"id"`
		ContentDetails struct {
			Duration string `json:"duration"`
		} `json:"contentDetails"`
	} `json:"items"`
}

type youtubeErrorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// YouTubeService searches videos through the YouTube Data API.
type YouTubeService struct {
	baseURL    string
	apiKey     string
	maxResults int
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *log.Logger
}

// YouTubeOption configures a [YouTubeService].
type YouTubeOption func(*YouTubeService)

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(c *http.Client) YouTubeOption {
	return func(y *YouTubeService) { y.httpClient = c }
}

// WithRateLimit caps outgoing requests per second. Zero disables limiting.
func WithRateLimit(perSecond float64) YouTubeOption {
	return func(y *YouTubeService) {
		if perSecond <= 0 {
			y.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		y.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
	}
}

// WithLogger sets the logger used for non-fatal enrichment failures.
func WithLogger(l *log.Logger) YouTubeOption {
	return func(y *YouTubeService) { y.logger = l }
}

// NewYouTubeService creates a YouTube search client from configuration.
func NewYouTubeService(cfg shared.YouTubeConfig, opts ...YouTubeOption) *YouTubeService {
	y := &YouTubeService{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		maxResults: cfg.MaxResults,
		httpClient: http.DefaultClient,
		limiter:    rate.NewLimiter(rate.Inf, 1),
		logger:     log.Default(),
	}
	if y.baseURL == "" {
		y.baseURL = defaultYTBaseURL
	}
	if y.maxResults <= 0 {
		y.maxResults = defaultMaxResults
	}
	if cfg.RequestsPerSecond > 0 {
		WithRateLimit(cfg.RequestsPerSecond)(y)
	}
	for _, opt := range opts {
		opt(y)
	}
	return y
}

// Name returns the service name.
func (y *YouTubeService) Name() string {
	return "YouTube"
}

// Search queries search.list for videos matching query and enriches results with durations.
func (y *YouTubeService) Search(ctx context.Context, query string) ([]models.Track, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []models.Track{}, nil
	}
	if y.apiKey == "" {
		return nil, fmt.Errorf("%w: %w: youtube api key", shared.ErrSearchFailed, shared.ErrMissingCredentials)
	}

	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("type", "video")
	params.Set("maxResults", strconv.Itoa(y.maxResults))
	params.Set("q", query)

	var resp youtubeSearchResponse
	if err := y.doRequest(ctx, "/search", params, &resp); err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrSearchFailed, err)
	}

	tracks := make([]models.Track, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.ID.VideoID == "" {
			continue
		}
		tracks = append(tracks, item.Track())
		if len(tracks) == y.maxResults {
			break
		}
	}

	if err := y.enrichDurations(ctx, tracks); err != nil {
		y.logger.Warn("could not fetch durations", "query", query, "error", err)
	}
	return tracks, nil
}

// enrichDurations fills Duration from videos.list; tracks keep zero on failure.
func (y *YouTubeService) enrichDurations(ctx context.Context, tracks []models.Track) error {
	if len(tracks) == 0 {
		return nil
	}

	ids := make([]string, len(tracks))
	for i, t := range tracks {
		ids[i] = t.VideoID
	}

	params := url.Values{}
	params.Set("part", "contentDetails")
	params.Set("id", strings.Join(ids, ","))

	var resp youtubeVideosResponse
	if err := y.doRequest(ctx, "/videos", params, &resp); err != nil {
		return err
	}

	durations := make(map[string]int, len(resp.Items))
	for _, item := range resp.Items {
		if secs, err := ParseISODuration(item.ContentDetails.Duration); err == nil {
			durations[item.ID] = secs
		}
	}
	for i := range tracks {
		tracks[i].Duration = durations[tracks[i].VideoID]
	}
	return nil
}

func (y *YouTubeService) doRequest(ctx context.Context, endpoint string, params url.Values, result any) error {
	if err := y.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	params.Set("key", y.apiKey)
	apiURL := y.baseURL + endpoint + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := y.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp youtubeErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil && errResp.Error.Message != "" {
			return fmt.Errorf("%w: youtube API error (status %d): %s", shared.ErrAPIRequest, resp.StatusCode, errResp.Error.Message)
		}
		return fmt.Errorf("%w: youtube API error: status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

var isoDuration = regexp.MustCompile(`^P(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?)?$`)

// ParseISODuration converts an ISO 8601 duration such as "PT3M35S" into seconds.
func ParseISODuration(s string) (int, error) {
	m := isoDuration.FindStringSubmatch(s)
	if m == nil || s == "P" || s == "PT" {
		return 0, fmt.Errorf("%w: duration %q", shared.ErrInvalidInput, s)
	}

	units := []int{86400, 3600, 60, 1}
	total := 0
	for i, unit := range units {
		if m[i+1] == "" {
			continue
		}
		n, err := strconv.Atoi(m[i+1])
		if err != nil {
			return 0, fmt.Errorf("%w: duration %q", shared.ErrInvalidInput, s)
		}
		total += n * unit
	}
	return total, nil
}
