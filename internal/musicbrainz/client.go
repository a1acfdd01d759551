package musicbrainz

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	baseURL      = "https://musicbrainz.org/ws/2"
	userAgent    = "crate/0.1 (https://github.com/chmont/crate)"
	rateLimitDur = time.Second // MusicBrainz requires 1 request per second

	defaultSearchLimit = 25

	// Retry configuration
	maxRetries   = 3
	initialDelay = 2 * time.Second
	maxDelay     = 30 * time.Second
)

// Client provides access to the MusicBrainz API. All requests share one
// throttle, so lookups issued from any goroutine stay at least one rate
// interval apart.
type Client struct {
	httpClient  *http.Client
	searchLimit int
	albumsOnly  bool
	lastRequest time.Time
	mu          sync.Mutex
}

// Option configures a Client.
type Option func(*Client)

// WithSearchLimit caps the number of search results per query.
func WithSearchLimit(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.searchLimit = n
		}
	}
}

// WithAlbumsOnly restricts searches to releases whose group's primary
// type is Album.
func WithAlbumsOnly(enabled bool) Option {
	return func(c *Client) { c.albumsOnly = enabled }
}

// NewClient creates a new MusicBrainz API client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		searchLimit: defaultSearchLimit,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SearchReleases searches for releases by album artist and album title.
// Results keep the order the API returned them in.
func (c *Client) SearchReleases(ctx context.Context, artist, album string) ([]Release, error) {
	c.waitForRateLimit()

	query := fmt.Sprintf("artist:%s AND release:%s", quoteLucene(artist), quoteLucene(album))
	if c.albumsOnly {
		query = "(" + query + ") AND primarytype:album"
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("fmt", "json")
	params.Set("limit", strconv.Itoa(c.searchLimit))

	reqURL := fmt.Sprintf("%s/release?%s", baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.doRequestWithRetry(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("API status %d: %s", resp.StatusCode, string(body))
	}

	var result searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return convertReleases(result.Releases), nil
}

// waitForRateLimit ensures we don't exceed MusicBrainz rate limits.
func (c *Client) waitForRateLimit() {
	c.mu.Lock()
	defer c.mu.Unlock()

	elapsed := time.Since(c.lastRequest)
	if elapsed < rateLimitDur {
		time.Sleep(rateLimitDur - elapsed)
	}
	c.lastRequest = time.Now()
}

// doRequestWithRetry executes an HTTP request with exponential backoff retry.
// Retries on 5xx errors and network errors.
func (c *Client) doRequestWithRetry(req *http.Request) (*http.Response, error) {
	var lastErr error
	delay := initialDelay

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(delay)
			delay = min(delay*2, maxDelay)
			c.waitForRateLimit() // Re-apply rate limit after retry delay
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		// Success or client error (4xx) - don't retry
		if resp.StatusCode < 500 {
			return resp, nil
		}

		// Server error (5xx) - retry
		resp.Body.Close()
		lastErr = fmt.Errorf("server returned status %d", resp.StatusCode)
	}

	return nil, fmt.Errorf("request failed after %d retries: %w", maxRetries+1, lastErr)
}

// convertReleases converts raw API results to Release structs.
func convertReleases(results []releaseResult) []Release {
	releases := make([]Release, 0, len(results))

	for i := range results {
		r := &results[i]
		release := Release{
			ID:      r.ID,
			Title:   r.Title,
			Artist:  extractArtist(r.ArtistCredit),
			Date:    r.Date,
			Country: r.Country,
			Score:   r.Score,
		}

		// Sum track counts and collect formats
		var formats []string
		for _, m := range r.Media {
			release.TrackCount += m.TrackCount
			release.DiscCount++
			if m.Format != "" {
				formats = append(formats, m.Format)
			}
		}
		release.Formats = strings.Join(formats, ", ")

		releases = append(releases, release)
	}

	return releases
}

// extractArtist extracts the artist name from artist credits.
func extractArtist(credits []artistCredit) string {
	if len(credits) == 0 {
		return ""
	}

	parts := make([]string, 0, len(credits))
	for _, c := range credits {
		name := c.Name
		if name == "" {
			name = c.Artist.Name
		}
		parts = append(parts, name+c.JoinPhrase)
	}
	return strings.Join(parts, "")
}

// quoteLucene wraps a value in double quotes for a fielded Lucene query,
// escaping embedded quotes and backslashes.
func quoteLucene(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}
