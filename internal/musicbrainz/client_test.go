//nolint:bodyclose // Test file uses http.NoBody which doesn't require closing
package musicbrainz

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"testing/synctest"
	"time"
)

func TestClient_WaitForRateLimit_FirstRequest(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		c := &Client{}

		start := time.Now()
		c.waitForRateLimit()
		elapsed := time.Since(start)

		// First request should not wait
		if elapsed > 10*time.Millisecond {
			t.Errorf("first request waited %v, expected no wait", elapsed)
		}
	})
}

func TestClient_WaitForRateLimit_EnforcesRateLimit(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		c := &Client{}

		// First request
		c.waitForRateLimit()

		// Immediate second request should wait ~1 second
		start := time.Now()
		c.waitForRateLimit()
		elapsed := time.Since(start)

		if elapsed < 900*time.Millisecond {
			t.Errorf("second request only waited %v, expected ~1s", elapsed)
		}
	})
}

func TestClient_WaitForRateLimit_NoWaitAfterDelay(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		c := &Client{}

		// First request
		c.waitForRateLimit()

		// Wait more than rate limit
		time.Sleep(rateLimitDur + 100*time.Millisecond)

		// Second request should not wait
		start := time.Now()
		c.waitForRateLimit()
		elapsed := time.Since(start)

		if elapsed > 10*time.Millisecond {
			t.Errorf("request after delay waited %v, expected no wait", elapsed)
		}
	})
}

func TestClient_WaitForRateLimit_MultipleRequests(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		c := &Client{}

		start := time.Now()

		// Make 5 requests
		for range 5 {
			c.waitForRateLimit()
		}

		elapsed := time.Since(start)

		// Should take at least 4 seconds (first is instant, then 4 waits of 1s each)
		if elapsed < 4*time.Second {
			t.Errorf("5 requests took %v, expected at least 4s", elapsed)
		}
	})
}

// mockTransport is a mock http.RoundTripper for testing.
type mockTransport struct {
	responses []*http.Response
	errors    []error
	requests  []*http.Request
	callCount int
}

func (m *mockTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	idx := m.callCount
	m.callCount++
	m.requests = append(m.requests, req)
	if idx < len(m.errors) && m.errors[idx] != nil {
		return nil, m.errors[idx]
	}
	if idx < len(m.responses) {
		return m.responses[idx], nil
	}
	return nil, errors.New("no more responses")
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
	}
}

func newTestClient(transport http.RoundTripper, opts ...Option) *Client {
	c := NewClient(opts...)
	c.httpClient = &http.Client{Transport: transport}
	return c
}

const searchBody = `{
	"releases": [
		{
			"id": "mbid-1",
			"title": "Yankee Hotel Foxtrot",
			"score": 100,
			"date": "2002-04-23",
			"country": "US",
			"artist-credit": [{"name": "Wilco"}],
			"media": [
				{"position": 1, "format": "CD", "track-count": 11}
			]
		},
		{
			"id": "mbid-2",
			"title": "Yankee Hotel Foxtrot",
			"score": 95,
			"artist-credit": [{"name": "Wilco"}],
			"media": [
				{"position": 1, "format": "Vinyl", "track-count": 6},
				{"position": 2, "format": "Vinyl", "track-count": 5}
			]
		}
	]
}`

func TestClient_SearchReleases(t *testing.T) {
	transport := &mockTransport{responses: []*http.Response{jsonResponse(200, searchBody)}}
	c := newTestClient(transport)

	releases, err := c.SearchReleases(context.Background(), "Wilco", "Yankee Hotel Foxtrot")
	if err != nil {
		t.Fatal(err)
	}
	if len(releases) != 2 {
		t.Fatalf("got %d releases, want 2", len(releases))
	}

	first := releases[0]
	if first.ID != "mbid-1" || first.Artist != "Wilco" || first.Title != "Yankee Hotel Foxtrot" {
		t.Errorf("unexpected first release: %+v", first)
	}
	if first.Date != "2002-04-23" || first.Country != "US" {
		t.Errorf("date/country not decoded: %+v", first)
	}
	if first.TrackCount != 11 || first.DiscCount != 1 {
		t.Errorf("track/disc counts = %d/%d, want 11/1", first.TrackCount, first.DiscCount)
	}

	// Order is preserved as returned by the API, and multi-media
	// releases sum their track counts.
	second := releases[1]
	if second.ID != "mbid-2" {
		t.Errorf("result order not preserved: %+v", second)
	}
	if second.TrackCount != 11 || second.DiscCount != 2 {
		t.Errorf("track/disc counts = %d/%d, want 11/2", second.TrackCount, second.DiscCount)
	}
	if second.Formats != "Vinyl, Vinyl" {
		t.Errorf("formats = %q", second.Formats)
	}
}

func TestClient_SearchReleases_QueryEscaping(t *testing.T) {
	transport := &mockTransport{responses: []*http.Response{jsonResponse(200, `{"releases":[]}`)}}
	c := newTestClient(transport)

	_, err := c.SearchReleases(context.Background(), `The "Band"`, `Songs \ Stuff`)
	if err != nil {
		t.Fatal(err)
	}

	query := transport.requests[0].URL.Query().Get("query")
	want := `artist:"The \"Band\"" AND release:"Songs \\ Stuff"`
	if query != want {
		t.Errorf("query = %q, want %q", query, want)
	}
}

func TestClient_SearchReleases_AlbumsOnly(t *testing.T) {
	transport := &mockTransport{responses: []*http.Response{jsonResponse(200, `{"releases":[]}`)}}
	c := newTestClient(transport, WithAlbumsOnly(true), WithSearchLimit(10))

	if _, err := c.SearchReleases(context.Background(), "a", "b"); err != nil {
		t.Fatal(err)
	}

	q := transport.requests[0].URL.Query()
	if !strings.Contains(q.Get("query"), "primarytype:album") {
		t.Errorf("query missing album filter: %q", q.Get("query"))
	}
	if q.Get("limit") != "10" {
		t.Errorf("limit = %q, want 10", q.Get("limit"))
	}
}

func TestClient_SearchReleases_EmptyResults(t *testing.T) {
	transport := &mockTransport{responses: []*http.Response{jsonResponse(200, `{"releases":[]}`)}}
	c := newTestClient(transport)

	releases, err := c.SearchReleases(context.Background(), "nobody", "nothing")
	if err != nil {
		t.Fatal(err)
	}
	if len(releases) != 0 {
		t.Errorf("got %d releases, want 0", len(releases))
	}
}

func TestClient_SearchReleases_APIError(t *testing.T) {
	transport := &mockTransport{responses: []*http.Response{jsonResponse(400, `{"error":"bad query"}`)}}
	c := newTestClient(transport)

	_, err := c.SearchReleases(context.Background(), "a", "b")
	if err == nil {
		t.Fatal("expected error for 400 response")
	}
	if !strings.Contains(err.Error(), "API status 400") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestClient_DoRequestWithRetry_RetriesServerErrors(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		transport := &mockTransport{responses: []*http.Response{
			jsonResponse(503, ""),
			jsonResponse(200, `{"releases":[]}`),
		}}
		c := newTestClient(transport)

		releases, err := c.SearchReleases(context.Background(), "a", "b")
		if err != nil {
			t.Fatal(err)
		}
		if len(releases) != 0 {
			t.Errorf("got %d releases, want 0", len(releases))
		}
		if transport.callCount != 2 {
			t.Errorf("call count = %d, want 2", transport.callCount)
		}
	})
}

func TestClient_DoRequestWithRetry_GivesUpAfterMaxRetries(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var responses []*http.Response
		for range maxRetries + 1 {
			responses = append(responses, jsonResponse(500, ""))
		}
		transport := &mockTransport{responses: responses}
		c := newTestClient(transport)

		_, err := c.SearchReleases(context.Background(), "a", "b")
		if err == nil {
			t.Fatal("expected error after exhausting retries")
		}
		if transport.callCount != maxRetries+1 {
			t.Errorf("call count = %d, want %d", transport.callCount, maxRetries+1)
		}
	})
}
