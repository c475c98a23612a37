package lyrics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/bascurtiz/orpheusdl-qobuz/internal/metadata"
)

type Result struct {
	Synced string // LRC format with timestamps, empty if unavailable
	Plain  string // plain text lyrics, empty if unavailable
}

// Best returns the synced lyrics when available, else the plain text.
func (r Result) Best() string {
	if r.Synced != "" {
		return r.Synced
	}
	return r.Plain
}

// Query identifies a track on LRCLib. Duration (seconds) is optional and
// narrows the match to the right edit.
type Query struct {
	Artist   string
	Title    string
	Album    string
	Duration int
}

// QueryFor builds the LRCLib query for a track. The main artist and the
// album name are what LRCLib indexes. The bare title from DownloadExtra is
// preferred over Name, which carries the work prefix and version suffix.
func QueryFor(info metadata.TrackInfo) Query {
	q := Query{Title: info.Name, Album: info.Album, Duration: info.Duration}
	if title, _ := info.DownloadExtra["title"].(string); title != "" {
		q.Title = title
	}
	if len(info.Artists) > 0 {
		q.Artist = info.Artists[0]
	}
	return q
}

type Client struct {
	httpClient *http.Client
	apiURL     string
}

func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		apiURL:     "https://lrclib.net/api/get",
	}
}

// Fetch retrieves lyrics for the given track from LRCLib.
// Returns empty Result (no error) when lyrics are not found.
// Retries once on transient network errors.
func (c *Client) Fetch(ctx context.Context, q Query) (Result, error) {
	result, err := c.doFetch(ctx, q)
	if err == nil {
		return result, nil
	}

	// API errors (4xx, 5xx) would fail identically on retry.
	if !isTransient(err) {
		return Result{}, err
	}

	select {
	case <-ctx.Done():
		return Result{}, err
	case <-time.After(2 * time.Second):
	}
	return c.doFetch(ctx, q)
}

func isTransient(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr)
}

func (c *Client) doFetch(ctx context.Context, q Query) (Result, error) {
	params := url.Values{}
	params.Set("artist_name", q.Artist)
	params.Set("track_name", q.Title)
	params.Set("album_name", q.Album)
	if q.Duration > 0 {
		params.Set("duration", strconv.Itoa(q.Duration))
	}

	reqURL := fmt.Sprintf("%s?%s", c.apiURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return Result{}, fmt.Errorf("failed to create lrclib request: %w", err)
	}
	req.Header.Set("User-Agent", "orpheusdl-qobuz/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("lrclib request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return Result{}, nil
	}
	if resp.StatusCode != http.StatusOK {
		return Result{}, fmt.Errorf("lrclib returned status %d", resp.StatusCode)
	}

	var apiResp apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return Result{}, fmt.Errorf("failed to decode lrclib response: %w", err)
	}

	return Result{
		Synced: apiResp.SyncedLyrics,
		Plain:  apiResp.PlainLyrics,
	}, nil
}

type apiResponse struct {
	SyncedLyrics string `json:"syncedLyrics"`
	PlainLyrics  string `json:"plainLyrics"`
}
