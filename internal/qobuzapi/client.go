// Package qobuzapi is a small client for the Qobuz JSON API
// (https://www.qobuz.com/api.json/0.2/). It covers the calls a downloader
// needs: login, catalog lookups, search and stream URL signing.
package qobuzapi

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"
)

const (
	defaultAPIURL = "https://www.qobuz.com/api.json/0.2"
	userAgent     = "Mozilla/5.0 (X11; Linux x86_64; rv:109.0) Gecko/20100101 Firefox/119.0"

	// MaxPageSize is the largest page the catalog endpoints return.
	MaxPageSize = 500
)

var (
	// ErrFreeAccount is returned by Login for accounts without a streaming
	// subscription.
	ErrFreeAccount = errors.New("free accounts are not eligible for downloading")
	// ErrInvalidLogin is returned by Login when the service issued no token.
	ErrInvalidLogin = errors.New("invalid username/password")
)

// Error is a non-successful API response.
type Error struct {
	Method  string
	Status  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("qobuz %s returned %d: %s", e.Method, e.Status, e.Message)
}

// Client is a Qobuz API client. It is safe for concurrent use.
type Client struct {
	appID      string
	appSecret  string
	httpClient *http.Client
	limiter    *rate.Limiter
	apiURL     string

	mu        sync.RWMutex
	authToken string

	now func() time.Time
}

// Option customizes a Client.
type Option func(*Client)

// WithAPIURL points the client at a different API root.
func WithAPIURL(u string) Option {
	return func(c *Client) { c.apiURL = strings.TrimRight(u, "/") }
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithRateLimit caps outgoing requests per second. Zero or less disables it.
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 0)
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// New creates a client for the given application credentials.
func New(appID, appSecret string, opts ...Option) *Client {
	c := &Client{
		appID:      appID,
		appSecret:  appSecret,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		limiter:    rate.NewLimiter(rate.Inf, 0),
		apiURL:     defaultAPIURL,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// AuthToken returns the user token sent with every request, if any.
func (c *Client) AuthToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.authToken
}

// SetAuthToken sets the user token sent with every request.
func (c *Client) SetAuthToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.authToken = token
}

var md5Hex = regexp.MustCompile(`^[0-9a-fA-F]{32}$`)

// Login exchanges an email and password for a user token. The password may be
// given in clear or already MD5-hashed. On success the token is also stored on
// the client.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	if !md5Hex.MatchString(password) {
		sum := md5.Sum([]byte(password))
		password = hex.EncodeToString(sum[:])
	}

	params := url.Values{
		"username": {email},
		"password": {password},
		"extra":    {"partner"},
	}

	body, err := c.get(ctx, "user/login", params)
	if err != nil {
		return "", err
	}

	var resp loginResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("failed to decode qobuz login response: %w", err)
	}

	hasSubscription := nonEmpty(gjson.GetBytes(body, "user.credential.parameters"))
	switch {
	case resp.UserAuthToken != "" && hasSubscription:
		c.SetAuthToken(resp.UserAuthToken)
		return resp.UserAuthToken, nil
	case !hasSubscription:
		return "", ErrFreeAccount
	default:
		return "", ErrInvalidLogin
	}
}

// GetTrack fetches a single track with its album.
func (c *Client) GetTrack(ctx context.Context, trackID string) (*Track, error) {
	var track Track
	if err := c.getJSON(ctx, "track/get", url.Values{"track_id": {trackID}}, &track); err != nil {
		return nil, err
	}
	return &track, nil
}

// GetFileURL resolves a signed stream URL for a track in the given format
// (5 = MP3 320, 6 = FLAC 16-bit, 7 = FLAC 24-bit <= 96 kHz, 27 = FLAC <= 192 kHz).
func (c *Client) GetFileURL(ctx context.Context, trackID string, formatID int) (*FileURL, error) {
	params := url.Values{
		"track_id":  {trackID},
		"format_id": {strconv.Itoa(formatID)},
		"intent":    {"stream"},
		"sample":    {"false"},
	}
	ts, sig := c.sign("track/getFileUrl", url.Values{
		"track_id":  params["track_id"],
		"format_id": params["format_id"],
		"intent":    params["intent"],
	})
	params.Set("request_ts", ts)
	params.Set("request_sig", sig)

	var file FileURL
	if err := c.getJSON(ctx, "track/getFileUrl", params, &file); err != nil {
		return nil, err
	}
	return &file, nil
}

// GetAlbum fetches an album with its tracks.
func (c *Client) GetAlbum(ctx context.Context, albumID string) (*Album, error) {
	var album Album
	if err := c.getJSON(ctx, "album/get", url.Values{"album_id": {albumID}}, &album); err != nil {
		return nil, err
	}
	return &album, nil
}

// GetPlaylist fetches one page of a playlist's tracks. A limit of zero
// requests MaxPageSize.
func (c *Client) GetPlaylist(ctx context.Context, playlistID string, limit, offset int) (*Playlist, error) {
	if limit <= 0 {
		limit = MaxPageSize
	}
	params := url.Values{
		"playlist_id": {playlistID},
		"extra":       {"tracks"},
		"limit":       {strconv.Itoa(limit)},
		"offset":      {strconv.Itoa(offset)},
	}
	var playlist Playlist
	if err := c.getJSON(ctx, "playlist/get", params, &playlist); err != nil {
		return nil, err
	}
	return &playlist, nil
}

// GetArtist fetches an artist with up to MaxPageSize albums.
func (c *Client) GetArtist(ctx context.Context, artistID string) (*Artist, error) {
	params := url.Values{
		"artist_id": {artistID},
		"extra":     {"albums"},
		"limit":     {strconv.Itoa(MaxPageSize)},
		"offset":    {"0"},
	}
	var artist Artist
	if err := c.getJSON(ctx, "artist/get", params, &artist); err != nil {
		return nil, err
	}
	return &artist, nil
}

// GetLabel fetches a label with up to MaxPageSize albums.
func (c *Client) GetLabel(ctx context.Context, labelID string) (*Label, error) {
	params := url.Values{
		"label_id": {labelID},
		"extra":    {"albums"},
		"limit":    {strconv.Itoa(MaxPageSize)},
		"offset":   {"0"},
	}
	var label Label
	if err := c.getJSON(ctx, "label/get", params, &label); err != nil {
		return nil, err
	}
	return &label, nil
}

// Search queries the catalog. queryType is the singular kind ("track",
// "album", "playlist", "artist", "label").
func (c *Client) Search(ctx context.Context, queryType, query string, limit int) (*SearchResults, error) {
	params := url.Values{
		"query": {query},
		"type":  {queryType + "s"},
		"limit": {strconv.Itoa(limit)},
	}
	var results SearchResults
	if err := c.getJSON(ctx, "catalog/search", params, &results); err != nil {
		return nil, err
	}
	return &results, nil
}

// sign computes the request_ts / request_sig pair for a signed method:
// md5(method without slashes + sorted key/value pairs + timestamp + secret).
func (c *Client) sign(method string, params url.Values) (string, string) {
	ts := strconv.FormatInt(c.now().Unix(), 10)

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(strings.ReplaceAll(method, "/", ""))
	for _, k := range keys {
		b.WriteString(k)
		b.WriteString(params.Get(k))
	}
	b.WriteString(ts)
	b.WriteString(c.appSecret)

	sum := md5.Sum([]byte(b.String()))
	return ts, hex.EncodeToString(sum[:])
}

func (c *Client) getJSON(ctx context.Context, method string, params url.Values, out any) error {
	body, err := c.get(ctx, method, params)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode qobuz %s response: %w", method, err)
	}
	return nil
}

// get performs a GET on the API and returns the raw body of a successful
// response.
func (c *Client) get(ctx context.Context, method string, params url.Values) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	q := url.Values{}
	for k, v := range params {
		q[k] = v
	}
	q.Set("app_id", c.appID)

	reqURL := fmt.Sprintf("%s/%s?%s", c.apiURL, method, q.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create qobuz request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("X-App-Id", c.appID)
	if token := c.AuthToken(); token != "" {
		req.Header.Set("X-User-Auth-Token", token)
	}

	resp, err := c.doWithRetry(ctx, req)
	if err != nil {
		// The query carries credentials on user/login; keep it out of the error.
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		return nil, fmt.Errorf("qobuz %s request failed: %w", method, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read qobuz %s response: %w", method, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &Error{Method: method, Status: resp.StatusCode, Message: errorMessage(body)}
	}
	if gjson.GetBytes(body, "status").String() == "error" {
		status := int(gjson.GetBytes(body, "code").Int())
		if status == 0 {
			status = resp.StatusCode
		}
		return nil, &Error{Method: method, Status: status, Message: errorMessage(body)}
	}
	return body, nil
}

// doWithRetry executes the request, retrying once on 429 after Retry-After.
func (c *Client) doWithRetry(ctx context.Context, req *http.Request) (*http.Response, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		resp.Body.Close()
		retryAfter := 1
		if ra := resp.Header.Get("Retry-After"); ra != "" {
			if parsed, err := strconv.Atoi(ra); err == nil {
				retryAfter = parsed
			}
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Duration(retryAfter) * time.Second):
		}
		return c.httpClient.Do(req.Clone(ctx))
	}

	return resp, nil
}

// errorMessage prefers the "message" field of a JSON error body.
func errorMessage(body []byte) string {
	if msg := gjson.GetBytes(body, "message"); msg.Type == gjson.String && msg.String() != "" {
		return msg.String()
	}
	return strings.TrimSpace(string(body))
}

// nonEmpty reports whether a JSON value is present and truthy in the loose
// sense: not null, false, zero, or an empty string, array or object.
func nonEmpty(r gjson.Result) bool {
	switch {
	case !r.Exists():
		return false
	case r.IsObject():
		return len(r.Map()) > 0
	case r.IsArray():
		return len(r.Array()) > 0
	}
	return r.Bool() || (r.Type == gjson.String && r.String() != "")
}
