// Package qobuz adapts the Qobuz API to the downloader's module contract:
// credentials, quality selection, and the track, album, playlist, artist,
// label, credits and search lookups.
package qobuz

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bascurtiz/orpheusdl-qobuz/internal/config"
	"github.com/bascurtiz/orpheusdl-qobuz/internal/logger"
	"github.com/bascurtiz/orpheusdl-qobuz/internal/metadata"
	"github.com/bascurtiz/orpheusdl-qobuz/internal/qobuzapi"
)

// tokenKey is the session storage variable holding the user token.
const tokenKey = "token"

var (
	// ErrMissingCredentials is returned when a lookup needs a session and the
	// settings contain neither login method.
	ErrMissingCredentials = errors.New("Qobuz credentials are missing in settings.json. " +
		"Please fill in either username and password, or user_id and auth token. " +
		"Use the OrpheusDL GUI Settings tab (Qobuz) or edit config/settings.json directly.")

	// ErrCredentialsRequired is returned by Login and Search when email and
	// password are needed but missing or rejected.
	ErrCredentialsRequired = errors.New("Qobuz credentials are required. " +
		"Please fill in your email and password in the settings. " +
		"Alternatively, you can use ID and Token instead.")
)

// Information describes the module to the host.
var Information = metadata.ModuleInformation{
	ServiceName:    "Qobuz",
	SupportedModes: metadata.ModeDownload | metadata.ModeCredits,
	GlobalSettings: map[string]string{
		"app_id":         "798273057",
		"app_secret":     "abb21364945c0583309667d13ca3d93a",
		"quality_format": "{sample_rate}kHz {bit_depth}bit",
	},
	SessionSettings: map[string]string{
		"username":     "",
		"password":     "",
		"user_id":      "",
		"auth_token":   "",
		"use_id_token": "false",
	},
	SessionStorageVariables: []string{tokenKey},
	NetLocationConstant:     "qobuz",
	URLConstants: map[string]metadata.DownloadType{
		"track":       metadata.DownloadTypeTrack,
		"album":       metadata.DownloadTypeAlbum,
		"playlist":    metadata.DownloadTypePlaylist,
		"artist":      metadata.DownloadTypeArtist,
		"interpreter": metadata.DownloadTypeArtist,
		"label":       metadata.DownloadTypeLabel,
	},
	TestURL: "https://open.qobuz.com/track/52151405",
}

// Stream format IDs: 5 = MP3 320, 6 = FLAC 16-bit, 7 = FLAC 24-bit <= 96 kHz,
// 27 = FLAC <= 192 kHz.
const (
	formatMP3      = 5
	formatCD       = 6
	formatHiRes96  = 7
	formatHiRes192 = 27
)

var qualityFormats = map[metadata.QualityTier]int{
	metadata.QualityMinimum:  formatMP3,
	metadata.QualityLow:      formatMP3,
	metadata.QualityMedium:   formatMP3,
	metadata.QualityHigh:     formatMP3,
	metadata.QualityLossless: formatCD,
	metadata.QualityHiFi:     formatHiRes192,
}

func formatFor(tier metadata.QualityTier) int {
	if f, ok := qualityFormats[tier]; ok {
		return f
	}
	return formatHiRes192
}

func isFLAC(formatID int) bool {
	return formatID == formatCD || formatID == formatHiRes96 || formatID == formatHiRes192
}

// TokenStore persists session storage variables between runs.
type TokenStore interface {
	Read(key string) string
	Set(key, value string) error
}

// Module is the Qobuz service module.
type Module struct {
	api    *qobuzapi.Client
	cfg    config.Config
	tokens TokenStore
	log    *logger.Logger

	tier          metadata.QualityTier
	qualityFormat string
}

// New creates the module from the settings. The session starts with the
// stored token, else the configured auth_token.
func New(cfg config.Config, tokens TokenStore, log *logger.Logger, opts ...qobuzapi.Option) (*Module, error) {
	tier, err := cfg.Tier()
	if err != nil {
		return nil, err
	}

	if cfg.APIURL != "" {
		opts = append([]qobuzapi.Option{qobuzapi.WithAPIURL(cfg.APIURL)}, opts...)
	}
	if cfg.RequestsPerSecond > 0 {
		opts = append(opts, qobuzapi.WithRateLimit(cfg.RequestsPerSecond))
	}

	m := &Module{
		api:           qobuzapi.New(cfg.AppID, cfg.AppSecret, opts...),
		cfg:           cfg,
		tokens:        tokens,
		log:           log,
		tier:          tier,
		qualityFormat: cfg.QualityFormat,
	}

	token := tokens.Read(tokenKey)
	if token == "" {
		token = cfg.AuthToken
	}
	m.api.SetAuthToken(token)

	return m, nil
}

// Tier returns the host quality tier the module was configured with.
func (m *Module) Tier() metadata.QualityTier { return m.tier }

// EnsureCredentials makes sure the session has a user token before a lookup
// that leads to a download. Without one the service only serves previews.
func (m *Module) EnsureCredentials(ctx context.Context) error {
	if m.api.AuthToken() != "" {
		return nil
	}

	if m.cfg.HasIDToken() {
		m.log.Debug("Qobuz: using user_id/auth_token from settings")
		return m.adoptToken(strings.TrimSpace(m.cfg.AuthToken))
	}
	if m.cfg.HasEmailPassword() {
		return m.Login(ctx, strings.TrimSpace(m.cfg.Username), strings.TrimSpace(m.cfg.Password))
	}
	return ErrMissingCredentials
}

// Login signs in with email and password and stores the session token. When
// user_id and auth_token are configured the saved token is used instead and
// no request is made.
func (m *Module) Login(ctx context.Context, email, password string) error {
	if m.cfg.HasIDToken() {
		return m.adoptToken(strings.TrimSpace(m.cfg.AuthToken))
	}

	if email == "" || password == "" {
		return ErrCredentialsRequired
	}

	m.log.Debug("Qobuz: logging in as %s", email)
	token, err := m.api.Login(ctx, email, password)
	if err != nil {
		if rejectedLogin(err) {
			m.log.Debug("Qobuz login rejected: %v", err)
			return ErrCredentialsRequired
		}
		return fmt.Errorf("qobuz login failed: %w", err)
	}
	return m.adoptToken(token)
}

// rejectedLogin reports whether the service itself turned the credentials
// down, as opposed to the request failing on the way.
func rejectedLogin(err error) bool {
	if errors.Is(err, qobuzapi.ErrInvalidLogin) {
		return true
	}
	var apiErr *qobuzapi.Error
	return errors.As(err, &apiErr) && strings.Contains(strings.ToLower(apiErr.Message), "username")
}

func (m *Module) adoptToken(token string) error {
	m.api.SetAuthToken(token)
	if err := m.tokens.Set(tokenKey, token); err != nil {
		return fmt.Errorf("failed to store qobuz session: %w", err)
	}
	return nil
}

// requireSession is the gate in front of search: a token, or settings that
// can produce one.
func (m *Module) requireSession(ctx context.Context) error {
	if m.api.AuthToken() != "" {
		return nil
	}
	if !m.cfg.HasEmailPassword() && !m.cfg.HasIDToken() {
		return ErrCredentialsRequired
	}
	return m.Login(ctx, strings.TrimSpace(m.cfg.Username), strings.TrimSpace(m.cfg.Password))
}
