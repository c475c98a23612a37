package qobuz

import (
	"errors"
	"testing"

	"github.com/bascurtiz/orpheusdl-qobuz/internal/metadata"
)

func TestParseURL(t *testing.T) {
	tests := []struct {
		url      string
		wantType metadata.DownloadType
		wantID   string
		wantErr  bool
	}{
		{"https://open.qobuz.com/track/52151405", metadata.DownloadTypeTrack, "52151405", false},
		{"https://play.qobuz.com/album/0060254735180", metadata.DownloadTypeAlbum, "0060254735180", false},
		{"https://play.qobuz.com/playlist/1234567/", metadata.DownloadTypePlaylist, "1234567", false},
		{"https://play.qobuz.com/artist/36819", metadata.DownloadTypeArtist, "36819", false},
		{"https://play.qobuz.com/label/12444", metadata.DownloadTypeLabel, "12444", false},
		{"https://www.qobuz.com/us-en/album/kind-of-blue-miles-davis/0886974393125", metadata.DownloadTypeAlbum, "0886974393125", false},
		{"https://www.qobuz.com/fr-fr/interpreter/miles-davis/36819", metadata.DownloadTypeArtist, "36819", false},
		{"https://www.qobuz.com/gb-en/label/blue-note/download-streaming-albums/12444", metadata.DownloadTypeLabel, "12444", false},
		{" https://open.qobuz.com/track/1?utm_source=x ", metadata.DownloadTypeTrack, "1", false},
		{"https://open.spotify.com/track/52151405", 0, "", true},
		{"https://evilqobuz.com/track/1", 0, "", true},
		{"https://open.qobuz.com/track", 0, "", true},
		{"https://open.qobuz.com/user/library", 0, "", true},
		{"://bad", 0, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			typ, id, err := ParseURL(tt.url)
			if tt.wantErr {
				if !errors.Is(err, ErrUnsupportedURL) {
					t.Errorf("err = %v, want ErrUnsupportedURL", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if typ != tt.wantType || id != tt.wantID {
				t.Errorf("ParseURL() = %v %q, want %v %q", typ, id, tt.wantType, tt.wantID)
			}
		})
	}
}
