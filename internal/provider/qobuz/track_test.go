package qobuz

import (
	"context"
	"net/http"
	"reflect"
	"testing"

	"github.com/bascurtiz/orpheusdl-qobuz/internal/metadata"
	"github.com/bascurtiz/orpheusdl-qobuz/internal/qobuzapi"
)

const trackJSON = `{
	"id": 52151405,
	"title": "Allegro con brio  ",
	"version": "Live",
	"work": "Symphony No. 5",
	"duration": 452,
	"track_number": 1,
	"media_number": 2,
	"isrc": "DEF058230101",
	"parental_warning": true,
	"streamable": true,
	"performer": {"id": 111, "name": "Orchestre Symphonique"},
	"composer": {"id": 222, "name": "Ludwig van Beethoven"},
	"performers": "Orchestre Symphonique, MainArtist - Rosalía, FeaturedArtist, Vocals - Jane Roe, Producer - Guest Act, Artist",
	"album": {
		"id": "0060254735180",
		"title": "Beethoven Live ",
		"version": "Remastered",
		"artist": {"id": 333, "name": "Various Artists"},
		"image": {"large": "https://static.qobuz.com/images/covers/80/51/0060254735180_600.jpg"},
		"release_date_original": "1999-05-04",
		"tracks_count": 9,
		"media_count": 2,
		"upc": "0060254735180",
		"label": {"id": 9, "name": "Deutsche Grammophon"},
		"copyright": "(P) 1999",
		"genre": {"id": 10, "name": "Classical"}
	}
}`

func trackMux(t *testing.T, fileURL string, wantFormat string) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc(apiPrefix+"track/get", serveJSON(trackJSON))
	mux.HandleFunc(apiPrefix+"track/getFileUrl", func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("format_id"); got != wantFormat {
			t.Errorf("format_id = %q, want %q", got, wantFormat)
		}
		if r.URL.Query().Get("request_sig") == "" {
			t.Error("missing request signature")
		}
		w.Write([]byte(fileURL))
	})
	return mux
}

func TestGetTrackInfo(t *testing.T) {
	mux := trackMux(t, `{"url":"https://stream.example/52151405.flac","format_id":27,"sampling_rate":96,"bit_depth":24}`, "27")
	m, _ := newTestModule(t, mux, withIDToken)

	info, err := m.GetTrackInfo(context.Background(), "52151405", metadata.QualityHiFi, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if info.Name != "Symphony No. 5 - Allegro con brio (Live)" {
		t.Errorf("Name = %q", info.Name)
	}
	if info.Album != "Beethoven Live (Remastered)" {
		t.Errorf("Album = %q", info.Album)
	}
	if info.AlbumID != "0060254735180" || info.ArtistID != "111" {
		t.Errorf("AlbumID = %q, ArtistID = %q", info.AlbumID, info.ArtistID)
	}
	wantArtists := []string{"Orchestre Symphonique", "Rosalía", "Guest Act"}
	if !reflect.DeepEqual(info.Artists, wantArtists) {
		t.Errorf("Artists = %v, want %v", info.Artists, wantArtists)
	}
	if info.BitDepth != 24 || info.SampleRate != 96 || info.Bitrate != 4608 || info.Codec != metadata.CodecFLAC {
		t.Errorf("stream fields = %d bit, %v kHz, %d kbps, %q", info.BitDepth, info.SampleRate, info.Bitrate, info.Codec)
	}
	if info.ReleaseYear != 1999 || !info.Explicit || info.Duration != 452 {
		t.Errorf("year = %d, explicit = %v, duration = %d", info.ReleaseYear, info.Explicit, info.Duration)
	}
	if info.CoverURL != "https://static.qobuz.com/images/covers/80/51/0060254735180_org.jpg" {
		t.Errorf("CoverURL = %q", info.CoverURL)
	}
	if info.Error != "" {
		t.Errorf("Error = %q", info.Error)
	}

	wantTags := metadata.Tags{
		AlbumArtist: "Various Artists",
		Composer:    "Ludwig van Beethoven",
		ReleaseDate: "1999-05-04",
		TrackNumber: 1,
		TotalTracks: 9,
		DiscNumber:  2,
		TotalDiscs:  2,
		ISRC:        "DEF058230101",
		UPC:         "0060254735180",
		Label:       "Deutsche Grammophon",
		Copyright:   "(P) 1999",
		Genres:      []string{"Classical"},
	}
	if !reflect.DeepEqual(info.Tags, wantTags) {
		t.Errorf("Tags = %+v, want %+v", info.Tags, wantTags)
	}

	if got := info.DownloadExtra["url"]; got != "https://stream.example/52151405.flac" {
		t.Errorf("DownloadExtra url = %v", got)
	}
	if got := info.DownloadExtra["title"]; got != "Allegro con brio" {
		t.Errorf("DownloadExtra title = %v", got)
	}
	dl := m.GetTrackDownload(info.DownloadExtra["url"].(string))
	if dl.Method != metadata.DownloadURL || dl.FileURL != "https://stream.example/52151405.flac" {
		t.Errorf("GetTrackDownload() = %+v", dl)
	}

	// The credits record has the artist roles stripped.
	credited, ok := info.CreditsExtra.Data()["52151405"].(*qobuzapi.Track)
	if !ok {
		t.Fatalf("CreditsExtra = %#v", info.CreditsExtra)
	}
	if credited.Performers != "Rosalía, Vocals - Jane Roe, Producer" {
		t.Errorf("rewritten performers = %q", credited.Performers)
	}
}

func TestGetTrackInfoNotStreamable(t *testing.T) {
	data := metadata.Kwargs{"7": &qobuzapi.Track{
		ID:         "7",
		Title:      "Hidden",
		Streamable: false,
		Album:      &qobuzapi.Album{ID: "a", Title: "Album", Artist: &qobuzapi.Artist{ID: "9", Name: "Album Artist"}},
	}}

	mux := http.NewServeMux()
	mux.HandleFunc(apiPrefix+"track/get", func(w http.ResponseWriter, r *http.Request) {
		t.Error("prefetched track must not be fetched again")
	})
	mux.HandleFunc(apiPrefix+"track/getFileUrl", serveJSON(`{"url":"https://stream.example/7.mp3","format_id":5}`))
	m, _ := newTestModule(t, mux, withIDToken)

	info, err := m.GetTrackInfo(context.Background(), "7", metadata.QualityHigh, data)
	if err != nil {
		t.Fatal(err)
	}
	if info.Error != `Track "Hidden" is not streamable!` {
		t.Errorf("Error = %q", info.Error)
	}
	// Without a performer the album artist leads.
	if !reflect.DeepEqual(info.Artists, []string{"Album Artist"}) || info.ArtistID != "9" {
		t.Errorf("Artists = %v, ArtistID = %q", info.Artists, info.ArtistID)
	}
	if info.Bitrate != 320 || info.Codec != metadata.CodecMP3 {
		t.Errorf("Bitrate = %d, Codec = %q", info.Bitrate, info.Codec)
	}
	if info.CoverURL != "" {
		t.Errorf("CoverURL = %q, want empty without an image", info.CoverURL)
	}
}

func TestGetTrackInfoNeedsCredentials(t *testing.T) {
	m, _ := newTestModule(t, http.NewServeMux(), nil)
	if _, err := m.GetTrackInfo(context.Background(), "1", metadata.QualityHiFi, nil); err != ErrMissingCredentials {
		t.Errorf("err = %v, want ErrMissingCredentials", err)
	}
}

func TestBitrateAndCodec(t *testing.T) {
	tests := []struct {
		name        string
		file        qobuzapi.FileURL
		wantBitrate int
		wantCodec   metadata.Codec
	}{
		{"mp3", qobuzapi.FileURL{FormatID: 5}, 320, metadata.CodecMP3},
		{"cd flac", qobuzapi.FileURL{FormatID: 6, SamplingRate: 44.1, BitDepth: 16}, 1411, metadata.CodecFLAC},
		{"hi-res 96", qobuzapi.FileURL{FormatID: 7, SamplingRate: 96, BitDepth: 24}, 4608, metadata.CodecFLAC},
		{"hi-res 192", qobuzapi.FileURL{FormatID: 27, SamplingRate: 192, BitDepth: 24}, 9216, metadata.CodecFLAC},
		{"no format", qobuzapi.FileURL{}, 0, metadata.CodecNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := bitrate(&tt.file); got != tt.wantBitrate {
				t.Errorf("bitrate() = %d, want %d", got, tt.wantBitrate)
			}
			if got := codec(tt.file.FormatID); got != tt.wantCodec {
				t.Errorf("codec() = %q, want %q", got, tt.wantCodec)
			}
		})
	}
}

func TestSplitArtists(t *testing.T) {
	tests := []struct {
		name           string
		main           string
		performers     string
		wantArtists    []string
		wantPerformers string
	}{
		{
			name:           "no performers",
			main:           "Beyoncé",
			wantArtists:    []string{"Beyoncé"},
			wantPerformers: "",
		},
		{
			name:           "ascii main artist deduplicated",
			main:           "Daft Punk",
			performers:     "Daft Punk, MainArtist, Producer - Pharrell Williams, FeaturedArtist",
			wantArtists:    []string{"Daft Punk", "Pharrell Williams"},
			wantPerformers: "Daft Punk, Producer",
		},
		{
			name:           "contributor with several artist roles",
			main:           "A",
			performers:     "B, MainArtist, Artist, FeaturedArtist",
			wantArtists:    []string{"A", "B"},
			wantPerformers: "",
		},
		{
			name:           "credits only",
			main:           "A",
			performers:     "C, Composer, Lyricist",
			wantArtists:    []string{"A"},
			wantPerformers: "C, Composer, Lyricist",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			artists, performers := splitArtists(tt.main, tt.performers)
			if !reflect.DeepEqual(artists, tt.wantArtists) {
				t.Errorf("artists = %v, want %v", artists, tt.wantArtists)
			}
			if performers != tt.wantPerformers {
				t.Errorf("performers = %q, want %q", performers, tt.wantPerformers)
			}
		})
	}
}

func TestGetTrackCredits(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc(apiPrefix+"track/get", serveJSON(`{"id":1,"performers":"Jane, Composer, Lyricist - John, Producer - Ann, Composer"}`))
	// No credentials configured: credits do not need a session.
	m, _ := newTestModule(t, mux, nil)

	credits, err := m.GetTrackCredits(context.Background(), "1", nil)
	if err != nil {
		t.Fatal(err)
	}
	want := []metadata.CreditsInfo{
		{Type: "Composer", Names: []string{"Jane", "Ann"}},
		{Type: "Lyricist", Names: []string{"Jane"}},
		{Type: "Producer", Names: []string{"John"}},
	}
	if !reflect.DeepEqual(credits, want) {
		t.Errorf("credits = %+v, want %+v", credits, want)
	}
}

func TestGetTrackCreditsEmpty(t *testing.T) {
	m, _ := newTestModule(t, http.NewServeMux(), nil)
	data := metadata.Kwargs{"1": qobuzapi.Track{ID: "1"}}

	credits, err := m.GetTrackCredits(context.Background(), "1", data)
	if err != nil {
		t.Fatal(err)
	}
	if len(credits) != 0 {
		t.Errorf("credits = %+v, want none", credits)
	}
}
