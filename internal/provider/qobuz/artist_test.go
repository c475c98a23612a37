package qobuz

import (
	"context"
	"net/http"
	"reflect"
	"testing"

	"github.com/bascurtiz/orpheusdl-qobuz/internal/metadata"
)

const artistJSON = `{
	"id": 4040,
	"name": "Miles Davis",
	"albums": {"total": 4, "items": [
		{
			"id": "a1",
			"title": "Kind of Blue",
			"version": "Legacy Edition",
			"artist": {"id": 4040, "name": "Miles Davis Quintet"},
			"release_date_original": "1959-08-17",
			"image": {"small": "https://img/a1_230.jpg", "large": "https://img/a1_600.jpg"},
			"duration": 2760,
			"maximum_sampling_rate": 192,
			"maximum_bit_depth": 24
		},
		{
			"id": "a2",
			"name": "Bitches Brew",
			"released_at": 1262300400,
			"image": {"thumbnail": "https://img/a2_50.jpg"},
			"maximum_sampling_rate": 44.1
		},
		{"id": "a3", "release_date": "not-a-date", "maximum_sampling_rate": null},
		"a4"
	]}
}`

func TestGetArtistInfo(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc(apiPrefix+"artist/get", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("artist_id") != "4040" || q.Get("extra") != "albums" || q.Get("limit") != "500" {
			t.Errorf("unexpected query: %v", q)
		}
		w.Write([]byte(artistJSON))
	})
	m, _ := newTestModule(t, mux, withIDToken)

	info, err := m.GetArtistInfo(context.Background(), "4040", true)
	if err != nil {
		t.Fatal(err)
	}
	if info.Name != "Miles Davis" {
		t.Errorf("Name = %q", info.Name)
	}

	want := []metadata.AlbumSummary{
		{
			ID:          "a1",
			Name:        "Kind of Blue (Legacy Edition)",
			Artist:      "Miles Davis Quintet",
			ReleaseYear: 1959,
			CoverURL:    "https://img/a1_230.jpg",
			Duration:    2760,
			Additional:  "192kHz/24bit",
		},
		{
			ID:          "a2",
			Name:        "Bitches Brew",
			Artist:      "Miles Davis",
			ReleaseYear: 2009,
			CoverURL:    "https://img/a2_50.jpg",
			Additional:  "44.1kHz",
		},
		{
			ID:     "a3",
			Name:   "Unknown Album",
			Artist: "Miles Davis",
		},
		{ID: "a4"},
	}
	if !reflect.DeepEqual(info.Albums, want) {
		t.Errorf("Albums =\n%+v\nwant\n%+v", info.Albums, want)
	}
	if !reflect.DeepEqual(info.AlbumIDs(), []string{"a1", "a2", "a3", "a4"}) {
		t.Errorf("AlbumIDs() = %v", info.AlbumIDs())
	}
}

func TestGetLabelInfo(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantName   string
		wantArtist string
	}{
		{
			name:       "named label",
			body:       `{"id":12444,"name":"Blue Note","albums":{"items":[{"id":"b1","title":"Somethin' Else"}]}}`,
			wantName:   "Blue Note",
			wantArtist: "Blue Note",
		},
		{
			name:       "unnamed label",
			body:       `{"id":12444,"albums":{"items":[{"id":"b1","title":"Somethin' Else"}]}}`,
			wantName:   "Unknown Label",
			wantArtist: "Unknown Label",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux := http.NewServeMux()
			mux.HandleFunc(apiPrefix+"label/get", func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Query().Get("label_id") != "12444" {
					t.Errorf("label_id = %q", r.URL.Query().Get("label_id"))
				}
				w.Write([]byte(tt.body))
			})
			m, _ := newTestModule(t, mux, withIDToken)

			info, err := m.GetLabelInfo(context.Background(), "12444", true)
			if err != nil {
				t.Fatal(err)
			}
			if info.Name != tt.wantName || info.ArtistID != "12444" {
				t.Errorf("Name = %q, ArtistID = %q", info.Name, info.ArtistID)
			}
			if len(info.Albums) != 1 || info.Albums[0].Artist != tt.wantArtist || info.Albums[0].Name != "Somethin' Else" {
				t.Errorf("Albums = %+v", info.Albums)
			}
		})
	}
}

func TestGetArtistInfoNoAlbums(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc(apiPrefix+"artist/get", serveJSON(`{"id":1,"name":"Newcomer"}`))
	m, _ := newTestModule(t, mux, withIDToken)

	info, err := m.GetArtistInfo(context.Background(), "1", false)
	if err != nil {
		t.Fatal(err)
	}
	if len(info.Albums) != 0 {
		t.Errorf("Albums = %+v", info.Albums)
	}
}

func TestSamplingInfo(t *testing.T) {
	rate, zero := 96.0, 0.0
	depth, noDepth := 24, 0

	tests := []struct {
		name  string
		rate  *float64
		depth *int
		want  string
	}{
		{"rate and depth", &rate, &depth, "96kHz/24bit"},
		{"rate only", &rate, nil, "96kHz"},
		{"zero depth", &rate, &noDepth, "96kHz"},
		{"zero rate", &zero, &depth, ""},
		{"absent", nil, &depth, ""},
	}

	for _, tt := range tests {
		if got := samplingInfo(tt.rate, tt.depth); got != tt.want {
			t.Errorf("%s: samplingInfo() = %q, want %q", tt.name, got, tt.want)
		}
	}
}
