package qobuzapi

import (
	"encoding/json"
	"testing"
)

func TestAlbumItemDecoding(t *testing.T) {
	var list AlbumList
	data := `{"total":3,"items":[{"id":"a1","title":"First"},"a2",12345]}`
	if err := json.Unmarshal([]byte(data), &list); err != nil {
		t.Fatal(err)
	}
	if len(list.Items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(list.Items))
	}
	if list.Items[0].Album == nil || list.Items[0].Title != "First" {
		t.Errorf("object item not decoded: %+v", list.Items[0])
	}
	if list.Items[1].Album != nil || list.Items[1].RawID != "a2" {
		t.Errorf("string item = %+v", list.Items[1])
	}
	if list.Items[2].RawID != "12345" {
		t.Errorf("number item = %+v", list.Items[2])
	}
}

func TestAlbumReleaseYear(t *testing.T) {
	tests := []struct {
		name string
		json string
		want int
	}{
		{"original date", `{"release_date_original":"1959-08-17","released_at":1262300400}`, 1959},
		{"unix released_at", `{"released_at":1262300400}`, 2009},
		{"string released_at", `{"released_at":"2011-05-02"}`, 2011},
		{"release_date", `{"release_date":"2001-01-01"}`, 2001},
		{"malformed original date", `{"release_date_original":"abc-01-01","release_date":"2001-01-01"}`, 2001},
		{"year only", `{"release_date_original":"1959"}`, 1959},
		{"none", `{}`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var a Album
			if err := json.Unmarshal([]byte(tt.json), &a); err != nil {
				t.Fatal(err)
			}
			if got := a.ReleaseYear(); got != tt.want {
				t.Errorf("ReleaseYear() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestTrackPreview(t *testing.T) {
	tests := []struct {
		json string
		want string
	}{
		{`{"sample_url":"https://a"}`, "https://a"},
		{`{"previewable_url":"https://b"}`, "https://b"},
		{`{"sample":{"url":"https://c"}}`, "https://c"},
		{`{"sample":"https://d"}`, "https://d"},
		{`{"sample":true}`, ""},
		{`{}`, ""},
	}

	for _, tt := range tests {
		var tr Track
		if err := json.Unmarshal([]byte(tt.json), &tr); err != nil {
			t.Fatal(err)
		}
		if got := tr.Preview(); got != tt.want {
			t.Errorf("Preview() for %s = %q, want %q", tt.json, got, tt.want)
		}
	}
}

func TestPlaylistHelpers(t *testing.T) {
	var p Playlist
	data := `{"created_at":1609459200,"tracks":{"total":12},"image_rectangle":["https://rect/1.jpg","https://rect/2.jpg"]}`
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		t.Fatal(err)
	}
	if p.TrackCount() != 12 {
		t.Errorf("TrackCount() = %d", p.TrackCount())
	}
	if p.Cover() != "https://rect/1.jpg" {
		t.Errorf("Cover() = %q", p.Cover())
	}
	if p.Created().Year() != 2021 {
		t.Errorf("Created() = %v", p.Created())
	}

	p = Playlist{Images300: []string{"https://300/1.jpg"}, ImageRectangle: json.RawMessage(`"https://rect.jpg"`)}
	if p.Cover() != "https://300/1.jpg" {
		t.Errorf("Cover() should prefer images300, got %q", p.Cover())
	}
	p.Images300 = nil
	if p.Cover() != "https://rect.jpg" {
		t.Errorf("Cover() = %q", p.Cover())
	}
}

func TestImagePick(t *testing.T) {
	img := &Image{Thumbnail: "t", Large: "l"}
	if got := img.Pick("small", "thumbnail", "large"); got != "t" {
		t.Errorf("Pick() = %q", got)
	}
	var none *Image
	if got := none.Pick("small"); got != "" {
		t.Errorf("nil Pick() = %q", got)
	}
}
