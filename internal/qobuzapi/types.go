package qobuzapi

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// ID is an object identifier. The API sends some IDs as numbers (tracks,
// artists, playlists) and others as strings (albums); both decode here.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	*id = ID(gjson.ParseBytes(b).String())
	return nil
}

func (id ID) String() string { return string(id) }

type Image struct {
	Thumbnail string `json:"thumbnail"`
	Small     string `json:"small"`
	Medium    string `json:"medium"`
	Large     string `json:"large"`
}

// Pick returns the first non-empty size among the given candidates.
func (i *Image) Pick(sizes ...string) string {
	if i == nil {
		return ""
	}
	for _, size := range sizes {
		var v string
		switch size {
		case "thumbnail":
			v = i.Thumbnail
		case "small":
			v = i.Small
		case "medium":
			v = i.Medium
		case "large":
			v = i.Large
		}
		if v != "" {
			return v
		}
	}
	return ""
}

type Artist struct {
	ID                  ID         `json:"id"`
	Name                string     `json:"name"`
	Title               string     `json:"title"`
	Version             string     `json:"version"`
	ParentalWarning     bool       `json:"parental_warning"`
	MaximumSamplingRate *float64   `json:"maximum_sampling_rate"`
	MaximumBitDepth     *int       `json:"maximum_bit_depth"`
	Image               *Image     `json:"image"`
	Albums              *AlbumList `json:"albums"`
}

type Label struct {
	ID                  ID         `json:"id"`
	Name                string     `json:"name"`
	Title               string     `json:"title"`
	Version             string     `json:"version"`
	ParentalWarning     bool       `json:"parental_warning"`
	MaximumSamplingRate *float64   `json:"maximum_sampling_rate"`
	MaximumBitDepth     *int       `json:"maximum_bit_depth"`
	Image               *Image     `json:"image"`
	Albums              *AlbumList `json:"albums"`
}

type Genre struct {
	ID   ID     `json:"id"`
	Name string `json:"name"`
}

type Goodie struct {
	ID   ID     `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

type Album struct {
	ID                  ID              `json:"id"`
	Title               string          `json:"title"`
	Name                string          `json:"name"`
	Version             string          `json:"version"`
	Artist              *Artist         `json:"artist"`
	Image               *Image          `json:"image"`
	ReleaseDateOriginal string          `json:"release_date_original"`
	ReleasedAt          json.RawMessage `json:"released_at"`
	ReleaseDate         string          `json:"release_date"`
	TracksCount         int             `json:"tracks_count"`
	MediaCount          int             `json:"media_count"`
	UPC                 string          `json:"upc"`
	Label               *Label          `json:"label"`
	Copyright           string          `json:"copyright"`
	Genre               *Genre          `json:"genre"`
	ParentalWarning     bool            `json:"parental_warning"`
	Hires               bool            `json:"hires"`
	HiresStreamable     bool            `json:"hires_streamable"`
	MaximumSamplingRate *float64        `json:"maximum_sampling_rate"`
	MaximumBitDepth     *int            `json:"maximum_bit_depth"`
	Description         string          `json:"description"`
	Duration            int             `json:"duration"`
	Goodies             []Goodie        `json:"goodies"`
	Tracks              *TrackPage      `json:"tracks"`
}

// DisplayName is name, else title.
func (a *Album) DisplayName() string {
	if a.Name != "" {
		return a.Name
	}
	return a.Title
}

// ReleaseYear reads the first available of release_date_original,
// released_at (a Unix timestamp or a date) and release_date. Returns 0 when
// none parses.
func (a *Album) ReleaseYear() int {
	if y := yearOf(a.ReleaseDateOriginal); y != 0 {
		return y
	}
	if len(a.ReleasedAt) > 0 {
		r := gjson.ParseBytes(a.ReleasedAt)
		switch r.Type {
		case gjson.Number:
			if r.Int() > 0 {
				return time.Unix(r.Int(), 0).UTC().Year()
			}
		case gjson.String:
			if y := yearOf(r.String()); y != 0 {
				return y
			}
		}
	}
	return yearOf(a.ReleaseDate)
}

func yearOf(date string) int {
	head, _, _ := strings.Cut(date, "-")
	y := 0
	for _, r := range head {
		if r < '0' || r > '9' {
			return 0
		}
		y = y*10 + int(r-'0')
	}
	return y
}

type Track struct {
	ID                  ID       `json:"id"`
	Title               string   `json:"title"`
	Version             string   `json:"version"`
	Work                string   `json:"work"`
	Duration            int      `json:"duration"`
	TrackNumber         int      `json:"track_number"`
	MediaNumber         int      `json:"media_number"`
	ISRC                string   `json:"isrc"`
	ParentalWarning     bool     `json:"parental_warning"`
	Streamable          bool     `json:"streamable"`
	Performer           *Artist  `json:"performer"`
	Performers          string   `json:"performers"`
	Composer            *Artist  `json:"composer"`
	Album               *Album   `json:"album"`
	MaximumSamplingRate *float64 `json:"maximum_sampling_rate"`
	MaximumBitDepth     *int     `json:"maximum_bit_depth"`

	SampleURL      string          `json:"sample_url"`
	PreviewURL     string          `json:"preview_url"`
	PreviewableURL string          `json:"previewable_url"`
	Sample         json.RawMessage `json:"sample"`
}

// Preview returns the first preview location the API provided. "sample" is
// either an object with a url or a plain URL string.
func (t *Track) Preview() string {
	for _, u := range []string{t.SampleURL, t.PreviewURL, t.PreviewableURL} {
		if u != "" {
			return u
		}
	}
	if len(t.Sample) == 0 {
		return ""
	}
	sample := gjson.ParseBytes(t.Sample)
	if sample.IsObject() {
		return sample.Get("url").String()
	}
	if sample.Type == gjson.String {
		return sample.String()
	}
	return ""
}

type Owner struct {
	ID   ID     `json:"id"`
	Name string `json:"name"`
}

type Playlist struct {
	ID              ID              `json:"id"`
	Name            string          `json:"name"`
	Title           string          `json:"title"`
	Version         string          `json:"version"`
	Description     string          `json:"description"`
	ParentalWarning bool            `json:"parental_warning"`
	Duration        int             `json:"duration"`
	CreatedAt       int64           `json:"created_at"`
	Owner           Owner           `json:"owner"`
	TracksCount     int             `json:"tracks_count"`
	Tracks          *TrackPage      `json:"tracks"`
	Images300       []string        `json:"images300"`
	ImageRectangle  json.RawMessage `json:"image_rectangle"`
}

// TrackCount is tracks_count, else the total of the embedded track page.
func (p *Playlist) TrackCount() int {
	if p.TracksCount > 0 {
		return p.TracksCount
	}
	if p.Tracks != nil {
		return p.Tracks.Total
	}
	return 0
}

// Cover returns the first 300px image, else the rectangle image, which the
// API sends either as a list or a single URL.
func (p *Playlist) Cover() string {
	if len(p.Images300) > 0 {
		return p.Images300[0]
	}
	if len(p.ImageRectangle) == 0 {
		return ""
	}
	rect := gjson.ParseBytes(p.ImageRectangle)
	if rect.IsArray() {
		return rect.Get("0").String()
	}
	return rect.String()
}

// Created is the playlist creation time in UTC.
func (p *Playlist) Created() time.Time {
	return time.Unix(p.CreatedAt, 0).UTC()
}

type TrackPage struct {
	Offset int     `json:"offset"`
	Limit  int     `json:"limit"`
	Total  int     `json:"total"`
	Items  []Track `json:"items"`
}

// AlbumItem is one entry of an artist or label album listing. Entries that
// are not objects are kept as a bare ID.
type AlbumItem struct {
	*Album
	RawID string
}

func (a *AlbumItem) UnmarshalJSON(b []byte) error {
	r := gjson.ParseBytes(b)
	if !r.IsObject() {
		a.RawID = r.String()
		return nil
	}
	a.Album = new(Album)
	return json.Unmarshal(b, a.Album)
}

type AlbumList struct {
	Offset int         `json:"offset"`
	Limit  int         `json:"limit"`
	Total  int         `json:"total"`
	Items  []AlbumItem `json:"items"`
}

type AlbumPage struct {
	Total int     `json:"total"`
	Items []Album `json:"items"`
}

type ArtistPage struct {
	Total int      `json:"total"`
	Items []Artist `json:"items"`
}

type PlaylistPage struct {
	Total int        `json:"total"`
	Items []Playlist `json:"items"`
}

type LabelPage struct {
	Total int     `json:"total"`
	Items []Label `json:"items"`
}

type SearchResults struct {
	Query     string        `json:"query"`
	Tracks    *TrackPage    `json:"tracks"`
	Albums    *AlbumPage    `json:"albums"`
	Artists   *ArtistPage   `json:"artists"`
	Playlists *PlaylistPage `json:"playlists"`
	Labels    *LabelPage    `json:"labels"`
}

type FileURL struct {
	TrackID      ID      `json:"track_id"`
	URL          string  `json:"url"`
	FormatID     int     `json:"format_id"`
	MimeType     string  `json:"mime_type"`
	SamplingRate float64 `json:"sampling_rate"`
	BitDepth     int     `json:"bit_depth"`
	Restrictions []struct {
		Code string `json:"code"`
	} `json:"restrictions"`
}

type loginResponse struct {
	UserAuthToken string `json:"user_auth_token"`
	User          struct {
		ID ID `json:"id"`
	} `json:"user"`
}
