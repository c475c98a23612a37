// Package metadata holds the records and enums the host downloader expects a
// service module to return. The schema is owned by the host; modules only
// populate it.
package metadata

// Kwargs carries opaque per-call arguments that the host hands back to the
// module on a follow-up call (credits lookup, download, album track lookup).
type Kwargs map[string]any

// Tags are the file tags the host writes for a track.
type Tags struct {
	AlbumArtist string
	Composer    string
	ReleaseDate string // "2020-03-20" when known
	TrackNumber int
	TotalTracks int
	DiscNumber  int
	TotalDiscs  int
	ISRC        string
	UPC         string
	Label       string
	Copyright   string
	Genres      []string
}

// TrackInfo describes a single downloadable track.
type TrackInfo struct {
	ID          string
	Name        string
	AlbumID     string
	Album       string
	Artists     []string
	ArtistID    string
	BitDepth    int
	Bitrate     int // kbps, 0 when unknown
	SampleRate  float64
	ReleaseYear int
	Explicit    bool
	CoverURL    string
	Tags        Tags
	Codec       Codec
	Duration    int // seconds

	CreditsExtra  Kwargs
	DownloadExtra Kwargs

	// Error is set when the track cannot be downloaded; the host skips it.
	Error string
}

// TrackDownloadInfo tells the host how to fetch the audio.
type TrackDownloadInfo struct {
	Method  DownloadMethod
	FileURL string
}

// AlbumInfo describes an album and the IDs of its tracks.
type AlbumInfo struct {
	Name                string
	Artist              string
	ArtistID            string
	Tracks              []string
	ReleaseYear         int
	Explicit            bool
	Quality             string
	Description         string
	CoverURL            string
	AllTrackCoverJPGURL string
	UPC                 string
	Duration            int
	BookletURL          string
	TrackExtra          Kwargs
}

// PlaylistInfo describes a playlist and the IDs of its tracks.
type PlaylistInfo struct {
	Name        string
	Creator     string
	CreatorID   string
	ReleaseYear int
	Description string
	Duration    int
	Tracks      []string
	TrackExtra  Kwargs
}

// AlbumSummary is a display row for an album listed under an artist or label.
// A summary with only ID set stands for an album the module could not parse.
type AlbumSummary struct {
	ID          string
	Name        string
	Artist      string
	ReleaseYear int
	CoverURL    string
	Duration    int
	Additional  string
}

// ArtistInfo describes an artist (or a label, which the host downloads the
// same way) and its albums.
type ArtistInfo struct {
	Name     string
	ArtistID string
	Albums   []AlbumSummary
}

// AlbumIDs returns the album IDs in listing order.
func (a ArtistInfo) AlbumIDs() []string {
	ids := make([]string, 0, len(a.Albums))
	for _, album := range a.Albums {
		ids = append(ids, album.ID)
	}
	return ids
}

// CreditsInfo groups contributor names under a role.
type CreditsInfo struct {
	Type  string
	Names []string
}

// SearchResult is one row of a search.
type SearchResult struct {
	ResultID   string
	Name       string
	Artists    []string
	Year       int
	Explicit   bool
	Additional []string
	Duration   int
	ImageURL   string
	PreviewURL string
	Extra      Kwargs
}

// ModuleInformation is the static description a module registers with the host.
type ModuleInformation struct {
	ServiceName             string
	SupportedModes          ModuleModes
	GlobalSettings          map[string]string
	SessionSettings         map[string]string
	SessionStorageVariables []string
	NetLocationConstant     string
	URLConstants            map[string]DownloadType
	TestURL                 string
}

// Data returns the nested "data" map of an extra-arguments record, the shape
// modules use to hand prefetched items back to themselves.
func (k Kwargs) Data() Kwargs {
	if k == nil {
		return nil
	}
	switch v := k["data"].(type) {
	case Kwargs:
		return v
	case map[string]any:
		return Kwargs(v)
	}
	return nil
}
