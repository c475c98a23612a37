package qobuz

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/bascurtiz/orpheusdl-qobuz/internal/metadata"
	"github.com/bascurtiz/orpheusdl-qobuz/internal/qobuzapi"
)

// Performer roles that name the track's artists rather than a credit.
var artistRoles = []string{"MainArtist", "FeaturedArtist", "Artist"}

// GetTrackInfo builds the track record and resolves its stream URL for the
// given tier. data holds tracks prefetched by an album, playlist or search
// lookup, keyed by track ID.
func (m *Module) GetTrackInfo(ctx context.Context, trackID string, tier metadata.QualityTier, data metadata.Kwargs) (*metadata.TrackInfo, error) {
	if err := m.EnsureCredentials(ctx); err != nil {
		return nil, err
	}

	track, err := m.track(ctx, trackID, data)
	if err != nil {
		return nil, err
	}
	album := track.Album
	if album == nil {
		album = &qobuzapi.Album{}
	}

	mainArtist := track.Performer
	if mainArtist == nil {
		mainArtist = album.Artist
	}
	if mainArtist == nil {
		mainArtist = &qobuzapi.Artist{}
	}

	// The track record is handed back for the credits lookup with the
	// artist roles removed from its performers.
	t := *track
	var artists []string
	artists, t.Performers = splitArtists(mainArtist.Name, track.Performers)

	stream, err := m.api.GetFileURL(ctx, trackID, formatFor(tier))
	if err != nil {
		return nil, fmt.Errorf("failed to get stream for track %s: %w", trackID, err)
	}

	info := &metadata.TrackInfo{
		ID:          trackID,
		Name:        trackName(track),
		AlbumID:     album.ID.String(),
		Album:       metadata.WithVersion(album.Title, album.Version),
		Artists:     artists,
		ArtistID:    mainArtist.ID.String(),
		BitDepth:    stream.BitDepth,
		Bitrate:     bitrate(stream),
		SampleRate:  stream.SamplingRate,
		ReleaseYear: album.ReleaseYear(),
		Explicit:    track.ParentalWarning,
		CoverURL:    originalCover(album.Image),
		Tags:        trackTags(track, album),
		Codec:       codec(stream.FormatID),
		Duration:    track.Duration,

		CreditsExtra:  metadata.Kwargs{"data": metadata.Kwargs{trackID: &t}},
		DownloadExtra: metadata.Kwargs{"url": stream.URL, "title": strings.TrimSpace(track.Title)},
	}
	if !track.Streamable {
		info.Error = fmt.Sprintf("Track %q is not streamable!", track.Title)
	}

	return info, nil
}

// GetTrackDownload tells the host to fetch the resolved stream URL directly.
func (m *Module) GetTrackDownload(url string) *metadata.TrackDownloadInfo {
	return &metadata.TrackDownloadInfo{Method: metadata.DownloadURL, FileURL: url}
}

// GetTrackCredits groups the track's performers by role, in the order the
// roles first appear. It needs no user session.
func (m *Module) GetTrackCredits(ctx context.Context, trackID string, data metadata.Kwargs) ([]metadata.CreditsInfo, error) {
	track, err := m.track(ctx, trackID, data)
	if err != nil {
		return nil, err
	}

	var credits []metadata.CreditsInfo
	index := make(map[string]int)
	for _, c := range metadata.ParseCredits(track.Performers) {
		for _, role := range c.Roles {
			i, ok := index[role]
			if !ok {
				i = len(credits)
				index[role] = i
				credits = append(credits, metadata.CreditsInfo{Type: role})
			}
			credits[i].Names = append(credits[i].Names, c.Name)
		}
	}
	return credits, nil
}

// track returns the prefetched track for id, else fetches it.
func (m *Module) track(ctx context.Context, trackID string, data metadata.Kwargs) (*qobuzapi.Track, error) {
	switch t := data[trackID].(type) {
	case *qobuzapi.Track:
		return t, nil
	case qobuzapi.Track:
		return &t, nil
	}

	track, err := m.api.GetTrack(ctx, trackID)
	if err != nil {
		return nil, fmt.Errorf("failed to get track %s: %w", trackID, err)
	}
	return track, nil
}

// splitArtists returns the track's artists, led by the main artist, and the
// performers string with the artist roles taken out. Contributors left with
// no role are dropped from it. Duplicates are detected against the
// ASCII-folded main artist name.
func splitArtists(mainArtist, performers string) ([]string, string) {
	artists := []string{metadata.FoldASCII(mainArtist)}
	if performers == "" {
		artists[0] = mainArtist
		return artists, performers
	}

	var kept []metadata.Credit
	for _, c := range metadata.ParseCredits(performers) {
		for _, role := range artistRoles {
			i := slices.Index(c.Roles, role)
			if i < 0 {
				continue
			}
			if !slices.Contains(artists, c.Name) {
				artists = append(artists, c.Name)
			}
			c.Roles = slices.Delete(c.Roles, i, i+1)
		}
		if len(c.Roles) > 0 {
			kept = append(kept, c)
		}
	}

	artists[0] = mainArtist
	return artists, metadata.FormatCredits(kept)
}

// trackName is "<work> - <title> (<version>)", each part when present.
func trackName(t *qobuzapi.Track) string {
	name := metadata.WithVersion(t.Title, t.Version)
	if t.Work != "" {
		name = t.Work + " - " + name
	}
	return name
}

func trackTags(t *qobuzapi.Track, album *qobuzapi.Album) metadata.Tags {
	tags := metadata.Tags{
		ReleaseDate: album.ReleaseDateOriginal,
		TrackNumber: t.TrackNumber,
		TotalTracks: album.TracksCount,
		DiscNumber:  t.MediaNumber,
		TotalDiscs:  album.MediaCount,
		ISRC:        t.ISRC,
		UPC:         album.UPC,
		Copyright:   album.Copyright,
	}
	if album.Artist != nil {
		tags.AlbumArtist = album.Artist.Name
	}
	if t.Composer != nil {
		tags.Composer = t.Composer.Name
	}
	if album.Label != nil {
		tags.Label = album.Label.Name
	}
	if album.Genre != nil {
		tags.Genres = []string{album.Genre.Name}
	}
	return tags
}

// bitrate is 320 kbps for MP3 streams and the uncompressed PCM rate for FLAC.
// Streams without a format report 0.
func bitrate(s *qobuzapi.FileURL) int {
	switch {
	case isFLAC(s.FormatID):
		return int(s.SamplingRate*1000*float64(s.BitDepth)*2) / 1000
	case s.FormatID == 0:
		return 0
	}
	return 320
}

func codec(formatID int) metadata.Codec {
	switch {
	case isFLAC(formatID):
		return metadata.CodecFLAC
	case formatID == 0:
		return metadata.CodecNone
	}
	return metadata.CodecMP3
}

// originalCover turns a sized album image URL (".../abc_600.jpg") into the
// full-resolution one (".../abc_org.jpg").
func originalCover(img *qobuzapi.Image) string {
	large := img.Pick("large")
	if large == "" {
		return ""
	}
	base, _, _ := strings.Cut(large, "_")
	return base + "_org.jpg"
}
