package qobuz

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/bascurtiz/orpheusdl-qobuz/internal/metadata"
	"github.com/bascurtiz/orpheusdl-qobuz/internal/qobuzapi"
)

// GetAlbumInfo fetches an album. Its tracks are returned as IDs, with the
// track records in TrackExtra so GetTrackInfo needs no extra request.
func (m *Module) GetAlbumInfo(ctx context.Context, albumID string) (*metadata.AlbumInfo, error) {
	if err := m.EnsureCredentials(ctx); err != nil {
		return nil, err
	}

	album, err := m.api.GetAlbum(ctx, albumID)
	if err != nil {
		return nil, fmt.Errorf("failed to get album %s: %w", albumID, err)
	}

	var items []qobuzapi.Track
	if album.Tracks != nil {
		items = album.Tracks.Items
	}
	// Tracks point back at the album without its own track list.
	bare := *album
	bare.Tracks = nil

	tracks := make([]string, 0, len(items))
	extra := make(metadata.Kwargs, len(items))
	for i := range items {
		track := items[i]
		track.Album = &bare
		id := track.ID.String()
		tracks = append(tracks, id)
		extra[id] = &track
	}

	info := &metadata.AlbumInfo{
		Name:                metadata.WithVersion(album.Title, album.Version),
		Tracks:              tracks,
		ReleaseYear:         album.ReleaseYear(),
		Explicit:            album.ParentalWarning,
		Quality:             m.albumQuality(album),
		Description:         album.Description,
		CoverURL:            originalCover(album.Image),
		AllTrackCoverJPGURL: album.Image.Pick("large"),
		UPC:                 album.UPC,
		Duration:            album.Duration,
		TrackExtra:          metadata.Kwargs{"data": extra},
	}
	if album.Artist != nil {
		info.Artist = album.Artist.Name
		info.ArtistID = album.Artist.ID.String()
	}
	if len(album.Goodies) > 0 {
		info.BookletURL = album.Goodies[0].URL
	}

	return info, nil
}

// albumQuality renders quality_format for the album at the module's tier.
// Hi-res figures are only claimed when the tier asks for hi-res and the album
// streams it; everything else is CD quality.
func (m *Module) albumQuality(album *qobuzapi.Album) string {
	if m.qualityFormat == "" {
		return ""
	}

	bitDepth, sampleRate := 16, 44.1
	if formatFor(m.tier) == formatHiRes192 && album.HiresStreamable {
		bitDepth = 24
		if album.MaximumSamplingRate != nil {
			sampleRate = *album.MaximumSamplingRate
		}
	}

	return strings.NewReplacer(
		"{sample_rate}", metadata.FormatRate(sampleRate),
		"{bit_depth}", strconv.Itoa(bitDepth),
	).Replace(m.qualityFormat)
}
