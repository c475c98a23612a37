package qobuz

import (
	"context"
	"fmt"

	"github.com/bascurtiz/orpheusdl-qobuz/internal/metadata"
	"github.com/bascurtiz/orpheusdl-qobuz/internal/qobuzapi"
)

// GetArtistInfo fetches an artist and summaries of its albums for display.
// Downloading only needs the summary IDs. Qobuz does not separate credited
// albums, so getCredited has no effect.
func (m *Module) GetArtistInfo(ctx context.Context, artistID string, getCredited bool) (*metadata.ArtistInfo, error) {
	if err := m.EnsureCredentials(ctx); err != nil {
		return nil, err
	}

	artist, err := m.api.GetArtist(ctx, artistID)
	if err != nil {
		return nil, fmt.Errorf("failed to get artist %s: %w", artistID, err)
	}

	return &metadata.ArtistInfo{
		Name:   artist.Name,
		Albums: albumSummaries(artist.Albums, artist.Name),
	}, nil
}

// GetLabelInfo fetches a label. It has the same shape as an artist so the
// host downloads it the same way.
func (m *Module) GetLabelInfo(ctx context.Context, labelID string, getCredited bool) (*metadata.ArtistInfo, error) {
	if err := m.EnsureCredentials(ctx); err != nil {
		return nil, err
	}

	label, err := m.api.GetLabel(ctx, labelID)
	if err != nil {
		return nil, fmt.Errorf("failed to get label %s: %w", labelID, err)
	}

	name := label.Name
	if name == "" {
		name = "Unknown Label"
	}

	return &metadata.ArtistInfo{
		Name:     name,
		ArtistID: labelID,
		Albums:   albumSummaries(label.Albums, name),
	}, nil
}

// albumSummaries maps an album listing. Albums without an artist are
// attributed to owner. Entries that are not objects become ID-only summaries.
func albumSummaries(list *qobuzapi.AlbumList, owner string) []metadata.AlbumSummary {
	if list == nil {
		return nil
	}

	out := make([]metadata.AlbumSummary, 0, len(list.Items))
	for _, item := range list.Items {
		if item.Album == nil {
			out = append(out, metadata.AlbumSummary{ID: item.RawID})
			continue
		}
		out = append(out, albumSummary(item.Album, owner))
	}
	return out
}

func albumSummary(a *qobuzapi.Album, owner string) metadata.AlbumSummary {
	name := a.DisplayName()
	if name == "" {
		name = "Unknown Album"
	}
	if a.Version != "" {
		name += " (" + a.Version + ")"
	}

	artist := owner
	if a.Artist != nil && a.Artist.Name != "" {
		artist = a.Artist.Name
	}

	return metadata.AlbumSummary{
		ID:          a.ID.String(),
		Name:        name,
		Artist:      artist,
		ReleaseYear: a.ReleaseYear(),
		CoverURL:    a.Image.Pick("small", "thumbnail", "large"),
		Duration:    a.Duration,
		Additional:  samplingInfo(a.MaximumSamplingRate, a.MaximumBitDepth),
	}
}

// samplingInfo renders "96kHz/24bit", or "96kHz" without a bit depth. Empty
// when the sampling rate is unknown.
func samplingInfo(rate *float64, depth *int) string {
	if rate == nil || *rate == 0 {
		return ""
	}
	if depth != nil && *depth != 0 {
		return fmt.Sprintf("%skHz/%dbit", metadata.FormatRate(*rate), *depth)
	}
	return metadata.FormatRate(*rate) + "kHz"
}
