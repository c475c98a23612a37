package qobuz

import (
	"context"
	"fmt"

	"github.com/bascurtiz/orpheusdl-qobuz/internal/metadata"
	"github.com/bascurtiz/orpheusdl-qobuz/internal/qobuzapi"
)

// GetPlaylistInfo fetches a playlist and all of its tracks, one page of
// qobuzapi.MaxPageSize at a time.
func (m *Module) GetPlaylistInfo(ctx context.Context, playlistID string) (*metadata.PlaylistInfo, error) {
	if err := m.EnsureCredentials(ctx); err != nil {
		return nil, err
	}

	playlist, err := m.api.GetPlaylist(ctx, playlistID, qobuzapi.MaxPageSize, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to get playlist %s: %w", playlistID, err)
	}

	var tracks []string
	extra := make(metadata.Kwargs)
	add := func(items []qobuzapi.Track) {
		for i := range items {
			track := items[i]
			id := track.ID.String()
			tracks = append(tracks, id)
			extra[id] = &track
		}
	}

	total := 0
	if playlist.Tracks != nil {
		add(playlist.Tracks.Items)
		total = playlist.Tracks.Total
	}
	if total < len(tracks) {
		total = len(tracks)
	}

	for offset := len(tracks); offset < total; {
		m.log.Debug("Qobuz: fetching playlist %s tracks %d-%d of %d", playlistID, offset+1, min(offset+qobuzapi.MaxPageSize, total), total)
		page, err := m.api.GetPlaylist(ctx, playlistID, qobuzapi.MaxPageSize, offset)
		if err != nil {
			return nil, fmt.Errorf("failed to get playlist %s at offset %d: %w", playlistID, offset, err)
		}
		if page.Tracks == nil || len(page.Tracks.Items) == 0 {
			break
		}
		add(page.Tracks.Items)
		offset += len(page.Tracks.Items)
	}

	return &metadata.PlaylistInfo{
		Name:        playlist.Name,
		Creator:     playlist.Owner.Name,
		CreatorID:   playlist.Owner.ID.String(),
		ReleaseYear: playlist.Created().Year(),
		Description: playlist.Description,
		Duration:    playlist.Duration,
		Tracks:      tracks,
		TrackExtra:  metadata.Kwargs{"data": extra},
	}, nil
}
