package qobuz

import (
	"context"
	"fmt"
	"strconv"

	"github.com/bascurtiz/orpheusdl-qobuz/internal/metadata"
	"github.com/bascurtiz/orpheusdl-qobuz/internal/qobuzapi"
)

// Search looks up the catalog. When trackInfo carries an ISRC, that is
// searched first and the query is the fallback. Label searches are not
// supported by every catalog, so they yield no results instead of an error.
func (m *Module) Search(ctx context.Context, queryType metadata.DownloadType, query string, trackInfo *metadata.TrackInfo, limit int) ([]metadata.SearchResult, error) {
	if err := m.requireSession(ctx); err != nil {
		return nil, err
	}

	kind := queryType.String()

	var results *qobuzapi.SearchResults
	if trackInfo != nil && trackInfo.Tags.ISRC != "" {
		res, err := m.api.Search(ctx, kind, trackInfo.Tags.ISRC, limit)
		if err != nil {
			return nil, fmt.Errorf("qobuz isrc search failed: %w", err)
		}
		if hasItems(res, queryType) {
			results = res
		} else {
			m.log.Debug("Qobuz: no %s matches ISRC %s, searching %q", kind, trackInfo.Tags.ISRC, query)
		}
	}
	if results == nil {
		res, err := m.api.Search(ctx, kind, query, limit)
		if err != nil {
			if queryType == metadata.DownloadTypeLabel {
				m.log.Debug("Qobuz: label search unavailable: %v", err)
				return []metadata.SearchResult{}, nil
			}
			return nil, fmt.Errorf("qobuz search failed: %w", err)
		}
		results = res
	}

	switch queryType {
	case metadata.DownloadTypeTrack:
		return trackResults(results.Tracks), nil
	case metadata.DownloadTypeAlbum:
		return albumResults(results.Albums), nil
	case metadata.DownloadTypePlaylist:
		return playlistResults(results.Playlists), nil
	case metadata.DownloadTypeArtist:
		return artistResults(results.Artists), nil
	case metadata.DownloadTypeLabel:
		return labelResults(results.Labels), nil
	}
	return nil, fmt.Errorf("invalid query type %s", queryType)
}

func hasItems(r *qobuzapi.SearchResults, queryType metadata.DownloadType) bool {
	switch queryType {
	case metadata.DownloadTypeTrack:
		return r.Tracks != nil && len(r.Tracks.Items) > 0
	case metadata.DownloadTypeAlbum:
		return r.Albums != nil && len(r.Albums.Items) > 0
	case metadata.DownloadTypePlaylist:
		return r.Playlists != nil && len(r.Playlists.Items) > 0
	case metadata.DownloadTypeArtist:
		return r.Artists != nil && len(r.Artists.Items) > 0
	case metadata.DownloadTypeLabel:
		return r.Labels != nil && len(r.Labels.Items) > 0
	}
	return false
}

func samplingAdditional(rate *float64, depth *int) []string {
	if s := samplingInfo(rate, depth); s != "" {
		return []string{s}
	}
	return nil
}

func trackResults(page *qobuzapi.TrackPage) []metadata.SearchResult {
	results := []metadata.SearchResult{}
	if page == nil {
		return results
	}
	for i := range page.Items {
		t := page.Items[i]
		id := t.ID.String()

		artist := "Unknown Artist"
		switch {
		case t.Performer != nil && t.Performer.Name != "":
			artist = t.Performer.Name
		case t.Album != nil && t.Album.Artist != nil && t.Album.Artist.Name != "":
			artist = t.Album.Artist.Name
		}

		r := metadata.SearchResult{
			ResultID:   id,
			Name:       withSuffix(t.Title, t.Version),
			Artists:    []string{artist},
			Explicit:   t.ParentalWarning,
			Additional: samplingAdditional(t.MaximumSamplingRate, t.MaximumBitDepth),
			Duration:   t.Duration,
			PreviewURL: t.Preview(),
			Extra:      metadata.Kwargs{"data": metadata.Kwargs{id: &t}},
		}
		if t.Album != nil {
			r.Year = t.Album.ReleaseYear()
			r.ImageURL = t.Album.Image.Pick("small", "thumbnail", "large")
		}
		results = append(results, r)
	}
	return results
}

func albumResults(page *qobuzapi.AlbumPage) []metadata.SearchResult {
	results := []metadata.SearchResult{}
	if page == nil {
		return results
	}
	for i := range page.Items {
		a := &page.Items[i]
		r := metadata.SearchResult{
			ResultID:   a.ID.String(),
			Name:       withSuffix(a.DisplayName(), a.Version),
			Year:       a.ReleaseYear(),
			Explicit:   a.ParentalWarning,
			Additional: samplingAdditional(a.MaximumSamplingRate, a.MaximumBitDepth),
			Duration:   a.Duration,
			ImageURL:   a.Image.Pick("small", "thumbnail", "large"),
		}
		if a.Artist != nil {
			r.Artists = []string{a.Artist.Name}
		}
		results = append(results, r)
	}
	return results
}

// playlistResults skips empty playlists; their additional column is the
// track count.
func playlistResults(page *qobuzapi.PlaylistPage) []metadata.SearchResult {
	results := []metadata.SearchResult{}
	if page == nil {
		return results
	}
	for i := range page.Items {
		p := &page.Items[i]
		count := p.TrackCount()
		if count == 0 {
			continue
		}
		tracks := strconv.Itoa(count) + " tracks"
		if count == 1 {
			tracks = "1 track"
		}
		results = append(results, metadata.SearchResult{
			ResultID:   p.ID.String(),
			Name:       withSuffix(nameOrTitle(p.Name, p.Title), p.Version),
			Artists:    []string{p.Owner.Name},
			Year:       p.Created().Year(),
			Explicit:   p.ParentalWarning,
			Additional: []string{tracks},
			Duration:   p.Duration,
			ImageURL:   p.Cover(),
		})
	}
	return results
}

func artistResults(page *qobuzapi.ArtistPage) []metadata.SearchResult {
	results := []metadata.SearchResult{}
	if page == nil {
		return results
	}
	for _, a := range page.Items {
		results = append(results, metadata.SearchResult{
			ResultID:   a.ID.String(),
			Name:       withSuffix(nameOrTitle(a.Name, a.Title), a.Version),
			Explicit:   a.ParentalWarning,
			Additional: samplingAdditional(a.MaximumSamplingRate, a.MaximumBitDepth),
			ImageURL:   a.Image.Pick("small", "medium", "large"),
		})
	}
	return results
}

func labelResults(page *qobuzapi.LabelPage) []metadata.SearchResult {
	results := []metadata.SearchResult{}
	if page == nil {
		return results
	}
	for _, l := range page.Items {
		results = append(results, metadata.SearchResult{
			ResultID:   l.ID.String(),
			Name:       withSuffix(nameOrTitle(l.Name, l.Title), l.Version),
			Artists:    []string{},
			Explicit:   l.ParentalWarning,
			Additional: samplingAdditional(l.MaximumSamplingRate, l.MaximumBitDepth),
			ImageURL:   l.Image.Pick("small", "medium", "large"),
		})
	}
	return results
}

func nameOrTitle(name, title string) string {
	if name != "" {
		return name
	}
	return title
}

func withSuffix(name, version string) string {
	if version != "" {
		name += " (" + version + ")"
	}
	return name
}
