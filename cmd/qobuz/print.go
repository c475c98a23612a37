package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/bascurtiz/orpheusdl-qobuz/internal/metadata"
	"github.com/bascurtiz/orpheusdl-qobuz/internal/pipeline"
	"github.com/bascurtiz/orpheusdl-qobuz/internal/qobuzapi"
)

// printLookup fetches the record behind a parsed URL and prints it.
func printLookup(ctx context.Context, w io.Writer, src pipeline.Source, kind metadata.DownloadType, id string) error {
	switch kind {
	case metadata.DownloadTypeTrack:
		t, err := src.GetTrackInfo(ctx, id, src.Tier(), nil)
		if err != nil {
			return err
		}
		printTrack(w, t)

	case metadata.DownloadTypeAlbum:
		a, err := src.GetAlbumInfo(ctx, id)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "Album:    %s\n", a.Name)
		fmt.Fprintf(w, "Artist:   %s\n", a.Artist)
		fmt.Fprintf(w, "Year:     %d\n", a.ReleaseYear)
		if a.Quality != "" {
			fmt.Fprintf(w, "Quality:  %s\n", a.Quality)
		}
		if a.UPC != "" {
			fmt.Fprintf(w, "UPC:      %s\n", a.UPC)
		}
		if a.BookletURL != "" {
			fmt.Fprintf(w, "Booklet:  %s\n", a.BookletURL)
		}
		fmt.Fprintf(w, "Duration: %s\n", formatSeconds(a.Duration))
		fmt.Fprintf(w, "Tracks:   %d\n", len(a.Tracks))
		printTrackList(w, a.Tracks, a.TrackExtra.Data())

	case metadata.DownloadTypePlaylist:
		p, err := src.GetPlaylistInfo(ctx, id)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "Playlist: %s\n", p.Name)
		fmt.Fprintf(w, "Creator:  %s\n", p.Creator)
		fmt.Fprintf(w, "Year:     %d\n", p.ReleaseYear)
		fmt.Fprintf(w, "Duration: %s\n", formatSeconds(p.Duration))
		fmt.Fprintf(w, "Tracks:   %d\n", len(p.Tracks))
		printTrackList(w, p.Tracks, p.TrackExtra.Data())

	case metadata.DownloadTypeArtist, metadata.DownloadTypeLabel:
		var a *metadata.ArtistInfo
		var err error
		if kind == metadata.DownloadTypeArtist {
			a, err = src.GetArtistInfo(ctx, id, false)
		} else {
			a, err = src.GetLabelInfo(ctx, id, false)
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s %s (%d albums)\n", kind, a.Name, len(a.Albums))
		for _, album := range a.Albums {
			if album.Name == "" {
				fmt.Fprintf(w, "  %s\n", album.ID)
				continue
			}
			line := fmt.Sprintf("  %s  %s - %s", album.ID, album.Artist, album.Name)
			if album.ReleaseYear > 0 {
				line += fmt.Sprintf(" (%d)", album.ReleaseYear)
			}
			if album.Additional != "" {
				line += " [" + album.Additional + "]"
			}
			fmt.Fprintln(w, line)
		}

	default:
		return fmt.Errorf("unsupported download type %s", kind)
	}
	return nil
}

func printTrack(w io.Writer, t *metadata.TrackInfo) {
	fmt.Fprintf(w, "Track:    %s\n", t.Name)
	fmt.Fprintf(w, "Artists:  %s\n", strings.Join(t.Artists, ", "))
	fmt.Fprintf(w, "Album:    %s\n", t.Album)
	fmt.Fprintf(w, "Year:     %d\n", t.ReleaseYear)
	fmt.Fprintf(w, "Duration: %s\n", formatSeconds(t.Duration))
	if t.Tags.ISRC != "" {
		fmt.Fprintf(w, "ISRC:     %s\n", t.Tags.ISRC)
	}
	fmt.Fprintf(w, "Format:   %s %dbit %skHz", t.Codec, t.BitDepth, metadata.FormatRate(t.SampleRate))
	if t.Bitrate > 0 {
		fmt.Fprintf(w, " (%d kbps)", t.Bitrate)
	}
	fmt.Fprintln(w)
	if t.Explicit {
		fmt.Fprintln(w, "Explicit: yes")
	}
	if t.Error != "" {
		fmt.Fprintf(w, "Error:    %s\n", t.Error)
	}
}

// printTrackList prints the tracks of a collection. Titles come from the
// prefetched track records when the module supplied them.
func printTrackList(w io.Writer, ids []string, data metadata.Kwargs) {
	for i, id := range ids {
		title := ""
		if t, ok := data[id].(*qobuzapi.Track); ok {
			title = metadata.WithVersion(t.Title, t.Version)
		}
		if title == "" {
			fmt.Fprintf(w, "  %3d. %s\n", i+1, id)
		} else {
			fmt.Fprintf(w, "  %3d. %s  %s\n", i+1, id, title)
		}
	}
}

func printSearchResults(w io.Writer, kind metadata.DownloadType, results []metadata.SearchResult) {
	if len(results) == 0 {
		fmt.Fprintf(w, "No %s results.\n", kind)
		return
	}
	for i, r := range results {
		line := fmt.Sprintf("%2d. [%s] %s", i+1, r.ResultID, r.Name)
		if len(r.Artists) > 0 {
			line += " - " + strings.Join(r.Artists, ", ")
		}
		if r.Year > 0 {
			line += fmt.Sprintf(" (%d)", r.Year)
		}
		if r.Explicit {
			line += " [E]"
		}
		if len(r.Additional) > 0 {
			line += " | " + strings.Join(r.Additional, " | ")
		}
		if r.Duration > 0 {
			line += " | " + formatSeconds(r.Duration)
		}
		fmt.Fprintln(w, line)
	}
}

func printCredits(w io.Writer, credits []metadata.CreditsInfo) {
	if len(credits) == 0 {
		fmt.Fprintln(w, "No credits.")
		return
	}
	for _, c := range credits {
		fmt.Fprintf(w, "%s: %s\n", c.Type, strings.Join(c.Names, ", "))
	}
}

func formatSeconds(s int) string {
	if s >= 3600 {
		return fmt.Sprintf("%d:%02d:%02d", s/3600, s%3600/60, s%60)
	}
	return fmt.Sprintf("%d:%02d", s/60, s%60)
}
