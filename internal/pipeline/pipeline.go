package pipeline

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/bascurtiz/orpheusdl-qobuz/internal/config"
	"github.com/bascurtiz/orpheusdl-qobuz/internal/downloader"
	"github.com/bascurtiz/orpheusdl-qobuz/internal/logger"
	"github.com/bascurtiz/orpheusdl-qobuz/internal/metadata"
)

// Source is the service module the pipeline drives.
type Source interface {
	Tier() metadata.QualityTier
	GetTrackInfo(ctx context.Context, trackID string, tier metadata.QualityTier, data metadata.Kwargs) (*metadata.TrackInfo, error)
	GetTrackDownload(url string) *metadata.TrackDownloadInfo
	GetAlbumInfo(ctx context.Context, albumID string) (*metadata.AlbumInfo, error)
	GetPlaylistInfo(ctx context.Context, playlistID string) (*metadata.PlaylistInfo, error)
	GetArtistInfo(ctx context.Context, artistID string, getCredited bool) (*metadata.ArtistInfo, error)
	GetLabelInfo(ctx context.Context, labelID string, getCredited bool) (*metadata.ArtistInfo, error)
}

type Hooks struct {
	OnTracksResolved func(total int)
	OnProgress       func()
	OnWarning        func(msg string)
}

// Run executes the full download pipeline: resolve tracks → download → tag → move.
func Run(ctx context.Context, cfg config.Config, log *logger.Logger, src Source, tmpDir string, kind metadata.DownloadType, id string, hooks Hooks) (downloader.DownloadStats, error) {
	jobs, err := Resolve(ctx, log, src, kind, id)
	if err != nil {
		return downloader.DownloadStats{}, err
	}
	if len(jobs) == 0 {
		return downloader.DownloadStats{}, fmt.Errorf("no tracks found for %s %s", kind, id)
	}

	if hooks.OnTracksResolved != nil {
		hooks.OnTracksResolved(len(jobs))
	}

	dl := downloader.New(cfg, log, tmpDir)
	if hooks.OnProgress != nil {
		dl.OnProgress = hooks.OnProgress
	}

	stats, err := dl.DownloadAll(ctx, jobs)
	if err != nil {
		return stats, fmt.Errorf("download failed: %w", err)
	}

	if stats.Failed > 0 {
		msg := fmt.Sprintf("%d of %d tracks failed to download (not streamable or unavailable)", stats.Failed, stats.Total)
		log.Warn(msg)
		if hooks.OnWarning != nil {
			hooks.OnWarning(msg)
		}
	}

	log.Info("Saved %d tracks to %s", stats.Successful, cfg.OutputDir)
	return stats, nil
}

// Resolve turns a link target into download jobs. Artists and labels expand
// to every album they list. A track that cannot be looked up is skipped; a
// collection that cannot be looked up is an error unless it is one album of
// an artist or label.
func Resolve(ctx context.Context, log *logger.Logger, src Source, kind metadata.DownloadType, id string) ([]downloader.Job, error) {
	switch kind {
	case metadata.DownloadTypeTrack:
		return resolveTracks(ctx, log, src, []string{id}, nil), nil

	case metadata.DownloadTypeAlbum:
		return resolveAlbum(ctx, log, src, id)

	case metadata.DownloadTypePlaylist:
		playlist, err := src.GetPlaylistInfo(ctx, id)
		if err != nil {
			return nil, err
		}
		log.Info("=== Playlist: %s by %s (%d tracks) ===", playlist.Name, playlist.Creator, len(playlist.Tracks))
		return resolveTracks(ctx, log, src, playlist.Tracks, playlist.TrackExtra.Data()), nil

	case metadata.DownloadTypeArtist, metadata.DownloadTypeLabel:
		var owner *metadata.ArtistInfo
		var err error
		if kind == metadata.DownloadTypeArtist {
			owner, err = src.GetArtistInfo(ctx, id, false)
		} else {
			owner, err = src.GetLabelInfo(ctx, id, false)
		}
		if err != nil {
			return nil, err
		}

		albumIDs := owner.AlbumIDs()
		log.Info("=== %s: %s (%d albums) ===", kind, owner.Name, len(albumIDs))
		return resolveAlbums(ctx, log, src, albumIDs)
	}

	return nil, fmt.Errorf("unsupported download type %s", kind)
}

// albumLookupConcurrency bounds the album lookups in flight when an artist
// or label expands to its discography.
const albumLookupConcurrency = 4

// resolveAlbums looks albums up concurrently and returns their jobs in
// listing order. Albums that fail are skipped with a warning.
func resolveAlbums(ctx context.Context, log *logger.Logger, src Source, albumIDs []string) ([]downloader.Job, error) {
	perAlbum := make([][]downloader.Job, len(albumIDs))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(albumLookupConcurrency)
	for i, albumID := range albumIDs {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			jobs, err := resolveAlbum(gCtx, log, src, albumID)
			if err != nil {
				log.Warn("Skipping album %s: %v", albumID, err)
				return nil
			}
			perAlbum[i] = jobs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var jobs []downloader.Job
	for _, albumJobs := range perAlbum {
		jobs = append(jobs, albumJobs...)
	}
	return jobs, nil
}

func resolveAlbum(ctx context.Context, log *logger.Logger, src Source, albumID string) ([]downloader.Job, error) {
	album, err := src.GetAlbumInfo(ctx, albumID)
	if err != nil {
		return nil, err
	}
	log.Info("=== Album: %s by %s (%d tracks) ===", album.Name, album.Artist, len(album.Tracks))
	return resolveTracks(ctx, log, src, album.Tracks, album.TrackExtra.Data()), nil
}

func resolveTracks(ctx context.Context, log *logger.Logger, src Source, ids []string, data metadata.Kwargs) []downloader.Job {
	jobs := make([]downloader.Job, 0, len(ids))
	for _, id := range ids {
		if ctx.Err() != nil {
			break
		}

		info, err := src.GetTrackInfo(ctx, id, src.Tier(), data)
		if err != nil {
			log.Warn("Skipping track %s: %v", id, err)
			continue
		}

		url, _ := info.DownloadExtra["url"].(string)
		jobs = append(jobs, downloader.Job{Info: *info, Download: *src.GetTrackDownload(url)})
		log.Debug("Resolved track %s: %s", id, info.Name)
	}
	return jobs
}
