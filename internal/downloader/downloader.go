package downloader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bascurtiz/orpheusdl-qobuz/internal/config"
	"github.com/bascurtiz/orpheusdl-qobuz/internal/logger"
	"github.com/bascurtiz/orpheusdl-qobuz/internal/lyrics"
	"github.com/bascurtiz/orpheusdl-qobuz/internal/metadata"
	"github.com/bascurtiz/orpheusdl-qobuz/pkg/utils"
)

// Job is one resolved track: its metadata and where to fetch the audio.
type Job struct {
	Info     metadata.TrackInfo
	Download metadata.TrackDownloadInfo
}

// LyricsFetcher looks up lyrics for a track.
type LyricsFetcher interface {
	Fetch(ctx context.Context, q lyrics.Query) (lyrics.Result, error)
}

// Downloader fetches resolved stream URLs to disk, tags the files and moves
// them into the output directory.
type Downloader struct {
	Config     config.Config
	Logger     *logger.Logger
	TmpDir     string
	Lyrics     LyricsFetcher
	OnProgress func() // Callback for progress updates

	httpClient *http.Client
}

// New creates a new Downloader instance
func New(cfg config.Config, log *logger.Logger, tmpDir string) *Downloader {
	d := &Downloader{
		Config:     cfg,
		Logger:     log,
		TmpDir:     tmpDir,
		httpClient: &http.Client{Timeout: 10 * time.Minute},
	}
	if cfg.EmbedLyrics {
		d.Lyrics = lyrics.NewClient()
	}
	return d
}

// DownloadSingle downloads one track and returns its final path. A track
// already present in the output directory is not fetched again.
func (d *Downloader) DownloadSingle(ctx context.Context, job Job) (string, error) {
	info := job.Info
	if info.Error != "" {
		return "", errors.New(info.Error)
	}
	if job.Download.Method != metadata.DownloadURL || job.Download.FileURL == "" {
		return "", fmt.Errorf("no stream url for track %s", info.ID)
	}

	name := metadata.TrackFileName(info)
	dst := filepath.Join(d.Config.OutputDir, metadata.AlbumDir(info), name)
	if utils.FileExists(dst) {
		d.Logger.Info("Already downloaded: %s", dst)
		return dst, nil
	}

	tmpPath := filepath.Join(d.TmpDir, info.ID+"-"+name)
	if err := d.fetchToFile(ctx, job.Download.FileURL, tmpPath); err != nil {
		os.Remove(tmpPath)
		if ctx.Err() != nil {
			return "", fmt.Errorf("download cancelled")
		}
		return "", err
	}

	d.tag(ctx, tmpPath, info)

	if err := utils.MoveFile(tmpPath, dst); err != nil {
		return "", err
	}
	return dst, nil
}

// tag writes tags, cover art and lyrics. Failures are logged and the file is
// kept untagged.
func (d *Downloader) tag(ctx context.Context, path string, info metadata.TrackInfo) {
	if err := metadata.WriteTags(path, info); err != nil {
		d.Logger.Warn("Could not tag %s: %v", info.Name, err)
		return
	}

	if d.Config.EmbedCover && info.CoverURL != "" {
		cover, err := d.fetchBytes(ctx, info.CoverURL)
		if err != nil {
			d.Logger.Debug("Cover fetch failed for %s: %v", info.Name, err)
		} else if err := metadata.WriteArtwork(path, cover); err != nil {
			d.Logger.Warn("Could not embed cover for %s: %v", info.Name, err)
		}
	}

	if d.Lyrics != nil {
		res, err := d.Lyrics.Fetch(ctx, lyrics.QueryFor(info))
		if err != nil {
			d.Logger.Debug("Lyrics lookup failed for %s: %v", info.Name, err)
		} else if err := metadata.WriteLyrics(path, res.Best()); err != nil {
			d.Logger.Warn("Could not embed lyrics for %s: %v", info.Name, err)
		}
	}
}

func (d *Downloader) fetchToFile(ctx context.Context, url, path string) error {
	resp, err := d.get(ctx, url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		return fmt.Errorf("failed to download stream: %w", err)
	}
	return f.Close()
}

func (d *Downloader) fetchBytes(ctx context.Context, url string) ([]byte, error) {
	resp, err := d.get(ctx, url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

func (d *Downloader) get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		resp.Body.Close()
		return nil, fmt.Errorf("%s returned %d: %s", url, resp.StatusCode, body)
	}
	return resp, nil
}

// DownloadStats contains statistics about the download operation
type DownloadStats struct {
	Total      int
	Successful int
	Failed     int
	Files      []string
}

// DownloadAll downloads all jobs in parallel using a worker pool
func (d *Downloader) DownloadAll(ctx context.Context, jobs []Job) (DownloadStats, error) {
	stats := DownloadStats{Total: len(jobs)}

	if len(jobs) == 0 {
		return stats, fmt.Errorf("no tracks to download")
	}

	workers := max(d.Config.ParallelJobs, 1)
	d.Logger.Info("=== Starting download (%d tracks, %d parallel) ===", len(jobs), workers)

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, workers)
	var mu sync.Mutex
	var failed []string
	files := make([]string, len(jobs))

	for i, job := range jobs {
		select {
		case <-ctx.Done():
			d.Logger.Warn("Downloads cancelled, waiting for active downloads to finish...")
			wg.Wait()
			stats.Failed = len(failed)
			stats.Successful = countNonEmpty(files)
			return stats, fmt.Errorf("downloads cancelled")
		default:
		}

		wg.Add(1)
		go func(idx int, j Job) {
			defer wg.Done()

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			d.Logger.Debug("Downloading [%d/%d]: %s", idx+1, len(jobs), j.Info.Name)

			path, err := d.DownloadSingle(ctx, j)
			if err != nil {
				if ctx.Err() == nil {
					d.Logger.Warn("Skipping %q: %v", j.Info.Name, err)
					mu.Lock()
					failed = append(failed, j.Info.ID)
					mu.Unlock()
				}
			} else {
				files[idx] = path
			}

			if d.OnProgress != nil {
				d.OnProgress()
			}
		}(i, job)
	}

	wg.Wait()

	stats.Failed = len(failed)
	stats.Successful = countNonEmpty(files)
	for _, f := range files {
		if f != "" {
			stats.Files = append(stats.Files, f)
		}
	}

	if len(failed) > 0 {
		d.Logger.Warn("%d tracks not downloaded", len(failed))
		d.Logger.Debug("Failed track IDs: %v", failed)

		if len(failed) == len(jobs) {
			return stats, fmt.Errorf("all %d tracks failed to download", len(jobs))
		}
	}

	d.Logger.Info("Download completed: %d successful, %d failed", stats.Successful, stats.Failed)
	return stats, nil
}

func countNonEmpty(s []string) int {
	n := 0
	for _, v := range s {
		if v != "" {
			n++
		}
	}
	return n
}
