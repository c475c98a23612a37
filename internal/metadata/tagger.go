package metadata

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"go.senan.xyz/taglib"
)

// WriteTags writes the given TrackInfo metadata to an audio file.
func WriteTags(path string, info TrackInfo) error {
	tags := make(map[string][]string)

	set := func(key, value string) {
		if value != "" {
			tags[key] = []string{value}
		}
	}
	setInt := func(key string, value int) {
		if value > 0 {
			tags[key] = []string{strconv.Itoa(value)}
		}
	}

	set(taglib.Title, info.Name)
	if len(info.Artists) > 0 {
		tags[taglib.Artist] = info.Artists
	}
	set(taglib.Album, info.Album)
	set(taglib.AlbumArtist, info.Tags.AlbumArtist)
	set(taglib.Composer, info.Tags.Composer)
	setInt(taglib.TrackNumber, info.Tags.TrackNumber)
	setInt(taglib.DiscNumber, info.Tags.DiscNumber)
	if info.Tags.ReleaseDate != "" {
		set(taglib.Date, info.Tags.ReleaseDate)
	} else {
		setInt(taglib.Date, info.ReleaseYear)
	}
	if len(info.Tags.Genres) > 0 {
		tags[taglib.Genre] = info.Tags.Genres
	}
	set(taglib.ISRC, info.Tags.ISRC)
	set(taglib.Barcode, info.Tags.UPC)
	set(taglib.Label, info.Tags.Label)
	set(taglib.Copyright, info.Tags.Copyright)

	if err := taglib.WriteTags(path, tags, 0); err != nil {
		return fmt.Errorf("failed to write tags to %s: %w", path, err)
	}
	return nil
}

// WriteLyrics stores lyrics in the file's LYRICS tag, keeping other tags.
func WriteLyrics(path, lyrics string) error {
	if lyrics == "" {
		return nil
	}
	if err := taglib.WriteTags(path, map[string][]string{taglib.Lyrics: {lyrics}}, 0); err != nil {
		return fmt.Errorf("failed to write lyrics to %s: %w", path, err)
	}
	return nil
}

// WriteArtwork embeds artwork image data into an audio file.
func WriteArtwork(path string, imageData []byte) error {
	if len(imageData) == 0 {
		return nil
	}
	if err := taglib.WriteImage(path, imageData); err != nil {
		return fmt.Errorf("failed to write artwork to %s: %w", path, err)
	}
	return nil
}

// TrackFileName builds "NN. Artist - Title.ext" for a track, safe for use as
// a path component.
func TrackFileName(info TrackInfo) string {
	artist := "Unknown Artist"
	if len(info.Artists) > 0 {
		artist = info.Artists[0]
	}
	name := fmt.Sprintf("%s - %s", artist, info.Name)
	if info.Tags.TrackNumber > 0 {
		name = fmt.Sprintf("%02d. %s", info.Tags.TrackNumber, name)
	}
	return sanitizePath(name) + info.Codec.Extension()
}

// AlbumDir returns "Album Artist/Album" for organizing downloads.
func AlbumDir(info TrackInfo) string {
	artist := info.Tags.AlbumArtist
	if artist == "" && len(info.Artists) > 0 {
		artist = info.Artists[0]
	}
	if artist == "" {
		artist = "Unknown Artist"
	}
	album := info.Album
	if album == "" {
		album = "Unknown Album"
	}
	return filepath.Join(sanitizePath(artist), sanitizePath(album))
}

// sanitizePath removes or replaces characters that are problematic in file paths.
func sanitizePath(s string) string {
	s = strings.TrimSpace(s)
	replacer := strings.NewReplacer(
		"/", "_",
		"\\", "_",
		":", "_",
		"*", "_",
		"?", "_",
		"\"", "_",
		"<", "_",
		">", "_",
		"|", "_",
	)
	return replacer.Replace(s)
}
