package metadata

import (
	"fmt"
	"strings"
)

// QualityTier is the host's quality preference, independent of any service.
type QualityTier int

const (
	QualityMinimum QualityTier = iota
	QualityLow
	QualityMedium
	QualityHigh
	QualityLossless
	QualityHiFi
)

var qualityNames = map[QualityTier]string{
	QualityMinimum:  "minimum",
	QualityLow:      "low",
	QualityMedium:   "medium",
	QualityHigh:     "high",
	QualityLossless: "lossless",
	QualityHiFi:     "hifi",
}

func (q QualityTier) String() string {
	if name, ok := qualityNames[q]; ok {
		return name
	}
	return fmt.Sprintf("QualityTier(%d)", int(q))
}

// ParseQualityTier accepts the tier name in any case ("HIFI", "lossless").
func ParseQualityTier(s string) (QualityTier, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for tier, name := range qualityNames {
		if name == s {
			return tier, nil
		}
	}
	return 0, fmt.Errorf("unknown quality tier %q, valid tiers: minimum, low, medium, high, lossless, hifi", s)
}

// Codec is the audio codec of a stream.
type Codec string

const (
	CodecNone Codec = ""
	CodecFLAC Codec = "flac"
	CodecMP3  Codec = "mp3"
)

// Extension returns the file extension for the codec, including the dot.
func (c Codec) Extension() string {
	switch c {
	case CodecFLAC:
		return ".flac"
	case CodecMP3:
		return ".mp3"
	}
	return ""
}

// DownloadType is the kind of object a URL or search refers to.
type DownloadType int

const (
	DownloadTypeTrack DownloadType = iota
	DownloadTypeAlbum
	DownloadTypePlaylist
	DownloadTypeArtist
	DownloadTypeLabel
)

var downloadTypeNames = []string{"track", "album", "playlist", "artist", "label"}

func (d DownloadType) String() string {
	if int(d) >= 0 && int(d) < len(downloadTypeNames) {
		return downloadTypeNames[d]
	}
	return fmt.Sprintf("DownloadType(%d)", int(d))
}

// ParseDownloadType maps "track", "albums", "Artist", ... to a DownloadType.
func ParseDownloadType(s string) (DownloadType, error) {
	s = strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), "s")
	for i, name := range downloadTypeNames {
		if name == s {
			return DownloadType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown download type %q", s)
}

// DownloadMethod is how the host obtains the audio bytes.
type DownloadMethod int

const (
	DownloadURL DownloadMethod = iota
)

// ModuleModes is the set of features a module supports.
type ModuleModes uint

const (
	ModeDownload ModuleModes = 1 << iota
	ModeCredits
	ModeLyrics
	ModeCovers
)

func (m ModuleModes) Has(mode ModuleModes) bool { return m&mode == mode }
