package qobuz

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/bascurtiz/orpheusdl-qobuz/internal/metadata"
)

// ErrUnsupportedURL is returned by ParseURL for links it cannot map to a
// download type.
var ErrUnsupportedURL = errors.New("unsupported qobuz url")

// ParseURL extracts the download type and ID from a Qobuz link:
//
//	https://open.qobuz.com/track/52151405
//	https://play.qobuz.com/album/0060254735180
//	https://www.qobuz.com/us-en/album/some-title/0060254735180
//	https://www.qobuz.com/fr-fr/interpreter/some-artist/36819
func ParseURL(raw string) (metadata.DownloadType, string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return 0, "", fmt.Errorf("%w: %v", ErrUnsupportedURL, err)
	}

	host := strings.ToLower(u.Hostname())
	if host != "qobuz.com" && !strings.HasSuffix(host, "."+Information.NetLocationConstant+".com") {
		return 0, "", fmt.Errorf("%w: %s is not a qobuz host", ErrUnsupportedURL, raw)
	}

	var parts []string
	for _, p := range strings.Split(u.Path, "/") {
		if p != "" {
			parts = append(parts, p)
		}
	}

	for i, p := range parts {
		dt, ok := Information.URLConstants[strings.ToLower(p)]
		if !ok || i == len(parts)-1 {
			continue
		}
		return dt, parts[len(parts)-1], nil
	}
	return 0, "", fmt.Errorf("%w: %s", ErrUnsupportedURL, raw)
}
