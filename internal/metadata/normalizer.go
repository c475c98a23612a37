package metadata

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// FoldASCII decomposes s (NFKD) and drops everything outside ASCII, so
// "Beyoncé" becomes "Beyonce". Characters with no ASCII decomposition vanish.
func FoldASCII(s string) string {
	var b strings.Builder
	for _, r := range norm.NFKD.String(s) {
		if r < unicode.MaxASCII+1 {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// WithVersion right-trims title and appends " (version)" when version is set.
func WithVersion(title, version string) string {
	title = strings.TrimRightFunc(title, unicode.IsSpace)
	if version != "" {
		title += " (" + version + ")"
	}
	return title
}

// Credit is one contributor entry of a performers string.
type Credit struct {
	Name  string
	Roles []string
}

// ParseCredits splits a performers string of the form
// "Name, Role1, Role2 - Name2, Role" into its entries, in order.
func ParseCredits(performers string) []Credit {
	if performers == "" {
		return nil
	}
	var credits []Credit
	for _, entry := range strings.Split(performers, " - ") {
		parts := strings.Split(entry, ", ")
		credits = append(credits, Credit{Name: parts[0], Roles: parts[1:]})
	}
	return credits
}

// FormatCredits is the inverse of ParseCredits.
func FormatCredits(credits []Credit) string {
	entries := make([]string, 0, len(credits))
	for _, c := range credits {
		entries = append(entries, strings.Join(append([]string{c.Name}, c.Roles...), ", "))
	}
	return strings.Join(entries, " - ")
}

// FormatRate renders a sampling rate the way the service shows it: 44.1, 96,
// 192.
func FormatRate(rate float64) string {
	return strconv.FormatFloat(rate, 'f', -1, 64)
}
