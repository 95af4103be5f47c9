package store

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// cleanText trims and NFC-normalizes user-entered text. Site, worker
// and vendor names arrive from on-screen keyboards in several scripts;
// normalizing once at the write boundary keeps equality checks and
// report output stable.
func cleanText(s string) string {
	return strings.TrimSpace(norm.NFC.String(s))
}
