package upload

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var unsafeKeyChars = regexp.MustCompile(`[^A-Za-z0-9.-]`)

// SanitizeFilename replaces every character outside [A-Za-z0-9.-] with an
// underscore so the derived key is safe for any storage backend.
func SanitizeFilename(name string) string {
	return unsafeKeyChars.ReplaceAllString(name, "_")
}

// ObjectKey derives the destination key for an upload:
// category/assetID/<unix-millis>_<sanitized-name>. The timestamp prefix
// keeps two uploads of the same file from colliding while the asset id
// keeps the object traceable back to its record.
func ObjectKey(category, assetID, filename string, ts time.Time) string {
	return fmt.Sprintf("%s/%s/%d_%s", category, assetID, ts.UnixMilli(), SanitizeFilename(filename))
}

// keyFromURL rebuilds the storage key of a previously uploaded photo from
// its reference URL: the trailing path segment, stripped of any query
// string, slotted back under category/assetID.
func keyFromURL(url, category, assetID string) string {
	trimmed := url
	if i := strings.IndexByte(trimmed, '?'); i >= 0 {
		trimmed = trimmed[:i]
	}
	if i := strings.LastIndexByte(trimmed, '/'); i >= 0 {
		trimmed = trimmed[i+1:]
	}
	return fmt.Sprintf("%s/%s/%s", category, assetID, trimmed)
}
