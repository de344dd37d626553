// Package cache resolves the on-disk paths for cached feed downloads,
// keeping the sanitization rule in one place rather than inlined at every
// call site that joins a feed name onto the cache directory.
package cache

import (
	"path/filepath"
	"strings"
)

// FeedPath returns the stable cache file path for a feed's dataset dump.
// Stable: the same fileName always maps to the same path, so a re-run of a
// sweep finds the file it wrote last time. fileName is sanitized so a feed
// descriptor can never be coerced into writing outside cacheDir.
func FeedPath(cacheDir, fileName string) string {
	return filepath.Join(cacheDir, sanitizeID(fileName))
}

func sanitizeID(id string) string {
	s := strings.ReplaceAll(id, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, "\x00", "_")
	if s == "" {
		s = "unknown"
	}
	return s
}
