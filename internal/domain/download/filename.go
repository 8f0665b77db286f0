// Package download derives safe, collision-free download destinations.
package download

import (
	"fmt"
	"mime"
	"net/url"
	"path/filepath"
	"strings"
	"time"
)

const (
	// DefaultFilename is used when no valid filename can be determined.
	DefaultFilename = "download"

	// maxProbe bounds the unique-name search. Unreachable for any
	// realistic downloads directory; past it a timestamp suffix is used.
	maxProbe = 100000
)

// SanitizeFilename sanitizes a filename to prevent path traversal attacks.
// It extracts only the base name and handles edge cases like "." or "..".
func SanitizeFilename(name string) string {
	// filepath.Base only handles the OS-native separator, so normalize
	// Windows-style separators first.
	name = strings.ReplaceAll(name, "\\", "/")

	clean := filepath.Base(name)
	if clean == "." || clean == ".." || clean == "" || clean == "/" {
		return DefaultFilename
	}

	return clean
}

// ExtractFilenameFromURI extracts the filename from a URI's trailing path
// segment, with any query string stripped. Returns DefaultFilename when
// the URI carries no usable segment.
func ExtractFilenameFromURI(uri string) string {
	if uri == "" {
		return DefaultFilename
	}

	parsed, err := url.Parse(uri)
	if err != nil {
		// Fall back to treating as plain path, minus any query string.
		trimmed, _, _ := strings.Cut(uri, "?")
		return extractFromPath(trimmed)
	}

	return extractFromPath(parsed.Path)
}

// ExtractFilenameFromDestination extracts the filename from a file:// URI
// or a plain path, as reported by the embedded browser's suggested
// destination. The result is sanitized like any other untrusted name.
func ExtractFilenameFromDestination(dest string) string {
	return SanitizeFilename(strings.TrimPrefix(dest, "file://"))
}

// extractFromPath extracts a filename from a path string.
func extractFromPath(path string) string {
	base := filepath.Base(path)
	if base == "." || base == "" || base == "/" {
		return DefaultFilename
	}
	return base
}

// preferredExtensions pins MIME types whose stdlib extension list is
// platform-dependent to the canonical extension.
var preferredExtensions = map[string]string{
	"text/html":                ".html",
	"text/plain":               ".txt",
	"image/jpeg":               ".jpg",
	"application/octet-stream": ".bin",
}

// ExtensionFromMimeType returns a file extension for a MIME type, or ""
// when unknown. Parameters ("; charset=...") are ignored.
func ExtensionFromMimeType(mimeType string) string {
	if mimeType == "" {
		return ""
	}

	mediaType, _, err := mime.ParseMediaType(mimeType)
	if err != nil || mediaType == "" {
		return ""
	}

	if ext, ok := preferredExtensions[mediaType]; ok {
		return ext
	}

	exts, err := mime.ExtensionsByType(mediaType)
	if err != nil || len(exts) == 0 {
		return ""
	}
	return exts[0]
}

// UniquePath returns a destination path under dir that does not exist
// according to the supplied exists probe. If dir/filename is taken, it
// probes "{stem} (1){ext}", "{stem} (2){ext}", and so on. The probe is a
// snapshot check only: UniquePath never creates files, and a writer
// racing between the check and the actual write is not guarded against.
func UniquePath(dir, filename string, exists func(path string) bool) string {
	candidate := filepath.Join(dir, filename)
	if !exists(candidate) {
		return candidate
	}

	ext := filepath.Ext(filename)
	stem := strings.TrimSuffix(filename, ext)

	for i := 1; i < maxProbe; i++ {
		candidate = filepath.Join(dir, fmt.Sprintf("%s (%d)%s", stem, i, ext))
		if !exists(candidate) {
			return candidate
		}
	}

	return filepath.Join(dir, fmt.Sprintf("%s_%d%s", stem, time.Now().UnixNano(), ext))
}
