// Package session derives storage-partition identity for child sessions.
package session

import (
	"net/url"
	"strings"

	"github.com/google/uuid"
)

const (
	// TransientPrefix marks platform IDs that belong to one-off
	// navigations rather than configured platforms.
	TransientPrefix = "tmp-"

	// transientKeyPrefix namespaces hostname-derived storage keys so they
	// can never collide with a configured platform ID.
	transientKeyPrefix = "url-"

	// fallbackHost is used when a transient session's URL has no usable
	// hostname.
	fallbackHost = "tmp"
)

// IsTransient reports whether a platform ID names a one-off session.
func IsTransient(platformID string) bool {
	return strings.HasPrefix(platformID, TransientPrefix)
}

// ResolveStorageKey derives the storage-partition key for a session.
//
// Stable platform IDs map to themselves, giving each configured platform a
// permanent partition that survives restarts. Transient IDs are keyed by
// the destination hostname instead, so repeated scratch sessions to the
// same host share cookies while staying isolated from everything else.
func ResolveStorageKey(platformID, rawURL string) string {
	if !IsTransient(platformID) {
		return platformID
	}

	host := fallbackHost
	if u, err := url.Parse(rawURL); err == nil && u.Host != "" {
		host = u.Hostname()
	}

	return transientKeyPrefix + host
}

// StoreIdentifier derives the fixed-length storage-store identifier some
// platforms require for partition isolation. The first 16 bytes of the
// storage key are copied (zero padded) and the RFC 4122 version/variant
// bits forced so the result is syntactically a valid v4 UUID.
//
// This is a one-way, non-cryptographic derivation: keys longer than 16
// bytes that share a prefix will collide.
func StoreIdentifier(storageKey string) uuid.UUID {
	var id uuid.UUID
	copy(id[:], storageKey)

	id[6] = (id[6] & 0x0f) | 0x40 // version 4
	id[8] = (id[8] & 0x3f) | 0x80 // variant RFC 4122

	return id
}

// NormalizeURL prefixes https:// when the raw input carries no scheme and
// validates that the result parses as an absolute URL.
func NormalizeURL(raw string) (string, error) {
	normalized := raw
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		normalized = "https://" + raw
	}

	if _, err := url.ParseRequestURI(normalized); err != nil {
		return "", err
	}

	return normalized, nil
}
