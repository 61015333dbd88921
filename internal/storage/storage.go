// Package storage writes uploaded objects to a blob store and reports their public URL.
package storage

import (
	"context"
	"net/url"
	"strings"
)

// Blobs is the blob-storage collaborator. Put stores data under key and
// returns a URL from which the object can be fetched.
type Blobs interface {
	Put(ctx context.Context, key string, data []byte, mimeType string) (string, error)
}

// joinURL appends key to base, escaping each key segment so filenames with
// '#', '?' or '%' survive the round trip.
func joinURL(base, key string) string {
	segs := strings.Split(strings.TrimLeft(key, "/"), "/")
	for i, s := range segs {
		segs[i] = url.PathEscape(s)
	}
	return strings.TrimRight(base, "/") + "/" + strings.Join(segs, "/")
}
