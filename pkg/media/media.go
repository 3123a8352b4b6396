// Package media hides where assets live. Clients only ever see first-party
// /api/media URLs, and the server resolves bucket and file through a Storage.
package media

import (
	"context"
	"errors"
	"net/url"
	"path"
	"slices"
	"strings"
)

const (
	Route        = "/api/media"
	CacheControl = "public, max-age=86400"

	BucketGenerated = "generated"
)

var (
	ErrInvalidPath = errors.New("invalid media path")
	ErrBucket      = errors.New("bucket not allowed")
	ErrNotFound    = errors.New("media not found")
)

type Object struct {
	Data        []byte
	ContentType string
}

type Storage interface {
	Open(ctx context.Context, bucket, file string) (Object, error)
	Put(ctx context.Context, bucket, file string, data []byte, contentType string) error
}

// URL builds the masked path for a stored object.
func URL(bucket, file string) string {
	q := url.Values{}
	q.Set("bucket", bucket)
	q.Set("file", file)
	return Route + "?" + q.Encode()
}

// Buckets is the allow-list of servable buckets.
type Buckets []string

// ParseBuckets splits a comma separated list, ignoring blanks.
func ParseBuckets(s string) Buckets {
	var out Buckets
	for _, b := range strings.Split(s, ",") {
		if b = strings.TrimSpace(b); b != "" && !slices.Contains(out, b) {
			out = append(out, b)
		}
	}
	return out
}

func (b Buckets) Allowed(bucket string) bool {
	return slices.Contains(b, bucket)
}

// Clean validates a request for bucket/file and returns the normalized file
// path. Absolute paths, parent references and backslashes are rejected.
func (b Buckets) Clean(bucket, file string) (string, error) {
	bucket = strings.TrimSpace(bucket)
	if bucket == "" || strings.ContainsAny(bucket, `/\.`) {
		return "", ErrInvalidPath
	}
	if !b.Allowed(bucket) {
		return "", ErrBucket
	}
	return CleanFile(file)
}

func CleanFile(file string) (string, error) {
	file = strings.TrimSpace(file)
	if file == "" || strings.HasPrefix(file, "/") || strings.Contains(file, `\`) || strings.ContainsRune(file, 0) {
		return "", ErrInvalidPath
	}
	for _, seg := range strings.Split(file, "/") {
		if seg == ".." {
			return "", ErrInvalidPath
		}
	}
	cleaned := path.Clean(file)
	if cleaned == "." {
		return "", ErrInvalidPath
	}
	return cleaned, nil
}
