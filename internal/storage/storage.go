// Package storage issues presigned URLs for product images kept in object storage.
package storage

import (
	"context"
	"errors"
	"time"
)

// ErrKeyRequired is returned for an empty object key.
var ErrKeyRequired = errors.New("storage key is required")

// ImageStorage hands out short-lived URLs so clients move image bytes directly to and from the bucket.
type ImageStorage interface {
	UploadURL(ctx context.Context, key, contentType string) (string, time.Time, error)
	DownloadURL(ctx context.Context, key string) (string, time.Time, error)
	Delete(ctx context.Context, key string) error
}

const defaultExpiry = 15 * time.Minute
