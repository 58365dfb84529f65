package storage

import (
	"context"
	"net/url"
	"time"
)

// StubStorage fabricates URLs under BaseURL. It stores nothing and is meant for development.
type StubStorage struct {
	BaseURL string
}

// NewStubStorage creates a StubStorage.
func NewStubStorage() *StubStorage {
	return &StubStorage{BaseURL: "http://localhost:9000/clothstore"}
}

func (s *StubStorage) UploadURL(_ context.Context, key, contentType string) (string, time.Time, error) {
	return s.url("upload", key)
}

func (s *StubStorage) DownloadURL(_ context.Context, key string) (string, time.Time, error) {
	return s.url("download", key)
}

func (s *StubStorage) Delete(_ context.Context, key string) error {
	if key == "" {
		return ErrKeyRequired
	}
	return nil
}

func (s *StubStorage) url(op, key string) (string, time.Time, error) {
	if key == "" {
		return "", time.Time{}, ErrKeyRequired
	}
	expires := time.Now().Add(defaultExpiry)
	q := url.Values{"expires": {expires.UTC().Format(time.RFC3339)}}
	return s.BaseURL + "/" + op + "/" + key + "?" + q.Encode(), expires, nil
}
