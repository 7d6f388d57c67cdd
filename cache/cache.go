// Package cache holds the redirect cache: short code -> original URL with a
// fixed TTL. It is a pure optimization; absence always falls back to the store.
package cache

import (
	"context"
	"errors"
)

const keyPrefix = "short_url:"

var ErrMiss = errors.New("cache miss")

// Cache is the redirect cache. Set overwrites any previous value and resets
// the entry's TTL; Get returns ErrMiss for absent or expired entries.
type Cache interface {
	Get(ctx context.Context, code string) (string, error)
	Set(ctx context.Context, code, url string) error
	Del(ctx context.Context, code string) error
}
