// Package metadata is the durable key/value store of the client. It plays
// the role a browser's local storage plays for a web front end: small
// string-ish values that survive a restart.
package metadata

import (
	"context"
)

// Repository persists opaque values under string keys. Get returns
// (nil, nil) for a missing key.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	SetMany(ctx context.Context, values map[string][]byte) error
	Delete(ctx context.Context, keys ...string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
}
