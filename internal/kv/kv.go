// Package kv provides the durable key-value medium the list and theme
// preferences are persisted in.
package kv

import (
	"context"
	"errors"
)

// ErrUnavailable is returned when the backend cannot be reached or refuses an
// operation.
var ErrUnavailable = errors.New("storage unavailable")

// Store is a string key-value store. Get reports absence with ok == false and a
// nil error; an error always means the backend itself failed.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	Close() error
}
