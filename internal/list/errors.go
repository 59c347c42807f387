package list

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned by lookups when no item has the given id.
	// Update and Delete never return it; see Store.Update.
	ErrNotFound = errors.New("item not found")

	// ErrStorageUnavailable is returned when the durable store cannot be read
	// while reconciling before a mutation.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrStorageWrite is returned when the collection could not be persisted.
	ErrStorageWrite = errors.New("storage write failed")

	// ErrQuotaExceeded is returned when the serialized collection is larger
	// than the gateway's quota. It matches ErrStorageWrite.
	ErrQuotaExceeded = fmt.Errorf("%w: quota exceeded", ErrStorageWrite)

	// ErrIDCollision is returned when the id generator keeps producing ids
	// already present in the collection.
	ErrIDCollision = errors.New("could not generate a unique item id")
)
