package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNotFound is returned when a requested document does not exist.
var ErrNotFound = errors.New("store: document not found")

// MaxWritesPerTxn is the hard cap on document writes inside one
// transaction. Callers batching large write sets must check their count
// against this before starting the transaction.
const MaxWritesPerTxn = 500

// CapacityError reports a write batch rejected before any write occurred
// because it exceeds the per-transaction capacity.
type CapacityError struct {
	Writes int
	Limit  int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("store: transaction of %d writes exceeds the %d-write limit", e.Writes, e.Limit)
}

// Doc is a raw document as stored: a key within a collection plus its
// JSON-encoded body.
type Doc struct {
	Key  string
	Data json.RawMessage
}

// Txn is the operation surface available inside RunInTransaction. Writes
// made through it commit atomically with the enclosing transaction.
type Txn interface {
	Get(collection, key string, out any) error
	Set(collection, key string, value any) error
	Delete(collection, key string) error
}

// DocStore is a document-oriented key/value store: JSON documents grouped
// into named collections, with an atomic counter primitive and an
// all-or-nothing transaction primitive.
type DocStore interface {
	// Get unmarshals the document at collection/key into out.
	Get(ctx context.Context, collection, key string, out any) error

	// Set writes value as the document at collection/key, replacing any
	// existing document.
	Set(ctx context.Context, collection, key string, value any) error

	// Delete removes the document at collection/key. Deleting a missing
	// document is not an error.
	Delete(ctx context.Context, collection, key string) error

	// DeletePrefix removes every document in collection whose key starts
	// with prefix, returning how many were removed.
	DeletePrefix(ctx context.Context, collection, prefix string) (int, error)

	// List returns the documents in collection whose keys start with
	// prefix, ordered by key.
	List(ctx context.Context, collection, prefix string) ([]Doc, error)

	// Increment atomically adds delta to a named counter and returns the
	// new value. Missing counters start at zero.
	Increment(ctx context.Context, collection, key string, delta int64) (int64, error)

	// ResetCounter sets a named counter back to zero.
	ResetCounter(ctx context.Context, collection, key string) error

	// RunInTransaction executes fn inside a transaction; all writes made
	// through the Txn commit together or not at all.
	RunInTransaction(ctx context.Context, fn func(tx Txn) error) error

	Close() error
}
