// Package kvstore is a thin key-value abstraction over the pluggable storage
// backends. Keys are flat strings namespaced by prefix, values are opaque
// bytes; everything above this package speaks JSON documents.
package kvstore

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// ErrNotFound is returned by Get when the key is absent.
var ErrNotFound = errors.New("key not found")

// Store is the contract every backend implements.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context, prefix string) ([]string, error)
	Close() error
}

// GetJSON loads key into dest. A missing key or a decode failure leaves dest
// set to fallback and returns nil: callers treat both as "start empty".
func GetJSON(ctx context.Context, st Store, key string, dest interface{}, fallback func()) error {
	raw, err := st.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		fallback()
		return nil
	}
	if err != nil {
		return errors.Wrapf(err, "get %s", key)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		log.Errorf("corrupt document at %s, falling back to empty: %v", key, err)
		fallback()
	}
	return nil
}

// PutJSON marshals value and writes it under key.
func PutJSON(ctx context.Context, st Store, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return errors.Wrapf(err, "marshal %s", key)
	}
	return errors.Wrapf(st.Put(ctx, key, raw), "put %s", key)
}
