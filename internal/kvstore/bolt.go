package kvstore

import (
	"bytes"
	"context"
	"time"

	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"
)

var boltBucket = []byte("data")

// BoltStore keeps everything in a single bbolt bucket on local disk. This is
// the default backend.
type BoltStore struct {
	db *bolt.DB
}

func OpenBolt(path string) (*BoltStore, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, errors.Wrapf(err, "could not open bolt db at %s", path)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(boltBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, errors.Wrap(err, "could not create bucket")
	}
	return &BoltStore{db: db}, nil
}

func (s *BoltStore) Get(_ context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(boltBucket).Get([]byte(key))
		if raw == nil {
			return ErrNotFound
		}
		value = make([]byte, len(raw))
		copy(value, raw)
		return nil
	})
	return value, err
}

func (s *BoltStore) Put(_ context.Context, key string, value []byte) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(boltBucket).Put([]byte(key), value)
	})
}

func (s *BoltStore) Delete(_ context.Context, key string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(boltBucket).Delete([]byte(key))
	})
}

func (s *BoltStore) List(_ context.Context, prefix string) ([]string, error) {
	var keys []string
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(boltBucket).Cursor()
		p := []byte(prefix)
		for k, _ := c.Seek(p); k != nil && bytes.HasPrefix(k, p); k, _ = c.Next() {
			keys = append(keys, string(k))
		}
		return nil
	})
	return keys, err
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}
