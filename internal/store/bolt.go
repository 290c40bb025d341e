package store

import (
	"context"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

var bucketTables = []byte("tables")

// BoltBackend keeps tables in a single bbolt file.
type BoltBackend struct {
	db *bolt.DB
}

func OpenBolt(path string) (*BoltBackend, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open table db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketTables)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("init bucket: %w", err)
	}
	return &BoltBackend{db: db}, nil
}

func (b *BoltBackend) Name() string { return "bolt" }

func (b *BoltBackend) Put(_ context.Context, key string, blob []byte) error {
	if key == "" {
		return ErrInvalidName
	}
	return b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketTables).Put([]byte(key), blob)
	})
}

func (b *BoltBackend) Get(_ context.Context, key string) ([]byte, error) {
	var out []byte
	err := b.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketTables).Get([]byte(key))
		if v == nil {
			return ErrNotFound
		}
		// v is only valid inside the transaction
		out = append([]byte(nil), v...)
		return nil
	})
	return out, err
}

func (b *BoltBackend) Delete(_ context.Context, key string) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		bkt := tx.Bucket(bucketTables)
		if bkt.Get([]byte(key)) == nil {
			return ErrNotFound
		}
		return bkt.Delete([]byte(key))
	})
}

// Keys lists stored tables in byte order.
func (b *BoltBackend) Keys(_ context.Context) ([]string, error) {
	var keys []string
	err := b.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketTables).ForEach(func(k, _ []byte) error {
			keys = append(keys, string(k))
			return nil
		})
	})
	return keys, err
}

func (b *BoltBackend) Close() error { return b.db.Close() }
