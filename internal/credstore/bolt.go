// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package credstore

import (
	"fmt"
	"time"

	"go.etcd.io/bbolt"
)

var boltBucket = []byte("credexa")

// BoltBackend stores values in one bbolt bucket.
type BoltBackend struct {
	db   *bbolt.DB
	path string
}

// OpenBolt opens the bbolt file at path. bbolt holds an exclusive file lock,
// so a second process waits at most one second before giving up.
func OpenBolt(path string) (*BoltBackend, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("%w: opening bbolt db: %v", ErrBackend, err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(boltBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: create bucket: %v", ErrBackend, err)
	}
	return &BoltBackend{db: db, path: path}, nil
}

func (b *BoltBackend) Get(key string) (string, bool, error) {
	var (
		value string
		found bool
	)
	err := b.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(boltBucket).Get([]byte(key))
		if data != nil {
			value, found = string(data), true
		}
		return nil
	})
	if err != nil {
		return "", false, fmt.Errorf("%w: get %s: %v", ErrBackend, key, err)
	}
	return value, found, nil
}

func (b *BoltBackend) Put(key, value string) error {
	err := b.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(boltBucket).Put([]byte(key), []byte(value))
	})
	if err != nil {
		return fmt.Errorf("%w: put %s: %v", ErrBackend, key, err)
	}
	return nil
}

func (b *BoltBackend) Delete(key string) error {
	err := b.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(boltBucket).Delete([]byte(key))
	})
	if err != nil {
		return fmt.Errorf("%w: delete %s: %v", ErrBackend, key, err)
	}
	return nil
}

func (b *BoltBackend) Path() string { return b.path }

func (b *BoltBackend) Close() error {
	return b.db.Close()
}
