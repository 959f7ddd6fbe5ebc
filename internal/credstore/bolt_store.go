// Package credstore persists the client's session token between runs.
package credstore

import (
	"context"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

var (
	bucketName = []byte("credentials")
	tokenKey   = []byte("session_token")
)

// BoltStore keeps the token in a local bbolt file.
type BoltStore struct {
	db *bolt.DB
}

func OpenBolt(path string) (*BoltStore, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("credstore: open %s: %w", path, err)
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	}); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("credstore: init bucket: %w", err)
	}

	return &BoltStore{db: db}, nil
}

func (s *BoltStore) Save(_ context.Context, token string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).Put(tokenKey, []byte(token))
	})
}

// Load returns "" when nothing is saved.
func (s *BoltStore) Load(_ context.Context) (string, error) {
	var token string
	err := s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(bucketName).Get(tokenKey); v != nil {
			token = string(v)
		}
		return nil
	})
	return token, err
}

func (s *BoltStore) Clear(_ context.Context) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).Delete(tokenKey)
	})
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}
