package boltstore

import (
	"context"
	"encoding/json"

	bolt "github.com/boltdb/bolt"

	"rescue/internal/domain"
)

func (s *Store) CreateSession(_ context.Context, sess *domain.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return classify("create session", err)
	}
	err = s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketSessions).Put([]byte(sess.ID), data)
	})
	return classify("create session", err)
}

func (s *Store) GetSession(_ context.Context, id string) (*domain.Session, error) {
	var sess domain.Session
	err := s.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(bucketSessions).Get([]byte(id))
		if raw == nil {
			return domain.ErrNotFound
		}
		return json.Unmarshal(raw, &sess)
	})
	if err != nil {
		return nil, classify("get session", err)
	}
	return &sess, nil
}

// RevokeSession stamps RevokedAt once. Unknown or already revoked sessions are left alone.
func (s *Store) RevokeSession(_ context.Context, id string) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketSessions)
		raw := b.Get([]byte(id))
		if raw == nil {
			return nil
		}
		var sess domain.Session
		if err := json.Unmarshal(raw, &sess); err != nil {
			return err
		}
		if sess.RevokedAt != nil {
			return nil
		}
		now := s.now()
		sess.RevokedAt = &now
		data, err := json.Marshal(sess)
		if err != nil {
			return err
		}
		return b.Put([]byte(id), data)
	})
	return classify("revoke session", err)
}
