// Package boltstore implements domain.Store on an embedded BoltDB file.
//
// Documents are stored as JSON. Cases are additionally indexed by creation
// time so listing newest first is a reverse cursor walk; donations live in a
// nested bucket per case under the same time-ordered keys.
package boltstore

import (
	"encoding/binary"
	"errors"
	"os"
	"time"

	bolt "github.com/boltdb/bolt"
	"github.com/rs/zerolog"

	"rescue/internal/domain"
)

var (
	bucketCases          = []byte("cases")
	bucketCasesByCreated = []byte("cases_by_created")
	bucketDonations      = []byte("donations")
	bucketUsers          = []byte("users")
	bucketUsersByEmail   = []byte("users_by_email")
	bucketSessions       = []byte("sessions")
)

// Store wraps a BoltDB database.
type Store struct {
	db     *bolt.DB
	logger zerolog.Logger
	now    func() time.Time
}

// Open opens (or creates) the database at path and ensures every bucket exists.
func Open(path string, logger zerolog.Logger) (*Store, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, classify("open bolt", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{bucketCases, bucketCasesByCreated, bucketDonations, bucketUsers, bucketUsersByEmail, bucketSessions} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, classify("open bolt", err)
	}

	return &Store{db: db, logger: logger, now: func() time.Time { return time.Now().UTC() }}, nil
}

// Close releases the database file lock.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.db.Path()
}

// timeKey orders entries by t and breaks ties with id.
func timeKey(t time.Time, id string) []byte {
	key := make([]byte, 8+len(id))
	binary.BigEndian.PutUint64(key, uint64(t.UnixNano()))
	copy(key[8:], id)
	return key
}

func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	var de *domain.Error
	if errors.As(err, &de) {
		return err
	}
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return domain.E(op, domain.KindNotFound, err)
	case errors.Is(err, domain.ErrEmailTaken):
		return domain.E(op, domain.KindConflict, err)
	case errors.Is(err, bolt.ErrDatabaseReadOnly), errors.Is(err, os.ErrPermission):
		return domain.E(op, domain.KindPermissionDenied, err)
	}
	return domain.E(op, domain.KindUnknown, err)
}

var _ domain.Store = (*Store)(nil)
