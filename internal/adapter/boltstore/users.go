package boltstore

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	bolt "github.com/boltdb/bolt"

	"rescue/internal/domain"
)

// CreateUser stores u keyed by its ID. Emails are unique case-insensitively.
func (s *Store) CreateUser(_ context.Context, u *domain.User) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	now := s.now()
	u.CreatedAt = now
	u.LastLoginAt = now

	err := s.db.Update(func(tx *bolt.Tx) error {
		byEmail := tx.Bucket(bucketUsersByEmail)
		if byEmail.Get([]byte(u.Email)) != nil {
			return fmt.Errorf("%w: %s", domain.ErrEmailTaken, u.Email)
		}
		data, err := json.Marshal(storedUser{User: *u, PasswordHash: u.PasswordHash})
		if err != nil {
			return err
		}
		if err := tx.Bucket(bucketUsers).Put([]byte(u.ID), data); err != nil {
			return err
		}
		return byEmail.Put([]byte(u.Email), []byte(u.ID))
	})
	return classify("create user", err)
}

func (s *Store) GetUserByID(_ context.Context, id string) (*domain.User, error) {
	var u *domain.User
	err := s.db.View(func(tx *bolt.Tx) error {
		var err error
		u, err = getUser(tx, []byte(id))
		return err
	})
	if err != nil {
		return nil, classify("get user", err)
	}
	return u, nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (*domain.User, error) {
	var u *domain.User
	err := s.db.View(func(tx *bolt.Tx) error {
		id := tx.Bucket(bucketUsersByEmail).Get([]byte(strings.ToLower(strings.TrimSpace(email))))
		if id == nil {
			return domain.ErrNotFound
		}
		var err error
		u, err = getUser(tx, id)
		return err
	})
	if err != nil {
		return nil, classify("get user by email", err)
	}
	return u, nil
}

func (s *Store) TouchLastLogin(_ context.Context, id string) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		u, err := getUser(tx, []byte(id))
		if err != nil {
			return err
		}
		u.LastLoginAt = s.now()
		data, err := json.Marshal(storedUser{User: *u, PasswordHash: u.PasswordHash})
		if err != nil {
			return err
		}
		return tx.Bucket(bucketUsers).Put([]byte(id), data)
	})
	return classify("touch last login", err)
}

// storedUser persists the password hash that domain.User hides from JSON.
type storedUser struct {
	domain.User
	PasswordHash []byte `json:"password_hash"`
}

func getUser(tx *bolt.Tx, id []byte) (*domain.User, error) {
	raw := tx.Bucket(bucketUsers).Get(id)
	if raw == nil {
		return nil, domain.ErrNotFound
	}
	var su storedUser
	if err := json.Unmarshal(raw, &su); err != nil {
		return nil, err
	}
	u := su.User
	u.PasswordHash = su.PasswordHash
	return &u, nil
}
