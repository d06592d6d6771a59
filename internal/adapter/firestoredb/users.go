package firestoredb

import (
	"context"
	"fmt"
	"strings"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"rescue/internal/domain"
)

// CreateUser checks email uniqueness and creates the document in one transaction.
func (s *Store) CreateUser(ctx context.Context, u *domain.User) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	now := s.now()
	u.CreatedAt = now
	u.LastLoginAt = now

	users := s.client.Collection(colUsers)
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		existing, err := tx.Documents(users.Where("email", "==", u.Email).Limit(1)).GetAll()
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			return fmt.Errorf("%w: %s", domain.ErrEmailTaken, u.Email)
		}
		return tx.Create(users.Doc(u.ID), userDoc{
			Email:        u.Email,
			PasswordHash: u.PasswordHash,
			CreatedAt:    u.CreatedAt,
			LastLoginAt:  u.LastLoginAt,
		})
	})
	return classify("create user", err)
}

func (s *Store) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	snap, err := s.client.Collection(colUsers).Doc(id).Get(ctx)
	if err != nil {
		return nil, classify("get user", err)
	}
	var doc userDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, classify("get user", err)
	}
	return doc.toUser(snap.Ref.ID), nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	iter := s.client.Collection(colUsers).Where("email", "==", strings.ToLower(strings.TrimSpace(email))).Limit(1).Documents(ctx)
	defer iter.Stop()

	snap, err := iter.Next()
	if err == iterator.Done {
		return nil, classify("get user by email", domain.ErrNotFound)
	}
	if err != nil {
		return nil, classify("get user by email", err)
	}
	var doc userDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, classify("get user by email", err)
	}
	return doc.toUser(snap.Ref.ID), nil
}

func (s *Store) TouchLastLogin(ctx context.Context, id string) error {
	_, err := s.client.Collection(colUsers).Doc(id).Update(ctx, []firestore.Update{
		{Path: "lastLoginAt", Value: firestore.ServerTimestamp},
	})
	return classify("touch last login", err)
}
