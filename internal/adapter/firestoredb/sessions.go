package firestoredb

import (
	"context"

	"cloud.google.com/go/firestore"

	"rescue/internal/domain"
)

func (s *Store) CreateSession(ctx context.Context, sess *domain.Session) error {
	_, err := s.client.Collection(colSessions).Doc(sess.ID).Set(ctx, sessionDoc{
		UserID:    sess.UserID,
		CreatedAt: sess.CreatedAt,
		ExpiresAt: sess.ExpiresAt,
	})
	return classify("create session", err)
}

func (s *Store) GetSession(ctx context.Context, id string) (*domain.Session, error) {
	snap, err := s.client.Collection(colSessions).Doc(id).Get(ctx)
	if err != nil {
		return nil, classify("get session", err)
	}
	var doc sessionDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, classify("get session", err)
	}
	return &domain.Session{
		ID:        snap.Ref.ID,
		UserID:    doc.UserID,
		CreatedAt: doc.CreatedAt,
		ExpiresAt: doc.ExpiresAt,
		RevokedAt: doc.RevokedAt,
	}, nil
}

// RevokeSession stamps revokedAt once; unknown sessions are ignored.
func (s *Store) RevokeSession(ctx context.Context, id string) error {
	ref := s.client.Collection(colSessions).Doc(id)
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			if isNotFound(err) {
				return nil
			}
			return err
		}
		var doc sessionDoc
		if err := snap.DataTo(&doc); err != nil {
			return err
		}
		if doc.RevokedAt != nil {
			return nil
		}
		return tx.Update(ref, []firestore.Update{{Path: "revokedAt", Value: s.now()}})
	})
	return classify("revoke session", err)
}
