package repo

import (
	"context"
	"time"

	"rescue/internal/domain"
	"rescue/internal/sqlinline"
)

func (s *Store) CreateSession(ctx context.Context, sess *domain.Session) error {
	_, err := s.SQL.Exec(ctx, sqlinline.QInsertSession, sess.ID, sess.UserID, sess.CreatedAt, sess.ExpiresAt)
	return classify("create session", err)
}

func (s *Store) GetSession(ctx context.Context, id string) (*domain.Session, error) {
	var (
		sess    domain.Session
		revoked *time.Time
	)
	row := s.SQL.QueryRow(ctx, sqlinline.QSelectSessionByID, id)
	if err := row.Scan(&sess.ID, &sess.UserID, &sess.CreatedAt, &sess.ExpiresAt, &revoked); err != nil {
		return nil, classify("get session", err)
	}
	sess.RevokedAt = revoked
	return &sess, nil
}

// RevokeSession marks the session revoked. Revoking twice keeps the first timestamp.
func (s *Store) RevokeSession(ctx context.Context, id string) error {
	_, err := s.SQL.Exec(ctx, sqlinline.QRevokeSession, id)
	return classify("revoke session", err)
}
