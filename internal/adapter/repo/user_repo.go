package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"rescue/internal/domain"
	"rescue/internal/sqlinline"
)

// CreateUser inserts u. A duplicate email yields domain.ErrEmailTaken.
func (s *Store) CreateUser(ctx context.Context, u *domain.User) error {
	err := s.SQL.QueryRow(ctx, sqlinline.QInsertUser, u.ID, u.Email, u.PasswordHash).Scan(&u.CreatedAt, &u.LastLoginAt)
	if err != nil {
		if err = classify("create user", err); domain.KindOf(err) == domain.KindConflict {
			return domain.E("create user", domain.KindConflict, fmt.Errorf("%w: %s", domain.ErrEmailTaken, u.Email))
		}
		return err
	}
	return nil
}

// GetUserByID fetches a user by UUID.
func (s *Store) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	u, err := scanUser(s.SQL.QueryRow(ctx, sqlinline.QSelectUserByID, id))
	if err != nil {
		return nil, classify("get user", err)
	}
	return u, nil
}

// GetUserByEmail fetches a user by email, case-insensitively.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	u, err := scanUser(s.SQL.QueryRow(ctx, sqlinline.QSelectUserByEmail, email))
	if err != nil {
		return nil, classify("get user by email", err)
	}
	return u, nil
}

// TouchLastLogin stamps the user's last login time.
func (s *Store) TouchLastLogin(ctx context.Context, id string) error {
	tag, err := s.SQL.Exec(ctx, sqlinline.QTouchUserLastLogin, id)
	if err != nil {
		return classify("touch last login", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.E("touch last login", domain.KindNotFound, domain.ErrNotFound)
	}
	return nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.LastLoginAt); err != nil {
		return nil, err
	}
	return &u, nil
}
