package domain

import "context"

// CaseRepository persists cases and their donation ledger.
type CaseRepository interface {
	// ListCases returns every case ordered by CreatedAt, newest first.
	ListCases(ctx context.Context) ([]Case, error)
	GetCase(ctx context.Context, id string) (*Case, error)
	// CreateCase assigns the ID and CreatedAt of c and stores it.
	CreateCase(ctx context.Context, c *Case) (string, error)
	// Donate adds d.Amount to the case's Raised and records d inside one
	// transaction. A missing case yields ErrNotFound and nothing is written.
	Donate(ctx context.Context, d *Donation) (*Case, error)
	ListDonations(ctx context.Context, caseID string, limit int) ([]Donation, error)
}

// UserRepository persists accounts.
type UserRepository interface {
	CreateUser(ctx context.Context, u *User) error
	GetUserByID(ctx context.Context, id string) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	TouchLastLogin(ctx context.Context, id string) error
}

// SessionRepository persists login sessions.
type SessionRepository interface {
	CreateSession(ctx context.Context, s *Session) error
	GetSession(ctx context.Context, id string) (*Session, error)
	RevokeSession(ctx context.Context, id string) error
}

// Store bundles every repository a storage driver provides.
type Store interface {
	CaseRepository
	UserRepository
	SessionRepository
	Close() error
}
