package repo

import (
	"rescue/internal/domain"
	"rescue/internal/infra"

	"github.com/rs/zerolog"
)

// Store implements domain.Store on PostgreSQL through the marker-checked SQL runner.
type Store struct {
	SQL    infra.SQLTransactor
	Logger zerolog.Logger
	close  func()
}

// NewStore wraps sql. closeFn, when non-nil, is invoked by Close.
func NewStore(sql infra.SQLTransactor, logger zerolog.Logger, closeFn func()) *Store {
	return &Store{SQL: sql, Logger: logger, close: closeFn}
}

func (s *Store) Close() error {
	if s.close != nil {
		s.close()
	}
	return nil
}

const (
	pgUniqueViolation       = "23505"
	pgInsufficientPrivilege = "42501"
	pgInvalidTextRepr       = "22P02"
	pgForeignKeyViolation   = "23503"
)

// classify tags a driver error with its domain.Kind.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	if infra.IsNoRows(err) {
		return domain.E(op, domain.KindNotFound, domain.ErrNotFound)
	}
	switch infra.PgErrorCode(err) {
	case pgInsufficientPrivilege:
		return domain.E(op, domain.KindPermissionDenied, err)
	case pgUniqueViolation:
		return domain.E(op, domain.KindConflict, err)
	case pgInvalidTextRepr:
		// malformed uuid, the row cannot exist
		return domain.E(op, domain.KindNotFound, domain.ErrNotFound)
	case pgForeignKeyViolation:
		return domain.E(op, domain.KindInvalid, err)
	}
	return domain.E(op, domain.KindUnknown, err)
}

var _ domain.Store = (*Store)(nil)
