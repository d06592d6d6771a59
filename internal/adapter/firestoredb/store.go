// Package firestoredb implements domain.Store on Cloud Firestore.
//
// Collections: cases, cases/{id}/donations, users, sessions.
package firestoredb

import (
	"context"
	"errors"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"rescue/internal/domain"
)

const (
	colCases     = "cases"
	colDonations = "donations"
	colUsers     = "users"
	colSessions  = "sessions"
)

// Store wraps a Firestore client.
type Store struct {
	client *firestore.Client
	logger zerolog.Logger
	now    func() time.Time
}

// Open connects to the Firestore project. Credentials come from the
// environment (GOOGLE_APPLICATION_CREDENTIALS or the emulator host).
func Open(ctx context.Context, projectID string, logger zerolog.Logger, opts ...option.ClientOption) (*Store, error) {
	client, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, classify("open firestore", err)
	}
	return &Store{client: client, logger: logger, now: func() time.Time { return time.Now().UTC() }}, nil
}

func (s *Store) Close() error {
	return s.client.Close()
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
	}
	switch status.Code(err) {
	case codes.PermissionDenied, codes.Unauthenticated:
		return domain.E(op, domain.KindPermissionDenied, err)
	case codes.NotFound:
		return domain.E(op, domain.KindNotFound, domain.ErrNotFound)
	case codes.AlreadyExists:
		return domain.E(op, domain.KindConflict, err)
	case codes.InvalidArgument:
		return domain.E(op, domain.KindInvalid, err)
	}
	return domain.E(op, domain.KindUnknown, err)
}

func isNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}

var _ domain.Store = (*Store)(nil)
