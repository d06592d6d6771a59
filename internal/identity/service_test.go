package identity

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rescue/internal/adapter/boltstore"
	"rescue/internal/domain"
	"rescue/internal/validation"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	store, err := boltstore.Open(filepath.Join(t.TempDir(), "identity.db"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	tokens, err := NewTokens("test-secret")
	require.NoError(t, err)
	return NewService(store, tokens, validation.New(), time.Hour, zerolog.Nop())
}

func TestRegisterSignsUserIn(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	sess, err := svc.Register(ctx, Credentials{Email: " Meera@Example.com ", Password: "kindness"})
	require.NoError(t, err)
	require.NotEmpty(t, sess.Token)
	assert.Equal(t, "meera@example.com", sess.User.Email)

	p, err := svc.Authenticate(ctx, sess.Token)
	require.NoError(t, err)
	assert.Equal(t, sess.User.ID, p.UserID)

	me, err := svc.CurrentUser(ctx, p.UserID)
	require.NoError(t, err)
	assert.Equal(t, "meera@example.com", me.Email)
}

func TestRegisterValidation(t *testing.T) {
	svc := newTestService(t)
	tests := []Credentials{
		{Email: "not-an-email", Password: "secret1"},
		{Email: "a@b.co", Password: "12345"},
		{Email: "", Password: ""},
	}
	for _, in := range tests {
		_, err := svc.Register(context.Background(), in)
		assert.Equal(t, domain.KindInvalid, domain.KindOf(err), "input %+v", in)
		var fe *validation.FieldsError
		assert.True(t, errors.As(err, &fe))
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	_, err := svc.Register(ctx, Credentials{Email: "dup@example.com", Password: "secret1"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, Credentials{Email: "DUP@example.com", Password: "secret2"})
	require.ErrorIs(t, err, domain.ErrEmailTaken)
	assert.Equal(t, domain.KindConflict, domain.KindOf(err))
}

func TestLoginErrors(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	_, err := svc.Register(ctx, Credentials{Email: "ravi@example.com", Password: "secret1"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, LoginInput{Email: "ravi@example.com", Password: "wrong-pass"})
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)
	assert.Equal(t, domain.KindUnauthenticated, domain.KindOf(err))

	_, err = svc.Login(ctx, LoginInput{Email: "nobody@example.com", Password: "secret1"})
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)

	sess, err := svc.Login(ctx, LoginInput{Email: "RAVI@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.NotEmpty(t, sess.Token)
}

func TestLogoutRevokesToken(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	sess, err := svc.Register(ctx, Credentials{Email: "out@example.com", Password: "secret1"})
	require.NoError(t, err)

	p, err := svc.Authenticate(ctx, sess.Token)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, p.SessionID))
	require.NoError(t, svc.Logout(ctx, p.SessionID))

	_, err = svc.Authenticate(ctx, sess.Token)
	require.ErrorIs(t, err, domain.ErrSessionExpired)
	assert.Equal(t, domain.KindUnauthenticated, domain.KindOf(err))
}

func TestAuthenticateExpiredToken(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	sess, err := svc.Register(ctx, Credentials{Email: "late@example.com", Password: "secret1"})
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().UTC().Add(2 * time.Hour) }
	_, err = svc.Authenticate(ctx, sess.Token)
	require.ErrorIs(t, err, domain.ErrSessionExpired)
}

func TestAuthenticateRejectsForeignToken(t *testing.T) {
	svc := newTestService(t)
	other, err := NewTokens("another-secret")
	require.NoError(t, err)
	now := time.Now().UTC()
	forged, err := other.Sign(&domain.Session{ID: "s", UserID: "u", CreatedAt: now, ExpiresAt: now.Add(time.Hour)})
	require.NoError(t, err)

	_, err = svc.Authenticate(context.Background(), forged)
	assert.Equal(t, domain.KindUnauthenticated, domain.KindOf(err))

	_, err = svc.Authenticate(context.Background(), "garbage")
	assert.Equal(t, domain.KindUnauthenticated, domain.KindOf(err))
}

func TestCurrentUserRequiresUser(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.CurrentUser(context.Background(), "")
	require.ErrorIs(t, err, domain.ErrUnauthenticated)
}
