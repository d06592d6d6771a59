// Package identity registers users, opens and revokes sessions, and resolves
// bearer tokens to the calling user.
package identity

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"rescue/internal/domain"
	"rescue/internal/validation"
)

// Repository is the persistence the identity service needs.
type Repository interface {
	domain.UserRepository
	domain.SessionRepository
}

// Credentials is the register request body.
type Credentials struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

// LoginInput is the login request body.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Session is what a successful register or login hands back to the client.
type Session struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *domain.User `json:"user"`
}

// Service implements the identity operations.
type Service struct {
	repo      Repository
	tokens    *Tokens
	validator *validation.Validator
	logger    zerolog.Logger
	ttl       time.Duration
	now       func() time.Time
}

func NewService(repo Repository, tokens *Tokens, v *validation.Validator, ttl time.Duration, logger zerolog.Logger) *Service {
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &Service{
		repo:      repo,
		tokens:    tokens,
		validator: v,
		logger:    logger,
		ttl:       ttl,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// dummyHash keeps the cost of a login for an unknown email close to a real one.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("rescue-dummy-password"), bcrypt.DefaultCost)

// Register creates the account and signs the new user in.
func (s *Service) Register(ctx context.Context, in Credentials) (*Session, error) {
	const op = "register"
	in.Email = normalizeEmail(in.Email)
	if err := s.validator.Struct(in); err != nil {
		return nil, domain.E(op, domain.KindInvalid, err)
	}

	u := &domain.User{ID: uuid.NewString(), Email: in.Email}
	if err := u.SetPassword(in.Password); err != nil {
		return nil, domain.E(op, domain.KindUnknown, err)
	}
	if err := s.repo.CreateUser(ctx, u); err != nil {
		return nil, err
	}
	s.logger.Info().Str("user_id", u.ID).Msg("user registered")
	return s.openSession(ctx, u)
}

// Login verifies the credentials and opens a session.
func (s *Service) Login(ctx context.Context, in LoginInput) (*Session, error) {
	const op = "login"
	in.Email = normalizeEmail(in.Email)
	if err := s.validator.Struct(in); err != nil {
		return nil, domain.E(op, domain.KindInvalid, err)
	}

	u, err := s.repo.GetUserByEmail(ctx, in.Email)
	if err != nil {
		if domain.KindOf(err) == domain.KindNotFound {
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(in.Password))
			return nil, domain.E(op, domain.KindUnauthenticated, domain.ErrInvalidCredentials)
		}
		return nil, err
	}
	if err := u.CheckPassword(in.Password); err != nil {
		return nil, domain.E(op, domain.KindUnauthenticated, domain.ErrInvalidCredentials)
	}
	if err := s.repo.TouchLastLogin(ctx, u.ID); err != nil {
		return nil, err
	}
	u.LastLoginAt = s.now()
	return s.openSession(ctx, u)
}

// Logout revokes the session. Revoking an unknown or revoked session succeeds.
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return domain.E("logout", domain.KindUnauthenticated, domain.ErrUnauthenticated)
	}
	return s.repo.RevokeSession(ctx, sessionID)
}

// Authenticate resolves a bearer token to a principal whose session is still live.
func (s *Service) Authenticate(ctx context.Context, token string) (domain.Principal, error) {
	const op = "authenticate"
	now := s.now()
	p, err := s.tokens.Parse(token, now)
	if err != nil {
		return domain.Principal{}, err
	}
	sess, err := s.repo.GetSession(ctx, p.SessionID)
	if err != nil {
		if domain.KindOf(err) == domain.KindNotFound {
			return domain.Principal{}, domain.E(op, domain.KindUnauthenticated, domain.ErrSessionExpired)
		}
		return domain.Principal{}, err
	}
	if sess.UserID != p.UserID || !sess.Active(now) {
		return domain.Principal{}, domain.E(op, domain.KindUnauthenticated, domain.ErrSessionExpired)
	}
	return p, nil
}

// CurrentUser returns the signed in user, or ErrUnauthenticated when nobody is.
func (s *Service) CurrentUser(ctx context.Context, userID string) (*domain.User, error) {
	if userID == "" {
		return nil, domain.E("current user", domain.KindUnauthenticated, domain.ErrUnauthenticated)
	}
	return s.repo.GetUserByID(ctx, userID)
}

func (s *Service) openSession(ctx context.Context, u *domain.User) (*Session, error) {
	now := s.now()
	sess := &domain.Session{
		ID:        uuid.NewString(),
		UserID:    u.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.repo.CreateSession(ctx, sess); err != nil {
		return nil, err
	}
	token, err := s.tokens.Sign(sess)
	if err != nil {
		return nil, domain.E("open session", domain.KindUnknown, err)
	}
	return &Session{Token: token, ExpiresAt: sess.ExpiresAt, User: u}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
