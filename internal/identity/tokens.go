package identity

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"rescue/internal/domain"
)

const issuer = "rescue"

// Tokens signs and verifies HS256 session tokens. The subject is the user id
// and the token id is the session id.
type Tokens struct {
	secret []byte
}

func NewTokens(secret string) (*Tokens, error) {
	if len(secret) == 0 {
		return nil, errors.New("identity: token secret is required")
	}
	return &Tokens{secret: []byte(secret)}, nil
}

// Sign issues a token for sess.
func (t *Tokens) Sign(sess *domain.Session) (string, error) {
	claims := jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   sess.UserID,
		ID:        sess.ID,
		IssuedAt:  jwt.NewNumericDate(sess.CreatedAt),
		ExpiresAt: jwt.NewNumericDate(sess.ExpiresAt),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Parse verifies the signature and expiry of raw and returns the principal it names.
func (t *Tokens) Parse(raw string, now time.Time) (domain.Principal, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return domain.Principal{}, domain.E("parse token", domain.KindUnauthenticated, domain.ErrSessionExpired)
		}
		return domain.Principal{}, domain.E("parse token", domain.KindUnauthenticated, fmt.Errorf("%w: %v", domain.ErrUnauthenticated, err))
	}
	if claims.Subject == "" || claims.ID == "" {
		return domain.Principal{}, domain.E("parse token", domain.KindUnauthenticated, domain.ErrUnauthenticated)
	}
	return domain.Principal{UserID: claims.Subject, SessionID: claims.ID}, nil
}
