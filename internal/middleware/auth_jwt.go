package middleware

import (
	"context"
	"net/http"
	"strings"

	"rescue/internal/domain"
	"rescue/internal/i18n"
)

// Authenticator resolves a bearer token to the calling principal.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (domain.Principal, error)
}

type userKey string

const (
	userIDKey    userKey = "user_id"
	sessionIDKey userKey = "session_id"
)

// AuthJWT rejects requests without a valid bearer token for a live session.
func AuthJWT(auth Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				writeError(w, r, http.StatusUnauthorized, "missing_token", i18n.MsgLoginRequired)
				return
			}
			p, err := auth.Authenticate(r.Context(), token)
			if err != nil {
				if domain.KindOf(err) != domain.KindUnauthenticated {
					writeError(w, r, http.StatusInternalServerError, "internal", i18n.MsgInternal)
					return
				}
				writeError(w, r, http.StatusUnauthorized, "invalid_token", i18n.MsgSessionExpired)
				return
			}
			next.ServeHTTP(w, r.WithContext(contextWithPrincipal(r.Context(), p)))
		})
	}
}

// OptionalAuth attaches the principal when a valid token is present and
// otherwise lets the request through anonymously.
func OptionalAuth(auth Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token, ok := bearerToken(r); ok {
				if p, err := auth.Authenticate(r.Context(), token); err == nil {
					r = r.WithContext(contextWithPrincipal(r.Context(), p))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}

func contextWithPrincipal(ctx context.Context, p domain.Principal) context.Context {
	ctx = ContextWithUserID(ctx, p.UserID)
	if p.SessionID != "" {
		ctx = context.WithValue(ctx, sessionIDKey, p.SessionID)
	}
	return ctx
}

func UserIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(userIDKey).(string); ok {
		return v
	}
	return ""
}

func SessionIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(sessionIDKey).(string); ok {
		return v
	}
	return ""
}

func ContextWithUserID(ctx context.Context, userID string) context.Context {
	if strings.TrimSpace(userID) == "" {
		return ctx
	}
	return context.WithValue(ctx, userIDKey, userID)
}
