package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"rescue/internal/cases"
	"rescue/internal/domain"
	"rescue/internal/i18n"
	"rescue/internal/identity"
	"rescue/internal/middleware"
	"rescue/internal/validation"
)

type App struct {
	Cases          *cases.Service
	Identity       *identity.Service
	Validator      *validation.Validator
	Messages       *i18n.Catalog
	Logger         zerolog.Logger
	MaxUploadBytes int64

	started time.Time
}

func NewApp(casesSvc *cases.Service, identitySvc *identity.Service, v *validation.Validator, logger zerolog.Logger, maxUploadBytes int64) *App {
	if maxUploadBytes <= 0 {
		maxUploadBytes = 10 << 20
	}
	return &App{
		Cases:          casesSvc,
		Identity:       identitySvc,
		Validator:      v,
		Messages:       i18n.New(),
		Logger:         logger,
		MaxUploadBytes: maxUploadBytes,
		started:        time.Now(),
	}
}

type errorBody struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) t(r *http.Request, key string, args ...any) string {
	return a.Messages.T(middleware.LocaleFromContext(r.Context()), key, args...)
}

func (a *App) error(w http.ResponseWriter, r *http.Request, status int, code, key string) {
	a.json(w, status, errorBody{Error: code, Message: a.t(r, key)})
}

func (a *App) invalid(w http.ResponseWriter, r *http.Request, fields map[string]string) {
	a.json(w, http.StatusBadRequest, errorBody{Error: "invalid_input", Message: a.t(r, i18n.MsgInvalidPayload), Fields: fields})
}

// maxJSONBody caps JSON request bodies. Only case reports carry an upload.
const maxJSONBody = 64 << 10

// decodeJSON reads a capped JSON body into v. On failure it has already
// written the error response and returns false.
func (a *App) decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			a.error(w, r, http.StatusRequestEntityTooLarge, "payload_too_large", i18n.MsgInvalidPayload)
			return false
		}
		a.error(w, r, http.StatusBadRequest, "bad_request", i18n.MsgInvalidPayload)
		return false
	}
	return true
}

func (a *App) currentUserID(r *http.Request) string {
	return middleware.UserIDFromContext(r.Context())
}

// opMessages are the user facing messages of one operation.
type opMessages struct {
	permission string
	failed     string
}

var (
	listMessages   = opMessages{permission: i18n.MsgCasesPermission, failed: i18n.MsgCasesLoadFailed}
	reportMessages = opMessages{permission: i18n.MsgReportPermission, failed: i18n.MsgReportFailed}
	donateMessages = opMessages{permission: i18n.MsgDonatePermission, failed: i18n.MsgDonateFailed}
	authMessages   = opMessages{permission: i18n.MsgLoginRequired, failed: i18n.MsgInternal}
)

// fail maps err to a status code and a localized message.
func (a *App) fail(w http.ResponseWriter, r *http.Request, msgs opMessages, err error) {
	switch domain.KindOf(err) {
	case domain.KindPermissionDenied:
		a.error(w, r, http.StatusForbidden, "permission_denied", msgs.permission)
	case domain.KindUnauthenticated:
		switch {
		case errors.Is(err, domain.ErrInvalidCredentials):
			a.error(w, r, http.StatusUnauthorized, "invalid_credentials", i18n.MsgInvalidCredentials)
		case errors.Is(err, domain.ErrSessionExpired):
			a.error(w, r, http.StatusUnauthorized, "session_expired", i18n.MsgSessionExpired)
		default:
			a.error(w, r, http.StatusUnauthorized, "unauthorized", msgs.permission)
		}
	case domain.KindNotFound:
		a.error(w, r, http.StatusNotFound, "not_found", i18n.MsgCaseNotFound)
	case domain.KindInvalid:
		var fe *validation.FieldsError
		switch {
		case errors.As(err, &fe):
			a.invalid(w, r, fe.Fields)
		case errors.Is(err, domain.ErrInvalidAmount):
			a.error(w, r, http.StatusBadRequest, "invalid_amount", i18n.MsgInvalidAmount)
		case errors.Is(err, domain.ErrImageRequired):
			a.error(w, r, http.StatusBadRequest, "image_required", i18n.MsgImageRequired)
		default:
			a.error(w, r, http.StatusBadRequest, "invalid_input", i18n.MsgInvalidPayload)
		}
	case domain.KindConflict:
		if errors.Is(err, domain.ErrEmailTaken) {
			a.error(w, r, http.StatusConflict, "email_taken", i18n.MsgEmailTaken)
			return
		}
		a.error(w, r, http.StatusConflict, "conflict", msgs.failed)
	default:
		a.Logger.Error().Err(err).Str("request_id", middleware.RequestIDFromContext(r.Context())).Str("path", r.URL.Path).Msg("request failed")
		a.error(w, r, http.StatusInternalServerError, "internal", msgs.failed)
	}
}
