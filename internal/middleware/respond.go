package middleware

import (
	"encoding/json"
	"net/http"

	"rescue/internal/i18n"
)

var messages = i18n.New()

// writeError writes the JSON error body shared with the handlers.
func writeError(w http.ResponseWriter, r *http.Request, status int, code, key string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":   code,
		"message": messages.T(LocaleFromContext(r.Context()), key),
	})
}
