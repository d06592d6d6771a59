package handlers

import (
	"net/http"
)

func (a *App) StatsSummary(w http.ResponseWriter, r *http.Request) {
	st, err := a.Cases.Stats(r.Context())
	if err != nil {
		a.fail(w, r, listMessages, err)
		return
	}
	a.json(w, http.StatusOK, st)
}
