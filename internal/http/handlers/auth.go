package handlers

import (
	"net/http"

	"rescue/internal/i18n"
	"rescue/internal/identity"
	"rescue/internal/middleware"
)

func (a *App) AuthRegister(w http.ResponseWriter, r *http.Request) {
	var req identity.Credentials
	if !a.decodeJSON(w, r, &req) {
		return
	}
	sess, err := a.Identity.Register(r.Context(), req)
	if err != nil {
		a.fail(w, r, authMessages, err)
		return
	}
	a.json(w, http.StatusCreated, sess)
}

func (a *App) AuthLogin(w http.ResponseWriter, r *http.Request) {
	var req identity.LoginInput
	if !a.decodeJSON(w, r, &req) {
		return
	}
	sess, err := a.Identity.Login(r.Context(), req)
	if err != nil {
		a.fail(w, r, authMessages, err)
		return
	}
	a.json(w, http.StatusOK, sess)
}

func (a *App) AuthLogout(w http.ResponseWriter, r *http.Request) {
	if err := a.Identity.Logout(r.Context(), middleware.SessionIDFromContext(r.Context())); err != nil {
		a.fail(w, r, authMessages, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *App) Me(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, r, http.StatusUnauthorized, "unauthorized", i18n.MsgLoginRequired)
		return
	}
	u, err := a.Identity.CurrentUser(r.Context(), userID)
	if err != nil {
		a.fail(w, r, authMessages, err)
		return
	}
	a.json(w, http.StatusOK, u)
}
