package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"rescue/internal/domain"
	"rescue/internal/i18n"
)

type donationRequest struct {
	Amount int64  `json:"amount" validate:"gt=0"`
	Method string `json:"method" validate:"omitempty,oneof=upi card"`
}

func (a *App) DonationsCreate(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, r, http.StatusUnauthorized, "unauthorized", i18n.MsgDonatePermission)
		return
	}
	var req donationRequest
	if !a.decodeJSON(w, r, &req) {
		return
	}
	if req.Amount <= 0 {
		a.error(w, r, http.StatusBadRequest, "invalid_amount", i18n.MsgInvalidAmount)
		return
	}
	if err := a.Validator.Struct(req); err != nil {
		a.fail(w, r, donateMessages, domain.E("donate", domain.KindInvalid, err))
		return
	}

	c, d, err := a.Cases.Donate(r.Context(), userID, chi.URLParam(r, "id"), req.Amount, domain.PaymentMethod(req.Method))
	if err != nil {
		a.fail(w, r, donateMessages, err)
		return
	}
	a.json(w, http.StatusCreated, map[string]any{
		"case":     c,
		"donation": d,
		"message":  a.t(r, i18n.MsgDonateSuccess, req.Amount),
	})
}

func (a *App) DonationsList(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	items, err := a.Cases.Donations(r.Context(), chi.URLParam(r, "id"), limit)
	if err != nil {
		a.fail(w, r, listMessages, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"items": items})
}
