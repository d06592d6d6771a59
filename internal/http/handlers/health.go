package handlers

import (
	"net/http"
	"time"
)

type healthResponse struct {
	Status        string    `json:"status"`
	Time          time.Time `json:"time"`
	UptimeSeconds int64     `json:"uptime_seconds"`
}

// Health is the liveness probe. It never touches the store.
func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	now := time.Now().UTC()
	a.json(w, http.StatusOK, healthResponse{
		Status:        "ok",
		Time:          now,
		UptimeSeconds: int64(now.Sub(a.started).Seconds()),
	})
}
