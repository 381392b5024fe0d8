package server

import (
	"net/http"

	"crypto-alerts-bot/internal/kvstore"
	"crypto-alerts-bot/internal/types"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type dashboardUser struct {
	ID  string `json:"id"`
	VIP bool   `json:"vip"`
}

type dashboardPayload struct {
	User           dashboardUser     `json:"user"`
	Alerts         []types.Alert     `json:"alerts"`
	Signals        []types.Signal    `json:"signals"`
	Memes          []types.MemeCoin  `json:"memes"`
	Alpha          []types.AlphaCall `json:"alpha"`
	Events         []types.Event     `json:"events"`
	UpgradeButtons map[string]string `json:"upgradeButtons"`
}

// handleDashboard serves the Telegram Mini App payload: the requesting
// user's state plus all the content collections in one response.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	ctx := r.Context()

	userID := r.URL.Query().Get("userId")
	if userID == "" {
		userID = "demoUser"
	}

	user, err := s.users.Get(ctx, userID)
	if err != nil && !errors.Is(err, kvstore.ErrNotFound) {
		log.Errorf("failed to load user %s: %v", userID, err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	alerts, err := s.alerts.List(ctx, userID)
	if err != nil {
		log.Errorf("failed to load alerts for %s: %v", userID, err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	signals, err := s.content.Signals(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	memes, err := s.content.Memes(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	alpha, err := s.content.Alpha(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	events, err := s.content.Events(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	wallets, err := s.content.Wallets(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	payload := dashboardPayload{
		User:           dashboardUser{ID: userID, VIP: user.VIP},
		Alerts:         alerts,
		Signals:        values(signals),
		Memes:          values(memes),
		Alpha:          values(alpha),
		Events:         values(events),
		UpgradeButtons: wallets,
	}
	writeJSON(w, http.StatusOK, payload)
}

func values[T any](m map[string]T) []T {
	out := make([]T, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	return out
}
