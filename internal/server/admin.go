package server

import (
	"crypto/subtle"
	"html/template"
	"net/http"
	"time"

	"crypto-alerts-bot/internal/types"

	"github.com/dustin/go-humanize"
	log "github.com/sirupsen/logrus"
)

var adminTemplate = template.Must(template.New("admin").Parse(`<!DOCTYPE html>
<html><head><title>Admin - Crypto Alerts Bot</title>
<style>
  body{font-family:sans-serif;padding:20px;background:#0d1117;color:#c9d1d9;}
  h1{color:#58a6ff;}
  .card{background:#161b22;padding:15px;margin:10px;border-radius:8px;}
</style></head>
<body>
  <h1>Admin Panel</h1>
  <h2>Users</h2>
  {{range .Users}}<div class="card">{{.ID}} - VIP: {{.VIP}} - joined {{.Joined}}</div>
  {{end}}
  <h2>Wallets</h2>
  {{range $label, $addr := .Wallets}}<div class="card">{{$label}}: {{$addr}}</div>
  {{end}}
</body></html>`))

type adminUser struct {
	ID     string
	VIP    bool
	Joined string
}

type adminPage struct {
	Users   []adminUser
	Wallets map[string]string
}

// handleAdmin renders a read-only snapshot of users and wallets, gated by
// the shared admin secret.
func (s *Server) handleAdmin(w http.ResponseWriter, r *http.Request) {
	password := r.URL.Query().Get("password")
	if s.adminPassword == "" || subtle.ConstantTimeCompare([]byte(password), []byte(s.adminPassword)) != 1 {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	users, err := s.users.All(r.Context())
	if err != nil {
		log.Errorf("failed to load users for admin panel: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	wallets, err := s.content.Wallets(r.Context())
	if err != nil {
		log.Errorf("failed to load wallets for admin panel: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	page := adminPage{Wallets: wallets}
	for _, u := range users {
		page.Users = append(page.Users, adminUser{
			ID:     u.ID,
			VIP:    u.VIP,
			Joined: joinedAgo(u),
		})
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := adminTemplate.Execute(w, page); err != nil {
		log.Errorf("failed to render admin panel: %v", err)
	}
}

func joinedAgo(u types.User) string {
	if u.JoinedAt.IsZero() {
		return "unknown"
	}
	return humanize.RelTime(u.JoinedAt, time.Now(), "ago", "from now")
}
