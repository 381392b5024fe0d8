package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"crypto-alerts-bot/internal/kvstore"
	"crypto-alerts-bot/internal/store"
	"crypto-alerts-bot/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*Server, *store.Alerts, *store.Users, *store.Content) {
	t.Helper()
	kv := kvstore.NewMemory()
	users := store.NewUsers(kv)
	alerts := store.NewAlerts(kv, users, 2)
	content := store.NewContent(kv)
	srv := New(alerts, users, content, "s3cret", nil)
	return srv, alerts, users, content
}

func doRequest(t *testing.T, srv *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)
	return rec
}

func TestCreateAndListAlerts(t *testing.T) {
	srv, _, _, _ := newTestServer(t)

	rec := doRequest(t, srv, http.MethodPost, "/alerts",
		`{"ownerId":"u1","asset":"bitcoin","direction":"above","threshold":50000}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created types.Alert
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.NotEmpty(t, created.ID)
	assert.False(t, created.Triggered)

	rec = doRequest(t, srv, http.MethodGet, "/alerts?userId=u1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var listed []types.Alert
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, created.ID, listed[0].ID)
}

func TestListAlertsEmptyIsArray(t *testing.T) {
	srv, _, _, _ := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/alerts?userId=nobody", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))
}

func TestCreateAlertMalformed(t *testing.T) {
	srv, _, _, _ := newTestServer(t)

	for name, body := range map[string]string{
		"bad json":          `{not json`,
		"missing owner":     `{"asset":"bitcoin","direction":"above","threshold":1}`,
		"missing threshold": `{"ownerId":"u1","asset":"bitcoin","direction":"above"}`,
		"bad direction":     `{"ownerId":"u1","asset":"bitcoin","direction":"sideways","threshold":1}`,
	} {
		t.Run(name, func(t *testing.T) {
			rec := doRequest(t, srv, http.MethodPost, "/alerts", body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestQuotaExceededResponse(t *testing.T) {
	srv, _, _, _ := newTestServer(t)

	for i := 0; i < 2; i++ {
		rec := doRequest(t, srv, http.MethodPost, "/alerts",
			fmt.Sprintf(`{"ownerId":"u1","asset":"coin%d","direction":"above","threshold":1}`, i))
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := doRequest(t, srv, http.MethodPost, "/alerts",
		`{"ownerId":"u1","asset":"coin3","direction":"above","threshold":1}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"error":"quota exceeded"}`, rec.Body.String())

	// VIP upgrade lifts the quota
	rec = doRequest(t, srv, http.MethodPost, "/upgrade-vip?userId=u1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"vip":true}`, rec.Body.String())

	rec = doRequest(t, srv, http.MethodPost, "/alerts",
		`{"ownerId":"u1","asset":"coin3","direction":"above","threshold":1}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestDeleteAlert(t *testing.T) {
	srv, alerts, _, _ := newTestServer(t)

	created, err := alerts.Create(context.Background(), "u1", "bitcoin", types.Above, 1)
	require.NoError(t, err)

	rec := doRequest(t, srv, http.MethodDelete, "/alerts",
		fmt.Sprintf(`{"ownerId":"u1","alertId":"%s"}`, created.ID))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())

	// absent alert still succeeds
	rec = doRequest(t, srv, http.MethodDelete, "/alerts",
		`{"ownerId":"u1","alertId":"ghost"}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, srv, http.MethodGet, "/alerts?userId=u1", "")
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))
}

func TestUpdateAlert(t *testing.T) {
	srv, alerts, _, _ := newTestServer(t)

	created, err := alerts.Create(context.Background(), "u1", "bitcoin", types.Above, 50000)
	require.NoError(t, err)

	rec := doRequest(t, srv, http.MethodPatch, "/alerts",
		fmt.Sprintf(`{"ownerId":"u1","alertId":"%s","threshold":60000}`, created.ID))
	require.Equal(t, http.StatusOK, rec.Code)

	var updated types.Alert
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, 60000.0, updated.Threshold)

	rec = doRequest(t, srv, http.MethodPatch, "/alerts",
		`{"ownerId":"u1","alertId":"ghost","threshold":1}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpgradeVIPValidation(t *testing.T) {
	srv, _, _, _ := newTestServer(t)

	rec := doRequest(t, srv, http.MethodPost, "/upgrade-vip", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, srv, http.MethodGet, "/upgrade-vip?userId=u1", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestAdminAuth(t *testing.T) {
	srv, _, users, content := newTestServer(t)

	ctx := context.Background()
	_, err := users.Ensure(ctx, "u1")
	require.NoError(t, err)
	require.NoError(t, content.PutWallets(ctx, map[string]string{"btc": "addr1"}))

	rec := doRequest(t, srv, http.MethodGet, "/admin", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doRequest(t, srv, http.MethodGet, "/admin?password=wrong", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doRequest(t, srv, http.MethodGet, "/admin?password=s3cret", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "u1")
	assert.Contains(t, rec.Body.String(), "addr1")
}

func TestDashboardPayload(t *testing.T) {
	srv, alerts, users, content := newTestServer(t)

	ctx := context.Background()
	require.NoError(t, store.Seed(ctx, users, alerts, content))

	rec := doRequest(t, srv, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var payload struct {
		User struct {
			ID  string `json:"id"`
			VIP bool   `json:"vip"`
		} `json:"user"`
		Alerts         []types.Alert     `json:"alerts"`
		Signals        []types.Signal    `json:"signals"`
		UpgradeButtons map[string]string `json:"upgradeButtons"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, "demoUser", payload.User.ID)
	assert.False(t, payload.User.VIP)
	require.Len(t, payload.Alerts, 1)
	assert.Equal(t, "bitcoin", payload.Alerts[0].Asset)
	require.Len(t, payload.Signals, 1)
	assert.Equal(t, "$BTC pump incoming", payload.Signals[0].Title)
	assert.Contains(t, payload.UpgradeButtons, "paypal")
}

func TestUnknownPath(t *testing.T) {
	srv, _, _, _ := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
