package store

import (
	"context"
	"testing"

	"crypto-alerts-bot/internal/kvstore"
	"crypto-alerts-bot/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStores(t *testing.T) (*Alerts, *Users) {
	t.Helper()
	kv := kvstore.NewMemory()
	users := NewUsers(kv)
	return NewAlerts(kv, users, 2), users
}

func TestCreateListRoundTrip(t *testing.T) {
	ctx := context.Background()
	alerts, _ := newTestStores(t)

	created, err := alerts.Create(ctx, "u1", "bitcoin", types.Above, 50000)
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "u1", created.OwnerID)
	assert.Equal(t, "bitcoin", created.Asset)
	assert.Equal(t, types.Above, created.Direction)
	assert.Equal(t, 50000.0, created.Threshold)
	assert.False(t, created.Triggered)

	listed, err := alerts.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, created.ID, listed[0].ID)

	require.NoError(t, alerts.Delete(ctx, "u1", created.ID))
	listed, err = alerts.List(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestListUnknownOwnerIsEmpty(t *testing.T) {
	ctx := context.Background()
	alerts, _ := newTestStores(t)

	listed, err := alerts.List(ctx, "nobody")
	require.NoError(t, err)
	assert.NotNil(t, listed)
	assert.Empty(t, listed)
}

func TestDeleteUnknownAlertIsNoop(t *testing.T) {
	ctx := context.Background()
	alerts, _ := newTestStores(t)

	_, err := alerts.Create(ctx, "u1", "bitcoin", types.Above, 50000)
	require.NoError(t, err)

	require.NoError(t, alerts.Delete(ctx, "u1", "no-such-id"))
	require.NoError(t, alerts.Delete(ctx, "ghost", "no-such-id"))

	listed, err := alerts.List(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, listed, 1)
}

func TestQuotaAndVIPUpgrade(t *testing.T) {
	ctx := context.Background()
	alerts, users := newTestStores(t)

	_, err := alerts.Create(ctx, "u1", "bitcoin", types.Above, 50000)
	require.NoError(t, err)
	_, err = alerts.Create(ctx, "u1", "ethereum", types.Below, 1500)
	require.NoError(t, err)

	_, err = alerts.Create(ctx, "u1", "solana", types.Above, 200)
	assert.ErrorIs(t, err, ErrQuotaExceeded)

	user, err := users.UpgradeVIP(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, user.VIP)
	assert.False(t, user.UpgradedAt.IsZero())

	_, err = alerts.Create(ctx, "u1", "solana", types.Above, 200)
	require.NoError(t, err)

	listed, err := alerts.List(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, listed, 3)
}

func TestCreateValidation(t *testing.T) {
	ctx := context.Background()
	alerts, _ := newTestStores(t)

	_, err := alerts.Create(ctx, "", "bitcoin", types.Above, 1)
	assert.ErrorIs(t, err, ErrInvalidAlert)
	_, err = alerts.Create(ctx, "u1", "", types.Above, 1)
	assert.ErrorIs(t, err, ErrInvalidAlert)
	_, err = alerts.Create(ctx, "u1", "bitcoin", types.Direction("sideways"), 1)
	assert.ErrorIs(t, err, ErrInvalidAlert)
	_, err = alerts.Create(ctx, "u1", "bitcoin", types.Above, -5)
	assert.ErrorIs(t, err, ErrInvalidAlert)
}

func TestUpdateRearmsOnThresholdChange(t *testing.T) {
	ctx := context.Background()
	alerts, _ := newTestStores(t)

	created, err := alerts.Create(ctx, "u1", "bitcoin", types.Above, 50000)
	require.NoError(t, err)

	// mark triggered the way the evaluator would
	stored, err := alerts.Load(ctx, "u1")
	require.NoError(t, err)
	stored[0].Triggered = true
	require.NoError(t, alerts.Save(ctx, "u1", stored))

	// asset-only change keeps the triggered state
	asset := "ethereum"
	updated, err := alerts.Update(ctx, "u1", created.ID, AlertPatch{Asset: &asset})
	require.NoError(t, err)
	assert.True(t, updated.Triggered)
	assert.Equal(t, "ethereum", updated.Asset)

	// threshold change re-arms
	threshold := 60000.0
	updated, err = alerts.Update(ctx, "u1", created.ID, AlertPatch{Threshold: &threshold})
	require.NoError(t, err)
	assert.False(t, updated.Triggered)
	assert.Equal(t, 60000.0, updated.Threshold)
}

func TestUpdateRearmsOnDirectionChange(t *testing.T) {
	ctx := context.Background()
	alerts, _ := newTestStores(t)

	created, err := alerts.Create(ctx, "u1", "bitcoin", types.Above, 50000)
	require.NoError(t, err)

	stored, err := alerts.Load(ctx, "u1")
	require.NoError(t, err)
	stored[0].Triggered = true
	require.NoError(t, alerts.Save(ctx, "u1", stored))

	dir := types.Below
	updated, err := alerts.Update(ctx, "u1", created.ID, AlertPatch{Direction: &dir})
	require.NoError(t, err)
	assert.False(t, updated.Triggered)
	assert.Equal(t, types.Below, updated.Direction)
}

func TestUpdateUnknownAlert(t *testing.T) {
	ctx := context.Background()
	alerts, _ := newTestStores(t)

	threshold := 1.0
	_, err := alerts.Update(ctx, "u1", "missing", AlertPatch{Threshold: &threshold})
	assert.ErrorIs(t, err, ErrAlertNotFound)
}

func TestListOwners(t *testing.T) {
	ctx := context.Background()
	alerts, _ := newTestStores(t)

	_, err := alerts.Create(ctx, "u1", "bitcoin", types.Above, 1)
	require.NoError(t, err)
	_, err = alerts.Create(ctx, "u2", "ethereum", types.Below, 1)
	require.NoError(t, err)

	owners, err := alerts.ListOwners(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"u1", "u2"}, owners)

	// emptying a collection drops the owner from the scan
	listed, err := alerts.List(ctx, "u1")
	require.NoError(t, err)
	require.NoError(t, alerts.Delete(ctx, "u1", listed[0].ID))

	owners, err = alerts.ListOwners(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"u2"}, owners)
}
