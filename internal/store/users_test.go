package store

import (
	"context"
	"testing"

	"crypto-alerts-bot/internal/kvstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureCreatesOnce(t *testing.T) {
	ctx := context.Background()
	users := NewUsers(kvstore.NewMemory())

	first, err := users.Ensure(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", first.ID)
	assert.False(t, first.VIP)
	assert.False(t, first.JoinedAt.IsZero())

	again, err := users.Ensure(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, first.JoinedAt, again.JoinedAt)
}

func TestGetMissingUser(t *testing.T) {
	ctx := context.Background()
	users := NewUsers(kvstore.NewMemory())

	_, err := users.Get(ctx, "ghost")
	assert.ErrorIs(t, err, kvstore.ErrNotFound)
}

func TestUpgradeVIPIsIdempotent(t *testing.T) {
	ctx := context.Background()
	users := NewUsers(kvstore.NewMemory())

	upgraded, err := users.UpgradeVIP(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, upgraded.VIP)
	firstUpgrade := upgraded.UpgradedAt

	upgraded, err = users.UpgradeVIP(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, upgraded.VIP)
	assert.Equal(t, firstUpgrade, upgraded.UpgradedAt)
}

func TestAllSorted(t *testing.T) {
	ctx := context.Background()
	users := NewUsers(kvstore.NewMemory())

	for _, id := range []string{"charlie", "alice", "bob"} {
		_, err := users.Ensure(ctx, id)
		require.NoError(t, err)
	}

	all, err := users.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "alice", all[0].ID)
	assert.Equal(t, "bob", all[1].ID)
	assert.Equal(t, "charlie", all[2].ID)
}
