package store

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"time"

	"crypto-alerts-bot/internal/kvstore"
	"crypto-alerts-bot/internal/types"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Users holds account records, one document per user.
type Users struct {
	kv kvstore.Store
}

func NewUsers(kv kvstore.Store) *Users {
	return &Users{kv: kv}
}

// Get returns the user or kvstore.ErrNotFound.
func (s *Users) Get(ctx context.Context, id string) (types.User, error) {
	raw, err := s.kv.Get(ctx, userKey(id))
	if err != nil {
		return types.User{}, err
	}
	var user types.User
	if err := json.Unmarshal(raw, &user); err != nil {
		return types.User{}, errors.Wrapf(err, "corrupt user record %s", id)
	}
	return user, nil
}

// Ensure returns the user, creating a fresh non-VIP record when absent.
func (s *Users) Ensure(ctx context.Context, id string) (types.User, error) {
	var user types.User
	err := kvstore.GetJSON(ctx, s.kv, userKey(id), &user, func() {
		user = types.User{ID: id, JoinedAt: time.Now().UTC()}
	})
	if err != nil {
		return types.User{}, err
	}
	if user.ID == "" {
		user.ID = id
	}
	if user.JoinedAt.IsZero() {
		user.JoinedAt = time.Now().UTC()
	}
	return user, kvstore.PutJSON(ctx, s.kv, userKey(id), user)
}

// UpgradeVIP flips the VIP flag. UpgradedAt is set once, on the first upgrade.
func (s *Users) UpgradeVIP(ctx context.Context, id string) (types.User, error) {
	user, err := s.Ensure(ctx, id)
	if err != nil {
		return types.User{}, err
	}
	if user.VIP {
		return user, nil
	}
	user.VIP = true
	user.UpgradedAt = time.Now().UTC()
	if err := kvstore.PutJSON(ctx, s.kv, userKey(id), user); err != nil {
		return types.User{}, err
	}
	log.Infof("user %s upgraded to VIP", id)
	return user, nil
}

// All returns every stored user, sorted by id. Used by the admin panel.
func (s *Users) All(ctx context.Context) ([]types.User, error) {
	keys, err := s.kv.List(ctx, usersPrefix)
	if err != nil {
		return nil, err
	}

	users := make([]types.User, 0, len(keys))
	for _, k := range keys {
		var user types.User
		id := strings.TrimPrefix(k, usersPrefix)
		if err := kvstore.GetJSON(ctx, s.kv, k, &user, func() { user = types.User{ID: id} }); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}
