package store

import (
	"context"
	"strings"
	"time"

	"crypto-alerts-bot/internal/kvstore"
	"crypto-alerts-bot/internal/types"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

var (
	// ErrQuotaExceeded rejects a creation that would push a non-VIP owner
	// past the free alert limit.
	ErrQuotaExceeded = errors.New("quota exceeded")

	// ErrAlertNotFound is returned by Update for an unknown alert id.
	ErrAlertNotFound = errors.New("alert not found")

	// ErrInvalidAlert rejects a creation or update with bad fields.
	ErrInvalidAlert = errors.New("invalid alert")
)

// Alerts holds per-owner alert collections, one JSON document per owner.
// Every operation is a read-modify-write of the whole collection.
type Alerts struct {
	kv      kvstore.Store
	users   *Users
	maxFree int
}

func NewAlerts(kv kvstore.Store, users *Users, maxFree int) *Alerts {
	return &Alerts{kv: kv, users: users, maxFree: maxFree}
}

func (s *Alerts) load(ctx context.Context, ownerID string) ([]types.Alert, error) {
	var alerts []types.Alert
	err := kvstore.GetJSON(ctx, s.kv, alertsKey(ownerID), &alerts, func() { alerts = nil })
	return alerts, err
}

// Save writes the owner's whole collection back in one put. An empty
// collection removes the key so ListOwners stays clean.
func (s *Alerts) Save(ctx context.Context, ownerID string, alerts []types.Alert) error {
	if len(alerts) == 0 {
		return s.kv.Delete(ctx, alertsKey(ownerID))
	}
	return kvstore.PutJSON(ctx, s.kv, alertsKey(ownerID), alerts)
}

// Create validates and appends a new armed alert, enforcing the free quota
// for non-VIP owners. The quota counts all of the owner's alerts, triggered
// or not.
func (s *Alerts) Create(ctx context.Context, ownerID, asset string, direction types.Direction, threshold float64) (types.Alert, error) {
	asset = strings.TrimSpace(strings.ToLower(asset))
	if ownerID == "" || asset == "" || !direction.Valid() || threshold < 0 {
		return types.Alert{}, ErrInvalidAlert
	}

	alerts, err := s.load(ctx, ownerID)
	if err != nil {
		return types.Alert{}, err
	}

	user, err := s.users.Ensure(ctx, ownerID)
	if err != nil {
		return types.Alert{}, err
	}
	if !user.VIP && len(alerts) >= s.maxFree {
		return types.Alert{}, ErrQuotaExceeded
	}

	alert := types.Alert{
		ID:        uuid.New().String(),
		OwnerID:   ownerID,
		Asset:     asset,
		Direction: direction,
		Threshold: threshold,
		CreatedAt: time.Now().UTC(),
	}
	alerts = append(alerts, alert)
	if err := s.Save(ctx, ownerID, alerts); err != nil {
		return types.Alert{}, err
	}

	log.Debugf("alert created: owner=%s asset=%s %s %.2f", ownerID, asset, direction, threshold)
	return alert, nil
}

// List returns the owner's alerts in insertion order, empty when none exist.
func (s *Alerts) List(ctx context.Context, ownerID string) ([]types.Alert, error) {
	alerts, err := s.load(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if alerts == nil {
		alerts = []types.Alert{}
	}
	return alerts, nil
}

// Delete removes one alert. Deleting an unknown id is a no-op.
func (s *Alerts) Delete(ctx context.Context, ownerID, alertID string) error {
	alerts, err := s.load(ctx, ownerID)
	if err != nil {
		return err
	}

	kept := alerts[:0]
	for _, a := range alerts {
		if a.ID != alertID {
			kept = append(kept, a)
		}
	}
	if len(kept) == len(alerts) {
		return nil
	}
	return s.Save(ctx, ownerID, kept)
}

// AlertPatch carries the mutable fields of an update; nil means unchanged.
type AlertPatch struct {
	Asset     *string
	Direction *types.Direction
	Threshold *float64
}

// Update patches an existing alert. Changing threshold or direction re-arms
// the alert: a fresh target is a fresh watch.
func (s *Alerts) Update(ctx context.Context, ownerID, alertID string, patch AlertPatch) (types.Alert, error) {
	alerts, err := s.load(ctx, ownerID)
	if err != nil {
		return types.Alert{}, err
	}

	for i := range alerts {
		if alerts[i].ID != alertID {
			continue
		}
		if patch.Asset != nil {
			asset := strings.TrimSpace(strings.ToLower(*patch.Asset))
			if asset == "" {
				return types.Alert{}, ErrInvalidAlert
			}
			alerts[i].Asset = asset
		}
		if patch.Direction != nil {
			if !patch.Direction.Valid() {
				return types.Alert{}, ErrInvalidAlert
			}
			if alerts[i].Direction != *patch.Direction {
				alerts[i].Triggered = false
			}
			alerts[i].Direction = *patch.Direction
		}
		if patch.Threshold != nil {
			if *patch.Threshold < 0 {
				return types.Alert{}, ErrInvalidAlert
			}
			if alerts[i].Threshold != *patch.Threshold {
				alerts[i].Triggered = false
			}
			alerts[i].Threshold = *patch.Threshold
		}
		if err := s.Save(ctx, ownerID, alerts); err != nil {
			return types.Alert{}, err
		}
		return alerts[i], nil
	}
	return types.Alert{}, ErrAlertNotFound
}

// ListOwners enumerates every owner holding a stored collection. The
// evaluator uses this for its full scan.
func (s *Alerts) ListOwners(ctx context.Context) ([]string, error) {
	keys, err := s.kv.List(ctx, alertsPrefix)
	if err != nil {
		return nil, errors.Wrap(err, "could not list alert owners")
	}
	owners := make([]string, 0, len(keys))
	for _, k := range keys {
		owners = append(owners, strings.TrimPrefix(k, alertsPrefix))
	}
	return owners, nil
}

// Load exposes the raw collection for the evaluator's read-modify-write pass.
func (s *Alerts) Load(ctx context.Context, ownerID string) ([]types.Alert, error) {
	return s.load(ctx, ownerID)
}
