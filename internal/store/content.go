package store

import (
	"context"

	"crypto-alerts-bot/internal/kvstore"
	"crypto-alerts-bot/internal/types"
)

// Content holds the read-mostly dashboard collections, each a single
// document keyed by collection name.
type Content struct {
	kv kvstore.Store
}

func NewContent(kv kvstore.Store) *Content {
	return &Content{kv: kv}
}

func (s *Content) Signals(ctx context.Context) (map[string]types.Signal, error) {
	out := map[string]types.Signal{}
	err := kvstore.GetJSON(ctx, s.kv, signalsKey, &out, func() { out = map[string]types.Signal{} })
	return out, err
}

func (s *Content) PutSignals(ctx context.Context, signals map[string]types.Signal) error {
	return kvstore.PutJSON(ctx, s.kv, signalsKey, signals)
}

func (s *Content) Memes(ctx context.Context) (map[string]types.MemeCoin, error) {
	out := map[string]types.MemeCoin{}
	err := kvstore.GetJSON(ctx, s.kv, memesKey, &out, func() { out = map[string]types.MemeCoin{} })
	return out, err
}

func (s *Content) PutMemes(ctx context.Context, memes map[string]types.MemeCoin) error {
	return kvstore.PutJSON(ctx, s.kv, memesKey, memes)
}

func (s *Content) Alpha(ctx context.Context) (map[string]types.AlphaCall, error) {
	out := map[string]types.AlphaCall{}
	err := kvstore.GetJSON(ctx, s.kv, alphaKey, &out, func() { out = map[string]types.AlphaCall{} })
	return out, err
}

func (s *Content) PutAlpha(ctx context.Context, alpha map[string]types.AlphaCall) error {
	return kvstore.PutJSON(ctx, s.kv, alphaKey, alpha)
}

func (s *Content) Events(ctx context.Context) (map[string]types.Event, error) {
	out := map[string]types.Event{}
	err := kvstore.GetJSON(ctx, s.kv, eventsKey, &out, func() { out = map[string]types.Event{} })
	return out, err
}

func (s *Content) PutEvents(ctx context.Context, events map[string]types.Event) error {
	return kvstore.PutJSON(ctx, s.kv, eventsKey, events)
}

// Wallets maps a payment label to an address or URL shown on the upgrade
// buttons.
func (s *Content) Wallets(ctx context.Context) (map[string]string, error) {
	out := map[string]string{}
	err := kvstore.GetJSON(ctx, s.kv, walletsKey, &out, func() { out = map[string]string{} })
	return out, err
}

func (s *Content) PutWallets(ctx context.Context, wallets map[string]string) error {
	return kvstore.PutJSON(ctx, s.kv, walletsKey, wallets)
}
