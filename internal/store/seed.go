package store

import (
	"context"
	"time"

	"crypto-alerts-bot/internal/types"

	log "github.com/sirupsen/logrus"
)

// Seed populates any empty collection with demo records so a fresh deploy
// has something to show on the dashboard.
func Seed(ctx context.Context, users *Users, alerts *Alerts, content *Content) error {
	all, err := users.All(ctx)
	if err != nil {
		return err
	}
	if len(all) == 0 {
		if _, err := users.Ensure(ctx, "demoUser"); err != nil {
			return err
		}
	}

	owners, err := alerts.ListOwners(ctx)
	if err != nil {
		return err
	}
	if len(owners) == 0 {
		demo := []types.Alert{{
			ID:        "demoAlert",
			OwnerID:   "demoUser",
			Asset:     "bitcoin",
			Direction: types.Above,
			Threshold: 50000,
			CreatedAt: time.Now().UTC(),
		}}
		if err := alerts.Save(ctx, "demoUser", demo); err != nil {
			return err
		}
	}

	signals, err := content.Signals(ctx)
	if err != nil {
		return err
	}
	if len(signals) == 0 {
		signals["demoSignal"] = types.Signal{Title: "$BTC pump incoming", Type: "High-Signal"}
		if err := content.PutSignals(ctx, signals); err != nil {
			return err
		}
	}

	memes, err := content.Memes(ctx)
	if err != nil {
		return err
	}
	if len(memes) == 0 {
		memes["demoMeme"] = types.MemeCoin{Coin: "DOGE", Volume: "high"}
		if err := content.PutMemes(ctx, memes); err != nil {
			return err
		}
	}

	alpha, err := content.Alpha(ctx)
	if err != nil {
		return err
	}
	if len(alpha) == 0 {
		alpha["demoAlpha"] = types.AlphaCall{Text: "TraderXYZ: $ETH heating up"}
		if err := content.PutAlpha(ctx, alpha); err != nil {
			return err
		}
	}

	events, err := content.Events(ctx)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		events["demoEvent"] = types.Event{Title: "Airdrop $TOKEN", Date: time.Now().Add(24 * time.Hour).UTC()}
		if err := content.PutEvents(ctx, events); err != nil {
			return err
		}
	}

	wallets, err := content.Wallets(ctx)
	if err != nil {
		return err
	}
	if len(wallets) == 0 {
		wallets["paypal"] = "https://paypal.me/example"
		wallets["btc"] = "demoBTCaddress"
		if err := content.PutWallets(ctx, wallets); err != nil {
			return err
		}
	}

	log.Debug("demo data seeded")
	return nil
}
