// Package alert implements the scheduled evaluation pass: scan every stored
// alert collection, compare live quotes against thresholds, notify once per
// crossing and persist the triggered state.
package alert

import (
	"context"
	"fmt"
	"runtime"
	"strconv"

	"crypto-alerts-bot/internal/notify"
	"crypto-alerts-bot/internal/quote"
	"crypto-alerts-bot/internal/store"
	"crypto-alerts-bot/lib/helpers"
	"crypto-alerts-bot/lib/translation"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
)

// Metrics counts evaluator activity. Registered once in main, shared with
// the persistence snapshot.
type Metrics struct {
	PassesCompleted   prometheus.Counter
	AlertsEvaluated   prometheus.Counter
	AlertsTriggered   prometheus.Counter
	NotificationsSent prometheus.Counter
	QuoteErrors       prometheus.Counter
}

func NewMetrics() *Metrics {
	counter := func(name, help string) prometheus.Counter {
		return prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "cryptoalerts",
			Subsystem: "bot",
			Name:      name,
			Help:      help,
		})
	}
	return &Metrics{
		PassesCompleted:   counter("passes_completed", "The total number of completed evaluation passes"),
		AlertsEvaluated:   counter("alerts_evaluated", "The total number of armed alerts evaluated"),
		AlertsTriggered:   counter("alerts_triggered", "The total number of alerts that crossed their threshold"),
		NotificationsSent: counter("notifications_sent", "The total number of notifications handed to the sender"),
		QuoteErrors:       counter("quote_errors", "The total number of quote fetches that came back unavailable"),
	}
}

func (m *Metrics) Register(reg prometheus.Registerer) {
	reg.MustRegister(m.PassesCompleted, m.AlertsEvaluated, m.AlertsTriggered, m.NotificationsSent, m.QuoteErrors)
}

// Counters returns the name→counter map used by the KV snapshot.
func (m *Metrics) Counters() map[string]prometheus.Counter {
	return map[string]prometheus.Counter{
		"passes_completed":   m.PassesCompleted,
		"alerts_evaluated":   m.AlertsEvaluated,
		"alerts_triggered":   m.AlertsTriggered,
		"notifications_sent": m.NotificationsSent,
		"quote_errors":       m.QuoteErrors,
	}
}

// Evaluator runs one pass over all stored alerts.
type Evaluator struct {
	alerts    *store.Alerts
	quotes    quote.Client
	notifier  notify.Notifier
	metrics   *Metrics
	channelID string
}

// NewEvaluator wires the pass. channelID is the broadcast destination used
// when an owner id is not itself a chat id.
func NewEvaluator(alerts *store.Alerts, quotes quote.Client, notifier notify.Notifier, metrics *Metrics, channelID string) *Evaluator {
	return &Evaluator{
		alerts:    alerts,
		quotes:    quotes,
		notifier:  notifier,
		metrics:   metrics,
		channelID: channelID,
	}
}

// RunPass scans every owner's collection once. Failures are isolated: a bad
// quote skips one alert, a store error or panic skips one owner, and the
// pass always visits everyone else.
func (e *Evaluator) RunPass(ctx context.Context) {
	log.Debug("starting alert evaluation pass")

	owners, err := e.alerts.ListOwners(ctx)
	if err != nil {
		log.Errorf("failed to list alert owners: %v", err)
		return
	}

	// one quote per asset per pass, shared across owners
	prices := make(map[string]float64)
	unavailable := make(map[string]bool)

	for _, owner := range owners {
		e.processOwner(ctx, owner, prices, unavailable)
	}

	e.metrics.PassesCompleted.Inc()
	log.Debugf("alert evaluation pass completed: %d owners", len(owners))
}

func (e *Evaluator) processOwner(ctx context.Context, owner string, prices map[string]float64, unavailable map[string]bool) {
	defer func() {
		if r := recover(); r != nil {
			stackBuf := make([]byte, 1024)
			stackSize := runtime.Stack(stackBuf, false)
			log.Errorf("recovered from panic while processing owner %s: %v\n%s", owner, r, stackBuf[:stackSize])
		}
	}()

	alerts, err := e.alerts.Load(ctx, owner)
	if err != nil {
		log.Errorf("failed to load alerts for owner %s: %v", owner, err)
		return
	}

	changed := false
	for i := range alerts {
		if alerts[i].Triggered {
			continue
		}
		e.metrics.AlertsEvaluated.Inc()

		asset := alerts[i].Asset
		price, ok := prices[asset]
		if !ok {
			if unavailable[asset] {
				continue
			}
			price, ok = e.quotes.Price(ctx, asset)
			if !ok {
				unavailable[asset] = true
				e.metrics.QuoteErrors.Inc()
				log.Debugf("price unavailable for %s, skipping alert %s", asset, alerts[i].ID)
				continue
			}
			prices[asset] = price
		}

		if !alerts[i].Crossed(price) {
			continue
		}

		e.notifier.Notify(e.destination(owner), e.message(alerts[i].Asset, string(alerts[i].Direction), alerts[i].Threshold, price))
		e.metrics.NotificationsSent.Inc()
		e.metrics.AlertsTriggered.Inc()

		alerts[i].Triggered = true
		changed = true
		log.Infof("alert %s triggered: %s %s %.2f at %.2f", alerts[i].ID, asset, alerts[i].Direction, alerts[i].Threshold, price)
	}

	if !changed {
		return
	}
	if err := e.alerts.Save(ctx, owner, alerts); err != nil {
		log.Errorf("failed to persist alerts for owner %s: %v", owner, err)
	}
}

// destination prefers the owner id when it is a usable chat id, otherwise
// falls back to the configured broadcast channel.
func (e *Evaluator) destination(owner string) string {
	if _, err := strconv.ParseInt(owner, 10, 64); err == nil {
		return owner
	}
	return e.channelID
}

func (e *Evaluator) message(asset, direction string, threshold, price float64) string {
	return fmt.Sprintf(
		"🚨 *%s*\n\n*%s* crossed %s *$%s*\n%s: *$%s*",
		translation.Translate("Price Alert Triggered"),
		helpers.EscapeMarkdownV2(asset),
		helpers.EscapeMarkdownV2(direction),
		helpers.FormatPriceUS(threshold, true),
		translation.Translate("Current price"),
		helpers.FormatPriceUS(price, true),
	)
}
