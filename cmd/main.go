package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"crypto-alerts-bot/config"
	"crypto-alerts-bot/internal/alert"
	"crypto-alerts-bot/internal/kvstore"
	"crypto-alerts-bot/internal/notify"
	"crypto-alerts-bot/internal/quote"
	"crypto-alerts-bot/internal/server"
	"crypto-alerts-bot/internal/store"

	"github.com/benbjohnson/clock"
	"github.com/leonelquinteros/gotext"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
)

func main() {
	cfg := config.Load()
	setupLogging(cfg.Debug)
	gotext.Configure("locales", strings.ToLower(cfg.Lang), "default")

	kv, err := openStore(cfg)
	if err != nil {
		log.Fatalf("Failed to open %s store: %v", cfg.StoreBackend, err)
	}
	defer kv.Close()

	users := store.NewUsers(kv)
	alerts := store.NewAlerts(kv, users, cfg.MaxFreeAlerts)
	content := store.NewContent(kv)

	ctx := context.Background()
	if err := store.Seed(ctx, users, alerts, content); err != nil {
		log.Fatalf("Failed to seed demo data: %v", err)
	}

	metrics := alert.NewMetrics()
	metrics.Register(prometheus.DefaultRegisterer)
	if err := store.LoadCounters(ctx, kv, metrics.Counters()); err != nil {
		log.Errorf("Failed to load persisted metrics: %v", err)
	}

	evaluator := alert.NewEvaluator(alerts, newQuoteClient(cfg), newNotifier(cfg), metrics, broadcastChannel(cfg))
	service := alert.NewService(evaluator, clock.New(), cfg.CheckInterval)
	service.Start(ctx)

	go func() {
		for {
			time.Sleep(5 * time.Minute)
			if err := store.SaveCounters(ctx, kv, metrics.Counters()); err != nil {
				log.Errorf("Failed to persist metrics: %v", err)
			}
		}
	}()

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		service.Stop()
		if err := store.SaveCounters(ctx, kv, metrics.Counters()); err != nil {
			log.Errorf("Failed to persist metrics: %v", err)
		}
		kv.Close()
		log.Println("Metrics saved, shutting down...")
		os.Exit(0)
	}()

	srv := server.New(alerts, users, content, cfg.AdminPassword, prometheus.DefaultRegisterer)
	log.Infof("Listening on %s", cfg.ListenAddr)
	if err := http.ListenAndServe(cfg.ListenAddr, srv.Routes()); err != nil {
		log.Fatalf("HTTP server failed: %v", err)
	}
}

func setupLogging(debug bool) {
	log.SetLevel(log.ErrorLevel)
	if debug {
		log.SetLevel(log.DebugLevel)
	}
	log.Debug("Starting crypto alerts bot...")
}

func openStore(cfg config.Config) (kvstore.Store, error) {
	switch cfg.StoreBackend {
	case "bolt":
		return kvstore.OpenBolt(cfg.DBPath)
	case "sqlite":
		return kvstore.OpenSQLite(cfg.DBPath)
	case "redis":
		return kvstore.OpenRedis(cfg.RedisAddr)
	}
	return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
}

func newQuoteClient(cfg config.Config) quote.Client {
	if cfg.QuoteProvider == "coinpaprika" {
		return quote.NewCoinPaprika(cfg.QuoteAPIKey)
	}
	return quote.NewCoinGecko(cfg.QuoteAPI)
}

func newNotifier(cfg config.Config) notify.Notifier {
	if cfg.TelegramBotToken == "" {
		log.Info("No telegram bot token configured, notifications disabled")
		return notify.Noop{}
	}
	notifier, err := notify.NewTelegram(cfg.TelegramBotToken, cfg.Debug)
	if err != nil {
		log.Fatalf("Failed to create telegram notifier: %v", err)
	}
	return notifier
}

func broadcastChannel(cfg config.Config) string {
	if len(cfg.ChannelIDs) == 0 {
		return ""
	}
	return cfg.ChannelIDs[0]
}
