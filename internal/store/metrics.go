package store

import (
	"context"

	"crypto-alerts-bot/internal/kvstore"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	log "github.com/sirupsen/logrus"
)

// SaveCounters snapshots counter values into the KV store so totals survive
// a restart.
func SaveCounters(ctx context.Context, kv kvstore.Store, counters map[string]prometheus.Counter) error {
	values := make(map[string]float64, len(counters))
	for name, counter := range counters {
		values[name] = counterValue(counter)
	}
	return kvstore.PutJSON(ctx, kv, metricsKey, values)
}

// LoadCounters re-applies persisted totals onto freshly registered counters.
func LoadCounters(ctx context.Context, kv kvstore.Store, counters map[string]prometheus.Counter) error {
	values := map[string]float64{}
	if err := kvstore.GetJSON(ctx, kv, metricsKey, &values, func() { values = map[string]float64{} }); err != nil {
		return err
	}
	for name, counter := range counters {
		if v, ok := values[name]; ok && v > 0 {
			counter.Add(v)
		}
	}
	return nil
}

func counterValue(c prometheus.Counter) float64 {
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		log.Errorf("failed to read counter value: %v", err)
		return 0
	}
	return m.GetCounter().GetValue()
}
