package worker

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/pricewise/pricewise-api/internal/models"
	"github.com/pricewise/pricewise-api/internal/sse"
)

// AlertSource lists active profiles and resolves their alerts.
type AlertSource interface {
	LoadedProfiles() []string
	Alerts(ctx context.Context, profileID string) ([]models.PriceAlert, error)
}

// AlertWatchWorker periodically re-resolves price alerts and notifies when an
// alert first enters the dropped or out-of-stock status.
type AlertWatchWorker struct {
	source   AlertSource
	notifier sse.AlertNotifier
	interval time.Duration

	mu   sync.Mutex
	seen map[string]map[int]models.AlertStatus
}

// NewAlertWatchWorker constructs an AlertWatchWorker.
func NewAlertWatchWorker(source AlertSource, notifier sse.AlertNotifier, interval time.Duration) *AlertWatchWorker {
	return &AlertWatchWorker{
		source:   source,
		notifier: notifier,
		interval: interval,
		seen:     make(map[string]map[int]models.AlertStatus),
	}
}

// Start begins the periodic check loop and listens for context cancellation.
func (w *AlertWatchWorker) Start(ctx context.Context) {
	log.Info().Dur("interval", w.interval).Msg("Starting alert watch worker")

	w.run(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.run(ctx)
		case <-ctx.Done():
			log.Info().Msg("Alert watch worker stopped")
			return
		}
	}
}

func (w *AlertWatchWorker) run(ctx context.Context) {
	start := time.Now()
	profiles := w.source.LoadedProfiles()
	sent := 0
	for _, pid := range profiles {
		if ctx.Err() != nil {
			return
		}
		n, err := w.CheckProfile(ctx, pid)
		if err != nil {
			log.Error().Err(err).Str("profile_id", pid).Msg("Failed to check price alerts")
			continue
		}
		sent += n
	}
	log.Debug().
		Int("profiles", len(profiles)).
		Int("events", sent).
		Dur("duration", time.Since(start)).
		Msg("Alert check completed")
}

// CheckProfile resolves one profile's alerts and returns how many events it
// emitted. Statuses are remembered so an alert staying dropped does not
// notify again; returning to monitoring or being removed resets it.
func (w *AlertWatchWorker) CheckProfile(ctx context.Context, profileID string) (int, error) {
	alerts, err := w.source.Alerts(ctx, profileID)
	if err != nil {
		return 0, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	prev := w.seen[profileID]
	next := make(map[int]models.AlertStatus, len(alerts))
	sent := 0
	for _, a := range alerts {
		next[a.ProductID] = a.Status
		if prev[a.ProductID] == a.Status {
			continue
		}
		event, ok := sse.EventFor(a.Status)
		if !ok {
			continue
		}
		log.Info().
			Str("profile_id", profileID).
			Int("product_id", a.ProductID).
			Str("event", string(event)).
			Float64("price", a.CurrentPrice).
			Float64("target", a.TargetPrice).
			Msg("Price alert triggered")
		w.notifier.NotifyAlert(profileID, event, a)
		sent++
	}
	w.seen[profileID] = next
	return sent, nil
}
