package sse

import (
	"encoding/json"
	"time"

	"github.com/olahol/melody"
	"github.com/rs/zerolog/log"

	"github.com/pricewise/pricewise-api/internal/models"
)

// SessionProfileKey is the melody session key holding the profile id.
const SessionProfileKey = "profile_id"

// AlertNotifier is the interface the alert watcher uses to emit events.
type AlertNotifier interface {
	NotifyAlert(profileID string, event EventType, alert models.PriceAlert)
}

func newEvent(profileID string, event EventType, alert models.PriceAlert) *AlertEvent {
	return &AlertEvent{
		Event:     event,
		ProfileID: profileID,
		Alert:     alert,
		Timestamp: time.Now(),
	}
}

// HubNotifier implements AlertNotifier using the SSE Hub.
type HubNotifier struct {
	hub *Hub
}

// NewHubNotifier creates a notifier backed by the given Hub.
func NewHubNotifier(hub *Hub) *HubNotifier {
	return &HubNotifier{hub: hub}
}

func (n *HubNotifier) NotifyAlert(profileID string, event EventType, alert models.PriceAlert) {
	if n.hub.ClientCount() == 0 {
		return
	}
	n.hub.Publish(newEvent(profileID, event, alert))
}

// MelodyNotifier implements AlertNotifier over websocket sessions tagged
// with SessionProfileKey.
type MelodyNotifier struct {
	m *melody.Melody
}

// NewMelodyNotifier creates a notifier backed by m.
func NewMelodyNotifier(m *melody.Melody) *MelodyNotifier {
	return &MelodyNotifier{m: m}
}

func (n *MelodyNotifier) NotifyAlert(profileID string, event EventType, alert models.PriceAlert) {
	if n.m.Len() == 0 {
		return
	}
	data, err := json.Marshal(newEvent(profileID, event, alert))
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal websocket event")
		return
	}
	err = n.m.BroadcastFilter(data, func(s *melody.Session) bool {
		id, ok := s.Get(SessionProfileKey)
		return ok && id == profileID
	})
	if err != nil {
		log.Warn().Err(err).Str("profile_id", profileID).Msg("Websocket broadcast failed")
	}
}

// FanoutNotifier forwards every event to each of its notifiers.
type FanoutNotifier []AlertNotifier

func (f FanoutNotifier) NotifyAlert(profileID string, event EventType, alert models.PriceAlert) {
	for _, n := range f {
		n.NotifyAlert(profileID, event, alert)
	}
}
