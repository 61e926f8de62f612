package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/olahol/melody"
	"github.com/rs/zerolog/log"

	"github.com/pricewise/pricewise-api/internal/middleware"
	"github.com/pricewise/pricewise-api/internal/sse"
)

// WSHandler streams alert events over websockets.
type WSHandler struct {
	m *melody.Melody
}

// NewMelody configures the websocket hub shared by WSHandler and
// sse.MelodyNotifier.
func NewMelody() *melody.Melody {
	m := melody.New()
	m.Config.MaxMessageSize = 4096
	m.Config.PingPeriod = 30 * time.Second
	m.Config.PongWait = 60 * time.Second

	m.HandleConnect(func(s *melody.Session) {
		pid, _ := s.Get(sse.SessionProfileKey)
		log.Info().Interface("profile_id", pid).Int("total_sessions", m.Len()).Msg("Websocket client connected")
	})
	m.HandleDisconnect(func(s *melody.Session) {
		pid, _ := s.Get(sse.SessionProfileKey)
		log.Info().Interface("profile_id", pid).Msg("Websocket client disconnected")
	})
	m.HandleError(func(s *melody.Session, err error) {
		log.Warn().Err(err).Msg("Websocket error")
	})
	return m
}

// NewWSHandler constructs a WSHandler.
func NewWSHandler(m *melody.Melody) *WSHandler {
	return &WSHandler{m: m}
}

// Stream upgrades GET /v1/me/ws and tags the session with the profile id.
func (h *WSHandler) Stream(c *gin.Context) {
	keys := map[string]any{sse.SessionProfileKey: middleware.ProfileID(c)}
	if err := h.m.HandleRequestWithKeys(c.Writer, c.Request, keys); err != nil {
		log.Warn().Err(err).Msg("Failed to upgrade websocket")
	}
}
