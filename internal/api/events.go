package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stwalsh4118/punsta/internal/logger"
	"github.com/stwalsh4118/punsta/internal/notify"
)

const (
	eventsWriteWait  = 10 * time.Second
	eventsPongWait   = 60 * time.Second
	eventsPingPeriod = (eventsPongWait * 9) / 10
	eventsBufferSize = 32
	eventTypeWelcome = "welcome"
	eventTypeNotify  = "notification"
)

// Event is one message pushed to a websocket client
type Event struct {
	Type    string               `json:"type"`
	Time    time.Time            `json:"time"`
	Payload *notify.Notification `json:"payload,omitempty"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The UI is served separately from the API
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// EventsHandler streams notifications to websocket clients
type EventsHandler struct {
	feed *notify.Feed
}

// NewEventsHandler creates a new events handler instance
func NewEventsHandler(feed *notify.Feed) *EventsHandler {
	return &EventsHandler{feed: feed}
}

// Stream handles GET /api/events
func (h *EventsHandler) Stream(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Log.Warn().
			Err(err).
			Msg("Websocket upgrade failed")
		return
	}
	defer func() { _ = conn.Close() }()

	notifications, unsubscribe := h.feed.Subscribe(eventsBufferSize)
	defer unsubscribe()

	log := logger.Component("events")
	log.Debug().
		Str("client_ip", c.ClientIP()).
		Msg("Events client connected")

	closed := make(chan struct{})
	go readUntilClosed(conn, closed)

	if err := writeEvent(conn, Event{Type: eventTypeWelcome, Time: time.Now().UTC()}); err != nil {
		return
	}

	ping := time.NewTicker(eventsPingPeriod)
	defer ping.Stop()

	for {
		select {
		case n, ok := <-notifications:
			if !ok {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
					time.Now().Add(eventsWriteWait))
				return
			}
			if err := writeEvent(conn, Event{Type: eventTypeNotify, Time: n.CreatedAt, Payload: &n}); err != nil {
				log.Debug().
					Err(err).
					Msg("Events client write failed")
				return
			}
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(eventsWriteWait)); err != nil {
				return
			}
		case <-closed:
			log.Debug().
				Str("client_ip", c.ClientIP()).
				Msg("Events client disconnected")
			return
		}
	}
}

// readUntilClosed drains client frames so pongs and close frames are processed
func readUntilClosed(conn *websocket.Conn, closed chan<- struct{}) {
	defer close(closed)
	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(eventsPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(eventsPongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Log.Debug().
					Err(err).
					Msg("Events client closed unexpectedly")
			}
			return
		}
	}
}

func writeEvent(conn *websocket.Conn, event Event) error {
	_ = conn.SetWriteDeadline(time.Now().Add(eventsWriteWait))
	return conn.WriteJSON(event)
}

// SetupEventRoutes registers the notification stream
func SetupEventRoutes(apiGroup *gin.RouterGroup, feed *notify.Feed) {
	handler := NewEventsHandler(feed)
	apiGroup.GET("/events", handler.Stream)
}
