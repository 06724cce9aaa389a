package realtime

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/websocket"
)

const maxDecodeErrors = 5

// WebsocketConfig tunes the websocket endpoint.
type WebsocketConfig struct {
	WriteTimeout time.Duration
	// AllowOrigin decides whether a browser origin may connect. Nil allows all.
	AllowOrigin func(origin string) bool
}

type wsTransport struct {
	conn         *websocket.Conn
	writeTimeout time.Duration

	mu      sync.Mutex
	encoder *json.Encoder
}

func newWSTransport(conn *websocket.Conn, writeTimeout time.Duration) *wsTransport {
	return &wsTransport{conn: conn, writeTimeout: writeTimeout, encoder: json.NewEncoder(conn)}
}

func (t *wsTransport) WriteFrame(frame Frame) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.writeTimeout > 0 {
		if err := t.conn.SetWriteDeadline(time.Now().Add(t.writeTimeout)); err != nil {
			return err
		}
	}
	return t.encoder.Encode(frame)
}

func (t *wsTransport) Close() error {
	return t.conn.Close()
}

// NewWebsocketHandler serves the push channel. Each connection is subscribed
// to hub and may ask for single-topic refreshes.
func NewWebsocketHandler(hub *Hub, cfg WebsocketConfig) http.Handler {
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 5 * time.Second
	}
	return websocket.Server{
		Handshake: func(config *websocket.Config, r *http.Request) error {
			origin := r.Header.Get("Origin")
			if cfg.AllowOrigin != nil && origin != "" && !cfg.AllowOrigin(origin) {
				return fmt.Errorf("origin %q not allowed", origin)
			}
			if origin != "" {
				parsed, err := websocket.Origin(config, r)
				if err == nil {
					config.Origin = parsed
				}
			}
			return nil
		},
		Handler: func(conn *websocket.Conn) {
			hub.serveConn(conn, cfg)
		},
	}
}

func (h *Hub) serveConn(conn *websocket.Conn, cfg WebsocketConfig) {
	ctx := conn.Request().Context()
	client, err := h.Subscribe(ctx, newWSTransport(conn, cfg.WriteTimeout))
	if err != nil {
		h.logger.Error("subscribe failed", zap.Error(err))
		_ = conn.Close()
		return
	}
	defer h.Unsubscribe(client)

	decoder := json.NewDecoder(conn)
	decodeErrors := 0
	for {
		var msg inbound
		if err := decoder.Decode(&msg); err != nil {
			if errors.Is(err, io.EOF) || isClosed(client) {
				return
			}
			var syntaxErr *json.SyntaxError
			var typeErr *json.UnmarshalTypeError
			if !errors.As(err, &syntaxErr) && !errors.As(err, &typeErr) {
				return
			}
			decodeErrors++
			if decodeErrors >= maxDecodeErrors {
				h.logger.Warn("closing subscriber after malformed frames", zap.String("client_id", client.id))
				return
			}
			decoder = json.NewDecoder(conn)
			continue
		}
		decodeErrors = 0

		topic, ok := TopicForRequest(msg.Event)
		if !ok {
			h.logger.Debug("ignoring client event", zap.String("client_id", client.id), zap.String("event", msg.Event))
			continue
		}
		if err := h.PublishOnDemand(ctx, client, topic); err != nil {
			h.logger.Error("on-demand refresh failed", zap.String("client_id", client.id), zap.String("topic", topic), zap.Error(err))
		}
	}
}

func isClosed(c *Client) bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}
