package realtime

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const minBuffer = 8

// ErrUnknownTopic is returned for topics the source cannot load.
var ErrUnknownTopic = errors.New("unknown topic")

// Source loads the current payload of a topic straight from the store.
type Source interface {
	Load(ctx context.Context, topic string) (interface{}, error)
}

// Recorder receives hub instrumentation. MetricsService implements it.
type Recorder interface {
	SetSubscribers(n int)
	FrameQueued(event string)
	FrameDropped(event string)
}

type nopRecorder struct{}

func (nopRecorder) SetSubscribers(int)  {}
func (nopRecorder) FrameQueued(string)  {}
func (nopRecorder) FrameDropped(string) {}

// Transport writes frames to one connected peer.
type Transport interface {
	WriteFrame(Frame) error
	Close() error
}

// Config tunes the hub.
type Config struct {
	// Buffer is the per-subscriber outbound queue length.
	Buffer int
}

// Hub keeps the process-wide subscriber set. Every send goes through
// publishMu, and payloads are loaded while holding it, so each subscriber
// sees state in commit order and the last frame of a topic it receives is
// never older than one it already got.
type Hub struct {
	source   Source
	buffer   int
	logger   *zap.Logger
	recorder Recorder

	publishMu sync.Mutex

	mu      sync.RWMutex
	clients map[string]*Client
}

// NewHub constructs an empty hub.
func NewHub(source Source, cfg Config, logger *zap.Logger, recorder Recorder) *Hub {
	if cfg.Buffer < minBuffer {
		cfg.Buffer = minBuffer
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &Hub{
		source:   source,
		buffer:   cfg.Buffer,
		logger:   logger,
		recorder: recorder,
		clients:  make(map[string]*Client),
	}
}

// Subscribe registers transport and queues the greeting plus the current
// seats, bookings and stats snapshot ahead of any later broadcast.
func (h *Hub) Subscribe(ctx context.Context, transport Transport) (*Client, error) {
	client := newClient(uuid.NewString(), transport, h)

	h.publishMu.Lock()
	defer h.publishMu.Unlock()

	greeting, err := NewFrame(EventStatus, map[string]string{"msg": "Connected to server"})
	if err != nil {
		return nil, err
	}
	frames, err := h.load(ctx, SnapshotTopics)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}

	h.mu.Lock()
	h.clients[client.id] = client
	count := len(h.clients)
	h.mu.Unlock()

	go client.writePump()
	h.recorder.SetSubscribers(count)
	h.logger.Debug("subscriber connected", zap.String("client_id", client.id), zap.Int("subscribers", count))

	h.send(client, greeting)
	for _, frame := range frames {
		h.send(client, frame)
	}
	return client, nil
}

// Unsubscribe deregisters the client and closes its transport. Calling it
// more than once is harmless.
func (h *Hub) Unsubscribe(client *Client) {
	if client == nil {
		return
	}
	h.mu.Lock()
	current, ok := h.clients[client.id]
	if ok && current == client {
		delete(h.clients, client.id)
	}
	count := len(h.clients)
	h.mu.Unlock()

	if !client.close() {
		return
	}
	h.recorder.SetSubscribers(count)
	h.logger.Debug("subscriber disconnected", zap.String("client_id", client.id), zap.Int("subscribers", count))
}

// Publish sends payload under topic to every current subscriber.
func (h *Hub) Publish(topic string, payload interface{}) error {
	frame, err := NewFrame(topic, payload)
	if err != nil {
		return err
	}
	h.publishMu.Lock()
	defer h.publishMu.Unlock()
	h.broadcast(frame)
	return nil
}

// Refresh reloads topics from the source and broadcasts them as one batch,
// followed by extra frames such as notifications. Nothing is sent when any
// topic fails to load.
func (h *Hub) Refresh(ctx context.Context, topics []string, extra ...Frame) error {
	h.publishMu.Lock()
	defer h.publishMu.Unlock()

	frames, err := h.load(ctx, topics)
	if err != nil {
		return err
	}
	for _, frame := range append(frames, extra...) {
		h.broadcast(frame)
	}
	return nil
}

// PublishOnDemand reloads one topic and sends it to client only.
func (h *Hub) PublishOnDemand(ctx context.Context, client *Client, topic string) error {
	h.publishMu.Lock()
	defer h.publishMu.Unlock()

	frames, err := h.load(ctx, []string{topic})
	if err != nil {
		return err
	}
	h.send(client, frames[0])
	return nil
}

// Count returns the number of connected subscribers.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close disconnects every subscriber.
func (h *Hub) Close() {
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()
	for _, c := range clients {
		h.Unsubscribe(c)
	}
}

func (h *Hub) load(ctx context.Context, topics []string) ([]Frame, error) {
	frames := make([]Frame, 0, len(topics))
	for _, topic := range topics {
		payload, err := h.source.Load(ctx, topic)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", topic, err)
		}
		frame, err := NewFrame(topic, payload)
		if err != nil {
			return nil, err
		}
		frames = append(frames, frame)
	}
	return frames, nil
}

func (h *Hub) broadcast(frame Frame) {
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		h.send(c, frame)
	}
}

func (h *Hub) send(client *Client, frame Frame) {
	if client.enqueue(frame) {
		h.recorder.FrameQueued(frame.Event)
		return
	}
	h.recorder.FrameDropped(frame.Event)
	h.logger.Warn("frame dropped", zap.String("client_id", client.id), zap.String("event", frame.Event))
}
