package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/library-seat-api/internal/models"
	"github.com/noah-isme/library-seat-api/internal/realtime"
	"github.com/noah-isme/library-seat-api/pkg/events"
	"github.com/noah-isme/library-seat-api/pkg/jobs"
)

const (
	broadcastJobType = "broadcast"
	handoffTimeout   = 2 * time.Second
)

// Change describes what a committed mutation touched.
type Change struct {
	// Topics are the projections to recompute and push.
	Topics       []string
	Notification models.Notification
	// RoutingKey names the event on the external broker.
	RoutingKey string
}

// ChangeNotifier receives committed changes. Notify must not block the caller
// beyond handing the change off.
type ChangeNotifier interface {
	Notify(ctx context.Context, change Change)
}

type refresher interface {
	Refresh(ctx context.Context, topics []string, extra ...realtime.Frame) error
}

type jobQueue interface {
	Enqueue(ctx context.Context, job jobs.Job) error
}

// BroadcastService turns committed changes into hub refreshes. Changes are
// queued and handled by the dispatcher so the booking engine never waits for
// snapshot recompute or fan-out.
type BroadcastService struct {
	hub       refresher
	queue     jobQueue
	publisher events.Publisher
	logger    *zap.Logger
}

// NewBroadcastService constructs the broadcaster. Call AttachQueue before
// Notify; until then changes are handled inline.
func NewBroadcastService(hub refresher, publisher events.Publisher, logger *zap.Logger) *BroadcastService {
	if publisher == nil {
		publisher = events.Nop{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BroadcastService{hub: hub, publisher: publisher, logger: logger}
}

// AttachQueue routes Notify through queue.
func (s *BroadcastService) AttachQueue(queue jobQueue) {
	s.queue = queue
}

// Notify implements ChangeNotifier.
func (s *BroadcastService) Notify(ctx context.Context, change Change) {
	if s.queue == nil {
		if err := s.Handle(ctx, jobs.Job{Type: broadcastJobType, Payload: change}); err != nil {
			s.logger.Error("broadcast failed", zap.Strings("topics", change.Topics), zap.Error(err))
		}
		return
	}
	handoffCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), handoffTimeout)
	defer cancel()
	if err := s.queue.Enqueue(handoffCtx, jobs.Job{Type: broadcastJobType, Payload: change}); err != nil {
		s.logger.Warn("broadcast handoff failed", zap.Strings("topics", change.Topics), zap.Error(err))
	}
}

// Handle is the dispatcher job handler. Broker failures are logged only, so a
// retry never pushes the same batch twice.
func (s *BroadcastService) Handle(ctx context.Context, job jobs.Job) error {
	change, ok := job.Payload.(Change)
	if !ok {
		return fmt.Errorf("unexpected broadcast payload %T", job.Payload)
	}

	var extra []realtime.Frame
	if change.Notification.Message != "" {
		frame, err := realtime.NewFrame(realtime.EventNotification, change.Notification)
		if err != nil {
			return err
		}
		extra = append(extra, frame)
	}
	if err := s.hub.Refresh(ctx, change.Topics, extra...); err != nil {
		return fmt.Errorf("refresh %v: %w", change.Topics, err)
	}

	if change.RoutingKey != "" {
		if err := s.publisher.Publish(ctx, change.RoutingKey, change.Notification); err != nil {
			s.logger.Warn("event publish failed", zap.String("routing_key", change.RoutingKey), zap.Error(err))
		}
	}
	return nil
}
