package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/library-seat-api/internal/models"
	"github.com/noah-isme/library-seat-api/internal/realtime"
	"github.com/noah-isme/library-seat-api/pkg/jobs"
)

type refreshCall struct {
	topics []string
	extra  []realtime.Frame
}

type fakeRefresher struct {
	mu    sync.Mutex
	calls []refreshCall
	err   error
	done  chan struct{}
}

func (f *fakeRefresher) Refresh(_ context.Context, topics []string, extra ...realtime.Frame) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, refreshCall{topics: topics, extra: extra})
	if f.done != nil {
		close(f.done)
		f.done = nil
	}
	return f.err
}

type fakePublisher struct {
	mu   sync.Mutex
	keys []string
	err  error
}

func (p *fakePublisher) Publish(_ context.Context, key string, _ interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.keys = append(p.keys, key)
	return p.err
}

func (p *fakePublisher) Close() error { return nil }

func sampleChange() Change {
	return Change{
		Topics:       realtime.SnapshotTopics,
		Notification: models.Notification{Type: models.NotificationBooking, Message: "New booking: Jane booked Seat-1 for shift Morning", Timestamp: "2025-06-01 09:30:00"},
		RoutingKey:   RouteBookingCreated,
	}
}

func TestBroadcastHandleRefreshesThenMirrors(t *testing.T) {
	hub := &fakeRefresher{}
	pub := &fakePublisher{}
	svc := NewBroadcastService(hub, pub, nil)

	require.NoError(t, svc.Handle(context.Background(), jobs.Job{Payload: sampleChange()}))
	require.Len(t, hub.calls, 1)
	assert.Equal(t, realtime.SnapshotTopics, hub.calls[0].topics)
	require.Len(t, hub.calls[0].extra, 1)
	frame := hub.calls[0].extra[0]
	assert.Equal(t, realtime.EventNotification, frame.Event)
	var note models.Notification
	require.NoError(t, json.Unmarshal(frame.Data, &note))
	assert.Equal(t, models.NotificationBooking, note.Type)
	assert.Equal(t, []string{RouteBookingCreated}, pub.keys)
}

func TestBroadcastHandleIgnoresBrokerFailure(t *testing.T) {
	svc := NewBroadcastService(&fakeRefresher{}, &fakePublisher{err: errors.New("channel closed")}, nil)
	assert.NoError(t, svc.Handle(context.Background(), jobs.Job{Payload: sampleChange()}))
}

func TestBroadcastHandleReturnsRefreshError(t *testing.T) {
	pub := &fakePublisher{}
	svc := NewBroadcastService(&fakeRefresher{err: errors.New("database is locked")}, pub, nil)
	assert.Error(t, svc.Handle(context.Background(), jobs.Job{Payload: sampleChange()}))
	assert.Empty(t, pub.keys)

	assert.Error(t, svc.Handle(context.Background(), jobs.Job{Payload: "nope"}))
}

func TestBroadcastNotifyHandsOffThroughQueue(t *testing.T) {
	hub := &fakeRefresher{done: make(chan struct{})}
	done := hub.done
	svc := NewBroadcastService(hub, nil, nil)
	queue := jobs.NewQueue("broadcast", svc.Handle, jobs.QueueConfig{Workers: 1})
	queue.Start(context.Background())
	defer queue.Stop()
	svc.AttachQueue(queue)

	ctx, cancel := context.WithCancel(context.Background())
	svc.Notify(ctx, sampleChange())
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("change was not dispatched")
	}
}

func TestBroadcastNotifyWithoutQueueRunsInline(t *testing.T) {
	hub := &fakeRefresher{}
	svc := NewBroadcastService(hub, nil, nil)
	svc.Notify(context.Background(), Change{Topics: []string{realtime.EventShifts}})
	require.Len(t, hub.calls, 1)
	assert.Empty(t, hub.calls[0].extra)
}
