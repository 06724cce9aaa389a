package realtime

import (
	"sync"

	"go.uber.org/zap"
)

// Client is one registered subscriber. Frames are queued and written by a
// dedicated goroutine so a slow peer never blocks a publisher.
type Client struct {
	id        string
	transport Transport
	hub       *Hub

	out       chan Frame
	done      chan struct{}
	closeOnce sync.Once
}

func newClient(id string, transport Transport, hub *Hub) *Client {
	return &Client{
		id:        id,
		transport: transport,
		hub:       hub,
		out:       make(chan Frame, hub.buffer),
		done:      make(chan struct{}),
	}
}

// ID identifies the subscriber in logs.
func (c *Client) ID() string { return c.id }

// Done is closed once the client has been unsubscribed.
func (c *Client) Done() <-chan struct{} { return c.done }

// enqueue never blocks; it reports false when the frame was dropped.
func (c *Client) enqueue(frame Frame) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.out <- frame:
		return true
	default:
		return false
	}
}

func (c *Client) writePump() {
	for {
		select {
		case <-c.done:
			return
		case frame := <-c.out:
			if err := c.transport.WriteFrame(frame); err != nil {
				c.hub.logger.Debug("subscriber write failed", zap.String("client_id", c.id), zap.Error(err))
				c.hub.Unsubscribe(c)
				return
			}
		}
	}
}

// close reports whether this call performed the close.
func (c *Client) close() bool {
	closed := false
	c.closeOnce.Do(func() {
		close(c.done)
		_ = c.transport.Close()
		closed = true
	})
	return closed
}
