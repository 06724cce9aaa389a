// Package realtime fans state changes out to connected dashboards.
package realtime

import (
	"encoding/json"
	"fmt"
)

// Server to client events.
const (
	EventSeats        = "seats_update"
	EventBookings     = "bookings_update"
	EventStats        = "stats_update"
	EventShifts       = "shifts_update"
	EventNotification = "notification"
	EventStatus       = "status"
)

// Client to server refresh requests.
const (
	RequestSeats    = "request_seats_update"
	RequestBookings = "request_bookings_update"
	RequestStats    = "request_stats_update"
)

// SnapshotTopics are pushed to every subscriber when it connects.
var SnapshotTopics = []string{EventSeats, EventBookings, EventStats}

var requestTopics = map[string]string{
	RequestSeats:    EventSeats,
	RequestBookings: EventBookings,
	RequestStats:    EventStats,
}

// TopicForRequest maps a refresh request to the topic it asks for.
func TopicForRequest(event string) (string, bool) {
	topic, ok := requestTopics[event]
	return topic, ok
}

// Frame is one pushed message. Data is encoded once and shared by every
// subscriber the frame goes to.
type Frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// NewFrame encodes payload under event.
func NewFrame(event string, payload interface{}) (Frame, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Frame{}, fmt.Errorf("encode %s frame: %w", event, err)
	}
	return Frame{Event: event, Data: data}, nil
}

// inbound is what clients send; data is ignored for refresh requests.
type inbound struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}
