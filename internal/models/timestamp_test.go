package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimestampScan(t *testing.T) {
	var ts Timestamp
	require.NoError(t, ts.Scan("2025-06-01 09:30:00"))
	assert.Equal(t, time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC), ts.Time)

	now := time.Now()
	require.NoError(t, ts.Scan(now))
	assert.True(t, now.Equal(ts.Time))

	require.NoError(t, ts.Scan([]byte("2025-06-01T10:00:00Z")))
	assert.Equal(t, 10, ts.Hour())

	require.NoError(t, ts.Scan(nil))
	assert.True(t, ts.IsZero())

	assert.Error(t, ts.Scan("yesterday"))
	assert.Error(t, ts.Scan(42))
}

func TestNewNotificationFormat(t *testing.T) {
	n := NewNotification(NotificationInfo, "New seat added: Seat-21", time.Date(2025, 6, 1, 8, 5, 9, 0, time.UTC))
	assert.Equal(t, "2025-06-01 08:05:09", n.Timestamp)
	assert.Equal(t, NotificationInfo, n.Type)
}
