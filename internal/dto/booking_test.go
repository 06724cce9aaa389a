package dto

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexAcceptsStringsAndNumbers(t *testing.T) {
	var req BookSeatRequest
	require.NoError(t, json.Unmarshal([]byte(`{"shift_id": 3, "seat_id": " 12 "}`), &req))

	shift, err := req.ShiftID.Int64()
	require.NoError(t, err)
	assert.Equal(t, int64(3), shift)

	seat, err := req.SeatID.Int64()
	require.NoError(t, err)
	assert.Equal(t, int64(12), seat)
}

func TestFlexNullAndEmpty(t *testing.T) {
	var req AddShiftRequest
	require.NoError(t, json.Unmarshal([]byte(`{"name":"Night","max_seats":null}`), &req))
	assert.Equal(t, Flex(""), req.MaxSeats)

	require.NoError(t, json.Unmarshal([]byte(`{"max_seats":""}`), &req))
	_, err := req.MaxSeats.Int64()
	assert.Error(t, err)
}

func TestFlexRejectsObjects(t *testing.T) {
	var req DeleteSeatRequest
	assert.Error(t, json.Unmarshal([]byte(`{"seat_id":{"id":1}}`), &req))
}
