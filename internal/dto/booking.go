package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Flex accepts either a JSON string or a JSON number. Dashboard forms post
// select values as strings while scripted clients send numbers.
type Flex string

// UnmarshalJSON implements json.Unmarshaler.
func (f *Flex) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = Flex(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("expected string or number: %w", err)
	}
	*f = Flex(n.String())
	return nil
}

// Int64 parses the value as a base-10 integer.
func (f Flex) Int64() (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(string(f)), 10, 64)
}

// BookSeatRequest is the payload of POST /book-seat.
type BookSeatRequest struct {
	StudentName  string `json:"student_name" validate:"required"`
	StudentEmail string `json:"student_email" validate:"required,email"`
	StudentPhone string `json:"student_phone"`
	ShiftID      Flex   `json:"shift_id" validate:"required"`
	SeatID       Flex   `json:"seat_id" validate:"required"`
	BookingDate  string `json:"booking_date" validate:"required,datetime=2006-01-02"`
}

// CancelBookingRequest is the payload of POST /cancel-booking.
type CancelBookingRequest struct {
	BookingID Flex `json:"booking_id" validate:"required"`
}

// AddShiftRequest is the payload of POST /add-shift.
type AddShiftRequest struct {
	Name      string `json:"name" validate:"required"`
	StartTime string `json:"start_time" validate:"required"`
	EndTime   string `json:"end_time" validate:"required"`
	MaxSeats  Flex   `json:"max_seats" validate:"required"`
}

// DeleteShiftRequest is the payload of POST /delete-shift.
type DeleteShiftRequest struct {
	ShiftID Flex `json:"shift_id" validate:"required"`
}

// AddSeatRequest is the payload of POST /add-seat.
type AddSeatRequest struct {
	SeatNumber string `json:"seat_number" validate:"required"`
}

// DeleteSeatRequest is the payload of POST /delete-seat.
type DeleteSeatRequest struct {
	SeatID Flex `json:"seat_id" validate:"required"`
}

// MutationResult is the {success, message} contract of every mutating route.
type MutationResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}
