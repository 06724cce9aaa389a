package models

// SeatStatus is a cached occupancy flag. Bookings remain the authority.
type SeatStatus string

const (
	SeatStatusAvailable SeatStatus = "available"
	SeatStatusOccupied  SeatStatus = "occupied"
)

// Seat represents a physical desk in the study room.
type Seat struct {
	ID         int64      `db:"id" json:"id"`
	SeatNumber string     `db:"seat_number" json:"seat_number"`
	Status     SeatStatus `db:"status" json:"status"`
}
