package models

// BookingDateLayout is the calendar-date format stored in booking_date.
const BookingDateLayout = "2006-01-02"

// Booking holds one seat for one student during one shift on one date.
type Booking struct {
	ID          int64     `db:"id" json:"id"`
	StudentID   int64     `db:"student_id" json:"student_id"`
	ShiftID     int64     `db:"shift_id" json:"shift_id"`
	SeatID      int64     `db:"seat_id" json:"seat_id"`
	BookingDate string    `db:"booking_date" json:"booking_date"`
	CreatedAt   Timestamp `db:"created_at" json:"created_at"`
}

// BookingOwner is the slice of a booking needed to cancel it.
type BookingOwner struct {
	ID          int64  `db:"id"`
	SeatID      int64  `db:"seat_id"`
	StudentName string `db:"student_name"`
}
