package models

// SeatView is one row of the seat board. A seat with several bookings yields
// several rows because the join is not constrained by date.
type SeatView struct {
	ID          int64      `db:"id" json:"id"`
	SeatNumber  string     `db:"seat_number" json:"seat_number"`
	Status      SeatStatus `db:"status" json:"status"`
	StudentName *string    `db:"student_name" json:"student_name"`
	ShiftName   *string    `db:"shift_name" json:"shift_name"`
}

// BookingView is a current or future booking joined with its labels.
type BookingView struct {
	ID           int64     `db:"id" json:"id"`
	StudentName  string    `db:"student_name" json:"student_name"`
	StudentPhone string    `db:"student_phone" json:"student_phone"`
	ShiftName    string    `db:"shift_name" json:"shift_name"`
	SeatNumber   string    `db:"seat_number" json:"seat_number"`
	BookingDate  string    `db:"booking_date" json:"booking_date"`
	CreatedAt    Timestamp `db:"created_at" json:"created_at"`
}

// Stats aggregates the dashboard counters. Every count comes from its own
// aggregate query; AvailableSeats is derived so the three seat numbers add up.
type Stats struct {
	Students       int `json:"students"`
	Seats          int `json:"seats"`
	Bookings       int `json:"bookings"`
	Shifts         int `json:"shifts"`
	OccupiedSeats  int `json:"occupied_seats"`
	AvailableSeats int `json:"available_seats"`
}

// Snapshot is the full state a newly connected viewer starts from.
type Snapshot struct {
	Seats    []SeatView    `json:"seats"`
	Bookings []BookingView `json:"bookings"`
	Stats    Stats         `json:"stats"`
}
