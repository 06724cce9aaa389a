package models

// Shift is a named daily time window with an advisory seat ceiling.
type Shift struct {
	ID        int64  `db:"id" json:"id"`
	Name      string `db:"name" json:"name"`
	StartTime string `db:"start_time" json:"start_time"`
	EndTime   string `db:"end_time" json:"end_time"`
	MaxSeats  int    `db:"max_seats" json:"max_seats"`
}
