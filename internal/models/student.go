package models

// Student is created lazily the first time an email books a seat.
type Student struct {
	ID    int64   `db:"id" json:"id"`
	Name  string  `db:"name" json:"name"`
	Email string  `db:"email" json:"email"`
	Phone *string `db:"phone" json:"phone"`
}
