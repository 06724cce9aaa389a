package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/library-seat-api/internal/models"
)

// StudentRepository manages persistence for student records.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// List returns every student in insertion order.
func (r *StudentRepository) List(ctx context.Context) ([]models.Student, error) {
	const query = `SELECT id, name, email, phone FROM students ORDER BY id`
	students := []models.Student{}
	if err := r.db.SelectContext(ctx, &students, query); err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	return students, nil
}

// FindByEmail looks a student up by exact email. It returns sql.ErrNoRows
// when nobody has booked with that address yet.
func (r *StudentRepository) FindByEmail(ctx context.Context, exec sqlx.ExtContext, email string) (*models.Student, error) {
	query := exec.Rebind(`SELECT id, name, email, phone FROM students WHERE email = ?`)
	var student models.Student
	if err := sqlx.GetContext(ctx, exec, &student, query, email); err != nil {
		return nil, err
	}
	return &student, nil
}

// Create inserts a new student and fills in its ID.
func (r *StudentRepository) Create(ctx context.Context, exec sqlx.ExtContext, student *models.Student) error {
	query := exec.Rebind(`INSERT INTO students (name, email, phone) VALUES (?, ?, ?) RETURNING id`)
	if err := exec.QueryRowxContext(ctx, query, student.Name, student.Email, student.Phone).Scan(&student.ID); err != nil {
		return fmt.Errorf("create student: %w", err)
	}
	return nil
}
