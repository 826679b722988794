package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/class-scheduling-api/internal/models"
)

// InstructorRepository reads the instructor roster from the users table.
type InstructorRepository struct {
	db *sqlx.DB
}

// NewInstructorRepository constructs an InstructorRepository.
func NewInstructorRepository(db *sqlx.DB) *InstructorRepository {
	return &InstructorRepository{db: db}
}

// ListActive returns every active user holding the teacher role, ordered by name.
func (r *InstructorRepository) ListActive(ctx context.Context) ([]models.Instructor, error) {
	const query = `SELECT id, full_name, email FROM users WHERE role = $1 AND active = TRUE ORDER BY full_name ASC, id ASC`
	var instructors []models.Instructor
	if err := r.db.SelectContext(ctx, &instructors, query, models.RoleTeacher); err != nil {
		return nil, fmt.Errorf("list instructors: %w", err)
	}
	return instructors, nil
}

// FindByIDs loads roster entries for the given ids regardless of their active flag, so retired
// staff still resolve to a display name.
func (r *InstructorRepository) FindByIDs(ctx context.Context, ids []string) ([]models.Instructor, error) {
	if len(ids) == 0 {
		return []models.Instructor{}, nil
	}
	const query = `SELECT id, full_name, email FROM users WHERE id = ANY($1) ORDER BY full_name ASC`
	var instructors []models.Instructor
	if err := r.db.SelectContext(ctx, &instructors, query, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("find instructors by ids: %w", err)
	}
	return instructors, nil
}
