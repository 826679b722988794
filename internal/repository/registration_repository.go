package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

// RegistrationRepository reads semester course registrations.
type RegistrationRepository struct {
	db *sqlx.DB
}

// NewRegistrationRepository constructs the repository.
func NewRegistrationRepository(db *sqlx.DB) *RegistrationRepository {
	return &RegistrationRepository{db: db}
}

// ListCourseIDs returns the courses a student registered for. Empty year or zero semester
// widen the lookup.
func (r *RegistrationRepository) ListCourseIDs(ctx context.Context, studentID, academicYear string, semester int) ([]string, error) {
	conditions := []string{"student_id = $1"}
	args := []interface{}{studentID}
	if academicYear != "" {
		conditions = append(conditions, fmt.Sprintf("academic_year = $%d", len(args)+1))
		args = append(args, academicYear)
	}
	if semester > 0 {
		conditions = append(conditions, fmt.Sprintf("semester = $%d", len(args)+1))
		args = append(args, semester)
	}

	query := fmt.Sprintf("SELECT DISTINCT course_id FROM course_registrations WHERE %s ORDER BY course_id ASC", strings.Join(conditions, " AND "))
	var ids []string
	if err := r.db.SelectContext(ctx, &ids, query, args...); err != nil {
		return nil, fmt.Errorf("list registered courses: %w", err)
	}
	return ids, nil
}
