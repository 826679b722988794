package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// AttendanceRepository answers questions about subject attendance that the scheduler needs.
type AttendanceRepository struct {
	db *sqlx.DB
}

// NewAttendanceRepository constructs the repository.
func NewAttendanceRepository(db *sqlx.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// HasRecordsForSchedule reports whether any attendance row references the schedule entry.
func (r *AttendanceRepository) HasRecordsForSchedule(ctx context.Context, scheduleID string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM subject_attendance WHERE schedule_id = $1)`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, scheduleID); err != nil {
		return false, fmt.Errorf("check attendance for schedule: %w", err)
	}
	return exists, nil
}
