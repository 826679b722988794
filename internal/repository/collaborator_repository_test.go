package repository

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/class-scheduling-api/internal/models"
)

func TestInstructorRepositoryListActive(t *testing.T) {
	db, mock, cleanup := newScheduleRepoMock(t)
	defer cleanup()
	repo := NewInstructorRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE role = $1 AND active = TRUE")).
		WithArgs("TEACHER").
		WillReturnRows(sqlmock.NewRows([]string{"id", "full_name", "email"}).
			AddRow("inst-1", "Ada Lovelace", "ada@example.edu").
			AddRow("inst-2", "Alan Turing", "alan@example.edu"))

	instructors, err := repo.ListActive(context.Background())
	require.NoError(t, err)
	assert.Len(t, instructors, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInstructorRepositoryFindByIDsEmpty(t *testing.T) {
	db, mock, cleanup := newScheduleRepoMock(t)
	defer cleanup()
	repo := NewInstructorRepository(db)

	instructors, err := repo.FindByIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, instructors)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryFindByIDs(t *testing.T) {
	db, mock, cleanup := newScheduleRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM courses WHERE id = ANY($1)")).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "code", "name", "credit", "department"}).
			AddRow("course-1", "CS101", "Programming I", 3.0, "ICT"))

	courses, err := repo.FindByIDs(context.Background(), []string{"course-1"})
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, models.DepartmentICT, courses[0].Department)
	assert.Equal(t, "CS101", courses[0].Code)
}

func TestAttendanceRepositoryHasRecordsForSchedule(t *testing.T) {
	db, mock, cleanup := newScheduleRepoMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS (SELECT 1 FROM subject_attendance WHERE schedule_id = $1)")).
		WithArgs("sched-1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.HasRecordsForSchedule(context.Background(), "sched-1")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestRegistrationRepositoryListCourseIDs(t *testing.T) {
	db, mock, cleanup := newScheduleRepoMock(t)
	defer cleanup()
	repo := NewRegistrationRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM course_registrations WHERE student_id = $1 AND academic_year = $2 AND semester = $3")).
		WithArgs("stu-1", "2024-2025", 2).
		WillReturnRows(sqlmock.NewRows([]string{"course_id"}).AddRow("course-1").AddRow("course-3"))

	ids, err := repo.ListCourseIDs(context.Background(), "stu-1", "2024-2025", 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"course-1", "course-3"}, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}
