package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/class-scheduling-api/internal/models"
)

const scheduleColumns = "id, course_id, instructor_id, created_by, academic_year, semester, department, day_of_week, start_time, end_time, room_number, notes, status, created_at, updated_at"

// dayOrder sorts weekday names Monday first instead of alphabetically.
const dayOrder = "CASE day_of_week WHEN 'Monday' THEN 1 WHEN 'Tuesday' THEN 2 WHEN 'Wednesday' THEN 3 WHEN 'Thursday' THEN 4 WHEN 'Friday' THEN 5 WHEN 'Saturday' THEN 6 ELSE 7 END"

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// ScheduleRepository provides persistence for schedule entries.
type ScheduleRepository struct {
	db *sqlx.DB
}

// NewScheduleRepository creates a new schedule repository.
func NewScheduleRepository(db *sqlx.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

func (r *ScheduleRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// WithinScopeLock runs fn inside a transaction holding an advisory lock on the term scope, so
// concurrent writers for the same scope run their conflict scan and write one at a time.
func (r *ScheduleRepository) WithinScopeLock(ctx context.Context, scope models.TermScope, fn func(exec sqlx.ExtContext) error) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schedule transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if _, err = tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, scope.Key()); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("lock schedule scope %s: %w", scope.Key(), err)
	}

	if err = fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback schedule transaction: %w (original error: %v)", rbErr, err)
		}
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit schedule transaction: %w", err)
	}
	return nil
}

// FindByID loads a schedule entry by id regardless of status.
func (r *ScheduleRepository) FindByID(ctx context.Context, exec sqlx.ExtContext, id string) (*models.ScheduleEntry, error) {
	query := `SELECT ` + scheduleColumns + ` FROM schedules WHERE id = $1`
	var entry models.ScheduleEntry
	if err := sqlx.GetContext(ctx, r.exec(exec), &entry, query, id); err != nil {
		return nil, err
	}
	return &entry, nil
}

// ListActiveForDay returns active entries of a term scope on the given weekday.
func (r *ScheduleRepository) ListActiveForDay(ctx context.Context, exec sqlx.ExtContext, scope models.TermScope, day models.Weekday) ([]models.ScheduleEntry, error) {
	query := `SELECT ` + scheduleColumns + ` FROM schedules
WHERE status = $1 AND academic_year = $2 AND semester = $3 AND department = $4 AND day_of_week = $5
ORDER BY start_time ASC, id ASC`
	var entries []models.ScheduleEntry
	if err := sqlx.SelectContext(ctx, r.exec(exec), &entries, query, models.ScheduleStatusActive, scope.AcademicYear, scope.Semester, scope.Department, day); err != nil {
		return nil, fmt.Errorf("list active schedules for day: %w", err)
	}
	return entries, nil
}

// ListActiveForSlot returns active entries of every department in a year and semester on the
// given weekday.
func (r *ScheduleRepository) ListActiveForSlot(ctx context.Context, academicYear string, semester int, day models.Weekday) ([]models.ScheduleEntry, error) {
	query := `SELECT ` + scheduleColumns + ` FROM schedules
WHERE status = $1 AND academic_year = $2 AND semester = $3 AND day_of_week = $4
ORDER BY start_time ASC, id ASC`
	var entries []models.ScheduleEntry
	if err := r.db.SelectContext(ctx, &entries, query, models.ScheduleStatusActive, academicYear, semester, day); err != nil {
		return nil, fmt.Errorf("list active schedules for slot: %w", err)
	}
	return entries, nil
}

// ListActive returns active entries matching the filter, ordered by weekday and start time.
func (r *ScheduleRepository) ListActive(ctx context.Context, filter models.ActiveScheduleFilter) ([]models.ScheduleEntry, error) {
	if filter.CourseIDs != nil && len(filter.CourseIDs) == 0 {
		return []models.ScheduleEntry{}, nil
	}

	builder := psql.Select(scheduleColumns).
		From("schedules").
		Where(sq.Eq{"status": models.ScheduleStatusActive})
	if filter.AcademicYear != "" {
		builder = builder.Where(sq.Eq{"academic_year": filter.AcademicYear})
	}
	if filter.Semester > 0 {
		builder = builder.Where(sq.Eq{"semester": filter.Semester})
	}
	if filter.Department != "" {
		builder = builder.Where(sq.Eq{"department": filter.Department})
	}
	if filter.InstructorID != "" {
		builder = builder.Where(sq.Eq{"instructor_id": filter.InstructorID})
	}
	if len(filter.CourseIDs) > 0 {
		builder = builder.Where(sq.Eq{"course_id": filter.CourseIDs})
	}
	if filter.DayOfWeek != "" {
		builder = builder.Where(sq.Eq{"day_of_week": filter.DayOfWeek})
	}
	builder = builder.OrderBy(dayOrder, "start_time ASC", "id ASC")

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build active schedules query: %w", err)
	}

	var entries []models.ScheduleEntry
	if err := r.db.SelectContext(ctx, &entries, query, args...); err != nil {
		return nil, fmt.Errorf("list active schedules: %w", err)
	}
	return entries, nil
}

// List returns schedules with optional filtering and pagination.
func (r *ScheduleRepository) List(ctx context.Context, filter models.ScheduleFilter) ([]models.ScheduleEntry, int, error) {
	where := sq.And{}
	if filter.AcademicYear != "" {
		where = append(where, sq.Eq{"academic_year": filter.AcademicYear})
	}
	if filter.Semester > 0 {
		where = append(where, sq.Eq{"semester": filter.Semester})
	}
	if filter.Department != "" {
		where = append(where, sq.Eq{"department": filter.Department})
	}
	if filter.CourseID != "" {
		where = append(where, sq.Eq{"course_id": filter.CourseID})
	}
	if filter.InstructorID != "" {
		where = append(where, sq.Eq{"instructor_id": filter.InstructorID})
	}
	if room := strings.TrimSpace(filter.RoomNumber); room != "" {
		where = append(where, sq.Expr("LOWER(TRIM(room_number)) = LOWER(?)", room))
	}
	if filter.DayOfWeek != "" {
		where = append(where, sq.Eq{"day_of_week": filter.DayOfWeek})
	}
	if filter.Status != "" {
		where = append(where, sq.Eq{"status": filter.Status})
	}

	allowedSorts := map[string]string{
		"day_of_week":   dayOrder,
		"start_time":    "start_time",
		"room_number":   "room_number",
		"academic_year": "academic_year",
		"created_at":    "created_at",
		"updated_at":    "updated_at",
	}
	column, ok := allowedSorts[filter.SortBy]
	if !ok {
		column = dayOrder
	}
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "ASC"
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}

	selectBuilder := psql.Select(scheduleColumns).From("schedules")
	countBuilder := psql.Select("COUNT(*)").From("schedules")
	if len(where) > 0 {
		selectBuilder = selectBuilder.Where(where)
		countBuilder = countBuilder.Where(where)
	}
	selectBuilder = selectBuilder.
		OrderBy(fmt.Sprintf("%s %s", column, order), "start_time ASC", "id ASC").
		Limit(uint64(size)).
		Offset(uint64((page - 1) * size))

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list schedules query: %w", err)
	}
	var entries []models.ScheduleEntry
	if err := r.db.SelectContext(ctx, &entries, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list schedules: %w", err)
	}

	countQuery, countArgs, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count schedules query: %w", err)
	}
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, countArgs...); err != nil {
		return nil, 0, fmt.Errorf("count schedules: %w", err)
	}

	return entries, total, nil
}

// DistinctRooms returns every non-empty room number that has ever been scheduled.
func (r *ScheduleRepository) DistinctRooms(ctx context.Context) ([]string, error) {
	const query = `SELECT DISTINCT TRIM(room_number) AS room_number FROM schedules
WHERE room_number IS NOT NULL AND TRIM(room_number) <> ''
ORDER BY room_number ASC`
	var rooms []string
	if err := r.db.SelectContext(ctx, &rooms, query); err != nil {
		return nil, fmt.Errorf("list distinct rooms: %w", err)
	}
	return rooms, nil
}

// Create stores a new schedule entry.
func (r *ScheduleRepository) Create(ctx context.Context, exec sqlx.ExtContext, entry *models.ScheduleEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.Status == "" {
		entry.Status = models.ScheduleStatusActive
	}
	now := time.Now().UTC()
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = now
	}
	entry.UpdatedAt = now

	const query = `INSERT INTO schedules (id, course_id, instructor_id, created_by, academic_year, semester, department, day_of_week, start_time, end_time, room_number, notes, status, created_at, updated_at)
VALUES (:id, :course_id, :instructor_id, :created_by, :academic_year, :semester, :department, :day_of_week, :start_time, :end_time, :room_number, :notes, :status, :created_at, :updated_at)`
	if _, err := sqlx.NamedExecContext(ctx, r.exec(exec), query, entry); err != nil {
		return fmt.Errorf("create schedule: %w", err)
	}
	return nil
}

// Update persists the mutable fields of an active entry. Returns sql.ErrNoRows when the entry
// no longer exists or was retired meanwhile.
func (r *ScheduleRepository) Update(ctx context.Context, exec sqlx.ExtContext, entry *models.ScheduleEntry) error {
	entry.UpdatedAt = time.Now().UTC()
	const query = `UPDATE schedules SET course_id = :course_id, instructor_id = :instructor_id, academic_year = :academic_year, semester = :semester, department = :department, day_of_week = :day_of_week, start_time = :start_time, end_time = :end_time, room_number = :room_number, notes = :notes, updated_at = :updated_at
WHERE id = :id AND status = 'ACTIVE'`
	res, err := sqlx.NamedExecContext(ctx, r.exec(exec), query, entry)
	if err != nil {
		return fmt.Errorf("update schedule: %w", err)
	}
	return expectAffected(res)
}

// Retire flips an entry to the terminal RETIRED status.
func (r *ScheduleRepository) Retire(ctx context.Context, id string) error {
	const query = `UPDATE schedules SET status = $1, updated_at = $2 WHERE id = $3`
	res, err := r.db.ExecContext(ctx, query, models.ScheduleStatusRetired, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("retire schedule: %w", err)
	}
	return expectAffected(res)
}

// Delete removes a schedule entry by id.
func (r *ScheduleRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM schedules WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete schedule: %w", err)
	}
	return expectAffected(res)
}

func expectAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
