package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/class-scheduling-api/internal/models"
	appErrors "github.com/noah-isme/class-scheduling-api/pkg/errors"
)

type scheduleStore interface {
	conflictStore
	FindByID(ctx context.Context, exec sqlx.ExtContext, id string) (*models.ScheduleEntry, error)
	List(ctx context.Context, filter models.ScheduleFilter) ([]models.ScheduleEntry, int, error)
	ListActive(ctx context.Context, filter models.ActiveScheduleFilter) ([]models.ScheduleEntry, error)
	Create(ctx context.Context, exec sqlx.ExtContext, entry *models.ScheduleEntry) error
	Update(ctx context.Context, exec sqlx.ExtContext, entry *models.ScheduleEntry) error
	Retire(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	WithinScopeLock(ctx context.Context, scope models.TermScope, fn func(exec sqlx.ExtContext) error) error
}

type attendanceChecker interface {
	HasRecordsForSchedule(ctx context.Context, scheduleID string) (bool, error)
}

// CreateScheduleRequest describes payload for creating a schedule entry.
type CreateScheduleRequest struct {
	CourseID     string  `json:"course_id" validate:"required"`
	InstructorID string  `json:"instructor_id" validate:"required"`
	AcademicYear string  `json:"academic_year" validate:"required,academic_year"`
	Semester     int     `json:"semester" validate:"required,oneof=1 2"`
	Department   string  `json:"department" validate:"required,department"`
	DayOfWeek    string  `json:"day_of_week" validate:"required,weekday"`
	StartTime    string  `json:"start_time" validate:"required,clock"`
	EndTime      string  `json:"end_time" validate:"required,clock"`
	RoomNumber   *string `json:"room_number" validate:"omitempty,max=32"`
	Notes        *string `json:"notes" validate:"omitempty,max=1000"`
}

// UpdateScheduleRequest is a partial update. Nil fields keep their current value; an empty
// room_number clears the room.
type UpdateScheduleRequest struct {
	CourseID     *string `json:"course_id"`
	InstructorID *string `json:"instructor_id"`
	AcademicYear *string `json:"academic_year"`
	Semester     *int    `json:"semester"`
	Department   *string `json:"department"`
	DayOfWeek    *string `json:"day_of_week"`
	StartTime    *string `json:"start_time"`
	EndTime      *string `json:"end_time"`
	RoomNumber   *string `json:"room_number"`
	Notes        *string `json:"notes"`
}

// ScheduleService runs the schedule lifecycle: conflict-checked create and update, and
// delete that retires entries still referenced by attendance.
type ScheduleService struct {
	store      scheduleStore
	attendance attendanceChecker
	checker    *ConflictChecker
	metrics    *MetricsService
	validator  *validator.Validate
	logger     *zap.Logger
}

// NewScheduleService instantiates ScheduleService.
func NewScheduleService(store scheduleStore, attendance attendanceChecker, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *ScheduleService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleService{
		store:      store,
		attendance: attendance,
		checker:    NewConflictChecker(store, logger),
		metrics:    metrics,
		validator:  validate,
		logger:     logger,
	}
}

// Get returns a schedule entry by id, retired entries included.
func (s *ScheduleService) Get(ctx context.Context, id string) (*models.ScheduleEntry, error) {
	entry, err := s.store.FindByID(ctx, nil, id)
	if err != nil {
		return nil, s.lookupError(err)
	}
	return entry, nil
}

// List returns schedules with pagination metadata.
func (s *ScheduleService) List(ctx context.Context, filter models.ScheduleFilter) ([]models.ScheduleEntry, *models.Pagination, error) {
	start := time.Now()
	entries, total, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list schedules")
	}
	s.metrics.ObserveDBQuery("schedule_list", time.Since(start))

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	if entries == nil {
		entries = []models.ScheduleEntry{}
	}
	return entries, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// SessionsOn returns the active entries of a course held on the weekday of date. Attendance
// marking uses it to decide whether a class session exists that day.
func (s *ScheduleService) SessionsOn(ctx context.Context, courseID string, date time.Time, academicYear string, semester int) ([]models.ScheduleEntry, error) {
	if strings.TrimSpace(courseID) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "course_id is required")
	}
	if date.IsZero() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "date is required")
	}
	if err := validateTermParams(academicYear, semester); err != nil {
		return nil, err
	}
	entries, err := s.store.ListActive(ctx, models.ActiveScheduleFilter{
		AcademicYear: academicYear,
		Semester:     semester,
		CourseIDs:    []string{courseID},
		DayOfWeek:    models.WeekdayOf(date),
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course sessions")
	}
	if entries == nil {
		entries = []models.ScheduleEntry{}
	}
	return entries, nil
}

// Create validates the request, checks for conflicts inside the scope lock and persists an
// active entry.
func (s *ScheduleService) Create(ctx context.Context, req CreateScheduleRequest, createdBy string) (*models.ScheduleEntry, error) {
	if strings.TrimSpace(createdBy) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "created_by is required")
	}
	entry, err := s.buildEntry(req)
	if err != nil {
		s.metrics.RecordScheduleOperation("create", "invalid")
		return nil, err
	}
	entry.CreatedBy = createdBy
	entry.Status = models.ScheduleStatusActive

	err = s.store.WithinScopeLock(ctx, entry.Scope(), func(exec sqlx.ExtContext) error {
		if err := s.ensureNoConflict(ctx, exec, *entry, ""); err != nil {
			return err
		}
		return s.store.Create(ctx, exec, entry)
	})
	if err != nil {
		return nil, s.writeError("create", err, "failed to create schedule")
	}

	s.metrics.RecordScheduleOperation("create", "created")
	s.logger.Info("schedule created",
		zap.String("schedule_id", entry.ID),
		zap.String("scope", entry.Scope().Key()),
		zap.String("instructor_id", entry.InstructorID),
		zap.String("created_by", createdBy),
	)
	return entry, nil
}

// Update merges the patch into the stored entry, re-validates it and persists it when no other
// active entry conflicts. Retired entries cannot be updated.
func (s *ScheduleService) Update(ctx context.Context, id string, req UpdateScheduleRequest) (*models.ScheduleEntry, error) {
	existing, err := s.store.FindByID(ctx, nil, id)
	if err != nil {
		return nil, s.lookupError(err)
	}
	if !existing.IsActive() {
		return nil, appErrors.Clone(appErrors.ErrScheduleRetired, "retired schedules cannot be updated")
	}

	candidate, err := s.buildEntry(mergePatch(*existing, req))
	if err != nil {
		s.metrics.RecordScheduleOperation("update", "invalid")
		return nil, err
	}
	candidate.ID = existing.ID
	candidate.CreatedBy = existing.CreatedBy
	candidate.CreatedAt = existing.CreatedAt
	candidate.Status = existing.Status

	err = s.store.WithinScopeLock(ctx, candidate.Scope(), func(exec sqlx.ExtContext) error {
		current, err := s.store.FindByID(ctx, exec, id)
		if err != nil {
			return s.lookupError(err)
		}
		if !current.IsActive() {
			return appErrors.Clone(appErrors.ErrScheduleRetired, "retired schedules cannot be updated")
		}
		if err := s.ensureNoConflict(ctx, exec, *candidate, id); err != nil {
			return err
		}
		if err := s.store.Update(ctx, exec, candidate); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return appErrors.Clone(appErrors.ErrScheduleRetired, "schedule was retired during update")
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, s.writeError("update", err, "failed to update schedule")
	}

	s.metrics.RecordScheduleOperation("update", "updated")
	s.logger.Info("schedule updated", zap.String("schedule_id", id), zap.String("scope", candidate.Scope().Key()))
	return candidate, nil
}

// Delete removes the entry, or retires it when attendance records reference it.
func (s *ScheduleService) Delete(ctx context.Context, id string) (*models.DeleteResult, *models.ScheduleEntry, error) {
	entry, err := s.store.FindByID(ctx, nil, id)
	if err != nil {
		return nil, nil, s.lookupError(err)
	}

	referenced, err := s.attendance.HasRecordsForSchedule(ctx, id)
	if err != nil {
		s.metrics.RecordScheduleOperation("delete", "error")
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check attendance records")
	}

	if referenced {
		if entry.IsActive() {
			if err := s.store.Retire(ctx, id); err != nil {
				s.metrics.RecordScheduleOperation("delete", "error")
				return nil, nil, s.lookupError(err)
			}
			entry.Status = models.ScheduleStatusRetired
		}
		s.metrics.RecordScheduleOperation("delete", "deactivated")
		s.logger.Info("schedule retired", zap.String("schedule_id", id))
		return &models.DeleteResult{Deactivated: true}, entry, nil
	}

	if err := s.store.Delete(ctx, id); err != nil {
		s.metrics.RecordScheduleOperation("delete", "error")
		return nil, nil, s.lookupError(err)
	}
	s.metrics.RecordScheduleOperation("delete", "deleted")
	s.logger.Info("schedule deleted", zap.String("schedule_id", id))
	return &models.DeleteResult{Deleted: true}, entry, nil
}

func (s *ScheduleService) ensureNoConflict(ctx context.Context, exec sqlx.ExtContext, candidate models.ScheduleEntry, excludeID string) error {
	report, err := s.checker.FindConflicts(ctx, exec, candidate, excludeID)
	if err != nil {
		return err
	}
	if !report.HasConflicts() {
		return nil
	}

	s.metrics.RecordConflicts(len(report.InstructorConflicts), len(report.RoomConflicts))
	s.logger.Info("schedule conflict",
		zap.String("scope", candidate.Scope().Key()),
		zap.String("day", string(candidate.DayOfWeek)),
		zap.Int("instructor_conflicts", len(report.InstructorConflicts)),
		zap.Int("room_conflicts", len(report.RoomConflicts)),
	)
	return newConflictError(report)
}

// buildEntry validates the request and returns a normalised, unsaved entry.
func (s *ScheduleService) buildEntry(req CreateScheduleRequest) (*models.ScheduleEntry, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule payload")
	}
	slot, err := models.NewTimeSlot(req.DayOfWeek, req.StartTime, req.EndTime)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}
	department, _ := models.ParseDepartment(req.Department)

	return &models.ScheduleEntry{
		CourseID:     strings.TrimSpace(req.CourseID),
		InstructorID: strings.TrimSpace(req.InstructorID),
		AcademicYear: req.AcademicYear,
		Semester:     req.Semester,
		Department:   department,
		DayOfWeek:    slot.Day,
		StartTime:    slot.Start.String(),
		EndTime:      slot.End.String(),
		RoomNumber:   trimmedOrNil(req.RoomNumber),
		Notes:        trimmedOrNil(req.Notes),
	}, nil
}

func (s *ScheduleService) lookupError(err error) error {
	var appErr *appErrors.Error
	if errors.As(err, &appErr) {
		return appErr
	}
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrNotFound, "schedule not found")
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule")
}

func (s *ScheduleService) writeError(operation string, err error, message string) error {
	var appErr *appErrors.Error
	if errors.As(err, &appErr) {
		outcome := "error"
		switch appErr.Code {
		case appErrors.ErrSchedulingConflict.Code:
			outcome = "conflict"
		case appErrors.ErrValidation.Code:
			outcome = "invalid"
		case appErrors.ErrScheduleRetired.Code:
			outcome = "retired"
		case appErrors.ErrNotFound.Code:
			outcome = "not_found"
		}
		s.metrics.RecordScheduleOperation(operation, outcome)
		return appErr
	}
	s.metrics.RecordScheduleOperation(operation, "error")
	s.logger.Error(message, zap.Error(err))
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, message)
}

func newConflictError(report models.ConflictReport) *appErrors.Error {
	conflict := appErrors.WithDetails(appErrors.ErrSchedulingConflict, report)
	conflict.Err = &models.SchedulingConflictError{Report: report}
	return conflict
}

func mergePatch(existing models.ScheduleEntry, patch UpdateScheduleRequest) CreateScheduleRequest {
	merged := CreateScheduleRequest{
		CourseID:     existing.CourseID,
		InstructorID: existing.InstructorID,
		AcademicYear: existing.AcademicYear,
		Semester:     existing.Semester,
		Department:   string(existing.Department),
		DayOfWeek:    string(existing.DayOfWeek),
		StartTime:    existing.StartTime,
		EndTime:      existing.EndTime,
		RoomNumber:   existing.RoomNumber,
		Notes:        existing.Notes,
	}
	if patch.CourseID != nil {
		merged.CourseID = *patch.CourseID
	}
	if patch.InstructorID != nil {
		merged.InstructorID = *patch.InstructorID
	}
	if patch.AcademicYear != nil {
		merged.AcademicYear = *patch.AcademicYear
	}
	if patch.Semester != nil {
		merged.Semester = *patch.Semester
	}
	if patch.Department != nil {
		merged.Department = *patch.Department
	}
	if patch.DayOfWeek != nil {
		merged.DayOfWeek = *patch.DayOfWeek
	}
	if patch.StartTime != nil {
		merged.StartTime = *patch.StartTime
	}
	if patch.EndTime != nil {
		merged.EndTime = *patch.EndTime
	}
	if patch.RoomNumber != nil {
		merged.RoomNumber = patch.RoomNumber
	}
	if patch.Notes != nil {
		merged.Notes = patch.Notes
	}
	return merged
}

func trimmedOrNil(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
