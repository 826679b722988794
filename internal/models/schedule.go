package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// ScheduleStatus is the lifecycle state of a schedule entry.
type ScheduleStatus string

const (
	// ScheduleStatusActive entries count towards conflicts, views and statistics.
	ScheduleStatusActive ScheduleStatus = "ACTIVE"
	// ScheduleStatusRetired is terminal: the entry is kept for attendance history only.
	ScheduleStatusRetired ScheduleStatus = "RETIRED"
)

// Department is one of the fixed academic departments.
type Department string

const (
	DepartmentICT         Department = "ICT"
	DepartmentCSE         Department = "CSE"
	DepartmentEEE         Department = "EEE"
	DepartmentCE          Department = "CE"
	DepartmentME          Department = "ME"
	DepartmentBBA         Department = "BBA"
	DepartmentEnglish     Department = "ENGLISH"
	DepartmentMathematics Department = "MATHEMATICS"
)

// Departments lists all supported departments.
var Departments = []Department{
	DepartmentICT,
	DepartmentCSE,
	DepartmentEEE,
	DepartmentCE,
	DepartmentME,
	DepartmentBBA,
	DepartmentEnglish,
	DepartmentMathematics,
}

// ParseDepartment resolves a department name case-insensitively.
func ParseDepartment(raw string) (Department, bool) {
	value := strings.TrimSpace(raw)
	for _, dept := range Departments {
		if strings.EqualFold(string(dept), value) {
			return dept, true
		}
	}
	return "", false
}

// TermScope bounds conflict checks: academic year, semester and department.
type TermScope struct {
	AcademicYear string     `json:"academic_year"`
	Semester     int        `json:"semester"`
	Department   Department `json:"department"`
}

// Key returns a stable identifier for the scope, used for write serialisation.
func (s TermScope) Key() string {
	return fmt.Sprintf("%s|%d|%s", s.AcademicYear, s.Semester, s.Department)
}

// ScheduleEntry assigns a course to an instructor, optional room and weekly time slot.
type ScheduleEntry struct {
	ID           string         `db:"id" json:"id"`
	CourseID     string         `db:"course_id" json:"course_id"`
	InstructorID string         `db:"instructor_id" json:"instructor_id"`
	CreatedBy    string         `db:"created_by" json:"created_by"`
	AcademicYear string         `db:"academic_year" json:"academic_year"`
	Semester     int            `db:"semester" json:"semester"`
	Department   Department     `db:"department" json:"department"`
	DayOfWeek    Weekday        `db:"day_of_week" json:"day_of_week"`
	StartTime    string         `db:"start_time" json:"start_time"`
	EndTime      string         `db:"end_time" json:"end_time"`
	RoomNumber   *string        `db:"room_number" json:"room_number,omitempty"`
	Notes        *string        `db:"notes" json:"notes,omitempty"`
	Status       ScheduleStatus `db:"status" json:"status"`
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at" json:"updated_at"`
}

// IsActive reports whether the entry has not been retired.
func (e ScheduleEntry) IsActive() bool {
	return e.Status == ScheduleStatusActive
}

// Scope returns the term scope the entry belongs to.
func (e ScheduleEntry) Scope() TermScope {
	return TermScope{AcademicYear: e.AcademicYear, Semester: e.Semester, Department: e.Department}
}

// Room returns the normalised room number or an empty string when unassigned.
func (e ScheduleEntry) Room() string {
	if e.RoomNumber == nil {
		return ""
	}
	return strings.TrimSpace(*e.RoomNumber)
}

// Slot parses the stored day and times. Stored entries are validated on write, so an error
// here indicates corrupted data.
func (e ScheduleEntry) Slot() (TimeSlot, error) {
	return NewTimeSlot(string(e.DayOfWeek), e.StartTime, e.EndTime)
}

// MarshalJSON adds the derived is_active flag to the payload.
func (e ScheduleEntry) MarshalJSON() ([]byte, error) {
	type alias ScheduleEntry
	return json.Marshal(struct {
		alias
		IsActive bool `json:"is_active"`
	}{alias: alias(e), IsActive: e.IsActive()})
}

// ScheduleFilter describes query params for listing schedules.
type ScheduleFilter struct {
	AcademicYear string
	Semester     int
	Department   Department
	CourseID     string
	InstructorID string
	RoomNumber   string
	DayOfWeek    Weekday
	Status       ScheduleStatus
	Page         int
	PageSize     int
	SortBy       string
	SortOrder    string
}

// ActiveScheduleFilter scopes reads over active entries for views and statistics.
type ActiveScheduleFilter struct {
	AcademicYear string
	Semester     int
	Department   Department
	InstructorID string
	CourseIDs    []string
	DayOfWeek    Weekday
}

// SlotQuery describes a candidate slot within an academic year and semester.
type SlotQuery struct {
	DayOfWeek    string `form:"dayOfWeek" json:"day_of_week" validate:"required,weekday"`
	StartTime    string `form:"startTime" json:"start_time" validate:"required,clock"`
	EndTime      string `form:"endTime" json:"end_time" validate:"required,clock"`
	AcademicYear string `form:"academicYear" json:"academic_year" validate:"required,academic_year"`
	Semester     int    `form:"semester" json:"semester" validate:"required,oneof=1 2"`
}

// ConflictReport lists active entries that collide with a candidate.
type ConflictReport struct {
	InstructorConflicts []ScheduleEntry `json:"instructor_conflicts"`
	RoomConflicts       []ScheduleEntry `json:"room_conflicts"`
}

// HasConflicts reports whether either list is non-empty.
func (r ConflictReport) HasConflicts() bool {
	return len(r.InstructorConflicts) > 0 || len(r.RoomConflicts) > 0
}

// SchedulingConflictError is returned when a candidate double-books an instructor or room.
type SchedulingConflictError struct {
	Report ConflictReport
}

// Error implements the error interface for conflict errors.
func (e *SchedulingConflictError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("scheduling conflict: %d instructor, %d room", len(e.Report.InstructorConflicts), len(e.Report.RoomConflicts))
}

// DeleteResult tells the caller whether the entry was removed or retired.
type DeleteResult struct {
	Deleted     bool `json:"deleted,omitempty"`
	Deactivated bool `json:"deactivated,omitempty"`
}
