package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/class-scheduling-api/internal/models"
	appErrors "github.com/noah-isme/class-scheduling-api/pkg/errors"
)

type courseCatalog interface {
	FindByIDs(ctx context.Context, ids []string) ([]models.Course, error)
}

type registrationReader interface {
	ListCourseIDs(ctx context.Context, studentID, academicYear string, semester int) ([]string, error)
}

// ScheduleViewService projects active entries into per-weekday views for departments,
// students and instructors.
type ScheduleViewService struct {
	store         activeScheduleReader
	courses       courseCatalog
	instructors   instructorDirectory
	registrations registrationReader
	logger        *zap.Logger
}

// NewScheduleViewService constructs the view service.
func NewScheduleViewService(store activeScheduleReader, courses courseCatalog, instructors instructorDirectory, registrations registrationReader, logger *zap.Logger) *ScheduleViewService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleViewService{store: store, courses: courses, instructors: instructors, registrations: registrations, logger: logger}
}

// ForDepartment returns the department's active timetable.
func (s *ScheduleViewService) ForDepartment(ctx context.Context, department, academicYear string, semester int) (models.DaySchedule, error) {
	dept, ok := models.ParseDepartment(department)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown department %q", department))
	}
	if err := validateTermParams(academicYear, semester); err != nil {
		return nil, err
	}
	return s.project(ctx, models.ActiveScheduleFilter{AcademicYear: academicYear, Semester: semester, Department: dept})
}

// ForStudent returns the active timetable of the courses a student registered for.
func (s *ScheduleViewService) ForStudent(ctx context.Context, studentID, academicYear string, semester int) (models.DaySchedule, error) {
	if strings.TrimSpace(studentID) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "student id is required")
	}
	if err := validateTermParams(academicYear, semester); err != nil {
		return nil, err
	}

	courseIDs, err := s.registrations.ListCourseIDs(ctx, studentID, academicYear, semester)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course registrations")
	}
	if len(courseIDs) == 0 {
		return models.NewDaySchedule(), nil
	}
	return s.project(ctx, models.ActiveScheduleFilter{AcademicYear: academicYear, Semester: semester, CourseIDs: courseIDs})
}

// ForInstructor returns the active timetable of an instructor across departments.
func (s *ScheduleViewService) ForInstructor(ctx context.Context, instructorID, academicYear string, semester int) (models.DaySchedule, error) {
	if strings.TrimSpace(instructorID) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "instructor id is required")
	}
	if err := validateTermParams(academicYear, semester); err != nil {
		return nil, err
	}
	return s.project(ctx, models.ActiveScheduleFilter{AcademicYear: academicYear, Semester: semester, InstructorID: instructorID})
}

func (s *ScheduleViewService) project(ctx context.Context, filter models.ActiveScheduleFilter) (models.DaySchedule, error) {
	entries, err := s.store.ListActive(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedules")
	}

	courses := s.courseIndex(ctx, entries)
	names := s.instructorIndex(ctx, entries)

	days := models.NewDaySchedule()
	for _, entry := range entries {
		if !entry.IsActive() || !entry.DayOfWeek.Valid() {
			continue
		}
		view := models.ScheduleView{Schedule: entry, InstructorName: names[entry.InstructorID]}
		if course, ok := courses[entry.CourseID]; ok {
			view.CourseCode = course.Code
			view.CourseName = course.Name
			view.CourseCredit = course.Credit
		}
		days[entry.DayOfWeek] = append(days[entry.DayOfWeek], view)
	}
	for day := range days {
		items := days[day]
		sort.SliceStable(items, func(i, j int) bool {
			if items[i].Schedule.StartTime != items[j].Schedule.StartTime {
				return items[i].Schedule.StartTime < items[j].Schedule.StartTime
			}
			return items[i].Schedule.ID < items[j].Schedule.ID
		})
	}
	return days, nil
}

// courseIndex and instructorIndex degrade to bare entries when a collaborator is down.
func (s *ScheduleViewService) courseIndex(ctx context.Context, entries []models.ScheduleEntry) map[string]models.Course {
	index := map[string]models.Course{}
	if s.courses == nil || len(entries) == 0 {
		return index
	}
	seen := map[string]struct{}{}
	ids := make([]string, 0)
	for _, entry := range entries {
		if _, ok := seen[entry.CourseID]; !ok {
			seen[entry.CourseID] = struct{}{}
			ids = append(ids, entry.CourseID)
		}
	}
	courses, err := s.courses.FindByIDs(ctx, ids)
	if err != nil {
		s.logger.Warn("course lookup failed for schedule view", zap.Error(err))
		return index
	}
	for _, course := range courses {
		index[course.ID] = course
	}
	return index
}

func (s *ScheduleViewService) instructorIndex(ctx context.Context, entries []models.ScheduleEntry) map[string]string {
	index := map[string]string{}
	if s.instructors == nil || len(entries) == 0 {
		return index
	}
	instructors, err := s.instructors.FindByIDs(ctx, distinctInstructorIDs(entries))
	if err != nil {
		s.logger.Warn("instructor lookup failed for schedule view", zap.Error(err))
		return index
	}
	for _, instructor := range instructors {
		index[instructor.ID] = instructor.FullName
	}
	return index
}

func validateTermParams(academicYear string, semester int) error {
	if academicYear != "" && !validAcademicYear(academicYear) {
		return appErrors.Clone(appErrors.ErrValidation, "academic_year must look like 2024-2025")
	}
	if semester != 0 && semester != 1 && semester != 2 {
		return appErrors.Clone(appErrors.ErrValidation, "semester must be 1 or 2")
	}
	return nil
}
