package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/class-scheduling-api/internal/models"
	appErrors "github.com/noah-isme/class-scheduling-api/pkg/errors"
)

// StatisticsCachePattern matches every cached statistics payload.
const StatisticsCachePattern = "schedule:stats:*"

type activeScheduleReader interface {
	ListActive(ctx context.Context, filter models.ActiveScheduleFilter) ([]models.ScheduleEntry, error)
}

type instructorDirectory interface {
	FindByIDs(ctx context.Context, ids []string) ([]models.Instructor, error)
}

// StatisticsService aggregates load and utilisation figures over active schedule entries.
type StatisticsService struct {
	store       activeScheduleReader
	instructors instructorDirectory
	cache       *CacheService
	metrics     *MetricsService
	ttl         time.Duration
	logger      *zap.Logger
}

// NewStatisticsService constructs a statistics service.
func NewStatisticsService(store activeScheduleReader, instructors instructorDirectory, cache *CacheService, metrics *MetricsService, ttl time.Duration, logger *zap.Logger) *StatisticsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StatisticsService{store: store, instructors: instructors, cache: cache, metrics: metrics, ttl: ttl, logger: logger}
}

// Statistics returns the load summary for the filter. The boolean indicates whether data
// originated from cache.
func (s *StatisticsService) Statistics(ctx context.Context, filter models.StatisticsFilter) (*models.ScheduleStatistics, bool, error) {
	filter, err := normalizeStatisticsFilter(filter)
	if err != nil {
		return nil, false, err
	}

	cacheKey := statisticsCacheKey(filter)
	var cached models.ScheduleStatistics
	if s.cache != nil {
		if hit, err := s.cache.Get(ctx, cacheKey, &cached); err != nil {
			s.logger.Warn("statistics cache read failed", zap.Error(err))
		} else if hit {
			return &cached, true, nil
		}
	}

	start := time.Now()
	entries, err := s.store.ListActive(ctx, models.ActiveScheduleFilter{
		AcademicYear: filter.AcademicYear,
		Semester:     filter.Semester,
		Department:   filter.Department,
	})
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedules for statistics")
	}
	s.metrics.ObserveDBQuery("schedule_statistics", time.Since(start))

	names, namesOK := s.instructorNames(ctx, entries)
	stats := aggregateStatistics(entries, names)

	if s.cache != nil && namesOK {
		if err := s.cache.Set(ctx, cacheKey, stats, s.ttl); err != nil {
			s.logger.Warn("cache statistics", zap.Error(err))
		}
	}
	return &stats, false, nil
}

// instructorNames resolves display names. A directory failure is not fatal; the second value
// reports whether names are complete.
func (s *StatisticsService) instructorNames(ctx context.Context, entries []models.ScheduleEntry) (map[string]string, bool) {
	names := map[string]string{}
	if s.instructors == nil || len(entries) == 0 {
		return names, true
	}
	ids := distinctInstructorIDs(entries)
	instructors, err := s.instructors.FindByIDs(ctx, ids)
	if err != nil {
		s.logger.Warn("instructor lookup failed for statistics", zap.Error(err))
		return names, false
	}
	for _, instructor := range instructors {
		names[instructor.ID] = instructor.FullName
	}
	return names, true
}

func normalizeStatisticsFilter(filter models.StatisticsFilter) (models.StatisticsFilter, error) {
	if filter.Department != "" {
		dept, ok := models.ParseDepartment(string(filter.Department))
		if !ok {
			return filter, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown department %q", filter.Department))
		}
		filter.Department = dept
	}
	return filter, validateTermParams(filter.AcademicYear, filter.Semester)
}

func statisticsCacheKey(filter models.StatisticsFilter) string {
	parts := []string{"schedule", "stats", orAll(string(filter.Department)), orAll(filter.AcademicYear), "all"}
	if filter.Semester > 0 {
		parts[4] = fmt.Sprintf("%d", filter.Semester)
	}
	return strings.Join(parts, ":")
}

func orAll(value string) string {
	if value == "" {
		return "all"
	}
	return value
}

func distinctInstructorIDs(entries []models.ScheduleEntry) []string {
	seen := map[string]struct{}{}
	ids := make([]string, 0)
	for _, entry := range entries {
		if _, ok := seen[entry.InstructorID]; ok {
			continue
		}
		seen[entry.InstructorID] = struct{}{}
		ids = append(ids, entry.InstructorID)
	}
	sort.Strings(ids)
	return ids
}

type dayBucket struct {
	entries int
	courses map[string]struct{}
}

type departmentBucket struct {
	entries int
	courses map[string]struct{}
	days    map[models.Weekday]*dayBucket
}

type roomBucket struct {
	name     string
	bookings int
	minutes  int
	days     map[models.Weekday]struct{}
}

type instructorBucket struct {
	entries int
	minutes int
	courses map[string]struct{}
	days    map[models.Weekday]struct{}
}

// aggregateStatistics is deterministic for a given entry set regardless of input order.
func aggregateStatistics(entries []models.ScheduleEntry, names map[string]string) models.ScheduleStatistics {
	departments := map[models.Department]*departmentBucket{}
	rooms := map[string]*roomBucket{}
	instructors := map[string]*instructorBucket{}

	for _, entry := range entries {
		if !entry.IsActive() {
			continue
		}
		minutes := 0
		if slot, err := entry.Slot(); err == nil {
			minutes = slot.Duration()
		}

		dept, ok := departments[entry.Department]
		if !ok {
			dept = &departmentBucket{courses: map[string]struct{}{}, days: map[models.Weekday]*dayBucket{}}
			departments[entry.Department] = dept
		}
		dept.entries++
		dept.courses[entry.CourseID] = struct{}{}
		day, ok := dept.days[entry.DayOfWeek]
		if !ok {
			day = &dayBucket{courses: map[string]struct{}{}}
			dept.days[entry.DayOfWeek] = day
		}
		day.entries++
		day.courses[entry.CourseID] = struct{}{}

		if key := roomKey(entry.Room()); key != "" {
			room, ok := rooms[key]
			if !ok {
				room = &roomBucket{name: entry.Room(), days: map[models.Weekday]struct{}{}}
				rooms[key] = room
			}
			if entry.Room() < room.name {
				room.name = entry.Room()
			}
			room.bookings++
			room.minutes += minutes
			room.days[entry.DayOfWeek] = struct{}{}
		}

		inst, ok := instructors[entry.InstructorID]
		if !ok {
			inst = &instructorBucket{courses: map[string]struct{}{}, days: map[models.Weekday]struct{}{}}
			instructors[entry.InstructorID] = inst
		}
		inst.entries++
		inst.minutes += minutes
		inst.courses[entry.CourseID] = struct{}{}
		inst.days[entry.DayOfWeek] = struct{}{}
	}

	stats := models.ScheduleStatistics{
		DepartmentStats: make([]models.DepartmentStat, 0, len(departments)),
		RoomUtilization: make([]models.RoomUtilization, 0, len(rooms)),
		InstructorLoad:  make([]models.InstructorLoad, 0, len(instructors)),
	}

	for name, dept := range departments {
		stat := models.DepartmentStat{
			Department:      name,
			TotalEntries:    dept.entries,
			DistinctCourses: len(dept.courses),
			Days:            make([]models.DayLoad, 0, len(dept.days)),
		}
		for _, weekday := range models.Weekdays {
			if day, ok := dept.days[weekday]; ok {
				stat.Days = append(stat.Days, models.DayLoad{DayOfWeek: weekday, Entries: day.entries, DistinctCourses: len(day.courses)})
			}
		}
		stats.DepartmentStats = append(stats.DepartmentStats, stat)
	}
	sort.Slice(stats.DepartmentStats, func(i, j int) bool {
		return stats.DepartmentStats[i].Department < stats.DepartmentStats[j].Department
	})

	for _, room := range rooms {
		stats.RoomUtilization = append(stats.RoomUtilization, models.RoomUtilization{
			RoomNumber:   room.name,
			Bookings:     room.bookings,
			DistinctDays: len(room.days),
			Minutes:      room.minutes,
		})
	}
	sort.Slice(stats.RoomUtilization, func(i, j int) bool {
		a, b := stats.RoomUtilization[i], stats.RoomUtilization[j]
		if a.Bookings != b.Bookings {
			return a.Bookings > b.Bookings
		}
		return a.RoomNumber < b.RoomNumber
	})

	for id, inst := range instructors {
		stats.InstructorLoad = append(stats.InstructorLoad, models.InstructorLoad{
			InstructorID:    id,
			InstructorName:  names[id],
			Entries:         inst.entries,
			DistinctCourses: len(inst.courses),
			DistinctDays:    len(inst.days),
			Minutes:         inst.minutes,
		})
	}
	sort.Slice(stats.InstructorLoad, func(i, j int) bool {
		a, b := stats.InstructorLoad[i], stats.InstructorLoad[j]
		if a.Entries != b.Entries {
			return a.Entries > b.Entries
		}
		return a.InstructorID < b.InstructorID
	})

	return stats
}
