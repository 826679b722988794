package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/class-scheduling-api/internal/models"
	appErrors "github.com/noah-isme/class-scheduling-api/pkg/errors"
)

type availabilityStore interface {
	ListActiveForSlot(ctx context.Context, academicYear string, semester int, day models.Weekday) ([]models.ScheduleEntry, error)
	DistinctRooms(ctx context.Context) ([]string, error)
}

type instructorRoster interface {
	ListActive(ctx context.Context) ([]models.Instructor, error)
}

// AvailabilityService answers which instructors and rooms are free for a candidate slot.
// Availability is the complement of conflicts: anyone without an overlapping active entry
// in the year and semester is free.
type AvailabilityService struct {
	store      availabilityStore
	roster     instructorRoster
	knownRooms []string
	metrics    *MetricsService
	validator  *validator.Validate
	logger     *zap.Logger
}

// NewAvailabilityService constructs the service. knownRooms is the configured room catalogue
// merged with every room found in schedule history.
func NewAvailabilityService(store availabilityStore, roster instructorRoster, knownRooms []string, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *AvailabilityService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AvailabilityService{
		store:      store,
		roster:     roster,
		knownRooms: knownRooms,
		metrics:    metrics,
		validator:  validate,
		logger:     logger,
	}
}

type slotOccupancy struct {
	instructors map[string]struct{}
	rooms       map[string]struct{}
}

// AvailableInstructors returns roster instructors with no overlapping active entry.
func (s *AvailabilityService) AvailableInstructors(ctx context.Context, query models.SlotQuery) ([]models.Instructor, error) {
	roster, busy, err := s.rosterAndOccupancy(ctx, query)
	if err != nil {
		return nil, err
	}

	available := make([]models.Instructor, 0, len(roster))
	for _, instructor := range roster {
		if _, taken := busy.instructors[instructor.ID]; !taken {
			available = append(available, instructor)
		}
	}
	return available, nil
}

// InstructorsWithConflict returns the ids of roster instructors that already teach in the slot.
// Together with AvailableInstructors it partitions the roster.
func (s *AvailabilityService) InstructorsWithConflict(ctx context.Context, query models.SlotQuery) ([]string, error) {
	roster, busy, err := s.rosterAndOccupancy(ctx, query)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(busy.instructors))
	for _, instructor := range roster {
		if _, taken := busy.instructors[instructor.ID]; taken {
			ids = append(ids, instructor.ID)
		}
	}
	return ids, nil
}

// AvailableRooms returns known rooms with no overlapping active entry, sorted by name. An
// empty known-room set yields an empty list.
func (s *AvailabilityService) AvailableRooms(ctx context.Context, query models.SlotQuery) ([]string, error) {
	busy, err := s.occupancy(ctx, query)
	if err != nil {
		return nil, err
	}

	history, err := s.store.DistinctRooms(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load known rooms")
	}

	seen := make(map[string]struct{})
	rooms := make([]string, 0, len(history)+len(s.knownRooms))
	for _, room := range append(append([]string{}, s.knownRooms...), history...) {
		key := roomKey(room)
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		if _, taken := busy.rooms[key]; taken {
			continue
		}
		rooms = append(rooms, strings.TrimSpace(room))
	}
	sort.Strings(rooms)
	return rooms, nil
}

func (s *AvailabilityService) rosterAndOccupancy(ctx context.Context, query models.SlotQuery) ([]models.Instructor, slotOccupancy, error) {
	busy, err := s.occupancy(ctx, query)
	if err != nil {
		return nil, slotOccupancy{}, err
	}
	roster, err := s.roster.ListActive(ctx)
	if err != nil {
		return nil, slotOccupancy{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load instructor roster")
	}
	return roster, busy, nil
}

func (s *AvailabilityService) occupancy(ctx context.Context, query models.SlotQuery) (slotOccupancy, error) {
	slot, err := s.validateQuery(query)
	if err != nil {
		return slotOccupancy{}, err
	}

	start := time.Now()
	entries, err := s.store.ListActiveForSlot(ctx, query.AcademicYear, query.Semester, slot.Day)
	if err != nil {
		return slotOccupancy{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedules for availability")
	}
	s.metrics.ObserveDBQuery("schedule_availability", time.Since(start))

	busy := slotOccupancy{instructors: map[string]struct{}{}, rooms: map[string]struct{}{}}
	for _, entry := range entries {
		other, err := entry.Slot()
		if err != nil {
			s.logger.Warn("skipping schedule with malformed slot", zap.String("schedule_id", entry.ID), zap.Error(err))
			continue
		}
		if !entry.IsActive() || !slot.Overlaps(other) {
			continue
		}
		busy.instructors[entry.InstructorID] = struct{}{}
		if key := roomKey(entry.Room()); key != "" {
			busy.rooms[key] = struct{}{}
		}
	}
	return busy, nil
}

func (s *AvailabilityService) validateQuery(query models.SlotQuery) (models.TimeSlot, error) {
	if err := s.validator.Struct(query); err != nil {
		return models.TimeSlot{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid availability query")
	}
	slot, err := models.NewTimeSlot(query.DayOfWeek, query.StartTime, query.EndTime)
	if err != nil {
		return models.TimeSlot{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}
	return slot, nil
}
