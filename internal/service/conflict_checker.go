package service

import (
	"context"
	"strings"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/class-scheduling-api/internal/models"
	appErrors "github.com/noah-isme/class-scheduling-api/pkg/errors"
)

type conflictStore interface {
	ListActiveForDay(ctx context.Context, exec sqlx.ExtContext, scope models.TermScope, day models.Weekday) ([]models.ScheduleEntry, error)
}

// ConflictChecker finds active entries that would double-book a candidate's instructor or room.
type ConflictChecker struct {
	store  conflictStore
	logger *zap.Logger
}

// NewConflictChecker constructs a ConflictChecker.
func NewConflictChecker(store conflictStore, logger *zap.Logger) *ConflictChecker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConflictChecker{store: store, logger: logger}
}

// FindConflicts scans the candidate's term scope and day. excludeID skips the entry being
// updated so it never conflicts with its own prior state. exec may be a transaction.
func (c *ConflictChecker) FindConflicts(ctx context.Context, exec sqlx.ExtContext, candidate models.ScheduleEntry, excludeID string) (models.ConflictReport, error) {
	slot, err := candidate.Slot()
	if err != nil {
		return emptyReport(), appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}

	existing, err := c.store.ListActiveForDay(ctx, exec, candidate.Scope(), slot.Day)
	if err != nil {
		return emptyReport(), appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedules for conflict check")
	}

	return c.collect(candidate, slot, existing, excludeID), nil
}

func (c *ConflictChecker) collect(candidate models.ScheduleEntry, slot models.TimeSlot, existing []models.ScheduleEntry, excludeID string) models.ConflictReport {
	report := emptyReport()
	room := candidate.Room()

	for _, entry := range existing {
		if excludeID != "" && entry.ID == excludeID {
			continue
		}
		if !entry.IsActive() {
			continue
		}
		other, err := entry.Slot()
		if err != nil {
			c.logger.Warn("skipping schedule with malformed slot", zap.String("schedule_id", entry.ID), zap.Error(err))
			continue
		}
		if !slot.Overlaps(other) {
			continue
		}
		if entry.InstructorID == candidate.InstructorID {
			report.InstructorConflicts = append(report.InstructorConflicts, entry)
		}
		if room != "" && sameRoom(room, entry.Room()) {
			report.RoomConflicts = append(report.RoomConflicts, entry)
		}
	}

	return report
}

func emptyReport() models.ConflictReport {
	return models.ConflictReport{
		InstructorConflicts: []models.ScheduleEntry{},
		RoomConflicts:       []models.ScheduleEntry{},
	}
}

func sameRoom(a, b string) bool {
	return b != "" && strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

func roomKey(room string) string {
	return strings.ToLower(strings.TrimSpace(room))
}
