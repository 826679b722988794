package models

import "time"

// ScheduleEventType names a lifecycle change published after a successful write.
type ScheduleEventType string

const (
	ScheduleEventCreated     ScheduleEventType = "schedule.created"
	ScheduleEventUpdated     ScheduleEventType = "schedule.updated"
	ScheduleEventDeleted     ScheduleEventType = "schedule.deleted"
	ScheduleEventDeactivated ScheduleEventType = "schedule.deactivated"
)

// ScheduleEvent is handed to the notification collaborator.
type ScheduleEvent struct {
	Type         ScheduleEventType `json:"type"`
	ScheduleID   string            `json:"schedule_id"`
	CourseID     string            `json:"course_id"`
	InstructorID string            `json:"instructor_id"`
	Department   Department        `json:"department"`
	AcademicYear string            `json:"academic_year"`
	Semester     int               `json:"semester"`
	ActorID      string            `json:"actor_id,omitempty"`
	OccurredAt   time.Time         `json:"occurred_at"`
}

// NewScheduleEvent describes a change to entry made by actorID.
func NewScheduleEvent(eventType ScheduleEventType, entry ScheduleEntry, actorID string, at time.Time) ScheduleEvent {
	return ScheduleEvent{
		Type:         eventType,
		ScheduleID:   entry.ID,
		CourseID:     entry.CourseID,
		InstructorID: entry.InstructorID,
		Department:   entry.Department,
		AcademicYear: entry.AcademicYear,
		Semester:     entry.Semester,
		ActorID:      actorID,
		OccurredAt:   at.UTC(),
	}
}
