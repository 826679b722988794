package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/class-scheduling-api/internal/models"
	"github.com/noah-isme/class-scheduling-api/pkg/response"
)

type availabilityService interface {
	AvailableInstructors(ctx context.Context, query models.SlotQuery) ([]models.Instructor, error)
	InstructorsWithConflict(ctx context.Context, query models.SlotQuery) ([]string, error)
	AvailableRooms(ctx context.Context, query models.SlotQuery) ([]string, error)
}

// AvailabilityHandler answers which instructors and rooms are free for a slot.
type AvailabilityHandler struct {
	service availabilityService
}

// NewAvailabilityHandler constructs the handler.
func NewAvailabilityHandler(svc availabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{service: svc}
}

// Instructors godoc
// @Summary Available instructors
// @Description Roster instructors without an overlapping active entry in the year and semester. meta.conflicting_instructor_ids lists the rest of the roster.
// @Tags Availability
// @Produce json
// @Param dayOfWeek query string true "Day of week"
// @Param startTime query string true "Start time (HH:MM)"
// @Param endTime query string true "End time (HH:MM)"
// @Param academicYear query string true "Academic year"
// @Param semester query int true "Semester"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /schedules/available/instructors [get]
func (h *AvailabilityHandler) Instructors(c *gin.Context) {
	query, ok := bindSlotQuery(c)
	if !ok {
		return
	}
	available, err := h.service.AvailableInstructors(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	conflicting, err := h.service.InstructorsWithConflict(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, available, map[string]interface{}{"conflicting_instructor_ids": conflicting})
}

// Rooms godoc
// @Summary Available rooms
// @Tags Availability
// @Produce json
// @Param dayOfWeek query string true "Day of week"
// @Param startTime query string true "Start time (HH:MM)"
// @Param endTime query string true "End time (HH:MM)"
// @Param academicYear query string true "Academic year"
// @Param semester query int true "Semester"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /schedules/available/rooms [get]
func (h *AvailabilityHandler) Rooms(c *gin.Context) {
	query, ok := bindSlotQuery(c)
	if !ok {
		return
	}
	rooms, err := h.service.AvailableRooms(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, rooms)
}

func bindSlotQuery(c *gin.Context) (models.SlotQuery, bool) {
	var query models.SlotQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, invalidPayload(err))
		return query, false
	}
	return query, true
}

