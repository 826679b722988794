package handler

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/class-scheduling-api/internal/models"
	"github.com/noah-isme/class-scheduling-api/internal/service"
	appErrors "github.com/noah-isme/class-scheduling-api/pkg/errors"
	"github.com/noah-isme/class-scheduling-api/pkg/response"
)

type scheduleService interface {
	Get(ctx context.Context, id string) (*models.ScheduleEntry, error)
	List(ctx context.Context, filter models.ScheduleFilter) ([]models.ScheduleEntry, *models.Pagination, error)
	SessionsOn(ctx context.Context, courseID string, date time.Time, academicYear string, semester int) ([]models.ScheduleEntry, error)
	Create(ctx context.Context, req service.CreateScheduleRequest, createdBy string) (*models.ScheduleEntry, error)
	Update(ctx context.Context, id string, req service.UpdateScheduleRequest) (*models.ScheduleEntry, error)
	Delete(ctx context.Context, id string) (*models.DeleteResult, *models.ScheduleEntry, error)
}

type eventPublisher interface {
	Publish(ctx context.Context, event models.ScheduleEvent)
}

// ScheduleHandler manages schedule endpoints.
type ScheduleHandler struct {
	service scheduleService
	events  eventPublisher
	now     func() time.Time
}

// NewScheduleHandler constructs handler. events may be nil.
func NewScheduleHandler(svc scheduleService, events eventPublisher) *ScheduleHandler {
	return &ScheduleHandler{service: svc, events: events, now: time.Now}
}

// List godoc
// @Summary List schedules
// @Tags Schedules
// @Produce json
// @Param academicYear query string false "Academic year, e.g. 2024-2025"
// @Param semester query int false "Semester (1 or 2)"
// @Param department query string false "Department"
// @Param courseId query string false "Filter by course"
// @Param instructorId query string false "Filter by instructor"
// @Param room query string false "Filter by room"
// @Param dayOfWeek query string false "Filter by day"
// @Param status query string false "ACTIVE or RETIRED"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Param sort query string false "Sort field"
// @Param order query string false "asc or desc"
// @Success 200 {object} response.Envelope
// @Router /schedules [get]
func (h *ScheduleHandler) List(c *gin.Context) {
	filter, err := scheduleFilterFromQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	schedules, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, schedules, pagination)
}

// Get godoc
// @Summary Get schedule
// @Tags Schedules
// @Produce json
// @Param id path string true "Schedule ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /schedules/{id} [get]
func (h *ScheduleHandler) Get(c *gin.Context) {
	schedule, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, schedule)
}

// Sessions godoc
// @Summary Sessions of a course on a date
// @Description Active entries of the course held on the weekday of the given date.
// @Tags Schedules
// @Produce json
// @Param courseId query string true "Course ID"
// @Param date query string true "Date (YYYY-MM-DD)"
// @Param academicYear query string false "Academic year"
// @Param semester query int false "Semester"
// @Success 200 {object} response.Envelope
// @Router /schedules/sessions [get]
func (h *ScheduleHandler) Sessions(c *gin.Context) {
	date, err := time.Parse("2006-01-02", strings.TrimSpace(c.Query("date")))
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "date must be YYYY-MM-DD"))
		return
	}
	year, semester, err := termQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	sessions, err := h.service.SessionsOn(c.Request.Context(), c.Query("courseId"), date, year, semester)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, sessions, map[string]interface{}{"day_of_week": models.WeekdayOf(date)})
}

// Create godoc
// @Summary Create schedule
// @Description Rejects with 409 SCHEDULING_CONFLICT when the instructor or room is already booked.
// @Tags Schedules
// @Accept json
// @Produce json
// @Param payload body service.CreateScheduleRequest true "Schedule payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /schedules [post]
func (h *ScheduleHandler) Create(c *gin.Context) {
	var req service.CreateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err))
		return
	}
	actor := actorID(c)
	schedule, err := h.service.Create(c.Request.Context(), req, actor)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.publish(c, models.ScheduleEventCreated, *schedule, actor)
	response.Created(c, schedule)
}

// Update godoc
// @Summary Update schedule
// @Description Partial update. Omitted fields keep their value; an empty room_number clears the room.
// @Tags Schedules
// @Accept json
// @Produce json
// @Param id path string true "Schedule ID"
// @Param payload body service.UpdateScheduleRequest true "Schedule payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /schedules/{id} [patch]
func (h *ScheduleHandler) Update(c *gin.Context) {
	var req service.UpdateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err))
		return
	}
	schedule, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.publish(c, models.ScheduleEventUpdated, *schedule, actorID(c))
	response.OK(c, schedule)
}

// Delete godoc
// @Summary Delete schedule
// @Description Removes the entry, or retires it when attendance records reference it.
// @Tags Schedules
// @Produce json
// @Param id path string true "Schedule ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /schedules/{id} [delete]
func (h *ScheduleHandler) Delete(c *gin.Context) {
	result, schedule, err := h.service.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	eventType := models.ScheduleEventDeleted
	if result.Deactivated {
		eventType = models.ScheduleEventDeactivated
	}
	h.publish(c, eventType, *schedule, actorID(c))
	response.OK(c, result)
}

func (h *ScheduleHandler) publish(c *gin.Context, eventType models.ScheduleEventType, entry models.ScheduleEntry, actor string) {
	if h.events == nil {
		return
	}
	h.events.Publish(c.Request.Context(), models.NewScheduleEvent(eventType, entry, actor, h.now()))
}

func scheduleFilterFromQuery(c *gin.Context) (models.ScheduleFilter, error) {
	var filter models.ScheduleFilter
	year, semester, err := termQuery(c)
	if err != nil {
		return filter, err
	}
	filter.AcademicYear = year
	filter.Semester = semester
	filter.CourseID = strings.TrimSpace(c.Query("courseId"))
	filter.InstructorID = strings.TrimSpace(c.Query("instructorId"))
	filter.RoomNumber = strings.TrimSpace(c.Query("room"))
	filter.SortBy = c.Query("sort")
	filter.SortOrder = c.Query("order")

	if raw := c.Query("department"); raw != "" {
		dept, ok := models.ParseDepartment(raw)
		if !ok {
			return filter, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown department %q", raw))
		}
		filter.Department = dept
	}
	if raw := c.Query("dayOfWeek"); raw != "" {
		day, err := models.ParseWeekday(raw)
		if err != nil {
			return filter, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, err.Error())
		}
		filter.DayOfWeek = day
	}
	if raw := strings.ToUpper(strings.TrimSpace(c.Query("status"))); raw != "" {
		status := models.ScheduleStatus(raw)
		if status != models.ScheduleStatusActive && status != models.ScheduleStatusRetired {
			return filter, appErrors.Clone(appErrors.ErrValidation, "status must be ACTIVE or RETIRED")
		}
		filter.Status = status
	}
	if filter.Page, err = intQuery(c, "page"); err != nil {
		return filter, err
	}
	if filter.PageSize, err = intQuery(c, "limit"); err != nil {
		return filter, err
	}
	return filter, nil
}
