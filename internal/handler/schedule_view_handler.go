package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/class-scheduling-api/internal/models"
	"github.com/noah-isme/class-scheduling-api/pkg/response"
)

type scheduleViewService interface {
	ForDepartment(ctx context.Context, department, academicYear string, semester int) (models.DaySchedule, error)
	ForStudent(ctx context.Context, studentID, academicYear string, semester int) (models.DaySchedule, error)
	ForInstructor(ctx context.Context, instructorID, academicYear string, semester int) (models.DaySchedule, error)
}

// ScheduleViewHandler serves weekday-grouped timetables.
type ScheduleViewHandler struct {
	service scheduleViewService
}

// NewScheduleViewHandler constructs the handler.
func NewScheduleViewHandler(svc scheduleViewService) *ScheduleViewHandler {
	return &ScheduleViewHandler{service: svc}
}

// Department godoc
// @Summary Department timetable
// @Tags Timetables
// @Produce json
// @Param department path string true "Department"
// @Param academicYear query string false "Academic year"
// @Param semester query int false "Semester"
// @Success 200 {object} response.Envelope
// @Router /departments/{department}/schedule [get]
func (h *ScheduleViewHandler) Department(c *gin.Context) {
	h.serve(c, c.Param("department"), h.service.ForDepartment)
}

// Student godoc
// @Summary Student timetable
// @Description Active entries of the courses the student registered for.
// @Tags Timetables
// @Produce json
// @Param id path string true "Student ID"
// @Param academicYear query string false "Academic year"
// @Param semester query int false "Semester"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/schedule [get]
func (h *ScheduleViewHandler) Student(c *gin.Context) {
	h.serve(c, c.Param("id"), h.service.ForStudent)
}

// Instructor godoc
// @Summary Instructor timetable
// @Tags Timetables
// @Produce json
// @Param id path string true "Instructor ID"
// @Param academicYear query string false "Academic year"
// @Param semester query int false "Semester"
// @Success 200 {object} response.Envelope
// @Router /instructors/{id}/schedule [get]
func (h *ScheduleViewHandler) Instructor(c *gin.Context) {
	h.serve(c, c.Param("id"), h.service.ForInstructor)
}

func (h *ScheduleViewHandler) serve(c *gin.Context, subject string, view func(context.Context, string, string, int) (models.DaySchedule, error)) {
	year, semester, err := termQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	days, err := view(c.Request.Context(), subject, year, semester)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, days, map[string]interface{}{"total": days.Count()})
}
