package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/class-scheduling-api/internal/middleware"
	"github.com/noah-isme/class-scheduling-api/internal/models"
	"github.com/noah-isme/class-scheduling-api/pkg/response"
)

type statisticsService interface {
	Statistics(ctx context.Context, filter models.StatisticsFilter) (*models.ScheduleStatistics, bool, error)
}

// StatisticsHandler serves schedule load statistics.
type StatisticsHandler struct {
	service statisticsService
}

// NewStatisticsHandler constructs the handler.
func NewStatisticsHandler(svc statisticsService) *StatisticsHandler {
	return &StatisticsHandler{service: svc}
}

// Statistics godoc
// @Summary Schedule statistics
// @Description Department load, room utilisation and instructor load over active entries.
// @Tags Statistics
// @Produce json
// @Param department query string false "Department"
// @Param academicYear query string false "Academic year"
// @Param semester query int false "Semester"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /schedules/statistics [get]
func (h *StatisticsHandler) Statistics(c *gin.Context) {
	year, semester, err := termQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	filter := models.StatisticsFilter{
		Department:   models.Department(c.Query("department")),
		AcademicYear: year,
		Semester:     semester,
	}

	stats, hit, err := h.service.Statistics(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, hit)
	response.OK(c, stats, middleware.ExtractMeta(c))
}
