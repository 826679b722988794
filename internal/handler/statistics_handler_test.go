package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/class-scheduling-api/internal/middleware"
	"github.com/noah-isme/class-scheduling-api/internal/models"
)

type fakeStatisticsSrv struct {
	stats      *models.ScheduleStatistics
	hit        bool
	lastFilter models.StatisticsFilter
}

func (f *fakeStatisticsSrv) Statistics(_ context.Context, filter models.StatisticsFilter) (*models.ScheduleStatistics, bool, error) {
	f.lastFilter = filter
	return f.stats, f.hit, nil
}

func TestStatisticsHandlerReportsCacheHit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakeStatisticsSrv{stats: &models.ScheduleStatistics{
		DepartmentStats: []models.DepartmentStat{{Department: models.DepartmentICT, TotalEntries: 3}},
	}, hit: true}
	router := gin.New()
	router.Use(middleware.WithResponseMeta())
	router.GET("/schedules/statistics", NewStatisticsHandler(srv).Statistics)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/schedules/statistics?department=ICT&academicYear=2024-2025&semester=1", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "HIT", rec.Header().Get(middleware.CacheHeader))
	assert.Equal(t, models.StatisticsFilter{Department: models.DepartmentICT, AcademicYear: "2024-2025", Semester: 1}, srv.lastFilter)

	var envelope struct {
		Data models.ScheduleStatistics `json:"data"`
		Meta map[string]interface{}    `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, true, envelope.Meta["cache_hit"])
	assert.Equal(t, 3, envelope.Data.DepartmentStats[0].TotalEntries)
}

func TestStatisticsHandlerRejectsBadSemester(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/schedules/statistics?semester=first", nil)

	NewStatisticsHandler(&fakeStatisticsSrv{}).Statistics(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
