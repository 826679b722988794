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

	"github.com/noah-isme/class-scheduling-api/internal/models"
	appErrors "github.com/noah-isme/class-scheduling-api/pkg/errors"
)

type fakeViewSrv struct {
	calls []string
}

func (f *fakeViewSrv) ForDepartment(_ context.Context, department, _ string, _ int) (models.DaySchedule, error) {
	f.calls = append(f.calls, "department:"+department)
	if department == "LAW" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown department")
	}
	days := models.NewDaySchedule()
	days[models.Monday] = []models.ScheduleView{{Schedule: *sampleEntry(), CourseCode: "CS101"}}
	return days, nil
}

func (f *fakeViewSrv) ForStudent(_ context.Context, studentID, _ string, _ int) (models.DaySchedule, error) {
	f.calls = append(f.calls, "student:"+studentID)
	return models.NewDaySchedule(), nil
}

func (f *fakeViewSrv) ForInstructor(_ context.Context, instructorID, year string, semester int) (models.DaySchedule, error) {
	f.calls = append(f.calls, "instructor:"+instructorID)
	return models.NewDaySchedule(), nil
}

func newViewRouter(srv *fakeViewSrv) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewScheduleViewHandler(srv)
	router := gin.New()
	router.GET("/departments/:department/schedule", handler.Department)
	router.GET("/students/:id/schedule", handler.Student)
	router.GET("/instructors/:id/schedule", handler.Instructor)
	return router
}

func TestScheduleViewHandlerGroupsByWeekday(t *testing.T) {
	srv := &fakeViewSrv{}
	router := newViewRouter(srv)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/departments/ICT/schedule?academicYear=2024-2025&semester=1", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Data map[string][]map[string]interface{} `json:"data"`
		Meta map[string]interface{}              `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Len(t, envelope.Data, 7)
	assert.Len(t, envelope.Data["Monday"], 1)
	assert.Empty(t, envelope.Data["Sunday"])
	assert.Equal(t, float64(1), envelope.Meta["total"])
}

func TestScheduleViewHandlerRoutesSubjects(t *testing.T) {
	srv := &fakeViewSrv{}
	router := newViewRouter(srv)

	for _, path := range []string{"/students/s-1/schedule", "/instructors/I1/schedule"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
	assert.Equal(t, []string{"student:s-1", "instructor:I1"}, srv.calls)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/departments/LAW/schedule", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
