package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/class-scheduling-api/internal/middleware"
	"github.com/noah-isme/class-scheduling-api/internal/models"
	"github.com/noah-isme/class-scheduling-api/internal/service"
	appErrors "github.com/noah-isme/class-scheduling-api/pkg/errors"
)

type fakeScheduleSrv struct {
	entry        *models.ScheduleEntry
	err          error
	deleteResult *models.DeleteResult
	lastFilter   models.ScheduleFilter
	lastCreate   service.CreateScheduleRequest
	lastActor    string
	lastDate     time.Time
}

func (f *fakeScheduleSrv) Get(context.Context, string) (*models.ScheduleEntry, error) {
	return f.entry, f.err
}

func (f *fakeScheduleSrv) List(_ context.Context, filter models.ScheduleFilter) ([]models.ScheduleEntry, *models.Pagination, error) {
	f.lastFilter = filter
	if f.err != nil {
		return nil, nil, f.err
	}
	return []models.ScheduleEntry{*f.entry}, &models.Pagination{Page: 1, PageSize: 20, TotalCount: 1}, nil
}

func (f *fakeScheduleSrv) SessionsOn(_ context.Context, _ string, date time.Time, _ string, _ int) ([]models.ScheduleEntry, error) {
	f.lastDate = date
	return []models.ScheduleEntry{*f.entry}, f.err
}

func (f *fakeScheduleSrv) Create(_ context.Context, req service.CreateScheduleRequest, createdBy string) (*models.ScheduleEntry, error) {
	f.lastCreate = req
	f.lastActor = createdBy
	return f.entry, f.err
}

func (f *fakeScheduleSrv) Update(context.Context, string, service.UpdateScheduleRequest) (*models.ScheduleEntry, error) {
	return f.entry, f.err
}

func (f *fakeScheduleSrv) Delete(context.Context, string) (*models.DeleteResult, *models.ScheduleEntry, error) {
	if f.err != nil {
		return nil, nil, f.err
	}
	return f.deleteResult, f.entry, nil
}

type recordingPublisher struct {
	events []models.ScheduleEvent
}

func (p *recordingPublisher) Publish(_ context.Context, event models.ScheduleEvent) {
	p.events = append(p.events, event)
}

type errorEnvelope struct {
	Error struct {
		Code    string          `json:"code"`
		Details json.RawMessage `json:"details"`
	} `json:"error"`
}

func sampleEntry() *models.ScheduleEntry {
	room := "R1"
	return &models.ScheduleEntry{
		ID:           "sched-1",
		CourseID:     "CS101",
		InstructorID: "I1",
		CreatedBy:    "u-reg",
		AcademicYear: "2024-2025",
		Semester:     1,
		Department:   models.DepartmentICT,
		DayOfWeek:    models.Monday,
		StartTime:    "08:00",
		EndTime:      "09:30",
		RoomNumber:   &room,
		Status:       models.ScheduleStatusActive,
	}
}

func newScheduleRouter(srv *fakeScheduleSrv, publisher *recordingPublisher) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewScheduleHandler(srv, publisher)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "u-reg", Role: models.RoleRegistrar})
		c.Next()
	})
	router.GET("/schedules", handler.List)
	router.GET("/schedules/sessions", handler.Sessions)
	router.POST("/schedules", handler.Create)
	router.PATCH("/schedules/:id", handler.Update)
	router.DELETE("/schedules/:id", handler.Delete)
	return router
}

func doJSON(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestScheduleHandlerCreatePublishesEvent(t *testing.T) {
	srv := &fakeScheduleSrv{entry: sampleEntry()}
	publisher := &recordingPublisher{}
	router := newScheduleRouter(srv, publisher)

	rec := doJSON(router, http.MethodPost, "/schedules", map[string]interface{}{
		"course_id": "CS101", "instructor_id": "I1", "academic_year": "2024-2025", "semester": 1,
		"department": "ICT", "day_of_week": "Monday", "start_time": "08:00", "end_time": "09:30",
	})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "u-reg", srv.lastActor)
	assert.Equal(t, "CS101", srv.lastCreate.CourseID)
	assert.Contains(t, rec.Body.String(), `"is_active":true`)
	require.Len(t, publisher.events, 1)
	assert.Equal(t, models.ScheduleEventCreated, publisher.events[0].Type)
	assert.Equal(t, "sched-1", publisher.events[0].ScheduleID)
	assert.Equal(t, "u-reg", publisher.events[0].ActorID)
}

func TestScheduleHandlerCreateConflict(t *testing.T) {
	report := models.ConflictReport{
		InstructorConflicts: []models.ScheduleEntry{*sampleEntry()},
		RoomConflicts:       []models.ScheduleEntry{},
	}
	srv := &fakeScheduleSrv{err: appErrors.WithDetails(appErrors.ErrSchedulingConflict, report)}
	publisher := &recordingPublisher{}
	router := newScheduleRouter(srv, publisher)

	rec := doJSON(router, http.MethodPost, "/schedules", map[string]interface{}{"course_id": "CS102"})

	assert.Equal(t, http.StatusConflict, rec.Code)
	var envelope errorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "SCHEDULING_CONFLICT", envelope.Error.Code)

	var details struct {
		InstructorConflicts []map[string]interface{} `json:"instructor_conflicts"`
		RoomConflicts       []map[string]interface{} `json:"room_conflicts"`
	}
	require.NoError(t, json.Unmarshal(envelope.Error.Details, &details))
	require.Len(t, details.InstructorConflicts, 1)
	assert.Equal(t, "sched-1", details.InstructorConflicts[0]["id"])
	assert.NotNil(t, details.RoomConflicts)
	assert.Empty(t, publisher.events)
}

func TestScheduleHandlerCreateRejectsMalformedJSON(t *testing.T) {
	router := newScheduleRouter(&fakeScheduleSrv{entry: sampleEntry()}, &recordingPublisher{})

	req := httptest.NewRequest(http.MethodPost, "/schedules", bytes.NewBufferString("{"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "VALIDATION_ERROR")
}

func TestScheduleHandlerDeleteOutcomes(t *testing.T) {
	publisher := &recordingPublisher{}
	srv := &fakeScheduleSrv{entry: sampleEntry(), deleteResult: &models.DeleteResult{Deactivated: true}}
	router := newScheduleRouter(srv, publisher)

	rec := doJSON(router, http.MethodDelete, "/schedules/sched-1", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"deactivated":true}`, extractData(t, rec))

	srv.deleteResult = &models.DeleteResult{Deleted: true}
	rec = doJSON(router, http.MethodDelete, "/schedules/sched-1", nil)
	assert.JSONEq(t, `{"deleted":true}`, extractData(t, rec))

	require.Len(t, publisher.events, 2)
	assert.Equal(t, models.ScheduleEventDeactivated, publisher.events[0].Type)
	assert.Equal(t, models.ScheduleEventDeleted, publisher.events[1].Type)

	srv.err = appErrors.Clone(appErrors.ErrNotFound, "schedule not found")
	rec = doJSON(router, http.MethodDelete, "/schedules/missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Len(t, publisher.events, 2)
}

func TestScheduleHandlerUpdateRetired(t *testing.T) {
	srv := &fakeScheduleSrv{err: appErrors.Clone(appErrors.ErrScheduleRetired, "retired schedules cannot be updated")}
	router := newScheduleRouter(srv, &recordingPublisher{})

	rec := doJSON(router, http.MethodPatch, "/schedules/sched-1", map[string]interface{}{"notes": "x"})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "SCHEDULE_RETIRED")
}

func TestScheduleHandlerListFilters(t *testing.T) {
	srv := &fakeScheduleSrv{entry: sampleEntry()}
	router := newScheduleRouter(srv, &recordingPublisher{})

	rec := doJSON(router, http.MethodGet, "/schedules?department=ict&dayOfWeek=monday&status=retired&academicYear=2024-2025&semester=2&page=3&limit=5", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.DepartmentICT, srv.lastFilter.Department)
	assert.Equal(t, models.Monday, srv.lastFilter.DayOfWeek)
	assert.Equal(t, models.ScheduleStatusRetired, srv.lastFilter.Status)
	assert.Equal(t, 2, srv.lastFilter.Semester)
	assert.Equal(t, 3, srv.lastFilter.Page)
	assert.Equal(t, 5, srv.lastFilter.PageSize)
	assert.Contains(t, rec.Body.String(), `"total_count":1`)

	for _, query := range []string{"department=LAW", "dayOfWeek=Someday", "status=DRAFT", "semester=one", "page=x"} {
		rec = doJSON(router, http.MethodGet, "/schedules?"+query, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, query)
	}
}

func TestScheduleHandlerSessions(t *testing.T) {
	srv := &fakeScheduleSrv{entry: sampleEntry()}
	router := newScheduleRouter(srv, &recordingPublisher{})

	rec := doJSON(router, http.MethodGet, "/schedules/sessions?courseId=CS101&date=2024-09-02", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, srv.lastDate.Day())
	assert.Contains(t, rec.Body.String(), `"day_of_week":"Monday"`)

	rec = doJSON(router, http.MethodGet, "/schedules/sessions?courseId=CS101&date=02/09/2024", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestScheduleHandlerInternalErrorsAreOpaque(t *testing.T) {
	srv := &fakeScheduleSrv{err: errors.New("pq: connection refused")}
	router := newScheduleRouter(srv, &recordingPublisher{})

	rec := doJSON(router, http.MethodGet, "/schedules", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "connection refused")
}

func extractData(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return string(envelope.Data)
}
