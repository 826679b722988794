package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/class-scheduling-api/internal/models"
	appErrors "github.com/noah-isme/class-scheduling-api/pkg/errors"
)

type mockRoster struct {
	instructors []models.Instructor
	err         error
}

func (m *mockRoster) ListActive(ctx context.Context) ([]models.Instructor, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.instructors, nil
}

func seedEntry(store *memoryScheduleStore, id, instructor, dept, day, start, end, room string) {
	entry := &models.ScheduleEntry{
		ID:           id,
		CourseID:     "C-" + id,
		InstructorID: instructor,
		CreatedBy:    "seed",
		AcademicYear: "2024-2025",
		Semester:     1,
		Department:   models.Department(dept),
		DayOfWeek:    models.Weekday(day),
		StartTime:    start,
		EndTime:      end,
		Status:       models.ScheduleStatusActive,
	}
	if room != "" {
		entry.RoomNumber = strPtr(room)
	}
	store.items[id] = entry
}

func mondayQuery(start, end string) models.SlotQuery {
	return models.SlotQuery{DayOfWeek: "Monday", StartTime: start, EndTime: end, AcademicYear: "2024-2025", Semester: 1}
}

func instructorIDs(items []models.Instructor) []string {
	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}
	return ids
}

func newAvailabilityFixture(knownRooms []string) (*AvailabilityService, *memoryScheduleStore, *mockRoster) {
	store := newMemoryScheduleStore()
	roster := &mockRoster{instructors: []models.Instructor{
		{ID: "I1", FullName: "Ada"},
		{ID: "I2", FullName: "Grace"},
		{ID: "I3", FullName: "Linus"},
	}}
	return NewAvailabilityService(store, roster, knownRooms, nil, NewValidator(), zap.NewNop()), store, roster
}

func TestAvailabilityPartitionsRoster(t *testing.T) {
	svc, store, roster := newAvailabilityFixture(nil)
	seedEntry(store, "s1", "I1", "ICT", "Monday", "08:00", "10:00", "R1")
	ctx := context.Background()

	for _, query := range []models.SlotQuery{mondayQuery("09:00", "10:00"), mondayQuery("10:00", "11:00"), mondayQuery("07:00", "08:01")} {
		available, err := svc.AvailableInstructors(ctx, query)
		require.NoError(t, err)
		conflicted, err := svc.InstructorsWithConflict(ctx, query)
		require.NoError(t, err)

		union := append(instructorIDs(available), conflicted...)
		assert.ElementsMatch(t, instructorIDs(roster.instructors), union, "query %+v", query)
		for _, id := range conflicted {
			assert.NotContains(t, instructorIDs(available), id)
		}
	}

	available, err := svc.AvailableInstructors(ctx, mondayQuery("09:00", "10:00"))
	require.NoError(t, err)
	assert.Equal(t, []string{"I2", "I3"}, instructorIDs(available))

	conflicted, err := svc.InstructorsWithConflict(ctx, mondayQuery("09:00", "10:00"))
	require.NoError(t, err)
	assert.Equal(t, []string{"I1"}, conflicted)

	available, err = svc.AvailableInstructors(ctx, mondayQuery("10:00", "11:00"))
	require.NoError(t, err)
	assert.Len(t, available, 3, "touching slots do not overlap")
}

func TestAvailabilitySpansDepartmentsAndIgnoresRetired(t *testing.T) {
	svc, store, _ := newAvailabilityFixture(nil)
	seedEntry(store, "s1", "I2", "CSE", "Monday", "08:00", "10:00", "")
	seedEntry(store, "s2", "I3", "ICT", "Monday", "08:00", "10:00", "")
	store.items["s2"].Status = models.ScheduleStatusRetired
	seedEntry(store, "s3", "I1", "ICT", "Tuesday", "08:00", "10:00", "")

	conflicted, err := svc.InstructorsWithConflict(context.Background(), mondayQuery("09:00", "09:30"))
	require.NoError(t, err)
	assert.Equal(t, []string{"I2"}, conflicted)
}

func TestAvailabilityIgnoresBusyInstructorsOutsideRoster(t *testing.T) {
	svc, store, _ := newAvailabilityFixture(nil)
	seedEntry(store, "s1", "ghost", "ICT", "Monday", "08:00", "10:00", "")

	conflicted, err := svc.InstructorsWithConflict(context.Background(), mondayQuery("08:00", "09:00"))
	require.NoError(t, err)
	assert.Empty(t, conflicted)
}

func TestAvailableRooms(t *testing.T) {
	svc, store, _ := newAvailabilityFixture([]string{"R3", " r2 ", ""})
	seedEntry(store, "s1", "I1", "ICT", "Monday", "08:00", "10:00", "R1")
	seedEntry(store, "s2", "I2", "ICT", "Monday", "13:00", "14:00", "R2")

	rooms, err := svc.AvailableRooms(context.Background(), mondayQuery("09:00", "10:00"))
	require.NoError(t, err)
	assert.Len(t, rooms, 2)
	assert.NotContains(t, rooms, "R1")
	assert.Contains(t, rooms, "R3")

	rooms, err = svc.AvailableRooms(context.Background(), mondayQuery("13:30", "15:00"))
	require.NoError(t, err)
	assert.Equal(t, []string{"R1", "R3"}, rooms)
}

func TestAvailableRoomsEmptyCatalogue(t *testing.T) {
	svc, _, _ := newAvailabilityFixture(nil)

	rooms, err := svc.AvailableRooms(context.Background(), mondayQuery("09:00", "10:00"))
	require.NoError(t, err)
	assert.NotNil(t, rooms)
	assert.Empty(t, rooms)
}

func TestAvailabilityValidation(t *testing.T) {
	svc, _, _ := newAvailabilityFixture(nil)
	ctx := context.Background()

	bad := []models.SlotQuery{
		mondayQuery("10:00", "09:00"),
		mondayQuery("9am", "10:00"),
		{DayOfWeek: "Funday", StartTime: "08:00", EndTime: "09:00", AcademicYear: "2024-2025", Semester: 1},
		{DayOfWeek: "Monday", StartTime: "08:00", EndTime: "09:00", AcademicYear: "2024", Semester: 1},
		{DayOfWeek: "Monday", StartTime: "08:00", EndTime: "09:00", AcademicYear: "2024-2025"},
	}
	for _, query := range bad {
		_, err := svc.AvailableInstructors(ctx, query)
		requireAppError(t, err, appErrors.ErrValidation.Code)
	}
}

func TestAvailabilityCollaboratorFailures(t *testing.T) {
	svc, store, roster := newAvailabilityFixture(nil)
	ctx := context.Background()

	roster.err = errors.New("directory offline")
	_, err := svc.AvailableInstructors(ctx, mondayQuery("08:00", "09:00"))
	requireAppError(t, err, appErrors.ErrInternal.Code)

	roster.err = nil
	store.listErr = errors.New("db offline")
	_, err = svc.AvailableRooms(ctx, mondayQuery("08:00", "09:00"))
	requireAppError(t, err, appErrors.ErrInternal.Code)
}
