package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/class-scheduling-api/internal/models"
	"github.com/noah-isme/class-scheduling-api/pkg/jobs"
)

type recordingNotifier struct {
	mu     sync.Mutex
	events []models.ScheduleEvent
	err    error
}

func (n *recordingNotifier) Notify(ctx context.Context, event models.ScheduleEvent) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.events = append(n.events, event)
	return nil
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.events)
}

type fullQueue struct{}

func (fullQueue) TryEnqueue(job jobs.Job) error { return jobs.ErrQueueFull }

func sampleEvent() models.ScheduleEvent {
	entry := models.ScheduleEntry{
		ID:           "sched-1",
		CourseID:     "CS101",
		InstructorID: "I1",
		AcademicYear: "2024-2025",
		Semester:     1,
		Department:   models.DepartmentICT,
	}
	return models.NewScheduleEvent(models.ScheduleEventCreated, entry, "registrar-1", time.Now())
}

func TestDispatcherHandleInvalidatesAndNotifies(t *testing.T) {
	repo := newMemoryCache()
	repo.values["schedule:stats:all:all:all"] = []byte(`{}`)
	repo.values["other:key"] = []byte(`{}`)
	notifier := &recordingNotifier{}
	metrics := NewMetricsService()
	dispatcher := NewScheduleEventDispatcher(NewCacheService(repo, metrics, time.Minute, zap.NewNop(), true), notifier, metrics, zap.NewNop())

	event := sampleEvent()
	err := dispatcher.Handle(context.Background(), jobs.Job{ID: event.ScheduleID, Type: string(event.Type), Payload: event})
	require.NoError(t, err)

	assert.Equal(t, []string{StatisticsCachePattern}, repo.deleted)
	assert.NotContains(t, repo.values, "schedule:stats:all:all:all")
	assert.Contains(t, repo.values, "other:key")
	require.Equal(t, 1, notifier.count())
	assert.Equal(t, "registrar-1", notifier.events[0].ActorID)
	assert.Equal(t, models.DepartmentICT, notifier.events[0].Department)
}

func TestDispatcherHandleReturnsErrorsForRetry(t *testing.T) {
	repo := newMemoryCache()
	repo.delErr = errors.New("redis down")
	notifier := &recordingNotifier{}
	dispatcher := NewScheduleEventDispatcher(NewCacheService(repo, nil, time.Minute, zap.NewNop(), true), notifier, nil, zap.NewNop())
	event := sampleEvent()
	job := jobs.Job{ID: event.ScheduleID, Type: string(event.Type), Payload: event}

	require.Error(t, dispatcher.Handle(context.Background(), job))
	assert.Zero(t, notifier.count())

	repo.delErr = nil
	notifier.err = errors.New("smtp down")
	require.Error(t, dispatcher.Handle(context.Background(), job))
}

func TestDispatcherHandleIgnoresUnknownPayload(t *testing.T) {
	notifier := &recordingNotifier{}
	dispatcher := NewScheduleEventDispatcher(nil, notifier, nil, zap.NewNop())

	err := dispatcher.Handle(context.Background(), jobs.Job{Type: "schedule.created", Payload: "garbage"})
	assert.NoError(t, err)
	assert.Zero(t, notifier.count())
}

func TestDispatcherPublishThroughQueue(t *testing.T) {
	notifier := &recordingNotifier{}
	dispatcher := NewScheduleEventDispatcher(nil, notifier, nil, zap.NewNop())
	queue := jobs.NewQueue("schedule-events", dispatcher.Handle, jobs.QueueConfig{Workers: 1, MaxRetries: 1, RetryDelay: time.Millisecond, BufferSize: 4})
	dispatcher.Attach(queue)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	queue.Start(ctx)

	dispatcher.Publish(ctx, sampleEvent())
	assert.Eventually(t, func() bool { return notifier.count() == 1 }, time.Second, 5*time.Millisecond)
	queue.Stop()
}

func TestDispatcherPublishDropsWhenQueueFull(t *testing.T) {
	notifier := &recordingNotifier{}
	dispatcher := NewScheduleEventDispatcher(nil, notifier, nil, zap.NewNop())
	dispatcher.Attach(fullQueue{})

	dispatcher.Publish(context.Background(), sampleEvent())
	assert.Zero(t, notifier.count())

	var nilDispatcher *ScheduleEventDispatcher
	assert.NotPanics(t, func() { nilDispatcher.Publish(context.Background(), sampleEvent()) })
}
