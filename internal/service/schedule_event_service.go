package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/class-scheduling-api/internal/models"
	"github.com/noah-isme/class-scheduling-api/pkg/jobs"
)

// Notifier delivers schedule change events to the notification collaborator.
type Notifier interface {
	Notify(ctx context.Context, event models.ScheduleEvent) error
}

// LogNotifier writes events to the structured log. It is the default when no delivery channel
// is configured.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier constructs a LogNotifier.
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogNotifier{logger: logger}
}

// Notify logs the event.
func (n *LogNotifier) Notify(ctx context.Context, event models.ScheduleEvent) error {
	n.logger.Info("schedule event",
		zap.String("type", string(event.Type)),
		zap.String("schedule_id", event.ScheduleID),
		zap.String("course_id", event.CourseID),
		zap.String("instructor_id", event.InstructorID),
		zap.String("department", string(event.Department)),
		zap.String("actor_id", event.ActorID),
		zap.Time("occurred_at", event.OccurredAt),
	)
	return nil
}

type eventQueue interface {
	TryEnqueue(job jobs.Job) error
}

// ScheduleEventDispatcher publishes schedule changes after successful writes and processes them
// off the request path: the statistics cache is invalidated and the notifier is called.
type ScheduleEventDispatcher struct {
	queue    eventQueue
	cache    *CacheService
	notifier Notifier
	metrics  *MetricsService
	logger   *zap.Logger
}

// NewScheduleEventDispatcher constructs a dispatcher. Attach a queue before publishing.
func NewScheduleEventDispatcher(cache *CacheService, notifier Notifier, metrics *MetricsService, logger *zap.Logger) *ScheduleEventDispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	if notifier == nil {
		notifier = NewLogNotifier(logger)
	}
	return &ScheduleEventDispatcher{cache: cache, notifier: notifier, metrics: metrics, logger: logger}
}

// Attach sets the queue used by Publish. The queue's handler should be d.Handle.
func (d *ScheduleEventDispatcher) Attach(queue eventQueue) {
	d.queue = queue
}

// Publish enqueues the event without blocking. Without a queue the event is handled inline.
func (d *ScheduleEventDispatcher) Publish(ctx context.Context, event models.ScheduleEvent) {
	if d == nil {
		return
	}
	job := jobs.Job{ID: event.ScheduleID, Type: string(event.Type), Payload: event}
	if d.queue == nil {
		if err := d.Handle(ctx, job); err != nil {
			d.logger.Warn("schedule event handling failed", zap.String("type", job.Type), zap.Error(err))
		}
		return
	}
	if err := d.queue.TryEnqueue(job); err != nil {
		d.metrics.RecordEvent(job.Type, "dropped")
		d.logger.Warn("schedule event dropped", zap.String("type", job.Type), zap.String("schedule_id", event.ScheduleID), zap.Error(err))
	}
}

// Handle processes a queued schedule event.
func (d *ScheduleEventDispatcher) Handle(ctx context.Context, job jobs.Job) error {
	event, ok := job.Payload.(models.ScheduleEvent)
	if !ok {
		d.metrics.RecordEvent(job.Type, "invalid")
		d.logger.Error("unexpected schedule event payload", zap.String("type", job.Type), zap.String("payload", fmt.Sprintf("%T", job.Payload)))
		return nil
	}

	if err := d.cache.Invalidate(ctx, StatisticsCachePattern); err != nil {
		d.metrics.RecordEvent(job.Type, "retry")
		return fmt.Errorf("invalidate statistics cache: %w", err)
	}
	if err := d.notifier.Notify(ctx, event); err != nil {
		d.metrics.RecordEvent(job.Type, "retry")
		return fmt.Errorf("notify schedule event: %w", err)
	}
	d.metrics.RecordEvent(job.Type, "handled")
	return nil
}
