package schedule

import "context"

type ScheduleRepository interface {
	Create(ctx context.Context, s Schedule) (Schedule, error)
	GetByID(ctx context.Context, id string) (Schedule, error)
	List(ctx context.Context, filter ScheduleFilter) ([]Schedule, error)
	// ListActiveFor returns the active schedules of an ISO weekday, ordered by start time.
	ListActiveFor(ctx context.Context, dayOfWeek int) ([]Schedule, error)
	Update(ctx context.Context, s Schedule) (Schedule, error)
	Delete(ctx context.Context, id string) error
}
