package schedule

import "context"

type ScheduleService interface {
	Create(ctx context.Context, req CreateScheduleRequest) (ScheduleResponse, error)
	GetByID(ctx context.Context, id string) (ScheduleResponse, error)
	List(ctx context.Context, filter ScheduleFilter) ([]ScheduleResponse, error)
	Update(ctx context.Context, req UpdateScheduleRequest) (ScheduleResponse, error)
	Delete(ctx context.Context, id string) error
	GetToday(ctx context.Context) (TodayScheduleResponse, error)
}
