package schedule

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/campus-attendance/internal/domain/schedule"
	"github.com/cmlabs-hris/campus-attendance/internal/pkg/clock"
)

type scheduleServiceImpl struct {
	scheduleRepo schedule.ScheduleRepository
	resolver     Resolver
	clock        clock.Clock
}

func NewScheduleService(scheduleRepo schedule.ScheduleRepository, resolver Resolver, clk clock.Clock) schedule.ScheduleService {
	return &scheduleServiceImpl{
		scheduleRepo: scheduleRepo,
		resolver:     resolver,
		clock:        clk,
	}
}

// Create implements schedule.ScheduleService.
func (s *scheduleServiceImpl) Create(ctx context.Context, req schedule.CreateScheduleRequest) (schedule.ScheduleResponse, error) {
	if err := req.Validate(); err != nil {
		return schedule.ScheduleResponse{}, err
	}

	created, err := s.scheduleRepo.Create(ctx, req.ToSchedule())
	if err != nil {
		return schedule.ScheduleResponse{}, fmt.Errorf("failed to create schedule: %w", err)
	}

	return schedule.NewScheduleResponse(created), nil
}

// GetByID implements schedule.ScheduleService.
func (s *scheduleServiceImpl) GetByID(ctx context.Context, id string) (schedule.ScheduleResponse, error) {
	found, err := s.scheduleRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, schedule.ErrScheduleNotFound) {
			return schedule.ScheduleResponse{}, err
		}
		return schedule.ScheduleResponse{}, fmt.Errorf("failed to get schedule: %w", err)
	}

	return schedule.NewScheduleResponse(found), nil
}

// List implements schedule.ScheduleService.
func (s *scheduleServiceImpl) List(ctx context.Context, filter schedule.ScheduleFilter) ([]schedule.ScheduleResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	schedules, err := s.scheduleRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list schedules: %w", err)
	}

	responses := make([]schedule.ScheduleResponse, 0, len(schedules))
	for _, sc := range schedules {
		responses = append(responses, schedule.NewScheduleResponse(sc))
	}

	return responses, nil
}

// Update implements schedule.ScheduleService.
func (s *scheduleServiceImpl) Update(ctx context.Context, req schedule.UpdateScheduleRequest) (schedule.ScheduleResponse, error) {
	if err := req.Validate(); err != nil {
		return schedule.ScheduleResponse{}, err
	}

	existing, err := s.scheduleRepo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, schedule.ErrScheduleNotFound) {
			return schedule.ScheduleResponse{}, err
		}
		return schedule.ScheduleResponse{}, fmt.Errorf("failed to get schedule: %w", err)
	}

	merged, err := req.Apply(existing)
	if err != nil {
		return schedule.ScheduleResponse{}, err
	}

	updated, err := s.scheduleRepo.Update(ctx, merged)
	if err != nil {
		if errors.Is(err, schedule.ErrScheduleNotFound) {
			return schedule.ScheduleResponse{}, err
		}
		return schedule.ScheduleResponse{}, fmt.Errorf("failed to update schedule: %w", err)
	}

	return schedule.NewScheduleResponse(updated), nil
}

// Delete implements schedule.ScheduleService.
func (s *scheduleServiceImpl) Delete(ctx context.Context, id string) error {
	if err := s.scheduleRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, schedule.ErrScheduleNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete schedule: %w", err)
	}
	return nil
}

// GetToday implements schedule.ScheduleService.
func (s *scheduleServiceImpl) GetToday(ctx context.Context) (schedule.TodayScheduleResponse, error) {
	now := s.clock.Now()
	day := schedule.ISOWeekday(now)

	active, err := s.scheduleRepo.ListActiveFor(ctx, day)
	if err != nil {
		return schedule.TodayScheduleResponse{}, fmt.Errorf("failed to list today's schedules: %w", err)
	}

	resp := schedule.TodayScheduleResponse{
		Date:      now.Format("2006-01-02"),
		DayOfWeek: day,
		DayName:   schedule.DayName(day),
	}

	matched, n := s.resolver.Select(day, active)
	resp.ActiveCount = n
	if matched != nil {
		sr := schedule.NewScheduleResponse(*matched)
		resp.Schedule = &sr
	}
	if n > 1 {
		resp.ConflictPolicy = string(s.policy())
		slog.Warn("Several active schedules share a weekday",
			"day_of_week", day,
			"active", n,
			"policy", resp.ConflictPolicy,
		)
	}

	return resp, nil
}

func (s *scheduleServiceImpl) policy() schedule.ConflictPolicy {
	if s.resolver.Policy == "" {
		return schedule.PolicyEarliestStart
	}
	return s.resolver.Policy
}
