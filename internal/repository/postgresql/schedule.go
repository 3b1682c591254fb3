package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/campus-attendance/internal/domain/schedule"
	"github.com/cmlabs-hris/campus-attendance/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type scheduleRepositoryImpl struct {
	db *database.DB
}

// Times are read as seconds since midnight and written as HH:MM:SS text.
const scheduleColumns = `
	id, day_of_week,
	EXTRACT(EPOCH FROM start_time)::int,
	EXTRACT(EPOCH FROM end_time)::int,
	is_active, created_at, updated_at`

func scanSchedule(row pgx.Row) (schedule.Schedule, error) {
	var s schedule.Schedule
	err := row.Scan(
		&s.ID,
		&s.DayOfWeek,
		&s.StartTime,
		&s.EndTime,
		&s.IsActive,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	return s, err
}

func (r *scheduleRepositoryImpl) collect(rows pgx.Rows) ([]schedule.Schedule, error) {
	defer rows.Close()

	schedules := make([]schedule.Schedule, 0)
	for rows.Next() {
		s, err := scanSchedule(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan schedule: %w", err)
		}
		schedules = append(schedules, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate schedules: %w", err)
	}
	return schedules, nil
}

// Create implements schedule.ScheduleRepository.
func (r *scheduleRepositoryImpl) Create(ctx context.Context, s schedule.Schedule) (schedule.Schedule, error) {
	q := GetQuerier(ctx, r.db)

	id, err := uuid.NewV7()
	if err != nil {
		return schedule.Schedule{}, fmt.Errorf("failed to generate schedule id: %w", err)
	}

	query := `
		INSERT INTO schedules (id, day_of_week, start_time, end_time, is_active)
		VALUES ($1, $2, $3::time, $4::time, $5)
		RETURNING ` + scheduleColumns

	created, err := scanSchedule(q.QueryRow(ctx, query,
		id.String(), s.DayOfWeek, s.StartTime.String(), s.EndTime.String(), s.IsActive,
	))
	if err != nil {
		return schedule.Schedule{}, fmt.Errorf("failed to create schedule: %w", err)
	}

	return created, nil
}

// GetByID implements schedule.ScheduleRepository.
func (r *scheduleRepositoryImpl) GetByID(ctx context.Context, id string) (schedule.Schedule, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + scheduleColumns + ` FROM schedules WHERE id = $1`

	s, err := scanSchedule(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return schedule.Schedule{}, schedule.ErrScheduleNotFound
		}
		return schedule.Schedule{}, fmt.Errorf("failed to get schedule by ID: %w", err)
	}

	return s, nil
}

// List implements schedule.ScheduleRepository.
func (r *scheduleRepositoryImpl) List(ctx context.Context, filter schedule.ScheduleFilter) ([]schedule.Schedule, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + scheduleColumns + `
		FROM schedules
		WHERE ($1::smallint IS NULL OR day_of_week = $1)
		  AND ($2::boolean IS NULL OR is_active = $2)
		ORDER BY day_of_week, start_time, end_time, id
	`

	rows, err := q.Query(ctx, query, filter.DayOfWeek, filter.IsActive)
	if err != nil {
		return nil, fmt.Errorf("failed to query schedules: %w", err)
	}

	return r.collect(rows)
}

// ListActiveFor implements schedule.ScheduleRepository.
func (r *scheduleRepositoryImpl) ListActiveFor(ctx context.Context, dayOfWeek int) ([]schedule.Schedule, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + scheduleColumns + `
		FROM schedules
		WHERE day_of_week = $1 AND is_active
		ORDER BY start_time, end_time, id
	`

	rows, err := q.Query(ctx, query, dayOfWeek)
	if err != nil {
		return nil, fmt.Errorf("failed to query active schedules: %w", err)
	}

	return r.collect(rows)
}

// Update implements schedule.ScheduleRepository.
func (r *scheduleRepositoryImpl) Update(ctx context.Context, s schedule.Schedule) (schedule.Schedule, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE schedules
		SET day_of_week = $1,
			start_time = $2::time,
			end_time = $3::time,
			is_active = $4,
			updated_at = NOW()
		WHERE id = $5
		RETURNING ` + scheduleColumns

	updated, err := scanSchedule(q.QueryRow(ctx, query,
		s.DayOfWeek, s.StartTime.String(), s.EndTime.String(), s.IsActive, s.ID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return schedule.Schedule{}, schedule.ErrScheduleNotFound
		}
		return schedule.Schedule{}, fmt.Errorf("failed to update schedule: %w", err)
	}

	return updated, nil
}

// Delete implements schedule.ScheduleRepository.
func (r *scheduleRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	commandTag, err := q.Exec(ctx, `DELETE FROM schedules WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete schedule: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return schedule.ErrScheduleNotFound
	}

	return nil
}

func NewScheduleRepository(db *database.DB) schedule.ScheduleRepository {
	return &scheduleRepositoryImpl{db: db}
}
