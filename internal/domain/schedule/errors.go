package schedule

import "errors"

var (
	ErrScheduleNotFound      = errors.New("schedule not found")
	ErrInvalidTimeOfDay      = errors.New("invalid time of day, use HH:MM or HH:MM:SS")
	ErrInvalidConflictPolicy = errors.New("schedule conflict policy must be earliest_start or latest_start")
	ErrEndBeforeStart        = errors.New("end_time must be after start_time")
)
