package schedule

import (
	"time"

	"github.com/cmlabs-hris/campus-attendance/internal/pkg/validator"
)

type CreateScheduleRequest struct {
	DayOfWeek *int   `json:"day_of_week"`
	StartTime string `json:"start_time"` // HH:MM or HH:MM:SS
	EndTime   string `json:"end_time"`   // HH:MM or HH:MM:SS
	IsActive  *bool  `json:"is_active,omitempty"`
}

func (r *CreateScheduleRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.DayOfWeek == nil {
		errs = append(errs, validator.ValidationError{
			Field:   "day_of_week",
			Message: "day_of_week is required",
		})
	} else if !validDay(*r.DayOfWeek) {
		errs = append(errs, dayOfWeekError())
	}

	errs = append(errs, validateTimeRange(&r.StartTime, &r.EndTime, true)...)

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ToSchedule must only be called after Validate succeeded.
func (r *CreateScheduleRequest) ToSchedule() Schedule {
	start, _ := ParseTimeOfDay(r.StartTime)
	end, _ := ParseTimeOfDay(r.EndTime)
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return Schedule{
		DayOfWeek: *r.DayOfWeek,
		StartTime: start,
		EndTime:   end,
		IsActive:  active,
	}
}

type UpdateScheduleRequest struct {
	ID        string  `json:"-"`
	DayOfWeek *int    `json:"day_of_week,omitempty"`
	StartTime *string `json:"start_time,omitempty"`
	EndTime   *string `json:"end_time,omitempty"`
	IsActive  *bool   `json:"is_active,omitempty"`
}

func (r *UpdateScheduleRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id must be a valid UUID",
		})
	}

	if r.DayOfWeek != nil && !validDay(*r.DayOfWeek) {
		errs = append(errs, dayOfWeekError())
	}

	errs = append(errs, validateTimeRange(r.StartTime, r.EndTime, false)...)

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// Apply merges the request into s and re-checks the time range of the result.
func (r *UpdateScheduleRequest) Apply(s Schedule) (Schedule, error) {
	if r.DayOfWeek != nil {
		s.DayOfWeek = *r.DayOfWeek
	}
	if r.StartTime != nil {
		start, err := ParseTimeOfDay(*r.StartTime)
		if err != nil {
			return Schedule{}, err
		}
		s.StartTime = start
	}
	if r.EndTime != nil {
		end, err := ParseTimeOfDay(*r.EndTime)
		if err != nil {
			return Schedule{}, err
		}
		s.EndTime = end
	}
	if r.IsActive != nil {
		s.IsActive = *r.IsActive
	}
	if s.EndTime <= s.StartTime {
		return Schedule{}, validator.ValidationErrors{{Field: "end_time", Message: ErrEndBeforeStart.Error()}}
	}
	return s, nil
}

type ScheduleFilter struct {
	DayOfWeek *int  `json:"day_of_week,omitempty"`
	IsActive  *bool `json:"is_active,omitempty"`
}

func (f *ScheduleFilter) Validate() error {
	if f.DayOfWeek != nil && !validDay(*f.DayOfWeek) {
		return validator.ValidationErrors{dayOfWeekError()}
	}
	return nil
}

type ScheduleResponse struct {
	ID        string `json:"id"`
	DayOfWeek int    `json:"day_of_week"`
	DayName   string `json:"day_name"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	IsActive  bool   `json:"is_active"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func NewScheduleResponse(s Schedule) ScheduleResponse {
	return ScheduleResponse{
		ID:        s.ID,
		DayOfWeek: s.DayOfWeek,
		DayName:   DayName(s.DayOfWeek),
		StartTime: s.StartTime.String(),
		EndTime:   s.EndTime.String(),
		IsActive:  s.IsActive,
		CreatedAt: s.CreatedAt.Format(time.RFC3339),
		UpdatedAt: s.UpdatedAt.Format(time.RFC3339),
	}
}

// TodayScheduleResponse describes the schedule that classifies check-ins today.
// Schedule is nil when no active schedule exists, in which case every
// check-in counts as present.
type TodayScheduleResponse struct {
	Date           string            `json:"date"`
	DayOfWeek      int               `json:"day_of_week"`
	DayName        string            `json:"day_name"`
	Schedule       *ScheduleResponse `json:"schedule"`
	ActiveCount    int               `json:"active_count"`
	ConflictPolicy string            `json:"conflict_policy,omitempty"`
}

func validDay(day int) bool {
	return day >= 1 && day <= 7
}

func dayOfWeekError() validator.ValidationError {
	return validator.ValidationError{
		Field:   "day_of_week",
		Message: "day_of_week must be between 1 (Monday) and 7 (Sunday)",
	}
}

func validateTimeRange(start, end *string, required bool) validator.ValidationErrors {
	var errs validator.ValidationErrors

	parse := func(field string, value *string) (time.Time, bool) {
		if value == nil {
			return time.Time{}, false
		}
		if validator.IsEmpty(*value) {
			if required {
				errs = append(errs, validator.ValidationError{
					Field:   field,
					Message: field + " is required",
				})
			} else {
				errs = append(errs, validator.ValidationError{
					Field:   field,
					Message: field + " must not be empty",
				})
			}
			return time.Time{}, false
		}
		t, ok := validator.IsValidTimeOfDay(*value)
		if !ok {
			errs = append(errs, validator.ValidationError{
				Field:   field,
				Message: field + " must be a valid time in HH:MM or HH:MM:SS format",
			})
		}
		return t, ok
	}

	startAt, startOK := parse("start_time", start)
	endAt, endOK := parse("end_time", end)
	if startOK && endOK && !endAt.After(startAt) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_time",
			Message: ErrEndBeforeStart.Error(),
		})
	}

	return errs
}
