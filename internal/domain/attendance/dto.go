package attendance

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/campus-attendance/internal/domain/schedule"
	"github.com/cmlabs-hris/campus-attendance/internal/domain/setting"
	"github.com/cmlabs-hris/campus-attendance/internal/pkg/validator"
)

// ========================================
// CHECK-IN / CHECK-OUT DTOs
// ========================================

// LocationReport carries either the device coordinates or the reason the
// device could not produce them.
type LocationReport struct {
	Latitude      *float64 `json:"latitude,omitempty"`
	Longitude     *float64 `json:"longitude,omitempty"`
	LocationError string   `json:"location_error,omitempty"`
}

func (r *LocationReport) Validate() error {
	var errs validator.ValidationErrors

	if r.LocationError != "" && !validator.IsInSlice(r.LocationError, LocationErrorValues) {
		errs = append(errs, validator.ValidationError{
			Field:   "location_error",
			Message: "location_error must be one of: " + strings.Join(LocationErrorValues, ", "),
		})
	}

	if (r.Latitude == nil) != (r.Longitude == nil) {
		errs = append(errs, validator.ValidationError{
			Field:   "coordinates",
			Message: "latitude and longitude must be provided together",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type CheckInRequest struct {
	LocationReport
}

type CheckOutRequest struct {
	LocationReport
}

// ========================================
// RESPONSE DTOs
// ========================================

type AttendanceResponse struct {
	ID                string   `json:"id"`
	UserID            string   `json:"user_id"`
	UserName          *string  `json:"user_name,omitempty"`
	UserEmail         *string  `json:"user_email,omitempty"`
	UserNIM           *string  `json:"user_nim,omitempty"`
	Date              string   `json:"date"`
	CheckInTime       *string  `json:"check_in_time,omitempty"`
	CheckInLatitude   *float64 `json:"check_in_latitude,omitempty"`
	CheckInLongitude  *float64 `json:"check_in_longitude,omitempty"`
	CheckOutTime      *string  `json:"check_out_time,omitempty"`
	CheckOutLatitude  *float64 `json:"check_out_latitude,omitempty"`
	CheckOutLongitude *float64 `json:"check_out_longitude,omitempty"`
	Status            string   `json:"status"`
	CreatedAt         string   `json:"created_at"`
	UpdatedAt         string   `json:"updated_at"`
}

type ListAttendanceResponse struct {
	TotalCount  int64                `json:"total_count"`
	Page        int                  `json:"page"`
	Limit       int                  `json:"limit"`
	TotalPages  int                  `json:"total_pages"`
	Showing     string               `json:"showing"`
	Attendances []AttendanceResponse `json:"attendances"`
}

type StatsResponse struct {
	UserID              string      `json:"user_id"`
	TotalRecords        int         `json:"total_records"`
	TotalPresent        int         `json:"total_present"`
	TotalLate           int         `json:"total_late"`
	PresentPercentage   int         `json:"present_percentage"`
	WeeklyPresent       int         `json:"weekly_present"`
	TodayStatus         TodayStatus `json:"today_status"`
	LateCountsAsPresent bool        `json:"late_counts_as_present"`
}

type DashboardResponse struct {
	Stats  StatsResponse        `json:"stats"`
	Today  *AttendanceResponse  `json:"today,omitempty"`
	Recent []AttendanceResponse `json:"recent"`
}

// TodayStatusResponse summarises what the user can do right now.
type TodayStatusResponse struct {
	Date           string                     `json:"date"`
	Status         TodayStatus                `json:"status"`
	Attendance     *AttendanceResponse        `json:"attendance,omitempty"`
	Geofence       *setting.GeofenceResponse  `json:"geofence,omitempty"`
	DistanceMeters *float64                   `json:"distance_meters,omitempty"`
	WithinArea     *bool                      `json:"within_area,omitempty"`
	Schedule       *schedule.ScheduleResponse `json:"schedule,omitempty"`
	CanCheckIn     bool                       `json:"can_check_in"`
	CanCheckOut    bool                       `json:"can_check_out"`
	Message        string                     `json:"message"`
}

// ========================================
// FILTER DTOs
// ========================================

type AttendanceFilter struct {
	// Search & Filter
	UserID    *string `json:"user_id,omitempty"`
	Date      *string `json:"date,omitempty"`       // YYYY-MM-DD
	StartDate *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate   *string `json:"end_date,omitempty"`   // YYYY-MM-DD
	Status    *string `json:"status,omitempty"`

	// Pagination
	Page  int `json:"page"`
	Limit int `json:"limit"`

	// Sorting
	SortBy    string `json:"sort_by"`    // date, user_name, check_in_time, check_out_time, status
	SortOrder string `json:"sort_order"` // asc, desc
}

func (f *AttendanceFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.UserID != nil && !validator.IsValidUUID(*f.UserID) {
		errs = append(errs, validator.ValidationError{
			Field:   "user_id",
			Message: "user_id must be a valid UUID",
		})
	}

	errs = append(errs, validatePaging(&f.Page, &f.Limit)...)
	errs = append(errs, validateStatus(f.Status)...)
	errs = append(errs, validateDates(f.Date, f.StartDate, f.EndDate)...)
	errs = append(errs, validateSort(&f.SortBy, &f.SortOrder,
		[]string{"date", "user_name", "check_in_time", "check_out_time", "status"})...)

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// DateRange resolves the date filters into inclusive bounds.
func (f *AttendanceFilter) DateRange() (from, to *time.Time) {
	return dateRange(f.Date, f.StartDate, f.EndDate)
}

type MyAttendanceFilter struct {
	// Search & Filter
	Date      *string `json:"date,omitempty"`       // YYYY-MM-DD
	StartDate *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate   *string `json:"end_date,omitempty"`   // YYYY-MM-DD
	Status    *string `json:"status,omitempty"`

	// Pagination
	Page  int `json:"page"`
	Limit int `json:"limit"`

	// Sorting
	SortBy    string `json:"sort_by"`    // date, check_in_time, check_out_time, status
	SortOrder string `json:"sort_order"` // asc, desc
}

func (f *MyAttendanceFilter) Validate() error {
	var errs validator.ValidationErrors

	errs = append(errs, validatePaging(&f.Page, &f.Limit)...)
	errs = append(errs, validateStatus(f.Status)...)
	errs = append(errs, validateDates(f.Date, f.StartDate, f.EndDate)...)
	errs = append(errs, validateSort(&f.SortBy, &f.SortOrder,
		[]string{"date", "check_in_time", "check_out_time", "status"})...)

	if len(errs) > 0 {
		return errs
	}

	return nil
}

func (f *MyAttendanceFilter) DateRange() (from, to *time.Time) {
	return dateRange(f.Date, f.StartDate, f.EndDate)
}

// StatsFilter limits the records aggregated into stats. Empty means all time.
type StatsFilter struct {
	StartDate *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate   *string `json:"end_date,omitempty"`   // YYYY-MM-DD
}

func (f *StatsFilter) Validate() error {
	errs := validateDates(nil, f.StartDate, f.EndDate)
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (f *StatsFilter) DateRange() (from, to *time.Time) {
	return dateRange(nil, f.StartDate, f.EndDate)
}

func validatePaging(page, limit *int) validator.ValidationErrors {
	var errs validator.ValidationErrors

	if *page < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "page",
			Message: "page must be a positive number",
		})
	}
	if *page == 0 {
		*page = 1 // Default page
	}

	if *limit < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must be a positive number",
		})
	}
	if *limit == 0 {
		*limit = 20 // Default limit
	}
	if *limit > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must not exceed 100",
		})
	}

	return errs
}

func validateStatus(status *string) validator.ValidationErrors {
	if status == nil || validator.IsInSlice(*status, StatusValues) {
		return nil
	}
	return validator.ValidationErrors{{
		Field:   "status",
		Message: "status must be one of: " + strings.Join(StatusValues, ", "),
	}}
}

func validateDates(date, start, end *string) validator.ValidationErrors {
	var errs validator.ValidationErrors

	check := func(field string, value *string) (time.Time, bool) {
		if value == nil || *value == "" {
			return time.Time{}, false
		}
		t, valid := validator.IsValidDate(*value)
		if !valid {
			errs = append(errs, validator.ValidationError{
				Field:   field,
				Message: field + " must be in YYYY-MM-DD format",
			})
		}
		return t, valid
	}

	check("date", date)
	startAt, startOK := check("start_date", start)
	endAt, endOK := check("end_date", end)
	if startOK && endOK && endAt.Before(startAt) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must not be before start_date",
		})
	}

	return errs
}

func validateSort(sortBy, sortOrder *string, fields []string) validator.ValidationErrors {
	var errs validator.ValidationErrors

	if *sortBy != "" {
		if !validator.IsInSlice(*sortBy, fields) {
			errs = append(errs, validator.ValidationError{
				Field:   "sort_by",
				Message: "sort_by must be one of: " + strings.Join(fields, ", "),
			})
		}
	} else {
		*sortBy = "date" // Default sort
	}

	if *sortOrder != "" {
		*sortOrder = strings.ToLower(*sortOrder)
		if !validator.IsInSlice(*sortOrder, []string{"asc", "desc"}) {
			errs = append(errs, validator.ValidationError{
				Field:   "sort_order",
				Message: "sort_order must be one of: asc, desc",
			})
		}
	} else {
		*sortOrder = "desc" // Default descending (newest first)
	}

	return errs
}

// dateRange expects already validated input. A single date wins over a range.
func dateRange(date, start, end *string) (from, to *time.Time) {
	parse := func(s *string) *time.Time {
		if s == nil || *s == "" {
			return nil
		}
		t, ok := validator.IsValidDate(*s)
		if !ok {
			return nil
		}
		return &t
	}

	if d := parse(date); d != nil {
		return d, d
	}
	return parse(start), parse(end)
}
