package attendance

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/campus-attendance/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestLocationReport_Validate(t *testing.T) {
	tests := []struct {
		name      string
		report    LocationReport
		wantField string
	}{
		{name: "coordinates", report: LocationReport{Latitude: ptr(-6.2), Longitude: ptr(106.8)}},
		{name: "client failure", report: LocationReport{LocationError: LocationErrorPermissionDenied}},
		{name: "nothing reported", report: LocationReport{}},
		{name: "half a coordinate", report: LocationReport{Latitude: ptr(-6.2)}, wantField: "coordinates"},
		{name: "unknown failure", report: LocationReport{LocationError: "gps_off"}, wantField: "location_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.report.Validate()
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var verrs validator.ValidationErrors
			require.ErrorAs(t, err, &verrs)
			assert.Contains(t, verrs.ToMap(), tt.wantField)
		})
	}
}

func TestMyAttendanceFilter_Defaults(t *testing.T) {
	f := MyAttendanceFilter{}
	require.NoError(t, f.Validate())

	assert.Equal(t, 1, f.Page)
	assert.Equal(t, 20, f.Limit)
	assert.Equal(t, "date", f.SortBy)
	assert.Equal(t, "desc", f.SortOrder)
}

func TestAttendanceFilter_Validate(t *testing.T) {
	tests := []struct {
		name       string
		filter     AttendanceFilter
		wantFields []string
	}{
		{name: "empty", filter: AttendanceFilter{}},
		{
			name:   "all valid",
			filter: AttendanceFilter{UserID: ptr("123e4567-e89b-42d3-a456-426614174000"), Status: ptr("late"), StartDate: ptr("2024-01-01"), EndDate: ptr("2024-01-31"), SortBy: "user_name", SortOrder: "ASC"},
		},
		{
			name:       "bad values",
			filter:     AttendanceFilter{UserID: ptr("x"), Status: ptr("on_leave"), Limit: 101, SortBy: "nim"},
			wantFields: []string{"user_id", "status", "limit", "sort_by"},
		},
		{
			name:       "inverted range",
			filter:     AttendanceFilter{StartDate: ptr("2024-02-01"), EndDate: ptr("2024-01-01")},
			wantFields: []string{"end_date"},
		},
		{
			name:       "malformed date",
			filter:     AttendanceFilter{Date: ptr("01/02/2024")},
			wantFields: []string{"date"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.filter.Validate()
			if len(tt.wantFields) == 0 {
				assert.NoError(t, err)
				return
			}
			var verrs validator.ValidationErrors
			require.ErrorAs(t, err, &verrs)
			fields := verrs.ToMap()
			for _, f := range tt.wantFields {
				assert.Contains(t, fields, f)
			}
		})
	}
}

func TestAttendanceFilter_DateRange(t *testing.T) {
	f := AttendanceFilter{Date: ptr("2024-03-05"), StartDate: ptr("2024-01-01")}
	from, to := f.DateRange()
	require.NotNil(t, from)
	require.NotNil(t, to)
	assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), *from)
	assert.Equal(t, *from, *to)

	f = AttendanceFilter{StartDate: ptr("2024-01-01")}
	from, to = f.DateRange()
	require.NotNil(t, from)
	assert.Nil(t, to)
}

func TestCalendarDate(t *testing.T) {
	wib := time.FixedZone("WIB", 7*3600)
	// 00:30 local on the 5th is still the 4th in UTC.
	local := time.Date(2024, 3, 5, 0, 30, 0, 0, wib)
	assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), CalendarDate(local))
}
