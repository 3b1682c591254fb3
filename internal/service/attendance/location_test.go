package attendance

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/campus-attendance/internal/domain/attendance"
	"github.com/cmlabs-hris/campus-attendance/internal/pkg/geo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestReportedLocation(t *testing.T) {
	tests := []struct {
		name    string
		report  attendance.LocationReport
		want    geo.Coordinate
		wantErr error
	}{
		{name: "coordinates", report: attendance.LocationReport{Latitude: ptr(-6.2), Longitude: ptr(106.8)}, want: geo.Coordinate{Latitude: -6.2, Longitude: 106.8}},
		{name: "permission denied", report: attendance.LocationReport{LocationError: "permission_denied"}, wantErr: attendance.ErrPermissionDenied},
		{name: "unavailable", report: attendance.LocationReport{LocationError: "unavailable"}, wantErr: attendance.ErrLocationUnavailable},
		{name: "timeout", report: attendance.LocationReport{LocationError: "timeout"}, wantErr: attendance.ErrLocationUnavailable},
		{name: "nothing reported", report: attendance.LocationReport{}, wantErr: attendance.ErrLocationUnavailable},
		{
			name:    "failure wins over stale coordinates",
			report:  attendance.LocationReport{Latitude: ptr(-6.2), Longitude: ptr(106.8), LocationError: "permission_denied"},
			wantErr: attendance.ErrPermissionDenied,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewReportedLocation().Locate(context.Background(), tt.report)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
