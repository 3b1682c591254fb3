package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/campus-attendance/internal/domain/setting"
)

type SettingJobs struct {
	settingService setting.SettingService
	interval       time.Duration
}

func NewSettingJobs(settingService setting.SettingService, interval time.Duration) *SettingJobs {
	return &SettingJobs{
		settingService: settingService,
		interval:       interval,
	}
}

func (j *SettingJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("refresh_geofence_setting", j.interval, j.RefreshGeofence)
}

// RefreshGeofence reloads the cached geofence so edits made outside the API
// are picked up.
func (j *SettingJobs) RefreshGeofence(ctx context.Context) error {
	if err := j.settingService.Refresh(ctx); err != nil {
		return fmt.Errorf("failed to refresh geofence setting: %w", err)
	}

	fence, err := j.settingService.Current(ctx)
	if err != nil {
		return fmt.Errorf("failed to read geofence setting: %w", err)
	}
	if fence == nil {
		slog.Warn("Cron: attendance location is not configured, check-ins are blocked")
		return nil
	}

	slog.Debug("Cron: geofence setting refreshed", "location_name", fence.LocationName, "radius_meters", fence.RadiusMeters)
	return nil
}
