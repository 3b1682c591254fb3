package setting

import "context"

type SettingService interface {
	GetGeofence(ctx context.Context) (GeofenceResponse, error)
	UpdateGeofence(ctx context.Context, req UpdateGeofenceRequest) (GeofenceResponse, error)

	// Current returns the cached geofence, loading it on first use.
	Current(ctx context.Context) (*Geofence, error)
	Refresh(ctx context.Context) error
}
