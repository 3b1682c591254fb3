package setting

import "context"

type SettingRepository interface {
	// Get returns nil, nil when no geofence has been configured yet.
	Get(ctx context.Context) (*Geofence, error)
	Upsert(ctx context.Context, fence Geofence) (Geofence, error)
}
