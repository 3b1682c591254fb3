package setting

import (
	"context"
	"fmt"
	"sync"

	"github.com/cmlabs-hris/campus-attendance/internal/domain/setting"
)

type settingServiceImpl struct {
	settingRepo setting.SettingRepository

	mu     sync.RWMutex
	loaded bool
	cached *setting.Geofence
}

func NewSettingService(settingRepo setting.SettingRepository) setting.SettingService {
	return &settingServiceImpl{settingRepo: settingRepo}
}

// GetGeofence implements setting.SettingService.
func (s *settingServiceImpl) GetGeofence(ctx context.Context) (setting.GeofenceResponse, error) {
	fence, err := s.Current(ctx)
	if err != nil {
		return setting.GeofenceResponse{}, err
	}
	if fence == nil {
		return setting.GeofenceResponse{}, setting.ErrSettingsUnavailable
	}
	return setting.NewGeofenceResponse(*fence), nil
}

// UpdateGeofence implements setting.SettingService.
func (s *settingServiceImpl) UpdateGeofence(ctx context.Context, req setting.UpdateGeofenceRequest) (setting.GeofenceResponse, error) {
	if err := req.Validate(); err != nil {
		return setting.GeofenceResponse{}, err
	}

	saved, err := s.settingRepo.Upsert(ctx, req.ToGeofence())
	if err != nil {
		return setting.GeofenceResponse{}, fmt.Errorf("failed to save geofence setting: %w", err)
	}

	s.store(&saved)
	return setting.NewGeofenceResponse(saved), nil
}

// Current implements setting.SettingService. The returned value is a copy.
func (s *settingServiceImpl) Current(ctx context.Context) (*setting.Geofence, error) {
	s.mu.RLock()
	loaded, cached := s.loaded, s.cached
	s.mu.RUnlock()

	if !loaded {
		if err := s.Refresh(ctx); err != nil {
			return nil, err
		}
		s.mu.RLock()
		cached = s.cached
		s.mu.RUnlock()
	}

	if cached == nil {
		return nil, nil
	}
	fence := *cached
	return &fence, nil
}

// Refresh implements setting.SettingService.
func (s *settingServiceImpl) Refresh(ctx context.Context) error {
	fence, err := s.settingRepo.Get(ctx)
	if err != nil {
		return fmt.Errorf("failed to load geofence setting: %w", err)
	}
	s.store(fence)
	return nil
}

func (s *settingServiceImpl) store(fence *setting.Geofence) {
	var stored *setting.Geofence
	if fence != nil {
		f := *fence
		stored = &f
	}

	s.mu.Lock()
	s.cached = stored
	s.loaded = true
	s.mu.Unlock()
}
