package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/campus-attendance/internal/domain/setting"
	"github.com/cmlabs-hris/campus-attendance/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type settingRepositoryImpl struct {
	db *database.DB
}

// Get implements setting.SettingRepository.
func (r *settingRepositoryImpl) Get(ctx context.Context) (*setting.Geofence, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT latitude, longitude, radius_meters, location_name, updated_at
		FROM attendance_settings
		WHERE id = 1
	`

	var fence setting.Geofence
	err := q.QueryRow(ctx, query).Scan(
		&fence.Center.Latitude,
		&fence.Center.Longitude,
		&fence.RadiusMeters,
		&fence.LocationName,
		&fence.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get attendance settings: %w", err)
	}

	return &fence, nil
}

// Upsert implements setting.SettingRepository.
func (r *settingRepositoryImpl) Upsert(ctx context.Context, fence setting.Geofence) (setting.Geofence, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendance_settings (id, latitude, longitude, radius_meters, location_name)
		VALUES (1, $1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE
		SET latitude = EXCLUDED.latitude,
			longitude = EXCLUDED.longitude,
			radius_meters = EXCLUDED.radius_meters,
			location_name = EXCLUDED.location_name,
			updated_at = NOW()
		RETURNING latitude, longitude, radius_meters, location_name, updated_at
	`

	var saved setting.Geofence
	err := q.QueryRow(ctx, query,
		fence.Center.Latitude,
		fence.Center.Longitude,
		fence.RadiusMeters,
		fence.LocationName,
	).Scan(
		&saved.Center.Latitude,
		&saved.Center.Longitude,
		&saved.RadiusMeters,
		&saved.LocationName,
		&saved.UpdatedAt,
	)
	if err != nil {
		return setting.Geofence{}, fmt.Errorf("failed to save attendance settings: %w", err)
	}

	return saved, nil
}

func NewSettingRepository(db *database.DB) setting.SettingRepository {
	return &settingRepositoryImpl{db: db}
}
