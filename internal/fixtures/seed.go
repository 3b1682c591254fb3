package fixtures

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/campus-attendance/internal/domain/schedule"
	"github.com/cmlabs-hris/campus-attendance/internal/domain/setting"
	"github.com/cmlabs-hris/campus-attendance/internal/domain/user"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var defaultSeed []byte

type Seed struct {
	Geofence  *GeofenceSeed  `yaml:"geofence"`
	Schedules []ScheduleSeed `yaml:"schedules"`
	Users     []UserSeed     `yaml:"users"`
}

type GeofenceSeed struct {
	Latitude     float64 `yaml:"latitude"`
	Longitude    float64 `yaml:"longitude"`
	RadiusMeters float64 `yaml:"radius_meters"`
	LocationName string  `yaml:"location_name"`
}

type ScheduleSeed struct {
	DayOfWeek int    `yaml:"day_of_week"`
	StartTime string `yaml:"start_time"`
	EndTime   string `yaml:"end_time"`
	IsActive  *bool  `yaml:"is_active"`
}

type UserSeed struct {
	ID    string  `yaml:"id"`
	Name  string  `yaml:"name"`
	Email string  `yaml:"email"`
	Role  string  `yaml:"role"`
	NIM   *string `yaml:"nim"`
}

// SeedResult counts the rows Apply created.
type SeedResult struct {
	Geofence  bool
	Schedules int
	Users     int
}

// Default returns the seed embedded in the binary.
func Default() (Seed, error) {
	return Parse(defaultSeed)
}

// Parse decodes and validates a seed document.
func Parse(data []byte) (Seed, error) {
	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return Seed{}, fmt.Errorf("failed to decode seed: %w", err)
	}
	if err := seed.Validate(); err != nil {
		return Seed{}, err
	}
	return seed, nil
}

// Validate runs every entry through the same request validation the API uses.
func (s Seed) Validate() error {
	if s.Geofence != nil {
		req := s.Geofence.request()
		if err := req.Validate(); err != nil {
			return fmt.Errorf("invalid seed geofence: %w", err)
		}
	}

	for i, sc := range s.Schedules {
		req := sc.request()
		if err := req.Validate(); err != nil {
			return fmt.Errorf("invalid seed schedule #%d: %w", i+1, err)
		}
	}

	for i, u := range s.Users {
		req := u.request()
		if err := req.Validate(); err != nil {
			return fmt.Errorf("invalid seed user #%d: %w", i+1, err)
		}
	}

	return nil
}

func (g GeofenceSeed) request() setting.UpdateGeofenceRequest {
	return setting.UpdateGeofenceRequest{
		Latitude:     &g.Latitude,
		Longitude:    &g.Longitude,
		RadiusMeters: &g.RadiusMeters,
		LocationName: g.LocationName,
	}
}

func (s ScheduleSeed) request() schedule.CreateScheduleRequest {
	return schedule.CreateScheduleRequest{
		DayOfWeek: &s.DayOfWeek,
		StartTime: s.StartTime,
		EndTime:   s.EndTime,
		IsActive:  s.IsActive,
	}
}

func (u UserSeed) request() user.CreateUserRequest {
	return user.CreateUserRequest{
		ID:    u.ID,
		NIM:   u.NIM,
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role,
	}
}

type Repositories struct {
	Setting  setting.SettingRepository
	Schedule schedule.ScheduleRepository
	User     user.UserRepository
}

// Apply writes the seed without touching existing data: the geofence only
// when none is configured, schedules only for weekdays that have none, and
// users only when their email is unknown.
func Apply(ctx context.Context, repos Repositories, seed Seed) (SeedResult, error) {
	var result SeedResult

	if seed.Geofence != nil {
		current, err := repos.Setting.Get(ctx)
		if err != nil {
			return result, fmt.Errorf("failed to read geofence: %w", err)
		}
		if current == nil {
			req := seed.Geofence.request()
			if _, err := repos.Setting.Upsert(ctx, req.ToGeofence()); err != nil {
				return result, fmt.Errorf("failed to seed geofence: %w", err)
			}
			result.Geofence = true
		}
	}

	seededDays := make(map[int]bool)
	for _, sc := range seed.Schedules {
		day := sc.DayOfWeek
		if _, done := seededDays[day]; !done {
			existing, err := repos.Schedule.List(ctx, schedule.ScheduleFilter{DayOfWeek: &day})
			if err != nil {
				return result, fmt.Errorf("failed to list schedules for day %d: %w", day, err)
			}
			seededDays[day] = len(existing) == 0
		}
		if !seededDays[day] {
			continue
		}

		req := sc.request()
		if _, err := repos.Schedule.Create(ctx, req.ToSchedule()); err != nil {
			return result, fmt.Errorf("failed to seed schedule for day %d: %w", day, err)
		}
		result.Schedules++
	}

	for _, u := range seed.Users {
		_, err := repos.User.GetByEmail(ctx, u.Email)
		if err == nil {
			continue
		}
		if !errors.Is(err, user.ErrUserNotFound) {
			return result, fmt.Errorf("failed to look up user %s: %w", u.Email, err)
		}

		id := u.ID
		if id == "" {
			generated, err := uuid.NewV7()
			if err != nil {
				return result, fmt.Errorf("failed to generate user id: %w", err)
			}
			id = generated.String()
		}

		role, _ := user.ParseRole(u.Role)
		if _, err := repos.User.Create(ctx, user.User{
			ID:    id,
			NIM:   u.NIM,
			Name:  u.Name,
			Email: u.Email,
			Role:  role,
		}); err != nil {
			return result, fmt.Errorf("failed to seed user %s: %w", u.Email, err)
		}
		result.Users++
	}

	slog.Info("seed applied",
		"geofence", result.Geofence,
		"schedules", result.Schedules,
		"users", result.Users,
	)

	return result, nil
}
