package attendance

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/cmlabs-hris/campus-attendance/internal/domain/attendance"
	"github.com/cmlabs-hris/campus-attendance/internal/domain/auth"
	"github.com/cmlabs-hris/campus-attendance/internal/domain/schedule"
	"github.com/cmlabs-hris/campus-attendance/internal/domain/setting"
	"github.com/cmlabs-hris/campus-attendance/internal/domain/user"
	"github.com/cmlabs-hris/campus-attendance/internal/pkg/clock"
	"github.com/cmlabs-hris/campus-attendance/internal/pkg/database"
	"github.com/cmlabs-hris/campus-attendance/internal/pkg/geo"
	"github.com/cmlabs-hris/campus-attendance/internal/pkg/jwt"
	"github.com/cmlabs-hris/campus-attendance/internal/pkg/sse"
	"github.com/cmlabs-hris/campus-attendance/internal/pkg/validator"
	"golang.org/x/sync/errgroup"
)

const (
	EventCheckedIn  = "attendance.checked_in"
	EventCheckedOut = "attendance.checked_out"

	dashboardRecentLimit = 5
)

type AttendanceServiceImpl struct {
	transactor database.Transactor
	attendance.AttendanceRepository
	schedule.ScheduleRepository
	user.UserRepository
	settingService setting.SettingService
	locator        attendance.LocationProvider
	engine         Engine
	clock          clock.Clock
	hub            *sse.Hub
	statsOptions   StatsOptions
}

func NewAttendanceService(
	transactor database.Transactor,
	attendanceRepository attendance.AttendanceRepository,
	scheduleRepository schedule.ScheduleRepository,
	userRepository user.UserRepository,
	settingService setting.SettingService,
	locator attendance.LocationProvider,
	engine Engine,
	clk clock.Clock,
	hub *sse.Hub,
	statsOptions StatsOptions,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		transactor:           transactor,
		AttendanceRepository: attendanceRepository,
		ScheduleRepository:   scheduleRepository,
		UserRepository:       userRepository,
		settingService:       settingService,
		locator:              locator,
		engine:               engine,
		clock:                clk,
		hub:                  hub,
		statsOptions:         statsOptions,
	}
}

// timePtrToString safely converts a *time.Time to a string.
func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	format := t.Format(time.RFC3339)
	return &format
}

func mapAttendanceToResponse(att attendance.Attendance) attendance.AttendanceResponse {
	resp := attendance.AttendanceResponse{
		ID:           att.ID,
		UserID:       att.UserID,
		UserName:     att.UserName,
		UserEmail:    att.UserEmail,
		UserNIM:      att.UserNIM,
		Date:         att.Date.Format("2006-01-02"),
		CheckInTime:  timePtrToString(att.CheckInTime),
		CheckOutTime: timePtrToString(att.CheckOutTime),
		Status:       string(att.Status),
		CreatedAt:    att.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    att.UpdatedAt.Format(time.RFC3339),
	}
	if att.CheckInLocation != nil {
		resp.CheckInLatitude = &att.CheckInLocation.Latitude
		resp.CheckInLongitude = &att.CheckInLocation.Longitude
	}
	if att.CheckOutLocation != nil {
		resp.CheckOutLatitude = &att.CheckOutLocation.Latitude
		resp.CheckOutLongitude = &att.CheckOutLocation.Longitude
	}
	return resp
}

func (a *AttendanceServiceImpl) identity(ctx context.Context) (jwt.Identity, error) {
	id, err := jwt.IdentityFromContext(ctx)
	if err != nil {
		return jwt.Identity{}, auth.ErrUnauthenticated
	}
	return id, nil
}

// geofence returns the configured fence or setting.ErrSettingsUnavailable.
func (a *AttendanceServiceImpl) geofence(ctx context.Context) (*setting.Geofence, error) {
	fence, err := a.settingService.Current(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get geofence setting: %w", err)
	}
	if fence == nil {
		return nil, setting.ErrSettingsUnavailable
	}
	return fence, nil
}

// CheckIn implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CheckIn(ctx context.Context, req attendance.CheckInRequest) (attendance.AttendanceResponse, error) {
	id, err := a.identity(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	fence, err := a.geofence(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	point, err := a.locator.Locate(ctx, req.LocationReport)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	now := a.clock.Now()
	date := attendance.CalendarDate(now)

	schedules, err := a.ScheduleRepository.ListActiveFor(ctx, schedule.ISOWeekday(now))
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to list today's schedules: %w", err)
	}

	var saved attendance.Attendance
	err = a.transactor.WithTransaction(ctx, func(ctx context.Context) error {
		existing, err := a.AttendanceRepository.GetByUserAndDate(ctx, id.UserID, date)
		if err != nil {
			return fmt.Errorf("failed to get today's attendance: %w", err)
		}

		record, err := a.engine.CheckIn(existing, CheckInInput{
			UserID:    id.UserID,
			Date:      date,
			Now:       now,
			Location:  point,
			Geofence:  fence,
			Schedules: schedules,
		})
		if err != nil {
			return err
		}

		saved, err = a.AttendanceRepository.Upsert(ctx, record)
		if err != nil {
			if errors.Is(err, attendance.ErrAlreadyCheckedIn) {
				return err
			}
			return fmt.Errorf("failed to save check-in: %w", err)
		}
		return nil
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	resp := mapAttendanceToResponse(saved)
	a.publish(EventCheckedIn, id.UserID, resp)
	return resp, nil
}

// CheckOut implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CheckOut(ctx context.Context, req attendance.CheckOutRequest) (attendance.AttendanceResponse, error) {
	id, err := a.identity(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	fence, err := a.geofence(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	point, err := a.locator.Locate(ctx, req.LocationReport)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	now := a.clock.Now()
	date := attendance.CalendarDate(now)

	var saved attendance.Attendance
	err = a.transactor.WithTransaction(ctx, func(ctx context.Context) error {
		existing, err := a.AttendanceRepository.GetByUserAndDate(ctx, id.UserID, date)
		if err != nil {
			return fmt.Errorf("failed to get today's attendance: %w", err)
		}

		record, err := a.engine.CheckOut(existing, CheckOutInput{
			Now:      now,
			Location: point,
			Geofence: fence,
		})
		if err != nil {
			return err
		}

		saved, err = a.AttendanceRepository.Upsert(ctx, record)
		if err != nil {
			if errors.Is(err, attendance.ErrAlreadyCheckedOut) {
				return err
			}
			return fmt.Errorf("failed to save check-out: %w", err)
		}
		return nil
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	resp := mapAttendanceToResponse(saved)
	a.publish(EventCheckedOut, id.UserID, resp)
	return resp, nil
}

func (a *AttendanceServiceImpl) publish(eventType, userID string, data attendance.AttendanceResponse) {
	if a.hub == nil {
		return
	}
	a.hub.Publish(sse.Event{Type: eventType, Data: data}, sse.UserTopic(userID), sse.AdminTopic)
}

// GetTodayStatus implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetTodayStatus(ctx context.Context, point *geo.Coordinate) (attendance.TodayStatusResponse, error) {
	id, err := a.identity(ctx)
	if err != nil {
		return attendance.TodayStatusResponse{}, err
	}

	now := a.clock.Now()
	date := attendance.CalendarDate(now)

	var (
		fence     *setting.Geofence
		record    *attendance.Attendance
		schedules []schedule.Schedule
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		fence, err = a.settingService.Current(gCtx)
		if err != nil {
			return fmt.Errorf("failed to get geofence setting: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		var err error
		record, err = a.AttendanceRepository.GetByUserAndDate(gCtx, id.UserID, date)
		if err != nil {
			return fmt.Errorf("failed to get today's attendance: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		var err error
		schedules, err = a.ScheduleRepository.ListActiveFor(gCtx, schedule.ISOWeekday(now))
		if err != nil {
			return fmt.Errorf("failed to list today's schedules: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return attendance.TodayStatusResponse{}, err
	}

	resp := attendance.TodayStatusResponse{
		Date:   date.Format("2006-01-02"),
		Status: DeriveTodayStatus(record),
	}

	if record != nil {
		ar := mapAttendanceToResponse(*record)
		resp.Attendance = &ar
	}

	if matched, _ := a.engine.Resolver.Select(schedule.ISOWeekday(now), schedules); matched != nil {
		sr := schedule.NewScheduleResponse(*matched)
		resp.Schedule = &sr
	}

	if fence == nil {
		resp.Message = setting.ErrSettingsUnavailable.Error()
		return resp, nil
	}

	gr := setting.NewGeofenceResponse(*fence)
	resp.Geofence = &gr

	// Without a position only the day's state decides.
	inside := true
	if point != nil {
		distance, within, err := Measure(*point, fence)
		if err != nil {
			return attendance.TodayStatusResponse{}, err
		}
		rounded := math.Round(distance*100) / 100
		resp.DistanceMeters = &rounded
		resp.WithinArea = &within
		inside = within
	}

	resp.CanCheckIn = inside && !record.HasCheckedIn()
	resp.CanCheckOut = inside && record.HasCheckedIn() && !record.HasCheckedOut()

	switch {
	case resp.Status == attendance.TodayDone:
		resp.Message = "You have completed today's attendance"
	case !inside:
		resp.Message = attendance.ErrOutOfRange.Error()
	case resp.CanCheckOut:
		resp.Message = "You can check out now"
	case point == nil:
		resp.Message = "Share your location to check in"
	default:
		resp.Message = "You can check in now"
	}

	return resp, nil
}

// GetMyAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetMyAttendance(ctx context.Context, filter attendance.MyAttendanceFilter) (attendance.ListAttendanceResponse, error) {
	id, err := a.identity(ctx)
	if err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	records, total, err := a.AttendanceRepository.ListByUser(ctx, id.UserID, filter)
	if err != nil {
		return attendance.ListAttendanceResponse{}, fmt.Errorf("failed to list attendance: %w", err)
	}

	return buildListResponse(records, total, filter.Page, filter.Limit), nil
}

// GetMyDashboard implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetMyDashboard(ctx context.Context) (attendance.DashboardResponse, error) {
	id, err := a.identity(ctx)
	if err != nil {
		return attendance.DashboardResponse{}, err
	}

	records, err := a.AttendanceRepository.ListAllByUser(ctx, id.UserID, nil, nil)
	if err != nil {
		return attendance.DashboardResponse{}, fmt.Errorf("failed to list attendance: %w", err)
	}

	today := attendance.CalendarDate(a.clock.Now())
	resp := attendance.DashboardResponse{
		Stats:  a.mapStatsToResponse(id.UserID, ComputeStats(records, today, a.statsOptions)),
		Recent: make([]attendance.AttendanceResponse, 0, dashboardRecentLimit),
	}

	for i, r := range records {
		if r.Date.Equal(today) {
			tr := mapAttendanceToResponse(r)
			resp.Today = &tr
		}
		if i < dashboardRecentLimit {
			resp.Recent = append(resp.Recent, mapAttendanceToResponse(r))
		}
	}

	return resp, nil
}

// ListAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ListAttendance(ctx context.Context, filter attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	records, total, err := a.AttendanceRepository.List(ctx, filter)
	if err != nil {
		return attendance.ListAttendanceResponse{}, fmt.Errorf("failed to list attendance: %w", err)
	}

	return buildListResponse(records, total, filter.Page, filter.Limit), nil
}

// GetUserStats implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetUserStats(ctx context.Context, userID string, filter attendance.StatsFilter) (attendance.StatsResponse, error) {
	if !validator.IsValidUUID(userID) {
		return attendance.StatsResponse{}, validator.ValidationErrors{{Field: "id", Message: "id must be a valid UUID"}}
	}
	if err := filter.Validate(); err != nil {
		return attendance.StatsResponse{}, err
	}

	from, to := filter.DateRange()
	var records []attendance.Attendance

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if _, err := a.UserRepository.GetByID(gCtx, userID); err != nil {
			if errors.Is(err, user.ErrUserNotFound) {
				return err
			}
			return fmt.Errorf("failed to get user: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		var err error
		records, err = a.AttendanceRepository.ListAllByUser(gCtx, userID, from, to)
		if err != nil {
			return fmt.Errorf("failed to list attendance: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return attendance.StatsResponse{}, err
	}

	today := attendance.CalendarDate(a.clock.Now())
	return a.mapStatsToResponse(userID, ComputeStats(records, today, a.statsOptions)), nil
}

func (a *AttendanceServiceImpl) mapStatsToResponse(userID string, stats Stats) attendance.StatsResponse {
	return attendance.StatsResponse{
		UserID:              userID,
		TotalRecords:        stats.TotalRecords,
		TotalPresent:        stats.TotalPresent,
		TotalLate:           stats.TotalLate,
		PresentPercentage:   stats.PresentPercentage,
		WeeklyPresent:       stats.WeeklyPresent,
		TodayStatus:         stats.TodayStatus,
		LateCountsAsPresent: a.statsOptions.LateCountsAsPresent,
	}
}

func buildListResponse(records []attendance.Attendance, total int64, page, limit int) attendance.ListAttendanceResponse {
	responses := make([]attendance.AttendanceResponse, 0, len(records))
	for _, r := range records {
		responses = append(responses, mapAttendanceToResponse(r))
	}

	totalPages := int(math.Ceil(float64(total) / float64(limit)))

	showing := fmt.Sprintf("%d-%d of %d", (page-1)*limit+1, min(page*limit, int(total)), total)
	if total == 0 {
		showing = "0 of 0"
	}

	return attendance.ListAttendanceResponse{
		TotalCount:  total,
		Page:        page,
		Limit:       limit,
		TotalPages:  totalPages,
		Showing:     showing,
		Attendances: responses,
	}
}
