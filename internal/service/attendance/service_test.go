package attendance

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/campus-attendance/internal/domain/attendance"
	"github.com/cmlabs-hris/campus-attendance/internal/domain/auth"
	"github.com/cmlabs-hris/campus-attendance/internal/domain/schedule"
	"github.com/cmlabs-hris/campus-attendance/internal/domain/setting"
	"github.com/cmlabs-hris/campus-attendance/internal/domain/user"
	"github.com/cmlabs-hris/campus-attendance/internal/pkg/clock"
	"github.com/cmlabs-hris/campus-attendance/internal/pkg/geo"
	"github.com/cmlabs-hris/campus-attendance/internal/pkg/jwt"
	"github.com/cmlabs-hris/campus-attendance/internal/pkg/sse"
	"github.com/cmlabs-hris/campus-attendance/internal/pkg/validator"
	schedulesvc "github.com/cmlabs-hris/campus-attendance/internal/service/schedule"
	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const studentID = "0b7e6f2e-3c1a-4d8e-9a55-0f1e2d3c4b5a"

type noopTransactor struct{}

func (noopTransactor) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeAttendanceRepository struct {
	mu   sync.Mutex
	rows map[string]attendance.Attendance
}

func newFakeAttendanceRepository(records ...attendance.Attendance) *fakeAttendanceRepository {
	f := &fakeAttendanceRepository{rows: map[string]attendance.Attendance{}}
	for _, r := range records {
		if r.ID == "" {
			r.ID = uuid.NewString()
		}
		f.rows[attendanceKey(r.UserID, r.Date)] = r
	}
	return f
}

func attendanceKey(userID string, date time.Time) string {
	return userID + "/" + date.Format("2006-01-02")
}

func (f *fakeAttendanceRepository) GetByUserAndDate(_ context.Context, userID string, date time.Time) (*attendance.Attendance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rows[attendanceKey(userID, date)]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (f *fakeAttendanceRepository) Upsert(_ context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := attendanceKey(a.UserID, a.Date)
	stored, exists := f.rows[key]
	if a.CheckOutTime == nil && exists && stored.CheckInTime != nil {
		return attendance.Attendance{}, attendance.ErrAlreadyCheckedIn
	}
	if a.CheckOutTime != nil && exists && stored.CheckOutTime != nil {
		return attendance.Attendance{}, attendance.ErrAlreadyCheckedOut
	}
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	f.rows[key] = a
	return a, nil
}

func (f *fakeAttendanceRepository) sorted(userID *string) []attendance.Attendance {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []attendance.Attendance
	for _, r := range f.rows {
		if userID != nil && r.UserID != *userID {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out
}

func page(records []attendance.Attendance, pageNum, limit int) []attendance.Attendance {
	start := (pageNum - 1) * limit
	if start >= len(records) {
		return nil
	}
	return records[start:min(start+limit, len(records))]
}

func (f *fakeAttendanceRepository) ListByUser(_ context.Context, userID string, filter attendance.MyAttendanceFilter) ([]attendance.Attendance, int64, error) {
	all := f.sorted(&userID)
	return page(all, filter.Page, filter.Limit), int64(len(all)), nil
}

func (f *fakeAttendanceRepository) ListAllByUser(_ context.Context, userID string, from, to *time.Time) ([]attendance.Attendance, error) {
	var out []attendance.Attendance
	for _, r := range f.sorted(&userID) {
		if from != nil && r.Date.Before(*from) {
			continue
		}
		if to != nil && r.Date.After(*to) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeAttendanceRepository) List(_ context.Context, filter attendance.AttendanceFilter) ([]attendance.Attendance, int64, error) {
	all := f.sorted(filter.UserID)
	return page(all, filter.Page, filter.Limit), int64(len(all)), nil
}

type fakeScheduleRepository struct {
	schedule.ScheduleRepository
	active []schedule.Schedule
}

func (f *fakeScheduleRepository) ListActiveFor(_ context.Context, day int) ([]schedule.Schedule, error) {
	var out []schedule.Schedule
	for _, s := range f.active {
		if s.DayOfWeek == day {
			out = append(out, s)
		}
	}
	return out, nil
}

type fakeUserRepository struct {
	user.UserRepository
	users map[string]user.User
}

func (f *fakeUserRepository) GetByID(_ context.Context, id string) (user.User, error) {
	u, ok := f.users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

type fakeSettingService struct {
	setting.SettingService
	fence *setting.Geofence
}

func (f *fakeSettingService) Current(context.Context) (*setting.Geofence, error) {
	return f.fence, nil
}

type fixture struct {
	svc      attendance.AttendanceService
	repo     *fakeAttendanceRepository
	settings *fakeSettingService
	clock    *clock.Fixed
	hub      *sse.Hub
	jwt      jwt.Service
}

func newFixture(t *testing.T, records ...attendance.Attendance) *fixture {
	t.Helper()
	f := &fixture{
		repo:     newFakeAttendanceRepository(records...),
		settings: &fakeSettingService{fence: campusFence(100)},
		clock:    &clock.Fixed{T: mondayAt(7, 45)},
		hub:      sse.NewHub(),
		jwt:      jwt.NewJWTService("test-secret-key", time.Hour),
	}
	users := &fakeUserRepository{users: map[string]user.User{
		studentID: {ID: studentID, Name: "Siti", Email: "siti@kampus.ac.id", Role: user.RoleStudent},
	}}
	f.svc = NewAttendanceService(
		noopTransactor{},
		f.repo,
		&fakeScheduleRepository{active: mondaySchedule()},
		users,
		f.settings,
		NewReportedLocation(),
		Engine{Resolver: schedulesvc.Resolver{Policy: schedule.PolicyEarliestStart}},
		f.clock,
		f.hub,
		StatsOptions{},
	)
	return f
}

func (f *fixture) studentContext(t *testing.T) context.Context {
	t.Helper()
	tokenString, _, err := f.jwt.GenerateAccessToken(studentID, "siti@kampus.ac.id", user.RoleStudent)
	require.NoError(t, err)
	token, err := jwtauth.VerifyToken(f.jwt.JWTAuth(), tokenString)
	require.NoError(t, err)
	return jwtauth.NewContext(context.Background(), token, nil)
}

func at(c geo.Coordinate) attendance.LocationReport {
	return attendance.LocationReport{Latitude: ptr(c.Latitude), Longitude: ptr(c.Longitude)}
}

func TestCheckIn(t *testing.T) {
	t.Run("on time inside the geofence", func(t *testing.T) {
		f := newFixture(t)
		events, cancel := f.hub.Subscribe(sse.AdminTopic)
		defer cancel()

		resp, err := f.svc.CheckIn(f.studentContext(t), attendance.CheckInRequest{LocationReport: at(inside)})
		require.NoError(t, err)
		assert.Equal(t, string(attendance.StatusPresent), resp.Status)
		assert.Equal(t, "2024-01-01", resp.Date)
		require.NotNil(t, resp.CheckInTime)
		assert.Nil(t, resp.CheckOutTime)

		select {
		case ev := <-events:
			assert.Equal(t, EventCheckedIn, ev.Type)
		default:
			t.Fatal("expected a check-in event")
		}
	})

	t.Run("late after the schedule start", func(t *testing.T) {
		f := newFixture(t)
		f.clock.T = mondayAt(8, 30)

		resp, err := f.svc.CheckIn(f.studentContext(t), attendance.CheckInRequest{LocationReport: at(inside)})
		require.NoError(t, err)
		assert.Equal(t, string(attendance.StatusLate), resp.Status)
	})

	t.Run("second check-in is rejected and keeps the first", func(t *testing.T) {
		f := newFixture(t)
		ctx := f.studentContext(t)
		first, err := f.svc.CheckIn(ctx, attendance.CheckInRequest{LocationReport: at(inside)})
		require.NoError(t, err)

		f.clock.Advance(time.Hour)
		_, err = f.svc.CheckIn(ctx, attendance.CheckInRequest{LocationReport: at(inside)})
		assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)

		stored, err := f.repo.GetByUserAndDate(ctx, studentID, attendance.CalendarDate(mondayAt(0, 0)))
		require.NoError(t, err)
		assert.Equal(t, *first.CheckInTime, stored.CheckInTime.Format(time.RFC3339))
	})

	t.Run("outside the geofence", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.CheckIn(f.studentContext(t), attendance.CheckInRequest{LocationReport: at(outside)})
		assert.ErrorIs(t, err, attendance.ErrOutOfRange)
	})

	t.Run("location permission denied", func(t *testing.T) {
		f := newFixture(t)
		req := attendance.CheckInRequest{LocationReport: attendance.LocationReport{LocationError: attendance.LocationErrorPermissionDenied}}
		_, err := f.svc.CheckIn(f.studentContext(t), req)
		assert.ErrorIs(t, err, attendance.ErrPermissionDenied)
	})

	t.Run("settings are checked before location", func(t *testing.T) {
		f := newFixture(t)
		f.settings.fence = nil
		req := attendance.CheckInRequest{LocationReport: attendance.LocationReport{LocationError: attendance.LocationErrorPermissionDenied}}
		_, err := f.svc.CheckIn(f.studentContext(t), req)
		assert.ErrorIs(t, err, setting.ErrSettingsUnavailable)
	})

	t.Run("settings are checked before the request", func(t *testing.T) {
		f := newFixture(t)
		f.settings.fence = nil
		req := attendance.CheckInRequest{LocationReport: attendance.LocationReport{Latitude: ptr(-6.2)}}
		_, err := f.svc.CheckIn(f.studentContext(t), req)
		assert.ErrorIs(t, err, setting.ErrSettingsUnavailable)
	})

	t.Run("invalid request", func(t *testing.T) {
		f := newFixture(t)
		req := attendance.CheckInRequest{LocationReport: attendance.LocationReport{Latitude: ptr(-6.2)}}
		_, err := f.svc.CheckIn(f.studentContext(t), req)
		var verrs validator.ValidationErrors
		assert.ErrorAs(t, err, &verrs)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.CheckIn(context.Background(), attendance.CheckInRequest{LocationReport: at(inside)})
		assert.ErrorIs(t, err, auth.ErrUnauthenticated)
	})
}

func TestCheckOut(t *testing.T) {
	f := newFixture(t)
	ctx := f.studentContext(t)

	_, err := f.svc.CheckOut(ctx, attendance.CheckOutRequest{LocationReport: at(inside)})
	assert.ErrorIs(t, err, attendance.ErrNotCheckedIn)

	_, err = f.svc.CheckIn(ctx, attendance.CheckInRequest{LocationReport: at(inside)})
	require.NoError(t, err)

	f.clock.T = mondayAt(16, 0)
	_, err = f.svc.CheckOut(ctx, attendance.CheckOutRequest{LocationReport: at(outside)})
	assert.ErrorIs(t, err, attendance.ErrOutOfRange)

	resp, err := f.svc.CheckOut(ctx, attendance.CheckOutRequest{LocationReport: at(inside)})
	require.NoError(t, err)
	require.NotNil(t, resp.CheckOutTime)
	assert.Equal(t, string(attendance.StatusPresent), resp.Status)

	_, err = f.svc.CheckOut(ctx, attendance.CheckOutRequest{LocationReport: at(inside)})
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedOut)
}

func TestCheckOut_SettingsBeforeRequest(t *testing.T) {
	f := newFixture(t)
	f.settings.fence = nil

	req := attendance.CheckOutRequest{LocationReport: attendance.LocationReport{Longitude: ptr(106.8)}}
	_, err := f.svc.CheckOut(f.studentContext(t), req)
	assert.ErrorIs(t, err, setting.ErrSettingsUnavailable)
}

func TestGetTodayStatus(t *testing.T) {
	t.Run("inside before check-in", func(t *testing.T) {
		f := newFixture(t)
		point := inside
		resp, err := f.svc.GetTodayStatus(f.studentContext(t), &point)
		require.NoError(t, err)
		assert.Equal(t, attendance.TodayNotCheckedIn, resp.Status)
		assert.True(t, resp.CanCheckIn)
		assert.False(t, resp.CanCheckOut)
		require.NotNil(t, resp.WithinArea)
		assert.True(t, *resp.WithinArea)
		require.NotNil(t, resp.Schedule)
		assert.Equal(t, "08:00:00", resp.Schedule.StartTime)
	})

	t.Run("outside after check-in", func(t *testing.T) {
		f := newFixture(t)
		ctx := f.studentContext(t)
		_, err := f.svc.CheckIn(ctx, attendance.CheckInRequest{LocationReport: at(inside)})
		require.NoError(t, err)

		point := outside
		resp, err := f.svc.GetTodayStatus(ctx, &point)
		require.NoError(t, err)
		assert.Equal(t, attendance.TodayCheckedIn, resp.Status)
		assert.False(t, resp.CanCheckIn)
		assert.False(t, resp.CanCheckOut)
		require.NotNil(t, resp.DistanceMeters)
		assert.Greater(t, *resp.DistanceMeters, 100.0)
		assert.Equal(t, attendance.ErrOutOfRange.Error(), resp.Message)
	})

	t.Run("without location", func(t *testing.T) {
		f := newFixture(t)
		resp, err := f.svc.GetTodayStatus(f.studentContext(t), nil)
		require.NoError(t, err)
		assert.Nil(t, resp.WithinArea)
		assert.True(t, resp.CanCheckIn)
	})

	t.Run("no geofence configured", func(t *testing.T) {
		f := newFixture(t)
		f.settings.fence = nil
		resp, err := f.svc.GetTodayStatus(f.studentContext(t), nil)
		require.NoError(t, err)
		assert.Nil(t, resp.Geofence)
		assert.False(t, resp.CanCheckIn)
		assert.Equal(t, setting.ErrSettingsUnavailable.Error(), resp.Message)
	})
}

func seededRecords() []attendance.Attendance {
	var records []attendance.Attendance
	for i := 0; i < 8; i++ {
		status := attendance.StatusPresent
		if i%4 == 0 {
			status = attendance.StatusLate
		}
		r := record(day(2023, 12, 31).AddDate(0, 0, -i), status, true)
		r.UserID = studentID
		records = append(records, r)
	}
	return records
}

func TestGetMyAttendance(t *testing.T) {
	f := newFixture(t, seededRecords()...)

	resp, err := f.svc.GetMyAttendance(f.studentContext(t), attendance.MyAttendanceFilter{Page: 2, Limit: 5})
	require.NoError(t, err)
	assert.Equal(t, int64(8), resp.TotalCount)
	assert.Equal(t, 2, resp.TotalPages)
	assert.Equal(t, "6-8 of 8", resp.Showing)
	assert.Len(t, resp.Attendances, 3)
}

func TestGetMyAttendance_Empty(t *testing.T) {
	f := newFixture(t)

	resp, err := f.svc.GetMyAttendance(f.studentContext(t), attendance.MyAttendanceFilter{})
	require.NoError(t, err)
	assert.Equal(t, "0 of 0", resp.Showing)
	assert.Empty(t, resp.Attendances)
}

func TestGetMyDashboard(t *testing.T) {
	f := newFixture(t, seededRecords()...)
	ctx := f.studentContext(t)
	_, err := f.svc.CheckIn(ctx, attendance.CheckInRequest{LocationReport: at(inside)})
	require.NoError(t, err)

	resp, err := f.svc.GetMyDashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 9, resp.Stats.TotalRecords)
	assert.Equal(t, 2, resp.Stats.TotalLate)
	assert.Equal(t, 7, resp.Stats.TotalPresent)
	assert.Equal(t, attendance.TodayCheckedIn, resp.Stats.TodayStatus)
	require.NotNil(t, resp.Today)
	assert.Equal(t, "2024-01-01", resp.Today.Date)
	assert.Len(t, resp.Recent, 5)
	assert.Equal(t, "2024-01-01", resp.Recent[0].Date)
}

func TestGetUserStats(t *testing.T) {
	f := newFixture(t, seededRecords()...)

	t.Run("known user", func(t *testing.T) {
		resp, err := f.svc.GetUserStats(context.Background(), studentID, attendance.StatsFilter{})
		require.NoError(t, err)
		assert.Equal(t, studentID, resp.UserID)
		assert.Equal(t, 8, resp.TotalRecords)
		assert.Equal(t, attendance.TodayNotCheckedIn, resp.TodayStatus)
	})

	t.Run("date range", func(t *testing.T) {
		start, end := "2023-12-28", "2023-12-31"
		resp, err := f.svc.GetUserStats(context.Background(), studentID, attendance.StatsFilter{StartDate: &start, EndDate: &end})
		require.NoError(t, err)
		assert.Equal(t, 4, resp.TotalRecords)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := f.svc.GetUserStats(context.Background(), uuid.NewString(), attendance.StatsFilter{})
		assert.ErrorIs(t, err, user.ErrUserNotFound)
	})

	t.Run("invalid id", func(t *testing.T) {
		_, err := f.svc.GetUserStats(context.Background(), "nope", attendance.StatsFilter{})
		var verrs validator.ValidationErrors
		assert.ErrorAs(t, err, &verrs)
	})
}
