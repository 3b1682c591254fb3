package schedule

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/campus-attendance/internal/domain/schedule"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var wib = time.FixedZone("WIB", 7*3600)

// 2024-01-01 is a Monday.
func monday(hour, min, sec int) time.Time {
	return time.Date(2024, 1, 1, hour, min, sec, 0, wib)
}

func sched(id string, day int, start, end string, active bool) schedule.Schedule {
	s, err := schedule.ParseTimeOfDay(start)
	if err != nil {
		panic(err)
	}
	e, err := schedule.ParseTimeOfDay(end)
	if err != nil {
		panic(err)
	}
	return schedule.Schedule{ID: id, DayOfWeek: day, StartTime: s, EndTime: e, IsActive: active}
}

func TestClassify(t *testing.T) {
	mondayMorning := []schedule.Schedule{sched("a", 1, "08:00", "10:00", true)}

	tests := []struct {
		name      string
		now       time.Time
		schedules []schedule.Schedule
		onTime    bool
		matchedID string
	}{
		{name: "one minute early", now: monday(7, 59, 0), schedules: mondayMorning, onTime: true, matchedID: "a"},
		{name: "exactly at start", now: monday(8, 0, 0), schedules: mondayMorning, onTime: true, matchedID: "a"},
		{name: "sub-second past start", now: monday(8, 0, 0).Add(999 * time.Millisecond), schedules: mondayMorning, onTime: false, matchedID: "a"},
		{name: "sub-second before start", now: monday(8, 0, 0).Add(-time.Millisecond), schedules: mondayMorning, onTime: true, matchedID: "a"},
		{name: "one second late", now: monday(8, 0, 1), schedules: mondayMorning, onTime: false, matchedID: "a"},
		{name: "one minute late", now: monday(8, 1, 0), schedules: mondayMorning, onTime: false, matchedID: "a"},
		{name: "no schedules", now: monday(12, 0, 0), schedules: nil, onTime: true},
		{name: "schedule on another day", now: monday(12, 0, 0), schedules: []schedule.Schedule{sched("b", 2, "08:00", "10:00", true)}, onTime: true},
		{name: "inactive schedule ignored", now: monday(12, 0, 0), schedules: []schedule.Schedule{sched("c", 1, "08:00", "10:00", false)}, onTime: true},
		{
			name: "sunday is day 7",
			now:  time.Date(2024, 1, 7, 9, 0, 0, 0, wib),
			schedules: []schedule.Schedule{
				sched("sun", 7, "08:00", "10:00", true),
				sched("sun0", 0, "10:00", "11:00", true),
			},
			onTime:    false,
			matchedID: "sun",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolver{}.Classify(tt.now, tt.schedules)
			assert.Equal(t, tt.onTime, got.OnTime)
			if tt.matchedID == "" {
				assert.Nil(t, got.Matched)
				return
			}
			require.NotNil(t, got.Matched)
			assert.Equal(t, tt.matchedID, got.Matched.ID)
		})
	}
}

func TestClassify_ConflictingSchedules(t *testing.T) {
	schedules := []schedule.Schedule{
		sched("late-slot", 1, "10:00", "12:00", true),
		sched("early-slot", 1, "08:00", "09:00", true),
		sched("inactive", 1, "06:00", "07:00", false),
	}
	now := monday(9, 0, 0)

	t.Run("earliest start by default", func(t *testing.T) {
		got := Resolver{}.Classify(now, schedules)
		require.NotNil(t, got.Matched)
		assert.Equal(t, "early-slot", got.Matched.ID)
		assert.False(t, got.OnTime)

		_, competing := Resolver{}.Select(1, schedules)
		assert.Equal(t, 2, competing)
	})

	t.Run("latest start when configured", func(t *testing.T) {
		got := Resolver{Policy: schedule.PolicyLatestStart}.Classify(now, schedules)
		require.NotNil(t, got.Matched)
		assert.Equal(t, "late-slot", got.Matched.ID)
		assert.True(t, got.OnTime)
	})

	t.Run("order of input does not matter", func(t *testing.T) {
		reversed := []schedule.Schedule{schedules[2], schedules[1], schedules[0]}
		assert.Equal(t, Resolver{}.Classify(now, schedules), Resolver{}.Classify(now, reversed))
	})

	t.Run("identical start times break ties deterministically", func(t *testing.T) {
		twins := []schedule.Schedule{
			sched("z", 1, "08:00", "10:00", true),
			sched("y", 1, "08:00", "10:00", true),
			sched("x", 1, "08:00", "09:00", true),
		}
		got := Resolver{}.Classify(now, twins)
		require.NotNil(t, got.Matched)
		assert.Equal(t, "x", got.Matched.ID)

		got = Resolver{}.Classify(now, twins[:2])
		require.NotNil(t, got.Matched)
		assert.Equal(t, "y", got.Matched.ID)
	})
}
