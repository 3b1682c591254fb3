package schedule

import (
	"sort"
	"time"

	"github.com/cmlabs-hris/campus-attendance/internal/domain/schedule"
)

// Resolver classifies an arrival against the weekly schedules.
type Resolver struct {
	Policy schedule.ConflictPolicy
}

// Classification is the outcome of Resolver.Classify. Matched is nil when
// no active schedule exists for the weekday.
type Classification struct {
	OnTime  bool
	Matched *schedule.Schedule
}

// Select returns the schedule governing dayOfWeek and how many active
// schedules competed for it.
func (r Resolver) Select(dayOfWeek int, schedules []schedule.Schedule) (*schedule.Schedule, int) {
	var candidates []schedule.Schedule
	for _, s := range schedules {
		if s.IsActive && s.DayOfWeek == dayOfWeek {
			candidates = append(candidates, s)
		}
	}
	if len(candidates) == 0 {
		return nil, 0
	}

	latest := r.Policy == schedule.PolicyLatestStart
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.StartTime != b.StartTime {
			if latest {
				return a.StartTime > b.StartTime
			}
			return a.StartTime < b.StartTime
		}
		if a.EndTime != b.EndTime {
			return a.EndTime < b.EndTime
		}
		return a.ID < b.ID
	})

	chosen := candidates[0]
	return &chosen, len(candidates)
}

// Classify decides whether an arrival at now is on time. now must already be
// in the campus time zone. Arriving exactly at the start time is on time;
// any instant after it, fractions of a second included, is late.
func (r Resolver) Classify(now time.Time, schedules []schedule.Schedule) Classification {
	matched, _ := r.Select(schedule.ISOWeekday(now), schedules)
	if matched == nil {
		return Classification{OnTime: true}
	}

	return Classification{
		OnTime:  !now.After(matched.StartTime.On(now)),
		Matched: matched,
	}
}
