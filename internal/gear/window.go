package gear

import (
	"time"

	"github.com/velodash/gearframe/internal/strava"
)

// startOfDay returns midnight of t in t's location
func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// mondayOffset returns the day offset from Monday (ISO convention:
// Monday = 0, Sunday = 6). time.Weekday counts from Sunday, hence the
// rotation.
func mondayOffset(weekday time.Weekday) int {
	return (int(weekday) + 6) % 7
}

// windowAccumulator aggregates matching activities for one rolling
// window [start, end). Activities are appended in feed order.
type windowAccumulator struct {
	start      time.Time
	end        time.Time
	distanceM  float64
	movingTime time.Duration
	activities []*strava.Activity
}

func newWindowAccumulator(start, end time.Time) *windowAccumulator {
	return &windowAccumulator{start: start, end: end}
}

// contains reports half-open window membership: start inclusive, end
// exclusive
func (w *windowAccumulator) contains(ts time.Time) bool {
	return !ts.Before(w.start) && ts.Before(w.end)
}

// add accumulates one activity. Missing distance or moving time
// contributes zero to that field but the activity still counts and is
// still recorded.
func (w *windowAccumulator) add(activity *strava.Activity) {
	w.activities = append(w.activities, activity)
	if activity.Distance != nil {
		w.distanceM += *activity.Distance
	}
	if activity.MovingTime != nil {
		w.movingTime += time.Duration(*activity.MovingTime) * time.Second
	}
}
