// Package gear computes rolling-window usage statistics for one piece
// of equipment from the authenticated user's activity feed.
package gear

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"math"
	"time"

	"github.com/velodash/gearframe/internal/observability"
	"github.com/velodash/gearframe/internal/strava"
	"github.com/velodash/gearframe/pkg/api"
)

// ErrAggregationFailed indicates that fetching gear or activity data
// from the platform failed after a valid session was obtained.
var ErrAggregationFailed = errors.New("gear aggregation failed")

// ActivitySource is the slice of an authenticated session the
// aggregator consumes. *strava.Session implements it.
type ActivitySource interface {
	Gear(ctx context.Context, gearID string) (*strava.Gear, error)
	Activities(ctx context.Context, after time.Time) iter.Seq2[*strava.Activity, error]
}

// Aggregator computes gear statistics for two overlapping rolling
// windows: the trailing 30 days and the current Monday-anchored week.
type Aggregator struct {
	loc *time.Location
	now func() time.Time
}

// NewAggregator creates an aggregator whose day and week boundaries are
// computed in loc
func NewAggregator(loc *time.Location) *Aggregator {
	return &Aggregator{
		loc: loc,
		now: time.Now,
	}
}

// Aggregate fetches the activity feed once and computes statistics for
// both windows. Aggregation is a pure function of the feed and the
// clock: nothing is cached across calls. A gear id not owned by the
// user degrades to empty accumulators, which is a correct outcome, not
// an error.
func (a *Aggregator) Aggregate(ctx context.Context, src ActivitySource, gearID string) (*api.GearStats, error) {
	started := time.Now()
	defer func() {
		observability.RecordAggregation(time.Since(started))
	}()

	now := a.now()
	startOfToday := startOfDay(now.In(a.loc))
	window30Start := startOfToday.AddDate(0, 0, -30)
	weekStart := startOfToday.AddDate(0, 0, -mondayOffset(startOfToday.Weekday()))

	gearRec, err := src.Gear(ctx, gearID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAggregationFailed, err)
	}

	last30 := newWindowAccumulator(window30Start, now)
	thisWeek := newWindowAccumulator(weekStart, now)

	// One fetch covers both windows: the week window is always a subset
	// of the 30-day window. Membership is still tested per window, not
	// assumed from the subset relation.
	for activity, err := range src.Activities(ctx, window30Start) {
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrAggregationFailed, err)
		}

		// activities without gear or start date are excluded silently
		if activity == nil || activity.GearID == nil || *activity.GearID != gearID {
			continue
		}
		if activity.StartDate == nil {
			continue
		}

		if last30.contains(*activity.StartDate) {
			last30.add(activity)
		}
		if thisWeek.contains(*activity.StartDate) {
			thisWeek.add(activity)
		}
	}

	return &api.GearStats{
		GearID:       gearID,
		Name:         gearRec.Name,
		BrandName:    gearRec.BrandName,
		Last30Days:   windowStats(last30),
		ThisWeek:     windowStats(thisWeek),
		LastActivity: api.LastActivity{DistanceKm: lastActivityKm(last30)},
		DistanceKm:   lifetimeKm(gearRec),
		Timestamp:    now.UTC().Format(time.RFC3339),
	}, nil
}

// windowStats converts an accumulator to its response shape
func windowStats(w *windowAccumulator) api.WindowStats {
	return api.WindowStats{
		DistanceKm:    roundKm1(w.distanceM),
		TimeHHMM:      formatHoursMinutes(w.movingTime),
		MovingTimeS:   int64(w.movingTime.Seconds()),
		ActivityCount: len(w.activities),
	}
}

// lastActivityKm returns the distance of the head of the 30-day
// matching list. The feed is assumed newest-first; if the platform ever
// stops guaranteeing that ordering this field picks the wrong activity.
func lastActivityKm(w *windowAccumulator) float64 {
	if len(w.activities) == 0 {
		return 0
	}
	head := w.activities[0]
	if head.Distance == nil {
		return 0
	}
	return roundKm1(*head.Distance)
}

// lifetimeKm converts the gear record's lifetime distance to whole
// kilometers, 0 when the platform reports none
func lifetimeKm(g *strava.Gear) float64 {
	if g.Distance == nil {
		return 0
	}
	return math.Round(*g.Distance / 1000)
}

// roundKm1 converts meters to kilometers rounded to 1 decimal
func roundKm1(meters float64) float64 {
	return math.Round(meters/100) / 10
}

// formatHoursMinutes renders a duration as H:MM, hours unpadded
func formatHoursMinutes(d time.Duration) string {
	totalMinutes := int(d.Minutes())
	return fmt.Sprintf("%d:%02d", totalMinutes/60, totalMinutes%60)
}
