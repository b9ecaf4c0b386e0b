package strava

import (
	"context"
	"fmt"
	"iter"
	"net/url"
	"strconv"
	"time"
)

// activitiesPerPage is the page size for the activity feed.
// Larger pages mean fewer round trips for the 30-day window.
const activitiesPerPage = 100

// Session wraps a valid access token for exactly one user, for the
// duration of one request. Sessions are never constructed with an
// expired token: the session provider refreshes first.
type Session struct {
	client      *Client
	userID      string
	accessToken string
}

// Session builds an authenticated session from an access token
func (c *Client) Session(userID, accessToken string) *Session {
	return &Session{
		client:      c,
		userID:      userID,
		accessToken: accessToken,
	}
}

// UserID returns the user this session is scoped to
func (s *Session) UserID() string {
	return s.userID
}

// Athlete fetches the authenticated athlete profile, including the
// owned gear lists
func (s *Session) Athlete(ctx context.Context) (*Athlete, error) {
	var athlete Athlete
	if err := s.client.doAPI(ctx, s.accessToken, "/api/v3/athlete", nil, &athlete); err != nil {
		return nil, fmt.Errorf("get athlete failed: %w", err)
	}
	return &athlete, nil
}

// Gear fetches one piece of equipment by id
func (s *Session) Gear(ctx context.Context, gearID string) (*Gear, error) {
	var gear Gear
	if err := s.client.doAPI(ctx, s.accessToken, "/api/v3/gear/"+url.PathEscape(gearID), nil, &gear); err != nil {
		return nil, fmt.Errorf("get gear failed: %w", err)
	}
	return &gear, nil
}

// Activities returns the athlete's activity feed after the given
// instant, newest first, paginating transparently. The sequence is
// lazy: pages are fetched as the consumer advances, and a fresh call
// restarts from the first page. On a fetch error the sequence yields
// the error once and stops.
func (s *Session) Activities(ctx context.Context, after time.Time) iter.Seq2[*Activity, error] {
	return func(yield func(*Activity, error) bool) {
		for page := 1; ; page++ {
			q := url.Values{}
			q.Set("after", strconv.FormatInt(after.Unix(), 10))
			q.Set("page", strconv.Itoa(page))
			q.Set("per_page", strconv.Itoa(activitiesPerPage))

			var batch []*Activity
			if err := s.client.doAPI(ctx, s.accessToken, "/api/v3/athlete/activities", q, &batch); err != nil {
				yield(nil, fmt.Errorf("get activities failed: %w", err))
				return
			}

			for _, activity := range batch {
				if !yield(activity, nil) {
					return
				}
			}

			// a short page is the last page
			if len(batch) < activitiesPerPage {
				return
			}
		}
	}
}
