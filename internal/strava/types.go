package strava

import "time"

// TokenResponse represents the platform's OAuth token endpoint response,
// returned by both the code exchange and the refresh grant.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresAt    int64  `json:"expires_at"` // unix seconds
	ExpiresIn    int64  `json:"expires_in"`
	// Athlete is only present on the initial code exchange
	Athlete *Athlete `json:"athlete,omitempty"`
}

// GearRef represents a gear entry in the athlete profile
type GearRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Athlete represents the authenticated athlete profile, including the
// owned gear lists
type Athlete struct {
	ID    int64     `json:"id"`
	Bikes []GearRef `json:"bikes"`
	Shoes []GearRef `json:"shoes"`
}

// Gear represents one piece of equipment.
// Distance is the lifetime distance in meters; the platform may omit it.
type Gear struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	BrandName string   `json:"brand_name"`
	Distance  *float64 `json:"distance"`
}

// Activity represents one activity from the athlete's feed.
// Every field this service reads may be absent; pointers keep "missing"
// distinguishable from zero.
type Activity struct {
	ID         int64      `json:"id"`
	Name       string     `json:"name"`
	GearID     *string    `json:"gear_id"`
	Distance   *float64   `json:"distance"`    // meters
	MovingTime *int64     `json:"moving_time"` // seconds
	StartDate  *time.Time `json:"start_date"`
}
