package api

// GearItem represents one piece of gear in the list response
type GearItem struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// GearList represents the response of GET /users/{user_id}/gear
type GearList struct {
	Gear []GearItem `json:"gear"`
}

// WindowStats represents aggregated activity totals for one rolling window
type WindowStats struct {
	DistanceKm    float64 `json:"distance_km"`    // km, rounded to 1 decimal
	TimeHHMM      string  `json:"time_hh_mm"`     // elapsed moving time as H:MM
	MovingTimeS   int64   `json:"moving_time_s"`  // total moving time in seconds
	ActivityCount int     `json:"activity_count"` // number of matching activities
}

// LastActivity represents the most recent matching activity in the 30-day window
type LastActivity struct {
	DistanceKm float64 `json:"distance_km"`
}

// GearStats represents the response of GET /users/{user_id}/gear/{gear_id}
type GearStats struct {
	GearID       string       `json:"gear_id"`
	Name         string       `json:"name"`
	BrandName    string       `json:"brand_name"`
	Last30Days   WindowStats  `json:"last_30_days"`
	ThisWeek     WindowStats  `json:"this_week"`
	LastActivity LastActivity `json:"last_activity"`
	DistanceKm   float64      `json:"distance_km"` // lifetime distance, whole km
	Timestamp    string       `json:"timestamp"`   // aggregation time, UTC ISO-8601
}
