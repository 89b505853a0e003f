package models

import "time"

// StreakResult is the outcome of one streak computation. It is computed
// fresh on every call and never persisted by the computation itself.
type StreakResult struct {
	StreakCount int `json:"streakCount"`
	// LastActiveDateKey is the most recent calendar day (YYYY-MM-DD, in the
	// resolved timezone) with at least one qualifying event. Nil when the
	// streak is zero.
	LastActiveDateKey *string `json:"lastActiveDateKey,omitempty"`
}

// StreakReport bundles the per-projection streaks for one user. The same
// calculator produces all three; only the event projection differs.
type StreakReport struct {
	UserID      string       `json:"userId"`
	TimeZone    string       `json:"timeZone"` // the zone the streaks were computed in, after fallback
	Workouts    StreakResult `json:"workouts"`
	Meals       StreakResult `json:"meals"`
	Combined    StreakResult `json:"combined"`
	GeneratedAt time.Time    `json:"generatedAt"`
}
