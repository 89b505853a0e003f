package models

import "time"

// WeeklyGoalStats is a read-side aggregation of already-computed goal
// progress for one calendar week. It holds no invariants beyond
// "average of N values, 0 when N = 0".
type WeeklyGoalStats struct {
	WeekID                      string               `json:"weekId"` // ISO week identifier, e.g. "2024-W07"
	TotalGoals                  int                  `json:"totalGoals"`
	CompletedGoals              int                  `json:"completedGoals"`
	CompletionRate              float64              `json:"completionRate"` // CompletedGoals / TotalGoals
	AverageCompletionPercentage float64              `json:"averageCompletionPercentage"`
	AverageByType               map[GoalType]float64 `json:"averageByType,omitempty"`
}

// GoalStatsResponse is the stats view returned to callers.
type GoalStatsResponse struct {
	UserID      string            `json:"userId"`
	Weeks       []WeeklyGoalStats `json:"weeks"`
	GeneratedAt time.Time         `json:"generatedAt"`
}
