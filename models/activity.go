package models

import (
	"time"

	"gorm.io/gorm"
)

// Metric keys carried on an ActivityEvent. Workout rows populate all of them;
// meal rows only populate MetricCalories (intake is aggregated under the same
// key the goal engine sums for "total_calories" goals).
const (
	MetricDuration = "duration"
	MetricCalories = "caloriesBurned"
	MetricSets     = "sets"
	MetricReps     = "reps"
	MetricWeight   = "weight"
)

// ActivityEvent is a read-only projection of a workout or meal used by the
// streak and goal-progress computations. It is built from persisted rows and
// never written back; the computations treat it as immutable input.
//
// A zero Timestamp marks a row whose timestamp column was NULL; such events
// are skipped by the streak calculator.
type ActivityEvent struct {
	Timestamp    time.Time          `json:"timestamp"`
	ActivityType string             `json:"activityType,omitempty"` // empty when the source row carries no type
	Metrics      map[string]float64 `json:"metrics,omitempty"`
}

// Metric returns the named metric, or 0 when the event does not carry it.
func (e ActivityEvent) Metric(name string) float64 {
	if e.Metrics == nil {
		return 0
	}
	return e.Metrics[name]
}

// Workout represents a logged workout session.
type Workout struct {
	ID              uint           `gorm:"primarykey"`
	UserID          string         `gorm:"index;not null"`
	WorkoutType     string         `gorm:"type:varchar(100)"` // e.g. "running", "strength"
	PerformedAt     time.Time      `gorm:"index"`
	DurationMinutes float64        `gorm:"default:0"`
	CaloriesBurned  float64        `gorm:"default:0"`
	Sets            float64        `gorm:"default:0"`
	Reps            float64        `gorm:"default:0"`
	WeightKg        float64        `gorm:"default:0"`
	CreatedAt       time.Time      `gorm:"autoCreateTime"`
	UpdatedAt       time.Time      `gorm:"autoUpdateTime"`
	DeletedAt       gorm.DeletedAt `gorm:"index"` // For soft deletes
}

// TableName specifies the table name for the Workout model.
func (Workout) TableName() string {
	return "workouts"
}

// ToActivityEvent projects the workout into the shape the computation
// services consume.
func (w *Workout) ToActivityEvent() ActivityEvent {
	return ActivityEvent{
		Timestamp:    w.PerformedAt,
		ActivityType: w.WorkoutType,
		Metrics: map[string]float64{
			MetricDuration: w.DurationMinutes,
			MetricCalories: w.CaloriesBurned,
			MetricSets:     w.Sets,
			MetricReps:     w.Reps,
			MetricWeight:   w.WeightKg,
		},
	}
}

// Meal represents a logged meal.
type Meal struct {
	ID         uint           `gorm:"primarykey"`
	UserID     string         `gorm:"index;not null"`
	MealType   string         `gorm:"type:varchar(100)"` // e.g. "breakfast", "snack"
	ConsumedAt time.Time      `gorm:"index"`
	Calories   float64        `gorm:"default:0"`
	CreatedAt  time.Time      `gorm:"autoCreateTime"`
	UpdatedAt  time.Time      `gorm:"autoUpdateTime"`
	DeletedAt  gorm.DeletedAt `gorm:"index"` // For soft deletes
}

// TableName specifies the table name for the Meal model.
func (Meal) TableName() string {
	return "meals"
}

// ToActivityEvent projects the meal into the shape the computation services
// consume.
func (m *Meal) ToActivityEvent() ActivityEvent {
	return ActivityEvent{
		Timestamp:    m.ConsumedAt,
		ActivityType: m.MealType,
		Metrics: map[string]float64{
			MetricCalories: m.Calories,
		},
	}
}
