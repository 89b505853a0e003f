package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GoalType defines what a weekly goal measures.
type GoalType string

const (
	GoalWorkoutsCount GoalType = "workouts_count"
	GoalTotalDuration GoalType = "total_duration"
	GoalTotalCalories GoalType = "total_calories"
	GoalTotalSets     GoalType = "total_sets"
	GoalTotalReps     GoalType = "total_reps"
	GoalTotalWeight   GoalType = "total_weight"
	GoalStreakDays    GoalType = "streak_days"
)

// ValidGoalType reports whether t is one of the supported goal types.
func ValidGoalType(t GoalType) bool {
	switch t {
	case GoalWorkoutsCount, GoalTotalDuration, GoalTotalCalories,
		GoalTotalSets, GoalTotalReps, GoalTotalWeight, GoalStreakDays:
		return true
	}
	return false
}

// ProgressHistoryLimit bounds the rolling history kept on a goal.
const ProgressHistoryLimit = 30

// ProgressEntry is one daily snapshot in a goal's progress history.
type ProgressEntry struct {
	DateKey              string  `json:"dateKey"` // YYYY-MM-DD
	Value                float64 `json:"value"`
	CompletionPercentage float64 `json:"completionPercentage"`
}

// ProgressHistory is the bounded, oldest-to-newest sequence of daily
// snapshots. It is persisted as a JSON text column.
type ProgressHistory []ProgressEntry

// Value implements driver.Valuer so GORM can store the history as JSON text.
func (h ProgressHistory) Value() (driver.Value, error) {
	if h == nil {
		return "[]", nil
	}
	data, err := json.Marshal(h)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal progress history: %w", err)
	}
	return string(data), nil
}

// Scan implements sql.Scanner for reading the JSON text column back.
func (h *ProgressHistory) Scan(value interface{}) error {
	if value == nil {
		*h = nil
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return errors.New("progress history column is neither text nor blob")
	}
	if len(data) == 0 {
		*h = nil
		return nil
	}
	return json.Unmarshal(data, h)
}

// Goal is a weekly goal definition plus the derived progress fields the
// engine recomputes on every read. Week bounds are fixed at creation;
// CurrentValue, CompletionPercentage, IsCompleted and ProgressHistory are
// never written by anything but GoalProgress.ApplyTo.
type Goal struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID             string    `gorm:"index;not null" json:"userId"`
	GoalType           GoalType  `gorm:"type:varchar(50);not null" json:"goalType"`
	TargetValue        float64   `gorm:"not null" json:"targetValue"`
	WeekStart          time.Time `gorm:"index;not null" json:"weekStart"`
	WeekEnd            time.Time `gorm:"not null" json:"weekEnd"`
	ActivityTypeFilter string    `json:"activityTypeFilter,omitempty"` // exact match; empty means no filter
	IsActive           bool      `gorm:"default:true" json:"isActive"`

	CurrentValue         float64         `json:"currentValue"`
	CompletionPercentage float64         `json:"completionPercentage"`
	IsCompleted          bool            `gorm:"default:false" json:"isCompleted"`
	ProgressHistory      ProgressHistory `gorm:"type:text" json:"progressHistory"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Goal model.
func (Goal) TableName() string {
	return "goals"
}

// GoalProgress is the derived state the progress engine returns. It is a
// plain value: the engine never mutates the goal it was computed from, and
// persisting the result is the caller's explicit second step.
type GoalProgress struct {
	CurrentValue         float64         `json:"currentValue"`
	CompletionPercentage float64         `json:"completionPercentage"`
	IsCompleted          bool            `json:"isCompleted"`
	ProgressHistory      ProgressHistory `json:"progressHistory"`
}

// ApplyTo copies the derived fields onto a goal row prior to persisting.
func (p GoalProgress) ApplyTo(goal *Goal) {
	goal.CurrentValue = p.CurrentValue
	goal.CompletionPercentage = p.CompletionPercentage
	goal.IsCompleted = p.IsCompleted
	goal.ProgressHistory = p.ProgressHistory
}
