package services

import (
	"fmt"
	"sort"
	"time"

	"project/models"
	"project/utils"

	"github.com/google/uuid"
)

// GoalService is the weekly goal progress engine. Given a goal definition and
// the activity events of its week window it derives the current value, the
// completion percentage and flag, and the bounded daily progress history.
//
// Like the streak calculator it is pure: every method is a function of its
// inputs plus the supplied "now" instant, the input goal is never mutated,
// and persisting the returned state is the caller's explicit second step.
// The engine assumes well-formed definitions (weekStart < weekEnd is
// validated by whoever constructs the goal) and has no error states of its
// own — a degenerate target of 0 simply yields a 0% completion.
type GoalService interface {
	// ComputeProgress derives fresh progress state for one goal. Events
	// outside the goal's [weekStart, weekEnd] window (inclusive, by calendar
	// day) are ignored, so callers may pass a pre-filtered or a wider slice.
	ComputeProgress(goal *models.Goal, weekEvents []models.ActivityEvent, now time.Time) models.GoalProgress

	// ComputeAllProgress applies ComputeProgress to every active goal
	// independently. Inactive goals are skipped. Goals are not coupled to one
	// another, so ordering is irrelevant.
	ComputeAllProgress(goals []*models.Goal, eventsByGoal map[uuid.UUID][]models.ActivityEvent, now time.Time) map[uuid.UUID]models.GoalProgress

	// WeeklyStats groups goals by the ISO week of their weekStart and
	// aggregates completion counts and per-type averages over the
	// already-computed progress fields. An average over zero goals is 0.
	WeeklyStats(goals []*models.Goal) []models.WeeklyGoalStats
}

type goalService struct {
	streakService StreakService
}

// NewGoalService creates a new instance of GoalService. The streak service is
// used for streak_days goals only.
func NewGoalService(streakService StreakService) GoalService {
	return &goalService{streakService: streakService}
}

// metricForGoalType maps the summing goal types to the event metric they
// accumulate. workouts_count and streak_days are handled separately.
var metricForGoalType = map[models.GoalType]string{
	models.GoalTotalDuration: models.MetricDuration,
	models.GoalTotalCalories: models.MetricCalories,
	models.GoalTotalSets:     models.MetricSets,
	models.GoalTotalReps:     models.MetricReps,
	models.GoalTotalWeight:   models.MetricWeight,
}

func (s *goalService) ComputeProgress(goal *models.Goal, weekEvents []models.ActivityEvent, now time.Time) models.GoalProgress {
	filtered := filterGoalEvents(goal, weekEvents, now.Location())

	var currentValue float64
	switch goal.GoalType {
	case models.GoalWorkoutsCount:
		currentValue = float64(len(filtered))
	case models.GoalStreakDays:
		// Goal-scoped streak: the trailing run of consecutive active days
		// ending at the most recent active day inside the window. Unlike the
		// global streak there is no today/yesterday anchoring.
		timestamps := make([]time.Time, 0, len(filtered))
		for _, event := range filtered {
			timestamps = append(timestamps, event.Timestamp)
		}
		currentValue = float64(s.streakService.TrailingRunDays(timestamps, now.Location()))
	default:
		if metric, ok := metricForGoalType[goal.GoalType]; ok {
			for _, event := range filtered {
				currentValue += event.Metric(metric)
			}
		}
	}

	completionPercentage := 0.0
	if goal.TargetValue > 0 {
		completionPercentage = currentValue / goal.TargetValue * 100
	}
	isCompleted := completionPercentage >= 100

	history := updateProgressHistory(goal.ProgressHistory, now.Format(utils.DateKeyFormat), currentValue, completionPercentage)

	return models.GoalProgress{
		CurrentValue:         currentValue,
		CompletionPercentage: completionPercentage,
		IsCompleted:          isCompleted,
		ProgressHistory:      history,
	}
}

func (s *goalService) ComputeAllProgress(goals []*models.Goal, eventsByGoal map[uuid.UUID][]models.ActivityEvent, now time.Time) map[uuid.UUID]models.GoalProgress {
	results := make(map[uuid.UUID]models.GoalProgress, len(goals))
	for _, goal := range goals {
		if goal == nil || !goal.IsActive {
			continue
		}
		results[goal.ID] = s.ComputeProgress(goal, eventsByGoal[goal.ID], now)
	}
	return results
}

func (s *goalService) WeeklyStats(goals []*models.Goal) []models.WeeklyGoalStats {
	byWeek := make(map[string][]*models.Goal)
	for _, goal := range goals {
		if goal == nil {
			continue
		}
		byWeek[weekIdentifier(goal.WeekStart)] = append(byWeek[weekIdentifier(goal.WeekStart)], goal)
	}

	weekIDs := make([]string, 0, len(byWeek))
	for weekID := range byWeek {
		weekIDs = append(weekIDs, weekID)
	}
	sort.Strings(weekIDs)

	stats := make([]models.WeeklyGoalStats, 0, len(weekIDs))
	for _, weekID := range weekIDs {
		weekGoals := byWeek[weekID]

		completed := 0
		percentageSum := 0.0
		sumByType := make(map[models.GoalType]float64)
		countByType := make(map[models.GoalType]int)
		for _, goal := range weekGoals {
			if goal.IsCompleted {
				completed++
			}
			percentageSum += goal.CompletionPercentage
			sumByType[goal.GoalType] += goal.CompletionPercentage
			countByType[goal.GoalType]++
		}

		week := models.WeeklyGoalStats{
			WeekID:         weekID,
			TotalGoals:     len(weekGoals),
			CompletedGoals: completed,
		}
		if len(weekGoals) > 0 {
			week.CompletionRate = float64(completed) / float64(len(weekGoals))
			week.AverageCompletionPercentage = percentageSum / float64(len(weekGoals))
		}
		if len(countByType) > 0 {
			week.AverageByType = make(map[models.GoalType]float64, len(countByType))
			for goalType, sum := range sumByType {
				week.AverageByType[goalType] = sum / float64(countByType[goalType])
			}
		}
		stats = append(stats, week)
	}
	return stats
}

// filterGoalEvents applies the goal's window and optional activity-type
// filter. Window membership is decided on calendar-day keys: the week bounds
// are civil dates (keyed in their own location), events are keyed in the
// caller's location, and both endpoints are inclusive.
func filterGoalEvents(goal *models.Goal, events []models.ActivityEvent, loc *time.Location) []models.ActivityEvent {
	startKey := goal.WeekStart.Format(utils.DateKeyFormat)
	endKey := goal.WeekEnd.Format(utils.DateKeyFormat)

	filtered := make([]models.ActivityEvent, 0, len(events))
	for _, event := range events {
		if event.Timestamp.IsZero() {
			continue
		}
		if goal.ActivityTypeFilter != "" && event.ActivityType != goal.ActivityTypeFilter {
			continue // events with no type are excluded when a filter is set
		}
		key := utils.DateKey(event.Timestamp, loc)
		if key < startKey || key > endKey {
			continue
		}
		filtered = append(filtered, event)
	}
	return filtered
}

// updateProgressHistory returns a new history with today's snapshot either
// overwritten in place (same date key) or appended, truncated to the most
// recent ProgressHistoryLimit entries. The input slice is never modified.
func updateProgressHistory(history models.ProgressHistory, dateKey string, value, completionPercentage float64) models.ProgressHistory {
	updated := make(models.ProgressHistory, len(history), len(history)+1)
	copy(updated, history)

	for i := range updated {
		if updated[i].DateKey == dateKey {
			updated[i].Value = value
			updated[i].CompletionPercentage = completionPercentage
			return updated
		}
	}

	updated = append(updated, models.ProgressEntry{
		DateKey:              dateKey,
		Value:                value,
		CompletionPercentage: completionPercentage,
	})
	if len(updated) > models.ProgressHistoryLimit {
		updated = updated[len(updated)-models.ProgressHistoryLimit:]
	}
	return updated
}

// weekIdentifier renders the ISO week of a goal's weekStart, e.g. "2024-W07".
func weekIdentifier(weekStart time.Time) string {
	year, week := weekStart.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}
