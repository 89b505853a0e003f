package services

import (
	"testing"
	"time"

	"project/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

// Week of Mon 2024-07-08 through Sun 2024-07-14, with "now" on Thursday.
var (
	testWeekStart = time.Date(2024, 7, 8, 0, 0, 0, 0, time.UTC)
	testWeekEnd   = time.Date(2024, 7, 14, 0, 0, 0, 0, time.UTC)
	testNow       = time.Date(2024, 7, 11, 12, 0, 0, 0, time.UTC)
)

func newTestGoal(goalType models.GoalType, target float64) *models.Goal {
	return &models.Goal{
		ID:          uuid.New(),
		UserID:      "testUser",
		GoalType:    goalType,
		TargetValue: target,
		WeekStart:   testWeekStart,
		WeekEnd:     testWeekEnd,
		IsActive:    true,
	}
}

func workoutEvent(ts time.Time, workoutType string, metrics map[string]float64) models.ActivityEvent {
	return models.ActivityEvent{Timestamp: ts, ActivityType: workoutType, Metrics: metrics}
}

func TestGoalService_ComputeProgress(t *testing.T) {
	svc := NewGoalService(NewStreakService())

	t.Run("Scenario 1: workouts_count at 3 of 5 is 60 percent, not completed", func(t *testing.T) {
		goal := newTestGoal(models.GoalWorkoutsCount, 5)
		events := []models.ActivityEvent{
			workoutEvent(testWeekStart.Add(10*time.Hour), "running", nil),
			workoutEvent(testWeekStart.AddDate(0, 0, 1), "strength", nil),
			workoutEvent(testWeekStart.AddDate(0, 0, 2), "running", nil),
		}

		progress := svc.ComputeProgress(goal, events, testNow)
		assert.Equal(t, 3.0, progress.CurrentValue)
		assert.Equal(t, 60.0, progress.CompletionPercentage)
		assert.False(t, progress.IsCompleted)
	})

	t.Run("Scenario 2: total_calories can exceed 100 percent", func(t *testing.T) {
		goal := newTestGoal(models.GoalTotalCalories, 1000)
		events := []models.ActivityEvent{
			workoutEvent(testWeekStart, "", map[string]float64{models.MetricCalories: 300}),
			workoutEvent(testWeekStart.AddDate(0, 0, 1), "", map[string]float64{models.MetricCalories: 300}),
			workoutEvent(testWeekStart.AddDate(0, 0, 2), "", map[string]float64{models.MetricCalories: 500}),
		}

		progress := svc.ComputeProgress(goal, events, testNow)
		assert.Equal(t, 1100.0, progress.CurrentValue)
		assert.InDelta(t, 110.0, progress.CompletionPercentage, 0.0001)
		assert.True(t, progress.IsCompleted)
	})

	t.Run("Scenario 3: Degenerate target yields 0 percent, never an error", func(t *testing.T) {
		for _, target := range []float64{0, -5} {
			goal := newTestGoal(models.GoalWorkoutsCount, target)
			events := []models.ActivityEvent{workoutEvent(testWeekStart, "running", nil)}

			progress := svc.ComputeProgress(goal, events, testNow)
			assert.Equal(t, 1.0, progress.CurrentValue)
			assert.Equal(t, 0.0, progress.CompletionPercentage)
			assert.False(t, progress.IsCompleted)
		}
	})

	t.Run("Scenario 4: Activity type filter excludes other and untyped events", func(t *testing.T) {
		goal := newTestGoal(models.GoalWorkoutsCount, 5)
		goal.ActivityTypeFilter = "running"
		events := []models.ActivityEvent{
			workoutEvent(testWeekStart, "running", nil),
			workoutEvent(testWeekStart.AddDate(0, 0, 1), "running", nil),
			workoutEvent(testWeekStart.AddDate(0, 0, 2), "cycling", nil),
			workoutEvent(testWeekStart.AddDate(0, 0, 3), "", nil), // untyped, excluded under a filter
		}

		progress := svc.ComputeProgress(goal, events, testNow)
		assert.Equal(t, 2.0, progress.CurrentValue)
	})

	t.Run("Scenario 5: Window bounds are inclusive by calendar day", func(t *testing.T) {
		goal := newTestGoal(models.GoalWorkoutsCount, 5)
		events := []models.ActivityEvent{
			workoutEvent(testWeekStart.AddDate(0, 0, -1), "running", nil),            // Sunday before, out
			workoutEvent(testWeekStart.Add(30*time.Minute), "running", nil),          // Monday 00:30, in
			workoutEvent(testWeekEnd.Add(23*time.Hour), "running", nil),              // Sunday 23:00, in
			workoutEvent(testWeekEnd.AddDate(0, 0, 1).Add(time.Hour), "running", nil), // Monday after, out
		}

		progress := svc.ComputeProgress(goal, events, testNow)
		assert.Equal(t, 2.0, progress.CurrentValue)
	})

	t.Run("Scenario 6: Metric sums treat a missing metric as zero", func(t *testing.T) {
		goal := newTestGoal(models.GoalTotalWeight, 500)
		events := []models.ActivityEvent{
			workoutEvent(testWeekStart, "strength", map[string]float64{models.MetricWeight: 120}),
			workoutEvent(testWeekStart.AddDate(0, 0, 1), "running", nil), // no weight metric
		}

		progress := svc.ComputeProgress(goal, events, testNow)
		assert.Equal(t, 120.0, progress.CurrentValue)
		assert.InDelta(t, 24.0, progress.CompletionPercentage, 0.0001)
	})

	t.Run("Scenario 7: streak_days counts the trailing run inside the window", func(t *testing.T) {
		goal := newTestGoal(models.GoalStreakDays, 7)
		events := []models.ActivityEvent{
			workoutEvent(testWeekStart.Add(8*time.Hour), "running", nil),               // Mon
			workoutEvent(testWeekStart.AddDate(0, 0, 2).Add(8*time.Hour), "run", nil),  // Wed
			workoutEvent(testWeekStart.AddDate(0, 0, 3).Add(8*time.Hour), "run", nil),  // Thu
		}

		// The trailing run is Wed-Thu (2 days); Monday is cut off by the
		// Tuesday gap and there is no requirement of activity "today".
		progress := svc.ComputeProgress(goal, events, testNow)
		assert.Equal(t, 2.0, progress.CurrentValue)
		assert.InDelta(t, 100.0*2.0/7.0, progress.CompletionPercentage, 0.0001)
		assert.False(t, progress.IsCompleted)
	})

	t.Run("Scenario 8: History gains today's snapshot", func(t *testing.T) {
		goal := newTestGoal(models.GoalWorkoutsCount, 5)
		events := []models.ActivityEvent{workoutEvent(testWeekStart, "running", nil)}

		progress := svc.ComputeProgress(goal, events, testNow)
		assert.Len(t, progress.ProgressHistory, 1)
		assert.Equal(t, "2024-07-11", progress.ProgressHistory[0].DateKey)
		assert.Equal(t, 1.0, progress.ProgressHistory[0].Value)
		assert.Equal(t, 20.0, progress.ProgressHistory[0].CompletionPercentage)
	})

	t.Run("Scenario 9: Same-day recompute overwrites instead of appending", func(t *testing.T) {
		goal := newTestGoal(models.GoalWorkoutsCount, 5)
		events := []models.ActivityEvent{workoutEvent(testWeekStart, "running", nil)}

		first := svc.ComputeProgress(goal, events, testNow)
		first.ApplyTo(goal)

		events = append(events, workoutEvent(testWeekStart.AddDate(0, 0, 1), "running", nil))
		second := svc.ComputeProgress(goal, events, testNow.Add(2*time.Hour))

		assert.Len(t, second.ProgressHistory, 1)
		assert.Equal(t, 2.0, second.ProgressHistory[0].Value)
		assert.Equal(t, 40.0, second.ProgressHistory[0].CompletionPercentage)
	})

	t.Run("Scenario 10: History never exceeds 30 entries and drops oldest first", func(t *testing.T) {
		goal := newTestGoal(models.GoalWorkoutsCount, 5)
		events := []models.ActivityEvent{workoutEvent(testWeekStart, "running", nil)}

		day := testNow
		for i := 0; i < 40; i++ {
			progress := svc.ComputeProgress(goal, events, day)
			progress.ApplyTo(goal)
			day = day.AddDate(0, 0, 1)
		}

		assert.Len(t, goal.ProgressHistory, models.ProgressHistoryLimit)
		// 40 daily snapshots, the first 10 dropped: the oldest surviving key
		// is testNow + 10 days.
		assert.Equal(t, "2024-07-21", goal.ProgressHistory[0].DateKey)
		assert.Equal(t, "2024-08-19", goal.ProgressHistory[len(goal.ProgressHistory)-1].DateKey)
		// Ordered oldest to newest.
		for i := 1; i < len(goal.ProgressHistory); i++ {
			assert.Less(t, goal.ProgressHistory[i-1].DateKey, goal.ProgressHistory[i].DateKey)
		}
	})

	t.Run("Scenario 11: The input goal is never mutated", func(t *testing.T) {
		goal := newTestGoal(models.GoalWorkoutsCount, 5)
		goal.ProgressHistory = models.ProgressHistory{
			{DateKey: "2024-07-10", Value: 1, CompletionPercentage: 20},
		}
		events := []models.ActivityEvent{
			workoutEvent(testWeekStart, "running", nil),
			workoutEvent(testWeekStart.AddDate(0, 0, 1), "running", nil),
		}

		_ = svc.ComputeProgress(goal, events, testNow)

		assert.Equal(t, 0.0, goal.CurrentValue)
		assert.Len(t, goal.ProgressHistory, 1)
		assert.Equal(t, 1.0, goal.ProgressHistory[0].Value)
	})

	t.Run("Scenario 12: Identical inputs yield identical output", func(t *testing.T) {
		goal := newTestGoal(models.GoalTotalCalories, 1000)
		events := []models.ActivityEvent{
			workoutEvent(testWeekStart, "", map[string]float64{models.MetricCalories: 450}),
		}

		first := svc.ComputeProgress(goal, events, testNow)
		second := svc.ComputeProgress(goal, events, testNow)
		assert.Equal(t, first, second)
	})
}

func TestGoalService_ComputeAllProgress(t *testing.T) {
	svc := NewGoalService(NewStreakService())

	t.Run("Scenario 1: Active goals computed independently, inactive skipped", func(t *testing.T) {
		active := newTestGoal(models.GoalWorkoutsCount, 2)
		inactive := newTestGoal(models.GoalWorkoutsCount, 2)
		inactive.IsActive = false

		eventsByGoal := map[uuid.UUID][]models.ActivityEvent{
			active.ID:   {workoutEvent(testWeekStart, "running", nil), workoutEvent(testWeekStart.AddDate(0, 0, 1), "running", nil)},
			inactive.ID: {workoutEvent(testWeekStart, "running", nil)},
		}

		results := svc.ComputeAllProgress([]*models.Goal{active, inactive}, eventsByGoal, testNow)
		assert.Len(t, results, 1)
		assert.Equal(t, 2.0, results[active.ID].CurrentValue)
		assert.True(t, results[active.ID].IsCompleted)
		_, found := results[inactive.ID]
		assert.False(t, found)
	})

	t.Run("Scenario 2: Goals with no events compute to zero", func(t *testing.T) {
		goal := newTestGoal(models.GoalTotalDuration, 120)
		results := svc.ComputeAllProgress([]*models.Goal{goal}, nil, testNow)
		assert.Equal(t, 0.0, results[goal.ID].CurrentValue)
		assert.Equal(t, 0.0, results[goal.ID].CompletionPercentage)
		assert.False(t, results[goal.ID].IsCompleted)
	})
}

func TestGoalService_WeeklyStats(t *testing.T) {
	svc := NewGoalService(NewStreakService())

	t.Run("Scenario 1: Goals group by ISO week with per-type averages", func(t *testing.T) {
		week1Done := newTestGoal(models.GoalWorkoutsCount, 5)
		week1Done.CompletionPercentage = 120
		week1Done.IsCompleted = true

		week1Open := newTestGoal(models.GoalTotalCalories, 1000)
		week1Open.CompletionPercentage = 40

		week2 := newTestGoal(models.GoalWorkoutsCount, 5)
		week2.WeekStart = testWeekStart.AddDate(0, 0, 7)
		week2.WeekEnd = testWeekEnd.AddDate(0, 0, 7)
		week2.CompletionPercentage = 60

		stats := svc.WeeklyStats([]*models.Goal{week1Done, week1Open, week2})
		assert.Len(t, stats, 2)

		first := stats[0]
		assert.Equal(t, "2024-W28", first.WeekID)
		assert.Equal(t, 2, first.TotalGoals)
		assert.Equal(t, 1, first.CompletedGoals)
		assert.InDelta(t, 0.5, first.CompletionRate, 0.0001)
		assert.InDelta(t, 80.0, first.AverageCompletionPercentage, 0.0001)
		assert.InDelta(t, 120.0, first.AverageByType[models.GoalWorkoutsCount], 0.0001)
		assert.InDelta(t, 40.0, first.AverageByType[models.GoalTotalCalories], 0.0001)

		second := stats[1]
		assert.Equal(t, "2024-W29", second.WeekID)
		assert.Equal(t, 1, second.TotalGoals)
		assert.Equal(t, 0, second.CompletedGoals)
	})

	t.Run("Scenario 2: No goals means no weeks, averages default to zero", func(t *testing.T) {
		assert.Empty(t, svc.WeeklyStats(nil))
	})
}
