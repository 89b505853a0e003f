package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"project/models"
	"project/repository"
	"project/utils"

	"github.com/google/uuid"
)

// ProgressService is the orchestrating caller around the two pure engines:
// it fetches activity events and goal definitions from the repositories,
// invokes the computations, and persists the returned state. All timing flows
// through an explicit "now" so callers (and tests) control the clock.
type ProgressService interface {
	// GetUserStreaks computes the workout, meal and combined daily streaks
	// for a user in the requested timezone. An unresolvable timezone is
	// computed in UTC, never rejected.
	GetUserStreaks(userID string, timeZone string, now time.Time) (*models.StreakReport, error)

	// RefreshUserGoals recomputes progress for every active goal of the user
	// and persists the derived state. Returns the refreshed goals.
	RefreshUserGoals(userID string, now time.Time) ([]*models.Goal, error)

	// GetUserGoalStats refreshes the user's active goals and aggregates all
	// of their goals (active and inactive) into the weekly stats view.
	GetUserGoalStats(userID string, now time.Time) (*models.GoalStatsResponse, error)

	// RefreshAllGoals runs RefreshUserGoals for every user that owns an
	// active goal. Used by the nightly scheduler so history snapshots accrue
	// even on days without reads.
	RefreshAllGoals(now time.Time) error
}

type progressService struct {
	activityRepo  repository.ActivityRepository
	goalRepo      repository.GoalRepository
	streakService StreakService
	goalService   GoalService
}

// NewProgressService creates a new instance of ProgressService.
func NewProgressService(
	activityRepo repository.ActivityRepository,
	goalRepo repository.GoalRepository,
	streakService StreakService,
	goalService GoalService,
) ProgressService {
	return &progressService{
		activityRepo:  activityRepo,
		goalRepo:      goalRepo,
		streakService: streakService,
		goalService:   goalService,
	}
}

func (s *progressService) GetUserStreaks(userID string, timeZone string, now time.Time) (*models.StreakReport, error) {
	if userID == "" {
		return nil, errors.New("userID cannot be empty")
	}

	workoutEvents, err := s.activityRepo.GetWorkoutEvents(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve workout events: %w", err)
	}
	mealEvents, err := s.activityRepo.GetMealEvents(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve meal events: %w", err)
	}
	combined := append(append([]models.ActivityEvent{}, workoutEvents...), mealEvents...)

	report := &models.StreakReport{
		UserID:      userID,
		TimeZone:    utils.ResolveLocation(timeZone).String(),
		Workouts:    s.streakService.ComputeActivityStreak(workoutEvents, timeZone, now),
		Meals:       s.streakService.ComputeActivityStreak(mealEvents, timeZone, now),
		Combined:    s.streakService.ComputeActivityStreak(combined, timeZone, now),
		GeneratedAt: now,
	}
	return report, nil
}

func (s *progressService) RefreshUserGoals(userID string, now time.Time) ([]*models.Goal, error) {
	if userID == "" {
		return nil, errors.New("userID cannot be empty")
	}

	goals, err := s.goalRepo.GetActiveGoalsByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve goals: %w", err)
	}
	if len(goals) == 0 {
		return goals, nil
	}

	eventsByGoal := make(map[uuid.UUID][]models.ActivityEvent, len(goals))
	for _, goal := range goals {
		events, err := s.activityRepo.GetEventsInRange(
			userID,
			utils.StartOfDay(goal.WeekStart),
			utils.EndOfDay(goal.WeekEnd),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to retrieve events for goal %s: %w", goal.ID, err)
		}
		eventsByGoal[goal.ID] = events
	}

	results := s.goalService.ComputeAllProgress(goals, eventsByGoal, now)
	for _, goal := range goals {
		progress, ok := results[goal.ID]
		if !ok {
			continue
		}
		progress.ApplyTo(goal)
		if err := s.goalRepo.SaveProgress(goal); err != nil {
			return nil, fmt.Errorf("failed to persist progress for goal %s: %w", goal.ID, err)
		}
	}
	log.Printf("INFO: [ProgressService] Refreshed %d active goal(s) for userID %s.", len(results), userID)
	return goals, nil
}

func (s *progressService) GetUserGoalStats(userID string, now time.Time) (*models.GoalStatsResponse, error) {
	if _, err := s.RefreshUserGoals(userID, now); err != nil {
		return nil, err
	}

	// Stats aggregate over all of the user's goals, including past weeks'
	// inactive ones, so the view shows history rather than just the current week.
	goals, err := s.goalRepo.GetGoalsByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve goals: %w", err)
	}

	return &models.GoalStatsResponse{
		UserID:      userID,
		Weeks:       s.goalService.WeeklyStats(goals),
		GeneratedAt: now,
	}, nil
}

func (s *progressService) RefreshAllGoals(now time.Time) error {
	userIDs, err := s.goalRepo.ListActiveGoalUserIDs()
	if err != nil {
		return fmt.Errorf("failed to list users for batch refresh: %w", err)
	}

	var failed int
	for _, userID := range userIDs {
		if _, err := s.RefreshUserGoals(userID, now); err != nil {
			// One user's failure must not stop the batch.
			log.Printf("ERROR: [ProgressService] Batch refresh failed for userID %s: %v", userID, err)
			failed++
		}
	}
	log.Printf("INFO: [ProgressService] Batch refresh finished: %d user(s), %d failure(s).", len(userIDs), failed)
	if failed > 0 {
		return fmt.Errorf("batch refresh failed for %d of %d users", failed, len(userIDs))
	}
	return nil
}
