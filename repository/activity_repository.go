package repository

import (
	"fmt"
	"log"
	"time"

	"project/models"

	"gorm.io/gorm"
)

// ActivityRepository supplies ActivityEvent projections for the computation
// services. It is the only place that knows activity data lives in two
// tables; callers receive one flat event slice.
type ActivityRepository interface {
	GetWorkoutEvents(userID string) ([]models.ActivityEvent, error)
	GetMealEvents(userID string) ([]models.ActivityEvent, error)
	// GetEventsInRange returns merged events whose timestamp falls within
	// [start, end] inclusive.
	GetEventsInRange(userID string, start, end time.Time) ([]models.ActivityEvent, error)
}

type activityRepository struct {
	db *gorm.DB
}

// NewActivityRepository creates a new instance of ActivityRepository.
func NewActivityRepository(db *gorm.DB) ActivityRepository {
	return &activityRepository{db: db}
}

func (r *activityRepository) GetWorkoutEvents(userID string) ([]models.ActivityEvent, error) {
	var workouts []models.Workout
	err := r.db.Where("user_id = ?", userID).Order("performed_at asc").Find(&workouts).Error
	if err != nil {
		log.Printf("ERROR: [ActivityRepository] Failed to retrieve workouts for userID %s: %v", userID, err)
		return nil, fmt.Errorf("failed to retrieve workouts for userID %s: %w", userID, err)
	}
	events := make([]models.ActivityEvent, 0, len(workouts))
	for i := range workouts {
		events = append(events, workouts[i].ToActivityEvent())
	}
	return events, nil
}

func (r *activityRepository) GetMealEvents(userID string) ([]models.ActivityEvent, error) {
	var meals []models.Meal
	err := r.db.Where("user_id = ?", userID).Order("consumed_at asc").Find(&meals).Error
	if err != nil {
		log.Printf("ERROR: [ActivityRepository] Failed to retrieve meals for userID %s: %v", userID, err)
		return nil, fmt.Errorf("failed to retrieve meals for userID %s: %w", userID, err)
	}
	events := make([]models.ActivityEvent, 0, len(meals))
	for i := range meals {
		events = append(events, meals[i].ToActivityEvent())
	}
	return events, nil
}

func (r *activityRepository) GetEventsInRange(userID string, start, end time.Time) ([]models.ActivityEvent, error) {
	var workouts []models.Workout
	err := r.db.Where("user_id = ? AND performed_at >= ? AND performed_at <= ?", userID, start, end).
		Order("performed_at asc").Find(&workouts).Error
	if err != nil {
		log.Printf("ERROR: [ActivityRepository] Failed to retrieve workouts in range for userID %s: %v", userID, err)
		return nil, fmt.Errorf("failed to retrieve workouts in range for userID %s: %w", userID, err)
	}

	var meals []models.Meal
	err = r.db.Where("user_id = ? AND consumed_at >= ? AND consumed_at <= ?", userID, start, end).
		Order("consumed_at asc").Find(&meals).Error
	if err != nil {
		log.Printf("ERROR: [ActivityRepository] Failed to retrieve meals in range for userID %s: %v", userID, err)
		return nil, fmt.Errorf("failed to retrieve meals in range for userID %s: %w", userID, err)
	}

	events := make([]models.ActivityEvent, 0, len(workouts)+len(meals))
	for i := range workouts {
		events = append(events, workouts[i].ToActivityEvent())
	}
	for i := range meals {
		events = append(events, meals[i].ToActivityEvent())
	}
	return events, nil
}
