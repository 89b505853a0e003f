package repository

import (
	"errors"
	"fmt"
	"log"

	"project/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GoalRepository persists goal definitions and the progress state the engine
// derives for them.
type GoalRepository interface {
	CreateGoal(goal *models.Goal) error
	GetGoalByID(goalID uuid.UUID) (*models.Goal, error)
	GetGoalsByUserID(userID string) ([]*models.Goal, error)
	GetActiveGoalsByUserID(userID string) ([]*models.Goal, error)
	// SaveProgress persists the derived fields of a recomputed goal.
	SaveProgress(goal *models.Goal) error
	// ListActiveGoalUserIDs returns the distinct user IDs that own at least
	// one active goal, for batch recomputation.
	ListActiveGoalUserIDs() ([]string, error)
}

type goalRepository struct {
	db *gorm.DB
}

// NewGoalRepository creates a new instance of GoalRepository.
func NewGoalRepository(db *gorm.DB) GoalRepository {
	return &goalRepository{db: db}
}

func (r *goalRepository) CreateGoal(goal *models.Goal) error {
	if goal == nil {
		return errors.New("goal cannot be nil")
	}
	if goal.ID == uuid.Nil {
		goal.ID = uuid.New()
	}
	if err := r.db.Create(goal).Error; err != nil {
		log.Printf("ERROR: [GoalRepository] Failed to create goal for userID %s: %v", goal.UserID, err)
		return fmt.Errorf("failed to create goal for userID %s: %w", goal.UserID, err)
	}
	log.Printf("INFO: [GoalRepository] Created goal %s (%s) for userID %s.", goal.ID, goal.GoalType, goal.UserID)
	return nil
}

func (r *goalRepository) GetGoalByID(goalID uuid.UUID) (*models.Goal, error) {
	var goal models.Goal
	err := r.db.First(&goal, "id = ?", goalID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil // Not found
		}
		log.Printf("ERROR: [GoalRepository] Failed to retrieve goal %s: %v", goalID, err)
		return nil, fmt.Errorf("failed to retrieve goal %s: %w", goalID, err)
	}
	return &goal, nil
}

func (r *goalRepository) GetGoalsByUserID(userID string) ([]*models.Goal, error) {
	var goals []*models.Goal
	err := r.db.Where("user_id = ?", userID).Order("week_start desc, created_at desc").Find(&goals).Error
	if err != nil {
		log.Printf("ERROR: [GoalRepository] Failed to retrieve goals for userID %s: %v", userID, err)
		return nil, fmt.Errorf("failed to retrieve goals for userID %s: %w", userID, err)
	}
	return goals, nil
}

func (r *goalRepository) GetActiveGoalsByUserID(userID string) ([]*models.Goal, error) {
	var goals []*models.Goal
	err := r.db.Where("user_id = ? AND is_active = ?", userID, true).
		Order("week_start desc, created_at desc").Find(&goals).Error
	if err != nil {
		log.Printf("ERROR: [GoalRepository] Failed to retrieve active goals for userID %s: %v", userID, err)
		return nil, fmt.Errorf("failed to retrieve active goals for userID %s: %w", userID, err)
	}
	return goals, nil
}

func (r *goalRepository) SaveProgress(goal *models.Goal) error {
	if goal == nil {
		return errors.New("goal cannot be nil")
	}
	if goal.ID == uuid.Nil {
		return errors.New("goal ID must be set to save progress")
	}
	err := r.db.Model(goal).Select(
		"current_value", "completion_percentage", "is_completed", "progress_history", "updated_at",
	).Updates(goal).Error
	if err != nil {
		log.Printf("ERROR: [GoalRepository] Failed to save progress for goal %s: %v", goal.ID, err)
		return fmt.Errorf("failed to save progress for goal %s: %w", goal.ID, err)
	}
	return nil
}

func (r *goalRepository) ListActiveGoalUserIDs() ([]string, error) {
	var userIDs []string
	err := r.db.Model(&models.Goal{}).Where("is_active = ?", true).
		Distinct().Pluck("user_id", &userIDs).Error
	if err != nil {
		log.Printf("ERROR: [GoalRepository] Failed to list users with active goals: %v", err)
		return nil, fmt.Errorf("failed to list users with active goals: %w", err)
	}
	return userIDs, nil
}
