package api

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"project/config"
	"project/models"
	"project/repository"
	"project/services"
	"project/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// APIHandler holds all dependencies for API handlers.
type APIHandler struct {
	goalRepo        repository.GoalRepository
	progressService services.ProgressService
}

// NewAPIHandler creates a new APIHandler with necessary dependencies.
func NewAPIHandler(goalRepo repository.GoalRepository, progressService services.ProgressService) *APIHandler {
	return &APIHandler{
		goalRepo:        goalRepo,
		progressService: progressService,
	}
}

// GetStreakHandler returns the workout, meal and combined daily streaks for a
// user. The timezone comes from the "tz" query parameter; a missing or
// unresolvable value degrades to the configured default and ultimately UTC,
// never to an error.
func (h *APIHandler) GetStreakHandler(c *gin.Context) {
	userID := c.Param("userID")
	if userID == "" {
		utils.SendJSONError(c, http.StatusBadRequest, "userID is required.", nil)
		return
	}

	timeZone := c.Query("tz")
	if timeZone == "" {
		timeZone = config.AppConfig.DefaultTimezone
	}

	report, err := h.progressService.GetUserStreaks(userID, timeZone, time.Now())
	if err != nil {
		utils.SendJSONError(c, http.StatusInternalServerError, "Could not compute streaks.", err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// GetGoalHandler returns a single goal definition by ID, with the progress
// state from its last recomputation.
func (h *APIHandler) GetGoalHandler(c *gin.Context) {
	goalID, err := uuid.Parse(c.Param("goalID"))
	if err != nil {
		utils.SendJSONError(c, http.StatusBadRequest, "goalID must be a valid UUID.", err)
		return
	}

	goal, err := h.goalRepo.GetGoalByID(goalID)
	if err != nil {
		utils.SendJSONError(c, http.StatusInternalServerError, "Could not retrieve goal.", err)
		return
	}
	if goal == nil {
		utils.SendJSONError(c, http.StatusNotFound, "Goal not found.", nil)
		return
	}
	c.JSON(http.StatusOK, goal)
}

// GetGoalProgressHandler recomputes and returns the user's active goals with
// fresh progress state. Progress is derived on every read; the stored fields
// are only a cache of the last computation.
func (h *APIHandler) GetGoalProgressHandler(c *gin.Context) {
	userID := c.Param("userID")
	if userID == "" {
		utils.SendJSONError(c, http.StatusBadRequest, "userID is required.", nil)
		return
	}

	goals, err := h.progressService.RefreshUserGoals(userID, time.Now())
	if err != nil {
		utils.SendJSONError(c, http.StatusInternalServerError, "Could not compute goal progress.", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"userId": userID, "goals": goals})
}

// GetGoalStatsHandler returns the weekly stats view over the user's goals.
func (h *APIHandler) GetGoalStatsHandler(c *gin.Context) {
	userID := c.Param("userID")
	if userID == "" {
		utils.SendJSONError(c, http.StatusBadRequest, "userID is required.", nil)
		return
	}

	stats, err := h.progressService.GetUserGoalStats(userID, time.Now())
	if err != nil {
		utils.SendJSONError(c, http.StatusInternalServerError, "Could not compute goal stats.", err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// CreateGoalRequest is the payload for creating a weekly goal. Week bounds
// are calendar dates (YYYY-MM-DD).
type CreateGoalRequest struct {
	UserID             string  `json:"userId" binding:"required"`
	GoalType           string  `json:"goalType" binding:"required"`
	TargetValue        float64 `json:"targetValue" binding:"required"`
	WeekStart          string  `json:"weekStart" binding:"required"`
	WeekEnd            string  `json:"weekEnd" binding:"required"`
	ActivityTypeFilter string  `json:"activityTypeFilter"`
}

// CreateGoalHandler creates a goal definition. The weekStart < weekEnd
// precondition is enforced here: the progress engine assumes well-formed
// definitions and deliberately does not re-validate them.
func (h *APIHandler) CreateGoalHandler(c *gin.Context) {
	var req CreateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendJSONError(c, http.StatusBadRequest, "Invalid request format.", err)
		return
	}

	goalType := models.GoalType(req.GoalType)
	if !models.ValidGoalType(goalType) {
		utils.SendJSONError(c, http.StatusBadRequest, fmt.Sprintf("Unknown goal type '%s'.", req.GoalType), nil)
		return
	}
	if req.TargetValue <= 0 {
		utils.SendJSONError(c, http.StatusBadRequest, "targetValue must be positive.", nil)
		return
	}

	weekStart, err := time.Parse(utils.DateKeyFormat, req.WeekStart)
	if err != nil {
		utils.SendJSONError(c, http.StatusBadRequest, "weekStart must be a YYYY-MM-DD date.", err)
		return
	}
	weekEnd, err := time.Parse(utils.DateKeyFormat, req.WeekEnd)
	if err != nil {
		utils.SendJSONError(c, http.StatusBadRequest, "weekEnd must be a YYYY-MM-DD date.", err)
		return
	}
	if !weekStart.Before(weekEnd) {
		utils.SendJSONError(c, http.StatusBadRequest, "weekStart must be before weekEnd.", nil)
		return
	}

	goal := &models.Goal{
		ID:                 uuid.New(),
		UserID:             req.UserID,
		GoalType:           goalType,
		TargetValue:        req.TargetValue,
		WeekStart:          weekStart,
		WeekEnd:            weekEnd,
		ActivityTypeFilter: req.ActivityTypeFilter,
		IsActive:           true,
	}
	if err := h.goalRepo.CreateGoal(goal); err != nil {
		utils.SendJSONError(c, http.StatusInternalServerError, "Could not create goal.", err)
		return
	}

	log.Printf("INFO: [API] Created goal %s for userID %s.", goal.ID, goal.UserID)
	c.JSON(http.StatusCreated, goal)
}
