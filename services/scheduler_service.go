package services

import (
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// SchedulerService runs the nightly goal-progress batch on a cron schedule,
// so every active goal accrues its daily history snapshot even when nobody
// reads it that day.
type SchedulerService interface {
	Start() error
	Stop()
}

type schedulerService struct {
	cronSpec        string
	progressService ProgressService
	cron            *cron.Cron
}

// NewSchedulerService creates a new instance of SchedulerService.
// cronSpec uses standard 5-field cron syntax, e.g. "0 3 * * *".
func NewSchedulerService(cronSpec string, progressService ProgressService) SchedulerService {
	return &schedulerService{
		cronSpec:        cronSpec,
		progressService: progressService,
		cron:            cron.New(),
	}
}

func (s *schedulerService) Start() error {
	_, err := s.cron.AddFunc(s.cronSpec, func() {
		started := time.Now()
		log.Printf("INFO: [SchedulerService] Nightly goal refresh starting.")
		if err := s.progressService.RefreshAllGoals(started); err != nil {
			log.Printf("ERROR: [SchedulerService] Nightly goal refresh failed: %v", err)
			return
		}
		log.Printf("INFO: [SchedulerService] Nightly goal refresh completed in %s.", time.Since(started))
	})
	if err != nil {
		return fmt.Errorf("invalid cron spec '%s': %w", s.cronSpec, err)
	}
	s.cron.Start()
	log.Printf("INFO: [SchedulerService] Scheduler started with spec '%s'.", s.cronSpec)
	return nil
}

func (s *schedulerService) Stop() {
	s.cron.Stop()
	log.Printf("INFO: [SchedulerService] Scheduler stopped.")
}
