package tasks

import (
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// Cron expressions for the three jobs.
const (
	RecruitSchedule  = "0 17 * * MON,WED,FRI"
	RepoSchedule     = "5,25,45 * * * *"
	WorkshopSchedule = "*/10 * * * *"
)

// Runner owns the process scheduler. Every registered job runs under a
// skip-if-still-running chain, so a slow cycle is skipped rather than
// overlapped — the checkpoint read-modify-write sequences rely on that.
type Runner struct {
	cron *cron.Cron
}

func NewRunner(location *time.Location) *Runner {
	return &Runner{
		cron: cron.New(
			cron.WithLocation(location),
			cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)),
		),
	}
}

// Register schedules a job. Job failures are logged and the next firing
// proceeds independently.
func (r *Runner) Register(schedule, name string, job func() error) error {
	_, err := r.cron.AddFunc(schedule, func() {
		log.Printf("🔄 Running task '%s'", name)
		if err := job(); err != nil {
			log.Printf("❌ Task '%s' failed: %v", name, err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule task '%s': %w", name, err)
	}
	return nil
}

func (r *Runner) Start() {
	r.cron.Start()
	log.Printf("✅ Task scheduler started")
}

// Stop halts scheduling and waits for any running job to finish.
func (r *Runner) Stop() {
	<-r.cron.Stop().Done()
	log.Printf("🛑 Task scheduler stopped")
}
