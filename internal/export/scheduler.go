package export

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// Scheduler archives a backup on a fixed interval while a team exists
type Scheduler struct {
	sched gocron.Scheduler
}

// StartScheduler registers the backup job and starts it
func StartScheduler(a *Archiver, interval time.Duration) (*Scheduler, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("backup interval must be positive, got %v", interval)
	}
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}

	_, err = sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			if !a.src.Created() {
				return
			}
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()
			if _, err := a.Archive(ctx); err != nil {
				log.Printf("[Scheduler] Backup failed: %v", err)
			}
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = sched.Shutdown()
		return nil, fmt.Errorf("register backup job: %w", err)
	}

	sched.Start()
	log.Printf("⏰ Backup scheduled every %v", interval)
	return &Scheduler{sched: sched}, nil
}

// Shutdown stops the scheduler and waits for a running backup
func (s *Scheduler) Shutdown() error {
	return s.sched.Shutdown()
}
