package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/mikestefanello/backlite"
	"github.com/robfig/cron/v3"

	"github.com/mrlokans/readreviews/internal/tasks"
)

// TaskEnqueuer queues background tasks; *tasks.Client implements it.
type TaskEnqueuer interface {
	Enqueue(task backlite.Task) (string, error)
}

// RatingsSyncScheduler periodically queues a refresh of every book's stored
// ratings. The work itself runs on the task queue.
type RatingsSyncScheduler struct {
	schedule string
	enqueuer TaskEnqueuer

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	lastRunAt  *time.Time
	lastTaskID string
	cancelFunc context.CancelFunc
}

// NewRatingsSyncScheduler creates a new scheduler instance
func NewRatingsSyncScheduler(schedule string, enqueuer TaskEnqueuer) *RatingsSyncScheduler {
	return &RatingsSyncScheduler{
		schedule: schedule,
		enqueuer: enqueuer,
		cron:     cron.New(cron.WithParser(parser)),
	}
}

// Start registers the job and starts the cron loop. It stops when ctx is
// cancelled.
func (s *RatingsSyncScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if s.enqueuer == nil {
		return fmt.Errorf("ratings sync scheduler: task queue not configured")
	}

	if err := ValidateCronSchedule(s.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.schedule, err)
	}

	entryID, err := s.cron.AddFunc(s.schedule, func() {
		if err := s.RunNow(); err != nil {
			log.Printf("Ratings sync: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule ratings sync job: %w", err)
	}
	s.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	nextRun, _ := GetNextRunTime(s.schedule, time.Now())
	log.Printf("Ratings sync scheduler: started with schedule '%s' (%s). Next run: %v",
		s.schedule, GetCronDescription(s.schedule), nextRun)

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop gracefully stops the scheduler, waiting for a job in flight.
func (s *RatingsSyncScheduler) Stop() {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = false
	cancel := s.cancelFunc
	s.cancelFunc = nil
	s.mu.Unlock()

	// A running job takes s.mu in RunNow, so wait without holding it
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.cron.Remove(s.entryID)

	if cancel != nil {
		cancel()
	}

	log.Printf("Ratings sync scheduler: stopped")
}

// RunNow queues a bulk refresh immediately.
func (s *RatingsSyncScheduler) RunNow() error {
	if s.enqueuer == nil {
		return fmt.Errorf("task queue not configured")
	}

	id, err := s.enqueuer.Enqueue(tasks.RefreshAllRatingsTask{})
	if err != nil {
		return fmt.Errorf("enqueue ratings refresh: %w", err)
	}

	now := time.Now()
	s.mu.Lock()
	s.lastRunAt = &now
	s.lastTaskID = id
	s.mu.Unlock()

	log.Printf("Ratings sync: queued bulk refresh (task %s)", id)
	return nil
}

// IsRunning returns whether the scheduler is active
func (s *RatingsSyncScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// LastRun returns when the last refresh was queued and its task ID.
func (s *RatingsSyncScheduler) LastRun() (*time.Time, string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastRunAt, s.lastTaskID
}

// GetNextRunTime returns when the next sync will occur
func (s *RatingsSyncScheduler) GetNextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}

	for _, entry := range s.cron.Entries() {
		if entry.ID == s.entryID {
			t := entry.Next
			return &t
		}
	}
	return nil
}
