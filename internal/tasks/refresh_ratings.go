package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/readreviews/internal/ratings"
)

// Queue names, also accepted by the task API.
const (
	QueueRefreshBookRatings = "refresh_book_ratings"
	QueueRefreshAllRatings  = "refresh_all_ratings"
)

// RatingsRefresher fetches live ratings for one book and stores them.
type RatingsRefresher interface {
	RefreshBook(ctx context.Context, isbn string) (*ratings.Ratings, error)
}

// ISBNLister lists every catalog ISBN.
type ISBNLister interface {
	ListISBNs() ([]string, error)
}

// Enqueuer adds tasks to the queue; *Client implements it.
type Enqueuer interface {
	Add(tasks ...backlite.Task) *backlite.TaskAddOp
}

// RefreshBookRatingsTask refreshes the stored ratings of a single book.
type RefreshBookRatingsTask struct {
	ISBN string `json:"isbn"`
}

// Config returns the queue configuration for single-book refresh tasks.
func (t RefreshBookRatingsTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        QueueRefreshBookRatings,
		MaxAttempts: 3,
		Backoff:     30 * time.Second,
		Timeout:     time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// RefreshBookRatingsProcessor creates a processor function for RefreshBookRatingsTask.
func RefreshBookRatingsProcessor(refresher RatingsRefresher) backlite.QueueProcessor[RefreshBookRatingsTask] {
	return func(ctx context.Context, task RefreshBookRatingsTask) error {
		if refresher == nil {
			return fmt.Errorf("ratings refresher not configured")
		}

		r, err := refresher.RefreshBook(ctx, task.ISBN)
		if err != nil {
			return fmt.Errorf("refresh ratings for %s: %w", task.ISBN, err)
		}

		log.Printf("[TASK] Refreshed ratings for %s: %.2f from %d reviews",
			task.ISBN, r.AverageRating, r.ReviewsCount)
		return nil
	}
}

// NewRefreshBookRatingsQueue creates a backlite queue for single-book refresh tasks.
func NewRefreshBookRatingsQueue(refresher RatingsRefresher) backlite.Queue {
	return backlite.NewQueue(RefreshBookRatingsProcessor(refresher))
}

// RefreshAllRatingsTask fans out one RefreshBookRatingsTask per catalog book.
type RefreshAllRatingsTask struct{}

// Config returns the queue configuration for the bulk refresh task.
func (t RefreshAllRatingsTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        QueueRefreshAllRatings,
		MaxAttempts: 1,
		Backoff:     time.Minute,
		Timeout:     10 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// refreshBatchSize caps how many tasks are inserted per Save.
const refreshBatchSize = 100

// RefreshAllRatingsProcessor creates a processor function for RefreshAllRatingsTask.
func RefreshAllRatingsProcessor(books ISBNLister, enqueuer Enqueuer) backlite.QueueProcessor[RefreshAllRatingsTask] {
	return func(ctx context.Context, task RefreshAllRatingsTask) error {
		if books == nil || enqueuer == nil {
			return fmt.Errorf("bulk ratings refresh not configured")
		}

		isbns, err := books.ListISBNs()
		if err != nil {
			return fmt.Errorf("list isbns: %w", err)
		}

		queued := 0
		for start := 0; start < len(isbns); start += refreshBatchSize {
			if err := ctx.Err(); err != nil {
				return err
			}

			end := min(start+refreshBatchSize, len(isbns))
			batch := make([]backlite.Task, 0, end-start)
			for _, isbn := range isbns[start:end] {
				batch = append(batch, RefreshBookRatingsTask{ISBN: isbn})
			}
			if _, err := enqueuer.Add(batch...).Save(); err != nil {
				return fmt.Errorf("enqueue ratings refresh: %w", err)
			}
			queued += len(batch)
		}

		log.Printf("[TASK] Queued ratings refresh for %d books", queued)
		return nil
	}
}

// NewRefreshAllRatingsQueue creates a backlite queue for the bulk refresh task.
func NewRefreshAllRatingsQueue(books ISBNLister, enqueuer Enqueuer) backlite.Queue {
	return backlite.NewQueue(RefreshAllRatingsProcessor(books, enqueuer))
}
