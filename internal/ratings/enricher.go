package ratings

import (
	"context"
	"errors"
	"fmt"
	"log"

	"golang.org/x/sync/errgroup"

	"github.com/mrlokans/readreviews/internal/entities"
)

// DefaultConcurrency bounds in-flight lookups when enriching a page of books.
const DefaultConcurrency = 4

// RatingsStore persists refreshed ratings.
type RatingsStore interface {
	UpdateRatings(isbn string, reviewsCount int, rating float64) error
	ListISBNs() ([]string, error)
}

// Enricher overlays live ratings on catalog books and refreshes the stored
// copies.
type Enricher struct {
	client      Client
	store       RatingsStore
	concurrency int
}

// NewEnricher creates an Enricher. store may be nil when only live
// enrichment is needed.
func NewEnricher(client Client, store RatingsStore, concurrency int) *Enricher {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &Enricher{
		client:      client,
		store:       store,
		concurrency: concurrency,
	}
}

// EnrichBooks replaces the rating and review count of each book with the
// live values. Lookups run concurrently; a failed lookup keeps the stored
// values for that book. The returned slice is a copy.
func (e *Enricher) EnrichBooks(ctx context.Context, books []entities.Book) []entities.Book {
	enriched := make([]entities.Book, len(books))
	copy(enriched, books)
	if e == nil || e.client == nil {
		return enriched
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)

	for i := range enriched {
		book := &enriched[i]
		g.Go(func() error {
			r, err := e.client.FetchRatings(gctx, book.ISBN)
			if err != nil {
				log.Printf("[RATINGS] Keeping stored ratings for %s: %v", book.ISBN, err)
				return nil
			}
			book.ReviewsCount = r.ReviewsCount
			book.Rating = r.AverageRating
			return nil
		})
	}
	// Workers never return errors
	_ = g.Wait()

	return enriched
}

// EnrichBook is the single-book form of EnrichBooks.
func (e *Enricher) EnrichBook(ctx context.Context, book entities.Book) entities.Book {
	return e.EnrichBooks(ctx, []entities.Book{book})[0]
}

// ReviewsWidget returns the embeddable reviews markup, or "" when it is
// unavailable.
func (e *Enricher) ReviewsWidget(ctx context.Context, isbn string) string {
	if e == nil || e.client == nil {
		return ""
	}
	widget, err := e.client.FetchReviewsWidget(ctx, isbn)
	if err != nil {
		log.Printf("[RATINGS] No reviews widget for %s: %v", isbn, err)
		return ""
	}
	return widget
}

// RefreshBook fetches live ratings for isbn and stores them.
func (e *Enricher) RefreshBook(ctx context.Context, isbn string) (*Ratings, error) {
	if e.store == nil {
		return nil, errors.New("ratings store is not configured")
	}

	r, err := e.client.FetchRatings(ctx, isbn)
	if err != nil {
		return nil, err
	}
	if err := e.store.UpdateRatings(isbn, r.ReviewsCount, r.AverageRating); err != nil {
		return nil, fmt.Errorf("store ratings: %w", err)
	}
	return r, nil
}

// RefreshResult summarises a bulk refresh.
type RefreshResult struct {
	TotalBooks int      `json:"total_books"`
	Refreshed  int      `json:"refreshed"`
	Failed     int      `json:"failed"`
	Errors     []string `json:"errors,omitempty"`
}

// RefreshAll refreshes the stored ratings of every book in the catalog,
// one at a time. Individual failures are collected, not returned.
func (e *Enricher) RefreshAll(ctx context.Context) (*RefreshResult, error) {
	if e.store == nil {
		return nil, errors.New("ratings store is not configured")
	}

	isbns, err := e.store.ListISBNs()
	if err != nil {
		return nil, fmt.Errorf("list isbns: %w", err)
	}

	result := &RefreshResult{TotalBooks: len(isbns)}
	for _, isbn := range isbns {
		select {
		case <-ctx.Done():
			result.Errors = append(result.Errors, "operation cancelled")
			return result, ctx.Err()
		default:
		}

		if _, err := e.RefreshBook(ctx, isbn); err != nil {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", isbn, err))
			continue
		}
		result.Refreshed++
	}

	return result, nil
}
