// Package interfaces documents the core abstractions used throughout the application.
//
// # Interface Categories
//
// ## Data Access Interfaces
//
//   - BookStore: Catalog reads for pages and the JSON API (internal/http/stores.go)
//   - FavoritesStore: Per-user favorites (internal/http/stores.go)
//   - UserLookup: Profile lookups by username (internal/http/stores.go)
//   - UserRepository: Account storage for registration and login (internal/auth/service.go)
//   - RatingsStore: Persisting refreshed ratings (internal/ratings/enricher.go)
//
// ## External Service Interfaces
//
//   - ratings.Client: Live ratings and the reviews widget (internal/ratings/goodreads.go)
//
// ## Background Work Interfaces
//
//   - RatingsRefresher, ISBNLister, Enqueuer: Refresh queues (internal/tasks/refresh_ratings.go)
//   - TaskEnqueuer: Task API and the sync scheduler (internal/http/tasks.go, internal/scheduler)
//
// # Adding a New Ratings Provider
//
//  1. Implement ratings.Client in internal/ratings/
//
//     type OpenLibraryClient struct {
//         httpClient *http.Client
//     }
//
//     func (c *OpenLibraryClient) FetchRatings(ctx context.Context, isbn string) (*Ratings, error)
//     func (c *OpenLibraryClient) FetchReviewsWidget(ctx context.Context, isbn string) (string, error)
//
//     var _ Client = (*OpenLibraryClient)(nil)
//
//  2. Pass it to ratings.NewEnricher in entrypoint.go
//
// # Adding a New Database Domain
//
//  1. Create sub-package: internal/database/reviews/
//
//  2. Define repository:
//
//     type Repository struct { db *gorm.DB }
//
//     func NewRepository(db *gorm.DB) *Repository
//
//  3. Implement interface methods
//
//  4. Add compile-time check to checks.go:
//
//     var _ http.ReviewStore = (*reviews.Repository)(nil)
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// See checks.go for the full list.
package interfaces
