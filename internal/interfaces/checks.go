package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/readreviews/internal/auth"
	"github.com/mrlokans/readreviews/internal/database/books"
	"github.com/mrlokans/readreviews/internal/database/favorites"
	"github.com/mrlokans/readreviews/internal/database/users"
	"github.com/mrlokans/readreviews/internal/http"
	"github.com/mrlokans/readreviews/internal/ratings"
	"github.com/mrlokans/readreviews/internal/scheduler"
	"github.com/mrlokans/readreviews/internal/tasks"
)

// =============================================================================
// Data Access Layer
// =============================================================================

// BookStore implementations
var _ http.BookStore = (*books.Repository)(nil)

// FavoritesStore implementations
var _ http.FavoritesStore = (*favorites.Repository)(nil)

// UserLookup / UserRepository implementations
var _ http.UserLookup = (*users.Repository)(nil)
var _ auth.UserRepository = (*users.Repository)(nil)

// RatingsStore / ISBNLister implementations
var _ ratings.RatingsStore = (*books.Repository)(nil)
var _ tasks.ISBNLister = (*books.Repository)(nil)

// =============================================================================
// External Services
// =============================================================================

// Ratings client implementations
var _ ratings.Client = (*ratings.GoodreadsClient)(nil)

// =============================================================================
// Background Work
// =============================================================================

var _ tasks.RatingsRefresher = (*ratings.Enricher)(nil)
var _ tasks.Enqueuer = (*tasks.Client)(nil)
var _ http.TaskEnqueuer = (*tasks.Client)(nil)
var _ scheduler.TaskEnqueuer = (*tasks.Client)(nil)
var _ http.SyncScheduler = (*scheduler.RatingsSyncScheduler)(nil)
