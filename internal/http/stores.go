package http

import (
	"time"

	"github.com/mrlokans/readreviews/internal/entities"
)

// This file consolidates the store interfaces used by HTTP controllers.
// Each controller depends only on the methods it calls.

// BookStore provides read access to the catalog.
type BookStore interface {
	SampleBooks(n int) ([]entities.Book, error)
	Search(term string) (*entities.Book, error)
	SearchAll(term string, limit int) ([]entities.Book, error)
	FindByISBN(isbn string) (*entities.Book, error)
	TopRated(limit int) ([]entities.Book, error)
}

// FavoritesStore records and lists the books a user has favorited.
type FavoritesStore interface {
	AddFavorite(userID uint, isbn string) error
	ListFavorites(userID uint) ([]entities.Book, error)
	IsFavorite(userID uint, isbn string) (bool, error)
}

// SyncScheduler exposes the ratings sync scheduler's state.
type SyncScheduler interface {
	IsRunning() bool
	LastRun() (*time.Time, string)
	GetNextRunTime() *time.Time
}

// UserLookup resolves profile pages to accounts.
type UserLookup interface {
	GetUserByUsername(username string) (*entities.User, error)
}
