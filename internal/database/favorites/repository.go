// Package favorites provides database operations for the user/book favorites
// ledger.
//
// This package implements the FavoritesStore interface defined in
// internal/http/favorites.go.
//
// # Interface Implementation
//
//	var _ http.FavoritesStore = (*Repository)(nil)
//
// # Usage
//
//	repo := favorites.NewRepository(db)
//	err := repo.AddFavorite(userID, "0380795272")
//	books, err := repo.ListFavorites(userID)
package favorites

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/readreviews/internal/apperrors"
	"github.com/mrlokans/readreviews/internal/entities"
)

var (
	ErrBookNotFound = fmt.Errorf("%w: book not found", apperrors.ErrNotFound)
	ErrUserRequired = fmt.Errorf("%w: user is required", apperrors.ErrValidation)
	ErrISBNRequired = fmt.Errorf("%w: isbn is required", apperrors.ErrValidation)
)

// Repository handles all favorites database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new favorites repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) bookID(isbn string) (uint, error) {
	isbn = strings.TrimSpace(isbn)
	if isbn == "" {
		return 0, ErrISBNRequired
	}

	var book entities.Book
	err := r.db.Select("id").Where("isbn = ?", isbn).First(&book).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrBookNotFound
		}
		return 0, err
	}
	return book.ID, nil
}

// AddFavorite records that the user favorited the book with the given ISBN.
// Adding a book that is already a favorite succeeds without a new row.
func (r *Repository) AddFavorite(userID uint, isbn string) error {
	if userID == 0 {
		return ErrUserRequired
	}
	bookID, err := r.bookID(isbn)
	if err != nil {
		return err
	}

	fav := entities.Favorite{UserID: userID, BookID: bookID}
	err = r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "book_id"}},
		DoNothing: true,
	}).Create(&fav).Error
	if err != nil {
		return fmt.Errorf("failed to add favorite: %w", err)
	}
	return nil
}

// ListFavorites returns the books a user favorited, most recent first.
func (r *Repository) ListFavorites(userID uint) ([]entities.Book, error) {
	var books []entities.Book
	err := r.db.Model(&entities.Book{}).
		Joins("JOIN favorites ON favorites.book_id = books.id").
		Where("favorites.user_id = ?", userID).
		Order("favorites.created_at DESC").
		Order("favorites.id DESC").
		Find(&books).Error
	return books, err
}

// IsFavorite reports whether the user has favorited the book.
func (r *Repository) IsFavorite(userID uint, isbn string) (bool, error) {
	var count int64
	err := r.db.Model(&entities.Favorite{}).
		Joins("JOIN books ON books.id = favorites.book_id").
		Where("favorites.user_id = ? AND books.isbn = ?", userID, isbn).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
