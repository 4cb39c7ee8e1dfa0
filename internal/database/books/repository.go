// Package books provides the read-only query surface over the book catalog,
// plus the rating columns written by enrichment.
//
// # Interface Implementation
//
//	var _ http.BookStore = (*Repository)(nil)
//
// # Usage
//
//	repo := books.NewRepository(db)
//	book, err := repo.FindByISBN("0380795272")
//	top, err := repo.TopRated(50)
package books

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/readreviews/internal/apperrors"
	"github.com/mrlokans/readreviews/internal/entities"
)

var (
	ErrBookNotFound = fmt.Errorf("%w: book not found", apperrors.ErrNotFound)
	ErrNoMatch      = fmt.Errorf("%w: no matching books found", apperrors.ErrNotFound)
	ErrEmptySearch  = fmt.Errorf("%w: search term is required", apperrors.ErrValidation)
	ErrInvalidLimit = fmt.Errorf("%w: limit must be positive", apperrors.ErrValidation)
	ErrISBNRequired = fmt.Errorf("%w: isbn is required", apperrors.ErrValidation)
)

// Repository handles all book catalog database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new books repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// SampleBooks returns up to n distinct books in random order.
func (r *Repository) SampleBooks(n int) ([]entities.Book, error) {
	if n <= 0 {
		return nil, ErrInvalidLimit
	}

	var books []entities.Book
	err := r.db.Order("RANDOM()").Limit(n).Find(&books).Error
	return books, err
}

// likePattern wraps term for a substring LIKE match, escaping wildcards.
func likePattern(term string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + replacer.Replace(term) + "%"
}

const substringMatch = `title LIKE ? ESCAPE '\' OR author LIKE ? ESCAPE '\' OR isbn LIKE ? ESCAPE '\'`

// Search returns the first book (lowest id) whose title, author or ISBN
// contains term. Case sensitivity follows the store's LIKE collation.
func (r *Repository) Search(term string) (*entities.Book, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, ErrEmptySearch
	}

	pattern := likePattern(term)
	var book entities.Book
	err := r.db.Where(substringMatch, pattern, pattern, pattern).
		Order("id ASC").
		First(&book).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoMatch
		}
		return nil, err
	}
	return &book, nil
}

// SearchAll returns up to limit books matching term, ranked title matches
// first, then author matches, then ISBN matches.
func (r *Repository) SearchAll(term string, limit int) ([]entities.Book, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, ErrEmptySearch
	}
	if limit <= 0 {
		return nil, ErrInvalidLimit
	}

	pattern := likePattern(term)
	rank := clause.OrderBy{Expression: clause.Expr{
		SQL:                `CASE WHEN title LIKE ? ESCAPE '\' THEN 0 WHEN author LIKE ? ESCAPE '\' THEN 1 ELSE 2 END, title ASC, id ASC`,
		Vars:               []any{pattern, pattern},
		WithoutParentheses: true,
	}}

	var books []entities.Book
	err := r.db.Where(substringMatch, pattern, pattern, pattern).
		Clauses(rank).
		Limit(limit).
		Find(&books).Error
	return books, err
}

// FindByISBN performs an exact ISBN lookup.
func (r *Repository) FindByISBN(isbn string) (*entities.Book, error) {
	isbn = strings.TrimSpace(isbn)
	if isbn == "" {
		return nil, ErrISBNRequired
	}

	var book entities.Book
	err := r.db.Where("isbn = ?", isbn).First(&book).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}
	return &book, nil
}

// TopRated returns up to limit books by rating, highest first. Ties are
// broken by id so the page is stable between requests.
func (r *Repository) TopRated(limit int) ([]entities.Book, error) {
	if limit <= 0 {
		return nil, ErrInvalidLimit
	}

	var books []entities.Book
	err := r.db.Order("rating DESC").Order("id ASC").Limit(limit).Find(&books).Error
	return books, err
}

// UpdateRatings stores enrichment results for a book.
func (r *Repository) UpdateRatings(isbn string, reviewsCount int, rating float64) error {
	now := time.Now()
	result := r.db.Model(&entities.Book{}).
		Where("isbn = ?", isbn).
		Updates(map[string]any{
			"reviews_count":      reviewsCount,
			"rating":             rating,
			"ratings_updated_at": now,
		})
	if result.Error != nil {
		return fmt.Errorf("update ratings for %s: %w", isbn, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrBookNotFound
	}
	return nil
}

// ListISBNs returns every ISBN in the catalog, in id order.
func (r *Repository) ListISBNs() ([]string, error) {
	var isbns []string
	err := r.db.Model(&entities.Book{}).Order("id ASC").Pluck("isbn", &isbns).Error
	return isbns, err
}
