// Package users provides database operations for credential records.
//
// # Usage
//
//	repo := users.NewRepository(db)
//	user, err := repo.Create(&entities.User{Username: "alice", Email: "a@x.com", PasswordHash: hash})
//	user, err = repo.FindByIdentifier("a@x.com")
package users

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/mrlokans/readreviews/internal/apperrors"
	"github.com/mrlokans/readreviews/internal/entities"
)

var (
	ErrUserNotFound = fmt.Errorf("%w: user not found", apperrors.ErrNotFound)
	ErrUserExists   = fmt.Errorf("%w: username or email already registered", apperrors.ErrConflict)
)

// Repository handles all user database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new users repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// isDuplicate reports unique index violations. TranslateError covers both
// drivers; the string check catches connections opened without it.
func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}

// Create inserts a user. Concurrent registrations of the same username or
// email are settled by the unique indexes: the loser gets ErrUserExists.
func (r *Repository) Create(user *entities.User) (*entities.User, error) {
	if err := r.db.Create(user).Error; err != nil {
		if isDuplicate(err) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// ExistsByUsernameOrEmail reports whether either value is already taken.
func (r *Repository) ExistsByUsernameOrEmail(username, email string) (bool, error) {
	var count int64
	err := r.db.Model(&entities.User{}).
		Where("username = ? OR email = ?", username, email).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindByIdentifier looks a user up by username or email.
func (r *Repository) FindByIdentifier(identifier string) (*entities.User, error) {
	var user entities.User
	err := r.db.Where("username = ? OR email = ?", identifier, identifier).
		Order("id ASC").
		First(&user).Error
	return notFound(&user, err)
}

// GetUserByID retrieves a user by ID.
func (r *Repository) GetUserByID(id uint) (*entities.User, error) {
	var user entities.User
	err := r.db.First(&user, id).Error
	return notFound(&user, err)
}

// GetUserByUsername retrieves a user by username.
func (r *Repository) GetUserByUsername(username string) (*entities.User, error) {
	var user entities.User
	err := r.db.Where("username = ?", username).First(&user).Error
	return notFound(&user, err)
}

func notFound(user *entities.User, err error) (*entities.User, error) {
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}
