package entities

import (
	"time"
)

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"uniqueIndex;size:254;not null" json:"username"`
	Email        string    `gorm:"uniqueIndex;size:254;not null" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	CreatedAt    time.Time `gorm:"column:date_created" json:"date_created"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Book is a catalog entry. Rows are loaded by an external import and are
// read-only to the application except for the enrichment columns.
type Book struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	ISBN             string     `gorm:"uniqueIndex;size:20;not null" json:"isbn"`
	Title            string     `gorm:"index;size:512;not null" json:"title"`
	Author           string     `gorm:"index;size:256" json:"author"`
	Year             int        `json:"year"`
	Rating           float64    `gorm:"index" json:"rating"`
	ReviewsCount     int        `json:"reviews_count"`
	RatingsUpdatedAt *time.Time `json:"ratings_updated_at,omitempty"`
}

// Favorite links a user to a book. The composite unique index makes adding
// the same book twice a no-op.
type Favorite struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_user_book" json:"user_id"`
	BookID    uint      `gorm:"not null;uniqueIndex:idx_user_book;index" json:"book_id"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Book      Book      `gorm:"foreignKey:BookID;constraint:OnDelete:CASCADE" json:"book"`
	CreatedAt time.Time `json:"created_at"`
}
