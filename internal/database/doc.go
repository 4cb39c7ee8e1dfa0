// Package database provides the data access layer for the application.
//
// # Architecture
//
// The database layer is organized into domain-specific sub-packages:
//
//	database/
//	├── database.go      # Connection setup (SQLite or Postgres), migrations
//	├── books/           # Book catalog queries and rating updates
//	├── favorites/       # User/book favorite associations
//	└── users/           # Credential records
//
// # Using Sub-packages
//
// Each sub-package provides a Repository type with domain-specific operations:
//
//	// Initialize database connection
//	db, err := database.NewDatabase(os.Getenv("DATABASE_URL"))
//
//	// Create domain-specific repositories
//	booksRepo := books.NewRepository(db.DB)
//	favoritesRepo := favorites.NewRepository(db.DB)
//
//	// Use repositories
//	book, err := booksRepo.FindByISBN("0380795272")
//	favs, err := favoritesRepo.ListFavorites(userID)
//
// # Errors
//
// Lookups that find nothing return errors wrapping apperrors.ErrNotFound, and
// unique index violations on users return errors wrapping apperrors.ErrConflict.
// The connection is opened with gorm's TranslateError so both drivers report
// duplicates as gorm.ErrDuplicatedKey.
//
// # Interface Implementations
//
// Compile-time checks live in internal/interfaces:
//
//   - books.Repository: implements http.BookStore
//   - favorites.Repository: implements http.FavoritesStore
//   - users.Repository: implements auth.UserRepository
package database
