package favorites

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/readreviews/internal/apperrors"
	"github.com/mrlokans/readreviews/internal/entities"
)

func setupTestDB(t *testing.T) (*gorm.DB, *Repository) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "favorites.db") + "?_foreign_keys=on"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entities.User{}, &entities.Book{}, &entities.Favorite{}))

	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})

	return db, NewRepository(db)
}

func seed(t *testing.T, db *gorm.DB) (*entities.User, []*entities.Book) {
	t.Helper()
	user := &entities.User{Username: "alice", Email: "alice@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(user).Error)

	books := []*entities.Book{
		{ISBN: "1111111111", Title: "Dune", Author: "Frank Herbert", Rating: 4.2},
		{ISBN: "2222222222", Title: "Emma", Author: "Jane Austen", Rating: 4.0},
		{ISBN: "3333333333", Title: "Ulysses", Author: "James Joyce", Rating: 3.7},
	}
	for _, b := range books {
		require.NoError(t, db.Create(b).Error)
	}
	return user, books
}

func TestRepository_AddFavorite_ListFavorites(t *testing.T) {
	db, repo := setupTestDB(t)
	user, books := seed(t, db)

	require.NoError(t, repo.AddFavorite(user.ID, books[0].ISBN))

	favs, err := repo.ListFavorites(user.ID)
	require.NoError(t, err)
	require.Len(t, favs, 1)
	assert.Equal(t, "Dune", favs[0].Title)
	assert.Equal(t, 4.2, favs[0].Rating)
}

func TestRepository_ListFavorites_MostRecentFirst(t *testing.T) {
	db, repo := setupTestDB(t)
	user, books := seed(t, db)

	for _, b := range books {
		require.NoError(t, repo.AddFavorite(user.ID, b.ISBN))
	}

	favs, err := repo.ListFavorites(user.ID)
	require.NoError(t, err)
	require.Len(t, favs, 3)
	assert.Equal(t, "Ulysses", favs[0].Title)
	assert.Equal(t, "Emma", favs[1].Title)
	assert.Equal(t, "Dune", favs[2].Title)
}

func TestRepository_AddFavorite_Idempotent(t *testing.T) {
	db, repo := setupTestDB(t)
	user, books := seed(t, db)

	require.NoError(t, repo.AddFavorite(user.ID, books[1].ISBN))
	require.NoError(t, repo.AddFavorite(user.ID, books[1].ISBN))

	favs, err := repo.ListFavorites(user.ID)
	require.NoError(t, err)
	assert.Len(t, favs, 1)
}

func TestRepository_AddFavorite_Errors(t *testing.T) {
	db, repo := setupTestDB(t)
	user, _ := seed(t, db)

	err := repo.AddFavorite(user.ID, "9999999999")
	assert.ErrorIs(t, err, ErrBookNotFound)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	err = repo.AddFavorite(user.ID, "")
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	err = repo.AddFavorite(0, "1111111111")
	assert.ErrorIs(t, err, ErrUserRequired)
}

func TestRepository_ListFavorites_ScopedToUser(t *testing.T) {
	db, repo := setupTestDB(t)
	alice, books := seed(t, db)
	bob := &entities.User{Username: "bob", Email: "bob@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(bob).Error)

	require.NoError(t, repo.AddFavorite(alice.ID, books[0].ISBN))
	require.NoError(t, repo.AddFavorite(bob.ID, books[2].ISBN))

	favs, err := repo.ListFavorites(bob.ID)
	require.NoError(t, err)
	require.Len(t, favs, 1)
	assert.Equal(t, "Ulysses", favs[0].Title)

	none, err := repo.ListFavorites(9999)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestRepository_IsFavorite(t *testing.T) {
	db, repo := setupTestDB(t)
	user, books := seed(t, db)

	fav, err := repo.IsFavorite(user.ID, books[0].ISBN)
	require.NoError(t, err)
	assert.False(t, fav)

	require.NoError(t, repo.AddFavorite(user.ID, books[0].ISBN))

	fav, err = repo.IsFavorite(user.ID, books[0].ISBN)
	require.NoError(t, err)
	assert.True(t, fav)
}
