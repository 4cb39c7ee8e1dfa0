package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/readreviews/internal/apperrors"
)

type FavoritesController struct {
	store FavoritesStore
}

func NewFavoritesController(store FavoritesStore) *FavoritesController {
	return &FavoritesController{store: store}
}

// AddFavorite records the book as a favorite of the caller and returns to
// the homepage. Adding the same book twice is a no-op.
// POST /add_favorite/:isbn
func (fc *FavoritesController) AddFavorite(c *gin.Context) {
	if err := fc.store.AddFavorite(GetUserID(c), c.Param("isbn")); err != nil {
		renderAppError(c, err, notFoundMessage(err, msgNoMatchingBooks))
		return
	}

	c.Redirect(http.StatusFound, "/")
}

// ListFavorites returns the caller's favorites, most recent first.
// GET /api/favorites
func (fc *FavoritesController) ListFavorites(c *gin.Context) {
	books, err := fc.store.ListFavorites(GetUserID(c))
	if err != nil {
		respondAppError(c, err, "list favorites")
		return
	}

	c.JSON(http.StatusOK, ListResponse{Data: books, Total: len(books)})
}

// AddFavoriteJSON is the API form of AddFavorite.
// POST /api/favorites/:isbn
func (fc *FavoritesController) AddFavoriteJSON(c *gin.Context) {
	isbn := c.Param("isbn")
	if err := fc.store.AddFavorite(GetUserID(c), isbn); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			respondNotFound(c, "book")
			return
		}
		respondAppError(c, err, "add favorite")
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "favorite added", Data: gin.H{"isbn": isbn}})
}
