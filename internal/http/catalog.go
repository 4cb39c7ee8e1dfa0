package http

import (
	"errors"
	"html/template"
	"log"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/readreviews/internal/apperrors"
	"github.com/mrlokans/readreviews/internal/config"
	"github.com/mrlokans/readreviews/internal/ratings"
	"github.com/mrlokans/readreviews/internal/web"
)

const (
	msgNoMatchingBooks = "No Matching Books Found. Please try again!"
	msgUserNotFound    = "User not found."

	defaultSearchLimit = 20
	maxSearchLimit     = 100
)

// CatalogController serves the book pages and the catalog JSON API.
type CatalogController struct {
	books     BookStore
	favorites FavoritesStore
	users     UserLookup
	ratings   *ratings.Enricher
}

// NewCatalogController creates a CatalogController. enricher may be nil, in
// which case pages show stored ratings only.
func NewCatalogController(books BookStore, favorites FavoritesStore, users UserLookup, enricher *ratings.Enricher) *CatalogController {
	return &CatalogController{
		books:     books,
		favorites: favorites,
		users:     users,
		ratings:   enricher,
	}
}

// HomePage shows a random sample of books with live ratings.
// GET /
func (cc *CatalogController) HomePage(c *gin.Context) {
	books, err := cc.books.SampleBooks(config.HomepageSampleSize)
	if err != nil {
		renderAppError(c, err, "")
		return
	}

	web.Render(c, http.StatusOK, "index", gin.H{
		"Title": "Home",
		"Books": cc.ratings.EnrichBooks(c.Request.Context(), books),
	})
}

// BookPage shows one book with its reviews widget and favorite state.
// GET /reviews/:isbn
func (cc *CatalogController) BookPage(c *gin.Context) {
	book, err := cc.books.FindByISBN(c.Param("isbn"))
	if err != nil {
		renderAppError(c, err, notFoundMessage(err, msgNoMatchingBooks))
		return
	}

	ctx := c.Request.Context()
	enriched := cc.ratings.EnrichBook(ctx, *book)

	isFavorite := false
	if userID := GetUserID(c); userID != 0 {
		isFavorite, err = cc.favorites.IsFavorite(userID, book.ISBN)
		if err != nil {
			log.Printf("Failed to load favorite state for %s: %v", book.ISBN, err)
		}
	}

	web.Render(c, http.StatusOK, "reviews", gin.H{
		"Title":      enriched.Title,
		"Book":       enriched,
		"IsFavorite": isFavorite,
		// Markup comes from the ratings provider; its origin is allowed by the CSP
		"Widget": template.HTML(cc.ratings.ReviewsWidget(ctx, book.ISBN)),
	})
}

// Search handles the header search form and sends the user to the single
// best match.
// POST /reviews/:isbn
func (cc *CatalogController) Search(c *gin.Context) {
	book, err := cc.books.Search(c.PostForm("user_search"))
	if err != nil {
		if apperrors.IsUserError(err) {
			web.RenderError(c, apperrors.StatusCode(err), msgNoMatchingBooks)
			return
		}
		renderAppError(c, err, "")
		return
	}

	c.Redirect(http.StatusSeeOther, "/reviews/"+url.PathEscape(book.ISBN))
}

// TopBooksPage lists the highest rated books.
// GET /top_books/
func (cc *CatalogController) TopBooksPage(c *gin.Context) {
	books, err := cc.books.TopRated(config.TopBooksLimit)
	if err != nil {
		renderAppError(c, err, "")
		return
	}

	web.Render(c, http.StatusOK, "top_books", gin.H{
		"Title": "Top books",
		"Books": books,
	})
}

// ProfilePage lists the favorites of the named user.
// GET /profile/:username
func (cc *CatalogController) ProfilePage(c *gin.Context) {
	user, err := cc.users.GetUserByUsername(c.Param("username"))
	if err != nil {
		renderAppError(c, err, notFoundMessage(err, msgUserNotFound))
		return
	}

	books, err := cc.favorites.ListFavorites(user.ID)
	if err != nil {
		renderAppError(c, err, "")
		return
	}

	web.Render(c, http.StatusOK, "profile", gin.H{
		"Title":       user.Username,
		"ProfileUser": user.Username,
		"Books":       books,
	})
}

// SearchBooks returns every book matching q, ranked.
// GET /api/books/search?q=&limit=
func (cc *CatalogController) SearchBooks(c *gin.Context) {
	limit, ok := parseLimitQuery(c, defaultSearchLimit, maxSearchLimit)
	if !ok {
		return
	}

	books, err := cc.books.SearchAll(c.Query("q"), limit)
	if err != nil {
		respondAppError(c, err, "search books")
		return
	}

	c.JSON(http.StatusOK, ListResponse{Data: books, Total: len(books)})
}

// GetBook returns one book with live ratings when available.
// GET /api/books/:isbn
func (cc *CatalogController) GetBook(c *gin.Context) {
	book, err := cc.books.FindByISBN(c.Param("isbn"))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			respondNotFound(c, "book")
			return
		}
		respondAppError(c, err, "get book")
		return
	}

	c.JSON(http.StatusOK, cc.ratings.EnrichBook(c.Request.Context(), *book))
}

// notFoundMessage picks the page message for a lookup failure.
func notFoundMessage(err error, message string) string {
	if errors.Is(err, apperrors.ErrNotFound) {
		return message
	}
	return ""
}
