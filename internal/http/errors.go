package http

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/readreviews/internal/apperrors"
	"github.com/mrlokans/readreviews/internal/auth"
	"github.com/mrlokans/readreviews/internal/web"
)

// renderAppError shows a user error on the error page with message (or the
// error's own text when message is empty). Anything else is logged and shown
// as the generic internal error.
func renderAppError(c *gin.Context, err error, message string) {
	if !apperrors.IsUserError(err) {
		log.Printf("Internal error (%s %s): %v", c.Request.Method, c.Request.URL.Path, err)
		web.RenderError(c, http.StatusInternalServerError, web.InternalErrorMessage)
		return
	}
	if message == "" {
		message = apperrors.Detail(err)
	}
	web.RenderError(c, apperrors.StatusCode(err), message)
}

// respondAppError is the JSON counterpart of renderAppError.
func respondAppError(c *gin.Context, err error, context string) {
	if !apperrors.IsUserError(err) {
		respondInternalError(c, err, context)
		return
	}
	respondError(c, apperrors.StatusCode(err), apperrors.Detail(err))
}

// recoveryHandler renders the internal error page for a panicking handler.
// gin.CustomRecovery has already logged the panic and stack.
func recoveryHandler(c *gin.Context, recovered any) {
	if c.Writer.Written() {
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}
	if auth.IsAPIRequest(c) {
		c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}
	web.RenderError(c, http.StatusInternalServerError, web.InternalErrorMessage)
	c.Abort()
}
