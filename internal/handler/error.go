package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/snnyvrz/bookshelf/internal/middleware"
	"github.com/snnyvrz/bookshelf/internal/validation"
)

func writeError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, validation.ErrorResponse{
		Code:    code,
		Message: message,
		Errors:  nil,
	})
}

// internalError records err for the access log and answers with the generic
// error page.
func internalError(c *gin.Context, err error) {
	_ = c.Error(err)
	middleware.InternalError(c)
}
