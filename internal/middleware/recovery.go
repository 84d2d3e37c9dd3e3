package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// InternalError writes the generic, unstyled error page shared by panics and
// unexpected handler failures.
func InternalError(c *gin.Context) {
	c.Data(http.StatusInternalServerError, "text/plain; charset=utf-8",
		[]byte(http.StatusText(http.StatusInternalServerError)))
	c.Abort()
}

func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error().
					Str("request_id", c.GetString(RequestIDKey)).
					Interface("error", err).
					Msg("Panic recovered")

				InternalError(c)
			}
		}()

		c.Next()
	}
}
