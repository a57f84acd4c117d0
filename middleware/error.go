package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ErrorHandler recovers from panics in handlers and returns a generic 500.
func ErrorHandler(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.WithFields(logrus.Fields{
					"panic": err,
					"path":  c.Request.URL.Path,
					"stack": string(debug.Stack()),
				}).Error("panic recovered")

				c.JSON(http.StatusInternalServerError, gin.H{
					"error": "An unexpected error occurred",
				})
				c.Abort()
			}
		}()

		c.Next()
	}
}
