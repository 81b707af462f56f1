package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/durgapur-services/marketplace-backend/internal/platform/apperror"
	"github.com/durgapur-services/marketplace-backend/internal/platform/logger"
)

// ErrorHandler renders the last error attached with c.Error as
// {"error": message}. Errors that are not AppErrors are logged and hidden.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		if appErr, ok := apperror.As(err); ok {
			if appErr.Err != nil || appErr.Code >= http.StatusInternalServerError {
				logger.FromContext(c.Request.Context()).Error("request failed", "status", appErr.Code, "error", err)
			}
			body := gin.H{"error": appErr.Message}
			for k, v := range appErr.Details {
				body[k] = v
			}
			c.JSON(appErr.Code, body)
			return
		}

		logger.FromContext(c.Request.Context()).Error("internal server error", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An unexpected error occurred. Please try again later."})
	}
}
