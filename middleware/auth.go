package middleware

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vansh565/Nexus-store/apperr"
	"github.com/vansh565/Nexus-store/auth"
)

const (
	SessionHeader   = "x-session-token"
	ContextEmail    = "user_email"
	ContextTokenKey = "session_token"
)

// RequireSession validates the session token header and stores the owner's
// email in the context.
func RequireSession(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader(SessionHeader)
		email, err := auth.ValidateSession(c.Request.Context(), db, token)
		if err != nil {
			c.AbortWithStatusJSON(apperr.KindOf(err).HTTPStatus(), gin.H{
				"status":  "error",
				"message": apperr.MessageOf(err),
			})
			return
		}

		c.Set(ContextEmail, email)
		c.Set(ContextTokenKey, token)
		c.Next()
	}
}
