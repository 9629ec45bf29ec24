package middleware

import (
	"net/http"

	"loctrack/web/entity"
	"loctrack/web/session"

	"github.com/gin-gonic/gin"
)

// TerminalRequired gates a route on the terminal role flag. It assumes
// TokenAuth already ran and attached the caller identity.
func TerminalRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := session.GetLoginUser(c)
		if user == nil || !user.IsTerminal {
			c.AbortWithStatusJSON(http.StatusBadRequest, entity.Error{
				Error: "You have to be logged as a terminal to post location",
			})
			return
		}
		c.Next()
	}
}
