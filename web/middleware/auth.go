package middleware

import (
	"errors"
	"net/http"

	"loctrack/database"
	"loctrack/web/entity"
	"loctrack/web/service"
	"loctrack/web/session"

	"github.com/gin-gonic/gin"
)

// TokenAuth gates a route group on a valid bearer token in the api-token
// header. On success the resolved caller identity is attached to the
// request context for downstream handlers.
func TokenAuth(tokens *service.TokenService) gin.HandlerFunc {
	userService := service.UserService{}
	return func(c *gin.Context) {
		tokenString := c.GetHeader("api-token")
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, entity.Error{
				Error: "Authentication token is not available, please login to get one",
			})
			return
		}

		userId, err := tokens.Verify(tokenString)
		if err != nil {
			msg := "Invalid token. Please login again or try a new token"
			if errors.Is(err, service.ErrTokenExpired) {
				msg = "Token expired, please login again"
			}
			c.AbortWithStatusJSON(http.StatusBadRequest, entity.Error{Error: msg})
			return
		}

		// The subject may have been deleted after the token was issued.
		user, err := userService.GetUser(userId)
		if err != nil {
			if database.IsNotFound(err) {
				c.AbortWithStatusJSON(http.StatusBadRequest, entity.Error{
					Error: "user does not exist, invalid token",
				})
			} else {
				c.AbortWithStatusJSON(http.StatusBadRequest, entity.Error{Error: err.Error()})
			}
			return
		}

		session.SetLoginUser(c, &session.AuthUser{
			Id:         user.Id,
			IsTerminal: user.IsTerminal,
		})
		c.Next()
	}
}
