// Package session carries the authenticated caller identity through the
// request-scoped gin context. The identity is attached by the token auth
// middleware and read by handlers; nothing is shared across requests.
package session

import (
	"github.com/gin-gonic/gin"
)

const loginUser = "LOGIN_USER"

// AuthUser is the resolved identity of the calling account.
type AuthUser struct {
	Id         int
	IsTerminal bool
}

func SetLoginUser(c *gin.Context, user *AuthUser) {
	c.Set(loginUser, user)
}

func GetLoginUser(c *gin.Context) *AuthUser {
	if obj, ok := c.Get(loginUser); ok {
		if user, ok := obj.(*AuthUser); ok {
			return user
		}
	}
	return nil
}
