// Package controller provides the HTTP request handlers of the loctrack
// API: account registration and self-service, login, and location CRUD.
package controller

import (
	"errors"
	"net/http"
	"strconv"

	"loctrack/database"
	"loctrack/web/entity"
	"loctrack/web/middleware"
	"loctrack/web/service"
	"loctrack/web/session"

	"github.com/gin-gonic/gin"
)

// UserController handles registration, login, and account self-service.
type UserController struct {
	userService  service.UserService
	tokenService *service.TokenService
}

func NewUserController(g *gin.RouterGroup, tokens *service.TokenService) *UserController {
	a := &UserController{tokenService: tokens}
	a.initRouter(g)
	return a
}

func (a *UserController) initRouter(g *gin.RouterGroup) {
	g.POST("/", a.register)
	g.POST("/login", a.login)

	auth := g.Group("/")
	auth.Use(middleware.TokenAuth(a.tokenService))

	auth.GET("/", a.getUsers)
	auth.GET("/me", a.getMe)
	auth.PUT("/me", a.updateMe)
	auth.DELETE("/me", a.deleteMe)
	auth.GET("/:id", a.getUser)
}

type registerRequest struct {
	Username   string `json:"username" binding:"required"`
	Password   string `json:"password" binding:"required"`
	IsTerminal *bool  `json:"is_terminal" binding:"required"`
}

// register creates an account and answers with an issued token rather
// than the account object.
func (a *UserController) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err, "username, password and is_terminal fields are required")
		return
	}

	user, err := a.userService.CreateUser(req.Username, req.Password, *req.IsTerminal)
	if err != nil {
		if errors.Is(err, service.ErrDuplicateUsername) {
			jsonError(c, http.StatusBadRequest, "User already exist, please supply a different username")
			return
		}
		logWarning(c, "create user err", err)
		jsonError(c, http.StatusBadRequest, "error creating user")
		return
	}

	token, err := a.tokenService.Issue(user.Id)
	if err != nil {
		logWarning(c, "issue token err", err)
		jsonError(c, http.StatusBadRequest, "error in generating user token")
		return
	}
	c.JSON(http.StatusCreated, entity.Token{JwtToken: token})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (a *UserController) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		jsonSchemaError(c)
		return
	}
	if req.Username == "" || req.Password == "" {
		jsonError(c, http.StatusBadRequest, "Please enter a username and a password to sign in")
		return
	}

	user, err := a.userService.GetUserByUsername(req.Username)
	if err != nil {
		if !database.IsNotFound(err) {
			logWarning(c, "login lookup err", err)
		}
		jsonError(c, http.StatusBadRequest, "Invalid credentials.")
		return
	}
	if !a.userService.CheckPassword(user, req.Password) {
		jsonError(c, http.StatusBadRequest, "Incorrect password.")
		return
	}

	token, err := a.tokenService.Issue(user.Id)
	if err != nil {
		logWarning(c, "issue token err", err)
		jsonError(c, http.StatusBadRequest, "error in generating user token")
		return
	}
	c.JSON(http.StatusOK, entity.Token{JwtToken: token})
}

func (a *UserController) getUsers(c *gin.Context) {
	users, err := a.userService.GetUsers()
	if err != nil {
		logWarning(c, "get users err", err)
		jsonError(c, http.StatusBadRequest, "error fetching users")
		return
	}
	c.JSON(http.StatusOK, users)
}

func (a *UserController) getUser(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		jsonError(c, http.StatusNotFound, "User not found")
		return
	}
	user, err := a.userService.GetUser(id)
	if err != nil {
		if !database.IsNotFound(err) {
			logWarning(c, "get user err", err)
		}
		jsonError(c, http.StatusNotFound, "User not found")
		return
	}
	c.JSON(http.StatusOK, user)
}

func (a *UserController) getMe(c *gin.Context) {
	me := session.GetLoginUser(c)
	user, err := a.userService.GetUser(me.Id)
	if err != nil {
		jsonError(c, http.StatusNotFound, "User not found")
		return
	}
	c.JSON(http.StatusOK, user)
}

type userUpdateRequest struct {
	Username   *string `json:"username"`
	Password   *string `json:"password"`
	IsTerminal *bool   `json:"is_terminal"`
}

func (a *UserController) updateMe(c *gin.Context) {
	var req userUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		jsonSchemaError(c)
		return
	}

	me := session.GetLoginUser(c)
	user, err := a.userService.GetUser(me.Id)
	if err != nil {
		jsonError(c, http.StatusNotFound, "User not found")
		return
	}

	err = a.userService.UpdateUser(user, service.UserUpdate{
		Username:   req.Username,
		Password:   req.Password,
		IsTerminal: req.IsTerminal,
	})
	if err != nil {
		if errors.Is(err, service.ErrDuplicateUsername) {
			jsonError(c, http.StatusBadRequest, "User already exist, please supply a different username")
			return
		}
		logWarning(c, "update user err", err)
		jsonError(c, http.StatusBadRequest, "error updating user")
		return
	}
	c.JSON(http.StatusOK, user)
}

func (a *UserController) deleteMe(c *gin.Context) {
	me := session.GetLoginUser(c)
	if err := a.userService.DeleteUser(me.Id); err != nil {
		logWarning(c, "delete user err", err)
		jsonError(c, http.StatusBadRequest, "error deleting user")
		return
	}
	c.Status(http.StatusNoContent)
}
