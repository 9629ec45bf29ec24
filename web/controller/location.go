package controller

import (
	"net/http"
	"strconv"

	"loctrack/database"
	"loctrack/database/model"
	"loctrack/web/middleware"
	"loctrack/web/service"
	"loctrack/web/session"

	"github.com/gin-gonic/gin"
)

// LocationController handles location posting and queries. Reads require
// authentication; mutations additionally require the terminal role, and
// update/delete are restricted to the record's owner.
type LocationController struct {
	locationService service.LocationService
	tokenService    *service.TokenService
}

func NewLocationController(g *gin.RouterGroup, tokens *service.TokenService) *LocationController {
	a := &LocationController{tokenService: tokens}
	a.initRouter(g)
	return a
}

func (a *LocationController) initRouter(g *gin.RouterGroup) {
	auth := g.Group("/")
	auth.Use(middleware.TokenAuth(a.tokenService))

	auth.GET("/", a.getLocations)
	auth.GET("/by-date", a.getByDates)

	terminal := auth.Group("/")
	terminal.Use(middleware.TerminalRequired())

	terminal.POST("/", a.createLocation)
	terminal.PUT("/:id", a.updateLocation)
	terminal.DELETE("/:id", a.deleteLocation)
}

type locationCreateRequest struct {
	Latitude  *float64 `json:"latitude" binding:"required"`
	Longitude *float64 `json:"longitude" binding:"required"`
	Info      string   `json:"info"`
}

// createLocation stores a new record. The owner is always the
// authenticated caller, never taken from the request body.
func (a *LocationController) createLocation(c *gin.Context) {
	var req locationCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err, "latitude and longitude fields are required")
		return
	}

	user := session.GetLoginUser(c)
	location := &model.Location{
		Latitude:  *req.Latitude,
		Longitude: *req.Longitude,
		Info:      req.Info,
		OwnerId:   user.Id,
	}
	if err := a.locationService.CreateLocation(location); err != nil {
		logWarning(c, "create location err", err)
		jsonError(c, http.StatusBadRequest, "error creating location")
		return
	}
	c.JSON(http.StatusCreated, location)
}

func (a *LocationController) getLocations(c *gin.Context) {
	locations, err := a.locationService.GetLocations()
	if err != nil {
		logWarning(c, "get locations err", err)
		jsonError(c, http.StatusBadRequest, "error fetching locations")
		return
	}
	c.JSON(http.StatusOK, locations)
}

func (a *LocationController) getByDates(c *gin.Context) {
	startStr := c.Query("start_date")
	endStr := c.Query("end_date")
	if startStr == "" || endStr == "" {
		jsonError(c, http.StatusBadRequest, "No parameters provided")
		return
	}

	start, err := parseDate(startStr)
	if err != nil {
		jsonError(c, http.StatusBadRequest, "Invalid start_date, expected RFC 3339 or YYYY-MM-DD")
		return
	}
	end, err := parseDate(endStr)
	if err != nil {
		jsonError(c, http.StatusBadRequest, "Invalid end_date, expected RFC 3339 or YYYY-MM-DD")
		return
	}

	locations, err := a.locationService.GetLocationsByDates(start, end)
	if err != nil {
		logWarning(c, "get locations by dates err", err)
		jsonError(c, http.StatusBadRequest, "error fetching locations")
		return
	}
	// An empty window answers not-found rather than an empty list.
	if len(locations) == 0 {
		jsonError(c, http.StatusNotFound, "Locations not found")
		return
	}
	c.JSON(http.StatusOK, locations)
}

type locationUpdateRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Info      *string  `json:"info"`
}

func (a *LocationController) updateLocation(c *gin.Context) {
	location, ok := a.lookupOwned(c, "Permission denied. You are not the owner of this location post")
	if !ok {
		return
	}

	var req locationUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		jsonSchemaError(c)
		return
	}

	err := a.locationService.UpdateLocation(location, service.LocationUpdate{
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		Info:      req.Info,
	})
	if err != nil {
		logWarning(c, "update location err", err)
		jsonError(c, http.StatusBadRequest, "error updating location")
		return
	}
	c.JSON(http.StatusOK, location)
}

func (a *LocationController) deleteLocation(c *gin.Context) {
	location, ok := a.lookupOwned(c, "Permission denied")
	if !ok {
		return
	}

	if err := a.locationService.DeleteLocation(location.Id); err != nil {
		logWarning(c, "delete location err", err)
		jsonError(c, http.StatusBadRequest, "error deleting location")
		return
	}
	c.Status(http.StatusNoContent)
}

// lookupOwned resolves the :id path param and enforces that the caller
// owns the record. Unknown ids answer 404, foreign owners 400.
func (a *LocationController) lookupOwned(c *gin.Context, deniedMsg string) (*model.Location, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		jsonError(c, http.StatusNotFound, "Location not found (invalid location)")
		return nil, false
	}

	location, err := a.locationService.GetLocation(id)
	if err != nil {
		if !database.IsNotFound(err) {
			logWarning(c, "get location err", err)
		}
		jsonError(c, http.StatusNotFound, "Location not found (invalid location)")
		return nil, false
	}

	user := session.GetLoginUser(c)
	if location.OwnerId != user.Id {
		jsonError(c, http.StatusBadRequest, deniedMsg)
		return nil, false
	}
	return location, true
}
