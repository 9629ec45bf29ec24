// Package web provides the HTTP server of the loctrack API: routing,
// middleware wiring, and background maintenance scheduling.
package web

import (
	"context"
	"io"
	"net"
	"net/http"
	"strconv"

	"loctrack/config"
	"loctrack/logger"
	"loctrack/util/common"
	"loctrack/util/random"
	"loctrack/web/controller"
	"loctrack/web/job"
	"loctrack/web/middleware"
	"loctrack/web/service"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
)

// Server is the loctrack web server with its controllers and scheduled
// maintenance jobs.
type Server struct {
	httpServer *http.Server
	listener   net.Listener

	users     *controller.UserController
	locations *controller.LocationController

	tokenService *service.TokenService

	cron *cron.Cron

	ctx    context.Context
	cancel context.CancelFunc
}

// NewServer creates a new web server instance with a cancellable context.
func NewServer() *Server {
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{ctx: ctx, cancel: cancel}
}

// initRouter initializes Gin, registers middleware and controllers, and
// returns the configured engine.
func (s *Server) initRouter() (*gin.Engine, error) {
	if config.IsDebug() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.DefaultWriter = io.Discard
		gin.DefaultErrorWriter = io.Discard
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.Default()
	engine.Use(middleware.RequestID())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	// The signing secret lives in process configuration only, never in
	// the store. Without one, tokens cannot outlive this process.
	secret := config.GetSecret()
	if secret == "" {
		secret = random.Seq(32)
		logger.Warning("JWT_SECRET_KEY is not set, using an ephemeral secret; issued tokens will not survive a restart")
	}
	s.tokenService = service.NewTokenService([]byte(secret))

	api := engine.Group("/api/v1")
	s.users = controller.NewUserController(api.Group("/users"), s.tokenService)
	s.locations = controller.NewLocationController(api.Group("/locations"), s.tokenService)

	engine.NoRoute(func(c *gin.Context) {
		c.AbortWithStatus(http.StatusNotFound)
	})

	return engine, nil
}

// startTask schedules the background maintenance jobs.
func (s *Server) startTask() {
	s.cron.AddJob("@daily", job.NewCheckpointJob())
	s.cron.AddJob("@daily", job.NewClearLogsJob())
}

// Start initializes and starts the web server.
func (s *Server) Start() (err error) {
	defer func() {
		if err != nil {
			_ = s.Stop()
		}
	}()

	s.cron = cron.New()
	s.cron.Start()

	engine, err := s.initRouter()
	if err != nil {
		return err
	}

	listenAddr := net.JoinHostPort(config.GetListen(), strconv.Itoa(config.GetPort()))
	listener, err := net.Listen("tcp", listenAddr)
	if err != nil {
		return err
	}
	logger.Info("Web server running HTTP on", listener.Addr())

	s.listener = listener
	s.httpServer = &http.Server{Handler: engine}

	go func() {
		_ = s.httpServer.Serve(listener)
	}()

	s.startTask()

	return nil
}

// Stop gracefully shuts down the web server and its cron jobs.
func (s *Server) Stop() error {
	s.cancel()
	if s.cron != nil {
		s.cron.Stop()
	}
	var err1, err2 error
	if s.httpServer != nil {
		err1 = s.httpServer.Shutdown(s.ctx)
	}
	if s.listener != nil {
		err2 = s.listener.Close()
	}
	return common.Combine(err1, err2)
}

// GetCtx returns the server's context.
func (s *Server) GetCtx() context.Context { return s.ctx }
