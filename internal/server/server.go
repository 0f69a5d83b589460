// Package server is the HTTP adapter around the state manager and the
// two document builders: a JSON API plus the embedded form page.
package server

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lirunlin/qianbao/internal/config"
	"github.com/lirunlin/qianbao/internal/document"
	"github.com/lirunlin/qianbao/internal/repository"
	"github.com/lirunlin/qianbao/internal/state"
)

//go:embed static
var staticFiles embed.FS

// Server is the HTTP server adapter
type Server struct {
	config     config.ServerConfig
	httpServer *http.Server
	router     *gin.Engine
	state      *state.Manager
	store      *repository.StateRepository
	notice     *document.NoticeBuilder
	worksheet  *document.WorksheetBuilder
	sessions   *sessionStore
	logger     *zap.Logger
}

// NewServer creates a new HTTP server wired to the state manager,
// snapshot store and document builders.
func NewServer(
	cfg config.ServerConfig,
	manager *state.Manager,
	store *repository.StateRepository,
	logger *zap.Logger,
) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	s := &Server{
		config:    cfg,
		router:    router,
		state:     manager,
		store:     store,
		notice:    document.NewNoticeBuilder(logger),
		worksheet: document.NewWorksheetBuilder(logger),
		sessions:  newSessionStore(),
		logger:    logger,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(s.loggingMiddleware())
}

func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		s.logger.Info("HTTP request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)))
	}
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)
	s.router.POST("/api/login", s.handleLogin)

	api := s.router.Group("/api")
	if s.config.Login.Enabled {
		api.Use(s.sessionMiddleware())
	}
	{
		api.GET("/activity", s.handleGetActivity)
		api.POST("/activity/field", s.handleSetField)
		api.POST("/activity/participant-count", s.handleSetParticipantCount)
		api.POST("/activity/schedule", s.handleAddScheduleRow)
		api.PATCH("/activity/schedule/:id", s.handleUpdateScheduleItem)
		api.DELETE("/activity/schedule/:id", s.handleRemoveScheduleRow)
		api.PATCH("/activity/expense", s.handleUpdateExpense)
		api.POST("/activity/reset", s.handleReset)
		api.GET("/export/notice", s.handleExportNotice)
		api.GET("/export/worksheet", s.handleExportWorksheet)
	}

	// Embedded form page
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		s.logger.Fatal("Embedded static files missing", zap.Error(err))
	}
	s.router.GET("/", func(c *gin.Context) {
		c.FileFromFS("index.html", http.FS(sub))
	})
}

// URL returns the browsable address of the server.
func (s *Server) URL() string {
	host := s.config.Host
	if host == "0.0.0.0" || host == "" {
		host = "localhost"
	}
	return fmt.Sprintf("http://%s:%d", host, s.config.Port)
}

// Start begins listening. Blocks until the listener stops.
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", s.config.Host, s.config.Port),
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	s.logger.Info("HTTP server starting", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	s.logger.Info("Shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}
