package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/badalku27/WhatsApp-Web-Clone/config"
	"github.com/badalku27/WhatsApp-Web-Clone/internal/handler"
	"github.com/badalku27/WhatsApp-Web-Clone/internal/middleware"
	"github.com/badalku27/WhatsApp-Web-Clone/internal/redis"
	"github.com/badalku27/WhatsApp-Web-Clone/internal/transport/httpdto"
	websockethandler "github.com/badalku27/WhatsApp-Web-Clone/internal/websocket"
	"github.com/badalku27/WhatsApp-Web-Clone/pkg/logger"

	"github.com/gin-gonic/gin"
)

type Server struct {
	httpServer *http.Server
	engine     *gin.Engine
	config     *config.Config
	logger     *logger.Logger
}

var (
	ReleaseMode = "release"
	DebugMode   = "debug"
	TestMode    = "test"
)

type Handlers struct {
	Chat    *handler.ChatHandler
	Message *handler.MessageHandler
	Status  *handler.StatusHandler
	User    *handler.UserHandler
	Ingest  *handler.IngestHandler
	Admin   *handler.AdminHandler
	WS      *websockethandler.Handler
}

func New(cfg *config.Config, l *logger.Logger) *Server {
	if cfg.AppMode == ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	} else if cfg.AppMode == TestMode {
		gin.SetMode(gin.TestMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())

	return &Server{
		httpServer: &http.Server{
			Addr:    fmt.Sprintf(":%s", cfg.AppPort),
			Handler: engine,
		},
		engine: engine,
		config: cfg,
		logger: l,
	}
}

// SetupRoutes wires the REST and websocket surface. A nil limiter
// disables rate limiting on mutating endpoints.
func (s *Server) SetupRoutes(handlers *Handlers, limiter *redis.RateLimiter) {
	s.engine.Use(middleware.RequestIDMiddleware())
	s.engine.Use(middleware.CORSMiddleware(s.config.CORSOrigin))
	s.engine.Use(middleware.LoggingMiddleware(s.logger))
	s.engine.Use(middleware.ErrorHandler(s.logger))

	s.engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"message": "pong"}))
	})

	limited := middleware.SendRateLimitMiddleware(limiter)

	api := s.engine.Group("/api")
	{
		api.GET("/health", handlers.Admin.Health)
		api.GET("/admin/cluster", handlers.Admin.Cluster)

		api.GET("/chats", handlers.Chat.List)
		api.DELETE("/chats/:wa_id", handlers.Chat.Delete)
		api.GET("/conversations/:wa_id", handlers.Message.GetConversation)

		api.POST("/messages/send", limited, handlers.Message.Send)
		api.GET("/messages/:wa_id", handlers.Message.List)
		api.POST("/messages", limited, handlers.Message.Insert)

		api.POST("/payloads/ingest", handlers.Ingest.Ingest)

		api.GET("/status", handlers.Status.List)
		api.POST("/status", limited, handlers.Status.Post)
		api.POST("/status/upload", limited, handlers.Status.PostUpload)
		api.DELETE("/status/:wa_id", handlers.Status.DeleteCollection)
		api.DELETE("/status/:wa_id/items/:id", handlers.Status.DeleteItem)

		api.POST("/users/profilePic", limited, handlers.User.UploadProfilePic)
		api.POST("/users/profilePic/url", limited, handlers.User.SetProfilePicURL)
		api.DELETE("/users/:wa_id/profilePic", handlers.User.ClearProfilePic)
	}

	s.engine.GET("/ws", handlers.WS.Connect)

	// Uploaded media is served from local disk unless S3 is active.
	if !s.config.S3Enabled() {
		s.engine.Static("/uploads", s.config.UploadDir)
	}
}

func (s *Server) Start() error {
	go func() {
		if s.logger != nil {
			s.logger.Infof("Starting the server on port %s...", s.config.AppPort)
		}
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			if s.logger != nil {
				s.logger.Errorf("Error in starting the server: %s", err)
			}
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	if s.logger != nil {
		s.logger.Infof("Server is running on :%s", s.config.AppPort)
	}

	<-quit

	if s.logger != nil {
		s.logger.Infof("Quitting signal received.. Shutting down after 5 seconds")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		if s.logger != nil {
			s.logger.Infof("Error in the graceful shutdown of the server: %s", err)
		}
		return err
	}

	if s.logger != nil {
		s.logger.Infof("Server stopped gracefully")
	}

	return nil
}
