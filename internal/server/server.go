package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mikey/phishing-detector/internal/config"
	"github.com/mikey/phishing-detector/internal/handler"
	"github.com/mikey/phishing-detector/internal/metrics"
)

// Server is the HTTP API server for the phishing detector
type Server struct {
	httpServer *http.Server
	logger     *zap.Logger
}

// New creates a new API server with routing, CORS and metrics wired up
func New(
	cfg *config.Config,
	detectionHandler *handler.DetectionHandler,
	m *metrics.Metrics,
	logger *zap.Logger,
) (*Server, error) {
	serverCfg := cfg.GetServer()

	readTimeout, err := time.ParseDuration(serverCfg.ReadTimeout)
	if err != nil {
		return nil, fmt.Errorf("invalid server read timeout: %w", err)
	}
	writeTimeout, err := time.ParseDuration(serverCfg.WriteTimeout)
	if err != nil {
		return nil, fmt.Errorf("invalid server write timeout: %w", err)
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	router.Use(recoveryMiddleware(logger))
	router.Use(corsMiddleware())
	router.Use(m.Middleware())

	router.GET("/health", detectionHandler.Health)
	router.POST("/predict", detectionHandler.Predict)
	router.POST("/analyze", detectionHandler.Analyze)
	router.GET("/metrics", gin.WrapH(m.Handler()))

	return &Server{
		httpServer: &http.Server{
			Addr:         serverCfg.ListenAddress,
			Handler:      router,
			ReadTimeout:  readTimeout,
			WriteTimeout: writeTimeout,
		},
		logger: logger,
	}, nil
}

// Start begins serving requests in a background goroutine
func (s *Server) Start() error {
	s.logger.Info("Starting API server", zap.String("address", s.httpServer.Addr))

	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	return nil
}

// Stop shuts the server down gracefully
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Shutting down API server")
	return s.httpServer.Shutdown(ctx)
}

// recoveryMiddleware converts panics into a 500 JSON response so a single
// bad request can never crash the serving process.
func recoveryMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.Error("Recovered from panic", zap.Any("panic", recovered))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error": fmt.Sprintf("%v", recovered),
		})
	})
}

// corsMiddleware allows the browser frontend to call the API directly
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
