// Package api provides the REST API server for chordkit
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/james-see/chordkit/pkg/config"
	"github.com/james-see/chordkit/pkg/converter"
	"github.com/james-see/chordkit/pkg/logger"
	"github.com/rs/cors"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const shutdownTimeout = 5 * time.Second

// @title chordkit API
// @version 1.0
// @description Chord identification, naming and MIDI conversion
// @host localhost:8080
// @BasePath /api/v1

// Server holds the handlers' shared state
type Server struct {
	cfg       *config.Config
	converter *converter.Converter
}

// NewServer creates a Server whose MIDI rendering follows cfg
func NewServer(cfg *config.Config) *Server {
	return &Server{cfg: cfg, converter: converter.New(cfg.Voicing())}
}

// Router builds the gin engine with all routes and middleware
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if s.cfg.SentryDSN != "" {
		r.Use(sentryMiddleware())
	}
	r.Use(requestTracking())

	r.GET("/health", healthCheck)

	v1 := r.Group("/api/v1")
	{
		v1.GET("/health", healthCheck)
		v1.GET("/qualities", listQualities)
		v1.GET("/chord", describeChord)
		v1.GET("/chord/transpose", transposeChord)
		v1.POST("/chord/identify", identifyChord)
		v1.GET("/scales/:root/:mode", describeScale)
		v1.GET("/formats", listFormats)
		v1.POST("/convert/midi2chords", s.handleMIDIToChords)
		v1.POST("/convert/chords2midi", s.handleChordsToMIDI)
	}

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// Handler wraps the router with CORS handling
func (s *Server) Handler() http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		ExposedHeaders: []string{requestIDHeader, "Content-Disposition"},
	})
	return c.Handler(s.Router())
}

// Run serves the API until ctx is cancelled, then shuts down gracefully
func Run(ctx context.Context, cfg *config.Config) error {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           NewServer(cfg).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("API server listening", logger.Fields{"port": cfg.Port, "environment": cfg.Environment})
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		logger.Info("API server shutting down", nil)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// healthCheck godoc
// @Summary Health check endpoint
// @Description Returns the health status of the API
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "chordkit",
	})
}

// listFormats godoc
// @Summary List supported formats
// @Description Returns the supported progression formats and conversions
// @Tags info
// @Produce json
// @Success 200 {object} map[string][]string
// @Router /api/v1/formats [get]
func listFormats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"formats":     []string{string(converter.FormatMIDI), string(converter.FormatText)},
		"conversions": converter.GetSupportedConversions(),
	})
}
