// Package api serves guesses over HTTP.
package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/shapedtime/guessit/internal/cache"
	"github.com/shapedtime/guessit/internal/config"
	"github.com/shapedtime/guessit/internal/guess"
)

// Server represents the REST API server
type Server struct {
	router  *gin.Engine
	guesser *guess.API
	cache   *cache.Store // nil disables caching
	started time.Time
	log     zerolog.Logger
}

// NewServer creates a new API server. store may be nil.
func NewServer(guesser *guess.API, store *cache.Store) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		router:  gin.New(),
		guesser: guesser,
		cache:   store,
		started: time.Now(),
		log:     log.Logger.With().Str("component", "api").Logger(),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// Configure applies a reloaded configuration and drops cached results
// computed with the previous rule set.
func (s *Server) Configure(cfg *config.Config) error {
	if err := s.guesser.Configure(cfg); err != nil {
		return err
	}
	if s.cache != nil {
		if err := s.cache.Purge(); err != nil {
			s.log.Warn().Err(err).Msg("purging cache")
		}
	}
	s.log.Info().Msg("configuration reloaded")
	return nil
}

func (s *Server) setupMiddleware() {
	s.router.Use(gin.CustomRecovery(func(c *gin.Context, err any) {
		s.log.Error().Interface("panic", err).Str("path", c.Request.URL.Path).Msg("handler panic")
		errorResponse(c, http.StatusInternalServerError, "internal error")
	}))

	s.router.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Msg("API request")
	})
}

func (s *Server) setupRoutes() {
	api := s.router.Group("/api")

	api.GET("/guess", s.getGuess)
	api.POST("/guess", s.postGuess)
	api.GET("/properties", s.getProperties)
	api.GET("/status", s.getStatus)
}

// Handler returns the HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Error response helper
func errorResponse(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, Error{Error: message})
}
