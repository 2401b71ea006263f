// README: API surface; registers routes and delegates to module services.
package http

import (
	"github.com/gin-gonic/gin"

	"ridematch/internal/config"
	"ridematch/internal/http/middleware"
	"ridematch/internal/modules/matching"
	"ridematch/internal/modules/registry"
)

type ServerDeps struct {
	Registry *registry.Registry
	Matching *matching.Service
	Config   config.MatchingConfig
}

type Server struct {
	registry *registry.Registry
	matching *matching.Service
	cfg      config.MatchingConfig
}

func NewServer(deps ServerDeps) *Server {
	return &Server{
		registry: deps.Registry,
		matching: deps.Matching,
		cfg:      deps.Config,
	}
}

func (s *Server) Routes() *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logging(), middleware.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	api := r.Group("/api")
	api.POST("/vehicles/update", s.handleVehicleUpdate)
	api.POST("/rides/quote", s.handleRideQuote)

	return r
}
