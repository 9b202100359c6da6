package devserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/cinelab/cine/internal/config"
)

// Server wraps a gin engine exposing the backend wire contract:
// POST /api/initialize, GET /api/movies/search, GET /api/movies/popular,
// POST /api/recommendations, GET /api/health.
type Server struct {
	catalog *Catalog
	engine  *gin.Engine
}

func New(cfg *config.Config, catalog *Catalog) *Server {
	if cfg.Serve.Mode != "" {
		gin.SetMode(ginMode(cfg.Serve.Mode))
	}

	s := &Server{catalog: catalog}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(Logging())
	r.Use(CORS())

	apiGroup := r.Group("/api")
	{
		apiGroup.POST("/initialize", s.handleInitialize)
		apiGroup.GET("/movies/search", s.handleSearch)
		apiGroup.GET("/movies/popular", s.handlePopular)
		apiGroup.POST("/recommendations", s.handleRecommend)
		apiGroup.GET("/health", s.handleHealth)
	}

	s.engine = r
	return s
}

func ginMode(mode string) string {
	switch mode {
	case "debug":
		return gin.DebugMode
	case "test":
		return gin.TestMode
	default:
		return gin.ReleaseMode
	}
}

// Handler exposes the router for tests and custom servers.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) Run(addr string) error {
	return s.engine.Run(addr)
}

func (s *Server) handleInitialize(c *gin.Context) {
	if err := s.catalog.Initialize(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "System initialized successfully",
	})
}

func (s *Server) handleSearch(c *gin.Context) {
	if !s.requireInitialized(c) {
		return
	}

	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Query parameter is required"})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	c.JSON(http.StatusOK, gin.H{"movies": s.catalog.Search(query, limit)})
}

func (s *Server) handlePopular(c *gin.Context) {
	if !s.requireInitialized(c) {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	c.JSON(http.StatusOK, gin.H{"movies": s.catalog.Popular(limit)})
}

type recommendPayload struct {
	MovieTitle         string `json:"movie_title"`
	NumRecommendations int    `json:"num_recommendations"`
	Offset             int    `json:"offset"`
}

func (s *Server) handleRecommend(c *gin.Context) {
	if !s.requireInitialized(c) {
		return
	}

	var payload recommendPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if payload.MovieTitle == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Movie title is required"})
		return
	}
	if payload.NumRecommendations <= 0 {
		payload.NumRecommendations = 10
	}

	page, err := s.catalog.Recommend(payload.MovieTitle, payload.NumRecommendations, payload.Offset)
	if err != nil {
		var unknown *ErrUnknownSeed
		if errors.As(err, &unknown) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Movie not found or no recommendations available"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"recommendations": page})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"message": "Movie Recommendation API is running",
	})
}

func (s *Server) requireInitialized(c *gin.Context) bool {
	if !s.catalog.Initialized() {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "System not initialized"})
		return false
	}
	return true
}
