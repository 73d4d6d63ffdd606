package api

import (
	"io/fs"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/shapedtime/marquee/internal/catalog"
	"github.com/shapedtime/marquee/internal/metrics"
	"github.com/shapedtime/marquee/internal/tmdb"
)

const requestIDHeader = "X-Request-ID"

// Options configures optional parts of the server.
type Options struct {
	AllowedOrigins []string
	Metrics        *metrics.Metrics // may be nil
	Web            fs.FS            // static front end; nil disables it
}

// Server represents the HTTP API server
type Server struct {
	router     *gin.Engine
	tmdbClient *tmdb.Client
	catalog    *catalog.Service
	metrics    *metrics.Metrics
	web        fs.FS
	log        *slog.Logger
}

// NewServer creates a new API server
func NewServer(tmdbClient *tmdb.Client, catalogSvc *catalog.Service, opts Options) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		router:     gin.New(),
		tmdbClient: tmdbClient,
		catalog:    catalogSvc,
		metrics:    opts.Metrics,
		web:        opts.Web,
		log:        slog.With("component", "api"),
	}

	s.setupMiddleware(opts.AllowedOrigins)
	s.setupRoutes()

	return s
}

func (s *Server) setupMiddleware(origins []string) {
	// Recovery middleware
	s.router.Use(gin.Recovery())

	// Request ID + logging middleware
	s.router.Use(func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Header(requestIDHeader, id)

		start := time.Now()
		c.Next()

		s.log.Info("API request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
			"request_id", id,
		)
	})

	s.router.Use(cors.New(corsConfig(origins)))
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders: []string{requestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

func (s *Server) setupRoutes() {
	api := s.router.Group("/api")

	// Forwarding handler
	api.GET("/tmdb", s.forward)

	// Catalog view models
	cat := api.Group("/catalog")
	cat.GET("/home", s.getHome)
	cat.GET("/movies", s.browse(tmdb.MediaMovie))
	cat.GET("/tv", s.browse(tmdb.MediaTV))
	cat.GET("/tv/:id/season/:season", s.getSeason)
	cat.GET("/search", s.search)
	cat.GET("/details", s.getDetails)

	// Status
	api.GET("/status", s.getStatus)

	s.router.NoRoute(s.noRoute())
}

// noRoute serves the front end for anything outside /api.
func (s *Server) noRoute() gin.HandlerFunc {
	var files http.Handler
	if s.web != nil {
		files = http.FileServer(http.FS(s.web))
	}

	return func(c *gin.Context) {
		if files == nil || strings.HasPrefix(c.Request.URL.Path, "/api/") || c.Request.Method != http.MethodGet {
			errorResponse(c, http.StatusNotFound, "Not found")
			return
		}
		files.ServeHTTP(c.Writer, c.Request)
	}
}

// Handler returns the HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) getStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":          "ok",
		"tmdb_configured": s.tmdbClient.IsConfigured(),
	})
}

// Error response helper
func errorResponse(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}
