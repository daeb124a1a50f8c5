package server

import (
	"embed"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"sync"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/df07/go-tiled-pathtracer/pkg/renderer"
	"github.com/df07/go-tiled-pathtracer/pkg/scene"
)

// Request limits shared by parsing and /api/scene-config
const (
	minImageSize = 8
	maxImageSize = 2000
	maxSamples   = 10000
	maxDepth     = 1000
	maxWorkers   = 256
)

//go:embed static
var staticFiles embed.FS

// Server handles web requests for the tiled path tracer
type Server struct {
	port int
	echo *echo.Echo

	mu       sync.Mutex
	sessions map[string]*session
}

// NewServer creates a new web server with all routes registered
func NewServer(port int) *Server {
	s := &Server{
		port:     port,
		sessions: make(map[string]*session),
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAccept},
	}))

	// Serve the bundled UI
	e.StaticFS("/", echo.MustSubFS(staticFiles, "static"))

	api := e.Group("/api")
	api.GET("/health", s.handleHealth)
	api.GET("/scenes", s.handleScenes)
	api.GET("/scene-config", s.handleSceneConfig)
	api.GET("/render", s.handleRender)
	api.GET("/sessions/:id/image", s.handleSessionImage)
	api.PATCH("/sessions/:id/camera", s.handleCameraUpdate)
	api.POST("/sessions/:id/move", s.handleMoveCamera)
	api.DELETE("/sessions/:id", s.handleCloseSession)

	s.echo = e
	return s
}

// Handler returns the HTTP handler serving every route
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start starts the web server
func (s *Server) Start() error {
	s.echo.Use(middleware.Logger())
	addr := fmt.Sprintf(":%d", s.port)
	log.Printf("Starting web server on http://localhost%s", addr)
	return s.echo.Start(addr)
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// handleScenes lists the built-in scenes grouped for the scene menu
func (s *Server) handleScenes(c echo.Context) error {
	return c.JSON(http.StatusOK, scene.ListAllScenes())
}

// handleSceneConfig returns the camera defaults of a scene and the request limits
func (s *Server) handleSceneConfig(c echo.Context) error {
	sceneName := c.QueryParam("scene")
	if sceneName == "" {
		sceneName = "default"
	}

	sceneObj, err := scene.Build(sceneName, scene.DefaultOptions())
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	config := renderer.DefaultConfig()
	return c.JSON(http.StatusOK, map[string]interface{}{
		"scene":      sceneName,
		"camera":     sceneObj.Camera,
		"width":      config.Width,
		"height":     config.Height,
		"workers":    renderer.DefaultWorkerCount(),
		"preview":    renderer.DefaultPreviewConfig(),
		"primitives": sceneObj.PrimitiveCount(),
		"limits": map[string]interface{}{
			"width":  map[string]int{"min": minImageSize, "max": maxImageSize},
			"height": map[string]int{"min": minImageSize, "max": maxImageSize},
			"spp":    map[string]int{"min": 1, "max": maxSamples},
			"depth":  map[string]int{"min": 1, "max": maxDepth},
		},
	})
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// parseFloatParam parses a float parameter from URL query with validation
func parseFloatParam(values url.Values, key string, defaultValue, min, max float64) (float64, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %f and %f, got: %f", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}
