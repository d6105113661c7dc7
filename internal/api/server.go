package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"shopmirror/internal/api/handlers"
	"shopmirror/internal/api/middleware"
	"shopmirror/internal/catalog"
	"shopmirror/internal/config"
	"shopmirror/internal/logger"
)

type Server struct {
	config *config.Config
	logger *logger.Logger
	router *gin.Engine
	server *http.Server
}

// Deps are the long-lived collaborators the route handlers close over. All
// of them are constructed once at process start.
type Deps struct {
	Store        *catalog.Store
	Resolver     *catalog.InventoryResolver
	Updater      *catalog.Updater
	Synchronizer *catalog.Synchronizer
	Remote       catalog.RemoteCatalog
}

func New(cfg *config.Config, logger *logger.Logger, deps Deps) *Server {
	// Set Gin mode
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.CORS())

	productHandler := handlers.NewProductHandler(deps.Store, deps.Resolver, deps.Updater, deps.Remote, logger)
	syncHandler := handlers.NewSyncHandler(deps.Synchronizer, logger)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Routes
	apiGroup := router.Group("/api")
	{
		products := apiGroup.Group("/products")
		{
			products.GET("", productHandler.List)
			products.GET("/:id", productHandler.Get)
			products.GET("/:id/inventory", productHandler.Inventory)
			products.PUT("/:id", productHandler.UpdatePrice)
			products.DELETE("/:id", productHandler.Delete)
			products.DELETE("/variants/:id", productHandler.DeleteVariant)
		}

		apiGroup.POST("/sync", syncHandler.Trigger)
	}

	return &Server{
		config: cfg,
		logger: logger,
		router: router,
	}
}

func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%s", s.config.APIHost, s.config.APIPort)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("Starting server on " + addr)
	return s.server.ListenAndServe()
}

func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Shutting down server...")
	return s.server.Shutdown(ctx)
}

// Router exposes the gin engine for handler tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}
