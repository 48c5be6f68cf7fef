package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/mealmancer/server/config"
	"github.com/mealmancer/server/internal/api"
	"github.com/mealmancer/server/internal/database"
	"github.com/mealmancer/server/internal/messages"
	"github.com/mealmancer/server/internal/middleware"
	"github.com/mealmancer/server/internal/service"
)

// Server is the assembled HTTP gateway.
type Server struct {
	router *gin.Engine
	http   *http.Server
	db     *gorm.DB
}

// New wires services, middleware and routes into a runnable server.
func New(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *Server {
	authService := service.NewAuthService(db, cfg.JWTSecret, cfg.SessionDuration)
	meteringService := service.NewMeteringService(db)
	recipeService := service.NewRecipeService(cfg.RecipeAPIURL, cfg.RecipeAPIPath)
	favoriteService := service.NewFavoriteService(db)
	statsService := service.NewStatsService(db)

	authHandler := api.NewAuthHandler(authService, meteringService)
	recipeHandler := api.NewRecipeHandler(recipeService, favoriteService, meteringService)
	adminHandler := api.NewAdminHandler(authService, meteringService, statsService)

	authLimiter := middleware.NewAuthRateLimiter(redisClient)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.AllowedOrigin))
	router.Use(middleware.Analytics(statsService, cfg.CountUnauthenticated))

	router.HandleMethodNotAllowed = true
	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, api.MessageResponse{Message: messages.PageNotFound})
	})
	router.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusNotImplemented, api.MessageResponse{Message: messages.BadRequest})
	})

	router.GET("/health", func(c *gin.Context) {
		if err := database.HealthCheck(c.Request.Context(), db); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/v1")

	v1.POST("/signup", authLimiter.Middleware(), authHandler.Signup)
	v1.POST("/login", authLimiter.Middleware(), authHandler.Login)
	v1.POST("/logout", authHandler.Logout)

	authed := v1.Group("")
	authed.Use(middleware.Auth(authService, meteringService))
	{
		authed.GET("/generate", recipeHandler.Generate)

		authed.GET("/favourites", recipeHandler.ListFavourites)
		authed.POST("/favourites", recipeHandler.AddFavourite)
		authed.DELETE("/favourites", recipeHandler.DeleteFavourite)

		admin := authed.Group("")
		admin.Use(middleware.RequireAdmin())
		{
			admin.GET("/users", adminHandler.ListUsers)
			admin.PUT("/users", adminHandler.UpdateTokens)
			admin.DELETE("/users", adminHandler.DeleteUser)
			admin.GET("/apiStats", adminHandler.ListCallStats)
		}
	}

	return &Server{
		router: router,
		db:     db,
		http: &http.Server{
			Addr:    cfg.ServerHost + ":" + cfg.ServerPort,
			Handler: router,
		},
	}
}

// Router exposes the gin engine, mainly for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Start runs the HTTP listener until Shutdown is called.
func (s *Server) Start() error {
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops accepting connections and drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
