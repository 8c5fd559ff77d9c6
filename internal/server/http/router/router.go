package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"
	"go.uber.org/fx"

	"github.com/polkiloo/bloomorders/internal/config"
	"github.com/polkiloo/bloomorders/internal/server/http/handlers"
	"github.com/polkiloo/bloomorders/internal/server/http/middleware"
)

// Params collects router dependencies.
type Params struct {
	fx.In

	Facade    handlers.ShopFacade
	Logger    *slog.Logger
	Config    *config.Config
	Validator *validatorv10.Validate
}

// Setup configures gin router with handlers and middleware.
func Setup(p Params) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	if p.Config.MaxUploadSize > 0 {
		engine.MaxMultipartMemory = p.Config.MaxUploadSize
	}

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestID())
	engine.Use(middleware.RequestLogger(p.Logger))
	// The limit wraps the inflated body, so it must follow decompression.
	engine.Use(middleware.DecompressRequest())
	engine.Use(middleware.LimitBody(p.Config.MaxUploadSize))
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	sessionHandler := handlers.NewSessionHandler(p.Facade)
	orderHandler := handlers.NewOrderHandler(p.Facade, p.Validator, p.Config.DisplayLocation)
	importHandler := handlers.NewImportHandler(p.Facade)
	healthHandler := handlers.NewHealthHandler(p.Facade)

	engine.GET("/healthz", healthHandler.Check)

	api := engine.Group("/api")
	api.POST("/session", sessionHandler.Login)
	api.DELETE("/session", sessionHandler.Logout)

	orders := api.Group("/orders")
	orders.Use(middleware.StaffRequired(p.Facade))
	orders.GET("", orderHandler.List)
	orders.POST("", orderHandler.Create)
	orders.POST("/import", importHandler.Import)
	orders.GET("/:id", orderHandler.Get)
	orders.PUT("/:id", orderHandler.Update)
	orders.DELETE("/:id", orderHandler.Delete)

	return engine
}
