package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/stockdesk/internal/server/handlers"
)

// Handlers groups the HTTP adapters mounted by the router.
type Handlers struct {
	Inventory *handlers.InventoryHandler
	Workspace *handlers.WorkspaceHandler
	Catalog   *handlers.CatalogHandler
	Alerts    *handlers.AlertHandler
	Metrics   http.Handler
}

// New wires the Gin engine with required routes and middlewares.
func New(h Handlers, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if h.Metrics != nil {
		r.GET("/metrics", gin.WrapH(h.Metrics))
	}

	api := r.Group("/api")

	inv := api.Group("/inventory")
	inv.GET("", h.Inventory.List)
	inv.GET("/:id", h.Inventory.Get)
	inv.GET("/:id/preview", h.Inventory.Preview)
	inv.PUT("/:id/stock", h.Inventory.UpdateStock)
	inv.GET("/:id/history", h.Inventory.History)

	ws := api.Group("/workspace")
	ws.GET("", h.Workspace.Get)
	ws.DELETE("", h.Workspace.Reset)
	ws.POST("/toggle-all", h.Workspace.ToggleAll)
	ws.POST("/selection/:id/toggle", h.Workspace.Toggle)
	ws.POST("/items/load", h.Workspace.LoadItems)
	ws.PATCH("/items/:id", h.Workspace.UpdateItem)
	ws.POST("/quick-fill", h.Workspace.QuickFill)
	ws.POST("/preview", h.Workspace.Preview)
	ws.POST("/submit", h.Workspace.Submit)

	api.GET("/units", h.Catalog.ListUnits)
	api.POST("/units", h.Catalog.AddUnit)
	api.POST("/units/reload", h.Catalog.ReloadUnits)
	api.DELETE("/units/:unit", h.Catalog.RemoveUnit)

	prod := api.Group("/products")
	prod.GET("/lookups", h.Catalog.Lookups)
	prod.GET("/subcategories", h.Catalog.Subcategories)
	prod.POST("/validate", h.Catalog.Validate)
	prod.PUT("/:id", h.Catalog.UpdateProduct)

	api.GET("/reports/low-stock", h.Alerts.Digest)
	api.POST("/reports/low-stock", h.Alerts.RunDigest)
	api.POST("/alerts/send", h.Alerts.SendMessage)

	if logger != nil {
		logger.Info("router initialized", zap.Int("routes", len(r.Routes())))
	}

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if user := c.GetHeader(handlers.UserHeader); user != "" {
			fields = append(fields, zap.String("user", user))
		}
		logger.Info("request completed", fields...)
	}
}
