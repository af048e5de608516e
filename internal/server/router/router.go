package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/dairy/internal/server/handlers"
)

// Handlers groups every HTTP adapter the router mounts.
type Handlers struct {
	Entries    *handlers.EntryHandler
	Customers  *handlers.CustomerHandler
	Extensions *handlers.ExtensionHandler
	Products   *handlers.ProductHandler
	Prices     *handlers.PriceHandler
	Reports    *handlers.ReportHandler
	Jobs       *handlers.JobHandler
}

// New wires the Gin engine with required routes and middlewares.
func New(h Handlers, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	api := r.Group("/api")

	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api.GET("/extensions", h.Extensions.List)
	api.POST("/extensions", h.Extensions.Create)
	api.PUT("/extensions/:id", h.Extensions.Update)
	api.DELETE("/extensions/:id", h.Extensions.Delete)

	api.GET("/customers", h.Customers.List)
	api.POST("/customers/extension/:extensionId", h.Customers.Create)
	api.GET("/customers/extension/:extensionId", h.Customers.ListByExtension)
	api.GET("/customers/:id", h.Customers.Get)
	api.PUT("/customers/:id", h.Customers.Update)
	api.DELETE("/customers/:id", h.Customers.Delete)

	api.GET("/products", h.Products.List)
	api.POST("/products", h.Products.Create)
	api.PUT("/products/:id", h.Products.Update)
	api.DELETE("/products/:id", h.Products.Delete)

	api.GET("/milk-prices", h.Prices.Get)
	api.PUT("/milk-prices", h.Prices.Update)

	api.GET("/milk-entries", h.Entries.List)
	api.POST("/milk-entries/customer/:customerId", h.Entries.Save)
	api.PUT("/milk-entries/customer/:customerId/date/:date", h.Entries.UpdateByDate)
	api.GET("/milk-entries/customer/:customerId", h.Entries.ListByCustomer)
	api.GET("/milk-entries/customer/:customerId/excel", h.Entries.ExportExcel)
	api.DELETE("/milk-entries/:id", h.Entries.Delete)

	api.GET("/reports/daily-sales", h.Reports.DailySales)
	api.GET("/reports/invoice/:customerId", h.Reports.Invoice)

	api.POST("/jobs/carry-forward", h.Jobs.RunCarryForward)
	api.POST("/jobs/archive", h.Jobs.RunArchive)

	if logger != nil {
		logger.Info("router initialized")
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

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
