package api

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/imobsite/listing-manager/internal/handlers"
	"github.com/imobsite/listing-manager/internal/logger"
	"github.com/imobsite/listing-manager/internal/metrics"
)

const corsMaxAgeHours = 12

// NewRouter wires the public and admin routes. The admin group is expected
// to sit behind the site's existing access boundary; no auth lives here.
func NewRouter(
	listingHandler *handlers.ListingHandler,
	importHandler *handlers.ImportHandler,
	corsOrigins []string,
	log logger.Logger,
) *gin.Engine {
	router := gin.New()

	router.Use(cors.New(cors.Config{
		AllowOrigins: corsOrigins,
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{
			"Origin", "Content-Type", "Content-Length", "Accept-Encoding",
			"Authorization", "accept", "origin", "Cache-Control", "X-Requested-With",
		},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           corsMaxAgeHours * time.Hour,
	}))

	router.Use(ginLogger(log))
	router.Use(gin.Recovery())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	v1 := router.Group("/api/v1")

	// Public site
	v1.GET("/listings", listingHandler.Search)
	v1.GET("/listings/:id", listingHandler.GetByID)

	// Admin area
	admin := v1.Group("/admin")
	admin.GET("/listings", listingHandler.AdminList)
	admin.GET("/listings/:id", listingHandler.GetByID)
	admin.POST("/listings", listingHandler.Create)
	admin.PUT("/listings/:id", listingHandler.Update)
	admin.DELETE("/listings/:id", listingHandler.Delete)
	admin.PUT("/listings/:id/featured", listingHandler.SetFeatured)
	admin.PUT("/listings/:id/photos/principal", listingHandler.SetPrincipal)
	admin.PUT("/listings/:id/photos/secondary", listingHandler.PromoteSecondary)
	admin.DELETE("/listings/:id/photos", listingHandler.RemovePhoto)
	admin.POST("/sync", importHandler.Sync)
	admin.POST("/import", importHandler.ImportSpreadsheet)

	return router
}

func ginLogger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		duration := time.Since(start)
		statusCode := c.Writer.Status()

		log.Info("HTTP request",
			logger.String("method", method),
			logger.String("path", path),
			logger.Int("status_code", statusCode),
			logger.String("client_ip", c.ClientIP()),
			logger.Duration("duration", duration),
		)
	}
}
