package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "bolx/docs"
	"bolx/internal/handler"
	"bolx/internal/middleware"
	"bolx/internal/service"
)

// Options selects optional router behavior.
type Options struct {
	// Tokens guards /api/v1 when non-nil.
	Tokens         service.TokenService
	AllowedOrigins []string
	MaxUploadBytes int64
}

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	opts Options,
	extractH *handler.ExtractHandler,
	batchH *handler.BatchHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()
	if opts.MaxUploadBytes > 0 {
		r.MaxMultipartMemory = opts.MaxUploadBytes
	}

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(opts.AllowedOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")
	if opts.Tokens != nil {
		v1.Use(middleware.AuthMiddleware(opts.Tokens))
	}

	v1.POST("/extract", extractH.Extract)

	batches := v1.Group("/batches")
	batches.POST("", batchH.Create)
	batches.GET("", batchH.List)
	batches.GET("/:id", batchH.Get)
	batches.GET("/:id/records", batchH.Records)
	batches.GET("/:id/export", batchH.Export)

	return r
}
