package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/suPer8Hu/dxcases/internal/ai"
	"github.com/suPer8Hu/dxcases/internal/cases"
	"github.com/suPer8Hu/dxcases/internal/common"
	"github.com/suPer8Hu/dxcases/internal/config"
	"github.com/suPer8Hu/dxcases/internal/httpapi/handlers"
	"github.com/suPer8Hu/dxcases/internal/httpapi/middleware"
	"github.com/suPer8Hu/dxcases/internal/store/redisstore"
)

// NewRouter builds the API. rds and jobs are optional.
func NewRouter(db *gorm.DB, cfg config.Config, rds *redisstore.Store, client ai.Client, jobs cases.Publisher) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	// ClientIP keys the rate limiter, so forwarded headers count only from known proxies.
	if err := r.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		log.WithError(err).Warn("invalid TRUSTED_PROXIES, trusting no proxy")
		_ = r.SetTrustedProxies(nil)
	}
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())

	r.NoRoute(func(c *gin.Context) {
		common.Fail(c, http.StatusNotFound, 40400, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		common.Fail(c, http.StatusMethodNotAllowed, 40500, "method not allowed")
	})

	h := handlers.NewHandler(db, cfg, rds, client, jobs)

	r.GET("/ping", h.Ping)

	api := r.Group("/api")

	// AI endpoints, rate limited per client
	limited := api.Group("/")
	limited.Use(middleware.RateLimit(rds, "ai", cfg.AIRateLimit))
	limited.POST("/conversation", h.Conversation)
	limited.POST("/moderate", h.Moderate)
	limited.POST("/generate-image-from-summary", h.GenerateImageFromSummary)
	limited.POST("/analyze", h.Analyze)
	limited.POST("/generate-image", h.GenerateImage)

	// gallery
	api.POST("/cases", middleware.RateLimit(rds, "submit", cfg.AIRateLimit), h.SubmitCase)
	api.GET("/cases", h.ListCases)
	api.GET("/cases/:id", h.GetCase)
	api.GET("/tags", h.ListTags)

	// admin
	api.POST("/admin/login", h.AdminLogin)
	admin := api.Group("/admin")
	admin.Use(middleware.AuthRequired(cfg.JWTSecret))
	admin.GET("/cases", h.ListCases)
	admin.GET("/cases/:id", h.GetCase)
	admin.PUT("/cases/:id", h.AdminUpdateCase)
	admin.DELETE("/cases/:id", h.AdminDeleteCase)
	admin.POST("/cases/:id/illustration", h.RequestIllustration)
	admin.GET("/moderation-logs", h.AdminModerationLogs)
	admin.GET("/jobs/:job_id", h.GetJob)
	admin.POST("/jobs/:job_id/retry", h.RetryJob)
	return r
}
