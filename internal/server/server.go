package server

import (
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/LACRA/agritrace360/internal/auth"
	"github.com/LACRA/agritrace360/internal/config"
	"github.com/LACRA/agritrace360/internal/database"
	recordrouter "github.com/LACRA/agritrace360/internal/records/router"
	"github.com/LACRA/agritrace360/internal/ratelimit"
	"github.com/LACRA/agritrace360/internal/storage"
	verificationrouter "github.com/LACRA/agritrace360/internal/verification/router"
	"github.com/LACRA/agritrace360/utils"
)

// Deps are the components the HTTP API is assembled from.
type Deps struct {
	DB           *gorm.DB
	Records      *recordrouter.RecordRouter
	Verification *verificationrouter.VerificationRouter
	Archive      *storage.ArchiveService
	Accounts     *auth.AuthService
	Tokens       *auth.TokenManager
	Limiter      ratelimit.Limiter
}

// New builds the gin engine serving the API.
func New(cfg *config.Config, deps Deps) *gin.Engine {
	if cfg.Server.GinMode != "" {
		gin.SetMode(cfg.Server.GinMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger())
	if corsMiddleware := newCORS(cfg.CORS); corsMiddleware != nil {
		r.Use(corsMiddleware)
	}

	r.GET("/healthz", func(c *gin.Context) {
		if err := database.HealthCheck(deps.DB); err != nil {
			slog.WarnContext(c.Request.Context(), "health check failed", "error", err)
			utils.WriteErrorCode(c, http.StatusServiceUnavailable, utils.CodeUnavailable, "database unavailable")
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	api.Use(auth.Middleware(deps.Accounts, deps.Tokens))

	deps.Records.Register(api, auth.RequireAuth())
	deps.Verification.Register(api, ratelimit.Middleware(deps.Limiter, ratelimit.MiddlewareConfig{
		Route:      "verifications",
		Requests:   cfg.RateLimit.Requests,
		Window:     cfg.RateLimit.Window(),
		FailClosed: cfg.RateLimit.FailClosed,
	}))
	if deps.Archive != nil {
		api.GET("/archive/:key", storage.NewHTTPHandler(deps.Archive).HandleDownload)
	}
	return r
}

// newCORS translates CORSConfig; it returns nil when no origin is allowed.
func newCORS(c config.CORSConfig) gin.HandlerFunc {
	if len(c.AllowedOrigins) == 0 {
		return nil
	}
	corsConfig := cors.DefaultConfig()
	if slices.Contains(c.AllowedOrigins, "*") {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = c.AllowedOrigins
	}
	if len(c.AllowedMethods) > 0 {
		corsConfig.AllowMethods = c.AllowedMethods
	}
	corsConfig.AddAllowHeaders(c.AllowedHeaders...)
	corsConfig.AddExposeHeaders("Content-Disposition", "RateLimit-Limit", "RateLimit-Remaining", "RateLimit-Reset", "Retry-After")
	corsConfig.AllowCredentials = c.AllowCredentials
	corsConfig.MaxAge = time.Duration(c.MaxAge) * time.Second
	return cors.New(corsConfig)
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		level := slog.LevelInfo
		if c.Writer.Status() >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		slog.Log(c.Request.Context(), level, "http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		)
	}
}
