package router

import (
	"context"
	"net/http"
	"time"

	apphttp "marmurfit_voicebot/internal/http"
	"marmurfit_voicebot/platform/httpkit"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const healthText = "OK - MARMURFIT Voice Bot"

// New builds the gin engine and mounts every module.
func New(app *apphttp.App) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(httpkit.RequestID())
	engine.Use(httpkit.RequestLogger(app.Logger))
	engine.Use(httpkit.SecurityHeaders())

	engine.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, healthText)
	})
	engine.GET("/api/health", healthHandler(app.Health))

	api := engine.Group("/api")
	if origins := app.Config.GetCORSOrigins(); len(origins) > 0 {
		api.Use(corsMiddleware(origins))
	}
	v1 := api.Group("/v1")

	limiter := httpkit.NewIPRateLimiter(rate.Limit(app.Config.GetRateLimitRPS()), app.Config.GetRateLimitBurst(), app.Logger)
	voice := engine.Group("/voice")
	voice.Use(limiter.RateLimit())

	ctx := &apphttp.RouterContext{
		Engine: engine,
		V1:     v1,
		Voice:  voice,
	}
	for _, m := range app.Modules {
		m.RegisterRoutes(ctx)
		app.Logger.Debug("module routes registered", "module", m.Name())
	}

	return engine
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", httpkit.HeaderRequestID},
		ExposeHeaders:    []string{httpkit.HeaderRequestID},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	})
}

func healthHandler(health apphttp.HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		if health != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := health.Ping(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": "unreachable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
