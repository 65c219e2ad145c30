package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HealthCheck reports whether the service can serve requests.
type HealthCheck func(ctx context.Context) error

func NewRouter(h *ForecastHandler, gatherer prometheus.Gatherer, health HealthCheck) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	r.GET("/healthz", func(c *gin.Context) {
		if health != nil {
			if err := health(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	accounts := r.Group("/v1/accounts/:account_id")
	{
		accounts.POST("/forecasts/regenerate", h.Regenerate)
		accounts.GET("/forecasts", h.ListForecasts)
		accounts.GET("/weights", h.GetWeights)
		accounts.PUT("/weights", h.UpdateWeights)
		accounts.POST("/payouts/confirm", h.ConfirmPayout)
		accounts.POST("/payouts/estimate", h.MarkEstimated)
		accounts.GET("/accuracy", h.GetAccuracy)
	}
	return r
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		if c.FullPath() == "/metrics" || c.FullPath() == "/healthz" {
			return
		}
		level := slog.LevelInfo
		if c.Writer.Status() >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		slog.Log(c.Request.Context(), level, "http request",
			"method", c.Request.Method,
			"route", c.FullPath(),
			"status", c.Writer.Status(),
			"account_id", c.Param("account_id"),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}
