package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vprokhorov/airbook/api"
	"github.com/vprokhorov/airbook/config"
	"github.com/vprokhorov/airbook/internal/auth"
	"github.com/vprokhorov/airbook/internal/ratelimit"
	"github.com/vprokhorov/airbook/internal/service/flights"
	"github.com/vprokhorov/airbook/internal/service/orders"
)

// Run starts the HTTP server and blocks until the context is canceled or
// the server fails.
func Run(ctx context.Context, cfg *config.Config, flightSvc flights.FlightUseCase, orderSvc orders.OrderUseCase) error {
	httpServer := &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: newRouter(cfg, flightSvc, orderSvc),
	}

	errCh := make(chan error, 1)
	go func() { errCh <- httpServer.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}

func newRouter(cfg *config.Config, flightSvc flights.FlightUseCase, orderSvc orders.OrderUseCase) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	if cfg.RateLimit.RequestsPerSecond > 0 {
		limiter := ratelimit.NewClientLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
		router.Use(limiter.Middleware())
	}

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")

	flightHandler := api.NewFlightHandler(flightSvc)
	flightHandler.Register(v1.Group("/flights"))

	orderGroup := v1.Group("/orders")
	orderGroup.Use(auth.Middleware(cfg.Auth.Secret))
	orderHandler := api.NewOrderHandler(orderSvc)
	orderHandler.Register(orderGroup)

	return router
}
