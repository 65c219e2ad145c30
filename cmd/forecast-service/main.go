package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/LavaJover/shvark-payout-forecast/internal/app/setup"
	"github.com/LavaJover/shvark-payout-forecast/internal/config"
	"github.com/LavaJover/shvark-payout-forecast/internal/delivery/grpcapi"
	"github.com/LavaJover/shvark-payout-forecast/internal/delivery/http/handlers"
	"github.com/LavaJover/shvark-payout-forecast/internal/infrastructure/logger"
	"github.com/LavaJover/shvark-payout-forecast/internal/infrastructure/tracing"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"google.golang.org/grpc"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("failed to load .env")
	}
	// Reading config
	cfg := config.MustLoad()

	_, logCloser, err := logger.New(cfg.LogConfig)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logCloser.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Init(cfg.Tracing, cfg.Env)
	if err != nil {
		log.Fatalf("failed to init tracing: %v", err)
	}

	deps, err := setup.InitializeDependencies(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to init dependencies: %v", err)
	}
	defer deps.Close()

	ucs := setup.InitializeUseCases(deps)

	// Hot reload of the forecast section
	stopWatch, err := config.Watch(config.Path(), deps.Defaults, func(d config.ForecastDefaults) {
		slog.Info("forecast defaults reloaded",
			"horizon_days", d.HorizonDays,
			"lookback_days", d.LookbackDays,
			"min_payouts", d.MinPayouts,
			"accuracy_window", d.AccuracyWindow,
		)
	})
	if err != nil {
		slog.Warn("config watch disabled", "error", err)
	} else {
		defer stopWatch()
	}

	// gRPC health
	grpcServer := grpc.NewServer()
	healthReporter := grpcapi.NewHealthReporter(deps.Ping, 10*time.Second)
	healthReporter.Register(grpcServer)
	go healthReporter.Run(ctx)

	lis, err := net.Listen("tcp", fmt.Sprintf("%s:%s", cfg.GRPCServer.Host, cfg.GRPCServer.Port))
	if err != nil {
		log.Fatalf("failed to listen: %v", err)
	}
	go func() {
		slog.Info("gRPC server started", "addr", lis.Addr().String())
		if err := grpcServer.Serve(lis); err != nil {
			slog.Error("gRPC server stopped", "error", err)
		}
	}()

	// HTTP API
	if cfg.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := handlers.NewRouter(handlers.NewForecastHandler(ucs.ForecastUsecase), prometheus.DefaultGatherer, deps.Ping)
	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.HTTPServer.Host, cfg.HTTPServer.Port),
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.ReadTimeout,
		WriteTimeout: cfg.HTTPServer.WriteTimeout,
	}
	go func() {
		slog.Info("HTTP server started", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server stopped", "error", err)
			stop()
		}
	}()

	// Nightly regeneration and payout-confirmed consumer
	tasks := setup.InitializeBackgroundTasks(deps, ucs)
	tasks.StartAll(ctx)

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP shutdown failed", "error", err)
	}
	grpcServer.GracefulStop()
	tasks.Wait()
	if err := shutdownTracing(shutdownCtx); err != nil {
		slog.Error("tracing shutdown failed", "error", err)
	}
}
