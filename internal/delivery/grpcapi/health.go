package grpcapi

import (
	"context"
	"log/slog"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is the name the forecast service reports health under, next to
// the overall "" entry.
const ServiceName = "payout.forecast.v1.ForecastService"

// HealthReporter serves grpc.health.v1 and keeps its status in sync with a
// dependency check.
type HealthReporter struct {
	server   *health.Server
	check    func(ctx context.Context) error
	interval time.Duration
}

func NewHealthReporter(check func(ctx context.Context) error, interval time.Duration) *HealthReporter {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	s := health.NewServer()
	s.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	s.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)
	return &HealthReporter{server: s, check: check, interval: interval}
}

func (h *HealthReporter) Register(s *grpc.Server) {
	healthpb.RegisterHealthServer(s, h.server)
}

func (h *HealthReporter) Server() healthpb.HealthServer {
	return h.server
}

// Update runs the check once and publishes the result.
func (h *HealthReporter) Update(ctx context.Context) {
	status := healthpb.HealthCheckResponse_SERVING
	if h.check != nil {
		checkCtx, cancel := context.WithTimeout(ctx, h.interval)
		err := h.check(checkCtx)
		cancel()
		if err != nil {
			slog.Warn("health check failed", "error", err)
			status = healthpb.HealthCheckResponse_NOT_SERVING
		}
	}
	h.server.SetServingStatus("", status)
	h.server.SetServingStatus(ServiceName, status)
}

// Run updates the status every interval until ctx is done, then marks the
// service as shutting down.
func (h *HealthReporter) Run(ctx context.Context) {
	h.Update(ctx)
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			h.Update(ctx)
		case <-ctx.Done():
			h.server.Shutdown()
			return
		}
	}
}
