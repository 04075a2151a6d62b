package health

import (
	"context"
	"time"

	"google.golang.org/grpc"
	grpchealth "google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"

	"palava-proof/pkg/logger"
)

// ServiceName is the service name reported alongside the overall status
const ServiceName = "palava.v1.PalavaProof"

// DefaultInterval is how often dependencies are probed
const DefaultInterval = 10 * time.Second

// Pinger is a dependency whose reachability decides serving status
type Pinger interface {
	Ping(ctx context.Context) error
}

// Checker keeps a gRPC health server in sync with its dependencies
type Checker struct {
	server   *grpchealth.Server
	deps     map[string]Pinger
	interval time.Duration
	logger   *logger.Logger
}

// NewChecker creates a health checker over the named dependencies.
// Nil dependencies are skipped.
func NewChecker(deps map[string]Pinger, interval time.Duration, log *logger.Logger) *Checker {
	if interval <= 0 {
		interval = DefaultInterval
	}
	live := make(map[string]Pinger, len(deps))
	for name, p := range deps {
		if p != nil {
			live[name] = p
		}
	}

	c := &Checker{
		server:   grpchealth.NewServer(),
		deps:     live,
		interval: interval,
		logger:   log.WithComponent("grpc-health"),
	}
	c.setStatus(grpc_health_v1.HealthCheckResponse_SERVING)
	return c
}

// Register attaches the health service to a gRPC server
func (c *Checker) Register(s *grpc.Server) {
	grpc_health_v1.RegisterHealthServer(s, c.server)
}

// Server returns the underlying health server
func (c *Checker) Server() *grpchealth.Server {
	return c.server
}

// CheckOnce probes every dependency and updates the serving status.
// It returns the names of failing dependencies.
func (c *Checker) CheckOnce(ctx context.Context) []string {
	var failing []string
	for name, p := range c.deps {
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		err := p.Ping(pingCtx)
		cancel()
		if err != nil {
			c.logger.Warn().Err(err).Str("dependency", name).Msg("health probe failed")
			failing = append(failing, name)
		}
	}

	if len(failing) == 0 {
		c.setStatus(grpc_health_v1.HealthCheckResponse_SERVING)
	} else {
		c.setStatus(grpc_health_v1.HealthCheckResponse_NOT_SERVING)
	}
	return failing
}

// Run probes dependencies every interval until ctx is cancelled, then
// marks the service as shutting down
func (c *Checker) Run(ctx context.Context) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	c.CheckOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			c.server.Shutdown()
			return
		case <-ticker.C:
			c.CheckOnce(ctx)
		}
	}
}

func (c *Checker) setStatus(status grpc_health_v1.HealthCheckResponse_ServingStatus) {
	c.server.SetServingStatus("", status)
	c.server.SetServingStatus(ServiceName, status)
}
