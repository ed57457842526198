package grpc_control

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"easykaiko/src/config"
	"easykaiko/src/logger"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is the health service name reported for the relay.
const ServiceName = "easykaiko.Relay"

// DefaultCheckInterval is how often relay status is pushed to the health service.
const DefaultCheckInterval = 5 * time.Second

// StatusReporter is implemented by relay.Relay.
type StatusReporter interface {
	RunningSources() int
}

// -----------------------------------------------------------------------------
// GRPCService handles gRPC server lifecycle
// -----------------------------------------------------------------------------

type GRPCService struct {
	Name          string
	CheckInterval time.Duration

	server   *grpc.Server
	listener net.Listener
	health   *health.Server
	config   *config.Config
	logger   *logger.Logger
	relay    StatusReporter

	mu      sync.Mutex
	running bool
	stop    chan struct{}
	done    sync.WaitGroup
}

// -----------------------------------------------------------------------------

// NewGRPCService listens on the configured host and port.
func NewGRPCService(config *config.Config, logger *logger.Logger, relay StatusReporter) (*GRPCService, error) {
	address := fmt.Sprintf("%s:%d", config.GRPC_Host, config.GRPC_Port)

	listener, err := net.Listen("tcp", address)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", address, err)
	}

	healthServer := health.NewServer()
	server := grpc.NewServer()
	grpc_health_v1.RegisterHealthServer(server, healthServer)

	return &GRPCService{
		Name:          "GRPCHealthService",
		CheckInterval: DefaultCheckInterval,
		server:        server,
		listener:      listener,
		health:        healthServer,
		config:        config,
		logger:        logger,
		relay:         relay,
	}, nil
}

// -----------------------------------------------------------------------------

// Start serves in the background and keeps the health status in sync with
// the relay until Stop.
func (g *GRPCService) Start() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.running {
		return fmt.Errorf("%s already running", g.Name)
	}
	g.running = true
	g.stop = make(chan struct{})

	g.UpdateStatus()

	g.done.Add(2)
	go func() {
		defer g.done.Done()
		if err := g.server.Serve(g.listener); err != nil && err != grpc.ErrServerStopped {
			g.logger.Error("%s : gRPC server failed: %v", g.Name, err)
		}
	}()
	go func(stop <-chan struct{}) {
		defer g.done.Done()
		ticker := time.NewTicker(g.CheckInterval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				g.UpdateStatus()
			}
		}
	}(g.stop)

	g.logger.Info("%s : serving health checks on %s", g.Name, g.Addr())
	return nil
}

// -----------------------------------------------------------------------------

// UpdateStatus reports SERVING while at least one stream runs.
func (g *GRPCService) UpdateStatus() {
	status := grpc_health_v1.HealthCheckResponse_NOT_SERVING
	if g.relay != nil && g.relay.RunningSources() > 0 {
		status = grpc_health_v1.HealthCheckResponse_SERVING
	}
	g.health.SetServingStatus("", status)
	g.health.SetServingStatus(ServiceName, status)
}

// -----------------------------------------------------------------------------

// Stop gracefully stops the gRPC server, forcing it when ctx expires.
func (g *GRPCService) Stop(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.running {
		return nil
	}
	g.logger.Info("%s : stopping", g.Name)

	close(g.stop)
	g.health.Shutdown()

	done := make(chan struct{})
	go func() {
		g.server.GracefulStop()
		close(done)
	}()

	select {
	case <-ctx.Done():
		g.logger.Warning("%s : graceful shutdown timeout, forcing stop", g.Name)
		g.server.Stop()
	case <-done:
	}
	g.done.Wait()

	g.running = false
	g.logger.Info("%s : stopped", g.Name)
	return nil
}

// -----------------------------------------------------------------------------

// IsRunning returns whether the gRPC server is running
func (g *GRPCService) IsRunning() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.running
}

// Addr is the address the server listens on.
func (g *GRPCService) Addr() string {
	return g.listener.Addr().String()
}
