// Package grpcserver exposes the standard gRPC health service. Each backing
// dependency is reported as its own service, and the empty service name is
// SERVING only while every dependency answers.
package grpcserver

import (
	"context"
	"fmt"
	"net"
	"sort"
	"sync"
	"time"

	"github.com/dezh-tech/immortal/pkg/logger"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// Probe reports whether a dependency is usable.
type Probe func(ctx context.Context) error

type Server struct {
	cfg    Config
	grpc   *grpc.Server
	health *health.Server

	mu     sync.Mutex
	probes map[string]Probe
	lis    net.Listener
}

func New(cfg Config) *Server {
	s := &Server{
		cfg:    cfg,
		grpc:   grpc.NewServer(),
		health: health.NewServer(),
		probes: make(map[string]Probe),
	}
	healthpb.RegisterHealthServer(s.grpc, s.health)
	s.health.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)

	return s
}

func (s *Server) AddProbe(service string, probe Probe) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.probes[service] = probe
	s.health.SetServingStatus(service, healthpb.HealthCheckResponse_NOT_SERVING)
}

// Check runs every probe once and publishes the results.
func (s *Server) Check(ctx context.Context) bool {
	s.mu.Lock()
	names := make([]string, 0, len(s.probes))
	for name := range s.probes {
		names = append(names, name)
	}
	s.mu.Unlock()
	sort.Strings(names)

	healthy := true
	for _, name := range names {
		s.mu.Lock()
		probe := s.probes[name]
		s.mu.Unlock()

		pctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout())
		err := probe(pctx)
		cancel()

		status := healthpb.HealthCheckResponse_SERVING
		if err != nil {
			healthy = false
			status = healthpb.HealthCheckResponse_NOT_SERVING
			logger.Error("dependency probe failed", "service", name, "err", err)
		}
		s.health.SetServingStatus(name, status)
	}

	overall := healthpb.HealthCheckResponse_NOT_SERVING
	if healthy {
		overall = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus("", overall)

	return healthy
}

// Start listens on the configured address and serves in the background.
func (s *Server) Start() error {
	lis, err := net.Listen("tcp", net.JoinHostPort(s.cfg.Bind, fmt.Sprint(s.cfg.Port)))
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.lis = lis
	s.mu.Unlock()

	go func() {
		if err := s.grpc.Serve(lis); err != nil {
			logger.Error("grpc health server stopped", "err", err)
		}
	}()

	logger.Info("grpc health server listening", "addr", lis.Addr().String())

	return nil
}

// Addr returns the bound address once Start succeeded.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.lis == nil {
		return nil
	}

	return s.lis.Addr()
}

// Monitor re-runs the probes every interval until ctx is done.
func (s *Server) Monitor(ctx context.Context) {
	s.Check(ctx)

	ticker := time.NewTicker(s.cfg.Interval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Check(ctx)
		}
	}
}

func (s *Server) Stop() {
	s.health.Shutdown()
	s.grpc.GracefulStop()
}
