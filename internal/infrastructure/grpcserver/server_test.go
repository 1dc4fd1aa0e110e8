package grpcserver

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

func TestHealth(t *testing.T) {
	t.Parallel()

	server := New(Config{Bind: "127.0.0.1", Port: 0, ProbeInterval: 50, ProbeTimeout: 100})

	var storeErr error
	server.AddProbe("store", func(context.Context) error { return storeErr })
	server.AddProbe("broker", func(context.Context) error { return nil })

	require.NoError(t, server.Start())
	t.Cleanup(server.Stop)

	conn, err := grpc.NewClient(server.Addr().String(), grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	client := healthpb.NewHealthClient(conn)
	status := func(service string) healthpb.HealthCheckResponse_ServingStatus {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		resp, err := client.Check(ctx, &healthpb.HealthCheckRequest{Service: service})
		require.NoError(t, err)

		return resp.GetStatus()
	}

	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, status(""))

	assert.True(t, server.Check(context.Background()))
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, status(""))
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, status("store"))

	storeErr = errors.New("mongo unreachable")
	assert.False(t, server.Check(context.Background()))
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, status(""))
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, status("store"))
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, status("broker"))
}

func TestMonitorStops(t *testing.T) {
	t.Parallel()

	server := New(Config{ProbeInterval: 10, ProbeTimeout: 10})
	calls := make(chan struct{}, 100)
	server.AddProbe("store", func(context.Context) error {
		calls <- struct{}{}

		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		server.Monitor(ctx)
		close(done)
	}()

	<-calls
	<-calls
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("monitor did not stop")
	}
}

func TestMonitorWithUnsetDurations(t *testing.T) {
	t.Parallel()

	server := New(Config{})
	calls := make(chan struct{}, 1)
	server.AddProbe("store", func(ctx context.Context) error {
		calls <- struct{}{}

		return ctx.Err()
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		server.Monitor(ctx)
		close(done)
	}()

	select {
	case <-calls:
	case <-time.After(time.Second):
		t.Fatal("probe was not run")
	}
	cancel()
	<-done

	assert.True(t, server.Check(context.Background()), "an unset timeout must not expire probes")
}

func TestConfigDurations(t *testing.T) {
	tests := []struct {
		name     string
		cfg      Config
		interval time.Duration
		timeout  time.Duration
	}{
		{"unset", Config{}, defaultProbeInterval, defaultProbeTimeout},
		{"negative", Config{ProbeInterval: -5, ProbeTimeout: -1}, defaultProbeInterval, defaultProbeTimeout},
		{"configured", Config{ProbeInterval: 250, ProbeTimeout: 40}, 250 * time.Millisecond, 40 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.interval, tt.cfg.Interval())
			assert.Equal(t, tt.timeout, tt.cfg.Timeout())
		})
	}
}
