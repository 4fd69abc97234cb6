package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/homekey-labs/homekey/internal/config"
	"github.com/homekey-labs/homekey/internal/lead"
	"github.com/homekey-labs/homekey/internal/logger"
	"github.com/homekey-labs/homekey/internal/nats"
	"github.com/nats-io/nats-server/v2/server"
	natsgo "github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// loadConfig loads configuration, applies root flags and configures the
// logger.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if rootFlags.dataDir != "" {
		cfg.DataDir = rootFlags.dataDir
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := logger.Configure(cfg.LogLevel, cfg.LogFile); err != nil {
		return nil, fmt.Errorf("failed to configure logger: %w", err)
	}
	return cfg, nil
}

// leadBackend is an open connection to the lead event log.
type leadBackend struct {
	Store   *lead.Store
	nc      *natsgo.Conn
	ns      *server.Server
	natsDir string
	serving bool
}

// Close disconnects and, when this process owns the server, stops it.
func (b *leadBackend) Close() {
	if err := nats.Shutdown(b.nc, b.ns); err != nil {
		logger.Warn("NATS shutdown: %v", err)
	}
	if b.serving {
		if err := nats.RemovePort(b.natsDir); err != nil {
			logger.Warn("Removing NATS port file: %v", err)
		}
	}
}

// serveLeads starts the embedded server for a kiosk. It listens on
// loopback so CLI commands can reach the same log while the kiosk runs.
func serveLeads(ctx context.Context, dataDir string) (*leadBackend, error) {
	natsDir := filepath.Join(dataDir, "nats")
	ns, err := nats.StartEmbeddedNATS(natsDir, true)
	if err != nil {
		return nil, fmt.Errorf("failed to start NATS: %w", err)
	}
	b, err := attach(ctx, ns, natsDir)
	if err != nil {
		return nil, err
	}
	b.serving = true
	return b, nil
}

// openLeads reaches the lead log for a CLI command: through a running
// kiosk when one is recorded in the port file, otherwise by opening the
// store directly.
func openLeads(ctx context.Context, dataDir string) (*leadBackend, error) {
	natsDir := filepath.Join(dataDir, "nats")

	if port, err := nats.ReadPort(natsDir); err == nil {
		nc, err := nats.ConnectToPort(port)
		if err == nil {
			b, err := connect(ctx, nc, nil, natsDir, nats.OpenStream)
			if err == nil {
				return b, nil
			}
			logger.Warn("Kiosk on port %d has no lead stream: %v", port, err)
		} else {
			logger.Debug("No kiosk on port %d, opening store directly: %v", port, err)
		}
	}

	ns, err := nats.StartEmbeddedNATS(natsDir, false)
	if err != nil {
		return nil, fmt.Errorf("failed to start NATS: %w", err)
	}
	return attach(ctx, ns, natsDir)
}

// attach connects in-process to a server this process started.
func attach(ctx context.Context, ns *server.Server, natsDir string) (*leadBackend, error) {
	nc, err := nats.ConnectInProcess(ns)
	if err != nil {
		ns.Shutdown()
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return connect(ctx, nc, ns, natsDir, nats.SetupStream)
}

func connect(
	ctx context.Context,
	nc *natsgo.Conn,
	ns *server.Server,
	natsDir string,
	stream func(context.Context, jetstream.JetStream) (jetstream.Stream, error),
) (*leadBackend, error) {
	js, err := nats.CreateJetStream(nc)
	if err != nil {
		_ = nats.Shutdown(nc, ns)
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	s, err := stream(ctx, js)
	if err != nil {
		_ = nats.Shutdown(nc, ns)
		return nil, fmt.Errorf("failed to open lead stream: %w", err)
	}

	return &leadBackend{
		Store:   lead.NewStore(js, s),
		nc:      nc,
		ns:      ns,
		natsDir: natsDir,
	}, nil
}
