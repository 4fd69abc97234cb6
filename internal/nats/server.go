package nats

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/homekey-labs/homekey/internal/logger"
	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// portFileName is written next to the JetStream store while a kiosk is
// serving it, so CLI commands can reach the running server.
const portFileName = "port"

// StartEmbeddedNATS starts an embedded NATS server with JetStream enabled
// using the specified data directory for file-based storage. With listen
// set, the server also accepts loopback connections on a random port and
// records that port in the data directory.
func StartEmbeddedNATS(dataDir string, listen bool) (*server.Server, error) {
	logger.Debug("Starting embedded NATS server with data dir: %s (listen=%v)", dataDir, listen)

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating nats data dir: %w", err)
	}

	opts := &server.Options{
		JetStream:  true,
		StoreDir:   dataDir,
		DontListen: !listen,
		NoSigs:     true,
	}
	if listen {
		opts.Host = "127.0.0.1"
		opts.Port = server.RANDOM_PORT
	}

	ns, err := server.NewServer(opts)
	if err != nil {
		logger.Error("Failed to create NATS server: %v", err)
		return nil, err
	}

	go ns.Start()

	if !ns.ReadyForConnections(4 * time.Second) {
		logger.Error("NATS server failed to start within 4s timeout")
		ns.Shutdown()
		return nil, errors.New("nats server failed to start within timeout")
	}

	if listen {
		addr, ok := ns.Addr().(*net.TCPAddr)
		if !ok {
			ns.Shutdown()
			return nil, errors.New("nats server has no tcp listener")
		}
		if err := WritePort(dataDir, addr.Port); err != nil {
			ns.Shutdown()
			return nil, err
		}
		logger.Debug("NATS listening on 127.0.0.1:%d", addr.Port)
	}

	logger.Debug("NATS server ready for connections")
	return ns, nil
}

// WritePort records the port a running server listens on.
func WritePort(dataDir string, port int) error {
	path := filepath.Join(dataDir, portFileName)
	if err := os.WriteFile(path, []byte(strconv.Itoa(port)), 0644); err != nil {
		return fmt.Errorf("writing nats port file: %w", err)
	}
	return nil
}

// ReadPort returns the port recorded by a running server.
func ReadPort(dataDir string) (int, error) {
	data, err := os.ReadFile(filepath.Join(dataDir, portFileName))
	if err != nil {
		return 0, err
	}
	port, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || port <= 0 {
		return 0, fmt.Errorf("invalid nats port file: %q", string(data))
	}
	return port, nil
}

// RemovePort deletes the port file. A missing file is not an error.
func RemovePort(dataDir string) error {
	err := os.Remove(filepath.Join(dataDir, portFileName))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// ConnectInProcess creates an in-process connection to the embedded NATS server.
func ConnectInProcess(ns *server.Server) (*nats.Conn, error) {
	logger.Debug("Connecting to NATS server in-process")
	conn, err := nats.Connect("", nats.InProcessServer(ns))
	if err != nil {
		logger.Error("Failed to connect to NATS in-process: %v", err)
		return nil, err
	}
	return conn, nil
}

// ConnectToPort connects to a server started by another homekey process.
func ConnectToPort(port int) (*nats.Conn, error) {
	url := fmt.Sprintf("nats://127.0.0.1:%d", port)
	logger.Debug("Connecting to NATS at %s", url)
	return nats.Connect(url,
		nats.Name("homekey-cli"),
		nats.Timeout(2*time.Second),
		nats.MaxReconnects(0),
	)
}

// CreateJetStream creates a JetStream context from a NATS connection.
func CreateJetStream(nc *nats.Conn) (jetstream.JetStream, error) {
	return jetstream.New(nc)
}

// Shutdown gracefully shuts down the NATS connection and server.
// It first drains and closes the connection, then shuts down the server
// with a timeout to allow in-flight operations to complete.
func Shutdown(nc *nats.Conn, ns *server.Server) error {
	logger.Debug("Starting NATS shutdown")

	if nc != nil {
		drainDone := make(chan error, 1)
		go func() {
			drainDone <- nc.Drain()
		}()

		select {
		case err := <-drainDone:
			if err != nil {
				logger.Warn("NATS drain failed, forcing close: %v", err)
				nc.Close()
			}
		case <-time.After(2 * time.Second):
			logger.Warn("NATS drain timed out after 2s, forcing close")
			nc.Close()
		}
	}

	if ns != nil {
		ns.Shutdown()

		shutdownDone := make(chan struct{})
		go func() {
			ns.WaitForShutdown()
			close(shutdownDone)
		}()

		select {
		case <-shutdownDone:
			logger.Debug("NATS server shut down cleanly")
		case <-time.After(5 * time.Second):
			logger.Error("NATS server shutdown timed out after 5s")
			return errors.New("NATS server shutdown timed out")
		}
	}

	logger.Debug("NATS shutdown complete")
	return nil
}
