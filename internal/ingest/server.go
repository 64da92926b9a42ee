// Copyright (c) 2026 GwnGames. All rights reserved.
// Author: dev@gwngames.com

/*
Package ingest implements the line-delimited TCP intake for scraper
envelopes.

One goroutine serves each accepted connection: it reads fixed-size chunks,
splits the byte buffer on newlines, and hands every complete trimmed line to
the dispatch engine in wire order. The socket is fire-and-forget; nothing is
ever written back.

A registry tracks the last activity of every live connection. Each read is
bounded by a hard deadline, and a separate reaper ticks over the registry to
close connections whose total idle time exceeded the configured threshold.
*/
package ingest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/gwngames/persister/internal/platform/constants"
	"github.com/gwngames/persister/internal/platform/ctxutil"
	"github.com/gwngames/persister/pkg/uuidv7"
)

// Handler consumes one complete envelope line.
type Handler func(ctx context.Context, line []byte)

// Config carries the listener and idle-eviction settings.
type Config struct {
	// Host and Port form the bind address.
	Host string
	Port int

	// MaxConnections caps concurrently served sockets; connections beyond
	// the cap are accepted and immediately closed.
	MaxConnections int

	// IdleTimeout is the total inactivity after which the reaper closes a
	// connection.
	IdleTimeout time.Duration

	// ReaperInterval is the reaper tick.
	ReaperInterval time.Duration
}

// Server is the ingestion TCP server.
type Server struct {
	config  Config
	handler Handler
	logger  *slog.Logger

	listener net.Listener

	// mu guards connections, the only state shared between the accept
	// loop, the per-connection workers, and the reaper.
	mu          sync.Mutex
	connections map[net.Conn]time.Time

	workers sync.WaitGroup
}

// NewServer constructs an ingestion server. Call [Server.Listen] to bind,
// then [Server.Run] to serve.
func NewServer(config Config, handler Handler, logger *slog.Logger) *Server {
	return &Server{
		config:      config,
		handler:     handler,
		logger:      logger,
		connections: map[net.Conn]time.Time{},
	}
}

// Listen binds the configured address. A bind failure is a fatal startup
// error surfaced to the bootstrap.
func (server *Server) Listen() error {
	address := fmt.Sprintf("%s:%d", server.config.Host, server.config.Port)

	listener, err := net.Listen("tcp", address)
	if err != nil {
		return fmt.Errorf("ingest: bind %s: %w", address, err)
	}

	server.listener = listener
	server.logger.Info("ingest_server_listening", slog.String("addr", listener.Addr().String()))
	return nil
}

// Addr returns the bound address. Valid after [Server.Listen].
func (server *Server) Addr() net.Addr {
	return server.listener.Addr()
}

// Run serves until ctx is cancelled, then closes the listener and every
// live connection and joins all workers.
func (server *Server) Run(ctx context.Context) error {
	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		return server.acceptLoop(groupCtx)
	})
	group.Go(func() error {
		return server.reapLoop(groupCtx)
	})
	group.Go(func() error {
		<-groupCtx.Done()
		server.closeAll()
		return nil
	})

	err := group.Wait()
	server.workers.Wait()
	server.logger.Info("ingest_server_stopped")
	return err
}

// # Accept Loop

func (server *Server) acceptLoop(ctx context.Context) error {
	for {
		connection, err := server.listener.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("ingest: accept: %w", err)
		}

		if !server.register(connection) {
			server.logger.Warn("connection_rejected_at_capacity",
				slog.String("remote", connection.RemoteAddr().String()),
				slog.Int("max_connections", server.config.MaxConnections),
			)
			_ = connection.Close()
			continue
		}

		server.workers.Add(1)
		go server.serveConnection(ctx, connection)
	}
}

// register adds the connection to the registry unless the cap is reached.
func (server *Server) register(connection net.Conn) bool {
	server.mu.Lock()
	defer server.mu.Unlock()

	if server.config.MaxConnections > 0 && len(server.connections) >= server.config.MaxConnections {
		return false
	}

	server.connections[connection] = time.Now()
	return true
}

func (server *Server) touch(connection net.Conn) {
	server.mu.Lock()
	defer server.mu.Unlock()

	if _, ok := server.connections[connection]; ok {
		server.connections[connection] = time.Now()
	}
}

func (server *Server) unregister(connection net.Conn) {
	server.mu.Lock()
	defer server.mu.Unlock()
	delete(server.connections, connection)
}

// # Connection Worker

func (server *Server) serveConnection(ctx context.Context, connection net.Conn) {
	connID := uuidv7.New()
	remote := connection.RemoteAddr().String()

	log := server.logger.With(
		slog.String("conn_id", connID),
		slog.String("remote", remote),
	)
	connCtx := ctxutil.WithLogger(ctxutil.WithConnID(ctx, connID), log)

	// Guaranteed cleanup on every exit path.
	defer func() {
		_ = connection.Close()
		server.unregister(connection)
		server.workers.Done()
		log.Info("connection_closed")
	}()

	log.Info("connection_accepted")

	var buffer []byte
	chunk := make([]byte, constants.ConnReadChunkSize)

	for {
		_ = connection.SetReadDeadline(time.Now().Add(constants.ConnReadTimeout))

		bytesRead, err := connection.Read(chunk)
		if bytesRead > 0 {
			server.touch(connection)
			buffer = append(buffer, chunk[:bytesRead]...)
			buffer = server.drainLines(connCtx, buffer)
		}

		if err != nil {
			switch {
			case errors.Is(err, io.EOF):
				log.Info("connection_eof")
			case isTimeout(err):
				log.Warn("connection_read_timeout")
			case errors.Is(err, net.ErrClosed):
				// Closed by the reaper or shutdown; already logged there.
			default:
				log.Warn("connection_read_error", slog.Any("error", err))
			}
			return
		}
	}
}

// drainLines hands every complete line in buffer to the handler and returns
// the unconsumed tail. Blank lines are skipped.
func (server *Server) drainLines(ctx context.Context, buffer []byte) []byte {
	for {
		newlineIndex := bytes.IndexByte(buffer, '\n')
		if newlineIndex < 0 {
			return buffer
		}

		line := bytes.TrimSpace(buffer[:newlineIndex])
		buffer = buffer[newlineIndex+1:]

		if len(line) == 0 {
			continue
		}

		server.handler(ctx, line)
	}
}

func isTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// # Idle Reaper

func (server *Server) reapLoop(ctx context.Context) error {
	ticker := time.NewTicker(server.config.ReaperInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			server.reapIdle()
		}
	}
}

// reapIdle closes every connection idle beyond the threshold. The close
// surfaces as a read error in the connection worker, which runs its normal
// cleanup path.
func (server *Server) reapIdle() {
	cutoff := time.Now().Add(-server.config.IdleTimeout)

	server.mu.Lock()
	var idle []net.Conn
	for connection, lastActivity := range server.connections {
		if lastActivity.Before(cutoff) {
			idle = append(idle, connection)
		}
	}
	server.mu.Unlock()

	for _, connection := range idle {
		server.logger.Info("connection_reaped_idle",
			slog.String("remote", connection.RemoteAddr().String()),
		)
		_ = connection.Close()
	}
}

// # Shutdown

// closeAll stops accepting and closes every known connection.
func (server *Server) closeAll() {
	_ = server.listener.Close()

	server.mu.Lock()
	open := make([]net.Conn, 0, len(server.connections))
	for connection := range server.connections {
		open = append(open, connection)
	}
	server.mu.Unlock()

	for _, connection := range open {
		_ = connection.Close()
	}
}
