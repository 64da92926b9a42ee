// Copyright (c) 2026 GwnGames. All rights reserved.
// Author: dev@gwngames.com

package ingest_test

import (
	"context"
	"io"
	"log/slog"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gwngames/persister/internal/ingest"
)

// lineCollector is a thread-safe handler recording every delivered line.
type lineCollector struct {
	mu    sync.Mutex
	lines []string
}

func (collector *lineCollector) handle(_ context.Context, line []byte) {
	collector.mu.Lock()
	defer collector.mu.Unlock()
	collector.lines = append(collector.lines, string(line))
}

func (collector *lineCollector) snapshot() []string {
	collector.mu.Lock()
	defer collector.mu.Unlock()
	return append([]string(nil), collector.lines...)
}

func (collector *lineCollector) waitFor(t *testing.T, count int) []string {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if lines := collector.snapshot(); len(lines) >= count {
			return lines
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d lines, got %v", count, collector.snapshot())
	return nil
}

func startServer(t *testing.T, config ingest.Config, handler ingest.Handler) (net.Addr, context.CancelFunc, chan error) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	server := ingest.NewServer(config, handler, logger)
	require.NoError(t, server.Listen())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- server.Run(ctx) }()

	t.Cleanup(func() {
		cancel()
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Error("server did not stop")
		}
	})

	return server.Addr(), cancel, done
}

func testConfig() ingest.Config {
	return ingest.Config{
		Host:           "127.0.0.1",
		Port:           0,
		MaxConnections: 8,
		IdleTimeout:    time.Minute,
		ReaperInterval: 10 * time.Second,
	}
}

/*
TestServer_FramesLinesAcrossChunks writes envelopes split across arbitrary
write boundaries, with blank lines interleaved, and expects whole trimmed
lines delivered in wire order.
*/
func TestServer_FramesLinesAcrossChunks(t *testing.T) {
	collector := &lineCollector{}
	addr, _, _ := startServer(t, testConfig(), collector.handle)

	connection, err := net.Dial("tcp", addr.String())
	require.NoError(t, err)
	defer connection.Close()

	// First line split mid-message, then an empty line, then two at once.
	_, err = connection.Write([]byte(`{"_id": "a`))
	require.NoError(t, err)
	time.Sleep(20 * time.Millisecond)
	_, err = connection.Write([]byte("1\"}\n\n"))
	require.NoError(t, err)
	_, err = connection.Write([]byte("{\"_id\": \"a2\"}\n  {\"_id\": \"a3\"}  \n"))
	require.NoError(t, err)

	lines := collector.waitFor(t, 3)
	assert.Equal(t, []string{`{"_id": "a1"}`, `{"_id": "a2"}`, `{"_id": "a3"}`}, lines)
}

/*
TestServer_ReaperClosesIdleConnections configures an aggressive idle
threshold and expects the reaper to close a silent connection.
*/
func TestServer_ReaperClosesIdleConnections(t *testing.T) {
	config := testConfig()
	config.IdleTimeout = 50 * time.Millisecond
	config.ReaperInterval = 20 * time.Millisecond

	collector := &lineCollector{}
	addr, _, _ := startServer(t, config, collector.handle)

	connection, err := net.Dial("tcp", addr.String())
	require.NoError(t, err)
	defer connection.Close()

	// A silent connection must be closed by the reaper: the next read
	// observes EOF (or a reset) well before the test deadline.
	_ = connection.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, err = connection.Read(make([]byte, 1))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, io.ErrShortBuffer)
}

/*
TestServer_ConnectionCap accepts up to MaxConnections sockets and closes
any beyond the cap, without affecting the served connection.
*/
func TestServer_ConnectionCap(t *testing.T) {
	config := testConfig()
	config.MaxConnections = 1

	collector := &lineCollector{}
	addr, _, _ := startServer(t, config, collector.handle)

	first, err := net.Dial("tcp", addr.String())
	require.NoError(t, err)
	defer first.Close()

	// Prove the first connection is live before racing the second one in.
	_, err = first.Write([]byte("{\"_id\": \"live\"}\n"))
	require.NoError(t, err)
	collector.waitFor(t, 1)

	second, err := net.Dial("tcp", addr.String())
	require.NoError(t, err)
	defer second.Close()

	_ = second.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, err = second.Read(make([]byte, 1))
	assert.Error(t, err, "over-cap connection must be closed by the server")

	// The served connection keeps working.
	_, err = first.Write([]byte("{\"_id\": \"still live\"}\n"))
	require.NoError(t, err)
	lines := collector.waitFor(t, 2)
	assert.Equal(t, `{"_id": "still live"}`, lines[1])
}

/*
TestServer_ShutdownClosesConnections cancels the run context and expects
both the listener and live connections to be torn down.
*/
func TestServer_ShutdownClosesConnections(t *testing.T) {
	collector := &lineCollector{}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	server := ingest.NewServer(testConfig(), collector.handle, logger)
	require.NoError(t, server.Listen())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- server.Run(ctx) }()
	addr := server.Addr()

	connection, err := net.Dial("tcp", addr.String())
	require.NoError(t, err)
	defer connection.Close()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not shut down")
	}

	_ = connection.SetReadDeadline(time.Now().Add(time.Second))
	_, err = connection.Read(make([]byte, 1))
	assert.Error(t, err, "connection must be closed on shutdown")

	_, err = net.Dial("tcp", addr.String())
	assert.Error(t, err, "listener must be closed on shutdown")
}
