// Copyright (c) 2026 GwnGames. All rights reserved.
// Author: dev@gwngames.com

// Package ctxkey defines typed context keys used by the ops health server
// and the ingestion pipeline.
//
// # Safety
//
// It is used to store and retrieve per-request and per-connection values
// (request id, connection id, logger). Using a private, unexported type for
// keys prevents collisions with third-party packages that might also use
// context for storage.
package ctxkey

// key is an unexported type used for context keys to ensure type safety.
//
// # Collision Prevention
//
// Even if another package uses "request_id" as a string key, it will not
// collide with this key type because Go's [context.Context] uses both the
// value AND the type for lookups.
type key string

const (
	// KeyRequestID is the context key for the X-Request-ID correlation value
	// (ops health server only).
	KeyRequestID key = "request_id"

	// KeyConnID is the context key for the ingestion connection id, threaded
	// from the per-connection worker through the dispatch
	// engine and into parser-level logging.
	KeyConnID key = "conn_id"

	// KeyLogger is the context key for the per-request/per-connection [*log/slog.Logger].
	KeyLogger key = "logger"
)
