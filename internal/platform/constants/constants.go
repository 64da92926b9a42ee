// Copyright (c) 2026 GwnGames. All rights reserved.
// Author: dev@gwngames.com

/*
Package constants provides centralized, immutable values for the entire service.

It defines default timeouts, buffer sizes, and cross-cutting keys
shared between the ingestion server, the dispatch engine, and the ops health
server.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the ops health server.
  - Connection Limits: Per-connection read timeout and read chunk size.
  - Dead-letter: Default sink file name.

Using this package ensures magic strings and magic numbers are eliminated
from the business logic.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "persister"
	AppVersion = "0.1.0-dev"
)

// # Ops Health Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 5 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 10 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire health-check request lifecycle.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second
)

// # Ingestion Server Timing

const (
	// ConnReadTimeout is the per-connection read deadline.
	ConnReadTimeout = 20 * time.Minute

	// ConnReadChunkSize is the maximum number of bytes read per socket Read call.
	ConnReadChunkSize = 1024
)

// # Rate Limiting (ops health server only)

const (
	// DefaultRateLimitRPS is the sustained request rate allowed per client IP.
	DefaultRateLimitRPS = 5

	// DefaultRateLimitBurst is the short-term burst allowance per client IP.
	DefaultRateLimitBurst = 10

	// RateLimitCleanupInterval is how often stale limiter entries are purged.
	RateLimitCleanupInterval = 5 * time.Minute

	// RateLimitClientTTL is the inactivity after which a client's limiter is dropped.
	RateLimitClientTTL = 10 * time.Minute
)

// # HTTP Headers (ops health server only)

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
)

// # JSON Field Identifiers

const (
	FieldData    = "data"
	FieldMeta    = "meta"
	FieldError   = "error"
	FieldCode    = "code"
	FieldDetails = "details"
	FieldMessage = "message"
	FieldStatus  = "status"
	FieldApp     = "app"
	FieldVersion = "version"
	FieldChecks  = "checks"
)

// # Dead-letter Sink

const (
	// DefaultDeadLetterPath is the default dead-letter sink file name.
	DefaultDeadLetterPath = "persister.errors.json"
)

// # Dedup Cache

const (
	// RedisPrefixMsgID namespaces the optional msg_id dedup cache.
	RedisPrefixMsgID = "persister:msgid:"

	// MsgIDDedupWindow is how long a msg_id is remembered in the dedup cache.
	MsgIDDedupWindow = 10 * time.Minute
)
