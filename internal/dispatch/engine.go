// Copyright (c) 2026 GwnGames. All rights reserved.
// Author: dev@gwngames.com

/*
Package dispatch routes raw envelope lines to their typed parsers and owns
the retry policy around them.

One engine serves every ingestion connection. Parsers execute under a
process-wide mutex so that no two transactions run concurrently against the
database: the multi-parent link topology (publication-author-interest-venue)
makes cross-table lock cycles cheap to hit, and serialising commits is the
chosen remedy. Ingestion still scales to many sockets; only the database
work is single-file.

A failed parse is retried with a jittered back-off; exhausted envelopes are
recorded in the dead-letter sink and dropped.
*/
package dispatch

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gwngames/persister/internal/deadletter"
	"github.com/gwngames/persister/internal/parser"
	"github.com/gwngames/persister/internal/platform/ctxutil"
	"github.com/gwngames/persister/internal/store"
)

// # Session Contracts

// Session is a transaction-scoped store handed to exactly one parser call.
type Session interface {
	parser.Store

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// Sessions mints one [Session] per processing attempt.
type Sessions interface {
	Begin(ctx context.Context) (Session, error)
}

// PgSessions adapts the entity store factory to the [Sessions] contract.
type PgSessions struct {
	factory *store.Factory
}

// NewPgSessions wraps a store factory.
func NewPgSessions(factory *store.Factory) *PgSessions {
	return &PgSessions{factory: factory}
}

// Begin implements [Sessions].
func (sessions *PgSessions) Begin(ctx context.Context) (Session, error) {
	session, err := sessions.factory.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return session, nil
}

// # Engine

// Config carries the retry policy of the engine.
type Config struct {
	// MaxRetries is the per-message attempt budget.
	MaxRetries int

	// Delay is the base back-off between attempts, jittered by +-20%.
	Delay time.Duration
}

// Engine routes envelopes by (class_id, variant_id), enforces the
// process-wide database mutex, and retries failures before spilling them to
// the dead-letter sink.
type Engine struct {
	sessions Sessions
	routes   map[parser.Kind]parser.Handler
	sink     *deadletter.Sink
	dedup    *DedupCache
	config   Config
	logger   *slog.Logger

	// dbMutex serialises all parser transactions; see the package comment.
	dbMutex sync.Mutex

	// Injected for deterministic tests.
	randFloat func() float64
	sleep     func(time.Duration)
}

// NewEngine wires the routing table from the given handlers.
func NewEngine(sessions Sessions, handlers []parser.Handler, sink *deadletter.Sink, dedup *DedupCache, config Config, logger *slog.Logger) *Engine {
	routes := make(map[parser.Kind]parser.Handler, len(handlers))
	for _, handler := range handlers {
		routes[handler.Kind()] = handler
	}

	if config.MaxRetries < 1 {
		config.MaxRetries = 1
	}

	return &Engine{
		sessions:  sessions,
		routes:    routes,
		sink:      sink,
		dedup:     dedup,
		config:    config,
		logger:    logger,
		randFloat: defaultRandFloat,
		sleep:     time.Sleep,
	}
}

// # Envelope Decoding

// envelopeHead is the metadata every envelope must carry.
type envelopeHead struct {
	ID          string `json:"_id"`
	ClassID     *int   `json:"class_id"`
	VariantID   *int   `json:"variant_id"`
	UpdateDate  string `json:"update_date"`
	UpdateCount *int   `json:"update_count"`
}

// parseEnvelope decodes and validates the metadata of one raw line.
func parseEnvelope(line []byte) (*parser.Envelope, error) {
	var head envelopeHead
	if err := json.Unmarshal(line, &head); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEnvelope, err)
	}

	if head.ID == "" || head.ClassID == nil || head.VariantID == nil {
		return nil, fmt.Errorf("%w: missing '_id', 'class_id' or 'variant_id'", ErrMalformedEnvelope)
	}

	envelope := &parser.Envelope{
		ID:          head.ID,
		ClassID:     *head.ClassID,
		VariantID:   *head.VariantID,
		UpdateCount: head.UpdateCount,
		Raw:         line,
	}

	if head.UpdateDate != "" {
		updateDate, err := time.Parse(parser.EnvelopeTimeFormat, head.UpdateDate)
		if err != nil {
			return nil, fmt.Errorf("%w: bad update_date %q", ErrMalformedEnvelope, head.UpdateDate)
		}
		envelope.UpdateDate = updateDate
	}

	return envelope, nil
}

// # Message Handling

// Handle ingests one raw line. The socket is fire-and-forget, so Handle
// reports nothing back: terminal failures are logged and dead-lettered.
func (engine *Engine) Handle(ctx context.Context, line []byte) {
	log := ctxutil.GetLogger(ctx)

	envelope, err := parseEnvelope(line)
	if err != nil {
		log.Warn("envelope_discarded", slog.Any("error", err))
		return
	}

	messageID := fmt.Sprintf("%d%d%s", envelope.ClassID, envelope.VariantID, envelope.ID)
	log = log.With(slog.String("msg_id", messageID))

	handler, ok := engine.routes[envelope.Kind()]
	if !ok {
		log.Warn("envelope_discarded",
			slog.Any("error", ErrUnknownKind),
			slog.Int("class_id", envelope.ClassID),
			slog.Int("variant_id", envelope.VariantID),
		)
		return
	}

	if engine.dedup.Seen(ctx, messageID) {
		log.Debug("envelope_deduplicated")
		return
	}

	for attempt := 1; attempt <= engine.config.MaxRetries; attempt++ {
		err := engine.processOnce(ctx, handler, envelope)
		if err == nil {
			log.Debug("envelope_processed", slog.Int("attempt", attempt))
			return
		}

		log.Error("envelope_attempt_failed",
			slog.Int("attempt", attempt),
			slog.Int("max_retries", engine.config.MaxRetries),
			slog.Any("error", err),
		)

		if attempt == engine.config.MaxRetries {
			if sinkErr := engine.sink.Record(envelope.ID, err.Error()); sinkErr != nil {
				log.Error("dead_letter_write_failed", slog.Any("error", sinkErr))
			}
			engine.dedup.Forget(ctx, messageID)
			log.Error("envelope_dead_lettered")
			return
		}

		engine.sleep(jitteredDelay(engine.config.Delay, engine.randFloat))
	}
}

// processOnce runs one attempt under the process-wide mutex inside its own
// transaction. Any error rolls the transaction back before returning.
func (engine *Engine) processOnce(ctx context.Context, handler parser.Handler, envelope *parser.Envelope) (err error) {
	engine.dbMutex.Lock()
	defer engine.dbMutex.Unlock()

	session, err := engine.sessions.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rollbackErr := session.Rollback(ctx); rollbackErr != nil {
				engine.logger.Error("rollback_failed", slog.Any("error", rollbackErr))
			}
		}
	}()

	if err = handler.Process(ctx, session, envelope); err != nil {
		return err
	}

	return session.Commit(ctx)
}
