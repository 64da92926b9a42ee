// Copyright (c) 2026 GwnGames. All rights reserved.
// Author: dev@gwngames.com

/*
Package store implements the similarity-aware entity store.

Every entity kind exposes an upsert keyed by fuzzy string similarity: a
candidate row is located with a cheap LIKE prefilter plus a similarity
operator (pg_trgm word_similarity, pg_similarity jaro / jarowinkler), locked
with FOR UPDATE, and either updated in place or created. Link tables are
reconciled with guarded inserts on their composite keys.

All operations run inside the transaction of a [Session] minted per message
by the [Factory]; the dispatch engine owns commit/rollback so a failed parse
never leaks partial state.
*/
package store

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// # Similarity Policy

// Similarity holds the per-entity match thresholds. The defaults are the
// canonical contract; deployments may relax them through configuration.
type Similarity struct {
	// PublicationTitle is the jarowinkler threshold for publication titles.
	PublicationTitle float64 `json:"publication_title"`

	// AuthorName is the word_similarity threshold for author names.
	AuthorName float64 `json:"author_name"`

	// InterestName is the jarowinkler threshold for interest names.
	InterestName float64 `json:"interest_name"`

	// JournalTitle is the jaro threshold for journal titles on the SJR feed.
	JournalTitle float64 `json:"journal_title"`

	// JournalTitleAssoc is the stricter jaro threshold used when attaching a
	// journal from a DBLP association envelope.
	JournalTitleAssoc float64 `json:"journal_title_assoc"`

	// ConferenceAcronym is the jarowinkler threshold for a raw acronym.
	ConferenceAcronym float64 `json:"conference_acronym"`

	// ConferenceAcronymPart is the jarowinkler threshold applied to the
	// parts produced by the acronym fallback splitter.
	ConferenceAcronymPart float64 `json:"conference_acronym_part"`
}

// DefaultSimilarity returns the canonical thresholds.
func DefaultSimilarity() Similarity {
	return Similarity{
		PublicationTitle:      0.87,
		AuthorName:            0.70,
		InterestName:          0.80,
		JournalTitle:          0.75,
		JournalTitleAssoc:     0.80,
		ConferenceAcronym:     0.94,
		ConferenceAcronymPart: 0.95,
	}
}

// # Session Plumbing

// Querier is the subset of pgx used by the store. It is satisfied by
// [pgx.Tx], [pgxpool.Pool], and pgxmock in tests.
type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Factory mints transaction-scoped sessions off the shared connection pool.
type Factory struct {
	pool       *pgxpool.Pool
	similarity Similarity
	logger     *slog.Logger
}

// NewFactory constructs a session factory.
func NewFactory(pool *pgxpool.Pool, similarity Similarity, logger *slog.Logger) *Factory {
	return &Factory{
		pool:       pool,
		similarity: similarity,
		logger:     logger,
	}
}

// Begin opens a transaction and returns a [Session] bound to it.
func (factory *Factory) Begin(ctx context.Context) (*Session, error) {
	tx, err := factory.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("store: begin transaction: %w", err)
	}

	return &Session{
		q:          tx,
		tx:         tx,
		similarity: factory.similarity,
		logger:     factory.logger,
	}, nil
}

// Session is a transaction-scoped view of the store. All entity operations
// hang off it; the owning dispatch engine decides commit or rollback.
type Session struct {
	q          Querier
	tx         pgx.Tx
	similarity Similarity
	logger     *slog.Logger
}

// NewSession wraps an arbitrary [Querier] into a session. Used by tests to
// drive the store against a mocked connection; Commit and Rollback are no-ops
// when no real transaction backs the session.
func NewSession(q Querier, similarity Similarity, logger *slog.Logger) *Session {
	return &Session{
		q:          q,
		similarity: similarity,
		logger:     logger,
	}
}

// Commit commits the underlying transaction.
func (session *Session) Commit(ctx context.Context) error {
	if session.tx == nil {
		return nil
	}
	return session.tx.Commit(ctx)
}

// Rollback rolls the underlying transaction back. Safe to call after Commit.
func (session *Session) Rollback(ctx context.Context) error {
	if session.tx == nil {
		return nil
	}
	if err := session.tx.Rollback(ctx); err != nil && err != pgx.ErrTxClosed {
		return err
	}
	return nil
}

// # Shared Helpers

// orNow falls back to the current time for envelopes without an update_date.
func orNow(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now().UTC()
	}
	return t
}

// runePrefix returns the first n runes of s. LIKE arguments are sliced by
// rune so a multi-byte leading character never produces invalid UTF-8.
func runePrefix(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
