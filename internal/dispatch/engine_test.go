// Copyright (c) 2026 GwnGames. All rights reserved.
// Author: dev@gwngames.com

package dispatch

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gwngames/persister/internal/deadletter"
	"github.com/gwngames/persister/internal/model"
	"github.com/gwngames/persister/internal/parser"
	"github.com/gwngames/persister/internal/parser/parsertest"
)

// fakeSessions satisfies [Sessions] over the in-memory fake store, counting
// commits and rollbacks.
type fakeSessions struct {
	store     *parsertest.FakeStore
	commits   int
	rollbacks int
	beginErr  error
}

type fakeSession struct {
	*parsertest.FakeStore
	owner *fakeSessions
}

func (sessions *fakeSessions) Begin(context.Context) (Session, error) {
	if sessions.beginErr != nil {
		return nil, sessions.beginErr
	}
	return fakeSession{FakeStore: sessions.store, owner: sessions}, nil
}

func (session fakeSession) Commit(context.Context) error {
	session.owner.commits++
	return nil
}

func (session fakeSession) Rollback(context.Context) error {
	session.owner.rollbacks++
	return nil
}

// flakyHandler fails its first n attempts, then persists one author.
type flakyHandler struct {
	kind     parser.Kind
	failures int
	calls    int
}

func (handler *flakyHandler) Kind() parser.Kind { return handler.kind }

func (handler *flakyHandler) Process(ctx context.Context, st parser.Store, envelope *parser.Envelope) error {
	handler.calls++
	if handler.calls <= handler.failures {
		return errors.New("induced parser failure")
	}
	_, _, err := st.UpsertAuthor(ctx, "ada lovelace", model.AuthorFields{UpdateDate: envelope.UpdateDate})
	return err
}

func newTestEngine(t *testing.T, sessions Sessions, handlers []parser.Handler, config Config) (*Engine, *deadletter.Sink, *[]time.Duration) {
	t.Helper()

	sink := deadletter.NewSink(filepath.Join(t.TempDir(), "persister.errors.json"))
	engine := NewEngine(sessions, handlers, sink, nil, config, testLogger())

	var slept []time.Duration
	engine.sleep = func(d time.Duration) { slept = append(slept, d) }
	engine.randFloat = func() float64 { return 0.5 } // pins jitter to exactly the base delay

	return engine, sink, &slept
}

/*
TestHandle_MalformedEnvelopeDiscarded verifies that unparseable lines and
lines missing required metadata are dropped without touching the store.
*/
func TestHandle_MalformedEnvelopeDiscarded(t *testing.T) {
	sessions := &fakeSessions{store: parsertest.NewFakeStore()}
	engine, _, _ := newTestEngine(t, sessions, parser.All(), Config{MaxRetries: 3, Delay: time.Second})

	engine.Handle(context.Background(), []byte(`{not json`))
	engine.Handle(context.Background(), []byte(`{"class_id": 1000, "variant_id": 40}`)) // missing _id
	engine.Handle(context.Background(), []byte(`"just a string"`))

	assert.Zero(t, sessions.commits)
	assert.Zero(t, sessions.rollbacks)
	assert.Empty(t, sessions.store.Authors)
}

/*
TestHandle_UnknownKindDiscarded verifies that an unrouted (class_id,
variant_id) pair is warned about and dropped without retries.
*/
func TestHandle_UnknownKindDiscarded(t *testing.T) {
	sessions := &fakeSessions{store: parsertest.NewFakeStore()}
	engine, sink, slept := newTestEngine(t, sessions, parser.All(), Config{MaxRetries: 3, Delay: time.Second})

	engine.Handle(context.Background(), []byte(`{"_id": "u1", "class_id": 9999, "variant_id": 1}`))

	assert.Zero(t, sessions.commits)
	assert.Empty(t, *slept)
	entries, err := sink.Entries()
	require.NoError(t, err)
	assert.Empty(t, entries)
}

/*
TestHandle_SuccessCommitsOnce routes a valid scholar author envelope through
the real parser set and expects exactly one committed transaction.
*/
func TestHandle_SuccessCommitsOnce(t *testing.T) {
	sessions := &fakeSessions{store: parsertest.NewFakeStore()}
	engine, _, _ := newTestEngine(t, sessions, parser.All(), Config{MaxRetries: 3, Delay: time.Second})

	engine.Handle(context.Background(), []byte(
		`{"_id": "a1", "class_id": 1000, "variant_id": 40,
		  "update_date": "2026-07-01 12:00:00",
		  "name": "Ada Lovelace", "author_id": "X1", "interests": ["computing"]}`))

	assert.Equal(t, 1, sessions.commits)
	assert.Zero(t, sessions.rollbacks)
	assert.Len(t, sessions.store.Authors, 1)
	assert.Len(t, sessions.store.Interests, 1)
}

/*
TestHandle_ReplayIsIdempotent sends the same envelope twice: row counts stay
put and the author's update counter increments once per replay.
*/
func TestHandle_ReplayIsIdempotent(t *testing.T) {
	sessions := &fakeSessions{store: parsertest.NewFakeStore()}
	engine, _, _ := newTestEngine(t, sessions, parser.All(), Config{MaxRetries: 3, Delay: time.Second})

	line := []byte(`{"_id": "a1", "class_id": 1000, "variant_id": 40,
		"update_date": "2026-07-01 12:00:00",
		"name": "Ada Lovelace", "author_id": "X1"}`)

	engine.Handle(context.Background(), line)
	engine.Handle(context.Background(), line)

	assert.Equal(t, 2, sessions.commits)
	require.Len(t, sessions.store.Authors, 1)
	for _, author := range sessions.store.Authors {
		assert.Equal(t, 2, author.UpdateCount)
	}
}

/*
TestHandle_RetryThenSuccess verifies that a parser failure followed by a
successful retry leaves exactly the committed state of the successful
attempt: one rollback, one commit, one row.
*/
func TestHandle_RetryThenSuccess(t *testing.T) {
	sessions := &fakeSessions{store: parsertest.NewFakeStore()}
	handler := &flakyHandler{kind: parser.Kind{ClassID: 1000, VariantID: 40}, failures: 1}
	engine, sink, slept := newTestEngine(t, sessions, []parser.Handler{handler}, Config{MaxRetries: 3, Delay: time.Second})

	engine.Handle(context.Background(), []byte(`{"_id": "f1", "class_id": 1000, "variant_id": 40}`))

	assert.Equal(t, 2, handler.calls)
	assert.Equal(t, 1, sessions.rollbacks)
	assert.Equal(t, 1, sessions.commits)
	assert.Len(t, sessions.store.Authors, 1)
	assert.Len(t, *slept, 1)

	entries, err := sink.Entries()
	require.NoError(t, err)
	assert.Empty(t, entries, "a recovered message must not be dead-lettered")
}

/*
TestHandle_RetriesExhaustedDeadLetters injects a handler that always fails:
after max_retries attempts the envelope id lands in the dead-letter file
with the error text, and nothing was committed.
*/
func TestHandle_RetriesExhaustedDeadLetters(t *testing.T) {
	sessions := &fakeSessions{store: parsertest.NewFakeStore()}
	handler := &flakyHandler{kind: parser.Kind{ClassID: 1000, VariantID: 40}, failures: 100}
	engine, sink, slept := newTestEngine(t, sessions, []parser.Handler{handler}, Config{MaxRetries: 3, Delay: time.Second})

	engine.Handle(context.Background(), []byte(`{"_id": "dead1", "class_id": 1000, "variant_id": 40}`))

	assert.Equal(t, 3, handler.calls)
	assert.Equal(t, 3, sessions.rollbacks)
	assert.Zero(t, sessions.commits)
	assert.Len(t, *slept, 2, "no sleep after the final attempt")

	entries, err := sink.Entries()
	require.NoError(t, err)
	require.Contains(t, entries, "dead1")
	assert.Contains(t, entries["dead1"], "induced parser failure")
}

/*
TestJitteredDelay pins the uniform draw and checks the +-20% envelope.
*/
func TestJitteredDelay(t *testing.T) {
	base := 10 * time.Second

	assert.Equal(t, 8*time.Second, jitteredDelay(base, func() float64 { return 0 }))
	assert.Equal(t, base, jitteredDelay(base, func() float64 { return 0.5 }))
	assert.InDelta(t, float64(12*time.Second), float64(jitteredDelay(base, func() float64 { return 0.999999 })), float64(50*time.Millisecond))
	assert.Equal(t, time.Duration(0), jitteredDelay(0, func() float64 { return 0.5 }))
}

/*
TestParseEnvelope_UpdateDate verifies wire-format parsing and rejection of
malformed dates.
*/
func TestParseEnvelope_UpdateDate(t *testing.T) {
	envelope, err := parseEnvelope([]byte(
		`{"_id": "a1", "class_id": 1000, "variant_id": 40, "update_date": "2026-07-01 12:34:56"}`))
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 7, 1, 12, 34, 56, 0, time.UTC), envelope.UpdateDate)

	_, err = parseEnvelope([]byte(
		`{"_id": "a1", "class_id": 1000, "variant_id": 40, "update_date": "not a date"}`))
	assert.ErrorIs(t, err, ErrMalformedEnvelope)
}
