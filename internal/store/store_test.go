// Copyright (c) 2026 GwnGames. All rights reserved.
// Author: dev@gwngames.com

package store_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gwngames/persister/internal/model"
	"github.com/gwngames/persister/internal/store"
)

func newMockSession(t *testing.T) (*store.Session, pgxmock.PgxPoolIface) {
	t.Helper()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	session := store.NewSession(mock, store.DefaultSimilarity(), slog.Default())
	return session, mock
}

/*
TestUpsertAuthor_InsertWhenNoCandidate verifies that a probe with no match
above threshold creates a fresh row with the lowercased name and an
update_count of 1.
*/
func TestUpsertAuthor_InsertWhenNoCandidate(t *testing.T) {
	session, mock := newMockSession(t)

	mock.ExpectQuery(`FROM persister\.author`).
		WithArgs("ad%", "%lovelace", "ada lovelace", 0.70).
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectExec(`INSERT INTO persister\.author`).
		WithArgs(pgxmock.AnyArg(), "ada lovelace", pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), model.ClassAuthor, model.VariantBase, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	author, created, err := session.UpsertAuthor(context.Background(), "Ada Lovelace", model.AuthorFields{
		UpdateDate: time.Date(2026, 7, 1, 10, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	assert.True(t, created)
	assert.Equal(t, "ada lovelace", author.Name)
	assert.NotEmpty(t, author.ID)
	assert.Equal(t, 1, author.UpdateCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

/*
TestUpsertAuthor_UpdateWhenCandidateFound verifies that a locked candidate is
updated in place instead of inserting a near-duplicate.
*/
func TestUpsertAuthor_UpdateWhenCandidateFound(t *testing.T) {
	session, mock := newMockSession(t)

	matchedAt := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	role := "professor"

	mock.ExpectQuery(`FROM persister\.author`).
		WithArgs("a%", "%lovelace", "a. lovelace", 0.70).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "name", "role", "organization", "image_url", "homepage_url",
			"class_id", "variant_id", "update_date", "update_count",
		}).AddRow(
			"0198c2f0-0000-7000-8000-000000000001", "ada lovelace",
			(*string)(nil), (*string)(nil), (*string)(nil), (*string)(nil),
			model.ClassAuthor, model.VariantBase, matchedAt, 3,
		))
	mock.ExpectQuery(`UPDATE persister\.author`).
		WillReturnRows(pgxmock.NewRows([]string{
			"role", "organization", "image_url", "homepage_url", "update_date", "update_count",
		}).AddRow(&role, (*string)(nil), (*string)(nil), (*string)(nil), matchedAt.Add(time.Hour), 4))

	author, created, err := session.UpsertAuthor(context.Background(), "A. Lovelace", model.AuthorFields{
		Role:       &role,
		UpdateDate: matchedAt.Add(time.Hour),
	})
	require.NoError(t, err)

	assert.False(t, created)
	assert.Equal(t, "ada lovelace", author.Name)
	assert.Equal(t, 4, author.UpdateCount)
	require.NotNil(t, author.Role)
	assert.Equal(t, "professor", *author.Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

/*
TestLinkCoauthors_Symmetric verifies that one LinkCoauthors call records both
ordered directions, and that self-pairs are skipped entirely.
*/
func TestLinkCoauthors_Symmetric(t *testing.T) {
	session, mock := newMockSession(t)

	mock.ExpectQuery(`SELECT 1 FROM persister\.author_coauthor`).
		WithArgs("author-a", "author-b").
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectExec(`INSERT INTO persister\.author_coauthor`).
		WithArgs("author-a", "author-b").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectQuery(`SELECT 1 FROM persister\.author_coauthor`).
		WithArgs("author-b", "author-a").
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectExec(`INSERT INTO persister\.author_coauthor`).
		WithArgs("author-b", "author-a").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, session.LinkCoauthors(context.Background(), "author-a", "author-b"))
	assert.NoError(t, mock.ExpectationsWereMet())

	// A self-pair must not touch the database at all.
	require.NoError(t, session.LinkCoauthors(context.Background(), "author-a", "author-a"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

/*
TestGuardedLink_SkipsExistingRow verifies that a link probe finding the
composite key present does not insert again.
*/
func TestGuardedLink_SkipsExistingRow(t *testing.T) {
	session, mock := newMockSession(t)

	mock.ExpectQuery(`SELECT 1 FROM persister\.publication_author`).
		WithArgs("pub-1", "author-1").
		WillReturnRows(pgxmock.NewRows([]string{"?column?"}).AddRow(1))

	require.NoError(t, session.LinkPublicationAuthor(context.Background(), "pub-1", "author-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
