// Copyright (c) 2026 GwnGames. All rights reserved.
// Author: dev@gwngames.com

package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/gwngames/persister/internal/platform/database/schema"
	"github.com/gwngames/persister/internal/platform/dberr"
)

// Link tables reconcile with guarded inserts: a SELECT on the composite key
// first, then INSERT ... ON CONFLICT DO NOTHING as a second guard against
// races between sessions.

// LinkPublicationAuthor attaches an author to a publication.
func (session *Session) LinkPublicationAuthor(ctx context.Context, publicationKey, authorKey string) error {
	return session.guardedLink(ctx,
		schema.PublicationAuthor.Table,
		schema.PublicationAuthor.PublicationKey, schema.PublicationAuthor.AuthorKey,
		publicationKey, authorKey,
		"link_publication_author",
	)
}

// LinkAuthorInterest attaches an interest to an author.
func (session *Session) LinkAuthorInterest(ctx context.Context, authorKey, interestKey string) error {
	return session.guardedLink(ctx,
		schema.AuthorInterest.Table,
		schema.AuthorInterest.AuthorKey, schema.AuthorInterest.InterestKey,
		authorKey, interestKey,
		"link_author_interest",
	)
}

// LinkCoauthors records the undirected co-author relation between two
// authors by inserting both ordered directions. Self-pairs are ignored.
func (session *Session) LinkCoauthors(ctx context.Context, authorKey, coauthorKey string) error {
	if authorKey == coauthorKey {
		return nil
	}

	if err := session.guardedLink(ctx,
		schema.AuthorCoauthor.Table,
		schema.AuthorCoauthor.AuthorKey, schema.AuthorCoauthor.CoauthorKey,
		authorKey, coauthorKey,
		"link_author_coauthor",
	); err != nil {
		return err
	}

	return session.guardedLink(ctx,
		schema.AuthorCoauthor.Table,
		schema.AuthorCoauthor.AuthorKey, schema.AuthorCoauthor.CoauthorKey,
		coauthorKey, authorKey,
		"link_author_coauthor",
	)
}

// guardedLink inserts (left, right) into a two-column link table only if the
// composite key is absent.
func (session *Session) guardedLink(ctx context.Context, table, leftCol, rightCol, left, right, action string) error {
	selectQuery := fmt.Sprintf(`SELECT 1 FROM %s WHERE %s = $1 AND %s = $2`,
		table, leftCol, rightCol,
	)

	var one int
	err := session.q.QueryRow(ctx, selectQuery, left, right).Scan(&one)
	if err == nil {
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return dberr.Wrap(err, action)
	}

	insertQuery := fmt.Sprintf(`
		INSERT INTO %s (%s, %s) VALUES ($1, $2)
		ON CONFLICT DO NOTHING`,
		table, leftCol, rightCol,
	)

	if _, err := session.q.Exec(ctx, insertQuery, left, right); err != nil {
		return dberr.Wrap(err, action)
	}

	return nil
}
