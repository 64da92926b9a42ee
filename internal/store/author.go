// Copyright (c) 2026 GwnGames. All rights reserved.
// Author: dev@gwngames.com

package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/gwngames/persister/internal/model"
	"github.com/gwngames/persister/internal/platform/database/schema"
	"github.com/gwngames/persister/internal/platform/dberr"
	"github.com/gwngames/persister/pkg/textkey"
	"github.com/gwngames/persister/pkg/uuidv7"
)

// # Candidate Lookup

// authorPrefilter derives the LIKE arguments narrowing an author probe:
// the surname (last token) anchors the suffix, the leading one or two
// characters anchor the prefix. Two characters are kept only when the first
// token is longer than a bare initial.
func authorPrefilter(name string) (initials, surname string) {
	tokens := strings.Fields(name)
	if len(tokens) == 0 {
		return "", ""
	}

	surname = tokens[len(tokens)-1]

	firstToken := strings.ReplaceAll(tokens[0], ".", "")
	if len([]rune(firstToken)) > 1 {
		initials = runePrefix(name, 2)
	} else {
		initials = runePrefix(name, 1)
	}

	return initials, surname
}

// findAuthor locks and returns the best-scoring author above the similarity
// threshold, or nil when no candidate qualifies.
func (session *Session) findAuthor(ctx context.Context, nameLower string) (*model.Author, error) {
	initials, surname := authorPrefilter(nameLower)

	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s LIKE $1 AND %s LIKE $2
		  AND word_similarity(LOWER(%s), $3) >= $4
		ORDER BY word_similarity(LOWER(%s), $3) DESC
		LIMIT 1
		FOR UPDATE`,
		schema.Author.ID, schema.Author.Name, schema.Author.Role, schema.Author.Organization,
		schema.Author.ImageURL, schema.Author.HomepageURL,
		schema.Author.ClassID, schema.Author.VariantID, schema.Author.UpdateDate, schema.Author.UpdateCount,
		schema.Author.Table,
		schema.Author.Name, schema.Author.Name,
		schema.Author.Name,
		schema.Author.Name,
	)

	author := &model.Author{}
	err := session.q.QueryRow(ctx, query,
		initials+"%", "%"+surname, nameLower, session.similarity.AuthorName,
	).Scan(
		&author.ID, &author.Name, &author.Role, &author.Organization,
		&author.ImageURL, &author.HomepageURL,
		&author.ClassID, &author.VariantID, &author.UpdateDate, &author.UpdateCount,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, dberr.Wrap(err, "find_author")
	}

	return author, nil
}

// FindAuthorByName returns the best fuzzy match for name without creating
// anything. It returns (nil, nil) when no candidate passes the threshold.
func (session *Session) FindAuthorByName(ctx context.Context, name string) (*model.Author, error) {
	return session.findAuthor(ctx, textkey.Fold(name))
}

// # Upsert

// UpsertAuthor reconciles an author by fuzzy name match. The created flag
// reports whether a new row was inserted. Absent payload fields leave the
// existing column values intact.
func (session *Session) UpsertAuthor(ctx context.Context, name string, fields model.AuthorFields) (*model.Author, bool, error) {
	nameLower := textkey.Fold(name)

	author, err := session.findAuthor(ctx, nameLower)
	if err != nil {
		return nil, false, err
	}

	if author == nil {
		author, err = session.insertAuthor(ctx, nameLower, fields)
		if err != nil {
			return nil, false, err
		}
		return author, true, nil
	}

	if err := session.updateAuthor(ctx, author, fields); err != nil {
		return nil, false, err
	}
	return author, false, nil
}

func (session *Session) insertAuthor(ctx context.Context, nameLower string, fields model.AuthorFields) (*model.Author, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (
			%s, %s, %s, %s, %s, %s, %s, %s, %s, %s
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 1)`,
		schema.Author.Table,
		schema.Author.ID, schema.Author.Name, schema.Author.Role, schema.Author.Organization,
		schema.Author.ImageURL, schema.Author.HomepageURL,
		schema.Author.ClassID, schema.Author.VariantID, schema.Author.UpdateDate,
	)

	author := &model.Author{
		ID:           uuidv7.New(),
		Name:         nameLower,
		Role:         fields.Role,
		Organization: fields.Organization,
		ImageURL:     fields.ImageURL,
		HomepageURL:  fields.HomepageURL,
		Meta: model.Meta{
			ClassID:     model.ClassAuthor,
			VariantID:   model.VariantBase,
			UpdateDate:  orNow(fields.UpdateDate),
			UpdateCount: 1,
		},
	}

	_, err := session.q.Exec(ctx, query,
		author.ID, author.Name, author.Role, author.Organization,
		author.ImageURL, author.HomepageURL,
		author.ClassID, author.VariantID, author.UpdateDate,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "insert_author")
	}

	return author, nil
}

func (session *Session) updateAuthor(ctx context.Context, author *model.Author, fields model.AuthorFields) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = COALESCE($2, %s),
		    %s = COALESCE($3, %s),
		    %s = COALESCE($4, %s),
		    %s = COALESCE($5, %s),
		    %s = GREATEST(%s, $6),
		    %s = COALESCE(%s, 0) + 1
		WHERE %s = $1
		RETURNING %s, %s, %s, %s, %s, %s`,
		schema.Author.Table,
		schema.Author.Role, schema.Author.Role,
		schema.Author.Organization, schema.Author.Organization,
		schema.Author.ImageURL, schema.Author.ImageURL,
		schema.Author.HomepageURL, schema.Author.HomepageURL,
		schema.Author.UpdateDate, schema.Author.UpdateDate,
		schema.Author.UpdateCount, schema.Author.UpdateCount,
		schema.Author.ID,
		schema.Author.Role, schema.Author.Organization, schema.Author.ImageURL,
		schema.Author.HomepageURL, schema.Author.UpdateDate, schema.Author.UpdateCount,
	)

	err := session.q.QueryRow(ctx, query,
		author.ID, fields.Role, fields.Organization, fields.ImageURL, fields.HomepageURL,
		orNow(fields.UpdateDate),
	).Scan(
		&author.Role, &author.Organization, &author.ImageURL,
		&author.HomepageURL, &author.UpdateDate, &author.UpdateCount,
	)
	if err != nil {
		return dberr.Wrap(err, "update_author")
	}

	return nil
}
