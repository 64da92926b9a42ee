// Copyright (c) 2026 GwnGames. All rights reserved.
// Author: dev@gwngames.com

package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/gwngames/persister/internal/model"
	"github.com/gwngames/persister/internal/platform/database/schema"
	"github.com/gwngames/persister/internal/platform/dberr"
	"github.com/gwngames/persister/pkg/textkey"
	"github.com/gwngames/persister/pkg/uuidv7"
)

// # Candidate Lookup

// findPublication locks and returns the best-scoring publication above the
// title similarity threshold, or nil when no candidate qualifies. The probe
// is narrowed with a LIKE on the word selected by [textkey.FirstAfterFifth].
func (session *Session) findPublication(ctx context.Context, titleLower string) (*model.Publication, error) {
	probeWord := textkey.FirstAfterFifth(titleLower)

	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s LIKE $1
		  AND jarowinkler(LOWER(%s), $2) >= $3
		ORDER BY jarowinkler(LOWER(%s), $2) DESC
		LIMIT 1
		FOR UPDATE`,
		schema.Publication.ID, schema.Publication.Title, schema.Publication.URL,
		schema.Publication.PublicationYear, schema.Publication.Pages, schema.Publication.Publisher,
		schema.Publication.Description, schema.Publication.JournalKey, schema.Publication.ConferenceKey,
		schema.Publication.ClassID, schema.Publication.VariantID,
		schema.Publication.UpdateDate, schema.Publication.UpdateCount,
		schema.Publication.Table,
		schema.Publication.Title,
		schema.Publication.Title,
		schema.Publication.Title,
	)

	publication := &model.Publication{}
	err := session.q.QueryRow(ctx, query,
		"%"+probeWord+"%", titleLower, session.similarity.PublicationTitle,
	).Scan(
		&publication.ID, &publication.Title, &publication.URL,
		&publication.PublicationYear, &publication.Pages, &publication.Publisher,
		&publication.Description, &publication.JournalKey, &publication.ConferenceKey,
		&publication.ClassID, &publication.VariantID,
		&publication.UpdateDate, &publication.UpdateCount,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, dberr.Wrap(err, "find_publication")
	}

	return publication, nil
}

// FindPublicationByTitle returns the best fuzzy match for title without
// creating anything. It returns (nil, nil) when no candidate qualifies.
func (session *Session) FindPublicationByTitle(ctx context.Context, title string) (*model.Publication, error) {
	return session.findPublication(ctx, textkey.Fold(title))
}

// FindPublicationByID retrieves a publication by primary key, or (nil, nil)
// when the row does not exist.
func (session *Session) FindPublicationByID(ctx context.Context, id string) (*model.Publication, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1`,
		schema.Publication.ID, schema.Publication.Title, schema.Publication.URL,
		schema.Publication.PublicationYear, schema.Publication.Pages, schema.Publication.Publisher,
		schema.Publication.Description, schema.Publication.JournalKey, schema.Publication.ConferenceKey,
		schema.Publication.ClassID, schema.Publication.VariantID,
		schema.Publication.UpdateDate, schema.Publication.UpdateCount,
		schema.Publication.Table,
		schema.Publication.ID,
	)

	publication := &model.Publication{}
	err := session.q.QueryRow(ctx, query, id).Scan(
		&publication.ID, &publication.Title, &publication.URL,
		&publication.PublicationYear, &publication.Pages, &publication.Publisher,
		&publication.Description, &publication.JournalKey, &publication.ConferenceKey,
		&publication.ClassID, &publication.VariantID,
		&publication.UpdateDate, &publication.UpdateCount,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, dberr.Wrap(err, "find_publication_by_id")
	}

	return publication, nil
}

// # Upsert

// UpsertPublication reconciles a publication by fuzzy title match.
func (session *Session) UpsertPublication(ctx context.Context, title string, fields model.PublicationFields) (*model.Publication, bool, error) {
	titleLower := textkey.Fold(title)

	publication, err := session.findPublication(ctx, titleLower)
	if err != nil {
		return nil, false, err
	}

	if publication == nil {
		publication, err = session.insertPublication(ctx, titleLower, fields)
		if err != nil {
			return nil, false, err
		}
		return publication, true, nil
	}

	if err := session.updatePublication(ctx, publication, fields); err != nil {
		return nil, false, err
	}
	return publication, false, nil
}

func (session *Session) insertPublication(ctx context.Context, titleLower string, fields model.PublicationFields) (*model.Publication, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (
			%s, %s, %s, %s, %s, %s, %s, %s, %s, %s
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 1)`,
		schema.Publication.Table,
		schema.Publication.ID, schema.Publication.Title, schema.Publication.URL,
		schema.Publication.PublicationYear, schema.Publication.Pages, schema.Publication.Publisher,
		schema.Publication.Description,
		schema.Publication.ClassID, schema.Publication.VariantID, schema.Publication.UpdateDate,
	)

	publication := &model.Publication{
		ID:              uuidv7.New(),
		Title:           titleLower,
		URL:             fields.URL,
		PublicationYear: fields.PublicationYear,
		Pages:           fields.Pages,
		Publisher:       fields.Publisher,
		Description:     fields.Description,
		Meta: model.Meta{
			ClassID:     model.ClassPublication,
			VariantID:   model.VariantBase,
			UpdateDate:  orNow(fields.UpdateDate),
			UpdateCount: 1,
		},
	}

	_, err := session.q.Exec(ctx, query,
		publication.ID, publication.Title, publication.URL,
		publication.PublicationYear, publication.Pages, publication.Publisher,
		publication.Description,
		publication.ClassID, publication.VariantID, publication.UpdateDate,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "insert_publication")
	}

	return publication, nil
}

func (session *Session) updatePublication(ctx context.Context, publication *model.Publication, fields model.PublicationFields) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = COALESCE($2, %s),
		    %s = COALESCE($3, %s),
		    %s = COALESCE($4, %s),
		    %s = COALESCE($5, %s),
		    %s = COALESCE($6, %s),
		    %s = GREATEST(%s, $7),
		    %s = COALESCE(%s, 0) + 1
		WHERE %s = $1
		RETURNING %s, %s, %s, %s, %s, %s, %s`,
		schema.Publication.Table,
		schema.Publication.URL, schema.Publication.URL,
		schema.Publication.PublicationYear, schema.Publication.PublicationYear,
		schema.Publication.Pages, schema.Publication.Pages,
		schema.Publication.Publisher, schema.Publication.Publisher,
		schema.Publication.Description, schema.Publication.Description,
		schema.Publication.UpdateDate, schema.Publication.UpdateDate,
		schema.Publication.UpdateCount, schema.Publication.UpdateCount,
		schema.Publication.ID,
		schema.Publication.URL, schema.Publication.PublicationYear, schema.Publication.Pages,
		schema.Publication.Publisher, schema.Publication.Description,
		schema.Publication.UpdateDate, schema.Publication.UpdateCount,
	)

	err := session.q.QueryRow(ctx, query,
		publication.ID, fields.URL, fields.PublicationYear, fields.Pages,
		fields.Publisher, fields.Description,
		orNow(fields.UpdateDate),
	).Scan(
		&publication.URL, &publication.PublicationYear, &publication.Pages,
		&publication.Publisher, &publication.Description,
		&publication.UpdateDate, &publication.UpdateCount,
	)
	if err != nil {
		return dberr.Wrap(err, "update_publication")
	}

	return nil
}

// # Venue Attachment

// SetPublicationJournal points the publication at a journal row.
func (session *Session) SetPublicationJournal(ctx context.Context, publicationKey, journalKey string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2 WHERE %s = $1`,
		schema.Publication.Table, schema.Publication.JournalKey, schema.Publication.ID,
	)
	_, err := session.q.Exec(ctx, query, publicationKey, journalKey)
	return dberr.Wrap(err, "set_publication_journal")
}

// SetPublicationConference points the publication at a conference row.
func (session *Session) SetPublicationConference(ctx context.Context, publicationKey, conferenceKey string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2 WHERE %s = $1`,
		schema.Publication.Table, schema.Publication.ConferenceKey, schema.Publication.ID,
	)
	_, err := session.q.Exec(ctx, query, publicationKey, conferenceKey)
	return dberr.Wrap(err, "set_publication_conference")
}
