// Copyright (c) 2026 GwnGames. All rights reserved.
// Author: dev@gwngames.com

package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/gwngames/persister/internal/model"
	"github.com/gwngames/persister/internal/platform/database/schema"
	"github.com/gwngames/persister/internal/platform/dberr"
	"github.com/gwngames/persister/pkg/pointer"
	"github.com/gwngames/persister/pkg/textkey"
	"github.com/gwngames/persister/pkg/uuidv7"
)

// unrankedConference is the rank assigned to conferences created through the
// acronym fallback path with no rank in the payload.
const unrankedConference = "Unranked"

// # Candidate Lookup

// findConference locks and returns the best-scoring conference for the given
// uppercased acronym at or above the jarowinkler threshold, or nil.
func (session *Session) findConference(ctx context.Context, acronymUpper string, minScore float64) (*model.Conference, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE jarowinkler(%s, $1) >= $2
		ORDER BY jarowinkler(%s, $1) DESC
		LIMIT 1
		FOR UPDATE`,
		schema.Conference.ID, schema.Conference.Title, schema.Conference.Acronym,
		schema.Conference.Publisher, schema.Conference.Rank, schema.Conference.Note,
		schema.Conference.DBLPLink, schema.Conference.PrimaryFor, schema.Conference.Comments,
		schema.Conference.AverageRating, schema.Conference.Year,
		schema.Conference.ClassID, schema.Conference.VariantID,
		schema.Conference.UpdateDate, schema.Conference.UpdateCount,
		schema.Conference.Table,
		schema.Conference.Acronym,
		schema.Conference.Acronym,
	)

	conference := &model.Conference{}
	err := session.q.QueryRow(ctx, query, acronymUpper, minScore).Scan(
		&conference.ID, &conference.Title, &conference.Acronym,
		&conference.Publisher, &conference.Rank, &conference.Note,
		&conference.DBLPLink, &conference.PrimaryFor, &conference.Comments,
		&conference.AverageRating, &conference.Year,
		&conference.ClassID, &conference.VariantID,
		&conference.UpdateDate, &conference.UpdateCount,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, dberr.Wrap(err, "find_conference")
	}

	return conference, nil
}

// # Upsert

// UpsertConference reconciles a conference keyed on acronym similarity.
// When the raw acronym has no candidate, it is split successively on
// '@', '/', '-' and each part is probed in order; the first match wins.
// With no match at all a new row is inserted under the last-split part,
// defaulting to rank "Unranked".
func (session *Session) UpsertConference(ctx context.Context, acronym string, fields model.ConferenceFields) (*model.Conference, bool, error) {
	acronymUpper := strings.ToUpper(textkey.Sanitize(acronym))

	conference, err := session.findConference(ctx, acronymUpper, session.similarity.ConferenceAcronym)
	if err != nil {
		return nil, false, err
	}

	parts := splitAcronym(acronymUpper)
	if conference == nil && len(parts) > 1 {
		for _, part := range parts {
			conference, err = session.findConference(ctx, part, session.similarity.ConferenceAcronymPart)
			if err != nil {
				return nil, false, err
			}
			if conference != nil {
				session.logger.Debug("conference_acronym_fallback_matched",
					slog.String("acronym", acronymUpper),
					slog.String("part", part),
				)
				break
			}
		}
	}

	if conference == nil {
		insertAcronym := acronymUpper
		if len(parts) > 0 {
			insertAcronym = parts[len(parts)-1]
		}
		conference, err = session.insertConference(ctx, insertAcronym, fields)
		if err != nil {
			return nil, false, err
		}
		return conference, true, nil
	}

	if err := session.updateConference(ctx, conference, fields); err != nil {
		return nil, false, err
	}
	return conference, false, nil
}

func (session *Session) insertConference(ctx context.Context, acronymUpper string, fields model.ConferenceFields) (*model.Conference, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (
			%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, 1)`,
		schema.Conference.Table,
		schema.Conference.ID, schema.Conference.Title, schema.Conference.Acronym,
		schema.Conference.Publisher, schema.Conference.Rank, schema.Conference.Note,
		schema.Conference.DBLPLink, schema.Conference.PrimaryFor, schema.Conference.Comments,
		schema.Conference.AverageRating, schema.Conference.Year,
		schema.Conference.ClassID, schema.Conference.VariantID,
		schema.Conference.UpdateDate, schema.Conference.UpdateCount,
	)

	conference := &model.Conference{
		ID:            uuidv7.New(),
		Title:         pointer.Fallback(fields.Title, acronymUpper),
		Acronym:       acronymUpper,
		Publisher:     fields.Publisher,
		Rank:          pointer.To(pointer.Fallback(fields.Rank, unrankedConference)),
		Note:          fields.Note,
		DBLPLink:      fields.DBLPLink,
		PrimaryFor:    fields.PrimaryFor,
		Comments:      fields.Comments,
		AverageRating: fields.AverageRating,
		Year:          fields.Year,
		Meta: model.Meta{
			ClassID:     model.ClassConference,
			VariantID:   model.VariantConference,
			UpdateDate:  orNow(fields.UpdateDate),
			UpdateCount: 1,
		},
	}

	_, err := session.q.Exec(ctx, query,
		conference.ID, conference.Title, conference.Acronym,
		conference.Publisher, conference.Rank, conference.Note,
		conference.DBLPLink, conference.PrimaryFor, conference.Comments,
		conference.AverageRating, conference.Year,
		conference.ClassID, conference.VariantID, conference.UpdateDate,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "insert_conference")
	}

	return conference, nil
}

func (session *Session) updateConference(ctx context.Context, conference *model.Conference, fields model.ConferenceFields) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = COALESCE($2, %s),
		    %s = COALESCE($3, %s),
		    %s = COALESCE($4, %s),
		    %s = COALESCE($5, %s),
		    %s = COALESCE($6, %s),
		    %s = COALESCE($7, %s),
		    %s = COALESCE($8, %s),
		    %s = COALESCE($9, %s),
		    %s = $10,
		    %s = GREATEST(%s, $11),
		    %s = COALESCE(%s, 0) + 1
		WHERE %s = $1
		RETURNING %s, %s`,
		schema.Conference.Table,
		schema.Conference.Title, schema.Conference.Title,
		schema.Conference.Publisher, schema.Conference.Publisher,
		schema.Conference.Rank, schema.Conference.Rank,
		schema.Conference.Note, schema.Conference.Note,
		schema.Conference.DBLPLink, schema.Conference.DBLPLink,
		schema.Conference.PrimaryFor, schema.Conference.PrimaryFor,
		schema.Conference.Comments, schema.Conference.Comments,
		schema.Conference.AverageRating, schema.Conference.AverageRating,
		schema.Conference.Year,
		schema.Conference.UpdateDate, schema.Conference.UpdateDate,
		schema.Conference.UpdateCount, schema.Conference.UpdateCount,
		schema.Conference.ID,
		schema.Conference.UpdateDate, schema.Conference.UpdateCount,
	)

	err := session.q.QueryRow(ctx, query,
		conference.ID, fields.Title, fields.Publisher, fields.Rank, fields.Note,
		fields.DBLPLink, fields.PrimaryFor, fields.Comments, fields.AverageRating,
		fields.Year,
		orNow(fields.UpdateDate),
	).Scan(&conference.UpdateDate, &conference.UpdateCount)
	if err != nil {
		return dberr.Wrap(err, "update_conference")
	}

	conference.Year = fields.Year
	return nil
}
