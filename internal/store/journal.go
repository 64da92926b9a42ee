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

// findJournal locks and returns the best-scoring journal at or above the
// given jaro threshold, or nil when no candidate qualifies.
func (session *Session) findJournal(ctx context.Context, titleLower string, minScore float64) (*model.Journal, error) {
	probeWord := textkey.FirstAfterFifth(titleLower)

	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s LIKE $1
		  AND jaro(LOWER(%s), $2) >= $3
		ORDER BY jaro(LOWER(%s), $2) DESC
		LIMIT 1
		FOR UPDATE`,
		schema.Journal.ID, schema.Journal.Title, schema.Journal.Type, schema.Journal.Year,
		schema.Journal.Link, schema.Journal.SJR, schema.Journal.QRank, schema.Journal.HIndex,
		schema.Journal.TotalDocs, schema.Journal.TotalDocs3Years, schema.Journal.TotalRefs,
		schema.Journal.TotalCites3Years, schema.Journal.CitableDocs3Years,
		schema.Journal.CitesPerDoc2Years, schema.Journal.RefsPerDoc, schema.Journal.FemalePercent,
		schema.Journal.ClassID, schema.Journal.VariantID, schema.Journal.UpdateDate, schema.Journal.UpdateCount,
		schema.Journal.Table,
		schema.Journal.Title,
		schema.Journal.Title,
		schema.Journal.Title,
	)

	journal := &model.Journal{}
	err := session.q.QueryRow(ctx, query,
		"%"+probeWord+"%", titleLower, minScore,
	).Scan(
		&journal.ID, &journal.Title, &journal.Type, &journal.Year,
		&journal.Link, &journal.SJR, &journal.QRank, &journal.HIndex,
		&journal.TotalDocs, &journal.TotalDocs3Years, &journal.TotalRefs,
		&journal.TotalCites3Years, &journal.CitableDocs3Years,
		&journal.CitesPerDoc2Years, &journal.RefsPerDoc, &journal.FemalePercent,
		&journal.ClassID, &journal.VariantID, &journal.UpdateDate, &journal.UpdateCount,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, dberr.Wrap(err, "find_journal")
	}

	return journal, nil
}

// # Upserts

// UpsertJournal reconciles a journal from the SJR feed by fuzzy title match.
func (session *Session) UpsertJournal(ctx context.Context, title string, fields model.JournalFields) (*model.Journal, bool, error) {
	return session.upsertJournal(ctx, title, session.similarity.JournalTitle, fields)
}

// UpsertAssocJournal reconciles a journal referenced by a DBLP association
// envelope, using the stricter association threshold.
func (session *Session) UpsertAssocJournal(ctx context.Context, title string, fields model.JournalFields) (*model.Journal, bool, error) {
	return session.upsertJournal(ctx, title, session.similarity.JournalTitleAssoc, fields)
}

func (session *Session) upsertJournal(ctx context.Context, title string, minScore float64, fields model.JournalFields) (*model.Journal, bool, error) {
	titleLower := textkey.Fold(title)

	journal, err := session.findJournal(ctx, titleLower, minScore)
	if err != nil {
		return nil, false, err
	}

	if journal == nil {
		journal, err = session.insertJournal(ctx, titleLower, fields)
		if err != nil {
			return nil, false, err
		}
		return journal, true, nil
	}

	if err := session.updateJournal(ctx, journal, fields); err != nil {
		return nil, false, err
	}
	return journal, false, nil
}

func (session *Session) insertJournal(ctx context.Context, titleLower string, fields model.JournalFields) (*model.Journal, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (
			%s, %s, %s, %s, %s, %s, %s, %s,
			%s, %s, %s, %s, %s, %s, %s, %s,
			%s, %s, %s, %s
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, 1)`,
		schema.Journal.Table,
		schema.Journal.ID, schema.Journal.Title, schema.Journal.Type, schema.Journal.Year,
		schema.Journal.Link, schema.Journal.SJR, schema.Journal.QRank, schema.Journal.HIndex,
		schema.Journal.TotalDocs, schema.Journal.TotalDocs3Years, schema.Journal.TotalRefs,
		schema.Journal.TotalCites3Years, schema.Journal.CitableDocs3Years,
		schema.Journal.CitesPerDoc2Years, schema.Journal.RefsPerDoc, schema.Journal.FemalePercent,
		schema.Journal.ClassID, schema.Journal.VariantID, schema.Journal.UpdateDate, schema.Journal.UpdateCount,
	)

	journal := &model.Journal{
		ID:                uuidv7.New(),
		Title:             titleLower,
		Type:              fields.Type,
		Year:              fields.Year,
		Link:              fields.Link,
		SJR:               fields.SJR,
		QRank:             fields.QRank,
		HIndex:            fields.HIndex,
		TotalDocs:         fields.TotalDocs,
		TotalDocs3Years:   fields.TotalDocs3Years,
		TotalRefs:         fields.TotalRefs,
		TotalCites3Years:  fields.TotalCites3Years,
		CitableDocs3Years: fields.CitableDocs3Years,
		CitesPerDoc2Years: fields.CitesPerDoc2Years,
		RefsPerDoc:        fields.RefsPerDoc,
		FemalePercent:     fields.FemalePercent,
		Meta: model.Meta{
			ClassID:     model.ClassJournal,
			VariantID:   model.VariantJournal,
			UpdateDate:  orNow(fields.UpdateDate),
			UpdateCount: 1,
		},
	}

	_, err := session.q.Exec(ctx, query,
		journal.ID, journal.Title, journal.Type, journal.Year,
		journal.Link, journal.SJR, journal.QRank, journal.HIndex,
		journal.TotalDocs, journal.TotalDocs3Years, journal.TotalRefs,
		journal.TotalCites3Years, journal.CitableDocs3Years,
		journal.CitesPerDoc2Years, journal.RefsPerDoc, journal.FemalePercent,
		journal.ClassID, journal.VariantID, journal.UpdateDate,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "insert_journal")
	}

	return journal, nil
}

func (session *Session) updateJournal(ctx context.Context, journal *model.Journal, fields model.JournalFields) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = COALESCE($2, %s),
		    %s = $3,
		    %s = COALESCE($4, %s),
		    %s = COALESCE($5, %s),
		    %s = COALESCE($6, %s),
		    %s = COALESCE($7, %s),
		    %s = COALESCE($8, %s),
		    %s = COALESCE($9, %s),
		    %s = COALESCE($10, %s),
		    %s = COALESCE($11, %s),
		    %s = COALESCE($12, %s),
		    %s = COALESCE($13, %s),
		    %s = COALESCE($14, %s),
		    %s = COALESCE($15, %s),
		    %s = GREATEST(%s, $16),
		    %s = COALESCE(%s, 0) + 1
		WHERE %s = $1
		RETURNING %s, %s`,
		schema.Journal.Table,
		schema.Journal.Type, schema.Journal.Type,
		schema.Journal.Year,
		schema.Journal.Link, schema.Journal.Link,
		schema.Journal.SJR, schema.Journal.SJR,
		schema.Journal.QRank, schema.Journal.QRank,
		schema.Journal.HIndex, schema.Journal.HIndex,
		schema.Journal.TotalDocs, schema.Journal.TotalDocs,
		schema.Journal.TotalDocs3Years, schema.Journal.TotalDocs3Years,
		schema.Journal.TotalRefs, schema.Journal.TotalRefs,
		schema.Journal.TotalCites3Years, schema.Journal.TotalCites3Years,
		schema.Journal.CitableDocs3Years, schema.Journal.CitableDocs3Years,
		schema.Journal.CitesPerDoc2Years, schema.Journal.CitesPerDoc2Years,
		schema.Journal.RefsPerDoc, schema.Journal.RefsPerDoc,
		schema.Journal.FemalePercent, schema.Journal.FemalePercent,
		schema.Journal.UpdateDate, schema.Journal.UpdateDate,
		schema.Journal.UpdateCount, schema.Journal.UpdateCount,
		schema.Journal.ID,
		schema.Journal.UpdateDate, schema.Journal.UpdateCount,
	)

	err := session.q.QueryRow(ctx, query,
		journal.ID, fields.Type, fields.Year, fields.Link, fields.SJR, fields.QRank,
		fields.HIndex, fields.TotalDocs, fields.TotalDocs3Years, fields.TotalRefs,
		fields.TotalCites3Years, fields.CitableDocs3Years, fields.CitesPerDoc2Years,
		fields.RefsPerDoc, fields.FemalePercent,
		orNow(fields.UpdateDate),
	).Scan(&journal.UpdateDate, &journal.UpdateCount)
	if err != nil {
		return dberr.Wrap(err, "update_journal")
	}

	journal.Year = fields.Year
	return nil
}
