// Copyright (c) 2026 GwnGames. All rights reserved.
// Author: dev@gwngames.com

package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/gwngames/persister/internal/model"
	"github.com/gwngames/persister/internal/platform/database/schema"
	"github.com/gwngames/persister/internal/platform/dberr"
	"github.com/gwngames/persister/pkg/textkey"
	"github.com/gwngames/persister/pkg/uuidv7"
)

// UpsertInterest reconciles a research interest by fuzzy name match. The
// probe is narrowed with a LIKE on the first two characters of the name.
func (session *Session) UpsertInterest(ctx context.Context, name string, updateDate time.Time) (*model.Interest, bool, error) {
	nameLower := textkey.Fold(name)

	prefix := runePrefix(nameLower, 2)

	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s LIKE $1
		  AND jarowinkler(LOWER(%s), $2) >= $3
		ORDER BY jarowinkler(LOWER(%s), $2) DESC
		LIMIT 1
		FOR UPDATE`,
		schema.Interest.ID, schema.Interest.Name,
		schema.Interest.ClassID, schema.Interest.VariantID,
		schema.Interest.UpdateDate, schema.Interest.UpdateCount,
		schema.Interest.Table,
		schema.Interest.Name,
		schema.Interest.Name,
		schema.Interest.Name,
	)

	interest := &model.Interest{}
	err := session.q.QueryRow(ctx, query,
		prefix+"%", nameLower, session.similarity.InterestName,
	).Scan(
		&interest.ID, &interest.Name,
		&interest.ClassID, &interest.VariantID,
		&interest.UpdateDate, &interest.UpdateCount,
	)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, dberr.Wrap(err, "find_interest")
	}

	if errors.Is(err, pgx.ErrNoRows) {
		interest, err = session.insertInterest(ctx, nameLower, updateDate)
		if err != nil {
			return nil, false, err
		}
		return interest, true, nil
	}

	if err := session.touchInterest(ctx, interest, updateDate); err != nil {
		return nil, false, err
	}
	return interest, false, nil
}

func (session *Session) insertInterest(ctx context.Context, nameLower string, updateDate time.Time) (*model.Interest, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, 1)`,
		schema.Interest.Table,
		schema.Interest.ID, schema.Interest.Name,
		schema.Interest.ClassID, schema.Interest.VariantID,
		schema.Interest.UpdateDate, schema.Interest.UpdateCount,
	)

	interest := &model.Interest{
		ID:   uuidv7.New(),
		Name: nameLower,
		Meta: model.Meta{
			ClassID:     model.ClassInterest,
			VariantID:   model.VariantBase,
			UpdateDate:  orNow(updateDate),
			UpdateCount: 1,
		},
	}

	_, err := session.q.Exec(ctx, query,
		interest.ID, interest.Name,
		interest.ClassID, interest.VariantID, interest.UpdateDate,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "insert_interest")
	}

	return interest, nil
}

func (session *Session) touchInterest(ctx context.Context, interest *model.Interest, updateDate time.Time) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = GREATEST(%s, $2),
		    %s = COALESCE(%s, 0) + 1
		WHERE %s = $1
		RETURNING %s, %s`,
		schema.Interest.Table,
		schema.Interest.UpdateDate, schema.Interest.UpdateDate,
		schema.Interest.UpdateCount, schema.Interest.UpdateCount,
		schema.Interest.ID,
		schema.Interest.UpdateDate, schema.Interest.UpdateCount,
	)

	err := session.q.QueryRow(ctx, query, interest.ID, orNow(updateDate)).
		Scan(&interest.UpdateDate, &interest.UpdateCount)
	return dberr.Wrap(err, "touch_interest")
}
