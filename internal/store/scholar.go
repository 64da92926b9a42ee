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
	"github.com/gwngames/persister/pkg/uuidv7"
)

// Variant rows reconcile on exact provider identities rather than fuzzy
// similarity: author_id for scholar authors, (publication_id, cites_id) for
// scholar publications, cites_id for citations.

// # Scholar Author

// UpsertScholarAuthor reconciles the Google Scholar variant row for an
// author by exact author_id match, linking it to its base author row.
func (session *Session) UpsertScholarAuthor(ctx context.Context, scholarAuthorID, authorKey string, fields model.ScholarAuthorFields) (*model.ScholarAuthor, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1
		LIMIT 1
		FOR UPDATE`,
		schema.ScholarAuthor.ID, schema.ScholarAuthor.AuthorID, schema.ScholarAuthor.AuthorKey,
		schema.ScholarAuthor.ProfileURL, schema.ScholarAuthor.Verified,
		schema.ScholarAuthor.HIndex, schema.ScholarAuthor.I10Index,
		schema.ScholarAuthor.ClassID, schema.ScholarAuthor.VariantID,
		schema.ScholarAuthor.UpdateDate, schema.ScholarAuthor.UpdateCount,
		schema.ScholarAuthor.Table,
		schema.ScholarAuthor.AuthorID,
	)

	scholar := &model.ScholarAuthor{}
	err := session.q.QueryRow(ctx, query, scholarAuthorID).Scan(
		&scholar.ID, &scholar.AuthorID, &scholar.AuthorKey,
		&scholar.ProfileURL, &scholar.Verified, &scholar.HIndex, &scholar.I10Index,
		&scholar.ClassID, &scholar.VariantID, &scholar.UpdateDate, &scholar.UpdateCount,
	)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, dberr.Wrap(err, "find_scholar_author")
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return session.insertScholarAuthor(ctx, scholarAuthorID, authorKey, fields)
	}

	updateQuery := fmt.Sprintf(`
		UPDATE %s
		SET %s = COALESCE($2, %s),
		    %s = COALESCE($3, %s),
		    %s = COALESCE($4, %s),
		    %s = COALESCE($5, %s),
		    %s = GREATEST(%s, $6),
		    %s = COALESCE(%s, 0) + 1
		WHERE %s = $1
		RETURNING %s, %s, %s, %s, %s, %s`,
		schema.ScholarAuthor.Table,
		schema.ScholarAuthor.ProfileURL, schema.ScholarAuthor.ProfileURL,
		schema.ScholarAuthor.Verified, schema.ScholarAuthor.Verified,
		schema.ScholarAuthor.HIndex, schema.ScholarAuthor.HIndex,
		schema.ScholarAuthor.I10Index, schema.ScholarAuthor.I10Index,
		schema.ScholarAuthor.UpdateDate, schema.ScholarAuthor.UpdateDate,
		schema.ScholarAuthor.UpdateCount, schema.ScholarAuthor.UpdateCount,
		schema.ScholarAuthor.ID,
		schema.ScholarAuthor.ProfileURL, schema.ScholarAuthor.Verified,
		schema.ScholarAuthor.HIndex, schema.ScholarAuthor.I10Index,
		schema.ScholarAuthor.UpdateDate, schema.ScholarAuthor.UpdateCount,
	)

	err = session.q.QueryRow(ctx, updateQuery,
		scholar.ID, fields.ProfileURL, fields.Verified, fields.HIndex, fields.I10Index,
		orNow(fields.UpdateDate),
	).Scan(
		&scholar.ProfileURL, &scholar.Verified, &scholar.HIndex, &scholar.I10Index,
		&scholar.UpdateDate, &scholar.UpdateCount,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "update_scholar_author")
	}

	return scholar, nil
}

func (session *Session) insertScholarAuthor(ctx context.Context, scholarAuthorID, authorKey string, fields model.ScholarAuthorFields) (*model.ScholarAuthor, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (
			%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, 1)`,
		schema.ScholarAuthor.Table,
		schema.ScholarAuthor.ID, schema.ScholarAuthor.AuthorID, schema.ScholarAuthor.AuthorKey,
		schema.ScholarAuthor.ProfileURL, schema.ScholarAuthor.Verified,
		schema.ScholarAuthor.HIndex, schema.ScholarAuthor.I10Index,
		schema.ScholarAuthor.ClassID, schema.ScholarAuthor.VariantID,
		schema.ScholarAuthor.UpdateDate, schema.ScholarAuthor.UpdateCount,
	)

	scholar := &model.ScholarAuthor{
		ID:         uuidv7.New(),
		AuthorID:   scholarAuthorID,
		AuthorKey:  authorKey,
		ProfileURL: fields.ProfileURL,
		Verified:   fields.Verified,
		HIndex:     fields.HIndex,
		I10Index:   fields.I10Index,
		Meta: model.Meta{
			ClassID:     model.ClassAuthor,
			VariantID:   model.VariantScholarAuthor,
			UpdateDate:  orNow(fields.UpdateDate),
			UpdateCount: 1,
		},
	}

	_, err := session.q.Exec(ctx, query,
		scholar.ID, scholar.AuthorID, scholar.AuthorKey,
		scholar.ProfileURL, scholar.Verified, scholar.HIndex, scholar.I10Index,
		scholar.ClassID, scholar.VariantID, scholar.UpdateDate,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "insert_scholar_author")
	}

	return scholar, nil
}

// # Scholar Publication

// UpsertScholarPublication reconciles the Google Scholar variant row for a
// publication by exact (publication_id, cites_id) match.
func (session *Session) UpsertScholarPublication(ctx context.Context, publicationID string, citesID *string, publicationKey string, fields model.ScholarPublicationFields) (*model.ScholarPublication, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1 AND %s IS NOT DISTINCT FROM $2
		LIMIT 1
		FOR UPDATE`,
		schema.ScholarPublication.ID, schema.ScholarPublication.PublicationID,
		schema.ScholarPublication.PublicationKey, schema.ScholarPublication.TitleLink,
		schema.ScholarPublication.PDFLink, schema.ScholarPublication.TotalCitations,
		schema.ScholarPublication.CitesID, schema.ScholarPublication.RelatedArticlesURL,
		schema.ScholarPublication.AllVersionsURL,
		schema.ScholarPublication.ClassID, schema.ScholarPublication.VariantID,
		schema.ScholarPublication.UpdateDate, schema.ScholarPublication.UpdateCount,
		schema.ScholarPublication.Table,
		schema.ScholarPublication.PublicationID, schema.ScholarPublication.CitesID,
	)

	scholar := &model.ScholarPublication{}
	err := session.q.QueryRow(ctx, query, publicationID, citesID).Scan(
		&scholar.ID, &scholar.PublicationID, &scholar.PublicationKey, &scholar.TitleLink,
		&scholar.PDFLink, &scholar.TotalCitations, &scholar.CitesID,
		&scholar.RelatedArticlesURL, &scholar.AllVersionsURL,
		&scholar.ClassID, &scholar.VariantID, &scholar.UpdateDate, &scholar.UpdateCount,
	)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, dberr.Wrap(err, "find_scholar_publication")
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return session.insertScholarPublication(ctx, publicationID, citesID, publicationKey, fields)
	}

	updateQuery := fmt.Sprintf(`
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
		schema.ScholarPublication.Table,
		schema.ScholarPublication.TitleLink, schema.ScholarPublication.TitleLink,
		schema.ScholarPublication.PDFLink, schema.ScholarPublication.PDFLink,
		schema.ScholarPublication.TotalCitations, schema.ScholarPublication.TotalCitations,
		schema.ScholarPublication.RelatedArticlesURL, schema.ScholarPublication.RelatedArticlesURL,
		schema.ScholarPublication.AllVersionsURL, schema.ScholarPublication.AllVersionsURL,
		schema.ScholarPublication.UpdateDate, schema.ScholarPublication.UpdateDate,
		schema.ScholarPublication.UpdateCount, schema.ScholarPublication.UpdateCount,
		schema.ScholarPublication.ID,
		schema.ScholarPublication.TitleLink, schema.ScholarPublication.PDFLink,
		schema.ScholarPublication.TotalCitations, schema.ScholarPublication.RelatedArticlesURL,
		schema.ScholarPublication.AllVersionsURL,
		schema.ScholarPublication.UpdateDate, schema.ScholarPublication.UpdateCount,
	)

	err = session.q.QueryRow(ctx, updateQuery,
		scholar.ID, fields.TitleLink, fields.PDFLink, fields.TotalCitations,
		fields.RelatedArticlesURL, fields.AllVersionsURL,
		orNow(fields.UpdateDate),
	).Scan(
		&scholar.TitleLink, &scholar.PDFLink, &scholar.TotalCitations,
		&scholar.RelatedArticlesURL, &scholar.AllVersionsURL,
		&scholar.UpdateDate, &scholar.UpdateCount,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "update_scholar_publication")
	}

	return scholar, nil
}

func (session *Session) insertScholarPublication(ctx context.Context, publicationID string, citesID *string, publicationKey string, fields model.ScholarPublicationFields) (*model.ScholarPublication, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (
			%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, 1)`,
		schema.ScholarPublication.Table,
		schema.ScholarPublication.ID, schema.ScholarPublication.PublicationID,
		schema.ScholarPublication.PublicationKey, schema.ScholarPublication.TitleLink,
		schema.ScholarPublication.PDFLink, schema.ScholarPublication.TotalCitations,
		schema.ScholarPublication.CitesID, schema.ScholarPublication.RelatedArticlesURL,
		schema.ScholarPublication.AllVersionsURL,
		schema.ScholarPublication.ClassID, schema.ScholarPublication.VariantID,
		schema.ScholarPublication.UpdateDate, schema.ScholarPublication.UpdateCount,
	)

	scholar := &model.ScholarPublication{
		ID:                 uuidv7.New(),
		PublicationID:      publicationID,
		PublicationKey:     publicationKey,
		TitleLink:          fields.TitleLink,
		PDFLink:            fields.PDFLink,
		TotalCitations:     fields.TotalCitations,
		CitesID:            citesID,
		RelatedArticlesURL: fields.RelatedArticlesURL,
		AllVersionsURL:     fields.AllVersionsURL,
		Meta: model.Meta{
			ClassID:     model.ClassPublication,
			VariantID:   model.VariantScholarPublication,
			UpdateDate:  orNow(fields.UpdateDate),
			UpdateCount: 1,
		},
	}

	_, err := session.q.Exec(ctx, query,
		scholar.ID, scholar.PublicationID, scholar.PublicationKey, scholar.TitleLink,
		scholar.PDFLink, scholar.TotalCitations, scholar.CitesID,
		scholar.RelatedArticlesURL, scholar.AllVersionsURL,
		scholar.ClassID, scholar.VariantID, scholar.UpdateDate,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "insert_scholar_publication")
	}

	return scholar, nil
}

// FindScholarPublicationByCitesID returns the scholar publication owning the
// given cites_id, or (nil, nil) when none exists.
func (session *Session) FindScholarPublicationByCitesID(ctx context.Context, citesID string) (*model.ScholarPublication, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1
		LIMIT 1
		FOR UPDATE`,
		schema.ScholarPublication.ID, schema.ScholarPublication.PublicationID,
		schema.ScholarPublication.PublicationKey, schema.ScholarPublication.TitleLink,
		schema.ScholarPublication.PDFLink, schema.ScholarPublication.TotalCitations,
		schema.ScholarPublication.CitesID, schema.ScholarPublication.RelatedArticlesURL,
		schema.ScholarPublication.AllVersionsURL,
		schema.ScholarPublication.ClassID, schema.ScholarPublication.VariantID,
		schema.ScholarPublication.UpdateDate, schema.ScholarPublication.UpdateCount,
		schema.ScholarPublication.Table,
		schema.ScholarPublication.CitesID,
	)

	scholar := &model.ScholarPublication{}
	err := session.q.QueryRow(ctx, query, citesID).Scan(
		&scholar.ID, &scholar.PublicationID, &scholar.PublicationKey, &scholar.TitleLink,
		&scholar.PDFLink, &scholar.TotalCitations, &scholar.CitesID,
		&scholar.RelatedArticlesURL, &scholar.AllVersionsURL,
		&scholar.ClassID, &scholar.VariantID, &scholar.UpdateDate, &scholar.UpdateCount,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, dberr.Wrap(err, "find_scholar_publication_by_cites_id")
	}

	return scholar, nil
}

// # Scholar Citation

// UpsertScholarCitation reconciles one citation-graph entry by exact
// cites_id match, linked to the owning scholar publication row.
func (session *Session) UpsertScholarCitation(ctx context.Context, citesID, publicationKey string, fields model.ScholarCitationFields) (*model.ScholarCitation, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1
		LIMIT 1
		FOR UPDATE`,
		schema.ScholarCitation.ID, schema.ScholarCitation.CitesID,
		schema.ScholarCitation.PublicationKey, schema.ScholarCitation.CitationLink,
		schema.ScholarCitation.Title, schema.ScholarCitation.Link,
		schema.ScholarCitation.Summary, schema.ScholarCitation.DocumentLink,
		schema.ScholarCitation.Year, schema.ScholarCitation.Citations,
		schema.ScholarCitation.ClassID, schema.ScholarCitation.VariantID,
		schema.ScholarCitation.UpdateDate, schema.ScholarCitation.UpdateCount,
		schema.ScholarCitation.Table,
		schema.ScholarCitation.CitesID,
	)

	citation := &model.ScholarCitation{}
	err := session.q.QueryRow(ctx, query, citesID).Scan(
		&citation.ID, &citation.CitesID, &citation.PublicationKey, &citation.CitationLink,
		&citation.Title, &citation.Link, &citation.Summary, &citation.DocumentLink,
		&citation.Year, &citation.Citations,
		&citation.ClassID, &citation.VariantID, &citation.UpdateDate, &citation.UpdateCount,
	)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, dberr.Wrap(err, "find_scholar_citation")
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return session.insertScholarCitation(ctx, citesID, publicationKey, fields)
	}

	updateQuery := fmt.Sprintf(`
		UPDATE %s
		SET %s = COALESCE($2, %s),
		    %s = COALESCE($3, %s),
		    %s = COALESCE($4, %s),
		    %s = COALESCE($5, %s),
		    %s = COALESCE($6, %s),
		    %s = COALESCE(%s, $7),
		    %s = COALESCE($8, %s),
		    %s = GREATEST(%s, $9),
		    %s = COALESCE(%s, 0) + 1
		WHERE %s = $1
		RETURNING %s, %s, %s, %s, %s, %s, %s, %s, %s`,
		schema.ScholarCitation.Table,
		schema.ScholarCitation.CitationLink, schema.ScholarCitation.CitationLink,
		schema.ScholarCitation.Title, schema.ScholarCitation.Title,
		schema.ScholarCitation.Link, schema.ScholarCitation.Link,
		schema.ScholarCitation.Summary, schema.ScholarCitation.Summary,
		schema.ScholarCitation.DocumentLink, schema.ScholarCitation.DocumentLink,
		schema.ScholarCitation.Year, schema.ScholarCitation.Year,
		schema.ScholarCitation.Citations, schema.ScholarCitation.Citations,
		schema.ScholarCitation.UpdateDate, schema.ScholarCitation.UpdateDate,
		schema.ScholarCitation.UpdateCount, schema.ScholarCitation.UpdateCount,
		schema.ScholarCitation.ID,
		schema.ScholarCitation.CitationLink, schema.ScholarCitation.Title,
		schema.ScholarCitation.Link, schema.ScholarCitation.Summary,
		schema.ScholarCitation.DocumentLink, schema.ScholarCitation.Year,
		schema.ScholarCitation.Citations,
		schema.ScholarCitation.UpdateDate, schema.ScholarCitation.UpdateCount,
	)

	err = session.q.QueryRow(ctx, updateQuery,
		citation.ID, fields.CitationLink, fields.Title, fields.Link, fields.Summary,
		fields.DocumentLink, fields.Year, fields.Citations,
		orNow(fields.UpdateDate),
	).Scan(
		&citation.CitationLink, &citation.Title, &citation.Link, &citation.Summary,
		&citation.DocumentLink, &citation.Year, &citation.Citations,
		&citation.UpdateDate, &citation.UpdateCount,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "update_scholar_citation")
	}

	return citation, nil
}

func (session *Session) insertScholarCitation(ctx context.Context, citesID, publicationKey string, fields model.ScholarCitationFields) (*model.ScholarCitation, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (
			%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, 1)`,
		schema.ScholarCitation.Table,
		schema.ScholarCitation.ID, schema.ScholarCitation.CitesID,
		schema.ScholarCitation.PublicationKey, schema.ScholarCitation.CitationLink,
		schema.ScholarCitation.Title, schema.ScholarCitation.Link,
		schema.ScholarCitation.Summary, schema.ScholarCitation.DocumentLink,
		schema.ScholarCitation.Year, schema.ScholarCitation.Citations,
		schema.ScholarCitation.ClassID, schema.ScholarCitation.VariantID,
		schema.ScholarCitation.UpdateDate, schema.ScholarCitation.UpdateCount,
	)

	citation := &model.ScholarCitation{
		ID:             uuidv7.New(),
		CitesID:        citesID,
		PublicationKey: publicationKey,
		CitationLink:   fields.CitationLink,
		Title:          fields.Title,
		Link:           fields.Link,
		Summary:        fields.Summary,
		DocumentLink:   fields.DocumentLink,
		Year:           fields.Year,
		Citations:      fields.Citations,
		Meta: model.Meta{
			ClassID:     model.ClassScholarCitation,
			VariantID:   model.VariantScholarCitation,
			UpdateDate:  orNow(fields.UpdateDate),
			UpdateCount: 1,
		},
	}

	_, err := session.q.Exec(ctx, query,
		citation.ID, citation.CitesID, citation.PublicationKey, citation.CitationLink,
		citation.Title, citation.Link, citation.Summary, citation.DocumentLink,
		citation.Year, citation.Citations,
		citation.ClassID, citation.VariantID, citation.UpdateDate,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "insert_scholar_citation")
	}

	return citation, nil
}
