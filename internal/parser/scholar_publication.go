// Copyright (c) 2026 GwnGames. All rights reserved.
// Author: dev@gwngames.com

package parser

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gwngames/persister/internal/model"
	"github.com/gwngames/persister/internal/platform/ctxutil"
	"github.com/gwngames/persister/pkg/convert"
	"github.com/gwngames/persister/pkg/textkey"
)

// scholarPublicationPayload is the kind-specific shape of a Google Scholar
// publication envelope. The citation graph rides along in the document but
// is owned by the dedicated citation parser; it is ignored here.
type scholarPublicationPayload struct {
	Title           string  `json:"title"`
	PublicationID   string  `json:"publication_id"`
	CitesID         *string `json:"cites_id"`
	PublicationURL  *string `json:"publication_url"`
	PublicationDate *string `json:"publication_date"`
	Pages           *string `json:"pages"`
	Publisher       *string `json:"publisher"`
	Description     *string `json:"description"`

	TitleLink          *string `json:"title_link"`
	PDFLink            *string `json:"pdf_link"`
	TotalCitations     *int    `json:"total_citations"`
	RelatedArticlesURL *string `json:"related_articles_url"`
	AllVersionsURL     *string `json:"all_versions_url"`

	Authors []string `json:"authors"`
}

// ScholarPublicationParser ingests Google Scholar publication pages: the
// base publication, its Scholar variant row, and the author list.
type ScholarPublicationParser struct{}

// Kind implements [Handler].
func (parser *ScholarPublicationParser) Kind() Kind {
	return Kind{ClassID: model.ClassPublication, VariantID: model.VariantScholarPublication}
}

// Process implements [Handler].
func (parser *ScholarPublicationParser) Process(ctx context.Context, st Store, envelope *Envelope) error {
	var payload scholarPublicationPayload
	if err := json.Unmarshal(envelope.Raw, &payload); err != nil {
		return fmt.Errorf("scholar publication: decode payload: %w", err)
	}

	if payload.Title == "" || payload.PublicationID == "" {
		return fmt.Errorf("scholar publication: missing required fields 'title' or 'publication_id'")
	}

	authors, err := parser.resolveAuthors(ctx, st, envelope, payload.Authors)
	if err != nil {
		return err
	}

	var publicationYear *int
	if payload.PublicationDate != nil {
		if year := convert.ToInt(*payload.PublicationDate); year != 0 {
			publicationYear = &year
		}
	}

	publication, _, err := st.UpsertPublication(ctx, payload.Title, model.PublicationFields{
		URL:             payload.PublicationURL,
		PublicationYear: publicationYear,
		Pages:           payload.Pages,
		Publisher:       payload.Publisher,
		Description:     payload.Description,
		UpdateDate:      envelope.UpdateDate,
	})
	if err != nil {
		return fmt.Errorf("scholar publication: upsert publication %q: %w", payload.Title, err)
	}

	if _, err := st.UpsertScholarPublication(ctx, payload.PublicationID, payload.CitesID, publication.ID, model.ScholarPublicationFields{
		TitleLink:          payload.TitleLink,
		PDFLink:            payload.PDFLink,
		TotalCitations:     payload.TotalCitations,
		RelatedArticlesURL: payload.RelatedArticlesURL,
		AllVersionsURL:     payload.AllVersionsURL,
		UpdateDate:         envelope.UpdateDate,
	}); err != nil {
		return fmt.Errorf("scholar publication: upsert scholar variant %q: %w", payload.PublicationID, err)
	}

	for _, author := range authors {
		if err := st.LinkPublicationAuthor(ctx, publication.ID, author.ID); err != nil {
			return fmt.Errorf("scholar publication: link author %q: %w", author.Name, err)
		}
	}

	return nil
}

// resolveAuthors maps the listed author names to rows. A name with no fuzzy
// match is created unless its first token is a bare initial, in which case
// it is too ambiguous to mint a row for and is skipped.
func (parser *ScholarPublicationParser) resolveAuthors(ctx context.Context, st Store, envelope *Envelope, names []string) ([]*model.Author, error) {
	log := ctxutil.GetLogger(ctx)

	var authors []*model.Author
	for _, name := range names {
		if name == "" {
			log.Warn("scholar_publication_empty_author_name")
			continue
		}

		author, err := st.FindAuthorByName(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("scholar publication: find author %q: %w", name, err)
		}

		if author == nil {
			if textkey.IsFirstWordShort(name) {
				continue
			}
			author, _, err = st.UpsertAuthor(ctx, name, model.AuthorFields{
				UpdateDate: envelope.UpdateDate,
			})
			if err != nil {
				return nil, fmt.Errorf("scholar publication: upsert author %q: %w", name, err)
			}
		}

		authors = append(authors, author)
	}

	return authors, nil
}
