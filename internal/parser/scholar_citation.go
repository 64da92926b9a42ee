// Copyright (c) 2026 GwnGames. All rights reserved.
// Author: dev@gwngames.com

package parser

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/gwngames/persister/internal/model"
)

// unknownCitationYear is stored when neither the citation entry nor its
// publication carries a year.
const unknownCitationYear = "Unknown"

// scholarCitationPayload is the kind-specific shape of a citation-graph
// envelope: the cites_id of the publication whose citations were crawled,
// plus one entry per citing document.
type scholarCitationPayload struct {
	CitesID   string          `json:"cites_id"`
	Citations []citationEntry `json:"citations"`
}

type citationEntry struct {
	CitesID      string  `json:"cites_id"`
	Link         *string `json:"link"`
	CitationLink *string `json:"citation_link"`
	Title        *string `json:"title"`
	Summary      *string `json:"summary"`
	DocumentLink *string `json:"document_link"`
	Year         *string `json:"year"`
	Citations    *int    `json:"citations"`
}

// ScholarCitationParser ingests the citation graph of an already-persisted
// scholar publication. The owning publication must exist: citations without
// a parent are an ordering error and surface as a retryable failure.
type ScholarCitationParser struct{}

// Kind implements [Handler].
func (parser *ScholarCitationParser) Kind() Kind {
	return Kind{ClassID: model.ClassScholarCitation, VariantID: model.VariantScholarCitation}
}

// Process implements [Handler].
func (parser *ScholarCitationParser) Process(ctx context.Context, st Store, envelope *Envelope) error {
	var payload scholarCitationPayload
	if err := json.Unmarshal(envelope.Raw, &payload); err != nil {
		return fmt.Errorf("scholar citation: decode payload: %w", err)
	}

	if payload.CitesID == "" {
		return fmt.Errorf("scholar citation: missing 'cites_id'")
	}
	if len(payload.Citations) == 0 {
		return fmt.Errorf("scholar citation: no citations provided for cites_id %q", payload.CitesID)
	}

	scholarPublication, err := st.FindScholarPublicationByCitesID(ctx, payload.CitesID)
	if err != nil {
		return fmt.Errorf("scholar citation: find publication for cites_id %q: %w", payload.CitesID, err)
	}
	if scholarPublication == nil {
		return fmt.Errorf("scholar citation: publication with cites_id %q not found", payload.CitesID)
	}

	fallbackYear, err := parser.publicationYear(ctx, st, scholarPublication)
	if err != nil {
		return err
	}

	for _, entry := range payload.Citations {
		if entry.CitesID == "" || entry.Link == nil {
			return fmt.Errorf("scholar citation: entry missing required 'cites_id' or 'link'")
		}

		year := entry.Year
		if year == nil {
			year = &fallbackYear
		}

		citations := entry.Citations
		if citations == nil {
			citations = scholarPublication.TotalCitations
		}

		if _, err := st.UpsertScholarCitation(ctx, entry.CitesID, scholarPublication.ID, model.ScholarCitationFields{
			CitationLink: entry.CitationLink,
			Title:        entry.Title,
			Link:         entry.Link,
			Summary:      entry.Summary,
			DocumentLink: entry.DocumentLink,
			Year:         year,
			Citations:    citations,
			UpdateDate:   envelope.UpdateDate,
		}); err != nil {
			return fmt.Errorf("scholar citation: upsert citation %q: %w", entry.CitesID, err)
		}
	}

	return nil
}

// publicationYear resolves the year fallback for citation entries: the base
// publication's own publication year, else "Unknown".
func (parser *ScholarCitationParser) publicationYear(ctx context.Context, st Store, scholarPublication *model.ScholarPublication) (string, error) {
	publication, err := st.FindPublicationByID(ctx, scholarPublication.PublicationKey)
	if err != nil {
		return "", fmt.Errorf("scholar citation: find base publication: %w", err)
	}

	if publication != nil && publication.PublicationYear != nil {
		return strconv.Itoa(*publication.PublicationYear), nil
	}

	return unknownCitationYear, nil
}
