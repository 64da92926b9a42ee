// Copyright (c) 2026 GwnGames. All rights reserved.
// Author: dev@gwngames.com

package parser

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gwngames/persister/internal/model"
	"github.com/gwngames/persister/pkg/pointer"
)

// journalPayload is the kind-specific shape of an SJR journal-ranking
// envelope.
type journalPayload struct {
	Journals []journalEntry `json:"journals"`
}

type journalEntry struct {
	Title             string  `json:"title"`
	Type              *string `json:"type"`
	Year              *int    `json:"year"`
	Link              *string `json:"link"`
	SJR               *string `json:"sjr"`
	QRank             *string `json:"q_rank"`
	HIndex            *string `json:"h_index"`
	TotalDocs         *string `json:"total_docs"`
	TotalDocs3Years   *string `json:"total_docs_3years"`
	TotalRefs         *string `json:"total_refs"`
	TotalCites3Years  *string `json:"total_cites_3years"`
	CitableDocs3Years *string `json:"citable_docs_3years"`
	CitesPerDoc2Years *string `json:"cites_per_doc_2years"`
	RefsPerDoc        *string `json:"refs_per_doc"`
	FemalePercent     *string `json:"female_percent"`
}

// JournalParser ingests SJR journal ranking rows, keyed on title
// similarity. The payload year is taken verbatim, defaulting to 0.
type JournalParser struct{}

// Kind implements [Handler].
func (parser *JournalParser) Kind() Kind {
	return Kind{ClassID: model.ClassJournal, VariantID: model.VariantJournal}
}

// Process implements [Handler].
func (parser *JournalParser) Process(ctx context.Context, st Store, envelope *Envelope) error {
	var payload journalPayload
	if err := json.Unmarshal(envelope.Raw, &payload); err != nil {
		return fmt.Errorf("journal: decode payload: %w", err)
	}

	for _, entry := range payload.Journals {
		if entry.Title == "" {
			return fmt.Errorf("journal: entry without title")
		}

		if _, _, err := st.UpsertJournal(ctx, entry.Title, model.JournalFields{
			Type:              entry.Type,
			Year:              pointer.Val(entry.Year),
			Link:              entry.Link,
			SJR:               entry.SJR,
			QRank:             entry.QRank,
			HIndex:            entry.HIndex,
			TotalDocs:         entry.TotalDocs,
			TotalDocs3Years:   entry.TotalDocs3Years,
			TotalRefs:         entry.TotalRefs,
			TotalCites3Years:  entry.TotalCites3Years,
			CitableDocs3Years: entry.CitableDocs3Years,
			CitesPerDoc2Years: entry.CitesPerDoc2Years,
			RefsPerDoc:        entry.RefsPerDoc,
			FemalePercent:     entry.FemalePercent,
			UpdateDate:        envelope.UpdateDate,
		}); err != nil {
			return fmt.Errorf("journal: upsert %q: %w", entry.Title, err)
		}
	}

	return nil
}
