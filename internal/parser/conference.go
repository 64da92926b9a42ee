// Copyright (c) 2026 GwnGames. All rights reserved.
// Author: dev@gwngames.com

package parser

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/gwngames/persister/internal/model"
)

// yearPattern matches the first standalone 4-digit run in a source string.
var yearPattern = regexp.MustCompile(`\b(\d{4})\b`)

// extractConferenceYear pulls the edition year out of a conference source
// string ("IEEE 2023 Proceedings" -> 2023), defaulting to the current
// calendar year when none is present.
func extractConferenceYear(source string, now func() time.Time) int {
	if match := yearPattern.FindStringSubmatch(source); match != nil {
		year, err := strconv.Atoi(match[1])
		if err == nil {
			return year
		}
	}
	return now().Year()
}

// conferencePayload is the kind-specific shape of a conference-ranking
// envelope (CORE/ERA exports).
type conferencePayload struct {
	Conferences []conferenceEntry `json:"conferences"`
}

type conferenceEntry struct {
	Title         string  `json:"title"`
	Acronym       string  `json:"acronym"`
	Source        string  `json:"source"`
	Rank          *string `json:"rank"`
	Note          *string `json:"note"`
	DBLPLink      *string `json:"dblp_link"`
	PrimaryFor    *string `json:"primary_for"`
	Comments      *string `json:"comments"`
	AverageRating *string `json:"average_rating"`
}

// ConferenceProcessor ingests conference ranking rows, keyed on acronym
// similarity. The ranking source string doubles as the publisher and as the
// year carrier.
type ConferenceProcessor struct {
	// Now is the clock used for the year fallback; nil means time.Now.
	Now func() time.Time
}

// Kind implements [Handler].
func (processor *ConferenceProcessor) Kind() Kind {
	return Kind{ClassID: model.ClassConference, VariantID: model.VariantConference}
}

// Process implements [Handler].
func (processor *ConferenceProcessor) Process(ctx context.Context, st Store, envelope *Envelope) error {
	var payload conferencePayload
	if err := json.Unmarshal(envelope.Raw, &payload); err != nil {
		return fmt.Errorf("conference: decode payload: %w", err)
	}

	now := processor.Now
	if now == nil {
		now = time.Now
	}

	for _, entry := range payload.Conferences {
		acronym := entry.Acronym
		if acronym == "" {
			// Rows without an acronym key on the full title instead.
			acronym = entry.Title
		}
		if acronym == "" {
			return fmt.Errorf("conference: entry without title or acronym")
		}

		var title *string
		if entry.Title != "" {
			title = &entry.Title
		}
		var publisher *string
		if entry.Source != "" {
			publisher = &entry.Source
		}

		if _, _, err := st.UpsertConference(ctx, acronym, model.ConferenceFields{
			Title:         title,
			Publisher:     publisher,
			Rank:          entry.Rank,
			Note:          entry.Note,
			DBLPLink:      entry.DBLPLink,
			PrimaryFor:    entry.PrimaryFor,
			Comments:      entry.Comments,
			AverageRating: entry.AverageRating,
			Year:          extractConferenceYear(entry.Source, now),
			UpdateDate:    envelope.UpdateDate,
		}); err != nil {
			return fmt.Errorf("conference: upsert %q: %w", acronym, err)
		}
	}

	return nil
}
