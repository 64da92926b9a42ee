// Copyright (c) 2026 GwnGames. All rights reserved.
// Author: dev@gwngames.com

package parser

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/gwngames/persister/internal/model"
	"github.com/gwngames/persister/internal/platform/ctxutil"
	"github.com/gwngames/persister/pkg/slice"
)

// Venue type discriminators on DBLP association entries.
const (
	venueTypeJournal    = "Journal"
	venueTypeConference = "Conference"
)

// dblpAssocPayload is the kind-specific shape of a DBLP association
// envelope: cross-links for publications already ingested via other feeds.
type dblpAssocPayload struct {
	Publications []dblpAssocEntry `json:"publications"`
}

type dblpAssocEntry struct {
	Title   string   `json:"title"`
	Type    string   `json:"type"`
	Authors []string `json:"authors"`

	JournalName     *string `json:"journal_name"`
	PublicationYear *int    `json:"publication_year"`

	ConferenceAcronym *string `json:"conference_acronym"`
	ConferenceYear    *int    `json:"conference_year"`
}

// PublicationAssociationProcessor cross-links existing publications with
// their authors and venue from DBLP metadata. It never creates publications
// or authors: an unknown title or name is logged and skipped, since the
// authoritative rows come from the Scholar feeds.
type PublicationAssociationProcessor struct{}

// Kind implements [Handler].
func (processor *PublicationAssociationProcessor) Kind() Kind {
	return Kind{ClassID: model.ClassPublication, VariantID: model.VariantDBLPAssociation}
}

// Process implements [Handler].
func (processor *PublicationAssociationProcessor) Process(ctx context.Context, st Store, envelope *Envelope) error {
	var payload dblpAssocPayload
	if err := json.Unmarshal(envelope.Raw, &payload); err != nil {
		return fmt.Errorf("dblp assoc: decode payload: %w", err)
	}

	for _, entry := range payload.Publications {
		if err := processor.processEntry(ctx, st, envelope, entry); err != nil {
			return err
		}
	}

	return nil
}

func (processor *PublicationAssociationProcessor) processEntry(ctx context.Context, st Store, envelope *Envelope, entry dblpAssocEntry) error {
	log := ctxutil.GetLogger(ctx)

	publication, err := st.FindPublicationByTitle(ctx, entry.Title)
	if err != nil {
		return fmt.Errorf("dblp assoc: find publication %q: %w", entry.Title, err)
	}
	if publication == nil {
		log.Warn("dblp_assoc_publication_not_found", slog.String("title", entry.Title))
		return nil
	}

	authors, err := processor.resolveAuthors(ctx, st, entry.Authors)
	if err != nil {
		return err
	}

	for _, author := range authors {
		if err := st.LinkPublicationAuthor(ctx, publication.ID, author.ID); err != nil {
			return fmt.Errorf("dblp assoc: link author %q: %w", author.Name, err)
		}
	}

	// Symmetric co-author edges for every resolved pair.
	for i := 0; i < len(authors); i++ {
		for j := i + 1; j < len(authors); j++ {
			if err := st.LinkCoauthors(ctx, authors[i].ID, authors[j].ID); err != nil {
				return fmt.Errorf("dblp assoc: link coauthors: %w", err)
			}
		}
	}

	switch entry.Type {
	case venueTypeJournal:
		return processor.attachJournal(ctx, st, envelope, publication, entry)
	case venueTypeConference:
		return processor.attachConference(ctx, st, envelope, publication, entry)
	default:
		// Unknown venue type: the publication and author links stand alone.
		return nil
	}
}

// resolveAuthors looks up the listed names without ever creating rows.
func (processor *PublicationAssociationProcessor) resolveAuthors(ctx context.Context, st Store, names []string) ([]*model.Author, error) {
	log := ctxutil.GetLogger(ctx)

	var authors []*model.Author
	for _, name := range slice.Filter(names, func(name string) bool { return name != "" }) {
		author, err := st.FindAuthorByName(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("dblp assoc: find author %q: %w", name, err)
		}
		if author == nil {
			log.Warn("dblp_assoc_author_not_found", slog.String("name", name))
			continue
		}

		authors = append(authors, author)
	}

	return authors, nil
}

func (processor *PublicationAssociationProcessor) attachJournal(ctx context.Context, st Store, envelope *Envelope, publication *model.Publication, entry dblpAssocEntry) error {
	if entry.JournalName == nil || *entry.JournalName == "" {
		return nil
	}

	var year int
	if entry.PublicationYear != nil {
		year = *entry.PublicationYear
	}

	journal, _, err := st.UpsertAssocJournal(ctx, *entry.JournalName, model.JournalFields{
		Year:       year,
		UpdateDate: envelope.UpdateDate,
	})
	if err != nil {
		return fmt.Errorf("dblp assoc: upsert journal %q: %w", *entry.JournalName, err)
	}

	if err := st.SetPublicationJournal(ctx, publication.ID, journal.ID); err != nil {
		return fmt.Errorf("dblp assoc: attach journal %q: %w", *entry.JournalName, err)
	}

	return nil
}

func (processor *PublicationAssociationProcessor) attachConference(ctx context.Context, st Store, envelope *Envelope, publication *model.Publication, entry dblpAssocEntry) error {
	if entry.ConferenceAcronym == nil || *entry.ConferenceAcronym == "" {
		return nil
	}

	var year int
	if entry.ConferenceYear != nil {
		year = *entry.ConferenceYear
	}

	conference, _, err := st.UpsertConference(ctx, *entry.ConferenceAcronym, model.ConferenceFields{
		Year:       year,
		UpdateDate: envelope.UpdateDate,
	})
	if err != nil {
		return fmt.Errorf("dblp assoc: upsert conference %q: %w", *entry.ConferenceAcronym, err)
	}

	if err := st.SetPublicationConference(ctx, publication.ID, conference.ID); err != nil {
		return fmt.Errorf("dblp assoc: attach conference %q: %w", *entry.ConferenceAcronym, err)
	}

	return nil
}
