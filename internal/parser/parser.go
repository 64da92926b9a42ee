// Copyright (c) 2026 GwnGames. All rights reserved.
// Author: dev@gwngames.com

/*
Package parser contains the typed envelope parsers.

Each parser handles one envelope kind identified by its (class_id,
variant_id) pair, consuming the kind-specific payload and driving the entity
store within the transaction minted for the message by the dispatch engine.
Parsers never commit or roll back themselves; any returned error causes the
engine to roll the whole message back, so a failed parse leaves no partial
state behind.
*/
package parser

import (
	"context"
	"time"

	"github.com/gwngames/persister/internal/model"
)

// # Routing Key

// Kind identifies an envelope handler by its (class_id, variant_id) pair.
type Kind struct {
	ClassID   int
	VariantID int
}

// # Envelope

// EnvelopeTimeFormat is the wire format of the update_date metadata field.
const EnvelopeTimeFormat = "2006-01-02 15:04:05"

// Envelope is one decoded message from a scraper. Raw carries the full
// original document; each parser unmarshals its own payload shape from it.
type Envelope struct {
	ID          string
	ClassID     int
	VariantID   int
	UpdateDate  time.Time
	UpdateCount *int
	Raw         []byte
}

// Kind returns the envelope's routing key.
func (envelope *Envelope) Kind() Kind {
	return Kind{ClassID: envelope.ClassID, VariantID: envelope.VariantID}
}

// # Store Contract

// Store is the transaction-scoped persistence surface a parser drives. It is
// implemented by the entity store's session; tests substitute an in-memory
// fake.
type Store interface {
	// Authors
	UpsertAuthor(ctx context.Context, name string, fields model.AuthorFields) (*model.Author, bool, error)
	FindAuthorByName(ctx context.Context, name string) (*model.Author, error)
	UpsertScholarAuthor(ctx context.Context, scholarAuthorID, authorKey string, fields model.ScholarAuthorFields) (*model.ScholarAuthor, error)

	// Interests
	UpsertInterest(ctx context.Context, name string, updateDate time.Time) (*model.Interest, bool, error)

	// Publications
	UpsertPublication(ctx context.Context, title string, fields model.PublicationFields) (*model.Publication, bool, error)
	FindPublicationByTitle(ctx context.Context, title string) (*model.Publication, error)
	FindPublicationByID(ctx context.Context, id string) (*model.Publication, error)
	UpsertScholarPublication(ctx context.Context, publicationID string, citesID *string, publicationKey string, fields model.ScholarPublicationFields) (*model.ScholarPublication, error)
	FindScholarPublicationByCitesID(ctx context.Context, citesID string) (*model.ScholarPublication, error)
	UpsertScholarCitation(ctx context.Context, citesID, publicationKey string, fields model.ScholarCitationFields) (*model.ScholarCitation, error)

	// Venues
	UpsertJournal(ctx context.Context, title string, fields model.JournalFields) (*model.Journal, bool, error)
	UpsertAssocJournal(ctx context.Context, title string, fields model.JournalFields) (*model.Journal, bool, error)
	UpsertConference(ctx context.Context, acronym string, fields model.ConferenceFields) (*model.Conference, bool, error)
	SetPublicationJournal(ctx context.Context, publicationKey, journalKey string) error
	SetPublicationConference(ctx context.Context, publicationKey, conferenceKey string) error

	// Link tables
	LinkPublicationAuthor(ctx context.Context, publicationKey, authorKey string) error
	LinkCoauthors(ctx context.Context, authorKey, coauthorKey string) error
	LinkAuthorInterest(ctx context.Context, authorKey, interestKey string) error
}

// # Handler Contract

// Handler is one typed envelope parser.
type Handler interface {
	// Kind returns the (class_id, variant_id) pair this handler owns.
	Kind() Kind

	// Process consumes the envelope against the given transaction-scoped
	// store. Any error aborts the whole message.
	Process(ctx context.Context, st Store, envelope *Envelope) error
}

// All returns every parser, in routing-table order.
func All() []Handler {
	return []Handler{
		&ScholarAuthorParser{},
		&ScholarPublicationParser{},
		&ConferenceProcessor{},
		&JournalParser{},
		&PublicationAssociationProcessor{},
		&ScholarCitationParser{},
	}
}
