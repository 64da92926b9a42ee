// Copyright (c) 2026 GwnGames. All rights reserved.
// Author: dev@gwngames.com

/*
Package model defines the persisted bibliographic entities and their shared
metadata.

Every entity carries the same [Meta] block: the (ClassID, VariantID) pair
identifying its kind and provenance, plus the update bookkeeping columns.
Variant rows (ScholarAuthor, ScholarPublication) are independent records
holding a foreign key to their base row rather than subclassing it.
*/
package model

import "time"

// # Kind Identifiers

// Class and variant identifiers carried by every envelope and every row.
// The (ClassID, VariantID) pair selects the parser in the dispatch engine
// and stamps each row with its provenance.
const (
	ClassAuthor          = 1000
	ClassPublication     = 1010
	ClassJournal         = 1020
	ClassConference      = 1030
	ClassScholarCitation = 1040
	ClassInterest        = 1050

	VariantBase               = 0
	VariantJournal            = 20
	VariantConference         = 30
	VariantScholarAuthor      = 40
	VariantScholarPublication = 50
	VariantScholarCitation    = 60

	// VariantDBLPAssociation marks DBLP association envelopes. There is no
	// variant table behind it; the parser only cross-links existing rows.
	VariantDBLPAssociation = 100
)

// # Shared Metadata

// Meta is the bookkeeping block shared by every persisted row.
type Meta struct {
	ClassID   int
	VariantID int

	// UpdateDate is taken from the envelope when present, otherwise now().
	// It only moves forward across successful writes.
	UpdateDate time.Time

	// UpdateCount starts at 1 on insert and increments on every successful
	// reconciliation against the row.
	UpdateCount int
}

// # Base Entities

// Author is a person appearing on publications. Name is the fuzzy-match key
// and is stored lowercased.
type Author struct {
	ID           string
	Name         string
	Role         *string
	Organization *string
	ImageURL     *string
	HomepageURL  *string
	Meta
}

// Publication is a paper or article. Title is the fuzzy-match key and is
// stored lowercased.
type Publication struct {
	ID              string
	Title           string
	URL             *string
	PublicationYear *int
	Pages           *string
	Publisher       *string
	Description     *string
	JournalKey      *string
	ConferenceKey   *string
	Meta
}

// Journal is an SJR-ranked venue. Title is the fuzzy-match key and is stored
// lowercased. The ranking metrics arrive as free-form strings from the SJR
// CSV export and are stored verbatim.
type Journal struct {
	ID                string
	Title             string
	Type              *string
	Year              int
	Link              *string
	SJR               *string
	QRank             *string
	HIndex            *string
	TotalDocs         *string
	TotalDocs3Years   *string
	TotalRefs         *string
	TotalCites3Years  *string
	CitableDocs3Years *string
	CitesPerDoc2Years *string
	RefsPerDoc        *string
	FemalePercent     *string
	Meta
}

// Conference is a CORE/DBLP-ranked venue. Acronym is the primary fuzzy key
// and is stored uppercased; Title is secondary.
type Conference struct {
	ID            string
	Title         string
	Acronym       string
	Publisher     *string
	Rank          *string
	Note          *string
	DBLPLink      *string
	PrimaryFor    *string
	Comments      *string
	AverageRating *string
	Year          int
	Meta
}

// Interest is a research topic attached to authors. Name is the fuzzy-match
// key and is stored lowercased.
type Interest struct {
	ID   string
	Name string
	Meta
}

// # Variant Entities

// ScholarAuthor augments an Author with Google Scholar profile data.
// AuthorID is the provider-unique identity column (exact match).
type ScholarAuthor struct {
	ID         string
	AuthorID   string
	AuthorKey  string
	ProfileURL *string
	Verified   *bool
	HIndex     *int
	I10Index   *int
	Meta
}

// ScholarPublication augments a Publication with Google Scholar data.
// Identity is the (PublicationID, CitesID) pair (exact match).
type ScholarPublication struct {
	ID                 string
	PublicationID      string
	PublicationKey     string
	TitleLink          *string
	PDFLink            *string
	TotalCitations     *int
	CitesID            *string
	RelatedArticlesURL *string
	AllVersionsURL     *string
	Meta
}

// ScholarCitation is one entry of a publication's citation graph, linked to
// its ScholarPublication row. CitesID is the identity column (exact match).
type ScholarCitation struct {
	ID             string
	CitesID        string
	PublicationKey string
	CitationLink   *string
	Title          *string
	Link           *string
	Summary        *string
	DocumentLink   *string
	Year           *string
	Citations      *int
	Meta
}
