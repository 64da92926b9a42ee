// Copyright (c) 2026 GwnGames. All rights reserved.
// Author: dev@gwngames.com

package model

import "time"

// Field sets carried into the store's upsert operations. A nil pointer means
// "absent from the envelope": the existing column value is left intact on
// update and the column defaults to NULL on insert.

// AuthorFields are the mutable columns of an Author row.
type AuthorFields struct {
	Role         *string
	Organization *string
	ImageURL     *string
	HomepageURL  *string
	UpdateDate   time.Time
}

// ScholarAuthorFields are the mutable columns of a ScholarAuthor row.
type ScholarAuthorFields struct {
	ProfileURL *string
	Verified   *bool
	HIndex     *int
	I10Index   *int
	UpdateDate time.Time
}

// PublicationFields are the mutable columns of a Publication row.
type PublicationFields struct {
	URL             *string
	PublicationYear *int
	Pages           *string
	Publisher       *string
	Description     *string
	UpdateDate      time.Time
}

// ScholarPublicationFields are the mutable columns of a ScholarPublication row.
type ScholarPublicationFields struct {
	TitleLink          *string
	PDFLink            *string
	TotalCitations     *int
	RelatedArticlesURL *string
	AllVersionsURL     *string
	UpdateDate         time.Time
}

// ScholarCitationFields are the mutable columns of a ScholarCitation row.
type ScholarCitationFields struct {
	CitationLink *string
	Title        *string
	Link         *string
	Summary      *string
	DocumentLink *string
	Year         *string
	Citations    *int
	UpdateDate   time.Time
}

// JournalFields are the mutable columns of a Journal row.
type JournalFields struct {
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
	UpdateDate        time.Time
}

// ConferenceFields are the mutable columns of a Conference row.
type ConferenceFields struct {
	Title         *string
	Publisher     *string
	Rank          *string
	Note          *string
	DBLPLink      *string
	PrimaryFor    *string
	Comments      *string
	AverageRating *string
	Year          int
	UpdateDate    time.Time
}
