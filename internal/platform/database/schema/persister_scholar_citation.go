// Copyright (c) 2026 GwnGames. All rights reserved.
// Author: dev@gwngames.com

package schema

// ScholarCitationTable represents the 'persister.scholar_citation' table
type ScholarCitationTable struct {
	Table          string
	ID             string
	CitesID        string
	PublicationKey string
	CitationLink   string
	Title          string
	Link           string
	Summary        string
	DocumentLink   string
	Year           string
	Citations      string
	ClassID        string
	VariantID      string
	UpdateDate     string
	UpdateCount    string
}

// ScholarCitation is the schema definition for persister.scholar_citation
var ScholarCitation = ScholarCitationTable{
	Table:          "persister.scholar_citation",
	ID:             "id",
	CitesID:        "cites_id",
	PublicationKey: "publication_key",
	CitationLink:   "citation_link",
	Title:          "title",
	Link:           "link",
	Summary:        "summary",
	DocumentLink:   "document_link",
	Year:           "year",
	Citations:      "citations",
	ClassID:        "class_id",
	VariantID:      "variant_id",
	UpdateDate:     "update_date",
	UpdateCount:    "update_count",
}

func (t ScholarCitationTable) Columns() []string {
	return []string{
		t.ID, t.CitesID, t.PublicationKey, t.CitationLink, t.Title, t.Link,
		t.Summary, t.DocumentLink, t.Year, t.Citations,
		t.ClassID, t.VariantID, t.UpdateDate, t.UpdateCount,
	}
}
