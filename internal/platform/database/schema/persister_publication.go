// Copyright (c) 2026 GwnGames. All rights reserved.
// Author: dev@gwngames.com

package schema

// PublicationTable represents the 'persister.publication' table
type PublicationTable struct {
	Table           string
	ID              string
	Title           string
	URL             string
	PublicationYear string
	Pages           string
	Publisher       string
	Description     string
	JournalKey      string
	ConferenceKey   string
	ClassID         string
	VariantID       string
	UpdateDate      string
	UpdateCount     string
}

// Publication is the schema definition for persister.publication
var Publication = PublicationTable{
	Table:           "persister.publication",
	ID:              "id",
	Title:           "title",
	URL:             "url",
	PublicationYear: "publication_year",
	Pages:           "pages",
	Publisher:       "publisher",
	Description:     "description",
	JournalKey:      "journal_key",
	ConferenceKey:   "conference_key",
	ClassID:         "class_id",
	VariantID:       "variant_id",
	UpdateDate:      "update_date",
	UpdateCount:     "update_count",
}

func (t PublicationTable) Columns() []string {
	return []string{t.ID, t.Title, t.URL, t.PublicationYear, t.Pages, t.Publisher, t.Description, t.JournalKey, t.ConferenceKey, t.ClassID, t.VariantID, t.UpdateDate, t.UpdateCount}
}
