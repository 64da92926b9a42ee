// Copyright (c) 2026 GwnGames. All rights reserved.
// Author: dev@gwngames.com

package schema

// ConferenceTable represents the 'persister.conference' table
type ConferenceTable struct {
	Table         string
	ID            string
	Title         string
	Acronym       string
	Publisher     string
	Rank          string
	Note          string
	DBLPLink      string
	PrimaryFor    string
	Comments      string
	AverageRating string
	Year          string
	ClassID       string
	VariantID     string
	UpdateDate    string
	UpdateCount   string
}

// Conference is the schema definition for persister.conference
var Conference = ConferenceTable{
	Table:         "persister.conference",
	ID:            "id",
	Title:         "title",
	Acronym:       "acronym",
	Publisher:     "publisher",
	Rank:          "rank",
	Note:          "note",
	DBLPLink:      "dblp_link",
	PrimaryFor:    "primary_for",
	Comments:      "comments",
	AverageRating: "average_rating",
	Year:          "year",
	ClassID:       "class_id",
	VariantID:     "variant_id",
	UpdateDate:    "update_date",
	UpdateCount:   "update_count",
}

func (t ConferenceTable) Columns() []string {
	return []string{
		t.ID, t.Title, t.Acronym, t.Publisher, t.Rank, t.Note, t.DBLPLink,
		t.PrimaryFor, t.Comments, t.AverageRating, t.Year,
		t.ClassID, t.VariantID, t.UpdateDate, t.UpdateCount,
	}
}
