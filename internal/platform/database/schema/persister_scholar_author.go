// Copyright (c) 2026 GwnGames. All rights reserved.
// Author: dev@gwngames.com

package schema

// ScholarAuthorTable represents the 'persister.scholar_author' table
type ScholarAuthorTable struct {
	Table       string
	ID          string
	AuthorID    string
	AuthorKey   string
	ProfileURL  string
	Verified    string
	HIndex      string
	I10Index    string
	ClassID     string
	VariantID   string
	UpdateDate  string
	UpdateCount string
}

// ScholarAuthor is the schema definition for persister.scholar_author
var ScholarAuthor = ScholarAuthorTable{
	Table:       "persister.scholar_author",
	ID:          "id",
	AuthorID:    "author_id",
	AuthorKey:   "author_key",
	ProfileURL:  "profile_url",
	Verified:    "verified",
	HIndex:      "h_index",
	I10Index:    "i10_index",
	ClassID:     "class_id",
	VariantID:   "variant_id",
	UpdateDate:  "update_date",
	UpdateCount: "update_count",
}

func (t ScholarAuthorTable) Columns() []string {
	return []string{t.ID, t.AuthorID, t.AuthorKey, t.ProfileURL, t.Verified, t.HIndex, t.I10Index, t.ClassID, t.VariantID, t.UpdateDate, t.UpdateCount}
}
