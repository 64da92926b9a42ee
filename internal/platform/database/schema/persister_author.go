// Copyright (c) 2026 GwnGames. All rights reserved.
// Author: dev@gwngames.com

// Package schema declares the table and column names of the persister
// Postgres schema as typed structs, so that queries never embed raw string
// literals for identifiers.
package schema

// AuthorTable represents the 'persister.author' table
type AuthorTable struct {
	Table        string
	ID           string
	Name         string
	Role         string
	Organization string
	ImageURL     string
	HomepageURL  string
	ClassID      string
	VariantID    string
	UpdateDate   string
	UpdateCount  string
}

// Author is the schema definition for persister.author
var Author = AuthorTable{
	Table:        "persister.author",
	ID:           "id",
	Name:         "name",
	Role:         "role",
	Organization: "organization",
	ImageURL:     "image_url",
	HomepageURL:  "homepage_url",
	ClassID:      "class_id",
	VariantID:    "variant_id",
	UpdateDate:   "update_date",
	UpdateCount:  "update_count",
}

func (t AuthorTable) Columns() []string {
	return []string{t.ID, t.Name, t.Role, t.Organization, t.ImageURL, t.HomepageURL, t.ClassID, t.VariantID, t.UpdateDate, t.UpdateCount}
}
