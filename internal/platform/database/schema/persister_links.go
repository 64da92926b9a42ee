// Copyright (c) 2026 GwnGames. All rights reserved.
// Author: dev@gwngames.com

package schema

// PublicationAuthorTable represents the 'persister.publication_author' link table
type PublicationAuthorTable struct {
	Table          string
	PublicationKey string
	AuthorKey      string
}

// PublicationAuthor is the schema definition for persister.publication_author
var PublicationAuthor = PublicationAuthorTable{
	Table:          "persister.publication_author",
	PublicationKey: "publication_key",
	AuthorKey:      "author_key",
}

func (t PublicationAuthorTable) Columns() []string {
	return []string{t.PublicationKey, t.AuthorKey}
}

// AuthorCoauthorTable represents the 'persister.author_coauthor' link table
type AuthorCoauthorTable struct {
	Table       string
	AuthorKey   string
	CoauthorKey string
}

// AuthorCoauthor is the schema definition for persister.author_coauthor
var AuthorCoauthor = AuthorCoauthorTable{
	Table:       "persister.author_coauthor",
	AuthorKey:   "author_key",
	CoauthorKey: "coauthor_key",
}

func (t AuthorCoauthorTable) Columns() []string {
	return []string{t.AuthorKey, t.CoauthorKey}
}

// AuthorInterestTable represents the 'persister.author_interest' link table
type AuthorInterestTable struct {
	Table       string
	AuthorKey   string
	InterestKey string
}

// AuthorInterest is the schema definition for persister.author_interest
var AuthorInterest = AuthorInterestTable{
	Table:       "persister.author_interest",
	AuthorKey:   "author_key",
	InterestKey: "interest_key",
}

func (t AuthorInterestTable) Columns() []string {
	return []string{t.AuthorKey, t.InterestKey}
}
