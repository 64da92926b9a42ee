// Copyright (c) 2026 GwnGames. All rights reserved.
// Author: dev@gwngames.com

package schema

// ScholarPublicationTable represents the 'persister.scholar_publication' table
type ScholarPublicationTable struct {
	Table              string
	ID                 string
	PublicationID      string
	PublicationKey     string
	TitleLink          string
	PDFLink            string
	TotalCitations     string
	CitesID            string
	RelatedArticlesURL string
	AllVersionsURL     string
	ClassID            string
	VariantID          string
	UpdateDate         string
	UpdateCount        string
}

// ScholarPublication is the schema definition for persister.scholar_publication
var ScholarPublication = ScholarPublicationTable{
	Table:              "persister.scholar_publication",
	ID:                 "id",
	PublicationID:      "publication_id",
	PublicationKey:     "publication_key",
	TitleLink:          "title_link",
	PDFLink:            "pdf_link",
	TotalCitations:     "total_citations",
	CitesID:            "cites_id",
	RelatedArticlesURL: "related_articles_url",
	AllVersionsURL:     "all_versions_url",
	ClassID:            "class_id",
	VariantID:          "variant_id",
	UpdateDate:         "update_date",
	UpdateCount:        "update_count",
}

func (t ScholarPublicationTable) Columns() []string {
	return []string{
		t.ID, t.PublicationID, t.PublicationKey, t.TitleLink, t.PDFLink,
		t.TotalCitations, t.CitesID, t.RelatedArticlesURL, t.AllVersionsURL,
		t.ClassID, t.VariantID, t.UpdateDate, t.UpdateCount,
	}
}
