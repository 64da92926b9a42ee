// Copyright (c) 2026 GwnGames. All rights reserved.
// Author: dev@gwngames.com

package schema

// JournalTable represents the 'persister.journal' table
type JournalTable struct {
	Table             string
	ID                string
	Title             string
	Type              string
	Year              string
	Link              string
	SJR               string
	QRank             string
	HIndex            string
	TotalDocs         string
	TotalDocs3Years   string
	TotalRefs         string
	TotalCites3Years  string
	CitableDocs3Years string
	CitesPerDoc2Years string
	RefsPerDoc        string
	FemalePercent     string
	ClassID           string
	VariantID         string
	UpdateDate        string
	UpdateCount       string
}

// Journal is the schema definition for persister.journal
var Journal = JournalTable{
	Table:             "persister.journal",
	ID:                "id",
	Title:             "title",
	Type:              "type",
	Year:              "year",
	Link:              "link",
	SJR:               "sjr",
	QRank:             "q_rank",
	HIndex:            "h_index",
	TotalDocs:         "total_docs",
	TotalDocs3Years:   "total_docs_3years",
	TotalRefs:         "total_refs",
	TotalCites3Years:  "total_cites_3years",
	CitableDocs3Years: "citable_docs_3years",
	CitesPerDoc2Years: "cites_per_doc_2years",
	RefsPerDoc:        "refs_per_doc",
	FemalePercent:     "female_percent",
	ClassID:           "class_id",
	VariantID:         "variant_id",
	UpdateDate:        "update_date",
	UpdateCount:       "update_count",
}

func (t JournalTable) Columns() []string {
	return []string{
		t.ID, t.Title, t.Type, t.Year, t.Link, t.SJR, t.QRank, t.HIndex,
		t.TotalDocs, t.TotalDocs3Years, t.TotalRefs, t.TotalCites3Years,
		t.CitableDocs3Years, t.CitesPerDoc2Years, t.RefsPerDoc, t.FemalePercent,
		t.ClassID, t.VariantID, t.UpdateDate, t.UpdateCount,
	}
}
