// Copyright (c) 2026 GwnGames. All rights reserved.
// Author: dev@gwngames.com

package schema

// InterestTable represents the 'persister.interest' table
type InterestTable struct {
	Table       string
	ID          string
	Name        string
	ClassID     string
	VariantID   string
	UpdateDate  string
	UpdateCount string
}

// Interest is the schema definition for persister.interest
var Interest = InterestTable{
	Table:       "persister.interest",
	ID:          "id",
	Name:        "name",
	ClassID:     "class_id",
	VariantID:   "variant_id",
	UpdateDate:  "update_date",
	UpdateCount: "update_count",
}

func (t InterestTable) Columns() []string {
	return []string{t.ID, t.Name, t.ClassID, t.VariantID, t.UpdateDate, t.UpdateCount}
}
