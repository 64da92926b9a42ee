// Copyright (c) 2026 GwnGames. All rights reserved.
// Author: dev@gwngames.com

package store

import "strings"

// acronymSeparators are applied in order by the fallback splitter. DBLP
// venue keys compound acronyms like "ICSE@ESEC" or "ASE/SANER".
var acronymSeparators = []string{"@", "/", "-"}

// splitAcronym expands a compound acronym into its probe parts, splitting
// successively on '@', '/', then '-'. The returned slice preserves split
// order and excludes empty fragments. A simple acronym comes back as a
// single-element slice.
func splitAcronym(acronym string) []string {
	parts := []string{acronym}

	for _, separator := range acronymSeparators {
		var next []string
		for _, part := range parts {
			for _, fragment := range strings.Split(part, separator) {
				fragment = strings.TrimSpace(fragment)
				if fragment != "" {
					next = append(next, fragment)
				}
			}
		}
		parts = next
	}

	return parts
}
