// Copyright (c) 2026 GwnGames. All rights reserved.
// Author: dev@gwngames.com

package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

/*
TestSplitAcronym verifies the fallback splitter order ('@' before '/' before
'-') and fragment cleanup.
*/
func TestSplitAcronym(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{"plain", "ICSE", []string{"ICSE"}},
		{"at_sign", "ICSE@ESEC", []string{"ICSE", "ESEC"}},
		{"slash", "ASE/SANER", []string{"ASE", "SANER"}},
		{"hyphen", "ECML-PKDD", []string{"ECML", "PKDD"}},
		{"mixed", "AIED@ECML-PKDD", []string{"AIED", "ECML", "PKDD"}},
		{"drops_empty_fragments", "ICSE@", []string{"ICSE"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, splitAcronym(tt.input))
		})
	}
}

/*
TestAuthorPrefilter verifies the initials/surname LIKE arguments derived for
author probes: two leading characters for full first names, one for bare
initials.
*/
func TestAuthorPrefilter(t *testing.T) {
	tests := []struct {
		name             string
		input            string
		expectedInitials string
		expectedSurname  string
	}{
		{"full_name", "ada lovelace", "ad", "lovelace"},
		{"dotted_initial", "a. lovelace", "a", "lovelace"},
		{"bare_initial", "a lovelace", "a", "lovelace"},
		{"single_token", "lovelace", "lo", "lovelace"},
		{"empty", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			initials, surname := authorPrefilter(tt.input)
			assert.Equal(t, tt.expectedInitials, initials)
			assert.Equal(t, tt.expectedSurname, surname)
		})
	}
}
