// Copyright (c) 2026 GwnGames. All rights reserved.
// Author: dev@gwngames.com

package textkey_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gwngames/persister/pkg/textkey"
)

/*
TestFirstAfterFifth verifies the word-selection rule used to build LIKE
prefilters for title probes.
*/
func TestFirstAfterFifth(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", ""},
		{"single_word", "avalanche", "avalanche"},
		{"skips_short_word", "avalanche: a pytorch library for deep continual learning", "pytorch"},
		{"plain_sentence", "deep continual learning in practice", "continual"},
		{"short_word_no_successor", "x", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, textkey.FirstAfterFifth(tt.input))
		})
	}
}

/*
TestIsFirstWordShort verifies detection of degenerate leading tokens
(bare initials) in scraped author names.
*/
func TestIsFirstWordShort(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected bool
	}{
		{"empty", "", false},
		{"whitespace_only", "   ", false},
		{"initial_only", "j lovelace", true},
		{"dotted_initial", "j. lovelace", false},
		{"full_name", "ada lovelace", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, textkey.IsFirstWordShort(tt.input))
		})
	}
}

/*
TestSanitize verifies whitespace trimming and removal of filesystem-hostile
characters.
*/
func TestSanitize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"clean", "machine learning", "machine learning"},
		{"trims", "  padded  ", "padded"},
		{"strips_invalid", `a<b>c:d"e/f\g|h?i*j`, "abcdefghij"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, textkey.Sanitize(tt.input))
		})
	}
}

/*
TestFold verifies accent stripping and lowercasing for prefilter arguments.
*/
func TestFold(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"ascii", "Ada Lovelace", "ada lovelace"},
		{"accented", "Émigré", "emigre"},
		{"mixed", "José Niño", "jose nino"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, textkey.Fold(tt.input))
		})
	}
}
