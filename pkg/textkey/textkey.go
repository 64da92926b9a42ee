// Copyright (c) 2026 GwnGames. All rights reserved.
// Author: dev@gwngames.com

/*
Package textkey provides the deterministic string helpers that seed the
similarity probes of the entity store.

The fuzzy candidate lookups are expensive (trigram / jaro operators over a
whole table), so every probe is narrowed first with a cheap LIKE prefilter
built from these helpers. They must stay pure and deterministic: their output
becomes SQL parameters, and two runs over the same input must probe the same
candidate set.
*/
package textkey

import (
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// invalidChars are stripped by [Sanitize].
const invalidChars = `<>:"/\|?*`

// FirstAfterFifth returns the word of text that covers character position
// len(trim(text))/5 when words are joined by single spaces. If that word is
// shorter than 2 characters the next word is returned instead. The empty
// string is returned for empty input or when no word qualifies.
//
// The result feeds a LIKE '%word%' prefilter ahead of the similarity
// predicate, picking a word far enough into the title to skip low-entropy
// openers ("a", "the", "on").
func FirstAfterFifth(text string) string {
	if text == "" {
		return ""
	}

	fifthIndex := len(strings.TrimSpace(text)) / 5

	words := strings.Fields(text)
	currentIndex := 0
	for i, word := range words {
		nextIndex := currentIndex + len(word)
		if currentIndex <= fifthIndex && fifthIndex < nextIndex {
			if len(word) < 2 {
				if i+1 < len(words) {
					return words[i+1]
				}
				return ""
			}
			return word
		}
		currentIndex = nextIndex + 1
	}

	return ""
}

// IsFirstWordShort reports whether the first whitespace token of text has
// length <= 1. Scraped author lists often degrade to bare initials ("J."
// split from its surname); such fragments are useless as fuzzy-match keys.
func IsFirstWordShort(text string) bool {
	words := strings.Fields(text)
	if len(words) == 0 {
		return false
	}
	return len(words[0]) <= 1
}

// Sanitize trims surrounding whitespace and strips the characters
// < > : " / \ | ? * from text.
func Sanitize(text string) string {
	trimmed := strings.TrimSpace(text)

	var builder strings.Builder
	builder.Grow(len(trimmed))
	for _, r := range trimmed {
		if strings.ContainsRune(invalidChars, r) {
			continue
		}
		builder.WriteRune(r)
	}

	return builder.String()
}

// Fold strips Unicode combining marks and lowercases text, so that accented
// and plain spellings ("Émigré", "emigre") build identical prefilter
// arguments. The authoritative fuzzy comparison still happens in SQL; Fold
// only keeps the in-process side of the probe stable.
func Fold(text string) string {
	t := transform.Chain(norm.NFD, transform.RemoveFunc(isMn))
	result, _, err := transform.String(t, text)
	if err != nil {
		// Fall back to plain lowercasing on malformed input.
		return strings.ToLower(text)
	}
	return strings.ToLower(result)
}

// isMn reports whether the rune is a nonspacing combining mark (category Mn).
func isMn(r rune) bool {
	return unicode.Is(unicode.Mn, r)
}
