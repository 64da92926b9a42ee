// Copyright (c) 2026 GwnGames. All rights reserved.
// Author: dev@gwngames.com

package parser_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gwngames/persister/internal/model"
	"github.com/gwngames/persister/internal/parser"
	"github.com/gwngames/persister/internal/parser/parsertest"
)

func envelopeFor(t *testing.T, id string, classID, variantID int, payload string) *parser.Envelope {
	t.Helper()
	return &parser.Envelope{
		ID:         id,
		ClassID:    classID,
		VariantID:  variantID,
		UpdateDate: time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC),
		Raw:        []byte(payload),
	}
}

/*
TestScholarAuthorParser_NewAuthor ingests a fresh author profile and expects
one author, one scholar variant row, one interest, and one author-interest
link.
*/
func TestScholarAuthorParser_NewAuthor(t *testing.T) {
	st := parsertest.NewFakeStore()
	handler := &parser.ScholarAuthorParser{}

	envelope := envelopeFor(t, "a1", model.ClassAuthor, model.VariantScholarAuthor,
		`{"name": "Ada Lovelace", "author_id": "X1", "interests": ["computing"]}`)

	require.NoError(t, handler.Process(context.Background(), st, envelope))

	assert.Len(t, st.Authors, 1)
	assert.Len(t, st.ScholarAuthors, 1)
	assert.Len(t, st.Interests, 1)
	assert.Len(t, st.AuthorInterestLinks, 1)
}

/*
TestScholarAuthorParser_Replay re-sends the same envelope and expects row
counts unchanged with update counters incremented.
*/
func TestScholarAuthorParser_Replay(t *testing.T) {
	st := parsertest.NewFakeStore()
	handler := &parser.ScholarAuthorParser{}

	envelope := envelopeFor(t, "a1", model.ClassAuthor, model.VariantScholarAuthor,
		`{"name": "Ada Lovelace", "author_id": "X1", "interests": ["computing"]}`)

	require.NoError(t, handler.Process(context.Background(), st, envelope))
	require.NoError(t, handler.Process(context.Background(), st, envelope))

	assert.Len(t, st.Authors, 1)
	assert.Len(t, st.ScholarAuthors, 1)
	assert.Len(t, st.Interests, 1)

	for _, author := range st.Authors {
		assert.Equal(t, 2, author.UpdateCount)
	}
}

/*
TestScholarAuthorParser_FuzzyMatch sends the same author under an
abbreviated spelling and expects no new author row.
*/
func TestScholarAuthorParser_FuzzyMatch(t *testing.T) {
	st := parsertest.NewFakeStore()
	handler := &parser.ScholarAuthorParser{}

	require.NoError(t, handler.Process(context.Background(), st,
		envelopeFor(t, "a1", model.ClassAuthor, model.VariantScholarAuthor,
			`{"name": "Ada Lovelace", "author_id": "X1"}`)))
	require.NoError(t, handler.Process(context.Background(), st,
		envelopeFor(t, "a2", model.ClassAuthor, model.VariantScholarAuthor,
			`{"name": "A. Lovelace", "author_id": "X1"}`)))

	assert.Len(t, st.Authors, 1)
	assert.Len(t, st.ScholarAuthors, 1)
}

/*
TestScholarAuthorParser_CoauthorSymmetry expects both directions of the
co-author edge after ingesting a profile with one co-author.
*/
func TestScholarAuthorParser_CoauthorSymmetry(t *testing.T) {
	st := parsertest.NewFakeStore()
	handler := &parser.ScholarAuthorParser{}

	require.NoError(t, handler.Process(context.Background(), st,
		envelopeFor(t, "a1", model.ClassAuthor, model.VariantScholarAuthor,
			`{"name": "Ada Lovelace", "author_id": "X1", "coauthors": ["Charles Babbage"]}`)))

	assert.Len(t, st.Authors, 2)
	assert.Len(t, st.CoauthorLinks, 2)
}

/*
TestScholarAuthorParser_MissingRequiredFields expects an error when name or
author_id is absent.
*/
func TestScholarAuthorParser_MissingRequiredFields(t *testing.T) {
	st := parsertest.NewFakeStore()
	handler := &parser.ScholarAuthorParser{}

	err := handler.Process(context.Background(), st,
		envelopeFor(t, "a1", model.ClassAuthor, model.VariantScholarAuthor, `{"name": "Ada Lovelace"}`))
	assert.Error(t, err)
	assert.Empty(t, st.Authors)
}

/*
TestScholarPublicationParser_EmptyAuthorList expects the publication to be
inserted with zero links when no authors are listed.
*/
func TestScholarPublicationParser_EmptyAuthorList(t *testing.T) {
	st := parsertest.NewFakeStore()
	handler := &parser.ScholarPublicationParser{}

	require.NoError(t, handler.Process(context.Background(), st,
		envelopeFor(t, "p1", model.ClassPublication, model.VariantScholarPublication,
			`{"title": "Notes on the Analytical Engine", "publication_id": "P1", "cites_id": "C1", "authors": []}`)))

	assert.Len(t, st.Publications, 1)
	assert.Len(t, st.ScholarPublications, 1)
	assert.Empty(t, st.PublicationAuthorLinks)
}

/*
TestScholarPublicationParser_SkipsShortUnknownAuthors expects names whose
first token is a bare initial to be skipped when they match nothing, while
full names are created and linked.
*/
func TestScholarPublicationParser_SkipsShortUnknownAuthors(t *testing.T) {
	st := parsertest.NewFakeStore()
	handler := &parser.ScholarPublicationParser{}

	require.NoError(t, handler.Process(context.Background(), st,
		envelopeFor(t, "p1", model.ClassPublication, model.VariantScholarPublication,
			`{"title": "Sketch of the Analytical Engine", "publication_id": "P1",
			  "authors": ["Ada Lovelace", "m menabrea"]}`)))

	assert.Len(t, st.Authors, 1)
	assert.Len(t, st.PublicationAuthorLinks, 1)
}

/*
TestPublicationAssociation_LinksKnownEntities replays scenario: a
publication and authors ingested via the Scholar path, then a DBLP
association envelope referencing the same title. Expects links and symmetric
co-author edges without any new rows.
*/
func TestPublicationAssociation_LinksKnownEntities(t *testing.T) {
	st := parsertest.NewFakeStore()

	scholarHandler := &parser.ScholarPublicationParser{}
	require.NoError(t, scholarHandler.Process(context.Background(), st,
		envelopeFor(t, "p1", model.ClassPublication, model.VariantScholarPublication,
			`{"title": "Analytical Engines", "publication_id": "P1",
			  "authors": ["Ada Lovelace", "Charles Babbage"]}`)))

	assocHandler := &parser.PublicationAssociationProcessor{}
	require.NoError(t, assocHandler.Process(context.Background(), st,
		envelopeFor(t, "d1", model.ClassPublication, model.VariantDBLPAssociation,
			`{"publications": [{"title": "Analytical Engines", "type": "Journal",
			   "authors": ["Ada Lovelace", "Charles Babbage"],
			   "journal_name": "Victorian Computing", "publication_year": 1843}]}`)))

	assert.Len(t, st.Publications, 1, "association must not create publications")
	assert.Len(t, st.Authors, 2, "association must not create authors")
	assert.Len(t, st.PublicationAuthorLinks, 2)
	assert.Len(t, st.CoauthorLinks, 2, "both directions of the coauthor edge")
	assert.Len(t, st.Journals, 1)

	for _, publication := range st.Publications {
		require.NotNil(t, publication.JournalKey)
	}
}

/*
TestPublicationAssociation_UnknownVenueType expects the publication to be
touched with no journal or conference attachment.
*/
func TestPublicationAssociation_UnknownVenueType(t *testing.T) {
	st := parsertest.NewFakeStore()

	scholarHandler := &parser.ScholarPublicationParser{}
	require.NoError(t, scholarHandler.Process(context.Background(), st,
		envelopeFor(t, "p1", model.ClassPublication, model.VariantScholarPublication,
			`{"title": "Analytical Engines", "publication_id": "P1", "authors": []}`)))

	assocHandler := &parser.PublicationAssociationProcessor{}
	require.NoError(t, assocHandler.Process(context.Background(), st,
		envelopeFor(t, "d1", model.ClassPublication, model.VariantDBLPAssociation,
			`{"publications": [{"title": "Analytical Engines", "type": "Workshop", "authors": []}]}`)))

	assert.Empty(t, st.Journals)
	assert.Empty(t, st.Conferences)
}

/*
TestPublicationAssociation_UnknownPublicationSkipped expects an association
for a title that matches nothing to be skipped without error.
*/
func TestPublicationAssociation_UnknownPublicationSkipped(t *testing.T) {
	st := parsertest.NewFakeStore()

	assocHandler := &parser.PublicationAssociationProcessor{}
	require.NoError(t, assocHandler.Process(context.Background(), st,
		envelopeFor(t, "d1", model.ClassPublication, model.VariantDBLPAssociation,
			`{"publications": [{"title": "Never Ingested", "type": "Journal", "authors": ["Nobody Known"]}]}`)))

	assert.Empty(t, st.Publications)
	assert.Empty(t, st.PublicationAuthorLinks)
}

/*
TestPublicationAssociation_AcronymFallback seeds conference ICSE, then sends
an association referencing "ICSE@ESEC". The '@' split must match the
existing row instead of creating a new conference.
*/
func TestPublicationAssociation_AcronymFallback(t *testing.T) {
	st := parsertest.NewFakeStore()

	conferenceHandler := &parser.ConferenceProcessor{}
	require.NoError(t, conferenceHandler.Process(context.Background(), st,
		envelopeFor(t, "c1", model.ClassConference, model.VariantConference,
			`{"conferences": [{"title": "Intl. Conference on Software Engineering",
			   "acronym": "ICSE", "source": "IEEE 2023"}]}`)))

	scholarHandler := &parser.ScholarPublicationParser{}
	require.NoError(t, scholarHandler.Process(context.Background(), st,
		envelopeFor(t, "p1", model.ClassPublication, model.VariantScholarPublication,
			`{"title": "Testing at Scale", "publication_id": "P1", "authors": []}`)))

	assocHandler := &parser.PublicationAssociationProcessor{}
	require.NoError(t, assocHandler.Process(context.Background(), st,
		envelopeFor(t, "d1", model.ClassPublication, model.VariantDBLPAssociation,
			`{"publications": [{"title": "Testing at Scale", "type": "Conference",
			   "authors": [], "conference_acronym": "ICSE@ESEC", "conference_year": 2023}]}`)))

	assert.Len(t, st.Conferences, 1, "fallback must reuse the ICSE row")
}

/*
TestConferenceProcessor_YearExtraction verifies the 4-digit year pull from
the source field and the current-year fallback.
*/
func TestConferenceProcessor_YearExtraction(t *testing.T) {
	st := parsertest.NewFakeStore()
	fixedNow := func() time.Time { return time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC) }
	handler := &parser.ConferenceProcessor{Now: fixedNow}

	require.NoError(t, handler.Process(context.Background(), st,
		envelopeFor(t, "c1", model.ClassConference, model.VariantConference,
			`{"conferences": [
			   {"title": "A", "acronym": "AAAA", "source": "IEEE 2019 Proceedings"},
			   {"title": "B", "acronym": "BBBB", "source": "no year here"}]}`)))

	years := map[string]int{}
	for _, conference := range st.Conferences {
		years[conference.Acronym] = conference.Year
	}
	assert.Equal(t, 2019, years["AAAA"])
	assert.Equal(t, 2026, years["BBBB"])
}

/*
TestJournalParser_YearDefaultsToZero verifies the verbatim year with zero
fallback.
*/
func TestJournalParser_YearDefaultsToZero(t *testing.T) {
	st := parsertest.NewFakeStore()
	handler := &parser.JournalParser{}

	require.NoError(t, handler.Process(context.Background(), st,
		envelopeFor(t, "j1", model.ClassJournal, model.VariantJournal,
			`{"journals": [
			   {"title": "Nature Computing", "type": "journal", "year": 2024},
			   {"title": "Unknown Era Letters", "type": "journal"}]}`)))

	years := map[string]int{}
	for _, journal := range st.Journals {
		years[journal.Title] = journal.Year
	}
	assert.Equal(t, 2024, years["nature computing"])
	assert.Equal(t, 0, years["unknown era letters"])
}

/*
TestScholarCitationParser_YearFallback ingests a publication with a year,
then a citation without one; the citation must inherit the publication year.
A second entry with its own year keeps it.
*/
func TestScholarCitationParser_YearFallback(t *testing.T) {
	st := parsertest.NewFakeStore()

	scholarHandler := &parser.ScholarPublicationParser{}
	require.NoError(t, scholarHandler.Process(context.Background(), st,
		envelopeFor(t, "p1", model.ClassPublication, model.VariantScholarPublication,
			`{"title": "Analytical Engines", "publication_id": "P1", "cites_id": "C1",
			  "publication_date": "1843", "authors": []}`)))

	citationHandler := &parser.ScholarCitationParser{}
	require.NoError(t, citationHandler.Process(context.Background(), st,
		envelopeFor(t, "s1", model.ClassScholarCitation, model.VariantScholarCitation,
			`{"cites_id": "C1", "citations": [
			   {"cites_id": "K1", "link": "https://example.org/k1"},
			   {"cites_id": "K2", "link": "https://example.org/k2", "year": "1901"}]}`)))

	require.Len(t, st.ScholarCitations, 2)
	require.NotNil(t, st.ScholarCitations["K1"].Year)
	assert.Equal(t, "1843", *st.ScholarCitations["K1"].Year)
	require.NotNil(t, st.ScholarCitations["K2"].Year)
	assert.Equal(t, "1901", *st.ScholarCitations["K2"].Year)
}

/*
TestScholarCitationParser_UnknownPublication expects an error when the
cites_id resolves to no publication, so dispatch can retry after the
publication arrives.
*/
func TestScholarCitationParser_UnknownPublication(t *testing.T) {
	st := parsertest.NewFakeStore()
	handler := &parser.ScholarCitationParser{}

	err := handler.Process(context.Background(), st,
		envelopeFor(t, "s1", model.ClassScholarCitation, model.VariantScholarCitation,
			`{"cites_id": "missing", "citations": [{"cites_id": "K1", "link": "https://example.org"}]}`))
	assert.Error(t, err)
}
