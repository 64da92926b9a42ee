// Copyright (c) 2026 GwnGames. All rights reserved.
// Author: dev@gwngames.com

// Package parsertest provides an in-memory [parser.Store] fake used by the
// parser and dispatch tests. Fuzzy name matching is simulated with a cheap
// surname+initial rule so that "a. lovelace" resolves to "ada lovelace"
// without a database.
package parsertest

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gwngames/persister/internal/model"
	"github.com/gwngames/persister/pkg/textkey"
)

// FakeStore is an in-memory stand-in for the entity store session.
type FakeStore struct {
	Authors             map[string]*model.Author             // keyed by id
	ScholarAuthors      map[string]*model.ScholarAuthor      // keyed by author_id
	Interests           map[string]*model.Interest           // keyed by id
	Publications        map[string]*model.Publication        // keyed by id
	ScholarPublications map[string]*model.ScholarPublication // keyed by publication_id+cites_id
	ScholarCitations    map[string]*model.ScholarCitation    // keyed by cites_id
	Journals            map[string]*model.Journal            // keyed by id
	Conferences         map[string]*model.Conference         // keyed by id

	PublicationAuthorLinks map[string]bool
	CoauthorLinks          map[string]bool
	AuthorInterestLinks    map[string]bool

	nextID int
}

// NewFakeStore returns an empty fake.
func NewFakeStore() *FakeStore {
	return &FakeStore{
		Authors:                map[string]*model.Author{},
		ScholarAuthors:         map[string]*model.ScholarAuthor{},
		Interests:              map[string]*model.Interest{},
		Publications:           map[string]*model.Publication{},
		ScholarPublications:    map[string]*model.ScholarPublication{},
		ScholarCitations:       map[string]*model.ScholarCitation{},
		Journals:               map[string]*model.Journal{},
		Conferences:            map[string]*model.Conference{},
		PublicationAuthorLinks: map[string]bool{},
		CoauthorLinks:          map[string]bool{},
		AuthorInterestLinks:    map[string]bool{},
	}
}

func (store *FakeStore) newID() string {
	store.nextID++
	return fmt.Sprintf("fake-%04d", store.nextID)
}

// nameMatches simulates the word-similarity author probe: exact folded
// match, or same surname with the same leading initial.
func nameMatches(existing, probe string) bool {
	if existing == probe {
		return true
	}

	existingTokens := strings.Fields(existing)
	probeTokens := strings.Fields(probe)
	if len(existingTokens) == 0 || len(probeTokens) == 0 {
		return false
	}

	sameSurname := existingTokens[len(existingTokens)-1] == probeTokens[len(probeTokens)-1]
	sameInitial := existingTokens[0][0] == probeTokens[0][0]
	return sameSurname && sameInitial
}

// # Authors

func (store *FakeStore) FindAuthorByName(_ context.Context, name string) (*model.Author, error) {
	probe := textkey.Fold(name)
	for _, author := range store.Authors {
		if nameMatches(author.Name, probe) {
			return author, nil
		}
	}
	return nil, nil
}

func (store *FakeStore) UpsertAuthor(ctx context.Context, name string, fields model.AuthorFields) (*model.Author, bool, error) {
	author, _ := store.FindAuthorByName(ctx, name)
	if author != nil {
		if fields.Role != nil {
			author.Role = fields.Role
		}
		if fields.Organization != nil {
			author.Organization = fields.Organization
		}
		if fields.ImageURL != nil {
			author.ImageURL = fields.ImageURL
		}
		if fields.HomepageURL != nil {
			author.HomepageURL = fields.HomepageURL
		}
		author.UpdateCount++
		return author, false, nil
	}

	author = &model.Author{
		ID:           store.newID(),
		Name:         textkey.Fold(name),
		Role:         fields.Role,
		Organization: fields.Organization,
		ImageURL:     fields.ImageURL,
		HomepageURL:  fields.HomepageURL,
		Meta: model.Meta{
			ClassID:     model.ClassAuthor,
			VariantID:   model.VariantBase,
			UpdateDate:  fields.UpdateDate,
			UpdateCount: 1,
		},
	}
	store.Authors[author.ID] = author
	return author, true, nil
}

func (store *FakeStore) UpsertScholarAuthor(_ context.Context, scholarAuthorID, authorKey string, fields model.ScholarAuthorFields) (*model.ScholarAuthor, error) {
	if scholar, ok := store.ScholarAuthors[scholarAuthorID]; ok {
		scholar.UpdateCount++
		return scholar, nil
	}

	scholar := &model.ScholarAuthor{
		ID:         store.newID(),
		AuthorID:   scholarAuthorID,
		AuthorKey:  authorKey,
		ProfileURL: fields.ProfileURL,
		Verified:   fields.Verified,
		HIndex:     fields.HIndex,
		I10Index:   fields.I10Index,
		Meta:       model.Meta{UpdateCount: 1},
	}
	store.ScholarAuthors[scholarAuthorID] = scholar
	return scholar, nil
}

// # Interests

func (store *FakeStore) UpsertInterest(_ context.Context, name string, _ time.Time) (*model.Interest, bool, error) {
	probe := textkey.Fold(name)
	for _, interest := range store.Interests {
		if interest.Name == probe {
			interest.UpdateCount++
			return interest, false, nil
		}
	}

	interest := &model.Interest{
		ID:   store.newID(),
		Name: probe,
		Meta: model.Meta{UpdateCount: 1},
	}
	store.Interests[interest.ID] = interest
	return interest, true, nil
}

// # Publications

func (store *FakeStore) FindPublicationByTitle(_ context.Context, title string) (*model.Publication, error) {
	probe := textkey.Fold(title)
	for _, publication := range store.Publications {
		if publication.Title == probe {
			return publication, nil
		}
	}
	return nil, nil
}

func (store *FakeStore) FindPublicationByID(_ context.Context, id string) (*model.Publication, error) {
	return store.Publications[id], nil
}

func (store *FakeStore) UpsertPublication(ctx context.Context, title string, fields model.PublicationFields) (*model.Publication, bool, error) {
	publication, _ := store.FindPublicationByTitle(ctx, title)
	if publication != nil {
		if fields.URL != nil {
			publication.URL = fields.URL
		}
		if fields.PublicationYear != nil {
			publication.PublicationYear = fields.PublicationYear
		}
		publication.UpdateCount++
		return publication, false, nil
	}

	publication = &model.Publication{
		ID:              store.newID(),
		Title:           textkey.Fold(title),
		URL:             fields.URL,
		PublicationYear: fields.PublicationYear,
		Pages:           fields.Pages,
		Publisher:       fields.Publisher,
		Description:     fields.Description,
		Meta:            model.Meta{UpdateCount: 1},
	}
	store.Publications[publication.ID] = publication
	return publication, true, nil
}

func scholarPublicationKey(publicationID string, citesID *string) string {
	if citesID == nil {
		return publicationID + "|"
	}
	return publicationID + "|" + *citesID
}

func (store *FakeStore) UpsertScholarPublication(_ context.Context, publicationID string, citesID *string, publicationKey string, fields model.ScholarPublicationFields) (*model.ScholarPublication, error) {
	key := scholarPublicationKey(publicationID, citesID)
	if scholar, ok := store.ScholarPublications[key]; ok {
		scholar.UpdateCount++
		return scholar, nil
	}

	scholar := &model.ScholarPublication{
		ID:             store.newID(),
		PublicationID:  publicationID,
		PublicationKey: publicationKey,
		CitesID:        citesID,
		TotalCitations: fields.TotalCitations,
		Meta:           model.Meta{UpdateCount: 1},
	}
	store.ScholarPublications[key] = scholar
	return scholar, nil
}

func (store *FakeStore) FindScholarPublicationByCitesID(_ context.Context, citesID string) (*model.ScholarPublication, error) {
	for _, scholar := range store.ScholarPublications {
		if scholar.CitesID != nil && *scholar.CitesID == citesID {
			return scholar, nil
		}
	}
	return nil, nil
}

func (store *FakeStore) UpsertScholarCitation(_ context.Context, citesID, publicationKey string, fields model.ScholarCitationFields) (*model.ScholarCitation, error) {
	if citation, ok := store.ScholarCitations[citesID]; ok {
		citation.UpdateCount++
		return citation, nil
	}

	citation := &model.ScholarCitation{
		ID:             store.newID(),
		CitesID:        citesID,
		PublicationKey: publicationKey,
		Year:           fields.Year,
		Citations:      fields.Citations,
		Meta:           model.Meta{UpdateCount: 1},
	}
	store.ScholarCitations[citesID] = citation
	return citation, nil
}

// # Venues

func (store *FakeStore) upsertJournal(title string, fields model.JournalFields) (*model.Journal, bool, error) {
	probe := textkey.Fold(title)
	for _, journal := range store.Journals {
		if journal.Title == probe {
			journal.UpdateCount++
			return journal, false, nil
		}
	}

	journal := &model.Journal{
		ID:    store.newID(),
		Title: probe,
		Year:  fields.Year,
		Meta:  model.Meta{UpdateCount: 1},
	}
	store.Journals[journal.ID] = journal
	return journal, true, nil
}

func (store *FakeStore) UpsertJournal(_ context.Context, title string, fields model.JournalFields) (*model.Journal, bool, error) {
	return store.upsertJournal(title, fields)
}

func (store *FakeStore) UpsertAssocJournal(_ context.Context, title string, fields model.JournalFields) (*model.Journal, bool, error) {
	return store.upsertJournal(title, fields)
}

func (store *FakeStore) UpsertConference(_ context.Context, acronym string, fields model.ConferenceFields) (*model.Conference, bool, error) {
	acronymUpper := strings.ToUpper(textkey.Sanitize(acronym))

	// Raw probe, then the '@' / '/' / '-' fallback parts in order.
	parts := []string{acronymUpper}
	for _, separator := range []string{"@", "/", "-"} {
		var next []string
		for _, part := range parts {
			next = append(next, strings.Split(part, separator)...)
		}
		parts = next
	}
	candidates := append([]string{acronymUpper}, parts...)

	for _, candidate := range candidates {
		for _, conference := range store.Conferences {
			if conference.Acronym == candidate {
				conference.UpdateCount++
				return conference, false, nil
			}
		}
	}

	conference := &model.Conference{
		ID:      store.newID(),
		Acronym: parts[len(parts)-1],
		Year:    fields.Year,
		Meta:    model.Meta{UpdateCount: 1},
	}
	store.Conferences[conference.ID] = conference
	return conference, true, nil
}

func (store *FakeStore) SetPublicationJournal(_ context.Context, publicationKey, journalKey string) error {
	if publication, ok := store.Publications[publicationKey]; ok {
		publication.JournalKey = &journalKey
	}
	return nil
}

func (store *FakeStore) SetPublicationConference(_ context.Context, publicationKey, conferenceKey string) error {
	if publication, ok := store.Publications[publicationKey]; ok {
		publication.ConferenceKey = &conferenceKey
	}
	return nil
}

// # Link Tables

func (store *FakeStore) LinkPublicationAuthor(_ context.Context, publicationKey, authorKey string) error {
	store.PublicationAuthorLinks[publicationKey+"|"+authorKey] = true
	return nil
}

func (store *FakeStore) LinkCoauthors(_ context.Context, authorKey, coauthorKey string) error {
	if authorKey == coauthorKey {
		return nil
	}
	store.CoauthorLinks[authorKey+"|"+coauthorKey] = true
	store.CoauthorLinks[coauthorKey+"|"+authorKey] = true
	return nil
}

func (store *FakeStore) LinkAuthorInterest(_ context.Context, authorKey, interestKey string) error {
	store.AuthorInterestLinks[authorKey+"|"+interestKey] = true
	return nil
}
