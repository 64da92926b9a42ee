// Copyright (c) 2026 GwnGames. All rights reserved.
// Author: dev@gwngames.com

package parser

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/gwngames/persister/internal/model"
	"github.com/gwngames/persister/internal/platform/ctxutil"
)

// scholarAuthorPayload is the kind-specific shape of a Google Scholar
// author envelope.
type scholarAuthorPayload struct {
	Name         string  `json:"name"`
	AuthorID     string  `json:"author_id"`
	Role         *string `json:"role"`
	Organization *string `json:"org"`
	ImageURL     *string `json:"image_url"`
	HomepageURL  *string `json:"homepage_url"`

	ProfileURL *string `json:"profile_url"`
	Verified   *bool   `json:"verified"`
	HIndex     *int    `json:"h_index"`
	I10Index   *int    `json:"i10_index"`

	Interests    []string `json:"interests"`
	Coauthors    []string `json:"coauthors"`
	Publications []struct {
		Title string  `json:"title"`
		URL   *string `json:"url"`
	} `json:"publications"`
}

// ScholarAuthorParser ingests Google Scholar author profiles: the author
// itself, its Scholar variant row, interests, co-authors, and the
// publication stubs listed on the profile page.
type ScholarAuthorParser struct{}

// Kind implements [Handler].
func (parser *ScholarAuthorParser) Kind() Kind {
	return Kind{ClassID: model.ClassAuthor, VariantID: model.VariantScholarAuthor}
}

// Process implements [Handler].
func (parser *ScholarAuthorParser) Process(ctx context.Context, st Store, envelope *Envelope) error {
	var payload scholarAuthorPayload
	if err := json.Unmarshal(envelope.Raw, &payload); err != nil {
		return fmt.Errorf("scholar author: decode payload: %w", err)
	}

	if payload.Name == "" || payload.AuthorID == "" {
		return fmt.Errorf("scholar author: missing required fields 'name' or 'author_id'")
	}

	author, _, err := st.UpsertAuthor(ctx, payload.Name, model.AuthorFields{
		Role:         payload.Role,
		Organization: payload.Organization,
		ImageURL:     payload.ImageURL,
		HomepageURL:  payload.HomepageURL,
		UpdateDate:   envelope.UpdateDate,
	})
	if err != nil {
		return fmt.Errorf("scholar author: upsert author %q: %w", payload.Name, err)
	}

	if _, err := st.UpsertScholarAuthor(ctx, payload.AuthorID, author.ID, model.ScholarAuthorFields{
		ProfileURL: payload.ProfileURL,
		Verified:   payload.Verified,
		HIndex:     payload.HIndex,
		I10Index:   payload.I10Index,
		UpdateDate: envelope.UpdateDate,
	}); err != nil {
		return fmt.Errorf("scholar author: upsert scholar variant %q: %w", payload.AuthorID, err)
	}

	if err := parser.processInterests(ctx, st, author, envelope, payload.Interests); err != nil {
		return err
	}
	if err := parser.processCoauthors(ctx, st, author, envelope, payload.Coauthors); err != nil {
		return err
	}
	return parser.processPublications(ctx, st, author, envelope, payload)
}

func (parser *ScholarAuthorParser) processInterests(ctx context.Context, st Store, author *model.Author, envelope *Envelope, interests []string) error {
	for _, interestName := range interests {
		if interestName == "" {
			continue
		}

		interest, _, err := st.UpsertInterest(ctx, interestName, envelope.UpdateDate)
		if err != nil {
			return fmt.Errorf("scholar author: upsert interest %q: %w", interestName, err)
		}

		if err := st.LinkAuthorInterest(ctx, author.ID, interest.ID); err != nil {
			return fmt.Errorf("scholar author: link interest %q: %w", interestName, err)
		}
	}

	return nil
}

func (parser *ScholarAuthorParser) processCoauthors(ctx context.Context, st Store, author *model.Author, envelope *Envelope, coauthors []string) error {
	for _, coauthorName := range coauthors {
		if coauthorName == "" {
			continue
		}

		coauthor, _, err := st.UpsertAuthor(ctx, coauthorName, model.AuthorFields{
			UpdateDate: envelope.UpdateDate,
		})
		if err != nil {
			return fmt.Errorf("scholar author: upsert coauthor %q: %w", coauthorName, err)
		}

		if err := st.LinkCoauthors(ctx, author.ID, coauthor.ID); err != nil {
			return fmt.Errorf("scholar author: link coauthor %q: %w", coauthorName, err)
		}
	}

	return nil
}

func (parser *ScholarAuthorParser) processPublications(ctx context.Context, st Store, author *model.Author, envelope *Envelope, payload scholarAuthorPayload) error {
	log := ctxutil.GetLogger(ctx)

	for _, publicationStub := range payload.Publications {
		if publicationStub.Title == "" {
			log.Warn("scholar_author_publication_without_title", slog.String("author", author.Name))
			continue
		}

		publication, _, err := st.UpsertPublication(ctx, publicationStub.Title, model.PublicationFields{
			URL:        publicationStub.URL,
			UpdateDate: envelope.UpdateDate,
		})
		if err != nil {
			return fmt.Errorf("scholar author: upsert publication %q: %w", publicationStub.Title, err)
		}

		if err := st.LinkPublicationAuthor(ctx, publication.ID, author.ID); err != nil {
			return fmt.Errorf("scholar author: link publication %q: %w", publicationStub.Title, err)
		}
	}

	return nil
}
