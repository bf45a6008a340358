// Copyright 2026 The Memobridge Authors
// SPDX-License-Identifier: Apache-2.0

package memos

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// updateMask names the note fields the update endpoint may mutate.
// Fields outside this set are never sent as updatable, even when the
// payload carries them.
const updateMask = "content,state,visibility,tags,pinned"

// CreateNote creates a note. The returned note carries the
// server-assigned name and timestamps.
func (s *DirectSession) CreateNote(ctx context.Context, note *Note) (*Note, error) {
	body, err := s.client.doRequest(ctx, http.MethodPost, "memos", s.token, note)
	if err != nil {
		return nil, err
	}

	var created Note
	if err := json.Unmarshal(body, &created); err != nil {
		return nil, fmt.Errorf("memos: failed to parse create response: %w", err)
	}

	s.client.logger.Debug("created note", "name", created.Name)
	return &created, nil
}

// GetNote fetches a note by name. A missing note surfaces as the
// uniform *APIError, not a distinct type.
func (s *DirectSession) GetNote(ctx context.Context, name string) (*Note, error) {
	if name == "" {
		return nil, validation("memos: note name is required")
	}

	body, err := s.client.doRequest(ctx, http.MethodGet, name, s.token, nil)
	if err != nil {
		return nil, err
	}

	var note Note
	if err := json.Unmarshal(body, &note); err != nil {
		return nil, fmt.Errorf("memos: failed to parse note %s: %w", name, err)
	}
	return &note, nil
}

// UpdateNote patches a note by its name. The update mask pins the
// mutable fields to content, state, visibility, tags, and pinned. A note
// without a name is a contract violation, rejected before any network
// call.
func (s *DirectSession) UpdateNote(ctx context.Context, note *Note) (*Note, error) {
	if note.Name == "" {
		return nil, validation("memos: note name is required for update")
	}

	query := url.Values{"updateMask": {updateMask}}
	body, err := s.client.doRequest(ctx, http.MethodPatch, note.Name, s.token, note, query)
	if err != nil {
		return nil, err
	}

	var updated Note
	if err := json.Unmarshal(body, &updated); err != nil {
		return nil, fmt.Errorf("memos: failed to parse update response: %w", err)
	}
	return &updated, nil
}

// DeleteNote deletes a note by name. Deleting an already-deleted note is
// not masked into success — the server's answer stands.
func (s *DirectSession) DeleteNote(ctx context.Context, name string) error {
	if name == "" {
		return validation("memos: note name is required for delete")
	}

	_, err := s.client.doRequest(ctx, http.MethodDelete, name, s.token, nil)
	return err
}

// ListNotes returns every note the credential can see, following the
// nextPageToken cursor until the server reports no more pages. Page
// order is preserved as returned. A failure on any page fails the whole
// call; no partial results are returned.
func (s *DirectSession) ListNotes(ctx context.Context) ([]Note, error) {
	var notes []Note
	pageToken := ""

	for {
		var query url.Values
		if pageToken != "" {
			query = url.Values{"pageToken": {pageToken}}
		}

		body, err := s.client.doRequest(ctx, http.MethodGet, "memos", s.token, nil, query)
		if err != nil {
			return nil, err
		}

		var page struct {
			Memos         []Note `json:"memos"`
			NextPageToken string `json:"nextPageToken"`
		}
		if err := json.Unmarshal(body, &page); err != nil {
			return nil, fmt.Errorf("memos: failed to parse list response: %w", err)
		}

		notes = append(notes, page.Memos...)
		if page.NextPageToken == "" {
			return notes, nil
		}
		pageToken = page.NextPageToken
	}
}

// CreateComment creates a note as a comment under a parent note. A
// comment is an ordinary note scoped under the parent's name.
func (s *DirectSession) CreateComment(ctx context.Context, parentName string, comment *Note) (*Note, error) {
	if parentName == "" {
		return nil, validation("memos: parent note name is required for comment")
	}

	body, err := s.client.doRequest(ctx, http.MethodPost, parentName+"/comments", s.token, comment)
	if err != nil {
		return nil, err
	}

	var created Note
	if err := json.Unmarshal(body, &created); err != nil {
		return nil, fmt.Errorf("memos: failed to parse comment response: %w", err)
	}
	return &created, nil
}

// ListComments lists the comments of a note.
func (s *DirectSession) ListComments(ctx context.Context, name string) ([]Note, error) {
	if name == "" {
		return nil, validation("memos: note name is required")
	}

	body, err := s.client.doRequest(ctx, http.MethodGet, name+"/comments", s.token, nil)
	if err != nil {
		return nil, err
	}

	// Same wrapper key as the top-level list; only the endpoint differs.
	var response struct {
		Memos []Note `json:"memos"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("memos: failed to parse comments response: %w", err)
	}
	return response.Memos, nil
}

// ListAttachments lists a note's attachments.
func (s *DirectSession) ListAttachments(ctx context.Context, name string) ([]Attachment, error) {
	if name == "" {
		return nil, validation("memos: note name is required")
	}

	body, err := s.client.doRequest(ctx, http.MethodGet, name+"/attachments", s.token, nil)
	if err != nil {
		return nil, err
	}

	var response struct {
		Attachments []Attachment `json:"attachments"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("memos: failed to parse attachments response: %w", err)
	}
	return response.Attachments, nil
}

// SetAttachments replaces a note's attachment list.
func (s *DirectSession) SetAttachments(ctx context.Context, name string, attachments []Attachment) error {
	if name == "" {
		return validation("memos: note name is required")
	}

	request := struct {
		Name        string       `json:"name"`
		Attachments []Attachment `json:"attachments"`
	}{Name: name, Attachments: attachments}

	_, err := s.client.doRequest(ctx, http.MethodPost, name+"/attachments", s.token, request)
	return err
}

// ListRelations lists a note's relations.
func (s *DirectSession) ListRelations(ctx context.Context, name string) ([]Relation, error) {
	if name == "" {
		return nil, validation("memos: note name is required")
	}

	body, err := s.client.doRequest(ctx, http.MethodGet, name+"/relations", s.token, nil)
	if err != nil {
		return nil, err
	}

	var response struct {
		Relations []Relation `json:"relations"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("memos: failed to parse relations response: %w", err)
	}
	return response.Relations, nil
}

// SetRelations replaces a note's relation list.
func (s *DirectSession) SetRelations(ctx context.Context, name string, relations []Relation) error {
	if name == "" {
		return validation("memos: note name is required")
	}

	request := struct {
		Name      string     `json:"name"`
		Relations []Relation `json:"relations"`
	}{Name: name, Relations: relations}

	_, err := s.client.doRequest(ctx, http.MethodPost, name+"/relations", s.token, request)
	return err
}

// ListReactions lists a note's reactions.
func (s *DirectSession) ListReactions(ctx context.Context, name string) ([]Reaction, error) {
	if name == "" {
		return nil, validation("memos: note name is required")
	}

	body, err := s.client.doRequest(ctx, http.MethodGet, name+"/reactions", s.token, nil)
	if err != nil {
		return nil, err
	}

	var response struct {
		Reactions []Reaction `json:"reactions"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("memos: failed to parse reactions response: %w", err)
	}
	return response.Reactions, nil
}

// UpsertReaction adds or updates a reaction on a note.
func (s *DirectSession) UpsertReaction(ctx context.Context, name string, reaction *Reaction) (*Reaction, error) {
	if name == "" {
		return nil, validation("memos: note name is required")
	}

	request := struct {
		Name     string    `json:"name"`
		Reaction *Reaction `json:"reaction"`
	}{Name: name, Reaction: reaction}

	body, err := s.client.doRequest(ctx, http.MethodPost, name+"/reactions", s.token, request)
	if err != nil {
		return nil, err
	}

	var created Reaction
	if err := json.Unmarshal(body, &created); err != nil {
		return nil, fmt.Errorf("memos: failed to parse reaction response: %w", err)
	}
	return &created, nil
}

// DeleteReaction deletes a reaction by its name.
func (s *DirectSession) DeleteReaction(ctx context.Context, reactionName string) error {
	if reactionName == "" {
		return validation("memos: reaction name is required for delete")
	}

	_, err := s.client.doRequest(ctx, http.MethodDelete, reactionName, s.token, nil)
	return err
}
