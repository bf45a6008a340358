// Copyright 2026 The Memobridge Authors
// SPDX-License-Identifier: Apache-2.0

package memos

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/memobridge/memobridge/lib/secret"
)

// Session is the interface the tool dispatcher depends on. The single
// implementation against a real server is *DirectSession; tests use a
// double.
//
// Operator-only methods (SignIn, CreateAccount, DeleteAccount,
// CreateAccessToken, DeleteAccessToken) are not part of this interface.
// Code that needs them should type-assert to *DirectSession.
type Session interface {
	// Close releases resources held by the session. A derived session
	// signs out of the server first. Idempotent.
	Close() error

	// CurrentUser validates the credential and returns the identity
	// it belongs to.
	CurrentUser(ctx context.Context) (*User, error)

	// CreateNote creates a note and returns it with the
	// server-assigned name populated.
	CreateNote(ctx context.Context, note *Note) (*Note, error)

	// GetNote fetches a note by name.
	GetNote(ctx context.Context, name string) (*Note, error)

	// UpdateNote patches a note by its name, constrained to the
	// content, state, visibility, tags, and pinned fields.
	UpdateNote(ctx context.Context, note *Note) (*Note, error)

	// DeleteNote deletes a note by name.
	DeleteNote(ctx context.Context, name string) error

	// ListNotes returns every note, draining all pages.
	ListNotes(ctx context.Context) ([]Note, error)

	// CreateComment creates a note as a comment under a parent note.
	CreateComment(ctx context.Context, parentName string, comment *Note) (*Note, error)

	// ListComments lists the comments of a note.
	ListComments(ctx context.Context, name string) ([]Note, error)

	// ListAttachments lists a note's attachments.
	ListAttachments(ctx context.Context, name string) ([]Attachment, error)

	// SetAttachments replaces a note's attachment list.
	SetAttachments(ctx context.Context, name string, attachments []Attachment) error

	// ListRelations lists a note's relations.
	ListRelations(ctx context.Context, name string) ([]Relation, error)

	// SetRelations replaces a note's relation list.
	SetRelations(ctx context.Context, name string, relations []Relation) error

	// ListReactions lists a note's reactions.
	ListReactions(ctx context.Context, name string) ([]Reaction, error)

	// UpsertReaction adds or updates a reaction on a note.
	UpsertReaction(ctx context.Context, name string, reaction *Reaction) (*Reaction, error)

	// DeleteReaction deletes a reaction by its name.
	DeleteReaction(ctx context.Context, reactionName string) error
}

// Compile-time check: *DirectSession implements Session.
var _ Session = (*DirectSession)(nil)

// DirectSession is an authenticated session against a Memos server. It
// wraps a Client with a bearer credential held in mmap-backed memory.
//
// A session created by SessionFromToken is a root session: Close only
// releases the token memory. A session returned by SignIn is derived:
// its credential was issued by the server for this session, and Close
// signs out before releasing the memory. The base URL is fixed at
// client construction; a session never changes credential — SignIn
// returns a new session instead.
type DirectSession struct {
	client  *Client
	token   *secret.Buffer
	derived bool

	closeOnce sync.Once
	closeErr  error
}

// CurrentUser fetches the identity the session's credential belongs to.
// Fails with an upstream error when the credential is invalid or
// expired, which makes it the natural startup health check.
func (s *DirectSession) CurrentUser(ctx context.Context) (*User, error) {
	body, err := s.client.doRequest(ctx, http.MethodGet, "auth/me", s.token, nil)
	if err != nil {
		return nil, err
	}

	var response struct {
		User User `json:"user"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("memos: failed to parse auth/me response: %w", err)
	}
	return &response.User, nil
}

// SignIn exchanges a username and password for a server-issued access
// token and returns a new derived session carrying it. The receiver is
// not mutated and remains usable. The password buffer is read but not
// closed — the caller retains ownership.
//
// The caller must Close the returned session on every exit path: a
// derived session's Close is what signs the credential out.
func (s *DirectSession) SignIn(ctx context.Context, username string, password *secret.Buffer) (*DirectSession, error) {
	if username == "" {
		return nil, validation("memos: username is required for sign-in")
	}
	if password == nil {
		return nil, validation("memos: password is required for sign-in")
	}

	// The password becomes a string at the JSON boundary; the heap copy
	// is short-lived.
	request := signInRequest{}
	request.PasswordCredentials.Username = username
	request.PasswordCredentials.Password = password.String()

	body, err := s.client.doRequest(ctx, http.MethodPost, "auth/signin", s.token, request)
	if err != nil {
		return nil, err
	}

	var response struct {
		AccessToken string `json:"accessToken"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("memos: failed to parse sign-in response: %w", err)
	}

	tokenBuffer, err := secret.NewFromString(response.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("memos: protecting access token: %w", err)
	}

	s.client.logger.Info("signed in to memos", "username", username)

	return &DirectSession{
		client:  s.client,
		token:   tokenBuffer,
		derived: true,
	}, nil
}

// signInRequest is the auth/signin request body.
type signInRequest struct {
	PasswordCredentials struct {
		Username string `json:"username"`
		Password string `json:"password"`
	} `json:"passwordCredentials"`
}

// Close tears the session down. For a derived session this issues
// exactly one sign-out call (best-effort: the token memory is released
// even when the sign-out fails); for a root session it only releases the
// token memory — a credential this layer did not issue is never
// relinquished remotely. Idempotent.
func (s *DirectSession) Close() error {
	s.closeOnce.Do(func() {
		if s.derived {
			if _, err := s.client.doRequest(context.Background(), http.MethodPost, "auth/signout", s.token, nil); err != nil {
				s.closeErr = err
			}
		}
		if s.token != nil {
			if err := s.token.Close(); err != nil && s.closeErr == nil {
				s.closeErr = err
			}
		}
	})
	return s.closeErr
}

// Derived reports whether this session's credential was obtained via
// sign-in (and will therefore be signed out on Close).
func (s *DirectSession) Derived() bool {
	return s.derived
}
