// Copyright 2026 The Memobridge Authors
// SPDX-License-Identifier: Apache-2.0

package memos

import (
	"encoding/json"
	"time"
)

// State is the lifecycle state of a note.
type State string

// Note states.
const (
	StateUnspecified State = "STATE_UNSPECIFIED"
	StateNormal      State = "NORMAL"
	StateArchived    State = "ARCHIVED"
)

// Visibility controls who can read a note.
type Visibility string

// Note visibility levels.
const (
	VisibilityUnspecified Visibility = "VISIBILITY_UNSPECIFIED"
	VisibilityPrivate     Visibility = "PRIVATE"
	VisibilityProtected   Visibility = "PROTECTED"
	VisibilityPublic      Visibility = "PUBLIC"
)

// RelationType is the kind of edge between two notes.
type RelationType string

// Relation types. Comments are ordinary notes linked via the COMMENT
// relation, not a distinct entity.
const (
	RelationTypeUnspecified RelationType = "TYPE_UNSPECIFIED"
	RelationReference       RelationType = "REFERENCE"
	RelationComment         RelationType = "COMMENT"
)

// Note is the core content entity (a "memo" in the upstream API):
// Markdown text plus metadata. Name is empty until the server assigns
// one at creation; every mutating operation other than creation requires
// it.
type Note struct {
	Name        string          `json:"name,omitempty"`
	State       State           `json:"state,omitempty"`
	Creator     string          `json:"creator,omitempty"`
	CreateTime  *time.Time      `json:"createTime,omitempty"`
	UpdateTime  *time.Time      `json:"updateTime,omitempty"`
	DisplayTime *time.Time      `json:"displayTime,omitempty"`
	Content     string          `json:"content"`
	Visibility  Visibility      `json:"visibility,omitempty"`
	Tags        []string        `json:"tags,omitempty"`
	Pinned      bool            `json:"pinned,omitempty"`
	Attachments []Attachment    `json:"attachments,omitempty"`
	Relations   []Relation      `json:"relations,omitempty"`
	Reactions   []Reaction      `json:"reactions,omitempty"`
	Property    json.RawMessage `json:"property,omitempty"`
	Parent      string          `json:"parent,omitempty"`
	Snippet     string          `json:"snippet,omitempty"`
	Location    string          `json:"location,omitempty"`
}

// NewNote returns a private, normal-state note with the given Markdown
// content — the defaults for notes created through the tool surface.
func NewNote(content string) *Note {
	return &Note{
		State:      StateNormal,
		Content:    content,
		Visibility: VisibilityPrivate,
	}
}

// Attachment is a file attached to exactly one note, back-referenced by
// the note's name in Memo.
type Attachment struct {
	Name         string     `json:"name,omitempty"`
	CreateTime   *time.Time `json:"createTime,omitempty"`
	Filename     string     `json:"filename,omitempty"`
	ExternalLink string     `json:"externalLink,omitempty"`
	Type         string     `json:"type"`
	Size         string     `json:"size,omitempty"`
	Memo         string     `json:"memo,omitempty"`
}

// Relation is a typed edge between two notes, read as memo→relatedMemo.
// The endpoints are kept as raw JSON: the upstream API returns them as
// objects in some responses and bare names in others.
type Relation struct {
	Memo        json.RawMessage `json:"memo,omitempty"`
	RelatedMemo json.RawMessage `json:"relatedMemo,omitempty"`
	Type        RelationType    `json:"type"`
}

// Reaction is a short annotation (an emoji or short code) attached to a
// note by a user.
type Reaction struct {
	Name         string     `json:"name,omitempty"`
	Creator      string     `json:"creator,omitempty"`
	ContentID    string     `json:"contentId,omitempty"`
	ReactionType string     `json:"reactionType,omitempty"`
	CreateTime   *time.Time `json:"createTime,omitempty"`
}

// NewReaction returns a reaction of the given type targeting a content
// id (typically a note name).
func NewReaction(contentID, reactionType string) *Reaction {
	return &Reaction{
		ContentID:    contentID,
		ReactionType: reactionType,
	}
}

// Role is a user's role as reported by the authentication surface.
type Role string

// Authentication-surface roles. HOST exists only here — the account
// management surface has no equivalent.
const (
	RoleUnspecified Role = "ROLE_UNSPECIFIED"
	RoleHost        Role = "HOST"
	RoleAdmin       Role = "ADMIN"
	RoleUser        Role = "USER"
)

// UserState is a user's lifecycle state on the authentication surface.
type UserState string

// Authentication-surface user states.
const (
	UserStateUnspecified UserState = "STATE_UNSPECIFIED"
	UserStateNormal      UserState = "NORMAL"
	UserStateArchived    UserState = "ARCHIVED"
)

// User is the identity returned by the authentication surface
// (auth/me, sign-in).
type User struct {
	Name        string    `json:"name,omitempty"`
	Role        Role      `json:"role"`
	Username    string    `json:"username"`
	Email       string    `json:"email,omitempty"`
	DisplayName string    `json:"displayName,omitempty"`
	AvatarURL   string    `json:"avatarUrl,omitempty"`
	Description string    `json:"description,omitempty"`
	State       UserState `json:"state"`
}

// AccountRole is a user's role on the account management surface. The
// set differs from Role: there is no HOST. The two shapes track two
// different upstream schema revisions and are deliberately not unified.
type AccountRole string

// Account management roles.
const (
	AccountRoleUnspecified AccountRole = "ROLE_UNSPECIFIED"
	AccountRoleAdmin       AccountRole = "ADMIN"
	AccountRoleUser        AccountRole = "USER"
)

// AccountState is a user's lifecycle state on the account management
// surface.
type AccountState string

// Account management states.
const (
	AccountStateUnspecified AccountState = "STATE_UNSPECIFIED"
	AccountStateNormal      AccountState = "NORMAL"
	AccountStateArchived    AccountState = "ARCHIVED"
)

// Account is a user record on the account management surface. Password
// is write-only: it is sent at creation and never returned. The
// "displayname" JSON key (lowercase, unlike User's "displayName") is an
// upstream quirk preserved on purpose.
type Account struct {
	Name        string       `json:"name,omitempty"`
	Role        AccountRole  `json:"role"`
	Username    string       `json:"username"`
	Email       string       `json:"email,omitempty"`
	DisplayName string       `json:"displayname,omitempty"`
	AvatarURL   string       `json:"avatarUrl,omitempty"`
	Description string       `json:"description,omitempty"`
	Password    string       `json:"password,omitempty"`
	State       AccountState `json:"state"`
}

// NewAccount returns a normal-state USER-role account ready for
// CreateAccount.
func NewAccount(username, password, email string) *Account {
	return &Account{
		Role:     AccountRoleUser,
		Username: username,
		Email:    email,
		Password: password,
		State:    AccountStateNormal,
	}
}

// Token is a personal access token record. The plaintext credential is
// returned exactly once, by CreateAccessToken, and is not part of this
// record.
type Token struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	CreatedAt   time.Time  `json:"createdAt"`
	ExpiresAt   *time.Time `json:"expiresAt,omitempty"`
	LastUsedAt  *time.Time `json:"lastUsedAt,omitempty"`
}
