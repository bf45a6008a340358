// Copyright 2026 The Memobridge Authors
// SPDX-License-Identifier: Apache-2.0

package mcp

import (
	"context"
	"encoding/json"

	"github.com/memobridge/memobridge/lib/markdown"
	"github.com/memobridge/memobridge/memos"
)

// noteNameParams addresses a single note by its server-assigned name.
type noteNameParams struct {
	Name string `json:"name"`
}

// createNoteParams is the tool surface for create_memo. Visibility
// defaults to PRIVATE; when Tags is empty the hashtags found in the
// content become the tags.
type createNoteParams struct {
	Content    string           `json:"content"`
	Visibility memos.Visibility `json:"visibility,omitempty"`
	Tags       []string         `json:"tags,omitempty"`
	Pinned     bool             `json:"pinned,omitempty"`
}

// updateNoteParams is the tool surface for update_memo. All mutable
// fields are sent in a single patch: an omitted field resets to its
// zero value on the server, so callers should echo the fields they
// want to keep.
type updateNoteParams struct {
	Name       string           `json:"name"`
	Content    string           `json:"content,omitempty"`
	State      memos.State      `json:"state,omitempty"`
	Visibility memos.Visibility `json:"visibility,omitempty"`
	Tags       []string         `json:"tags,omitempty"`
	Pinned     bool             `json:"pinned,omitempty"`
}

// commentParams is the tool surface for create_memo_comment.
type commentParams struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

// reactionParams is the tool surface for upsert_memo_reaction.
type reactionParams struct {
	Name         string `json:"name"`
	ReactionType string `json:"reactionType"`
}

// decodeArguments unmarshals tool arguments into a typed params struct.
// Absent or null arguments leave the struct zeroed, deferring required
// field checks to the handler.
func decodeArguments(arguments json.RawMessage, params any) error {
	if len(arguments) == 0 || string(arguments) == "null" {
		return nil
	}
	if err := json.Unmarshal(arguments, params); err != nil {
		return &memos.ValidationError{Message: "invalid arguments: " + err.Error()}
	}
	return nil
}

// required returns a ValidationError naming a missing required field.
// Required fields fail here, before any network call is attempted.
func required(field string) error {
	return &memos.ValidationError{Message: field + " is required"}
}

// statusSuccess is the result payload for tools whose operation
// returns no body.
var statusSuccess = map[string]string{"status": "success"}

// noteTools returns the static tool catalog: one tool per exposed note
// operation, annotated so agents can distinguish reads from deletes.
func noteTools() []tool {
	return []tool{
		{
			name:        "list_memos",
			title:       "List notes",
			description: "List all notes, draining every page of the collection.",
			annotations: readOnlyAnnotations(),
			inputSchema: objectSchema(nil, map[string]any{}),
			handler: func(ctx context.Context, session memos.Session, arguments json.RawMessage) (any, error) {
				return session.ListNotes(ctx)
			},
		},
		{
			name:        "get_memo",
			title:       "Get a note",
			description: "Get a memo (note) by its name field.",
			annotations: readOnlyAnnotations(),
			inputSchema: noteNameSchema("The name of the memo."),
			handler: func(ctx context.Context, session memos.Session, arguments json.RawMessage) (any, error) {
				var params noteNameParams
				if err := decodeArguments(arguments, &params); err != nil {
					return nil, err
				}
				if params.Name == "" {
					return nil, required("name")
				}
				return session.GetNote(ctx, params.Name)
			},
		},
		{
			name:        "create_memo",
			title:       "Create a note",
			description: "Create a new memo (note) with the given Markdown content.",
			annotations: mutatingAnnotations(),
			inputSchema: objectSchema([]string{"content"}, map[string]any{
				"content":    stringProperty("Markdown content of the note."),
				"visibility": visibilityProperty(),
				"tags":       stringArrayProperty("Tags for the note. When omitted, #hashtags in the content are used."),
				"pinned":     boolProperty("Pin the note."),
			}),
			handler: func(ctx context.Context, session memos.Session, arguments json.RawMessage) (any, error) {
				var params createNoteParams
				if err := decodeArguments(arguments, &params); err != nil {
					return nil, err
				}
				if params.Content == "" {
					return nil, required("content")
				}

				note := memos.NewNote(params.Content)
				if params.Visibility != "" {
					note.Visibility = params.Visibility
				}
				note.Pinned = params.Pinned
				note.Tags = params.Tags
				if len(note.Tags) == 0 {
					note.Tags = markdown.Tags(params.Content)
				}
				return session.CreateNote(ctx, note)
			},
		},
		{
			name:        "update_memo",
			title:       "Update a note",
			description: "Update an existing memo (note) by its name field. Content, state, visibility, tags, and pinned are replaced as a unit.",
			annotations: mutatingAnnotations(),
			inputSchema: objectSchema([]string{"name"}, map[string]any{
				"name":       stringProperty("The name of the memo to update."),
				"content":    stringProperty("Replacement Markdown content."),
				"state":      stateProperty(),
				"visibility": visibilityProperty(),
				"tags":       stringArrayProperty("Replacement tags."),
				"pinned":     boolProperty("Pin the note."),
			}),
			handler: func(ctx context.Context, session memos.Session, arguments json.RawMessage) (any, error) {
				var params updateNoteParams
				if err := decodeArguments(arguments, &params); err != nil {
					return nil, err
				}
				if params.Name == "" {
					return nil, required("name")
				}

				return session.UpdateNote(ctx, &memos.Note{
					Name:       params.Name,
					Content:    params.Content,
					State:      params.State,
					Visibility: params.Visibility,
					Tags:       params.Tags,
					Pinned:     params.Pinned,
				})
			},
		},
		{
			name:        "delete_memo",
			title:       "Delete a note",
			description: "Delete a memo (note) by its name field.",
			annotations: destructiveAnnotations(),
			inputSchema: noteNameSchema("The name of the memo to delete."),
			handler: func(ctx context.Context, session memos.Session, arguments json.RawMessage) (any, error) {
				var params noteNameParams
				if err := decodeArguments(arguments, &params); err != nil {
					return nil, err
				}
				if params.Name == "" {
					return nil, required("name")
				}
				if err := session.DeleteNote(ctx, params.Name); err != nil {
					return nil, err
				}
				return statusSuccess, nil
			},
		},
		{
			name:        "create_memo_comment",
			title:       "Create a note comment",
			description: "Create a comment on a memo (note).",
			annotations: mutatingAnnotations(),
			inputSchema: objectSchema([]string{"name", "content"}, map[string]any{
				"name":    stringProperty("The name of the memo to comment on."),
				"content": stringProperty("Markdown content of the comment."),
			}),
			handler: func(ctx context.Context, session memos.Session, arguments json.RawMessage) (any, error) {
				var params commentParams
				if err := decodeArguments(arguments, &params); err != nil {
					return nil, err
				}
				if params.Name == "" {
					return nil, required("name")
				}
				if params.Content == "" {
					return nil, required("content")
				}
				return session.CreateComment(ctx, params.Name, memos.NewNote(params.Content))
			},
		},
		{
			name:        "list_memo_comments",
			title:       "List note comments",
			description: "List comments of a memo (note) by its name field.",
			annotations: readOnlyAnnotations(),
			inputSchema: noteNameSchema("The name of the memo."),
			handler: func(ctx context.Context, session memos.Session, arguments json.RawMessage) (any, error) {
				var params noteNameParams
				if err := decodeArguments(arguments, &params); err != nil {
					return nil, err
				}
				if params.Name == "" {
					return nil, required("name")
				}
				return session.ListComments(ctx, params.Name)
			},
		},
		{
			name:        "list_memo_attachments",
			title:       "List note attachments",
			description: "List the attachments of a memo (note) by its name field.",
			annotations: readOnlyAnnotations(),
			inputSchema: noteNameSchema("The name of the memo."),
			handler: func(ctx context.Context, session memos.Session, arguments json.RawMessage) (any, error) {
				var params noteNameParams
				if err := decodeArguments(arguments, &params); err != nil {
					return nil, err
				}
				if params.Name == "" {
					return nil, required("name")
				}
				return session.ListAttachments(ctx, params.Name)
			},
		},
		{
			name:        "list_memo_relations",
			title:       "List note relations",
			description: "List the relations of a memo (note) by its name field.",
			annotations: readOnlyAnnotations(),
			inputSchema: noteNameSchema("The name of the memo."),
			handler: func(ctx context.Context, session memos.Session, arguments json.RawMessage) (any, error) {
				var params noteNameParams
				if err := decodeArguments(arguments, &params); err != nil {
					return nil, err
				}
				if params.Name == "" {
					return nil, required("name")
				}
				return session.ListRelations(ctx, params.Name)
			},
		},
		{
			name:        "list_memo_reactions",
			title:       "List note reactions",
			description: "List the reactions on a memo (note) by its name field.",
			annotations: readOnlyAnnotations(),
			inputSchema: noteNameSchema("The name of the memo."),
			handler: func(ctx context.Context, session memos.Session, arguments json.RawMessage) (any, error) {
				var params noteNameParams
				if err := decodeArguments(arguments, &params); err != nil {
					return nil, err
				}
				if params.Name == "" {
					return nil, required("name")
				}
				return session.ListReactions(ctx, params.Name)
			},
		},
		{
			name:        "upsert_memo_reaction",
			title:       "React to a note",
			description: "Add or replace the caller's reaction on a memo (note).",
			annotations: mutatingAnnotations(),
			inputSchema: objectSchema([]string{"name", "reactionType"}, map[string]any{
				"name":         stringProperty("The name of the memo to react to."),
				"reactionType": stringProperty("Reaction emoji or short code, e.g. \"👍\" or \"heart\"."),
			}),
			handler: func(ctx context.Context, session memos.Session, arguments json.RawMessage) (any, error) {
				var params reactionParams
				if err := decodeArguments(arguments, &params); err != nil {
					return nil, err
				}
				if params.Name == "" {
					return nil, required("name")
				}
				if params.ReactionType == "" {
					return nil, required("reactionType")
				}
				return session.UpsertReaction(ctx, params.Name, memos.NewReaction(params.Name, params.ReactionType))
			},
		},
		{
			name:        "delete_memo_reaction",
			title:       "Remove a reaction",
			description: "Delete a reaction by its name field.",
			annotations: destructiveAnnotations(),
			inputSchema: noteNameSchema("The name of the reaction to delete."),
			handler: func(ctx context.Context, session memos.Session, arguments json.RawMessage) (any, error) {
				var params noteNameParams
				if err := decodeArguments(arguments, &params); err != nil {
					return nil, err
				}
				if params.Name == "" {
					return nil, required("name")
				}
				if err := session.DeleteReaction(ctx, params.Name); err != nil {
					return nil, err
				}
				return statusSuccess, nil
			},
		},
	}
}

// --- JSON Schema construction ---

// objectSchema builds a JSON Schema object with the given required
// field names and property schemas.
func objectSchema(requiredFields []string, properties map[string]any) map[string]any {
	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(requiredFields) > 0 {
		schema["required"] = requiredFields
	}
	return schema
}

// noteNameSchema is the one-field schema shared by every tool that
// addresses a resource by name.
func noteNameSchema(description string) map[string]any {
	return objectSchema([]string{"name"}, map[string]any{
		"name": stringProperty(description),
	})
}

func stringProperty(description string) map[string]any {
	return map[string]any{"type": "string", "description": description}
}

func boolProperty(description string) map[string]any {
	return map[string]any{"type": "boolean", "description": description}
}

func stringArrayProperty(description string) map[string]any {
	return map[string]any{
		"type":        "array",
		"items":       map[string]any{"type": "string"},
		"description": description,
	}
}

func visibilityProperty() map[string]any {
	return map[string]any{
		"type":        "string",
		"enum":        []string{string(memos.VisibilityPrivate), string(memos.VisibilityProtected), string(memos.VisibilityPublic)},
		"description": "Who can read the note. Defaults to PRIVATE.",
	}
}

func stateProperty() map[string]any {
	return map[string]any{
		"type":        "string",
		"enum":        []string{string(memos.StateNormal), string(memos.StateArchived)},
		"description": "Lifecycle state of the note.",
	}
}

// --- Annotation presets ---

func readOnlyAnnotations() *toolAnnotations {
	return &toolAnnotations{
		ReadOnlyHint:    boolPtr(true),
		DestructiveHint: boolPtr(false),
		IdempotentHint:  boolPtr(true),
		OpenWorldHint:   boolPtr(false),
	}
}

func mutatingAnnotations() *toolAnnotations {
	return &toolAnnotations{
		ReadOnlyHint:    boolPtr(false),
		DestructiveHint: boolPtr(false),
		OpenWorldHint:   boolPtr(false),
	}
}

func destructiveAnnotations() *toolAnnotations {
	return &toolAnnotations{
		ReadOnlyHint:    boolPtr(false),
		DestructiveHint: boolPtr(true),
		IdempotentHint:  boolPtr(true),
		OpenWorldHint:   boolPtr(false),
	}
}

func boolPtr(value bool) *bool {
	return &value
}
