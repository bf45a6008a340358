// Copyright 2026 The Memobridge Authors
// SPDX-License-Identifier: Apache-2.0

// Package memos wraps the Memos REST API (api/v1) for memobridge.
//
// The package provides two core types. [Client] is an unauthenticated
// handle on a Memos server: it holds the base URL and HTTP transport and
// builds every request (JSON content type, bearer authorization, bounded
// body reads). [DirectSession] pairs a Client with a credential and
// carries the typed resource operations: notes (create, get, update with
// an explicit field mask, delete, fully-drained list), comments,
// attachments, relations, reactions, accounts, and personal access
// tokens.
//
// Sessions come in two flavors with different teardown obligations. A
// root session wraps a credential supplied from outside
// ([Client.SessionFromToken]); its Close releases the local token memory
// and nothing else. A derived session is produced by
// [DirectSession.SignIn] and owns a server-issued short-lived credential;
// its Close signs out of the server before releasing the memory. Teardown
// is explicit in both cases — whoever constructs a session calls Close on
// every exit path.
//
// Credentials live in mmap-backed [secret.Buffer] memory (locked against
// swap, excluded from core dumps) for the session's lifetime.
//
// Every non-2xx response surfaces as a [*APIError] carrying the HTTP
// status code and the raw response body; nothing is retried and
// "not found" is not masked into success. Requests rejected before any
// network call (a mutation without the required resource name) surface as
// [*ValidationError].
package memos
