// Copyright 2026 The Memobridge Authors
// SPDX-License-Identifier: Apache-2.0

// Package mcp implements a Model Context Protocol server that exposes
// the note operations of a [memos.Session] as MCP tools over
// newline-delimited JSON-RPC 2.0 on stdin/stdout.
//
// The tool catalog is a static table: one tool per session operation,
// each with a hand-declared JSON Schema for its arguments and a handler
// that decodes the arguments into the typed request shape, invokes the
// session, and encodes the typed result. Every failure from every layer
// below — argument decoding, request validation, the HTTP exchange —
// is converted into a tool result carrying a {"error": message} text
// block; no error ever escapes to the caller unencoded or fails the
// serve loop.
//
// This package implements the 2025-11-25 MCP protocol specification.
package mcp
