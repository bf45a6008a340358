// Copyright 2026 The Memobridge Authors
// SPDX-License-Identifier: Apache-2.0

// Package netutil provides HTTP I/O helpers for memobridge.
//
// Response-body reads are bounded at MaxResponseSize so a misbehaving
// server cannot make the client allocate without limit. These helpers are
// for JSON API responses, not streaming downloads.
package netutil

import (
	"io"
)

// MaxResponseSize bounds JSON API response body reads: 256 MB. Legitimate
// Memos API responses are orders of magnitude smaller; the limit only
// exists so a pathological response cannot exhaust memory.
const MaxResponseSize int64 = 256 << 20

// ReadResponse reads a JSON API response body up to MaxResponseSize
// bytes. Use instead of io.ReadAll when reading HTTP response bodies.
func ReadResponse(body io.Reader) ([]byte, error) {
	return io.ReadAll(io.LimitReader(body, MaxResponseSize))
}
