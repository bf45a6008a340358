// Copyright 2026 The Memobridge Authors
// SPDX-License-Identifier: Apache-2.0

// Package secret provides a memory-safe buffer for sensitive data such as
// bearer tokens and sign-in passwords.
//
// Buffer allocates its backing memory outside the Go heap via
// mmap(MAP_ANONYMOUS), locks it into physical RAM with mlock so it can
// never reach swap, and excludes it from core dumps with
// madvise(MADV_DONTDUMP). Close zeros the region before unmapping it.
//
// Because the region is invisible to the garbage collector, the runtime
// can neither copy nor relocate it, so zeroing on Close is the final word
// on where the secret lived.
package secret
