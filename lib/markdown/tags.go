// Copyright 2026 The Memobridge Authors
// SPDX-License-Identifier: Apache-2.0

// Package markdown extracts metadata from note content.
//
// Memos treats "#tag" tokens inside a note's Markdown as its tags. The
// extraction here walks the parsed AST rather than scanning raw text so
// that hash marks inside code spans, code blocks, and headings are not
// mistaken for tags.
package markdown

import (
	"sync"
	"unicode"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// parserInstance is initialized once and reused. The parser configuration
// never changes and the goldmark parser is safe to share — each Parse
// call creates its own state.
var (
	parserInstance goldmark.Markdown
	parserOnce     sync.Once
)

func getParser() goldmark.Markdown {
	parserOnce.Do(func() {
		parserInstance = goldmark.New(
			goldmark.WithExtensions(extension.GFM),
		)
	})
	return parserInstance
}

// Tags returns the distinct "#tag" tokens in a note's Markdown content,
// in order of first appearance and without the leading hash. Tokens
// inside code spans, code blocks, and ATX headings are ignored. Nested
// tags ("#project/notes") are kept whole.
func Tags(content string) []string {
	if content == "" {
		return nil
	}

	source := []byte(content)
	document := getParser().Parser().Parse(text.NewReader(source))

	var tags []string
	seen := make(map[string]bool)

	_ = ast.Walk(document, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node.Kind() {
		case ast.KindCodeBlock, ast.KindFencedCodeBlock, ast.KindCodeSpan, ast.KindHeading:
			return ast.WalkSkipChildren, nil
		case ast.KindText:
			textNode := node.(*ast.Text)
			for _, tag := range scanTags(textNode.Segment.Value(source)) {
				if !seen[tag] {
					seen[tag] = true
					tags = append(tags, tag)
				}
			}
		}
		return ast.WalkContinue, nil
	})

	return tags
}

// scanTags finds "#tag" tokens in a flat text segment. A tag starts with
// '#' at the beginning of the segment or after a space, and runs over
// letters, digits, and the '_', '-', and '/' connectors.
func scanTags(segment []byte) []string {
	var tags []string
	runes := []rune(string(segment))

	for i := 0; i < len(runes); i++ {
		if runes[i] != '#' {
			continue
		}
		if i > 0 && !unicode.IsSpace(runes[i-1]) {
			continue
		}
		end := i + 1
		for end < len(runes) && isTagRune(runes[end]) {
			end++
		}
		if end > i+1 {
			tags = append(tags, string(runes[i+1:end]))
		}
		i = end - 1
	}
	return tags
}

func isTagRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '-' || r == '/'
}
