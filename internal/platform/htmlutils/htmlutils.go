// Package htmlutils provides HTML processing utilities for imported text.
//
// The package handles:
//   - Tag stripping with entity decoding
//   - Whitespace normalization
//   - Rune-safe truncation
package htmlutils

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
)

const ellipsis = "..."

// skippedElements hold content that is never rendered as text.
var skippedElements = map[string]bool{
	"script": true,
	"style":  true,
	"head":   true,
}

// StripTags returns the visible text of an HTML fragment with entities
// decoded and runs of whitespace collapsed to single spaces.
func StripTags(fragment string) string {
	if !strings.ContainsAny(fragment, "<&") {
		return NormalizeSpace(fragment)
	}

	var sb strings.Builder

	z := html.NewTokenizer(strings.NewReader(fragment))
	skipDepth := 0

	for {
		tt := z.Next()

		switch tt {
		case html.ErrorToken:
			// io.EOF or a malformed tail; either way the text so far is all we get
			return NormalizeSpace(sb.String())
		case html.StartTagToken:
			name, _ := z.TagName()
			if skippedElements[string(name)] {
				skipDepth++
			}

			sb.WriteByte(' ')
		case html.EndTagToken:
			name, _ := z.TagName()
			if skippedElements[string(name)] && skipDepth > 0 {
				skipDepth--
			}

			sb.WriteByte(' ')
		case html.SelfClosingTagToken:
			sb.WriteByte(' ')
		case html.TextToken:
			if skipDepth == 0 {
				sb.Write(z.Text())
			}
		case html.CommentToken, html.DoctypeToken:
		}
	}
}

// NormalizeSpace trims s and collapses internal whitespace.
func NormalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Truncate shortens s to at most maxRunes runes, marking the cut with "...".
func Truncate(s string, maxRunes int) string {
	if maxRunes <= 0 {
		return ""
	}

	if utf8.RuneCountInString(s) <= maxRunes {
		return s
	}

	runes := []rune(s)
	if maxRunes <= len(ellipsis) {
		return string(runes[:maxRunes])
	}

	return strings.TrimSpace(string(runes[:maxRunes-len(ellipsis)])) + ellipsis
}
