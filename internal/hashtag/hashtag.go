// Package hashtag extracts and canonicalizes tag names from post text and
// manual tag input.
package hashtag

import (
	"regexp"
	"sort"
	"strings"
)

// tokenRe matches a '#' followed by a run of word characters. Candidates
// preceded by '&' are rejected separately; Go's regexp has no lookbehind,
// and HTML entities like &#39; must not become tags.
var tokenRe = regexp.MustCompile(`#(\w+)`)

// Extract returns the lowercase, deduplicated hashtag names found in text,
// sorted for determinism.
func Extract(text string) []string {
	if text == "" {
		return nil
	}
	set := make(map[string]struct{})
	for _, m := range tokenRe.FindAllStringSubmatchIndex(text, -1) {
		start := m[0]
		if start > 0 && text[start-1] == '&' {
			continue
		}
		name := strings.ToLower(text[m[2]:m[3]])
		set[name] = struct{}{}
	}
	return sorted(set)
}

// SplitManual parses a comma-separated tag string: whitespace trimmed,
// leading '#' stripped, lowercased, empties dropped.
func SplitManual(input string) []string {
	if input == "" {
		return nil
	}
	set := make(map[string]struct{})
	for _, part := range strings.Split(input, ",") {
		name := strings.ToLower(strings.TrimLeft(strings.TrimSpace(part), "#"))
		if name == "" {
			continue
		}
		set[name] = struct{}{}
	}
	return sorted(set)
}

// Collect builds the effective tag set for a post submission: the union of
// manual tags and hashtags found in the title and content.
func Collect(manual, title, content string) []string {
	set := make(map[string]struct{})
	for _, name := range SplitManual(manual) {
		set[name] = struct{}{}
	}
	for _, name := range Extract(title) {
		set[name] = struct{}{}
	}
	for _, name := range Extract(content) {
		set[name] = struct{}{}
	}
	return sorted(set)
}

func sorted(set map[string]struct{}) []string {
	if len(set) == 0 {
		return nil
	}
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
