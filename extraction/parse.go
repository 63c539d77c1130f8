// Copyright 2025 The MapChat Authors
// SPDX-License-Identifier: Apache-2.0

package extraction

import (
	"encoding/json"
	"regexp"
	"sort"
	"strings"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	// first [...] region, across lines, non greedy.
	bracketRegex = regexp.MustCompile(`(?s)\[(.*?)\]`)

	// separators LLMs use between names: ASCII comma, full-width comma and
	// the ideographic enumeration comma.
	separatorRegex = regexp.MustCompile(`[,，、]`)

	bracketStripper = strings.NewReplacer("[", "", "]", "", `"`, "", "'", "")
)

// quote-like runes trimmed from both ends of a name.
const trimmedRunes = "\"'`“”‘’「」『』《》"

// keys holding the place name when the model answers with objects.
var nameKeys = []string{"name", "place", "location"}

// keys tried first when the model wraps the list in an object.
var listKeys = []string{"places", "locations", "names", "data", "result"}

// ParsePlaces turns a model reply into place names. It accepts a JSON array,
// a JSON array embedded in prose or a code fence, and plain comma separated
// text. Names are normalized, empty names are dropped and duplicates keep
// their first occurrence.
func ParsePlaces(content string) []string {
	content = strings.TrimSpace(content)

	if names, ok := parseJSON(content); ok {
		return clean(names)
	}

	m := bracketRegex.FindStringSubmatch(content)
	if m == nil {
		return clean(split(content))
	}

	if names, ok := parseJSON("[" + m[1] + "]"); ok {
		return clean(names)
	}

	return clean(split(bracketStripper.Replace(m[1])))
}

func parseJSON(s string) ([]string, bool) {
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return nil, false
	}

	switch t := v.(type) {
	case []any:
		return fromArray(t), true
	case map[string]any:
		return fromArray(firstList(t)), true
	case string:
		return []string{t}, true
	default:
		// null, numbers and booleans carry no places.
		return nil, true
	}
}

func fromArray(items []any) []string {
	names := make([]string, 0, len(items))

	for _, item := range items {
		switch t := item.(type) {
		case string:
			names = append(names, t)
		case map[string]any:
			for _, k := range nameKeys {
				if s, ok := t[k].(string); ok {
					names = append(names, s)

					break
				}
			}
		}
	}

	return names
}

func firstList(obj map[string]any) []any {
	for _, k := range listKeys {
		if l, ok := obj[k].([]any); ok {
			return l
		}
	}

	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	for _, k := range keys {
		if l, ok := obj[k].([]any); ok {
			return l
		}
	}

	return nil
}

func split(s string) []string {
	return separatorRegex.Split(s, -1)
}

func clean(names []string) []string {
	out := make([]string, 0, len(names))
	seen := make(map[string]bool, len(names))

	for _, name := range names {
		name = Normalize(name)
		if name == "" {
			continue
		}

		key := foldKey(name)
		if seen[key] {
			continue
		}

		seen[key] = true
		out = append(out, name)
	}

	return out
}

// Normalize folds full-width forms (NFKC), collapses whitespace and trims
// quotes from a single name.
func Normalize(name string) string {
	name = norm.NFKC.String(name)
	name = strings.Join(strings.Fields(name), " ")

	return strings.TrimSpace(strings.Trim(name, trimmedRunes))
}

// foldedMarks are the combining accents ignored when comparing names. Other
// marks (tilde, kana voicing, ...) tell places apart and are kept.
var foldedMarks = runes.Predicate(func(r rune) bool {
	switch r {
	case '\u0300', '\u0301', '\u0308': // grave, acute, diaeresis
		return true
	}

	return false
})

// foldKey is the identity used for de-duplication: lower case, without acute,
// grave or diaeresis accents.
func foldKey(s string) string {
	s, _, _ = transform.String(
		transform.Chain(
			norm.NFD,
			runes.Remove(foldedMarks),
			norm.NFC,
		),
		strings.ToLower(s),
	)

	return s
}
