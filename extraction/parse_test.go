// Copyright 2025 The MapChat Authors
// SPDX-License-Identifier: Apache-2.0

package extraction

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestParsePlaces(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected []string
	}{
		{
			name:     "json array",
			content:  `["北京", "上海", "杭州"]`,
			expected: []string{"北京", "上海", "杭州"},
		},
		{
			name:     "empty json array",
			content:  `[]`,
			expected: []string{},
		},
		{
			name:     "array inside prose",
			content:  "好的，以下是提取的地点：\n[\"成都\", \"重庆\"]\n希望对您有帮助。",
			expected: []string{"成都", "重庆"},
		},
		{
			name:     "markdown code fence",
			content:  "```json\n[\n  \"西安\",\n  \"兵马俑\"\n]\n```",
			expected: []string{"西安", "兵马俑"},
		},
		{
			name:     "invalid json inside brackets",
			content:  "Places: [Paris, 'Lyon', \"Nice\"]",
			expected: []string{"Paris", "Lyon", "Nice"},
		},
		{
			name:     "single quoted python style list",
			content:  "['广州', '深圳']",
			expected: []string{"广州", "深圳"},
		},
		{
			name:     "plain comma separated",
			content:  "London, Paris , , Berlin",
			expected: []string{"London", "Paris", "Berlin"},
		},
		{
			name:     "chinese separators",
			content:  "北京、上海，广州",
			expected: []string{"北京", "上海", "广州"},
		},
		{
			name:     "objects with name field",
			content:  `[{"name": "Tokyo", "type": "city"}, {"place": "Kyoto"}, {"other": 1}, 42]`,
			expected: []string{"Tokyo", "Kyoto"},
		},
		{
			name:     "object wrapping the list",
			content:  `{"places": ["Rome", "Milan"]}`,
			expected: []string{"Rome", "Milan"},
		},
		{
			name:     "object with unknown list key",
			content:  `{"count": 1, "cities": ["Madrid"]}`,
			expected: []string{"Madrid"},
		},
		{
			name:     "bare json string is a single name",
			content:  `"Lisbon, Porto"`,
			expected: []string{"Lisbon, Porto"},
		},
		{
			name:     "bare json string with chinese separator",
			content:  `"北京、上海"`,
			expected: []string{"北京、上海"},
		},
		{
			name:     "json null",
			content:  `null`,
			expected: []string{},
		},
		{
			name:     "duplicates keep first occurrence",
			content:  `["Málaga", "Sevilla", "malaga", "Sevilla"]`,
			expected: []string{"Málaga", "Sevilla"},
		},
		{
			name:     "kana voicing marks are significant",
			content:  `["ふくしま", "ぶくしま", "ふくしま"]`,
			expected: []string{"ふくしま", "ぶくしま"},
		},
		{
			name:     "tilde is significant",
			content:  `["Peña", "Pena"]`,
			expected: []string{"Peña", "Pena"},
		},
		{
			name:     "acute grave and diaeresis are folded",
			content:  `["Zürich", "zurich", "Mérida", "Merida", "Città", "citta"]`,
			expected: []string{"Zürich", "Mérida", "Città"},
		},
		{
			name:     "full width forms are folded",
			content:  `["ＮＹＣ", "  Ｔｏｋｙｏ  "]`,
			expected: []string{"NYC", "Tokyo"},
		},
		{
			name:     "curly quotes are trimmed",
			content:  "“故宫”, 「天坛」",
			expected: []string{"故宫", "天坛"},
		},
		{
			name:     "empty content",
			content:  "   ",
			expected: []string{},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if diff := cmp.Diff(tc.expected, ParsePlaces(tc.content)); diff != "" {
				t.Errorf("ParsePlaces(%q) mismatch (-want +got):\n%s", tc.content, diff)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"  北京  ", "北京"},
		{"\"New   York\"", "New York"},
		{"'Bordeaux'", "Bordeaux"},
		{"《长安》", "长安"},
		{"ＡＢＣ１２３", "ABC123"},
		{"", ""},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			assert.Equal(t, tc.expected, Normalize(tc.input))
		})
	}
}
