package parser

import (
	"reflect"
	"testing"
)

func TestParseImage_Valid(t *testing.T) {
	tests := []struct {
		name string
		text string
		want [][]string
	}{
		{
			name: "plain rows",
			text: "|X.||XX|",
			want: [][]string{{"X", "."}, {"X", "X"}},
		},
		{
			name: "whitespace between rows",
			text: "\n|X.|\n|XX|\n",
			want: [][]string{{"X", "."}, {"X", "X"}},
		},
		{
			name: "whitespace inside rows",
			text: "|[X] X|",
			want: [][]string{{"X", "X"}},
		},
		{
			name: "bracketed group",
			text: "|[X.]?|",
			want: [][]string{{"X.", "?"}},
		},
		{
			name: "single cell",
			text: "|X|",
			want: [][]string{{"X"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseImage(tt.text)
			if !ok {
				t.Fatalf("parseImage(%q) failed", tt.text)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseImage(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestParseImage_Invalid(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"empty image", ""},
		{"whitespace only", "  \n "},
		{"empty row", "||"},
		{"unterminated row", "|X."},
		{"junk before row", "X|X|"},
		{"junk between rows", "|X| junk |X|"},
		{"stray close bracket", "|]X|"},
		{"slash cell", "|/|"},
		{"backslash cell", "|\\|"},
		{"empty group", "|[]|"},
		{"unterminated group", "|[X.|"},
		{"question mark in group", "|[?X]|"},
		{"whitespace in group", "|[X .]|"},
		{"nested group", "|[[X]]|"},
		{"control character", "|\x01|"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rows, ok := parseImage(tt.text); ok {
				t.Errorf("parseImage(%q) = %v, expected failure", tt.text, rows)
			}
		})
	}
}
