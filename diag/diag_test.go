package diag

import (
	"errors"
	"strings"
	"testing"
)

func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{XMLMalformed, "xml_malformed"},
		{PuzzleTooManyColors, "puzzle_too_many_colors"},
		{ImageMismatchedDimensions, "image_mismatched_dimensions"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", int(tt.kind), got, tt.want)
		}
	}
}

func TestList_AppendOnly(t *testing.T) {
	var l List
	if l.Len() != 0 {
		t.Fatalf("zero list should be empty")
	}

	l.Add(ColorInvalidRGB, Location{Offset: 12})
	l.Add(ColorInvalidRGB, Location{Offset: 40})
	l.Add(ClueInvalidCount, Location{Offset: 99})

	if got := l.Len(); got != 3 {
		t.Fatalf("expected 3 diagnostics, got %d", got)
	}
	if got := l.Count(ColorInvalidRGB); got != 2 {
		t.Errorf("expected 2 color_invalid_rgb, got %d", got)
	}
	if d := l.At(2); d.Kind != ClueInvalidCount || d.Loc.Offset != 99 {
		t.Errorf("unexpected diagnostic %v", d)
	}
}

func TestList_AddXML(t *testing.T) {
	var l List
	cause := errors.New("unexpected EOF")
	l.AddXML(Location{Offset: 7}, cause)

	d := l.At(0)
	if d.Kind != XMLMalformed {
		t.Errorf("expected xml_malformed, got %v", d.Kind)
	}
	if d.Err != cause {
		t.Errorf("expected wrapped tokenizer error, got %v", d.Err)
	}
	if s := d.String(); !strings.Contains(s, "unexpected EOF") || !strings.Contains(s, "offset 7") {
		t.Errorf("unexpected diagnostic string %q", s)
	}
}
