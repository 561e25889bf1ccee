// Package diag collects parse diagnostics for puzzle-set documents. The
// loader records a diagnostic and keeps going whenever it can degrade
// locally; the presence of any diagnostic at end of parse fails the document
// as a whole.
package diag

import "fmt"

// Kind identifies a diagnostic. The taxonomy is closed.
type Kind int

const (
	XMLMalformed Kind = iota
	IllegalContent
	UnrecognizedElement
	UnrecognizedAttribute
	PuzzleTypeUnsupported
	PuzzleTooManyColors
	PuzzleColorUndefined
	PuzzleMissingClues
	PuzzleMissingGoal
	ColorMissingName
	ColorInvalidChar
	ColorInvalidRGB
	ColorDuplicateName
	ColorDuplicateChar
	CluesInvalidType
	CluesMissingType
	CluesDuplicate
	ClueInvalidCount
	SolutionInvalidType
	SolutionMissingImage
	SolutionDuplicateImage
	SolutionIndeterminateImage
	ImageInvalid
	ImageMismatchedDimensions
)

var kindNames = [...]string{
	XMLMalformed:               "xml_malformed",
	IllegalContent:             "illegal_content",
	UnrecognizedElement:        "unrecognized_element",
	UnrecognizedAttribute:      "unrecognized_attribute",
	PuzzleTypeUnsupported:      "puzzle_type_unsupported",
	PuzzleTooManyColors:        "puzzle_too_many_colors",
	PuzzleColorUndefined:       "puzzle_color_undefined",
	PuzzleMissingClues:         "puzzle_missing_clues",
	PuzzleMissingGoal:          "puzzle_missing_goal",
	ColorMissingName:           "color_missing_name",
	ColorInvalidChar:           "color_invalid_char",
	ColorInvalidRGB:            "color_invalid_rgb",
	ColorDuplicateName:         "color_duplicate_name",
	ColorDuplicateChar:         "color_duplicate_char",
	CluesInvalidType:           "clues_invalid_type",
	CluesMissingType:           "clues_missing_type",
	CluesDuplicate:             "clues_duplicate",
	ClueInvalidCount:           "clue_invalid_count",
	SolutionInvalidType:        "solution_invalid_type",
	SolutionMissingImage:       "solution_missing_image",
	SolutionDuplicateImage:     "solution_duplicate_image",
	SolutionIndeterminateImage: "solution_indeterminate_image",
	ImageInvalid:               "image_invalid",
	ImageMismatchedDimensions:  "image_mismatched_dimensions",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Location is a byte offset into the document. The underlying tokenizer
// reports offsets, not line/column pairs.
type Location struct {
	Offset int64
}

// Diagnostic is one recorded problem. Err is non-nil only for XMLMalformed,
// where it wraps the tokenizer's error.
type Diagnostic struct {
	Kind Kind
	Loc  Location
	Err  error
}

func (d Diagnostic) String() string {
	if d.Err != nil {
		return fmt.Sprintf("%s at offset %d: %v", d.Kind, d.Loc.Offset, d.Err)
	}
	return fmt.Sprintf("%s at offset %d", d.Kind, d.Loc.Offset)
}

// List is an append-only diagnostics list. The zero value is ready to use.
type List struct {
	entries []Diagnostic
}

// Add records a diagnostic.
func (l *List) Add(k Kind, loc Location) {
	l.entries = append(l.entries, Diagnostic{Kind: k, Loc: loc})
}

// AddXML records a fatal tokenizer error.
func (l *List) AddXML(loc Location, err error) {
	l.entries = append(l.entries, Diagnostic{Kind: XMLMalformed, Loc: loc, Err: err})
}

// Len returns the number of recorded diagnostics.
func (l *List) Len() int { return len(l.entries) }

// At returns diagnostic i.
func (l *List) At(i int) Diagnostic { return l.entries[i] }

// All returns the recorded diagnostics in order. The returned slice is the
// list's backing storage; callers must not modify it.
func (l *List) All() []Diagnostic { return l.entries }

// Count returns how many diagnostics of kind k were recorded.
func (l *List) Count(k Kind) int {
	n := 0
	for _, d := range l.entries {
		if d.Kind == k {
			n++
		}
	}
	return n
}
