package parser

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/ianprime0509/libpbn/diag"
	"github.com/ianprime0509/libpbn/model"
	"github.com/ianprime0509/libpbn/render"
)

func mustParse(t *testing.T, input string) *model.PuzzleSet {
	t.Helper()
	var diags diag.List
	set, err := Parse([]byte(input), &diags)
	if err != nil {
		t.Fatalf("Parse failed: %v; diagnostics: %v", err, diags.All())
	}
	return set
}

func parseExpectingError(t *testing.T, input string) *diag.List {
	t.Helper()
	var diags diag.List
	set, err := Parse([]byte(input), &diags)
	if err == nil {
		t.Fatalf("Parse succeeded, expected failure")
	}
	if set != nil {
		t.Fatalf("expected nil set on failure")
	}
	return &diags
}

const binaryPuzzle = `<puzzleset><puzzle><clues type="rows"><line><count>1</count></line><line><count color="black">2</count></line></clues><clues type="columns"><line><count>2</count></line><line><count>1</count></line></clues><solution type="goal"><image>|X.||[X] X|</image></solution></puzzle></puzzleset>`

const binaryPuzzleCanonical = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<puzzleset>
  <puzzle>
    <color name="white" char=".">FFFFFF</color>
    <color name="black" char="X">000000</color>
    <clues type="rows">
      <line>
        <count>1</count>
      </line>
      <line>
        <count>2</count>
      </line>
    </clues>
    <clues type="columns">
      <line>
        <count>2</count>
      </line>
      <line>
        <count>1</count>
      </line>
    </clues>
    <solution>
      <image>
|X.|
|XX|
      </image>
    </solution>
  </puzzle>
</puzzleset>
`

func TestParse_BinaryPuzzleWithExplicitClues(t *testing.T) {
	set := mustParse(t, binaryPuzzle)

	if got := set.PuzzleCount(); got != 1 {
		t.Fatalf("expected 1 puzzle, got %d", got)
	}
	if got := set.ColorCount(1); got != 2 {
		t.Fatalf("expected 2 colors, got %d", got)
	}
	if c := set.Color(1, 0); c.Name != "white" || c.Char != '.' || c.RGB != [3]byte{0xFF, 0xFF, 0xFF} {
		t.Errorf("color 0: expected white/./FFFFFF, got %+v", c)
	}
	if c := set.Color(1, 1); c.Name != "black" || c.Char != 'X' || c.RGB != [3]byte{0, 0, 0} {
		t.Errorf("color 1: expected black/X/000000, got %+v", c)
	}

	if got := string(render.Bytes(set)); got != binaryPuzzleCanonical {
		t.Errorf("canonical output mismatch:\n--- got ---\n%s--- want ---\n%s", got, binaryPuzzleCanonical)
	}
}

func TestParse_CluesDerivedFromGoal(t *testing.T) {
	input := `<puzzleset><puzzle><solution type="goal"><image>|X.||[X] X|</image></solution></puzzle></puzzleset>`
	set := mustParse(t, input)

	if got := string(render.Bytes(set)); got != binaryPuzzleCanonical {
		t.Errorf("derived clues should render identically:\n--- got ---\n%s--- want ---\n%s", got, binaryPuzzleCanonical)
	}
}

func TestParse_ClueAccessors(t *testing.T) {
	set := mustParse(t, binaryPuzzle)

	if got := set.RowCount(1); got != 2 {
		t.Fatalf("expected 2 rows, got %d", got)
	}
	if got := set.ColumnCount(1); got != 2 {
		t.Fatalf("expected 2 columns, got %d", got)
	}
	if got := set.RowClueCount(1, 1); got != 1 {
		t.Fatalf("expected 1 clue in row 1, got %d", got)
	}
	clue := set.RowClue(1, 1, 0)
	if clue.Color != model.DefaultIndex || clue.Count != 2 {
		t.Errorf("row 1 clue: expected color 1 count 2, got %+v", clue)
	}
}

func TestParse_SavedSolutionRoundTrip(t *testing.T) {
	input := `<puzzleset><puzzle>` +
		`<solution type="goal"><image>|X.||XX|</image></solution>` +
		`<solution type="saved"><image>|[X.]?||XX|</image></solution>` +
		`</puzzle></puzzleset>`
	set := mustParse(t, input)

	if got := set.SavedCount(1); got != 1 {
		t.Fatalf("expected 1 saved solution, got %d", got)
	}
	im := set.SavedImage(1, 0)
	mask := set.ColorMask(1)
	if got := im.Get(0, 0); got != mask {
		t.Errorf("cell (0,0): [X.] with two colors should be the full mask %#b, got %#b", mask, got)
	}
	if got := im.Get(0, 1); got != mask {
		t.Errorf("cell (0,1): ? should be the full mask %#b, got %#b", mask, got)
	}

	out := string(render.Bytes(set))
	if !strings.Contains(out, "\n|??|\n|XX|\n") {
		t.Errorf("expected saved image rendered as |??| / |XX|, got:\n%s", out)
	}
	if !strings.Contains(out, `<solution type="saved">`) {
		t.Errorf("expected saved type attribute in output:\n%s", out)
	}
}

func manyColors(n int) string {
	var b strings.Builder
	b.WriteString(`<puzzleset><puzzle>`)
	for i := 0; i < n; i++ {
		b.WriteString(`<color name="c`)
		b.WriteByte('a' + byte(i/10))
		b.WriteByte('0' + byte(i%10))
		b.WriteString(`">010203</color>`)
	}
	b.WriteString(`<solution type="goal"><image>|X|</image></solution></puzzle></puzzleset>`)
	return b.String()
}

func TestParse_PaletteOf32Accepts(t *testing.T) {
	// 30 declared colors plus the implicit black and white make exactly 32.
	set := mustParse(t, manyColors(30))
	if got := set.ColorCount(1); got != 32 {
		t.Errorf("expected 32 colors, got %d", got)
	}
}

func TestParse_PaletteOf33Rejects(t *testing.T) {
	diags := parseExpectingError(t, manyColors(31))
	if got := diags.Count(diag.PuzzleTooManyColors); got != 1 {
		t.Errorf("expected exactly one puzzle_too_many_colors, got %d", got)
	}
	if got := diags.Len(); got != 1 {
		t.Errorf("expected no other diagnostics, got %v", diags.All())
	}
}

func TestParse_ShortRGBEqualsLong(t *testing.T) {
	shortForm := `<puzzleset><puzzle><color name="red" char="R">abc</color><solution type="goal"><image>|X|</image></solution></puzzle></puzzleset>`
	longForm := `<puzzleset><puzzle><color name="red" char="R">aabbcc</color><solution type="goal"><image>|X|</image></solution></puzzle></puzzleset>`

	a := render.Bytes(mustParse(t, shortForm))
	b := render.Bytes(mustParse(t, longForm))
	if !bytes.Equal(a, b) {
		t.Errorf("3-digit and 6-digit RGB should normalize identically:\n%s\nvs\n%s", a, b)
	}
	if !bytes.Contains(a, []byte(`<color name="red" char="R">AABBCC</color>`)) {
		t.Errorf("expected AABBCC color element, got:\n%s", a)
	}
}

func TestParse_InvalidRGB(t *testing.T) {
	input := `<puzzleset><puzzle><color name="red" char="R">zzzzzz</color><solution type="goal"><image>|X|</image></solution></puzzle></puzzleset>`
	diags := parseExpectingError(t, input)
	if got := diags.Count(diag.ColorInvalidRGB); got != 1 {
		t.Errorf("expected one color_invalid_rgb, got %v", diags.All())
	}
}

func TestParse_DimensionMismatch(t *testing.T) {
	input := `<puzzleset><puzzle>` +
		`<clues type="rows"><line><count>1</count></line><line><count>1</count></line></clues>` +
		`<clues type="columns"><line><count>1</count></line><line><count>1</count></line></clues>` +
		`<solution type="goal"><image>|X.||.X||X.|</image></solution>` +
		`</puzzle></puzzleset>`
	diags := parseExpectingError(t, input)
	if got := diags.Count(diag.ImageMismatchedDimensions); got != 1 {
		t.Errorf("expected one image_mismatched_dimensions, got %v", diags.All())
	}
}

func TestParse_IndeterminateGoal(t *testing.T) {
	input := `<puzzleset><puzzle>` +
		`<clues type="rows"><line><count>1</count></line></clues>` +
		`<clues type="columns"><line><count>1</count></line></clues>` +
		`<solution type="goal"><image>|?|</image></solution>` +
		`</puzzle></puzzleset>`
	diags := parseExpectingError(t, input)
	if got := diags.Count(diag.SolutionIndeterminateImage); got != 1 {
		t.Errorf("expected one solution_indeterminate_image, got %v", diags.All())
	}
}

func TestParse_MetadataInheritance(t *testing.T) {
	input := `<puzzleset><author>Alice</author>` +
		`<puzzle><solution type="goal"><image>|X|</image></solution></puzzle>` +
		`<puzzle><author>Bob</author><solution type="goal"><image>|X|</image></solution></puzzle>` +
		`</puzzleset>`
	set := mustParse(t, input)

	if got := set.Author(1); got != "Alice" {
		t.Errorf("puzzle 1: expected inherited author Alice, got %q", got)
	}
	if got := set.Author(2); got != "Bob" {
		t.Errorf("puzzle 2: expected shadowing author Bob, got %q", got)
	}

	// The renderer emits the puzzle's own fields so inheritance survives a
	// round trip.
	out := string(render.Bytes(set))
	if strings.Count(out, "<author>Alice</author>") != 1 {
		t.Errorf("expected exactly one Alice author element:\n%s", out)
	}
	if strings.Count(out, "<author>Bob</author>") != 1 {
		t.Errorf("expected exactly one Bob author element:\n%s", out)
	}
}

func TestParse_CustomBackgroundAndDefault(t *testing.T) {
	input := `<puzzleset><puzzle defaultcolor="red" backgroundcolor="blue">` +
		`<color name="blue" char="B">0000ff</color>` +
		`<color name="red" char="R">ff0000</color>` +
		`<solution type="goal"><image>|RB||BR|</image></solution>` +
		`</puzzle></puzzleset>`
	set := mustParse(t, input)

	if c := set.Color(1, model.BackgroundIndex); c.Name != "blue" {
		t.Errorf("expected blue at index 0, got %q", c.Name)
	}
	if c := set.Color(1, model.DefaultIndex); c.Name != "red" {
		t.Errorf("expected red at index 1, got %q", c.Name)
	}

	out := string(render.Bytes(set))
	if !strings.Contains(out, `<puzzle defaultcolor="red" backgroundcolor="blue">`) {
		t.Errorf("expected puzzle attributes for non-default colors:\n%s", out)
	}
	// Derived clues reference the default color and need no attribute.
	if strings.Contains(out, `<count color="red">`) {
		t.Errorf("default-color clues should omit the color attribute:\n%s", out)
	}
}

func TestParse_UndefinedBackgroundColor(t *testing.T) {
	input := `<puzzleset><puzzle backgroundcolor="teal"><solution type="goal"><image>|X|</image></solution></puzzle></puzzleset>`
	diags := parseExpectingError(t, input)
	if diags.Count(diag.PuzzleColorUndefined) == 0 {
		t.Errorf("expected puzzle_color_undefined, got %v", diags.All())
	}
}

func TestParse_UnknownClueColor(t *testing.T) {
	input := `<puzzleset><puzzle>` +
		`<clues type="rows"><line><count color="mauve">1</count></line></clues>` +
		`<clues type="columns"><line><count>1</count></line></clues>` +
		`</puzzle></puzzleset>`
	diags := parseExpectingError(t, input)
	if diags.Count(diag.PuzzleColorUndefined) == 0 {
		t.Errorf("expected puzzle_color_undefined, got %v", diags.All())
	}
}

func TestParse_MissingGoalAndClues(t *testing.T) {
	diags := parseExpectingError(t, `<puzzleset><puzzle></puzzle></puzzleset>`)
	if diags.Count(diag.PuzzleMissingGoal) == 0 {
		t.Errorf("expected puzzle_missing_goal, got %v", diags.All())
	}
}

func TestParse_OneCluesDirectionWithoutGoal(t *testing.T) {
	input := `<puzzleset><puzzle><clues type="rows"><line><count>1</count></line></clues></puzzle></puzzleset>`
	diags := parseExpectingError(t, input)
	if diags.Count(diag.PuzzleMissingClues) == 0 {
		t.Errorf("expected puzzle_missing_clues, got %v", diags.All())
	}
}

func TestParse_DiagnosticsTable(t *testing.T) {
	tests := []struct {
		name  string
		input string
		kind  diag.Kind
	}{
		{
			"unrecognized element",
			`<puzzleset><widget/><puzzle><solution><image>|X|</image></solution></puzzle></puzzleset>`,
			diag.UnrecognizedElement,
		},
		{
			"unrecognized attribute",
			`<puzzleset version="1"><puzzle><solution><image>|X|</image></solution></puzzle></puzzleset>`,
			diag.UnrecognizedAttribute,
		},
		{
			"illegal content",
			`<puzzleset>stray<puzzle><solution><image>|X|</image></solution></puzzle></puzzleset>`,
			diag.IllegalContent,
		},
		{
			"unsupported puzzle type",
			`<puzzleset><puzzle type="triddler"><solution><image>|X|</image></solution></puzzle></puzzleset>`,
			diag.PuzzleTypeUnsupported,
		},
		{
			"color missing name",
			`<puzzleset><puzzle><color char="Q">123456</color><solution><image>|X|</image></solution></puzzle></puzzleset>`,
			diag.ColorMissingName,
		},
		{
			"color invalid char",
			`<puzzleset><puzzle><color name="q" char="QQ">123456</color><solution><image>|X|</image></solution></puzzle></puzzleset>`,
			diag.ColorInvalidChar,
		},
		{
			"clues missing type",
			`<puzzleset><puzzle><clues><line><count>1</count></line></clues><solution><image>|X|</image></solution></puzzle></puzzleset>`,
			diag.CluesMissingType,
		},
		{
			"clues invalid type",
			`<puzzleset><puzzle><clues type="diagonal"><line><count>1</count></line></clues><solution><image>|X|</image></solution></puzzle></puzzleset>`,
			diag.CluesInvalidType,
		},
		{
			"clues duplicate",
			`<puzzleset><puzzle><clues type="rows"><line><count>1</count></line></clues><clues type="rows"><line><count>1</count></line></clues><clues type="columns"><line><count>1</count></line></clues><solution><image>|X|</image></solution></puzzle></puzzleset>`,
			diag.CluesDuplicate,
		},
		{
			"clue invalid count zero",
			`<puzzleset><puzzle><clues type="rows"><line><count>0</count></line></clues><clues type="columns"><line><count>1</count></line></clues></puzzle></puzzleset>`,
			diag.ClueInvalidCount,
		},
		{
			"clue invalid count non-numeric",
			`<puzzleset><puzzle><clues type="rows"><line><count>abc</count></line></clues><clues type="columns"><line><count>1</count></line></clues></puzzle></puzzleset>`,
			diag.ClueInvalidCount,
		},
		{
			"solution invalid type",
			`<puzzleset><puzzle><solution type="wip"><image>|X|</image></solution></puzzle></puzzleset>`,
			diag.SolutionInvalidType,
		},
		{
			"solution missing image",
			`<puzzleset><puzzle><solution></solution><solution><image>|X|</image></solution></puzzle></puzzleset>`,
			diag.SolutionMissingImage,
		},
		{
			"solution duplicate image",
			`<puzzleset><puzzle><solution><image>|X|</image><image>|.|</image></solution></puzzle></puzzleset>`,
			diag.SolutionDuplicateImage,
		},
		{
			"image invalid",
			`<puzzleset><puzzle><solution><image>|X</image></solution></puzzle></puzzleset>`,
			diag.ImageInvalid,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var diags diag.List
			_, err := Parse([]byte(tt.input), &diags)
			if !errors.Is(err, ErrInvalidDocument) {
				t.Fatalf("expected ErrInvalidDocument, got %v", err)
			}
			if diags.Count(tt.kind) == 0 {
				t.Errorf("expected %v, got %v", tt.kind, diags.All())
			}
		})
	}
}

func TestParse_NonPuzzlesetRoot(t *testing.T) {
	diags := parseExpectingError(t, `<nonogram/>`)
	if diags.Count(diag.UnrecognizedElement) != 1 {
		t.Errorf("expected one unrecognized_element, got %v", diags.All())
	}
}

func TestParse_MalformedXML(t *testing.T) {
	var diags diag.List
	_, err := Parse([]byte(`<puzzleset><puzzle>`), &diags)
	if !errors.Is(err, ErrMalformedXML) {
		t.Fatalf("expected ErrMalformedXML, got %v", err)
	}
	if diags.Count(diag.XMLMalformed) != 1 {
		t.Errorf("expected one xml_malformed, got %v", diags.All())
	}
	if diags.At(diags.Len() - 1).Err == nil {
		t.Errorf("expected the tokenizer error to be captured")
	}
}

func TestParse_UnsupportedPuzzleDoesNotBreakSiblings(t *testing.T) {
	// An invalid puzzle is dropped independently; the sibling still parses
	// structurally, but the document as a whole fails.
	input := `<puzzleset>` +
		`<puzzle type="triddler"><color name="x">123</color></puzzle>` +
		`<puzzle><solution><image>|X|</image></solution></puzzle>` +
		`</puzzleset>`
	var diags diag.List
	_, err := Parse([]byte(input), &diags)
	if !errors.Is(err, ErrInvalidDocument) {
		t.Fatalf("expected ErrInvalidDocument, got %v", err)
	}
	if diags.Count(diag.PuzzleTypeUnsupported) != 1 {
		t.Errorf("expected one puzzle_type_unsupported, got %v", diags.All())
	}
}

func TestParse_RenderParseIdempotent(t *testing.T) {
	inputs := []string{
		binaryPuzzle,
		`<puzzleset><title>Two Puzzles</title><author>A. Nonymous</author>` +
			`<puzzle><id>p1</id><solution type="goal"><image>|X.||.X|</image></solution>` +
			`<solution type="saved" id="s1"><image>|?[X.]||XX|</image></solution>` +
			`<note>first note</note></puzzle>` +
			`<puzzle defaultcolor="red" backgroundcolor="blue">` +
			`<color name="blue" char="B">00f</color><color name="red" char="R">f00</color>` +
			`<solution type="goal"><image>|RB||BR|</image></solution></puzzle>` +
			`<note>set note</note></puzzleset>`,
	}
	for _, input := range inputs {
		first := render.Bytes(mustParse(t, input))

		var diags diag.List
		set2, err := Parse(first, &diags)
		if err != nil {
			t.Fatalf("canonical output did not re-parse: %v; diagnostics: %v\n%s", err, diags.All(), first)
		}
		second := render.Bytes(set2)
		if !bytes.Equal(first, second) {
			t.Errorf("normalization is not idempotent:\n--- first ---\n%s--- second ---\n%s", first, second)
		}
	}
}

func TestParse_DerivedCluesMatchRederivation(t *testing.T) {
	input := `<puzzleset><puzzle><solution type="goal"><image>|X.X||XXX||.X.|</image></solution></puzzle></puzzleset>`
	set := mustParse(t, input)

	im := set.GoalImage(1, 0)
	cells := make([]uint32, 0, im.Rows()*im.Columns())
	for r := 0; r < im.Rows(); r++ {
		for c := 0; c < im.Columns(); c++ {
			cells = append(cells, im.Get(r, c))
		}
	}

	rederived := deriveClues(cells, im.Rows(), im.Columns(), true)
	for i, line := range rederived {
		if got := set.RowClueCount(1, i); got != len(line) {
			t.Fatalf("row %d: expected %d clues, got %d", i, len(line), got)
		}
		for k, want := range line {
			if got := set.RowClue(1, i, k); got != want {
				t.Errorf("row %d clue %d: expected %+v, got %+v", i, k, want, got)
			}
		}
	}
}

func TestParseStream(t *testing.T) {
	var diags diag.List
	set, err := ParseStream(strings.NewReader(binaryPuzzle), &diags)
	if err != nil {
		t.Fatalf("ParseStream failed: %v", err)
	}
	if got := set.PuzzleCount(); got != 1 {
		t.Errorf("expected 1 puzzle, got %d", got)
	}
}
