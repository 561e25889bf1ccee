// Package render emits the canonical XML form of a normalized puzzle set.
// Output is deterministic: fixed element order, fixed attribute order, and
// two-space indentation, so rendering is the inverse of parsing modulo
// normalization. The renderer assumes a valid model and does not consult
// diagnostics.
package render

import (
	"fmt"
	"io"
	"math/bits"
	"strings"

	"github.com/ianprime0509/libpbn/model"
)

const xmlDeclaration = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`

var (
	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	attrEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
)

// Render writes the canonical document for set to w.
func Render(set *model.PuzzleSet, w io.Writer) error {
	_, err := w.Write(Bytes(set))
	return err
}

// Bytes returns the canonical document for set.
func Bytes(set *model.PuzzleSet) []byte {
	var b strings.Builder
	b.WriteString(xmlDeclaration)
	b.WriteByte('\n')
	b.WriteString("<puzzleset>\n")

	root := set.Puzzles[0]
	st := set.Store
	writeTextElement(&b, 1, "source", st.ResolveString(root.Source))
	writeTextElement(&b, 1, "title", st.ResolveString(root.Title))
	writeTextElement(&b, 1, "author", st.ResolveString(root.Author))
	writeTextElement(&b, 1, "authorid", st.ResolveString(root.AuthorID))
	writeTextElement(&b, 1, "copyright", st.ResolveString(root.Copyright))

	for p := 1; p < len(set.Puzzles); p++ {
		writePuzzle(&b, set, p)
	}

	for _, n := range root.Notes {
		writeNote(&b, 1, st.ResolveString(n))
	}

	b.WriteString("</puzzleset>\n")
	return []byte(b.String())
}

func indent(b *strings.Builder, depth int) {
	for i := 0; i < depth; i++ {
		b.WriteString("  ")
	}
}

// writeTextElement emits a one-line text element, omitting it entirely when
// the text is empty.
func writeTextElement(b *strings.Builder, depth int, name, text string) {
	if text == "" {
		return
	}
	indent(b, depth)
	fmt.Fprintf(b, "<%s>%s</%s>\n", name, textEscaper.Replace(text), name)
}

func writeNote(b *strings.Builder, depth int, text string) {
	indent(b, depth)
	fmt.Fprintf(b, "<note>%s</note>\n", textEscaper.Replace(text))
}

func writePuzzle(b *strings.Builder, set *model.PuzzleSet, p int) {
	st := set.Store
	pz := set.Puzzles[p]

	indent(b, 1)
	b.WriteString("<puzzle")
	if def := st.ResolveString(pz.Default); def != model.DefaultForegroundName {
		fmt.Fprintf(b, ` defaultcolor="%s"`, attrEscaper.Replace(def))
	}
	if bg := st.ResolveString(pz.Background); bg != model.DefaultBackgroundName {
		fmt.Fprintf(b, ` backgroundcolor="%s"`, attrEscaper.Replace(bg))
	}
	b.WriteString(">\n")

	writeTextElement(b, 2, "source", st.ResolveString(pz.Source))
	writeTextElement(b, 2, "id", st.ResolveString(pz.ID))
	writeTextElement(b, 2, "title", st.ResolveString(pz.Title))
	writeTextElement(b, 2, "author", st.ResolveString(pz.Author))
	writeTextElement(b, 2, "authorid", st.ResolveString(pz.AuthorID))
	writeTextElement(b, 2, "copyright", st.ResolveString(pz.Copyright))
	writeTextElement(b, 2, "description", st.ResolveString(pz.Description))

	for i := 0; i < set.ColorCount(p); i++ {
		c := set.Color(p, i)
		indent(b, 2)
		fmt.Fprintf(b, `<color name="%s" char="%c">%02X%02X%02X</color>`,
			attrEscaper.Replace(c.Name), c.Char, c.RGB[0], c.RGB[1], c.RGB[2])
		b.WriteByte('\n')
	}

	writeClues(b, set, p, "rows")
	writeClues(b, set, p, "columns")

	for i := range pz.Goals {
		writeSolution(b, set, p, model.Goal, i, pz.Goals[i])
	}
	for i := range pz.Solved {
		writeSolution(b, set, p, model.Solved, i, pz.Solved[i])
	}
	for i := range pz.Saved {
		writeSolution(b, set, p, model.Saved, i, pz.Saved[i])
	}

	for _, n := range pz.Notes {
		writeNote(b, 2, st.ResolveString(n))
	}

	indent(b, 1)
	b.WriteString("</puzzle>\n")
}

func writeClues(b *strings.Builder, set *model.PuzzleSet, p int, typ string) {
	byRow := typ == "rows"
	n := set.RowCount(p)
	if !byRow {
		n = set.ColumnCount(p)
	}

	indent(b, 2)
	fmt.Fprintf(b, "<clues type=\"%s\">\n", typ)
	for i := 0; i < n; i++ {
		indent(b, 3)
		b.WriteString("<line>\n")
		count := set.RowClueCount(p, i)
		if !byRow {
			count = set.ColumnClueCount(p, i)
		}
		for k := 0; k < count; k++ {
			var clue model.Clue
			if byRow {
				clue = set.RowClue(p, i, k)
			} else {
				clue = set.ColumnClue(p, i, k)
			}
			indent(b, 4)
			if clue.Color != model.DefaultIndex {
				name := set.Color(p, int(clue.Color)).Name
				fmt.Fprintf(b, `<count color="%s">%d</count>`, attrEscaper.Replace(name), clue.Count)
			} else {
				fmt.Fprintf(b, "<count>%d</count>", clue.Count)
			}
			b.WriteByte('\n')
		}
		indent(b, 3)
		b.WriteString("</line>\n")
	}
	indent(b, 2)
	b.WriteString("</clues>\n")
}

func writeSolution(b *strings.Builder, set *model.PuzzleSet, p int, typ model.SolutionType, i int, sol model.Solution) {
	st := set.Store

	indent(b, 2)
	b.WriteString("<solution")
	if typ != model.Goal {
		fmt.Fprintf(b, ` type="%s"`, typ)
	}
	if id := st.ResolveString(sol.ID); id != "" {
		fmt.Fprintf(b, ` id="%s"`, attrEscaper.Replace(id))
	}
	b.WriteString(">\n")

	indent(b, 3)
	b.WriteString("<image>")
	var im model.Image
	switch typ {
	case model.Goal:
		im = set.GoalImage(p, i)
	case model.Solved:
		im = set.SolvedImage(p, i)
	case model.Saved:
		im = set.SavedImage(p, i)
	}
	writeImage(b, set, p, im)
	b.WriteByte('\n')
	indent(b, 3)
	b.WriteString("</image>\n")

	for _, n := range sol.Notes {
		writeNote(b, 3, st.ResolveString(n))
	}

	indent(b, 2)
	b.WriteString("</solution>\n")
}

// writeImage emits the image rows, each preceded by a newline and wrapped in
// '|'. A singleton cell is its color's glyph, the full palette (when more
// than one color exists) is '?', and any other subset is a bracketed group
// in ascending bit order.
func writeImage(b *strings.Builder, set *model.PuzzleSet, p int, im model.Image) {
	nColors := set.ColorCount(p)
	for r := 0; r < im.Rows(); r++ {
		b.WriteString("\n|")
		for c := 0; c < im.Columns(); c++ {
			cell := im.Get(r, c)
			switch {
			case bits.OnesCount32(cell) == 1:
				b.WriteByte(set.Color(p, bits.TrailingZeros32(cell)).Char)
			case bits.OnesCount32(cell) == nColors && nColors > 1:
				b.WriteByte('?')
			default:
				b.WriteByte('[')
				for k := 0; k < nColors; k++ {
					if cell&(1<<uint(k)) != 0 {
						b.WriteByte(set.Color(p, k).Char)
					}
				}
				b.WriteByte(']')
			}
		}
		b.WriteByte('|')
	}
}
