// Package parser loads puzzle-set XML documents into the model. The loader
// is a recursive-descent consumer of tokenizer events: at each element it
// whitelists attributes, dispatches known child elements, skips unknown
// subtrees, and records diagnostics instead of failing early wherever a
// locally-degraded result is still structurally valid. Parsed puzzles are
// held in scratch state and committed through the normalizer.
package parser

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/ianprime0509/libpbn/diag"
	"github.com/ianprime0509/libpbn/model"
)

// Parse loads a puzzle-set document from memory. Diagnostics accumulate in
// diags; if any are present once the document is fully processed, the set is
// discarded and ErrInvalidDocument is returned.
func Parse(data []byte, diags *diag.List) (*model.PuzzleSet, error) {
	return ParseStream(bytes.NewReader(data), diags)
}

// ParseStream is Parse over a reader. Tokenizer syntax errors are fatal and
// reported as ErrMalformedXML; underlying read errors are returned wrapped.
func ParseStream(r io.Reader, diags *diag.List) (*model.PuzzleSet, error) {
	l := &loader{
		d:     xml.NewDecoder(r),
		diags: diags,
		set:   model.NewPuzzleSet(),
	}
	if err := l.run(); err != nil {
		return nil, err
	}
	if diags.Len() > 0 {
		return nil, ErrInvalidDocument
	}
	return l.set, nil
}

type loader struct {
	d     *xml.Decoder
	diags *diag.List
	set   *model.PuzzleSet
}

func (l *loader) loc() diag.Location {
	return diag.Location{Offset: l.d.InputOffset()}
}

// fatal classifies a tokenizer error: syntax problems become xml_malformed
// diagnostics with the reader's location; anything else is an I/O failure.
func (l *loader) fatal(err error) error {
	var syn *xml.SyntaxError
	if errors.As(err, &syn) || err == io.ErrUnexpectedEOF || err == io.EOF {
		l.diags.AddXML(l.loc(), err)
		return ErrMalformedXML
	}
	return fmt.Errorf("pbn: read input: %w", err)
}

func (l *loader) run() error {
	for {
		tok, err := l.d.Token()
		if err != nil {
			return l.fatal(err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local != "puzzleset" {
				l.diags.Add(diag.UnrecognizedElement, l.loc())
				return nil
			}
			if err := l.puzzleSet(t); err != nil {
				return err
			}
			return l.drain()
		case xml.CharData:
			if len(bytes.TrimSpace(t)) > 0 {
				l.diags.Add(diag.IllegalContent, l.loc())
			}
		case xml.ProcInst, xml.Comment, xml.Directive:
			// document prolog
		}
	}
}

// drain consumes the document epilog so trailing syntax errors still surface.
func (l *loader) drain() error {
	for {
		_, err := l.d.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return l.fatal(err)
		}
	}
}

type childFunc func(start xml.StartElement) error

// children reads the content of the current element until its end tag,
// dispatching each child element against a closed set of permitted names.
// Unknown elements are skipped whole; non-whitespace text and processing
// instructions are illegal content.
func (l *loader) children(permitted map[string]childFunc) error {
	for {
		tok, err := l.d.Token()
		if err != nil {
			return l.fatal(err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			fn, ok := permitted[t.Name.Local]
			if !ok {
				l.diags.Add(diag.UnrecognizedElement, l.loc())
				if err := l.d.Skip(); err != nil {
					return l.fatal(err)
				}
				continue
			}
			if err := fn(t); err != nil {
				return err
			}
		case xml.EndElement:
			return nil
		case xml.CharData:
			if len(bytes.TrimSpace(t)) > 0 {
				l.diags.Add(diag.IllegalContent, l.loc())
			}
		case xml.ProcInst:
			l.diags.Add(diag.IllegalContent, l.loc())
		case xml.Comment, xml.Directive:
		}
	}
}

// attrs maps the current element's attributes against a closed set of
// permitted names. Attribute order is not significant.
func (l *loader) attrs(start xml.StartElement, permitted map[string]func(value string)) {
	for _, a := range start.Attr {
		if fn, ok := permitted[a.Name.Local]; ok && a.Name.Space == "" {
			fn(a.Value)
		} else {
			l.diags.Add(diag.UnrecognizedAttribute, l.loc())
		}
	}
}

// text collects the character content of a text-bearing element through its
// end tag. The tokenizer has already folded CDATA and expanded character and
// entity references. Nested elements and processing instructions are illegal
// content but still consumed.
func (l *loader) text() (string, error) {
	var sb strings.Builder
	for {
		tok, err := l.d.Token()
		if err != nil {
			return "", l.fatal(err)
		}
		switch t := tok.(type) {
		case xml.CharData:
			sb.Write(t)
		case xml.StartElement:
			l.diags.Add(diag.IllegalContent, l.loc())
			if err := l.d.Skip(); err != nil {
				return "", l.fatal(err)
			}
		case xml.ProcInst:
			l.diags.Add(diag.IllegalContent, l.loc())
		case xml.EndElement:
			return sb.String(), nil
		case xml.Comment, xml.Directive:
		}
	}
}

// textInto returns a child handler that stores the element's text. Repeated
// occurrences overwrite, so the last one wins.
func (l *loader) textInto(dst *string) childFunc {
	return func(xml.StartElement) error {
		s, err := l.text()
		if err != nil {
			return err
		}
		*dst = s
		return nil
	}
}

// textAppend returns a child handler that appends the element's text.
func (l *loader) textAppend(dst *[]string) childFunc {
	return func(xml.StartElement) error {
		s, err := l.text()
		if err != nil {
			return err
		}
		*dst = append(*dst, s)
		return nil
	}
}

// puzzleSet handles the document element. The root carries no attributes;
// its metadata children populate the synthetic root puzzle.
func (l *loader) puzzleSet(start xml.StartElement) error {
	for range start.Attr {
		l.diags.Add(diag.UnrecognizedAttribute, l.loc())
	}

	var meta struct {
		source, title, author, authorID, copyright string
		notes                                      []string
	}
	err := l.children(map[string]childFunc{
		"source":    l.textInto(&meta.source),
		"title":     l.textInto(&meta.title),
		"author":    l.textInto(&meta.author),
		"authorid":  l.textInto(&meta.authorID),
		"copyright": l.textInto(&meta.copyright),
		"note":      l.textAppend(&meta.notes),
		"puzzle":    l.puzzle,
	})
	if err != nil {
		return err
	}

	root := &l.set.Puzzles[0]
	root.Source = l.set.Store.InternStr(meta.source)
	root.Title = l.set.Store.InternStr(meta.title)
	root.Author = l.set.Store.InternStr(meta.author)
	root.AuthorID = l.set.Store.InternStr(meta.authorID)
	root.Copyright = l.set.Store.InternStr(meta.copyright)
	for _, n := range meta.notes {
		root.Notes = append(root.Notes, l.set.Store.InternStr(n))
	}
	return nil
}

// puzzle handles one puzzle element: attributes, children into scratch
// state, then normalization and commit.
func (l *loader) puzzle(start xml.StartElement) error {
	sc := newScratch()
	supported := true
	l.attrs(start, map[string]func(string){
		"type": func(v string) {
			if v != "grid" {
				l.diags.Add(diag.PuzzleTypeUnsupported, l.loc())
				supported = false
			}
		},
		"defaultcolor":    func(v string) { sc.defaultName = v },
		"backgroundcolor": func(v string) { sc.backgroundName = v },
	})
	if !supported {
		if err := l.d.Skip(); err != nil {
			return l.fatal(err)
		}
		return nil
	}

	err := l.children(map[string]childFunc{
		"source":      l.textInto(&sc.source),
		"id":          l.textInto(&sc.id),
		"title":       l.textInto(&sc.title),
		"author":      l.textInto(&sc.author),
		"authorid":    l.textInto(&sc.authorID),
		"copyright":   l.textInto(&sc.copyright),
		"description": l.textInto(&sc.description),
		"note":        l.textAppend(&sc.notes),
		"color":       func(s xml.StartElement) error { return l.color(s, sc) },
		"clues":       func(s xml.StartElement) error { return l.clues(s, sc) },
		"solution":    func(s xml.StartElement) error { return l.solution(s, sc) },
	})
	if err != nil {
		return err
	}

	l.normalize(sc)
	return nil
}

// color handles one color element. The name attribute is required; a color
// without one cannot be referenced and is discarded. An invalid char
// attribute leaves the glyph unset for the normalizer to assign; invalid RGB
// text degrades to black.
func (l *loader) color(start xml.StartElement, sc *puzzleScratch) error {
	var c scratchColor
	hasName := false
	l.attrs(start, map[string]func(string){
		"name": func(v string) {
			c.name = v
			hasName = true
		},
		"char": func(v string) {
			if len(v) == 1 && isGlyph(v[0]) {
				c.char = v[0]
				c.hasChar = true
			} else {
				l.diags.Add(diag.ColorInvalidChar, l.loc())
			}
		},
	})

	text, err := l.text()
	if err != nil {
		return err
	}
	if rgb, ok := parseRGB(text); ok {
		c.rgb = rgb
	} else {
		l.diags.Add(diag.ColorInvalidRGB, l.loc())
		c.rgb = [3]byte{0, 0, 0}
	}

	if !hasName {
		l.diags.Add(diag.ColorMissingName, l.loc())
		return nil
	}
	sc.colors = append(sc.colors, c)
	return nil
}

// parseRGB parses a 3- or 6-digit hex literal; the short form doubles each
// nibble.
func parseRGB(text string) ([3]byte, bool) {
	t := strings.TrimSpace(text)
	if len(t) != 3 && len(t) != 6 {
		return [3]byte{}, false
	}
	c, err := colorful.Hex("#" + t)
	if err != nil {
		return [3]byte{}, false
	}
	r, g, b := c.RGB255()
	return [3]byte{r, g, b}, true
}

// clues handles one clues element. The type attribute selects the row or
// column direction; a duplicate direction is parsed but ignored.
func (l *loader) clues(start xml.StartElement, sc *puzzleScratch) error {
	dir := -1
	hasType := false
	l.attrs(start, map[string]func(string){
		"type": func(v string) {
			hasType = true
			switch v {
			case "rows":
				dir = 0
			case "columns":
				dir = 1
			default:
				l.diags.Add(diag.CluesInvalidType, l.loc())
			}
		},
	})
	if !hasType {
		l.diags.Add(diag.CluesMissingType, l.loc())
	}

	var lines [][]scratchClue
	err := l.children(map[string]childFunc{
		"line": func(s xml.StartElement) error {
			line, err := l.clueLine(s)
			if err != nil {
				return err
			}
			lines = append(lines, line)
			return nil
		},
	})
	if err != nil {
		return err
	}

	switch dir {
	case 0:
		if sc.hasRows {
			l.diags.Add(diag.CluesDuplicate, l.loc())
			return nil
		}
		sc.hasRows = true
		sc.rowLines = lines
	case 1:
		if sc.hasCols {
			l.diags.Add(diag.CluesDuplicate, l.loc())
			return nil
		}
		sc.hasCols = true
		sc.colLines = lines
	}
	return nil
}

// clueLine handles one line element and its count children.
func (l *loader) clueLine(start xml.StartElement) ([]scratchClue, error) {
	l.attrs(start, nil)
	line := []scratchClue{}
	err := l.children(map[string]childFunc{
		"count": func(s xml.StartElement) error {
			clue, err := l.count(s)
			if err != nil {
				return err
			}
			line = append(line, clue)
			return nil
		},
	})
	return line, err
}

// count handles one count element: an optional color name (empty means the
// puzzle's default color) and a positive base-10 run length fitting 27 bits.
func (l *loader) count(start xml.StartElement) (scratchClue, error) {
	var clue scratchClue
	l.attrs(start, map[string]func(string){
		"color": func(v string) { clue.color = v },
	})
	text, err := l.text()
	if err != nil {
		return clue, err
	}
	n, perr := strconv.ParseUint(strings.TrimSpace(text), 10, 27)
	if perr != nil || n == 0 {
		l.diags.Add(diag.ClueInvalidCount, l.loc())
		n = 0
	}
	clue.count = uint32(n)
	return clue, nil
}

// solution handles one solution element: exactly one image plus notes. A
// solution with no usable image is discarded.
func (l *loader) solution(start xml.StartElement, sc *puzzleScratch) error {
	sol := scratchSolution{typ: model.Goal}
	l.attrs(start, map[string]func(string){
		"type": func(v string) {
			switch v {
			case "goal":
				sol.typ = model.Goal
			case "solution":
				sol.typ = model.Solved
			case "saved":
				sol.typ = model.Saved
			default:
				l.diags.Add(diag.SolutionInvalidType, l.loc())
			}
		},
		"id": func(v string) { sol.id = v },
	})

	seenImage := false
	err := l.children(map[string]childFunc{
		"image": func(s xml.StartElement) error {
			text, err := l.text()
			if err != nil {
				return err
			}
			if seenImage {
				l.diags.Add(diag.SolutionDuplicateImage, l.loc())
				return nil
			}
			seenImage = true
			rows, ok := parseImage(text)
			if !ok {
				l.diags.Add(diag.ImageInvalid, l.loc())
				return nil
			}
			sol.rows = rows
			return nil
		},
		"note": l.textAppend(&sol.notes),
	})
	if err != nil {
		return err
	}

	if !seenImage {
		l.diags.Add(diag.SolutionMissingImage, l.loc())
		return nil
	}
	if sol.rows == nil {
		// Image was present but structurally invalid; already diagnosed.
		return nil
	}
	sol.loc = l.loc()
	sc.solutions = append(sc.solutions, sol)
	return nil
}
