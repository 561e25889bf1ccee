package parser

// Image text grammar: an image is a sequence of rows, each '|' cell+ '|'.
// Whitespace between and inside rows is ignored. A cell is a single
// printable character, a bare '?' (full palette), or a bracketed group
// "[c1c2...]" of candidate glyphs with no whitespace, '?', '\', or '/'
// inside. Empty images, empty rows, and empty groups are invalid.

func isImageSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isGlyph(c byte) bool {
	return c >= 0x20 && c <= 0x7E
}

// parseImage scans image text into rows of cell tokens. A token is "?", a
// single glyph, or the interior of a bracketed group. Returns ok=false on
// any structural violation.
func parseImage(text string) (rows [][]string, ok bool) {
	i, n := 0, len(text)
	for {
		for i < n && isImageSpace(text[i]) {
			i++
		}
		if i >= n {
			break
		}
		if text[i] != '|' {
			return nil, false
		}
		i++
		row, rest, ok := parseImageRow(text, i)
		if !ok {
			return nil, false
		}
		rows = append(rows, row)
		i = rest
	}
	if len(rows) == 0 {
		return nil, false
	}
	return rows, true
}

// parseImageRow scans the cells of one row starting just after its opening
// '|' and returns the position just after its closing '|'.
func parseImageRow(text string, i int) (row []string, rest int, ok bool) {
	n := len(text)
	for {
		for i < n && isImageSpace(text[i]) {
			i++
		}
		if i >= n {
			return nil, 0, false
		}
		switch c := text[i]; {
		case c == '|':
			if len(row) == 0 {
				return nil, 0, false
			}
			return row, i + 1, true
		case c == '[':
			group, rest, ok := parseImageGroup(text, i+1)
			if !ok {
				return nil, 0, false
			}
			row = append(row, group)
			i = rest
		case c == ']' || c == '/' || c == '\\':
			return nil, 0, false
		case c == '?':
			row = append(row, "?")
			i++
		case isGlyph(c):
			row = append(row, text[i:i+1])
			i++
		default:
			return nil, 0, false
		}
	}
}

// parseImageGroup scans a bracketed group starting just after its '[' and
// returns the interior and the position just after the ']'.
func parseImageGroup(text string, i int) (group string, rest int, ok bool) {
	n := len(text)
	start := i
	for i < n && text[i] != ']' {
		c := text[i]
		if c == '?' || c == '\\' || c == '/' || c == '[' || c == '|' || isImageSpace(c) || !isGlyph(c) {
			return "", 0, false
		}
		i++
	}
	if i >= n || i == start {
		return "", 0, false
	}
	return text[start:i], i + 1, true
}
