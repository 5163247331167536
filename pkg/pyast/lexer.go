// pkg/pyast/lexer.go
package pyast

import (
	"strings"
)

// logicalLine is one Python logical line, or a run-of-one blank/comment line
type logicalLine struct {
	text   string // verbatim, including the trailing newline
	indent string
	code   string // text without indentation
	blank  bool
	colon  bool // last significant character outside brackets is ':'
	line   int
}

// splitLogical cuts src into logical lines. Strings, comments, bracket
// nesting and backslash continuations are tracked so that a line break
// inside any of them does not end the statement.
func splitLogical(src string) ([]logicalLine, error) {
	var out []logicalLine
	pos, line := 0, 1

	for pos < len(src) {
		eol := strings.IndexByte(src[pos:], '\n')
		if eol < 0 {
			eol = len(src)
		} else {
			eol += pos + 1
		}
		phys := src[pos:eol]
		trimmed := strings.TrimLeft(phys, " \t\f")
		content := strings.TrimRight(trimmed, "\r\n")
		if content == "" || strings.HasPrefix(content, "#") {
			out = append(out, logicalLine{text: phys, blank: true, line: line})
			pos = eol
			line++
			continue
		}

		indent := phys[:len(phys)-len(trimmed)]
		end, last, err := scanLogical(src, pos+len(indent), line)
		if err != nil {
			return nil, err
		}
		text := src[pos:end]
		out = append(out, logicalLine{
			text:   text,
			indent: indent,
			code:   text[len(indent):],
			colon:  last == ':',
			line:   line,
		})
		line += strings.Count(text, "\n")
		pos = end
	}
	return out, nil
}

// scanLogical returns the end offset of the logical line starting at i and
// its last significant character.
func scanLogical(src string, i, line int) (int, byte, error) {
	depth := 0
	var last byte

	for i < len(src) {
		c := src[i]
		switch c {
		case '#':
			for i < len(src) && src[i] != '\n' {
				i++
			}
		case '\\':
			switch {
			case strings.HasPrefix(src[i+1:], "\n"):
				i += 2
				line++
			case strings.HasPrefix(src[i+1:], "\r\n"):
				i += 3
				line++
			default:
				last = c
				i++
			}
		case '\'', '"':
			end, err := skipString(src, i, line)
			if err != nil {
				return 0, 0, err
			}
			line += strings.Count(src[i:end], "\n")
			i = end
			last = c
		case '(', '[', '{':
			depth++
			last = c
			i++
		case ')', ']', '}':
			depth--
			if depth < 0 {
				return 0, 0, &SyntaxError{Line: line, Msg: "unmatched '" + string(c) + "'"}
			}
			last = c
			i++
		case '\n':
			if depth == 0 {
				return i + 1, last, nil
			}
			line++
			i++
		case ' ', '\t', '\r', '\f':
			i++
		default:
			last = c
			i++
		}
	}
	if depth > 0 {
		return 0, 0, &SyntaxError{Line: line, Msg: "unclosed bracket at end of file"}
	}
	return len(src), last, nil
}

// skipString returns the offset just past the string literal opening at i
func skipString(src string, i, line int) (int, error) {
	q := src[i]
	if strings.HasPrefix(src[i:], string([]byte{q, q, q})) {
		closing := string([]byte{q, q, q})
		for j := i + 3; j < len(src); {
			switch {
			case src[j] == '\\':
				j += 2
			case strings.HasPrefix(src[j:], closing):
				return j + 3, nil
			default:
				j++
			}
		}
		return 0, &SyntaxError{Line: line, Msg: "unterminated triple-quoted string"}
	}

	for j := i + 1; j < len(src); {
		switch src[j] {
		case '\\':
			j += 2
		case q:
			return j + 1, nil
		case '\n':
			return 0, &SyntaxError{Line: line, Msg: "unterminated string literal"}
		default:
			j++
		}
	}
	return 0, &SyntaxError{Line: line, Msg: "unterminated string literal"}
}
