// pkg/pyast/parser.go
package pyast

import (
	"regexp"
	"strings"
)

var (
	classRe    = regexp.MustCompile(`^class\s+([A-Za-z_]\w*)`)
	functionRe = regexp.MustCompile(`^(?:async\s+)?def\s+([A-Za-z_]\w*)`)
	importRe   = regexp.MustCompile(`^(?:import|from)\s`)
	assignRe   = regexp.MustCompile(`^([A-Za-z_]\w*)\s*(?::[^=\n]*)?=`)
	stringRe   = regexp.MustCompile(`^[rRbBuUfF]{0,2}['"]`)
)

// keywords that can precede ':' on a one-line compound statement
var keywords = map[string]bool{
	"if": true, "elif": true, "else": true, "for": true, "while": true,
	"try": true, "except": true, "finally": true, "with": true,
	"lambda": true, "match": true, "case": true,
}

type frame struct {
	indent string
	body   *[]*Stmt
}

// Parse builds the statement tree of a Python module. Every byte of src
// ends up in exactly one statement, so Module.String returns src.
func Parse(src string) (*Module, error) {
	lines, err := splitLogical(src)
	if err != nil {
		return nil, err
	}

	mod := &Module{}
	stack := []frame{{indent: "", body: &mod.Body}}
	var (
		lead    strings.Builder
		decos   strings.Builder
		decoTop string
		decoLn  int
		pending *Stmt
	)

	for _, ll := range lines {
		if ll.blank {
			lead.WriteString(ll.text)
			continue
		}

		top := stack[len(stack)-1]
		switch {
		case pending != nil:
			if !deeper(ll.indent, top.indent) {
				return nil, &SyntaxError{Line: ll.line, Msg: "expected an indented block"}
			}
			stack = append(stack, frame{indent: ll.indent, body: &pending.Body})
			pending = nil
		case ll.indent != top.indent:
			if deeper(ll.indent, top.indent) {
				return nil, &SyntaxError{Line: ll.line, Msg: "unexpected indent"}
			}
			for len(stack) > 1 && stack[len(stack)-1].indent != ll.indent {
				if !strings.HasPrefix(stack[len(stack)-1].indent, ll.indent) {
					return nil, &SyntaxError{Line: ll.line, Msg: "inconsistent use of tabs and spaces in indentation"}
				}
				stack = stack[:len(stack)-1]
			}
			if stack[len(stack)-1].indent != ll.indent {
				return nil, &SyntaxError{Line: ll.line, Msg: "unindent does not match any outer indentation level"}
			}
		}
		top = stack[len(stack)-1]

		if strings.HasPrefix(ll.code, "@") {
			if decos.Len() == 0 {
				decoTop = lead.String()
				decoLn = ll.line
			} else {
				decos.WriteString(lead.String())
			}
			lead.Reset()
			decos.WriteString(ll.text)
			continue
		}

		s := &Stmt{
			Indent:   ll.indent,
			Lead:     lead.String(),
			Head:     ll.text,
			Compound: ll.colon,
		}
		s.Kind, s.Name = classify(ll.code)
		lead.Reset()

		if decos.Len() > 0 {
			if s.Kind != Class && s.Kind != Function {
				return nil, &SyntaxError{Line: decoLn, Msg: "decorator not followed by a definition"}
			}
			decos.WriteString(s.Lead)
			s.Decorators = decos.String()
			s.Lead = decoTop
			decos.Reset()
		}

		*top.body = append(*top.body, s)
		if s.Compound {
			pending = s
		}
	}

	if pending != nil {
		return nil, &SyntaxError{Line: lastLine(lines), Msg: "expected an indented block"}
	}
	if decos.Len() > 0 {
		return nil, &SyntaxError{Line: decoLn, Msg: "decorator not followed by a definition"}
	}
	if lead.Len() > 0 {
		mod.Body = append(mod.Body, &Stmt{Kind: Trivia, Lead: lead.String()})
	}
	return mod, nil
}

func classify(code string) (Kind, string) {
	if m := classRe.FindStringSubmatch(code); m != nil {
		return Class, m[1]
	}
	if m := functionRe.FindStringSubmatch(code); m != nil {
		return Function, m[1]
	}
	if importRe.MatchString(code) {
		return Import, ""
	}
	if m := assignRe.FindStringSubmatch(code); m != nil {
		// `x == y` is a comparison and `else: x = 1` is not a binding of else
		compound := keywords[m[1]] && strings.Contains(m[0], ":")
		if !compound && !strings.HasPrefix(code[len(m[0]):], "=") {
			return Assign, m[1]
		}
	}
	if stringRe.MatchString(code) {
		return Expr, ""
	}
	return Other, ""
}

// deeper reports whether indent a opens a block nested in b
func deeper(a, b string) bool {
	return len(a) > len(b) && strings.HasPrefix(a, b)
}

func lastLine(lines []logicalLine) int {
	if len(lines) == 0 {
		return 1
	}
	return lines[len(lines)-1].line
}
