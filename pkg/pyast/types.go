// pkg/pyast/types.go
package pyast

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnsupported indicates source the structural model cannot represent
// faithfully, so no edit can be guaranteed to produce valid output.
var ErrUnsupported = errors.New("source cannot be represented structurally")

// SyntaxError locates the construct the parser gave up on
type SyntaxError struct {
	Line int
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

func (e *SyntaxError) Unwrap() error {
	return ErrUnsupported
}

// Kind classifies a statement
type Kind int

const (
	// Other is any statement the engine has no anchor for
	Other Kind = iota
	// Trivia holds blank lines and comments at the end of the module
	Trivia
	// Import is an `import` or `from ... import` statement
	Import
	// Class is a class definition
	Class
	// Function is a def or async def
	Function
	// Assign binds a single plain name: `NAME = ...` or `NAME: T = ...`
	Assign
	// Expr is a bare string expression, usually a docstring
	Expr
)

func (k Kind) String() string {
	switch k {
	case Trivia:
		return "trivia"
	case Import:
		return "import"
	case Class:
		return "class"
	case Function:
		return "function"
	case Assign:
		return "assignment"
	case Expr:
		return "expression"
	default:
		return "statement"
	}
}

// Stmt is one statement with the exact source text it came from.
// Writing Lead, Decorators, Head and then Body reproduces the input.
type Stmt struct {
	Kind       Kind
	Name       string  // class, function or assignment target name
	Indent     string  // indentation of the statement's first line
	Lead       string  // blank and comment lines before the statement
	Decorators string  // decorator lines, verbatim
	Head       string  // the logical line(s) of the statement itself
	Compound   bool    // head ends with ':' and owns an indented block
	Body       []*Stmt // the indented block of a compound statement
}

// Module is a parsed source file
type Module struct {
	Body []*Stmt
}

// String renders the statement and its block
func (s *Stmt) String() string {
	var b strings.Builder
	s.write(&b)
	return b.String()
}

func (s *Stmt) write(b *strings.Builder) {
	b.WriteString(s.Lead)
	b.WriteString(s.Decorators)
	b.WriteString(s.Head)
	for _, child := range s.Body {
		child.write(b)
	}
}

// String renders the module
func (m *Module) String() string {
	var b strings.Builder
	for _, s := range m.Body {
		s.write(&b)
	}
	return b.String()
}

// Find returns the index and statement of the first entry of body with
// the given kind and name, or -1 and nil.
func Find(body []*Stmt, kind Kind, name string) (int, *Stmt) {
	for i, s := range body {
		if s.Kind == kind && s.Name == name {
			return i, s
		}
	}
	return -1, nil
}

// FindKind returns the first entry of body with the given kind
func FindKind(body []*Stmt, kind Kind) (int, *Stmt) {
	for i, s := range body {
		if s.Kind == kind {
			return i, s
		}
	}
	return -1, nil
}
