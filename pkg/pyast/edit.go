// pkg/pyast/edit.go
package pyast

import (
	"strings"
)

// ParseSnippet parses src written at column zero and reindents every
// statement to sit at indent.
func ParseSnippet(src, indent string) ([]*Stmt, error) {
	mod, err := Parse(src)
	if err != nil {
		return nil, err
	}
	body := mod.Body
	if n := len(body); n > 0 && body[n-1].Kind == Trivia {
		body = body[:n-1]
	}
	for _, s := range body {
		reindent(s, indent)
	}
	return body, nil
}

func reindent(s *Stmt, indent string) {
	if indent == "" {
		return
	}
	s.Indent = indent + s.Indent
	s.Lead = prefixLines(s.Lead, indent)
	s.Decorators = prefixLines(s.Decorators, indent)
	s.Head = prefixLines(s.Head, indent)
	for _, child := range s.Body {
		reindent(child, indent)
	}
}

// prefixLines indents every non-blank line of text
func prefixLines(text, indent string) string {
	if text == "" {
		return ""
	}
	var b strings.Builder
	for _, line := range strings.SplitAfter(text, "\n") {
		if strings.TrimSpace(line) != "" {
			b.WriteString(indent)
		}
		b.WriteString(line)
	}
	return b.String()
}

// InsertBefore inserts stmts ahead of body[idx] and returns the new slice.
// The leading trivia of body[idx] moves to the first inserted statement and
// body[idx] takes lead instead, so comments stay attached to the top of the
// region they introduced.
func InsertBefore(body []*Stmt, idx int, lead string, stmts ...*Stmt) []*Stmt {
	if len(stmts) == 0 {
		return body
	}
	target := body[idx]
	stmts[0].Lead = target.Lead + stmts[0].Lead
	target.Lead = lead

	out := make([]*Stmt, 0, len(body)+len(stmts))
	out = append(out, body[:idx]...)
	out = append(out, stmts...)
	out = append(out, body[idx:]...)
	return out
}

// InsertBefore inserts module-level statements ahead of Body[idx]
func (m *Module) InsertBefore(idx int, lead string, stmts ...*Stmt) {
	m.Body = InsertBefore(m.Body, idx, lead, stmts...)
}

// InsertAbove is InsertBefore for declarations: the comment lines directly
// above body[idx] stay attached to it and end up after lead.
func InsertAbove(body []*Stmt, idx int, lead string, stmts ...*Stmt) []*Stmt {
	if len(stmts) == 0 {
		return body
	}
	target := body[idx]
	gap, attached := SplitLead(target.Lead)
	target.Lead = gap
	return InsertBefore(body, idx, lead+attached, stmts...)
}

// InsertAbove inserts module-level declarations ahead of Body[idx]
func (m *Module) InsertAbove(idx int, lead string, stmts ...*Stmt) {
	m.Body = InsertAbove(m.Body, idx, lead, stmts...)
}

// SplitLead splits leading trivia into the part separated from the
// statement by a blank line and the comment block touching it.
func SplitLead(lead string) (gap, attached string) {
	lines := strings.SplitAfter(lead, "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	i := len(lines)
	for i > 0 && strings.TrimSpace(lines[i-1]) != "" {
		i--
	}
	return strings.Join(lines[:i], ""), strings.Join(lines[i:], "")
}

// Append adds statements at the end of the module, ahead of any trailing
// comments.
func (m *Module) Append(stmts ...*Stmt) {
	if len(stmts) == 0 {
		return
	}
	n := len(m.Body)
	if n > 0 && m.Body[n-1].Kind == Trivia {
		trailer := m.Body[n-1]
		m.Body = m.Body[:n-1]
		terminate(m.String(), stmts[0])
		m.Body = append(m.Body, stmts...)
		m.Body = append(m.Body, trailer)
		return
	}
	terminate(m.String(), stmts[0])
	m.Body = append(m.Body, stmts...)
}

// Append adds statements at the end of a compound statement's block
func (s *Stmt) Append(stmts ...*Stmt) {
	if len(stmts) == 0 {
		return
	}
	terminate(s.String(), stmts[0])
	s.Body = append(s.Body, stmts...)
}

// Truncate keeps the first n statements of the block
func (s *Stmt) Truncate(n int) {
	if n < len(s.Body) {
		s.Body = s.Body[:n]
	}
}

// Replace swaps body[idx] for stmt, keeping the original's leading trivia
func Replace(body []*Stmt, idx int, stmt *Stmt) {
	stmt.Lead = body[idx].Lead + stmt.Lead
	body[idx] = stmt
}

// terminate makes sure next starts on a fresh line after prev
func terminate(prev string, next *Stmt) {
	if prev != "" && !strings.HasSuffix(prev, "\n") {
		next.Lead = "\n" + next.Lead
	}
}
