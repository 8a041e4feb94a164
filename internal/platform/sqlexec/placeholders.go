package sqlexec

import (
	"strconv"
	"strings"
)

// Syntax describes the lexical rules a dialect applies to statement text
// when looking for "?" placeholders. The zero value is standard SQL:
// doubled quotes inside literals, "--" line comments and "/* */" block
// comments.
type Syntax struct {
	// BackslashEscapes makes "\" escape the next byte inside quoted text.
	BackslashEscapes bool

	// HashComments makes "#" start a comment that runs to the end of the line.
	HashComments bool

	// DashCommentSpace requires whitespace after "--" for it to start a
	// comment, so "5--1" stays an expression.
	DashCommentSpace bool

	// ExecutableComments keeps "/*! ... */" bodies as statement text.
	ExecutableComments bool
}

// MySQLSyntax matches MySQL's default sql_mode.
var MySQLSyntax = Syntax{
	BackslashEscapes:   true,
	HashComments:       true,
	DashCommentSpace:   true,
	ExecutableComments: true,
}

// CountPlaceholders returns the number of "?" placeholders in statement
// under standard SQL rules.
func CountPlaceholders(statement string) int {
	return Syntax{}.CountPlaceholders(statement)
}

// CountPlaceholders returns the number of "?" placeholders in statement.
// Question marks inside quoted text or comments are not placeholders.
func (s Syntax) CountPlaceholders(statement string) int {
	n := 0
	s.scan(statement, func(int) { n++ })
	return n
}

// RebindDollar rewrites "?" placeholders into PostgreSQL's numbered "$1, $2, ..."
// form, leaving quoted text and comments untouched.
func RebindDollar(statement string) string {
	if !strings.Contains(statement, "?") {
		return statement
	}

	var b strings.Builder
	b.Grow(len(statement) + 8)

	last, n := 0, 0
	Syntax{}.scan(statement, func(pos int) {
		n++
		b.WriteString(statement[last:pos])
		b.WriteByte('$')
		b.WriteString(strconv.Itoa(n))
		last = pos + 1
	})
	b.WriteString(statement[last:])

	return b.String()
}

// scan calls fn with the byte offset of every placeholder. A doubled quote
// inside a literal toggles the quote state twice, so it needs no special case.
// An unterminated comment runs to the end of the statement.
func (s Syntax) scan(statement string, fn func(pos int)) {
	var quote byte
	for i := 0; i < len(statement); i++ {
		c := statement[i]
		if quote != 0 {
			switch {
			case c == '\\' && s.BackslashEscapes && quote != '`':
				i++
			case c == quote:
				quote = 0
			}
			continue
		}

		switch {
		case c == '\'' || c == '"' || c == '`':
			quote = c
		case c == '-' && s.dashComment(statement, i):
			i = lineEnd(statement, i)
		case c == '#' && s.HashComments:
			i = lineEnd(statement, i)
		case c == '/' && s.blockComment(statement, i):
			end := strings.Index(statement[i+2:], "*/")
			if end < 0 {
				return
			}
			i += 2 + end + 1
		case c == '?':
			fn(i)
		}
	}
}

func (s Syntax) dashComment(statement string, i int) bool {
	if !strings.HasPrefix(statement[i:], "--") {
		return false
	}
	if !s.DashCommentSpace {
		return true
	}
	next := i + 2
	return next == len(statement) || statement[next] <= ' '
}

func (s Syntax) blockComment(statement string, i int) bool {
	if !strings.HasPrefix(statement[i:], "/*") {
		return false
	}
	return !(s.ExecutableComments && strings.HasPrefix(statement[i+2:], "!"))
}

// lineEnd returns the offset of the newline ending the line that holds i, or
// len(statement) on the last line.
func lineEnd(statement string, i int) int {
	if j := strings.IndexByte(statement[i:], '\n'); j >= 0 {
		return i + j
	}
	return len(statement)
}
