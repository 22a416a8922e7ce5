// Package parse tokenises and parses the engine's SQL-like query language
// into an AST the planner consumes: SELECT, INSERT, DELETE, MODIFY, CREATE
// TABLE, CREATE VIEW and CREATE INDEX.
package parse

import (
	"strings"
	"unicode"

	"simpledb/common"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokKeyword
	tokIdent
	tokIntLit
	tokStringLit
	tokDelim // punctuation: ( ) , . = + - * /
)

type token struct {
	kind tokenKind
	text string
	ival int32
	pos  int
}

var keywords = map[string]bool{
	"select": true, "from": true, "where": true, "and": true,
	"insert": true, "into": true, "values": true,
	"delete": true, "modify": true, "set": true,
	"create": true, "table": true, "view": true, "index": true, "on": true, "as": true,
	"varchar": true, "i32": true, "int": true, "null": true, "is": true,
	"group": true, "by": true, "order": true,
	"max": true, "min": true, "sum": true, "count": true, "avg": true,
	"using": true, "hash": true, "btree": true,
}

// lexer tokenises raw SQL text, one token ahead at a time.
type lexer struct {
	src  string
	pos  int
	tok  token
	peek bool // true when tok holds an unconsumed lookahead
}

func newLexer(sql string) *lexer {
	return &lexer{src: sql}
}

func (l *lexer) skipSpace() {
	for l.pos < len(l.src) && unicode.IsSpace(rune(l.src[l.pos])) {
		l.pos++
	}
}

func (l *lexer) current() (token, error) {
	if l.peek {
		return l.tok, nil
	}
	tok, err := l.scan()
	if err != nil {
		return token{}, err
	}
	l.tok = tok
	l.peek = true
	return tok, nil
}

func (l *lexer) advance() {
	l.peek = false
}

func (l *lexer) scan() (token, error) {
	l.skipSpace()
	start := l.pos
	if l.pos >= len(l.src) {
		return token{kind: tokEOF, pos: start}, nil
	}
	c := l.src[l.pos]

	switch {
	case c == '(' || c == ')' || c == ',' || c == '.' || c == '=' || c == '+' || c == '-' || c == '*' || c == '/':
		l.pos++
		return token{kind: tokDelim, text: string(c), pos: start}, nil

	case c == '\'':
		l.pos++
		var sb strings.Builder
		for l.pos < len(l.src) && l.src[l.pos] != '\'' {
			sb.WriteByte(l.src[l.pos])
			l.pos++
		}
		if l.pos >= len(l.src) {
			return token{}, common.NewParseError(start, "unterminated string literal")
		}
		l.pos++ // closing quote
		return token{kind: tokStringLit, text: sb.String(), pos: start}, nil

	case c >= '0' && c <= '9':
		for l.pos < len(l.src) && l.src[l.pos] >= '0' && l.src[l.pos] <= '9' {
			l.pos++
		}
		var v int32
		for _, ch := range l.src[start:l.pos] {
			v = v*10 + int32(ch-'0')
		}
		return token{kind: tokIntLit, text: l.src[start:l.pos], ival: v, pos: start}, nil

	case isIdentStart(c):
		for l.pos < len(l.src) && isIdentPart(l.src[l.pos]) {
			l.pos++
		}
		text := l.src[start:l.pos]
		if keywords[strings.ToLower(text)] {
			return token{kind: tokKeyword, text: strings.ToLower(text), pos: start}, nil
		}
		return token{kind: tokIdent, text: text, pos: start}, nil

	default:
		return token{}, common.NewParseError(start, "unexpected character %q", c)
	}
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}
