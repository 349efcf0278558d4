package latex

import (
	"unicode"
	"unicode/utf8"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokChar
	tokCommand
	tokOpenBrace
	tokCloseBrace
	tokSuper
	tokSub
	tokAlign
	tokArg
	tokSpace
)

type token struct {
	kind tokenKind
	text string // command name with backslash, the character, or the arg name
	pos  int
	end  int
}

// lexer splits input into tokens on demand.
type lexer struct {
	src string
	pos int
}

func (l *lexer) next() token {
	if l.pos >= len(l.src) {
		return token{kind: tokEOF, pos: l.pos, end: l.pos}
	}
	start := l.pos
	r, size := utf8.DecodeRuneInString(l.src[l.pos:])
	l.pos += size
	tok := func(k tokenKind, text string) token {
		return token{kind: k, text: text, pos: start, end: l.pos}
	}
	switch {
	case r == '\\':
		if l.pos >= len(l.src) {
			return tok(tokChar, `\`)
		}
		r2, size2 := utf8.DecodeRuneInString(l.src[l.pos:])
		if !isLetter(r2) {
			l.pos += size2
			if r2 == '\\' {
				return tok(tokCommand, `\\`)
			}
			return tok(tokCommand, `\`+string(r2))
		}
		for l.pos < len(l.src) {
			r3, size3 := utf8.DecodeRuneInString(l.src[l.pos:])
			if !isLetter(r3) {
				break
			}
			l.pos += size3
		}
		return tok(tokCommand, l.src[start:l.pos])
	case r == '{':
		return tok(tokOpenBrace, "{")
	case r == '}':
		return tok(tokCloseBrace, "}")
	case r == '^':
		return tok(tokSuper, "^")
	case r == '_':
		return tok(tokSub, "_")
	case r == '&':
		return tok(tokAlign, "&")
	case r == '#':
		if l.pos < len(l.src) {
			r2, size2 := utf8.DecodeRuneInString(l.src[l.pos:])
			l.pos += size2
			return tok(tokArg, string(r2))
		}
		return tok(tokChar, "#")
	case unicode.IsSpace(r):
		for l.pos < len(l.src) {
			r2, size2 := utf8.DecodeRuneInString(l.src[l.pos:])
			if !unicode.IsSpace(r2) {
				break
			}
			l.pos += size2
		}
		return tok(tokSpace, " ")
	}
	return tok(tokChar, string(r))
}

// peek returns the next token without consuming it.
func (l *lexer) peek() token {
	save := l.pos
	t := l.next()
	l.pos = save
	return t
}

// skipSpace consumes whitespace tokens.
func (l *lexer) skipSpace() {
	for l.peek().kind == tokSpace {
		l.next()
	}
}

func isLetter(r rune) bool {
	return r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z'
}
