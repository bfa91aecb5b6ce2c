package parser

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Lexer splits a statement into tokens. Unlike keywords, quoted literals keep
// their exact content, including interior spaces.
type Lexer struct {
	input string
	pos   int
}

func NewLexer(input string) *Lexer {
	return &Lexer{input: strings.TrimSpace(input)}
}

func (l *Lexer) NextToken() Token {
	l.skipWhitespace()

	if l.pos >= len(l.input) {
		return Token{Type: EOF, Position: l.pos}
	}

	start := l.pos
	ch := l.input[l.pos]

	if tt, ok := singleCharTokens[ch]; ok {
		l.pos++
		return Token{Type: tt, Value: string(ch), Position: start}
	}

	if isQuoteChar(ch) {
		return l.readString(start)
	}
	return l.readWord(start)
}

// Tokenize returns every token up to and including EOF, or stops at the
// first INVALID token.
func (l *Lexer) Tokenize() []Token {
	tokens := []Token{}
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == EOF || tok.Type == INVALID {
			return tokens
		}
	}
}

func isQuoteChar(ch byte) bool { return ch == '\'' || ch == '"' }

// peekRune decodes the character at the current position. Multi-byte
// characters are never split, so their continuation bytes cannot be
// mistaken for whitespace.
func (l *Lexer) peekRune() (rune, int) {
	return utf8.DecodeRuneInString(l.input[l.pos:])
}

func isWordRune(r rune) bool {
	if r < utf8.RuneSelf {
		if _, ok := singleCharTokens[byte(r)]; ok {
			return false
		}
		if isQuoteChar(byte(r)) {
			return false
		}
	}
	return !unicode.IsSpace(r)
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.input) {
		r, size := l.peekRune()
		if !unicode.IsSpace(r) {
			return
		}
		l.pos += size
	}
}

// readString reads a literal delimited by matching single or double quotes.
// An unterminated literal is INVALID.
func (l *Lexer) readString(start int) Token {
	quote := l.input[l.pos]
	end := strings.IndexByte(l.input[l.pos+1:], quote)
	if end < 0 {
		l.pos = len(l.input)
		return Token{Type: INVALID, Value: l.input[start:], Position: start}
	}

	value := l.input[l.pos+1 : l.pos+1+end]
	l.pos += end + 2
	return Token{Type: STRING, Value: value, Position: start}
}

func (l *Lexer) readWord(start int) Token {
	for l.pos < len(l.input) {
		r, size := l.peekRune()
		if !isWordRune(r) {
			break
		}
		l.pos += size
	}
	word := l.input[start:l.pos]
	if tt, ok := keywords[word]; ok {
		return Token{Type: tt, Value: word, Position: start}
	}
	return Token{Type: WORD, Value: word, Position: start}
}
