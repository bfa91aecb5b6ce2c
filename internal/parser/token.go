package parser

import "fmt"

type TokenType int

const (
	EOF TokenType = iota
	INVALID

	// keywords
	INSERT
	INTO
	VALUES
	DELETE
	FROM
	WHERE
	SELECT
	AND
	OR

	// a run of non-space characters that is not punctuation: identifiers,
	// qualified names and bare literals
	WORD
	// quoted literal, quotes removed
	STRING

	COMMA
	LPAREN
	RPAREN
	EQUALS
	ASTERISK
	SEMICOLON
)

// Keywords are case sensitive.
var keywords = map[string]TokenType{
	"INSERT": INSERT,
	"INTO":   INTO,
	"VALUES": VALUES,
	"DELETE": DELETE,
	"FROM":   FROM,
	"WHERE":  WHERE,
	"SELECT": SELECT,
	"AND":    AND,
	"OR":     OR,
}

var singleCharTokens = map[byte]TokenType{
	',': COMMA,
	'(': LPAREN,
	')': RPAREN,
	'=': EQUALS,
	'*': ASTERISK,
	';': SEMICOLON,
}

var tokenNames = map[TokenType]string{
	EOF:       "end of input",
	INVALID:   "invalid token",
	WORD:      "name",
	STRING:    "string",
	COMMA:     "','",
	LPAREN:    "'('",
	RPAREN:    "')'",
	EQUALS:    "'='",
	ASTERISK:  "'*'",
	SEMICOLON: "';'",
}

func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	for word, tt := range keywords {
		if tt == t {
			return word
		}
	}
	return fmt.Sprintf("TokenType(%d)", int(t))
}

func (t TokenType) IsKeyword() bool { return t >= INSERT && t <= OR }

type Token struct {
	Type     TokenType
	Value    string
	Position int
}

func (t Token) String() string {
	switch t.Type {
	case EOF:
		return t.Type.String()
	case STRING:
		return fmt.Sprintf("'%s'", t.Value)
	}
	return fmt.Sprintf("%q", t.Value)
}
