package loader

import (
	"unicode"
)

// TokenType represents the type of a token.
type TokenType uint8

const (
	TokenEOF TokenType = iota
	TokenNewline
	TokenIdent     // identifiers, including matrix names
	TokenInt       // integer literals
	TokenFloat     // non-integer numeric literals
	TokenLBrace    // {
	TokenRBrace    // }
	TokenComma     // ,
	TokenAssign    // =
	TokenSemicolon // ;
)

// String returns the string representation of a token type.
func (t TokenType) String() string {
	switch t {
	case TokenEOF:
		return "EOF"
	case TokenNewline:
		return "NEWLINE"
	case TokenIdent:
		return "IDENT"
	case TokenInt:
		return "INT"
	case TokenFloat:
		return "FLOAT"
	case TokenLBrace:
		return "LBRACE"
	case TokenRBrace:
		return "RBRACE"
	case TokenComma:
		return "COMMA"
	case TokenAssign:
		return "ASSIGN"
	case TokenSemicolon:
		return "SEMICOLON"
	default:
		return "UNKNOWN"
	}
}

// Token represents a lexical token.
type Token struct {
	Type  TokenType
	Value string
	Line  int
}

// Lexer tokenizes matrix source files. Anything it does not recognize
// (type names' punctuation, parentheses, operators) is skipped.
type Lexer struct {
	input  string
	pos    int
	line   int
	tokens []Token
}

// NewLexer creates a new lexer for the given input.
func NewLexer(input string) *Lexer {
	return &Lexer{
		input:  input,
		pos:    0,
		line:   1,
		tokens: []Token{},
	}
}

// Tokenize tokenizes the entire input and returns the tokens.
func (l *Lexer) Tokenize() []Token {
	for l.pos < len(l.input) {
		l.skipWhitespace()
		if l.pos >= len(l.input) {
			break
		}

		ch := l.input[l.pos]

		switch {
		case ch == '\n':
			l.emit(TokenNewline, "\n")
			l.line++
			l.pos++

		case ch == '/' && l.peek() == '/':
			for l.pos < len(l.input) && l.input[l.pos] != '\n' {
				l.pos++
			}

		case ch == '/' && l.peek() == '*':
			l.skipBlockComment()

		case ch == '{':
			l.emit(TokenLBrace, "{")
			l.pos++

		case ch == '}':
			l.emit(TokenRBrace, "}")
			l.pos++

		case ch == ',':
			l.emit(TokenComma, ",")
			l.pos++

		case ch == '=':
			l.emit(TokenAssign, "=")
			l.pos++

		case ch == ';':
			l.emit(TokenSemicolon, ";")
			l.pos++

		case (ch == '-' || ch == '+') && isDigit(l.peek()):
			l.scanNumber()

		case isDigit(ch):
			l.scanNumber()

		case unicode.IsLetter(rune(ch)) || ch == '_':
			l.scanIdent()

		default:
			l.pos++
		}
	}

	l.emit(TokenEOF, "")
	return l.tokens
}

func (l *Lexer) emit(t TokenType, value string) {
	l.tokens = append(l.tokens, Token{Type: t, Value: value, Line: l.line})
}

func (l *Lexer) peek() byte {
	if l.pos+1 < len(l.input) {
		return l.input[l.pos+1]
	}
	return 0
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.input) {
		ch := l.input[l.pos]
		if ch == ' ' || ch == '\t' || ch == '\r' {
			l.pos++
		} else {
			break
		}
	}
}

func (l *Lexer) skipBlockComment() {
	l.pos += 2
	for l.pos < len(l.input) {
		if l.input[l.pos] == '*' && l.peek() == '/' {
			l.pos += 2
			return
		}
		if l.input[l.pos] == '\n' {
			l.line++
		}
		l.pos++
	}
}

func (l *Lexer) scanNumber() {
	start := l.pos
	isFloat := false

	if l.input[l.pos] == '-' || l.input[l.pos] == '+' {
		l.pos++
	}

	for l.pos < len(l.input) && isDigit(l.input[l.pos]) {
		l.pos++
	}

	if l.pos < len(l.input) && l.input[l.pos] == '.' {
		isFloat = true
		l.pos++
		for l.pos < len(l.input) && isDigit(l.input[l.pos]) {
			l.pos++
		}
	}

	// Trailing letters (1e5, 10u, 0x1F) make the literal something other
	// than a plain decimal integer.
	for l.pos < len(l.input) && (unicode.IsLetter(rune(l.input[l.pos])) || isDigit(l.input[l.pos])) {
		isFloat = true
		l.pos++
	}

	value := l.input[start:l.pos]
	if isFloat {
		l.emit(TokenFloat, value)
	} else {
		l.emit(TokenInt, value)
	}
}

func (l *Lexer) scanIdent() {
	start := l.pos
	l.pos++

	for l.pos < len(l.input) {
		ch := l.input[l.pos]
		if unicode.IsLetter(rune(ch)) || isDigit(ch) || ch == '_' {
			l.pos++
		} else {
			break
		}
	}

	l.emit(TokenIdent, l.input[start:l.pos])
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}
