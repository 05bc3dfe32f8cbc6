package loader

import (
	"fmt"
	"os"
	"strconv"

	"github.com/Nomnomaki/pim-compiler/pkg/ir"
)

// Names of the two operands in a source file.
const (
	NameA = "matrix_a"
	NameB = "matrix_b"
)

// ParseSource extracts both operands from source text of the form
//
//	std::vector<std::vector<int>> matrix_a = {{1, 2}, {3, 4}};
//	std::vector<std::vector<int>> matrix_b = {{5, 6}, {7, 8}};
//
// Everything other than the two initializers is ignored.
func ParseSource(src string) (a, b ir.Matrix, err error) {
	defs, err := ParseAssignments(src)
	if err != nil {
		return nil, nil, err
	}

	a, okA := defs[NameA]
	if !okA {
		return nil, nil, fmt.Errorf("%w: %s", ErrMatrixNotFound, NameA)
	}
	b, okB := defs[NameB]
	if !okB {
		return nil, nil, fmt.Errorf("%w: %s", ErrMatrixNotFound, NameB)
	}
	return a, b, nil
}

// LoadSourceFile reads a source file and extracts both operands.
func LoadSourceFile(path string) (a, b ir.Matrix, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	return ParseSource(string(data))
}

// ParseAssignments returns every matrix_a / matrix_b initializer found in
// src, written either as name = {...} or name {...}. A later definition replaces an earlier one. Empty rows are dropped,
// so {{}} is a matrix with no rows.
func ParseAssignments(src string) (map[string]ir.Matrix, error) {
	p := &sourceParser{tokens: NewLexer(src).Tokenize()}
	defs := make(map[string]ir.Matrix)

	for p.pos < len(p.tokens) {
		tok := p.tokens[p.pos]
		if tok.Type == TokenEOF {
			break
		}

		if tok.Type == TokenIdent && (tok.Value == NameA || tok.Value == NameB) {
			// Both copy-init (name = {...}) and brace-init (name {...}).
			switch {
			case p.at(1, TokenAssign) && p.at(2, TokenLBrace):
				p.pos += 2
			case p.at(1, TokenLBrace):
				p.pos++
			default:
				p.pos++
				continue
			}
			m, err := p.parseMatrix()
			if err != nil {
				return nil, fmt.Errorf("%s: %w", tok.Value, err)
			}
			if err := CheckRectangular(m); err != nil {
				return nil, fmt.Errorf("line %d: %s: %w", tok.Line, tok.Value, err)
			}
			defs[tok.Value] = m
			continue
		}

		p.pos++
	}

	return defs, nil
}

type sourceParser struct {
	tokens []Token
	pos    int
}

func (p *sourceParser) at(offset int, t TokenType) bool {
	i := p.pos + offset
	return i < len(p.tokens) && p.tokens[i].Type == t
}

// next returns the next token, skipping newlines inside initializers.
func (p *sourceParser) next() Token {
	for p.pos < len(p.tokens) {
		tok := p.tokens[p.pos]
		p.pos++
		if tok.Type != TokenNewline {
			return tok
		}
	}
	return p.tokens[len(p.tokens)-1]
}

func (p *sourceParser) peek() Token {
	save := p.pos
	tok := p.next()
	p.pos = save
	return tok
}

// parseMatrix parses '{' [row {',' row}] [','] '}'.
func (p *sourceParser) parseMatrix() (ir.Matrix, error) {
	open := p.next()
	if open.Type != TokenLBrace {
		return nil, fmt.Errorf("line %d: expected '{', got %q", open.Line, open.Value)
	}

	m := ir.Matrix{}
	for {
		tok := p.peek()
		switch tok.Type {
		case TokenRBrace:
			p.next()
			return m, nil
		case TokenComma:
			p.next()
		case TokenLBrace:
			row, err := p.parseRow()
			if err != nil {
				return nil, err
			}
			if len(row) > 0 {
				m = append(m, row)
			}
		case TokenEOF:
			return nil, fmt.Errorf("line %d: unterminated matrix initializer", tok.Line)
		default:
			return nil, fmt.Errorf("line %d: expected row, got %q", tok.Line, tok.Value)
		}
	}
}

// parseRow parses '{' [int {',' int}] [','] '}'.
func (p *sourceParser) parseRow() ([]int64, error) {
	p.next() // '{'

	row := []int64{}
	for {
		tok := p.next()
		switch tok.Type {
		case TokenRBrace:
			return row, nil
		case TokenComma:
		case TokenInt:
			v, err := strconv.ParseInt(tok.Value, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w: %s", tok.Line, ErrNonInteger, tok.Value)
			}
			row = append(row, v)
		case TokenFloat, TokenIdent:
			return nil, fmt.Errorf("line %d: %w: %s", tok.Line, ErrNonInteger, tok.Value)
		case TokenEOF:
			return nil, fmt.Errorf("line %d: unterminated row", tok.Line)
		default:
			return nil, fmt.Errorf("line %d: unexpected %q in row", tok.Line, tok.Value)
		}
	}
}
