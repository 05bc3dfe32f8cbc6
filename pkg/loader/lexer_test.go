package loader

import (
	"testing"
)

func TestLexer_Declaration(t *testing.T) {
	input := `std::vector<std::vector<int>> matrix_a = {{1, -2}};`

	tokens := NewLexer(input).Tokenize()

	expected := []TokenType{
		TokenIdent, TokenIdent, TokenIdent, TokenIdent, TokenIdent, TokenIdent,
		TokenAssign, TokenLBrace, TokenLBrace, TokenInt, TokenComma, TokenInt,
		TokenRBrace, TokenRBrace, TokenSemicolon, TokenEOF,
	}
	if len(tokens) != len(expected) {
		t.Fatalf("expected %d tokens, got %d: %v", len(expected), len(tokens), tokens)
	}

	for i, tok := range tokens {
		if tok.Type != expected[i] {
			t.Errorf("token %d: expected %v, got %v", i, expected[i], tok.Type)
		}
	}

	if tokens[5].Value != "matrix_a" {
		t.Errorf("expected identifier matrix_a, got %q", tokens[5].Value)
	}
	if tokens[11].Value != "-2" {
		t.Errorf("expected -2, got %q", tokens[11].Value)
	}
}

func TestLexer_Numbers(t *testing.T) {
	tests := []struct {
		input    string
		expected TokenType
	}{
		{"42", TokenInt},
		{"-42", TokenInt},
		{"+7", TokenInt},
		{"3.14", TokenFloat},
		{"1e5", TokenFloat},
		{"10u", TokenFloat},
		{"0x1F", TokenFloat},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tokens := NewLexer(tt.input).Tokenize()
			if tokens[0].Type != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, tokens[0].Type)
			}
			if tokens[0].Value != tt.input {
				t.Errorf("expected value %q, got %q", tt.input, tokens[0].Value)
			}
		})
	}
}

func TestLexer_Comments(t *testing.T) {
	input := `// matrix_a = {{9}}
/* matrix_b
   = {{9}} */ x`

	tokens := NewLexer(input).Tokenize()

	expected := []TokenType{TokenNewline, TokenIdent, TokenEOF}
	if len(tokens) != len(expected) {
		t.Fatalf("expected %d tokens, got %d: %v", len(expected), len(tokens), tokens)
	}
	for i, tok := range tokens {
		if tok.Type != expected[i] {
			t.Errorf("token %d: expected %v, got %v", i, expected[i], tok.Type)
		}
	}
	if tokens[1].Line != 3 {
		t.Errorf("expected x on line 3, got line %d", tokens[1].Line)
	}
}

func TestLexer_LineNumbers(t *testing.T) {
	tokens := NewLexer("a\nb\n\nc").Tokenize()

	lines := map[string]int{}
	for _, tok := range tokens {
		if tok.Type == TokenIdent {
			lines[tok.Value] = tok.Line
		}
	}

	if lines["a"] != 1 || lines["b"] != 2 || lines["c"] != 4 {
		t.Errorf("expected lines a=1 b=2 c=4, got %v", lines)
	}
}

func TestTokenType_String(t *testing.T) {
	if TokenLBrace.String() != "LBRACE" {
		t.Errorf("expected LBRACE, got %s", TokenLBrace.String())
	}
	if TokenType(200).String() != "UNKNOWN" {
		t.Errorf("expected UNKNOWN, got %s", TokenType(200).String())
	}
}
