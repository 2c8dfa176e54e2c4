package calc

import (
	"io"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func num(text string, v float64, pos int) Token {
	return Token{Kind: TokenNumber, Text: text, Value: v, Pos: pos}
}

func tok(kind TokenKind, text string, pos int) Token {
	return Token{Kind: kind, Text: text, Pos: pos}
}

func end(pos int) Token {
	return Token{Kind: TokenEnd, Pos: pos}
}

func TestTokenize(t *testing.T) {
	cases := []struct {
		name   string
		src    string
		tokens []Token
	}{
		// spaces
		{"empty", "", []Token{end(0)}},
		{"spaces", " \t \r\n ", []Token{end(6)}},
		// numbers
		{"zero", "0", []Token{num("0", 0, 0), end(1)}},
		{"digits", "9876543210", []Token{num("9876543210", 9876543210, 0), end(10)}},
		{"two", "1 0", []Token{num("1", 1, 0), num("0", 0, 2), end(3)}},
		{"dot", "1.5", []Token{num("1.5", 1.5, 0), end(3)}},
		{"lead-dot", ".5", []Token{num(".5", 0.5, 0), end(2)}},
		{"trail-dot", "5.", []Token{num("5.", 5, 0), end(2)}},
		{"exp", "1e3", []Token{num("1e3", 1000, 0), end(3)}},
		{"exp-upper", "1E3", []Token{num("1E3", 1000, 0), end(3)}},
		{"exp-plus", "1e+1", []Token{num("1e+1", 10, 0), end(4)}},
		{"exp-minus", "1e-1", []Token{num("1e-1", 0.1, 0), end(4)}},
		{"dot-exp", "1.5e1", []Token{num("1.5e1", 15, 0), end(5)}},
		{"overflow", "1e400", []Token{num("1e400", math.Inf(1), 0), end(5)}},
		{"underflow", "1e-400", []Token{num("1e-400", 0, 0), end(6)}},
		{"neg", "-1", []Token{tok(TokenOp, "-", 0), num("1", 1, 1), end(2)}},
		{"sub", "2-3", []Token{num("2", 2, 0), tok(TokenOp, "-", 1), num("3", 3, 2), end(3)}},
		{"sub-space", "2 -3", []Token{num("2", 2, 0), tok(TokenOp, "-", 2), num("3", 3, 3), end(4)}},
		{"exp-sub", "1e1-1", []Token{num("1e1", 10, 0), tok(TokenOp, "-", 3), num("1", 1, 4), end(5)}},
		{"paren", "(1)", []Token{tok(TokenOpen, "(", 0), num("1", 1, 1), tok(TokenClose, ")", 2), end(3)}},
		// identifiers
		{"e", "e", []Token{tok(TokenIdent, "e", 0), end(1)}},
		{"e1", "e1", []Token{tok(TokenIdent, "e1", 0), end(2)}},
		{"pi", "π", []Token{tok(TokenIdent, "π", 0), end(1)}},
		{"under", "_1234_", []Token{tok(TokenIdent, "_1234_", 0), end(6)}},
		{"call", "sqrt(4, 5)", []Token{
			tok(TokenIdent, "sqrt", 0),
			tok(TokenOpen, "(", 4),
			num("4", 4, 5),
			tok(TokenComma, ",", 6),
			num("5", 5, 8),
			tok(TokenClose, ")", 9),
			end(10),
		}},
		// operators
		{"ops", "+-*/%^!", []Token{
			tok(TokenOp, "+", 0),
			tok(TokenOp, "-", 1),
			tok(TokenOp, "*", 2),
			tok(TokenOp, "/", 3),
			tok(TokenOp, "%", 4),
			tok(TokenOp, "^", 5),
			tok(TokenOp, "!", 6),
			end(7),
		}},
		{"alt", "2×x÷3", []Token{
			num("2", 2, 0),
			tok(TokenOp, "×", 1),
			tok(TokenIdent, "x", 2),
			tok(TokenOp, "÷", 3),
			num("3", 3, 4),
			end(5),
		}},
		{"fact", "3!", []Token{num("3", 3, 0), tok(TokenOp, "!", 1), end(2)}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			toks, err := Tokenize(c.src)
			require.NoError(t, err)
			assert.Equal(t, c.tokens, toks)
		})
	}
}

func TestTokenizeErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		kind string
		col  int
	}{
		{"two-dots", "1.1.1", "number", 3},
		{"bare-exp", "1e", "number", 2},
		{"bare-exp-sign", "1e+", "number", 3},
		{"dot", ".", "number", 1},
		{"dot-exp", ".e1", "number", 1},
		{"letter", "1a", "number", 1},
		{"exp-dot", "1e1.5", "number", 3},
		{"symbol", "$", "", 0},
		{"symbol-after", "2 $ 3", "", 2},
		{"symbol-in-num", "0$", "number", 1},
		{"bracket", "[1]", "", 0},
		{"semicolon", "f(1 ;2)", "", 4},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			toks, err := Tokenize(c.src)
			assert.Nil(t, toks)
			var le *LexError
			require.ErrorAs(t, err, &le)
			assert.Equal(t, c.kind, le.Kind)
			assert.Equal(t, c.col, le.Pos())
			assert.Contains(t, err.Error(), "invalid")
		})
	}
}

func TestLexEOF(t *testing.T) {
	scan := lex(strings.NewReader("1"))
	tok, err := scan.next()
	require.NoError(t, err)
	assert.Equal(t, num("1", 1, 0), tok)
	tok, err = scan.next()
	require.NoError(t, err)
	assert.Equal(t, end(1), tok)
	_, err = scan.next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestTokenKindString(t *testing.T) {
	assert.Equal(t, "Number", TokenNumber.String())
	assert.Equal(t, "End", TokenEnd.String())
	assert.Equal(t, "TokenKind(100)", TokenKind(100).String())
	assert.Equal(t, "Op:+@3", tok(TokenOp, "+", 3).String())
}
