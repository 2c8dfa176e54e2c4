package calc

import (
	"errors"
	"io"
	"strconv"
	"strings"
	"unicode"
)

// Token is a lexical unit of an expression.
type Token struct {
	// Kind is the class of the token.
	Kind TokenKind
	// Text is the source text of the token. It is empty for TokenEnd.
	Text string
	// Value is the value of a TokenNumber.
	Value float64
	// Pos is the zero-based rune offset of the start of the token.
	Pos int
}

func (t Token) String() string {
	return t.Kind.String() + ":" + t.Text + "@" + strconv.Itoa(t.Pos)
}

// describe names the token for error messages.
func (t Token) describe() string {
	if t.Kind == TokenEnd {
		return "end of input"
	}
	return strconv.Quote(t.Text)
}

// TokenKind is the class of a token.
type TokenKind int8

const (
	tokenNone TokenKind = iota
	// TokenEnd terminates every token sequence.
	TokenEnd
	// TokenNumber is an unsigned numeric literal.
	TokenNumber
	// TokenIdent is a constant or function name.
	TokenIdent
	// TokenOp is an operator.
	TokenOp
	// TokenOpen is an open parenthesis.
	TokenOpen
	// TokenClose is a close parenthesis.
	TokenClose
	// TokenComma separates function arguments.
	TokenComma
)

var tokenKindNames = [...]string{
	tokenNone:   "None",
	TokenEnd:    "End",
	TokenNumber: "Number",
	TokenIdent:  "Ident",
	TokenOp:     "Op",
	TokenOpen:   "Open",
	TokenClose:  "Close",
	TokenComma:  "Comma",
}

func (k TokenKind) String() string {
	if k < 0 || int(k) >= len(tokenKindNames) {
		return "TokenKind(" + strconv.Itoa(int(k)) + ")"
	}
	return tokenKindNames[k]
}

// Operators contains the runes which are considered to be operators.
const Operators = "+-*/%^!×÷"

// punct is every rune that ends a number without being part of it.
const punct = Operators + "(),"

type lexer struct {
	src io.RuneScanner
	buf strings.Builder
	col int
	eof bool
}

func lex(src io.RuneScanner) *lexer {
	return &lexer{src: src}
}

// readRune reads a rune from the src and updates the lexer's position info.
func (l *lexer) readRune() (r rune, err error) {
	r, sz, err := l.src.ReadRune()
	if sz > 0 {
		l.col++
	}
	return r, err
}

// unreadRune unreads a rune from the src and updates the lexer's position
// info. Panics if unreading returns an error.
func (l *lexer) unreadRune() {
	if err := l.src.UnreadRune(); err != nil {
		panic(err)
	}
	l.col--
}

// next scans the next token from the input. The first time EOF is encountered,
// the result is a TokenEnd with a nil error. Subsequent calls return an empty
// token with io.EOF.
func (l *lexer) next() (Token, error) {
	if l.eof {
		return Token{}, io.EOF
	}
	defer l.buf.Reset()
	for {
		tok := Token{Pos: l.col}
		r, err := l.readRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				tok.Kind = TokenEnd
				l.eof = true
				return tok, nil
			}
			return tok, err
		}
		switch {
		case unicode.IsSpace(r):
			continue
		case '0' <= r && r <= '9', r == '.':
			l.unreadRune()
			if err := l.scanNum(); err != nil {
				return tok, err
			}
			tok.Text = l.buf.String()
			v, err := strconv.ParseFloat(tok.Text, 64)
			if err != nil && !errors.Is(err, strconv.ErrRange) {
				return tok, &LexError{Text: tok.Text, Kind: "number", Col: tok.Pos}
			}
			// Out of range literals become ±Inf or round to zero.
			tok.Value = v
			tok.Kind = TokenNumber
			return tok, nil
		case r == '_', unicode.IsLetter(r):
			l.unreadRune()
			if err := l.scanIdent(); err != nil {
				return tok, err
			}
			tok.Text = l.buf.String()
			tok.Kind = TokenIdent
			return tok, nil
		case r == '(':
			tok.Text = "("
			tok.Kind = TokenOpen
			return tok, nil
		case r == ')':
			tok.Text = ")"
			tok.Kind = TokenClose
			return tok, nil
		case r == ',':
			tok.Text = ","
			tok.Kind = TokenComma
			return tok, nil
		case strings.ContainsRune(Operators, r):
			tok.Text = string(r)
			tok.Kind = TokenOp
			return tok, nil
		default:
			// Write the rune so that it shows up in the error message.
			l.buf.WriteRune(r)
			return tok, l.error("", tok.Pos)
		}
	}
}

func (l *lexer) scanNum() error {
	var dig, dot, e, le, ed bool
	for {
		r, err := l.readRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return err
		}
		if r == '+' || r == '-' {
			// + or - anywhere other than immediately following an exponent
			// marker means a new token, as it is an operator.
			if !le {
				l.unreadRune()
				break
			}
			le = false
			l.buf.WriteRune(r)
			continue
		}
		if unicode.IsSpace(r) || strings.ContainsRune(punct, r) {
			l.unreadRune()
			break
		}
		l.buf.WriteRune(r)
		switch r {
		case '.':
			if dot || e {
				return l.error("number", l.col-1)
			}
			dot = true
			le = false
		case 'e', 'E':
			if !dig || e {
				return l.error("number", l.col-1)
			}
			e = true
			le = true
		case '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
			if e {
				ed = true
			} else {
				dig = true
			}
			le = false
		default:
			return l.error("number", l.col-1)
		}
	}
	if !dig || (e && !ed) {
		return l.error("number", l.col)
	}
	return nil
}

func (l *lexer) scanIdent() error {
	for {
		r, err := l.readRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				// next unreads the rune that decides ident scanning before
				// calling scanIdent, so we have scanned at least one rune.
				return nil
			}
			return err
		}
		switch {
		case r == '_', unicode.IsLetter(r), unicode.IsDigit(r):
			l.buf.WriteRune(r)
		default:
			l.unreadRune()
			return nil
		}
	}
}

func (l *lexer) error(kind string, col int) error {
	return &LexError{
		Text: l.buf.String(),
		Kind: kind,
		Col:  col,
	}
}

// all scans tokens up to and including the TokenEnd.
func (l *lexer) all() ([]Token, error) {
	var toks []Token
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.Kind == TokenEnd {
			return toks, nil
		}
	}
}

// Tokenize converts an expression to tokens. The result always ends with
// exactly one TokenEnd. Signs are never part of numbers; the parser handles
// them as unary operators.
func Tokenize(text string) ([]Token, error) {
	return lex(strings.NewReader(text)).all()
}

// LexError indicates an invalid token. It implements InputError.
type LexError struct {
	// Text is the token the lexer was scanning when the invalid rune was
	// encountered, plus the invalid rune.
	Text string
	// Kind is the type of token the lexer was scanning. This is "number" or
	// the empty string if a token kind hadn't been decided.
	Kind string
	// Col is the zero-based rune offset of the invalid rune.
	Col int
}

func (err *LexError) Error() string {
	if err.Kind == "" {
		return errpos(err.Col, "invalid character "+strconv.Quote(err.Text))
	}
	return errpos(err.Col, "invalid "+err.Kind+" "+strconv.Quote(err.Text))
}

func (err *LexError) Pos() int {
	return err.Col
}
