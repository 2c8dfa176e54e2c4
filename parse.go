package calc

import (
	"io"
	"strings"
	"unicode/utf8"
)

// Expr = Sum
// Sum = Term { ('+' | '-') Term }
// Term = Unary { ('*' | '/' | '%' | '×' | '÷') Unary }
// Unary = ('-' | '+') Unary | Power
// Power = Postfix [ '^' Unary ]
// Postfix = Primary { '!' }
// Primary = num | name | name '(' [ Expr { ',' Expr } ] ')' | '(' Expr ')'
//
// The exponent of a power may itself begin with a sign, so 2^-1 is 2^(-1),
// but a sign before a power applies to the whole power, so -2^2 is -(2^2).

// Expr is a parsed expression that can be evaluated with an environment. An
// Expr is immutable and safe for concurrent use.
type Expr struct {
	// n is the root node of the expression.
	n *node
	// names is the sorted list of variable names used in the expression.
	names []string
	// funcs is the sorted list of function names called in the expression.
	funcs []string
}

type parser struct {
	toks []Token
	k    int
	// names and funcs are the sets of names that have been seen this parse.
	names map[string]bool
	funcs map[string]bool
}

// next returns the next token. Once the TokenEnd is reached, it is returned
// indefinitely.
func (p *parser) next() Token {
	if p.k >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	tok := p.toks[p.k]
	p.k++
	return tok
}

// push unreads the token most recently returned from next.
func (p *parser) push() {
	p.k--
}

// Parse reads an entire expression from src.
func Parse(src io.RuneScanner) (*Expr, error) {
	toks, err := lex(src).all()
	if err != nil {
		return nil, err
	}
	return parse(toks)
}

// ParseString parses an expression from a string.
func ParseString(src string) (*Expr, error) {
	return Parse(strings.NewReader(src))
}

// ParseTokens parses an expression from a token sequence such as one produced
// by Tokenize. If toks does not end with a TokenEnd, one is assumed after the
// last token.
func ParseTokens(toks []Token) (*Expr, error) {
	if len(toks) == 0 || toks[len(toks)-1].Kind != TokenEnd {
		end := Token{Kind: TokenEnd}
		if len(toks) > 0 {
			last := toks[len(toks)-1]
			end.Pos = last.Pos + utf8.RuneCountInString(last.Text)
		}
		toks = append(toks[:len(toks):len(toks)], end)
	}
	return parse(toks)
}

func parse(toks []Token) (*Expr, error) {
	p := parser{
		toks:  toks,
		names: make(map[string]bool),
		funcs: make(map[string]bool),
	}
	n, err := p.parseterm(exprprec)
	if err != nil {
		return nil, err
	}
	if tok := p.next(); tok.Kind != TokenEnd {
		return nil, &UnexpectedTokenError{Col: tok.Pos, Found: tok, Want: "end of input"}
	}
	ex := Expr{
		n:     n,
		names: setlist(p.names),
		funcs: setlist(p.funcs),
	}
	return &ex, nil
}

func setlist(set map[string]bool) []string {
	if len(set) == 0 {
		return nil
	}
	r := make([]string, 0, len(set))
	for k := range set {
		r = append(r, k)
	}
	sortstrs(r)
	return r
}

// sortstrs sorts a string slice without using package sort because that has
// reflection and allocation problems.
func sortstrs(names []string) {
	for i := 1; i < len(names); i++ {
		for j := i; j > 0 && names[j] < names[j-1]; j-- {
			names[j], names[j-1] = names[j-1], names[j]
		}
	}
}

// parseterm parses operands joined by binary operators more binding than
// until. The token that ends the term is left unconsumed.
func (p *parser) parseterm(until operator) (*node, error) {
	n, err := p.parselhs(until)
	if err != nil {
		return nil, err
	}
	for {
		tok := p.next()
		if tok.Kind != TokenOp {
			// Anything else ends the term. Callers decide whether it is the
			// token they wanted.
			p.push()
			return n, nil
		}
		prec := binop(tok.Text)
		if prec.op == nodeNone {
			return nil, &UnexpectedTokenError{Col: tok.Pos, Found: tok, Want: "binary operator"}
		}
		if !prec.moreBinding(until) {
			p.push()
			return n, nil
		}
		rhs, err := p.parseterm(prec)
		if err != nil {
			return nil, err
		}
		n = &node{kind: prec.op, pos: tok.Pos, left: n, right: rhs}
	}
}

// parselhs parses the first operand of a term, including any unary operators
// before it and postfix operators after it.
func (p *parser) parselhs(until operator) (*node, error) {
	tok := p.next()
	var n *node
	switch tok.Kind {
	case TokenNumber:
		n = &node{kind: nodeNum, text: tok.Text, value: tok.Value, pos: tok.Pos}
	case TokenIdent:
		if open := p.next(); open.Kind == TokenOpen {
			call, err := p.parsecall(tok)
			if err != nil {
				return nil, err
			}
			n = call
		} else {
			p.push()
			p.names[tok.Text] = true
			n = &node{kind: nodeName, text: tok.Text, pos: tok.Pos}
		}
	case TokenOp:
		// unary operator
		prec := unop(tok.Text)
		if prec.op == nodeNone {
			return nil, &UnexpectedTokenError{Col: tok.Pos, Found: tok, Want: "operand"}
		}
		if !prec.moreBinding(until) {
			// x^-y -> x^(-y)
			// Just use the new operator's precedence to simplify.
			prec.prec, prec.right = until.prec, until.right
		}
		rhs, err := p.parseterm(prec)
		if err != nil {
			return nil, err
		}
		return &node{kind: prec.op, pos: tok.Pos, left: rhs}, nil
	case TokenOpen:
		rhs, err := p.parseterm(exprprec)
		if err != nil {
			return nil, err
		}
		if err := p.expect(TokenClose, `")"`); err != nil {
			return nil, err
		}
		n = rhs
	case TokenEnd:
		return nil, &UnexpectedEndError{Col: tok.Pos, Want: "operand"}
	case TokenClose, TokenComma:
		return nil, &UnexpectedTokenError{Col: tok.Pos, Found: tok, Want: "operand"}
	default:
		panic("calc: unknown token: " + tok.String())
	}
	for {
		tok := p.next()
		if tok.Kind != TokenOp || tok.Text != "!" {
			p.push()
			return n, nil
		}
		n = &node{kind: nodeFact, pos: tok.Pos, left: n}
	}
}

// parsecall parses the argument list of a call to the function named by
// name. The open bracket has already been consumed.
func (p *parser) parsecall(name Token) (*node, error) {
	p.funcs[name.Text] = true
	call := &node{kind: nodeCall, text: name.Text, pos: name.Pos}
	if tok := p.next(); tok.Kind == TokenClose {
		// Niladic call.
		return call, nil
	}
	p.push()
	l := call
	for {
		arg, err := p.parseterm(exprprec)
		if err != nil {
			return nil, err
		}
		l.right = &node{kind: nodeArg, pos: arg.pos, left: arg}
		l = l.right
		switch end := p.next(); end.Kind {
		case TokenClose:
			return call, nil
		case TokenComma:
			// next argument
		case TokenEnd:
			return nil, &UnexpectedEndError{Col: end.Pos, Want: `"," or ")"`}
		default:
			return nil, &UnexpectedTokenError{Col: end.Pos, Found: end, Want: `"," or ")"`}
		}
	}
}

// expect consumes the next token and checks that it is of the given kind.
func (p *parser) expect(kind TokenKind, want string) error {
	switch tok := p.next(); tok.Kind {
	case kind:
		return nil
	case TokenEnd:
		return &UnexpectedEndError{Col: tok.Pos, Want: want}
	default:
		return &UnexpectedTokenError{Col: tok.Pos, Found: tok, Want: want}
	}
}

// Vars returns the variable names used when evaluating the expression.
func (e *Expr) Vars() []string {
	return append(([]string)(nil), e.names...)
}

// Funcs returns the function names called when evaluating the expression.
func (e *Expr) Funcs() []string {
	return append(([]string)(nil), e.funcs...)
}

// String creates a fully parenthesized representation of the parsed
// expression. Parsing the result produces an equivalent expression.
func (e *Expr) String() string {
	return e.n.String()
}

type operator struct {
	// prec is the precedence value. Higher is more binding.
	prec int8
	// right indicates right-associativity.
	right bool
	// op is the node kind to use when this operator is selected.
	op nodeKind
}

func (p operator) moreBinding(than operator) bool {
	if p.prec != than.prec {
		return p.prec > than.prec
	}
	return p.right
}

// binop gets a binary operator for a token string. If there is no such binary
// operator, then the result has an op of nodeNone.
func binop(text string) operator {
	switch text {
	case "+":
		return operator{1, false, nodeAdd}
	case "-":
		return operator{1, false, nodeSub}
	case "*", "×":
		return operator{5, false, nodeMul}
	case "/", "÷":
		return operator{5, false, nodeDiv}
	case "%":
		return operator{5, false, nodeMod}
	case "^":
		return operator{15, true, nodePow}
	default:
		return operator{}
	}
}

// unop gets a unary prefix operator for a token string. If there is no such
// unary operator, then the result has an op of nodeNone.
func unop(text string) operator {
	switch text {
	case "+":
		return operator{10, true, nodeNop}
	case "-":
		return operator{10, true, nodeNeg}
	default:
		return operator{}
	}
}

// exprprec is the precedence required to parse an entire subexpression.
var exprprec = operator{-128, true, nodeNone}
