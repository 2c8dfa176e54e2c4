package calc

import (
	"errors"
	"math"
	"strconv"
)

// machine is the state of a single evaluation.
type machine struct {
	env   *Env
	stack []float64
}

// push adds a value to the top of the stack.
func (m *machine) push(x float64) {
	m.stack = append(m.stack, x)
}

// pop removes the top from the stack and returns it.
func (m *machine) pop() float64 {
	r := m.stack[len(m.stack)-1]
	m.stack = m.stack[:len(m.stack)-1]
	return r
}

// top is a shortcut to get the top element of the stack.
func (m *machine) top() *float64 {
	return &m.stack[len(m.stack)-1]
}

// Eval evaluates the expression in env. If env is nil, the default
// environment is used. If an error occurs, e.g. a missing constant or a
// division by zero, the result is 0 and the error describes the problem.
// Eval may be called concurrently.
func (e *Expr) Eval(env *Env) (float64, error) {
	if env == nil {
		env = defaultEnv
	}
	m := machine{env: env, stack: make([]float64, 0, 8)}
	if err := e.n.eval(&m); err != nil {
		return 0, err
	}
	if len(m.stack) != 1 {
		panic("calc: inconsistent stack: " + strconv.Itoa(len(m.stack)) + " items (bad AST?)")
	}
	return m.stack[0], nil
}

// eval pushes the node's value to the machine's stack.
func (n *node) eval(m *machine) error {
	switch n.kind {
	case nodeNum:
		m.push(n.value)
	case nodeName:
		v, ok := m.env.Const(n.text)
		if !ok {
			return &NameError{Col: n.pos, Name: n.text}
		}
		m.push(v)
	case nodeCall:
		f := m.env.Func(n.text)
		if f == nil {
			return &UnknownFuncError{Col: n.pos, Name: n.text}
		}
		k := len(m.stack)
		for l := n.right; l != nil; l = l.right {
			if err := l.left.eval(m); err != nil {
				return err
			}
		}
		invoc := m.stack[k:len(m.stack):len(m.stack)]
		if !CanCall(f, len(invoc)) {
			min, max := f.Arity()
			return &ArityError{Col: n.pos, Func: n.text, Min: min, Max: max, Len: len(invoc)}
		}
		r, err := f.Call(invoc)
		if err != nil {
			var de *DomainError
			if errors.As(err, &de) && de.Func == "" {
				de.Func = n.text
				de.Col = n.pos
			}
			return err
		}
		m.stack = append(m.stack[:k], r)
	case nodeArg:
		panic("calc: eval on nodeArg")
	case nodeNeg:
		if err := n.left.eval(m); err != nil {
			return err
		}
		v := m.top()
		*v = -*v
	case nodeNop:
		if err := n.left.eval(m); err != nil {
			return err
		}
	case nodeFact:
		if err := n.left.eval(m); err != nil {
			return err
		}
		v := m.top()
		if *v < 0 || *v != math.Trunc(*v) || math.IsInf(*v, 0) {
			return &DomainError{Col: n.pos, X: *v, Func: "!"}
		}
		*v = factorial(*v)
	case nodeAdd, nodeSub, nodeMul, nodeDiv, nodeMod, nodePow:
		if err := n.left.eval(m); err != nil {
			return err
		}
		if err := n.right.eval(m); err != nil {
			return err
		}
		r := m.pop()
		l := m.top()
		return n.binary(l, r)
	default:
		panic("calc: invalid AST node " + n.kind.String())
	}
	return nil
}

// binary applies a binary operator node to *l and r, storing the result in l.
func (n *node) binary(l *float64, r float64) error {
	switch n.kind {
	case nodeAdd:
		*l += r
	case nodeSub:
		*l -= r
	case nodeMul:
		*l *= r
	case nodeDiv:
		if r == 0 {
			return &DivisionByZeroError{Col: n.pos, Op: "/"}
		}
		*l /= r
	case nodeMod:
		if r == 0 {
			return &DivisionByZeroError{Col: n.pos, Op: "%"}
		}
		*l = math.Mod(*l, r)
	case nodePow:
		// No complex results.
		if *l < 0 && !math.IsInf(*l, 0) && !math.IsInf(r, 0) && !math.IsNaN(r) && r != math.Trunc(r) {
			return &DomainError{Col: n.pos, X: *l, Arg: 1, Func: "^"}
		}
		*l = math.Pow(*l, r)
	default:
		panic("calc: not a binary operator: " + n.kind.String())
	}
	return nil
}

// factorial computes x! for a non-negative integer x.
func factorial(x float64) float64 {
	if x > 170 {
		// 171! overflows.
		return math.Inf(1)
	}
	r := 1.0
	for i := 2.0; i <= x; i++ {
		r *= i
	}
	return r
}

// EvaluateEnv parses an expression and evaluates it in env.
func EvaluateEnv(text string, env *Env) (float64, error) {
	a, err := ParseString(text)
	if err != nil {
		return 0, err
	}
	return a.Eval(env)
}

// Evaluate parses an expression and evaluates it in the default environment.
func Evaluate(text string) (float64, error) {
	return EvaluateEnv(text, defaultEnv)
}

// InvalidPrefix begins the result of Calculate when evaluation fails.
const InvalidPrefix = "Invalid expression: "

// CalculateEnv evaluates an expression in env and renders the result as
// text. A successful result is formatted with FormatNumber. An error is
// formatted as InvalidPrefix followed by the error message.
func CalculateEnv(text string, env *Env) string {
	r, err := EvaluateEnv(text, env)
	if err != nil {
		return InvalidPrefix + err.Error()
	}
	return FormatNumber(r)
}

// Calculate is CalculateEnv using the default environment.
func Calculate(text string) string {
	return CalculateEnv(text, defaultEnv)
}

// FormatNumber formats x as the shortest decimal that parses back to x,
// without an exponent. Infinities are "inf" and "-inf".
func FormatNumber(x float64) string {
	switch {
	case math.IsInf(x, 1):
		return "inf"
	case math.IsInf(x, -1):
		return "-inf"
	case math.IsNaN(x):
		return "NaN"
	}
	return strconv.FormatFloat(x, 'f', -1, 64)
}

// NameError is an error from a lookup for a constant that is missing from the
// environment. It implements InputError.
type NameError struct {
	// Col is the position of the name.
	Col int
	// Name is the name that was missing.
	Name string
}

func (err *NameError) Error() string {
	return errpos(err.Col, "undefined variable "+strconv.Quote(err.Name))
}

func (err *NameError) Pos() int {
	return err.Col
}

// UnknownFuncError is an error from a call to a function that is missing from
// the environment. It implements InputError.
type UnknownFuncError struct {
	// Col is the position of the function name.
	Col int
	// Name is the function that was called.
	Name string
}

func (err *UnknownFuncError) Error() string {
	return errpos(err.Col, "unknown function "+strconv.Quote(err.Name))
}

func (err *UnknownFuncError) Pos() int {
	return err.Col
}

// ArityError is an error indicating a function call with the wrong number of
// arguments. It implements InputError.
type ArityError struct {
	// Col is the position of the function name.
	Col int
	// Func is the function name that was called.
	Func string
	// Min and Max are the bounds on the argument count of the function. Max is
	// negative if there is no upper bound.
	Min, Max int
	// Len is the number of arguments in the call.
	Len int
}

// Expected describes the number of arguments the function accepts.
func (err *ArityError) Expected() string {
	switch {
	case err.Max < 0:
		return "at least " + plural(err.Min, "argument")
	case err.Min == err.Max:
		return plural(err.Min, "argument")
	default:
		return strconv.Itoa(err.Min) + " to " + plural(err.Max, "argument")
	}
}

func (err *ArityError) Error() string {
	return errpos(err.Col, err.Func+" takes "+err.Expected()+", not "+strconv.Itoa(err.Len))
}

func (err *ArityError) Pos() int {
	return err.Col
}

func plural(n int, what string) string {
	s := strconv.Itoa(n) + " " + what
	if n != 1 {
		s += "s"
	}
	return s
}

// DivisionByZeroError is an error from division or remainder by exactly zero.
// It implements InputError.
type DivisionByZeroError struct {
	// Col is the position of the operator.
	Col int
	// Op is the operator, "/" or "%".
	Op string
}

func (err *DivisionByZeroError) Error() string {
	if err.Op == "%" {
		return errpos(err.Col, "remainder by zero")
	}
	return errpos(err.Col, "division by zero")
}

func (err *DivisionByZeroError) Pos() int {
	return err.Col
}
