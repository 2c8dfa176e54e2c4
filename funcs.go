package calc

import (
	"math"
	"math/big"
	"strconv"

	"github.com/zephyrtronium/bigfloat"
)

// Func is a function from reals to reals.
type Func interface {
	// Call evaluates the function. The arguments are passed in args, whose
	// length is within the bounds reported by Arity. Call may modify the
	// elements of args.
	Call(args []float64) (float64, error)

	// Arity returns the minimum and maximum number of arguments the function
	// accepts. A negative max means there is no maximum.
	Arity() (min, max int)
}

// CanCall returns whether fn can be called with n arguments.
func CanCall(fn Func, n int) bool {
	min, max := fn.Arity()
	return n >= min && (max < 0 || n <= max)
}

var globalfuncs = map[string]Func{
	"sqrt": Monadic(math.Sqrt),
	"abs":  Monadic(math.Abs),
	"exp":  Monadic(bigExp),
	"ln":   Monadic(bigLog),
	"log":  Monadic(bigLog10),
	"log2": Monadic(math.Log2),

	"sin":   Monadic(math.Sin),
	"cos":   Monadic(math.Cos),
	"tan":   Monadic(math.Tan),
	"asin":  Monadic(math.Asin),
	"acos":  Monadic(math.Acos),
	"atan":  Monadic(math.Atan),
	"atan2": Dyadic(math.Atan2),
	"sinh":  Monadic(math.Sinh),
	"cosh":  Monadic(math.Cosh),
	"tanh":  Monadic(math.Tanh),
	"asinh": Monadic(math.Asinh),
	"acosh": Monadic(math.Acosh),
	"atanh": Monadic(math.Atanh),

	"floor":  Monadic(math.Floor),
	"ceil":   Monadic(math.Ceil),
	"round":  Monadic(math.Round),
	"signum": Monadic(signum),

	"min": Variadic(1, minimum),
	"max": Variadic(1, maximum),
}

type monadic struct {
	f func(float64) float64
}

func (m monadic) Call(args []float64) (float64, error) {
	x := args[0]
	r := m.f(x)
	if math.IsNaN(r) && !math.IsNaN(x) {
		return 0, &DomainError{X: x, Arg: 1}
	}
	return r, nil
}

func (m monadic) Arity() (int, int) {
	return 1, 1
}

// Monadic wraps a function of one variable into a Func. A NaN result from a
// non-NaN argument is reported as a *DomainError.
func Monadic(f func(float64) float64) Func {
	return monadic{f}
}

type dyadic struct {
	f func(x, y float64) float64
}

func (d dyadic) Call(args []float64) (float64, error) {
	x, y := args[0], args[1]
	r := d.f(x, y)
	if math.IsNaN(r) && !math.IsNaN(x) && !math.IsNaN(y) {
		return 0, &DomainError{X: x}
	}
	return r, nil
}

func (d dyadic) Arity() (int, int) {
	return 2, 2
}

// Dyadic wraps a function of two variables into a Func. A NaN result from
// non-NaN arguments is reported as a *DomainError.
func Dyadic(f func(x, y float64) float64) Func {
	return dyadic{f}
}

type variadic struct {
	min int
	f   func([]float64) float64
}

func (v variadic) Call(args []float64) (float64, error) {
	return v.f(args), nil
}

func (v variadic) Arity() (int, int) {
	return v.min, -1
}

// Variadic wraps a function of at least min arguments into a Func.
func Variadic(min int, f func(args []float64) float64) Func {
	return variadic{min, f}
}

func signum(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	// ±0 and NaN
	return x
}

func minimum(args []float64) float64 {
	r := args[0]
	for _, x := range args[1:] {
		r = math.Min(r, x)
	}
	return r
}

func maximum(args []float64) float64 {
	r := args[0]
	for _, x := range args[1:] {
		r = math.Max(r, x)
	}
	return r
}

// bigprec is the precision of intermediate results computed with big.Float.
// It is wider than float64 so that rounding the result gives the same answer
// on every platform.
const bigprec = 64

func bigf(x float64) *big.Float {
	return new(big.Float).SetPrec(bigprec).SetFloat64(x)
}

func bigExp(x float64) float64 {
	switch {
	case math.IsNaN(x), math.IsInf(x, 1):
		return x
	case x == 0:
		return 1
	case x > 710:
		return math.Inf(1)
	case x < -746:
		return 0
	}
	r, _ := bigfloat.Exp(bigf(0), bigf(x)).Float64()
	return r
}

// biglog computes ln x for finite x > 0, x != 1.
func biglog(x float64) *big.Float {
	return bigfloat.Log(bigf(0), bigf(x))
}

func bigLog(x float64) float64 {
	if r, ok := logspecial(x); ok {
		return r
	}
	r, _ := biglog(x).Float64()
	return r
}

func bigLog10(x float64) float64 {
	if r, ok := logspecial(x); ok {
		return r
	}
	l := biglog(x)
	r, _ := l.Quo(l, biglog(10)).Float64()
	return r
}

// logspecial handles the arguments of logarithms that bigfloat does not.
func logspecial(x float64) (float64, bool) {
	switch {
	case math.IsNaN(x), math.IsInf(x, 1):
		return x, true
	case x < 0:
		return math.NaN(), true
	case x == 0:
		return math.Inf(-1), true
	case x == 1:
		return 0, true
	}
	return 0, false
}

// DomainError is an error returned when a function or operator is applied to
// arguments outside its domain. It implements InputError.
type DomainError struct {
	// Col is the position of the function name or operator.
	Col int
	// X is the out-of-domain argument.
	X float64
	// Arg is the 1-based index of the argument, or 0 if unknown.
	Arg int
	// Func is a name identifying the function.
	Func string
}

func (err *DomainError) Error() string {
	r := FormatNumber(err.X) + " outside domain"
	if err.Func != "" {
		r += " of " + err.Func
	}
	if err.Arg > 0 {
		r += " (argument " + strconv.Itoa(err.Arg) + ")"
	}
	return errpos(err.Col, r)
}

func (err *DomainError) Pos() int {
	return err.Col
}
