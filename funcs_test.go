package calc_test

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zephyrtronium/calc"
)

type nargin struct{}

func (nargin) Arity() (int, int) {
	return 0, -1
}

func (nargin) Call(args []float64) (float64, error) {
	return float64(len(args)), nil
}

// clamp is a function of one to three arguments.
type clamp struct{}

func (clamp) Arity() (int, int) {
	return 1, 3
}

func (clamp) Call(args []float64) (float64, error) {
	lo, hi := 0.0, 1.0
	if len(args) > 1 {
		lo = args[1]
	}
	if len(args) > 2 {
		hi = args[2]
	}
	if lo > hi {
		return 0, errors.New("empty interval")
	}
	return math.Max(lo, math.Min(hi, args[0])), nil
}

func TestCanCall(t *testing.T) {
	cases := []struct {
		name string
		fn   calc.Func
		n    int
		ok   bool
	}{
		{"monadic-0", calc.Monadic(math.Sqrt), 0, false},
		{"monadic-1", calc.Monadic(math.Sqrt), 1, true},
		{"monadic-2", calc.Monadic(math.Sqrt), 2, false},
		{"dyadic-1", calc.Dyadic(math.Atan2), 1, false},
		{"dyadic-2", calc.Dyadic(math.Atan2), 2, true},
		{"variadic-0", calc.Variadic(1, nil), 0, false},
		{"variadic-1", calc.Variadic(1, nil), 1, true},
		{"variadic-100", calc.Variadic(1, nil), 100, true},
		{"range-0", clamp{}, 0, false},
		{"range-3", clamp{}, 3, true},
		{"range-4", clamp{}, 4, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.ok, calc.CanCall(c.fn, c.n))
		})
	}
}

func TestCustomFuncs(t *testing.T) {
	env := calc.NewEnv(
		calc.SetFunc("nargin", nargin{}),
		calc.SetFunc("clamp", clamp{}),
		calc.SetFunc("hypot", calc.Dyadic(math.Hypot)),
	)
	cases := []struct {
		src string
		r   float64
	}{
		{"nargin()", 0},
		{"nargin(x, y, z)", 3},
		{"clamp(2)", 1},
		{"clamp(-2, -1)", -1},
		{"clamp(5, 0, 10)", 5},
		{"hypot(3, 4)", 5},
	}
	for _, c := range cases {
		t.Run(c.src, func(t *testing.T) {
			// Arguments must be evaluated, so define them.
			env := env.Clone(calc.SetConsts(map[string]float64{"x": 1, "y": 2, "z": 3}))
			r, err := calc.EvaluateEnv(c.src, env)
			require.NoError(t, err)
			assert.Equal(t, c.r, r)
		})
	}

	_, err := calc.EvaluateEnv("clamp(1, 2, 3, 4)", env)
	var a *calc.ArityError
	require.ErrorAs(t, err, &a)
	assert.Equal(t, "1 to 3 arguments", a.Expected())

	// Errors from functions are returned unchanged.
	_, err = calc.EvaluateEnv("clamp(0, 2, 1)", env)
	require.Error(t, err)
	assert.Equal(t, "empty interval", err.Error())
}

func TestDomainErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		fn   string
		x    float64
	}{
		{"sqrt", "sqrt(-1)", "sqrt", -1},
		{"ln", "ln(-1)", "ln", -1},
		{"log", "log(-2)", "log", -2},
		{"log2", "log2(-2)", "log2", -2},
		{"acos", "acos(2)", "acos", 2},
		{"acosh", "acosh(0.5)", "acosh", 0.5},
		{"atanh", "atanh(2)", "atanh", 2},
		{"ln-neginf", "ln(-1e400)", "ln", math.Inf(-1)},
		{"pow", "(-2)^0.5", "^", -2},
		{"fact", "(-2)!", "!", -2},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := calc.Evaluate(c.src)
			var d *calc.DomainError
			require.ErrorAs(t, err, &d)
			assert.Equal(t, c.fn, d.Func)
			assert.Equal(t, c.x, d.X)
			assert.Contains(t, err.Error(), "outside domain of "+c.fn)
		})
	}
}

func TestNaNPropagates(t *testing.T) {
	// 0 * inf is NaN, and functions of NaN are NaN rather than errors.
	for _, src := range []string{"sqrt(0*1e400)", "max(0*1e400, 1)", "atan2(0*1e400, 1)", "signum(0*1e400)", "(-2)^(0*1e400)"} {
		r, err := calc.Evaluate(src)
		require.NoError(t, err, "evaluating %q", src)
		assert.True(t, math.IsNaN(r), "%q gave %g", src, r)
	}
}

func ExampleFunc() {
	env := calc.NewEnv(calc.SetFunc("nargin", nargin{}))
	for _, src := range []string{"nargin()", "nargin(100)", "nargin(3, 2, 1)"} {
		a, _ := calc.ParseString(src)
		r, _ := a.Eval(env)
		fmt.Println(r, a)
	}

	// Output:
	// 0 (nargin())
	// 1 (nargin((100)))
	// 3 (nargin((3), (2), (1)))
}

func ExampleVariadic() {
	mean := calc.Variadic(1, func(args []float64) float64 {
		var s float64
		for _, x := range args {
			s += x
		}
		return s / float64(len(args))
	})
	env := calc.NewEnv(calc.SetFunc("mean", mean))
	fmt.Println(calc.CalculateEnv("mean(1, 2, 3, 4)", env))
	fmt.Println(calc.CalculateEnv("mean()", env))

	// Output:
	// 2.5
	// Invalid expression: 0: mean takes at least 1 argument, not 0
}
