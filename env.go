package calc

import "math"

// Env is an environment for evaluating expressions: a table of named
// constants and a table of named functions. An Env is never modified after it
// is created, so it is safe to share between goroutines.
type Env struct {
	consts map[string]float64
	funcs  map[string]Func
}

// EnvOption is an option used when creating an environment.
type EnvOption interface {
	envOption()
}

type (
	constopt struct {
		name string
		val  float64
	}
	constsopt map[string]float64
	funcopt   struct {
		name string
		fn   Func
	}
	funcsopt     map[string]Func
	nodefaultopt struct{}
)

func (constopt) envOption()     {}
func (constsopt) envOption()    {}
func (funcopt) envOption()      {}
func (funcsopt) envOption()     {}
func (nodefaultopt) envOption() {}

// SetConst sets the value of a constant in the environment.
func SetConst(name string, val float64) EnvOption {
	return constopt{name, val}
}

// SetConsts sets the values of any number of constants in the environment.
func SetConsts(vals map[string]float64) EnvOption {
	return constsopt(vals)
}

// SetFunc sets a function in the environment. A nil fn removes the function.
func SetFunc(name string, fn Func) EnvOption {
	return funcopt{name, fn}
}

// SetFuncs sets a group of functions in the environment. Nil entries remove
// the corresponding functions.
func SetFuncs(fns map[string]Func) EnvOption {
	return funcsopt(fns)
}

// NoDefaults removes every constant and function set before it, including the
// defaults.
func NoDefaults() EnvOption {
	return nodefaultopt{}
}

var defaultEnv = &Env{
	consts: map[string]float64{
		"pi":  math.Pi,
		"e":   math.E,
		"tau": 2 * math.Pi,
		"phi": math.Phi,
	},
	funcs: globalfuncs,
}

// DefaultEnv returns the shared default environment, containing the constants
// pi, e, tau, and phi and the standard functions.
func DefaultEnv() *Env {
	return defaultEnv
}

// NewEnv creates an environment from the default one with options applied in
// order.
func NewEnv(opts ...EnvOption) *Env {
	return defaultEnv.Clone(opts...)
}

// Clone creates a copy of an environment and applies options to it in order.
// The receiver is not modified.
func (env *Env) Clone(opts ...EnvOption) *Env {
	n := Env{
		consts: make(map[string]float64, len(env.consts)),
		funcs:  make(map[string]Func, len(env.funcs)),
	}
	for k, v := range env.consts {
		n.consts[k] = v
	}
	for k, v := range env.funcs {
		n.funcs[k] = v
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		switch opt := opt.(type) {
		case constopt:
			n.consts[opt.name] = opt.val
		case constsopt:
			for k, v := range opt {
				n.consts[k] = v
			}
		case funcopt:
			n.setfunc(opt.name, opt.fn)
		case funcsopt:
			for k, v := range opt {
				n.setfunc(k, v)
			}
		case nodefaultopt:
			n.consts = make(map[string]float64)
			n.funcs = make(map[string]Func)
		default:
			panic("calc: unknown option type")
		}
	}
	return &n
}

func (env *Env) setfunc(name string, fn Func) {
	if fn == nil {
		delete(env.funcs, name)
		return
	}
	env.funcs[name] = fn
}

// Const returns the value of a constant and whether it is defined.
func (env *Env) Const(name string) (float64, bool) {
	v, ok := env.consts[name]
	return v, ok
}

// Func returns the function with the given name, or nil if there is none.
func (env *Env) Func(name string) Func {
	return env.funcs[name]
}

// Consts returns the sorted names of the constants in the environment.
func (env *Env) Consts() []string {
	r := make([]string, 0, len(env.consts))
	for k := range env.consts {
		r = append(r, k)
	}
	sortstrs(r)
	return r
}

// Funcs returns the sorted names of the functions in the environment.
func (env *Env) Funcs() []string {
	r := make([]string, 0, len(env.funcs))
	for k := range env.funcs {
		r = append(r, k)
	}
	sortstrs(r)
	return r
}
