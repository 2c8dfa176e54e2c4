//go:build go1.18
// +build go1.18

package calc

import "testing"

func FuzzParse(f *testing.F) {
	f.Add("x")
	f.Add("-2^2")
	f.Add("1×2")
	f.Add("f(g(x), 1e3)!")
	f.Fuzz(func(t *testing.T, s string) {
		a, err := ParseString(s)
		if err != nil {
			return
		}
		p := a.String()
		b, err := ParseString(p)
		if err != nil {
			t.Fatalf("%q printed as %q which does not parse: %v", s, p, err)
		}
		if d, e := a.n.diff(b.n); d != nil || e != nil {
			t.Errorf("%q printed as %q which parses differently: %v vs %v", s, p, d, e)
		}
	})
}
