package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/zephyrtronium/calc"
)

func main() {
	log.SetFlags(0)
	var (
		inname, verb     string
		with             [][2]string
		nl, echo, compat bool
		jobs             int
	)
	addwith := func(s string) error {
		d := strings.SplitN(s, "=", 2)
		if len(d) != 2 {
			return fmt.Errorf(`constant definitions must be "name=value", not %q`, s)
		}
		with = append(with, [2]string{strings.TrimSpace(d[0]), strings.TrimSpace(d[1])})
		return nil
	}
	flag.StringVar(&inname, "in", "", "input file (default stdin if no args given)")
	flag.StringVar(&verb, "fmt", "%g", "result formatting string")
	flag.Func("given", "name=value constant definition (any number of times)", addwith)
	flag.BoolVar(&nl, "n", false, "parse separate input lines as separate expressions")
	flag.BoolVar(&echo, "echo", false, "print parse trees")
	flag.BoolVar(&compat, "compat", false, `print results as text, or "`+calc.InvalidPrefix+`" and the error`)
	flag.IntVar(&jobs, "j", 1, "number of expressions to evaluate concurrently")
	flag.Parse()
	if jobs <= 0 {
		log.Fatalf("jobs (%d) must be positive", jobs)
	}

	var srcs []string
	f, err := infile(inname, flag.NArg() == 0)
	if err != nil {
		log.Fatal(err)
	}
	if f != nil {
		s, err := readsrcs(f, nl)
		if err != nil {
			log.Fatal(err)
		}
		srcs = append(srcs, s...)
	}
	srcs = append(srcs, flag.Args()...)

	// Each definition can use the ones before it.
	var opts []calc.EnvOption
	for _, d := range with {
		nm := d[0]
		vl := d[1]
		r, err := calc.EvaluateEnv(vl, calc.NewEnv(opts...))
		if err != nil {
			log.Fatalf("setting %s: %v", nm, err)
		}
		opts = append(opts, calc.SetConst(nm, r))
	}
	env := calc.NewEnv(opts...)

	verb += "\n"
	out := make([]string, len(srcs))
	var g errgroup.Group
	g.SetLimit(jobs)
	for i, src := range srcs {
		i, src := i, src
		g.Go(func() error {
			a, err := calc.ParseString(src)
			if err != nil {
				if compat {
					out[i] = calc.InvalidPrefix + err.Error() + "\n"
					return nil
				}
				return fmt.Errorf("parsing %q: %w", src, err)
			}
			var b strings.Builder
			if echo {
				fmt.Fprintf(&b, "%v : ", a)
			}
			r, err := a.Eval(env)
			switch {
			case compat && err != nil:
				b.WriteString(calc.InvalidPrefix + err.Error() + "\n")
			case compat:
				b.WriteString(calc.FormatNumber(r) + "\n")
			case err != nil:
				fmt.Fprintln(&b, err)
			default:
				fmt.Fprintf(&b, verb, r)
			}
			out[i] = b.String()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Fatal(err)
	}
	w := bufio.NewWriter(os.Stdout)
	for _, s := range out {
		w.WriteString(s)
	}
	if err := w.Flush(); err != nil {
		log.Fatal(err)
	}
}

func infile(inname string, std bool) (io.Reader, error) {
	switch {
	case inname != "" && inname != "-":
		return os.Open(inname)
	case inname == "-", std:
		return os.Stdin, nil
	}
	return nil, nil
}

// readsrcs reads expressions from r, either one per non-blank line or the
// whole input as one.
func readsrcs(r io.Reader, lines bool) ([]string, error) {
	if !lines {
		b, err := io.ReadAll(r)
		if err != nil {
			return nil, err
		}
		if strings.TrimSpace(string(b)) == "" {
			return nil, nil
		}
		return []string{string(b)}, nil
	}
	var srcs []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if strings.TrimSpace(sc.Text()) == "" {
			continue
		}
		srcs = append(srcs, sc.Text())
	}
	return srcs, sc.Err()
}
