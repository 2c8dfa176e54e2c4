// Package calc implements a floating-point calculator.
//
// Expressions use the usual infix notation with +, -, *, /, % (remainder),
// ^ (power), and postfix ! (factorial), plus × and ÷ as aliases for * and /.
// "-2^2" is the same as "-(2^2)", and "2^3^2" is "2^(3^2)". Names refer to
// constants, and names followed by a parenthesized argument list call
// functions, both looked up in an Env at evaluation time.
//
// Division or remainder by zero is an error rather than an infinity, as is
// any operation that would need a complex result.
//
// Parsed expressions and environments are immutable, so one Expr can be
// evaluated many times, from any number of goroutines.
package calc
