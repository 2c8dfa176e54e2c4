package calc

import "strconv"

// UnexpectedTokenError is an error indicating a token that cannot appear
// where the parser found it. It implements InputError.
type UnexpectedTokenError struct {
	// Col is the position of the token.
	Col int
	// Found is the token that was not understood.
	Found Token
	// Want describes what the parser expected instead.
	Want string
}

func (err *UnexpectedTokenError) Error() string {
	return errpos(err.Col, "unexpected "+err.Found.describe()+", expected "+err.Want)
}

func (err *UnexpectedTokenError) Pos() int {
	return err.Col
}

// UnexpectedEndError is an error indicating that the input ended in the
// middle of an expression, e.g. after an operator or before a close
// parenthesis. It implements InputError.
type UnexpectedEndError struct {
	// Col is the position of the end of the input.
	Col int
	// Want describes what the parser expected instead.
	Want string
}

func (err *UnexpectedEndError) Error() string {
	if err.Col == 0 {
		return errpos(err.Col, "no expression")
	}
	return errpos(err.Col, "unexpected end of input, expected "+err.Want)
}

func (err *UnexpectedEndError) Pos() int {
	return err.Col
}

// errpos is a shortcut to create an error message with a position.
func errpos(pos int, msg string) string {
	return strconv.Itoa(pos) + ": " + msg
}

// InputError is an error with position information. Every error resulting from
// invalid input implements InputError.
type InputError interface {
	error
	// Pos returns the zero-based rune offset of the token that caused the
	// error.
	Pos() int
}

var (
	_ InputError = (*LexError)(nil)
	_ InputError = (*UnexpectedTokenError)(nil)
	_ InputError = (*UnexpectedEndError)(nil)
	_ InputError = (*NameError)(nil)
	_ InputError = (*UnknownFuncError)(nil)
	_ InputError = (*ArityError)(nil)
	_ InputError = (*DivisionByZeroError)(nil)
	_ InputError = (*DomainError)(nil)
)
