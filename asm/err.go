package asm

import (
	"errors"
	"strconv"

	"github.com/ezrec/regmach/translate"
)

var f = translate.From

var (
	// Assembler errors
	ErrUnexpectedEOF   = errors.New(f("unexpected end of file"))
	ErrLabelDuplicate  = errors.New(f("label duplicated"))
	ErrRegisterInvalid = errors.New(f("register number must be < 8"))
	ErrNumberRange     = errors.New(f("number out of 32-bit range"))
	ErrReferenceSyntax = errors.New(f("expected label or number after '@'"))
	ErrCharLength      = errors.New(f("char must be exactly one character"))
	ErrScan            = errors.New(f("scan errors"))
)

// ErrCharacter is an unexpected character in the source.
type ErrCharacter string

func (err ErrCharacter) Error() string {
	return f("unexpected character '%v'", string(err))
}

// ErrExpected is a missing token.
type ErrExpected struct {
	Expected TokenKind
	Found    Token
}

func (err ErrExpected) Error() string {
	return f("expected '%v', found '%v'", err.Expected, err.Found.Text)
}

// ErrBadToken is a token that cannot start a statement.
type ErrBadToken string

func (err ErrBadToken) Error() string {
	return f("bad token '%v'", string(err))
}

type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v used but not defined", string(el))
}

type ErrLabelUnused string

func (el ErrLabelUnused) Error() string {
	return f("label %v defined but not used", string(el))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("%v is not a valid expression", string(err))
}

// ErrPredefine is a predefined symbol that could not be evaluated.
type ErrPredefine struct {
	Name string
	Err  error
}

func (err ErrPredefine) Error() string {
	return f("predefine %v: %v", err.Name, err.Err)
}

func (err ErrPredefine) Unwrap() error {
	return err.Err
}

// ErrSyntax locates an error in the source.
type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %v '%v' %v", strconv.Itoa(err.LineNo), err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

// ErrAssembly is the collection of all errors of a failed assembly.
type ErrAssembly struct {
	Errors int
	Err    error
}

func (err *ErrAssembly) Error() string {
	return f("compilation failed with %v errors\n%v", strconv.Itoa(err.Errors), err.Err)
}

func (err *ErrAssembly) Unwrap() error {
	return err.Err
}
