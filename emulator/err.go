package emulator

import (
	"errors"
	"strconv"

	"github.com/ezrec/regmach/translate"
)

var f = translate.From

var (
	ErrMemorySize = errors.New(f("memory-size must be non-zero"))
	ErrNoProgram  = errors.New(f("no program loaded"))
)

// ErrRuntime indicates the location of a runtime error.
type ErrRuntime struct {
	LineNo int
	Offset uint32
	Label  string
	Err    error
}

func (err *ErrRuntime) Error() string {
	lineno := strconv.Itoa(err.LineNo)
	if len(err.Label) != 0 {
		return f("line %v (%v) %v", lineno, err.Label, err.Err)
	}
	return f("line %v %v", lineno, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}

// ErrConfig indicates a configuration file error.
type ErrConfig struct {
	Path string
	Err  error
}

func (err *ErrConfig) Error() string {
	return f("%v: %v", err.Path, err.Err)
}

func (err *ErrConfig) Unwrap() error {
	return err.Err
}
